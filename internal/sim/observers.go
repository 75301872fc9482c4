package sim

import (
	"fmt"

	"github.com/san-kum/boxlight/internal/diag"
	"github.com/san-kum/boxlight/internal/scene"
)

type BodySample struct {
	X, Y, Angle float64
}

type Sample struct {
	Step   int
	Time   float64
	Energy float64
	Bodies []BodySample
}

// Trace records body poses and total kinetic energy after every step.
type Trace struct {
	Samples []Sample
}

func NewTrace() *Trace {
	return &Trace{Samples: make([]Sample, 0)}
}

func (tr *Trace) OnStep(step int, t float64, sc *scene.Scene) {
	objs := sc.Objects()
	bodies := make([]BodySample, len(objs))
	for i, o := range objs {
		p := o.Position()
		bodies[i] = BodySample{X: p.X, Y: p.Y, Angle: o.Angle()}
	}
	tr.Samples = append(tr.Samples, Sample{
		Step:   step,
		Time:   t,
		Energy: sc.KineticEnergy(),
		Bodies: bodies,
	})
}

// Header names the columns of Rows.
func (tr *Trace) Header() []string {
	header := []string{"step", "time", "energy"}
	if len(tr.Samples) == 0 {
		return header
	}
	for i := range tr.Samples[0].Bodies {
		header = append(header,
			fmt.Sprintf("b%d_x", i),
			fmt.Sprintf("b%d_y", i),
			fmt.Sprintf("b%d_angle", i),
		)
	}
	return header
}

// Rows flattens the trace into one row per step, matching Header.
func (tr *Trace) Rows() [][]float64 {
	rows := make([][]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		row := make([]float64, 0, 3+3*len(s.Bodies))
		row = append(row, float64(s.Step), s.Time, s.Energy)
		for _, b := range s.Bodies {
			row = append(row, b.X, b.Y, b.Angle)
		}
		rows[i] = row
	}
	return rows
}

// Progress reports generation progress to a sink in 10% increments.
type Progress struct {
	sink  diag.Sink
	total int
	last  int
}

func NewProgress(total int, sink diag.Sink) *Progress {
	return &Progress{sink: diag.Or(sink), total: total, last: -1}
}

func (p *Progress) OnStep(step int, t float64, sc *scene.Scene) {
	if p.total <= 0 {
		return
	}
	pct := (step + 1) * 100 / p.total
	bucket := pct / 10
	if bucket > p.last {
		p.last = bucket
		p.sink.Printf("Generating frames: %d%% (%d/%d)", pct, step+1, p.total)
	}
}
