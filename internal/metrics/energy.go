package metrics

import (
	"math"

	"github.com/san-kum/boxlight/internal/scene"
)

// Energy is the mean kinetic energy over all steps.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnStep(step int, t float64, sc *scene.Scene) {
	e.totalEnergy += sc.KineticEnergy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// PeakEnergy is the largest kinetic energy seen at any step.
type PeakEnergy struct {
	name string
	peak float64
}

func NewPeakEnergy() *PeakEnergy {
	return &PeakEnergy{name: "peak_energy"}
}

func (p *PeakEnergy) Name() string { return p.name }

func (p *PeakEnergy) OnStep(step int, t float64, sc *scene.Scene) {
	p.peak = math.Max(p.peak, sc.KineticEnergy())
}

func (p *PeakEnergy) Value() float64 { return p.peak }
func (p *PeakEnergy) Reset()         { p.peak = 0 }
