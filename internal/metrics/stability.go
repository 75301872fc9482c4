package metrics

import (
	"math"

	"github.com/san-kum/boxlight/internal/assets"
	"github.com/san-kum/boxlight/internal/config"
	"github.com/san-kum/boxlight/internal/scene"
)

// Stability is the fraction of steps on which every object's center is
// inside the visible frame.
type Stability struct {
	name         string
	halfW, halfH float64
	camX, camY   float64
	violations   int
	samples      int
}

func NewStability(cfg *config.Config) *Stability {
	scale := assets.PixelsPerUnit * cfg.Zoom
	return &Stability{
		name:  "in_view",
		halfW: float64(cfg.Width) / 2 / scale,
		halfH: float64(cfg.Height) / 2 / scale,
		camX:  cfg.CameraX,
		camY:  cfg.CameraY,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) OnStep(step int, t float64, sc *scene.Scene) {
	s.samples++
	for _, o := range sc.Objects() {
		p := o.Position()
		if math.Abs(p.X+s.camX) > s.halfW || math.Abs(p.Y+s.camY) > s.halfH {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
