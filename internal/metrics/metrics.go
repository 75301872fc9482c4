// Package metrics summarizes a generated run in a few numbers. Every
// metric observes the scene after each step, the same way the trace does.
package metrics

import (
	"github.com/san-kum/boxlight/internal/config"
	"github.com/san-kum/boxlight/internal/scene"
)

type Metric interface {
	Name() string
	OnStep(step int, t float64, sc *scene.Scene)
	Value() float64
	Reset()
}

// Default returns the metrics recorded for every run of cfg.
func Default(cfg *config.Config) []Metric {
	return []Metric{
		NewEnergy(),
		NewPeakEnergy(),
		NewStability(cfg),
	}
}

// Values collects the current value of each metric by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
