// Package sim generates an animation: it steps the scene at a fixed rate and
// renders one frame after every step.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/boxlight/internal/frame"
	"github.com/san-kum/boxlight/internal/scene"
)

type Simulator struct {
	scene     *scene.Scene
	renderer  Renderer
	observers []Observer
}

func New(sc *scene.Scene, renderer Renderer) *Simulator {
	return &Simulator{
		scene:     sc,
		renderer:  renderer,
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// FrameCount is round(framerate * length).
func FrameCount(cfg Config) int {
	return int(math.Round(cfg.Framerate * cfg.Length))
}

// Run produces the whole sequence. Steps are strictly sequential; the
// context is only consulted between them. A cancelled run returns no frames.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*frame.Sequence, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	n := FrameCount(cfg)
	dt := cfg.Dt()
	seq := frame.NewSequence(n)
	t := 0.0

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		s.scene.Step(dt)
		t += dt
		seq.Append(s.renderer.Render(s.scene))

		for _, obs := range s.observers {
			obs.OnStep(i, t, s.scene)
		}
	}

	return seq, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.scene == nil || s.renderer == nil {
		return fmt.Errorf("simulator needs a scene and a renderer")
	}
	if math.IsNaN(cfg.Framerate) || math.IsInf(cfg.Framerate, 0) || cfg.Framerate <= 0 {
		return fmt.Errorf("framerate must be positive, got %f", cfg.Framerate)
	}
	if math.IsNaN(cfg.Length) || math.IsInf(cfg.Length, 0) || cfg.Length < 0 {
		return fmt.Errorf("length must be non-negative, got %f", cfg.Length)
	}
	return nil
}
