// Package scene builds the physics world for one animation: a static ground,
// one dynamic body per configured object, and an optional light.
package scene

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/boxlight/internal/assets"
	"github.com/san-kum/boxlight/internal/config"
	"github.com/san-kum/boxlight/internal/diag"
)

const (
	Friction = 0.3

	// HalfExtent is the half side of a box and the radius of a circle.
	HalfExtent = 1.0

	// Iterations is the solver iteration count for every step.
	Iterations = 10
)

// Ground is the static safety floor, in world units.
var Ground = cp.BB{L: -50, B: 0, R: 50, T: 20}

// Object pairs a body with the pattern it is drawn with. Pattern is nil for
// objects without an image.
type Object struct {
	Body    *cp.Body
	Kind    string
	Image   string
	Pattern *assets.Pattern
}

func (o *Object) Position() cp.Vector { return o.Body.Position() }
func (o *Object) Angle() float64      { return o.Body.Angle() }

// Scene owns a physics space and the objects living in it. It is not safe
// for concurrent use.
type Scene struct {
	cfg      *config.Config
	space    *cp.Space
	objects  []*Object
	light    int
	patterns *assets.Patterns
	elapsed  float64
	steps    int
}

// Build creates a fresh world from cfg. Nothing outside the returned Scene
// is touched, so a caller holding an older scene keeps it intact on error.
func Build(cfg *config.Config, patterns *assets.Patterns, sink diag.Sink) (*Scene, error) {
	if cfg == nil {
		return nil, fmt.Errorf("scene: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sink = diag.Or(sink)
	if patterns == nil {
		patterns = assets.NewPatterns(nil)
	}

	space := cp.NewSpace()
	space.Iterations = Iterations
	space.SetGravity(cp.Vector{X: cfg.GravityX, Y: cfg.GravityY})

	ground := space.AddShape(cp.NewBox2(space.StaticBody, Ground, 0))
	ground.SetFriction(Friction)

	s := &Scene{
		cfg:      cfg,
		space:    space,
		objects:  make([]*Object, 0, len(cfg.Objects)),
		light:    -1,
		patterns: patterns,
	}

	for i, spec := range cfg.Objects {
		spawn, ok := spawners[spec.Type]
		if !ok {
			sink.Printf("Skipping object %d: unknown type %q", i, spec.Type)
			continue
		}
		body := spawn(space, spec.EffectiveDensity())
		body.SetPosition(cp.Vector{X: spec.X, Y: spec.Y})

		m := body.Mass()
		impulse := cp.Vector{X: spec.VX * m, Y: spec.VY * m}
		body.ApplyImpulseAtWorldPoint(impulse, body.Position())

		obj := &Object{
			Body:    body,
			Kind:    spec.Type,
			Image:   spec.Image,
			Pattern: patterns.Get(spec.Image),
		}
		s.objects = append(s.objects, obj)

		if spec.Light {
			if s.light >= 0 {
				sink.Printf("Ignoring light flag on object %d: object %d is already the light", i, s.light)
				continue
			}
			s.light = len(s.objects) - 1
		}
	}

	return s, nil
}

// Step advances the world by dt seconds.
func (s *Scene) Step(dt float64) {
	s.space.Step(dt)
	s.elapsed += dt
	s.steps++
}

func (s *Scene) Objects() []*Object         { return s.objects }
func (s *Scene) Config() *config.Config     { return s.cfg }
func (s *Scene) Patterns() *assets.Patterns { return s.patterns }
func (s *Scene) Space() *cp.Space           { return s.space }
func (s *Scene) Elapsed() float64           { return s.elapsed }
func (s *Scene) Steps() int                 { return s.steps }

// Light returns the light object, if the scene has one.
func (s *Scene) Light() (*Object, bool) {
	if s.light < 0 {
		return nil, false
	}
	return s.objects[s.light], true
}

// IsLight reports whether o is the scene's light.
func (s *Scene) IsLight(o *Object) bool {
	l, ok := s.Light()
	return ok && l == o
}

// KineticEnergy sums the kinetic energy of every object.
func (s *Scene) KineticEnergy() float64 {
	var e float64
	for _, o := range s.objects {
		e += o.Body.KineticEnergy()
	}
	return e
}
