package sim

import (
	"github.com/san-kum/boxlight/internal/frame"
	"github.com/san-kum/boxlight/internal/scene"
)

// Renderer produces one frame from the current scene state.
type Renderer interface {
	Render(sc *scene.Scene) *frame.Frame
}

// Observer is notified after every step, once the frame has been appended.
type Observer interface {
	OnStep(step int, t float64, sc *scene.Scene)
}

type Config struct {
	Framerate float64
	Length    float64
}

// Dt is the fixed physics timestep.
func (c Config) Dt() float64 { return 1 / c.Framerate }
