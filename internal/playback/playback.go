// Package playback maps elapsed time to a frame index under pause, reverse
// and single-step controls.
package playback

import (
	"errors"
	"math"
	"time"
)

const MaxFramerate = 1000.0

var ErrFramerate = errors.New("playback: framerate must be a positive number")

// Controller is the playback state machine. It is driven from one goroutine,
// normally the display loop, and never blocks.
//
// Times passed to Current are offsets from an arbitrary fixed origin, such
// as the moment the display loop started. Feeding the same offsets and
// controls in the same order yields the same indices.
type Controller struct {
	paused    bool
	reversed  bool
	index     int
	framerate float64

	next     time.Duration
	anchored bool
}

// New returns a playing, forward controller at fps, clamped to
// MaxFramerate. A non-positive fps falls back to 1.
func New(fps float64) *Controller {
	c := &Controller{framerate: 1}
	_ = c.SetFramerate(fps)
	return c
}

func (c *Controller) Pause()             { c.paused = true }
func (c *Controller) Resume()            { c.paused = false }
func (c *Controller) TogglePause()       { c.paused = !c.paused }
func (c *Controller) Reverse()           { c.reversed = !c.reversed }
func (c *Controller) Paused() bool       { return c.paused }
func (c *Controller) Reversed() bool     { return c.reversed }
func (c *Controller) Index() int         { return c.index }
func (c *Controller) Framerate() float64 { return c.framerate }

// SetFramerate changes the playback rate. Values above MaxFramerate are
// clamped; non-positive or non-finite values are rejected and the previous
// rate stays in effect.
func (c *Controller) SetFramerate(fps float64) error {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return ErrFramerate
	}
	c.framerate = math.Min(fps, MaxFramerate)
	return nil
}

// FrameDuration is max(1ms, round(1000/fps) ms).
func (c *Controller) FrameDuration() time.Duration {
	ms := math.Round(1000 / c.framerate)
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// Advance moves the index by steps and wraps it into [0, n). With n == 0
// the index is pinned to 0.
func (c *Controller) Advance(steps, n int) {
	if n <= 0 {
		c.index = 0
		return
	}
	c.index = (c.index + steps%n) % n
	if c.index < 0 {
		c.index += n
	}
}

// Current returns the index to show at now for a sequence of n frames, and
// false if the sequence is empty. Unless paused, it advances by every whole
// frame period that has elapsed since the last deadline, backwards when
// reversed. The first call only anchors the schedule.
func (c *Controller) Current(now time.Duration, n int) (int, bool) {
	if n <= 0 {
		c.index = 0
		return 0, false
	}

	step := c.FrameDuration()
	if !c.anchored {
		c.anchored = true
		c.next = now + step
	}

	if !c.paused && now >= c.next {
		steps := 0
		for c.next < now {
			steps++
			c.next += step
		}
		if c.reversed {
			steps = -steps
		}
		c.Advance(steps, n)
	}

	c.Advance(0, n)
	return c.index, true
}

// Reset returns to the first frame, playing forward at fps. A rejected fps
// leaves the rate at 1.
func (c *Controller) Reset(fps float64) {
	*c = Controller{framerate: 1}
	_ = c.SetFramerate(fps)
}
