// Package frame holds rasterized animation frames and the ordered sequences
// they live in.
package frame

import (
	"image"
	"sync"
)

// Frame is one rasterized instant. The pixel buffer is written once by the
// renderer (or the blend engine) and treated as read-only afterwards.
type Frame struct {
	img *image.RGBA

	once         sync.Once
	presentation any
}

// New allocates a width x height frame. Pixels start transparent black.
func New(width, height int) *Frame {
	return &Frame{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// FromImage wraps an existing buffer. The frame takes ownership of img.
func FromImage(img *image.RGBA) *Frame {
	return &Frame{img: img}
}

func (f *Frame) Image() *image.RGBA { return f.img }
func (f *Frame) Width() int         { return f.img.Rect.Dx() }
func (f *Frame) Height() int        { return f.img.Rect.Dy() }

// Presentation returns the display-side handle for this frame, building it
// with build the first time it is asked for. Later calls return the same
// handle whatever build they pass.
func (f *Frame) Presentation(build func(*image.RGBA) any) any {
	f.once.Do(func() {
		f.presentation = build(f.img)
	})
	return f.presentation
}
