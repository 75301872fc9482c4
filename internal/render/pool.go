package render

import (
	"image"
	"sync"
)

// maskPool recycles alpha masks of one size between frames.
type maskPool struct {
	pool sync.Pool
	size image.Point
}

func newMaskPool(w, h int) *maskPool {
	p := &maskPool{size: image.Pt(w, h)}
	p.pool.New = func() any {
		return image.NewAlpha(image.Rect(0, 0, w, h))
	}
	return p
}

// Get returns a cleared mask.
func (p *maskPool) Get() *image.Alpha {
	m := p.pool.Get().(*image.Alpha)
	clear(m.Pix)
	return m
}

func (p *maskPool) Put(m *image.Alpha) {
	if m.Rect.Size() == p.size {
		p.pool.Put(m)
	}
}
