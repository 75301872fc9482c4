package assets

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const (
	// PixelsPerUnit is how many image pixels span one world unit.
	PixelsPerUnit = 64.0

	// ObjectSize is the side length of a unit box in world units.
	ObjectSize = 2.0
)

// Pattern is a tileable paint source. Matrix maps object-local coordinates
// to image pixels, centered on the image.
type Pattern struct {
	Image  *image.RGBA
	Matrix f64.Aff3
	Width  int
	Height int
}

// NewPattern copies img into an RGBA buffer anchored at the origin and
// derives its object-space matrix.
func NewPattern(img image.Image) *Pattern {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	k := PixelsPerUnit / ObjectSize
	w, h := float64(b.Dx()), float64(b.Dy())
	return &Pattern{
		Image: rgba,
		Matrix: f64.Aff3{
			k, 0, w / 2,
			0, k, h / 2,
		},
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}

// Size is the half extent, in object units, that the pattern covers at its
// intrinsic resolution.
func (p *Pattern) Size() float64 {
	return float64(p.Width) / PixelsPerUnit
}

// At samples the pattern at object-local (x, y), repeating outside the image.
func (p *Pattern) At(x, y float64) (r, g, b, a uint8) {
	m := &p.Matrix
	px := int(math.Floor(m[0]*x + m[1]*y + m[2]))
	py := int(math.Floor(m[3]*x + m[4]*y + m[5]))
	px = wrap(px, p.Width)
	py = wrap(py, p.Height)
	i := p.Image.PixOffset(px, py)
	s := p.Image.Pix[i : i+4 : i+4]
	return s[0], s[1], s[2], s[3]
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Patterns resolves image references to patterns for one scene. All objects
// naming the same reference share one Pattern. It is not safe for concurrent
// use; a scene is built and rendered on one goroutine.
type Patterns struct {
	src      Source
	patterns map[string]*Pattern
}

func NewPatterns(src Source) *Patterns {
	return &Patterns{src: src, patterns: make(map[string]*Pattern)}
}

// Get returns the pattern for ref, decoding it on first use. An empty
// reference names no file and gets the placeholder.
func (c *Patterns) Get(ref string) *Pattern {
	if p, ok := c.patterns[ref]; ok {
		return p
	}
	var img image.Image
	if c.src != nil && ref != "" {
		img = c.src.Get(ref)
	}
	if img == nil || img.Bounds().Empty() {
		img = Placeholder()
	}
	p := NewPattern(img)
	c.patterns[ref] = p
	return p
}

func (c *Patterns) Len() int { return len(c.patterns) }
