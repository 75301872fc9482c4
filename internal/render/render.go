// Package render rasterizes one scene state into one frame: background,
// textured bodies, then a soft shadow cast by the scene's light.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/san-kum/boxlight/internal/assets"
	"github.com/san-kum/boxlight/internal/config"
	"github.com/san-kum/boxlight/internal/diag"
	"github.com/san-kum/boxlight/internal/frame"
	"github.com/san-kum/boxlight/internal/scene"
)

const (
	// PixelsPerUnit is the view scale at zoom 1.
	PixelsPerUnit = assets.PixelsPerUnit

	discSegments = 64
)

var (
	DefaultBackground = color.RGBA{0, 77, 0, 255}
	DefaultFill       = color.RGBA{200, 200, 200, 255}
)

// Renderer turns scene states into frames. One Renderer serves one
// configuration; it is not safe for concurrent use.
type Renderer struct {
	width, height int
	zoom          float64
	view          f64.Aff3
	background    *image.RGBA

	raster *vector.Rasterizer
	masks  *maskPool
}

// New prepares a renderer for cfg. The background image, if any, is
// resolved through patterns once.
func New(cfg *config.Config, patterns *assets.Patterns, sink diag.Sink) *Renderer {
	if patterns == nil && cfg.Background != "" {
		diag.Or(sink).Printf("No image source for background %s, using placeholder", cfg.Background)
		patterns = assets.NewPatterns(nil)
	}
	w, h := cfg.Width, cfg.Height
	return &Renderer{
		width:      w,
		height:     h,
		zoom:       cfg.Zoom,
		view:       View(cfg),
		background: paintBackground(cfg, patterns),
		raster:     vector.NewRasterizer(w, h),
		masks:      newMaskPool(w, h),
	}
}

// View maps world coordinates to pixels: center, scale, zoom, then camera
// offset.
func View(cfg *config.Config) f64.Aff3 {
	m := translate(float64(cfg.Width)/2, float64(cfg.Height)/2)
	m = mul(m, scale(PixelsPerUnit))
	m = mul(m, scale(cfg.Zoom))
	return mul(m, translate(cfg.CameraX, cfg.CameraY))
}

func (r *Renderer) View() f64.Aff3 { return r.view }

// ToPixel maps a world point into frame coordinates.
func (r *Renderer) ToPixel(p cp.Vector) (float64, float64) {
	return apply(r.view, p.X, p.Y)
}

// Render draws the current state of sc into a new frame.
func (r *Renderer) Render(sc *scene.Scene) *frame.Frame {
	f := frame.New(r.width, r.height)
	dst := f.Image()
	copy(dst.Pix, r.background.Pix)

	for _, o := range sc.Objects() {
		r.drawObject(dst, o)
	}

	if light, ok := sc.Light(); ok {
		r.drawShadow(dst, Silhouette(sc.Objects(), light), light.Position())
	}
	return f
}

func paintBackground(cfg *config.Config, patterns *assets.Patterns) *image.RGBA {
	bg := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))

	fill := DefaultBackground
	if c := cfg.BackgroundColor; len(c) == 3 {
		fill = color.RGBA{
			R: uint8(math.Round(c[0])),
			G: uint8(math.Round(c[1])),
			B: uint8(math.Round(c[2])),
			A: 255,
		}
	}

	var tile *assets.Pattern
	if cfg.Background != "" {
		tile = patterns.Get(cfg.Background)
		fill = color.RGBA{A: 255}
	}

	for y := 0; y < cfg.Height; y++ {
		row := bg.Pix[y*bg.Stride : y*bg.Stride+cfg.Width*4]
		for x := 0; x < cfg.Width; x++ {
			px := row[x*4 : x*4+4 : x*4+4]
			px[0], px[1], px[2], px[3] = fill.R, fill.G, fill.B, 255
			if tile == nil {
				continue
			}
			i := tile.Image.PixOffset(x%tile.Width, y%tile.Height)
			src := tile.Image.Pix[i : i+4 : i+4]
			over(px, src[0], src[1], src[2], src[3], 255)
		}
	}
	return bg
}

func (r *Renderer) drawObject(dst *image.RGBA, o *scene.Object) {
	size := 1.0
	if o.Pattern != nil {
		size = o.Pattern.Size()
	}

	pos := o.Position()
	m := mul(r.view, mul(translate(pos.X, pos.Y), rotate(o.Angle())))

	r.raster.Reset(r.width, r.height)
	var box image.Rectangle
	if o.Kind == config.ShapeCircle {
		box = r.disc(m, size)
	} else {
		box = r.polygon(m, [][2]float64{{-size, -size}, {size, -size}, {size, size}, {-size, size}})
	}
	box = box.Intersect(dst.Rect)
	if box.Empty() {
		return
	}

	mask := r.masks.Get()
	defer r.masks.Put(mask)
	r.raster.Draw(mask, mask.Rect, image.Opaque, image.Point{})

	inv := invert(m)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			cov := mask.Pix[mask.PixOffset(x, y)]
			if cov == 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			px := dst.Pix[i : i+4 : i+4]
			if o.Pattern == nil {
				over(px, DefaultFill.R, DefaultFill.G, DefaultFill.B, 255, cov)
				continue
			}
			u, v := apply(inv, float64(x)+0.5, float64(y)+0.5)
			sr, sg, sb, sa := o.Pattern.At(u, v)
			over(px, sr, sg, sb, sa, cov)
		}
	}
}

// polygon adds a closed path through the object-local points pts and
// returns its pixel bounds.
func (r *Renderer) polygon(m f64.Aff3, pts [][2]float64) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range pts {
		x, y := apply(m, p[0], p[1])
		if i == 0 {
			r.raster.MoveTo(float32(x), float32(y))
		} else {
			r.raster.LineTo(float32(x), float32(y))
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	r.raster.ClosePath()
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}

func (r *Renderer) disc(m f64.Aff3, radius float64) image.Rectangle {
	pts := make([][2]float64, discSegments)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / discSegments)
		pts[i] = [2]float64{radius * cos, radius * sin}
	}
	return r.polygon(m, pts)
}

func (r *Renderer) drawShadow(dst *image.RGBA, quads []Quad, light cp.Vector) {
	if len(quads) == 0 {
		return
	}

	r.raster.Reset(r.width, r.height)
	for _, q := range quads {
		r.polygon(r.view, [][2]float64{
			{q[0].X, q[0].Y}, {q[1].X, q[1].Y}, {q[2].X, q[2].Y}, {q[3].X, q[3].Y},
		})
	}

	mask := r.masks.Get()
	defer r.masks.Put(mask)
	r.raster.Draw(mask, mask.Rect, image.Opaque, image.Point{})

	lx, ly := r.ToPixel(light)
	radius := FalloffRadius * PixelsPerUnit * r.zoom

	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			cov := mask.Pix[mask.PixOffset(x, y)]
			if cov == 0 {
				continue
			}
			d := math.Hypot(float64(x)+0.5-lx, float64(y)+0.5-ly)
			falloff := 1 - d/radius
			if falloff <= 0 {
				continue
			}
			keep := 1 - ShadowOpacity*falloff*float64(cov)/255
			i := dst.PixOffset(x, y)
			px := dst.Pix[i : i+3 : i+3]
			px[0] = uint8(math.Round(float64(px[0]) * keep))
			px[1] = uint8(math.Round(float64(px[1]) * keep))
			px[2] = uint8(math.Round(float64(px[2]) * keep))
		}
	}
}

// over composites a premultiplied source pixel onto dst with coverage cov.
func over(dst []uint8, r, g, b, a, cov uint8) {
	c := uint32(cov)
	sa := (uint32(a)*c + 127) / 255
	k := 255 - sa
	dst[0] = uint8((uint32(r)*c + uint32(dst[0])*k + 127) / 255)
	dst[1] = uint8((uint32(g)*c + uint32(dst[1])*k + 127) / 255)
	dst[2] = uint8((uint32(b)*c + uint32(dst[2])*k + 127) / 255)
	dst[3] = uint8((sa*255 + uint32(dst[3])*k + 127) / 255)
}
