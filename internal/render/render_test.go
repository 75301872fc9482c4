package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/boxlight/internal/assets"
	"github.com/san-kum/boxlight/internal/config"
	"github.com/san-kum/boxlight/internal/scene"
)

func build(t testing.TB, cfg *config.Config, patterns *assets.Patterns) *scene.Scene {
	t.Helper()
	sc, err := scene.Build(cfg, patterns, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return sc
}

func smallConfig(objects ...config.ObjectSpec) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Width, cfg.Height = 256, 256
	cfg.Zoom = 0.25
	cfg.Objects = objects
	return cfg
}

func TestViewTransform(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Zoom = 2
	cfg.CameraX = 1

	m := View(cfg)
	x, y := apply(m, -1, 0)
	if x != 256 || y != 256 {
		t.Errorf("expected camera-shifted origin at (256,256), got (%g,%g)", x, y)
	}
	x, _ = apply(m, 0, 0)
	if x != 256+128 {
		t.Errorf("expected one unit to span 128px at zoom 2, got %g", x-256)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := mul(translate(10, -4), mul(rotate(0.7), scale(3)))
	inv := invert(m)
	x, y := apply(m, 1.5, -2)
	bx, by := apply(inv, x, y)
	if math.Abs(bx-1.5) > 1e-9 || math.Abs(by+2) > 1e-9 {
		t.Errorf("expected (1.5,-2), got (%g,%g)", bx, by)
	}
}

func TestDefaultBackground(t *testing.T) {
	cfg := smallConfig()
	cfg.Objects = []config.ObjectSpec{}
	r := New(cfg, nil, nil)

	f := r.Render(build(t, cfg, nil))
	if got := f.Image().RGBAAt(10, 10); got != DefaultBackground {
		t.Errorf("expected %v, got %v", DefaultBackground, got)
	}
}

func TestBackgroundColor(t *testing.T) {
	cfg := smallConfig()
	cfg.Objects = []config.ObjectSpec{}
	cfg.BackgroundColor = []float64{10, 20, 30}

	f := New(cfg, nil, nil).Render(build(t, cfg, nil))
	want := color.RGBA{10, 20, 30, 255}
	if got := f.Image().RGBAAt(200, 3); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

type stripes struct{}

func (stripes) Get(string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 0, 255, 255})
	return img
}

func TestBackgroundTiles(t *testing.T) {
	cfg := smallConfig()
	cfg.Objects = []config.ObjectSpec{}
	cfg.Background = "stripes.png"
	patterns := assets.NewPatterns(stripes{})

	img := New(cfg, patterns, nil).Render(build(t, cfg, patterns)).Image()
	if img.RGBAAt(0, 0) != img.RGBAAt(2, 5) {
		t.Error("expected the background to repeat every 2 pixels")
	}
	if img.RGBAAt(0, 0) == img.RGBAAt(1, 0) {
		t.Error("expected adjacent columns to differ")
	}
}

func TestObjectDrawnAtPosition(t *testing.T) {
	cfg := smallConfig(config.ObjectSpec{Type: config.ShapeBox, X: 2, Y: -2})
	f := New(cfg, nil, nil).Render(build(t, cfg, nil))
	img := f.Image()

	// 16 pixels per unit: the box covers [144,176] x [80,112], drawn with
	// the placeholder since it names no image.
	if got := img.RGBAAt(152, 88); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("expected black top-left quadrant, got %v", got)
	}
	if got := img.RGBAAt(168, 88); got != (color.RGBA{255, 0, 255, 255}) {
		t.Errorf("expected magenta top-right quadrant, got %v", got)
	}
	if got := img.RGBAAt(140, 96); got != DefaultBackground {
		t.Errorf("expected background left of the box, got %v", got)
	}
	if got := img.RGBAAt(128, 128); got != DefaultBackground {
		t.Errorf("expected background at the origin, got %v", got)
	}
}

func TestPatternFillsBox(t *testing.T) {
	patterns := assets.NewPatterns(nil)
	cfg := smallConfig(config.ObjectSpec{Type: config.ShapeBox, Image: "missing.png"})
	f := New(cfg, patterns, nil).Render(build(t, cfg, patterns))
	img := f.Image()

	magenta := color.RGBA{255, 0, 255, 255}
	black := color.RGBA{0, 0, 0, 255}
	// Placeholder top-right quadrant is magenta, top-left is black.
	if got := img.RGBAAt(128+8, 128-8); got != magenta {
		t.Errorf("expected magenta, got %v", got)
	}
	if got := img.RGBAAt(128-8, 128-8); got != black {
		t.Errorf("expected black, got %v", got)
	}
}

func TestObjectWithoutPatternUsesFill(t *testing.T) {
	cfg := smallConfig(config.ObjectSpec{Type: config.ShapeBox})
	sc := build(t, cfg, nil)
	sc.Objects()[0].Pattern = nil

	img := New(cfg, nil, nil).Render(sc).Image()
	if got := img.RGBAAt(128, 128); got != DefaultFill {
		t.Errorf("expected flat fill, got %v", got)
	}
	if got := img.RGBAAt(128+20, 128); got != DefaultBackground {
		t.Errorf("expected a unit-sized box, got %v at 20px", got)
	}
}

func TestFramesAreOpaque(t *testing.T) {
	cfg := smallConfig(
		config.ObjectSpec{Type: config.ShapeCircle, X: -5, Light: true},
		config.ObjectSpec{Type: config.ShapeBox},
	)
	img := New(cfg, nil, nil).Render(build(t, cfg, nil)).Image()
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("expected opaque pixel at byte %d, got alpha %d", i, img.Pix[i])
		}
	}
}

func TestShadowCastAwayFromLight(t *testing.T) {
	cfg := smallConfig(
		config.ObjectSpec{Type: config.ShapeCircle, X: -5, Light: true},
		config.ObjectSpec{Type: config.ShapeBox},
	)
	img := New(cfg, nil, nil).Render(build(t, cfg, nil)).Image()

	behind := img.RGBAAt(128+48, 128)
	if behind.G >= DefaultBackground.G {
		t.Errorf("expected shadow behind the box, got %v", behind)
	}
	if behind.R != 0 || behind.B != 0 {
		t.Errorf("expected shadow to only darken, got %v", behind)
	}

	aside := img.RGBAAt(128+48, 128-48)
	if aside != DefaultBackground {
		t.Errorf("expected no shadow outside the cone, got %v", aside)
	}

	front := img.RGBAAt(128-40, 128)
	if front != DefaultBackground {
		t.Errorf("expected no shadow between light and box, got %v", front)
	}
}

func TestNoLightNoShadow(t *testing.T) {
	cfg := smallConfig(config.ObjectSpec{Type: config.ShapeBox})
	img := New(cfg, nil, nil).Render(build(t, cfg, nil)).Image()
	if got := img.RGBAAt(128+48, 128); got != DefaultBackground {
		t.Errorf("expected untouched background, got %v", got)
	}
}

func TestEdgesFacingLight(t *testing.T) {
	light := cp.Vector{X: 0, Y: 5}
	edges := Edges(cp.Vector{}, 0)

	// Only the bottom edge faces a light straight below.
	kept := 0
	for _, e := range edges {
		if FacesLight(e, light) {
			kept++
		}
	}
	if kept != 1 {
		t.Errorf("expected 1 lit edge, got %d", kept)
	}
	if !FacesLight(edges[0], light) {
		t.Error("expected the bottom edge to face the light")
	}
	if FacesLight(edges[2], light) {
		t.Error("expected the top edge to face away from the light")
	}
}

func TestEdgeNormalsPointOutward(t *testing.T) {
	pos := cp.Vector{X: 3, Y: -1}
	for i, e := range Edges(pos, 0.9) {
		mid := e.A.Add(e.B).Mult(0.5)
		if e.Normal().Dot(mid.Sub(pos)) <= 0 {
			t.Errorf("edge %d: expected outward normal", i)
		}
	}
}

func TestFacesLightProperty(t *testing.T) {
	edge := Edge{A: cp.Vector{X: -1, Y: 1}, B: cp.Vector{X: 1, Y: 1}}
	n := edge.Normal().Normalize()
	mid := cp.Vector{X: 0, Y: 1}

	for _, d := range []float64{0.5, 2, 40} {
		toward := mid.Add(n.Mult(d))
		if !FacesLight(edge, toward) {
			t.Errorf("expected edge to face a light %g along its normal", d)
		}
		away := mid.Sub(n.Mult(d))
		if FacesLight(edge, away) {
			t.Errorf("expected edge to face away from a light %g behind it", d)
		}
	}
}

func TestProjectLength(t *testing.T) {
	light := cp.Vector{X: 0, Y: 5}
	q := Project(Edges(cp.Vector{}, 0)[0], light)
	if q[0] != (cp.Vector{X: -1, Y: 1}) || q[3] != (cp.Vector{X: 1, Y: 1}) {
		t.Errorf("expected quad to start and end on the edge, got %v", q)
	}
	for _, d := range []float64{q[1].Sub(q[0]).Length(), q[2].Sub(q[3]).Length()} {
		if math.Abs(d-ShadowLength) > 1e-9 {
			t.Errorf("expected projection %g, got %g", ShadowLength, d)
		}
	}
}

func TestSilhouetteSkipsLight(t *testing.T) {
	cfg := smallConfig(
		config.ObjectSpec{Type: config.ShapeBox, X: -5, Light: true},
		config.ObjectSpec{Type: config.ShapeBox},
	)
	sc := build(t, cfg, nil)
	light, _ := sc.Light()

	quads := Silhouette(sc.Objects(), light)
	// A light level with the box sees exactly one face.
	if len(quads) != 1 {
		t.Errorf("expected 1 quad, got %d", len(quads))
	}
	if Silhouette(sc.Objects(), nil) != nil {
		t.Error("expected no silhouette without a light")
	}
}

func BenchmarkRender(b *testing.B) {
	cfg := config.GetPreset("eclipse")
	sc := build(b, cfg, nil)
	r := New(cfg, nil, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Render(sc)
	}
}
