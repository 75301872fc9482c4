package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/boxlight/internal/diag"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestPlaceholder(t *testing.T) {
	img := Placeholder()
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("expected 64x64, got %v", img.Bounds())
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{0, 0, 0, 255}},
		{40, 10, color.RGBA{255, 0, 255, 255}},
		{10, 40, color.RGBA{255, 0, 255, 255}},
		{40, 40, color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("at (%d,%d): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
}

func TestDirSourceMissingFile(t *testing.T) {
	buf := diag.NewBuffer(8)
	src := NewDirSource(t.TempDir(), buf)

	img := src.Get("missing.png")
	if img.Bounds().Dx() != PlaceholderSize {
		t.Errorf("expected placeholder, got bounds %v", img.Bounds())
	}
	if len(buf.Lines()) != 1 {
		t.Errorf("expected one diagnostic, got %v", buf.Lines())
	}

	src.Get("missing.png")
	if len(buf.Lines()) != 1 {
		t.Errorf("expected the failure to be cached, got %v", buf.Lines())
	}
}

func TestDirSourceDecodes(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.SetRGBA(1, 1, color.RGBA{10, 20, 30, 255})
	writePNG(t, filepath.Join(dir, "crate.png"), img)

	got := NewDirSource(dir, nil).Get("crate.png")
	if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 4 {
		t.Fatalf("expected 8x4, got %v", got.Bounds())
	}
	r, g, b, _ := got.At(1, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("expected (10,20,30), got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

type countingSource struct {
	calls int
}

func (s *countingSource) Get(ref string) image.Image {
	s.calls++
	return Placeholder()
}

func TestPatternsShareInstances(t *testing.T) {
	src := &countingSource{}
	c := NewPatterns(src)

	a := c.Get("wood.png")
	b := c.Get("wood.png")
	if a != b {
		t.Error("expected one shared pattern per reference")
	}
	if src.calls != 1 {
		t.Errorf("expected 1 decode, got %d", src.calls)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 cached pattern, got %d", c.Len())
	}

	blank := c.Get("")
	if blank == nil || blank.Width != PlaceholderSize {
		t.Error("expected the placeholder for an empty reference")
	}
	if c.Get("") != blank || src.calls != 1 {
		t.Errorf("expected the empty reference cached without a decode, got %d decodes", src.calls)
	}
}

func TestPatternMatrix(t *testing.T) {
	p := NewPattern(Placeholder())

	if p.Size() != 1 {
		t.Errorf("expected size 1 for a 64px image, got %g", p.Size())
	}

	// Object origin lands on the image center, one unit is 32 pixels.
	m := p.Matrix
	if m[2] != 32 || m[5] != 32 || m[0] != 32 || m[4] != 32 {
		t.Errorf("unexpected matrix %v", m)
	}

	// (0.5, -0.5) maps to pixel (48, 16): top-right quadrant, magenta.
	r, g, b, _ := p.At(0.5, -0.5)
	if r != 255 || g != 0 || b != 255 {
		t.Errorf("expected magenta, got (%d,%d,%d)", r, g, b)
	}

	// Sampling one full image width further repeats the pattern.
	r2, g2, b2, _ := p.At(0.5+2, -0.5)
	if r2 != r || g2 != g || b2 != b {
		t.Errorf("expected repeat, got (%d,%d,%d)", r2, g2, b2)
	}
}
