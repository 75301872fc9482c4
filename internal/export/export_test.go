package export

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/san-kum/boxlight/internal/frame"
)

// numbered builds n frames whose top-left pixel encodes the frame index.
func numbered(n int) *frame.Sequence {
	seq := frame.NewSequence(n)
	for i := 0; i < n; i++ {
		f := frame.New(4, 4)
		img := f.Image()
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				img.SetRGBA(x, y, color.RGBA{uint8(i % 256), uint8(i / 256), 7, 255})
			}
		}
		seq.Append(f)
	}
	return seq
}

func indexOf(t *testing.T, img image.Image) int {
	t.Helper()
	r, g, _, _ := img.At(0, 0).RGBA()
	return int(r>>8) + 256*int(g>>8)
}

func decodeBMP(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestFrameName(t *testing.T) {
	if got := FrameName(7, FormatBMP); got != "frame0007.bmp" {
		t.Errorf("expected frame0007.bmp, got %s", got)
	}
	if got := FrameName(319, FormatPNG); got != "frame0319.png" {
		t.Errorf("expected frame0319.png, got %s", got)
	}
}

func TestFramesForwardAndReversed(t *testing.T) {
	seq := numbered(320)

	tests := []struct {
		name     string
		reversed bool
		want     func(i int) int
	}{
		{"forward", false, func(i int) int { return i }},
		{"reversed", true, func(i int) int { return 319 - i }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "output")
			n, err := Frames(seq, dir, Options{Reversed: tt.reversed})
			if err != nil {
				t.Fatalf("export failed: %v", err)
			}
			if n != 320 {
				t.Fatalf("expected 320 files, got %d", n)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 320 {
				t.Fatalf("expected 320 entries, got %d", len(entries))
			}
			if _, err := os.Stat(filepath.Join(dir, "frame0320.bmp")); !os.IsNotExist(err) {
				t.Error("expected no frame0320.bmp")
			}

			for _, i := range []int{0, 1, 159, 318, 319} {
				img := decodeBMP(t, filepath.Join(dir, fmt.Sprintf("frame%04d.bmp", i)))
				if got := indexOf(t, img); got != tt.want(i) {
					t.Errorf("frame%04d: expected source frame %d, got %d", i, tt.want(i), got)
				}
			}
		})
	}
}

func TestFramesPNG(t *testing.T) {
	dir := t.TempDir()
	if _, err := Frames(numbered(3), dir, Options{Format: FormatPNG}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, "frame0002.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := indexOf(t, img); got != 2 {
		t.Errorf("expected frame 2, got %d", got)
	}
}

func TestFramesUnknownFormat(t *testing.T) {
	if _, err := Frames(numbered(1), t.TempDir(), Options{Format: "tiff"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")
	if err := GIF(numbered(5), path, GIFDelay(50), false); err != nil {
		t.Fatalf("gif export failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 5 {
		t.Errorf("expected 5 frames, got %d", len(anim.Image))
	}
	if anim.Delay[0] != 2 {
		t.Errorf("expected delay 2, got %d", anim.Delay[0])
	}

	if err := GIF(frame.NewSequence(0), path, 1, false); err == nil {
		t.Error("expected error for an empty sequence")
	}
}

func TestGIFDelay(t *testing.T) {
	tests := []struct {
		fps  float64
		want int
	}{
		{50, 2},
		{320, 1},
		{10, 10},
		{0, 100},
	}
	for _, tt := range tests {
		if got := GIFDelay(tt.fps); got != tt.want {
			t.Errorf("GIFDelay(%g): expected %d, got %d", tt.fps, tt.want, got)
		}
	}
}
