// Package assets decodes the images that scenes reference and turns them
// into patterns the renderer can tile.
package assets

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/san-kum/boxlight/internal/diag"
)

// DefaultDir is where image references are resolved when no directory is given.
const DefaultDir = "img"

// PlaceholderSize is the edge length of the checkerboard used for missing images.
const PlaceholderSize = 64

// Source hands out decoded images by reference. Get never fails; broken or
// missing images come back as a placeholder.
type Source interface {
	Get(ref string) image.Image
}

// DirSource decodes images from a directory and keeps them for the life of
// the process. Decoding is keyed by reference, so two scenes naming the same
// file share one decode.
type DirSource struct {
	dir  string
	sink diag.Sink

	mu     sync.Mutex
	images map[string]image.Image
}

func NewDirSource(dir string, sink diag.Sink) *DirSource {
	if dir == "" {
		dir = DefaultDir
	}
	return &DirSource{
		dir:    dir,
		sink:   diag.Or(sink),
		images: make(map[string]image.Image),
	}
}

func (s *DirSource) Dir() string { return s.dir }

func (s *DirSource) Get(ref string) image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	if img, ok := s.images[ref]; ok {
		return img
	}

	img, err := decodeFile(filepath.Join(s.dir, ref))
	if err != nil {
		s.sink.Printf("Failed to load image %s: %v", ref, err)
		img = Placeholder()
	}
	s.images[ref] = img
	return img
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

var magenta = color.RGBA{R: 255, B: 255, A: 255}

// Placeholder returns a fresh 64x64 black image with magenta top-right and
// bottom-left quadrants.
func Placeholder() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	half := PlaceholderSize / 2
	fill := image.NewUniform(magenta)
	draw.Draw(img, image.Rect(half, 0, PlaceholderSize, half), fill, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, half, half, PlaceholderSize), fill, image.Point{}, draw.Src)
	return img
}
