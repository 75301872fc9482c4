// Package export writes frame sequences to disk: one indexed image per
// frame, or a single animated GIF.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"

	"github.com/san-kum/boxlight/internal/frame"
)

const (
	DefaultDir = "output"

	FormatBMP = "bmp"
	FormatPNG = "png"
)

type Options struct {
	// Reversed writes the last frame as frame0000.
	Reversed bool
	// Format is FormatBMP (default) or FormatPNG.
	Format string
}

// FrameName is the file name of the i-th exported frame.
func FrameName(i int, format string) string {
	return fmt.Sprintf("frame%04d.%s", i, format)
}

// Frames writes every slot of seq into dir, creating it if needed, and
// returns the number of files written.
func Frames(seq *frame.Sequence, dir string, opts Options) (int, error) {
	format := opts.Format
	if format == "" {
		format = FormatBMP
	}
	encode, err := encoder(format)
	if err != nil {
		return 0, err
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	n := seq.Len()
	for i := 0; i < n; i++ {
		src := i
		if opts.Reversed {
			src = n - 1 - i
		}
		path := filepath.Join(dir, FrameName(i, format))
		if err := writeFile(path, seq.At(src).Image(), encode); err != nil {
			return i, fmt.Errorf("export frame %d: %w", i, err)
		}
	}
	return n, nil
}

type encodeFunc func(w io.Writer, img image.Image) error

func encoder(format string) (encodeFunc, error) {
	switch format {
	case FormatBMP:
		return bmp.Encode, nil
	case FormatPNG:
		return png.Encode, nil
	default:
		return nil, fmt.Errorf("unknown image format %q (use %s or %s)", format, FormatBMP, FormatPNG)
	}
}

func writeFile(path string, img image.Image, encode encodeFunc) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
