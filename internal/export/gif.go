package export

import (
	"errors"
	"image"
	"image/color/palette"
	"image/gif"
	"math"
	"os"

	"golang.org/x/image/draw"

	"github.com/san-kum/boxlight/internal/frame"
)

// GIFDelay converts a framerate to a GIF frame delay in hundredths of a
// second. GIF cannot go below one hundredth.
func GIFDelay(fps float64) int {
	if fps <= 0 {
		return 100
	}
	d := int(math.Round(100 / fps))
	if d < 1 {
		d = 1
	}
	return d
}

// GIF writes seq as a looping animated GIF, dithered to the Plan 9 palette.
func GIF(seq *frame.Sequence, path string, delay int, reversed bool) error {
	n := seq.Len()
	if n == 0 {
		return errors.New("export: no frames to write")
	}
	anim := gif.GIF{LoopCount: 0}
	for i := 0; i < n; i++ {
		src := i
		if reversed {
			src = n - 1 - i
		}
		img := seq.At(src).Image()
		p := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(p, p.Bounds(), img, img.Bounds().Min)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
