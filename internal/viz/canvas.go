package viz

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// Half blocks: each cell shows two vertically stacked pixels, the upper
// one as the foreground of '▀' and the lower one as its background.
const halfBlock = "▀"

type Canvas struct {
	Width, Height int
	px            *image.RGBA
}

// NewCanvas makes a canvas of w x h cells, i.e. w x 2h pixels.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		Width:  w,
		Height: h,
		px:     image.NewRGBA(image.Rect(0, 0, w, 2*h)),
	}
}

// Set colors the pixel at (x, y). The canvas is Width x 2*Height pixels.
func (c *Canvas) Set(x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.Width || y >= 2*c.Height {
		return
	}
	c.px.SetRGBA(x, y, col)
}

func (c *Canvas) At(x, y int) color.RGBA { return c.px.RGBAAt(x, y) }

// Draw scales img to cover the whole canvas.
func (c *Canvas) Draw(img image.Image) {
	draw.ApproxBiLinear.Scale(c.px, c.px.Rect, img, img.Bounds(), draw.Src, nil)
}

func (c *Canvas) String() string {
	var sb strings.Builder
	for row := 0; row < c.Height; row++ {
		for x := 0; x < c.Width; x++ {
			top, bottom := c.px.RGBAAt(x, 2*row), c.px.RGBAAt(x, 2*row+1)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom)).
				Render(halfBlock))
		}
		if row < c.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// Fit returns the largest cell size that shows a w x h pixel image inside
// maxCols x maxRows cells without distorting it.
func Fit(w, h, maxCols, maxRows int) (cols, rows int) {
	if w <= 0 || h <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	scale := min(float64(maxCols)/float64(w), float64(2*maxRows)/float64(h))
	cols = max(1, int(float64(w)*scale))
	rows = max(1, int(float64(h)*scale/2))
	return cols, rows
}
