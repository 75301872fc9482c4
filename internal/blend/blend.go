// Package blend folds runs of consecutive frames into motion-blurred frames.
package blend

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/boxlight/internal/frame"
)

const (
	// BatchSize is the number of input frames behind each output frame.
	BatchSize = 16

	DefaultWorkers = 4
)

// Kernel returns the window w[i] = max(0, sin(pi*i/15)).
func Kernel() [BatchSize]float64 {
	var k [BatchSize]float64
	for i := range k {
		k[i] = math.Max(0, math.Sin(math.Pi*float64(i)/float64(BatchSize-1)))
	}
	return k
}

// Engine runs blends on a fixed number of workers. Batches are striped:
// worker k takes batches k, k+W, k+2W and so on.
type Engine struct {
	workers int
	kernel  [BatchSize]float64
	sum     float64
}

func New(workers int) *Engine {
	if workers < 1 {
		workers = DefaultWorkers
	}
	e := &Engine{workers: workers, kernel: Kernel()}
	for _, w := range e.kernel {
		e.sum += w
	}
	return e
}

func (e *Engine) Workers() int { return e.workers }

// Blend pads seq in place to a multiple of BatchSize by repeating its last
// frame, then returns a new sequence with one frame per batch. seq must not
// be read elsewhere until Blend returns. Frames of differing size panic.
// Workers stop between batches once ctx is done, and no sequence is
// returned.
func (e *Engine) Blend(ctx context.Context, seq *frame.Sequence) (*frame.Sequence, error) {
	if seq.Len() == 0 {
		return frame.NewSequence(0), nil
	}

	seq.PadToMultiple(BatchSize)
	w, h := seq.Size()
	for i := 1; i < seq.Len(); i++ {
		f := seq.At(i)
		if f.Width() != w || f.Height() != h {
			panic(fmt.Sprintf("blend: frame %d is %dx%d, expected %dx%d", i, f.Width(), f.Height(), w, h))
		}
	}

	batches := seq.Len() / BatchSize
	out := make([]*frame.Frame, batches)

	g, ctx := errgroup.WithContext(ctx)
	for k := 0; k < e.workers && k < batches; k++ {
		g.Go(func() error {
			for b := k; b < batches; b += e.workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[b] = e.blendBatch(seq, b*BatchSize, w, h)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("blend: %w", err)
	}

	result := frame.NewSequence(batches)
	for _, f := range out {
		result.Append(f)
	}
	return result, nil
}

func (e *Engine) blendBatch(seq *frame.Sequence, start, w, h int) *frame.Frame {
	var src [BatchSize][]uint8
	for i := range src {
		src[i] = seq.At(start + i).Image().Pix
	}

	dst := frame.New(w, h)
	pix := dst.Image().Pix
	for p := 0; p < len(pix); p += 4 {
		var r, g, b float64
		for i, s := range src {
			k := e.kernel[i]
			r += k * float64(s[p])
			g += k * float64(s[p+1])
			b += k * float64(s[p+2])
		}
		pix[p] = channel(r / e.sum)
		pix[p+1] = channel(g / e.sum)
		pix[p+2] = channel(b / e.sum)
		pix[p+3] = 255
	}
	return dst
}

func channel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
