// Package animation is the control surface over one loaded animation: it
// loads scenes into frame sequences and exposes playback, blending and
// export to whatever front end drives it.
//
// Loads are transactional. Prepare works only on new values; Install swaps
// them in. A failed load leaves the previous animation, its frames and its
// playback position untouched.
package animation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/boxlight/internal/assets"
	"github.com/san-kum/boxlight/internal/blend"
	"github.com/san-kum/boxlight/internal/config"
	"github.com/san-kum/boxlight/internal/diag"
	"github.com/san-kum/boxlight/internal/export"
	"github.com/san-kum/boxlight/internal/frame"
	"github.com/san-kum/boxlight/internal/metrics"
	"github.com/san-kum/boxlight/internal/playback"
	"github.com/san-kum/boxlight/internal/render"
	"github.com/san-kum/boxlight/internal/scene"
	"github.com/san-kum/boxlight/internal/sim"
	"github.com/san-kum/boxlight/internal/system"
)

var ErrNoAnimation = errors.New("animation: nothing loaded")

type Options struct {
	// Images resolves image references. Defaults to the img/ directory.
	Images assets.Source
	// Sink receives status lines. May be nil.
	Sink diag.Sink
	// Workers sizes the blend pool.
	Workers int
	// OutputDir is where Save writes frames.
	OutputDir string
	// Format is the frame file format used by Save.
	Format string
}

// Bundle is a fully generated animation that has not been installed yet.
type Bundle struct {
	Source  string
	Config  *config.Config
	Frames  *frame.Sequence
	Trace   *sim.Trace
	Metrics map[string]float64
}

// Animation is not safe for concurrent use, apart from Prepare, which
// touches no shared state and may run on another goroutine.
type Animation struct {
	images  assets.Source
	sink    diag.Sink
	blender *blend.Engine
	outDir  string
	format  string

	source  string
	cfg     *config.Config
	frames  *frame.Sequence
	trace   *sim.Trace
	metrics map[string]float64
	player  *playback.Controller
}

func New(opts Options) *Animation {
	sink := diag.Or(opts.Sink)
	images := opts.Images
	if images == nil {
		images = assets.NewDirSource(assets.DefaultDir, sink)
	}
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = export.DefaultDir
	}
	return &Animation{
		images:  images,
		sink:    sink,
		blender: blend.New(opts.Workers),
		outDir:  outDir,
		format:  opts.Format,
		frames:  frame.NewSequence(0),
		player:  playback.New(config.DefaultFramerate),
	}
}

// Load resolves ref (a file path or "preset:<name>"), generates it and
// installs the result.
func (a *Animation) Load(ctx context.Context, ref string) error {
	b, err := a.PrepareRef(ctx, ref)
	if err != nil {
		a.sink.Printf("Error loading %s: %v", ref, err)
		return err
	}
	a.Install(b)
	a.sink.Printf("Successfully loaded %s", ref)
	return nil
}

// LoadConfig generates cfg and installs the result.
func (a *Animation) LoadConfig(ctx context.Context, cfg *config.Config) error {
	b, err := a.Prepare(ctx, cfg)
	if err != nil {
		return err
	}
	a.Install(b)
	return nil
}

// PrepareRef resolves ref and prepares it.
func (a *Animation) PrepareRef(ctx context.Context, ref string) (*Bundle, error) {
	cfg, err := config.Resolve(ref)
	if err != nil {
		return nil, err
	}
	b, err := a.Prepare(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.Source = ref
	return b, nil
}

// Prepare builds a scene from cfg and generates every frame.
func (a *Animation) Prepare(ctx context.Context, cfg *config.Config) (*Bundle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, key := range cfg.Ignored {
		a.sink.Printf("Ignoring %s", key)
	}

	n := cfg.FrameCount()
	system.CheckMemory(system.EstimateFrameBytes(cfg.Width, cfg.Height, n), a.sink)

	patterns := assets.NewPatterns(a.images)
	sc, err := scene.Build(cfg, patterns, a.sink)
	if err != nil {
		return nil, err
	}

	s := sim.New(sc, render.New(cfg, patterns, a.sink))
	trace := sim.NewTrace()
	s.AddObserver(trace)
	s.AddObserver(sim.NewProgress(n, a.sink))
	ms := metrics.Default(cfg)
	for _, m := range ms {
		s.AddObserver(m)
	}

	start := time.Now()
	seq, err := s.Run(ctx, sim.Config{Framerate: cfg.Framerate, Length: cfg.AnimationLength})
	if err != nil {
		return nil, fmt.Errorf("generate frames: %w", err)
	}
	a.sink.Printf("Generated %d frames in %v", seq.Len(), time.Since(start).Round(time.Millisecond))

	return &Bundle{Config: cfg, Frames: seq, Trace: trace, Metrics: metrics.Values(ms)}, nil
}

// Install makes b the current animation and restarts playback at the
// bundle's framerate.
func (a *Animation) Install(b *Bundle) {
	a.source = b.Source
	a.cfg = b.Config
	a.frames = b.Frames
	a.trace = b.Trace
	a.metrics = b.Metrics
	a.player.Reset(b.Config.Framerate)
}

func (a *Animation) Loaded() bool { return a.cfg != nil }

// Save writes the frames to the configured output directory.
func (a *Animation) Save() (int, error) {
	return a.SaveTo(a.outDir)
}

// SaveTo writes every frame into dir, honoring the reversed flag.
func (a *Animation) SaveTo(dir string) (int, error) {
	if !a.Loaded() {
		return 0, ErrNoAnimation
	}
	return export.Frames(a.frames, dir, export.Options{
		Reversed: a.player.Reversed(),
		Format:   a.format,
	})
}

// ExportGIF writes the frames as an animated GIF at the playback framerate.
func (a *Animation) ExportGIF(path string) error {
	if !a.Loaded() {
		return ErrNoAnimation
	}
	return export.GIF(a.frames, path, export.GIFDelay(a.player.Framerate()), a.player.Reversed())
}

func (a *Animation) Pause()         { a.player.Pause() }
func (a *Animation) Resume()        { a.player.Resume() }
func (a *Animation) TogglePause()   { a.player.TogglePause() }
func (a *Animation) Reverse()       { a.player.Reverse() }
func (a *Animation) Paused() bool   { return a.player.Paused() }
func (a *Animation) Reversed() bool { return a.player.Reversed() }
func (a *Animation) Index() int     { return a.player.Index() }
func (a *Animation) Len() int       { return a.frames.Len() }

// FrameStep moves n frames, wrapping around either end.
func (a *Animation) FrameStep(n int) {
	a.player.Advance(n, a.frames.Len())
}

// SetFramerate changes the playback rate. Rejected values leave the
// current rate in effect and are reported to the sink.
func (a *Animation) SetFramerate(fps float64) error {
	if err := a.player.SetFramerate(fps); err != nil {
		a.sink.Printf("Invalid framerate %g", fps)
		return err
	}
	return nil
}

func (a *Animation) Framerate() float64 { return a.player.Framerate() }

// Blend replaces the frames with their 16-frame motion blur. A cancelled
// blend keeps the current frames.
func (a *Animation) Blend(ctx context.Context) error {
	if !a.Loaded() {
		return ErrNoAnimation
	}
	blurred, err := a.blender.Blend(ctx, a.frames)
	if err != nil {
		return err
	}
	a.frames = blurred
	a.player.Advance(0, a.frames.Len())
	return nil
}

// CurrentFrame returns the frame due at now, or nil when there are none.
func (a *Animation) CurrentFrame(now time.Duration) *frame.Frame {
	i, ok := a.player.Current(now, a.frames.Len())
	if !ok {
		return nil
	}
	return a.frames.At(i)
}

// Width is the frame width, or 0 before the first load.
func (a *Animation) Width() int {
	if a.cfg == nil {
		return 0
	}
	return a.cfg.Width
}

func (a *Animation) Height() int {
	if a.cfg == nil {
		return 0
	}
	return a.cfg.Height
}

func (a *Animation) Config() *config.Config      { return a.cfg }
func (a *Animation) Source() string              { return a.source }
func (a *Animation) Frames() *frame.Sequence     { return a.frames }
func (a *Animation) Trace() *sim.Trace           { return a.trace }
func (a *Animation) Metrics() map[string]float64 { return a.metrics }
