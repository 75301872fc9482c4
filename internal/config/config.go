package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth           = 512
	DefaultHeight          = 512
	DefaultFramerate       = 320.0
	DefaultAnimationLength = 1.0
	DefaultZoom            = 1.0
	DefaultDensity         = 1.0

	MaxDimension = 8192

	PresetPrefix = "preset:"
)

// Shape kinds understood by the scene loader. Any other value is skipped.
const (
	ShapeBox    = "box"
	ShapeCircle = "circle"
)

// Config is one scene description. It is treated as immutable once returned
// by Load, Parse or GetPreset.
type Config struct {
	Width           int          `yaml:"width"`
	Height          int          `yaml:"height"`
	Framerate       float64      `yaml:"framerate"`
	AnimationLength float64      `yaml:"animationlength"`
	GravityX        float64      `yaml:"gravityx"`
	GravityY        float64      `yaml:"gravityy"`
	Zoom            float64      `yaml:"zoom"`
	CameraX         float64      `yaml:"camerax"`
	CameraY         float64      `yaml:"cameray"`
	Background      string       `yaml:"background,omitempty"`
	BackgroundColor []float64    `yaml:"backgroundcolor,omitempty,flow"`
	Objects         []ObjectSpec `yaml:"objects"`

	// Ignored lists keys the document set that no field reads, one
	// "line N: ..." entry each. Loaders report them as diagnostics.
	Ignored []string `yaml:"-"`
}

type ObjectSpec struct {
	Type    string   `yaml:"type"`
	X       float64  `yaml:"x"`
	Y       float64  `yaml:"y"`
	Density *float64 `yaml:"density,omitempty"`
	VX      float64  `yaml:"vx"`
	VY      float64  `yaml:"vy"`
	Image   string   `yaml:"image,omitempty"`
	Light   bool     `yaml:"light,omitempty"`
}

// EffectiveDensity returns the configured density or DefaultDensity.
func (o ObjectSpec) EffectiveDensity() float64 {
	if o.Density == nil {
		return DefaultDensity
	}
	return *o.Density
}

func DefaultConfig() *Config {
	return &Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Framerate:       DefaultFramerate,
		AnimationLength: DefaultAnimationLength,
		Zoom:            DefaultZoom,
	}
}

// FrameCount is the number of frames a generator produces for this config.
func (c *Config) FrameCount() int {
	return int(math.Round(c.Framerate * c.AnimationLength))
}

// Load reads and validates a scene file. JSON files are accepted as well,
// since every JSON document is a YAML flow document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: ErrRead, Path: path, Err: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			cerr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates a scene document.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Kind: ErrParse, Err: errors.New("empty document")}
		}
		var terr *yaml.TypeError
		if !errors.As(err, &terr) {
			return nil, &Error{Kind: ErrParse, Err: err}
		}
		// The decoder keeps going past type errors, so cfg holds every
		// field it could read. Unknown keys are only worth a warning.
		var bad []string
		for _, msg := range terr.Errors {
			if strings.Contains(msg, " not found in type ") {
				cfg.Ignored = append(cfg.Ignored, msg)
			} else {
				bad = append(bad, msg)
			}
		}
		if len(bad) > 0 {
			return nil, &Error{Kind: ErrSchema, Err: errors.New(strings.Join(bad, "; "))}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads "preset:<name>" from the built-in presets and anything else
// from disk.
func Resolve(ref string) (*Config, error) {
	if name, ok := strings.CutPrefix(ref, PresetPrefix); ok {
		cfg := GetPreset(name)
		if cfg == nil {
			return nil, &Error{Kind: ErrRead, Path: ref, Err: fmt.Errorf("unknown preset %q (available: %v)", name, ListPresets())}
		}
		return cfg, nil
	}
	return Load(ref)
}

// Validate checks the schema constraints that the decoder cannot express.
func (c *Config) Validate() error {
	if c.Width < 1 || c.Width > MaxDimension {
		return schemaErr("width", "must be in [1, %d], got %d", MaxDimension, c.Width)
	}
	if c.Height < 1 || c.Height > MaxDimension {
		return schemaErr("height", "must be in [1, %d], got %d", MaxDimension, c.Height)
	}
	if !finite(c.Framerate) || c.Framerate <= 0 {
		return schemaErr("framerate", "must be positive, got %g", c.Framerate)
	}
	if !finite(c.AnimationLength) || c.AnimationLength < 0 {
		return schemaErr("animationlength", "must be non-negative, got %g", c.AnimationLength)
	}
	if !finite(c.Zoom) || c.Zoom <= 0 {
		return schemaErr("zoom", "must be positive, got %g", c.Zoom)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"gravityx", c.GravityX}, {"gravityy", c.GravityY},
		{"camerax", c.CameraX}, {"cameray", c.CameraY},
	} {
		if !finite(f.v) {
			return schemaErr(f.name, "must be finite")
		}
	}
	if c.BackgroundColor != nil {
		if len(c.BackgroundColor) != 3 {
			return schemaErr("backgroundcolor", "expected 3 components, got %d", len(c.BackgroundColor))
		}
		for _, v := range c.BackgroundColor {
			if !finite(v) || v < 0 || v > 255 {
				return schemaErr("backgroundcolor", "components must be in [0, 255], got %v", c.BackgroundColor)
			}
		}
	}
	if c.Objects == nil {
		return schemaErr("objects", "missing object list")
	}
	for i, o := range c.Objects {
		field := fmt.Sprintf("objects[%d]", i)
		if !finite(o.X) || !finite(o.Y) || !finite(o.VX) || !finite(o.VY) {
			return schemaErr(field, "position and velocity must be finite")
		}
		if d := o.EffectiveDensity(); !finite(d) || d < 0 {
			return schemaErr(field+".density", "must be non-negative, got %g", d)
		}
	}
	return nil
}

// Save writes the config back out as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
