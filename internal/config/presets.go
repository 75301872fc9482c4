package config

import "sort"

func ptr(v float64) *float64 { return &v }

// Presets are built-in scenes, loadable as "preset:<name>".
var Presets = map[string]*Config{
	"roundtrip": {
		Width: 512, Height: 512, Framerate: 320, AnimationLength: 1, Zoom: 1,
		Objects: []ObjectSpec{{Type: ShapeBox}},
	},
	"drop": {
		Width: 512, Height: 512, Framerate: 60, AnimationLength: 3, Zoom: 1,
		GravityY: 9.81,
		Objects: []ObjectSpec{
			{Type: ShapeBox, X: -1.5, Y: -3},
			{Type: ShapeCircle, X: 1.5, Y: -5, VX: -1},
			{Type: ShapeBox, X: 0, Y: -8, Density: ptr(2)},
		},
	},
	"eclipse": {
		Width: 512, Height: 512, Framerate: 60, AnimationLength: 4, Zoom: 0.5,
		BackgroundColor: []float64{20, 20, 40},
		Objects: []ObjectSpec{
			{Type: ShapeCircle, X: -6, Y: -2, VX: 3, Light: true},
			{Type: ShapeBox, X: 0, Y: 0},
			{Type: ShapeBox, X: 4, Y: 2},
		},
	},
	"billiards": {
		Width: 640, Height: 480, Framerate: 120, AnimationLength: 3, Zoom: 0.6,
		Objects: []ObjectSpec{
			{Type: ShapeCircle, X: -8, Y: 0, VX: 12},
			{Type: ShapeCircle, X: 0, Y: 0},
			{Type: ShapeCircle, X: 2.1, Y: -1.1},
			{Type: ShapeCircle, X: 2.1, Y: 1.1},
			{Type: ShapeCircle, X: 0, Y: -6, Light: true},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	c.Objects = append([]ObjectSpec(nil), p.Objects...)
	if p.BackgroundColor != nil {
		c.BackgroundColor = append([]float64(nil), p.BackgroundColor...)
	}
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
