package scene

import (
	"github.com/jakecoffman/cp"

	"github.com/san-kum/boxlight/internal/config"
)

// spawner adds a dynamic body and its collision shape to space.
type spawner func(space *cp.Space, density float64) *cp.Body

var spawners = map[string]spawner{
	config.ShapeBox:    spawnBox,
	config.ShapeCircle: spawnCircle,
}

// massFor turns a density into a usable mass. A zero mass would give the
// body an infinite inverse mass, so it falls back to 1.
func massFor(density, area float64) float64 {
	m := density * area
	if m <= 0 {
		return 1
	}
	return m
}

func spawnBox(space *cp.Space, density float64) *cp.Body {
	side := 2 * HalfExtent
	m := massFor(density, side*side)
	body := space.AddBody(cp.NewBody(m, cp.MomentForBox(m, side, side)))
	shape := space.AddShape(cp.NewBox(body, side, side, 0))
	shape.SetFriction(Friction)
	return body
}

func spawnCircle(space *cp.Space, density float64) *cp.Body {
	m := massFor(density, cp.AreaForCircle(0, HalfExtent))
	body := space.AddBody(cp.NewBody(m, cp.MomentForCircle(m, 0, HalfExtent, cp.Vector{})))
	shape := space.AddShape(cp.NewCircle(body, HalfExtent, cp.Vector{}))
	shape.SetFriction(Friction)
	return body
}
