package render

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/boxlight/internal/scene"
)

const (
	// ShadowLength is how far, in world units, silhouette edges are pushed
	// away from the light. It is long enough to leave any frame.
	ShadowLength = 128.0

	// FalloffRadius is the world distance from the light at which shadows
	// have faded out completely.
	FalloffRadius = 16.0

	// ShadowOpacity is the strength of the black overlay.
	ShadowOpacity = 0.5
)

// Edge is a world-space segment on an object's boundary, running A to B.
type Edge struct {
	A, B cp.Vector
}

// Normal points out of the object for edges produced by Edges.
func (e Edge) Normal() cp.Vector {
	line := e.A.Sub(e.B)
	return cp.Vector{X: line.Y, Y: -line.X}
}

// Quad is one shadow polygon: edge start, projected start, projected end,
// edge end.
type Quad [4]cp.Vector

// Edges returns the four boundary edges of a unit box at pos rotated by angle.
func Edges(pos cp.Vector, angle float64) [4]Edge {
	sin, cos := math.Sincos(angle)
	ex := cp.Vector{X: cos, Y: sin}.Mult(scene.HalfExtent)
	ey := cp.Vector{X: sin, Y: -cos}.Mult(scene.HalfExtent)

	return [4]Edge{
		{pos.Sub(ex).Sub(ey), pos.Add(ex).Sub(ey)},
		{pos.Sub(ex).Add(ey), pos.Sub(ex).Sub(ey)},
		{pos.Add(ex).Add(ey), pos.Sub(ex).Add(ey)},
		{pos.Add(ex).Sub(ey), pos.Add(ex).Add(ey)},
	}
}

// FacesLight reports whether e's outward normal points toward light.
func FacesLight(e Edge, light cp.Vector) bool {
	return e.Normal().Dot(e.A.Sub(light)) < 0
}

// Project extends e away from light into a shadow quad.
func Project(e Edge, light cp.Vector) Quad {
	a := e.A.Add(e.A.Sub(light).Normalize().Mult(ShadowLength))
	b := e.B.Add(e.B.Sub(light).Normalize().Mult(ShadowLength))
	return Quad{e.A, a, b, e.B}
}

// Silhouette collects the shadow quads cast by every object except light.
func Silhouette(objects []*scene.Object, light *scene.Object) []Quad {
	if light == nil {
		return nil
	}
	lp := light.Position()
	quads := make([]Quad, 0, 2*len(objects))
	for _, o := range objects {
		if o == light {
			continue
		}
		for _, e := range Edges(o.Position(), o.Angle()) {
			if FacesLight(e, lp) {
				quads = append(quads, Project(e, lp))
			}
		}
	}
	return quads
}
