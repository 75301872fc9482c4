package render

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix layout follows f64.Aff3:
//
//	| m0 m1 m2 |
//	| m3 m4 m5 |
//	| 0  0  1  |

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// mul returns p·c, which applies c first.
func mul(p, c f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		p[0]*c[0] + p[1]*c[3],
		p[0]*c[1] + p[1]*c[4],
		p[0]*c[2] + p[1]*c[5] + p[2],
		p[3]*c[0] + p[4]*c[3],
		p[3]*c[1] + p[4]*c[4],
		p[3]*c[2] + p[4]*c[5] + p[5],
	}
}

// invert returns the inverse of m, or the identity if m is singular.
func invert(m f64.Aff3) f64.Aff3 {
	det := m[0]*m[4] - m[1]*m[3]
	if det > -1e-12 && det < 1e-12 {
		return identity
	}
	inv := 1 / det
	a := m[4] * inv
	b := -m[1] * inv
	d := -m[3] * inv
	e := m[0] * inv
	return f64.Aff3{
		a, b, -(a*m[2] + b*m[5]),
		d, e, -(d*m[2] + e*m[5]),
	}
}

func apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func translate(x, y float64) f64.Aff3 { return f64.Aff3{1, 0, x, 0, 1, y} }
func scale(s float64) f64.Aff3        { return f64.Aff3{s, 0, 0, 0, s, 0} }

func rotate(a float64) f64.Aff3 {
	sin, cos := math.Sincos(a)
	return f64.Aff3{cos, -sin, 0, sin, cos, 0}
}
