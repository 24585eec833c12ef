package easel

import (
	"errors"
	"math"
)

// ErrSingularMatrix is returned when a matrix with a (near) zero determinant
// is inverted or assigned to an entity.
var ErrSingularMatrix = errors.New("easel: singular matrix")

// singularEpsilon is the determinant magnitude below which a matrix is
// treated as non-invertible.
const singularEpsilon = 1e-12

// Matrix is a row-major 3x3 affine matrix. The bottom row is always stored
// as 0, 0, 1 so the full nine values can be uploaded unchanged.
//
//	| m[0] m[1] m[2] |   | a  c  tx |
//	| m[3] m[4] m[5] | = | b  d  ty |
//	| m[6] m[7] m[8] |   | 0  0  1  |
//
// Points are column vectors: x' = a*x + c*y + tx, y' = b*x + d*y + ty.
type Matrix [9]float64

// Transform holds the decomposed parameters of an affine matrix.
// Compose builds Translate(TX, TY) * Rotate(R) * Scale(SX, SY).
type Transform struct {
	TX, TY float64
	SX, SY float64
	R      float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, tx, 0, 1, ty, 0, 0, 1}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, 0, sy, 0, 0, 0, 1}
}

// Rotate returns a counter-clockwise rotation matrix (radians, y-up).
func Rotate(r float64) Matrix {
	sin, cos := math.Sincos(r)
	return Matrix{cos, -sin, 0, sin, cos, 0, 0, 0, 1}
}

// Multiply returns a * b. Transforming a point by the result is the same as
// transforming it by b first and then by a, so a parent world matrix goes on
// the left: world = Multiply(parentWorld, local).
func Multiply(a, b Matrix) Matrix {
	return Matrix{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
		0, 0, 1,
	}
}

// Compose builds Translate * Rotate * Scale. Every entity transform built
// from user-facing parameters goes through here so that Decompose stays its
// exact inverse.
func Compose(t Transform) Matrix {
	sin, cos := math.Sincos(t.R)
	return Matrix{
		cos * t.SX, -sin * t.SY, t.TX,
		sin * t.SX, cos * t.SY, t.TY,
		0, 0, 1,
	}
}

// Decompose extracts translation, rotation and scale from a matrix built by
// Compose. Skew, if present, is folded into SY.
func Decompose(m Matrix) Transform {
	sx := math.Hypot(m[0], m[3])
	r := math.Atan2(m[3], m[0])
	det := m.Determinant()
	var sy float64
	if sx != 0 {
		sy = det / sx
	}
	return Transform{TX: m[2], TY: m[5], SX: sx, SY: sy, R: r}
}

// Determinant returns the determinant of the upper-left 2x2 block.
func (m Matrix) Determinant() float64 {
	return m[0]*m[4] - m[1]*m[3]
}

// Invertible reports whether m can be inverted.
func (m Matrix) Invertible() bool {
	det := m.Determinant()
	return !(det > -singularEpsilon && det < singularEpsilon) && !math.IsNaN(det)
}

// Inverse returns the inverse of m, or ErrSingularMatrix.
func (m Matrix) Inverse() (Matrix, error) {
	if !m.Invertible() {
		return Matrix{}, ErrSingularMatrix
	}
	invDet := 1.0 / m.Determinant()
	a := m[4] * invDet
	c := -m[1] * invDet
	b := -m[3] * invDet
	d := m[0] * invDet
	return Matrix{
		a, c, -(a*m[2] + c*m[5]),
		b, d, -(b*m[2] + d*m[5]),
		0, 0, 1,
	}, nil
}

// mustInverse inverts matrices that are invertible by construction (every
// matrix stored in a World passed the singular check on the way in).
func (m Matrix) mustInverse() Matrix {
	inv, err := m.Inverse()
	if err != nil {
		panic("easel: stored matrix is singular")
	}
	return inv
}

// TransformPoint applies m to (x, y), including translation.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// TransformVector applies m to (x, y), ignoring translation.
func (m Matrix) TransformVector(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y, m[3]*x + m[4]*y
}

// Translation returns the translation component.
func (m Matrix) Translation() (float64, float64) {
	return m[2], m[5]
}

// WithTranslation returns a copy of m with its translation replaced.
func (m Matrix) WithTranslation(tx, ty float64) Matrix {
	m[2] = tx
	m[5] = ty
	return m
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Matrix) ApproxEqual(o Matrix, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// Float32 converts m for buffer upload.
func (m Matrix) Float32() [9]float32 {
	var out [9]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
