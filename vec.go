package canopy

import "math"

// DefaultTolerance is the relative tolerance used by Vec2.Equal and
// Matrix.Equal.
const DefaultTolerance = 1e-10

// EqualWithin reports whether b lies within a relative tolerance of a:
// |a-b| <= |a*tol|. The comparison is asymmetric; a is the reference value.
func EqualWithin(a, b, tol float64) bool {
	return math.Abs(a-b) <= math.Abs(a*tol)
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul scales v by s.
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// MulVec multiplies component-wise.
func (v Vec2) MulVec(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Div divides v by s.
func (v Vec2) Div(s float64) Vec2 { return Vec2{v.X / s, v.Y / s} }

// Neg returns -v.
func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Length returns the Euclidean length.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns a unit vector in the direction of v. The zero vector
// stays zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// LeftPerpendicular returns (-Y, X).
func (v Vec2) LeftPerpendicular() Vec2 { return Vec2{-v.Y, v.X} }

// RightPerpendicular returns (Y, -X).
func (v Vec2) RightPerpendicular() Vec2 { return Vec2{v.Y, -v.X} }

// LeftNormal is the normalized LeftPerpendicular.
func (v Vec2) LeftNormal() Vec2 { return v.LeftPerpendicular().Normalize() }

// RightNormal is the normalized RightPerpendicular.
func (v Vec2) RightNormal() Vec2 { return v.RightPerpendicular().Normalize() }

// ScalarProjection returns the signed length of v projected onto onto.
// Returns 0 when onto is the zero vector.
func (v Vec2) ScalarProjection(onto Vec2) float64 {
	l := onto.Length()
	if l == 0 {
		return 0
	}
	return v.Dot(onto) / l
}

// VectorProjection returns the projection of v onto onto.
func (v Vec2) VectorProjection(onto Vec2) Vec2 {
	d := onto.Dot(onto)
	if d == 0 {
		return Vec2{}
	}
	return onto.Mul(v.Dot(onto) / d)
}

// Equal compares component-wise using DefaultTolerance.
func (v Vec2) Equal(o Vec2) bool {
	return EqualWithin(v.X, o.X, DefaultTolerance) && EqualWithin(v.Y, o.Y, DefaultTolerance)
}

// Transform applies the 3x3 homogeneous matrix m to v.
func (v Vec2) Transform(m *Matrix) Vec2 {
	return m.TransformPoint(v)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// BoundingRect returns the smallest Rect enclosing pts. An empty slice
// yields the unit rectangle at the origin.
func BoundingRect(pts []Vec2) Rect {
	if len(pts) == 0 {
		return Rect{0, 0, 1, 1}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// CenterOf returns the center of the bounding rectangle of pts.
func CenterOf(pts []Vec2) Vec2 {
	return BoundingRect(pts).Center()
}
