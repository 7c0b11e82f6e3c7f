package canopy

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestVecArithmetic(t *testing.T) {
	a := Vec2{3, 4}
	b := Vec2{1, -2}
	assertVec(t, "Add", a.Add(b), Vec2{4, 2})
	assertVec(t, "Sub", a.Sub(b), Vec2{2, 6})
	assertVec(t, "Mul", a.Mul(2), Vec2{6, 8})
	assertVec(t, "MulVec", a.MulVec(b), Vec2{3, -8})
	assertVec(t, "Div", a.Div(2), Vec2{1.5, 2})
	assertVec(t, "Neg", a.Neg(), Vec2{-3, -4})
	assertNear(t, "Dot", a.Dot(b), -5)
	assertNear(t, "Cross", a.Cross(b), -10)
	assertNear(t, "Length", a.Length(), 5)
}

func TestVecNormalize(t *testing.T) {
	assertVec(t, "Normalize", Vec2{3, 4}.Normalize(), Vec2{0.6, 0.8})
	if got := (Vec2{}).Normalize(); got != (Vec2{}) {
		t.Errorf("zero Normalize = %v, want zero", got)
	}
}

func TestVecPerpendiculars(t *testing.T) {
	v := Vec2{2, 0}
	assertVec(t, "LeftPerpendicular", v.LeftPerpendicular(), Vec2{0, 2})
	assertVec(t, "RightPerpendicular", v.RightPerpendicular(), Vec2{0, -2})
	assertVec(t, "LeftNormal", v.LeftNormal(), Vec2{0, 1})
	assertVec(t, "RightNormal", v.RightNormal(), Vec2{0, -1})
	if d := v.Dot(v.LeftPerpendicular()); d != 0 {
		t.Errorf("perpendicular dot = %v, want 0", d)
	}
}

func TestVecProjection(t *testing.T) {
	v := Vec2{3, 4}
	onto := Vec2{10, 0}
	assertNear(t, "ScalarProjection", v.ScalarProjection(onto), 3)
	assertVec(t, "VectorProjection", v.VectorProjection(onto), Vec2{3, 0})
	assertNear(t, "ScalarProjection zero", v.ScalarProjection(Vec2{}), 0)
}

func TestVecEqualUsesRelativeTolerance(t *testing.T) {
	a := Vec2{1e6, -1e6}
	b := Vec2{1e6 + 1e-6, -1e6 - 1e-6}
	if !a.Equal(b) {
		t.Errorf("%v.Equal(%v) = false, want true", a, b)
	}
	if (Vec2{1, 1}).Equal(Vec2{1, 1.001}) {
		t.Error("Equal should reject a 1e-3 relative difference")
	}
}

func TestVecTransform(t *testing.T) {
	got := Vec2{1, 0}.Transform(Translate2D(5, 5).Mul(Rotate2D(math.Pi / 2)))
	assertVec(t, "Transform", got, Vec2{5, 6})
}

func TestAngleConversions(t *testing.T) {
	assertNear(t, "Radians(180)", Radians(180), math.Pi)
	assertNear(t, "Degrees(pi/2)", Degrees(math.Pi/2), 90)
}

func TestBoundingRect(t *testing.T) {
	r := BoundingRect([]Vec2{{1, 5}, {-2, 3}, {4, -1}})
	if r != (Rect{-2, -1, 6, 6}) {
		t.Errorf("BoundingRect = %v, want {-2 -1 6 6}", r)
	}
	if r := BoundingRect(nil); r != (Rect{0, 0, 1, 1}) {
		t.Errorf("BoundingRect(nil) = %v, want unit rect", r)
	}
	assertVec(t, "CenterOf", CenterOf([]Vec2{{0, 0}, {10, 4}}), Vec2{5, 2})
}

func TestRectPredicates(t *testing.T) {
	r := Rect{0, 0, 10, 10}
	if !r.Contains(10, 10) {
		t.Error("Contains should include the far corner")
	}
	if r.Contains(10.1, 5) {
		t.Error("Contains(10.1, 5) = true, want false")
	}
	if !r.ContainsRect(Rect{2, 2, 8, 8}) {
		t.Error("ContainsRect of flush inner rect = false")
	}
	if r.ContainsRect(Rect{2, 2, 9, 8}) {
		t.Error("ContainsRect of overhanging rect = true")
	}
	if !r.Intersects(Rect{10, 10, 5, 5}) {
		t.Error("Intersects should include touching edges")
	}
	if r.Intersects(Rect{11, 0, 5, 5}) {
		t.Error("Intersects of disjoint rect = true")
	}
}

func TestColorLerp(t *testing.T) {
	got := ColorBlack.Lerp(ColorWhite, 0.25)
	want := Color{0.25, 0.25, 0.25, 1}
	if got != want {
		t.Errorf("Lerp = %v, want %v", got, want)
	}
}
