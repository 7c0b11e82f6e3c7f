package canopy

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	if cam.Scale() != (Vec2{1, 1}) {
		t.Errorf("Scale = %v, want (1,1)", cam.Scale())
	}
	if cam.LookAt() != (Vec2{}) || cam.Rotation() != 0 {
		t.Errorf("LookAt = %v, Rotation = %v", cam.LookAt(), cam.Rotation())
	}
	assertVec(t, "WorldToScreen(origin)", cam.WorldToScreen(Vec2{}), Vec2{400, 300})
}

func TestCameraViewportScenario(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	want := [4]Vec2{{-400, -300}, {400, -300}, {400, 300}, {-400, 300}}
	got := cam.Viewport()
	for i := range want {
		assertVec(t, "viewport corner", got[i], want[i])
	}
	if r := cam.ViewportBounds(); r != (Rect{-400, -300, 800, 600}) {
		t.Errorf("ViewportBounds = %v", r)
	}
}

func TestCameraViewportFollowsLookAtAndScale(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	cam.SetLookAt(Vec2{1000, 500})
	cam.SetScale(Vec2{2, 2})
	r := cam.ViewportBounds()
	want := Rect{800, 350, 400, 300}
	if !approxEqual(r.X, want.X, 1e-6) || !approxEqual(r.Y, want.Y, 1e-6) ||
		!approxEqual(r.Width, want.Width, 1e-6) || !approxEqual(r.Height, want.Height, 1e-6) {
		t.Errorf("ViewportBounds = %v, want %v", r, want)
	}
}

func TestCameraRotatedViewport(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	cam.SetRotation(math.Pi / 2)
	r := cam.ViewportBounds()
	// A quarter turn swaps the extents.
	if !approxEqual(r.Width, 600, 1e-6) || !approxEqual(r.Height, 800, 1e-6) {
		t.Errorf("rotated ViewportBounds = %v, want 600x800", r)
	}
	// Every corner maps back to a screen corner.
	for _, c := range cam.Viewport() {
		s := cam.WorldToScreen(c)
		onX := approxEqual(s.X, 0, 1e-6) || approxEqual(s.X, 800, 1e-6)
		onY := approxEqual(s.Y, 0, 1e-6) || approxEqual(s.Y, 600, 1e-6)
		if !onX || !onY {
			t.Errorf("viewport corner %v maps to %v, not a screen corner", c, s)
		}
	}
}

func TestCameraRoundTrip(t *testing.T) {
	cam := NewCamera(Vec2{1024, 768})
	cam.SetLookAt(Vec2{-37, 112})
	cam.SetScale(Vec2{1.75, 0.6})
	cam.SetRotation(0.9)

	for _, p := range []Vec2{{0, 0}, {123.5, -44}, {-1e4, 3e3}} {
		back := cam.ScreenToWorld(cam.WorldToScreen(p))
		if !approxEqual(back.X, p.X, 1e-6) || !approxEqual(back.Y, p.Y, 1e-6) {
			t.Errorf("round trip %v -> %v", p, back)
		}
	}
	if !cam.ViewMatrix().Mul(cam.InverseViewMatrix()).Equal(Identity(3)) {
		t.Error("view * inverse != identity")
	}
}

func TestCameraLookAtIsScreenCenter(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	cam.SetLookAt(Vec2{100, 50})
	cam.SetRotation(1.2)
	cam.SetScale(Vec2{3, 3})
	assertVec(t, "WorldToScreen(lookAt)", cam.WorldToScreen(Vec2{100, 50}), Vec2{400, 300})
}

func TestCameraZoom(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	cam.Zoom(2)
	// At zoom 2, a point 1 unit from the look-at appears 2 pixels away.
	d := cam.WorldToScreen(Vec2{1, 0}).X - cam.WorldToScreen(Vec2{}).X
	assertNear(t, "screen distance", d, 2)
	if cam.Scale() != (Vec2{2, 2}) {
		t.Errorf("Scale = %v, want (2,2)", cam.Scale())
	}
}

func TestCameraTranslateIsScreenAligned(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	cam.SetRotation(math.Pi / 2)
	before := cam.WorldToScreen(Vec2{})
	cam.Translate(Vec2{10, 0})
	after := cam.WorldToScreen(Vec2{})
	// Panning right moves the world left on screen whatever the rotation.
	assertVec(t, "screen shift", after.Sub(before), Vec2{-10, 0})
	assertVec(t, "lookAt", cam.LookAt(), Vec2{0, -10})
}

func TestCameraRotate(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	cam.Rotate(0.25)
	cam.Rotate(0.5)
	assertNear(t, "Rotation", cam.Rotation(), 0.75)
}

func TestCameraOnChangedFiresPerSetter(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	fired := 0
	h := cam.OnChanged(func(*Camera) { fired++ })
	cam.SetLookAt(Vec2{1, 1})
	cam.SetRotation(0.1)
	cam.SetScale(Vec2{2, 2})
	cam.SetScreenSize(Vec2{640, 480})
	if fired != 4 {
		t.Errorf("changed fired %d times, want 4", fired)
	}
	h.Remove()
	cam.SetLookAt(Vec2{})
	if fired != 4 {
		t.Error("removed handler still fired")
	}
}

func TestCameraZeroScalePanics(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	assertPanicsWith(t, ErrSingular, func() { cam.SetScale(Vec2{0, 1}) })
}

func TestCameraViewMatrixIsCopy(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	m := cam.ViewMatrix()
	m.Set(0, 2, 12345)
	assertVec(t, "WorldToScreen", cam.WorldToScreen(Vec2{}), Vec2{400, 300})
}

// --- Animation ---

func TestCameraScrollTo(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	cam.ScrollTo(Vec2{100, 50}, 1.0, ease.Linear)
	if !cam.Scrolling() {
		t.Fatal("Scrolling = false after ScrollTo")
	}
	cam.Update(0.5)
	if !approxEqual(cam.LookAt().X, 50, 0.5) || !approxEqual(cam.LookAt().Y, 25, 0.5) {
		t.Errorf("halfway LookAt = %v, want ~(50,25)", cam.LookAt())
	}
	cam.Update(0.5)
	if cam.Scrolling() {
		t.Error("Scrolling = true after full duration")
	}
	if !approxEqual(cam.LookAt().X, 100, 0.01) || !approxEqual(cam.LookAt().Y, 50, 0.01) {
		t.Errorf("final LookAt = %v, want (100,50)", cam.LookAt())
	}
}

func TestCameraFollow(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	target := NewRectangle("target", 10, 10)
	target.SetLocation(Vec2{200, 100})

	cam.Follow(target, Vec2{10, 0}, 0.5)
	cam.Update(1.0 / 60)
	assertVec(t, "half-way follow", cam.LookAt(), Vec2{105, 50})

	cam.Follow(target, Vec2{}, 1)
	cam.Update(1.0 / 60)
	assertVec(t, "snapped follow", cam.LookAt(), Vec2{200, 100})

	cam.Unfollow()
	target.SetLocation(Vec2{0, 0})
	cam.Update(1.0 / 60)
	assertVec(t, "after Unfollow", cam.LookAt(), Vec2{200, 100})
}

func TestCameraUpdateIdleDoesNotFire(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	fired := 0
	cam.OnChanged(func(*Camera) { fired++ })
	cam.Update(1.0 / 60)
	if fired != 0 {
		t.Errorf("idle Update fired %d change callbacks", fired)
	}
}

// --- Object.InView ---

func TestObjectInView(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	near := NewRectangle("near", 10, 10)
	far := NewRectangle("far", 10, 10)
	far.SetLocation(Vec2{1000, 0})
	if !near.InView(cam) {
		t.Error("object at the look-at should be in view")
	}
	if far.InView(cam) {
		t.Error("object 1000 units away should not be in view")
	}
	cam.SetLookAt(Vec2{1000, 0})
	if !far.InView(cam) || near.InView(cam) {
		t.Error("InView did not follow the camera")
	}
}

func TestObjectInViewRotatedCamera(t *testing.T) {
	cam := NewCamera(Vec2{800, 600})
	cam.SetRotation(math.Pi / 4)
	// (247.5, 247.5) lands 350px below the screen center, past the bottom
	// edge, yet it is inside the axis-aligned bounds of the rotated viewport.
	o := NewRectangle("edge", 2, 2)
	o.SetLocation(Vec2{247.5, 247.5})
	if o.InView(cam) {
		t.Error("object outside the rotated viewport reported in view")
	}
	if !cam.ViewportBounds().Contains(247.5, 247.5) {
		t.Error("point should still be inside the axis-aligned bounds")
	}
}
