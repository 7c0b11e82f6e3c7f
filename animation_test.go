package canopy

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenLocationReachesTarget(t *testing.T) {
	o := NewRectangle("pos", 10, 10)
	o.SetLocation(Vec2{10, 20})

	g := TweenLocation(o, Vec2{100, 200}, 1.0, ease.Linear)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(o.Location().X-100) > 0.5 || math.Abs(o.Location().Y-200) > 0.5 {
		t.Errorf("Location = %v, want ~(100,200)", o.Location())
	}
}

func TestTweenLocationMarksDirty(t *testing.T) {
	o := NewRectangle("pos", 10, 10)
	o.Update()
	fired := 0
	o.OnWorldChanged(func(*Object) { fired++ })

	g := TweenLocation(o, Vec2{100, 0}, 1.0, ease.Linear)
	g.Update(0.5)
	if !o.transformDirty {
		t.Error("tween write should mark the object dirty")
	}
	o.Update()
	if fired != 1 {
		t.Errorf("world-changed fired %d times, want 1", fired)
	}
	if bb := o.BoundingBox(); math.Abs(bb.X-45) > 0.5 {
		t.Errorf("BoundingBox.X = %v, want ~45", bb.X)
	}
}

func TestTweenScaleReachesTarget(t *testing.T) {
	o := NewRectangle("scale", 10, 10)

	g := TweenScale(o, Vec2{2, 3}, 0.5, ease.Linear)
	g.Update(0.25)
	g.Update(0.25)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(o.Scale().X-2) > 0.01 || math.Abs(o.Scale().Y-3) > 0.01 {
		t.Errorf("Scale = %v, want ~(2,3)", o.Scale())
	}
}

func TestTweenRotation(t *testing.T) {
	o := NewRectangle("rot", 10, 10)

	g := TweenRotation(o, math.Pi, 1.0, ease.Linear)
	g.Update(0.5)
	if math.Abs(o.Rotation()-math.Pi/2) > 0.01 {
		t.Errorf("halfway Rotation = %f, want ~%f", o.Rotation(), math.Pi/2)
	}
	g.Update(0.5)
	if math.Abs(o.Rotation()-math.Pi) > 0.01 {
		t.Errorf("Rotation = %f, want ~%f", o.Rotation(), math.Pi)
	}
}

func TestTweenColorAllComponents(t *testing.T) {
	o := NewRectangle("color", 10, 10)
	o.Color = Color{R: 1, G: 0, B: 0, A: 1}
	target := Color{R: 0, G: 1, B: 0.5, A: 0.5}

	g := TweenColor(o, target, 1.0, ease.Linear)
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	for _, c := range []struct {
		name      string
		got, want float64
	}{
		{"R", o.Color.R, target.R},
		{"G", o.Color.G, target.G},
		{"B", o.Color.B, target.B},
		{"A", o.Color.A, target.A},
	} {
		if math.Abs(c.got-c.want) > 0.01 {
			t.Errorf("%s = %f, want %f", c.name, c.got, c.want)
		}
	}
}

func TestTweenAlphaInterpolates(t *testing.T) {
	o := NewRectangle("alpha", 10, 10)

	g := TweenAlpha(o, 0, 1.0, ease.Linear)
	g.Update(0.5)
	if math.Abs(o.Color.A-0.5) > 0.01 {
		t.Errorf("halfway A = %f, want ~0.5", o.Color.A)
	}
	if o.Color.R != 1 {
		t.Error("TweenAlpha must not touch RGB")
	}
}

func TestTweenStopsOnDisposedTarget(t *testing.T) {
	o := NewRectangle("gone", 10, 10)
	g := TweenLocation(o, Vec2{100, 100}, 1.0, ease.Linear)
	o.Dispose()

	g.Update(0.5)
	if !g.Done {
		t.Error("expected Done for a disposed target")
	}
	if o.Location() != (Vec2{}) {
		t.Errorf("disposed target was written: %v", o.Location())
	}
}

func TestTweenDoneIsNoop(t *testing.T) {
	o := NewRectangle("stop", 10, 10)
	g := TweenLocation(o, Vec2{100, 0}, 1.0, ease.Linear)
	g.Update(0.25)
	g.Stop()
	before := o.Location()
	g.Update(0.5)
	if o.Location() != before {
		t.Error("stopped tween kept writing")
	}
}
