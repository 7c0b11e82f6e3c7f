package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of an Object simultaneously. Create
// one via the convenience constructors (TweenLocation, TweenScale,
// TweenRotation, TweenColor, TweenAlpha) and call Update(dt) each frame.
// Values are written through the object's setters, so transform tweens mark
// it dirty like any other change. If the target is disposed, the group
// stops immediately.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	values [4]float64
	count  int
	apply  func(o *Object, v *[4]float64)
	target *Object
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target. If the target has been disposed, Done is set and nothing is
// written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target == nil || g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(g.target, &g.values)
	g.Done = allDone
}

// Stop ends the group without writing further values.
func (g *TweenGroup) Stop() {
	g.Done = true
}

func newTweenGroup(o *Object, duration float32, fn ease.TweenFunc, apply func(*Object, *[4]float64), from, to []float64) *TweenGroup {
	g := &TweenGroup{count: len(from), target: o, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.values[i] = from[i]
	}
	return g
}

// TweenLocation animates the object's location to the given point.
func TweenLocation(o *Object, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := o.Location()
	return newTweenGroup(o, duration, fn, func(o *Object, v *[4]float64) {
		o.SetLocation(Vec2{v[0], v[1]})
	}, []float64{from.X, from.Y}, []float64{to.X, to.Y})
}

// TweenScale animates the object's per-axis scale.
func TweenScale(o *Object, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := o.Scale()
	return newTweenGroup(o, duration, fn, func(o *Object, v *[4]float64) {
		o.SetScale(Vec2{v[0], v[1]})
	}, []float64{from.X, from.Y}, []float64{to.X, to.Y})
}

// TweenRotation animates the object's rotation (radians).
func TweenRotation(o *Object, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(o, duration, fn, func(o *Object, v *[4]float64) {
		o.SetRotation(v[0])
	}, []float64{o.Rotation()}, []float64{to})
}

// TweenColor shifts all four components of the fill color to the target.
func TweenColor(o *Object, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := o.Color
	return newTweenGroup(o, duration, fn, func(o *Object, v *[4]float64) {
		o.Color = Color{v[0], v[1], v[2], v[3]}
	}, []float64{c.R, c.G, c.B, c.A}, []float64{to.R, to.G, to.B, to.A})
}

// TweenAlpha animates only the fill color's alpha.
func TweenAlpha(o *Object, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(o, duration, fn, func(o *Object, v *[4]float64) {
		o.Color.A = v[0]
	}, []float64{o.Color.A}, []float64{to})
}
