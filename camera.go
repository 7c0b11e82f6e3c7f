package canopy

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for the look-at X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera maps world coordinates to the screen. It looks at a world point,
// scales per axis and rotates about the screen center:
//
//	View = Translate(ScreenSize/2) * Rotate(Rotation) * Translate(-LookAt*Scale) * Scale(Scale)
//
// Every setter recomputes the view matrix, its inverse and the viewport
// corners, then fires the change callbacks once.
type Camera struct {
	screenSize Vec2
	lookAt     Vec2
	scale      Vec2
	rotation   float64

	viewMatrix    *Matrix
	invViewMatrix *Matrix
	viewport      [4]Vec2

	followTarget *Object
	followOffset Vec2
	followLerp   float64

	scrollTween *scrollAnim

	changed listeners[func(*Camera)]
}

// NewCamera creates a camera for the given screen size looking at the
// origin with unit scale and no rotation.
func NewCamera(screenSize Vec2) *Camera {
	c := &Camera{screenSize: screenSize, scale: Vec2{1, 1}}
	c.recompute()
	return c
}

// OnChanged registers fn to run after every change of the view.
func (c *Camera) OnChanged(fn func(*Camera)) CallbackHandle {
	return c.changed.add(fn)
}

// ScreenSize returns the screen size in pixels.
func (c *Camera) ScreenSize() Vec2 { return c.screenSize }

// SetScreenSize sets the screen size in pixels.
func (c *Camera) SetScreenSize(s Vec2) {
	c.screenSize = s
	c.changedView()
}

// LookAt returns the world point shown at the center of the screen.
func (c *Camera) LookAt() Vec2 { return c.lookAt }

// SetLookAt sets the world point shown at the center of the screen.
func (c *Camera) SetLookAt(p Vec2) {
	c.lookAt = p
	c.changedView()
}

// Scale returns the per-axis zoom.
func (c *Camera) Scale() Vec2 { return c.scale }

// SetScale sets the per-axis zoom. A zero component makes the view
// singular, which panics.
func (c *Camera) SetScale(s Vec2) {
	c.scale = s
	c.changedView()
}

// Rotation returns the view rotation in radians.
func (c *Camera) Rotation() float64 { return c.rotation }

// SetRotation sets the view rotation in radians.
func (c *Camera) SetRotation(r float64) {
	c.rotation = r
	c.changedView()
}

// Rotate adds angle radians to the view rotation.
func (c *Camera) Rotate(angle float64) {
	c.SetRotation(c.rotation + angle)
}

// Translate pans by a screen-aligned offset. The offset is rotated into
// world orientation first, so panning "right" always moves the view right
// on screen whatever the camera rotation.
func (c *Camera) Translate(offset Vec2) {
	c.SetLookAt(c.lookAt.Add(Rotate2D(-c.rotation).TransformPoint(offset)))
}

// Zoom multiplies both scale components by f.
func (c *Camera) Zoom(f float64) {
	c.SetScale(c.scale.Mul(f))
}

func (c *Camera) changedView() {
	c.recompute()
	c.changed.each(func(fn func(*Camera)) { fn(c) })
}

// recompute rebuilds the view matrix, its inverse and the viewport corners.
// Panics with an error wrapping ErrSingular when the view has no inverse.
func (c *Camera) recompute() {
	// rts = Rotate * Translate(-LookAt*Scale) * Scale, the view without the
	// final shift to the screen center.
	rts := Rotate2D(c.rotation).
		Mul(Translate2D(-c.lookAt.X*c.scale.X, -c.lookAt.Y*c.scale.Y)).
		Mul(Scale2D(c.scale.X, c.scale.Y))
	view := Translate2D(c.screenSize.X/2, c.screenSize.Y/2).Mul(rts)

	inv, err := view.Inverse()
	if err != nil {
		panic(fmt.Errorf("canopy: camera view (scale %v) cannot be inverted: %w", c.scale, err))
	}
	invRTS, err := rts.Inverse()
	if err != nil {
		panic(fmt.Errorf("canopy: camera view (scale %v) cannot be inverted: %w", c.scale, err))
	}

	c.viewMatrix = view
	c.invViewMatrix = inv
	screen := RectangleVertices(c.screenSize.X, c.screenSize.Y)
	for i := range c.viewport {
		c.viewport[i] = invRTS.TransformPoint(screen[i])
	}
}

// ViewMatrix returns a copy of the world-to-screen matrix.
func (c *Camera) ViewMatrix() *Matrix {
	return c.viewMatrix.Clone()
}

// InverseViewMatrix returns a copy of the screen-to-world matrix.
func (c *Camera) InverseViewMatrix() *Matrix {
	return c.invViewMatrix.Clone()
}

// Viewport returns the world-space corners of the screen clockwise from the
// top-left of the screen. Under rotation they form a rotated rectangle.
func (c *Camera) Viewport() [4]Vec2 {
	return c.viewport
}

// ViewportBounds returns the axis-aligned bounding rect of Viewport.
func (c *Camera) ViewportBounds() Rect {
	return BoundingRect(c.viewport[:])
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	return c.viewMatrix.TransformPoint(p)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(p Vec2) Vec2 {
	return c.invViewMatrix.TransformPoint(p)
}

// --- Animation ---

// Follow makes the camera track a target object's world origin plus offset.
// A lerp of 1.0 snaps immediately; lower values give smoother following.
func (c *Camera) Follow(obj *Object, offset Vec2, lerp float64) {
	c.followTarget = obj
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the look-at point to target over duration seconds.
func (c *Camera) ScrollTo(target Vec2, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.lookAt.X), float32(target.X), duration, easeFn),
		tweenY: gween.New(float32(c.lookAt.Y), float32(target.Y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// Update advances follow and scroll animations by dt seconds. The view is
// recomputed (and change callbacks fire) only if the look-at point moved.
func (c *Camera) Update(dt float32) {
	p := c.lookAt

	if c.followTarget != nil && !c.followTarget.IsDisposed() {
		target := c.followTarget.LocalToWorld(Vec2{}).Add(c.followOffset)
		p = p.Add(target.Sub(p).Mul(c.followLerp))
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			p.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			p.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if p != c.lookAt && !math.IsNaN(p.X) && !math.IsNaN(p.Y) {
		c.SetLookAt(p)
	}
}
