package canopy

import (
	"errors"
	"math"
	"strconv"
)

// Sentinel errors returned (or wrapped in panics) by the core.
var (
	// ErrDimensionMismatch is wrapped in the panic raised when two matrices of
	// incompatible size are added, subtracted, or multiplied.
	ErrDimensionMismatch = errors.New("canopy: matrix dimension mismatch")
	// ErrNotSquare is returned when a square-only operation receives a
	// rectangular matrix.
	ErrNotSquare = errors.New("canopy: matrix is not square")
	// ErrSingular is returned when a matrix has no inverse.
	ErrSingular = errors.New("canopy: matrix is singular")
	// ErrOwnershipCycle is returned by Object.Add when the attachment would
	// make an object its own ancestor.
	ErrOwnershipCycle = errors.New("canopy: ownership cycle")
	// ErrNilObject is returned by Object.Add for a nil child.
	ErrNilObject = errors.New("canopy: nil object")
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// Lerp blends c toward o by t in [0, 1].
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// DefaultBounds is a root rectangle large enough to hold any practical scene.
// It mirrors the float32 range so every coordinate a renderer can express fits.
var DefaultBounds = Rect{
	X:      -math.MaxFloat32 / 4,
	Y:      -math.MaxFloat32 / 4,
	Width:  math.MaxFloat32,
	Height: math.MaxFloat32,
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area returns Width * Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ContainsRect reports whether other lies entirely inside r. Shared edges
// count as inside.
func (r Rect) ContainsRect(other Rect) bool {
	return r.X <= other.X && other.X+other.Width <= r.X+r.Width &&
		r.Y <= other.Y && other.Y+other.Height <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Corners returns the four corners clockwise from the top-left
// (in a Y-down coordinate system).
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // fires when a pointer button is pressed
	EventPointerUp                     // fires when a pointer button is released
	EventPointerMove                   // fires when the pointer moves over an object
	EventPointerEnter                  // fires when the pointer enters an object
	EventPointerLeave                  // fires when the pointer leaves an object
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventPointerDown:
		return "PointerDown"
	case EventPointerUp:
		return "PointerUp"
	case EventPointerMove:
		return "PointerMove"
	case EventPointerEnter:
		return "PointerEnter"
	case EventPointerLeave:
		return "PointerLeave"
	default:
		return "Unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
	MouseButtonRight                     // secondary (right) mouse button
	mouseButtonCount
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "Left"
	case MouseButtonMiddle:
		return "Middle"
	case MouseButtonRight:
		return "Right"
	default:
		return "MouseButton(" + strconv.Itoa(int(b)) + ")"
	}
}
