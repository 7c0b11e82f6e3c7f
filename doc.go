// Package canopy is a retained-mode 2D scene description and spatial-query
// engine.
//
// A scene is a set of [Object] values: polygons placed by a location, a
// per-axis scale and a rotation, optionally owned by other objects whose
// world transform they inherit. A [Canvas] indexes top-level objects in a
// [QuadTree] by their world bounding boxes and keeps the list of objects
// inside a [Camera] viewport. Drawing is left to a renderer; the render
// sub-package provides one for [Ebitengine].
//
// # Quick start
//
//	canvas := canopy.NewCanvas(canopy.CanvasConfig{
//		ScreenSize: canopy.Vec2{X: 800, Y: 600},
//	})
//
//	box := canopy.NewRectangle("box", 80, 40)
//	box.SetLocation(canopy.Vec2{X: 100, Y: 50})
//	box.Fill = true
//	canvas.Add(box)
//
//	arm := canopy.NewRectangle("arm", 40, 10)
//	arm.SetLocation(canopy.Vec2{X: 40})
//	if err := box.Add(arm); err != nil {
//		log.Fatal(err)
//	}
//
//	for _, o := range canvas.Visible() {
//		// draw o.ViewVertices(), o.ClipVertices() ...
//	}
//
// # Transforms
//
// Each object's local matrix is Translate(Location) * Rotate(Rotation) *
// Scale(Scale); its world matrix is the owner's world matrix times the local
// one. Setters only mark objects dirty. [Object.Update] and [Canvas.Update]
// recompute everything dirty in one top-down pass, firing world-changed and
// bounds-changed notifications as they go. Attaching an object to one of its
// own descendants returns [ErrOwnershipCycle].
//
// # Spatial index
//
// [QuadTree] stores any type implementing [Item]. A node subdivides once it
// holds ten items, and an item lives in the deepest node whose rectangle
// fully contains its box. The tree subscribes to each item's bounds changes
// and relocates it automatically.
//
// # Camera
//
// The camera view matrix is
//
//	Translate(ScreenSize/2) * Rotate(Rotation) * Translate(-LookAt*Scale) * Scale(Scale)
//
// and [Camera.Viewport] gives the world-space screen corners. Cameras can
// follow an object or scroll to a point with easing (via [gween]).
//
// # Input
//
// Feed pointer positions and buttons in screen space to [Canvas.PointerMove],
// [Canvas.PointerDown] and [Canvas.PointerUp]. Objects receive enter, leave,
// move, down and up callbacks; enter and leave propagate along owner chains.
// An optional [EntityStore] forwards events to an ECS (see canopy/ecs).
// [InputScript] replays synthetic pointer input from code or a JSON file,
// one event per frame.
//
// # Logging
//
// Canvases log through the [log/slog] logger given in [CanvasConfig]. The
// default discards everything.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package canopy
