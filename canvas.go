package canopy

import (
	"cmp"
	"log/slog"
	"slices"
	"time"
)

// CanvasConfig configures a Canvas. The zero value is usable: WorldBounds
// defaults to DefaultBounds and logging is disabled.
type CanvasConfig struct {
	// ScreenSize is the initial camera screen size in pixels.
	ScreenSize Vec2
	// WorldBounds is the root rectangle of the spatial index. Objects whose
	// bounding box leaves it are not indexed.
	WorldBounds Rect
	// Logger receives diagnostics. Nil disables logging.
	Logger *slog.Logger
	// Debug enables per-update timing logs and hierarchy sanity warnings at
	// slog.LevelDebug and slog.LevelWarn.
	Debug bool
}

// canvasEntry is the canvas's bookkeeping for one tracked object.
type canvasEntry struct {
	seq         int
	indexed     bool
	viewPending bool
	viewVersion uint64
	world       CallbackHandle
	node        CallbackHandle
}

// Canvas owns a spatial index and a camera, and keeps the list of objects
// whose bounding boxes intersect the camera viewport. Objects added to a
// canvas are indexed by their own bounding box; their sub-objects travel
// with them and are not indexed separately.
//
// Mutations are batched: changing objects or the camera marks state stale,
// and Update (called implicitly by Visible, Query and the pointer methods)
// flushes transforms, re-queries the index and re-applies the view matrix
// to visible objects whose screen geometry is out of date.
type Canvas struct {
	index  *QuadTree[*Object]
	camera *Camera
	logger *slog.Logger
	debug  bool

	objects []*Object
	entries map[*Object]*canvasEntry
	nextSeq int

	visible      []*Object
	visibleStale bool
	viewVersion  uint64

	// Input state
	handlers handlerRegistry
	hover    *Object
	buttons  [mouseButtonCount]bool
	pointer  Vec2
	store    EntityStore
}

// NewCanvas creates a canvas with an empty index and a camera looking at
// the origin.
func NewCanvas(cfg CanvasConfig) *Canvas {
	bounds := cfg.WorldBounds
	if bounds == (Rect{}) {
		bounds = DefaultBounds
	}
	logger := cfg.Logger
	if logger == nil {
		logger = newNopLogger()
	}
	c := &Canvas{
		index:   NewQuadTree[*Object](bounds),
		camera:  NewCamera(cfg.ScreenSize),
		logger:  logger,
		debug:   cfg.Debug,
		entries: make(map[*Object]*canvasEntry),
	}
	c.index.OnEvict(c.evicted)
	c.camera.OnChanged(c.cameraChanged)
	return c
}

// Camera returns the canvas camera.
func (c *Canvas) Camera() *Camera {
	return c.camera
}

// Logger returns the configured logger.
func (c *Canvas) Logger() *slog.Logger {
	return c.logger
}

// SetScreenSize resizes the camera's screen.
func (c *Canvas) SetScreenSize(size Vec2) {
	if c.camera.ScreenSize() != size {
		c.camera.SetScreenSize(size)
	}
}

// Add starts tracking o: it is inserted into the index, the current view is
// applied and the visible list is refreshed. Add returns false, and does
// not track o, if o is nil, already on the canvas, or its bounding box is
// outside the world bounds.
func (c *Canvas) Add(o *Object) bool {
	if o == nil || c.entries[o] != nil {
		return false
	}
	o.Update()
	if !c.index.Add(o) {
		c.logger.Warn("canopy: object outside world bounds, not added",
			"object", o.String(), "bounds", o.BoundingBox(), "world", c.index.Bounds())
		return false
	}
	if c.debug {
		c.debugCheckObject(o)
	}
	e := &canvasEntry{seq: c.nextSeq, indexed: true}
	c.nextSeq++
	e.world = o.OnWorldChanged(func(*Object) { c.worldChanged(o, e) })
	e.node = o.OnNodeChanged(func(*Object) { c.visibleStale = true })
	c.entries[o] = e
	c.objects = append(c.objects, o)

	o.ApplyView(c.camera.viewMatrix)
	e.viewVersion = c.viewVersion
	c.refreshVisible()
	return true
}

// Remove stops tracking o and reports whether it was on the canvas.
func (c *Canvas) Remove(o *Object) bool {
	e := c.entries[o]
	if e == nil {
		return false
	}
	if e.indexed {
		c.index.Remove(o)
	}
	e.world.Remove()
	e.node.Remove()
	delete(c.entries, o)
	if i := slices.Index(c.objects, o); i >= 0 {
		c.objects = slices.Delete(c.objects, i, i+1)
	}
	if c.hover != nil && (c.hover == o || c.hover.HasOwner(o)) {
		c.hover = nil
	}
	c.refreshVisible()
	return true
}

// Clear removes every object.
func (c *Canvas) Clear() {
	c.index.Clear()
	for _, e := range c.entries {
		e.world.Remove()
		e.node.Remove()
	}
	clear(c.entries)
	clear(c.objects)
	c.objects = c.objects[:0]
	clear(c.visible)
	c.visible = c.visible[:0]
	c.visibleStale = false
	c.hover = nil
}

// Count returns the number of tracked objects.
func (c *Canvas) Count() int {
	return len(c.objects)
}

// Objects returns every tracked object in insertion order. The returned
// slice MUST NOT be mutated by the caller.
func (c *Canvas) Objects() []*Object {
	return c.objects
}

// Visible brings the canvas up to date and returns the objects whose
// bounding boxes intersect the camera viewport, in insertion order. The
// returned slice MUST NOT be mutated and is only valid until the next
// mutation of the canvas.
func (c *Canvas) Visible() []*Object {
	c.Update()
	return c.visible
}

// Query brings the canvas up to date and returns every tracked object whose
// bounding box intersects r.
func (c *Canvas) Query(r Rect) []*Object {
	c.flush()
	return c.index.queryCurrent(r, nil)
}

// IndexRects returns the rectangles of every spatial index node.
func (c *Canvas) IndexRects() []Rect {
	c.flush()
	return c.index.Rects()
}

// Update flushes pending object transforms, refreshes the visible list if
// anything moved, and applies the view matrix to visible objects that need
// it. Call it once per frame before drawing.
func (c *Canvas) Update() {
	var start time.Time
	if c.debug {
		start = time.Now()
	}

	c.flush()
	var flushed time.Time
	if c.debug {
		flushed = time.Now()
	}

	requeried := c.visibleStale
	if requeried {
		c.requery()
	}
	c.applyViews()

	if c.debug && requeried {
		c.logger.Debug("canopy: update",
			"flush", flushed.Sub(start),
			"query", time.Since(flushed),
			"objects", len(c.objects),
			"visible", len(c.visible),
			"nodes", c.index.nodeCount())
	}
}

// flush recomputes dirty transforms of every tracked object.
func (c *Canvas) flush() {
	for _, o := range c.objects {
		o.Update()
	}
}

// requery replaces the visible list with the objects intersecting the
// camera viewport bounds, ordered by insertion.
func (c *Canvas) requery() {
	clear(c.visible)
	c.visible = c.index.queryCurrent(c.camera.ViewportBounds(), c.visible[:0])
	slices.SortFunc(c.visible, func(a, b *Object) int {
		return cmp.Compare(c.entries[a].seq, c.entries[b].seq)
	})
	c.visibleStale = false
}

func (c *Canvas) refreshVisible() {
	c.flush()
	c.requery()
	c.applyViews()
}

// applyViews applies the camera view to visible objects whose world
// changed or that have not seen the current view yet.
func (c *Canvas) applyViews() {
	view := c.camera.viewMatrix
	for _, o := range c.visible {
		e := c.entries[o]
		if e.viewPending || e.viewVersion != c.viewVersion {
			o.ApplyView(view)
			e.viewPending = false
			e.viewVersion = c.viewVersion
		}
	}
}

// worldChanged runs when o or any of its sub-objects was recomputed.
func (c *Canvas) worldChanged(o *Object, e *canvasEntry) {
	e.viewPending = true
	c.visibleStale = true
	if !e.indexed {
		// An evicted object rejoins the index once it is back in bounds.
		e.indexed = c.index.Add(o)
	}
}

func (c *Canvas) evicted(o *Object) {
	if e := c.entries[o]; e != nil {
		e.indexed = false
	}
	c.logger.Warn("canopy: object left world bounds",
		"object", o.String(), "bounds", o.BoundingBox(), "world", c.index.Bounds())
}

func (c *Canvas) cameraChanged(*Camera) {
	c.viewVersion++
	c.refreshVisible()
}
