package canopy

import (
	"fmt"
	"math"
)

// --- ID counter ---

// objectIDCounter is a plain counter (no atomic, canopy is single-threaded).
var objectIDCounter uint32

func nextObjectID() uint32 {
	objectIDCounter++
	return objectIDCounter
}

// Label is a line of text drawn by a renderer at Offset in the owning
// object's local space. A zero Color means the renderer's default.
type Label struct {
	Text   string
	Offset Vec2
	Color  Color
}

// --- Object ---

// Object is a polygon in a retained scene: a list of local vertices placed by
// a location, per-axis scale and rotation, optionally owned by another
// object whose world transform it inherits. A single flat struct is used for
// every shape.
//
// Transform setters only mark the object dirty. Derived state (matrices,
// world vertices, bounding box) is recomputed in one pass by Update, or on
// demand by any accessor that needs it. Change notifications fire during
// that pass, not from the setters.
type Object struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	owner       *Object
	children    []*Object
	ownerHandle CallbackHandle // owner's subscription to our world changes

	// Transform (local)
	location Vec2
	scale    Vec2
	rotation float64
	vertices []Vec2

	// Computed
	localMatrix    *Matrix
	worldMatrix    *Matrix
	worldVertices  []Vec2
	bounds         Rect
	transformDirty bool
	childDirty     bool // some descendant has transformDirty set

	// View pipeline (written by ApplyView)
	viewMatrix   *Matrix
	viewVertices []Vec2

	// Appearance, read by renderers
	Color       Color
	BorderColor Color
	Fill        bool
	LineWidth   float64
	Texture     any
	Labels      []Label

	visible bool
	enabled bool

	// Metadata
	UserData any
	EntityID uint32

	// Per-object callbacks (nil by default; zero cost when unused)
	OnPointerDown  func(PointerContext)
	OnPointerUp    func(PointerContext)
	OnPointerMove  func(PointerContext)
	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)

	// Change notifications
	worldChanged   listeners[func(*Object)]
	boundsChanged  listeners[func()]
	nodeChanged    listeners[func(*Object)]
	visibleChanged listeners[func(*Object)]
	enabledChanged listeners[func(*Object)]

	disposed bool
}

// NewObject creates a visible, enabled object with the given local vertices.
// The vertex slice is copied.
func NewObject(name string, vertices []Vec2) *Object {
	o := &Object{
		ID:             nextObjectID(),
		Name:           name,
		scale:          Vec2{1, 1},
		vertices:       append([]Vec2(nil), vertices...),
		Color:          ColorWhite,
		BorderColor:    ColorWhite,
		LineWidth:      1,
		visible:        true,
		enabled:        true,
		transformDirty: true,
	}
	return o
}

// RectangleVertices returns the corners of a w x h rectangle centered on the
// origin, clockwise from the top-left.
func RectangleVertices(w, h float64) []Vec2 {
	return []Vec2{
		{-w / 2, -h / 2},
		{w / 2, -h / 2},
		{w / 2, h / 2},
		{-w / 2, h / 2},
	}
}

// NewRectangle creates a w x h rectangle centered on its location.
func NewRectangle(name string, w, h float64) *Object {
	return NewObject(name, RectangleVertices(w, h))
}

// NewRegularPolygon creates a regular polygon with the given circumradius,
// centered on its location. sides below 3 are treated as 3.
func NewRegularPolygon(name string, radius float64, sides int) *Object {
	if sides < 3 {
		sides = 3
	}
	pts := make([]Vec2, sides)
	step := 2 * math.Pi / float64(sides)
	for i := range pts {
		sin, cos := math.Sincos(float64(i)*step - math.Pi/2)
		pts[i] = Vec2{cos * radius, sin * radius}
	}
	return NewObject(name, pts)
}

// --- Hierarchy ---

// Owner returns the object this one is attached to, or nil.
func (o *Object) Owner() *Object {
	return o.owner
}

// Add attaches child as a sub-object, appending it to the end of the child
// list. A child attached elsewhere is detached first. Attaching an object
// to itself or to one of its own descendants returns an error wrapping
// ErrOwnershipCycle and leaves the hierarchy untouched.
func (o *Object) Add(child *Object) error {
	return o.AddAt(child, len(o.children))
}

// AddAt is Add with an explicit position in the child list. Out of range
// indexes are clamped.
func (o *Object) AddAt(child *Object, index int) error {
	if child == nil {
		return ErrNilObject
	}
	if child == o || o.HasOwner(child) {
		return fmt.Errorf("%w: %q cannot own %q, which is itself or one of its owners",
			ErrOwnershipCycle, o.Name, child.Name)
	}
	if child.owner != nil {
		child.owner.Remove(child)
	}
	index = max(0, min(index, len(o.children)))
	o.children = append(o.children, nil)
	copy(o.children[index+1:], o.children[index:])
	o.children[index] = child
	child.owner = o
	child.ownerHandle = child.OnWorldChanged(func(*Object) {
		emitObject(&o.worldChanged, o)
	})
	child.markDirty()
	return nil
}

// Remove detaches child and reports whether it was attached to o. The child
// is not disposed; its world transform becomes its local transform.
func (o *Object) Remove(child *Object) bool {
	if child == nil || child.owner != o {
		return false
	}
	for i, c := range o.children {
		if c == child {
			copy(o.children[i:], o.children[i+1:])
			o.children[len(o.children)-1] = nil
			o.children = o.children[:len(o.children)-1]
			break
		}
	}
	o.detach(child)
	return true
}

func (o *Object) detach(child *Object) {
	child.ownerHandle.Remove()
	child.ownerHandle = CallbackHandle{}
	child.owner = nil
	child.markDirty()
}

// RemoveFromOwner detaches o from its owner. No-op without an owner.
func (o *Object) RemoveFromOwner() {
	if o.owner != nil {
		o.owner.Remove(o)
	}
}

// RemoveChildren detaches all sub-objects. They are NOT disposed.
func (o *Object) RemoveChildren() {
	for _, c := range o.children {
		o.detach(c)
	}
	clear(o.children)
	o.children = o.children[:0]
}

// Children returns the sub-object list. The returned slice MUST NOT be
// mutated by the caller.
func (o *Object) Children() []*Object {
	return o.children
}

// NumChildren returns the number of sub-objects.
func (o *Object) NumChildren() int {
	return len(o.children)
}

// ChildAt returns the sub-object at the given index.
func (o *Object) ChildAt(index int) *Object {
	return o.children[index]
}

// Owners returns the owner chain, nearest first.
func (o *Object) Owners() []*Object {
	var out []*Object
	for p := o.owner; p != nil; p = p.owner {
		out = append(out, p)
	}
	return out
}

// HasOwner reports whether candidate appears anywhere in o's owner chain.
func (o *Object) HasOwner(candidate *Object) bool {
	for p := o.owner; p != nil; p = p.owner {
		if p == candidate {
			return true
		}
	}
	return false
}

// Root returns the topmost owner, or o itself when it has none.
func (o *Object) Root() *Object {
	r := o
	for r.owner != nil {
		r = r.owner
	}
	return r
}

// --- Visibility ---

// Visible reports whether renderers and picking should consider o.
func (o *Object) Visible() bool { return o.visible }

// SetVisible changes visibility and fires the visible-changed callbacks when
// the value actually changes.
func (o *Object) SetVisible(v bool) {
	if o.visible == v {
		return
	}
	o.visible = v
	emitObject(&o.visibleChanged, o)
}

// Enabled reports whether o receives pointer events.
func (o *Object) Enabled() bool { return o.enabled }

// SetEnabled changes the enabled flag and fires the enabled-changed
// callbacks when the value actually changes.
func (o *Object) SetEnabled(v bool) {
	if o.enabled == v {
		return
	}
	o.enabled = v
	emitObject(&o.enabledChanged, o)
}

// AddLabel appends a text label at the given local offset.
func (o *Object) AddLabel(text string, offset Vec2) {
	o.Labels = append(o.Labels, Label{Text: text, Offset: offset})
}

// --- Notifications ---

// OnWorldChanged registers fn to run whenever o's world matrix is
// recomputed, and whenever any descendant's is.
func (o *Object) OnWorldChanged(fn func(*Object)) CallbackHandle {
	return o.worldChanged.add(fn)
}

// OnBoundsChanged registers fn to run whenever o's bounding box is
// recomputed.
func (o *Object) OnBoundsChanged(fn func()) CallbackHandle {
	return o.boundsChanged.add(fn)
}

// OnNodeChanged registers fn to run when a spatial index moves o to another
// node.
func (o *Object) OnNodeChanged(fn func(*Object)) CallbackHandle {
	return o.nodeChanged.add(fn)
}

// OnVisibleChanged registers fn to run after SetVisible changes the flag.
func (o *Object) OnVisibleChanged(fn func(*Object)) CallbackHandle {
	return o.visibleChanged.add(fn)
}

// OnEnabledChanged registers fn to run after SetEnabled changes the flag.
func (o *Object) OnEnabledChanged(fn func(*Object)) CallbackHandle {
	return o.enabledChanged.add(fn)
}

// NodeChanged fires the node-changed callbacks. Called by QuadTree after it
// relocates o.
func (o *Object) NodeChanged() {
	emitObject(&o.nodeChanged, o)
}

// --- Queries ---

// BoundingBox returns the axis-aligned world-space box of o's own vertices.
// Sub-objects do not contribute.
func (o *Object) BoundingBox() Rect {
	o.ensureUpdated()
	return o.bounds
}

// Contains reports whether the world-space point p is inside o's polygon:
// a bounding box test first, then the crossing number rule.
func (o *Object) Contains(p Vec2) bool {
	o.ensureUpdated()
	if !o.bounds.Contains(p.X, p.Y) {
		return false
	}
	return PolygonContains(o.worldVertices, p)
}

// InView reports whether any of o's world vertices lies strictly inside the
// camera's viewport quadrilateral.
func (o *Object) InView(cam *Camera) bool {
	o.ensureUpdated()
	vp := cam.Viewport()
	edges := [4]Ray{{vp[0], vp[1]}, {vp[1], vp[2]}, {vp[2], vp[3]}, {vp[3], vp[0]}}
	for _, v := range o.worldVertices {
		inside := true
		for _, e := range edges {
			if e.OrientationToLine(v) <= 0 {
				inside = false
				break
			}
		}
		if inside {
			return true
		}
	}
	return false
}

// --- Disposal ---

// Dispose detaches o from its owner, drops every registered callback and
// recursively disposes all sub-objects. Remove o from any Canvas first.
func (o *Object) Dispose() {
	if o.disposed {
		return
	}
	o.RemoveFromOwner()
	o.dispose()
}

func (o *Object) dispose() {
	o.disposed = true
	for _, c := range o.children {
		c.ownerHandle = CallbackHandle{}
		c.owner = nil
		c.dispose()
	}
	o.children = nil
	o.worldChanged.reset()
	o.boundsChanged.reset()
	o.nodeChanged.reset()
	o.visibleChanged.reset()
	o.enabledChanged.reset()
	o.UserData = nil
	o.Texture = nil
	o.OnPointerDown = nil
	o.OnPointerUp = nil
	o.OnPointerMove = nil
	o.OnPointerEnter = nil
	o.OnPointerLeave = nil
}

// IsDisposed returns true if o has been disposed.
func (o *Object) IsDisposed() bool {
	return o.disposed
}

// String returns the name and ID, for logs.
func (o *Object) String() string {
	return fmt.Sprintf("%s#%d", o.Name, o.ID)
}
