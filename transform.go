package canopy

// --- Dirty tracking ---

// markDirty flags o for recomputation and tells every owner that some
// descendant needs work, so Update can skip clean subtrees.
func (o *Object) markDirty() {
	o.transformDirty = true
	for p := o.owner; p != nil && !p.childDirty; p = p.owner {
		p.childDirty = true
	}
}

// MarkDirty forces a recomputation of o's transform on the next Update or
// read. Useful after replacing the vertex slice returned by Vertices.
func (o *Object) MarkDirty() {
	o.markDirty()
}

// topmostDirty returns the highest object in o's owner chain (o included)
// whose transform is dirty, or nil when o's derived state is current.
func (o *Object) topmostDirty() *Object {
	var top *Object
	for p := o; p != nil; p = p.owner {
		if p.transformDirty {
			top = p
		}
	}
	return top
}

// ensureUpdated brings o's derived state up to date, flushing from the
// highest dirty owner down.
func (o *Object) ensureUpdated() {
	if t := o.topmostDirty(); t != nil {
		t.update()
	}
}

// Update flushes pending transform changes for o's owners, o and every
// sub-object in one pass. Each recomputed object fires world-changed then
// bounds-changed before its sub-objects are visited.
func (o *Object) Update() {
	if t := o.topmostDirty(); t != nil && t != o {
		t.update()
	}
	o.update()
}

func (o *Object) update() {
	if !o.transformDirty && !o.childDirty {
		return
	}
	if o.transformDirty {
		o.recompute()
		emitObject(&o.worldChanged, o)
		emit(&o.boundsChanged)
	}
	o.childDirty = false
	for _, c := range o.children {
		c.update()
	}
}

// recompute rebuilds the local and world matrices, world vertices and
// bounding box, and marks every sub-object dirty since their world
// matrices depend on ours.
func (o *Object) recompute() {
	o.localMatrix = Translate2D(o.location.X, o.location.Y).
		Mul(Rotate2D(o.rotation)).
		Mul(Scale2D(o.scale.X, o.scale.Y))
	if o.owner != nil {
		o.worldMatrix = o.owner.worldMatrix.Mul(o.localMatrix)
	} else {
		o.worldMatrix = o.localMatrix
	}
	o.worldVertices = o.worldMatrix.transformPointsInto(o.worldVertices, o.vertices)
	o.bounds = BoundingRect(o.worldVertices)
	o.transformDirty = false
	for _, c := range o.children {
		c.transformDirty = true
	}
	if len(o.children) > 0 {
		o.childDirty = true
	}
}

// --- Transform property setters ---

// Location returns the local translation.
func (o *Object) Location() Vec2 { return o.location }

// SetLocation sets the local translation and marks o dirty.
func (o *Object) SetLocation(p Vec2) {
	o.location = p
	o.markDirty()
}

// Translate moves o by offset in its owner's space.
func (o *Object) Translate(offset Vec2) {
	o.SetLocation(o.location.Add(offset))
}

// Scale returns the local per-axis scale.
func (o *Object) Scale() Vec2 { return o.scale }

// SetScale sets the local per-axis scale and marks o dirty.
func (o *Object) SetScale(s Vec2) {
	o.scale = s
	o.markDirty()
}

// Rotation returns the local rotation in radians.
func (o *Object) Rotation() float64 { return o.rotation }

// SetRotation sets the local rotation (in radians) and marks o dirty.
func (o *Object) SetRotation(r float64) {
	o.rotation = r
	o.markDirty()
}

// Rotate adds angle radians to the local rotation.
func (o *Object) Rotate(angle float64) {
	o.SetRotation(o.rotation + angle)
}

// TotalRotation returns the sum of the rotations along the owner chain.
func (o *Object) TotalRotation() float64 {
	r := 0.0
	for p := o; p != nil; p = p.owner {
		r += p.rotation
	}
	return r
}

// Vertices returns the local vertex list. The returned slice MUST NOT be
// mutated by the caller; use SetVertices.
func (o *Object) Vertices() []Vec2 {
	return o.vertices
}

// SetVertices replaces the local vertex list (copied) and marks o dirty.
func (o *Object) SetVertices(vertices []Vec2) {
	o.vertices = append(o.vertices[:0], vertices...)
	o.markDirty()
}

// --- Derived state ---

// LocalMatrix returns a copy of Translate(Location) * Rotate(Rotation) *
// Scale(Scale).
func (o *Object) LocalMatrix() *Matrix {
	o.ensureUpdated()
	return o.localMatrix.Clone()
}

// WorldMatrix returns a copy of the owner's world matrix times the local
// matrix, or the local matrix for an unowned object.
func (o *Object) WorldMatrix() *Matrix {
	o.ensureUpdated()
	return o.worldMatrix.Clone()
}

// WorldVertices returns the vertices transformed into world space. The
// returned slice MUST NOT be mutated by the caller.
func (o *Object) WorldVertices() []Vec2 {
	o.ensureUpdated()
	return o.worldVertices
}

// LocalToWorld converts a point in o's local space to world space.
func (o *Object) LocalToWorld(p Vec2) Vec2 {
	o.ensureUpdated()
	return o.worldMatrix.TransformPoint(p)
}

// WorldToLocal converts a world-space point to o's local space. It fails
// with ErrSingular when o (or an owner) has a zero scale.
func (o *Object) WorldToLocal(p Vec2) (Vec2, error) {
	o.ensureUpdated()
	inv, err := o.worldMatrix.Inverse()
	if err != nil {
		return Vec2{}, err
	}
	return inv.TransformPoint(p), nil
}

// --- View pipeline ---

// ApplyView precomputes screen-space vertices for o and every sub-object by
// composing view with each world matrix. Renderers read the result through
// ViewVertices, ClipVertices and ViewWorldMatrix.
func (o *Object) ApplyView(view *Matrix) {
	o.ensureUpdated()
	o.viewMatrix = view.Mul(o.worldMatrix)
	o.viewVertices = o.viewMatrix.transformPointsInto(o.viewVertices, o.vertices)
	for _, c := range o.children {
		c.ApplyView(view)
	}
}

// ViewVertices returns the vertices computed by the last ApplyView, or nil
// if ApplyView has never run. The returned slice MUST NOT be mutated.
func (o *Object) ViewVertices() []Vec2 {
	return o.viewVertices
}

// ViewWorldMatrix returns the view * world matrix from the last ApplyView,
// or nil if ApplyView has never run. It must not be modified.
func (o *Object) ViewWorldMatrix() *Matrix {
	return o.viewMatrix
}

// ClipVertices returns the silhouette a renderer should draw: for an owned
// object, its view vertices clipped against its owner's with ClipPolygon;
// otherwise its view vertices unchanged.
func (o *Object) ClipVertices() []Vec2 {
	if o.owner == nil || len(o.owner.viewVertices) == 0 {
		return o.viewVertices
	}
	return ClipPolygon(o.viewVertices, o.owner.viewVertices)
}
