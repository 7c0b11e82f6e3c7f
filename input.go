package canopy

// ButtonMask is the set of mouse buttons held during a pointer event.
type ButtonMask uint8

// Pressed reports whether b is held.
func (m ButtonMask) Pressed(b MouseButton) bool {
	return m&(1<<b) != 0
}

// PointerContext carries pointer event data passed to callbacks.
type PointerContext struct {
	Object   *Object // the object under the pointer, or nil for canvas-level events over nothing
	EntityID uint32
	UserData any
	World    Vec2 // pointer position in world space
	Local    Vec2 // pointer position in Object's local space
	Button   MouseButton
	Buttons  ButtonMask
}

// EntityStore is the interface for optionally routing pointer events into an
// ECS. Only objects with a non-zero EntityID are forwarded.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries pointer event data for the ECS bridge.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	World    Vec2
	Local    Vec2
	Button   MouseButton
}

// handlerRegistry stores canvas-level pointer callbacks.
type handlerRegistry struct {
	pointerDown  listeners[func(PointerContext)]
	pointerUp    listeners[func(PointerContext)]
	pointerMove  listeners[func(PointerContext)]
	pointerEnter listeners[func(PointerContext)]
	pointerLeave listeners[func(PointerContext)]
}

// OnPointerDown registers a canvas-level callback fired on every button
// press, whether or not an object is under the pointer.
func (c *Canvas) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	return c.handlers.pointerDown.add(fn)
}

// OnPointerUp registers a canvas-level callback fired on every button
// release.
func (c *Canvas) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	return c.handlers.pointerUp.add(fn)
}

// OnPointerMove registers a canvas-level callback fired on every pointer
// move.
func (c *Canvas) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	return c.handlers.pointerMove.add(fn)
}

// OnPointerEnter registers a canvas-level callback fired for every enabled
// object the pointer enters.
func (c *Canvas) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	return c.handlers.pointerEnter.add(fn)
}

// OnPointerLeave registers a canvas-level callback fired for every enabled
// object the pointer leaves.
func (c *Canvas) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	return c.handlers.pointerLeave.add(fn)
}

// SetEntityStore sets the optional ECS bridge.
func (c *Canvas) SetEntityStore(s EntityStore) {
	c.store = s
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Canvas) ScreenToWorld(p Vec2) Vec2 {
	return c.camera.ScreenToWorld(p)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Canvas) WorldToScreen(p Vec2) Vec2 {
	return c.camera.WorldToScreen(p)
}

// Hovered returns the object currently under the pointer, or nil.
func (c *Canvas) Hovered() *Object {
	return c.hover
}

// Pointer returns the last pointer position in screen space.
func (c *Canvas) Pointer() Vec2 {
	return c.pointer
}

// ObjectAt returns the topmost visible, enabled object containing the world
// point p. Later-added objects are on top; within an object, sub-objects are
// tested last to first and the deepest hit wins.
func (c *Canvas) ObjectAt(p Vec2) *Object {
	return pick(c.Visible(), p)
}

func pick(objs []*Object, p Vec2) *Object {
	for i := len(objs) - 1; i >= 0; i-- {
		o := objs[i]
		if !o.visible || !o.enabled || !o.Contains(p) {
			continue
		}
		if sub := pick(o.children, p); sub != nil {
			return sub
		}
		return o
	}
	return nil
}

// PointerMove feeds a pointer position in screen space. The hovered object
// (if any) receives a move event, then hover changes are resolved into leave
// and enter events.
func (c *Canvas) PointerMove(screen Vec2) {
	c.pointer = screen
	world := c.updateWorldPointer()
	if c.hover != nil {
		c.fireObject(c.hover, EventPointerMove, world, MouseButtonLeft)
	}
	c.updateHover(world)
	c.fireCanvas(&c.handlers.pointerMove, c.hover, world, MouseButtonLeft)
}

// PointerDown feeds a button press at a screen position.
func (c *Canvas) PointerDown(screen Vec2, button MouseButton) {
	c.pointer = screen
	world := c.updateWorldPointer()
	c.updateHover(world)
	if button < mouseButtonCount {
		c.buttons[button] = true
	}
	if c.hover != nil {
		c.fireObject(c.hover, EventPointerDown, world, button)
	}
	c.fireCanvas(&c.handlers.pointerDown, c.hover, world, button)
}

// PointerUp feeds a button release at a screen position.
func (c *Canvas) PointerUp(screen Vec2, button MouseButton) {
	c.pointer = screen
	world := c.updateWorldPointer()
	c.updateHover(world)
	if button < mouseButtonCount {
		c.buttons[button] = false
	}
	if c.hover != nil {
		c.fireObject(c.hover, EventPointerUp, world, button)
	}
	c.fireCanvas(&c.handlers.pointerUp, c.hover, world, button)
}

// RefreshHover re-resolves the hovered object at the last pointer position.
// Call it after the camera or objects move under a stationary pointer.
func (c *Canvas) RefreshHover() {
	c.updateHover(c.updateWorldPointer())
}

// updateWorldPointer brings the canvas up to date and maps the last screen
// pointer position into the world.
func (c *Canvas) updateWorldPointer() Vec2 {
	c.Update()
	return c.camera.ScreenToWorld(c.pointer)
}

// updateHover changes the hovered object to whatever lies under world.
// Objects the pointer left receive leave events innermost first, then
// objects it entered receive enter events outermost first. Owners shared by
// the old and new hover see neither.
func (c *Canvas) updateHover(world Vec2) {
	next := pick(c.visible, world)
	prev := c.hover
	if next == prev {
		return
	}
	c.hover = next

	for o := prev; o != nil && !selfOrOwnerOf(o, next); o = o.owner {
		c.fireObject(o, EventPointerLeave, world, MouseButtonLeft)
	}

	var entered []*Object
	for o := next; o != nil && !selfOrOwnerOf(o, prev); o = o.owner {
		entered = append(entered, o)
	}
	for i := len(entered) - 1; i >= 0; i-- {
		c.fireObject(entered[i], EventPointerEnter, world, MouseButtonLeft)
	}
}

// selfOrOwnerOf reports whether o is x or one of x's owners.
func selfOrOwnerOf(o, x *Object) bool {
	if x == nil {
		return false
	}
	return o == x || x.HasOwner(o)
}

func (c *Canvas) buttonMask() ButtonMask {
	var m ButtonMask
	for i, down := range c.buttons {
		if down {
			m |= 1 << i
		}
	}
	return m
}

func (c *Canvas) pointerContext(o *Object, world Vec2, button MouseButton) PointerContext {
	ctx := PointerContext{
		Object:  o,
		World:   world,
		Button:  button,
		Buttons: c.buttonMask(),
	}
	if o != nil {
		ctx.EntityID = o.EntityID
		ctx.UserData = o.UserData
		if local, err := o.WorldToLocal(world); err == nil {
			ctx.Local = local
		}
	}
	return ctx
}

// fireObject delivers an event to one object: its own callback, the
// canvas-level enter/leave handlers, then the ECS bridge. Disabled objects
// receive nothing.
func (c *Canvas) fireObject(o *Object, typ EventType, world Vec2, button MouseButton) {
	if !o.enabled || o.disposed {
		return
	}
	ctx := c.pointerContext(o, world, button)
	switch typ {
	case EventPointerDown:
		if o.OnPointerDown != nil {
			o.OnPointerDown(ctx)
		}
	case EventPointerUp:
		if o.OnPointerUp != nil {
			o.OnPointerUp(ctx)
		}
	case EventPointerMove:
		if o.OnPointerMove != nil {
			o.OnPointerMove(ctx)
		}
	case EventPointerEnter:
		if o.OnPointerEnter != nil {
			o.OnPointerEnter(ctx)
		}
		c.handlers.pointerEnter.each(func(fn func(PointerContext)) { fn(ctx) })
	case EventPointerLeave:
		if o.OnPointerLeave != nil {
			o.OnPointerLeave(ctx)
		}
		c.handlers.pointerLeave.each(func(fn func(PointerContext)) { fn(ctx) })
	}
	if c.store != nil && o.EntityID != 0 {
		c.store.EmitEvent(InteractionEvent{
			Type:     typ,
			EntityID: o.EntityID,
			World:    world,
			Local:    ctx.Local,
			Button:   button,
		})
	}
}

func (c *Canvas) fireCanvas(l *listeners[func(PointerContext)], o *Object, world Vec2, button MouseButton) {
	if l.len() == 0 {
		return
	}
	ctx := c.pointerContext(o, world, button)
	l.each(func(fn func(PointerContext)) { fn(ctx) })
}
