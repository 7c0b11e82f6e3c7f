package ecs

import (
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// Event is a canopy interaction event resolved to its Donburi entity.
// Entity is donburi.Null when the object was never bound or its entity has
// been removed from the world.
type Event struct {
	canopy.InteractionEvent
	Entity donburi.Entity
}

// InteractionEventType is the Donburi event type for canopy pointer events.
var InteractionEventType = events.NewEventType[Event]()

// ObjectData links an entity to the canopy object that represents it.
type ObjectData struct {
	Object *canopy.Object
}

// ObjectComponent is added to every entity passed to DonburiStore.Bind.
var ObjectComponent = donburi.NewComponentType[ObjectData]()

// DonburiStore is a canopy.EntityStore that publishes events into a Donburi
// world. Events are queued; consume them with events.Subscribe and
// ProcessEvents.
type DonburiStore struct {
	world    donburi.World
	entities map[uint32]donburi.Entity
}

var _ canopy.EntityStore = (*DonburiStore)(nil)

// NewDonburiStore creates an EntityStore backed by world.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world, entities: make(map[uint32]donburi.Entity)}
}

// Bind associates o with entity e. An object with no EntityID is given its
// own ID so the canvas forwards its events. The entity receives an
// ObjectComponent referring to o.
func (s *DonburiStore) Bind(e donburi.Entity, o *canopy.Object) {
	if o == nil || !s.world.Valid(e) {
		return
	}
	if o.EntityID == 0 {
		o.EntityID = o.ID
	}
	s.entities[o.EntityID] = e

	entry := s.world.Entry(e)
	if !entry.HasComponent(ObjectComponent) {
		entry.AddComponent(ObjectComponent)
	}
	ObjectComponent.SetValue(entry, ObjectData{Object: o})
}

// Unbind forgets the entity bound to o. The entity keeps its component.
func (s *DonburiStore) Unbind(o *canopy.Object) {
	if o == nil {
		return
	}
	delete(s.entities, o.EntityID)
}

// Entity returns the entity bound to an EntityID.
func (s *DonburiStore) Entity(id uint32) (donburi.Entity, bool) {
	e, ok := s.entities[id]
	if !ok || !s.world.Valid(e) {
		return donburi.Null, false
	}
	return e, true
}

// EmitEvent implements canopy.EntityStore.
func (s *DonburiStore) EmitEvent(event canopy.InteractionEvent) {
	e, _ := s.Entity(event.EntityID)
	InteractionEventType.Publish(s.world, Event{InteractionEvent: event, Entity: e})
}
