// Package ecs bridges canopy pointer events into a [Donburi] world.
//
// [NewDonburiStore] returns a [canopy.EntityStore]. Objects bound to an
// entity with [DonburiStore.Bind] carry that entity on every published
// [Event], and the entity gains an [ObjectComponent] pointing back at the
// object. Subscribe to [InteractionEventType] in your systems:
//
//	store := ecs.NewDonburiStore(world)
//	canvas.SetEntityStore(store)
//	store.Bind(entity, obj)
//
//	ecs.InteractionEventType.Subscribe(world, func(w donburi.World, e ecs.Event) {
//		// e.Entity is the bound entity, e.Type the pointer event kind.
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
