// Package ecs bridges globe pick interactions into a [Donburi] world.
//
// [NewDonburiStore] publishes every pick event (pointer down, pointer up,
// click) as an [InteractionEventType] event. Scene entities can be linked to
// ECS entities so systems resolve a picked globe entity to their own data:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//	store.Link(pin)
//
//	ecs.InteractionEventType.Subscribe(world, func(w donburi.World, ev globe.InteractionEvent) {
//		if ent, ok := store.Lookup(ev.EntityID); ok {
//			// ...
//		}
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
