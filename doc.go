// Package globe is the entity core of a retained-mode map renderer built on
// [Ebitengine].
//
// # Entities
//
// An [Entity] is a positioned, identifiable scene object. It carries up to
// one feature per [FeatureKind] (a [Billboard] icon and a [Label]) and an
// ordered list of children. Entities are created by a [Scene], which hands
// out ids that are never reused:
//
//	scene := globe.NewScene()
//	pin := scene.NewEntity(globe.EntityOptions{
//		Position:  &globe.Vec3{X: 2.35, Y: 48.85},
//		Billboard: &globe.BillboardOptions{Region: atlas.Region("pin")},
//		Label:     &globe.LabelOptions{Text: "Paris", Font: font},
//	}, globe.Properties{"name": "Paris"})
//
// Position and visibility changes propagate to the entity's features and
// then to every descendant. Positions are absolute: a child moved with its
// parent takes the parent's position.
//
// # Collections
//
// An [EntityCollection] tracks attached entities, descendants included, in
// a flat index, and one handler per feature kind aggregating the live
// features of every member. Only roots are added; children attach with
// their parent:
//
//	cities := scene.NewCollection("cities")
//	pin.AddTo(cities)
//
// Removal compacts the index in one order-preserving pass, so
// CollectionIndex is always the entity's position in [EntityCollection.Entities].
//
// # Picking
//
// Every root added to a collection receives a unique 24-bit picking color
// that its whole subtree shares. [Scene.Draw] renders each live feature in
// its picking color into an offscreen buffer when pointer input is pending
// and resolves the pixel under the pointer back to the root:
//
//	scene.OnClick(func(ctx globe.PickContext) {
//		if ctx.Entity != nil {
//			fmt.Println("clicked", ctx.Entity.Name())
//		}
//	})
//
// # Scene descriptions
//
// [Scene.LoadSceneConfig] builds collections from YAML. Feature entries
// naming an unknown kind are ignored.
//
// # Running
//
// [Run] opens a window and drives the scene; alternatively implement
// [ebiten.Game] yourself and call [Scene.Update] and [Scene.Draw].
//
// [Ebitengine]: https://ebitengine.org
package globe
