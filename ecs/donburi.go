package ecs

import (
	"github.com/phanxgames/globe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for globe pick events.
var InteractionEventType = events.NewEventType[globe.InteractionEvent]()

// SceneEntity is the component linking an ECS entity to a globe entity.
type SceneEntity struct {
	ID     uint64
	Entity *globe.Entity
}

// SceneEntityComponent holds the SceneEntity of linked ECS entities.
var SceneEntityComponent = donburi.NewComponentType[SceneEntity]()

// DonburiStore is a globe.EntityStore backed by a Donburi world.
type DonburiStore struct {
	world donburi.World
	links map[uint64]donburi.Entity
}

// NewDonburiStore creates an EntityStore that publishes pick events to
// InteractionEventType in world. Consume them with events.Subscribe and
// ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world, links: make(map[uint64]donburi.Entity)}
}

// EmitEvent implements globe.EntityStore.
func (s *DonburiStore) EmitEvent(event globe.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Link creates an ECS entity carrying a SceneEntity component for e, or
// returns the existing one.
func (s *DonburiStore) Link(e *globe.Entity) donburi.Entity {
	if ent, ok := s.Lookup(e.ID()); ok {
		return ent
	}
	ent := s.world.Create(SceneEntityComponent)
	SceneEntityComponent.SetValue(s.world.Entry(ent), SceneEntity{ID: e.ID(), Entity: e})
	s.links[e.ID()] = ent
	return ent
}

// Unlink removes the ECS entity linked to the globe entity id, if any.
func (s *DonburiStore) Unlink(id uint64) {
	ent, ok := s.links[id]
	if !ok {
		return
	}
	delete(s.links, id)
	if s.world.Valid(ent) {
		s.world.Remove(ent)
	}
}

// Lookup returns the ECS entity linked to the globe entity id.
func (s *DonburiStore) Lookup(id uint64) (donburi.Entity, bool) {
	ent, ok := s.links[id]
	if !ok || !s.world.Valid(ent) {
		return 0, false
	}
	return ent, true
}
