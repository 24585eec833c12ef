// Package ecs provides ECS adapters for easel.
package ecs

import (
	"github.com/phanxgames/easel"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for easel scene events.
// Subscribe to this in your ECS systems to receive zoom, pan, selection and
// modification events.
var SceneEventType = events.NewEventType[easel.Event]()

// CanvasObject mirrors an easel entity inside the Donburi world.
type CanvasObject struct {
	ID       easel.Entity
	Selected bool
	// Revision counts modification events seen for the entity.
	Revision int
}

// CanvasObjectComponent holds the CanvasObject of a mirrored entity.
var CanvasObjectComponent = donburi.NewComponentType[CanvasObject]()

// DonburiStore forwards easel events into a Donburi world and keeps one
// Donburi entity per easel entity that was modified or selected.
type DonburiStore struct {
	world    donburi.World
	mirror   map[easel.Entity]donburi.Entity
	selected []easel.Entity
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world, mirror: make(map[easel.Entity]donburi.Entity)}
}

// EmitEvent implements easel.EntityStore.
func (s *DonburiStore) EmitEvent(event easel.Event) {
	switch event.Type {
	case easel.EventObjectModified:
		if event.Entity != easel.NoEntity {
			entry := s.entry(event.Entity)
			CanvasObjectComponent.Get(entry).Revision++
		}
	case easel.EventSelectionChanged, easel.EventSelectionGroupAdded, easel.EventSelectionGroupUpdated, easel.EventSelectionGroupRemoved:
		s.setSelected(event.Entities)
	}
	SceneEventType.Publish(s.world, event)
}

// Lookup returns the Donburi entity mirroring e.
func (s *DonburiStore) Lookup(e easel.Entity) (donburi.Entity, bool) {
	ent, ok := s.mirror[e]
	if !ok || !s.world.Valid(ent) {
		return 0, false
	}
	return ent, true
}

// Forget removes the mirror of e, if any.
func (s *DonburiStore) Forget(e easel.Entity) {
	if ent, ok := s.mirror[e]; ok {
		if s.world.Valid(ent) {
			s.world.Remove(ent)
		}
		delete(s.mirror, e)
	}
}

func (s *DonburiStore) entry(e easel.Entity) *donburi.Entry {
	if ent, ok := s.Lookup(e); ok {
		return s.world.Entry(ent)
	}
	ent := s.world.Create(CanvasObjectComponent)
	s.mirror[e] = ent
	entry := s.world.Entry(ent)
	CanvasObjectComponent.SetValue(entry, CanvasObject{ID: e})
	return entry
}

func (s *DonburiStore) setSelected(members []easel.Entity) {
	for _, e := range s.selected {
		if ent, ok := s.Lookup(e); ok {
			CanvasObjectComponent.Get(s.world.Entry(ent)).Selected = false
		}
	}
	s.selected = append(s.selected[:0], members...)
	for _, e := range members {
		CanvasObjectComponent.Get(s.entry(e)).Selected = true
	}
}

var _ easel.EntityStore = (*DonburiStore)(nil)
