package easel

import "sort"

// selectionOrigin is where a member lived before it joined the selection
// group. parent is NoEntity for top-level members.
type selectionOrigin struct {
	parent Entity
	index  int
}

// selection is the scene's current selection. With two or more members they
// are moved into a synthetic group so they drag and fit as one; a single
// member stays where it is.
type selection struct {
	members []Entity
	origins map[Entity]selectionOrigin
	group   Entity
}

// Selection returns the selected entities in draw order.
func (s *Scene) Selection() []Entity {
	return append([]Entity(nil), s.sel.members...)
}

// SelectionGroup returns the synthetic group holding a multi-selection.
func (s *Scene) SelectionGroup() (Entity, bool) {
	return s.sel.group, s.sel.group != NoEntity
}

// IsSelected reports whether e is a selection member.
func (s *Scene) IsSelected(e Entity) bool {
	return indexOfEntity(s.sel.members, e) >= 0
}

// Select replaces the selection with es. Entities that are not selectable
// are ignored.
func (s *Scene) Select(es ...Entity) {
	s.setSelection(es)
}

// AddToSelection adds e to the current selection.
func (s *Scene) AddToSelection(e Entity) {
	if s.IsSelected(e) {
		return
	}
	s.setSelection(append(s.Selection(), e))
}

// ToggleSelection adds e to the selection or removes it if already present.
func (s *Scene) ToggleSelection(e Entity) {
	if s.IsSelected(e) {
		s.Deselect(e)
		return
	}
	s.AddToSelection(e)
}

// Deselect removes e from the selection.
func (s *Scene) Deselect(e Entity) {
	i := indexOfEntity(s.sel.members, e)
	if i < 0 {
		return
	}
	rest := make([]Entity, 0, len(s.sel.members)-1)
	rest = append(rest, s.sel.members[:i]...)
	rest = append(rest, s.sel.members[i+1:]...)
	s.setSelection(rest)
}

// ClearSelection deselects everything and dissolves the selection group.
func (s *Scene) ClearSelection() {
	s.setSelection(nil)
}

// SelectRegion selects every selectable top-level entity whose bounds
// intersect box, the way a marquee drag does. Members of the current
// selection group count as top-level. With contained set only entities fully
// inside box are taken. It returns the new selection.
func (s *Scene) SelectRegion(box AABB, contained bool) []Entity {
	pick := s.world.PickRegion
	if contained {
		pick = s.world.PickRegionContained
	}
	g := s.sel.group
	topLevel := func(w *World, e Entity) bool {
		p, ok := w.Parent(e)
		return e != g && (!ok || (g != NoEntity && p == g))
	}
	s.setSelection(pick(box, PickAnd(PickSelectable, topLevel)))
	return s.Selection()
}

// setSelection installs members as the selection and fires the group
// events, then EventSelectionChanged.
func (s *Scene) setSelection(members []Entity) {
	w := s.world
	next := make([]Entity, 0, len(members))
	for _, e := range members {
		if e == s.sel.group || !w.Alive(e) || indexOfEntity(next, e) >= 0 {
			continue
		}
		if in, ok := w.interaction.get(e); !ok || !in.Selectable {
			continue
		}
		next = append(next, e)
	}

	if sameEntities(next, s.sel.members) {
		return
	}

	hadGroup := s.sel.group != NoEntity
	s.dissolveGroup()
	for _, e := range s.sel.members {
		if w.Alive(e) {
			s.setSelectedFlag(e, false)
		}
	}

	sort.SliceStable(next, func(i, j int) bool {
		return w.DrawRank(next[i]) < w.DrawRank(next[j])
	})
	s.sel.members = next
	for _, e := range next {
		s.setSelectedFlag(e, true)
	}

	if len(next) >= 2 {
		s.buildGroup()
		typ := EventSelectionGroupAdded
		if hadGroup {
			typ = EventSelectionGroupUpdated
		}
		s.events.Fire(Event{Type: typ, Entity: s.sel.group, Entities: s.Selection()})
	} else if hadGroup {
		s.events.Fire(Event{Type: EventSelectionGroupRemoved, Entities: s.Selection()})
	}
	s.events.Fire(Event{Type: EventSelectionChanged, Entity: s.sel.group, Entities: s.Selection()})
	s.RequestRender()
}

func (s *Scene) setSelectedFlag(e Entity, selected bool) {
	if !HasComponent(s.world, InteractionComponent, e) {
		return
	}
	UpdateComponent(s.world, InteractionComponent, e, func(in *Interaction) {
		in.Selected = selected
	})
}

// buildGroup records where each member lives and moves them into a fresh
// selection group.
func (s *Scene) buildGroup() {
	w := s.world
	s.sel.origins = make(map[Entity]selectionOrigin, len(s.sel.members))
	for _, e := range s.sel.members {
		o := selectionOrigin{}
		if p, ok := w.Parent(e); ok {
			o.parent = p
			o.index = indexOfEntity(w.Children(p), e)
		} else {
			o.index = indexOfEntity(w.roots, e)
		}
		s.sel.origins[e] = o
	}
	s.sel.group = w.NewGroup("selection", s.sel.members...)
}

// dissolveGroup puts members back where they came from, lowest original
// index first so every index is valid again when it is reused, and removes
// the group. World placement is kept, so a dragged selection stays moved.
func (s *Scene) dissolveGroup() {
	g := s.sel.group
	if g == NoEntity {
		return
	}
	w := s.world
	members := append([]Entity(nil), w.Children(g)...)
	sort.SliceStable(members, func(i, j int) bool {
		return s.sel.origins[members[i]].index < s.sel.origins[members[j]].index
	})
	for _, e := range members {
		o := s.sel.origins[e]
		if o.parent != NoEntity && w.Alive(o.parent) {
			w.AddChildAt(o.parent, e, min(o.index, w.NumChildren(o.parent)))
			continue
		}
		w.RemoveChild(g, e)
		w.SetChildIndex(e, min(o.index, len(w.roots)-1))
	}
	w.RemoveEntity(g)
	s.sel.group = NoEntity
	s.sel.origins = nil
}

func sameEntities(a, b []Entity) bool {
	if len(a) != len(b) {
		return false
	}
	for _, e := range a {
		if indexOfEntity(b, e) < 0 {
			return false
		}
	}
	return true
}
