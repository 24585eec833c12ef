package easel

import "sort"

// PickFilter decides whether an entity is a pick candidate.
type PickFilter func(w *World, e Entity) bool

// PickAny accepts every entity.
func PickAny(*World, Entity) bool { return true }

// PickSelectable accepts entities whose Interaction.Selectable is set.
func PickSelectable(w *World, e Entity) bool {
	in, ok := w.interaction.get(e)
	return ok && in.Selectable
}

// PickDraggable accepts entities whose Interaction.Draggable is set.
func PickDraggable(w *World, e Entity) bool {
	in, ok := w.interaction.get(e)
	return ok && in.Draggable
}

// PickKind accepts entities of the given shape kinds.
func PickKind(kinds ...ShapeKind) PickFilter {
	return func(w *World, e Entity) bool {
		k, _ := w.kind.get(e)
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

// PickAnd accepts entities every filter accepts.
func PickAnd(filters ...PickFilter) PickFilter {
	return func(w *World, e Entity) bool {
		for _, f := range filters {
			if f != nil && !f(w, e) {
				return false
			}
		}
		return true
	}
}

// ContainsPoint reports whether the world point lies inside e's shape, by
// mapping it into e's local space and testing against its half extents.
func (w *World) ContainsPoint(e Entity, x, y float64) bool {
	m, ok := w.world.get(e)
	if !ok {
		return false
	}
	inv, err := m.Inverse()
	if err != nil {
		return false
	}
	lx, ly := inv.TransformPoint(x, y)
	return w.SizeOf(e).containsLocal(lx, ly)
}

// PickPoint returns the topmost visible entity at world point (x, y) that
// passes filter (nil accepts everything). Children draw above their parent,
// so a hit on a child wins over a hit on its parent, and later siblings win
// over earlier ones.
func (w *World) PickPoint(x, y float64, filter PickFilter) (Entity, bool) {
	if filter == nil {
		filter = PickAny
	}
	w.SyncIndex()

	// Candidates are the entities whose bounds contain the point; only
	// subtrees holding a candidate are visited.
	var marked map[Entity]bool
	w.index.Search(AABB{x, y, x, y}, func(e Entity) bool {
		if marked == nil {
			marked = make(map[Entity]bool)
		}
		if marked[e] {
			return true
		}
		marked[e] = true
		for p, ok := w.parent.get(e); ok && !marked[p]; p, ok = w.parent.get(p) {
			marked[p] = false
		}
		return true
	})
	if marked == nil {
		return NoEntity, false
	}

	for i := len(w.roots) - 1; i >= 0; i-- {
		if e, ok := w.pickIn(w.roots[i], x, y, filter, marked); ok {
			return e, true
		}
	}
	return NoEntity, false
}

// pickIn searches e's subtree in reverse draw order. marked holds true for
// bounds hits and false for ancestors that only need to be descended.
func (w *World) pickIn(e Entity, x, y float64, filter PickFilter, marked map[Entity]bool) (Entity, bool) {
	hit, visit := marked[e]
	if !visit || !w.IsVisible(e) {
		return NoEntity, false
	}
	kids := w.Children(e)
	for i := len(kids) - 1; i >= 0; i-- {
		if found, ok := w.pickIn(kids[i], x, y, filter, marked); ok {
			return found, true
		}
	}
	if hit && filter(w, e) && w.ContainsPoint(e, x, y) {
		return e, true
	}
	return NoEntity, false
}

// PickRegion returns every visible entity whose bounds intersect box and
// that passes filter, in draw order. There is no topmost rule.
func (w *World) PickRegion(box AABB, filter PickFilter) []Entity {
	if filter == nil {
		filter = PickAny
	}
	w.SyncIndex()
	var out []Entity
	w.index.Search(box, func(e Entity) bool {
		if w.IsVisible(e) && filter(w, e) {
			out = append(out, e)
		}
		return true
	})
	w.ensureOrder()
	sort.Slice(out, func(i, j int) bool {
		return w.rank[out[i]] < w.rank[out[j]]
	})
	return out
}

// PickRegionContained is PickRegion restricted to entities whose bounds lie
// entirely inside box.
func (w *World) PickRegionContained(box AABB, filter PickFilter) []Entity {
	all := w.PickRegion(box, filter)
	out := all[:0]
	for _, e := range all {
		b, _ := w.bounds.get(e)
		if b.MinX >= box.MinX && b.MaxX <= box.MaxX && b.MinY >= box.MinY && b.MaxY <= box.MaxY {
			out = append(out, e)
		}
	}
	return out
}
