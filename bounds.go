package easel

import "math"

// localCornersAABB transforms the four local half-extent corners through m
// and returns their axis-aligned hull. Zero allocations.
func localCornersAABB(m Matrix, s Size) AABB {
	hw, hh := s.HalfExtents()
	if s.Radius > 0 {
		// Exact hull of a transformed circle (an ellipse).
		cx, cy := m.Translation()
		ex := hw * math.Hypot(m[0], m[1])
		ey := hh * math.Hypot(m[3], m[4])
		return AABB{cx - ex, cy - ey, cx + ex, cy + ey}
	}
	x0, y0 := m.TransformPoint(-hw, -hh)
	x1, y1 := m.TransformPoint(hw, -hh)
	x2, y2 := m.TransformPoint(hw, hh)
	x3, y3 := m.TransformPoint(-hw, hh)
	return AABB{
		MinX: math.Min(math.Min(x0, x1), math.Min(x2, x3)),
		MinY: math.Min(math.Min(y0, y1), math.Min(y2, y3)),
		MaxX: math.Max(math.Max(x0, x1), math.Max(x2, x3)),
		MaxY: math.Max(math.Max(y0, y1), math.Max(y2, y3)),
	}
}

// computeBounds derives e's world bounds. A group with children encloses the
// union of its children's bounds; everything else uses its own shape.
func (w *World) computeBounds(e Entity) AABB {
	if k, _ := w.kind.get(e); k == KindGroup {
		if kids := w.Children(e); len(kids) > 0 {
			box := emptyAABB
			for _, c := range kids {
				if b, ok := w.bounds.get(c); ok {
					box = box.Union(b)
				}
			}
			if !box.Empty() {
				return box
			}
		}
	}
	return localCornersAABB(w.WorldMatrixOf(e), w.SizeOf(e))
}

// updateBounds recomputes e's bounds and queues its index entry.
func (w *World) updateBounds(e Entity) {
	w.setBounds(e, w.computeBounds(e))
}

// setBounds stores b and queues a remove+reinsert of e's index entry. The
// queue is applied before the next query (see SyncIndex).
func (w *World) setBounds(e Entity, b AABB) {
	w.bounds.set(e, b)
	w.indexPending.set(e, struct{}{})
}

// SyncIndex applies every pending bounds change to the spatial index.
// Queries call it implicitly. Entities without area, such as empty groups,
// are kept out of the index.
func (w *World) SyncIndex() {
	if w.indexPending.len() == 0 {
		return
	}
	for _, e := range w.indexPending.entities {
		w.index.Remove(e)
		if b, ok := w.bounds.get(e); ok && w.SizeOf(e).hasArea() {
			w.index.Insert(e, b)
		}
	}
	w.indexPending.clear()
}

// RecomputeBounds recomputes the bounds of e and all of its descendants and
// syncs the spatial index.
func (w *World) RecomputeBounds(e Entity) {
	w.mustAlive(e, "RecomputeBounds")
	w.propagate(e)
	w.refitParent(e)
	w.SyncIndex()
}

// Index returns the spatial index after applying pending updates.
func (w *World) Index() SpatialIndex {
	w.SyncIndex()
	return w.index
}

// BoundsOfAll returns the union of the bounds of every live entity.
// The result is Empty() when the world has no entities.
func (w *World) BoundsOfAll() AABB {
	box := emptyAABB
	for _, b := range w.bounds.dense {
		box = box.Union(b)
	}
	return box
}
