package easel

import "fmt"

// --- Matrix access ---

// LocalMatrixOf returns e's local matrix, or identity if e is unknown.
func (w *World) LocalMatrixOf(e Entity) Matrix {
	if m, ok := w.local.get(e); ok {
		return m
	}
	return Identity()
}

// WorldMatrixOf returns e's world matrix, or identity if e is unknown.
func (w *World) WorldMatrixOf(e Entity) Matrix {
	if m, ok := w.world.get(e); ok {
		return m
	}
	return Identity()
}

// SetLocalMatrix replaces e's local matrix and re-derives the world matrix
// of e and all of its descendants. The owning group, if any, is refitted.
func (w *World) SetLocalMatrix(e Entity, m Matrix) error {
	w.mustAlive(e, "SetLocalMatrix")
	if !m.Invertible() {
		return fmt.Errorf("set local matrix of entity %d: %w", e, ErrSingularMatrix)
	}
	w.local.set(e, m)
	w.propagate(e)
	w.refitParent(e)
	w.MarkDirty(e)
	return nil
}

// SetWorldMatrix places e at the given world matrix. The local matrix is
// re-derived against the parent's world matrix and all descendants follow.
func (w *World) SetWorldMatrix(e Entity, m Matrix) error {
	w.mustAlive(e, "SetWorldMatrix")
	if !m.Invertible() {
		return fmt.Errorf("set world matrix of entity %d: %w", e, ErrSingularMatrix)
	}
	w.local.set(e, Multiply(w.parentWorld(e).mustInverse(), m))
	w.propagate(e)
	w.refitParent(e)
	w.MarkDirty(e)
	return nil
}

// SetTransform composes t into e's local matrix.
func (w *World) SetTransform(e Entity, t Transform) error {
	return w.SetLocalMatrix(e, Compose(t))
}

// TranslateWorld moves e by (dx, dy) in world space.
func (w *World) TranslateWorld(e Entity, dx, dy float64) error {
	m := w.WorldMatrixOf(e)
	return w.SetWorldMatrix(e, Multiply(Translate(dx, dy), m))
}

// WorldPosition returns the world-space origin of e.
func (w *World) WorldPosition(e Entity) (float64, float64) {
	return w.WorldMatrixOf(e).Translation()
}

// SetSize replaces e's size and recomputes its bounds.
func (w *World) SetSize(e Entity, s Size) {
	w.mustAlive(e, "SetSize")
	w.size.set(e, s)
	w.updateBounds(e)
	w.refitParent(e)
	w.MarkDirty(e)
}

// SizeOf returns e's size (zero if absent).
func (w *World) SizeOf(e Entity) Size {
	s, _ := w.size.get(e)
	return s
}

// BoundsOf returns e's world-space bounding box.
func (w *World) BoundsOf(e Entity) (AABB, bool) {
	return w.bounds.get(e)
}

// parentWorld returns the world matrix of e's parent, or identity.
func (w *World) parentWorld(e Entity) Matrix {
	if p, ok := w.parent.get(e); ok {
		return w.WorldMatrixOf(p)
	}
	return Identity()
}

// propagate re-derives WorldMatrix for e and every descendant from the
// current parent chain, then recomputes bounds bottom up so group unions see
// fresh child bounds.
func (w *World) propagate(e Entity) {
	local := w.LocalMatrixOf(e)
	w.world.set(e, Multiply(w.parentWorld(e), local))
	kids, _ := w.children.get(e)
	for _, c := range kids {
		w.propagate(c)
	}
	w.updateBounds(e)
	w.MarkDirty(e)
}

// --- Tree manipulation ---

// Parent returns e's parent.
func (w *World) Parent(e Entity) (Entity, bool) {
	return w.parent.get(e)
}

// Children returns e's ordered children. The returned slice MUST NOT be
// mutated by the caller.
func (w *World) Children(e Entity) []Entity {
	kids, _ := w.children.get(e)
	return kids
}

// NumChildren returns the number of children of e.
func (w *World) NumChildren(e Entity) int {
	return len(w.Children(e))
}

// IsAncestor reports whether candidate is e or one of e's ancestors.
func (w *World) IsAncestor(candidate, e Entity) bool {
	for p, ok := e, true; ok; p, ok = w.parent.get(p) {
		if p == candidate {
			return true
		}
	}
	return false
}

// AddChild appends child to parent's children. The child is first detached
// from any existing parent and its local matrix is re-expressed in parent's
// space so its world position does not change.
// Panics if either entity is unknown or child is parent or one of its
// ancestors (cycle).
func (w *World) AddChild(parent, child Entity) {
	w.AddChildAt(parent, child, w.NumChildren(parent)-w.countIfChild(parent, child))
}

func (w *World) countIfChild(parent, child Entity) int {
	if p, ok := w.parent.get(child); ok && p == parent {
		return 1
	}
	return 0
}

// AddChildAt inserts child at index among parent's children with the same
// reparenting and cycle rules as AddChild.
func (w *World) AddChildAt(parent, child Entity, index int) {
	w.mustAlive(parent, "AddChild (parent)")
	w.mustAlive(child, "AddChild (child)")
	if w.IsAncestor(child, parent) {
		panic("easel: adding child would create a cycle")
	}
	oldParent, hadParent := w.parent.get(child)
	limit := w.NumChildren(parent)
	if hadParent && oldParent == parent {
		limit--
	}
	if index < 0 || index > limit {
		panic("easel: child index out of range")
	}

	childWorld := w.WorldMatrixOf(child)
	if hadParent {
		w.unlinkChild(oldParent, child)
	} else {
		w.roots = removeEntityFrom(w.roots, child)
	}

	kids, _ := w.children.get(parent)
	w.children.set(parent, insertEntityAt(kids, child, index))
	w.parent.set(child, parent)
	w.local.set(child, Multiply(w.WorldMatrixOf(parent).mustInverse(), childWorld))
	w.orderDirty = true
	w.MarkDirty(child)
	w.MarkDirty(parent)

	if w.debug {
		debugCheckTreeDepth(w, child)
		debugCheckChildCount(w, parent)
	}

	if hadParent && oldParent != parent {
		w.MarkDirty(oldParent)
		w.refit(oldParent)
	}
	w.refit(parent)
}

// RemoveChild detaches child from parent and makes it a top-level entity.
// Its local matrix becomes its world matrix, so it stays where it was drawn.
// The child is placed in draw order right after parent's top-level ancestor.
// Panics if child's parent is not parent.
func (w *World) RemoveChild(parent, child Entity) {
	w.mustAlive(parent, "RemoveChild (parent)")
	w.mustAlive(child, "RemoveChild (child)")
	if p, ok := w.parent.get(child); !ok || p != parent {
		panic("easel: child's parent is not this entity")
	}
	top := parent
	for p, ok := w.parent.get(top); ok; p, ok = w.parent.get(top) {
		top = p
	}

	w.unlinkChild(parent, child)
	w.local.set(child, w.WorldMatrixOf(child))
	w.roots = insertEntityAt(w.roots, child, indexOfEntity(w.roots, top)+1)
	w.orderDirty = true
	w.MarkDirty(child)
	w.MarkDirty(parent)
	w.refit(parent)
}

// RemoveFromParent detaches e from its parent. No-op for top-level entities.
func (w *World) RemoveFromParent(e Entity) {
	if p, ok := w.parent.get(e); ok {
		w.RemoveChild(p, e)
	}
}

// RemoveChildren detaches every child of parent into world space.
func (w *World) RemoveChildren(parent Entity) {
	w.mustAlive(parent, "RemoveChildren")
	for kids := w.Children(parent); len(kids) > 0; kids = w.Children(parent) {
		w.RemoveChild(parent, kids[len(kids)-1])
	}
}

// unlinkChild removes child from parent's list and clears its parent link
// without touching matrices.
func (w *World) unlinkChild(parent, child Entity) {
	if kids := w.children.ptr(parent); kids != nil {
		*kids = removeEntityFrom(*kids, child)
	}
	w.parent.remove(child)
	w.orderDirty = true
}

// SetChildIndex moves e to index among its siblings (or among the top-level
// entities when e has no parent). Higher indices draw on top.
func (w *World) SetChildIndex(e Entity, index int) {
	w.mustAlive(e, "SetChildIndex")
	var siblings *[]Entity
	if p, ok := w.parent.get(e); ok {
		siblings = w.children.ptr(p)
	} else {
		siblings = &w.roots
	}
	s := *siblings
	if index < 0 || index >= len(s) {
		panic("easel: child index out of range")
	}
	old := indexOfEntity(s, e)
	if old == index {
		return
	}
	if old < index {
		copy(s[old:], s[old+1:index+1])
	} else {
		copy(s[index+1:], s[index:old])
	}
	s[index] = e
	w.orderDirty = true
	w.MarkDirty(e)
}

// BringToFront moves e above all of its siblings.
func (w *World) BringToFront(e Entity) {
	if p, ok := w.parent.get(e); ok {
		w.SetChildIndex(e, w.NumChildren(p)-1)
		return
	}
	w.SetChildIndex(e, len(w.roots)-1)
}

// SendToBack moves e below all of its siblings.
func (w *World) SendToBack(e Entity) {
	w.SetChildIndex(e, 0)
}

// --- Group fitting ---

// refitParent refits e's parent if e has one.
func (w *World) refitParent(e Entity) {
	if p, ok := w.parent.get(e); ok {
		w.refit(p)
	}
}

// refit makes group g tightly enclose its children, then continues with g's
// parent. Children keep their world matrices; only their local matrices are
// re-expressed in the group's new space. Stops at the first non-group.
// Terminates because parent links are acyclic (checked in AddChildAt).
func (w *World) refit(g Entity) {
	for {
		if k, _ := w.kind.get(g); k != KindGroup || !w.Alive(g) {
			return
		}
		kids := w.Children(g)
		if len(kids) == 0 {
			w.size.set(g, Size{})
			w.updateBounds(g)
		} else {
			box := emptyAABB
			for _, c := range kids {
				if b, ok := w.bounds.get(c); ok {
					box = box.Union(b)
				}
			}
			cx, cy := box.Center()
			groupWorld := Translate(cx, cy)
			w.world.set(g, groupWorld)
			w.local.set(g, Multiply(w.parentWorld(g).mustInverse(), groupWorld))
			w.size.set(g, Size{Width: box.Width(), Height: box.Height()})
			inv := groupWorld.mustInverse()
			for _, c := range kids {
				w.local.set(c, Multiply(inv, w.WorldMatrixOf(c)))
			}
			w.setBounds(g, box)
		}
		w.MarkDirty(g)

		p, ok := w.parent.get(g)
		if !ok {
			return
		}
		g = p
	}
}

// --- Visibility ---

// SetVisible sets e's visibility. Hiding propagates to every descendant.
// Showing propagates to every descendant and forces the ancestor chain
// visible; the upward walk does not re-propagate downward.
func (w *World) SetVisible(e Entity, visible bool) {
	w.mustAlive(e, "SetVisible")
	w.setVisibleDown(e, visible)
	if !visible {
		return
	}
	for p, ok := w.parent.get(e); ok; p, ok = w.parent.get(p) {
		if v, _ := w.visible.get(p); !v {
			w.visible.set(p, true)
			w.MarkDirty(p)
		}
	}
}

func (w *World) setVisibleDown(e Entity, visible bool) {
	w.visible.set(e, visible)
	w.MarkDirty(e)
	for _, c := range w.Children(e) {
		w.setVisibleDown(c, visible)
	}
}

// IsVisible reports e's visibility flag.
func (w *World) IsVisible(e Entity) bool {
	v, _ := w.visible.get(e)
	return v
}
