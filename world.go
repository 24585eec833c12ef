package easel

import "fmt"

// Entity is an opaque identifier indexing into a World's component tables.
// It owns no data itself.
type Entity uint32

// NoEntity is the zero Entity; it is never allocated.
const NoEntity Entity = 0

// World owns the live entity set, every component table, the top-level draw
// order and the spatial index. It is not safe for concurrent use: all
// mutation happens on the thread that drives frames.
type World struct {
	next  Entity
	alive table[struct{}]
	roots []Entity

	local       table[Matrix]
	world       table[Matrix]
	size        table[Size]
	style       table[Style]
	interaction table[Interaction]
	visible     table[bool]
	parent      table[Entity]
	children    table[[]Entity]
	dirty       table[struct{}]
	bounds      table[AABB]
	kind        table[ShapeKind]
	texture     table[TextureRef]
	name        table[string]

	index        SpatialIndex
	indexPending table[struct{}]

	// Draw order cache: DFS over roots, parents before children.
	order      []Entity
	rank       []int32
	orderDirty bool

	debug bool
}

// NewWorld creates an empty world backed by a BBTreeIndex.
func NewWorld() *World {
	return NewWorldWithIndex(NewBBTreeIndex())
}

// NewWorldWithIndex creates an empty world using the given spatial index.
func NewWorldWithIndex(index SpatialIndex) *World {
	if index == nil {
		panic("easel: nil spatial index")
	}
	return &World{index: index}
}

// store maps a ComponentType to its table. Every ComponentType must have a
// case here; RemoveEntity relies on it to clean up exhaustively.
func (w *World) store(c ComponentType) componentStore {
	switch c {
	case ComponentLocalMatrix:
		return &w.local
	case ComponentWorldMatrix:
		return &w.world
	case ComponentSize:
		return &w.size
	case ComponentStyle:
		return &w.style
	case ComponentInteraction:
		return &w.interaction
	case ComponentVisibility:
		return &w.visible
	case ComponentParent:
		return &w.parent
	case ComponentChildren:
		return &w.children
	case ComponentDirty:
		return &w.dirty
	case ComponentBounds:
		return &w.bounds
	case ComponentKind:
		return &w.kind
	case ComponentTexture:
		return &w.texture
	case ComponentName:
		return &w.name
	}
	panic(fmt.Sprintf("easel: no table for %s", c))
}

// CreateEntity allocates a new top-level entity with identity matrices,
// visible, of kind KindRect and zero size. Factories fill in the rest.
func (w *World) CreateEntity() Entity {
	w.next++
	e := w.next
	w.alive.set(e, struct{}{})
	w.local.set(e, Identity())
	w.world.set(e, Identity())
	w.visible.set(e, true)
	w.kind.set(e, KindRect)
	w.roots = append(w.roots, e)
	w.orderDirty = true
	w.updateBounds(e)
	w.MarkDirty(e)
	return e
}

// Alive reports whether e is a live entity.
func (w *World) Alive(e Entity) bool {
	return w.alive.has(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.alive.len()
}

// RemoveEntity destroys e. Its children are detached into world space (not
// destroyed), it is removed from its parent, from every component table and
// from the spatial index. Removing a dead entity is a no-op.
func (w *World) RemoveEntity(e Entity) {
	if !w.Alive(e) {
		return
	}
	kids := w.children.ptr(e)
	for kids != nil && len(*kids) > 0 {
		w.RemoveChild(e, (*kids)[len(*kids)-1])
		kids = w.children.ptr(e)
	}

	oldParent, hadParent := w.parent.get(e)
	if hadParent {
		w.unlinkChild(oldParent, e)
	} else {
		w.roots = removeEntityFrom(w.roots, e)
	}

	for c := ComponentType(0); c < componentTypeCount; c++ {
		w.store(c).remove(e)
	}
	w.indexPending.remove(e)
	w.index.Remove(e)
	w.alive.remove(e)
	w.orderDirty = true

	if hadParent {
		w.MarkDirty(oldParent)
		w.refit(oldParent)
	}
}

// Clear removes every entity.
func (w *World) Clear() {
	for len(w.roots) > 0 {
		w.RemoveEntity(w.roots[len(w.roots)-1])
	}
}

// MarkDirty flags e as changed since the last consumed frame.
func (w *World) MarkDirty(e Entity) {
	if w.Alive(e) {
		w.dirty.set(e, struct{}{})
	}
}

// IsDirty reports whether e changed since the last ClearDirty.
func (w *World) IsDirty(e Entity) bool {
	return w.dirty.has(e)
}

// Dirty returns the dirty entities. The slice is owned by the World and is
// only valid until the next mutation.
func (w *World) Dirty() []Entity {
	return w.dirty.entities
}

// ClearDirty resets the dirty set. Called once per consumed frame.
func (w *World) ClearDirty() {
	w.dirty.clear()
}

// Roots returns the top-level entities in draw order. The returned slice
// MUST NOT be mutated by the caller.
func (w *World) Roots() []Entity {
	return w.roots
}

// Entities returns every live entity in draw order (depth first, parents
// before children, siblings in insertion order). The returned slice is
// cached and MUST NOT be mutated by the caller.
func (w *World) Entities() []Entity {
	w.ensureOrder()
	return w.order
}

// DrawRank returns e's position in draw order; higher draws on top.
func (w *World) DrawRank(e Entity) int {
	w.ensureOrder()
	if int(e) >= len(w.rank) || !w.Alive(e) {
		return -1
	}
	return int(w.rank[e])
}

func (w *World) ensureOrder() {
	if !w.orderDirty && w.order != nil {
		return
	}
	w.order = w.order[:0]
	for _, r := range w.roots {
		w.order = w.appendSubtree(w.order, r)
	}
	if need := int(w.next) + 1; len(w.rank) < need {
		w.rank = make([]int32, need)
	}
	for i, e := range w.order {
		w.rank[e] = int32(i)
	}
	w.orderDirty = false
}

func (w *World) appendSubtree(buf []Entity, e Entity) []Entity {
	buf = append(buf, e)
	kids, _ := w.children.get(e)
	for _, c := range kids {
		buf = w.appendSubtree(buf, c)
	}
	return buf
}

// Name returns the entity's name, or "" if it has none.
func (w *World) Name(e Entity) string {
	n, _ := w.name.get(e)
	return n
}

// Kind returns the entity's shape kind.
func (w *World) Kind(e Entity) (ShapeKind, bool) {
	return w.kind.get(e)
}

// ComponentCount returns how many entities hold component c.
func (w *World) ComponentCount(c ComponentType) int {
	return w.store(c).len()
}

// componentWritten applies the side effects of a generic component write.
func (w *World) componentWritten(c ComponentType, e Entity) {
	switch c {
	case ComponentLocalMatrix:
		w.propagate(e)
		w.refitParent(e)
	case ComponentWorldMatrix:
		world, _ := w.world.get(e)
		w.local.set(e, Multiply(w.parentWorld(e).mustInverse(), world))
		w.propagate(e)
		w.refitParent(e)
	case ComponentSize, ComponentKind:
		w.updateBounds(e)
		w.refitParent(e)
	case ComponentVisibility:
		v, _ := w.visible.get(e)
		w.SetVisible(e, v)
	}
	w.MarkDirty(e)
}

func (w *World) mustAlive(e Entity, op string) {
	if !w.Alive(e) {
		panic(fmt.Sprintf("easel: %s on unknown entity %d", op, e))
	}
}

// removeEntityFrom removes the first occurrence of e, keeping order.
func removeEntityFrom(s []Entity, e Entity) []Entity {
	for i, c := range s {
		if c == e {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = NoEntity
			return s[:len(s)-1]
		}
	}
	return s
}

func indexOfEntity(s []Entity, e Entity) int {
	for i, c := range s {
		if c == e {
			return i
		}
	}
	return -1
}

func insertEntityAt(s []Entity, e Entity, index int) []Entity {
	s = append(s, NoEntity)
	copy(s[index+1:], s[index:])
	s[index] = e
	return s
}
