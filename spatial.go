package easel

import "github.com/jakecoffman/cp"

// SpatialIndex is a mutable bounding-box index over entities. A World keeps
// exactly one entry per live entity, replaced whenever its bounds change.
type SpatialIndex interface {
	// Insert adds e with the given box. Inserting an entity twice without a
	// Remove in between is a caller error.
	Insert(e Entity, box AABB)
	// Remove drops e. Removing an absent entity is a no-op.
	Remove(e Entity)
	// Search calls fn for every entity whose box intersects query, in no
	// particular order, until fn returns false.
	Search(query AABB, fn func(e Entity) bool)
	// Len returns the number of indexed entities.
	Len() int
}

// BBTreeIndex is a SpatialIndex backed by the dynamic AABB tree of a
// Chipmunk space. Every entry is a static box shape on the space's static
// body, so no simulation ever runs; the space is used purely for its
// bounding-box tree and BBQuery.
type BBTreeIndex struct {
	space    *cp.Space
	shapes   map[Entity]*cp.Shape
	entities map[*cp.Shape]Entity
}

// NewBBTreeIndex creates an empty index.
func NewBBTreeIndex() *BBTreeIndex {
	return &BBTreeIndex{
		space:    cp.NewSpace(),
		shapes:   make(map[Entity]*cp.Shape),
		entities: make(map[*cp.Shape]Entity),
	}
}

func toBB(b AABB) cp.BB {
	return cp.BB{L: b.MinX, B: b.MinY, R: b.MaxX, T: b.MaxY}
}

// Insert adds e with the given box.
func (idx *BBTreeIndex) Insert(e Entity, box AABB) {
	if _, ok := idx.shapes[e]; ok {
		idx.Remove(e)
	}
	shape := cp.NewBox2(idx.space.StaticBody, toBB(box), 0)
	idx.space.AddShape(shape)
	idx.shapes[e] = shape
	idx.entities[shape] = e
}

// Remove drops e from the index.
func (idx *BBTreeIndex) Remove(e Entity) {
	shape, ok := idx.shapes[e]
	if !ok {
		return
	}
	idx.space.RemoveShape(shape)
	delete(idx.shapes, e)
	delete(idx.entities, shape)
}

// Search calls fn for every entity whose box intersects query.
func (idx *BBTreeIndex) Search(query AABB, fn func(e Entity) bool) {
	if query.Empty() {
		return
	}
	stopped := false
	idx.space.BBQuery(toBB(query), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		if stopped {
			return
		}
		e, ok := idx.entities[shape]
		if !ok {
			return
		}
		if !fn(e) {
			stopped = true
		}
	}, nil)
}

// Len returns the number of indexed entities.
func (idx *BBTreeIndex) Len() int {
	return len(idx.shapes)
}

// Bounds returns the indexed box for e.
func (idx *BBTreeIndex) Bounds(e Entity) (AABB, bool) {
	shape, ok := idx.shapes[e]
	if !ok {
		return AABB{}, false
	}
	bb := shape.BB()
	return AABB{MinX: bb.L, MinY: bb.B, MaxX: bb.R, MaxY: bb.T}, true
}
