package easel

import (
	"sort"
	"testing"
)

func searchAll(idx SpatialIndex, q AABB) []Entity {
	var out []Entity
	idx.Search(q, func(e Entity) bool {
		out = append(out, e)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestBBTreeIndexInsertSearch(t *testing.T) {
	idx := NewBBTreeIndex()
	idx.Insert(1, AABB{0, 0, 10, 10})
	idx.Insert(2, AABB{20, 20, 30, 30})
	idx.Insert(3, AABB{5, 5, 25, 25})

	assertEntities(t, "point", searchAll(idx, AABB{6, 6, 6, 6}), []Entity{1, 3})
	assertEntities(t, "touching edge", searchAll(idx, AABB{30, 30, 40, 40}), []Entity{2})
	assertEntities(t, "miss", searchAll(idx, AABB{100, 100, 200, 200}), nil)
	if idx.Len() != 3 {
		t.Errorf("Len = %d", idx.Len())
	}
}

func TestBBTreeIndexRemove(t *testing.T) {
	idx := NewBBTreeIndex()
	idx.Insert(1, AABB{0, 0, 10, 10})
	idx.Insert(2, AABB{0, 0, 10, 10})
	idx.Remove(1)
	idx.Remove(1)
	idx.Remove(77)

	assertEntities(t, "after remove", searchAll(idx, AABB{0, 0, 10, 10}), []Entity{2})
	if idx.Len() != 1 {
		t.Errorf("Len = %d", idx.Len())
	}
}

func TestBBTreeIndexReinsertReplaces(t *testing.T) {
	idx := NewBBTreeIndex()
	idx.Insert(1, AABB{0, 0, 10, 10})
	idx.Insert(1, AABB{100, 100, 110, 110})

	if idx.Len() != 1 {
		t.Errorf("Len = %d", idx.Len())
	}
	if got := searchAll(idx, AABB{5, 5, 5, 5}); len(got) != 0 {
		t.Errorf("old box still indexed: %v", got)
	}
	b, ok := idx.Bounds(1)
	if !ok || b != (AABB{100, 100, 110, 110}) {
		t.Errorf("Bounds = %+v, %v", b, ok)
	}
}

func TestBBTreeIndexSearchStops(t *testing.T) {
	idx := NewBBTreeIndex()
	for e := Entity(1); e <= 10; e++ {
		idx.Insert(e, AABB{0, 0, 1, 1})
	}
	calls := 0
	idx.Search(AABB{0, 0, 1, 1}, func(Entity) bool {
		calls++
		return calls < 3
	})
	if calls != 3 {
		t.Errorf("callback ran %d times, want 3", calls)
	}
}

func TestBBTreeIndexEmptyQuery(t *testing.T) {
	idx := NewBBTreeIndex()
	idx.Insert(1, AABB{0, 0, 1, 1})
	idx.Search(emptyAABB, func(Entity) bool {
		t.Error("callback on empty query")
		return true
	})
}

// sliceIndex is a linear SpatialIndex used to check that World does not
// depend on the tree implementation.
type sliceIndex struct {
	boxes map[Entity]AABB
}

func (s *sliceIndex) Insert(e Entity, b AABB) { s.boxes[e] = b }
func (s *sliceIndex) Remove(e Entity)         { delete(s.boxes, e) }
func (s *sliceIndex) Len() int                { return len(s.boxes) }
func (s *sliceIndex) Search(q AABB, fn func(Entity) bool) {
	for e, b := range s.boxes {
		if b.Intersects(q) && !fn(e) {
			return
		}
	}
}

func TestWorldWithCustomIndex(t *testing.T) {
	idx := &sliceIndex{boxes: make(map[Entity]AABB)}
	w := NewWorldWithIndex(idx)
	a := newTestRect(w, 0, 0, 10, 10)
	b := newTestRect(w, 0, 0, 10, 10)

	if e, _ := w.PickPoint(0, 0, nil); e != b {
		t.Errorf("pick = %d, want %d", e, b)
	}
	w.RemoveEntity(b)
	if e, _ := w.PickPoint(0, 0, nil); e != a {
		t.Errorf("pick after remove = %d, want %d", e, a)
	}
	if idx.Len() != 1 {
		t.Errorf("index Len = %d", idx.Len())
	}
	expectPanic(t, func() { NewWorldWithIndex(nil) })
}

func TestSyncIndexIsLazy(t *testing.T) {
	idx := &sliceIndex{boxes: make(map[Entity]AABB)}
	w := NewWorldWithIndex(idx)
	r := newTestRect(w, 0, 0, 10, 10)
	for i := 0; i < 5; i++ {
		_ = w.TranslateWorld(r, 1, 0)
	}
	if idx.Len() != 0 {
		t.Fatalf("index updated eagerly: %d entries", idx.Len())
	}
	w.SyncIndex()
	if b := idx.boxes[r]; b.MinX != 0 || b.MaxX != 10 {
		t.Errorf("indexed box = %+v", b)
	}
}
