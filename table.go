package easel

// componentStore is the type-erased view of a table used by RemoveEntity and
// debug counters.
type componentStore interface {
	has(e Entity) bool
	remove(e Entity) bool
	len() int
}

// table is a sparse set keyed by Entity. Values live in a dense slice so
// iteration is cache friendly; sparse maps an entity to its dense index + 1
// (0 means absent).
type table[T any] struct {
	dense    []T
	entities []Entity
	sparse   []int32
}

func (t *table[T]) has(e Entity) bool {
	return int(e) < len(t.sparse) && t.sparse[e] != 0
}

func (t *table[T]) get(e Entity) (T, bool) {
	if !t.has(e) {
		var zero T
		return zero, false
	}
	return t.dense[t.sparse[e]-1], true
}

// ptr returns a pointer into the dense slice, or nil. The pointer is only
// valid until the next set or remove on this table.
func (t *table[T]) ptr(e Entity) *T {
	if !t.has(e) {
		return nil
	}
	return &t.dense[t.sparse[e]-1]
}

func (t *table[T]) set(e Entity, v T) {
	if int(e) >= len(t.sparse) {
		n := int(e) + 1
		if n < 2*len(t.sparse) {
			n = 2 * len(t.sparse)
		}
		grown := make([]int32, n)
		copy(grown, t.sparse)
		t.sparse = grown
	}
	if idx := t.sparse[e]; idx != 0 {
		t.dense[idx-1] = v
		return
	}
	t.dense = append(t.dense, v)
	t.entities = append(t.entities, e)
	t.sparse[e] = int32(len(t.dense))
}

// remove swaps the last dense element into the removed slot.
func (t *table[T]) remove(e Entity) bool {
	if !t.has(e) {
		return false
	}
	idx := t.sparse[e] - 1
	last := int32(len(t.dense) - 1)
	if idx != last {
		moved := t.entities[last]
		t.dense[idx] = t.dense[last]
		t.entities[idx] = moved
		t.sparse[moved] = idx + 1
	}
	var zero T
	t.dense[last] = zero
	t.dense = t.dense[:last]
	t.entities = t.entities[:last]
	t.sparse[e] = 0
	return true
}

func (t *table[T]) len() int {
	return len(t.dense)
}

// clear empties the table but keeps its capacity.
func (t *table[T]) clear() {
	for _, e := range t.entities {
		t.sparse[e] = 0
	}
	var zero T
	for i := range t.dense {
		t.dense[i] = zero
	}
	t.dense = t.dense[:0]
	t.entities = t.entities[:0]
}
