package easel

import "testing"

func TestTableSetGetRemove(t *testing.T) {
	var tb table[string]
	tb.set(3, "c")
	tb.set(1, "a")
	tb.set(7, "g")

	if v, ok := tb.get(1); !ok || v != "a" {
		t.Errorf("get(1) = %q, %v", v, ok)
	}
	if tb.has(2) {
		t.Error("has(2) = true")
	}
	if tb.has(100) {
		t.Error("has(100) = true beyond sparse length")
	}

	tb.set(1, "A")
	if v, _ := tb.get(1); v != "A" || tb.len() != 3 {
		t.Errorf("overwrite: get(1) = %q, len = %d", v, tb.len())
	}

	// Removing the first dense element moves the last one into its slot.
	if !tb.remove(3) {
		t.Fatal("remove(3) = false")
	}
	if tb.has(3) || tb.len() != 2 {
		t.Errorf("after remove: has(3) = %v, len = %d", tb.has(3), tb.len())
	}
	if v, ok := tb.get(7); !ok || v != "g" {
		t.Errorf("moved entry get(7) = %q, %v", v, ok)
	}
	if tb.remove(3) {
		t.Error("second remove(3) = true")
	}
}

func TestTablePtr(t *testing.T) {
	var tb table[Size]
	tb.set(2, Size{Width: 1})
	p := tb.ptr(2)
	p.Width = 9
	if v, _ := tb.get(2); v.Width != 9 {
		t.Errorf("write through ptr lost: %+v", v)
	}
	if tb.ptr(5) != nil {
		t.Error("ptr of absent entity not nil")
	}
}

func TestTableClear(t *testing.T) {
	var tb table[int]
	for e := Entity(1); e <= 10; e++ {
		tb.set(e, int(e))
	}
	tb.clear()
	if tb.len() != 0 {
		t.Errorf("len after clear = %d", tb.len())
	}
	for e := Entity(1); e <= 10; e++ {
		if tb.has(e) {
			t.Errorf("has(%d) after clear", e)
		}
	}
	tb.set(4, 44)
	if v, _ := tb.get(4); v != 44 {
		t.Errorf("reuse after clear: %d", v)
	}
}
