package easel

import (
	"math"
	"testing"
)

func TestPickPointHitAndMiss(t *testing.T) {
	w := NewWorld()
	r := newTestRect(w, 0, 0, 100, 100)

	if e, ok := w.PickPoint(10, 10, nil); !ok || e != r {
		t.Errorf("PickPoint(10,10) = %d, %v, want %d", e, ok, r)
	}
	if e, ok := w.PickPoint(1000, 1000, nil); ok {
		t.Errorf("PickPoint(1000,1000) = %d, want miss", e)
	}
}

func TestPickPointEmptyWorld(t *testing.T) {
	w := NewWorld()
	if _, ok := w.PickPoint(0, 0, nil); ok {
		t.Error("hit in empty world")
	}
}

func TestPickPointTopmostSiblingWins(t *testing.T) {
	w := NewWorld()
	below := newTestRect(w, 0, 0, 100, 100)
	above := newTestRect(w, 20, 20, 100, 100)

	if e, _ := w.PickPoint(30, 30, nil); e != above {
		t.Errorf("overlap pick = %d, want later sibling %d", e, above)
	}
	w.SendToBack(above)
	if e, _ := w.PickPoint(30, 30, nil); e != below {
		t.Errorf("after SendToBack pick = %d, want %d", e, below)
	}
}

func TestPickPointChildBeatsParent(t *testing.T) {
	w := NewWorld()
	parent := newTestRect(w, 0, 0, 100, 100)
	child := newTestRect(w, 0, 0, 20, 20)
	w.AddChild(parent, child)
	// A later top-level entity elsewhere must not shadow the child.
	newTestRect(w, 500, 500, 10, 10)

	if e, _ := w.PickPoint(0, 0, nil); e != child {
		t.Errorf("pick over child = %d, want %d", e, child)
	}
	if e, _ := w.PickPoint(40, 40, nil); e != parent {
		t.Errorf("pick over parent only = %d, want %d", e, parent)
	}
}

func TestPickPointUsesExactShape(t *testing.T) {
	w := NewWorld()
	bar := w.NewRect(RectOptions{Width: 100, Height: 20, Rotation: math.Pi / 4})
	// Inside the rotated bar's bounding box but outside the bar itself.
	if b, _ := w.BoundsOf(bar); !b.Contains(40, 0) {
		t.Fatalf("bounds %+v should contain (40,0)", b)
	}
	if _, ok := w.PickPoint(40, 0, nil); ok {
		t.Error("hit outside rotated shape")
	}
	if e, ok := w.PickPoint(30, 30, nil); !ok || e != bar {
		t.Errorf("pick along the bar = %d, %v", e, ok)
	}

	disc := w.NewRect(RectOptions{X: 200, Radius: 10})
	if e, _ := w.PickPoint(209, 0, nil); e != disc {
		t.Error("miss inside circle")
	}
	if _, ok := w.PickPoint(208, 8, nil); ok {
		t.Error("hit in circle's bounding box corner")
	}
}

func TestPickPointSkipsHidden(t *testing.T) {
	w := NewWorld()
	below := newTestRect(w, 0, 0, 50, 50)
	above := newTestRect(w, 0, 0, 50, 50)
	w.SetVisible(above, false)
	if e, _ := w.PickPoint(0, 0, nil); e != below {
		t.Errorf("pick = %d, want visible %d", e, below)
	}
}

func TestPickPointFilter(t *testing.T) {
	w := NewWorld()
	free := newTestRect(w, 0, 0, 50, 50)
	locked := w.NewRect(RectOptions{Width: 50, Height: 50, Locked: true})

	if e, _ := w.PickPoint(0, 0, PickAny); e != locked {
		t.Errorf("PickAny = %d, want %d", e, locked)
	}
	if e, _ := w.PickPoint(0, 0, PickSelectable); e != free {
		t.Errorf("PickSelectable = %d, want %d", e, free)
	}
	if _, ok := w.PickPoint(0, 0, PickKind(KindImage)); ok {
		t.Error("PickKind(image) hit a rect")
	}
	if e, _ := w.PickPoint(0, 0, PickAnd(PickDraggable, PickKind(KindRect))); e != free {
		t.Errorf("PickAnd = %d, want %d", e, free)
	}
}

func TestPickPointFollowsMoves(t *testing.T) {
	w := NewWorld()
	r := newTestRect(w, 0, 0, 10, 10)
	w.PickPoint(0, 0, nil)

	_ = w.TranslateWorld(r, 100, 0)
	if _, ok := w.PickPoint(0, 0, nil); ok {
		t.Error("hit at the old position")
	}
	if e, _ := w.PickPoint(100, 0, nil); e != r {
		t.Error("miss at the new position")
	}
}

func TestPickPointIgnoresRemoved(t *testing.T) {
	w := NewWorld()
	r := newTestRect(w, 0, 0, 10, 10)
	w.PickPoint(0, 0, nil)
	w.RemoveEntity(r)
	if _, ok := w.PickPoint(0, 0, nil); ok {
		t.Error("removed entity picked")
	}
	if n := w.Index().Len(); n != 0 {
		t.Errorf("index Len = %d", n)
	}
}

func TestPickPointGroupGap(t *testing.T) {
	w := NewWorld()
	r1 := newTestRect(w, 0, 0, 100, 100)
	r2 := newTestRect(w, 200, 0, 50, 50)
	g := w.NewGroup("g", r1, r2)

	if e, _ := w.PickPoint(100, 0, nil); e != g {
		t.Errorf("gap pick = %d, want group %d", e, g)
	}
	if e, _ := w.PickPoint(200, 0, nil); e != r2 {
		t.Errorf("child pick = %d, want %d", e, r2)
	}
	if _, ok := w.PickPoint(100, 0, PickKind(KindRect)); ok {
		t.Error("gap hit with rect filter")
	}
}

func TestPickRegionInDrawOrder(t *testing.T) {
	w := NewWorld()
	a := newTestRect(w, 0, 0, 10, 10)
	b := newTestRect(w, 20, 0, 10, 10)
	c := newTestRect(w, 40, 0, 10, 10)
	newTestRect(w, 500, 0, 10, 10)
	w.SendToBack(c)

	got := w.PickRegion(AABB{-100, -100, 100, 100}, nil)
	assertEntities(t, "PickRegion", got, []Entity{c, a, b})
}

func TestPickRegionContained(t *testing.T) {
	w := NewWorld()
	inside := newTestRect(w, 0, 0, 10, 10)
	straddling := newTestRect(w, 50, 0, 10, 10)

	box := AABB{-20, -20, 50, 20}
	assertEntities(t, "PickRegion", w.PickRegion(box, nil), []Entity{inside, straddling})
	assertEntities(t, "PickRegionContained", w.PickRegionContained(box, nil), []Entity{inside})
}

func TestPickRegionSkipsHidden(t *testing.T) {
	w := NewWorld()
	a := newTestRect(w, 0, 0, 10, 10)
	b := newTestRect(w, 5, 0, 10, 10)
	w.SetVisible(b, false)
	assertEntities(t, "PickRegion", w.PickRegion(AABB{-50, -50, 50, 50}, nil), []Entity{a})
}

func TestContainsPoint(t *testing.T) {
	w := NewWorld()
	e := w.NewRect(RectOptions{X: 10, Y: 10, Width: 4, Height: 2})
	if !w.ContainsPoint(e, 12, 11) {
		t.Error("corner should be inside")
	}
	if w.ContainsPoint(e, 12.1, 10) {
		t.Error("outside point reported inside")
	}
	if w.ContainsPoint(Entity(99), 0, 0) {
		t.Error("unknown entity contains a point")
	}
}

func TestPickSkipsShapesWithoutArea(t *testing.T) {
	w := NewWorld()
	empty := w.NewGroup("empty")
	flat := newTestRect(w, 20, 20, 0, 0)
	line := newTestRect(w, 40, 0, 0, 30)

	if e, ok := w.PickPoint(0, 0, nil); ok {
		t.Errorf("empty group picked: %d", e)
	}
	if e, ok := w.PickPoint(20, 20, nil); ok {
		t.Errorf("0x0 rect picked: %d", e)
	}
	if got := w.PickRegion(AABB{-1, -1, 60, 60}, nil); len(got) != 0 {
		t.Errorf("PickRegion = %v, want none", got)
	}
	if w.ContainsPoint(empty, 0, 0) || w.ContainsPoint(flat, 20, 20) || w.ContainsPoint(line, 40, 0) {
		t.Error("ContainsPoint accepted a shape without area")
	}
	if n := w.Index().Len(); n != 0 {
		t.Errorf("index Len = %d, want 0", n)
	}
}

func TestPickEmptiedGroup(t *testing.T) {
	w := NewWorld()
	r := newTestRect(w, 0, 0, 10, 10)
	g := w.NewGroup("g", r)
	if e, _ := w.PickPoint(0, 0, nil); e != r {
		t.Fatalf("pick = %d, want %d", e, r)
	}

	w.RemoveChild(g, r)
	w.RemoveEntity(r)
	if e, ok := w.PickPoint(0, 0, nil); ok {
		t.Errorf("emptied group picked: %d", e)
	}
}
