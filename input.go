package easel

import "math"

// pointerMode is what a pressed pointer is doing.
type pointerMode uint8

const (
	pointerIdle    pointerMode = iota
	pointerPress               // down, still inside the dead zone
	pointerDrag                // moving the drag target
	pointerMarquee             // drawing a selection rectangle
	pointerPan                 // panning the view
)

// inputState is the single-pointer state machine behind PointerDown,
// PointerMove and PointerUp. Coordinates are in screen space.
type inputState struct {
	mode     pointerMode
	button   MouseButton
	mods     KeyModifiers
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	target   Entity // drag target; NoEntity over empty canvas
	hoverHit Entity
	marquee  AABB
}

// PointerDown starts a press at screen point (sx, sy).
//
// Left press on a selectable entity selects it (Shift toggles it instead)
// and arms a drag of the selection. Left press on empty canvas clears the
// selection (unless Shift is held) and arms a marquee. Middle and right
// presses arm a pan.
func (s *Scene) PointerDown(sx, sy float64, button MouseButton, mods KeyModifiers) {
	in := &s.input
	if in.mode != pointerIdle {
		return
	}
	*in = inputState{mode: pointerPress, button: button, mods: mods, startX: sx, startY: sy, lastX: sx, lastY: sy}

	if button != MouseButtonLeft {
		in.mode = pointerPan
		return
	}

	wx, wy := s.camera.ScreenToWorld(sx, sy)
	hit, ok := s.pickTopLevel(wx, wy)
	if !ok {
		if mods&ModShift == 0 {
			s.ClearSelection()
		}
		return
	}

	switch {
	case hit == s.sel.group:
		// Gap inside the selection box: keep the selection and drag it.
	case mods&ModShift != 0:
		s.ToggleSelection(hit)
	case !s.IsSelected(hit):
		s.Select(hit)
	}
	in.target = s.dragTarget(hit)
}

// PointerMove updates the pointer at screen point (sx, sy). Without a press
// it only tracks the hovered entity.
func (s *Scene) PointerMove(sx, sy float64, mods KeyModifiers) {
	in := &s.input
	if in.mode == pointerIdle {
		wx, wy := s.camera.ScreenToWorld(sx, sy)
		in.hoverHit, _ = s.pickTopLevel(wx, wy)
		in.lastX, in.lastY = sx, sy
		return
	}
	in.mods = mods

	if in.mode == pointerPress {
		if math.Hypot(sx-in.startX, sy-in.startY) <= s.cfg.DragDeadZone {
			in.lastX, in.lastY = sx, sy
			return
		}
		switch {
		case in.button != MouseButtonLeft:
			in.mode = pointerPan
		case in.target != NoEntity:
			in.mode = pointerDrag
			// Movement inside the dead zone is applied now.
			in.lastX, in.lastY = in.startX, in.startY
		default:
			in.mode = pointerMarquee
		}
	}

	switch in.mode {
	case pointerPan:
		s.camera.PanBy(sx-in.lastX, sy-in.lastY)
	case pointerDrag:
		s.dragBy(in.target, in.lastX, in.lastY, sx, sy)
	case pointerMarquee:
		x0, y0 := s.camera.ScreenToWorld(in.startX, in.startY)
		x1, y1 := s.camera.ScreenToWorld(sx, sy)
		in.marquee = BoxFromPoints(x0, y0, x1, y1)
		s.RequestRender()
	}
	in.lastX, in.lastY = sx, sy
}

// PointerUp ends the press. A marquee selects what it touched; Shift adds
// to the existing selection.
func (s *Scene) PointerUp(sx, sy float64, button MouseButton, mods KeyModifiers) {
	in := &s.input
	if in.mode == pointerIdle || button != in.button {
		return
	}
	s.PointerMove(sx, sy, mods)

	if in.mode == pointerMarquee {
		box := in.marquee
		prev := s.Selection()
		picked := s.SelectRegion(box, false)
		if mods&ModShift != 0 {
			s.setSelection(append(prev, picked...))
		}
	}
	*in = inputState{lastX: sx, lastY: sy}
}

// Wheel zooms around screen point (sx, sy). Positive delta zooms in; each
// unit applies one zoom step.
func (s *Scene) Wheel(sx, sy, delta float64) {
	if delta == 0 {
		return
	}
	s.camera.ZoomAt(sx, sy, math.Pow(s.cfg.ZoomStep, delta))
}

// Marquee returns the world-space marquee rectangle while one is drawn.
func (s *Scene) Marquee() (AABB, bool) {
	if s.input.mode != pointerMarquee {
		return AABB{}, false
	}
	return s.input.marquee, true
}

// Dragging reports whether the pointer is moving entities.
func (s *Scene) Dragging() bool {
	return s.input.mode == pointerDrag
}

// Hovered returns the selectable entity under the idle pointer.
func (s *Scene) Hovered() (Entity, bool) {
	return s.input.hoverHit, s.input.hoverHit != NoEntity
}

// pickTopLevel returns the selectable top-level entity drawn at world point
// (wx, wy). Hits inside the selection group resolve to the member; hits
// inside user groups resolve to the outermost group.
func (s *Scene) pickTopLevel(wx, wy float64) (Entity, bool) {
	w := s.world
	hit, ok := w.PickPoint(wx, wy, PickAny)
	if !ok {
		return NoEntity, false
	}
	for {
		p, ok := w.Parent(hit)
		if !ok || p == s.sel.group {
			break
		}
		hit = p
	}
	if in, ok := w.interaction.get(hit); !ok || !in.Selectable {
		return NoEntity, false
	}
	return hit, true
}

// dragTarget is the entity a drag starting on hit moves: the selection
// group when there is one, otherwise hit if it is draggable.
func (s *Scene) dragTarget(hit Entity) Entity {
	if hit != NoEntity && hit == s.sel.group {
		return hit
	}
	if !s.IsSelected(hit) {
		return NoEntity
	}
	if s.sel.group != NoEntity {
		return s.sel.group
	}
	if in, ok := s.world.interaction.get(hit); ok && in.Draggable {
		return hit
	}
	return NoEntity
}

// dragBy moves e by the world-space distance between two screen points.
func (s *Scene) dragBy(e Entity, fromX, fromY, toX, toY float64) {
	x0, y0 := s.camera.ScreenToWorld(fromX, fromY)
	x1, y1 := s.camera.ScreenToWorld(toX, toY)
	if x0 == x1 && y0 == y1 {
		return
	}
	if e == s.sel.group {
		// Locked members pin the whole selection.
		for _, m := range s.sel.members {
			if in, _ := s.world.interaction.get(m); !in.Draggable {
				return
			}
		}
	}
	// A pure translation of an invertible matrix stays invertible.
	_ = s.world.TranslateWorld(e, x1-x0, y1-y0)
	s.modified(e)
}
