package ebitenbackend

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/easel"
)

// syntheticPointerEvent is a queued pointer event in screen coordinates.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	button  easel.MouseButton
	mods    easel.KeyModifiers
	wheel   float64
}

// Input feeds Ebitengine's mouse state into a Scene. Ebitengine reports
// positions and buttons by polling, so Input keeps the previous frame's
// state to turn them into press, move and release calls. Injected events
// take priority over the real mouse, one per Poll.
type Input struct {
	down   bool
	button easel.MouseButton
	lastX  float64
	lastY  float64

	queue []syntheticPointerEvent
}

// Poll forwards one frame of input to scene. Call once per Update.
func (p *Input) Poll(scene *easel.Scene) {
	if p.pollInjected(scene) {
		return
	}
	mods := readModifiers()
	mx, my := ebiten.CursorPosition()
	pressed, button := pressedButton()
	p.apply(scene, float64(mx), float64(my), pressed, button, mods)

	if _, wy := ebiten.Wheel(); wy != 0 {
		scene.Wheel(float64(mx), float64(my), wy)
	}
}

// apply runs the press/move/release transitions for one pointer sample.
func (p *Input) apply(scene *easel.Scene, x, y float64, pressed bool, button easel.MouseButton, mods easel.KeyModifiers) {
	switch {
	case pressed && !p.down:
		// Keep the button captured at press time for the whole interaction.
		p.down = true
		p.button = button
		scene.PointerDown(x, y, button, mods)
	case !pressed && p.down:
		p.down = false
		scene.PointerUp(x, y, p.button, mods)
	case x != p.lastX || y != p.lastY:
		scene.PointerMove(x, y, mods)
	}
	p.lastX, p.lastY = x, y
}

// --- Injection ---

// Pending returns the number of queued synthetic events.
func (p *Input) Pending() int {
	return len(p.queue)
}

// InjectPress queues a left press at screen point (x, y).
func (p *Input) InjectPress(x, y float64, mods easel.KeyModifiers) {
	p.queue = append(p.queue, syntheticPointerEvent{x: x, y: y, pressed: true, button: easel.MouseButtonLeft, mods: mods})
}

// InjectMove queues a move with the button held. Use it between InjectPress
// and InjectRelease to simulate a drag.
func (p *Input) InjectMove(x, y float64, mods easel.KeyModifiers) {
	p.queue = append(p.queue, syntheticPointerEvent{x: x, y: y, pressed: true, button: easel.MouseButtonLeft, mods: mods})
}

// InjectRelease queues a release at screen point (x, y).
func (p *Input) InjectRelease(x, y float64, mods easel.KeyModifiers) {
	p.queue = append(p.queue, syntheticPointerEvent{x: x, y: y, button: easel.MouseButtonLeft, mods: mods})
}

// InjectClick queues a press followed by a release. Consumes two polls.
func (p *Input) InjectClick(x, y float64, mods easel.KeyModifiers) {
	p.InjectPress(x, y, mods)
	p.InjectRelease(x, y, mods)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves
// and a release at (toX, toY). Minimum frames is 2.
func (p *Input) InjectDrag(fromX, fromY, toX, toY float64, frames int, mods easel.KeyModifiers) {
	if frames < 2 {
		frames = 2
	}
	p.InjectPress(fromX, fromY, mods)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t, mods)
	}
	p.InjectRelease(toX, toY, mods)
}

// InjectWheel queues a wheel turn at screen point (x, y).
func (p *Input) InjectWheel(x, y, delta float64) {
	p.queue = append(p.queue, syntheticPointerEvent{x: x, y: y, pressed: p.down, button: p.button, wheel: delta})
}

// pollInjected pops one synthetic event and feeds it to scene. It reports
// whether one was consumed, in which case the real mouse is skipped.
func (p *Input) pollInjected(scene *easel.Scene) bool {
	if len(p.queue) == 0 {
		return false
	}
	evt := p.queue[0]
	copy(p.queue, p.queue[1:])
	p.queue = p.queue[:len(p.queue)-1]

	if evt.wheel != 0 {
		scene.Wheel(evt.x, evt.y, evt.wheel)
		return true
	}
	p.apply(scene, evt.x, evt.y, evt.pressed, evt.button, evt.mods)
	return true
}

func pressedButton() (bool, easel.MouseButton) {
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		return true, easel.MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		return true, easel.MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		return true, easel.MouseButtonMiddle
	}
	return false, easel.MouseButtonLeft
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() easel.KeyModifiers {
	var mods easel.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= easel.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= easel.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= easel.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= easel.ModMeta
	}
	return mods
}
