package easel

import "sync"

// FrameSource schedules a callback for the next display refresh, like a
// browser's requestAnimationFrame. Callbacks must run on the thread that
// owns the World.
type FrameSource interface {
	RequestFrame(fn func())
}

// ManualFrameSource queues frame callbacks until the host calls Tick, which
// is how a host loop (for example ebiten's Draw) drives frames.
type ManualFrameSource struct {
	mu      sync.Mutex
	pending []func()
}

// RequestFrame queues fn for the next Tick.
func (m *ManualFrameSource) RequestFrame(fn func()) {
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

// Tick runs every callback queued before the call and returns how many ran.
// Callbacks requested while ticking run on the next Tick.
func (m *ManualFrameSource) Tick() int {
	m.mu.Lock()
	run := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, fn := range run {
		fn()
	}
	return len(run)
}

// Pending returns the number of queued callbacks.
func (m *ManualFrameSource) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// renderScheduler coalesces render requests: at most one frame callback is
// outstanding at any time, and it renders everything mutated before it ran.
type renderScheduler struct {
	source  FrameSource
	draw    func()
	pending bool
}

func newRenderScheduler(source FrameSource, draw func()) *renderScheduler {
	if source == nil {
		panic("easel: nil frame source")
	}
	return &renderScheduler{source: source, draw: draw}
}

// request schedules one draw unless one is already pending. It reports
// whether a new frame was scheduled.
func (r *renderScheduler) request() bool {
	if r.pending {
		return false
	}
	r.pending = true
	r.source.RequestFrame(r.run)
	return true
}

func (r *renderScheduler) run() {
	// Clear the guard first so mutations made by draw observers schedule
	// the following frame.
	r.pending = false
	r.draw()
}
