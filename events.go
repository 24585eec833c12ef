package easel

// EventType identifies a notification sent from the core to the shell.
type EventType uint8

const (
	EventZoomChanged           EventType = iota // camera zoom changed
	EventPanChanged                             // camera position changed
	EventSelectionGroupAdded                    // a selection group was created
	EventSelectionGroupUpdated                  // the selection group's members or box changed
	EventSelectionGroupRemoved                  // the selection group was dissolved
	EventObjectModified                         // an entity's transform, size, style or visibility changed
	EventRenderRequested                        // a frame was scheduled
	EventTextureFailed                          // an image's texture failed to load
	EventInstanceOverflow                       // a frame dropped instances over the cap
	EventRenderFailed                           // the renderer could not create its program
	EventSelectionChanged                       // the set of selected entities changed
	eventTypeCount
)

var eventTypeNames = [eventTypeCount]string{
	"zoom:changed", "pan:changed", "selection-group:added",
	"selection-group:updated", "selection-group:removed", "object:modified",
	"render:requested", "texture:failed", "instance:overflow", "render:failed",
	"selection:changed",
}

// String returns the event's wire-style name.
func (t EventType) String() string {
	if t < eventTypeCount {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Event carries notification data. Which fields are meaningful depends on
// Type.
type Event struct {
	Type     EventType
	Entity   Entity   // modified entity, selection group, or failed image
	Entities []Entity // selection members
	Zoom     float64  // EventZoomChanged
	X, Y     float64  // EventPanChanged camera center
	Dropped  int      // EventInstanceOverflow
	URL      string   // EventTextureFailed
	Err      error    // EventTextureFailed, EventRenderFailed
}

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, every fired event is forwarded to the store.
type EntityStore interface {
	EmitEvent(event Event)
}

type eventHandler struct {
	id uint32
	fn func(Event)
}

// EventBus dispatches events synchronously, in registration order.
type EventBus struct {
	handlers [eventTypeCount][]eventHandler
	nextID   uint32
	store    EntityStore
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	bus   *EventBus
	event EventType
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.bus == nil {
		return
	}
	h.bus.Off(h)
}

// On registers fn for events of type t.
func (b *EventBus) On(t EventType, fn func(Event)) CallbackHandle {
	if t >= eventTypeCount {
		panic("easel: unknown event type")
	}
	if fn == nil {
		panic("easel: nil event handler")
	}
	b.nextID++
	id := b.nextID
	b.handlers[t] = append(b.handlers[t], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, bus: b, event: t}
}

// Off unregisters the callback behind h. Unknown handles are ignored.
func (b *EventBus) Off(h CallbackHandle) {
	if h.event >= eventTypeCount {
		return
	}
	s := b.handlers[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			b.handlers[h.event] = s[:len(s)-1]
			return
		}
	}
}

// Fire delivers ev to every handler registered for ev.Type, then to the
// EntityStore if one is set. Handlers may register or remove handlers; such
// changes take effect from the next Fire.
func (b *EventBus) Fire(ev Event) {
	if ev.Type >= eventTypeCount {
		return
	}
	hs := b.handlers[ev.Type]
	if len(hs) > 0 {
		snapshot := make([]eventHandler, len(hs))
		copy(snapshot, hs)
		for _, h := range snapshot {
			h.fn(ev)
		}
	}
	if b.store != nil {
		b.store.EmitEvent(ev)
	}
}

// SetEntityStore sets the optional ECS bridge.
func (b *EventBus) SetEntityStore(store EntityStore) {
	b.store = store
}

// HandlerCount returns how many callbacks are registered for t.
func (b *EventBus) HandlerCount(t EventType) int {
	if t >= eventTypeCount {
		return 0
	}
	return len(b.handlers[t])
}
