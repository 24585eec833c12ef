package easel

import (
	"fmt"
	"os"
)

// Scene is the top-level object the host talks to. It owns the world, the
// camera, the renderer, the frame scheduler, the event bus and the texture
// manager, and turns host input into edits.
type Scene struct {
	world    *World
	camera   *Camera
	renderer *Renderer
	frames   *renderScheduler
	events   *EventBus
	textures *TextureManager
	cfg      Config
	debug    bool

	sel   selection
	input inputState

	lastErr error
}

// NewScene creates a scene drawing through backend, with frames scheduled on
// frames. Images load from the local file system until SetTextureProvider is
// called; if backend implements TextureRegistry it receives decoded images.
func NewScene(cfg Config, backend Backend, frames FrameSource) *Scene {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("easel: NewScene: %v", err))
	}
	s := &Scene{
		world:  NewWorld(),
		camera: NewCamera(0, 0),
		events: NewEventBus(),
	}
	s.renderer = NewRenderer(backend, cfg.MaxInstances)
	s.frames = newRenderScheduler(frames, s.renderFrame)
	registry, _ := backend.(TextureRegistry)
	s.textures = NewTextureManager(FileTextureProvider{}, registry)
	s.camera.onChange = s.cameraChanged
	s.ApplyConfig(cfg)
	return s
}

// World returns the scene's world.
func (s *Scene) World() *World { return s.world }

// Camera returns the scene's camera.
func (s *Scene) Camera() *Camera { return s.camera }

// Renderer returns the scene's renderer.
func (s *Scene) Renderer() *Renderer { return s.renderer }

// Events returns the scene's event bus.
func (s *Scene) Events() *EventBus { return s.events }

// Textures returns the scene's texture manager.
func (s *Scene) Textures() *TextureManager { return s.textures }

// Config returns the active configuration.
func (s *Scene) Config() Config { return s.cfg }

// LastError returns the most recent render failure, or nil after a
// successful frame.
func (s *Scene) LastError() error { return s.lastErr }

// SetTextureProvider replaces the texture source. Loads already in flight on
// the previous provider are dropped.
func (s *Scene) SetTextureProvider(p TextureProvider, registry TextureRegistry) {
	s.textures = NewTextureManager(p, registry)
}

// SetEntityStore sets the optional ECS bridge. Every event is forwarded.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.events.SetEntityStore(store)
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame timing
// and draw stats are printed to stderr and tree sanity warnings are emitted.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.world.SetDebug(enabled)
}

// ApplyConfig switches to cfg. The instance cap takes effect on the next
// frame; the renderer resizes its buffers in place.
func (s *Scene) ApplyConfig(cfg Config) {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("easel: ApplyConfig: %v", err))
	}
	s.renderer.SetMaxInstances(cfg.MaxInstances)
	s.cfg = cfg
	s.renderer.SetClearColor(PackedColor(cfg.ClearColor).Unpack())
	s.renderer.SetPlaceholderFill(PackedColor(cfg.PlaceholderFill))
	s.renderer.SetSelectionStyle(PackedColor(cfg.SelectionStroke), cfg.SelectionStrokeWidth)
	s.camera.MinZoom = cfg.MinZoom
	s.camera.MaxZoom = cfg.MaxZoom
	s.camera.SetZoom(s.camera.Zoom)
	s.SetDebugMode(cfg.Debug)
	s.RequestRender()
}

// Resize sets the canvas size in pixels.
func (s *Scene) Resize(width, height float64) {
	if width == s.camera.Width && height == s.camera.Height {
		return
	}
	s.camera.SetViewport(width, height)
	s.RequestRender()
}

// RequestRender schedules a frame unless one is already pending. Any number
// of requests before the frame runs produce a single draw.
func (s *Scene) RequestRender() {
	if s.frames.request() {
		s.events.Fire(Event{Type: EventRenderRequested})
	}
}

// Update advances camera animations by dt seconds and applies finished
// texture loads. Call it once per host tick on the main thread.
func (s *Scene) Update(dt float32) {
	if s.camera.Animating() {
		s.camera.Update(dt)
	}
	changed := s.textures.Process(s.world, func(e Entity, url string, err error) {
		if s.debug {
			_, _ = fmt.Fprintf(os.Stderr, "[easel] texture %s failed for entity %d: %v\n", url, e, err)
		}
		s.events.Fire(Event{Type: EventTextureFailed, Entity: e, URL: url, Err: err})
	})
	for _, e := range changed {
		s.modified(e)
	}
}

// renderFrame is the scheduled frame callback.
func (s *Scene) renderFrame() {
	stats, err := s.renderer.Render(s.world, s.camera)
	if err != nil {
		if s.debug {
			_, _ = fmt.Fprintf(os.Stderr, "[easel] render skipped: %v\n", err)
		}
		s.lastErr = err
		s.events.Fire(Event{Type: EventRenderFailed, Err: err})
		return
	}
	s.lastErr = nil
	if s.debug {
		debugLog(stats)
	}
	if stats.Dropped > 0 {
		s.events.Fire(Event{Type: EventInstanceOverflow, Dropped: stats.Dropped})
	}
	s.world.ClearDirty()
}

func (s *Scene) cameraChanged(zoomChanged, panChanged bool) {
	if zoomChanged {
		s.events.Fire(Event{Type: EventZoomChanged, Zoom: s.camera.Zoom})
	}
	if panChanged {
		s.events.Fire(Event{Type: EventPanChanged, X: s.camera.X, Y: s.camera.Y})
	}
	s.RequestRender()
}

// modified reports an entity edit and schedules a frame.
func (s *Scene) modified(e Entity) {
	s.events.Fire(Event{Type: EventObjectModified, Entity: e})
	s.RequestRender()
}

// --- Entity construction ---

// NewRect adds a rectangle to the scene.
func (s *Scene) NewRect(opts RectOptions) Entity {
	e := s.world.NewRect(opts)
	s.RequestRender()
	return e
}

// NewImage adds an image to the scene and starts loading its texture. Until
// the texture arrives the image is drawn with the placeholder fill.
func (s *Scene) NewImage(opts ImageOptions) Entity {
	e := s.world.NewImage(opts, s.cfg.PlaceholderSize)
	if opts.URL != "" {
		s.textures.Request(e, opts.URL, opts.Width <= 0 || opts.Height <= 0)
	}
	s.RequestRender()
	return e
}

// NewGroup groups members. Selected members are deselected first.
func (s *Scene) NewGroup(name string, members ...Entity) Entity {
	for _, m := range members {
		if s.IsSelected(m) {
			s.ClearSelection()
			break
		}
	}
	g := s.world.NewGroup(name, members...)
	s.modified(g)
	return g
}

// Ungroup dissolves group g and returns its former children.
func (s *Scene) Ungroup(g Entity) []Entity {
	if g == s.sel.group {
		panic("easel: Ungroup on the selection group; use ClearSelection")
	}
	kids := s.world.Ungroup(g)
	for _, k := range kids {
		s.events.Fire(Event{Type: EventObjectModified, Entity: k})
	}
	s.RequestRender()
	return kids
}

// Remove destroys e. Its children are kept and moved to world space.
func (s *Scene) Remove(e Entity) {
	if e == s.sel.group {
		s.ClearSelection()
		return
	}
	if s.IsSelected(e) {
		s.Deselect(e)
	}
	s.world.RemoveEntity(e)
	s.RequestRender()
}

// --- Property setters ---

// SetPosition moves e so its center is at world point (x, y).
func (s *Scene) SetPosition(e Entity, x, y float64) {
	m := s.world.WorldMatrixOf(e)
	if err := s.world.SetWorldMatrix(e, m.WithTranslation(x, y)); err != nil {
		panic(fmt.Sprintf("easel: SetPosition: %v", err))
	}
	s.modified(e)
}

// SetTransform replaces e's local transform. Singular transforms are
// rejected and leave e untouched.
func (s *Scene) SetTransform(e Entity, t Transform) error {
	if err := s.world.SetTransform(e, t); err != nil {
		return err
	}
	s.modified(e)
	return nil
}

// SetSize resizes e. Groups size themselves and ignore this.
func (s *Scene) SetSize(e Entity, size Size) {
	if k, _ := s.world.Kind(e); k == KindGroup {
		return
	}
	s.world.SetSize(e, size)
	s.modified(e)
}

// SetStyle replaces e's paint.
func (s *Scene) SetStyle(e Entity, style Style) {
	AddComponent(s.world, StyleComponent, e, style)
	s.modified(e)
}

// SetVisible shows or hides e and its descendants.
func (s *Scene) SetVisible(e Entity, visible bool) {
	s.world.SetVisible(e, visible)
	s.modified(e)
}

// BringToFront draws e above its siblings.
func (s *Scene) BringToFront(e Entity) {
	s.world.BringToFront(e)
	s.modified(e)
}

// SendToBack draws e below its siblings.
func (s *Scene) SendToBack(e Entity) {
	s.world.SendToBack(e)
	s.modified(e)
}

// --- Camera ---

// ZoomAt zooms by factor around screen point (sx, sy).
func (s *Scene) ZoomAt(sx, sy, factor float64) {
	s.camera.ZoomAt(sx, sy, factor)
}

// PanBy pans the view by a screen-space delta.
func (s *Scene) PanBy(dx, dy float64) {
	s.camera.PanBy(dx, dy)
}

// ZoomToFit frames every entity in the view.
func (s *Scene) ZoomToFit(padding float64) {
	s.camera.FitBounds(s.world.BoundsOfAll(), padding)
}
