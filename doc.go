// Package easel is the scene-graph core of a 2D canvas editor.
//
// Easel stores rectangles, images and groups as entities in a component
// store, keeps their transform hierarchy consistent, indexes their bounds for
// picking and marquee selection, and packs everything visible into instanced
// draw calls each frame. Toolbars, file dialogs and shader sources live in
// the host; easel only needs a [Backend] to draw through and a
// [FrameSource] to schedule frames on.
//
// # Quick start
//
// The ebitenbackend package provides a ready-made host:
//
//	game := ebitenbackend.NewGame(easel.DefaultConfig(), "assets")
//	game.Scene.NewRect(easel.RectOptions{Width: 100, Height: 100, Fill: easel.RGBA(255, 0, 0, 255)})
//	game.Run("Canvas", 1024, 768)
//
// For full control, construct a [Scene] over your own [Backend]:
//
//	frames := &easel.ManualFrameSource{}
//	scene := easel.NewScene(easel.DefaultConfig(), backend, frames)
//	// ... in your refresh callback:
//	frames.Tick()
//
// # Entities and components
//
// An [Entity] is a bare id into the [World]'s component tables. Typed keys
// such as [LocalMatrixComponent] and [StyleComponent] read and write them
// through [GetComponent], [AddComponent], [UpdateComponent] and
// [RemoveComponent]. Writes run the same side effects as the dedicated
// methods: a new local matrix re-derives world matrices below it, a new size
// refreshes bounds, and every write marks the entity dirty.
//
// Factories populate every required component at once:
//
//	w := easel.NewWorld()
//	r := w.NewRect(easel.RectOptions{X: 0, Y: 0, Width: 100, Height: 100})
//	g := w.NewGroup("pair", r, w.NewRect(easel.RectOptions{X: 200, Width: 50, Height: 50}))
//
// # Coordinates
//
// World space is y-up. Local geometry is centered on the entity's origin, so
// a 100x100 rectangle spans -50..50 on both axes before its matrix is
// applied. [Matrix] is a row-major 3x3 affine matrix acting on column
// vectors; an entity's world matrix is its parent's world matrix times its
// local matrix. The [Camera] maps world space onto the canvas and converts
// pointer positions (origin top-left, y down) back.
//
// # Hierarchy
//
// [World.AddChild] keeps the child's world placement, rejects cycles with a
// panic and refits group parents so their size always matches the union of
// their children's bounds. [World.RemoveEntity] detaches children into world
// space instead of deleting them.
//
// # Picking
//
// [World.PickPoint] returns the topmost visible entity under a point; the
// spatial index narrows candidates and exact local-space containment decides.
// [World.PickRegion] returns every entity whose bounds touch a rectangle, in
// draw order.
//
// # Rendering
//
// [Renderer] writes per-instance attributes (matrix, size, fill, stroke,
// stroke width, selected flag) into preallocated buffers, splits them into
// runs that share a texture and issues one fill and one outline instanced
// draw per run. Entities past [Config.MaxInstances] are dropped and reported
// through [FrameStats.Dropped] and [EventInstanceOverflow].
//
// [Scene.RequestRender] coalesces: any number of requests before the next
// frame callback produce a single draw.
//
// # Events
//
// The scene's [EventBus] reports zoom and pan changes, selection group
// changes, object modifications, texture failures and overflow. Attach an
// [EntityStore] (see the ecs subpackage) to mirror them into an ECS.
//
// # Debug mode
//
// [Scene.SetDebugMode] or the debug config key prints frame timings and tree
// warnings to stderr.
package easel
