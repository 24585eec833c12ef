package ebitenbackend

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/easel"
)

// Game hosts a Scene inside ebiten.RunGame. The screen is only redrawn when
// the scene requested a frame; otherwise the previous frame stays on screen.
type Game struct {
	Scene   *easel.Scene
	Backend *Backend
	Frames  *easel.ManualFrameSource
	Input   Input

	// ShowStats draws an FPS and renderer stats overlay. It forces a redraw
	// every frame.
	ShowStats bool
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	// OnUpdate runs after input and scene updates, before Draw.
	OnUpdate func() error

	script  *Script
	shots   screenshots
	overlay statsOverlay
}

// NewGame creates a scene wired to a fresh Backend and frame source, with
// textures loaded through a Provider rooted at assetRoot.
func NewGame(cfg easel.Config, assetRoot string) *Game {
	backend := New()
	frames := &easel.ManualFrameSource{}
	scene := easel.NewScene(cfg, backend, frames)
	scene.SetTextureProvider(Provider{Backend: backend, Root: assetRoot}, backend)
	return &Game{Scene: scene, Backend: backend, Frames: frames}
}

// SetScript attaches an input script. It runs one step per Update before
// input is polled.
func (g *Game) SetScript(s *Script) {
	g.script = s
}

// Run configures Ebitengine and blocks until the window closes.
func (g *Game) Run(title string, width, height int) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)
	return ebiten.RunGame(g)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	if g.script != nil {
		g.script.step(&g.Input, g.Screenshot)
	}
	g.Input.Poll(g.Scene)
	g.Scene.Update(float32(dt))
	if g.ShowStats {
		g.overlay.update(dt, g.Scene.Renderer().LastFrame(), len(g.Scene.Selection()))
		g.Scene.RequestRender()
	}
	if g.OnUpdate != nil {
		return g.OnUpdate()
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.Backend.SetTarget(screen)
	if g.Frames.Tick() == 0 {
		return
	}
	if g.ShowStats {
		g.overlay.draw(screen)
	}
	g.shots.dir = g.ScreenshotDir
	g.shots.flush(screen)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Scene.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}
