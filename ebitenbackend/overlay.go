package ebitenbackend

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/easel"
)

// statsOverlay draws FPS and the last frame's renderer stats in the top-left
// corner. The text is refreshed every ~0.5 seconds.
type statsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string
}

func (o *statsOverlay) update(dt float64, stats easel.FrameStats, selected int) {
	o.elapsed += dt
	if o.text != "" && o.elapsed < 0.5 {
		return
	}
	o.elapsed = 0
	o.text = fmt.Sprintf("FPS: %.1f  TPS: %.1f\nshapes: %d  dropped: %d\ndraws: %d  selected: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), stats.Instances, stats.Dropped, stats.DrawCalls, selected)
}

func (o *statsOverlay) draw(screen *ebiten.Image) {
	if o.img == nil {
		// 220x52 fits three DebugPrint lines.
		o.img = ebiten.NewImage(220, 52)
	}
	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
	screen.DrawImage(o.img, nil)
}
