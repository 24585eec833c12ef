package ebitenbackend

import (
	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
)

// frameParams are the uniforms shared by every instance of one draw.
type frameParams struct {
	view     [9]float32
	zoom     float32
	height   float32
	selColor [4]float32
	selWidth float32
	// texW and texH are zero for untextured draws.
	texW, texH float32
}

// instanceParams are the per-instance attributes of one shape.
type instanceParams struct {
	matrix      [9]float32
	size        [2]float32
	fill        [4]float32
	stroke      [4]float32
	strokeWidth float32
	selected    bool
}

// toScreen maps a unit-geometry vertex through size, model and view, then
// flips y so the canvas origin ends up at the bottom-left of the target.
func toScreen(f *frameParams, in *instanceParams, ux, uy float32) (float32, float32) {
	x := ux * in.size[0]
	y := uy * in.size[1]
	m := &in.matrix
	wx := m[0]*x + m[1]*y + m[2]
	wy := m[3]*x + m[4]*y + m[5]
	v := &f.view
	cx := v[0]*wx + v[1]*wy + v[2]
	cy := v[3]*wx + v[4]*wy + v[5]
	return cx, f.height - cy
}

// premultiply converts straight RGBA to premultiplied vertex color.
func premultiply(c [4]float32) (r, g, b, a float32) {
	return c[0] * c[3], c[1] * c[3], c[2] * c[3], c[3]
}

// expandFill emits the triangle strip geom for one instance.
func expandFill(verts []ebiten.Vertex, inds []uint32, f *frameParams, in *instanceParams, geom []float32) ([]ebiten.Vertex, []uint32) {
	n := len(geom) / 2
	if n < 3 || in.fill[3] <= 0 {
		return verts, inds
	}
	r, g, b, a := premultiply(in.fill)
	base := uint32(len(verts))
	for i := 0; i < n; i++ {
		ux, uy := geom[i*2], geom[i*2+1]
		dx, dy := toScreen(f, in, ux, uy)
		sx, sy := float32(0.5), float32(0.5)
		if f.texW > 0 {
			// Image rows run top-down while local y runs up.
			sx = (ux + 0.5) * f.texW
			sy = (0.5 - uy) * f.texH
		}
		verts = append(verts, ebiten.Vertex{
			DstX: dx, DstY: dy,
			SrcX: sx, SrcY: sy,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	for k := uint32(0); k+2 < uint32(n); k++ {
		inds = append(inds, base+k, base+k+1, base+k+2)
	}
	return verts, inds
}

// expandOutline emits one quad per edge of the closed loop geom. Selected
// instances use the selection color and a screen-space width; others use
// their stroke scaled by zoom.
func expandOutline(verts []ebiten.Vertex, inds []uint32, f *frameParams, in *instanceParams, geom []float32) ([]ebiten.Vertex, []uint32) {
	n := len(geom) / 2
	if n < 2 {
		return verts, inds
	}
	col, width := in.stroke, in.strokeWidth*f.zoom
	if in.selected {
		col, width = f.selColor, f.selWidth
	}
	if width <= 0 || col[3] <= 0 {
		return verts, inds
	}
	r, g, b, a := premultiply(col)
	half := width / 2

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		ax, ay := toScreen(f, in, geom[i*2], geom[i*2+1])
		bx, by := toScreen(f, in, geom[j*2], geom[j*2+1])
		dx, dy := bx-ax, by-ay
		l := math32.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		// Extend along the edge so corners close.
		ex, ey := dx/l*half, dy/l*half

		base := uint32(len(verts))
		for _, p := range [4][2]float32{
			{ax - ex + nx, ay - ey + ny},
			{bx + ex + nx, by + ey + ny},
			{ax - ex - nx, ay - ey - ny},
			{bx + ex - nx, by + ey - ny},
		} {
			verts = append(verts, ebiten.Vertex{
				DstX: p[0], DstY: p[1],
				SrcX: 0.5, SrcY: 0.5,
				ColorR: r, ColorG: g, ColorB: b, ColorA: a,
			})
		}
		inds = append(inds, base, base+1, base+2, base+1, base+3, base+2)
	}
	return verts, inds
}
