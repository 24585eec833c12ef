// Package ebitenbackend draws easel scenes with Ebitengine. Instancing is
// expanded on the CPU: every instanced draw turns into one DrawTriangles32
// call whose vertices are computed from the bound attribute buffers.
package ebitenbackend

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/easel"
)

var attribNames = []string{
	easel.AttribPosition,
	easel.AttribMatrixRow0,
	easel.AttribMatrixRow1,
	easel.AttribMatrixRow2,
	easel.AttribSize,
	easel.AttribFill,
	easel.AttribStroke,
	easel.AttribStrokeWidth,
	easel.AttribSelected,
}

var uniformNames = []string{
	easel.UniformView,
	easel.UniformZoom,
	easel.UniformResolution,
	easel.UniformMode,
	easel.UniformTextured,
	easel.UniformSelectionColor,
	easel.UniformSelectionWidth,
}

// Attribute slots, in attribNames order.
const (
	locPosition = iota
	locMatrix0
	locMatrix1
	locMatrix2
	locSize
	locFill
	locStroke
	locStrokeWidth
	locSelected
	attribCount
)

// Uniform slots, in uniformNames order.
const (
	uniView = iota
	uniZoom
	uniResolution
	uniMode
	uniTextured
	uniSelColor
	uniSelWidth
	uniformCount
)

type attribBinding struct {
	buf     easel.BufferID
	size    int
	stride  int
	offset  int
	divisor int
}

// Backend implements easel.Backend and easel.TextureRegistry on top of an
// ebiten.Image target.
type Backend struct {
	target *ebiten.Image
	white  *ebiten.Image

	buffers  [][]float32 // index = BufferID-1
	attribs  [attribCount]attribBinding
	uniforms [uniformCount][4]float32
	view     [9]float32
	program  easel.ProgramID

	texMu    sync.Mutex
	textures []*ebiten.Image // index = TextureID-1
	bound    easel.TextureID

	verts []ebiten.Vertex
	inds  []uint32

	// Stats of the current target, reset by SetTarget.
	drawCalls int
	triangles int
}

// New creates a backend without a target. Call SetTarget before each frame.
func New() *Backend {
	return &Backend{}
}

// SetTarget sets the image subsequent draws render into.
func (b *Backend) SetTarget(target *ebiten.Image) {
	b.target = target
	b.drawCalls = 0
	b.triangles = 0
}

// DrawCalls returns the DrawTriangles32 calls issued since SetTarget.
func (b *Backend) DrawCalls() int { return b.drawCalls }

// Triangles returns the triangles emitted since SetTarget.
func (b *Backend) Triangles() int { return b.triangles }

// --- Buffers ---

func (b *Backend) CreateBuffer() easel.BufferID {
	b.buffers = append(b.buffers, nil)
	return easel.BufferID(len(b.buffers))
}

func (b *Backend) BufferData(buf easel.BufferID, n int) {
	b.buffers[buf-1] = make([]float32, n)
}

func (b *Backend) BufferSubData(buf easel.BufferID, offset int, data []float32) {
	dst := b.buffers[buf-1]
	if offset+len(data) > len(dst) {
		panic(fmt.Sprintf("ebitenbackend: BufferSubData overflows buffer %d (%d > %d)", buf, offset+len(data), len(dst)))
	}
	copy(dst[offset:], data)
}

// --- Program ---

func (b *Backend) CreateProgram(name string) (easel.ProgramID, error) {
	if name != easel.ShapeProgram {
		return 0, fmt.Errorf("ebitenbackend: unknown program %q", name)
	}
	return 1, nil
}

func (b *Backend) UseProgram(p easel.ProgramID) {
	b.program = p
}

func (b *Backend) AttribLocation(_ easel.ProgramID, name string) easel.AttribLocation {
	for i, n := range attribNames {
		if n == name {
			return easel.AttribLocation(i)
		}
	}
	return -1
}

func (b *Backend) UniformLocation(_ easel.ProgramID, name string) easel.UniformLocation {
	for i, n := range uniformNames {
		if n == name {
			return easel.UniformLocation(i)
		}
	}
	return -1
}

func (b *Backend) VertexAttribPointer(loc easel.AttribLocation, buf easel.BufferID, size, stride, offset int) {
	if loc < 0 {
		return
	}
	a := &b.attribs[loc]
	a.buf, a.size, a.stride, a.offset = buf, size, stride, offset
}

func (b *Backend) VertexAttribDivisor(loc easel.AttribLocation, divisor int) {
	if loc < 0 {
		return
	}
	b.attribs[loc].divisor = divisor
}

func (b *Backend) Uniform1f(loc easel.UniformLocation, v float32) {
	if loc >= 0 {
		b.uniforms[loc] = [4]float32{v}
	}
}

func (b *Backend) Uniform2f(loc easel.UniformLocation, x, y float32) {
	if loc >= 0 {
		b.uniforms[loc] = [4]float32{x, y}
	}
}

func (b *Backend) Uniform4f(loc easel.UniformLocation, x, y, z, w float32) {
	if loc >= 0 {
		b.uniforms[loc] = [4]float32{x, y, z, w}
	}
}

func (b *Backend) UniformMatrix3f(loc easel.UniformLocation, m [9]float32) {
	if loc == uniView {
		b.view = m
	}
}

// --- Textures ---

func (b *Backend) BindTexture(id easel.TextureID) {
	b.bound = id
}

// RegisterImage uploads img and returns its texture id.
func (b *Backend) RegisterImage(img image.Image) easel.TextureID {
	return b.RegisterEbitenImage(ebiten.NewImageFromImage(img))
}

// RegisterEbitenImage adds an existing ebiten image as a texture. Safe for
// concurrent use.
func (b *Backend) RegisterEbitenImage(img *ebiten.Image) easel.TextureID {
	b.texMu.Lock()
	defer b.texMu.Unlock()
	b.textures = append(b.textures, img)
	return easel.TextureID(len(b.textures))
}

func (b *Backend) texture(id easel.TextureID) *ebiten.Image {
	b.texMu.Lock()
	defer b.texMu.Unlock()
	if id == 0 || int(id) > len(b.textures) {
		return nil
	}
	return b.textures[id-1]
}

// --- Drawing ---

func (b *Backend) Clear(c easel.Color) {
	if b.target == nil {
		return
	}
	b.target.Fill(color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)})
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// DrawArraysInstanced expands instances into triangles and submits them in a
// single DrawTriangles32 call.
func (b *Backend) DrawArraysInstanced(mode easel.Primitive, first, count, instances int) {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]

	f := b.frame()
	tex := b.texture(b.bound)
	if tex != nil && b.uniforms[uniTextured][0] != 0 {
		f.texW, f.texH = float32(tex.Bounds().Dx()), float32(tex.Bounds().Dy())
	} else {
		tex = nil
	}

	geom := b.geometry(first, count)
	for i := 0; i < instances; i++ {
		in := b.instance(i)
		switch mode {
		case easel.PrimitiveTriangleStrip:
			b.verts, b.inds = expandFill(b.verts, b.inds, &f, &in, geom)
		case easel.PrimitiveLineLoop:
			b.verts, b.inds = expandOutline(b.verts, b.inds, &f, &in, geom)
		}
	}
	b.flush(tex)
}

func (b *Backend) flush(tex *ebiten.Image) {
	if len(b.inds) == 0 {
		return
	}
	b.triangles += len(b.inds) / 3
	b.drawCalls++
	if b.target == nil {
		return
	}
	src := tex
	if src == nil {
		src = b.whitePixel()
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	b.target.DrawTriangles32(b.verts, b.inds, src, &op)
}

// whitePixel returns a 1x1 white image so untextured vertices take their
// color from the vertex alone.
func (b *Backend) whitePixel() *ebiten.Image {
	if b.white == nil {
		b.white = ebiten.NewImage(1, 1)
		b.white.Fill(color.White)
	}
	return b.white
}

// frame collects the uniforms shared by every instance of a draw.
func (b *Backend) frame() frameParams {
	res := b.uniforms[uniResolution]
	sel := b.uniforms[uniSelColor]
	return frameParams{
		view:     b.view,
		zoom:     b.uniforms[uniZoom][0],
		height:   res[1],
		selColor: [4]float32{sel[0], sel[1], sel[2], sel[3]},
		selWidth: b.uniforms[uniSelWidth][0],
	}
}

// instance reads the per-instance attributes of instance i.
func (b *Backend) instance(i int) instanceParams {
	var in instanceParams
	rows := [3][]float32{b.attrib(locMatrix0, i), b.attrib(locMatrix1, i), b.attrib(locMatrix2, i)}
	for r, row := range rows {
		copy(in.matrix[r*3:r*3+3], row)
	}
	copy(in.size[:], b.attrib(locSize, i))
	copy(in.fill[:], b.attrib(locFill, i))
	copy(in.stroke[:], b.attrib(locStroke, i))
	if v := b.attrib(locStrokeWidth, i); len(v) > 0 {
		in.strokeWidth = v[0]
	}
	if v := b.attrib(locSelected, i); len(v) > 0 {
		in.selected = v[0] != 0
	}
	return in
}

// attrib returns the components of per-instance attribute loc for instance i.
func (b *Backend) attrib(loc int, i int) []float32 {
	a := b.attribs[loc]
	if a.buf == 0 || a.size == 0 {
		return nil
	}
	buf := b.buffers[a.buf-1]
	start := a.offset + i*a.stride
	if a.divisor == 0 {
		start = a.offset
	}
	if start+a.size > len(buf) {
		return nil
	}
	return buf[start : start+a.size]
}

// geometry returns the per-vertex positions of vertices [first, first+count).
func (b *Backend) geometry(first, count int) []float32 {
	a := b.attribs[locPosition]
	if a.buf == 0 {
		return nil
	}
	buf := b.buffers[a.buf-1]
	out := make([]float32, 0, count*2)
	for v := first; v < first+count; v++ {
		start := a.offset + v*a.stride
		if start+2 > len(buf) {
			break
		}
		out = append(out, buf[start], buf[start+1])
	}
	return out
}

// Compile-time interface checks.
var (
	_ easel.Backend         = (*Backend)(nil)
	_ easel.TextureRegistry = (*Backend)(nil)
)
