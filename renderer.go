package easel

import (
	"fmt"
	"time"
)

// DefaultMaxInstances is the per-frame instance cap.
const DefaultMaxInstances = 20000

// FrameStats describes one rendered frame.
type FrameStats struct {
	Instances int // instances drawn
	Dropped   int // visible entities over the cap that were not drawn
	Batches   int // contiguous runs sharing a texture
	DrawCalls int // instanced draw calls issued

	PackTime   time.Duration
	UploadTime time.Duration
	DrawTime   time.Duration
}

// instanceBuffers holds the packed per-instance attributes, one tightly
// packed float32 slice per attribute, preallocated to the instance cap.
type instanceBuffers struct {
	matrix      []float32
	size        []float32
	fill        []float32
	stroke      []float32
	strokeWidth []float32
	selected    []float32
	count       int
}

func newInstanceBuffers(capacity int) instanceBuffers {
	return instanceBuffers{
		matrix:      make([]float32, capacity*matrixFloats),
		size:        make([]float32, capacity*sizeFloats),
		fill:        make([]float32, capacity*colorFloats),
		stroke:      make([]float32, capacity*colorFloats),
		strokeWidth: make([]float32, capacity*strokeWidthFloats),
		selected:    make([]float32, capacity*selectedFloats),
	}
}

// batchRun is a contiguous range of packed instances sharing a texture.
type batchRun struct {
	texture TextureID
	start   int
	count   int
}

// shapeLocations caches attribute and uniform slots of the shape program.
type shapeLocations struct {
	position    AttribLocation
	matrixRows  [3]AttribLocation
	size        AttribLocation
	fill        AttribLocation
	stroke      AttribLocation
	strokeWidth AttribLocation
	selected    AttribLocation

	view       UniformLocation
	zoom       UniformLocation
	resolution UniformLocation
	mode       UniformLocation
	textured   UniformLocation
	selColor   UniformLocation
	selWidth   UniformLocation
}

// Renderer packs visible entities into instance buffers and draws them with
// one instanced call per geometry type and batch.
//
// The selected attribute is 1.0 for selected entities and 0.0 otherwise.
type Renderer struct {
	backend     Backend
	maxInstance int
	clearColor  Color
	placeholder PackedColor
	selColor    PackedColor
	selWidth    float64

	program ProgramID
	locs    shapeLocations
	initErr error
	ready   bool

	quadBuf, outlineBuf                              BufferID
	matrixBuf, sizeBuf, fillBuf, strokeBuf, widthBuf BufferID
	selectedBuf                                      BufferID

	inst instanceBuffers
	runs []batchRun

	// Last frame, for debug output and tests.
	stats FrameStats
}

// NewRenderer creates a renderer for backend. maxInstances <= 0 selects
// DefaultMaxInstances.
func NewRenderer(backend Backend, maxInstances int) *Renderer {
	if backend == nil {
		panic("easel: nil backend")
	}
	if maxInstances <= 0 {
		maxInstances = DefaultMaxInstances
	}
	return &Renderer{
		backend:     backend,
		maxInstance: maxInstances,
		clearColor:  ColorWhite,
		placeholder: RGBA(0xcc, 0xcc, 0xcc, 0xff),
		selColor:    RGBA(0x1e, 0x90, 0xff, 0xff),
		selWidth:    1,
		inst:        newInstanceBuffers(maxInstances),
	}
}

// SetClearColor sets the color the canvas is cleared to each frame.
func (r *Renderer) SetClearColor(c Color) {
	r.clearColor = c
}

// SetPlaceholderFill sets the fill used for images whose texture is not
// ready or failed to load.
func (r *Renderer) SetPlaceholderFill(c PackedColor) {
	r.placeholder = c
}

// SetSelectionStyle sets the outline drawn around selected entities. width
// is in screen pixels.
func (r *Renderer) SetSelectionStyle(c PackedColor, width float64) {
	r.selColor = c
	r.selWidth = width
}

// MaxInstances returns the per-frame instance cap.
func (r *Renderer) MaxInstances() int {
	return r.maxInstance
}

// SetMaxInstances changes the per-frame instance cap. The existing instance
// buffers are re-specified at the new size, so no program or buffer is
// created. n <= 0 selects DefaultMaxInstances.
func (r *Renderer) SetMaxInstances(n int) {
	if n <= 0 {
		n = DefaultMaxInstances
	}
	if n == r.maxInstance {
		return
	}
	r.maxInstance = n
	r.inst = newInstanceBuffers(n)
	r.runs = r.runs[:0]
	if !r.ready {
		return
	}
	b := r.backend
	b.BufferData(r.matrixBuf, n*matrixFloats)
	b.BufferData(r.sizeBuf, n*sizeFloats)
	b.BufferData(r.fillBuf, n*colorFloats)
	b.BufferData(r.strokeBuf, n*colorFloats)
	b.BufferData(r.widthBuf, n*strokeWidthFloats)
	b.BufferData(r.selectedBuf, n*selectedFloats)
}

// LastFrame returns the stats of the most recent frame.
func (r *Renderer) LastFrame() FrameStats {
	return r.stats
}

// Init creates the program and GPU buffers. It is called lazily by Render;
// calling it again after a failure retries program creation.
func (r *Renderer) Init() error {
	if r.ready {
		return nil
	}
	b := r.backend
	prog, err := b.CreateProgram(ShapeProgram)
	if err != nil {
		r.initErr = fmt.Errorf("%w: %v", ErrProgramUnavailable, err)
		return r.initErr
	}
	r.program = prog
	r.initErr = nil
	r.locs = shapeLocations{
		position:    b.AttribLocation(prog, AttribPosition),
		matrixRows:  [3]AttribLocation{b.AttribLocation(prog, AttribMatrixRow0), b.AttribLocation(prog, AttribMatrixRow1), b.AttribLocation(prog, AttribMatrixRow2)},
		size:        b.AttribLocation(prog, AttribSize),
		fill:        b.AttribLocation(prog, AttribFill),
		stroke:      b.AttribLocation(prog, AttribStroke),
		strokeWidth: b.AttribLocation(prog, AttribStrokeWidth),
		selected:    b.AttribLocation(prog, AttribSelected),
		view:        b.UniformLocation(prog, UniformView),
		zoom:        b.UniformLocation(prog, UniformZoom),
		resolution:  b.UniformLocation(prog, UniformResolution),
		mode:        b.UniformLocation(prog, UniformMode),
		textured:    b.UniformLocation(prog, UniformTextured),
		selColor:    b.UniformLocation(prog, UniformSelectionColor),
		selWidth:    b.UniformLocation(prog, UniformSelectionWidth),
	}

	r.quadBuf = b.CreateBuffer()
	b.BufferData(r.quadBuf, len(unitQuad))
	b.BufferSubData(r.quadBuf, 0, unitQuad)
	r.outlineBuf = b.CreateBuffer()
	b.BufferData(r.outlineBuf, len(unitOutline))
	b.BufferSubData(r.outlineBuf, 0, unitOutline)

	alloc := func(floats int) BufferID {
		id := b.CreateBuffer()
		b.BufferData(id, r.maxInstance*floats)
		return id
	}
	r.matrixBuf = alloc(matrixFloats)
	r.sizeBuf = alloc(sizeFloats)
	r.fillBuf = alloc(colorFloats)
	r.strokeBuf = alloc(colorFloats)
	r.widthBuf = alloc(strokeWidthFloats)
	r.selectedBuf = alloc(selectedFloats)
	r.ready = true
	return nil
}

// Render draws every visible entity of w as seen by cam. Groups are never
// drawn. Instances beyond the cap are dropped and counted in
// FrameStats.Dropped. The dirty set is left untouched; the caller clears it
// once the frame is consumed.
func (r *Renderer) Render(w *World, cam *Camera) (FrameStats, error) {
	var stats FrameStats
	if err := r.Init(); err != nil {
		r.stats = stats
		return stats, err
	}

	t0 := time.Now()
	stats.Dropped = r.pack(w)
	stats.Instances = r.inst.count
	stats.Batches = len(r.runs)
	stats.PackTime = time.Since(t0)

	t0 = time.Now()
	b := r.backend
	b.Clear(r.clearColor)
	b.UseProgram(r.program)
	b.UniformMatrix3f(r.locs.view, cam.ViewMatrix().Float32())
	b.Uniform1f(r.locs.zoom, float32(cam.Zoom))
	b.Uniform2f(r.locs.resolution, float32(cam.Width), float32(cam.Height))
	sel := r.selColor.Unpack()
	b.Uniform4f(r.locs.selColor, float32(sel.R), float32(sel.G), float32(sel.B), float32(sel.A))
	b.Uniform1f(r.locs.selWidth, float32(r.selWidth))
	r.upload()
	stats.UploadTime = time.Since(t0)

	t0 = time.Now()
	stats.DrawCalls = r.draw()
	stats.DrawTime = time.Since(t0)

	r.stats = stats
	return stats, nil
}

// pack fills the instance buffers in draw order and splits them into runs.
// It returns the number of entities dropped over the cap.
func (r *Renderer) pack(w *World) int {
	inst := &r.inst
	inst.count = 0
	r.runs = r.runs[:0]
	dropped := 0

	for _, e := range w.Entities() {
		kind, _ := w.kind.get(e)
		if kind == KindGroup || !w.IsVisible(e) {
			continue
		}
		if inst.count == r.maxInstance {
			dropped++
			continue
		}

		style, _ := w.style.get(e)
		var tex TextureID
		if kind == KindImage {
			if ref, ok := w.texture.get(e); ok && ref.Ready {
				tex = ref.ID
			} else {
				style.Fill = r.placeholder
			}
		}

		i := inst.count
		m := w.WorldMatrixOf(e).Float32()
		copy(inst.matrix[i*matrixFloats:], m[:])
		sw, sh := w.SizeOf(e).Extent()
		inst.size[i*sizeFloats] = float32(sw)
		inst.size[i*sizeFloats+1] = float32(sh)
		putColor(inst.fill[i*colorFloats:], style.Fill)
		putColor(inst.stroke[i*colorFloats:], style.Stroke)
		inst.strokeWidth[i] = float32(style.StrokeWidth)
		inst.selected[i] = 0
		if in, ok := w.interaction.get(e); ok && in.Selected {
			inst.selected[i] = 1
		}
		inst.count++

		if n := len(r.runs); n > 0 && r.runs[n-1].texture == tex {
			r.runs[n-1].count++
		} else {
			r.runs = append(r.runs, batchRun{texture: tex, start: i, count: 1})
		}
	}
	return dropped
}

func putColor(dst []float32, p PackedColor) {
	c := p.Unpack()
	dst[0] = float32(c.R)
	dst[1] = float32(c.G)
	dst[2] = float32(c.B)
	dst[3] = float32(c.A)
}

// upload writes the used prefix of each instance buffer. Buffers are never
// reallocated, so a shrinking instance count costs nothing.
func (r *Renderer) upload() {
	n := r.inst.count
	if n == 0 {
		return
	}
	b := r.backend
	b.BufferSubData(r.matrixBuf, 0, r.inst.matrix[:n*matrixFloats])
	b.BufferSubData(r.sizeBuf, 0, r.inst.size[:n*sizeFloats])
	b.BufferSubData(r.fillBuf, 0, r.inst.fill[:n*colorFloats])
	b.BufferSubData(r.strokeBuf, 0, r.inst.stroke[:n*colorFloats])
	b.BufferSubData(r.widthBuf, 0, r.inst.strokeWidth[:n*strokeWidthFloats])
	b.BufferSubData(r.selectedBuf, 0, r.inst.selected[:n*selectedFloats])
}

// bindInstances points the per-instance attributes at the run starting at
// instance start.
func (r *Renderer) bindInstances(start int) {
	b := r.backend
	l := &r.locs
	for row, loc := range l.matrixRows {
		b.VertexAttribPointer(loc, r.matrixBuf, 3, matrixFloats, start*matrixFloats+row*3)
		b.VertexAttribDivisor(loc, 1)
	}
	b.VertexAttribPointer(l.size, r.sizeBuf, sizeFloats, sizeFloats, start*sizeFloats)
	b.VertexAttribDivisor(l.size, 1)
	b.VertexAttribPointer(l.fill, r.fillBuf, colorFloats, colorFloats, start*colorFloats)
	b.VertexAttribDivisor(l.fill, 1)
	b.VertexAttribPointer(l.stroke, r.strokeBuf, colorFloats, colorFloats, start*colorFloats)
	b.VertexAttribDivisor(l.stroke, 1)
	b.VertexAttribPointer(l.strokeWidth, r.widthBuf, strokeWidthFloats, strokeWidthFloats, start*strokeWidthFloats)
	b.VertexAttribDivisor(l.strokeWidth, 1)
	b.VertexAttribPointer(l.selected, r.selectedBuf, selectedFloats, selectedFloats, start*selectedFloats)
	b.VertexAttribDivisor(l.selected, 1)
}

// draw issues a fill and an outline call per run and returns the call count.
func (r *Renderer) draw() int {
	b := r.backend
	l := &r.locs
	calls := 0
	for _, run := range r.runs {
		r.bindInstances(run.start)
		b.BindTexture(run.texture)
		textured := float32(0)
		if run.texture != 0 {
			textured = 1
		}
		b.Uniform1f(l.textured, textured)

		b.VertexAttribPointer(l.position, r.quadBuf, 2, 2, 0)
		b.VertexAttribDivisor(l.position, 0)
		b.Uniform1f(l.mode, ModeFill)
		b.DrawArraysInstanced(PrimitiveTriangleStrip, 0, len(unitQuad)/2, run.count)

		b.VertexAttribPointer(l.position, r.outlineBuf, 2, 2, 0)
		b.VertexAttribDivisor(l.position, 0)
		b.Uniform1f(l.mode, ModeOutline)
		b.DrawArraysInstanced(PrimitiveLineLoop, 0, len(unitOutline)/2, run.count)
		calls += 2
	}
	if len(r.runs) > 0 {
		b.BindTexture(0)
	}
	return calls
}
