package easel

import "errors"

// ErrProgramUnavailable is returned by Renderer.Render when the shape program
// could not be created. Frames are skipped rather than aborting the host.
var ErrProgramUnavailable = errors.New("easel: shape program unavailable")

// BufferID identifies a buffer owned by a Backend.
type BufferID uint32

// ProgramID identifies a shader program owned by a Backend.
type ProgramID uint32

// AttribLocation is a vertex attribute slot; negative means absent.
type AttribLocation int

// UniformLocation is a uniform slot; negative means absent.
type UniformLocation int

// Primitive selects how DrawArraysInstanced assembles vertices.
type Primitive uint8

const (
	PrimitiveTriangleStrip Primitive = iota // filled unit quad
	PrimitiveLineLoop                       // unit outline
)

// Backend is the rendering API the Renderer drives. It mirrors the subset of
// an instancing-capable GPU API the core needs; a software rasterizer is an
// equally valid implementation. Sizes, strides and offsets are counted in
// float32 elements, not bytes.
type Backend interface {
	CreateBuffer() BufferID
	// BufferData (re)allocates buf to hold n floats. Contents are undefined.
	BufferData(buf BufferID, n int)
	// BufferSubData writes data starting at element offset without
	// reallocating.
	BufferSubData(buf BufferID, offset int, data []float32)

	// CreateProgram builds the named program. Failures are recoverable.
	CreateProgram(name string) (ProgramID, error)
	UseProgram(p ProgramID)
	AttribLocation(p ProgramID, name string) AttribLocation
	UniformLocation(p ProgramID, name string) UniformLocation

	// VertexAttribPointer sources attribute loc from buf: size components
	// per vertex or instance, every stride elements, starting at offset.
	VertexAttribPointer(loc AttribLocation, buf BufferID, size, stride, offset int)
	// VertexAttribDivisor sets how often loc advances: 0 per vertex, 1 per
	// instance.
	VertexAttribDivisor(loc AttribLocation, divisor int)

	Uniform1f(loc UniformLocation, v float32)
	Uniform2f(loc UniformLocation, x, y float32)
	Uniform4f(loc UniformLocation, x, y, z, w float32)
	UniformMatrix3f(loc UniformLocation, m [9]float32)

	// BindTexture selects the texture sampled by subsequent draws; 0 unbinds.
	BindTexture(id TextureID)

	DrawArraysInstanced(mode Primitive, first, count, instances int)
	Clear(c Color)
}

// Names the shape program exposes. Backends resolve them in AttribLocation
// and UniformLocation.
const (
	ShapeProgram = "instanced-shape"

	AttribPosition    = "a_position"
	AttribMatrixRow0  = "a_matrix0"
	AttribMatrixRow1  = "a_matrix1"
	AttribMatrixRow2  = "a_matrix2"
	AttribSize        = "a_size"
	AttribFill        = "a_fill"
	AttribStroke      = "a_stroke"
	AttribStrokeWidth = "a_strokeWidth"
	AttribSelected    = "a_selected"

	UniformView       = "u_view"
	UniformZoom       = "u_zoom"
	UniformResolution = "u_resolution"
	UniformMode       = "u_mode"
	UniformTextured   = "u_textured"
	// Selected instances are outlined with this color and screen-space width
	// instead of their own stroke.
	UniformSelectionColor = "u_selectionColor"
	UniformSelectionWidth = "u_selectionWidth"
)

// Values of the u_mode uniform.
const (
	ModeFill    = 0
	ModeOutline = 1
)

// Per-instance float counts.
const (
	matrixFloats      = 9
	sizeFloats        = 2
	colorFloats       = 4
	strokeWidthFloats = 1
	selectedFloats    = 1
)

// Unit geometry, centered on the origin. Instances scale it by a_size.
var (
	unitQuad    = []float32{-0.5, -0.5, 0.5, -0.5, -0.5, 0.5, 0.5, 0.5}
	unitOutline = []float32{-0.5, -0.5, 0.5, -0.5, 0.5, 0.5, -0.5, 0.5}
)
