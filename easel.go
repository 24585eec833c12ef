package easel

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent has zero alpha.
var ColorTransparent = Color{}

// PackedColor is a color packed into one numeric channel as 0xRRGGBBAA.
type PackedColor uint32

// Pack converts c to its packed form. Components are clamped to [0, 1].
func (c Color) Pack() PackedColor {
	return PackedColor(uint32(channel8(c.R))<<24 |
		uint32(channel8(c.G))<<16 |
		uint32(channel8(c.B))<<8 |
		uint32(channel8(c.A)))
}

// Unpack expands a packed color into float components.
func (p PackedColor) Unpack() Color {
	return Color{
		R: float64(uint8(p>>24)) / 255,
		G: float64(uint8(p>>16)) / 255,
		B: float64(uint8(p>>8)) / 255,
		A: float64(uint8(p)) / 255,
	}
}

// RGBA returns a packed color from 8-bit channels.
func RGBA(r, g, b, a uint8) PackedColor {
	return PackedColor(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

func channel8(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// AABB is an axis-aligned bounding box in world space. World space is y-up.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

// emptyAABB is the identity element for Union.
var emptyAABB = AABB{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Width returns the horizontal extent.
func (b AABB) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b AABB) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b AABB) Center() (float64, float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// Contains reports whether (x, y) lies inside the box. Edges are inside.
func (b AABB) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Intersects reports whether b and o overlap. Touching boxes intersect.
func (b AABB) Intersects(o AABB) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX &&
		b.MinY <= o.MaxY && b.MaxY >= o.MinY
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// BoxFromPoints returns the normalized box spanning two corner points, as
// produced by a marquee drag in any direction.
func BoxFromPoints(x0, y0, x1, y1 float64) AABB {
	return AABB{
		MinX: math.Min(x0, x1),
		MinY: math.Min(y0, y1),
		MaxX: math.Max(x0, x1),
		MaxY: math.Max(y0, y1),
	}
}

// ShapeKind distinguishes how an entity is hit-tested and rendered.
type ShapeKind uint8

const (
	KindRect  ShapeKind = iota // solid rectangle (or circle when Size.Radius > 0)
	KindImage                  // textured rectangle
	KindGroup                  // synthetic group sized from its children; never drawn
)

// String returns the kind name used in debug output.
func (k ShapeKind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindImage:
		return "image"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
