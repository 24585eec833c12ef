package easel

import "fmt"

// ComponentType enumerates every component table a World owns.
// RemoveEntity walks this enum from 0 to componentTypeCount, so a new
// component only needs a case in World.store to be cleaned up.
type ComponentType uint8

const (
	ComponentLocalMatrix ComponentType = iota
	ComponentWorldMatrix
	ComponentSize
	ComponentStyle
	ComponentInteraction
	ComponentVisibility
	ComponentParent
	ComponentChildren
	ComponentDirty
	ComponentBounds
	ComponentKind
	ComponentTexture
	ComponentName
	componentTypeCount
)

var componentTypeNames = [componentTypeCount]string{
	"local-matrix", "world-matrix", "size", "style", "interaction",
	"visibility", "parent", "children", "dirty", "bounds", "kind",
	"texture", "name",
}

func (c ComponentType) String() string {
	if c < componentTypeCount {
		return componentTypeNames[c]
	}
	return fmt.Sprintf("component(%d)", uint8(c))
}

// Size is the unscaled local extent of an entity. Local geometry is centered
// on the origin, so a rectangle spans [-Width/2, Width/2] x [-Height/2,
// Height/2]. When Radius is positive the entity is a circle and Width/Height
// are ignored.
type Size struct {
	Width, Height float64
	Radius        float64
}

// HalfExtents returns the local half width and half height.
func (s Size) HalfExtents() (float64, float64) {
	if s.Radius > 0 {
		return s.Radius, s.Radius
	}
	return s.Width / 2, s.Height / 2
}

// Extent returns the full width and height.
func (s Size) Extent() (float64, float64) {
	hw, hh := s.HalfExtents()
	return hw * 2, hh * 2
}

// hasArea reports whether the shape covers any area. Shapes without area
// are never hit.
func (s Size) hasArea() bool {
	return s.Radius > 0 || (s.Width > 0 && s.Height > 0)
}

// containsLocal reports whether a local-space point is inside the shape.
func (s Size) containsLocal(lx, ly float64) bool {
	if !s.hasArea() {
		return false
	}
	if s.Radius > 0 {
		return lx*lx+ly*ly <= s.Radius*s.Radius
	}
	hw, hh := s.HalfExtents()
	return lx >= -hw && lx <= hw && ly >= -hh && ly <= hh
}

// Style is the paint of a drawable entity.
type Style struct {
	Fill        PackedColor
	Stroke      PackedColor
	StrokeWidth float64
}

// Interaction holds independent interaction flags.
type Interaction struct {
	Draggable  bool
	Selectable bool
	Selected   bool
}

// TextureID identifies a texture inside a Backend.
type TextureID uint32

// TextureRef is the handle an image entity keeps to its texture.
type TextureRef struct {
	URL    string
	ID     TextureID
	Width  int
	Height int
	Ready  bool
	Failed bool
}

// Component is a typed key for one component table. Keys for the managed
// tables (parent, children, bounds, dirty) are read-only through the generic
// API; hierarchy methods own them.
type Component[T any] struct {
	typ      ComponentType
	table    func(w *World) *table[T]
	readOnly bool
	required bool
	check    func(v T) error
}

// Type returns the component type the key addresses.
func (c Component[T]) Type() ComponentType {
	return c.typ
}

var (
	LocalMatrixComponent = Component[Matrix]{typ: ComponentLocalMatrix, table: func(w *World) *table[Matrix] { return &w.local }, required: true, check: checkMatrix}
	WorldMatrixComponent = Component[Matrix]{typ: ComponentWorldMatrix, table: func(w *World) *table[Matrix] { return &w.world }, required: true, check: checkMatrix}
	SizeComponent        = Component[Size]{typ: ComponentSize, table: func(w *World) *table[Size] { return &w.size }}
	StyleComponent       = Component[Style]{typ: ComponentStyle, table: func(w *World) *table[Style] { return &w.style }}
	InteractionComponent = Component[Interaction]{typ: ComponentInteraction, table: func(w *World) *table[Interaction] { return &w.interaction }}
	VisibilityComponent  = Component[bool]{typ: ComponentVisibility, table: func(w *World) *table[bool] { return &w.visible }, required: true}
	ParentComponent      = Component[Entity]{typ: ComponentParent, table: func(w *World) *table[Entity] { return &w.parent }, readOnly: true}
	ChildrenComponent    = Component[[]Entity]{typ: ComponentChildren, table: func(w *World) *table[[]Entity] { return &w.children }, readOnly: true}
	DirtyComponent       = Component[struct{}]{typ: ComponentDirty, table: func(w *World) *table[struct{}] { return &w.dirty }, readOnly: true}
	BoundsComponent      = Component[AABB]{typ: ComponentBounds, table: func(w *World) *table[AABB] { return &w.bounds }, readOnly: true}
	KindComponent        = Component[ShapeKind]{typ: ComponentKind, table: func(w *World) *table[ShapeKind] { return &w.kind }, required: true}
	TextureComponent     = Component[TextureRef]{typ: ComponentTexture, table: func(w *World) *table[TextureRef] { return &w.texture }}
	NameComponent        = Component[string]{typ: ComponentName, table: func(w *World) *table[string] { return &w.name }}
)

// GetComponent returns the component value for e. Missing entities and
// missing components both report false; reads never panic.
func GetComponent[T any](w *World, c Component[T], e Entity) (T, bool) {
	return c.table(w).get(e)
}

// HasComponent reports whether e has the component.
func HasComponent[T any](w *World, c Component[T], e Entity) bool {
	return c.table(w).has(e)
}

// AddComponent sets the component value for e, replacing any existing value,
// and marks e dirty. Panics if e is not alive or the key is read-only.
func AddComponent[T any](w *World, c Component[T], e Entity, v T) {
	w.mustAlive(e, "AddComponent")
	if c.readOnly {
		panic(fmt.Sprintf("easel: %s component is managed by the hierarchy", c.typ))
	}
	c.mustCheck(v)
	c.table(w).set(e, v)
	w.componentWritten(c.typ, e)
}

// UpdateComponent applies fn to the stored value in place (a partial merge)
// and marks e dirty. If the component is absent fn receives the zero value
// and the result is added. Panics if e is not alive or the key is read-only.
func UpdateComponent[T any](w *World, c Component[T], e Entity, fn func(*T)) {
	w.mustAlive(e, "UpdateComponent")
	if c.readOnly {
		panic(fmt.Sprintf("easel: %s component is managed by the hierarchy", c.typ))
	}
	t := c.table(w)
	v, _ := t.get(e)
	fn(&v)
	c.mustCheck(v)
	t.set(e, v)
	w.componentWritten(c.typ, e)
}

// RemoveComponent deletes the component from e and marks it dirty.
// Required and managed components cannot be removed from a live entity.
func RemoveComponent[T any](w *World, c Component[T], e Entity) bool {
	w.mustAlive(e, "RemoveComponent")
	if c.readOnly || c.required {
		panic(fmt.Sprintf("easel: %s component cannot be removed from a live entity", c.typ))
	}
	if !c.table(w).remove(e) {
		return false
	}
	w.componentWritten(c.typ, e)
	return true
}

func (c Component[T]) mustCheck(v T) {
	if c.check == nil {
		return
	}
	if err := c.check(v); err != nil {
		panic(fmt.Sprintf("easel: invalid %s component: %v", c.typ, err))
	}
}

func checkMatrix(m Matrix) error {
	if !m.Invertible() {
		return ErrSingularMatrix
	}
	return nil
}
