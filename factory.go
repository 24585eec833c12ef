package easel

// RectOptions describes a rectangle (or, with Radius > 0, a circle). X and Y
// are the world-space center.
type RectOptions struct {
	Name          string
	X, Y          float64
	Width, Height float64
	Radius        float64
	Rotation      float64
	Fill          PackedColor
	Stroke        PackedColor
	StrokeWidth   float64
	// Locked entities are neither draggable nor selectable.
	Locked bool
}

// ImageOptions describes an image entity. A zero Width or Height means
// "size from the texture once it loads"; until then the placeholder size is
// used.
type ImageOptions struct {
	Name          string
	URL           string
	X, Y          float64
	Width, Height float64
	Rotation      float64
	Stroke        PackedColor
	StrokeWidth   float64
	Locked        bool
}

// NewRect creates a top-level rectangle entity with every drawable
// component populated.
func (w *World) NewRect(opts RectOptions) Entity {
	e := w.CreateEntity()
	w.kind.set(e, KindRect)
	w.size.set(e, Size{Width: opts.Width, Height: opts.Height, Radius: opts.Radius})
	w.style.set(e, Style{Fill: opts.Fill, Stroke: opts.Stroke, StrokeWidth: opts.StrokeWidth})
	w.interaction.set(e, Interaction{Draggable: !opts.Locked, Selectable: !opts.Locked})
	if opts.Name != "" {
		w.name.set(e, opts.Name)
	}
	w.place(e, opts.X, opts.Y, opts.Rotation)
	return e
}

// NewImage creates a top-level image entity. Its texture reference starts not
// ready; a TextureManager fills it in. placeholder is the edge length used
// while the size is unknown.
func (w *World) NewImage(opts ImageOptions, placeholder float64) Entity {
	e := w.CreateEntity()
	w.kind.set(e, KindImage)
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = placeholder, placeholder
	}
	w.size.set(e, Size{Width: width, Height: height})
	w.style.set(e, Style{Fill: ColorWhite.Pack(), Stroke: opts.Stroke, StrokeWidth: opts.StrokeWidth})
	w.interaction.set(e, Interaction{Draggable: !opts.Locked, Selectable: !opts.Locked})
	w.texture.set(e, TextureRef{URL: opts.URL})
	if opts.Name != "" {
		w.name.set(e, opts.Name)
	}
	w.place(e, opts.X, opts.Y, opts.Rotation)
	return e
}

// NewGroup creates a group and moves members into it in the given order.
// Members keep their world placement; the group fits itself around them.
func (w *World) NewGroup(name string, members ...Entity) Entity {
	e := w.CreateEntity()
	w.kind.set(e, KindGroup)
	w.size.set(e, Size{})
	w.interaction.set(e, Interaction{Draggable: true, Selectable: true})
	if name != "" {
		w.name.set(e, name)
	}
	for _, m := range members {
		w.AddChild(e, m)
	}
	w.refit(e)
	w.updateBounds(e)
	return e
}

// Ungroup moves g's children to g's parent (or the top level) at g's
// position in the draw order and removes g. It returns the former children.
func (w *World) Ungroup(g Entity) []Entity {
	w.mustAlive(g, "Ungroup")
	kids := append([]Entity(nil), w.Children(g)...)
	if p, ok := w.parent.get(g); ok {
		at := indexOfEntity(w.Children(p), g)
		for i, c := range kids {
			w.AddChildAt(p, c, at+1+i)
		}
	} else {
		// RemoveChild inserts right after g, so walk backwards to keep order.
		for i := len(kids) - 1; i >= 0; i-- {
			w.RemoveChild(g, kids[i])
		}
	}
	w.RemoveEntity(g)
	return kids
}

func (w *World) place(e Entity, x, y, rotation float64) {
	m := Compose(Transform{TX: x, TY: y, SX: 1, SY: 1, R: rotation})
	w.local.set(e, m)
	w.world.set(e, m)
	w.updateBounds(e)
	w.MarkDirty(e)
}
