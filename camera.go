package easel

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// zoomAnim holds an active zoom tween anchored at a screen point.
type zoomAnim struct {
	tween            *gween.Tween
	anchorX, anchorY float64
}

// Camera controls the view onto the canvas.
//
// World space is y-up. Screen space is the host's pointer space: origin at
// the top-left, y down. Conversions flip y with y' = Height - screenY before
// applying the view matrix, which maps world space onto the y-up canvas.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians.
	Rotation float64
	// Width and Height are the canvas size in pixels.
	Width, Height float64

	// MinZoom and MaxZoom clamp every zoom change made through methods.
	MinZoom, MaxZoom float64

	viewMatrix    Matrix
	invViewMatrix Matrix
	dirty         bool

	scrollTween *scrollAnim
	zoomTween   *zoomAnim

	// onChange is called after a method changes zoom or position.
	onChange func(zoomChanged, panChanged bool)
}

// NewCamera creates a camera for a canvas of the given size, centered on the
// world origin at zoom 1.
func NewCamera(width, height float64) *Camera {
	return &Camera{
		Zoom:    1,
		Width:   width,
		Height:  height,
		MinZoom: 0.05,
		MaxZoom: 64,
		dirty:   true,
	}
}

// SetViewport resizes the canvas.
func (c *Camera) SetViewport(width, height float64) {
	c.Width = width
	c.Height = height
	c.dirty = true
}

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(z float64) {
	z = c.clampZoom(z)
	if z == c.Zoom {
		return
	}
	c.Zoom = z
	c.dirty = true
	c.notify(true, false)
}

// SetPosition centers the camera on world point (x, y).
func (c *Camera) SetPosition(x, y float64) {
	if x == c.X && y == c.Y {
		return
	}
	c.X, c.Y = x, y
	c.dirty = true
	c.notify(false, true)
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// screen point (sx, sy) fixed, as a wheel zoom does.
func (c *Camera) ZoomAt(sx, sy, factor float64) {
	z := c.clampZoom(c.Zoom * factor)
	if z == c.Zoom {
		return
	}
	c.setZoomAnchored(z, sx, sy)
	c.notify(true, true)
}

func (c *Camera) setZoomAnchored(z, sx, sy float64) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = z
	c.dirty = true
	ax, ay := c.ScreenToWorld(sx, sy)
	c.X += wx - ax
	c.Y += wy - ay
	c.dirty = true
}

// PanBy moves the view so content follows a screen-space drag of (dx, dy).
func (c *Camera) PanBy(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	x0, y0 := c.ScreenToWorld(0, 0)
	x1, y1 := c.ScreenToWorld(dx, dy)
	c.X -= x1 - x0
	c.Y -= y1 - y0
	c.dirty = true
	c.notify(false, true)
}

// ScrollTo animates the camera to the given world position over duration
// seconds. Advance it with Update.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// ZoomTo animates the zoom to z over duration seconds, keeping the world
// point under screen point (sx, sy) fixed.
func (c *Camera) ZoomTo(z, sx, sy float64, duration float32, easeFn ease.TweenFunc) {
	c.zoomTween = &zoomAnim{
		tween:   gween.New(float32(c.Zoom), float32(c.clampZoom(z)), duration, easeFn),
		anchorX: sx,
		anchorY: sy,
	}
}

// FitBounds centers the camera on box and picks the largest zoom that shows
// all of it with padding pixels of margin.
func (c *Camera) FitBounds(box AABB, padding float64) {
	if box.Empty() {
		return
	}
	cx, cy := box.Center()
	zx := (c.Width - 2*padding) / math.Max(box.Width(), 1e-9)
	zy := (c.Height - 2*padding) / math.Max(box.Height(), 1e-9)
	c.X, c.Y = cx, cy
	c.Zoom = c.clampZoom(math.Min(zx, zy))
	c.dirty = true
	c.notify(true, true)
}

// Animating reports whether a scroll or zoom tween is running.
func (c *Camera) Animating() bool {
	return c.scrollTween != nil || c.zoomTween != nil
}

// Update advances running tweens by dt seconds. It reports whether the view
// changed.
func (c *Camera) Update(dt float32) bool {
	prevX, prevY, prevZoom := c.X, c.Y, c.Zoom

	if c.zoomTween != nil {
		val, done := c.zoomTween.tween.Update(dt)
		c.setZoomAnchored(float64(val), c.zoomTween.anchorX, c.zoomTween.anchorY)
		if done {
			c.zoomTween = nil
		}
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	zoomChanged := c.Zoom != prevZoom
	panChanged := c.X != prevX || c.Y != prevY
	if zoomChanged || panChanged {
		c.dirty = true
		c.notify(zoomChanged, panChanged)
	}
	return zoomChanged || panChanged
}

func (c *Camera) clampZoom(z float64) float64 {
	if c.MinZoom > 0 && z < c.MinZoom {
		z = c.MinZoom
	}
	if c.MaxZoom > 0 && z > c.MaxZoom {
		z = c.MaxZoom
	}
	return z
}

func (c *Camera) notify(zoomChanged, panChanged bool) {
	if c.onChange != nil {
		c.onChange(zoomChanged, panChanged)
	}
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(w/2, h/2) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
func (c *Camera) computeViewMatrix() Matrix {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	z := c.Zoom
	if z <= 0 {
		z = 1
	}
	view := Multiply(Translate(c.Width/2, c.Height/2), Scale(z, z))
	view = Multiply(view, Rotate(-c.Rotation))
	view = Multiply(view, Translate(-c.X, -c.Y))
	c.viewMatrix = view
	c.invViewMatrix = view.mustInverse()
	return c.viewMatrix
}

// ViewMatrix returns the world-to-canvas matrix uploaded to the renderer.
func (c *Camera) ViewMatrix() Matrix {
	return c.computeViewMatrix()
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	cx, cy := c.viewMatrix.TransformPoint(wx, wy)
	return cx, c.Height - cy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return c.invViewMatrix.TransformPoint(sx, c.Height-sy)
}

// VisibleBounds returns the axis-aligned bounding box of the camera's
// visible area in world space.
func (c *Camera) VisibleBounds() AABB {
	x0, y0 := c.ScreenToWorld(0, 0)
	x1, y1 := c.ScreenToWorld(c.Width, 0)
	x2, y2 := c.ScreenToWorld(c.Width, c.Height)
	x3, y3 := c.ScreenToWorld(0, c.Height)

	return AABB{
		MinX: math.Min(math.Min(x0, x1), math.Min(x2, x3)),
		MinY: math.Min(math.Min(y0, y1), math.Min(y2, y3)),
		MaxX: math.Max(math.Max(x0, x1), math.Max(x2, x3)),
		MaxY: math.Max(math.Max(y0, y1), math.Max(y2, y3)),
	}
}

// MarkDirty forces a recomputation of the view matrix after fields were
// modified directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}
