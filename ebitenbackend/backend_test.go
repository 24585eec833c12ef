package ebitenbackend

import (
	"strings"
	"testing"

	"github.com/phanxgames/easel"
)

func renderWorld(t *testing.T, b *Backend, w *easel.World) easel.FrameStats {
	t.Helper()
	r := easel.NewRenderer(b, 100)
	stats, err := r.Render(w, easel.NewCamera(800, 600))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return stats
}

func TestBackendCountsTriangles(t *testing.T) {
	b := New()
	w := easel.NewWorld()
	for i := 0; i < 2; i++ {
		w.NewRect(easel.RectOptions{
			X: float64(i * 50), Width: 10, Height: 10,
			Fill:        easel.RGBA(255, 0, 0, 255),
			Stroke:      easel.RGBA(0, 0, 0, 255),
			StrokeWidth: 1,
		})
	}

	stats := renderWorld(t, b, w)
	if stats.Instances != 2 {
		t.Fatalf("instances = %d, want 2", stats.Instances)
	}
	// Two fill quads and two four-edge outlines.
	if b.Triangles() != 2*2+2*8 {
		t.Errorf("triangles = %d, want 20", b.Triangles())
	}
	if b.DrawCalls() != 2 {
		t.Errorf("draw calls = %d, want 2", b.DrawCalls())
	}
}

func TestBackendSkipsEmptyOutlinePass(t *testing.T) {
	b := New()
	w := easel.NewWorld()
	w.NewRect(easel.RectOptions{Width: 10, Height: 10, Fill: easel.RGBA(0, 128, 0, 255)})

	renderWorld(t, b, w)
	if b.DrawCalls() != 1 {
		t.Errorf("draw calls = %d, want 1", b.DrawCalls())
	}
	if b.Triangles() != 2 {
		t.Errorf("triangles = %d, want 2", b.Triangles())
	}
}

func TestBackendSetTargetResetsStats(t *testing.T) {
	b := New()
	w := easel.NewWorld()
	w.NewRect(easel.RectOptions{Width: 10, Height: 10, Fill: easel.RGBA(0, 0, 0, 255)})
	renderWorld(t, b, w)

	b.SetTarget(nil)
	if b.DrawCalls() != 0 || b.Triangles() != 0 {
		t.Errorf("stats after SetTarget = %d calls, %d triangles", b.DrawCalls(), b.Triangles())
	}
}

func TestBackendFrameUniforms(t *testing.T) {
	b := New()
	w := easel.NewWorld()
	w.NewRect(easel.RectOptions{Width: 10, Height: 10, Fill: easel.RGBA(0, 0, 0, 255)})
	renderWorld(t, b, w)

	f := b.frame()
	if f.zoom != 1 {
		t.Errorf("zoom = %v, want 1", f.zoom)
	}
	if f.height != 600 {
		t.Errorf("height = %v, want 600", f.height)
	}
	// The camera centers the world origin.
	if f.view[2] != 400 || f.view[5] != 300 {
		t.Errorf("view translation = (%v, %v), want (400, 300)", f.view[2], f.view[5])
	}
}

func TestBackendInstanceAttributes(t *testing.T) {
	b := New()
	w := easel.NewWorld()
	w.NewRect(easel.RectOptions{X: 20, Y: 30, Width: 40, Height: 50, Fill: easel.RGBA(255, 255, 255, 255)})
	renderWorld(t, b, w)

	in := b.instance(0)
	if in.matrix[2] != 20 || in.matrix[5] != 30 {
		t.Errorf("translation = (%v, %v), want (20, 30)", in.matrix[2], in.matrix[5])
	}
	if in.size != [2]float32{40, 50} {
		t.Errorf("size = %v, want [40 50]", in.size)
	}
	if in.fill[3] != 1 {
		t.Errorf("fill alpha = %v, want 1", in.fill[3])
	}
	if in.selected {
		t.Error("instance should not be selected")
	}
}

func TestBackendUnknownProgram(t *testing.T) {
	b := New()
	if _, err := b.CreateProgram("gradient"); err == nil {
		t.Fatal("expected an error for an unknown program")
	}
	p, err := b.CreateProgram(easel.ShapeProgram)
	if err != nil || p == 0 {
		t.Fatalf("CreateProgram(%q) = %d, %v", easel.ShapeProgram, p, err)
	}
}

func TestBackendLocations(t *testing.T) {
	b := New()
	if loc := b.AttribLocation(1, easel.AttribSelected); loc != locSelected {
		t.Errorf("selected attribute at %d, want %d", loc, locSelected)
	}
	if loc := b.AttribLocation(1, "a_missing"); loc != -1 {
		t.Errorf("unknown attribute at %d, want -1", loc)
	}
	if loc := b.UniformLocation(1, easel.UniformZoom); loc != uniZoom {
		t.Errorf("zoom uniform at %d, want %d", loc, uniZoom)
	}
	if loc := b.UniformLocation(1, "u_missing"); loc != -1 {
		t.Errorf("unknown uniform at %d, want -1", loc)
	}
}

func TestBackendBufferOverflowPanics(t *testing.T) {
	b := New()
	buf := b.CreateBuffer()
	b.BufferData(buf, 4)
	b.BufferSubData(buf, 2, []float32{1, 2})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "overflows buffer") {
			t.Errorf("panic = %v", r)
		}
	}()
	b.BufferSubData(buf, 3, []float32{1, 2})
}
