package easel

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeProvider holds every load until the test completes it.
type fakeProvider struct {
	calls   map[string]int
	pending map[string]func(Texture, error)
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{calls: make(map[string]int), pending: make(map[string]func(Texture, error))}
}

func (p *fakeProvider) LoadTexture(url string, done func(Texture, error)) {
	p.calls[url]++
	p.pending[url] = done
}

func (p *fakeProvider) complete(url string, tex Texture, err error) {
	done := p.pending[url]
	delete(p.pending, url)
	done(tex, err)
}

type fakeRegistry struct {
	next       TextureID
	registered int
}

func (r *fakeRegistry) RegisterImage(image.Image) TextureID {
	r.next++
	r.registered++
	return 100 + r.next
}

func TestTextureManagerSharesLoads(t *testing.T) {
	w := NewWorld()
	p := newFakeProvider()
	m := NewTextureManager(p, nil)
	auto := w.NewImage(ImageOptions{URL: "cat.png"}, 50)
	fixed := w.NewImage(ImageOptions{URL: "cat.png", Width: 10, Height: 10}, 50)

	m.Request(auto, "cat.png", true)
	m.Request(fixed, "cat.png", false)
	if p.calls["cat.png"] != 1 {
		t.Fatalf("provider called %d times", p.calls["cat.png"])
	}
	if changed := m.Process(w, nil); len(changed) != 0 {
		t.Errorf("Process before completion changed %v", changed)
	}

	p.complete("cat.png", Texture{ID: 3, Width: 64, Height: 32}, nil)
	changed := m.Process(w, nil)
	assertEntities(t, "changed", changed, []Entity{auto, fixed})

	for _, e := range []Entity{auto, fixed} {
		ref, _ := GetComponent(w, TextureComponent, e)
		if !ref.Ready || ref.ID != 3 || ref.Width != 64 || ref.Height != 32 {
			t.Errorf("ref of %d = %+v", e, ref)
		}
	}
	if s := w.SizeOf(auto); s.Width != 64 || s.Height != 32 {
		t.Errorf("auto-sized image = %+v", s)
	}
	if s := w.SizeOf(fixed); s.Width != 10 || s.Height != 10 {
		t.Errorf("fixed image resized to %+v", s)
	}
	if m.Pending() != 0 {
		t.Errorf("Pending = %d", m.Pending())
	}
}

func TestTextureManagerReusesLoaded(t *testing.T) {
	w := NewWorld()
	p := newFakeProvider()
	m := NewTextureManager(p, nil)
	a := w.NewImage(ImageOptions{URL: "x.png"}, 50)
	m.Request(a, "x.png", false)
	p.complete("x.png", Texture{ID: 9, Width: 1, Height: 1}, nil)
	m.Process(w, nil)

	b := w.NewImage(ImageOptions{URL: "x.png"}, 50)
	m.Request(b, "x.png", false)
	if p.calls["x.png"] != 1 {
		t.Errorf("cached url reloaded")
	}
	assertEntities(t, "changed", m.Process(w, nil), []Entity{b})

	m.Forget("x.png")
	c := w.NewImage(ImageOptions{URL: "x.png"}, 50)
	m.Request(c, "x.png", false)
	if p.calls["x.png"] != 2 {
		t.Errorf("Forget did not force a reload")
	}
}

func TestTextureManagerFailure(t *testing.T) {
	w := NewWorld()
	p := newFakeProvider()
	m := NewTextureManager(p, nil)
	e := w.NewImage(ImageOptions{URL: "gone.png"}, 50)
	m.Request(e, "gone.png", true)

	boom := errors.New("404")
	p.complete("gone.png", Texture{}, boom)
	var failed []Entity
	changed := m.Process(w, func(fe Entity, url string, err error) {
		if url != "gone.png" || !errors.Is(err, boom) {
			t.Errorf("onFail(%d, %q, %v)", fe, url, err)
		}
		failed = append(failed, fe)
	})

	assertEntities(t, "failed", failed, []Entity{e})
	if len(changed) != 0 {
		t.Errorf("changed = %v", changed)
	}
	ref, _ := GetComponent(w, TextureComponent, e)
	if !ref.Failed || ref.Ready {
		t.Errorf("ref = %+v", ref)
	}
	if s := w.SizeOf(e); s.Width != 50 || s.Height != 50 {
		t.Errorf("failed image resized to %+v", s)
	}

	// Later requests for a failed url fail without hitting the provider.
	e2 := w.NewImage(ImageOptions{URL: "gone.png"}, 50)
	m.Request(e2, "gone.png", false)
	failed = nil
	m.Process(w, func(fe Entity, _ string, _ error) { failed = append(failed, fe) })
	assertEntities(t, "second failure", failed, []Entity{e2})
	if p.calls["gone.png"] != 1 {
		t.Errorf("provider called %d times", p.calls["gone.png"])
	}
}

func TestTextureManagerSkipsRemovedEntities(t *testing.T) {
	w := NewWorld()
	p := newFakeProvider()
	m := NewTextureManager(p, nil)
	e := w.NewImage(ImageOptions{URL: "a.png"}, 50)
	m.Request(e, "a.png", true)
	w.RemoveEntity(e)

	p.complete("a.png", Texture{ID: 1, Width: 5, Height: 5}, nil)
	if changed := m.Process(w, nil); len(changed) != 0 {
		t.Errorf("changed = %v", changed)
	}
}

func TestTextureManagerRegistersDecodedImages(t *testing.T) {
	w := NewWorld()
	p := newFakeProvider()
	reg := &fakeRegistry{}
	m := NewTextureManager(p, reg)
	e := w.NewImage(ImageOptions{URL: "d.png"}, 50)
	m.Request(e, "d.png", false)

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	p.complete("d.png", Texture{Width: 4, Height: 2, Image: img}, nil)
	m.Process(w, nil)

	ref, _ := GetComponent(w, TextureComponent, e)
	if !ref.Ready || ref.ID != 101 || reg.registered != 1 {
		t.Errorf("ref = %+v, registered = %d", ref, reg.registered)
	}
}

func TestTextureManagerWithoutRegistryFails(t *testing.T) {
	w := NewWorld()
	p := newFakeProvider()
	m := NewTextureManager(p, nil)
	e := w.NewImage(ImageOptions{URL: "d.png"}, 50)
	m.Request(e, "d.png", false)
	p.complete("d.png", Texture{Width: 4, Height: 2, Image: image.NewRGBA(image.Rect(0, 0, 4, 2))}, nil)

	failed := 0
	m.Process(w, func(Entity, string, error) { failed++ })
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestNewTextureManagerNilProviderPanics(t *testing.T) {
	expectPanic(t, func() { NewTextureManager(nil, nil) })
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func loadSync(t *testing.T, p TextureProvider, url string) (Texture, error) {
	t.Helper()
	type result struct {
		tex Texture
		err error
	}
	ch := make(chan result, 1)
	p.LoadTexture(url, func(tex Texture, err error) { ch <- result{tex, err} })
	select {
	case r := <-ch:
		return r.tex, r.err
	case <-time.After(5 * time.Second):
		t.Fatal("load timed out")
	}
	return Texture{}, nil
}

func TestFileTextureProvider(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "dot.png"), 3, 7)
	p := FileTextureProvider{Root: dir}

	tex, err := loadSync(t, p, "dot.png")
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 3 || tex.Height != 7 || tex.Image == nil || tex.ID != 0 {
		t.Errorf("tex = %+v", tex)
	}

	if _, err := loadSync(t, p, "nope.png"); !errors.Is(err, ErrTextureNotFound) {
		t.Errorf("missing file err = %v", err)
	}

	junk := filepath.Join(dir, "junk.png")
	_ = os.WriteFile(junk, []byte("not an image"), 0o644)
	if _, err := loadSync(t, p, junk); err == nil || errors.Is(err, ErrTextureNotFound) {
		t.Errorf("undecodable file err = %v", err)
	}
}
