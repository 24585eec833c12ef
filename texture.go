package easel

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrTextureNotFound is returned by providers when a URL resolves to nothing.
var ErrTextureNotFound = errors.New("easel: texture not found")

// Texture is a loaded image. Providers that cannot create GPU textures
// themselves leave ID zero and set Image; the TextureManager registers the
// image on the main thread.
type Texture struct {
	ID     TextureID
	Width  int
	Height int
	Image  image.Image
}

// TextureProvider loads textures asynchronously. done may be called on any
// goroutine, exactly once per call.
type TextureProvider interface {
	LoadTexture(url string, done func(Texture, error))
}

// TextureRegistry turns decoded images into backend textures.
type TextureRegistry interface {
	RegisterImage(img image.Image) TextureID
}

type textureResult struct {
	url string
	tex Texture
	err error
}

type textureWaiter struct {
	entity   Entity
	autoSize bool
}

// TextureManager tracks texture loads for image entities. It is owned by a
// Scene; nothing about it is global.
type TextureManager struct {
	provider TextureProvider
	registry TextureRegistry

	mu        sync.Mutex
	completed []textureResult

	loaded  map[string]Texture
	failed  map[string]error
	waiters map[string][]textureWaiter
}

// NewTextureManager creates a manager on top of provider. registry may be nil
// when the provider always returns backend texture ids.
func NewTextureManager(provider TextureProvider, registry TextureRegistry) *TextureManager {
	if provider == nil {
		panic("easel: NewTextureManager with nil provider")
	}
	return &TextureManager{
		provider: provider,
		registry: registry,
		loaded:   make(map[string]Texture),
		failed:   make(map[string]error),
		waiters:  make(map[string][]textureWaiter),
	}
}

// Request starts loading url for e. When autoSize is set the entity is
// resized to the texture's pixel size once it arrives. A URL that already
// loaded is applied on the next Process call without hitting the provider.
func (m *TextureManager) Request(e Entity, url string, autoSize bool) {
	first := len(m.waiters[url]) == 0
	m.waiters[url] = append(m.waiters[url], textureWaiter{entity: e, autoSize: autoSize})

	if tex, ok := m.loaded[url]; ok {
		m.enqueue(textureResult{url: url, tex: tex})
		return
	}
	if err, ok := m.failed[url]; ok {
		m.enqueue(textureResult{url: url, err: err})
		return
	}
	if !first {
		return
	}
	m.provider.LoadTexture(url, func(tex Texture, err error) {
		m.enqueue(textureResult{url: url, tex: tex, err: err})
	})
}

func (m *TextureManager) enqueue(r textureResult) {
	m.mu.Lock()
	m.completed = append(m.completed, r)
	m.mu.Unlock()
}

// Pending returns the number of URLs still waiting on the provider or on
// Process.
func (m *TextureManager) Pending() int {
	return len(m.waiters)
}

// Process applies finished loads to their waiting entities. It must run on
// the thread that owns w. Entities removed while loading are skipped. onFail
// is called once per entity whose texture failed; the entity keeps its
// placeholder fill and size. It returns the entities that changed.
func (m *TextureManager) Process(w *World, onFail func(e Entity, url string, err error)) []Entity {
	m.mu.Lock()
	results := m.completed
	m.completed = nil
	m.mu.Unlock()

	var changed []Entity
	for _, r := range results {
		waiters := m.waiters[r.url]
		delete(m.waiters, r.url)

		if r.err == nil && r.tex.ID == 0 && r.tex.Image != nil && m.registry != nil {
			r.tex.ID = m.registry.RegisterImage(r.tex.Image)
		}
		if r.err == nil && r.tex.ID == 0 {
			r.err = fmt.Errorf("texture %s has no backend id", r.url)
		}
		if r.err != nil {
			m.failed[r.url] = r.err
		} else {
			r.tex.Image = nil
			m.loaded[r.url] = r.tex
		}

		for _, wt := range waiters {
			ref, ok := GetComponent(w, TextureComponent, wt.entity)
			if !ok || ref.URL != r.url {
				continue
			}
			if r.err != nil {
				UpdateComponent(w, TextureComponent, wt.entity, func(t *TextureRef) {
					t.Failed = true
				})
				if onFail != nil {
					onFail(wt.entity, r.url, r.err)
				}
				continue
			}
			UpdateComponent(w, TextureComponent, wt.entity, func(t *TextureRef) {
				t.ID = r.tex.ID
				t.Width = r.tex.Width
				t.Height = r.tex.Height
				t.Ready = true
				t.Failed = false
			})
			if wt.autoSize && r.tex.Width > 0 && r.tex.Height > 0 {
				w.SetSize(wt.entity, Size{Width: float64(r.tex.Width), Height: float64(r.tex.Height)})
			}
			changed = append(changed, wt.entity)
		}
	}
	return changed
}

// Forget drops the cached result for url so the next Request reloads it.
func (m *TextureManager) Forget(url string) {
	delete(m.loaded, url)
	delete(m.failed, url)
}

// FileTextureProvider loads images from the local file system on a
// background goroutine. PNG, JPEG, GIF, WebP and BMP are decoded.
type FileTextureProvider struct {
	// Root is joined with relative URLs.
	Root string
}

// LoadTexture decodes url and reports the image without a backend id.
func (p FileTextureProvider) LoadTexture(url string, done func(Texture, error)) {
	path := url
	if p.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(p.Root, path)
	}
	go func() {
		img, err := decodeImageFile(path)
		if err != nil {
			done(Texture{}, err)
			return
		}
		b := img.Bounds()
		done(Texture{Width: b.Dx(), Height: b.Dy(), Image: img}, nil)
	}()
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrTextureNotFound)
		}
		return nil, fmt.Errorf("easel: open texture %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("easel: decode texture %s: %w", path, err)
	}
	return img, nil
}
