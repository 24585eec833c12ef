package ebitenbackend

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/easel"
)

// Provider loads textures straight into a Backend from the file system.
type Provider struct {
	Backend *Backend
	// Root is joined with relative URLs.
	Root string
	// FS, when set, is read instead of the OS file system.
	FS fs.FS
}

// LoadTexture decodes url on a background goroutine and registers the
// resulting image with the backend.
func (p Provider) LoadTexture(url string, done func(easel.Texture, error)) {
	path := url
	if p.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(p.Root, path)
	}
	go func() {
		var (
			img *ebiten.Image
			err error
		)
		if p.FS != nil {
			img, _, err = ebitenutil.NewImageFromFileSystem(p.FS, filepath.ToSlash(path))
		} else {
			img, _, err = ebitenutil.NewImageFromFile(path)
		}
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
				err = fmt.Errorf("%s: %w", path, easel.ErrTextureNotFound)
			}
			done(easel.Texture{}, err)
			return
		}
		b := img.Bounds()
		done(easel.Texture{ID: p.Backend.RegisterEbitenImage(img), Width: b.Dx(), Height: b.Dy()}, nil)
	}()
}
