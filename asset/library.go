package asset

import (
	"image"
	_ "image/png"
	"io/fs"
	"log"
	"sync"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned when an image is not PNG or BMP
var ErrUnsupportedFormat = errors.New("asset: unsupported image format")

// Library decodes sprite textures from a filesystem and caches them per path
type Library struct {
	fsys    fs.FS
	maxEdge int

	mu    sync.Mutex
	cache map[string]*image.NRGBA
}

// NewLibrary creates a library reading from fsys
// maxEdge > 0 downsamples larger images so their longest edge fits
func NewLibrary(fsys fs.FS, maxEdge int) *Library {
	return &Library{
		fsys:    fsys,
		maxEdge: maxEdge,
		cache:   make(map[string]*image.NRGBA),
	}
}

// Load returns the decoded image at path, decoding it on first use
// The returned image is shared and must not be modified
func (l *Library) Load(path string) (*image.NRGBA, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if img, ok := l.cache[path]; ok {
		return img, nil
	}

	f, err := l.fsys.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "asset: open %s", path)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
		}
		return nil, errors.Wrapf(err, "asset: decode %s", path)
	}

	img := resample(src, l.maxEdge)
	l.cache[path] = img
	log.Printf("asset: loaded %s (%s, %dx%d)", path, format, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// Forget drops a cached image so the next Load re-reads it
func (l *Library) Forget(path string) {
	l.mu.Lock()
	delete(l.cache, path)
	l.mu.Unlock()
}

// Len returns the number of cached images
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cache)
}

// resample converts src to NRGBA, shrinking it with nearest-neighbour so pixel art stays crisp
func resample(src image.Image, maxEdge int) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if maxEdge > 0 && (w > maxEdge || h > maxEdge) {
		if w >= h {
			h = max(1, h*maxEdge/w)
			w = maxEdge
		} else {
			w = max(1, w*maxEdge/h)
			h = maxEdge
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
		return dst
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
