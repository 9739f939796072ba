package assets

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/milk9111/patchanim/bitmap"
)

// ImageExts are tried in order when a key has no extension.
var ImageExts = []string{".png", ".bmp", ".webp", ".gif", ".jpg", ".jpeg"}

// Factory turns a decoded image into a bitmap.
type Factory func(img image.Image) bitmap.Bitmap

// Software builds in-memory RGBA bitmaps.
func Software(img image.Image) bitmap.Bitmap {
	return bitmap.FromImage(img)
}

// GPU builds ebiten-backed bitmaps. It needs a running ebiten game to read
// pixels back.
func GPU(img image.Image) bitmap.Bitmap {
	return bitmap.EbitenFromImage(img)
}

// Loader loads bitmaps from a file system and caches them by key. The same
// key keeps returning the same bitmap until it is invalidated. A Loader is
// used from the update thread only.
type Loader struct {
	fsys    fs.FS
	factory Factory
	logger  *log.Logger
	images  map[string]bitmap.Bitmap
	loads   int
}

type LoaderOption func(*Loader)

func WithFactory(f Factory) LoaderOption {
	return func(l *Loader) {
		if f != nil {
			l.factory = f
		}
	}
}

func WithLogger(logger *log.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:    fsys,
		factory: Software,
		logger:  log.Default(),
		images:  map[string]bitmap.Bitmap{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the cached bitmap for key, decoding it on first use.
func (l *Loader) Load(key string) (bitmap.Bitmap, error) {
	clean := CleanKey(key)
	if clean == "" {
		return nil, fmt.Errorf("assets: empty image key")
	}
	if b := l.images[clean]; b != nil {
		return b, nil
	}

	img, err := l.decode(clean)
	if err != nil {
		return nil, err
	}
	b := l.factory(img)
	l.images[clean] = b
	l.loads++
	return b, nil
}

func (l *Loader) decode(key string) (image.Image, error) {
	tried := []string{key}
	if path.Ext(key) == "" {
		tried = tried[:0]
		for _, ext := range ImageExts {
			tried = append(tried, key+ext)
		}
	}
	for _, p := range tried {
		f, err := l.fsys.Open(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("assets: open %s: %w", p, err)
		}
		img, _, err := bitmap.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("assets: %s: %w", p, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("assets: failed to load image %s: %w", key, fs.ErrNotExist)
}

// Register stores b under key, replacing any cached bitmap.
func (l *Loader) Register(key string, b bitmap.Bitmap) {
	clean := CleanKey(key)
	if clean == "" || b == nil {
		return
	}
	l.images[clean] = b
}

// Get returns a cached bitmap without loading it.
func (l *Loader) Get(key string) bitmap.Bitmap {
	return l.images[CleanKey(key)]
}

// Invalidate drops key from the cache so the next Load decodes it again.
func (l *Loader) Invalidate(key string) {
	delete(l.images, CleanKey(key))
}

func (l *Loader) InvalidateAll() {
	if len(l.images) > 0 {
		l.logger.Printf("assets: dropping %d cached images", len(l.images))
	}
	clear(l.images)
}

// Loads returns how many bitmaps have been decoded.
func (l *Loader) Loads() int {
	return l.loads
}

// CleanKey normalises an asset key: forward slashes, no leading "./" or
// "assets/" and no leading slash.
func CleanKey(key string) string {
	if key == "" {
		return ""
	}
	s := strings.ReplaceAll(key, "\\", "/")
	s = path.Clean("/" + s)
	s = strings.TrimPrefix(s, "/")
	return strings.TrimPrefix(s, "assets/")
}
