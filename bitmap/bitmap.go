package bitmap

import (
	"errors"
	"image"
)

var (
	ErrOutOfBounds    = errors.New("bitmap: rectangle out of bounds")
	ErrSizeMismatch   = errors.New("bitmap: source and destination sizes differ")
	ErrNotAddressable = errors.New("bitmap: pixels are not directly addressable")
	ErrBufferSize     = errors.New("bitmap: pixel buffer has the wrong length")
)

// Bitmap is a pixel surface addressable by rectangle. Pixel buffers hold
// premultiplied RGBA, four bytes per pixel, rows packed without padding.
type Bitmap interface {
	Bounds() image.Rectangle
	ReadPixels(r image.Rectangle, dst []byte) error
	WritePixels(r image.Rectangle, src []byte) error
}

// Wrapper is implemented by bitmaps that stand in front of another bitmap.
type Wrapper interface {
	Unwrap() Bitmap
}

// Unwrap follows a chain of wrappers down to the innermost bitmap. The bool
// reports whether anything was unwrapped.
func Unwrap(b Bitmap) (Bitmap, bool) {
	unwrapped := false
	for b != nil {
		w, ok := b.(Wrapper)
		if !ok {
			break
		}
		inner := w.Unwrap()
		if inner == nil {
			break
		}
		b = inner
		unwrapped = true
	}
	return b, unwrapped
}

// BufferLen returns the byte length needed to hold r's pixels.
func BufferLen(r image.Rectangle) int {
	return 4 * r.Dx() * r.Dy()
}

func checkRect(b Bitmap, r image.Rectangle, buf []byte) error {
	if !r.In(b.Bounds()) {
		return ErrOutOfBounds
	}
	if len(buf) != BufferLen(r) {
		return ErrBufferSize
	}
	return nil
}
