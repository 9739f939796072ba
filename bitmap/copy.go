package bitmap

import (
	"fmt"
	"image"
)

// Copy overwrites dstRect in dst with the pixels of srcRect in src. Both
// rectangles must have the same size and lie inside their bitmaps; nothing
// is clamped. Pixels are replaced, never blended.
func Copy(src Bitmap, srcRect image.Rectangle, dst Bitmap, dstRect image.Rectangle) error {
	if src == nil || dst == nil {
		return fmt.Errorf("bitmap: copy with nil bitmap")
	}
	if srcRect.Size() != dstRect.Size() {
		return fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, srcRect.Size(), dstRect.Size())
	}
	if srcRect.Empty() {
		return nil
	}
	if !srcRect.In(src.Bounds()) {
		return fmt.Errorf("%w: source %v not in %v", ErrOutOfBounds, srcRect, src.Bounds())
	}
	if !dstRect.In(dst.Bounds()) {
		return fmt.Errorf("%w: destination %v not in %v", ErrOutOfBounds, dstRect, dst.Bounds())
	}

	// src and dst are usually distinct bitmaps, so go through a buffer.
	buf := make([]byte, BufferLen(srcRect))
	if err := src.ReadPixels(srcRect, buf); err != nil {
		return fmt.Errorf("bitmap: read %v: %w", srcRect, err)
	}
	if err := dst.WritePixels(dstRect, buf); err != nil {
		return fmt.Errorf("bitmap: write %v: %w", dstRect, err)
	}
	return nil
}
