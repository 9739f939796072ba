package anim

import (
	"fmt"
	"image"

	"github.com/milk9111/patchanim/bitmap"
	"github.com/milk9111/patchanim/pack"
)

// Capabilities is the stable view of one live patch.
type Capabilities interface {
	IsActive() (bool, error)
	SourceBitmap() (bitmap.Bitmap, error)
	TargetBitmap() (bitmap.Bitmap, error)
	FromRect() (image.Rectangle, error)
	ToRect() (image.Rectangle, error)
}

// CopyFunc copies a pixel region between bitmaps.
type CopyFunc func(src bitmap.Bitmap, srcRect image.Rectangle, dst bitmap.Bitmap, dstRect image.Rectangle) error

// BoundPatch is the runtime state of one animated record. Bitmaps are
// borrowed from the content system; they are replaced on rebind and never
// released here.
type BoundPatch struct {
	Pack   string
	Record pack.Record

	caps   Capabilities
	source bitmap.Bitmap
	target bitmap.Bitmap
	frame  int
}

func NewBoundPatch(packID string, rec pack.Record, caps Capabilities) *BoundPatch {
	return &BoundPatch{Pack: packID, Record: rec, caps: caps}
}

func (b *BoundPatch) Name() string {
	return b.Record.LogName
}

// Frame returns the current frame index, in [0, FrameCount).
func (b *BoundPatch) Frame() int {
	return b.frame
}

func (b *BoundPatch) Source() bitmap.Bitmap {
	return b.source
}

func (b *BoundPatch) Target() bitmap.Bitmap {
	return b.target
}

// Resolved reports whether both bitmaps are held.
func (b *BoundPatch) Resolved() bool {
	return b.source != nil && b.target != nil
}

// Refresh fetches both bitmaps again. On error the previous references are
// kept.
func (b *BoundPatch) Refresh() error {
	src, err := b.caps.SourceBitmap()
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := b.caps.TargetBitmap()
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	b.source, b.target = src, dst
	return nil
}

type stepOutcome int

const (
	stepSkipped stepOutcome = iota
	stepIdle
	stepCopied
)

// step runs one tick for the patch. The frame only moves on ticks that are
// a multiple of the frame interval and only while the patch is active and
// resolved.
func (b *BoundPatch) step(tick uint32, copyFn CopyFunc) (stepOutcome, error) {
	active, err := b.caps.IsActive()
	if err != nil {
		return stepSkipped, fmt.Errorf("is active: %w", err)
	}
	if !active || !b.Resolved() {
		return stepSkipped, nil
	}

	if tick%uint32(b.Record.FrameInterval) != 0 {
		return stepIdle, nil
	}
	b.frame = (b.frame + 1) % b.Record.FrameCount

	srcRect, err := b.caps.FromRect()
	if err != nil {
		return stepSkipped, fmt.Errorf("from area: %w", err)
	}
	srcRect = srcRect.Add(image.Pt(b.frame*srcRect.Dx(), 0))

	dstRect, err := b.caps.ToRect()
	if err != nil {
		return stepSkipped, fmt.Errorf("to area: %w", err)
	}
	if dstRect.Empty() {
		dstRect = image.Rect(0, 0, srcRect.Dx(), srcRect.Dy())
	}

	if err := copyFn(b.source, srcRect, b.target, dstRect); err != nil {
		return stepSkipped, err
	}
	return stepCopied, nil
}
