package bitmap

import (
	"image"
	"image/color"
	"image/draw"
)

// RGBA is a Bitmap held in main memory.
type RGBA struct {
	img *image.RGBA
}

// NewRGBA creates a transparent w×h bitmap.
func NewRGBA(w, h int) *RGBA {
	return &RGBA{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// FromImage copies img into a new software bitmap anchored at (0,0).
func FromImage(img image.Image) *RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &RGBA{img: dst}
}

// Image exposes the backing image.
func (b *RGBA) Image() *image.RGBA {
	return b.img
}

func (b *RGBA) Bounds() image.Rectangle {
	return b.img.Rect
}

// At returns the colour at (x, y).
func (b *RGBA) At(x, y int) color.RGBA {
	return b.img.RGBAAt(x, y)
}

// Set writes a single pixel.
func (b *RGBA) Set(x, y int, c color.RGBA) {
	b.img.SetRGBA(x, y, c)
}

// Fill paints r with c.
func (b *RGBA) Fill(r image.Rectangle, c color.RGBA) {
	draw.Draw(b.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func (b *RGBA) ReadPixels(r image.Rectangle, dst []byte) error {
	if err := checkRect(b, r, dst); err != nil {
		return err
	}
	row := 4 * r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := b.img.PixOffset(r.Min.X, y)
		copy(dst[(y-r.Min.Y)*row:], b.img.Pix[off:off+row])
	}
	return nil
}

func (b *RGBA) WritePixels(r image.Rectangle, src []byte) error {
	if err := checkRect(b, r, src); err != nil {
		return err
	}
	row := 4 * r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := b.img.PixOffset(r.Min.X, y)
		copy(b.img.Pix[off:off+row], src[(y-r.Min.Y)*row:])
	}
	return nil
}
