package bitmap

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Ebiten adapts an *ebiten.Image. Pixel access goes through sub-images so
// only the requested rectangle is transferred.
type Ebiten struct {
	img *ebiten.Image
}

func NewEbiten(img *ebiten.Image) *Ebiten {
	return &Ebiten{img: img}
}

// EbitenFromImage uploads img to a new GPU image.
func EbitenFromImage(img image.Image) *Ebiten {
	return &Ebiten{img: ebiten.NewImageFromImage(img)}
}

func (b *Ebiten) Image() *ebiten.Image {
	return b.img
}

func (b *Ebiten) Bounds() image.Rectangle {
	return b.img.Bounds()
}

func (b *Ebiten) ReadPixels(r image.Rectangle, dst []byte) error {
	if err := checkRect(b, r, dst); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	b.img.SubImage(r).(*ebiten.Image).ReadPixels(dst)
	return nil
}

func (b *Ebiten) WritePixels(r image.Rectangle, src []byte) error {
	if err := checkRect(b, r, src); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	b.img.SubImage(r).(*ebiten.Image).WritePixels(src)
	return nil
}
