package bitmap

import "image"

// Scaled is a compatibility shim that presents Base at a different logical
// size. Its pixels cannot be addressed directly; callers that need to write
// pixels must Unwrap it first.
type Scaled struct {
	Base  Bitmap
	Scale float64
}

func (s *Scaled) Unwrap() Bitmap {
	return s.Base
}

func (s *Scaled) Bounds() image.Rectangle {
	if s.Base == nil {
		return image.Rectangle{}
	}
	b := s.Base.Bounds()
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	return image.Rect(0, 0, int(float64(b.Dx())/scale), int(float64(b.Dy())/scale))
}

func (s *Scaled) ReadPixels(image.Rectangle, []byte) error {
	return ErrNotAddressable
}

func (s *Scaled) WritePixels(image.Rectangle, []byte) error {
	return ErrNotAddressable
}
