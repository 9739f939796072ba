package contentpatch

import (
	"image"

	"github.com/milk9111/patchanim/pack"
)

// Area is a rectangle from a pack file. A nil Area means the field was not
// written.
type Area struct {
	rect image.Rectangle
}

func newArea(a *pack.Area) *Area {
	if a == nil {
		return nil
	}
	return &Area{rect: a.Rect()}
}

// TryGetRectangle returns the rectangle, or false when it is empty.
func (a *Area) TryGetRectangle() (image.Rectangle, bool) {
	if a == nil || a.rect.Empty() {
		return image.Rectangle{}, false
	}
	return a.rect, true
}

// Patch is one live patch. Its exported members are read by name.
type Patch struct {
	LogName     string
	FromAsset   string
	TargetAsset string
	FromArea    *Area
	ToArea      *Area

	pack    *pack.Pack
	record  pack.Record
	when    *Condition
	applied bool
}

func (p *Patch) IsApplied() bool {
	return p.applied
}

func (p *Patch) Pack() *pack.Pack {
	return p.pack
}

func (p *Patch) Record() pack.Record {
	return p.record
}
