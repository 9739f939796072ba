package anim

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"testing"

	"github.com/milk9111/patchanim/bitmap"
	"github.com/milk9111/patchanim/pack"
)

type area struct {
	rect image.Rectangle
	ok   bool
}

func (a *area) TryGetRectangle() (image.Rectangle, bool) {
	return a.rect, a.ok
}

func someArea(r image.Rectangle) *area {
	return &area{rect: r, ok: true}
}

// fixturePatch has the shape of a live patch from the patch system.
type fixturePatch struct {
	LogName     string
	FromAsset   string
	TargetAsset string
	FromArea    *area
	ToArea      *area

	applied bool
	panics  bool
}

func (p *fixturePatch) IsApplied() bool {
	if p.panics {
		panic("patch state corrupted")
	}
	return p.applied
}

type fakeRegistry struct {
	packs   []*pack.Pack
	live    []any
	ready   bool
	bitmaps map[string]bitmap.Bitmap
	failing map[string]error
	loads   int
}

func newRegistry() *fakeRegistry {
	return &fakeRegistry{
		ready:   true,
		bitmaps: map[string]bitmap.Bitmap{},
		failing: map[string]error{},
	}
}

func (r *fakeRegistry) Packs() []*pack.Pack {
	return r.packs
}

func (r *fakeRegistry) Patches() ([]any, bool) {
	return r.live, r.ready
}

func (r *fakeRegistry) LoadPackBitmap(p *pack.Pack, asset string) (bitmap.Bitmap, error) {
	return r.load(p.ID() + "/" + asset)
}

func (r *fakeRegistry) LoadBitmap(asset string) (bitmap.Bitmap, error) {
	return r.load(asset)
}

func (r *fakeRegistry) load(key string) (bitmap.Bitmap, error) {
	r.loads++
	if err := r.failing[key]; err != nil {
		return nil, err
	}
	b, ok := r.bitmaps[key]
	if !ok {
		return nil, fmt.Errorf("no asset %s", key)
	}
	return b, nil
}

func testPack(name string, recs ...pack.Record) *pack.Pack {
	return &pack.Pack{
		Dir:      name,
		Manifest: pack.Manifest{Name: name, UniqueID: "test." + name},
		Content:  pack.Content{Changes: recs},
	}
}

func animated(logName string, interval, count int) pack.Record {
	return pack.Record{Action: "EditImage", LogName: logName, FrameInterval: interval, FrameCount: count}
}

// addAnimated registers a record, its live patch and both bitmaps.
func (r *fakeRegistry) addAnimated(p *pack.Pack, rec pack.Record, from image.Rectangle, to *area) *fixturePatch {
	p.Content.Changes = append(p.Content.Changes, rec)
	live := &fixturePatch{
		LogName:     DisplayName(p.Name(), rec.LogName),
		FromAsset:   rec.LogName + ".png",
		TargetAsset: "Maps/" + rec.LogName,
		FromArea:    someArea(from),
		ToArea:      to,
		applied:     true,
	}
	r.live = append(r.live, live)
	r.bitmaps[p.ID()+"/"+live.FromAsset] = sheet(128, 32)
	r.bitmaps[live.TargetAsset] = bitmap.NewRGBA(64, 64)
	return live
}

func sheet(w, h int) *bitmap.RGBA {
	b := bitmap.NewRGBA(w, h)
	img := b.Image()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(x)
			img.Pix[i+1] = uint8(y)
			img.Pix[i+2] = 0x40
			img.Pix[i+3] = 0xff
		}
	}
	return b
}

type copyCall struct {
	src, dst image.Rectangle
}

type copyRecorder struct {
	calls []copyCall
}

func (c *copyRecorder) copy(_ bitmap.Bitmap, srcRect image.Rectangle, _ bitmap.Bitmap, dstRect image.Rectangle) error {
	c.calls = append(c.calls, copyCall{src: srcRect, dst: dstRect})
	return nil
}

func testLogger(t *testing.T) (*log.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}
