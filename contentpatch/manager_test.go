package contentpatch

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log"
	"testing"
	"testing/fstest"

	"github.com/milk9111/patchanim/anim"
	"github.com/milk9111/patchanim/assets"
	"github.com/milk9111/patchanim/bitmap"
	"github.com/milk9111/patchanim/host"
	"github.com/milk9111/patchanim/pack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ anim.Registry = (*Manager)(nil)

const townContent = `
Changes:
  - Action: EditImage
    LogName: fountain
    Target: Maps/Town
    FromFile: assets/sheet.png
    FromArea: { X: 0, Y: 0, Width: 4, Height: 4 }
    ToArea: { X: 8, Y: 8, Width: 4, Height: 4 }
    When: season != "winter"
    AnimationFrameTime: 2
    AnimationFrameCount: 3
  - Action: EditImage
    Target: Maps/Town
    FromFile: assets/sheet.png
  - Action: EditImage
    LogName: broken when
    Target: Maps/Town
    FromFile: assets/sheet.png
    When: season ==
`

var frameColors = []color.RGBA{
	{R: 40, A: 255},
	{R: 120, A: 255},
	{R: 200, A: 255},
}

func encodePNG(t *testing.T, w, h int, px func(x, y int) color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, px(x, y))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fixture struct {
	manager *Manager
	content *assets.Loader
	packs   []*pack.Pack
	logs    *bytes.Buffer
	logger  *log.Logger
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	packFS := fstest.MapFS{
		"Town/manifest.yaml": {Data: []byte("Name: Town\nUniqueID: test.town\n")},
		"Town/content.yaml":  {Data: []byte(townContent)},
		"Town/assets/sheet.png": {Data: encodePNG(t, 12, 4, func(x, _ int) color.RGBA {
			return frameColors[x/4]
		})},
	}
	contentFS := fstest.MapFS{
		"Maps/Town.png": {Data: encodePNG(t, 16, 16, func(int, int) color.RGBA {
			return color.RGBA{A: 255}
		})},
	}

	packs, err := pack.LoadAll(packFS, ".")
	require.NoError(t, err)
	require.Len(t, packs, 1)

	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)
	content := assets.NewLoader(contentFS, assets.WithLogger(logger))
	m := NewManager(assets.NewLoader(packFS, assets.WithLogger(logger)), content,
		append([]Option{WithLogger(logger)}, opts...)...)
	return &fixture{manager: m, content: content, packs: packs, logs: &logs, logger: logger}
}

func TestConditionEval(t *testing.T) {
	cases := []struct {
		name string
		expr string
		ctx  Context
		want bool
	}{
		{"empty", "", Context{}, true},
		{"season_match", `season == "winter"`, Context{Season: "winter"}, true},
		{"season_miss", `season == "winter"`, Context{Season: "spring"}, false},
		{"day_parity", "day % 2 == 0", Context{Day: 4}, true},
		{"weather_or_day", `weather == "rain" || day > 10`, Context{Day: 3, Weather: "sun"}, false},
		{"truthy_string", "weather", Context{Weather: "rain"}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cond, err := CompileCondition(c.expr)
			require.NoError(t, err)
			got, err := cond.Eval(c.ctx)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestConditionErrors(t *testing.T) {
	_, err := CompileCondition("season ==")
	assert.Error(t, err)

	cond, err := CompileCondition("10 / day > 1")
	require.NoError(t, err)
	_, err = cond.Eval(Context{Day: 0})
	assert.Error(t, err)
}

func TestNotReadyBeforeStart(t *testing.T) {
	f := newFixture(t)
	live, ok := f.manager.Patches()
	assert.False(t, ok)
	assert.Nil(t, live)

	f.manager.Start(f.packs, Context{Season: "spring"})
	live, ok = f.manager.Patches()
	assert.True(t, ok)
	assert.Len(t, live, 3)
}

func TestLivePatchShape(t *testing.T) {
	f := newFixture(t)
	f.manager.Start(f.packs, Context{Season: "spring"})

	patches := f.manager.Live()
	require.Len(t, patches, 3)

	fountain := patches[0]
	assert.Equal(t, "Town > fountain", fountain.LogName)
	assert.Equal(t, "assets/sheet.png", fountain.FromAsset)
	assert.Equal(t, "Maps/Town", fountain.TargetAsset)
	r, ok := fountain.FromArea.TryGetRectangle()
	assert.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 4, 4), r)
	assert.True(t, fountain.IsApplied())
	assert.Same(t, f.packs[0], fountain.Pack())

	unnamed := patches[1]
	assert.Equal(t, "Town > EditImage Maps/Town", unnamed.LogName)
	assert.Nil(t, unnamed.FromArea)
	_, ok = unnamed.ToArea.TryGetRectangle()
	assert.False(t, ok)
	assert.True(t, unnamed.IsApplied())
}

func TestBrokenConditionNeverApplies(t *testing.T) {
	f := newFixture(t)
	f.manager.Start(f.packs, Context{Season: "spring"})

	broken := f.manager.Live()[2]
	assert.False(t, broken.IsApplied())
	assert.Contains(t, f.logs.String(), "contentpatch: Town > broken when: when:")

	f.manager.SetContext(Context{Season: "summer"})
	assert.False(t, broken.IsApplied())
}

func TestSetContextReevaluates(t *testing.T) {
	f := newFixture(t)
	f.manager.Start(f.packs, Context{Season: "spring"})
	fountain := f.manager.Live()[0]
	assert.True(t, fountain.IsApplied())

	f.manager.SetContext(Context{Season: "winter", Day: 1})
	assert.False(t, fountain.IsApplied())
	assert.Equal(t, "winter", f.manager.Context().Season)
}

func TestScaledTargets(t *testing.T) {
	f := newFixture(t, WithScaledTargets(4))
	b, err := f.manager.LoadBitmap("Maps/Town")
	require.NoError(t, err)

	scaled, ok := b.(*bitmap.Scaled)
	require.True(t, ok)
	assert.Same(t, f.content.Get("Maps/Town"), scaled.Unwrap())
}

func TestLoadPackBitmapIsPackRelative(t *testing.T) {
	f := newFixture(t)
	b, err := f.manager.LoadPackBitmap(f.packs[0], "assets/sheet.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 12, 4), b.Bounds())

	_, err = f.manager.LoadPackBitmap(f.packs[0], "assets/missing.png")
	assert.Error(t, err)
}

func TestAnimatesThroughScheduler(t *testing.T) {
	f := newFixture(t, WithScaledTargets(2))
	s := anim.NewScheduler(f.manager, anim.WithLogger(f.logger))
	d := host.NewDispatcher(s)

	d.Update()
	assert.Equal(t, anim.Unbound, s.State(), "not started yet")

	f.manager.Start(f.packs, Context{Season: "spring"})
	d.Push(host.Event{Type: host.EventSaveLoaded})
	d.Update() // tick 1
	d.Update() // tick 2, frame 1

	require.Len(t, s.Patches(), 1)
	target := f.content.Get("Maps/Town").(*bitmap.RGBA)
	assert.Same(t, target, s.Patches()[0].Target(), "shim is unwrapped")
	assert.Equal(t, frameColors[1], target.At(9, 9))
	assert.Equal(t, color.RGBA{A: 255}, target.At(7, 7))

	f.manager.SetContext(Context{Season: "winter"})
	d.Update()
	d.Update()
	assert.Equal(t, 1, s.Patches()[0].Frame(), "inactive patches hold their frame")

	f.manager.SetContext(Context{Season: "spring"})
	f.manager.Invalidate()
	d.Push(host.Event{Type: host.EventContentReloaded})
	d.Update() // tick 5
	d.Update() // tick 6, frame 2

	fresh := f.content.Get("Maps/Town").(*bitmap.RGBA)
	assert.NotSame(t, target, fresh)
	assert.Same(t, fresh, s.Patches()[0].Target())
	assert.Equal(t, frameColors[2], fresh.At(9, 9))
}
