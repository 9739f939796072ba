package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/patchanim/anim"
	"github.com/milk9111/patchanim/assets"
	"github.com/milk9111/patchanim/bitmap"
	"github.com/milk9111/patchanim/contentpatch"
	"github.com/milk9111/patchanim/host"
	"github.com/milk9111/patchanim/pack"
	"github.com/milk9111/patchanim/save"
	"github.com/milk9111/patchanim/watch"
	"github.com/quasilyte/gdata/v2"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	targetZoom = 4
)

type Config struct {
	PacksDir string
	App      string
	Slot     string
	Debug    bool
	Scale    float64
	Watch    bool
}

type Game struct {
	frames int
	debug  bool

	patches    *contentpatch.Manager
	scheduler  *anim.Scheduler
	dispatcher *host.Dispatcher
	save       *save.Manager
	watcher    *watch.Watcher

	ui     *ebitenui.UI
	status *statusUI
}

func NewGame(cfg Config) (*Game, error) {
	packFS := os.DirFS(cfg.PacksDir)
	packs, err := pack.LoadAll(packFS, ".")
	if err != nil {
		log.Printf("packs: %v", err)
	}
	log.Printf("packs: loaded %d content packs from %s", len(packs), cfg.PacksDir)

	var opts []contentpatch.Option
	if cfg.Scale > 0 {
		opts = append(opts, contentpatch.WithScaledTargets(cfg.Scale))
	}
	manager := contentpatch.NewManager(
		assets.NewLoader(packFS, assets.WithFactory(assets.GPU)),
		assets.NewLoader(assets.Content, assets.WithFactory(assets.GPU)),
		opts...,
	)

	g := &Game{
		debug:     cfg.Debug,
		patches:   manager,
		scheduler: anim.NewScheduler(manager, anim.WithVerbose(cfg.Debug)),
		save:      save.NewManager(openStore(cfg.App), cfg.Slot, nil),
	}
	// context first so the tick that follows a new day sees its conditions
	g.dispatcher = host.NewDispatcher(host.HandlerFunc(g.onEvent), g.scheduler)

	ev, err := g.save.Start()
	if err != nil {
		return nil, err
	}
	manager.Start(packs, contextFor(g.save.Data()))
	g.dispatcher.Push(ev)

	if cfg.Watch {
		w, err := watch.New(cfg.PacksDir)
		if err != nil {
			log.Printf("watch: %v", err)
		} else {
			g.watcher = w
		}
	}

	g.ui, g.status = NewStatusUI(g)
	return g, nil
}

func openStore(app string) *gdata.Manager {
	if app == "" {
		return nil
	}
	store, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		log.Printf("save: %v (progress will not be kept)", err)
		return nil
	}
	return store
}

func contextFor(d save.Data) contentpatch.Context {
	return contentpatch.Context{Day: d.Day, Season: d.Season, Weather: d.Weather}
}

func (g *Game) onEvent(ev host.Event) {
	if d, ok := ev.Data.(save.Data); ok {
		g.patches.SetContext(contextFor(d))
	}
}

func (g *Game) nextDay() {
	ev, err := g.save.NextDay()
	if err != nil {
		log.Printf("save: %v", err)
		return
	}
	log.Printf("day started: %s", g.save.Data())
	g.dispatcher.Push(ev)
}

// reload drops every cached bitmap and asks the animator to fetch them again.
func (g *Game) reload(reason string) {
	log.Printf("reloading content: %s", reason)
	g.patches.Invalidate()
	g.dispatcher.Push(host.Event{Type: host.EventContentReloaded, Data: reason})
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.nextDay()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload("manual")
	}
	if g.watcher != nil {
		var changed string
		n := g.watcher.Drain(func(p string) { changed = p }, func(err error) {
			log.Printf("watch: %v", err)
		})
		if n > 0 {
			g.reload(changed)
		}
	}

	g.dispatcher.Update()
	g.status.Refresh(g)
	g.ui.Update()
	return nil
}

// targets returns the distinct bitmaps animated patches draw into, keyed by
// asset name.
func (g *Game) targets() ([]string, map[string]*ebiten.Image) {
	images := map[string]*ebiten.Image{}
	for _, p := range g.scheduler.Patches() {
		b, ok := p.Target().(*bitmap.Ebiten)
		if !ok {
			continue
		}
		images[p.Record.Target] = b.Image()
	}
	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, images
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	x, y := 20.0, 40.0
	names, images := g.targets()
	for _, name := range names {
		img := images[name]
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(targetZoom, targetZoom)
		op.GeoM.Translate(x, y)
		screen.DrawImage(img, op)
		ebitenutil.DebugPrintAt(screen, name, int(x), int(y)-16)
		x += float64(img.Bounds().Dx()*targetZoom) + 20
	}

	g.ui.Draw(screen)
	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
