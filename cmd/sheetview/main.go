package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/patchanim/bitmap"
	"github.com/milk9111/patchanim/pack"
	"golang.org/x/image/colornames"
)

const viewSize = 512

// viewer plays the frame cells of one animated record without a target.
type viewer struct {
	title    string
	frames   []*ebiten.Image
	interval int
	current  int
	tick     int
	zoom     float64
}

func (v *viewer) Update() error {
	if len(v.frames) <= 1 {
		return nil
	}
	v.tick++
	if v.tick%v.interval == 0 {
		v.current = (v.current + 1) % len(v.frames)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  frame %d/%d", v.title, v.current+1, len(v.frames)))
	if len(v.frames) == 0 {
		return
	}
	fw := float64(v.frames[0].Bounds().Dx()) * v.zoom
	fh := float64(v.frames[0].Bounds().Dy()) * v.zoom
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(v.zoom, v.zoom)
	op.GeoM.Translate((viewSize-fw)/2, (viewSize-fh)/2)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(v.frames[v.current], op)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewSize, viewSize
}

// frameRects returns the cells a record cycles through: its FromArea shifted
// right by one width per frame.
func frameRects(rec pack.Record) []image.Rectangle {
	from := rec.FromArea.Rect()
	if from.Empty() || rec.FrameCount <= 0 {
		return nil
	}
	rects := make([]image.Rectangle, rec.FrameCount)
	for i := range rects {
		rects[i] = from.Add(image.Pt(i*from.Dx(), 0))
	}
	return rects
}

func findRecord(packs []*pack.Pack, logName string) (*pack.Pack, pack.Record, bool) {
	for _, p := range packs {
		for _, rec := range p.Animated() {
			if logName == "" || rec.LogName == logName {
				return p, rec, true
			}
		}
	}
	return nil, pack.Record{}, false
}

func loadFrames(r io.Reader, rects []image.Rectangle) ([]*ebiten.Image, error) {
	img, _, err := bitmap.Decode(r)
	if err != nil {
		return nil, err
	}
	sheet := ebiten.NewImageFromImage(img)
	frames := make([]*ebiten.Image, 0, len(rects))
	for _, cell := range rects {
		if !cell.In(sheet.Bounds()) {
			return nil, fmt.Errorf("frame %v outside sheet %v", cell, sheet.Bounds())
		}
		frames = append(frames, ebiten.NewImageFromImage(sheet.SubImage(cell)))
	}
	return frames, nil
}

func main() {
	packsDir := flag.String("packs", "packs", "content pack directory")
	logName := flag.String("patch", "", "LogName of the animated patch (first one when empty)")
	zoom := flag.Float64("zoom", 8, "zoom factor")
	flag.Parse()

	packs, err := pack.LoadAll(os.DirFS(*packsDir), ".")
	if err != nil {
		log.Printf("packs: %v", err)
	}
	p, rec, ok := findRecord(packs, *logName)
	if !ok {
		log.Fatalf("no animated patch %q in %s", *logName, *packsDir)
	}

	f, err := os.Open(path.Join(*packsDir, p.Dir, rec.FromFile))
	if err != nil {
		log.Fatal(err)
	}
	frames, err := loadFrames(f, frameRects(rec))
	f.Close()
	if err != nil {
		log.Fatalf("%s: %v", rec.LogName, err)
	}

	v := &viewer{
		title:    p.Name() + " > " + rec.LogName,
		frames:   frames,
		interval: rec.FrameInterval,
		zoom:     *zoom,
	}
	ebiten.SetWindowSize(viewSize, viewSize)
	ebiten.SetWindowTitle("sheetview")
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
