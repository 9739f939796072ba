package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	packsDir := flag.String("packs", "packs", "content pack directory")
	app := flag.String("app", "patchanim", "save data application name (empty keeps progress in memory)")
	slot := flag.String("slot", "default", "save slot")
	debug := flag.Bool("debug", false, "enable trace logging")
	scale := flag.Float64("scale", 0, "wrap target bitmaps in a scaled shim with this factor")
	noWatch := flag.Bool("nowatch", false, "do not reload when pack files change")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("patchanim")

	game, err := NewGame(Config{
		PacksDir: *packsDir,
		App:      *app,
		Slot:     *slot,
		Debug:    *debug,
		Scale:    *scale,
		Watch:    !*noWatch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
