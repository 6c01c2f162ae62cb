package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/cutfield/internal/capture"
	"github.com/Garsondee/cutfield/internal/game"
	"github.com/Garsondee/cutfield/internal/level"
)

func main() {
	var levelsPath string
	var levelID string
	var seed int64
	var verbose bool

	flag.StringVar(&levelsPath, "levels", "", "levels.json path (default: built-in catalogue)")
	flag.StringVar(&levelID, "level", "level1", "level id to play")
	flag.Int64Var(&seed, "seed", 0, "enemy spawn seed (0 = time-based)")
	flag.BoolVar(&verbose, "verbose", false, "log enemy bounces to the event panel")
	flag.Parse()

	cat := level.Default()
	if levelsPath != "" {
		var err error
		if cat, err = level.Load(levelsPath); err != nil {
			log.Fatal(err)
		}
	}
	cfg, err := cat.Find(levelID)
	if err != nil {
		log.Fatal(err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g, err := game.New(cfg, capture.WithSeed(seed), capture.WithVerbose(verbose))
	if err != nil {
		log.Fatal(err)
	}
	w, h := g.WindowSize()
	ebiten.SetWindowTitle(g.Title())
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
