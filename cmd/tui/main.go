package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Garsondee/cutfield/internal/capture"
	"github.com/Garsondee/cutfield/internal/level"
	"github.com/Garsondee/cutfield/internal/tui"
)

func main() {
	var levelsPath string
	var levelID string
	var seed int64
	var cols, rows int

	flag.StringVar(&levelsPath, "levels", "", "levels.json path (default: built-in catalogue)")
	flag.StringVar(&levelID, "level", "level1", "level id to play")
	flag.Int64Var(&seed, "seed", 0, "enemy spawn seed (0 = time-based)")
	flag.IntVar(&cols, "cols", 60, "field width in cells")
	flag.IntVar(&rows, "rows", 24, "field height in cells")
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

	s, err := capture.NewSession(cfg, capture.WithFieldSize(cols, rows), capture.WithSeed(seed))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := tea.NewProgram(tui.New(s), tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
