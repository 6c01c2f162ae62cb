package game

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/webp"

	"github.com/Garsondee/cutfield/internal/capture"
)

// loadBackground decodes the level image revealed under claimed cells.
// PNG, JPEG and WebP are registered.
func loadBackground(path string) (*ebiten.Image, error) {
	if path == "" {
		return nil, errors.New("level has no image")
	}
	f, err := os.Open(path) // #nosec G304 -- path comes from the level file
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// writeMask fills pix (RGBA, premultiplied) with one pixel per cell: open
// cells opaque, claimed cells transparent so the background shows through.
func writeMask(pix []byte, cells []capture.CellState) {
	for i, c := range cells {
		o := i * 4
		if c == capture.CellOpen {
			pix[o+0] = 18
			pix[o+1] = 20
			pix[o+2] = 28
			pix[o+3] = 255
			continue
		}
		pix[o+0], pix[o+1], pix[o+2], pix[o+3] = 0, 0, 0, 0
	}
}
