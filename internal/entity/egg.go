package entity

import (
	"github.com/hajimehoshi/ebiten/v2"

	"duck/internal/gamemode"
)

// Eggs draws every laid egg at a fixed size.
type Eggs struct {
	img  *ebiten.Image
	size int
}

func NewEggs(img *ebiten.Image, size int) *Eggs {
	return &Eggs{img: img, size: size}
}

func (e *Eggs) Draw(screen *ebiten.Image, eggs []gamemode.Point) {
	w, h := e.img.Bounds().Dx(), e.img.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	sx, sy := float64(e.size)/float64(w), float64(e.size)/float64(h)

	op := &ebiten.DrawImageOptions{}
	for _, p := range eggs {
		op.GeoM.Reset()
		op.GeoM.Scale(sx, sy)
		op.GeoM.Translate(float64(p.X), float64(p.Y))
		screen.DrawImage(e.img, op)
	}
}
