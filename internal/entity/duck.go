package entity

import (
	"github.com/hajimehoshi/ebiten/v2"

	"duck/internal/assets"
)

// Duck draws the sprite. Which frame, where, and how big are decided by the
// controller each frame.
type Duck struct {
	frames []*ebiten.Image
}

func NewDuck(anim *assets.Animation) *Duck {
	return &Duck{frames: anim.Frames}
}

func (d *Duck) FrameCount() int {
	return len(d.frames)
}

// Draw renders frame scaled to a size×size square at (x, y).
func (d *Duck) Draw(screen *ebiten.Image, frame, x, y, size int) {
	if len(d.frames) == 0 {
		return
	}

	img := d.frames[frame%len(d.frames)]
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(size)/float64(w), float64(size)/float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear

	screen.DrawImage(img, op)
}
