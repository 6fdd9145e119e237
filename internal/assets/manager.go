package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/png" // Register PNG format
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// Animation is a decoded GIF, one full-canvas frame per entry. The GIF's own
// delays are ignored; the caller steps frames on its own clock.
type Animation struct {
	Frames []*ebiten.Image
}

// LoadGIF decodes every frame of an animated GIF into VRAM.
func LoadGIF(path string) (*Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sprite: %w", err)
	}
	defer f.Close()

	frames, err := DecodeGIFFrames(f)
	if err != nil {
		return nil, fmt.Errorf("decode sprite %q: %w", path, err)
	}

	anim := &Animation{}
	for _, img := range frames.Images {
		anim.Frames = append(anim.Frames, ebiten.NewImageFromImage(img))
	}
	return anim, nil
}

// Frames is the CPU side of a decoded GIF.
type Frames struct {
	Images []*image.RGBA
	Width  int
	Height int
}

// DecodeGIFFrames composites each GIF frame onto the logical screen so
// partial frames render correctly.
func DecodeGIFFrames(r io.Reader) (*Frames, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames")
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	out := &Frames{Width: bounds.Dx(), Height: bounds.Dy()}
	canvas := image.NewRGBA(bounds)
	for i, src := range g.Image {
		var restore *image.RGBA
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalPrevious {
			restore = image.NewRGBA(bounds)
			draw.Draw(restore, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
		frame := image.NewRGBA(bounds)
		draw.Draw(frame, bounds, canvas, bounds.Min, draw.Src)
		out.Images = append(out.Images, frame)

		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				canvas = restore
			}
		}
	}
	return out, nil
}

// LoadImage loads a PNG (or any registered format) into VRAM.
func LoadImage(path string) (*ebiten.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}

	return ebiten.NewImageFromImage(img), nil
}

// LoadSound returns the raw bytes of an encoded sound file.
func LoadSound(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sound: %w", err)
	}
	return data, nil
}
