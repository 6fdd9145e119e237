package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"duck/internal/gamemode"
)

// --- Colors ---
var (
	ColGreen     = color.RGBA{0x00, 0x80, 0x00, 0xff}
	ColOrange    = color.RGBA{0xff, 0xa5, 0x00, 0xff}
	ColRed       = color.RGBA{0xff, 0x00, 0x00, 0xff}
	ColYellow    = color.RGBA{0xff, 0xff, 0x00, 0xff}
	ColWhite     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ColBlack     = color.RGBA{0x00, 0x00, 0x00, 0xff}
	ColBlue      = color.RGBA{0x00, 0x00, 0xff, 0xff}
	ColPanel     = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	ColPanelEdge = color.RGBA{0x80, 0x80, 0x80, 0xff}
)

// --- Layout ---
const (
	FeedButtonW = 200
	FeedButtonH = 50
	FeedLabel   = "FEED ME"

	PromptX = 500
	PromptY = 300
	PromptW = 400
	PromptH = 150

	SubmitLabel = "Submit"
)

func tierColor(t gamemode.Tier) color.Color {
	switch t {
	case gamemode.TierGreen:
		return ColGreen
	case gamemode.TierOrange:
		return ColOrange
	}
	return ColRed
}

// HUD draws the health bar, the feed button and the dialog, and knows where
// they are for hit-testing.
type HUD struct {
	screenW, screenH int

	buttonFace *text.GoTextFace
	bodyFace   *text.GoTextFace
	replyFace  *text.GoTextFace
}

func NewHUD(w, h int) (*HUD, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &HUD{
		screenW:    w,
		screenH:    h,
		buttonFace: &text.GoTextFace{Source: src, Size: 18},
		bodyFace:   &text.GoTextFace{Source: src, Size: 12},
		replyFace:  &text.GoTextFace{Source: src, Size: 10},
	}, nil
}

// FeedButton is centered on the screen.
func (h *HUD) FeedButton() image.Rectangle {
	x := h.screenW/2 - FeedButtonW/2
	y := h.screenH/2 - FeedButtonH/2
	return image.Rect(x, y, x+FeedButtonW, y+FeedButtonH)
}

func (h *HUD) Prompt() image.Rectangle {
	return image.Rect(PromptX, PromptY, PromptX+PromptW, PromptY+PromptH)
}

func (h *HUD) InputBox() image.Rectangle {
	p := h.Prompt()
	return image.Rect(p.Min.X+20, p.Min.Y+34, p.Max.X-20, p.Min.Y+58)
}

func (h *HUD) SubmitButton() image.Rectangle {
	p := h.Prompt()
	x := p.Min.X + PromptW/2 - 40
	return image.Rect(x, p.Max.Y-40, x+80, p.Max.Y-12)
}

// Interactive reports whether (x, y) lands on something clickable right now.
func (h *HUD) Interactive(x, y int, feedVisible, promptVisible bool) bool {
	pt := image.Pt(x, y)
	if promptVisible && pt.In(h.Prompt()) {
		return true
	}
	return feedVisible && pt.In(h.FeedButton())
}

func (h *HUD) DrawHealth(screen *ebiten.Image, bar gamemode.HealthBar) {
	if !bar.Visible || bar.Width <= 0 {
		return
	}
	vector.DrawFilledRect(screen, float32(bar.X), float32(bar.Y), float32(bar.Width), gamemode.HealthBarHeight, tierColor(bar.Tier), false)
}

// DrawFeedButton alternates yellow/black and red/white with blink.
func (h *HUD) DrawFeedButton(screen *ebiten.Image, blink bool) {
	bg, fg := ColYellow, ColBlack
	if blink {
		bg, fg = ColRed, ColWhite
	}
	r := h.FeedButton()
	fillRect(screen, r, bg)
	strokeRect(screen, r, ColBlack)
	drawCentered(screen, FeedLabel, h.buttonFace, r, fg)
}

func (h *HUD) DrawPrompt(screen *ebiten.Image, p *gamemode.Prompt, caretOn bool) {
	panel := h.Prompt()
	fillRect(screen, panel, ColPanel)
	strokeRect(screen, panel, ColPanelEdge)

	title := image.Rect(panel.Min.X, panel.Min.Y+8, panel.Max.X, panel.Min.Y+30)
	drawCentered(screen, gamemode.PromptTitle, h.bodyFace, title, ColBlack)

	box := h.InputBox()
	fillRect(screen, box, ColWhite)
	strokeRect(screen, box, ColPanelEdge)
	input := p.Input()
	if caretOn {
		input += "|"
	}
	maxW := float64(box.Dx() - 8)
	input = tailThatFits(input, func(s string) bool { return text.Advance(s, h.bodyFace) <= maxW })
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(box.Min.X+4), float64(box.Min.Y+4))
	op.ColorScale.ScaleWithColor(ColBlack)
	text.Draw(screen, input, h.bodyFace, op)

	if reply := p.Reply(); reply != "" {
		line := image.Rect(panel.Min.X, box.Max.Y+6, panel.Max.X, box.Max.Y+24)
		drawCentered(screen, reply, h.replyFace, line, ColBlue)
	}

	btn := h.SubmitButton()
	fillRect(screen, btn, ColPanel)
	strokeRect(screen, btn, ColPanelEdge)
	drawCentered(screen, SubmitLabel, h.bodyFace, btn, ColBlack)
}

// tailThatFits drops leading runes until fits accepts the rest, so the end of
// a long input stays in view.
func tailThatFits(s string, fits func(string) bool) string {
	for s != "" && !fits(s) {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return s
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
}

func strokeRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, c, false)
}

func drawCentered(dst *ebiten.Image, s string, face *text.GoTextFace, r image.Rectangle, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(r.Min.X+r.Dx()/2), float64(r.Min.Y+r.Dy()/2))
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}
