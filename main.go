package main

import (
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"duck/internal/config"
)

const (
	WindowTitle = "Duck"

	// Used when no monitor is reported before the loop starts.
	FallbackWidth  = 1920
	FallbackHeight = 1080
)

func main() {
	// 1. Config & Logging
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel}))
	slog.SetDefault(logger)

	// 2. Overlay Window: borderless, always on top, covering the monitor
	w, h := FallbackWidth, FallbackHeight
	if m := ebiten.Monitor(); m != nil {
		w, h = m.Size()
	}
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowPosition(0, 0)
	ebiten.SetWindowTitle(WindowTitle)

	// 3. Initialize Game (asset failures are fatal)
	game, err := NewGame(cfg, w, h, logger)
	if err != nil {
		log.Fatal(err)
	}

	// 4. Run Loop
	if err := ebiten.RunGameWithOptions(game, &ebiten.RunGameOptions{ScreenTransparent: true}); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
