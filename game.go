package main

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"duck/internal/assets"
	"duck/internal/config"
	"duck/internal/entity"
	"duck/internal/gamemode"
	"duck/internal/sched"
	"duck/internal/sound"
	"duck/internal/status"
)

var _ gamemode.Cue = (*sound.Cue)(nil)

// Backspace repeat, in ticks.
const (
	repeatDelay    = 24
	repeatInterval = 4
)

// Game is the overlay: one controller, driven by the wall clock every tick.
type Game struct {
	W, H int
	Tick int

	sched *sched.Scheduler
	ctrl  *gamemode.Controller
	duck  *entity.Duck
	eggs  *entity.Eggs
	hud   *HUD
	cue   *sound.Cue

	debug       bool
	passthrough bool
	runes       []rune
	logger      *slog.Logger
}

func NewGame(cfg *config.Config, w, h int, logger *slog.Logger) (*Game, error) {
	anim, err := assets.LoadGIF(cfg.Assets.Sprite)
	if err != nil {
		return nil, err
	}
	eggImg, err := assets.LoadImage(cfg.Assets.Egg)
	if err != nil {
		return nil, err
	}
	quack, err := assets.LoadSound(cfg.Assets.Cue)
	if err != nil {
		return nil, err
	}

	cue, err := sound.NewCue(audio.NewContext(sound.SampleRate), quack, logger)
	if err != nil {
		return nil, err
	}

	hud, err := NewHUD(w, h)
	if err != nil {
		return nil, err
	}

	duck := entity.NewDuck(anim)
	s := sched.New(time.Now())
	ctrl := gamemode.New(s, paramsFromConfig(cfg, w, h, duck.FrameCount(), logger), rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), cue)
	ctrl.ExportStatus(status.NewExporter(cfg.Status.Path, logger), cfg.Status.Interval)

	logger.Info("duck: ready", "screen", fmt.Sprintf("%dx%d", w, h), "frames", duck.FrameCount(), "max_size", ctrl.MaxSize())

	return &Game{
		W:      w,
		H:      h,
		sched:  s,
		ctrl:   ctrl,
		duck:   duck,
		eggs:   entity.NewEggs(eggImg, gamemode.EggSize),
		hud:    hud,
		cue:    cue,
		debug:  cfg.Log.SlogLevel <= slog.LevelDebug,
		logger: logger,
	}, nil
}

func paramsFromConfig(cfg *config.Config, w, h, frames int, logger *slog.Logger) gamemode.Params {
	p := gamemode.DefaultParams(w, h)
	p.InitialSize = cfg.Pet.InitialSize
	p.MaxSizeRatio = cfg.Pet.MaxSizeRatio
	p.FrameCount = frames
	p.HungryAfter = cfg.Pet.HungryAfter
	p.HealthSpan = cfg.Pet.HealthSpan
	p.EggRate = cfg.Pet.EggRate
	p.EggRateFloor = cfg.Pet.EggRateFloor
	p.ExitDelay = cfg.Pet.ExitDelay
	p.Logger = logger
	return p
}

// Update: Logic (60 TPS)
func (g *Game) Update() error {
	g.Tick++
	g.sched.Run(time.Now())

	if g.ctrl.Done() {
		g.cue.Close()
		return ebiten.Termination
	}

	mx, my := ebiten.CursorPosition()
	g.updatePassthrough(mx, my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.click(mx, my)
	}
	if p := g.ctrl.Prompt(); p != nil {
		g.updatePrompt(p)
	}
	return nil
}

// Clicks fall through to the desktop except over the button or dialog.
func (g *Game) updatePassthrough(mx, my int) {
	want := !g.hud.Interactive(mx, my, g.ctrl.FeedVisible(), g.ctrl.PromptVisible())
	if want != g.passthrough {
		g.passthrough = want
		ebiten.SetWindowMousePassthrough(want)
	}
}

func (g *Game) click(mx, my int) {
	pt := image.Pt(mx, my)
	if p := g.ctrl.Prompt(); p != nil {
		if pt.In(g.hud.SubmitButton()) {
			g.submit(p)
			return
		}
		if pt.In(g.hud.Prompt()) {
			return
		}
	}
	if g.ctrl.FeedVisible() && pt.In(g.hud.FeedButton()) {
		g.ctrl.Feed()
	}
}

func (g *Game) updatePrompt(p *gamemode.Prompt) {
	g.runes = ebiten.AppendInputChars(g.runes[:0])
	p.Type(g.runes...)

	if repeatingKeyPressed(ebiten.KeyBackspace) {
		p.Backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		g.submit(p)
	}
}

func (g *Game) submit(p *gamemode.Prompt) {
	resp := p.Submit()
	g.logger.Debug("duck: prompt answered", "input", p.Input(), "matched", resp.Matched, "polite", resp.Polite)
}

func repeatingKeyPressed(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

// Draw: Rendering (VSync). The screen stays transparent behind the sprites.
func (g *Game) Draw(screen *ebiten.Image) {
	g.eggs.Draw(screen, g.ctrl.Eggs())

	pos := g.ctrl.Position()
	g.duck.Draw(screen, g.ctrl.Frame(), pos.X, pos.Y, g.ctrl.Size())
	g.hud.DrawHealth(screen, g.ctrl.Health())

	if g.ctrl.FeedVisible() {
		g.hud.DrawFeedButton(screen, g.ctrl.ButtonBlink())
	}
	if p := g.ctrl.Prompt(); p != nil {
		g.hud.DrawPrompt(screen, p, g.Tick%60 < 30)
	}

	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s size=%d/%d eggs=%d neglect=%s TPS=%0.1f",
			g.ctrl.State(), g.ctrl.Size(), g.ctrl.MaxSize(), g.ctrl.EggCount(),
			g.ctrl.Elapsed().Truncate(time.Second), ebiten.ActualTPS()), 4, g.H-20)
	}
}

// Layout: the logical screen is the monitor.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.W, g.H
}
