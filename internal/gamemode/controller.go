package gamemode

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"duck/internal/sched"
	"duck/internal/status"
)

// State is the neglect tier of the duck.
type State int

const (
	Calm   State = iota // recently fed
	Hungry              // neglected, growing and roaming
	Chaos               // full size, teleporting and laying eggs fast
)

func (s State) String() string {
	switch s {
	case Calm:
		return "calm"
	case Hungry:
		return "hungry"
	case Chaos:
		return "chaos"
	}
	return "unknown"
}

// Loop intervals.
const (
	AnimateEvery   = 100 * time.Millisecond
	HungerEvery    = 300 * time.Millisecond
	HealthEvery    = 100 * time.Millisecond
	QuackEvery     = 800 * time.Millisecond
	BlinkEvery     = 400 * time.Millisecond
	ChaosMoveEvery = 150 * time.Millisecond
)

const (
	MinGrowth = 20
	EggSize   = 32
)

// Cue is a sound that can be started but never overlapped.
type Cue interface {
	IsPlaying() bool
	Play()
}

// StatusWriter receives periodic snapshots.
type StatusWriter interface {
	Write(status.Snapshot)
}

type Point struct {
	X, Y int
}

// Params fixes the screen and tuning for one controller.
type Params struct {
	ScreenW, ScreenH int
	Home             Point
	InitialSize      int
	MaxSizeRatio     float64
	FrameCount       int

	HungryAfter  time.Duration
	HealthSpan   time.Duration
	EggRate      time.Duration
	EggRateFloor time.Duration
	ExitDelay    time.Duration

	Logger *slog.Logger
}

// DefaultParams is the stock duck on a w×h screen.
func DefaultParams(w, h int) Params {
	return Params{
		ScreenW:      w,
		ScreenH:      h,
		Home:         Point{150, 150},
		InitialSize:  100,
		MaxSizeRatio: 0.35,
		FrameCount:   1,
		HungryAfter:  5 * time.Second,
		HealthSpan:   10 * time.Second,
		EggRate:      time.Second,
		EggRateFloor: 50 * time.Millisecond,
		ExitDelay:    2 * time.Second,
	}
}

// Controller owns every piece of mutable duck state. All of its methods run on
// the scheduler's goroutine.
type Controller struct {
	s      *sched.Scheduler
	p      Params
	rng    *rand.Rand
	cue    Cue
	logger *slog.Logger

	maxSize int

	lastFed     time.Time
	state       State
	size        int
	pos         Point
	eggs        []Point
	eggRate     time.Duration
	frame       int
	health      HealthBar
	feedVisible bool
	blink       bool
	promptShown bool
	prompt      *Prompt

	// epoch is bumped by Feed so chaos loops started earlier stop themselves.
	epoch int

	exiting bool
	done    bool
}

// New builds a controller and arms its periodic loops on s.
func New(s *sched.Scheduler, p Params, rng *rand.Rand, cue Cue) *Controller {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	maxSize := int(float64(p.ScreenW) * p.MaxSizeRatio)
	if maxSize < p.InitialSize {
		maxSize = p.InitialSize
	}

	c := &Controller{
		s:       s,
		p:       p,
		rng:     rng,
		cue:     cue,
		logger:  p.Logger,
		maxSize: maxSize,
	}
	c.reset()

	s.After(AnimateEvery, c.animate)
	s.After(HungerEvery, c.checkHunger)
	s.After(HealthEvery, c.updateHealth)
	s.After(QuackEvery, c.checkQuack)
	s.After(BlinkEvery, c.toggleBlink)
	return c
}

// ExportStatus starts writing a snapshot to w every interval.
func (c *Controller) ExportStatus(w StatusWriter, every time.Duration) {
	var loop sched.Handler
	loop = func() {
		w.Write(c.Snapshot())
		c.s.After(every, loop)
	}
	c.s.After(every, loop)
}

func (c *Controller) reset() {
	c.lastFed = c.s.Now()
	c.state = Calm
	c.size = c.p.InitialSize
	c.pos = c.p.Home
	c.eggs = nil
	c.eggRate = c.p.EggRate
	c.feedVisible = false
	c.blink = false
	c.promptShown = false
	c.epoch++
	c.refreshHealth()
}

// Feed puts every counter back to its initial value from any state.
// Timers already queued keep firing but act on the reset state. An open
// dialog stays open and answerable.
func (c *Controller) Feed() {
	prev := c.state
	c.reset()
	c.logger.Info("duck: fed", "from", prev.String())
}

func (c *Controller) Elapsed() time.Duration {
	return c.s.Now().Sub(c.lastFed)
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Size() int { return c.size }
func (c *Controller) MaxSize() int { return c.maxSize }
func (c *Controller) Position() Point { return c.pos }
func (c *Controller) Frame() int { return c.frame }
func (c *Controller) Health() HealthBar { return c.health }
func (c *Controller) FeedVisible() bool { return c.feedVisible }
func (c *Controller) ButtonBlink() bool { return c.blink }
func (c *Controller) EggRate() time.Duration { return c.eggRate }

// Eggs returns a copy of the placed egg positions, oldest first.
func (c *Controller) Eggs() []Point {
	out := make([]Point, len(c.eggs))
	copy(out, c.eggs)
	return out
}

func (c *Controller) EggCount() int { return len(c.eggs) }

// Prompt is nil until chaos has shown the dialog. Once shown it never closes.
func (c *Controller) Prompt() *Prompt { return c.prompt }

func (c *Controller) PromptVisible() bool { return c.prompt != nil }

// Done reports that a polite answer's exit delay has passed.
func (c *Controller) Done() bool { return c.done }

func (c *Controller) Snapshot() status.Snapshot {
	return status.Snapshot{
		ElapsedSeconds: int(c.Elapsed().Seconds()),
		Eggs:           len(c.eggs),
		Chaos:          c.state == Chaos,
	}
}

func (c *Controller) animate() {
	if c.p.FrameCount > 0 {
		c.frame = (c.frame + 1) % c.p.FrameCount
	}
	c.s.After(AnimateEvery, c.animate)
}

func (c *Controller) checkHunger() {
	if c.Elapsed() > c.p.HungryAfter {
		if c.state == Calm {
			c.state = Hungry
			c.feedVisible = true
			c.logger.Info("duck: hungry", "elapsed", c.Elapsed().Round(time.Millisecond))
		}
		c.goRogue()
	}
	c.s.After(HungerEvery, c.checkHunger)
}

func (c *Controller) goRogue() {
	if c.size < c.maxSize {
		c.grow()
		c.relocate()
		c.layEgg()
		return
	}
	if c.state != Chaos {
		c.enterChaos()
	}
}

// GrowthStep is how much a duck of the given size grows in one hungry tick.
func GrowthStep(size, maxSize int) int {
	return max(MinGrowth, (maxSize-size)/4)
}

func (c *Controller) grow() {
	c.size += GrowthStep(c.size, c.maxSize)
	if c.size > c.maxSize {
		c.size = c.maxSize
	}
	c.logger.Debug("duck: grew", "size", c.size, "max", c.maxSize)
}

func (c *Controller) relocate() {
	c.pos = Point{
		X: c.rng.IntN(max(0, c.p.ScreenW-c.size) + 1),
		Y: c.rng.IntN(max(0, c.p.ScreenH-c.size) + 1),
	}
	c.refreshHealth()
}

func (c *Controller) layEgg() {
	c.eggs = append(c.eggs, Point{
		X: c.rng.IntN(max(0, c.p.ScreenW-EggSize) + 1),
		Y: c.rng.IntN(max(0, c.p.ScreenH-EggSize) + 1),
	})
}

func (c *Controller) enterChaos() {
	c.state = Chaos
	c.logger.Warn("duck: chaos", "eggs", len(c.eggs))
	epoch := c.epoch
	c.chaosMove(epoch)
	c.dropEgg(epoch)
}

func (c *Controller) chaosMove(epoch int) {
	if epoch != c.epoch {
		return
	}
	c.relocate()
	if !c.promptShown && c.size >= c.maxSize {
		c.promptShown = true
		if c.prompt == nil {
			c.prompt = NewPrompt(DefaultResponder(), c.scheduleExit)
		}
		c.logger.Info("duck: prompt shown")
	}
	c.s.After(ChaosMoveEvery, func() { c.chaosMove(epoch) })
}

// NextEggRate shrinks an egg interval to 60%, truncated to whole milliseconds
// and never below floor.
func NextEggRate(rate, floor time.Duration) time.Duration {
	next := (rate * 3 / 5).Truncate(time.Millisecond)
	return max(floor, next)
}

func (c *Controller) dropEgg(epoch int) {
	if epoch != c.epoch {
		return
	}
	c.layEgg()
	c.eggRate = NextEggRate(c.eggRate, c.p.EggRateFloor)
	c.s.After(c.eggRate, func() { c.dropEgg(epoch) })
}

func (c *Controller) updateHealth() {
	c.refreshHealth()
	c.s.After(HealthEvery, c.updateHealth)
}

func (c *Controller) refreshHealth() {
	h := HealthAt(c.Elapsed(), c.p.HealthSpan, HealthBarWidth)
	h.X = c.pos.X
	h.Y = c.pos.Y + c.size + 5
	c.health = h
}

func (c *Controller) checkQuack() {
	if c.state != Calm && c.cue != nil && !c.cue.IsPlaying() {
		c.cue.Play()
	}
	c.s.After(QuackEvery, c.checkQuack)
}

func (c *Controller) toggleBlink() {
	if c.feedVisible {
		c.blink = !c.blink
	}
	c.s.After(BlinkEvery, c.toggleBlink)
}

func (c *Controller) scheduleExit() {
	if c.exiting {
		return
	}
	c.exiting = true
	c.logger.Info("duck: polite answer, leaving", "in", c.p.ExitDelay)
	c.s.After(c.p.ExitDelay, func() { c.done = true })
}
