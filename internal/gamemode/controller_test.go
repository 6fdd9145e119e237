package gamemode

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"duck/internal/sched"
	"duck/internal/status"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeCue struct {
	playing bool
	plays   int
}

func (f *fakeCue) IsPlaying() bool { return f.playing }

func (f *fakeCue) Play() {
	f.playing = true
	f.plays++
}

type recordWriter struct {
	snaps []status.Snapshot
}

func (r *recordWriter) Write(s status.Snapshot) { r.snaps = append(r.snaps, s) }

func newTestController(t *testing.T) (*Controller, *sched.Scheduler, *fakeCue) {
	t.Helper()
	s := sched.New(epoch)
	p := DefaultParams(1920, 1080)
	p.FrameCount = 4
	p.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	cue := &fakeCue{}
	c := New(s, p, rand.New(rand.NewPCG(1, 2)), cue)
	return c, s, cue
}

// advance steps the clock in 1ms increments, so every loop fires on its
// exact deadline the way a steady frame rate would drive it.
func advance(s *sched.Scheduler, d time.Duration) {
	for end := s.Now().Add(d); s.Now().Before(end); {
		s.Advance(time.Millisecond)
	}
}

func TestStartsCalm(t *testing.T) {
	c, s, _ := newTestController(t)
	advance(s, 5 * time.Second)

	if c.State() != Calm || c.FeedVisible() {
		t.Fatalf("state=%v feedVisible=%v after 5s", c.State(), c.FeedVisible())
	}
	if c.Size() != 100 || c.EggCount() != 0 {
		t.Errorf("size=%d eggs=%d", c.Size(), c.EggCount())
	}
	if c.Position() != (Point{150, 150}) {
		t.Errorf("position = %+v", c.Position())
	}
}

func TestNeglectSixSecondsStartsHungryLoop(t *testing.T) {
	c, s, _ := newTestController(t)
	advance(s, 6 * time.Second)

	if c.State() != Hungry {
		t.Fatalf("state = %v, want hungry", c.State())
	}
	if !c.FeedVisible() {
		t.Error("feed button should be visible")
	}
	if c.Size() <= 100 {
		t.Errorf("size = %d, want growth", c.Size())
	}
	if c.EggCount() < 1 {
		t.Errorf("eggs = %d, want at least one", c.EggCount())
	}
	h := c.Health()
	pos := c.Position()
	if h.X != pos.X || h.Y != pos.Y+c.Size()+5 {
		t.Errorf("health bar at (%d,%d) does not follow duck at %+v", h.X, h.Y, pos)
	}
}

func TestSizeGrowsMonotonicallyToMax(t *testing.T) {
	c, s, _ := newTestController(t)
	maxSize := c.MaxSize()
	if maxSize != 672 {
		t.Fatalf("max size = %d, want 672", maxSize)
	}

	prev := c.Size()
	reached := false
	for i := 0; i < 200; i++ {
		advance(s, HungerEvery)
		size := c.Size()
		if size < prev {
			t.Fatalf("size shrank %d -> %d", prev, size)
		}
		if size > maxSize {
			t.Fatalf("size %d exceeds max %d", size, maxSize)
		}
		if reached && size != maxSize {
			t.Fatalf("size left max: %d", size)
		}
		if step := size - prev; step > 0 && step < MinGrowth && size != maxSize {
			t.Fatalf("growth step %d below %d", step, MinGrowth)
		}
		if size == maxSize {
			reached = true
		}
		prev = size
	}
	if !reached {
		t.Fatal("size never reached max")
	}
}

func TestGrowthStep(t *testing.T) {
	for size := 100; size < 672; size++ {
		step := GrowthStep(size, 672)
		if step < MinGrowth {
			t.Fatalf("GrowthStep(%d) = %d", size, step)
		}
	}
	if got := GrowthStep(100, 672); got != 143 {
		t.Errorf("GrowthStep(100, 672) = %d, want 143", got)
	}
	if got := GrowthStep(660, 672); got != MinGrowth {
		t.Errorf("GrowthStep(660, 672) = %d, want %d", got, MinGrowth)
	}
}

func TestNextEggRate(t *testing.T) {
	floor := 50 * time.Millisecond
	want := []time.Duration{600, 360, 216, 129, 77, 50, 50, 50}
	rate := time.Second
	for i, w := range want {
		next := NextEggRate(rate, floor)
		if next != w*time.Millisecond {
			t.Fatalf("step %d: NextEggRate(%v) = %v, want %v", i, rate, next, w*time.Millisecond)
		}
		if rate > floor && next >= rate {
			t.Fatalf("step %d: rate did not decrease", i)
		}
		rate = next
	}
}

func TestChaosEnteredOnceWithSinglePrompt(t *testing.T) {
	c, s, _ := newTestController(t)
	advance(s, 15 * time.Second)

	if c.State() != Chaos {
		t.Fatalf("state = %v, want chaos", c.State())
	}
	p := c.Prompt()
	if p == nil {
		t.Fatal("prompt not shown at max size")
	}
	eggs := c.EggCount()

	advance(s, 5 * time.Second)
	if c.Prompt() != p {
		t.Error("prompt was replaced while chaos kept ticking")
	}
	if c.State() != Chaos {
		t.Errorf("state = %v", c.State())
	}
	if c.EggCount() <= eggs {
		t.Errorf("egg loop stalled at %d", c.EggCount())
	}
	if c.EggRate() != 50*time.Millisecond {
		t.Errorf("egg rate = %v, want floor", c.EggRate())
	}
}

func TestFeedResetsFromEveryState(t *testing.T) {
	for _, after := range []time.Duration{time.Second, 6 * time.Second, 20 * time.Second} {
		c, s, _ := newTestController(t)
		advance(s, after)
		from := c.State()

		c.Feed()

		if c.State() != Calm || c.Size() != 100 || c.EggCount() != 0 {
			t.Errorf("feed from %v: state=%v size=%d eggs=%d", from, c.State(), c.Size(), c.EggCount())
		}
		if c.FeedVisible() || c.ButtonBlink() {
			t.Errorf("feed from %v left UI flags set", from)
		}
		// the dialog has no close control, feeding leaves it up
		if c.PromptVisible() != (from == Chaos) {
			t.Errorf("feed from %v: prompt visible = %v", from, c.PromptVisible())
		}
		if c.EggRate() != time.Second || c.Elapsed() != 0 {
			t.Errorf("feed from %v: rate=%v elapsed=%v", from, c.EggRate(), c.Elapsed())
		}
		if c.Position() != (Point{150, 150}) {
			t.Errorf("feed from %v: position %+v", from, c.Position())
		}
		if !c.Health().Visible || c.Health().Width != HealthBarWidth {
			t.Errorf("feed from %v: health %+v", from, c.Health())
		}
	}
}

func TestFeedSilencesChaosLoops(t *testing.T) {
	c, s, _ := newTestController(t)
	advance(s, 20 * time.Second)
	if c.State() != Chaos {
		t.Fatalf("state = %v", c.State())
	}

	p := c.Prompt()
	c.Feed()
	advance(s, 4 * time.Second)

	if c.Prompt() != p {
		t.Error("feeding closed the dialog")
	}
	if c.EggCount() != 0 || c.Position() != (Point{150, 150}) {
		t.Errorf("stale chaos tick ran: eggs=%d pos=%+v", c.EggCount(), c.Position())
	}
	// animate, hunger, health, quack, blink
	if s.Pending() != 5 {
		t.Errorf("pending timers = %d, want 5", s.Pending())
	}

	advance(s, 20 * time.Second)
	if c.State() != Chaos || c.Prompt() != p {
		t.Errorf("second neglect: state=%v, same dialog=%v", c.State(), c.Prompt() == p)
	}
	// one relocation loop and one egg loop on top of the base five
	if s.Pending() != 7 {
		t.Errorf("pending timers after re-entering chaos = %d, want 7", s.Pending())
	}
}

func TestQuackNeverOverlaps(t *testing.T) {
	c, s, cue := newTestController(t)
	advance(s, 5 * time.Second)
	if cue.plays != 0 {
		t.Fatalf("quacked %d times while calm", cue.plays)
	}

	advance(s, 2 * time.Second)
	if c.State() == Calm || cue.plays != 1 {
		t.Fatalf("state=%v plays=%d, want one quack", c.State(), cue.plays)
	}

	advance(s, 3 * time.Second)
	if cue.plays != 1 {
		t.Errorf("played %d times while cue still playing", cue.plays)
	}

	cue.playing = false
	advance(s, QuackEvery)
	if cue.plays != 2 {
		t.Errorf("plays = %d after cue finished, want 2", cue.plays)
	}
}

func TestButtonBlinksOnlyWhenVisible(t *testing.T) {
	c, s, _ := newTestController(t)
	advance(s, 4 * time.Second)
	if c.ButtonBlink() {
		t.Fatal("hidden button blinked")
	}

	advance(s, 2 * time.Second)
	first := c.ButtonBlink()
	advance(s, BlinkEvery)
	if c.ButtonBlink() == first {
		t.Error("button color did not toggle")
	}
}

func TestPoliteAnswerExitsAfterDelay(t *testing.T) {
	c, s, _ := newTestController(t)
	advance(s, 15 * time.Second)
	p := c.Prompt()
	if p == nil {
		t.Fatal("no prompt")
	}

	p.Type([]rune("no")...)
	p.Submit()
	advance(s, 5 * time.Second)
	if c.Done() {
		t.Fatal("impolite answer ended the program")
	}

	p.Backspace()
	p.Backspace()
	p.Type([]rune("please feed me")...)
	p.Submit()
	advance(s, 1900 * time.Millisecond)
	if c.Done() {
		t.Fatal("exited before delay")
	}
	advance(s, 200 * time.Millisecond)
	if !c.Done() {
		t.Fatal("did not exit after delay")
	}
}

func TestAnimationAndStatusExport(t *testing.T) {
	c, s, _ := newTestController(t)
	w := &recordWriter{}
	c.ExportStatus(w, time.Second)

	advance(s, time.Second)
	if c.Frame() != 10%4 {
		t.Errorf("frame = %d, want %d", c.Frame(), 10%4)
	}
	if len(w.snaps) != 1 || w.snaps[0] != (status.Snapshot{ElapsedSeconds: 1}) {
		t.Fatalf("snapshots = %+v", w.snaps)
	}

	advance(s, 19 * time.Second)
	last := w.snaps[len(w.snaps)-1]
	if last.ElapsedSeconds != 20 || !last.Chaos || last.Eggs == 0 {
		t.Errorf("last snapshot = %+v", last)
	}
}

func TestSmallScreenClampsMaxSize(t *testing.T) {
	s := sched.New(epoch)
	p := DefaultParams(200, 150)
	p.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(s, p, rand.New(rand.NewPCG(3, 4)), nil)

	if c.MaxSize() != 100 {
		t.Fatalf("max size = %d, want initial size", c.MaxSize())
	}
	advance(s, 6 * time.Second)
	if c.State() != Chaos || c.Size() != 100 {
		t.Errorf("state=%v size=%d", c.State(), c.Size())
	}
	pos := c.Position()
	if pos.X < 0 || pos.X > 100 || pos.Y < 0 || pos.Y > 50 {
		t.Errorf("position %+v off screen", pos)
	}
}

func TestFedDialogStillAnswers(t *testing.T) {
	c, s, _ := newTestController(t)
	advance(s, 15 * time.Second)
	p := c.Prompt()
	if p == nil {
		t.Fatal("no prompt")
	}

	c.Feed()
	p.Type([]rune("pls")...)
	if resp := p.Submit(); !resp.Polite {
		t.Fatalf("submit after feed = %+v", resp)
	}
	advance(s, 2100 * time.Millisecond)
	if !c.Done() {
		t.Error("polite answer after feed did not exit")
	}
}

func TestStalledFrameDoesNotReplayTicks(t *testing.T) {
	c, s, cue := newTestController(t)
	w := &recordWriter{}
	c.ExportStatus(w, time.Second)
	advance(s, 20 * time.Second)
	if c.State() != Chaos {
		t.Fatalf("state = %v", c.State())
	}
	eggs, frame, plays, snaps := c.EggCount(), c.Frame(), cue.plays, len(w.snaps)
	cue.playing = false

	// one Run after the machine slept for an hour
	if n := s.Advance(time.Hour); n > 8 {
		t.Fatalf("fired %d handlers after a stall, want each loop at most once", n)
	}
	if got := c.EggCount() - eggs; got > 1 {
		t.Errorf("laid %d eggs in one frame", got)
	}
	if got := (c.Frame() - frame + 4) % 4; got > 1 {
		t.Errorf("animation jumped %d frames", got)
	}
	if cue.plays-plays > 1 || len(w.snaps)-snaps > 1 {
		t.Errorf("quacks=%d snapshots=%d in one frame", cue.plays-plays, len(w.snaps)-snaps)
	}
	if got := w.snaps[len(w.snaps)-1].ElapsedSeconds; got < 3600 {
		t.Errorf("status reports %ds neglect, want the late clock", got)
	}
}
