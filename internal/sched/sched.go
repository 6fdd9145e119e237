// Package sched is a single-threaded timer queue driven by an explicit clock.
//
// Handlers never run concurrently. The game loop calls Run with the wall
// clock every frame; tests call it with a virtual time instead.
package sched

import (
	"container/heap"
	"time"
)

// Handler is a scheduled callback. It must return quickly.
type Handler func()

type timer struct {
	at  time.Time
	seq uint64
	fn  Handler
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Scheduler owns the virtual "now" and the pending timers.
type Scheduler struct {
	now    time.Time
	seq    uint64
	timers timerHeap
}

// New creates a scheduler whose clock starts at start.
func New(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

// Now returns the scheduler clock. Inside a handler it is the time Run was called with.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After schedules fn to fire d after the current clock.
func (s *Scheduler) After(d time.Duration, fn Handler) {
	if d < 0 {
		d = 0
	}
	s.seq++
	heap.Push(&s.timers, &timer{at: s.now.Add(d), seq: s.seq, fn: fn})
}

// Pending reports how many timers are waiting.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Run moves the clock to until, then fires every timer due at or before it
// in (fire time, insertion) order. Handlers see until as Now, so a loop that
// reschedules itself fires at most once per Run no matter how late it is.
// Timers scheduled by a handler with a zero delay still fire within the call.
func (s *Scheduler) Run(until time.Time) int {
	if until.After(s.now) {
		s.now = until
	}
	fired := 0
	for len(s.timers) > 0 {
		next := s.timers[0]
		if next.at.After(s.now) {
			break
		}
		heap.Pop(&s.timers)
		next.fn()
		fired++
	}
	return fired
}

// Advance is Run(Now() + d).
func (s *Scheduler) Advance(d time.Duration) int {
	return s.Run(s.now.Add(d))
}
