// Package vlisttest provides a deterministic host loop for exercising the
// virtual list engine without a terminal.
package vlisttest

import (
	"sort"
	"time"
)

// Scheduler is a manual frame/timer loop driven by a virtual clock. Frame
// callbacks queued while frames run are deferred to the next frame, the way a
// display refresh would.
type Scheduler struct {
	now    time.Duration
	frames []func()
	timers []*timer
	seq    int

	// FrameInterval is how far the clock moves per frame. Defaults to 16ms.
	FrameInterval time.Duration
}

type timer struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// NewScheduler returns an idle scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{FrameInterval: 16 * time.Millisecond}
}

// Now returns the virtual time.
func (s *Scheduler) Now() time.Duration { return s.now }

// RequestFrame queues fn for the next frame.
func (s *Scheduler) RequestFrame(fn func()) {
	s.frames = append(s.frames, fn)
}

// AfterFunc schedules fn at now+d.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.seq++
	t := &timer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return func() bool {
		if t.cancelled || t.fn == nil {
			return false
		}
		t.cancelled = true
		return true
	}
}

// PendingFrames reports queued frame callbacks.
func (s *Scheduler) PendingFrames() int { return len(s.frames) }

// PendingTimers reports timers that have neither fired nor been cancelled.
func (s *Scheduler) PendingTimers() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled && t.fn != nil {
			n++
		}
	}
	return n
}

// Frame runs the callbacks queued before the call and advances the clock by
// one frame interval. It returns how many callbacks ran.
func (s *Scheduler) Frame() int {
	batch := s.frames
	s.frames = nil
	for _, fn := range batch {
		fn()
	}
	s.Advance(s.FrameInterval)
	return len(batch)
}

// Advance moves the clock forward by d, firing due timers in order.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.at
		fn := t.fn
		t.fn = nil
		fn()
	}
	s.now = target
	s.compact()
}

// Settle alternates frames and timers until nothing is pending. It reports
// false if the loop did not quiesce within a bounded number of steps.
func (s *Scheduler) Settle() bool {
	for i := 0; i < 10000; i++ {
		if len(s.frames) > 0 {
			s.Frame()
			continue
		}
		t := s.nextDue(1<<62 - 1)
		if t == nil {
			return true
		}
		s.Advance(t.at - s.now)
	}
	return false
}

func (s *Scheduler) nextDue(limit time.Duration) *timer {
	var due []*timer
	for _, t := range s.timers {
		if !t.cancelled && t.fn != nil && t.at <= limit {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (s *Scheduler) compact() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled && t.fn != nil {
			live = append(live, t)
		}
	}
	s.timers = live
}
