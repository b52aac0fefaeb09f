// Package scroll turns raw, high-frequency scroll notifications into a
// start/scroll/stop state machine with direction and magnitude.
//
// The tracker is idle until the first notification arrives. Every
// notification restarts a debounce timer; when the timer expires without a
// new notification the gesture is considered finished and the tracker emits a
// stop, followed by boundary events when the position rests on either edge of
// the scrollable range.
package scroll

import (
	"log/slog"
	"time"
)

// DefaultEndTimeout is the quiet period after which a gesture is considered
// finished.
const DefaultEndTimeout = 100 * time.Millisecond

// ---------------------------------------------------------------------------
// State
// ---------------------------------------------------------------------------

// Direction is the travel direction of a scroll gesture.
type Direction int

const (
	None    Direction = iota // no movement observed yet
	Forward                  // position increased
	Back                     // position decreased
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Back:
		return "back"
	default:
		return "none"
	}
}

// State is a snapshot of the tracker.
//
// Delta is previous minus current position, so a positive delta means the
// position decreased.
type State struct {
	Position       int
	Delta          int
	DeltaMagnitude int
	Direction      Direction
	Scrolling      bool
}

// Reset overwrites state with initial.
func Reset(state *State, initial State) {
	*state = initial
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Timers schedules a callback on the host loop. The returned stop func
// cancels it and reports whether it was still pending.
type Timers interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// Handlers receive the tracker's events. Nil handlers are skipped.
type Handlers struct {
	OnStart        func(State)
	OnScroll       func(State)
	OnStop         func(State)
	OnBoundaryInit func()
	OnBoundaryEnd  func()
}

// Option is a functional option for New.
type Option func(*Tracker)

// WithEndTimeout overrides DefaultEndTimeout. Non-positive values are ignored.
func WithEndTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.endTimeout = d
		}
	}
}

// WithHandlers installs the event handlers.
func WithHandlers(h Handlers) Option {
	return func(t *Tracker) { t.handlers = h }
}

// WithLogger enables debug logging of start/stop transitions.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// ---------------------------------------------------------------------------
// Tracker
// ---------------------------------------------------------------------------

// Tracker is the scroll state machine. It is not safe for concurrent use; all
// calls and timer callbacks must run on the host loop.
type Tracker struct {
	position    func() int
	maxPosition func() int
	timers      Timers

	endTimeout time.Duration
	handlers   Handlers
	log        *slog.Logger

	state    State
	previous int

	// stopTimer is non-nil while a gesture is in progress.
	stopTimer func() bool
}

// New constructs a Tracker. position reads the authoritative scroll offset
// and maxPosition the largest reachable offset.
func New(position, maxPosition func() int, timers Timers, opts ...Option) *Tracker {
	t := &Tracker{
		position:    position,
		maxPosition: maxPosition,
		timers:      timers,
		endTimeout:  DefaultEndTimeout,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// State returns the current snapshot.
func (t *Tracker) State() State { return t.state }

// Active reports whether a gesture is in progress.
func (t *Tracker) Active() bool { return t.stopTimer != nil }

// OnRawScroll must be called by the host on every scroll notification.
func (t *Tracker) OnRawScroll() {
	if t.stopTimer == nil {
		t.start()
	} else {
		t.scroll()
		t.stopTimer()
	}
	t.stopTimer = t.timers.AfterFunc(t.endTimeout, t.stop)
}

// Destroy cancels a pending stop. The tracker may be reused afterwards.
func (t *Tracker) Destroy() {
	if t.stopTimer != nil {
		t.stopTimer()
		t.stopTimer = nil
	}
	t.state.Scrolling = false
}

func (t *Tracker) start() {
	pos := t.position()
	Reset(&t.state, State{Position: pos, Scrolling: true})
	t.previous = pos

	if t.log != nil {
		t.log.Debug("scroll start", "position", pos)
	}
	if t.handlers.OnStart != nil {
		t.handlers.OnStart(t.state)
	}
}

func (t *Tracker) scroll() {
	pos := t.position()
	delta := t.previous - pos

	t.state.Position = pos
	t.state.Delta = delta
	t.state.DeltaMagnitude = abs(delta)
	switch {
	case delta < 0:
		t.state.Direction = Forward
	case delta > 0:
		t.state.Direction = Back
	}
	t.previous = pos

	if t.handlers.OnScroll != nil {
		t.handlers.OnScroll(t.state)
	}
}

func (t *Tracker) stop() {
	t.stopTimer = nil

	pos := t.position()
	Reset(&t.state, State{Position: pos})
	t.previous = pos

	if t.log != nil {
		t.log.Debug("scroll stop", "position", pos)
	}
	if t.handlers.OnStop != nil {
		t.handlers.OnStop(t.state)
	}

	if pos == 0 && t.handlers.OnBoundaryInit != nil {
		t.handlers.OnBoundaryInit()
	}
	if pos == t.maxPosition() && t.handlers.OnBoundaryEnd != nil {
		t.handlers.OnBoundaryEnd()
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
