package termview

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/miosa/osa-vlist/msg"
)

// DefaultFrameInterval is the frame cadence, roughly 60 fps.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop implements vlist.Scheduler on top of bubbletea. Callbacks are queued
// as commands; the owning model must forward every msg to Update and return
// Cmd from its own Update so the commands reach the runtime.
type Loop struct {
	id       string
	interval time.Duration

	frames         []func()
	frameScheduled bool

	timers    map[int]func()
	nextTimer int

	pending []tea.Cmd
}

// NewLoop returns a loop ticking at DefaultFrameInterval.
func NewLoop() *Loop {
	return &Loop{
		id:       uuid.NewString(),
		interval: DefaultFrameInterval,
		timers:   make(map[int]func()),
	}
}

// ID identifies the loop's messages.
func (l *Loop) ID() string { return l.id }

// RequestFrame queues fn for the next frame tick.
func (l *Loop) RequestFrame(fn func()) {
	l.frames = append(l.frames, fn)
	if l.frameScheduled {
		return
	}
	l.frameScheduled = true
	id := l.id
	l.pending = append(l.pending, tea.Tick(l.interval, func(t time.Time) tea.Msg {
		return msg.FrameMsg{Loop: id, At: t}
	}))
}

// AfterFunc arms a timer. Cancelled timers still deliver their message, which
// is then ignored.
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() bool {
	l.nextTimer++
	timerID := l.nextTimer
	l.timers[timerID] = fn
	id := l.id
	l.pending = append(l.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return msg.TimerMsg{Loop: id, ID: timerID}
	}))
	return func() bool {
		if _, ok := l.timers[timerID]; !ok {
			return false
		}
		delete(l.timers, timerID)
		return true
	}
}

// Update runs the callbacks a frame or timer message stands for. It reports
// whether m belonged to this loop.
func (l *Loop) Update(m tea.Msg) bool {
	switch m := m.(type) {
	case msg.FrameMsg:
		if m.Loop != l.id {
			return false
		}
		l.frameScheduled = false
		batch := l.frames
		l.frames = nil
		for _, fn := range batch {
			fn()
		}
		return true
	case msg.TimerMsg:
		if m.Loop != l.id {
			return false
		}
		fn, ok := l.timers[m.ID]
		if !ok {
			return true
		}
		delete(l.timers, m.ID)
		fn()
		return true
	}
	return false
}

// Cmd drains the commands queued since the last call.
func (l *Loop) Cmd() tea.Cmd {
	if len(l.pending) == 0 {
		return nil
	}
	cmds := l.pending
	l.pending = nil
	return tea.Batch(cmds...)
}

// Pending reports queued frame callbacks and armed timers.
func (l *Loop) Pending() (frames, timers int) {
	return len(l.frames), len(l.timers)
}
