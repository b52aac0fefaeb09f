package lifecycle

import "time"

// DefaultLazyDelay is how long a placeholder stays before its content is
// populated.
const DefaultLazyDelay = 150 * time.Millisecond

// Timers schedules callbacks on the host loop.
type Timers interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

type lazyEntry[H comparable] struct {
	handle H
	seq    uint64
	stop   func() bool
}

// LazyQueue holds one pending population timer per logical index.
type LazyQueue[H comparable] struct {
	timers  Timers
	delay   time.Duration
	entries map[int]lazyEntry[H]
	seq     uint64
}

// NewLazyQueue returns a queue firing after delay, or DefaultLazyDelay when
// delay is not positive.
func NewLazyQueue[H comparable](timers Timers, delay time.Duration) *LazyQueue[H] {
	if delay <= 0 {
		delay = DefaultLazyDelay
	}
	return &LazyQueue[H]{
		timers:  timers,
		delay:   delay,
		entries: make(map[int]lazyEntry[H]),
	}
}

// Schedule arms fn for index, replacing any entry already pending for it.
func (q *LazyQueue[H]) Schedule(index int, h H, fn func(index int, h H)) {
	q.Cancel(index)
	q.seq++
	seq := q.seq
	stop := q.timers.AfterFunc(q.delay, func() {
		e, ok := q.entries[index]
		if !ok || e.seq != seq {
			return
		}
		delete(q.entries, index)
		fn(index, h)
	})
	q.entries[index] = lazyEntry[H]{handle: h, seq: seq, stop: stop}
}

// Cancel stops the entry for index. It reports whether one was pending.
func (q *LazyQueue[H]) Cancel(index int) bool {
	e, ok := q.entries[index]
	if !ok {
		return false
	}
	delete(q.entries, index)
	e.stop()
	return true
}

// CancelHandle stops every entry targeting h.
func (q *LazyQueue[H]) CancelHandle(h H) int {
	n := 0
	for index, e := range q.entries {
		if e.handle == h {
			delete(q.entries, index)
			e.stop()
			n++
		}
	}
	return n
}

// CancelAll stops every pending entry.
func (q *LazyQueue[H]) CancelAll() int {
	n := len(q.entries)
	for index, e := range q.entries {
		delete(q.entries, index)
		e.stop()
	}
	return n
}

// Pending is the number of armed entries.
func (q *LazyQueue[H]) Pending() int { return len(q.entries) }
