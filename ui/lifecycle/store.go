package lifecycle

import (
	"math"
	"sort"
)

// ---------------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------------

// Store maps logical indices to persisted handles.
type Store[H comparable] struct {
	items map[int]H
}

// NewStore returns an empty store.
func NewStore[H comparable]() *Store[H] {
	return &Store[H]{items: make(map[int]H)}
}

func (s *Store[H]) Get(index int) (H, bool) {
	h, ok := s.items[index]
	return h, ok
}

func (s *Store[H]) Set(index int, h H) { s.items[index] = h }

func (s *Store[H]) Len() int { return len(s.items) }

// DeleteFrom removes every index >= from and returns the removed handles in
// index order.
func (s *Store[H]) DeleteFrom(from int) []H {
	var idx []int
	for i := range s.items {
		if i >= from {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	out := make([]H, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.items[i])
		delete(s.items, i)
	}
	return out
}

// Flush empties the store and returns its handles in index order.
func (s *Store[H]) Flush() []H {
	return s.DeleteFrom(math.MinInt)
}

// ---------------------------------------------------------------------------
// Recycler
// ---------------------------------------------------------------------------

// Recycler is a pool of detached handles. Handles are reused in the order
// they were pushed.
type Recycler[H comparable] struct {
	pool []H
}

// Push adds h unless it is already pooled. It reports whether h was added.
func (r *Recycler[H]) Push(h H) bool {
	if r.Contains(h) {
		return false
	}
	r.pool = append(r.pool, h)
	return true
}

// Pop takes the oldest pooled handle.
func (r *Recycler[H]) Pop() (H, bool) {
	var zero H
	if len(r.pool) == 0 {
		return zero, false
	}
	h := r.pool[0]
	r.pool[0] = zero
	r.pool = r.pool[1:]
	return h, true
}

func (r *Recycler[H]) Contains(h H) bool {
	for _, p := range r.pool {
		if p == h {
			return true
		}
	}
	return false
}

func (r *Recycler[H]) Len() int { return len(r.pool) }

// Flush empties the pool and returns its handles.
func (r *Recycler[H]) Flush() []H {
	out := r.pool
	r.pool = nil
	return out
}
