package lifecycle

// RenderFunc produces the handle for a logical index. recycled is a pooled
// handle to reuse (the zero value when none), deltaMagnitude the current
// scroll speed so the renderer can choose a placeholder.
type RenderFunc[H comparable] func(index int, recycled H, deltaMagnitude int) H

// SizeDeclarer is implemented by handles that know their own extent along
// the scroll axis, sparing the engine a measurement.
type SizeDeclarer interface {
	DeclaredSize() (size int, ok bool)
}

// Meta is what the engine knows about a handle.
type Meta struct {
	Index    int
	Size     int
	Declared bool
}

// Counters track handle production since the last flush.
type Counters struct {
	Created  int
	Recycled int
	Rendered int
}

// Manager applies a Mode's policy to handles produced by a RenderFunc.
type Manager[H comparable] struct {
	mode    Mode
	render  RenderFunc[H]
	release func(H)

	store    *Store[H]
	pool     Recycler[H]
	meta     map[H]Meta
	counters Counters
}

// NewManager returns a manager for mode. render may be nil in Declarative
// mode; release may be nil when the host has nothing to free.
func NewManager[H comparable](mode Mode, render RenderFunc[H], release func(H)) *Manager[H] {
	return &Manager[H]{
		mode:    mode,
		render:  render,
		release: release,
		store:   NewStore[H](),
		meta:    make(map[H]Meta),
	}
}

func (m *Manager[H]) Mode() Mode { return m.mode }

// Render returns the handle for index. Persisted handles are returned
// unchanged without touching the counters. ok is false only when nothing can
// produce a handle (Declarative mode with no content for index).
func (m *Manager[H]) Render(index, deltaMagnitude int) (h H, ok bool) {
	if m.mode.Persists() {
		if h, ok := m.store.Get(index); ok {
			return h, true
		}
	}
	if m.render == nil {
		return h, false
	}

	var pooled H
	fromPool := false
	if m.mode == Recycle {
		pooled, fromPool = m.pool.Pop()
	}
	if fromPool {
		m.counters.Recycled++
	} else {
		m.counters.Created++
	}
	m.counters.Rendered++

	h = m.render(index, pooled, deltaMagnitude)
	if fromPool && h != pooled {
		// The renderer replaced the pooled handle; the old one is ours to free.
		m.drop(pooled)
	}
	m.tag(index, h)
	if m.mode.Persists() {
		m.store.Set(index, h)
	}
	return h, true
}

// Adopt registers a host-supplied handle for index.
func (m *Manager[H]) Adopt(index int, h H) {
	m.tag(index, h)
	m.store.Set(index, h)
}

// Detach applies the scroll-out policy to a handle removed from the viewport.
func (m *Manager[H]) Detach(h H) {
	switch m.mode {
	case Recreate:
		m.drop(h)
	case Recycle:
		m.pool.Push(h)
	}
}

// Meta returns the side-table entry for h.
func (m *Manager[H]) Meta(h H) (Meta, bool) {
	meta, ok := m.meta[h]
	return meta, ok
}

// SetSize records a measured size for h. Declared sizes are kept.
func (m *Manager[H]) SetSize(h H, size int) {
	meta, ok := m.meta[h]
	if !ok || meta.Declared {
		return
	}
	meta.Size = size
	m.meta[h] = meta
}

// Cached returns the persisted handle for index.
func (m *Manager[H]) Cached(index int) (H, bool) {
	return m.store.Get(index)
}

// Evict drops persisted handles at index >= from and releases them. Handles
// the renderer produced leave the counters with them.
func (m *Manager[H]) Evict(from int) int {
	gone := m.store.DeleteFrom(from)
	for _, h := range gone {
		m.drop(h)
	}
	if m.mode == Cache {
		m.counters.Rendered = max(m.counters.Rendered-len(gone), 0)
		m.counters.Created = max(m.counters.Created-len(gone), 0)
	}
	return len(gone)
}

// Flush releases every persisted and pooled handle and resets the counters.
// Handles still attached to the viewport must be detached first.
func (m *Manager[H]) Flush() {
	for _, h := range m.store.Flush() {
		m.drop(h)
	}
	for _, h := range m.pool.Flush() {
		m.drop(h)
	}
	m.counters = Counters{}
}

func (m *Manager[H]) Counters() Counters { return m.counters }

// CacheLen is the number of persisted handles.
func (m *Manager[H]) CacheLen() int { return m.store.Len() }

func (m *Manager[H]) tag(index int, h H) {
	meta := Meta{Index: index}
	if d, ok := any(h).(SizeDeclarer); ok {
		if size, ok := d.DeclaredSize(); ok {
			meta.Size = size
			meta.Declared = true
		}
	}
	m.meta[h] = meta
}

func (m *Manager[H]) drop(h H) {
	if _, ok := m.meta[h]; !ok {
		return
	}
	delete(m.meta, h)
	if m.release != nil {
		m.release(h)
	}
}
