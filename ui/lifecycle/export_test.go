package lifecycle

func (s *Store[H]) Has(index int) bool {
	_, ok := s.items[index]
	return ok
}

func (s *Store[H]) Delete(index int) { delete(s.items, index) }

// Remove drops h from the pool. It reports whether h was pooled.
func (r *Recycler[H]) Remove(h H) bool {
	for i, p := range r.pool {
		if p == h {
			r.pool = append(r.pool[:i], r.pool[i+1:]...)
			return true
		}
	}
	return false
}

// Pooled reports whether h is waiting in the reuse pool.
func (m *Manager[H]) Pooled(h H) bool { return m.pool.Contains(h) }

func (m *Manager[H]) PoolLen() int { return m.pool.Len() }

// Forget releases h regardless of mode.
func (m *Manager[H]) Forget(h H) {
	m.pool.Remove(h)
	if meta, ok := m.meta[h]; ok {
		if cur, ok := m.store.Get(meta.Index); ok && cur == h {
			m.store.Delete(meta.Index)
		}
	}
	m.drop(h)
}

// PendingFor reports whether index has an armed entry.
func (q *LazyQueue[H]) PendingFor(index int) bool {
	_, ok := q.entries[index]
	return ok
}
