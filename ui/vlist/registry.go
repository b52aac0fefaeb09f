package vlist

import (
	"log/slog"

	"github.com/miosa/osa-vlist/logger"
)

// Registry tracks the lists created through it by viewport identity, so a
// viewport is never managed twice.
type Registry[H comparable] struct {
	lists map[string]*List[H]
	log   *slog.Logger
}

// NewRegistry returns an empty registry. A nil logger falls back to logger.L.
func NewRegistry[H comparable](log *slog.Logger) *Registry[H] {
	if log == nil {
		log = logger.L
	}
	return &Registry[H]{lists: make(map[string]*List[H]), log: log}
}

// Manage creates a list for vp, or returns the existing one when vp is
// already managed.
func (r *Registry[H]) Manage(vp Viewport[H], sched Scheduler, opts Options, cb Callbacks[H]) (*List[H], error) {
	if vp != nil {
		if l, ok := r.lists[vp.ID()]; ok {
			r.log.Debug("viewport already managed", "list", vp.ID())
			return l, nil
		}
	}

	l, err := New(vp, sched, opts, cb)
	if err != nil {
		return nil, err
	}
	id := vp.ID()
	r.lists[id] = l
	l.onDestroy = func() {
		if r.lists[id] == l {
			delete(r.lists, id)
		}
	}
	return l, nil
}

// Lookup returns the list managing the viewport with id.
func (r *Registry[H]) Lookup(id string) (*List[H], bool) {
	l, ok := r.lists[id]
	return l, ok
}

// Len is the number of managed viewports.
func (r *Registry[H]) Len() int { return len(r.lists) }

// DestroyAll destroys every managed list.
func (r *Registry[H]) DestroyAll() {
	for _, l := range r.lists {
		l.Destroy()
	}
}
