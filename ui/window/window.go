// Package window computes which physical positions of a list must be
// materialized for a given scroll position.
package window

import (
	"github.com/miosa/osa-vlist/ui/geometry"
	"github.com/miosa/osa-vlist/ui/scroll"
)

// State is a materialized window. Indices are physical render positions and
// satisfy 0 <= Init <= FirstVisible <= End <= last when Valid.
type State struct {
	FirstVisible int
	Init         int
	End          int
	Valid        bool
}

// Empty is the state before anything has been rendered.
var Empty = State{}

// Reset overwrites s with initial.
func Reset(s *State, initial State) {
	*s = initial
}

// Contains reports whether physical position p lies inside the window.
func (s State) Contains(p int) bool {
	return s.Valid && p >= s.Init && p <= s.End
}

// Len returns the number of positions in the window.
func (s State) Len() int {
	if !s.Valid {
		return 0
	}
	return s.End - s.Init + 1
}

// Calculator derives windows from the size model.
type Calculator struct {
	Geometry   *geometry.Model
	ExtraChunk int
	Reverse    bool
}

// SafeIndex maps between logical indices and physical positions. The mapping
// is its own inverse.
func (c Calculator) SafeIndex(i int) int {
	if !c.Reverse {
		return i
	}
	return c.Geometry.Len() - 1 - i
}

// Clamp bounds i to [0, last]. An empty list clamps to 0.
func (c Calculator) Clamp(i int) int {
	last := c.Geometry.Len() - 1
	if i >= last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Compute returns the window for position, widening it by ExtraChunk on the
// side the list is travelling towards.
func (c Calculator) Compute(position int, dir scroll.Direction) State {
	if c.Geometry.Len() == 0 {
		return Empty
	}

	first := c.Clamp(c.Geometry.FirstVisible(position))

	back, forward := 0, 0
	switch dir {
	case scroll.Back:
		back = c.ExtraChunk
	case scroll.Forward:
		forward = c.ExtraChunk
	}

	return State{
		FirstVisible: first,
		Init:         c.Clamp(first - back),
		End:          c.Clamp(c.Geometry.LastVisible(first, position) + forward),
		Valid:        true,
	}
}

// ShouldSkip reports whether the previously materialized window still covers
// both viewport edges at position, so the render pass can be skipped. Several
// scroll events can be coalesced into one pass, so the direction of the last
// one says nothing about where the viewport landed.
func (c Calculator) ShouldSkip(prev State, position int, dir scroll.Direction) bool {
	if c.ExtraChunk <= 0 || !prev.Valid || dir == scroll.None {
		return false
	}
	if !c.Geometry.Has(prev.Init) || !c.Geometry.Has(prev.End) {
		return false
	}
	return position >= c.Geometry.Top(prev.Init) &&
		position+c.Geometry.ViewportExtent <= c.Geometry.Bottom(prev.End)
}
