package window

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miosa/osa-vlist/ui/geometry"
	"github.com/miosa/osa-vlist/ui/scroll"
)

func fixedCalc(viewport, itemSize, length, extra int) Calculator {
	g := &geometry.Model{}
	g.SetFixed(viewport, itemSize, length)
	return Calculator{Geometry: g, ExtraChunk: extra}
}

func TestSafeIndex(t *testing.T) {
	c := fixedCalc(10, 2, 5, 0)
	assert.Equal(t, 3, c.SafeIndex(3))

	c.Reverse = true
	assert.Equal(t, 4, c.SafeIndex(0))
	assert.Equal(t, 0, c.SafeIndex(4))
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, c.SafeIndex(c.SafeIndex(i)))
	}
}

func TestClamp(t *testing.T) {
	c := fixedCalc(10, 2, 5, 0)
	assert.Equal(t, 0, c.Clamp(-3))
	assert.Equal(t, 4, c.Clamp(99))

	empty := fixedCalc(10, 2, 0, 0)
	assert.Equal(t, 0, empty.Clamp(7))
}

func TestCompute_Fixed(t *testing.T) {
	c := fixedCalc(10, 2, 50, 5)

	tests := []struct {
		name string
		dir  scroll.Direction
		want State
	}{
		{name: "idle", dir: scroll.None, want: State{FirstVisible: 10, Init: 10, End: 15, Valid: true}},
		{name: "forward widens end", dir: scroll.Forward, want: State{FirstVisible: 10, Init: 10, End: 20, Valid: true}},
		{name: "back widens init", dir: scroll.Back, want: State{FirstVisible: 10, Init: 5, End: 15, Valid: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Compute(20, tt.dir))
		})
	}
}

func TestCompute_ClampsAtEdges(t *testing.T) {
	c := fixedCalc(10, 2, 12, 5)

	top := c.Compute(0, scroll.Back)
	assert.Equal(t, 0, top.Init)

	bottom := c.Compute(c.Geometry.ScrollExtent, scroll.Forward)
	assert.Equal(t, 11, bottom.End)
	assert.Equal(t, 11, bottom.FirstVisible)
}

func TestCompute_EmptyList(t *testing.T) {
	c := fixedCalc(10, 2, 0, 5)
	assert.Equal(t, Empty, c.Compute(40, scroll.Forward))
	assert.Equal(t, 0, Empty.Len())
}

func TestCompute_InvariantHoldsEverywhere(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sizes := make([]int, 60)
	for i := range sizes {
		sizes[i] = 1 + rng.Intn(4)
	}

	for _, reverse := range []bool{false, true} {
		g := &geometry.Model{Reverse: reverse}
		g.Extend(12, 0, sizes)
		c := Calculator{Geometry: g, ExtraChunk: 4, Reverse: reverse}
		last := g.Len() - 1

		for pos := 0; pos <= g.ScrollExtent; pos++ {
			for _, dir := range []scroll.Direction{scroll.None, scroll.Forward, scroll.Back} {
				w := c.Compute(pos, dir)
				require.True(t, w.Valid)
				require.True(t, 0 <= w.Init && w.Init <= w.FirstVisible && w.FirstVisible <= w.End && w.End <= last,
					"reverse=%v pos=%d dir=%s window=%+v", reverse, pos, dir, w)
			}
		}
	}
}

func TestCompute_DynamicCoversViewport(t *testing.T) {
	g := &geometry.Model{}
	g.Extend(5, 0, []int{2, 2, 2, 2, 2, 2})
	c := Calculator{Geometry: g}

	w := c.Compute(3, scroll.None)
	assert.Equal(t, 1, w.FirstVisible)
	assert.LessOrEqual(t, g.Top(w.Init), 3)
	assert.GreaterOrEqual(t, g.Bottom(w.End), 3+5)
}

func TestState_Contains(t *testing.T) {
	w := State{Init: 3, FirstVisible: 4, End: 6, Valid: true}
	assert.True(t, w.Contains(3))
	assert.True(t, w.Contains(6))
	assert.False(t, w.Contains(7))
	assert.Equal(t, 4, w.Len())
	assert.False(t, State{}.Contains(0))
}

func TestShouldSkip(t *testing.T) {
	c := fixedCalc(10, 2, 50, 5)

	fwd := c.Compute(20, scroll.Forward) // [10, 20], bottom(20) = 42
	back := c.Compute(40, scroll.Back)   // [15, 25], top(15) = 30

	tests := []struct {
		name string
		prev State
		pos  int
		dir  scroll.Direction
		want bool
	}{
		{name: "forward inside buffer", prev: fwd, pos: 30, dir: scroll.Forward, want: true},
		{name: "forward buffer exhausted", prev: fwd, pos: 33, dir: scroll.Forward, want: false},
		{name: "back inside buffer", prev: back, pos: 32, dir: scroll.Back, want: true},
		{name: "back buffer exhausted", prev: back, pos: 28, dir: scroll.Back, want: false},
		{name: "no direction", prev: fwd, pos: 22, dir: scroll.None, want: false},
		{name: "no previous window", prev: Empty, pos: 22, dir: scroll.Forward, want: false},
		{name: "forward behind window", prev: fwd, pos: 18, dir: scroll.Forward, want: false},
		{name: "back past window", prev: back, pos: 45, dir: scroll.Back, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ShouldSkip(tt.prev, tt.pos, tt.dir))
		})
	}
}

func TestShouldSkip_NoExtraChunk(t *testing.T) {
	c := fixedCalc(10, 2, 50, 0)
	prev := c.Compute(20, scroll.None)
	assert.False(t, c.ShouldSkip(prev, 20, scroll.Forward))
}

// A single jump that travels past the whole prefetch buffer in the direction
// of travel must re-render.
func TestShouldSkip_LargeJumpPastBuffer(t *testing.T) {
	c := fixedCalc(10, 2, 500, 5)
	prev := c.Compute(20, scroll.Forward)

	assert.False(t, c.ShouldSkip(prev, 600, scroll.Forward))

	prev = c.Compute(600, scroll.Back)
	assert.False(t, c.ShouldSkip(prev, 20, scroll.Back))
}

// Coalesced events can end on a step against the jump that moved the
// viewport; the window must cover both edges whatever the last direction.
func TestShouldSkip_DirectionReversedWithinFrame(t *testing.T) {
	c := fixedCalc(10, 2, 500, 5)
	prev := c.Compute(202, scroll.Forward) // [101, 111]

	assert.False(t, c.ShouldSkip(prev, 46, scroll.Forward))
	assert.False(t, c.ShouldSkip(prev, 300, scroll.Back))
	assert.True(t, c.ShouldSkip(prev, 204, scroll.Back))
}
