// Package geometry tracks the extent of items along the scroll axis.
//
// In fixed mode every item has the same size and positions are simple
// multiplication. In dynamic mode each item carries its own size and the
// model keeps prefix-sum offsets in logical order. Reads are expressed in
// physical render positions; in reverse mode physical position p holds logical
// index N-1-p, so its offsets are mirrored against the total extent.
package geometry

import "sort"

// Offset is the placement of one item along the axis.
type Offset struct {
	Size   int
	Top    int
	Bottom int
}

// Model is the size model for one list.
type Model struct {
	ViewportExtent int
	ItemSize       int // fixed mode
	MinItemSize    int // dynamic mode, smallest computed size
	ScrollExtent   int
	ChunkSize      int

	Dynamic bool
	Reverse bool

	length  int
	offsets []Offset // dynamic mode, logical order
}

// Reset overwrites m with initial. The offsets of initial are shared, not
// copied.
func Reset(m *Model, initial Model) {
	*m = initial
}

// Len returns the number of items the model covers.
func (m *Model) Len() int { return m.length }

// Ready reports whether positions can be read.
func (m *Model) Ready() bool {
	if m.length == 0 {
		return false
	}
	if m.Dynamic {
		return len(m.offsets) == m.length
	}
	return m.ItemSize > 0
}

// Has reports whether physical position p can be read.
func (m *Model) Has(p int) bool {
	return m.Ready() && p >= 0 && p < m.length
}

// ---------------------------------------------------------------------------
// Building
// ---------------------------------------------------------------------------

// SetFixed configures uniform geometry.
func (m *Model) SetFixed(viewportExtent, itemSize, length int) {
	m.Dynamic = false
	m.offsets = nil
	m.ViewportExtent = viewportExtent
	m.ItemSize = itemSize
	m.length = length
	m.ScrollExtent = itemSize * length
	m.ChunkSize = ceilDiv(viewportExtent, itemSize)
}

// Extend recomputes dynamic offsets for logical indices starting at from,
// keeping everything before it. sizes[k] is the size of index from+k. Offsets
// past from+len(sizes) are dropped.
func (m *Model) Extend(viewportExtent, from int, sizes []int) {
	m.Dynamic = true
	m.ViewportExtent = viewportExtent
	if from < 0 {
		from = 0
	}
	if from > len(m.offsets) {
		from = len(m.offsets)
	}
	m.offsets = m.offsets[:from]

	top := 0
	if from > 0 {
		top = m.offsets[from-1].Bottom
	}
	for _, size := range sizes {
		if size < 0 {
			size = 0
		}
		m.offsets = append(m.offsets, Offset{Size: size, Top: top, Bottom: top + size})
		top += size
	}
	m.length = len(m.offsets)

	m.MinItemSize = 0
	for i, o := range m.offsets {
		if i == 0 || o.Size < m.MinItemSize {
			m.MinItemSize = o.Size
		}
	}

	m.ScrollExtent = 0
	if m.length > 0 {
		m.ScrollExtent = m.offsets[m.length-1].Bottom
	}
	m.ChunkSize = ceilDiv(viewportExtent, m.MinItemSize)
}

// Offsets returns the dynamic offsets in logical order. The slice must not be
// modified.
func (m *Model) Offsets() []Offset { return m.offsets }

// ---------------------------------------------------------------------------
// Physical reads
// ---------------------------------------------------------------------------

// Top returns the leading edge of physical position p. Out-of-range positions
// are clamped; an unready model reads as zero.
func (m *Model) Top(p int) int {
	if !m.Ready() {
		return 0
	}
	p = m.clamp(p)
	if !m.Dynamic {
		return p * m.ItemSize
	}
	if m.Reverse {
		return m.ScrollExtent - m.offsets[m.length-1-p].Bottom
	}
	return m.offsets[p].Top
}

// Bottom returns the trailing edge of physical position p.
func (m *Model) Bottom(p int) int {
	if !m.Ready() {
		return 0
	}
	p = m.clamp(p)
	if !m.Dynamic {
		return (p + 1) * m.ItemSize
	}
	if m.Reverse {
		return m.ScrollExtent - m.offsets[m.length-1-p].Top
	}
	return m.offsets[p].Bottom
}

// FirstVisible returns the physical position of the item under position.
func (m *Model) FirstVisible(position int) int {
	if !m.Ready() || position <= 0 {
		return 0
	}
	last := m.length - 1
	if !m.Dynamic {
		return min(position/m.ItemSize, last)
	}

	// top(p) >= p*MinItemSize, so the item under position is never past the
	// guess.
	limit := m.length
	if m.MinItemSize > 0 {
		limit = min(position/m.MinItemSize+1, m.length)
	}
	p := sort.Search(limit, func(p int) bool { return m.Bottom(p) > position })
	return min(p, last)
}

// LastVisible returns the physical position of the item under the trailing
// viewport edge when first is the leading item. Fixed mode counts a whole
// chunk past first, which may reach one item beyond the edge.
func (m *Model) LastVisible(first, position int) int {
	if !m.Ready() {
		return 0
	}
	last := m.length - 1
	first = m.clamp(first)
	if !m.Dynamic {
		return min(first+m.ChunkSize, last)
	}
	edge := position + m.ViewportExtent
	k := sort.Search(m.length-first, func(k int) bool { return m.Bottom(first+k) > edge })
	return min(first+k, last)
}

func (m *Model) clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p >= m.length {
		return m.length - 1
	}
	return p
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
