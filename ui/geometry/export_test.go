package geometry

// Logical returns the offsets of logical index i.
func (m *Model) Logical(i int) (Offset, bool) {
	if !m.Dynamic {
		if i < 0 || i >= m.length || m.ItemSize <= 0 {
			return Offset{}, false
		}
		return Offset{Size: m.ItemSize, Top: i * m.ItemSize, Bottom: (i + 1) * m.ItemSize}, true
	}
	if i < 0 || i >= len(m.offsets) {
		return Offset{}, false
	}
	return m.offsets[i], true
}

// FirstVisibleLinear is the reference scan the binary search replaces: walk
// back from the size-based guess until an item starts before position.
func (m *Model) FirstVisibleLinear(position int) int {
	if !m.Ready() || position <= 0 {
		return 0
	}
	if !m.Dynamic {
		return m.FirstVisible(position)
	}
	guess := m.length - 1
	if m.MinItemSize > 0 {
		guess = min(position/m.MinItemSize, m.length-1)
	}
	for p := guess; p >= 0; p-- {
		if m.Top(p) <= position && m.Bottom(p) > position {
			return p
		}
		if m.Bottom(p) <= position {
			return min(p+1, m.length-1)
		}
	}
	return 0
}
