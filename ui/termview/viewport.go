// Package termview hosts a virtual list inside a bubbletea program.
//
// Key properties:
//   - Viewport is a spacer-aware scroll container: the list keeps only the
//     visible items attached and reserves the rest of the extent with a
//     leading and a trailing spacer.
//   - Both axes are supported. On the y axis items are stacked line by line;
//     on the x axis each item is a column as wide as its widest line.
//   - Programmatic scrolling may be smooth, easing towards the target over
//     several frames of the host Scheduler.
//   - Every offset change notifies subscribers synchronously, the way a
//     scroll event would.
//   - Loop adapts the bubbletea command model to the frame/timer Scheduler
//     contract the list engine expects.
package termview

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"

	"github.com/miosa/osa-vlist/ui/vlist"
)

// DefaultWheelStep is how many cells one wheel notch scrolls.
const DefaultWheelStep = 3

// smoothDivisor controls easing: each frame covers 1/smoothDivisor of the
// remaining distance.
const smoothDivisor = 3

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Option is a functional option for NewViewport.
type Option func(*Viewport)

// WithID overrides the generated identity.
func WithID(id string) Option {
	return func(v *Viewport) { v.id = id }
}

// WithScheduler enables smooth programmatic scrolling.
func WithScheduler(s vlist.Scheduler) Option {
	return func(v *Viewport) { v.sched = s }
}

// WithWheelStep sets the cells scrolled per wheel notch.
func WithWheelStep(n int) Option {
	return func(v *Viewport) {
		if n > 0 {
			v.wheelStep = n
		}
	}
}

// WithEmptyText sets what is shown when the list has no items.
func WithEmptyText(s string) Option {
	return func(v *Viewport) { v.emptyText = s }
}

// ---------------------------------------------------------------------------
// Viewport
// ---------------------------------------------------------------------------

type subscriber struct {
	id int
	fn func()
}

// Viewport implements vlist.Viewport[*Item] for the terminal.
type Viewport struct {
	id     string
	axis   vlist.Axis
	width  int
	height int

	offset   int
	children []*Item
	leading  int
	trailing int

	subs    []subscriber
	nextSub int

	sched     vlist.Scheduler
	target    int
	animating bool

	wheelStep int
	emptyText string
	empty     bool
	scrolling bool
}

var _ vlist.Viewport[*Item] = (*Viewport)(nil)

// NewViewport returns a width×height viewport scrolling along the y axis.
func NewViewport(width, height int, opts ...Option) *Viewport {
	v := &Viewport{
		id:        uuid.NewString(),
		width:     width,
		height:    height,
		wheelStep: DefaultWheelStep,
		emptyText: "No items",
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

func (v *Viewport) ID() string { return v.id }

func (v *Viewport) SetAxis(a vlist.Axis) { v.axis = a }

func (v *Viewport) Axis() vlist.Axis { return v.axis }

// SetSize updates the dimensions and clamps the offset.
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.setOffset(v.clamp(v.offset))
}

func (v *Viewport) Width() int  { return v.width }
func (v *Viewport) Height() int { return v.height }

// SetEmpty implements vlist.EmptyMarker.
func (v *Viewport) SetEmpty(empty bool) { v.empty = empty }

// SetScrolling implements vlist.ScrollingMarker.
func (v *Viewport) SetScrolling(scrolling bool) { v.scrolling = scrolling }

func (v *Viewport) Empty() bool     { return v.empty }
func (v *Viewport) Scrolling() bool { return v.scrolling }

// ---------------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------------

func (v *Viewport) Offset() int { return v.offset }

// Extent is the visible size along the axis.
func (v *Viewport) Extent() int {
	if v.axis == vlist.AxisX {
		return v.width
	}
	return v.height
}

// ScrollSize is the full scrollable size: spacers plus attached children.
func (v *Viewport) ScrollSize() int {
	total := v.leading + v.trailing
	for _, it := range v.children {
		total += v.Measure(it)
	}
	return total
}

// MaxOffset is the largest reachable offset.
func (v *Viewport) MaxOffset() int {
	return max(v.ScrollSize()-v.Extent(), 0)
}

// Measure returns the item's extent along the axis: its declared size, or
// its line count (y) or widest line (x).
func (v *Viewport) Measure(it *Item) int {
	if size, ok := it.DeclaredSize(); ok {
		return size
	}
	if v.axis == vlist.AxisX {
		return lipgloss.Width(it.content)
	}
	return lipgloss.Height(it.content)
}

func (v *Viewport) SetSpacers(leading, trailing int) {
	v.leading = max(leading, 0)
	v.trailing = max(trailing, 0)
}

// Spacers returns the reserved leading and trailing space.
func (v *Viewport) Spacers() (leading, trailing int) {
	return v.leading, v.trailing
}

// ---------------------------------------------------------------------------
// Children
// ---------------------------------------------------------------------------

// Children returns the attached items in render order.
func (v *Viewport) Children() []*Item {
	out := make([]*Item, len(v.children))
	copy(out, v.children)
	return out
}

func (v *Viewport) Prepend(items ...*Item) {
	v.children = append(append(make([]*Item, 0, len(items)+len(v.children)), items...), v.children...)
}

func (v *Viewport) Append(items ...*Item) {
	v.children = append(v.children, items...)
}

func (v *Viewport) Remove(it *Item) {
	for i, c := range v.children {
		if c == it {
			v.children = append(v.children[:i], v.children[i+1:]...)
			return
		}
	}
}

// ---------------------------------------------------------------------------
// Scroll
// ---------------------------------------------------------------------------

// Subscribe registers fn for offset changes. Capture/passive flags have no
// meaning in a terminal and are ignored.
func (v *Viewport) Subscribe(fn func(), _ vlist.EventOptions) func() {
	v.nextSub++
	id := v.nextSub
	v.subs = append(v.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

// ScrollTo moves to offset, clamped to the scrollable range. smooth eases
// over frames when a scheduler is configured.
func (v *Viewport) ScrollTo(offset int, smooth bool) {
	offset = v.clamp(offset)
	if !smooth || v.sched == nil {
		v.animating = false
		v.setOffset(offset)
		return
	}
	v.target = offset
	if !v.animating {
		v.animating = true
		v.sched.RequestFrame(v.step)
	}
}

// ScrollBy moves by delta cells.
func (v *Viewport) ScrollBy(delta int) {
	v.ScrollTo(v.offset+delta, false)
}

// Animating reports whether a smooth scroll is in progress.
func (v *Viewport) Animating() bool { return v.animating }

func (v *Viewport) step() {
	if !v.animating {
		return
	}
	diff := v.target - v.offset
	move := diff / smoothDivisor
	if move == 0 {
		move = sign(diff)
	}
	before := v.offset
	v.setOffset(v.offset + move)
	if v.offset == v.target || v.offset == before {
		v.animating = false
		return
	}
	v.sched.RequestFrame(v.step)
}

func (v *Viewport) setOffset(offset int) {
	offset = max(offset, 0)
	if offset == v.offset {
		return
	}
	v.offset = offset
	for _, s := range append([]subscriber(nil), v.subs...) {
		s.fn()
	}
}

func (v *Viewport) clamp(offset int) int {
	return max(min(offset, v.MaxOffset()), 0)
}

// ---------------------------------------------------------------------------
// Update (bubbletea)
// ---------------------------------------------------------------------------

// Update handles mouse wheel events for scrolling. Callers forward whichever
// tea.Msg events they want the viewport to respond to.
func (v *Viewport) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.MouseWheelMsg); ok {
		switch msg.Button {
		case tea.MouseWheelUp, tea.MouseWheelLeft:
			v.ScrollBy(-v.wheelStep)
		case tea.MouseWheelDown, tea.MouseWheelRight:
			v.ScrollBy(v.wheelStep)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the visible part of the scroll area. Spacers render as blank
// space; attached items are clipped to the viewport.
func (v *Viewport) View() string {
	if v.height <= 0 || v.width <= 0 {
		return ""
	}
	if v.empty && len(v.children) == 0 {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, v.emptyText)
	}
	if v.axis == vlist.AxisX {
		return v.viewColumns()
	}
	return v.viewRows()
}

// visibleOffset is the offset clamped to the current scroll size. The stored
// offset is left alone so a render pass that briefly shrinks the content
// does not lose the position.
func (v *Viewport) visibleOffset() int {
	return v.clamp(v.offset)
}

// viewRows renders the y axis: items stacked top to bottom.
func (v *Viewport) viewRows() string {
	off := v.visibleOffset()
	end := off + v.height
	lines := make([]string, 0, v.height)

	for y := off; y < min(v.leading, end); y++ {
		lines = append(lines, "")
	}

	pos := v.leading
	for _, it := range v.children {
		if pos >= end {
			break
		}
		size := v.Measure(it)
		if pos+size <= off {
			pos += size
			continue
		}
		itemLines := fitLines(splitLines(it.content), size)
		for j, line := range itemLines {
			y := pos + j
			if y >= off && y < end {
				lines = append(lines, ansi.Truncate(line, v.width, ""))
			}
		}
		pos += size
	}

	for len(lines) < v.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// viewColumns renders the x axis: items side by side, each as wide as its
// extent.
func (v *Viewport) viewColumns() string {
	off := v.visibleOffset()
	end := off + v.width

	type column struct {
		lines []string
		width int
	}
	var cols []column
	base := -1

	pos := v.leading
	for _, it := range v.children {
		if pos >= end {
			break
		}
		size := v.Measure(it)
		if pos+size <= off {
			pos += size
			continue
		}
		if base < 0 {
			base = pos
		}
		cols = append(cols, column{lines: fitLines(splitLines(it.content), v.height), width: size})
		pos += size
	}

	rows := make([]string, v.height)
	if base < 0 {
		return strings.Join(rows, "\n")
	}
	prefix := ""
	if off < base {
		prefix = strings.Repeat(" ", base-off)
		base = off
	}
	for r := range rows {
		var b strings.Builder
		b.WriteString(prefix)
		for _, c := range cols {
			b.WriteString(padCell(c.lines[r], c.width))
		}
		rows[r] = strings.TrimRight(ansi.Cut(b.String(), off-base, end-base), " ")
	}
	return strings.Join(rows, "\n")
}

// fitLines pads or clips lines to exactly n entries.
func fitLines(lines []string, n int) []string {
	if len(lines) >= n {
		return lines[:n]
	}
	out := make([]string, n)
	copy(out, lines)
	return out
}

// padCell clips s to width cells and pads it with spaces to exactly width.
func padCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// VisibleItems returns the attached items that intersect the visible area,
// in render order.
func (v *Viewport) VisibleItems() []*Item {
	off := v.visibleOffset()
	end := off + v.Extent()
	var out []*Item
	pos := v.leading
	for _, it := range v.children {
		size := v.Measure(it)
		if pos < end && pos+size > off {
			out = append(out, it)
		}
		pos += size
	}
	return out
}

// ItemOffsets returns the leading edge of every attached item along the
// axis, in render order.
func (v *Viewport) ItemOffsets() []int {
	out := make([]int, 0, len(v.children))
	pos := v.leading
	for _, it := range v.children {
		out = append(out, pos)
		pos += v.Measure(it)
	}
	return out
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// Subscribers is the number of registered scroll listeners.
func (v *Viewport) Subscribers() int { return len(v.subs) }
