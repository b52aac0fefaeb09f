package app

import "github.com/miosa/osa-vlist/ui/vlist"

const (
	// Metrics panel sizing bounds.
	panelMinWidth = 30
	panelMaxWidth = 38

	// Minimum list pane width; below it the panel is hidden.
	listMinWidth = 30

	// minPanelWidth is the minimum terminal width that fits the panel.
	minPanelWidth = panelMinWidth + listMinWidth
)

// Layout holds computed dimensions for the current frame.
type Layout struct {
	TermWidth    int
	TermHeight   int
	HeaderHeight int // title line + separator
	StatusHeight int // status line + help line
	ListWidth    int // list viewport, scrollbar excluded
	ListHeight   int
	BarSize      int // 1 when a scrollbar is drawn
	PanelWidth   int // 0 when the metrics panel is hidden
}

// ComputeLayout calculates the layout dimensions based on terminal size.
//
//   - The metrics panel takes about a quarter of the width, clamped between
//     panelMinWidth and panelMaxWidth, and is dropped on narrow terminals.
//   - A vertical list reserves one column for its scrollbar; a horizontal
//     list reserves one row.
func ComputeLayout(termW, termH int, showPanel bool, axis vlist.Axis) Layout {
	l := Layout{
		TermWidth:    termW,
		TermHeight:   termH,
		HeaderHeight: 2,
		StatusHeight: 2,
		BarSize:      1,
	}

	if showPanel && termW >= minPanelWidth {
		pw := termW / 4
		pw = max(pw, panelMinWidth)
		pw = min(pw, panelMaxWidth)
		l.PanelWidth = pw
	}

	l.ListWidth = max(termW-l.PanelWidth, 1)
	l.ListHeight = max(termH-l.HeaderHeight-l.StatusHeight, 1)
	if axis == vlist.AxisY {
		l.ListWidth = max(l.ListWidth-l.BarSize, 1)
	} else {
		l.ListHeight = max(l.ListHeight-l.BarSize, 1)
	}
	return l
}
