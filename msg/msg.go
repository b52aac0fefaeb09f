// Package msg defines all tea.Msg types dispatched within the vlist terminal
// host. It has no upstream imports (ui, app) to avoid import cycles.
package msg

import "time"

// -- Host loop --

// FrameMsg fires once per display frame for the loop identified by Loop.
type FrameMsg struct {
	Loop string
	At   time.Time
}

// TimerMsg fires when a timer armed on the loop identified by Loop expires.
type TimerMsg struct {
	Loop string
	ID   int
}

// -- List events --

// BoundaryMsg reports that a scroll gesture settled on an edge of the list.
type BoundaryMsg struct {
	List string
	End  bool // false: leading edge, true: trailing edge
}

// -- Data --

// SourceLoaded carries the item count of a source, or why it could not be read.
type SourceLoaded struct {
	Total int
	Err   error
}
