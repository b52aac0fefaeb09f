package vlist

import "time"

// Viewport is the scroll container a List drives. Offsets and sizes are in
// the host's native unit (terminal cells for termview) along the configured
// axis.
type Viewport[H comparable] interface {
	// ID is a stable identity; lists are registered under it.
	ID() string
	SetAxis(Axis)

	Offset() int
	Extent() int
	ScrollSize() int
	ScrollTo(offset int, smooth bool)

	// Measure returns the extent of h along the axis without attaching it.
	Measure(h H) int

	Children() []H
	Prepend(hs ...H)
	Append(hs ...H)
	Remove(h H)

	// SetSpacers reserves space before and after the attached children so the
	// scrollable extent matches the whole collection.
	SetSpacers(leading, trailing int)

	// Subscribe registers fn for scroll notifications.
	Subscribe(fn func(), opts EventOptions) (unsubscribe func())
}

// EmptyMarker is implemented by viewports that render an empty state.
type EmptyMarker interface {
	SetEmpty(empty bool)
}

// ScrollingMarker is implemented by viewports that show a scrolling
// indicator.
type ScrollingMarker interface {
	SetScrolling(scrolling bool)
}

// Scheduler runs callbacks on the host loop.
type Scheduler interface {
	// RequestFrame runs fn once on the next display frame.
	RequestFrame(fn func())
	// AfterFunc runs fn after d. stop cancels it and reports whether it was
	// still pending.
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// Callbacks connect a List to the host's item production.
type Callbacks[H comparable] struct {
	// Render produces the handle for a logical index. recycled is a pooled
	// handle to refill in recycle mode, the zero value otherwise. Required
	// unless the mode is declarative.
	Render func(index int, recycled H, deltaMagnitude int) H

	// Release frees a handle the list no longer owns.
	Release func(H)

	// Populate fills a placeholder rendered during fast scrolling once it has
	// stayed attached for Options.LazyDelay.
	Populate func(index int, h H)

	// Content is the initial collection in declarative mode, appended after
	// any children already in the viewport.
	Content []H

	OnBoundaryInit func()
	OnBoundaryEnd  func()
}
