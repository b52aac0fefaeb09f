// Package vlist virtualizes long ordered collections: only the items inside
// the viewport, plus an optional prefetch margin, are attached at any time.
//
// A List ties together:
//   - scroll.Tracker, turning raw scroll notifications into gestures
//   - geometry.Model, the per-item extents (fixed or dynamic)
//   - window.Calculator, the range of positions to materialize
//   - lifecycle.Manager, the cache/pool policy for item handles
//
// All methods and callbacks must run on the host loop behind Scheduler.
package vlist

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/miosa/osa-vlist/logger"
	"github.com/miosa/osa-vlist/ui/geometry"
	"github.com/miosa/osa-vlist/ui/lifecycle"
	"github.com/miosa/osa-vlist/ui/scroll"
	"github.com/miosa/osa-vlist/ui/window"
)

// List is a virtualized view over a collection of H handles.
type List[H comparable] struct {
	vp    Viewport[H]
	sched Scheduler
	opts  Options
	cb    Callbacks[H]
	log   *slog.Logger

	geo     geometry.Model
	calc    window.Calculator
	state   window.State
	prev    window.State
	tracker *scroll.Tracker
	scroll  scroll.State
	items   *lifecycle.Manager[H]
	lazy    *lifecycle.LazyQueue[H]
	stats   passStats
	length  int

	framePending bool
	running      bool
	populated    bool
	destroyed    bool

	unsubscribe func()
	onDestroy   func()
}

// New validates the configuration, attaches to vp and schedules the first
// population for the next frame.
func New[H comparable](vp Viewport[H], sched Scheduler, opts Options, cb Callbacks[H]) (*List[H], error) {
	if vp == nil || vp.ID() == "" {
		return nil, ErrNoIdentity
	}
	if sched == nil {
		return nil, fmt.Errorf("%w: scheduler required", ErrInvalidOption)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Mode != lifecycle.Declarative && cb.Render == nil {
		return nil, ErrNoRenderer
	}
	opts = opts.withDefaults()

	l := &List[H]{
		vp:    vp,
		sched: sched,
		opts:  opts,
		cb:    cb,
		log:   opts.Logger,
	}
	if l.log == nil {
		l.log = logger.L
	}
	l.log = l.log.With("list", vp.ID())

	geometry.Reset(&l.geo, l.initialGeometry())
	l.calc = window.Calculator{Geometry: &l.geo, ExtraChunk: opts.ExtraChunk, Reverse: opts.Reverse}
	l.items = lifecycle.NewManager(opts.Mode, lifecycle.RenderFunc[H](cb.Render), cb.Release)
	l.lazy = lifecycle.NewLazyQueue[H](sched, opts.LazyDelay)

	vp.SetAxis(opts.Axis)
	// Trust only the position passed in options, not one restored by the host.
	vp.ScrollTo(0, false)

	trackerOpts := []scroll.Option{
		scroll.WithEndTimeout(opts.EndTimeout),
		scroll.WithHandlers(scroll.Handlers{
			OnStart:        l.onScrollStart,
			OnScroll:       l.onScroll,
			OnStop:         l.onScrollStop,
			OnBoundaryInit: cb.OnBoundaryInit,
			OnBoundaryEnd:  cb.OnBoundaryEnd,
		}),
	}
	if opts.Debug {
		trackerOpts = append(trackerOpts, scroll.WithLogger(l.log))
		l.log.Debug("init", "axis", opts.Axis.String(), "mode", opts.Mode.String(),
			"reverse", opts.Reverse, "dynamic", opts.Dynamic, "extra_chunk", opts.ExtraChunk)
	}
	l.tracker = scroll.New(vp.Offset, l.maxPosition, sched, trackerOpts...)
	l.unsubscribe = vp.Subscribe(l.tracker.OnRawScroll, opts.EventOptions)

	// The host may not have laid the viewport out yet; measure on the next
	// frame.
	sched.RequestFrame(l.populate)
	return l, nil
}

func (l *List[H]) initialGeometry() geometry.Model {
	return geometry.Model{Dynamic: l.opts.Dynamic, Reverse: l.opts.Reverse}
}

func (l *List[H]) populate() {
	if l.destroyed || l.populated {
		return
	}
	l.populated = true

	if l.opts.Mode == lifecycle.Declarative {
		content := l.vp.Children()
		for _, h := range content {
			l.vp.Remove(h)
		}
		content = append(content, l.cb.Content...)
		l.UpdateContent(content, true)
	} else {
		l.UpdateLength(l.opts.Length, true)
	}

	switch {
	case l.opts.StartIndex > 0:
		l.ScrollToIndex(l.opts.StartIndex, false)
	case l.opts.StartPosition > 0:
		l.ScrollToPosition(l.opts.StartPosition, false)
	}
}

// ---------------------------------------------------------------------------
// Collection updates
// ---------------------------------------------------------------------------

// UpdateLength resizes the collection. flush discards every handle and
// recomputes geometry; otherwise existing geometry is kept and only the new
// range is measured.
func (l *List[H]) UpdateLength(n int, flush bool) error {
	if l.opts.Mode == lifecycle.Declarative {
		return fmt.Errorf("update length: %w", ErrWrongMode)
	}
	if l.destroyed {
		return nil
	}
	n = max(n, 0)

	from := 0
	if flush {
		l.flush()
	} else {
		from = min(l.length, n)
		if n < l.length {
			l.clean()
			l.items.Evict(n)
		}
	}
	l.length = n

	var sizes []int
	if l.opts.Dynamic {
		sizes = make([]int, 0, n-from)
		for i := from; i < n; i++ {
			h, ok := l.items.Render(i, 0)
			if !ok {
				sizes = append(sizes, 0)
				continue
			}
			sizes = append(sizes, l.sizeOf(h))
		}
	}
	l.update(flush, from, sizes)
	return nil
}

// UpdateContent replaces (flush) or extends the host-supplied collection in
// declarative mode.
func (l *List[H]) UpdateContent(content []H, flush bool) error {
	if l.opts.Mode != lifecycle.Declarative {
		return fmt.Errorf("update content: %w", ErrWrongMode)
	}
	if l.destroyed {
		return nil
	}

	from := 0
	if flush {
		l.flush()
	} else {
		from = l.length
	}
	for k, h := range content {
		l.items.Adopt(from+k, h)
	}
	l.length = from + len(content)

	var sizes []int
	if l.opts.Dynamic {
		sizes = make([]int, 0, len(content))
		for _, h := range content {
			sizes = append(sizes, l.sizeOf(h))
		}
	}
	l.update(flush, from, sizes)
	return nil
}

func (l *List[H]) update(flush bool, from int, sizes []int) {
	if m, ok := l.vp.(EmptyMarker); ok {
		m.SetEmpty(l.length == 0)
	}

	extent := l.vp.Extent()
	if l.opts.Dynamic {
		l.geo.Extend(extent, from, sizes)
	} else {
		itemSize := l.geo.ItemSize
		if flush || itemSize <= 0 {
			itemSize = l.measureItemSize()
		}
		l.geo.SetFixed(extent, itemSize, l.length)
	}
	if l.opts.Debug && l.length > 0 && !l.geo.Ready() {
		l.log.Error("geometry not ready", "length", l.length, "item_size", l.geo.ItemSize)
	}

	l.clean()
	window.Reset(&l.prev, window.Empty)
	maxPos := max(l.geo.ScrollExtent-extent, 0)
	l.scroll.Position = min(l.vp.Offset(), maxPos)
	l.renderChunk()

	// A shrunken collection leaves the host offset past the new end.
	if l.vp.Offset() > maxPos {
		l.vp.ScrollTo(maxPos, false)
	}
}

// measureItemSize renders logical item 0 off-screen to learn the uniform
// item size.
func (l *List[H]) measureItemSize() int {
	if l.length == 0 {
		return 0
	}
	h, ok := l.items.Render(0, 0)
	if !ok {
		return 0
	}
	size := l.sizeOf(h)
	if !l.opts.Mode.Persists() {
		l.items.Detach(h)
	}
	return size
}

func (l *List[H]) sizeOf(h H) int {
	if meta, ok := l.items.Meta(h); ok && meta.Declared {
		return meta.Size
	}
	size := l.vp.Measure(h)
	l.items.SetSize(h, size)
	return size
}

// Repaint forces a render pass at the current position. flush drops cached
// and pooled handles first; declarative content is never flushed.
func (l *List[H]) Repaint(flush bool) {
	if l.destroyed {
		return
	}
	if flush && l.opts.Mode != lifecycle.Declarative {
		l.clean()
		l.items.Flush()
		window.Reset(&l.prev, window.Empty)
	}
	l.scroll.Position = l.vp.Offset()
	l.renderChunk()
}

// flush detaches every child, releases every handle and drops geometry.
func (l *List[H]) flush() {
	l.clean()
	l.lazy.CancelAll()
	l.items.Flush()
	geometry.Reset(&l.geo, l.initialGeometry())
	window.Reset(&l.state, window.Empty)
	window.Reset(&l.prev, window.Empty)
}

// clean detaches every child from the viewport.
func (l *List[H]) clean() {
	for _, h := range l.vp.Children() {
		l.detach(h)
	}
	l.vp.SetSpacers(0, 0)
}

// detach removes h from the viewport. Persisted handles keep their pending
// population so they come back filled in.
func (l *List[H]) detach(h H) {
	l.vp.Remove(h)
	if !l.opts.Mode.Persists() {
		l.lazy.CancelHandle(h)
	}
	l.items.Detach(h)
}

// ---------------------------------------------------------------------------
// Render pass
// ---------------------------------------------------------------------------

func (l *List[H]) requestRender() {
	if l.framePending || l.destroyed {
		return
	}
	l.framePending = true
	l.sched.RequestFrame(func() {
		l.framePending = false
		if l.destroyed || l.running {
			return
		}
		l.running = true
		defer func() { l.running = false }()
		l.renderChunk()
	})
}

func (l *List[H]) renderChunk() {
	start := time.Now()

	pos, dir := l.scroll.Position, l.scroll.Direction
	l.state = l.calc.Compute(pos, dir)
	skip := l.calc.ShouldSkip(l.prev, pos, dir)

	if l.opts.Debug {
		l.log.Debug("render", "skip", skip, "position", pos, "direction", dir.String(),
			"first", l.state.FirstVisible, "init", l.state.Init, "end", l.state.End)
	}
	if skip {
		l.stats.skips++
		return
	}

	l.removeUnused()
	l.addNew()
	l.fillSpace()
	l.prev = l.state

	elapsed := time.Since(start)
	l.stats.chunks = append(l.stats.chunks, elapsed)
	if l.opts.Debug && elapsed > l.opts.PerformanceAlertLimit {
		l.log.Warn("slow render pass", "elapsed", elapsed, "limit", l.opts.PerformanceAlertLimit)
	}
}

func (l *List[H]) removeUnused() {
	for _, h := range l.vp.Children() {
		meta, ok := l.items.Meta(h)
		if ok && l.state.Contains(l.calc.SafeIndex(meta.Index)) {
			continue
		}
		l.detach(h)
	}
}

func (l *List[H]) addNew() {
	if !l.state.Valid {
		return
	}
	var before, after []H
	for p := l.state.Init; p <= l.state.End; p++ {
		switch {
		case !l.prev.Valid || p < l.prev.Init:
			if h, ok := l.renderAt(p); ok {
				before = append(before, h)
			}
		case p > l.prev.End:
			if h, ok := l.renderAt(p); ok {
				after = append(after, h)
			}
		}
	}
	if len(before) > 0 {
		l.vp.Prepend(before...)
	}
	if len(after) > 0 {
		l.vp.Append(after...)
	}
}

func (l *List[H]) renderAt(p int) (H, bool) {
	index := l.calc.SafeIndex(p)
	_, cached := l.items.Cached(index)
	h, ok := l.items.Render(index, l.scroll.DeltaMagnitude)
	if !ok {
		var zero H
		return zero, false
	}
	if !cached && l.opts.Lazy > 0 && l.cb.Populate != nil && l.scroll.DeltaMagnitude > l.opts.Lazy {
		l.lazy.Schedule(index, h, l.populateLazy)
	}
	return h, true
}

// populateLazy fills a placeholder unless its handle was released or reused
// for another index in the meantime. Pooled handles must still be attached.
func (l *List[H]) populateLazy(index int, h H) {
	if l.destroyed {
		return
	}
	meta, ok := l.items.Meta(h)
	if !ok || meta.Index != index {
		return
	}
	if l.opts.Mode == lifecycle.Recycle && !slices.Contains(l.vp.Children(), h) {
		return
	}
	l.cb.Populate(index, h)
}

func (l *List[H]) fillSpace() {
	if !l.state.Valid {
		l.vp.SetSpacers(0, 0)
		return
	}
	leading := l.geo.Top(l.state.Init)
	trailing := max(l.geo.ScrollExtent-l.geo.Bottom(l.state.End), 0)
	l.vp.SetSpacers(leading, trailing)
}

// ---------------------------------------------------------------------------
// Scroll handlers
// ---------------------------------------------------------------------------

func (l *List[H]) onScrollStart(s scroll.State) {
	resetStats(&l.stats, passStats{})
	l.scroll = s
	if m, ok := l.vp.(ScrollingMarker); ok {
		m.SetScrolling(true)
	}
	l.requestRender()
}

func (l *List[H]) onScroll(s scroll.State) {
	l.stats.events++
	l.scroll = s
	l.requestRender()
}

func (l *List[H]) onScrollStop(s scroll.State) {
	l.scroll = s
	if m, ok := l.vp.(ScrollingMarker); ok {
		m.SetScrolling(false)
	}
	l.requestRender()
}

func (l *List[H]) maxPosition() int {
	return max(l.vp.ScrollSize()-l.vp.Extent(), 0)
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

// ScrollToPosition scrolls to an absolute offset.
func (l *List[H]) ScrollToPosition(position int, smooth bool) {
	if l.destroyed {
		return
	}
	l.vp.ScrollTo(position, smooth)
}

// ScrollInit scrolls to the leading edge.
func (l *List[H]) ScrollInit(smooth bool) { l.ScrollToPosition(0, smooth) }

// ScrollEnd scrolls to the trailing edge.
func (l *List[H]) ScrollEnd(smooth bool) { l.ScrollToPosition(l.geo.ScrollExtent, smooth) }

// ScrollForward advances by one viewport extent.
func (l *List[H]) ScrollForward(smooth bool) {
	l.ScrollToPosition(l.vp.Offset()+l.vp.Extent(), smooth)
}

// ScrollPrev goes back by one viewport extent.
func (l *List[H]) ScrollPrev(smooth bool) {
	l.ScrollToPosition(l.vp.Offset()-l.vp.Extent(), smooth)
}

// ScrollToIndex brings logical index into view. Indices strictly inside the
// rendered window are left alone.
func (l *List[H]) ScrollToIndex(index int, smooth bool) {
	if l.destroyed || l.length == 0 {
		return
	}
	p := l.calc.SafeIndex(l.calc.Clamp(index))
	if l.prev.Valid && p > l.prev.Init && p < l.prev.End {
		return
	}
	l.ScrollToPosition(l.geo.Top(p), smooth)
}

// ---------------------------------------------------------------------------
// Introspection
// ---------------------------------------------------------------------------

// Metrics returns a snapshot of the current counters.
func (l *List[H]) Metrics() Metrics {
	mean, median, mode := summarize(l.stats.chunks)
	c := l.items.Counters()
	return Metrics{
		ChunkSize:        l.geo.ChunkSize,
		Events:           l.stats.events,
		Skips:            l.stats.skips,
		ExtraChunk:       l.opts.ExtraChunk,
		Mode:             l.opts.Mode,
		ChunksMeanTime:   mean,
		ChunksMedianTime: median,
		ChunksModeTime:   mode,
		Chunks:           len(l.stats.chunks),
		Reverse:          l.opts.Reverse,
		ItemsRendered:    c.Rendered,
		ItemsCreated:     c.Created,
		ItemsRecycled:    c.Recycled,
		ItemsCached:      l.items.CacheLen(),
	}
}

// Window returns the last materialized window in physical positions.
func (l *List[H]) Window() window.State { return l.prev }

// ScrollState returns the tracker state last seen by the list.
func (l *List[H]) ScrollState() scroll.State { return l.scroll }

// Length is the collection length.
func (l *List[H]) Length() int { return l.length }

// Options returns the effective options.
func (l *List[H]) Options() Options { return l.opts }

// Geometry exposes the size model. It must not be modified.
func (l *List[H]) Geometry() *geometry.Model { return &l.geo }

// IndexOf returns the logical index a live handle is tagged with.
func (l *List[H]) IndexOf(h H) (int, bool) {
	meta, ok := l.items.Meta(h)
	return meta.Index, ok
}

// PendingLazy is the number of placeholders waiting for population.
func (l *List[H]) PendingLazy() int { return l.lazy.Pending() }

// Destroy unsubscribes from the viewport, cancels pending timers, releases
// every handle and frees the list's identity in its registry.
func (l *List[H]) Destroy() {
	if l.destroyed {
		return
	}
	l.destroyed = true
	if l.unsubscribe != nil {
		l.unsubscribe()
	}
	l.tracker.Destroy()
	l.lazy.CancelAll()
	l.clean()
	l.items.Flush()
	if l.onDestroy != nil {
		l.onDestroy()
	}
	if l.opts.Debug {
		l.log.Debug("destroyed")
	}
}
