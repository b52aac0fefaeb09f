// Package app is the terminal front end: a bubbletea model hosting one
// virtual list over a source of items.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/miosa/osa-vlist/config"
	"github.com/miosa/osa-vlist/logger"
	"github.com/miosa/osa-vlist/msg"
	"github.com/miosa/osa-vlist/source"
	"github.com/miosa/osa-vlist/style"
	"github.com/miosa/osa-vlist/ui/anim"
	"github.com/miosa/osa-vlist/ui/common"
	"github.com/miosa/osa-vlist/ui/lifecycle"
	"github.com/miosa/osa-vlist/ui/markdown"
	"github.com/miosa/osa-vlist/ui/termview"
	"github.com/miosa/osa-vlist/ui/vlist"
)

// host holds the state shared by every copy of Model. bubbletea passes the
// model by value; the list and its callbacks need one stable home.
type host struct {
	ctx   context.Context
	src   source.Source
	loop  *termview.Loop
	reg   *vlist.Registry[*termview.Item]
	vp    *termview.Viewport
	list  *vlist.List[*termview.Item]
	items *itemFactory
	log   *slog.Logger

	total  int
	loaded bool
	err    error
	notice string
	final  *vlist.Metrics

	// cmds raised from list callbacks, drained after each Update.
	cmds []tea.Cmd
}

// Model is the root bubbletea model.
type Model struct {
	cfg    config.Config
	opts   vlist.Options
	keys   KeyMap
	state  State
	layout Layout

	width       int
	height      int
	showMetrics bool
	spinner     anim.Spinner

	h *host
}

// New returns a model that loads src and shows it with opts.
func New(ctx context.Context, cfg config.Config, opts vlist.Options, src source.Source) Model {
	log := logger.L.With("component", "app")
	items := &itemFactory{
		ctx:     ctx,
		src:     src,
		log:     log,
		axis:    opts.Axis,
		dynamic: opts.Dynamic,
		lazy:    opts.Lazy,
	}
	if cfg.Source.Markdown {
		items.md = markdown.New(0, style.IsDark())
	}
	sp := anim.New("Loading items")
	sp.Start()
	return Model{
		cfg:         cfg,
		opts:        opts,
		keys:        DefaultKeyMap(),
		showMetrics: cfg.UI.Metrics,
		spinner:     sp,
		h: &host{
			ctx:   ctx,
			src:   src,
			loop:  termview.NewLoop(),
			reg:   vlist.NewRegistry[*termview.Item](log),
			items: items,
			log:   log,
		},
	}
}

// Metrics returns the list's counters, frozen at quit time once the list is
// gone. ok is false before the list exists.
func (m Model) Metrics() (vlist.Metrics, bool) {
	if m.h.final != nil {
		return *m.h.final, true
	}
	if m.h.list == nil {
		return vlist.Metrics{}, false
	}
	return m.h.list.Metrics(), true
}

// State returns the current application state.
func (m Model) State() State { return m.state }

// -- Init ---------------------------------------------------------------------

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSource(), m.spinner.Tick(), func() tea.Msg { return tea.RequestWindowSize() })
}

func (m Model) loadSource() tea.Cmd {
	ctx, src := m.h.ctx, m.h.src
	return func() tea.Msg {
		n, err := src.Len(ctx)
		return msg.SourceLoaded{Total: n, Err: err}
	}
}

// -- Update -------------------------------------------------------------------

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {

	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.relayout()

	case msg.SourceLoaded:
		m.handleLoaded(v)

	case msg.FrameMsg, msg.TimerMsg:
		m.h.loop.Update(v)

	case anim.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(v)
		m.h.cmds = append(m.h.cmds, cmd)

	case msg.BoundaryMsg:
		if v.End {
			m.h.notice = "reached the last item"
		} else {
			m.h.notice = "reached the first item"
		}

	case tea.MouseWheelMsg:
		if m.h.vp != nil {
			m.h.cmds = append(m.h.cmds, m.h.vp.Update(v))
		}

	case tea.KeyPressMsg:
		return m.handleKey(v)
	}
	return m, m.drain()
}

// drain collects commands queued by the loop and by list callbacks.
func (m Model) drain() tea.Cmd {
	cmds := append(m.h.cmds, m.h.loop.Cmd())
	m.h.cmds = nil
	return tea.Batch(cmds...)
}

func (m *Model) handleLoaded(v msg.SourceLoaded) {
	m.spinner.Stop()
	if v.Err != nil {
		m.state = StateFailed
		m.h.err = fmt.Errorf("load source: %w", v.Err)
		m.h.log.Error("source load failed", "err", v.Err)
		return
	}
	m.h.total = v.Total
	m.h.loaded = true
	if m.h.list != nil {
		m.reload()
		return
	}
	m.start()
}

// start attaches the list once both the source length and the window size
// are known.
func (m *Model) start() {
	if m.h.list != nil || !m.h.loaded || m.width == 0 || m.state == StateFailed {
		return
	}
	h := m.h
	l := m.layout
	h.items.resize(l.ListWidth, l.ListHeight)

	h.vp = termview.NewViewport(l.ListWidth, l.ListHeight,
		termview.WithScheduler(h.loop),
		termview.WithWheelStep(m.cfg.UI.WheelStep),
	)

	opts := m.opts
	opts.Length = h.total
	opts.Logger = h.log

	id := h.vp.ID()
	cb := vlist.Callbacks[*termview.Item]{
		Release: h.items.Release,
		OnBoundaryInit: func() {
			h.cmds = append(h.cmds, func() tea.Msg { return msg.BoundaryMsg{List: id} })
		},
		OnBoundaryEnd: func() {
			h.cmds = append(h.cmds, func() tea.Msg { return msg.BoundaryMsg{List: id, End: true} })
		},
	}
	if opts.Mode == lifecycle.Declarative {
		cb.Content = h.items.Content(h.total)
	} else {
		cb.Render = h.items.Render
		cb.Populate = h.items.Populate
	}

	list, err := h.reg.Manage(h.vp, h.loop, opts, cb)
	if err != nil {
		m.state = StateFailed
		h.err = err
		h.log.Error("list init failed", "err", err)
		return
	}
	h.list = list
	m.state = StateReady
	h.log.Info("list ready", "items", h.total, "mode", opts.Mode.String(), "axis", opts.Axis.String())
}

// reload rebuilds every item, e.g. after a resize changed their shape.
func (m *Model) reload() {
	h := m.h
	if h.list == nil {
		return
	}
	var err error
	if m.opts.Mode == lifecycle.Declarative {
		err = h.list.UpdateContent(h.items.Content(h.total), true)
	} else {
		err = h.list.UpdateLength(h.total, true)
	}
	if err != nil {
		h.log.Error("reload failed", "err", err)
	}
}

func (m *Model) relayout() {
	m.layout = ComputeLayout(m.width, m.height, m.showMetrics, m.opts.Axis)
	h := m.h
	if h.vp == nil {
		m.start()
		return
	}
	if h.list == nil {
		return
	}
	h.vp.SetSize(m.layout.ListWidth, m.layout.ListHeight)
	if h.items.resize(m.layout.ListWidth, m.layout.ListHeight) {
		m.reload()
		return
	}
	// Geometry depends on the viewport extent.
	if m.opts.Mode != lifecycle.Declarative {
		if err := h.list.UpdateLength(h.total, false); err != nil {
			h.log.Error("resize failed", "err", err)
		}
	} else {
		h.list.Repaint(false)
	}
}

// -- Key handling -------------------------------------------------------------

func (m Model) handleKey(k tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(k, m.keys.Quit) {
		return m.quit()
	}
	h := m.h
	if m.state != StateReady || h.list == nil {
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.LineBack):
		h.vp.ScrollBy(-m.lineStep())
	case key.Matches(k, m.keys.LineForward):
		h.vp.ScrollBy(m.lineStep())
	case key.Matches(k, m.keys.PageBack):
		h.list.ScrollPrev(true)
	case key.Matches(k, m.keys.PageForward):
		h.list.ScrollForward(true)
	case key.Matches(k, m.keys.ScrollInit):
		h.list.ScrollInit(true)
	case key.Matches(k, m.keys.ScrollEnd):
		h.list.ScrollEnd(true)
	case key.Matches(k, m.keys.Middle):
		h.list.ScrollToIndex(h.total/2, true)
	case key.Matches(k, m.keys.Repaint):
		h.list.Repaint(true)
		h.notice = "repainted"
	case key.Matches(k, m.keys.Reload):
		h.notice = "reloading"
		return m, tea.Batch(m.loadSource(), m.drain())
	case key.Matches(k, m.keys.ToggleMetrics):
		m.showMetrics = !m.showMetrics
		m.relayout()
	case key.Matches(k, m.keys.CycleTheme):
		m.cycleTheme()
	}
	return m, m.drain()
}

func (m Model) lineStep() int {
	if m.opts.Axis == vlist.AxisX {
		return columnWidth / 2
	}
	return 1
}

func (m *Model) cycleTheme() {
	i := slices.Index(style.ThemeNames, style.CurrentThemeName)
	next := style.ThemeNames[(i+1)%len(style.ThemeNames)]
	style.SetTheme(next)
	if m.h.items.md != nil {
		m.h.items.md.SetDark(style.IsDark())
	}
	m.spinner.Recolor()
	m.h.notice = "theme " + next
	m.reload()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if metrics, ok := m.Metrics(); ok {
		m.h.final = &metrics
	}
	m.h.reg.DestroyAll()
	m.h.list = nil
	m.state = StateQuit
	return m, tea.Quit
}

// -- View ---------------------------------------------------------------------

// View returns the tea.View for the current frame.
// AltScreen and MouseMode are set on every frame.
func (m Model) View() tea.View {
	v := tea.NewView(m.renderView())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m Model) renderView() string {
	if m.width == 0 {
		return ""
	}
	sections := []string{m.renderHeader()}

	bodyHeight := m.height - m.layout.HeaderHeight - m.layout.StatusHeight
	switch m.state {
	case StateLoading:
		sections = append(sections, lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.spinner.View()))
	case StateFailed:
		sections = append(sections, lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, style.ErrorText.Render(fmt.Sprint(m.h.err))))
	case StateQuit:
		return ""
	default:
		sections = append(sections, m.renderMain())
	}

	sections = append(sections, m.renderStatus(), m.renderHelp())
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	meta := []string{m.opts.Mode.String(), "axis " + m.opts.Axis.String(), fmt.Sprintf("%d items", m.h.total)}
	if m.opts.Reverse {
		meta = append(meta, "reverse")
	}
	if m.opts.Dynamic {
		meta = append(meta, "dynamic")
	}
	if m.opts.ExtraChunk > 0 {
		meta = append(meta, fmt.Sprintf("+%d", m.opts.ExtraChunk))
	}
	title := style.Title("osa-vlist") + "  " + style.HeaderMeta.Render(strings.Join(meta, " · "))
	return ansi.Truncate(title, m.width, "…") + "\n" + style.Separator.Render(strings.Repeat("─", m.width))
}

func (m Model) renderMain() string {
	h := m.h
	listView := h.vp.View()

	bar := common.Scrollbar{
		Content:    h.vp.ScrollSize(),
		Offset:     h.vp.Offset(),
		Horizontal: m.opts.Axis == vlist.AxisX,
	}
	var body string
	if bar.Horizontal {
		bar.Track = m.layout.ListWidth
		body = lipgloss.JoinVertical(lipgloss.Left, listView, bar.View())
	} else {
		bar.Track = m.layout.ListHeight
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(m.layout.ListWidth).Render(listView),
			bar.View())
	}

	if m.layout.PanelWidth > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderMetrics())
	}
	return body
}

func (m Model) renderMetrics() string {
	mt, ok := m.Metrics()
	if !ok {
		return ""
	}
	rows := [][2]string{
		{"chunk size", fmt.Sprint(mt.ChunkSize)},
		{"extra chunk", fmt.Sprint(mt.ExtraChunk)},
		{"events", fmt.Sprint(mt.Events)},
		{"skips", fmt.Sprint(mt.Skips)},
		{"chunks", fmt.Sprint(mt.Chunks)},
		{"mean ms", fmt.Sprintf("%.3f", mt.ChunksMeanTime)},
		{"median ms", fmt.Sprintf("%.3f", mt.ChunksMedianTime)},
		{"mode ms", fmt.Sprintf("%.0f", mt.ChunksModeTime)},
		{"rendered", fmt.Sprint(mt.ItemsRendered)},
		{"created", fmt.Sprint(mt.ItemsCreated)},
		{"recycled", fmt.Sprint(mt.ItemsRecycled)},
		{"cached", fmt.Sprint(mt.ItemsCached)},
		{"lazy pending", fmt.Sprint(m.h.list.PendingLazy())},
		{"load errors", fmt.Sprint(m.h.items.failures)},
	}
	lines := []string{style.MetricsTitle.Render("metrics")}
	for _, r := range rows {
		lines = append(lines, style.MetricsLabel.Render(fmt.Sprintf("%-13s", r[0]))+style.MetricsValue.Render(r[1]))
	}
	return style.MetricsPanel.
		Width(m.layout.PanelWidth).
		MaxHeight(m.layout.ListHeight + m.layout.BarSize).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	h := m.h
	if h.list == nil {
		return style.StatusBar.Render(m.state.String())
	}

	w := h.list.Window()
	geo := h.list.Geometry()
	parts := []string{fmt.Sprintf("%d/%d", h.vp.Offset(), max(h.vp.ScrollSize()-h.vp.Extent(), 0))}
	if w.Valid {
		parts = append(parts, fmt.Sprintf("window %d–%d", w.Init, w.End))
	}

	line := style.StatusBar.Render(strings.Join(parts, "  "))
	if w.Valid && geo.ScrollExtent > 0 {
		ext := float64(geo.ScrollExtent)
		line += " " + style.WindowBarRender(float64(geo.Top(w.Init))/ext, float64(geo.Bottom(w.End))/ext, 12)
	}
	if h.vp.Scrolling() {
		line += "  " + style.StatusScrolling.Render("scrolling")
	}
	if h.notice != "" {
		line += "  " + style.StatusSignal.Render(h.notice)
	}
	return ansi.Truncate(line, m.width, "…")
}

func (m Model) renderHelp() string {
	return ansi.Truncate(common.KeyHelp(m.keys.ShortHelp()...), m.width, "…")
}
