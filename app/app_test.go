package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miosa/osa-vlist/config"
	"github.com/miosa/osa-vlist/msg"
	"github.com/miosa/osa-vlist/source"
	"github.com/miosa/osa-vlist/style"
	"github.com/miosa/osa-vlist/ui/lifecycle"
	"github.com/miosa/osa-vlist/ui/vlist"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type failingSource struct{ err error }

func (f failingSource) Len(context.Context) (int, error)              { return 0, f.err }
func (f failingSource) Get(context.Context, int) (source.Item, error) { return source.Item{}, f.err }
func (f failingSource) Close() error                                  { return nil }

func testConfig() config.Config {
	return config.Config{UI: config.UIConfig{Theme: "dark", WheelStep: 3}}
}

func testOptions(mode lifecycle.Mode) vlist.Options {
	o := vlist.DefaultOptions()
	o.Mode = mode
	o.ExtraChunk = 4
	return o
}

func update(t *testing.T, m Model, in tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(in)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, code rune) Model {
	t.Helper()
	return update(t, m, tea.KeyPressMsg{Code: code, Text: string(code)})
}

// pump delivers frames until none are queued.
func pump(t *testing.T, m Model) Model {
	t.Helper()
	for range 500 {
		if frames, _ := m.h.loop.Pending(); frames == 0 {
			return m
		}
		m = update(t, m, msg.FrameMsg{Loop: m.h.loop.ID()})
	}
	t.Fatal("frames never settled")
	return m
}

func startModel(t *testing.T, opts vlist.Options, n int) Model {
	t.Helper()
	src := source.NewMemory(source.Generate(n, 1, false))
	m := New(context.Background(), testConfig(), opts, src)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})
	assert.Equal(t, StateLoading, m.State())

	m = update(t, m, m.loadSource()())
	require.Equal(t, StateReady, m.State())
	return pump(t, m)
}

// ---------------------------------------------------------------------------
// Layout
// ---------------------------------------------------------------------------

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		panel     bool
		axis      vlist.Axis
		wantList  [2]int
		wantPanel int
	}{
		{name: "vertical no panel", w: 100, h: 24, axis: vlist.AxisY, wantList: [2]int{99, 20}},
		{name: "vertical panel", w: 100, h: 24, panel: true, axis: vlist.AxisY, wantList: [2]int{69, 20}, wantPanel: 30},
		{name: "panel clamped", w: 200, h: 40, panel: true, axis: vlist.AxisY, wantList: [2]int{161, 36}, wantPanel: 38},
		{name: "narrow drops panel", w: 50, h: 24, panel: true, axis: vlist.AxisY, wantList: [2]int{49, 20}},
		{name: "horizontal", w: 100, h: 24, axis: vlist.AxisX, wantList: [2]int{100, 19}},
		{name: "tiny", w: 1, h: 2, axis: vlist.AxisY, wantList: [2]int{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLayout(tt.w, tt.h, tt.panel, tt.axis)
			assert.Equal(t, tt.wantList, [2]int{l.ListWidth, l.ListHeight})
			assert.Equal(t, tt.wantPanel, l.PanelWidth)
		})
	}
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func TestStart_WaitsForSize(t *testing.T) {
	src := source.NewMemory(source.Generate(10, 1, false))
	m := New(context.Background(), testConfig(), testOptions(lifecycle.Recycle), src)

	m = update(t, m, m.loadSource()())
	assert.Equal(t, StateLoading, m.State())
	assert.Nil(t, m.h.list)

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.Equal(t, StateReady, m.State())
	assert.NotNil(t, m.h.list)
}

func TestStart_RendersFirstWindow(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Recycle), 200)

	w := m.h.list.Window()
	require.True(t, w.Valid)
	assert.Equal(t, 0, w.Init)

	view := ansi.Strip(m.renderView())
	assert.Contains(t, view, "osa-vlist")
	assert.Contains(t, view, "     0  ")
	assert.Contains(t, view, "200 items")
}

func TestSourceError_Fails(t *testing.T) {
	boom := errors.New("boom")
	m := New(context.Background(), testConfig(), testOptions(lifecycle.Recycle), failingSource{err: boom})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})

	loaded := m.loadSource()()
	require.IsType(t, msg.SourceLoaded{}, loaded)
	m = update(t, m, loaded)

	assert.Equal(t, StateFailed, m.State())
	assert.ErrorIs(t, m.h.err, boom)
	assert.Contains(t, ansi.Strip(m.renderView()), "boom")

	_, ok := m.Metrics()
	assert.False(t, ok)
}

func TestInvalidOptions_Fail(t *testing.T) {
	opts := testOptions(lifecycle.Recycle)
	opts.Dynamic = true
	src := source.NewMemory(source.Generate(10, 1, false))
	m := New(context.Background(), testConfig(), opts, src)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	m = update(t, m, m.loadSource()())

	assert.Equal(t, StateFailed, m.State())
	assert.ErrorIs(t, m.h.err, vlist.ErrDynamicMode)
}

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

func TestKeys_LineForward(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Recycle), 200)

	m = press(t, m, 'j')
	m = press(t, m, 'j')
	assert.Equal(t, 2, m.h.vp.Offset())

	m = press(t, m, 'k')
	assert.Equal(t, 1, m.h.vp.Offset())
}

func TestKeys_ScrollEnd(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Recycle), 200)

	m = press(t, m, 'G')
	m = pump(t, m)

	assert.Equal(t, m.h.vp.MaxOffset(), m.h.vp.Offset())
	w := m.h.list.Window()
	require.True(t, w.Valid)
	assert.Equal(t, 199, w.End)
}

func TestKeys_Middle(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Cache), 200)

	m = press(t, m, 'M')
	m = pump(t, m)

	w := m.h.list.Window()
	assert.LessOrEqual(t, w.Init, 100)
	assert.GreaterOrEqual(t, w.End, 100)
}

func TestKeys_IgnoredBeforeReady(t *testing.T) {
	src := source.NewMemory(source.Generate(10, 1, false))
	m := New(context.Background(), testConfig(), testOptions(lifecycle.Recycle), src)

	m = press(t, m, 'j')
	assert.Equal(t, StateLoading, m.State())
}

func TestKeys_ToggleMetrics(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Recycle), 200)
	assert.NotContains(t, ansi.Strip(m.renderView()), "chunk size")

	m = press(t, m, 'm')
	m = pump(t, m)
	assert.Equal(t, 30, m.layout.PanelWidth)
	assert.Equal(t, 69, m.h.vp.Width())

	view := ansi.Strip(m.renderView())
	assert.Contains(t, view, "chunk size")
	assert.Contains(t, view, "recycled")

	m = press(t, m, 'm')
	assert.Zero(t, m.layout.PanelWidth)
}

func TestKeys_CycleTheme(t *testing.T) {
	t.Cleanup(func() { style.SetTheme("dark") })
	style.SetTheme("dark")
	m := startModel(t, testOptions(lifecycle.Recycle), 50)

	m = press(t, m, 't')
	assert.NotEqual(t, "dark", style.CurrentThemeName)
	assert.Contains(t, m.h.notice, style.CurrentThemeName)

	m = pump(t, m)
	assert.True(t, m.h.list.Window().Valid)
}

func TestKeys_Quit(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Recycle), 200)
	m = press(t, m, 'G')
	m = pump(t, m)

	next, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, StateQuit, m.State())
	assert.Zero(t, m.h.reg.Len())

	metrics, ok := m.Metrics()
	require.True(t, ok)
	assert.Equal(t, lifecycle.Recycle, metrics.Mode)
	assert.Positive(t, metrics.ItemsCreated)
	assert.Empty(t, m.renderView())
}

// ---------------------------------------------------------------------------
// Resize / reload
// ---------------------------------------------------------------------------

func TestResize_RebuildsItems(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Recycle), 200)

	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 14})
	m = pump(t, m)

	assert.Equal(t, 59, m.h.vp.Width())
	assert.Equal(t, 10, m.h.vp.Height())
	for _, it := range m.h.vp.Children() {
		for _, line := range strings.Split(it.Content(), "\n") {
			assert.LessOrEqual(t, ansi.StringWidth(line), 59)
		}
	}
	assert.True(t, m.h.list.Window().Valid)
}

func TestReload_KeepsList(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Recycle), 200)
	list := m.h.list

	m = update(t, m, m.loadSource()())
	m = pump(t, m)

	assert.Same(t, list, m.h.list)
	assert.Equal(t, 200, m.h.list.Length())
}

func TestDeclarativeDynamic_Starts(t *testing.T) {
	opts := testOptions(lifecycle.Declarative)
	opts.Dynamic = true
	m := startModel(t, opts, 40)

	require.Equal(t, StateReady, m.State())
	assert.Equal(t, 40, m.h.list.Length())
	assert.True(t, m.h.list.Window().Valid)

	m = press(t, m, 'G')
	m = pump(t, m)
	assert.Equal(t, 39, m.h.list.Window().End)
}

func TestHorizontal_Columns(t *testing.T) {
	opts := testOptions(lifecycle.Recycle)
	opts.Axis = vlist.AxisX
	m := startModel(t, opts, 100)

	assert.Equal(t, vlist.AxisX, m.h.vp.Axis())
	assert.Equal(t, 19, m.h.vp.Height())

	before := m.h.vp.Offset()
	m = press(t, m, 'l')
	assert.Equal(t, before+columnWidth/2, m.h.vp.Offset())
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

func TestBoundaryMsg_SetsNotice(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Recycle), 20)

	m = update(t, m, msg.BoundaryMsg{End: true})
	assert.Equal(t, "reached the last item", m.h.notice)

	m = update(t, m, msg.BoundaryMsg{})
	assert.Equal(t, "reached the first item", m.h.notice)
}

func TestMouseWheel_Scrolls(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Recycle), 200)

	m = update(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	assert.Equal(t, 3, m.h.vp.Offset())
}

func TestView_Settings(t *testing.T) {
	m := startModel(t, testOptions(lifecycle.Recycle), 10)
	v := m.View()
	assert.True(t, v.AltScreen)
	assert.Equal(t, tea.MouseModeCellMotion, v.MouseMode)
}

func TestSpinner_StopsOnLoad(t *testing.T) {
	src := source.NewMemory(source.Generate(10, 1, false))
	m := New(context.Background(), testConfig(), testOptions(lifecycle.Recycle), src)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.True(t, m.spinner.Spinning())
	assert.Contains(t, ansi.Strip(m.renderView()), "Loading items")

	m = update(t, m, m.loadSource()())
	assert.False(t, m.spinner.Spinning())
}

func TestResize_AfterFailedStart(t *testing.T) {
	opts := testOptions(lifecycle.Recreate)
	opts.Dynamic = true
	src := source.NewMemory(source.Generate(10, 1, false))
	m := New(context.Background(), testConfig(), opts, src)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	m = update(t, m, m.loadSource()())
	require.Equal(t, StateFailed, m.State())

	assert.NotPanics(t, func() { update(t, m, tea.WindowSizeMsg{Width: 60, Height: 10}) })
}
