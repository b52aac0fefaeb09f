package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/miosa/osa-vlist/source"
	"github.com/miosa/osa-vlist/style"
	"github.com/miosa/osa-vlist/ui/markdown"
	"github.com/miosa/osa-vlist/ui/termview"
	"github.com/miosa/osa-vlist/ui/vlist"
)

// columnWidth is the width of one item on a horizontal list.
const columnWidth = 18

// itemFactory turns source entries into viewport items. One line per item on
// fixed vertical lists, a wrapped block on dynamic ones, a fixed-width column
// on horizontal ones.
type itemFactory struct {
	ctx     context.Context
	src     source.Source
	md      *markdown.Renderer // nil renders plain text
	log     *slog.Logger
	axis    vlist.Axis
	dynamic bool
	lazy    int

	width  int
	height int

	failures int
}

// resize reports whether items rendered before the call are stale.
func (f *itemFactory) resize(width, height int) bool {
	changed := false
	switch {
	case f.axis == vlist.AxisX:
		changed = height != f.height
	default:
		changed = width != f.width
	}
	f.width, f.height = width, height
	if f.md != nil {
		f.md.SetWidth(width)
	}
	return changed
}

func (f *itemFactory) Render(index int, recycled *termview.Item, deltaMagnitude int) *termview.Item {
	it := recycled
	if it == nil {
		it = termview.NewItem("")
	}
	if f.lazy > 0 && deltaMagnitude > f.lazy {
		it.SetPlaceholder(f.placeholder(index))
		return it
	}
	it.SetContent(f.content(index))
	return it
}

func (f *itemFactory) Populate(index int, it *termview.Item) {
	it.SetContent(f.content(index))
}

func (f *itemFactory) Release(it *termview.Item) {
	it.Reset()
}

// Content builds every item up front for declarative lists.
func (f *itemFactory) Content(n int) []*termview.Item {
	items := make([]*termview.Item, n)
	for i := range items {
		items[i] = termview.NewItem(f.content(i))
	}
	return items
}

func (f *itemFactory) content(index int) string {
	it, err := f.src.Get(f.ctx, index)
	if err != nil {
		f.failures++
		f.log.Warn("item load failed", "index", index, "err", err)
		return f.shape(index, style.ErrorText.Render(err.Error()))
	}
	if f.dynamic && f.axis == vlist.AxisY {
		return f.block(it)
	}
	return f.shape(index, it.Body)
}

func (f *itemFactory) placeholder(index int) string {
	return f.shape(index, style.ItemPlaceholder.Render("…"))
}

// shape lays body out as a row or a column, keeping every item of a fixed
// list the same size.
func (f *itemFactory) shape(index int, body string) string {
	label := style.ItemIndex.Render(fmt.Sprintf("%6d", index))
	if f.axis == vlist.AxisX {
		return lipgloss.NewStyle().
			Width(columnWidth).
			Height(f.height).
			MaxHeight(f.height).
			PaddingRight(1).
			Render(label + "\n" + body)
	}
	line := label + "  " + strings.ReplaceAll(body, "\n", " ")
	return ansi.Truncate(line, max(f.width, 1), "…")
}

func (f *itemFactory) block(it source.Item) string {
	var body string
	if f.md != nil {
		body = f.md.Render(it.Body)
	} else {
		head := style.ItemIndex.Render(it.Title)
		body = lipgloss.NewStyle().Width(max(f.width, 1)).Render(head + "\n" + it.Body)
	}
	rule := style.ItemBorder.Render(strings.Repeat("─", max(f.width, 1)))
	return body + "\n" + rule
}
