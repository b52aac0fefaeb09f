// Package markdown renders item bodies with glamour.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer wraps a glamour renderer for one word-wrap width. Not safe for
// concurrent use.
type Renderer struct {
	width int
	dark  bool
	tr    *glamour.TermRenderer
}

// New returns a renderer wrapping at width. The glamour renderer is built on
// first use.
func New(width int, dark bool) *Renderer {
	return &Renderer{width: width, dark: dark}
}

// SetWidth changes the wrap width. It reports whether the width changed, in
// which case previously rendered output is stale.
func (r *Renderer) SetWidth(width int) bool {
	if width == r.width {
		return false
	}
	r.width = width
	r.tr = nil
	return true
}

// SetDark switches between the dark and light standard styles.
func (r *Renderer) SetDark(dark bool) {
	if dark != r.dark {
		r.dark = dark
		r.tr = nil
	}
}

// Width is the current wrap width.
func (r *Renderer) Width() int { return r.width }

// Render converts md to styled ANSI output. It falls back to the raw text if
// glamour fails.
func (r *Renderer) Render(md string) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	if r.tr == nil {
		styleName := "light"
		if r.dark {
			styleName = "dark"
		}
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(styleName),
			glamour.WithWordWrap(max(r.width, 10)),
		)
		if err != nil {
			return md
		}
		r.tr = tr
	}
	out, err := r.tr.Render(md)
	if err != nil {
		return md
	}
	// glamour pads with blank lines on both ends.
	return strings.Trim(out, "\n")
}
