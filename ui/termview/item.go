package termview

import "strings"

// Item is one attached block of text. Handles are compared by pointer.
type Item struct {
	content     string
	size        int
	declared    bool
	placeholder bool
}

// NewItem returns an item showing content.
func NewItem(content string) *Item {
	return &Item{content: content}
}

// SetContent replaces the text and clears the placeholder flag.
func (it *Item) SetContent(content string) {
	it.content = content
	it.placeholder = false
}

// SetPlaceholder shows a lightweight stand-in until SetContent is called.
func (it *Item) SetPlaceholder(content string) {
	it.content = content
	it.placeholder = true
}

func (it *Item) Content() string   { return it.content }
func (it *Item) Placeholder() bool { return it.placeholder }

// Declare fixes the item's extent along the scroll axis regardless of its
// content. Content is padded or clipped to fit.
func (it *Item) Declare(size int) {
	it.size = max(size, 0)
	it.declared = true
}

// DeclaredSize implements lifecycle.SizeDeclarer.
func (it *Item) DeclaredSize() (int, bool) {
	return it.size, it.declared
}

// Reset clears the item for reuse.
func (it *Item) Reset() {
	*it = Item{}
}

// splitLines splits s on newlines. An empty string yields one empty line.
func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
