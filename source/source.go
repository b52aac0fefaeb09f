// Package source supplies list item bodies addressed by index.
package source

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// ErrOutOfRange is returned for indices outside [0, Len).
var ErrOutOfRange = errors.New("source: index out of range")

// Item is one entry of a collection.
type Item struct {
	Index int
	Title string
	Body  string
}

// Source is an index-addressed, read-only collection.
type Source interface {
	Len(ctx context.Context) (int, error)
	Get(ctx context.Context, index int) (Item, error)
	Close() error
}

// ---------------------------------------------------------------------------
// Memory
// ---------------------------------------------------------------------------

// Memory serves items from a slice.
type Memory struct {
	items []Item
}

// NewMemory wraps items. The slice is not copied.
func NewMemory(items []Item) *Memory {
	return &Memory{items: items}
}

func (m *Memory) Len(context.Context) (int, error) { return len(m.items), nil }

func (m *Memory) Get(_ context.Context, index int) (Item, error) {
	if index < 0 || index >= len(m.items) {
		return Item{}, fmt.Errorf("get %d: %w", index, ErrOutOfRange)
	}
	return m.items[index], nil
}

func (m *Memory) Close() error { return nil }

// ---------------------------------------------------------------------------
// Generation
// ---------------------------------------------------------------------------

var words = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing
elit sed do eiusmod tempor incididunt ut labore et dolore magna aliqua enim ad
minim veniam quis nostrud exercitation ullamco laboris nisi aliquip ex ea
commodo consequat duis aute irure in reprehenderit voluptate velit esse cillum
fugiat nulla pariatur excepteur sint occaecat cupidatat non proident sunt culpa
qui officia deserunt mollit anim id est laborum`)

// Generate returns n deterministic items for seed. Markdown bodies carry a
// heading, emphasis and a bullet list of varying length, so their rendered
// heights differ; plain bodies are a single sentence.
func Generate(n int, seed int64, markdown bool) []Item {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	items := make([]Item, n)
	for i := range items {
		title := fmt.Sprintf("Item %d", i)
		var body string
		if markdown {
			body = markdownBody(r, title)
		} else {
			body = sentence(r, 4+r.IntN(8))
		}
		items[i] = Item{Index: i, Title: title, Body: body}
	}
	return items
}

func sentence(r *rand.Rand, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[r.IntN(len(words))]
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func markdownBody(r *rand.Rand, title string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s\n\n", title)
	fmt.Fprintf(&sb, "%s *%s*\n", sentence(r, 3+r.IntN(6)), words[r.IntN(len(words))])
	if bullets := r.IntN(4); bullets > 0 {
		sb.WriteString("\n")
		for range bullets {
			fmt.Fprintf(&sb, "- %s\n", sentence(r, 2+r.IntN(4)))
		}
	}
	return sb.String()
}
