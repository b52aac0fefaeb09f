// Package anim provides the braille spinner shown while a source loads.
package anim

import (
	"math"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-vlist/style"
)

const (
	fps           = 20
	frameDuration = time.Second / fps
	// ticks per ellipsis state (400ms)
	ellipsisFrames = 8
)

var (
	glyphs         = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	ellipsisStates = []string{"", ".", "..", "..."}
)

var idCounter atomic.Int64

// TickMsg advances the spinner identified by ID.
type TickMsg struct {
	ID int64
}

// Spinner is a gradient braille spinner with a trailing label.
type Spinner struct {
	id       int64
	label    string
	spinning bool
	ticks    int
	frames   []string
}

// New returns a stopped spinner. Colors come from the active theme.
func New(label string) Spinner {
	s := Spinner{id: idCounter.Add(1), label: label}
	s.Recolor()
	return s
}

// Start sets the spinner running. Tick schedules the first frame.
func (s *Spinner) Start() { s.spinning = true }

// Tick returns the command for the next frame.
func (s Spinner) Tick() tea.Cmd { return s.tick() }

// Stop halts the animation; View renders nothing afterwards.
func (s *Spinner) Stop() { s.spinning = false }

// Spinning reports whether the spinner is running.
func (s Spinner) Spinning() bool { return s.spinning }

// Recolor re-renders the frames for the current theme.
func (s *Spinner) Recolor() {
	n := len(glyphs)
	s.frames = make([]string, n)
	for i, g := range glyphs {
		// bounce between the two gradient ends
		t := math.Sin(math.Pi * float64(i) / float64(n-1))
		c := style.LerpColor(style.GradColorA, style.GradColorB, t)
		s.frames[i] = lipgloss.NewStyle().Foreground(c).Render(g)
	}
}

// Update advances on ticks addressed to this spinner.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != s.id || !s.spinning {
		return s, nil
	}
	s.ticks++
	return s, s.tick()
}

func (s Spinner) View() string {
	if !s.spinning {
		return ""
	}
	glyph := s.frames[s.ticks%len(s.frames)]
	dots := ellipsisStates[(s.ticks/ellipsisFrames)%len(ellipsisStates)]
	if s.label == "" {
		return glyph + dots
	}
	return glyph + " " + style.Hint.Render(s.label+dots)
}

func (s Spinner) tick() tea.Cmd {
	id := s.id
	return tea.Tick(frameDuration, func(time.Time) tea.Msg {
		return TickMsg{ID: id}
	})
}
