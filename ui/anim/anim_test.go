package anim

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinner_StoppedRendersNothing(t *testing.T) {
	s := New("Loading")
	assert.False(t, s.Spinning())
	assert.Empty(t, s.View())

	s, cmd := s.Update(TickMsg{ID: s.id})
	assert.Nil(t, cmd)
	assert.Zero(t, s.ticks)
}

func TestSpinner_Advances(t *testing.T) {
	s := New("Loading")
	s.Start()
	assert.Equal(t, "⠋ Loading", ansi.Strip(s.View()))

	s, cmd := s.Update(TickMsg{ID: s.id})
	require.NotNil(t, cmd)
	assert.Equal(t, "⠙ Loading", ansi.Strip(s.View()))

	for range ellipsisFrames - 1 {
		s, _ = s.Update(TickMsg{ID: s.id})
	}
	assert.Equal(t, "⠇ Loading.", ansi.Strip(s.View()))
}

func TestSpinner_IgnoresOtherIDs(t *testing.T) {
	a, b := New(""), New("")
	a.Start()
	a, cmd := a.Update(TickMsg{ID: b.id})
	assert.Nil(t, cmd)
	assert.Equal(t, "⠋", ansi.Strip(a.View()))

	a.Stop()
	assert.Empty(t, a.View())
}
