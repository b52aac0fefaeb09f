package style

import (
	"image/color"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme("dark") })

	for _, name := range ThemeNames {
		assert.True(t, SetTheme(name), name)
		assert.Equal(t, name, CurrentThemeName)
		assert.Equal(t, Themes[name].Primary, Primary)
	}
	assert.False(t, SetTheme("nope"))
	assert.Equal(t, ThemeNames[len(ThemeNames)-1], CurrentThemeName)

	SetTheme("light")
	assert.False(t, IsDark())
}

func TestLerpColor(t *testing.T) {
	a := color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	b := color.NRGBA{R: 200, G: 100, B: 50, A: 255}

	assert.Equal(t, a, LerpColor(a, b, -1))
	assert.Equal(t, b, LerpColor(a, b, 2))
	assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 25, A: 255}, LerpColor(a, b, 0.5))
}

func TestGradient_KeepsText(t *testing.T) {
	out := Gradient("virtual", GradColorA, GradColorB, lipgloss.NewStyle())
	assert.Equal(t, "virtual", ansi.Strip(out))
	assert.Empty(t, Gradient("", GradColorA, GradColorB, lipgloss.NewStyle()))
	assert.Equal(t, "x", ansi.Strip(Title("x")))
}

func TestWindowBarRender(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		width    int
		want     string
	}{
		{"head", 0, 0.3, 10, "███░░░░░░░"},
		{"middle", 0.5, 0.7, 10, "░░░░░██░░░"},
		{"tiny window still shows", 0.99, 0.995, 10, "░░░░░░░░░█"},
		{"zero width", 0, 1, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(WindowBarRender(tt.from, tt.to, tt.width))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.width, len([]rune(got)))
		})
	}
	assert.True(t, strings.Contains(ansi.Strip(WindowBarRender(0, 1, 4)), "████"))
}
