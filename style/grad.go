package style

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// LerpColor linearly interpolates between a and b at t in [0,1].
func LerpColor(a, b color.Color, t float64) color.Color {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()

	// RGBA() is 16-bit per channel.
	lerp := func(x, y uint32) uint8 {
		v := float64(x>>8)*(1-t) + float64(y>>8)*t
		return uint8(min(v, 255))
	}

	return color.NRGBA{
		R: lerp(ar, br),
		G: lerp(ag, bg),
		B: lerp(ab, bb),
		A: lerp(aa, ba),
	}
}

// hex renders c as "#RRGGBB", dropping alpha.
func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

// Gradient colors each rune of text along from→to on top of base.
func Gradient(text string, from, to color.Color, base lipgloss.Style) string {
	runes := []rune(text)
	n := len(runes)
	switch n {
	case 0:
		return ""
	case 1:
		return base.Foreground(lipgloss.Color(hex(from))).Render(text)
	}

	var sb strings.Builder
	for i, r := range runes {
		c := LerpColor(from, to, float64(i)/float64(n-1))
		sb.WriteString(base.Foreground(lipgloss.Color(hex(c))).Render(string(r)))
	}
	return sb.String()
}

// Title renders s in bold along the theme gradient.
func Title(s string) string {
	return Gradient(s, GradColorA, GradColorB, lipgloss.NewStyle().Bold(true))
}
