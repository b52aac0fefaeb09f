package style

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme defines a complete color palette for the list host.
type Theme struct {
	Name                                        string
	Primary, Secondary, Success, Warning, Error color.Color
	Muted, Dim, Border                          color.Color

	// Gradient endpoints (A=from, B=to)
	GradA color.Color
	GradB color.Color
}

// Built-in themes.
var (
	darkTheme = Theme{
		Name:      "dark",
		Primary:   lipgloss.Color("#7C3AED"),
		Secondary: lipgloss.Color("#06B6D4"),
		Success:   lipgloss.Color("#22C55E"),
		Warning:   lipgloss.Color("#F59E0B"),
		Error:     lipgloss.Color("#EF4444"),
		Muted:     lipgloss.Color("#6B7280"),
		Dim:       lipgloss.Color("#374151"),
		Border:    lipgloss.Color("#4B5563"),
		GradA:     lipgloss.Color("#7C3AED"),
		GradB:     lipgloss.Color("#06B6D4"),
	}

	lightTheme = Theme{
		Name:      "light",
		Primary:   lipgloss.Color("#6D28D9"),
		Secondary: lipgloss.Color("#0891B2"),
		Success:   lipgloss.Color("#16A34A"),
		Warning:   lipgloss.Color("#D97706"),
		Error:     lipgloss.Color("#DC2626"),
		Muted:     lipgloss.Color("#9CA3AF"),
		Dim:       lipgloss.Color("#D1D5DB"),
		Border:    lipgloss.Color("#9CA3AF"),
		GradA:     lipgloss.Color("#6D28D9"),
		GradB:     lipgloss.Color("#0891B2"),
	}

	catppuccinTheme = Theme{
		Name:      "catppuccin",
		Primary:   lipgloss.Color("#CBA6F7"),
		Secondary: lipgloss.Color("#89DCEB"),
		Success:   lipgloss.Color("#A6E3A1"),
		Warning:   lipgloss.Color("#F9E2AF"),
		Error:     lipgloss.Color("#F38BA8"),
		Muted:     lipgloss.Color("#6C7086"),
		Dim:       lipgloss.Color("#45475A"),
		Border:    lipgloss.Color("#585B70"),
		GradA:     lipgloss.Color("#CBA6F7"),
		GradB:     lipgloss.Color("#89DCEB"),
	}

	tokyoNightTheme = Theme{
		Name:      "tokyo-night",
		Primary:   lipgloss.Color("#7AA2F7"),
		Secondary: lipgloss.Color("#7DCFFF"),
		Success:   lipgloss.Color("#9ECE6A"),
		Warning:   lipgloss.Color("#E0AF68"),
		Error:     lipgloss.Color("#F7768E"),
		Muted:     lipgloss.Color("#565F89"),
		Dim:       lipgloss.Color("#3B4261"),
		Border:    lipgloss.Color("#414868"),
		GradA:     lipgloss.Color("#7AA2F7"),
		GradB:     lipgloss.Color("#7DCFFF"),
	}
)

// Themes maps theme names to their definitions.
var Themes = map[string]Theme{
	"dark":        darkTheme,
	"light":       lightTheme,
	"catppuccin":  catppuccinTheme,
	"tokyo-night": tokyoNightTheme,
}

// ThemeNames lists available themes in display order.
var ThemeNames = []string{"dark", "light", "catppuccin", "tokyo-night"}

// CurrentThemeName tracks the active theme name.
var CurrentThemeName = "dark"
