package style

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Colors, initialized to dark theme defaults. Updated via SetTheme().
var (
	Primary   color.Color = lipgloss.Color("#7C3AED")
	Secondary color.Color = lipgloss.Color("#06B6D4")
	Success   color.Color = lipgloss.Color("#22C55E")
	Warning   color.Color = lipgloss.Color("#F59E0B")
	Error     color.Color = lipgloss.Color("#EF4444")
	Muted     color.Color = lipgloss.Color("#6B7280")
	Dim       color.Color = lipgloss.Color("#374151")
	Border    color.Color = lipgloss.Color("#4B5563")

	// Gradient endpoints, violet to cyan on the dark theme.
	GradColorA color.Color = lipgloss.Color("#7C3AED")
	GradColorB color.Color = lipgloss.Color("#06B6D4")
)

// Base styles, rebuilt when the theme changes via rebuildStyles().
var (
	ErrorText lipgloss.Style

	// Header
	HeaderMeta lipgloss.Style
	Separator  lipgloss.Style

	// Items
	ItemIndex       lipgloss.Style
	ItemPlaceholder lipgloss.Style
	ItemBorder      lipgloss.Style

	// Status bar
	StatusBar       lipgloss.Style
	StatusSignal    lipgloss.Style
	StatusScrolling lipgloss.Style

	// Metrics panel
	MetricsPanel lipgloss.Style
	MetricsTitle lipgloss.Style
	MetricsLabel lipgloss.Style
	MetricsValue lipgloss.Style

	// Scrollbar
	ScrollbarThumb lipgloss.Style
	ScrollbarTrack lipgloss.Style

	// Help
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	Hint lipgloss.Style
)

func init() {
	rebuildStyles()
}

// SetTheme switches to the named theme. Returns false for unknown names.
func SetTheme(name string) bool {
	t, ok := Themes[name]
	if !ok {
		return false
	}
	CurrentThemeName = name
	Primary = t.Primary
	Secondary = t.Secondary
	Success = t.Success
	Warning = t.Warning
	Error = t.Error
	Muted = t.Muted
	Dim = t.Dim
	Border = t.Border
	GradColorA = t.GradA
	GradColorB = t.GradB
	rebuildStyles()
	return true
}

// IsDark returns whether the current theme is dark.
func IsDark() bool {
	return CurrentThemeName != "light"
}

func rebuildStyles() {
	ErrorText = lipgloss.NewStyle().Foreground(Error)

	HeaderMeta = lipgloss.NewStyle().Foreground(Muted)
	Separator = lipgloss.NewStyle().Foreground(Dim)

	ItemIndex = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	ItemPlaceholder = lipgloss.NewStyle().Foreground(Dim).Italic(true)
	ItemBorder = lipgloss.NewStyle().Foreground(Border)

	StatusBar = lipgloss.NewStyle().Foreground(Muted)
	StatusSignal = lipgloss.NewStyle().Foreground(Success)
	StatusScrolling = lipgloss.NewStyle().Foreground(Warning).Bold(true)

	MetricsPanel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	MetricsTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	MetricsLabel = lipgloss.NewStyle().Foreground(Muted)
	MetricsValue = lipgloss.NewStyle().Foreground(Secondary)

	ScrollbarThumb = lipgloss.NewStyle().Foreground(Primary)
	ScrollbarTrack = lipgloss.NewStyle().Foreground(Dim)

	HelpKey = lipgloss.NewStyle().Foreground(Secondary)
	HelpDesc = lipgloss.NewStyle().Foreground(Muted)
	HelpSeparator = lipgloss.NewStyle().Foreground(Dim)

	Hint = lipgloss.NewStyle().Foreground(Muted).Italic(true)
}

// WindowBarRender draws how much of the collection is materialized, like:
// ░░░███░░░░. from and to are fractions of the scroll extent.
func WindowBarRender(from, to float64, width int) string {
	if width <= 0 {
		return ""
	}
	start := clampCells(int(from*float64(width)), width)
	end := clampCells(int(to*float64(width)+0.5), width)
	if end <= start {
		end = min(start+1, width)
		start = end - 1
	}

	c := Primary
	if to-from >= 0.5 {
		c = Warning
	}
	dim := lipgloss.NewStyle().Foreground(Dim)
	return dim.Render(strings.Repeat("░", start)) +
		lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("█", end-start)) +
		dim.Render(strings.Repeat("░", width-end))
}

func clampCells(n, width int) int {
	return max(0, min(n, width))
}
