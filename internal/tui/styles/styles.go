package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/marquee/internal/domain"
)

// Palette is the set of colors a theme is built from
type Palette struct {
	Accent    lipgloss.Color
	Secondary lipgloss.Color
	Surface   lipgloss.Color
	Raised    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Dim       lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
}

// Neon is the default palette
var Neon = Palette{
	Accent:    lipgloss.Color("#FF2E88"),
	Secondary: lipgloss.Color("#00E5FF"),
	Surface:   lipgloss.Color("#120B1E"),
	Raised:    lipgloss.Color("#2A1640"),
	Text:      lipgloss.Color("#F9FAFB"),
	Muted:     lipgloss.Color("#C4B5FD"),
	Dim:       lipgloss.Color("#6B7280"),
	Error:     lipgloss.Color("#EF4444"),
	Success:   lipgloss.Color("#39FF14"),
}

// Dark is the subdued palette
var Dark = Palette{
	Accent:    lipgloss.Color("#E50914"),
	Secondary: lipgloss.Color("#9CA3AF"),
	Surface:   lipgloss.Color("#111111"),
	Raised:    lipgloss.Color("#374151"),
	Text:      lipgloss.Color("#F9FAFB"),
	Muted:     lipgloss.Color("#9CA3AF"),
	Dim:       lipgloss.Color("#6B7280"),
	Error:     lipgloss.Color("#EF4444"),
	Success:   lipgloss.Color("#10B981"),
}

// Star marks wishlisted titles
const Star = "★"

// SpinnerFrames are used by the plain-terminal prompts outside the TUI
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Styles is a palette rendered into lipgloss styles
type Styles struct {
	Palette Palette

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Dim        lipgloss.Style
	Accent     lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Badge      lipgloss.Style
	DimBadge   lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Row        lipgloss.Style
	Selected   lipgloss.Style
	Highlight  lipgloss.Style
	Panel      lipgloss.Style
	Modal      lipgloss.Style
	HelpKey    lipgloss.Style
	HelpDesc   lipgloss.Style
	Wishlisted lipgloss.Style
}

// For returns the styles for a theme
func For(theme domain.Theme) Styles {
	if theme == domain.ThemeDark {
		return New(Dark)
	}
	return New(Neon)
}

// New builds styles from a palette
func New(p Palette) Styles {
	return Styles{
		Palette: p,

		Title:    lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(p.Muted),
		Dim:      lipgloss.NewStyle().Foreground(p.Dim),
		Accent:   lipgloss.NewStyle().Foreground(p.Accent),
		Error:    lipgloss.NewStyle().Foreground(p.Error),
		Success:  lipgloss.NewStyle().Foreground(p.Success),

		Badge: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Accent).
			Padding(0, 1),
		DimBadge: lipgloss.NewStyle().
			Foreground(p.Muted).
			Background(p.Raised).
			Padding(0, 1),

		Tab: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Accent).
			Bold(true).
			Padding(0, 1),

		Row: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Raised).
			Padding(0, 1),
		Highlight: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Dim).
			Padding(0, 1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(1, 2),

		HelpKey:    lipgloss.NewStyle().Foreground(p.Accent),
		HelpDesc:   lipgloss.NewStyle().Foreground(p.Dim),
		Wishlisted: lipgloss.NewStyle().Foreground(p.Accent),
	}
}

// Truncate shortens s to width display cells with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Pad truncates or right-pads s to exactly width display cells
func Pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(Truncate(s, width), width)
}
