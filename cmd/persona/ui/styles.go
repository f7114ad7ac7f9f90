// Package ui provides the visual styling for the persona chat TUI, with
// light/dark mode support and dedicated styles for the interactive widgets
// (checklists, keywords, buttons, reference lists).
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#f7f7f8")
	LightForeground = lipgloss.Color("#1a1f36")
	LightPrimary    = lipgloss.Color("#5b4fc4") // Violet
	LightAccent     = lipgloss.Color("#0e9f8a") // Teal
	LightSecondary  = lipgloss.Color("#e4e6eb")
	LightMuted      = lipgloss.Color("#9aa0ae")
	LightBorder     = lipgloss.Color("#d9dce3")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#15192b")
	DarkForeground = lipgloss.Color("#eceef4")
	DarkPrimary    = lipgloss.Color("#8d82e8") // Violet (lifted)
	DarkAccent     = lipgloss.Color("#2fc4ad") // Teal (lifted)
	DarkSecondary  = lipgloss.Color("#222941")
	DarkMuted      = lipgloss.Color("#5a617a")
	DarkBorder     = lipgloss.Color("#2c3452")
	DarkCard       = lipgloss.Color("#1c2238")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e5484d")
	Success     = lipgloss.Color("#46a758")
	Warning     = lipgloss.Color("#f5a623")
	Info        = lipgloss.Color("#3b82f6")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme auto-detects based on terminal hints, defaulting to light.
func DetectTheme() Theme {
	// COLORFGBG is "foreground;background"; low background indices are
	// dark terminals.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("PERSONA_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// ThemeByName resolves the configured theme name, falling back to
// auto-detection for anything unrecognized.
func ThemeByName(name string) Theme {
	switch strings.ToLower(name) {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Interactive
	Prompt          lipgloss.Style
	UserInput       lipgloss.Style
	PersonaResponse lipgloss.Style

	// Widgets
	ChecklistDone    lipgloss.Style
	ChecklistPending lipgloss.Style
	Keyword          lipgloss.Style
	Button           lipgloss.Style
	Reference        lipgloss.Style
	WidgetIndex      lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		UserInput: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		PersonaResponse: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		ChecklistDone: lipgloss.NewStyle().
			Foreground(Success).
			Strikethrough(true),

		ChecklistPending: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Keyword: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Underline(true),

		Button: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		Reference: lipgloss.NewStyle().
			Foreground(Info).
			Italic(true),

		WidgetIndex: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
	}
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
