package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color scheme for the chat view.
type Theme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Hint      lipgloss.Color
	Selection lipgloss.Color
}

var darkTheme = Theme{
	User:      lipgloss.Color("#5FAFD7"), // light blue
	Assistant: lipgloss.Color("#D7D7D7"), // near white
	Accent:    lipgloss.Color("#AF87FF"), // violet
	Success:   lipgloss.Color("#00D787"), // green
	Error:     lipgloss.Color("#FF005F"), // red
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
	Selection: lipgloss.Color("#3A3A3A"), // dark gray
}

var lightTheme = Theme{
	User:      lipgloss.Color("#005F87"), // dark blue
	Assistant: lipgloss.Color("#303030"), // near black
	Accent:    lipgloss.Color("#5F00AF"), // violet
	Success:   lipgloss.Color("#008751"), // green
	Error:     lipgloss.Color("#D70000"), // red
	Hint:      lipgloss.Color("#8A8A8A"), // gray
	Selection: lipgloss.Color("#D0D0D0"), // light gray
}

// themeByName resolves the configured theme, defaulting to dark.
func themeByName(name string) Theme {
	if name == "light" {
		return lightTheme
	}
	return darkTheme
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant)
}

func (t Theme) accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) selectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Background(t.Selection).Bold(true)
}
