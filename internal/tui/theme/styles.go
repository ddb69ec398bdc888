package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// CreateSectionHeaderStyle creates a consistent section header style
func CreateSectionHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan))
}

// CreateInfoTextStyle creates a consistent info text style
func CreateInfoTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite))
}

// CreateSecondaryTextStyle creates a consistent secondary text style
func CreateSecondaryTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		Italic(true)
}

// CreateDialogStyle creates a consistent dialog style
func CreateDialogStyle(width int, borderColor string) lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(BorderStyleUnified).
		Padding(1, 3).
		Width(width).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(ColorWhite))

	if borderColor != "" {
		return style.BorderForeground(lipgloss.Color(borderColor))
	}
	return style.BorderForeground(lipgloss.Color(ColorBrightBlue))
}

// CreateHeaderStyle creates a consistent header style
func CreateHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan)).
		MarginLeft(1)
}

// CreateFooterStyle creates a consistent footer style
func CreateFooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		MarginTop(1).
		MarginLeft(1)
}

// CreateLoadingStyle creates a consistent loading state style
func CreateLoadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightYellow))
}

// BorderStyleUnified is the box border shared by dialogs and log boxes
var BorderStyleUnified = lipgloss.Border{
	Top:         "─",
	Bottom:      "─",
	Left:        "│",
	Right:       "│",
	TopLeft:     "┌",
	TopRight:    "┐",
	BottomLeft:  "└",
	BottomRight: "┘",
}

// CreatePromptStyle creates a style for prompt text in dialogs
func CreatePromptStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightYellow)).
		Bold(true).
		Align(lipgloss.Center)
}

// CreateDialogButtonStyle creates a style for popup buttons. Danger
// buttons are drawn red unless selected.
func CreateDialogButtonStyle(selected, danger bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Padding(0, 2).
		Margin(0, 1).
		Border(lipgloss.RoundedBorder())

	color := ColorBrightCyan
	if danger {
		color = ColorBrightRed
	}
	if selected {
		return style.
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(color)).
			BorderForeground(lipgloss.Color(color))
	}

	return style.
		Foreground(lipgloss.Color(color)).
		BorderForeground(lipgloss.Color(color))
}
