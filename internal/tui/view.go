package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	layout "github.com/HaiFongPan/fpick/internal/tui/config"
	"github.com/HaiFongPan/fpick/internal/tui/theme"
)

// View implements the bubbletea.Model interface
func (m *Model) View() string {
	if m.done {
		return ""
	}

	var view string
	switch {
	case m.popup != nil && m.popup.Picker:
		view = m.renderPicker()
	case m.popup != nil:
		view = m.renderFloatingDialog(m.renderDialog())
	default:
		view = m.renderPage()
	}

	if m.showHelp {
		return m.renderFloatingDialog(m.renderHelpDialog())
	}
	return view
}

// renderPage renders the output a flow put outside popups
func (m *Model) renderPage() string {
	var b strings.Builder
	b.WriteString(theme.CreateHeaderStyle().Render(m.title))
	b.WriteString("\n")

	if len(m.page) == 0 {
		b.WriteString(theme.CreateLoadingStyle().Render(fmt.Sprintf("%s Working...", m.spinner.View())))
		b.WriteString("\n")
	}

	for _, item := range m.page {
		if item.logbox == "" {
			b.WriteString(theme.CreateInfoTextStyle().Render(item.text))
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderLogbox(item.logbox))
		b.WriteString("\n")
	}

	if m.status.HasMessage() {
		b.WriteString(m.status.RenderMessage())
		b.WriteString("\n")
	}
	b.WriteString(theme.CreateFooterStyle().Render(m.help.ShortHelpView([]key.Binding{m.keyMap.Help, m.keyMap.Quit})))
	return b.String()
}

func (m *Model) renderLogbox(name string) string {
	lb := m.logboxes[name]
	lines := lb.visible()
	for len(lines) < lb.rows {
		lines = append(lines, "")
	}
	width := max(m.windowWidth-4, 20)
	return lipgloss.NewStyle().
		Border(theme.BorderStyleUnified).
		BorderForeground(lipgloss.Color(theme.ColorBrightBlack)).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// renderPicker renders the picker popup full screen: listing on the left,
// action, selection and buttons on the right
func (m *Model) renderPicker() string {
	tableWidth := int(float64(m.windowWidth) * layout.TablePanelWidthRatio)
	sideWidth := max(m.windowWidth-tableWidth-2, 20)

	header := theme.CreateHeaderStyle().Render(m.popup.Title)
	crumbs := m.renderBreadcrumb()

	var left string
	switch {
	case m.loading:
		left = theme.CreateLoadingStyle().Render(fmt.Sprintf("%s Loading files...", m.spinner.View()))
	case len(m.rows) == 0:
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ColorBrightBlack)).
			Width(tableWidth).
			Height(m.fileTable.Height()).
			Align(lipgloss.Center).
			AlignVertical(lipgloss.Center).
			Render("No files found")
	default:
		left = m.fileTable.View()
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Width(tableWidth).Render(left),
		lipgloss.NewStyle().Width(2).Render("  "),
		m.renderSidePanel(sideWidth),
	)

	status := ""
	if m.status.HasMessage() {
		status = m.status.RenderMessage()
	}
	footer := theme.CreateFooterStyle().Render(m.help.ShortHelpView(m.keyMap.ShortHelp()))

	return lipgloss.JoinVertical(lipgloss.Left, header, crumbs, content, status, footer)
}

func (m *Model) renderBreadcrumb() string {
	parts := make([]string, len(m.crumbs))
	for i, c := range m.crumbs {
		style := theme.CreateSecondaryTextStyle()
		if i == len(m.crumbs)-1 {
			style = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorBrightBlue))
		}
		parts[i] = style.Render(c.Label)
	}
	return " " + strings.Join(parts, " / ")
}

func (m *Model) renderSidePanel(width int) string {
	var b strings.Builder

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder(), false, false, false, true)

	titleStyle := theme.CreateSectionHeaderStyle()

	b.WriteString(titleStyle.Render("Action"))
	b.WriteString("\n")
	if m.action != nil {
		b.WriteString(theme.CreateDialogButtonStyle(false, false).Render(m.action.Label + "  [a]"))
	} else {
		b.WriteString(theme.CreateSecondaryTextStyle().Render("Highlight a row"))
	}
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render(fmt.Sprintf("Selected (%d)", len(m.selected))))
	b.WriteString("\n")
	if len(m.selected) == 0 {
		b.WriteString(theme.CreateSecondaryTextStyle().Render("Nothing selected"))
	}
	for i, name := range m.selected {
		line := "  " + name
		style := theme.CreateInfoTextStyle()
		if m.focus == focusSelection && i == m.selCursor {
			line = "✕ " + name
			style = style.Bold(true).Foreground(lipgloss.Color(theme.ColorBrightRed))
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderButtons())

	return panelStyle.Render(b.String())
}

func (m *Model) renderButtons() string {
	buttons := make([]string, len(m.popup.Buttons))
	for i, btn := range m.popup.Buttons {
		selected := m.focus == focusButtons && i == m.button
		buttons[i] = theme.CreateDialogButtonStyle(selected, btn.Color == "danger").Render(btn.Label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

// renderDialog renders confirm and form popups
func (m *Model) renderDialog() string {
	width := layout.DialogDefaultWidth
	if m.popup.Large {
		width = layout.DialogLargeWidth
	}

	var b strings.Builder
	b.WriteString(theme.CreatePromptStyle().Render(m.popup.Title))
	b.WriteString("\n\n")
	if m.popup.Content != "" {
		b.WriteString(theme.CreateInfoTextStyle().Render(m.popup.Content))
		b.WriteString("\n\n")
	}

	for i, f := range m.popup.Fields {
		label := f.Label
		if label == "" {
			label = f.Name
		}
		if f.Required {
			label += " *"
		}
		labelStyle := theme.CreateSecondaryTextStyle()
		if m.focus == focusFields && i == m.field {
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorBrightYellow))
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderButtons())
	if m.status.HasMessage() {
		b.WriteString("\n\n")
		b.WriteString(m.status.RenderMessage())
	}

	return theme.CreateDialogStyle(width, "").Render(b.String())
}

// renderFloatingDialog centers a dialog on the screen
func (m *Model) renderFloatingDialog(dialog string) string {
	return lipgloss.Place(
		m.windowWidth,
		m.windowHeight,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("#222222")),
	)
}

// renderHelpDialog renders the help dialog using bubbles components
func (m *Model) renderHelpDialog() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFEB3B")).
		Align(lipgloss.Center).
		MarginBottom(1)

	title := titleStyle.Render("🚀 File Picker - Help")
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.help.FullHelpView(m.keyMap.FullHelp()))
	m.helpViewport.SetContent(content)

	dialogStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FFEB3B")).
		Padding(1).
		Width(min(layout.HelpDialogWidth, m.windowWidth-10)).
		Background(lipgloss.Color("#1a1a1a")).
		Foreground(lipgloss.Color("#FFFFFF"))

	instructions := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.ColorBrightBlack)).
		Italic(true).
		Align(lipgloss.Center).
		MarginTop(1).
		Render("Press ? or esc to close help • Use ↑↓ to scroll")

	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.helpViewport.View(), instructions))
}
