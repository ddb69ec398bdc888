package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/session"
	layout "github.com/HaiFongPan/fpick/internal/tui/config"
	"github.com/HaiFongPan/fpick/internal/tui/messaging"
	"github.com/HaiFongPan/fpick/internal/tui/theme"
	"github.com/HaiFongPan/fpick/internal/utils"
)

// focusArea is the part of a popup receiving keys
type focusArea int

const (
	focusTable focusArea = iota
	focusSelection
	focusFields
	focusButtons
)

// logbox is a named scrolling output area on the page
type logbox struct {
	lines      []string
	partial    string
	rows       int
	keepBottom bool
}

// pageItem is one block of page output, in the order it was put
type pageItem struct {
	logbox string
	text   string
}

// Model is the bubbletea model of the terminal host. It renders the page
// output of a flow and at most one popup on top of it.
type Model struct {
	title        string
	windowWidth  int
	windowHeight int

	keyMap       KeyMap
	help         help.Model
	helpViewport viewport.Model
	spinner      spinner.Model
	status       messaging.StatusManager
	showHelp     bool

	// noticeDuration of zero keeps notices until replaced
	noticeDuration time.Duration
	emitter        func(session.Event)

	popup *session.Popup
	focus focusArea

	// picker popup state, fed by the Sink calls
	loading   bool
	crumbs    []picker.Crumb
	rows      []picker.Row
	marks     map[string]bool
	action    *picker.Action
	selected  []string
	selCursor int
	fileTable table.Model
	nameWidth int

	// dialog state
	button int
	inputs []textinput.Model
	field  int

	page     []pageItem
	logboxes map[string]*logbox

	done bool
	err  error
}

// NewModel creates a terminal host model titled title
func NewModel(title string) *Model {
	t := table.New(
		table.WithColumns(tableColumns(layout.MinColumnNameWidth)),
		table.WithHeight(layout.DefaultTableHeight),
		table.WithFocused(true),
		table.WithStyles(table.Styles{
			Header: lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#00FFFF")).
				BorderBottom(true).
				Bold(true).
				Foreground(lipgloss.Color("#00FFFF")).
				Background(lipgloss.Color("#1a1a1a")),
			Selected: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#4A90E2")).
				Bold(true),
			Cell: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")),
		}),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.CreateLoadingStyle()

	h := help.New()
	h.ShowAll = false

	vp := viewport.New(60, layout.HelpDialogHeight)

	return &Model{
		title:          title,
		windowWidth:    80,
		windowHeight:   24,
		keyMap:         DefaultKeyMap(),
		help:           h,
		helpViewport:   vp,
		spinner:        s,
		status:         messaging.NewStatusManager(),
		noticeDuration: layout.NoticeDuration,
		marks:          map[string]bool{},
		fileTable:      t,
		nameWidth:      layout.MinColumnNameWidth,
		logboxes:       map[string]*logbox{},
	}
}

// SetEmitter sets where user events are delivered
func (m *Model) SetEmitter(emit func(session.Event)) {
	m.emitter = emit
}

// Init implements the bubbletea.Model interface
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements the bubbletea.Model interface
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.updateTableSize()
		m.helpViewport.Width = min(60, msg.Width-10)
		m.helpViewport.Height = min(layout.HelpDialogHeight, msg.Height-10)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case breadcrumbMsg:
		m.crumbs = msg.crumbs

	case entriesMsg:
		m.loading = false
		m.rows = msg.rows
		m.marks = map[string]bool{}
		m.updateTable()
		m.fileTable.SetCursor(0)

	case actionMsg:
		m.action = msg.action

	case selectionMsg:
		m.selected = msg.files
		if m.selCursor >= len(m.selected) {
			m.selCursor = max(len(m.selected)-1, 0)
		}
		if len(m.selected) == 0 && m.focus == focusSelection {
			m.setFocus(focusTable)
		}

	case clearRowsMsg:
		m.marks = map[string]bool{}
		m.updateTable()

	case noticeMsg:
		return m, m.setStatus(msg.notice.Message, msg.notice.Level)

	case clearStatusMsg:
		m.status.ClearMessage(msg.seq)

	case clipboardMsg:
		if msg.err != nil {
			logrus.Warnf("tui: copy to clipboard: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Copy failed: %v", msg.err), picker.LevelError)
		}
		return m, m.setStatus(fmt.Sprintf("Copied %d path(s)", msg.count), picker.LevelSuccess)

	case popupMsg:
		return m, m.openPopup(msg.popup)

	case closePopupMsg:
		m.popup = nil
		m.inputs = nil
		m.showHelp = false

	case logboxMsg:
		rows := layout.LogboxDefaultRows
		if msg.height > 0 {
			rows = max(msg.height/40, 3)
		}
		if _, ok := m.logboxes[msg.name]; !ok {
			m.page = append(m.page, pageItem{logbox: msg.name})
		}
		m.logboxes[msg.name] = &logbox{rows: rows, keepBottom: msg.keepBottom}

	case logboxAppendMsg:
		if lb, ok := m.logboxes[msg.name]; ok {
			lb.append(msg.text)
		}

	case logboxClearMsg:
		if lb, ok := m.logboxes[msg.name]; ok {
			lb.lines = nil
			lb.partial = ""
		}

	case mediaMsg:
		m.page = append(m.page, pageItem{text: mediaLine(msg)})

	case flowDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

// emit delivers a user event to the running flow
func (m *Model) emit(ev session.Event) {
	if m.emitter == nil {
		return
	}
	logrus.Debugf("tui: event %T", ev)
	m.emitter(ev)
}

func (m *Model) setStatus(message string, level picker.Level) tea.Cmd {
	seq := m.status.SetMessage(message, level)
	if m.noticeDuration <= 0 {
		return nil
	}
	return tea.Tick(m.noticeDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) openPopup(p session.Popup) tea.Cmd {
	m.popup = &p
	m.button = 0
	m.field = 0
	m.inputs = nil
	m.showHelp = false

	if p.Picker {
		m.loading = true
		m.crumbs = nil
		m.rows = nil
		m.action = nil
		m.selected = nil
		m.selCursor = 0
		m.marks = map[string]bool{}
		m.updateTable()
		m.setFocus(focusTable)
		return nil
	}

	if len(p.Fields) == 0 {
		m.setFocus(focusButtons)
		return nil
	}

	for _, f := range p.Fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = layout.DialogDefaultWidth - 10
		if f.Type == "password" {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.SetValue(f.Value)
		m.inputs = append(m.inputs, ti)
	}
	m.setFocus(focusFields)
	return m.inputs[0].Focus()
}

// setFocus moves keyboard focus, keeping the table and inputs in step
func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusTable {
		m.fileTable.Focus()
	} else {
		m.fileTable.Blur()
	}
	for i := range m.inputs {
		if f == focusFields && i == m.field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// focusOrder lists the focus areas the open popup offers
func (m *Model) focusOrder() []focusArea {
	switch {
	case m.popup == nil:
		return nil
	case m.popup.Picker:
		order := []focusArea{focusTable}
		if len(m.selected) > 0 {
			order = append(order, focusSelection)
		}
		return append(order, focusButtons)
	case len(m.inputs) > 0:
		return []focusArea{focusFields, focusButtons}
	default:
		return []focusArea{focusButtons}
	}
}

func (m *Model) cycleFocus(step int) {
	order := m.focusOrder()
	if len(order) == 0 {
		return
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	m.setFocus(order[(idx+step+len(order))%len(order)])
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keyMap.Help, m.keyMap.Cancel) {
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpViewport, cmd = m.helpViewport.Update(msg)
		return m, cmd
	}

	if m.popup == nil {
		if key.Matches(msg, m.keyMap.Help) {
			m.showHelp = true
		}
		return m, nil
	}

	if m.focus == focusFields {
		return m.handleFieldKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keyMap.Focus):
		if msg.String() == "shift+tab" {
			m.cycleFocus(-1)
		} else {
			m.cycleFocus(1)
		}
		return m, nil
	case key.Matches(msg, m.keyMap.Confirm):
		m.pressFirst(session.ButtonConfirm, session.ButtonSubmit)
		return m, nil
	case key.Matches(msg, m.keyMap.Cancel):
		m.pressFirst(session.ButtonCancel)
		return m, nil
	}

	switch m.focus {
	case focusButtons:
		return m.handleButtonKey(msg)
	case focusSelection:
		return m.handleSelectionKey(msg)
	default:
		return m.handleTableKey(msg)
	}
}

// handleTableKey drives the listing of a picker popup
func (m *Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, ok := m.cursorRow()

	switch {
	case key.Matches(msg, m.keyMap.Open):
		if ok {
			m.emit(session.RowActivated{Path: row.ID})
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Mark):
		if !ok {
			return m, nil
		}
		if !m.popup.Multiple {
			m.marks = map[string]bool{}
		}
		if m.marks[row.ID] {
			delete(m.marks, row.ID)
		} else {
			m.marks[row.ID] = true
		}
		m.updateTable()
		m.emit(session.SelectionChanged{Paths: m.highlighted()})
		return m, nil

	case key.Matches(msg, m.keyMap.Action):
		if m.action != nil {
			m.emit(session.ActionActivated{ID: m.action.ID})
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Parent):
		if len(m.crumbs) > 1 {
			m.emit(session.CrumbClicked{Path: m.crumbs[len(m.crumbs)-2].Path})
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Copy):
		return m, copySelection(m.selected, m.crumbRoot())
	}

	before := m.fileTable.Cursor()
	var cmd tea.Cmd
	m.fileTable, cmd = m.fileTable.Update(msg)
	if m.fileTable.Cursor() != before && len(m.marks) == 0 {
		m.emit(session.SelectionChanged{Paths: m.highlighted()})
	}
	return m, cmd
}

// handleSelectionKey drives the list of picked files
func (m *Model) handleSelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		if m.selCursor > 0 {
			m.selCursor--
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.selCursor < len(m.selected)-1 {
			m.selCursor++
		}
	case key.Matches(msg, m.keyMap.Remove, m.keyMap.Open):
		if m.selCursor < len(m.selected) {
			m.emit(session.SelectedFileClicked{Name: m.selected[m.selCursor]})
		}
	case key.Matches(msg, m.keyMap.Copy):
		return m, copySelection(m.selected, m.crumbRoot())
	}
	return m, nil
}

func (m *Model) handleButtonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.popup.Buttons)
	if n == 0 {
		return m, nil
	}
	switch msg.String() {
	case "left", "h", "up", "k":
		m.button = (m.button - 1 + n) % n
	case "right", "l", "down", "j":
		m.button = (m.button + 1) % n
	case "enter", " ":
		m.press(m.popup.Buttons[m.button].Value)
	}
	return m, nil
}

// handleFieldKey types into the focused form input
func (m *Model) handleFieldKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		if m.field < len(m.inputs)-1 {
			m.field++
			m.setFocus(focusFields)
		} else {
			m.setFocus(focusButtons)
		}
		return m, nil
	case "shift+tab", "up":
		if m.field > 0 {
			m.field--
			m.setFocus(focusFields)
		}
		return m, nil
	case "enter":
		m.pressFirst(session.ButtonSubmit, session.ButtonConfirm)
		return m, nil
	case "esc":
		m.pressFirst(session.ButtonCancel)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	return m, cmd
}

// pressFirst presses the first popup button with one of values
func (m *Model) pressFirst(values ...string) {
	for _, v := range values {
		for i, b := range m.popup.Buttons {
			if b.Value == v {
				m.button = i
				m.press(v)
				return
			}
		}
	}
}

func (m *Model) press(value string) {
	ev := session.ButtonClicked{Popup: m.popup.ID, Value: value}
	if len(m.inputs) > 0 {
		ev.Values = make(map[string]string, len(m.inputs))
		for i, f := range m.popup.Fields {
			ev.Values[f.Name] = m.inputs[i].Value()
		}
	}
	m.emit(ev)
}

func (m *Model) cursorRow() (picker.Row, bool) {
	c := m.fileTable.Cursor()
	if c < 0 || c >= len(m.rows) {
		return picker.Row{}, false
	}
	return m.rows[c], true
}

// highlighted returns the marked rows, or the row under the cursor when
// nothing is marked
func (m *Model) highlighted() []string {
	if len(m.marks) > 0 {
		paths := make([]string, 0, len(m.marks))
		for _, r := range m.rows {
			if m.marks[r.ID] {
				paths = append(paths, r.ID)
			}
		}
		return paths
	}
	if row, ok := m.cursorRow(); ok {
		return []string{row.ID}
	}
	return nil
}

func (m *Model) crumbRoot() string {
	if len(m.crumbs) == 0 {
		return ""
	}
	return m.crumbs[0].Path
}

// copySelection copies the picked files as absolute paths
func copySelection(selected []string, root string) tea.Cmd {
	if len(selected) == 0 {
		return nil
	}
	paths := make([]string, len(selected))
	for i, rel := range selected {
		paths[i] = joinRoot(root, rel)
	}
	return func() tea.Msg {
		return clipboardMsg{count: len(paths), err: utils.CopyPaths(paths)}
	}
}

func joinRoot(root, rel string) string {
	if root == "" {
		return rel
	}
	return strings.TrimSuffix(root, "/") + "/" + rel
}

func tableColumns(nameWidth int) []table.Column {
	return []table.Column{
		{Title: "📄 NAME", Width: nameWidth},
		{Title: "📊 SIZE", Width: layout.DefaultColumnSizeWidth},
		{Title: "🕒 MODIFIED", Width: layout.DefaultColumnModifiedWidth},
	}
}

// updateTableSize updates table dimensions and column widths
func (m *Model) updateTableSize() {
	width := int(float64(m.windowWidth)*layout.TablePanelWidthRatio) - 8
	nameWidth := width - layout.DefaultColumnSizeWidth - layout.DefaultColumnModifiedWidth
	m.nameWidth = min(max(nameWidth, layout.MinColumnNameWidth), layout.MaxColumnNameWidth)

	m.fileTable.SetColumns(tableColumns(m.nameWidth))
	m.fileTable.SetHeight(max(m.windowHeight-layout.HeaderHeight-4, 5))
	m.updateTable()
}

// updateTable rebuilds the table rows from the listing
func (m *Model) updateTable() {
	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		rows[i] = table.Row{m.rowName(r, m.nameWidth), r.Size, humanModified(r.Modified)}
	}
	m.fileTable.SetRows(rows)
}

func (m *Model) rowName(r picker.Row, width int) string {
	name := r.Name
	category := utils.CategoryOf(r.Name, r.Dir)
	if !r.Dir {
		name = theme.GetCategoryEmoji(category) + " " + name
	}
	if m.popup != nil && m.popup.Multiple {
		if m.marks[r.ID] {
			name = "✓ " + name
		} else {
			name = "  " + name
		}
	} else if m.marks[r.ID] {
		name = "▸ " + name
	}

	name = runewidth.Truncate(name, width, "…")
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.GetFileColor(category))).Render(name)
}

// humanModified shows listing timestamps relative to now
func humanModified(s string) string {
	t, err := time.ParseInLocation(picker.ModifiedLayout, s, time.Local)
	if err != nil {
		return s
	}
	return humanize.Time(t)
}

func (lb *logbox) append(text string) {
	text = lb.partial + text
	parts := strings.Split(text, "\n")
	lb.partial = parts[len(parts)-1]
	lb.lines = append(lb.lines, parts[:len(parts)-1]...)
	if over := len(lb.lines) - layout.LogboxMaxLines; over > 0 {
		lb.lines = lb.lines[over:]
	}
}

// visible returns the lines the box shows
func (lb *logbox) visible() []string {
	lines := lb.lines
	if lb.partial != "" {
		lines = append(lines[:len(lines):len(lines)], lb.partial)
	}
	if len(lines) <= lb.rows {
		return lines
	}
	if lb.keepBottom {
		return lines[len(lines)-lb.rows:]
	}
	return lines[:lb.rows]
}

func mediaLine(msg mediaMsg) string {
	switch msg.kind {
	case "image":
		if msg.alt != "" {
			return fmt.Sprintf("%s %s (%s)", theme.GetCategoryEmoji("image"), msg.alt, msg.src)
		}
		return fmt.Sprintf("%s %s", theme.GetCategoryEmoji("image"), msg.src)
	default:
		return fmt.Sprintf("%s %s", theme.GetCategoryEmoji(msg.kind), msg.src)
	}
}
