package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/dicebox/internal/dice"
	"github.com/kingrea/dicebox/internal/records"
)

const logPanelLines = 8

var (
	accentColor  = lipgloss.Color("#5B8DEF")
	latestColor  = lipgloss.Color("#FF6B6B")
	borderColor  = lipgloss.Color("#444444")
	mutedColor   = lipgloss.Color("#888888")
	bodyColor    = lipgloss.Color("#AAAAAA")
	warningColor = lipgloss.Color("#FF5F5F")
)

type layout struct {
	leftWidth   int
	rightWidth  int
	tableWidth  int
	tableHeight int
}

func (a *App) layout() layout {
	width := a.width
	if width <= 0 {
		width = 100
	}
	height := a.height
	if height <= 0 {
		height = 32
	}
	leftWidth := max(30, width/3)
	rightWidth := width - leftWidth - 4
	if rightWidth < 40 {
		leftWidth = width - 4
		rightWidth = 0
	}
	tableWidth := rightWidth - 4
	if rightWidth == 0 {
		tableWidth = leftWidth - 4
	}
	return layout{
		leftWidth:   leftWidth,
		rightWidth:  rightWidth,
		tableWidth:  max(20, tableWidth),
		tableHeight: max(5, height-logPanelLines-12),
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	l := a.layout()
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(latestColor).
		MarginBottom(1).
		Render("⬡ DICEBOX")

	leftParts := []string{a.renderSelections()}
	if a.showQuick && len(a.presets) > 0 {
		leftParts = append(leftParts, "", a.renderQuickRoll())
	}
	if a.player.ControlVisible() {
		leftParts = append(leftParts, "", a.renderAudio())
	}
	left := a.panel(lipgloss.JoinVertical(lipgloss.Left, leftParts...), l.leftWidth, false)

	right := a.panel(a.renderRecords(), max(20, l.rightWidth), a.focus == focusRecords)
	var body string
	if l.rightWidth > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	}

	sections := []string{header, body}
	if windows := a.renderWindows(); windows != "" {
		sections = append(sections, windows)
	}
	if warnings := a.renderWarnings(); warnings != "" {
		sections = append(sections, warnings)
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(mutedColor).
		MarginTop(1).
		Render(statusLine(a.statusMsg))
	sections = append(sections, footer, a.help.View(a.keys))
	return strings.Join(sections, "\n")
}

func (a *App) panel(content string, width int, focused bool) string {
	border := borderColor
	if focused {
		border = accentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(20, width)).
		Render(content)
}

func (a *App) title(text string, focused bool) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	if focused {
		style = style.Underline(true)
	}
	return style.Render(text)
}

func (a *App) renderSelections() string {
	focused := a.focus == focusSelections
	lines := []string{a.title("Dice", focused)}
	for _, kind := range dice.Kinds() {
		lines = append(lines, a.selectionLine(int(kind), kind.String(), a.state.Count(kind)))
	}
	lines = append(lines, a.selectionLine(dice.NumKinds, "Const", a.state.Modifier))
	preview := "nothing selected"
	if a.state.Valid() {
		preview = a.state.Describe()
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(bodyColor).Render(preview))
	return strings.Join(lines, "\n")
}

func (a *App) selectionLine(idx int, label string, value int) string {
	cursor := "  "
	style := lipgloss.NewStyle()
	if a.focus == focusSelections && a.selCursor == idx {
		cursor = "▸ "
		style = style.Bold(true).Foreground(accentColor)
	}
	return style.Render(fmt.Sprintf("%s%-6s %3d", cursor, label, value))
}

func (a *App) renderQuickRoll() string {
	if a.focus == focusQuick {
		a.quickMenu.Title = "Quick Roll ▸"
	} else {
		a.quickMenu.Title = "Quick Roll"
	}
	return a.quickMenu.View()
}

func (a *App) renderAudio() string {
	lines := []string{
		a.title("Audio", false),
		fmt.Sprintf("Volume %3d  %s", a.player.Volume(), volumeBar(a.player.Volume(), 20)),
	}
	status := "device ready"
	if !a.player.Ready() {
		status = "silent"
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(bodyColor).Render(status+" · [ ] adjust · R reset"))
	return strings.Join(lines, "\n")
}

func volumeBar(volume, width int) string {
	filled := volume * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (a *App) renderRecords() string {
	focused := a.focus == focusRecords
	head := a.title(fmt.Sprintf("Records · %d/%d", a.records.Len(), a.records.Limit()), focused)
	if a.records.Len() == 0 {
		note := lipgloss.NewStyle().Foreground(mutedColor).Render("No rolls yet. Press enter to roll.")
		return lipgloss.JoinVertical(lipgloss.Left, head, note)
	}
	columns := lipgloss.NewStyle().Foreground(mutedColor).Render(
		fmt.Sprintf("  %-5s %-8s %6s  %s", "#", "Time", "Result", "Roll"))
	return lipgloss.JoinVertical(lipgloss.Left, head, columns, a.table.View())
}

// syncTable rebuilds the history rows and scrolls the cursor into view.
func (a *App) syncTable() {
	rows := a.records.Rows()
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = a.recordLine(row, i == a.rowCursor && a.focus == focusRecords)
	}
	a.table.SetContent(strings.Join(lines, "\n"))
	switch {
	case a.rowCursor < a.table.YOffset:
		a.table.SetYOffset(a.rowCursor)
	case a.rowCursor >= a.table.YOffset+a.table.Height:
		a.table.SetYOffset(a.rowCursor - a.table.Height + 1)
	}
}

func (a *App) recordLine(row records.Row, selected bool) string {
	rec := row.Record
	cursor := "  "
	if selected {
		cursor = "▸ "
	}
	marker := " "
	if row.DetailOpen {
		marker = "◆"
	}
	text := fmt.Sprintf("%s%-5d %-8s %6d %s %s",
		cursor, rec.ID(), rec.Time().Format("15:04:05"), rec.Total(), marker, rec.Description())
	style := lipgloss.NewStyle()
	if row.Latest {
		style = style.Foreground(latestColor)
	}
	if selected {
		style = style.Bold(true)
	}
	return style.Render(text)
}

func (a *App) renderWindows() string {
	windows := a.records.Windows()
	if len(windows) == 0 {
		return ""
	}
	boxes := make([]string, len(windows))
	for i, w := range windows {
		focused := a.focus == focusWindows && i == a.windowCursor
		boxes[i] = a.renderWindow(w, focused)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (a *App) renderWindow(w records.Window, focused bool) string {
	rec := w.Record
	lines := []string{
		a.title(fmt.Sprintf("[%s]  => %d", rec.Time().Format("15:04:05"), rec.Total()), focused),
		rec.Description(),
	}
	for _, kind := range dice.Kinds() {
		if rec.Count(kind) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", kind, dice.JoinInts(rec.Outcomes(kind))))
	}
	if rec.Modifier() != 0 {
		lines = append(lines, fmt.Sprintf("Const: %d", rec.Modifier()))
	}
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Result: %d", rec.Total())))
	if w.Detached {
		lines = append(lines, lipgloss.NewStyle().Foreground(mutedColor).Render("no longer in history"))
	}
	return a.panel(strings.Join(lines, "\n"), 28, focused)
}

func (a *App) renderWarnings() string {
	if !a.player.WarningVisible() {
		return ""
	}
	diagnostics := a.player.Diagnostics()
	if len(diagnostics) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(warningColor).
		Render("Warning · W to hide")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(warningColor).
		Padding(0, 1).
		Render(head + "\n" + strings.Join(diagnostics, "\n"))
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Render(fmt.Sprintf("LOG · %s · %d entries", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(bodyColor).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}
