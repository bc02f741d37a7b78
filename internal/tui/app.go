// internal/tui/app.go
//
// This is the terminal UI of dicebox. It uses bubbletea, which follows The
// Elm Architecture:
//
// 1. Model: the dice selection, the record manager and the audio player
// 2. Update: keys become rolls and record intents
// 3. View: panels rendered with lipgloss
//
// Record changes requested while handling a key are queued as intents and
// applied together once the key is handled.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/dicebox/internal/config"
	"github.com/kingrea/dicebox/internal/dice"
	"github.com/kingrea/dicebox/internal/logbook"
	"github.com/kingrea/dicebox/internal/records"
	"github.com/kingrea/dicebox/internal/sound"
)

// focusArea is the panel that receives cursor keys.
type focusArea int

const (
	focusSelections focusArea = iota // dice counts and constant
	focusRecords                     // history table
	focusQuick                       // quick roll presets
	focusWindows                     // open detail windows
)

const volumeStep = 5

// Player is the audio collaborator. *sound.Player implements it.
type Player interface {
	Play(src dice.Source)
	Volume() int
	SetVolume(v int)
	ResetDevice()
	Ready() bool
	Diagnostics() []string
	WarningVisible() bool
	ShowWarnings()
	HideWarnings()
	ControlVisible() bool
	SetControlVisible(v bool)
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithSource replaces the per-session random generator.
func WithSource(src dice.Source) AppOption {
	return func(a *App) {
		if src != nil {
			a.rng = src
		}
	}
}

// WithClock overrides the time stamped on records.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogbook journals rolls and clears into lb.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) { a.logbook = lb }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) AppOption {
	return func(a *App) {
		if write != nil {
			a.copyText = write
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config  *config.Config
	state   dice.State
	records *records.Manager
	player  Player
	logbook *logbook.Logbook

	rng      dice.Source
	ids      dice.Sequence
	now      func() time.Time
	copyText func(string) error

	presets   []dice.Preset
	quickMenu list.Model
	showQuick bool

	keys  keyMap
	help  help.Model
	table viewport.Model

	focus        focusArea
	selCursor    int // 0..dice.NumKinds, the last row is the constant
	rowCursor    int
	windowCursor int
	followLatest bool

	// intents queued while handling the current message
	pending []records.Intent

	statusMsg string
	width     int
	height    int
}

// presetItem implements list.Item for the quick roll window.
type presetItem struct {
	index  int
	preset dice.Preset
}

func (i presetItem) Title() string       { return fmt.Sprintf("%d · %s", i.index+1, i.preset.Name) }
func (i presetItem) Description() string { return fmt.Sprintf("press %d", i.index+1) }
func (i presetItem) FilterValue() string { return i.preset.Name }

// NewApp creates the model. A nil player leaves the roller silent.
func NewApp(cfg *config.Config, player Player, opts ...AppOption) *App {
	limits := dice.DefaultLimits()
	limit := records.DefaultLimit
	presets := dice.DefaultPresets()
	if cfg != nil {
		limits = cfg.Limits()
		limit = cfg.HistoryLimit()
		presets = cfg.Presets()
	}
	if player == nil {
		player = sound.NewPlayer(nil, nil)
	}

	app := &App{
		config:    cfg,
		state:     dice.NewState(limits),
		records:   records.New(limit),
		player:    player,
		rng:       dice.NewSource(),
		now:       time.Now,
		copyText:  clipboard.WriteAll,
		presets:   presets,
		showQuick: len(presets) > 0,
		keys:      defaultKeyMap(),
		help:      help.New(),
		table:     viewport.New(60, 10),
		focus:     focusSelections,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.quickMenu = newQuickMenu(presets)
	app.logInfo("Session opened · history limit %d", app.records.Limit())
	for _, msg := range player.Diagnostics() {
		app.statusMsg = msg
	}
	app.syncTable()
	return app
}

func newQuickMenu(presets []dice.Preset) list.Model {
	items := make([]list.Item, len(presets))
	for i, p := range presets {
		items[i] = presetItem{index: i, preset: p}
	}
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	menu := list.New(items, delegate, 24, len(presets)+4)
	menu.Title = "Quick Roll"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	menu.SetShowPagination(false)
	return menu
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("dicebox")
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.resize()
	case tea.KeyMsg:
		cmd = a.handleKey(msg)
	}
	a.commit()
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := a.keys
	switch {
	case key.Matches(msg, k.Quit):
		a.logInfo("Session closed · %d roll(s) in history", a.records.Len())
		return tea.Quit
	case key.Matches(msg, k.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, k.Focus):
		a.cycleFocus()
	case key.Matches(msg, k.Roll):
		a.activate()
	case key.Matches(msg, k.SilentRoll):
		if a.focus == focusQuick {
			a.rollPreset(a.quickMenu.Index(), false)
		} else {
			a.roll(a.state, false)
		}
	case key.Matches(msg, k.Reset):
		a.state.Reset()
		a.statusMsg = "Selection reset"
	case key.Matches(msg, k.Up):
		a.moveCursor(-1)
	case key.Matches(msg, k.Down):
		a.moveCursor(1)
	case key.Matches(msg, k.Increment):
		a.adjustSelection(1)
	case key.Matches(msg, k.Decrement):
		a.adjustSelection(-1)
	case key.Matches(msg, k.Detail):
		a.toggleSelectedDetail()
	case key.Matches(msg, k.Clear):
		if a.records.Len() > 1 {
			a.pending = append(a.pending, records.ClearToLast{})
			a.statusMsg = "Kept the latest roll"
			a.logInfo("Clear · kept the latest roll")
		}
	case key.Matches(msg, k.ClearAll):
		a.pending = append(a.pending, records.ClearAll{})
		a.statusMsg = "History cleared"
		a.logInfo("Clear · all rolls removed")
	case key.Matches(msg, k.CloseAll):
		a.pending = append(a.pending, records.CloseAllDetails{})
		a.statusMsg = "Closed all detail windows"
	case key.Matches(msg, k.NextWindow):
		a.nextWindow()
	case key.Matches(msg, k.CloseWindow):
		a.closeFocusedWindow()
	case key.Matches(msg, k.Copy):
		a.copyBreakdown()
	case key.Matches(msg, k.Quick):
		a.showQuick = !a.showQuick
		if !a.showQuick && a.focus == focusQuick {
			a.focus = focusSelections
		}
	case key.Matches(msg, k.Preset):
		a.rollPreset(int(msg.String()[0]-'1'), true)
	case key.Matches(msg, k.Audio):
		a.player.SetControlVisible(!a.player.ControlVisible())
	case key.Matches(msg, k.VolumeUp):
		a.changeVolume(volumeStep)
	case key.Matches(msg, k.VolumeDown):
		a.changeVolume(-volumeStep)
	case key.Matches(msg, k.Warnings):
		a.player.ShowWarnings()
	case key.Matches(msg, k.HideWarnings):
		a.player.HideWarnings()
	case key.Matches(msg, k.ResetDevice):
		a.player.ResetDevice()
		a.statusMsg = "Audio device reset"
		if !a.player.Ready() {
			a.statusMsg = "Audio device unavailable"
		}
		a.logInfo("Audio · device reset (ready: %t)", a.player.Ready())
	}
	return nil
}

func (a *App) cycleFocus() {
	order := []focusArea{focusSelections, focusRecords}
	if a.showQuick && len(a.presets) > 0 {
		order = append(order, focusQuick)
	}
	if len(a.records.Windows()) > 0 {
		order = append(order, focusWindows)
	}
	next := 0
	for i, f := range order {
		if f == a.focus {
			next = (i + 1) % len(order)
			break
		}
	}
	a.focus = order[next]
}

// activate runs the enter action of the focused panel.
func (a *App) activate() {
	switch a.focus {
	case focusRecords:
		a.toggleSelectedDetail()
	case focusQuick:
		a.rollPreset(a.quickMenu.Index(), true)
	case focusWindows:
		return
	default:
		a.roll(a.state, true)
	}
}

func (a *App) moveCursor(delta int) {
	switch a.focus {
	case focusSelections:
		a.selCursor = clamp(a.selCursor+delta, 0, dice.NumKinds)
	case focusRecords:
		a.rowCursor = clamp(a.rowCursor+delta, 0, max(0, a.records.Len()-1))
	case focusQuick:
		if delta < 0 {
			a.quickMenu.CursorUp()
		} else {
			a.quickMenu.CursorDown()
		}
	case focusWindows:
		a.windowCursor = clamp(a.windowCursor+delta, 0, max(0, len(a.records.Windows())-1))
	}
}

func (a *App) adjustSelection(delta int) {
	if a.focus != focusSelections {
		return
	}
	if a.selCursor == dice.NumKinds {
		a.state.AddModifier(delta)
		return
	}
	a.state.AddCount(dice.Kind(a.selCursor), delta)
}

// roll records one roll of state. Sound is skipped for silent rolls.
func (a *App) roll(state dice.State, withSound bool) {
	if !state.Valid() {
		a.statusMsg = "Select at least one die"
		return
	}
	if withSound {
		a.player.Play(a.rng)
	}
	rec, err := state.Roll(a.rng, &a.ids, a.now())
	if err != nil {
		a.statusMsg = err.Error()
		return
	}
	a.pending = append(a.pending, records.Add{Record: rec})
	a.followLatest = true
	if a.logbook != nil {
		a.logbook.Roll(rec)
	}
	a.statusMsg = fmt.Sprintf("%s → %d", rec.Description(), rec.Total())
}

func (a *App) rollPreset(idx int, withSound bool) {
	if idx < 0 || idx >= len(a.presets) {
		return
	}
	a.quickMenu.Select(idx)
	a.roll(a.presets[idx].State, withSound)
}

func (a *App) toggleSelectedDetail() {
	rows := a.records.Rows()
	if len(rows) == 0 {
		return
	}
	row := rows[clamp(a.rowCursor, 0, len(rows)-1)]
	a.pending = append(a.pending, records.ToggleDetail{ID: row.Record.ID(), Show: !row.DetailOpen})
}

func (a *App) nextWindow() {
	windows := a.records.Windows()
	if len(windows) == 0 {
		a.statusMsg = "No detail windows open"
		return
	}
	if a.focus != focusWindows {
		a.focus = focusWindows
		return
	}
	a.windowCursor = (a.windowCursor + 1) % len(windows)
}

func (a *App) focusedWindow() (records.Window, bool) {
	windows := a.records.Windows()
	if len(windows) == 0 {
		return records.Window{}, false
	}
	return windows[clamp(a.windowCursor, 0, len(windows)-1)], true
}

func (a *App) closeFocusedWindow() {
	if a.focus != focusWindows {
		return
	}
	if w, ok := a.focusedWindow(); ok {
		a.pending = append(a.pending, records.CloseWindow{ID: w.Record.ID()})
	}
}

// copyBreakdown copies the focused window, or the latest roll when no
// window has focus.
func (a *App) copyBreakdown() {
	rec := a.records.Latest()
	if a.focus == focusWindows {
		if w, ok := a.focusedWindow(); ok {
			rec = w.Record
		}
	}
	if rec == nil {
		a.statusMsg = "Nothing to copy"
		return
	}
	if err := a.copyText(rec.Breakdown()); err != nil {
		a.statusMsg = fmt.Sprintf("Copy failed: %v", err)
		a.logWarn("Clipboard · %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("Copied roll #%d", rec.ID())
}

func (a *App) changeVolume(delta int) {
	a.player.SetVolume(a.player.Volume() + delta)
	v := a.player.Volume()
	a.statusMsg = fmt.Sprintf("Volume %d", v)
	if a.config == nil {
		return
	}
	if err := a.config.SetVolume(v); err != nil {
		a.statusMsg = fmt.Sprintf("Volume not saved: %v", err)
		a.logWarn("Config · %v", err)
	}
}

// commit applies the intents queued by the current message, then keeps the
// cursors inside the new history and window set.
func (a *App) commit() {
	a.records.Apply(a.pending...)
	a.pending = nil

	rows := a.records.Len()
	if a.followLatest {
		a.rowCursor = rows - 1
		a.followLatest = false
	}
	a.rowCursor = clamp(a.rowCursor, 0, max(0, rows-1))

	windows := len(a.records.Windows())
	a.windowCursor = clamp(a.windowCursor, 0, max(0, windows-1))
	if windows == 0 && a.focus == focusWindows {
		a.focus = focusRecords
	}
	a.syncTable()
}

func (a *App) resize() {
	layout := a.layout()
	a.table.Width = layout.tableWidth
	a.table.Height = layout.tableHeight
	a.quickMenu.SetSize(max(10, layout.leftWidth-4), len(a.presets)+4)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func statusLine(msgs ...string) string {
	var parts []string
	for _, m := range msgs {
		if s := strings.TrimSpace(m); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}
