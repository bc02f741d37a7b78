package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding the shell understands. It doubles as the
// help.KeyMap rendered in the footer.
type keyMap struct {
	Roll         key.Binding
	SilentRoll   key.Binding
	Reset        key.Binding
	Up           key.Binding
	Down         key.Binding
	Increment    key.Binding
	Decrement    key.Binding
	Focus        key.Binding
	Detail       key.Binding
	Clear        key.Binding
	ClearAll     key.Binding
	CloseAll     key.Binding
	NextWindow   key.Binding
	CloseWindow  key.Binding
	Copy         key.Binding
	Quick        key.Binding
	Preset       key.Binding
	Audio        key.Binding
	VolumeUp     key.Binding
	VolumeDown   key.Binding
	Warnings     key.Binding
	HideWarnings key.Binding
	ResetDevice  key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Roll:         key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "roll")),
		SilentRoll:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "roll silently")),
		Reset:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Increment:    key.NewBinding(key.WithKeys("+", "=", "right", "l"), key.WithHelp("+/→", "more")),
		Decrement:    key.NewBinding(key.WithKeys("-", "left", "h"), key.WithHelp("-/←", "less")),
		Focus:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel")),
		Detail:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "detail window")),
		Clear:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "keep last roll")),
		ClearAll:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		CloseAll:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close all windows")),
		NextWindow:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next window")),
		CloseWindow:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close window")),
		Copy:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy breakdown")),
		Quick:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "quick roll")),
		Preset:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "quick roll #")),
		Audio:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "audio config")),
		VolumeUp:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "volume up")),
		VolumeDown:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "volume down")),
		Warnings:     key.NewBinding(key.WithKeys("!"), key.WithHelp("!", "show warnings")),
		HideWarnings: key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "hide warnings")),
		ResetDevice:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset device")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Roll, k.SilentRoll, k.Focus, k.Detail, k.Clear, k.Quick, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Roll, k.SilentRoll, k.Reset, k.Increment, k.Decrement},
		{k.Focus, k.Up, k.Down, k.Detail, k.Copy},
		{k.Clear, k.ClearAll, k.CloseAll, k.NextWindow, k.CloseWindow},
		{k.Quick, k.Preset, k.Audio, k.VolumeUp, k.VolumeDown},
		{k.Warnings, k.HideWarnings, k.ResetDevice, k.Help, k.Quit},
	}
}
