package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Confirm    key.Binding

	// Navigation
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	ExtendLeft  key.Binding
	ExtendRight key.Binding
	Top         key.Binding
	Bottom      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding

	// Table actions
	SelectAll    key.Binding
	Copy         key.Binding
	Export       key.Binding
	Filter       key.Binding
	ClearFilter  key.Binding
	ToggleWrap   key.Binding
	ToggleColumn key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Focus detail/table"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close detail / clear selection"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open detail"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Previous column"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Next column"),
		),
		ExtendUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("shift+up", "Extend selection up"),
		),
		ExtendDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("shift+down", "Extend selection down"),
		),
		ExtendLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("shift+left", "Extend selection left"),
		),
		ExtendRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("shift+right", "Extend selection right"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Follow newest"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),

		// Table actions
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "Select all"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy selection (TSV)"),
		),
		Export: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "Export selection (CSV)"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f", "/"),
			key.WithHelp("f", "Edit filters"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Clear filters"),
		),
		ToggleWrap: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Toggle wrap"),
		),
		ToggleColumn: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "Toggle column"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.ExtendUp, k.ExtendDown, k.ExtendLeft, k.ExtendRight, k.SelectAll, k.Escape},
		{k.Confirm, k.Tab, k.Copy, k.Export},
		{k.Filter, k.ClearFilter, k.ToggleWrap, k.ToggleColumn},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
