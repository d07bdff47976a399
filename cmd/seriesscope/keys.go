package main

import (
	"github.com/charmbracelet/bubbles/key"
)

type Keymap struct {
	Quit          key.Binding
	NextColumn    key.Binding
	PrevColumn    key.Binding
	ToggleRange   key.Binding
	ToggleAverage key.Binding
	ToggleDedup   key.Binding
	EditLower     key.Binding
	EditUpper     key.Binding
	EditWindow    key.Binding
	SuggestBounds key.Binding
	Open          key.Binding
	Reload        key.Binding
	Export        key.Binding
	Commit        key.Binding
	Cancel        key.Binding
	Help          key.Binding
}

var Keys = Keymap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	NextColumn: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab/→", "next column"),
	),
	PrevColumn: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("shift+tab/←", "previous column"),
	),
	ToggleRange: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "toggle range filter"),
	),
	ToggleAverage: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle moving average"),
	),
	ToggleDedup: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "toggle duplicate filter"),
	),
	EditLower: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "edit lower bound"),
	),
	EditUpper: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "edit upper bound"),
	),
	EditWindow: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "edit window"),
	),
	SuggestBounds: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "suggest bounds"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open file"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reload"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Commit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
}

// ShortHelp and FullHelp satisfy help.KeyMap.
func (k Keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextColumn, k.ToggleRange, k.ToggleAverage, k.ToggleDedup, k.Help, k.Quit}
}

func (k Keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextColumn, k.PrevColumn, k.Open, k.Reload, k.Export},
		{k.ToggleRange, k.EditLower, k.EditUpper, k.SuggestBounds},
		{k.ToggleAverage, k.EditWindow, k.ToggleDedup},
		{k.Help, k.Quit},
	}
}
