package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/muurk/gpiostatus/internal/view"
)

// keyMap defines key bindings for the watch screen
type keyMap struct {
	Refresh   key.Binding
	Options   map[view.Option]key.Binding
	EditNote  key.Binding
	Functions key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// optionKeys maps every view option to its toggle key, in display order.
var optionKeys = []struct {
	opt  view.Option
	key  string
	help string
}{
	{view.CompactView, "c", "compact"},
	{view.HideSpecialPins, "s", "hide special"},
	{view.OrderByName, "o", "order by name"},
	{view.HidePhysical, "p", "hide physical"},
	{view.ShowNotes, "n", "notes"},
	{view.HideImages, "i", "hide images"},
}

func newKeyMap() keyMap {
	options := make(map[view.Option]key.Binding, len(optionKeys))
	for _, k := range optionKeys {
		options[k.opt] = key.NewBinding(key.WithKeys(k.key), key.WithHelp(k.key, k.help))
	}
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Options: options,
		EditNote: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit note"),
		),
		Functions: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "functions"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("pgdn", "page down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Options[view.CompactView], k.Options[view.ShowNotes], k.EditNote, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	options := make([]key.Binding, 0, len(optionKeys))
	for _, o := range optionKeys {
		options = append(options, k.Options[o.opt])
	}
	return [][]key.Binding{
		{k.Refresh, k.EditNote, k.Functions},
		options,
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Help, k.Quit},
	}
}

// editKeyMap defines key bindings while a note is being typed
type editKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func newEditKeyMap() editKeyMap {
	return editKeyMap{
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save note")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}
