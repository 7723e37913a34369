package dashboard

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the dashboard key bindings.
type keyMap struct {
	NextTab      key.Binding
	PrevTab      key.Binding
	GridTab      key.Binding
	ScatterTab   key.Binding
	StatsTab     key.Binding
	Up           key.Binding
	Down         key.Binding
	Complete     key.Binding
	Randomize    key.Binding
	PriorityUp   key.Binding
	PriorityDown key.Binding
	Submit       key.Binding
	FocusForm    key.Binding
	Blur         key.Binding
	Help         key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding

	// formFocused selects which bindings the help line shows.
	formFocused bool
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevTab:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		GridTab:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "grid")),
		ScatterTab:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "quantum")),
		StatsTab:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "analytics")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Complete:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Randomize:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "randomize states")),
		PriorityUp:   key.NewBinding(key.WithKeys("right", "+", "="), key.WithHelp("→/+", "priority up")),
		PriorityDown: key.NewBinding(key.WithKeys("left", "-"), key.WithHelp("←/-", "priority down")),
		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "entangle task")),
		FocusForm:    key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "add task")),
		Blur:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave form")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:         key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// formPriority matches only the arrow keys, since +/- are valid description text.
func (k keyMap) formPriority() (up, down key.Binding) {
	return key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "priority up")),
		key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "priority down"))
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	if k.formFocused {
		up, down := k.formPriority()
		return []key.Binding{k.Submit, down, up, k.NextTab, k.Blur, k.ForceQuit}
	}
	return []key.Binding{k.FocusForm, k.Complete, k.Randomize, k.NextTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	if k.formFocused {
		up, down := k.formPriority()
		return [][]key.Binding{
			{k.Submit, down, up},
			{k.NextTab, k.PrevTab},
			{k.Blur, k.ForceQuit},
		}
	}
	return [][]key.Binding{
		{k.Up, k.Down, k.Complete, k.Randomize},
		{k.NextTab, k.PrevTab, k.GridTab, k.ScatterTab, k.StatsTab},
		{k.FocusForm, k.PriorityDown, k.PriorityUp},
		{k.Help, k.Quit},
	}
}
