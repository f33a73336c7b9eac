package console

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the operator console.
type KeyMap struct {
	Trigger    key.Binding
	Analyze    key.Binding
	Autosetup  key.Binding
	TCP        key.Binding
	Ping       key.Binding
	Enable     key.Binding
	Disable    key.Binding
	ToggleMode key.Binding
	Stop       key.Binding
	Reset      key.Binding
	PickUnpick key.Binding
	StartJob   key.Binding
	StopJob    key.Binding
	CycleUI    key.Binding
	Lock       key.Binding
	Up         key.Binding
	Down       key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Expand     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap is the default set of keybindings.
var DefaultKeyMap = KeyMap{
	Trigger: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "trigger camera"),
	),
	Analyze: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "analyze image"),
	),
	Autosetup: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "camera autosetup"),
	),
	TCP: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "fetch pose"),
	),
	Ping: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "ping camera and robot"),
	),
	Enable: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "enable robot"),
	),
	Disable: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "disable robot"),
	),
	ToggleMode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "auto/manual"),
	),
	Stop: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop robot"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset errors"),
	),
	PickUnpick: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "pick/unpick"),
	),
	StartJob: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "start job / draw"),
	),
	StopJob: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "stop job"),
	),
	CycleUI: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next workflow"),
	),
	Lock: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "lock priorities"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K"),
		key.WithHelp("K", "move group up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J"),
		key.WithHelp("J", "move group down"),
	),
	Expand: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "show objects"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns keybindings to be shown in the compact help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Trigger, k.Analyze, k.CycleUI, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Trigger, k.Analyze, k.Autosetup, k.Ping},
		{k.TCP, k.Enable, k.Disable, k.ToggleMode, k.Stop, k.Reset, k.PickUnpick},
		{k.StartJob, k.StopJob, k.CycleUI},
		{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Lock, k.Expand},
		{k.Help, k.Quit},
	}
}
