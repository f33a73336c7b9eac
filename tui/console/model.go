// Package console is the operator's terminal view: it renders the store and
// turns keystrokes into actions.
package console

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/cellconsole/internal/priority"
	"github.com/grovetools/cellconsole/internal/store"
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/grovetools/cellconsole/tui/theme"
)

// Engine is the part of the engine the console drives.
type Engine interface {
	Dispatch(a action.Action)
	State() store.RootState
}

// Options configures the console.
type Options struct {
	Theme *theme.Theme
	// OnModeChange is called when the operator switches workflow.
	OnModeChange func(models.UIMode)
}

// Model is the bubbletea model of the console.
type Model struct {
	eng     Engine
	updates <-chan store.Update
	state   store.RootState
	stack   *priority.Stack
	keys    KeyMap
	help    help.Model
	theme   *theme.Theme
	onMode  func(models.UIMode)
	width   int
	height  int
}

// updateMsg carries one store update into the program.
type updateMsg store.Update

// closedMsg reports that the update channel was closed.
type closedMsg struct{}

// New creates the console. updates is normally a store subscription.
func New(eng Engine, updates <-chan store.Update, opts Options) *Model {
	th := opts.Theme
	if th == nil {
		th = theme.DefaultTheme
	}
	m := &Model{
		eng:     eng,
		updates: updates,
		state:   eng.State(),
		stack:   priority.New(eng),
		keys:    DefaultKeyMap,
		help:    help.New(),
		theme:   th,
		onMode:  opts.OnModeChange,
	}
	m.syncStack()
	return m
}

// Init pings both devices and starts listening for updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.dispatch(action.Of(action.GetUser)),
		m.dispatch(action.Of(action.CameraPing)),
		m.dispatch(action.Of(action.RobotPing)),
		m.dispatch(action.Of(action.GetMotionParams)),
		waitForUpdate(m.updates),
	)
}

func waitForUpdate(ch <-chan store.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return updateMsg(u)
	}
}

func (m *Model) dispatch(a action.Action) tea.Cmd {
	return func() tea.Msg {
		m.eng.Dispatch(a)
		return nil
	}
}

// State returns the last state the console rendered.
func (m *Model) State() store.RootState {
	return m.state
}

// Stack exposes the priority stack.
func (m *Model) Stack() *priority.Stack {
	return m.stack
}

// syncStack feeds the latest groups into the priority stack. Groups come
// from the running job's analysis, else the last camera analysis.
func (m *Model) syncStack() {
	res := m.state.App.Analysis
	if res == nil {
		res = m.state.Camera.Analysis
	}
	if res != nil {
		m.stack.Sync(res.Groups)
	}
	m.stack.Follow(m.state.App.Running)
}

// jobForMode maps the workflow to the job S and X control.
func jobForMode(mode models.UIMode) models.JobType {
	if mode == models.ModeSort {
		return models.JobSort
	}
	return models.JobPick
}
