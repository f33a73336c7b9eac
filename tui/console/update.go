package console

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

// Update handles messages and updates the model accordingly.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case updateMsg:
		m.state = msg.State
		m.syncStack()
		return m, waitForUpdate(m.updates)

	case closedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.help.ShowAll && !key.Matches(msg, m.keys.Quit) {
			m.help.ShowAll = false
			return m, nil
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	st := m.state
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = true
		return nil

	case key.Matches(msg, m.keys.Trigger):
		return m.dispatch(action.New(action.CameraTrigger, action.TriggerCamera{}))
	case key.Matches(msg, m.keys.Analyze):
		return m.dispatch(action.AnalyzeImageOf(st.Camera.ImageBase64, nil))
	case key.Matches(msg, m.keys.Autosetup):
		return m.dispatch(action.Of(action.RunAutosetup))
	case key.Matches(msg, m.keys.Ping):
		return tea.Batch(
			m.dispatch(action.Of(action.CameraPing)),
			m.dispatch(action.Of(action.RobotPing)),
		)

	case key.Matches(msg, m.keys.TCP):
		return m.dispatch(action.Of(action.GetTCP))
	case key.Matches(msg, m.keys.Enable):
		return m.dispatch(action.Of(action.RobotEnable))
	case key.Matches(msg, m.keys.Disable):
		return m.dispatch(action.Of(action.RobotDisable))
	case key.Matches(msg, m.keys.ToggleMode):
		if st.Robot.Mode != nil && *st.Robot.Mode == models.ModeManual {
			return m.dispatch(action.Of(action.RobotModeAuto))
		}
		return m.dispatch(action.Of(action.RobotModeManual))
	case key.Matches(msg, m.keys.Stop):
		return m.dispatch(action.Of(action.RobotStop))
	case key.Matches(msg, m.keys.Reset):
		return m.dispatch(action.Of(action.RobotReset))
	case key.Matches(msg, m.keys.PickUnpick):
		return m.dispatch(action.Of(action.RobotPickUnpick))

	case key.Matches(msg, m.keys.StartJob):
		if st.UI.Mode == models.ModeDraw {
			return m.dispatch(action.New(action.DXFDraw, models.DrawParams{}))
		}
		return m.dispatch(action.StartJob(jobForMode(st.UI.Mode)))
	case key.Matches(msg, m.keys.StopJob):
		job := st.App.Job
		if job == "" {
			job = jobForMode(st.UI.Mode)
		}
		return m.dispatch(action.StopJob(job))
	case key.Matches(msg, m.keys.CycleUI):
		next := st.UI.Mode.Next()
		if m.onMode != nil {
			m.onMode(next)
		}
		return m.dispatch(action.SelectMode(next))

	case key.Matches(msg, m.keys.Lock):
		m.stack.ToggleLock(st.App.Running)
	case key.Matches(msg, m.keys.MoveUp):
		m.stack.MoveSelected(-1)
	case key.Matches(msg, m.keys.MoveDown):
		m.stack.MoveSelected(1)
	case key.Matches(msg, m.keys.Up):
		m.stack.Select(-1)
	case key.Matches(msg, m.keys.Down):
		m.stack.Select(1)
	case key.Matches(msg, m.keys.Expand):
		m.stack.ToggleExpand()
	}
	return nil
}
