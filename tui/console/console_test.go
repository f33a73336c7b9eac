package console

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/cellconsole/internal/store"
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/grovetools/cellconsole/tui/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu         sync.Mutex
	state      store.RootState
	dispatched []action.Action
}

func (f *fakeEngine) Dispatch(a action.Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, a)
}

func (f *fakeEngine) State() store.RootState { return f.state }

func (f *fakeEngine) kinds() []action.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]action.Kind, len(f.dispatched))
	for i, a := range f.dispatched {
		out[i] = a.Kind
	}
	return out
}

func newConsole(t *testing.T, st store.RootState) (*Model, *fakeEngine, chan store.Update) {
	t.Helper()
	eng := &fakeEngine{state: st}
	ch := make(chan store.Update, 8)
	return New(eng, ch, Options{Theme: theme.NewThemeWithName("terminal")}), eng, ch
}

func press(m *Model, keys string) {
	var msg tea.KeyMsg
	switch keys {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := m.Update(msg)
	run(cmd)
}

// run executes a command and any batch it returns, skipping the blocking
// update listener.
func run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			run(c)
		}
	}
}

func withGroups(ids ...models.ID) store.RootState {
	st := store.Initial()
	res := &models.AnalysisResult{Success: true}
	for _, id := range ids {
		res.Groups = append(res.Groups, models.Group{GroupID: id, ObjectIDs: []models.ID{id + "1", id + "2"}})
	}
	st.Camera.Analysis = res
	return st
}

func TestKeysDispatchRequests(t *testing.T) {
	tests := []struct {
		key  string
		want action.Kind
	}{
		{"t", action.CameraTrigger},
		{"a", action.AnalyzeImage},
		{"A", action.RunAutosetup},
		{"p", action.GetTCP},
		{"e", action.RobotEnable},
		{"d", action.RobotDisable},
		{"m", action.RobotModeManual},
		{"s", action.RobotStop},
		{"r", action.RobotReset},
		{"g", action.RobotPickUnpick},
		{"S", action.JobStart},
		{"X", action.JobStop},
		{"tab", action.SetUIMode},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, eng, _ := newConsole(t, store.Initial())
			press(m, tt.key)
			assert.Equal(t, []action.Kind{tt.want}, eng.kinds())
		})
	}
}

func TestPingDispatchesBoth(t *testing.T) {
	m, eng, _ := newConsole(t, store.Initial())
	press(m, "P")
	assert.ElementsMatch(t, []action.Kind{action.CameraPing, action.RobotPing}, eng.kinds())
}

func TestModeToggleFollowsRobot(t *testing.T) {
	st := store.Initial()
	manual := models.ModeManual
	st.Robot.Mode = &manual
	m, eng, _ := newConsole(t, st)
	press(m, "m")
	assert.Equal(t, []action.Kind{action.RobotModeAuto}, eng.kinds())
}

func TestStartJobFollowsWorkflow(t *testing.T) {
	st := store.Initial()
	st.UI.Mode = models.ModeSort
	m, eng, _ := newConsole(t, st)
	press(m, "S")
	require.Len(t, eng.dispatched, 1)
	assert.Equal(t, action.StartJob(models.JobSort), eng.dispatched[0])

	st.UI.Mode = models.ModeDraw
	m, eng, _ = newConsole(t, st)
	press(m, "S")
	assert.Equal(t, []action.Kind{action.DXFDraw}, eng.kinds())
}

func TestCycleUISavesPreference(t *testing.T) {
	var saved models.UIMode
	eng := &fakeEngine{state: store.Initial()}
	m := New(eng, make(chan store.Update), Options{
		Theme:        theme.NewThemeWithName("terminal"),
		OnModeChange: func(mode models.UIMode) { saved = mode },
	})
	press(m, "tab")
	assert.Equal(t, models.ModeDraw, saved)
	require.Len(t, eng.dispatched, 1)
	assert.Equal(t, action.SelectMode(models.ModeDraw), eng.dispatched[0])
}

func TestInitPingsDevices(t *testing.T) {
	m, eng, ch := newConsole(t, store.Initial())
	close(ch)
	run(m.Init())
	assert.ElementsMatch(t, []action.Kind{
		action.GetUser, action.CameraPing, action.RobotPing, action.GetMotionParams,
	}, eng.kinds())
}

func TestPriorityLockCommitsOrder(t *testing.T) {
	m, eng, _ := newConsole(t, withGroups("1", "2", "3"))
	require.Equal(t, 3, m.Stack().Len())

	press(m, "J")
	assert.Equal(t, []models.ID{"2", "1", "3"}, m.Stack().Order())

	press(m, "l")
	require.Len(t, eng.dispatched, 1)
	assert.Equal(t, action.CommitOrder([]models.ID{"2", "1", "3"}), eng.dispatched[0])

	press(m, "J")
	assert.Equal(t, []models.ID{"2", "1", "3"}, m.Stack().Order())
	assert.Contains(t, m.View(), "locked")
}

func TestUpdateRefreshesStateAndLocksWhenRunning(t *testing.T) {
	m, eng, _ := newConsole(t, withGroups("7", "8"))

	next := withGroups("7", "8")
	next.App.Running = true
	next.App.Job = models.JobPick
	next.App.Stage = "picking"
	_, cmd := m.Update(updateMsg(store.Update{Seq: 1, State: next}))
	assert.NotNil(t, cmd)

	assert.True(t, m.State().App.Running)
	assert.True(t, m.Stack().Locked())
	assert.Equal(t, []action.Kind{action.SetPriorityOrder}, eng.kinds())

	press(m, "l")
	assert.True(t, m.Stack().Locked(), "lock cannot be toggled while running")
}

func TestClosedUpdatesQuit(t *testing.T) {
	m, _, _ := newConsole(t, store.Initial())
	_, cmd := m.Update(closedMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewShowsStateAndToast(t *testing.T) {
	st := store.Initial()
	st.Robot.Connected = true
	st.Robot.Pose = &models.Pose{X: 10, Y: 20, Z: 412.5}
	st.Camera.Analysis = &models.AnalysisResult{
		Success: true,
		Objects: []models.DetectedObject{{ID: 3, CenterPx: &models.Point{X: 120, Y: 80}}},
	}
	st.Camera.Error = &models.Failure{Message: "Camera offline"}
	st.Notification = store.NotificationState{ID: "n1", Tag: "robot", Message: "Robot Connected", Visible: true}

	m, _, _ := newConsole(t, st)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()

	assert.Contains(t, view, "Z=412.5")
	assert.Contains(t, view, "#3 (120,80)px")
	assert.Contains(t, view, "Camera offline")
	assert.Contains(t, view, "[robot] Robot Connected")
	assert.Contains(t, view, "no groups")
}

func TestDrawModeView(t *testing.T) {
	st := store.Initial()
	st.UI.Mode = models.ModeDraw
	st.App.PreviewPaths = [][]models.Point{{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	st.App.Origin = &models.Point{X: 5, Y: 6}

	m, _, _ := newConsole(t, st)
	view := m.View()
	assert.Contains(t, view, "preview: 1 path(s)")
	assert.Contains(t, view, "origin: (5.0, 6.0)")
}

func TestHelpToggles(t *testing.T) {
	m, eng, _ := newConsole(t, store.Initial())
	press(m, "?")
	assert.Contains(t, m.View(), "trigger camera")

	press(m, "t")
	assert.Empty(t, eng.kinds(), "a key while help is open only closes help")
	assert.Contains(t, m.View(), "Camera")
}
