package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/cellconsole/internal/store"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/grovetools/cellconsole/tui/theme"
)

const defaultPaneWidth = 44

// View renders the console.
func (m *Model) View() string {
	if m.help.ShowAll {
		return m.help.View(m.keys)
	}

	paneW := defaultPaneWidth
	if m.width > 0 {
		paneW = max(20, m.width/2-2)
	}
	pane := m.theme.Pane.Width(paneW)

	devices := lipgloss.JoinHorizontal(lipgloss.Top,
		pane.Render(m.cameraView()),
		pane.Render(m.robotView()),
	)

	var workflow string
	if m.state.UI.Mode == models.ModeDraw {
		workflow = m.drawView()
	} else {
		workflow = m.jobView()
	}

	sections := []string{
		m.statusBar(),
		m.tabs(),
		devices,
		m.theme.FocusedPane.Width(2*paneW + 2).Render(workflow),
	}
	if errs := m.errorsView(); errs != "" {
		sections = append(sections, errs)
	}
	if n := m.state.Notification; n.Visible {
		sections = append(sections, m.theme.Toast.Render(toastText(n)))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func toastText(n store.NotificationState) string {
	if n.Tag == "" {
		return n.Message
	}
	return fmt.Sprintf("[%s] %s", n.Tag, n.Message)
}

func (m *Model) indicator(ok bool, label string) string {
	if ok {
		return m.theme.Success.Render(theme.IconSuccess + " " + label)
	}
	return m.theme.Muted.Render(theme.IconError + " " + label)
}

func (m *Model) statusBar() string {
	st := m.state
	parts := []string{m.theme.Header.Render("cellconsole")}
	if st.Auth.Status == "Ok" && st.Auth.User != nil {
		parts = append(parts, fmt.Sprintf("user %v", st.Auth.User))
	}
	parts = append(parts,
		m.indicator(st.Camera.Connected, theme.IconCamera+" camera"),
		m.indicator(st.Robot.Connected, theme.IconRobot+" robot"),
	)
	if st.App.Running {
		parts = append(parts, m.theme.Info.Render(fmt.Sprintf("%s %s job: %s", theme.IconRunning, st.App.Job, st.App.Stage)))
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}

func (m *Model) tabs() string {
	var out []string
	for _, mode := range models.UIModes {
		if mode == m.state.UI.Mode {
			out = append(out, m.theme.ActiveTab.Render(string(mode)))
			continue
		}
		out = append(out, m.theme.Tab.Render(string(mode)))
	}
	return strings.Join(out, " ")
}

func (m *Model) cameraView() string {
	cam := m.state.Camera
	var b strings.Builder
	b.WriteString(m.theme.Bold.Render("Camera") + "\n")

	switch {
	case cam.Capturing:
		b.WriteString(m.theme.Info.Render(theme.IconRunning+" capturing") + "\n")
	case cam.Analyzing:
		b.WriteString(m.theme.Info.Render(theme.IconRunning+" analyzing") + "\n")
	case cam.AutosetupRunning:
		b.WriteString(m.theme.Info.Render(theme.IconRunning+" autosetup") + "\n")
	}

	switch {
	case cam.ImageName != "":
		fmt.Fprintf(&b, "image: %s\n", cam.ImageName)
	case cam.ImageBase64 != "":
		b.WriteString("image: captured\n")
	default:
		b.WriteString(m.theme.Muted.Render("no image") + "\n")
	}

	res := cam.Analysis
	if res == nil {
		return strings.TrimRight(b.String(), "\n")
	}
	if !res.Success {
		reason := res.Reason
		if reason == "" {
			reason = "analysis failed"
		}
		b.WriteString(m.theme.Warning.Render(reason) + "\n")
	}
	fmt.Fprintf(&b, "%d object(s)\n", len(res.Objects))
	for i, obj := range res.Objects {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.ObjectColor(i)).Render(objectLine(obj)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func objectLine(obj models.DetectedObject) string {
	line := fmt.Sprintf("#%d", obj.ID)
	if obj.CenterPx != nil {
		line += fmt.Sprintf(" (%.0f,%.0f)px", obj.CenterPx.X, obj.CenterPx.Y)
	}
	if obj.Target != nil {
		line += fmt.Sprintf(" → X=%.1f Y=%.1f RZ=%.1f", obj.Target.X, obj.Target.Y, obj.Target.RZ)
	}
	if in := obj.Inspection; in != nil {
		if in.WidthMM != nil && in.HeightMM != nil {
			line += fmt.Sprintf(" %.1f×%.1f mm", *in.WidthMM, *in.HeightMM)
		}
		if len(in.Holes) > 0 {
			line += fmt.Sprintf(" %d hole(s)", len(in.Holes))
		}
	}
	return line
}

func (m *Model) robotView() string {
	r := m.state.Robot
	var b strings.Builder
	b.WriteString(m.theme.Bold.Render("Robot") + "\n")

	if r.Pose != nil {
		p := r.Pose
		fmt.Fprintf(&b, "X=%.1f Y=%.1f Z=%.1f\n", p.X, p.Y, p.Z)
		fmt.Fprintf(&b, "RX=%.1f RY=%.1f RZ=%.1f\n", p.RX, p.RY, p.RZ)
	} else {
		b.WriteString(m.theme.Muted.Render("pose unknown") + "\n")
	}

	if r.Enabled == models.Enabled {
		b.WriteString(m.theme.Success.Render("enabled"))
	} else {
		b.WriteString(m.theme.Muted.Render("disabled"))
	}
	mode := "mode ?"
	if r.Mode != nil {
		mode = "auto"
		if *r.Mode == models.ModeManual {
			mode = "manual"
		}
	}
	b.WriteString("  " + mode)
	if r.Moving {
		b.WriteString("  " + m.theme.Info.Render("moving"))
	}
	b.WriteString("\n")

	if r.Safety != "" {
		fmt.Fprintf(&b, "%s %s\n", theme.IconStop, r.Safety)
	}
	if r.Gripper != nil {
		held := "empty"
		if *r.Gripper == 1 {
			held = "holding"
		}
		fmt.Fprintf(&b, "gripper: %s\n", held)
	}
	mp := r.MotionParams
	fmt.Fprintf(&b, "vel %.0f%%  acc %.0f%%  ovl %.0f%%", mp.Vel, mp.Acc, mp.Ovl)
	return b.String()
}

func (m *Model) jobView() string {
	app := m.state.App
	var b strings.Builder

	job := jobForMode(m.state.UI.Mode)
	state := m.theme.Muted.Render("stopped")
	if app.Running {
		state = m.theme.Success.Render("running")
	}
	fmt.Fprintf(&b, "%s %s  stage: %s\n", m.theme.Bold.Render(string(job)+" job"), state, app.Stage)
	if app.Message != "" {
		b.WriteString(app.Message + "\n")
	}
	if len(app.TargetPose) > 0 {
		fmt.Fprintf(&b, "target %v\n", app.TargetPose)
	}

	lock := theme.IconUnlock + " unlocked"
	if m.stack.Locked() {
		lock = theme.IconLock + " locked"
	}
	fmt.Fprintf(&b, "\n%s  %s\n", m.theme.Bold.Render("Priorities"), m.theme.Muted.Render(lock))
	if m.stack.Len() == 0 {
		b.WriteString(m.theme.Muted.Render("no groups"))
		return b.String()
	}

	for i, id := range m.stack.Order() {
		g, _ := m.stack.Group(id)
		line := fmt.Sprintf("%d. group %s (%d objects)", i+1, id, len(g.ObjectIDs))
		if i == m.stack.Selected() {
			line = m.theme.Selected.Render(theme.IconArrow + " " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
		if m.stack.Expanded() == id {
			for _, oid := range g.ObjectIDs {
				fmt.Fprintf(&b, "     %s #%s\n", theme.IconBullet, oid)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) drawView() string {
	app := m.state.App
	var b strings.Builder
	b.WriteString(m.theme.Bold.Render("DXF") + "\n")
	if len(app.PreviewPaths) == 0 {
		b.WriteString(m.theme.Muted.Render("no preview loaded"))
		return b.String()
	}
	fmt.Fprintf(&b, "preview: %d path(s)\n", len(app.PreviewPaths))
	if app.Origin != nil {
		fmt.Fprintf(&b, "origin: (%.1f, %.1f)\n", app.Origin.X, app.Origin.Y)
	}
	if len(app.DrawPaths) > 0 {
		fmt.Fprintf(&b, "drawn: %d path(s)", len(app.DrawPaths))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) errorsView() string {
	var lines []string
	add := func(label string, f *models.Failure) {
		if f != nil {
			lines = append(lines, m.theme.Error.Render(fmt.Sprintf("%s %s: %s", theme.IconError, label, f.Message)))
		}
	}
	add("camera", m.state.Camera.Error)
	add("robot", m.state.Robot.Error)
	add("app", m.state.App.Error)
	return strings.Join(lines, "\n")
}
