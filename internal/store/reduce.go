package store

import (
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

// Reduce applies one action to every domain. RESET_ALL reinitializes the
// whole tree; every other kind is handed to each domain reducer, which
// returns its input unchanged for kinds it does not handle.
func Reduce(s RootState, a action.Action) RootState {
	if a.Kind == action.ResetAll {
		return Initial()
	}
	return RootState{
		Auth:         ReduceAuth(s.Auth, a),
		Camera:       ReduceCamera(s.Camera, a),
		Robot:        ReduceRobot(s.Robot, a),
		App:          ReduceApp(s.App, a),
		Notification: ReduceNotification(s.Notification, a),
		UI:           ReduceUI(s.UI, a),
	}
}

func failureOf(a action.Action) *models.Failure {
	f, ok := a.Failure()
	if !ok {
		f = models.Failure{Message: "unknown error"}
	}
	return &f
}

// ReduceAuth handles GET_USER.
func ReduceAuth(s AuthState, a action.Action) AuthState {
	switch a.Kind {
	case action.GetUser:
		s.Loading = true
		s.Error = nil
	case action.GetUserSuccess:
		res, ok := a.Payload.(models.UsersResponse)
		if !ok {
			return s
		}
		s.Loading = false
		s.Status = "Ok"
		s.User = res.Data
		s.Message = "Login successful."
	case action.GetUserFailure:
		f := failureOf(a)
		s.Loading = false
		s.Status = "Error"
		s.User = nil
		s.Message = f.Message
		if s.Message == "" {
			s.Message = "Login failed."
		}
		s.Error = f
	}
	return s
}

// ReduceNotification keeps a single toast: a new one replaces whatever is
// shown, and a hide only applies to the toast it names.
func ReduceNotification(s NotificationState, a action.Action) NotificationState {
	switch a.Kind {
	case action.ShowNotification:
		n, ok := a.Payload.(action.Notification)
		if !ok {
			return s
		}
		return NotificationState{ID: n.ID, Tag: n.Tag, Message: n.Message, Visible: true}
	case action.HideNotification:
		var id string
		if h, ok := a.Payload.(action.Hide); ok {
			id = h.ID
		}
		if id == "" || id == s.ID {
			s.Visible = false
		}
	}
	return s
}

// ReduceUI handles SET_UI_MODE. Unknown modes are ignored.
func ReduceUI(s UIState, a action.Action) UIState {
	if a.Kind != action.SetUIMode {
		return s
	}
	if mode, ok := a.Payload.(models.UIMode); ok && mode.Valid() {
		s.Mode = mode
	}
	return s
}
