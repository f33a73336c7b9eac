package engine

import (
	"context"
	"time"

	"github.com/grovetools/cellconsole/pkg/action"
)

// notify queues a toast after the primary outcome has been dispatched.
func (e *Engine) notify(tag, message string) {
	e.Dispatch(action.Notify(tag, message))
}

// dismissLater hides a toast once it has been shown for the configured
// delay. A newer toast is unaffected because the hide names this one.
func (e *Engine) dismissLater(ctx context.Context, a action.Action) {
	n, ok := a.Payload.(action.Notification)
	if !ok {
		return
	}
	timer := time.NewTimer(e.current().dismissAfter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
		e.Dispatch(action.Dismiss(n.ID))
	}
}
