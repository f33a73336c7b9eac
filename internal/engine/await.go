package engine

import (
	"context"

	"github.com/grovetools/cellconsole/pkg/action"
)

type watcher struct {
	kinds map[action.Kind]struct{}
	ch    chan action.Action
}

func (e *Engine) watch(kinds []action.Kind) *watcher {
	w := &watcher{kinds: make(map[action.Kind]struct{}, len(kinds)), ch: make(chan action.Action, 1)}
	for _, k := range kinds {
		w.kinds[k] = struct{}{}
	}
	e.watchMu.Lock()
	e.watchers[w] = struct{}{}
	e.watchMu.Unlock()
	return w
}

func (e *Engine) unwatch(w *watcher) {
	e.watchMu.Lock()
	delete(e.watchers, w)
	e.watchMu.Unlock()
}

func (e *Engine) notifyWatchers(a action.Action) {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()
	for w := range e.watchers {
		if _, ok := w.kinds[a.Kind]; !ok {
			continue
		}
		select {
		case w.ch <- a:
		default:
		}
	}
}

// Await dispatches a and returns the first reduced action whose kind is in
// kinds. Without kinds it waits for the success or failure of a's family.
// The returned action has already been applied to the store.
func (e *Engine) Await(ctx context.Context, a action.Action, kinds ...action.Kind) (action.Action, error) {
	if len(kinds) == 0 {
		if fam, ok := a.Kind.Family(); ok {
			kinds = []action.Kind{fam.Success, fam.Failure}
		}
	}
	w := e.watch(kinds)
	defer e.unwatch(w)

	e.Dispatch(a)
	select {
	case got := <-w.ch:
		return got, nil
	case <-ctx.Done():
		return action.Action{}, ctx.Err()
	}
}
