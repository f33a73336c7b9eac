// Package priority models the operator's pick-priority stack: the analysis
// groups in the order the operator wants them picked.
package priority

import (
	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
)

// Dispatcher accepts actions. *engine.Engine satisfies it.
type Dispatcher interface {
	Dispatch(a action.Action)
}

// Stack is view-local state; it is not safe for concurrent use.
type Stack struct {
	dispatch Dispatcher
	groups   map[models.ID]models.Group
	order    []models.ID
	locked   bool
	selected int
	expanded models.ID
}

// New creates an empty, unlocked stack.
func New(d Dispatcher) *Stack {
	return &Stack{dispatch: d, groups: map[models.ID]models.Group{}}
}

// Sync replaces the items with the given groups. The current order survives
// when the set of group ids is unchanged; otherwise the backend order is
// taken as is.
func (s *Stack) Sync(groups []models.Group) {
	next := make(map[models.ID]models.Group, len(groups))
	order := make([]models.ID, 0, len(groups))
	for _, g := range groups {
		if _, dup := next[g.GroupID]; dup {
			continue
		}
		next[g.GroupID] = g
		order = append(order, g.GroupID)
	}
	s.groups = next

	if sameSet(s.order, order) {
		return
	}
	s.order = order
	if s.selected >= len(s.order) {
		s.selected = len(s.order) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
	if _, ok := next[s.expanded]; !ok {
		s.expanded = ""
	}
}

func sameSet(a, b []models.ID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[models.ID]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}

// Order returns a copy of the current order.
func (s *Stack) Order() []models.ID {
	out := make([]models.ID, len(s.order))
	copy(out, s.order)
	return out
}

// Group returns the group with the given id.
func (s *Stack) Group(id models.ID) (models.Group, bool) {
	g, ok := s.groups[id]
	return g, ok
}

// Len returns the number of groups.
func (s *Stack) Len() int {
	return len(s.order)
}

// Locked reports whether reordering is disabled.
func (s *Stack) Locked() bool {
	return s.locked
}

// Selected returns the cursor position.
func (s *Stack) Selected() int {
	return s.selected
}

// Expanded returns the id whose object list is shown, or "".
func (s *Stack) Expanded() models.ID {
	return s.expanded
}

// Select moves the cursor by delta, clamped to the list.
func (s *Stack) Select(delta int) {
	if len(s.order) == 0 {
		return
	}
	s.selected += delta
	if s.selected < 0 {
		s.selected = 0
	}
	if s.selected >= len(s.order) {
		s.selected = len(s.order) - 1
	}
}

// ToggleExpand shows or hides the objects of the selected group.
func (s *Stack) ToggleExpand() {
	if len(s.order) == 0 {
		return
	}
	id := s.order[s.selected]
	if s.expanded == id {
		s.expanded = ""
		return
	}
	s.expanded = id
}

// Move moves the item at from to position to. It is a no-op while locked or
// when either index is out of range.
func (s *Stack) Move(from, to int) bool {
	if s.locked || from == to {
		return false
	}
	if from < 0 || from >= len(s.order) || to < 0 || to >= len(s.order) {
		return false
	}
	id := s.order[from]
	s.order = append(s.order[:from], s.order[from+1:]...)
	s.order = append(s.order[:to], append([]models.ID{id}, s.order[to:]...)...)
	return true
}

// MoveSelected moves the selected item by delta and keeps it selected.
func (s *Stack) MoveSelected(delta int) bool {
	to := s.selected + delta
	if !s.Move(s.selected, to) {
		return false
	}
	s.selected = to
	return true
}

// ToggleLock flips the lock. Locking commits the current order once;
// unlocking commits nothing. The lock cannot be toggled while a job runs.
func (s *Stack) ToggleLock(running bool) bool {
	if running {
		return false
	}
	if s.locked {
		s.locked = false
		return true
	}
	s.lock()
	return true
}

// Follow locks the stack when a job starts running.
func (s *Stack) Follow(running bool) {
	if running && !s.locked {
		s.lock()
	}
}

func (s *Stack) lock() {
	s.locked = true
	if s.dispatch != nil {
		s.dispatch.Dispatch(action.CommitOrder(s.order))
	}
}
