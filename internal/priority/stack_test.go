package priority

import (
	"testing"

	"github.com/grovetools/cellconsole/pkg/action"
	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	actions []action.Action
}

func (r *recorder) Dispatch(a action.Action) {
	r.actions = append(r.actions, a)
}

func groups(ids ...string) []models.Group {
	out := make([]models.Group, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Group{GroupID: models.ID(id), ObjectIDs: []models.ID{models.ID(id + "-a")}})
	}
	return out
}

func ids(s ...string) []models.ID {
	out := make([]models.ID, len(s))
	for i, v := range s {
		out[i] = models.ID(v)
	}
	return out
}

func TestLockDispatchesOncePerTransition(t *testing.T) {
	rec := &recorder{}
	s := New(rec)
	s.Sync(groups("1", "2", "3"))
	require.True(t, s.Move(2, 0))

	require.True(t, s.ToggleLock(false))
	require.Len(t, rec.actions, 1)
	assert.Equal(t, action.SetPriorityOrder, rec.actions[0].Kind)
	assert.Equal(t, ids("3", "1", "2"), rec.actions[0].Payload.(action.PriorityOrder).Order)

	require.True(t, s.ToggleLock(false))
	assert.False(t, s.Locked())
	assert.Len(t, rec.actions, 1, "unlock must not dispatch")

	s.ToggleLock(false)
	assert.Len(t, rec.actions, 2)
}

func TestCommittedOrderIsACopy(t *testing.T) {
	rec := &recorder{}
	s := New(rec)
	s.Sync(groups("1", "2"))
	s.ToggleLock(false)
	s.ToggleLock(false)
	s.Move(0, 1)

	assert.Equal(t, ids("1", "2"), rec.actions[0].Payload.(action.PriorityOrder).Order)
}

func TestMoveIsDisabledWhileLocked(t *testing.T) {
	s := New(nil)
	s.Sync(groups("1", "2", "3"))
	s.ToggleLock(false)

	assert.False(t, s.Move(0, 2))
	assert.False(t, s.MoveSelected(1))
	assert.Equal(t, ids("1", "2", "3"), s.Order())
}

func TestMoveSelected(t *testing.T) {
	s := New(nil)
	s.Sync(groups("1", "2", "3"))

	assert.True(t, s.MoveSelected(1))
	assert.Equal(t, ids("2", "1", "3"), s.Order())
	assert.Equal(t, 1, s.Selected())

	assert.False(t, s.MoveSelected(-5))
	assert.False(t, s.Move(0, 3))
}

func TestRunningLocksAndBlocksToggle(t *testing.T) {
	rec := &recorder{}
	s := New(rec)
	s.Sync(groups("1", "2"))

	s.Follow(true)
	assert.True(t, s.Locked())
	assert.Len(t, rec.actions, 1)

	s.Follow(true)
	assert.Len(t, rec.actions, 1)

	assert.False(t, s.ToggleLock(true))
	assert.True(t, s.Locked())

	s.Follow(false)
	assert.True(t, s.Locked(), "stopping a job leaves the lock to the operator")
}

func TestSyncKeepsOrderForSameGroups(t *testing.T) {
	s := New(nil)
	s.Sync(groups("1", "2", "3"))
	s.Move(0, 2)
	s.Sync(groups("3", "2", "1"))
	assert.Equal(t, ids("2", "3", "1"), s.Order())

	s.Sync(groups("7", "8"))
	assert.Equal(t, ids("7", "8"), s.Order())

	s.Sync(nil)
	assert.Zero(t, s.Len())
	assert.Equal(t, 0, s.Selected())
}

func TestToggleExpand(t *testing.T) {
	s := New(nil)
	s.Sync(groups("1", "2"))
	s.Select(1)
	s.ToggleExpand()
	assert.Equal(t, models.ID("2"), s.Expanded())

	g, ok := s.Group("2")
	require.True(t, ok)
	assert.Equal(t, ids("2-a"), g.ObjectIDs)

	s.ToggleExpand()
	assert.Equal(t, models.ID(""), s.Expanded())
}
