package store

import (
	"sync"

	"github.com/grovetools/cellconsole/pkg/action"
)

// Store is the in-memory view state. It is thread-safe and supports pub/sub
// for real-time updates. Only the engine's dispatch loop calls Apply, so
// actions are reduced one at a time in dispatch order.
type Store struct {
	mu          sync.RWMutex
	state       RootState
	seq         uint64
	subscribers map[chan Update]struct{}
}

// New creates a Store starting from initial.
func New(initial RootState) *Store {
	return &Store{
		state:       initial,
		subscribers: make(map[chan Update]struct{}),
	}
}

// Get returns the current committed state.
func (s *Store) Get() RootState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Seq returns the number of actions applied so far.
func (s *Store) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Apply reduces a, commits the result and notifies subscribers.
func (s *Store) Apply(a action.Action) RootState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	s.seq++

	u := Update{Seq: s.seq, Action: a, State: s.state}
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			// Non-blocking send so a slow view cannot stall dispatch
		}
	}
	return s.state
}

// Subscribe creates a new subscription channel for state updates.
func (s *Store) Subscribe() chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 100)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}
