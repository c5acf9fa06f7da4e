package memory

import (
	"context"
	"sync"

	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
)

// StateStore keeps node state in process memory. State is lost on restart.
type StateStore struct {
	mu     sync.RWMutex
	states map[string]trigger.NodeState
}

func NewStateStore() *StateStore {
	return &StateStore{states: make(map[string]trigger.NodeState)}
}

func (s *StateStore) Load(_ context.Context, nodeID string) (trigger.NodeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.states[nodeID]), nil
}

func (s *StateStore) Save(_ context.Context, nodeID string, state trigger.NodeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.IsZero() {
		delete(s.states, nodeID)
		return nil
	}
	s.states[nodeID] = copyState(state)
	return nil
}

func copyState(st trigger.NodeState) trigger.NodeState {
	if st.LinkID != nil {
		id := *st.LinkID
		st.LinkID = &id
	}
	return st
}
