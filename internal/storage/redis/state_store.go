package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	goredis "github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "linkly:node:"

// StateStore keeps each node's state as a JSON string under linkly:node:<id>.
type StateStore struct {
	client goredis.Cmdable
}

func NewStateStore(client goredis.Cmdable) *StateStore {
	return &StateStore{client: client}
}

func stateKey(nodeID string) string {
	return stateKeyPrefix + nodeID
}

func (s *StateStore) Load(ctx context.Context, nodeID string) (trigger.NodeState, error) {
	raw, err := s.client.Get(ctx, stateKey(nodeID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return trigger.NodeState{}, nil
	}
	if err != nil {
		return trigger.NodeState{}, fmt.Errorf("load node state %s: %w", nodeID, err)
	}

	var st trigger.NodeState
	if err := json.Unmarshal(raw, &st); err != nil {
		return trigger.NodeState{}, fmt.Errorf("decode node state %s: %w", nodeID, err)
	}
	return st, nil
}

func (s *StateStore) Save(ctx context.Context, nodeID string, st trigger.NodeState) error {
	if st.IsZero() {
		if err := s.client.Del(ctx, stateKey(nodeID)).Err(); err != nil {
			return fmt.Errorf("clear node state %s: %w", nodeID, err)
		}
		return nil
	}

	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, stateKey(nodeID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save node state %s: %w", nodeID, err)
	}
	return nil
}
