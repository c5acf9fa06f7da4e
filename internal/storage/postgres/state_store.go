package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/db"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS node_static_data (
	node_id    TEXT PRIMARY KEY,
	webhook_id TEXT NOT NULL DEFAULT '',
	link_id    BIGINT,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type StateStore struct {
	pool *pgxpool.Pool
}

func NewStateStore(p *db.Postgres) (*StateStore, error) {
	if p == nil || p.Pool == nil {
		return nil, errors.New("postgres pool is nil")
	}
	return &StateStore{pool: p.Pool}, nil
}

// EnsureSchema creates node_static_data when it does not exist.
func (s *StateStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create node_static_data: %w", err)
	}
	return nil
}

func (s *StateStore) Load(ctx context.Context, nodeID string) (trigger.NodeState, error) {
	var st trigger.NodeState
	err := s.pool.QueryRow(ctx,
		`SELECT webhook_id, link_id FROM node_static_data WHERE node_id = $1`, nodeID,
	).Scan(&st.WebhookID, &st.LinkID)
	if errors.Is(err, pgx.ErrNoRows) {
		return trigger.NodeState{}, nil
	}
	if err != nil {
		return trigger.NodeState{}, fmt.Errorf("load node state %s: %w", nodeID, err)
	}
	return st, nil
}

func (s *StateStore) Save(ctx context.Context, nodeID string, st trigger.NodeState) error {
	if st.IsZero() {
		if _, err := s.pool.Exec(ctx, `DELETE FROM node_static_data WHERE node_id = $1`, nodeID); err != nil {
			return fmt.Errorf("clear node state %s: %w", nodeID, err)
		}
		return nil
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO node_static_data (node_id, webhook_id, link_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (node_id) DO UPDATE SET
			webhook_id = EXCLUDED.webhook_id,
			link_id    = EXCLUDED.link_id,
			updated_at = now()`,
		nodeID, st.WebhookID, st.LinkID,
	)
	if err != nil {
		return fmt.Errorf("save node state %s: %w", nodeID, err)
	}
	return nil
}
