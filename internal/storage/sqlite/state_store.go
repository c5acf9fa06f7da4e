package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
)

const schema = `
CREATE TABLE IF NOT EXISTS node_static_data (
	node_id    TEXT PRIMARY KEY,
	webhook_id TEXT NOT NULL DEFAULT '',
	link_id    INTEGER,
	updated_at TEXT NOT NULL
)`

type StateStore struct {
	db *sql.DB
}

// NewStateStore creates the table if needed.
func NewStateStore(ctx context.Context, db *sql.DB) (*StateStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create node_static_data: %w", err)
	}
	return &StateStore{db: db}, nil
}

func (s *StateStore) Load(ctx context.Context, nodeID string) (trigger.NodeState, error) {
	var (
		st     trigger.NodeState
		linkID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT webhook_id, link_id FROM node_static_data WHERE node_id = ?`, nodeID,
	).Scan(&st.WebhookID, &linkID)
	if errors.Is(err, sql.ErrNoRows) {
		return trigger.NodeState{}, nil
	}
	if err != nil {
		return trigger.NodeState{}, fmt.Errorf("load node state %s: %w", nodeID, err)
	}
	if linkID.Valid {
		id := linkID.Int64
		st.LinkID = &id
	}
	return st, nil
}

func (s *StateStore) Save(ctx context.Context, nodeID string, st trigger.NodeState) error {
	if st.IsZero() {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM node_static_data WHERE node_id = ?`, nodeID); err != nil {
			return fmt.Errorf("clear node state %s: %w", nodeID, err)
		}
		return nil
	}

	var linkID sql.NullInt64
	if st.LinkID != nil {
		linkID = sql.NullInt64{Int64: *st.LinkID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO node_static_data (node_id, webhook_id, link_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(node_id) DO UPDATE SET
			webhook_id = excluded.webhook_id,
			link_id    = excluded.link_id,
			updated_at = excluded.updated_at`,
		nodeID, st.WebhookID, linkID, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save node state %s: %w", nodeID, err)
	}
	return nil
}
