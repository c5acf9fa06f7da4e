package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/db"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *StateStore {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	s, err := NewStateStore(ctx, conn)
	require.NoError(t, err)
	return s
}

func TestStateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	st, err := s.Load(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, st.IsZero())

	linkID := int64(42)
	require.NoError(t, s.Save(ctx, "n1", trigger.NodeState{WebhookID: "wh_1", LinkID: &linkID}))

	st, err = s.Load(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "wh_1", st.WebhookID)
	require.NotNil(t, st.LinkID)
	assert.Equal(t, int64(42), *st.LinkID)

	require.NoError(t, s.Save(ctx, "n1", trigger.NodeState{WebhookID: "wh_2"}))
	st, err = s.Load(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "wh_2", st.WebhookID)
	assert.Nil(t, st.LinkID)
}

func TestStateStoreZeroClears(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Save(ctx, "n1", trigger.NodeState{WebhookID: "wh_1"}))
	require.NoError(t, s.Save(ctx, "n1", trigger.NodeState{}))

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM node_static_data`).Scan(&n))
	assert.Zero(t, n)
}

func TestStateStoreSchemaIsIdempotent(t *testing.T) {
	s := newStore(t)
	_, err := NewStateStore(context.Background(), s.db)
	assert.NoError(t, err)
}
