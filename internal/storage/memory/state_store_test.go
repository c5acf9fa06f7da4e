package memory

import (
	"context"
	"testing"

	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
)

func TestStateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStateStore()

	st, err := s.Load(ctx, "n1")
	if err != nil || !st.IsZero() {
		t.Fatalf("expected zero state for unknown node, got %+v, %v", st, err)
	}

	linkID := int64(42)
	if err := s.Save(ctx, "n1", trigger.NodeState{WebhookID: "wh_1", LinkID: &linkID}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	linkID = 7

	st, _ = s.Load(ctx, "n1")
	if st.WebhookID != "wh_1" || st.LinkID == nil || *st.LinkID != 42 {
		t.Fatalf("unexpected state %+v", st)
	}

	*st.LinkID = 99
	again, _ := s.Load(ctx, "n1")
	if *again.LinkID != 42 {
		t.Fatalf("stored state must not alias caller memory")
	}
}

func TestStateStoreZeroClears(t *testing.T) {
	ctx := context.Background()
	s := NewStateStore()

	_ = s.Save(ctx, "n1", trigger.NodeState{WebhookID: "wh_1"})
	if err := s.Save(ctx, "n1", trigger.NodeState{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(s.states) != 0 {
		t.Fatalf("zero state should remove the record")
	}
}
