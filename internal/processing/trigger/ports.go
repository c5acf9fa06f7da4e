package trigger

import (
	"context"
	"errors"
	"net/url"
)

var (
	ErrNodeNotFound           = errors.New("trigger node not found")
	ErrSubscriptionNotCreated = errors.New("linkly webhook subscription could not be created")
	ErrSubscriptionNotDeleted = errors.New("linkly webhook subscription could not be deleted")
)

// Gateway sends authenticated requests to Linkly.
type Gateway interface {
	Send(ctx context.Context, method, path string, body map[string]any, query url.Values) (any, error)
}

// StateStore persists one NodeState per node. Load returns the zero state
// for unknown nodes; saving the zero state removes the record.
type StateStore interface {
	Load(ctx context.Context, nodeID string) (NodeState, error)
	Save(ctx context.Context, nodeID string, state NodeState) error
}

// ClickSink receives every adapted click.
type ClickSink interface {
	Emit(ctx context.Context, nodeID string, click ClickEvent) error
}

// WebhookLifecycle is driven by activation and deactivation of a node.
// Each call reports success as a boolean; failures are never returned.
type WebhookLifecycle interface {
	CheckExists(ctx context.Context, node Node) bool
	Create(ctx context.Context, node Node) bool
	Delete(ctx context.Context, node Node) bool
}
