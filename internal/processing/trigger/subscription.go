package trigger

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/IgorGrieder/linkly-connector/internal/linkly"
	"go.uber.org/zap"
)

// SubscriptionManager registers node callbacks with Linkly's webhook
// registry and keeps the resulting id in the node's state.
//
// The scope (workspace or link) is taken from the node's current event
// every time. A node whose event changed after subscribing will look up
// the new scope, miss the old registration and create a second one.
type SubscriptionManager struct {
	gw          Gateway
	store       StateStore
	workspaceID string
	log         *zap.Logger
}

func NewSubscriptionManager(gw Gateway, store StateStore, workspaceID string, log *zap.Logger) *SubscriptionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubscriptionManager{
		gw:          gw,
		store:       store,
		workspaceID: workspaceID,
		log:         log,
	}
}

// CheckExists reports whether the node's callback URL is listed in the
// scope's webhooks. Any error counts as not found.
func (m *SubscriptionManager) CheckExists(ctx context.Context, node Node) bool {
	endpoint := m.endpoint(node.Event, linkIDString(node.LinkID))

	resp, err := m.gw.Send(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		m.log.Warn("webhook lookup failed", zap.String("node", node.ID), zap.Error(err))
		return false
	}

	obj, ok := linkly.AsObject(resp)
	if !ok {
		return false
	}
	hooks, _ := obj["webhooks"].([]any)
	for _, hook := range hooks {
		if s, ok := hook.(string); ok && s == node.WebhookURL {
			m.persist(ctx, node.ID, func(st *NodeState) { st.WebhookID = node.WebhookURL })
			return true
		}
	}
	return false
}

// Create registers the callback URL. The stored id is the one Linkly
// returns, or the callback URL when the response has none. A failure after
// the remote call succeeded leaves an orphaned registration.
func (m *SubscriptionManager) Create(ctx context.Context, node Node) bool {
	endpoint := m.endpoint(node.Event, linkIDString(node.LinkID))

	resp, err := m.gw.Send(ctx, http.MethodPost, endpoint, map[string]any{"url": node.WebhookURL}, nil)
	if err != nil {
		m.log.Warn("webhook registration failed", zap.String("node", node.ID), zap.Error(err))
		return false
	}

	webhookID := node.WebhookURL
	if obj, ok := linkly.AsObject(resp); ok {
		if id, ok := truthyID(obj["id"]); ok {
			webhookID = id
		}
	}

	return m.persist(ctx, node.ID, func(st *NodeState) {
		st.WebhookID = webhookID
		if node.Event == EventLinkClick {
			linkID := node.LinkID
			st.LinkID = &linkID
		}
	})
}

// Delete unregisters the stored webhook. Nothing stored is a success
// without any remote call. Link-scoped deletes use the stored link id.
func (m *SubscriptionManager) Delete(ctx context.Context, node Node) bool {
	state, err := m.store.Load(ctx, node.ID)
	if err != nil {
		m.log.Warn("load node state failed", zap.String("node", node.ID), zap.Error(err))
		return false
	}
	if state.WebhookID == "" {
		return true
	}

	linkID := ""
	if state.LinkID != nil {
		linkID = linkIDString(*state.LinkID)
	}
	if node.Event == EventLinkClick && linkID == "" {
		m.log.Warn("link-scoped webhook has no stored link id", zap.String("node", node.ID))
		return false
	}

	endpoint := m.endpoint(node.Event, linkID) + "/" + encodeURIComponent(state.WebhookID)
	if _, err := m.gw.Send(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		m.log.Warn("webhook removal failed", zap.String("node", node.ID), zap.Error(err))
		return false
	}

	if err := m.store.Save(ctx, node.ID, NodeState{}); err != nil {
		m.log.Error("clear node state failed", zap.String("node", node.ID), zap.Error(err))
		return false
	}
	return true
}

func (m *SubscriptionManager) endpoint(event, linkID string) string {
	if event == EventLinkClick {
		return fmt.Sprintf("/api/v1/link/%s/webhooks", linkID)
	}
	return fmt.Sprintf("/api/v1/workspace/%s/webhooks", m.workspaceID)
}

func (m *SubscriptionManager) persist(ctx context.Context, nodeID string, mutate func(*NodeState)) bool {
	state, err := m.store.Load(ctx, nodeID)
	if err != nil {
		m.log.Warn("load node state failed", zap.String("node", nodeID), zap.Error(err))
		state = NodeState{}
	}
	mutate(&state)
	if err := m.store.Save(ctx, nodeID, state); err != nil {
		m.log.Error("save node state failed", zap.String("node", nodeID), zap.Error(err))
		return false
	}
	return true
}

// truthyID accepts an id unless it is missing, "", 0 or false.
func truthyID(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case bool:
		return linkly.FormatID(t), t
	case int64:
		return linkly.FormatID(t), t != 0
	case float64:
		return linkly.FormatID(t), t != 0
	default:
		return linkly.FormatID(t), true
	}
}

func linkIDString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// encodeURIComponent escapes s for use as a single path segment.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
