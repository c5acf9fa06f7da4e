package trigger

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	callbackURL     = "https://hooks.example.com/webhooks/linkly/ws-node"
	workspaceHooks  = "/api/v1/workspace/77/webhooks"
	link9Hooks      = "/api/v1/link/9/webhooks"
	testWorkspaceID = "77"
)

func workspaceNode() Node {
	return Node{ID: "ws-node", Event: EventWorkspaceClick, WebhookURL: callbackURL}
}

func linkNode(linkID int64) Node {
	return Node{ID: "ws-node", Event: EventLinkClick, LinkID: linkID, WebhookURL: callbackURL}
}

func newManager() (*SubscriptionManager, *fakeGateway, *fakeStore) {
	gw := newFakeGateway()
	store := newFakeStore()
	return NewSubscriptionManager(gw, store, testWorkspaceID, nil), gw, store
}

func TestCheckExistsExactMatch(t *testing.T) {
	m, gw, store := newManager()
	gw.on(http.MethodGet, workspaceHooks, map[string]any{
		"webhooks": []any{"https://other.example.com/hook", callbackURL},
	})

	assert.True(t, m.CheckExists(context.Background(), workspaceNode()))
	assert.Equal(t, callbackURL, store.states["ws-node"].WebhookID)
}

func TestCheckExistsRequiresExactURL(t *testing.T) {
	tests := []struct {
		name string
		resp any
	}{
		{"trailing slash", map[string]any{"webhooks": []any{callbackURL + "/"}}},
		{"prefix only", map[string]any{"webhooks": []any{"https://hooks.example.com/webhooks/linkly/"}}},
		{"empty list", map[string]any{"webhooks": []any{}}},
		{"missing key", map[string]any{"data": []any{callbackURL}}},
		{"wrong type", map[string]any{"webhooks": callbackURL}},
		{"array response", []any{callbackURL}},
		{"empty response", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, gw, store := newManager()
			gw.on(http.MethodGet, workspaceHooks, tt.resp)

			assert.False(t, m.CheckExists(context.Background(), workspaceNode()))
			assert.Empty(t, store.states)
		})
	}
}

func TestCheckExistsSwallowsGatewayErrors(t *testing.T) {
	m, gw, store := newManager()
	gw.fail(http.MethodGet, workspaceHooks, errUpstream)

	assert.False(t, m.CheckExists(context.Background(), workspaceNode()))
	assert.Empty(t, store.states)
}

func TestCheckExistsUsesLinkScope(t *testing.T) {
	m, gw, _ := newManager()
	gw.on(http.MethodGet, link9Hooks, map[string]any{"webhooks": []any{callbackURL}})

	assert.True(t, m.CheckExists(context.Background(), linkNode(9)))
	require.Len(t, gw.calls, 1)
	assert.Equal(t, link9Hooks, gw.calls[0].path)
}

func TestCreatePersistsRemoteID(t *testing.T) {
	m, gw, store := newManager()
	gw.on(http.MethodPost, workspaceHooks, map[string]any{"id": "wh_123"})

	require.True(t, m.Create(context.Background(), workspaceNode()))

	posts := gw.callsTo(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Equal(t, map[string]any{"url": callbackURL}, posts[0].body)
	assert.Equal(t, NodeState{WebhookID: "wh_123"}, store.states["ws-node"])
}

func TestCreateFallsBackToCallbackURL(t *testing.T) {
	for _, resp := range []any{nil, map[string]any{}, map[string]any{"id": ""}, map[string]any{"id": int64(0)}} {
		m, gw, store := newManager()
		gw.on(http.MethodPost, workspaceHooks, resp)

		require.True(t, m.Create(context.Background(), workspaceNode()))
		assert.Equal(t, callbackURL, store.states["ws-node"].WebhookID, "response %v", resp)
	}
}

func TestCreateNumericIDIsStringified(t *testing.T) {
	m, gw, store := newManager()
	gw.on(http.MethodPost, link9Hooks, map[string]any{"id": int64(314)})

	require.True(t, m.Create(context.Background(), linkNode(9)))
	assert.Equal(t, NodeState{WebhookID: "314", LinkID: int64Ptr(9)}, store.states["ws-node"])
}

func TestCreateFailureLeavesStateEmpty(t *testing.T) {
	m, gw, store := newManager()
	gw.fail(http.MethodPost, link9Hooks, errUpstream)

	assert.False(t, m.Create(context.Background(), linkNode(9)))
	assert.Empty(t, store.states)
}

func TestCreatePersistenceFailureReportsFalse(t *testing.T) {
	m, gw, store := newManager()
	gw.on(http.MethodPost, workspaceHooks, map[string]any{"id": "wh_1"})
	store.saveErr = errors.New("disk full")

	assert.False(t, m.Create(context.Background(), workspaceNode()))
	// the remote registration is left behind
	assert.Len(t, gw.callsTo(http.MethodPost), 1)
}

func TestDeleteWithoutStoredIDMakesNoCall(t *testing.T) {
	m, gw, _ := newManager()

	assert.True(t, m.Delete(context.Background(), workspaceNode()))
	assert.True(t, m.Delete(context.Background(), linkNode(9)))
	assert.Empty(t, gw.calls)
}

func TestDeleteEncodesWebhookIDAndClearsState(t *testing.T) {
	m, gw, store := newManager()
	store.states["ws-node"] = NodeState{WebhookID: callbackURL}

	require.True(t, m.Delete(context.Background(), workspaceNode()))

	deletes := gw.callsTo(http.MethodDelete)
	require.Len(t, deletes, 1)
	assert.Equal(t,
		workspaceHooks+"/https%3A%2F%2Fhooks.example.com%2Fwebhooks%2Flinkly%2Fws-node",
		deletes[0].path)
	assert.Nil(t, deletes[0].body)
	assert.Empty(t, store.states)
}

func TestDeleteUsesStoredLinkID(t *testing.T) {
	m, gw, store := newManager()
	store.states["ws-node"] = NodeState{WebhookID: "wh 1", LinkID: int64Ptr(9)}

	// current parameter points at another link; the stored one wins
	require.True(t, m.Delete(context.Background(), linkNode(55)))

	deletes := gw.callsTo(http.MethodDelete)
	require.Len(t, deletes, 1)
	assert.Equal(t, link9Hooks+"/wh%201", deletes[0].path)
	assert.Empty(t, store.states)
}

func TestDeleteFailureKeepsState(t *testing.T) {
	m, gw, store := newManager()
	store.states["ws-node"] = NodeState{WebhookID: "wh_1"}
	gw.fail(http.MethodDelete, workspaceHooks+"/wh_1", errUpstream)

	assert.False(t, m.Delete(context.Background(), workspaceNode()))
	assert.Equal(t, "wh_1", store.states["ws-node"].WebhookID)
}

func TestDeleteLinkScopeWithoutStoredLink(t *testing.T) {
	m, gw, store := newManager()
	store.states["ws-node"] = NodeState{WebhookID: "wh_1"}

	assert.False(t, m.Delete(context.Background(), linkNode(9)))
	assert.Empty(t, gw.calls)
}

// Switching a subscribed node from workspace to link scope is not detected:
// the next activation registers a second webhook and the first is orphaned.
func TestScopeSwitchCreatesDuplicateSubscription(t *testing.T) {
	gw := newFakeGateway()
	store := newFakeStore()
	m := NewSubscriptionManager(gw, store, testWorkspaceID, nil)
	svcFor := func(n Node) *Service { return NewService([]Node{n}, m, store, &fakeSink{}) }

	gw.on(http.MethodGet, workspaceHooks, map[string]any{"webhooks": []any{}})
	gw.on(http.MethodPost, workspaceHooks, map[string]any{"id": "wh_ws"})
	require.NoError(t, svcFor(workspaceNode()).Activate(context.Background(), "ws-node"))

	// Linkly now lists the callback under the workspace only
	gw.on(http.MethodGet, workspaceHooks, map[string]any{"webhooks": []any{callbackURL}})
	gw.on(http.MethodGet, link9Hooks, map[string]any{"webhooks": []any{}})
	gw.on(http.MethodPost, link9Hooks, map[string]any{"id": "wh_link"})

	require.NoError(t, svcFor(linkNode(9)).Activate(context.Background(), "ws-node"))

	posts := gw.callsTo(http.MethodPost)
	require.Len(t, posts, 2)
	assert.Equal(t, workspaceHooks, posts[0].path)
	assert.Equal(t, link9Hooks, posts[1].path)
	assert.Equal(t, NodeState{WebhookID: "wh_link", LinkID: int64Ptr(9)}, store.states["ws-node"])
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "a%20b%2Fc%3Fd%3De", encodeURIComponent("a b/c?d=e"))
	assert.Equal(t, "wh_1-x.y~z", encodeURIComponent("wh_1-x.y~z"))
}
