package trigger

import (
	"context"
	"errors"
	"net/url"
	"sync"
)

type call struct {
	method string
	path   string
	body   map[string]any
}

type fakeGateway struct {
	mu        sync.Mutex
	calls     []call
	responses map[string]any
	errs      map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{responses: map[string]any{}, errs: map[string]error{}}
}

func (g *fakeGateway) on(method, path string, resp any) {
	g.responses[method+" "+path] = resp
}

func (g *fakeGateway) fail(method, path string, err error) {
	g.errs[method+" "+path] = err
}

func (g *fakeGateway) Send(_ context.Context, method, path string, body map[string]any, _ url.Values) (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call{method: method, path: path, body: body})
	key := method + " " + path
	if err, ok := g.errs[key]; ok {
		return nil, err
	}
	return g.responses[key], nil
}

func (g *fakeGateway) callsTo(method string) []call {
	var out []call
	for _, c := range g.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

type fakeStore struct {
	states  map[string]NodeState
	saveErr error
	loadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: map[string]NodeState{}}
}

func (s *fakeStore) Load(_ context.Context, nodeID string) (NodeState, error) {
	if s.loadErr != nil {
		return NodeState{}, s.loadErr
	}
	return s.states[nodeID], nil
}

func (s *fakeStore) Save(_ context.Context, nodeID string, state NodeState) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if state.IsZero() {
		delete(s.states, nodeID)
		return nil
	}
	s.states[nodeID] = state
	return nil
}

type fakeSink struct {
	emitted []ClickEvent
	err     error
}

func (s *fakeSink) Emit(_ context.Context, _ string, click ClickEvent) error {
	if s.err != nil {
		return s.err
	}
	s.emitted = append(s.emitted, click)
	return nil
}

var errUpstream = errors.New("linkly Linkly: GET /api: HTTP 503: unavailable")

func int64Ptr(v int64) *int64 { return &v }
