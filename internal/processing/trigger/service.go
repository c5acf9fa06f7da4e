package trigger

import (
	"context"
	"fmt"
	"sort"
)

// Service plays the host role for configured trigger nodes: it drives the
// webhook lifecycle on activation and deactivation and forwards inbound
// clicks to the sink.
type Service struct {
	nodes map[string]Node
	hooks WebhookLifecycle
	store StateStore
	sink  ClickSink
}

func NewService(nodes []Node, hooks WebhookLifecycle, store StateStore, sink ClickSink) *Service {
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	return &Service{
		nodes: byID,
		hooks: hooks,
		store: store,
		sink:  sink,
	}
}

func (s *Service) Node(id string) (Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, ErrNodeNotFound
	}
	return n, nil
}

// Nodes returns all nodes ordered by id.
func (s *Service) Nodes() []Node {
	out := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Activate makes sure Linkly calls the node back: an existing registration
// is adopted, otherwise a new one is created.
func (s *Service) Activate(ctx context.Context, id string) error {
	node, err := s.Node(id)
	if err != nil {
		return err
	}
	if s.hooks.CheckExists(ctx, node) {
		return nil
	}
	if !s.hooks.Create(ctx, node) {
		return ErrSubscriptionNotCreated
	}
	return nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	node, err := s.Node(id)
	if err != nil {
		return err
	}
	if !s.hooks.Delete(ctx, node) {
		return ErrSubscriptionNotDeleted
	}
	return nil
}

// Check asks Linkly whether the node's callback is registered.
func (s *Service) Check(ctx context.Context, id string) (bool, error) {
	node, err := s.Node(id)
	if err != nil {
		return false, err
	}
	return s.hooks.CheckExists(ctx, node), nil
}

func (s *Service) Status(ctx context.Context, id string) (Status, error) {
	node, err := s.Node(id)
	if err != nil {
		return Status{}, err
	}
	state, err := s.store.Load(ctx, id)
	if err != nil {
		return Status{}, fmt.Errorf("load node state: %w", err)
	}
	return Status{Node: node, State: state}, nil
}

// Receive adapts one inbound payload and emits exactly one click for it.
// Duplicate deliveries are emitted again.
func (s *Service) Receive(ctx context.Context, id string, payload any) (ClickEvent, error) {
	if _, err := s.Node(id); err != nil {
		return ClickEvent{}, err
	}
	click := AdaptClick(payload)
	if err := s.sink.Emit(ctx, id, click); err != nil {
		clicksReceived.WithLabelValues(id, "error").Inc()
		return click, fmt.Errorf("emit click: %w", err)
	}
	clicksReceived.WithLabelValues(id, "emitted").Inc()
	return click, nil
}
