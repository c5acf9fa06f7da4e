package links

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"testing"
)

// --- Hand-written mocks ---

type sentRequest struct {
	method string
	path   string
	body   map[string]any
}

type mockGateway struct {
	sent      []sentRequest
	sendFn    func(method, path string, body map[string]any) (any, error)
	sendAllFn func(method, path string) ([]any, error)
}

func (m *mockGateway) Send(_ context.Context, method, path string, body map[string]any, _ url.Values) (any, error) {
	m.sent = append(m.sent, sentRequest{method: method, path: path, body: body})
	if m.sendFn == nil {
		return map[string]any{}, nil
	}
	return m.sendFn(method, path, body)
}

func (m *mockGateway) SendAll(_ context.Context, method, path string, _ map[string]any, _ url.Values) ([]any, error) {
	m.sent = append(m.sent, sentRequest{method: method, path: path})
	if m.sendAllFn == nil {
		return []any{}, nil
	}
	return m.sendAllFn(method, path)
}

func newTestService() (*Service, *mockGateway) {
	gw := &mockGateway{}
	return NewService(gw), gw
}

// --- RemoveEmptyFields ---

func TestRemoveEmptyFields(t *testing.T) {
	in := map[string]any{
		"url":        "https://example.com",
		"name":       "",
		"note":       nil,
		"enabled":    false,
		"block_bots": true,
		"count":      0,
	}
	got := RemoveEmptyFields(in)
	want := map[string]any{
		"url":        "https://example.com",
		"enabled":    false,
		"block_bots": true,
		"count":      0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RemoveEmptyFields() = %v, want %v", got, want)
	}
}

// --- Service operations ---

func TestCreateStripsEmptyFields(t *testing.T) {
	svc, gw := newTestService()

	_, err := svc.Create(context.Background(), "https://example.com", map[string]any{
		"name":       "Spring sale",
		"utm_source": "",
		"og_title":   nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gw.sent) != 1 {
		t.Fatalf("sent %d requests, want 1", len(gw.sent))
	}
	req := gw.sent[0]
	if req.method != http.MethodPost || req.path != "/zapier/link" {
		t.Errorf("got %s %s, want POST /zapier/link", req.method, req.path)
	}
	want := map[string]any{"url": "https://example.com", "name": "Spring sale"}
	if !reflect.DeepEqual(req.body, want) {
		t.Errorf("body = %v, want %v", req.body, want)
	}
}

func TestCreateAdditionalFieldsOverrideURL(t *testing.T) {
	svc, gw := newTestService()

	_, _ = svc.Create(context.Background(), "https://a.example", map[string]any{"url": "https://b.example"})

	if got := gw.sent[0].body["url"]; got != "https://b.example" {
		t.Errorf("url = %v, want override", got)
	}
}

func TestUpdateCannotClearField(t *testing.T) {
	svc, gw := newTestService()

	_, err := svc.Update(context.Background(), 7, map[string]any{"note": "", "name": "kept"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := gw.sent[0]
	if req.method != http.MethodPut || req.path != "/zapier/link/7" {
		t.Errorf("got %s %s, want PUT /zapier/link/7", req.method, req.path)
	}
	if _, ok := req.body["note"]; ok {
		t.Error("empty note was sent")
	}
}

func TestDeleteReturnsConfirmation(t *testing.T) {
	svc, gw := newTestService()

	got, err := svc.Delete(context.Background(), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"success": true, "deleted": int64(12)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Delete() = %v, want %v", got, want)
	}
	if gw.sent[0].method != http.MethodDelete || gw.sent[0].body != nil {
		t.Errorf("unexpected request %+v", gw.sent[0])
	}
}

func TestInvalidLinkIDNeverCallsGateway(t *testing.T) {
	svc, gw := newTestService()

	if _, err := svc.Get(context.Background(), 0); !errors.Is(err, ErrInvalidLinkID) {
		t.Errorf("Get(0) error = %v, want ErrInvalidLinkID", err)
	}
	if _, err := svc.Delete(context.Background(), -1); !errors.Is(err, ErrInvalidLinkID) {
		t.Errorf("Delete(-1) error = %v, want ErrInvalidLinkID", err)
	}
	if len(gw.sent) != 0 {
		t.Errorf("gateway called %d times, want 0", len(gw.sent))
	}
}

func TestParseLinkID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLinkID(tt.raw)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLinkID(%q) = (%d, %v), want (%d, err=%v)", tt.raw, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestOptions(t *testing.T) {
	svc, gw := newTestService()
	gw.sendAllFn = func(string, string) ([]any, error) {
		return []any{
			map[string]any{"id": int64(1), "name": "Promo", "full_url": "https://l.ink/a"},
			map[string]any{"id": int64(2), "name": "", "full_url": "https://l.ink/b"},
			map[string]any{"id": int64(3)},
			"not-an-object",
		}, nil
	}

	got, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Option{
		{Name: "Promo", Value: int64(1)},
		{Name: "https://l.ink/b", Value: int64(2)},
		{Name: "Link 3", Value: int64(3)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Options() = %v, want %v", got, want)
	}
}
