package links

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/IgorGrieder/linkly-connector/internal/linkly"
)

type Service struct {
	gw Gateway
}

func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

// Create posts a new link. additional is merged over {url} and may override
// it; empty values are dropped before sending.
func (s *Service) Create(ctx context.Context, url string, additional map[string]any) (any, error) {
	body := map[string]any{"url": url}
	for k, v := range additional {
		body[k] = v
	}
	return s.gw.Send(ctx, http.MethodPost, "/zapier/link", RemoveEmptyFields(body), nil)
}

func (s *Service) Get(ctx context.Context, id int64) (any, error) {
	path, err := linkPath(id)
	if err != nil {
		return nil, err
	}
	return s.gw.Send(ctx, http.MethodGet, path, nil, nil)
}

// GetAll returns the first page of workspace links.
func (s *Service) GetAll(ctx context.Context) ([]any, error) {
	return s.gw.SendAll(ctx, http.MethodGet, "/zapier/link", nil, nil)
}

// Update sends only the non-empty fields, so a field cannot be cleared by
// setting it to "".
func (s *Service) Update(ctx context.Context, id int64, fields map[string]any) (any, error) {
	path, err := linkPath(id)
	if err != nil {
		return nil, err
	}
	return s.gw.Send(ctx, http.MethodPut, path, RemoveEmptyFields(fields), nil)
}

func (s *Service) Delete(ctx context.Context, id int64) (map[string]any, error) {
	path, err := linkPath(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.gw.Send(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "deleted": id}, nil
}

// Options lists links as name/value pairs. The name falls back from the
// nickname to the full short URL to "Link <id>".
func (s *Service) Options(ctx context.Context) ([]Option, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(all))
	for _, item := range all {
		link, ok := linkly.AsObject(item)
		if !ok {
			continue
		}
		name := stringField(link, "name")
		if name == "" {
			name = stringField(link, "full_url")
		}
		if name == "" {
			name = "Link " + linkly.FormatID(link["id"])
		}
		out = append(out, Option{Name: name, Value: link["id"]})
	}
	return out, nil
}

// RemoveEmptyFields drops "" and nil values. false and 0 are kept.
func RemoveEmptyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// ParseLinkID parses a path or flag value into a link id.
func ParseLinkID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidLinkID
	}
	return id, nil
}

func linkPath(id int64) (string, error) {
	if id <= 0 {
		return "", ErrInvalidLinkID
	}
	return fmt.Sprintf("/zapier/link/%d", id), nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
