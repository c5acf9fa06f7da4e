package links

import (
	"context"
	"errors"
	"net/url"
)

var (
	ErrInvalidLinkID    = errors.New("link id must be a positive integer")
	ErrUnknownResource  = errors.New("unknown resource")
	ErrUnknownOperation = errors.New("unknown operation")
)

// Gateway sends authenticated requests to Linkly. *linkly.Client implements it.
type Gateway interface {
	Send(ctx context.Context, method, path string, body map[string]any, query url.Values) (any, error)
	SendAll(ctx context.Context, method, path string, body map[string]any, query url.Values) ([]any, error)
}
