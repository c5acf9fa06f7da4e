package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/constants"
	"github.com/IgorGrieder/linkly-connector/pkg/httputils"
	"go.uber.org/zap"
)

// WindowCounter counts hits for a key in the current window.
type WindowCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// KeyFunc picks the bucket a request is counted in.
type KeyFunc func(r *http.Request) string

// RateLimitMiddleware rejects requests past limit per window. It fails open
// when the counter is unavailable.
func RateLimitMiddleware(counter WindowCounter, limit int64, keyFn KeyFunc) func(http.Handler) http.Handler {
	if counter == nil || limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if keyFn == nil {
		keyFn = ClientIPKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			ctx, cancel := context.WithTimeout(r.Context(), 200*time.Millisecond)
			defer cancel()

			count, err := counter.Incr(ctx, key)
			if err != nil {
				zap.L().Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if count > limit {
				httputils.WriteAPIError(w, r, constants.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PathValueKey buckets requests by a route wildcard, e.g. the node id.
func PathValueKey(name string) KeyFunc {
	return func(r *http.Request) string {
		if v := r.PathValue(name); v != "" {
			return name + ":" + v
		}
		return ClientIPKey(r)
	}
}

func ClientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return "ip:" + host
	}
	return "ip:unknown"
}
