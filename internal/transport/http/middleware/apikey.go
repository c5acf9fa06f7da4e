package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/IgorGrieder/linkly-connector/internal/constants"
	"github.com/IgorGrieder/linkly-connector/pkg/httputils"
)

const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware guards the management API. With no keys configured it
// lets every request through.
func APIKeyMiddleware(allowedKeys []string) func(http.Handler) http.Handler {
	allowed := make([][]byte, 0, len(allowedKeys))
	for _, k := range allowedKeys {
		if k = strings.TrimSpace(k); k != "" {
			allowed = append(allowed, []byte(k))
		}
	}

	if len(allowed) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := []byte(strings.TrimSpace(r.Header.Get(APIKeyHeader)))
			if len(apiKey) == 0 || !keyAllowed(allowed, apiKey) {
				httputils.WriteAPIError(w, r, constants.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func keyAllowed(allowed [][]byte, key []byte) bool {
	for _, k := range allowed {
		if subtle.ConstantTimeCompare(k, key) == 1 {
			return true
		}
	}
	return false
}
