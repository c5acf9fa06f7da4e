package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSMiddleware allows the listed origins, or any origin when the list is
// empty.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type",
			"Accept",
			"X-API-Key",
			"X-Correlation-Id",
			"traceparent",
			"tracestate",
			"baggage",
		},
		ExposedHeaders: []string{"X-Correlation-Id"},
	}
	if len(allowedOrigins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(opts).Handler
}
