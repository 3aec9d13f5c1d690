package middleware

import (
	"net/http"
	"strconv"

	"github.com/mcoot/battleship-go/internal/metrics"
	"github.com/mcoot/battleship-go/internal/middleware"
)

// Metrics counts API requests by method and status code
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := middleware.NewResponseWriter(w)
			next.ServeHTTP(wrapped, r)
			m.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(wrapped.Status())).Inc()
		})
	}
}
