package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/metrics"
)

// Metrics records request count and latency labelled by the matched route.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			m.Observe(r.Method, routePattern(r), rec.statusCode(), time.Since(start))
		})
	}
}
