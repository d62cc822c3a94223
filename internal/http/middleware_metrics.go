package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopmill/admin-api/internal/observability/statsd"
)

// Metrics returns a middleware emitting per-request StatsD metrics. A nil
// sink short-circuits to the bare handler, so callers can wire it
// unconditionally.
func Metrics(sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)

			tags := map[string]string{
				"method": r.Method,
				"status": strconv.Itoa(ww.status),
			}
			sink.Count("http.request", 1, tags)
			sink.Timing("http.request_duration", time.Since(start), tags)
		})
	}
}
