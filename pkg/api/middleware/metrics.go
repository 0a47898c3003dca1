package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// MetricsRecorder is implemented by metrics.Registry.
type MetricsRecorder interface {
	RecordHTTPRequest(method, route, status string, duration time.Duration)
	RecordHTTPResponseSize(method, route string, size int)
	IncHTTPRequestsInFlight()
	DecHTTPRequestsInFlight()
}

// Metrics records request counts, latency and response size. The route label
// is the matched chi route pattern so IDs in URLs do not explode cardinality.
func Metrics(recorder MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if recorder == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			recorder.IncHTTPRequestsInFlight()
			defer recorder.DecHTTPRequestsInFlight()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			recorder.RecordHTTPRequest(r.Method, route, strconv.Itoa(status), time.Since(start))
			recorder.RecordHTTPResponseSize(r.Method, route, ww.BytesWritten())
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
