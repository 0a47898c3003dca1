package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dd0wney/cluso-netanalytics/pkg/logging"
)

// PanicRecovery turns a handler panic into a 500. The panic value and stack
// are logged, never sent to the client.
func PanicRecovery(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic in HTTP handler",
					logging.String("method", r.Method),
					logging.String("path", r.URL.Path),
					logging.String("request_id", GetRequestID(r)),
					logging.String("panic", fmt.Sprint(rec)),
					logging.String("stack", string(debug.Stack())),
				)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
