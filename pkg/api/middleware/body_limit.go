package middleware

import (
	"net/http"
)

// BodySizeLimit rejects request bodies larger than maxBytes. Requests that
// declare a larger Content-Length are refused before the handler runs; the
// rest are capped with http.MaxBytesReader.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
