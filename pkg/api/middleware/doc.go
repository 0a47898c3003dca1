// Package middleware provides the HTTP middleware chain of the analytics API.
//
// Every middleware has the standard shape func(http.Handler) http.Handler so
// it can be passed straight to chi's Router.Use:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID())
//	r.Use(middleware.PanicRecovery(logger))
//	r.Use(middleware.Logging(logger))
//	r.Use(middleware.Metrics(registry))
//	r.Use(middleware.BodySizeLimit(10 << 20))
package middleware
