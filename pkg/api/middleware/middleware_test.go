package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dd0wney/cluso-netanalytics/pkg/logging"
)

func observedLogger() (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.FromZap(zap.New(core), logging.DebugLevel), logs
}

// --- BodySizeLimit ---

func TestBodySizeLimit_AllowsSmallRequest(t *testing.T) {
	handler := BodySizeLimit(1024)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small body")))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "small body", rr.Body.String())
}

func TestBodySizeLimit_RejectsLargeContentLength(t *testing.T) {
	handler := BodySizeLimit(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called for oversized request")
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	req.ContentLength = 1000
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestBodySizeLimit_LimitsActualBody(t *testing.T) {
	var readErr error
	handler := BodySizeLimit(10)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100)))
	req.ContentLength = -1
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Error(t, readErr)
}

// --- PanicRecovery ---

func TestPanicRecovery_RecoversPanic(t *testing.T) {
	logger, logs := observedLogger()
	handler := PanicRecovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/analyze", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "boom")
	entries := logs.FilterMessage("panic in HTTP handler").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
}

func TestPanicRecovery_HandlesNormalRequest(t *testing.T) {
	logger, logs := observedLogger()
	handler := PanicRecovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, logs.Len())
}

// --- RequestID ---

func TestRequestID_GeneratesNew(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, seen, 36)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
}

func TestRequestID_UsesSanitizedClientValue(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"plain", "abc-123", "abc-123"},
		{"strips unsafe characters", "abc<script>\n123", "abcscript123"},
		{"truncates", strings.Repeat("a", 100), strings.Repeat("a", maxRequestIDLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r)
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, tt.header)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestGetRequestID_NoContext(t *testing.T) {
	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil)))
}

// --- Logging ---

func TestLogging_RecordsRequest(t *testing.T) {
	logger, logs := observedLogger()
	handler := RequestID()(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/v1/influence", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/v1/influence", fields["path"])
	assert.EqualValues(t, http.StatusCreated, fields["status"])
	assert.EqualValues(t, 5, fields["bytes"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestLogging_ServerErrorsAtErrorLevel(t *testing.T) {
	logger, logs := observedLogger()
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

// --- SecurityHeaders ---

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

// --- Metrics ---

type recordedRequest struct {
	method, path, status string
	size                 int
}

type mockRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	inFlight int
	peak     int
}

func (m *mockRecorder) RecordHTTPRequest(method, path, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, recordedRequest{method: method, path: path, status: status})
}

func (m *mockRecorder) RecordHTTPResponseSize(method, path string, size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[len(m.requests)-1].size = size
}

func (m *mockRecorder) IncHTTPRequestsInFlight() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight++
	if m.inFlight > m.peak {
		m.peak = m.inFlight
	}
}

func (m *mockRecorder) DecHTTPRequestsInFlight() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	recorder := &mockRecorder{}
	r := chi.NewRouter()
	r.Use(Metrics(recorder))
	r.Get("/v1/owners/{ownerID}/analyze", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/owners/42/analyze", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, recorder.requests, 2)
	assert.Equal(t, recordedRequest{http.MethodGet, "/v1/owners/{ownerID}/analyze", "202", 2}, recorder.requests[0])
	assert.Equal(t, "404", recorder.requests[1].status)
	assert.Equal(t, 0, recorder.inFlight)
	assert.Equal(t, 1, recorder.peak)
}

func TestMetrics_NilRecorder(t *testing.T) {
	handler := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
}
