package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/mazadlive/internal/server/handlers"
	"github.com/iudanet/mazadlive/internal/token"
	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

var testNow = time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func decodeError(t *testing.T, body []byte) string {
	t.Helper()

	var resp pkgapi.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("Requests over limit are denied", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute, discardLogger(), clockwork.NewFakeClockAt(testNow))
		defer limiter.Stop()

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("192.168.1.1"), fmt.Sprintf("request %d should be allowed", i+1))
		}
		assert.False(t, limiter.Allow("192.168.1.1"), "request over limit should be denied")
	})

	t.Run("Different keys are tracked separately", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute, discardLogger(), clockwork.NewFakeClockAt(testNow))
		defer limiter.Stop()

		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))
		assert.True(t, limiter.Allow("b"))
	})

	t.Run("Tokens refill after window", func(t *testing.T) {
		clock := clockwork.NewFakeClockAt(testNow)
		limiter := NewRateLimiter(1, time.Minute, discardLogger(), clock)
		defer limiter.Stop()

		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))

		clock.Advance(time.Minute)
		assert.True(t, limiter.Allow("a"))
	})
}

func TestRateLimiter_CleanupOldBuckets(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	limiter := NewRateLimiter(5, time.Minute, discardLogger(), clock)
	defer limiter.Stop()

	limiter.Allow("old")
	clock.Advance(3 * time.Minute)
	limiter.Allow("fresh")

	limiter.cleanupOldBuckets()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.buckets, "old")
	assert.Contains(t, limiter.buckets, "fresh")
}

func TestRateLimitMiddleware(t *testing.T) {
	var logs bytes.Buffer
	mw, stop := RateLimitMiddleware(
		[]PathRateLimit{{Path: "/api/auth/verify-otp", Rate: 1, Window: time.Minute}},
		2, time.Minute, bufferLogger(&logs), clockwork.NewFakeClockAt(testNow),
	)
	defer stop()
	handler := mw(okHandler())

	request := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// Строгий лимит для verify-otp
	assert.Equal(t, http.StatusOK, request("/api/auth/verify-otp").Code)
	w := request("/api/auth/verify-otp")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, decodeError(t, w.Body.Bytes()), "rate limit exceeded")

	// Остальные пути используют лимит по умолчанию
	assert.Equal(t, http.StatusOK, request("/api/bids/check").Code)
	assert.Equal(t, http.StatusOK, request("/api/bids/check").Code)
	assert.Equal(t, http.StatusTooManyRequests, request("/api/bids/check").Code)

	assert.Contains(t, logs.String(), "Rate limit exceeded")
	assert.Contains(t, logs.String(), "path=/api/auth/verify-otp")
}

func TestRateLimitMiddleware_SameIPDifferentPorts(t *testing.T) {
	mw, stop := RateLimitMiddleware(nil, 1, time.Minute, discardLogger(), clockwork.NewFakeClockAt(testNow))
	defer stop()
	handler := mw(okHandler())

	codes := make([]int, 0, 3)
	for _, addr := range []string{"10.0.0.1:40001", "10.0.0.1:40002", "10.0.0.2:40001"} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// Новое соединение с того же IP не получает новый лимит
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusOK}, codes)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		headers    map[string]string
		name       string
		remoteAddr string
		expected   string
	}{
		{name: "X-Forwarded-For single", headers: map[string]string{"X-Forwarded-For": "203.0.113.1"}, remoteAddr: "10.0.0.1:1", expected: "203.0.113.1"},
		{name: "X-Forwarded-For chain", headers: map[string]string{"X-Forwarded-For": "203.0.113.1, 198.51.100.1"}, remoteAddr: "10.0.0.1:1", expected: "203.0.113.1"},
		{name: "X-Real-IP", headers: map[string]string{"X-Real-IP": "203.0.113.5"}, remoteAddr: "10.0.0.1:1", expected: "203.0.113.5"},
		{name: "RemoteAddr without port", remoteAddr: "10.0.0.1:1", expected: "10.0.0.1"},
		{name: "RemoteAddr IPv6", remoteAddr: "[2001:db8::1]:443", expected: "2001:db8::1"},
		{name: "RemoteAddr unparsable", remoteAddr: "pipe", expected: "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	var logs bytes.Buffer
	handler := RecoveryMiddleware(bufferLogger(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/bids/check", nil)
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() { handler.ServeHTTP(w, req) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeError(t, w.Body.Bytes()))
	assert.NotContains(t, w.Body.String(), "boom")

	assert.Contains(t, logs.String(), "Panic recovered")
	assert.Contains(t, logs.String(), "error=boom")
	assert.Contains(t, logs.String(), "stack=")
}

func TestRecoveryMiddleware_NoPanic(t *testing.T) {
	handler := RecoveryMiddleware(discardLogger())(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("keeps valid client id", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, id)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, id, seen)
		assert.Equal(t, id, w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces invalid client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.NotEqual(t, "<script>", seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
	})

	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantLevel string
		status    int
		wantLog   bool
	}{
		{name: "success", path: "/api/bids/check", status: http.StatusOK, wantLevel: "level=INFO", wantLog: true},
		{name: "client error", path: "/api/bids/check", status: http.StatusBadRequest, wantLevel: "level=WARN", wantLog: true},
		{name: "server error", path: "/api/bids/check", status: http.StatusBadGateway, wantLevel: "level=ERROR", wantLog: true},
		{name: "skipped path", path: "/api/health", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			handler := RequestIDMiddleware(LoggingMiddleware(bufferLogger(&logs), "/api/health")(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("body"))
				})))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			if !tt.wantLog {
				assert.Empty(t, logs.String())
				return
			}
			assert.Contains(t, logs.String(), tt.wantLevel)
			assert.Contains(t, logs.String(), fmt.Sprintf("status=%d", tt.status))
			assert.Contains(t, logs.String(), "bytes_written=4")
			assert.Contains(t, logs.String(), "request_id="+w.Header().Get(RequestIDHeader))
		})
	}
}

func TestStatusRecorder_CapturesStatusAndBytes(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}

	rec.WriteHeader(http.StatusCreated)
	_, err := rec.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.status)
	assert.Equal(t, int64(5), rec.bytes)
	assert.Equal(t, slog.LevelInfo, levelFor(rec.status))
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"https://mazadclick.dz"})(okHandler())

	t.Run("preflight allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/bids/check", nil)
		req.Header.Set("Origin", "https://mazadclick.dz")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "https://mazadclick.dz", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/bids/check", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(exp)},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestBearerMiddleware(t *testing.T) {
	valid := signedToken(t, testNow.Add(time.Hour))
	expired := signedToken(t, testNow.Add(-time.Second))

	tests := []struct {
		name       string
		header     string
		wantToken  string
		wantError  string
		wantStatus int
	}{
		{name: "no header", wantStatus: http.StatusOK},
		{name: "valid jwt", header: "Bearer " + valid, wantStatus: http.StatusOK, wantToken: valid},
		{name: "opaque token", header: "bearer opaque-1", wantStatus: http.StatusOK, wantToken: "opaque-1"},
		{name: "expired jwt", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantError: "unauthorized: token expired"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized, wantError: "unauthorized: invalid token format"},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantError: "unauthorized: invalid token format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			called := false
			handler := BearerMiddleware(discardLogger(), clockwork.NewFakeClockAt(testNow))(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					called = true
					seen, _ = r.Context().Value(handlers.AccessTokenKey).(string)
					w.WriteHeader(http.StatusOK)
				}))

			req := httptest.NewRequest(http.MethodPost, "/api/bids/check", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			assert.Equal(t, tt.wantToken, seen)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, w.Body.Bytes()))
			}
		})
	}
}
