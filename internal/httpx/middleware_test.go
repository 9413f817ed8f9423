package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("wildcard origin", func(t *testing.T) {
		handler := CORSMiddleware([]string{"*"})(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Origin", "https://anywhere.example")

		handler.ServeHTTP(w, r)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("exact origin match", func(t *testing.T) {
		handler := CORSMiddleware([]string{"https://library.example"})(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Origin", "https://library.example")

		handler.ServeHTTP(w, r)

		assert.Equal(t, "https://library.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("advertises only served methods", func(t *testing.T) {
		handler := CORSMiddleware([]string{"*"})(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodOptions, "/v1/books", nil)
		r.Header.Set("Origin", "https://anywhere.example")

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		methods := w.Header().Get("Access-Control-Allow-Methods")
		assert.Equal(t, "GET, POST, OPTIONS", methods)
		assert.NotContains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("unlisted origin gets nothing", func(t *testing.T) {
		handler := CORSMiddleware([]string{"https://library.example"})(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Origin", "https://evil.example")

		handler.ServeHTTP(w, r)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Run("valid caller id kept", func(t *testing.T) {
		callerID := uuid.New().String()
		handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, callerID, RequestIDFrom(r))
		}))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set(requestIDHeader, callerID)

		handler.ServeHTTP(w, r)

		assert.Equal(t, callerID, w.Header().Get(requestIDHeader))
	})

	t.Run("garbage caller id replaced", func(t *testing.T) {
		handler := RequestIDMiddleware(okHandler())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set(requestIDHeader, "<script>alert(1)</script>")

		handler.ServeHTTP(w, r)

		echoed := w.Header().Get(requestIDHeader)
		_, err := uuid.Parse(echoed)
		assert.NoError(t, err)
	})
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	handler := RequestSizeLimitMiddleware(16)(okHandler())

	t.Run("oversized body rejected with envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(strings.Repeat("x", 64)))

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("small body passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader("{}"))

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("burst exhausted returns 429", func(t *testing.T) {
		handler := NewRateLimitMiddleware(1, 2).Middleware(okHandler())

		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			last = httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
			r.RemoteAddr = "10.0.0.1:1234"
			handler.ServeHTTP(last, r)
		}

		assert.Equal(t, http.StatusTooManyRequests, last.Code)
		assert.Contains(t, last.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("clients keyed by ip not port", func(t *testing.T) {
		rl := NewRateLimitMiddleware(1, 1)
		handler := rl.Middleware(okHandler())

		first := httptest.NewRecorder()
		r1 := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r1.RemoteAddr = "10.0.0.2:1111"
		handler.ServeHTTP(first, r1)

		second := httptest.NewRecorder()
		r2 := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r2.RemoteAddr = "10.0.0.2:2222"
		handler.ServeHTTP(second, r2)

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
	})

	t.Run("forwarded header uses first hop", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		assert.Equal(t, "203.0.113.9", clientKey(r))
	})

	t.Run("non-positive config clamped", func(t *testing.T) {
		rl := NewRateLimitMiddleware(0, 0)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.RemoteAddr = "10.0.0.3:3333"
		rl.Middleware(okHandler()).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
