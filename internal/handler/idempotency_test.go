package handler

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func countingHandler(calls *atomic.Int32, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		respondJSON(w, status, map[string]int32{"call": n})
	})
}

func post(h http.Handler, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestIdempotencyCache_ReplaysSameKey(t *testing.T) {
	var calls atomic.Int32
	cache := NewIdempotencyCache(10, time.Minute)
	h := cache.Middleware(countingHandler(&calls, http.StatusAccepted))

	first := post(h, "/draw", "abc")
	second := post(h, "/draw", "abc")

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusAccepted, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(HeaderIdempotentReplay))
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Empty(t, first.Header().Get(HeaderIdempotentReplay))
}

func TestIdempotencyCache_KeysAreScopedByPath(t *testing.T) {
	var calls atomic.Int32
	h := NewIdempotencyCache(10, time.Minute).Middleware(countingHandler(&calls, http.StatusOK))

	post(h, "/draw", "abc")
	post(h, "/reset", "abc")
	post(h, "/draw", "other")

	assert.Equal(t, int32(3), calls.Load())
}

func TestIdempotencyCache_NoKeyPassesThrough(t *testing.T) {
	var calls atomic.Int32
	cache := NewIdempotencyCache(10, time.Minute)
	h := cache.Middleware(countingHandler(&calls, http.StatusOK))

	post(h, "/draw", "")
	post(h, "/draw", "")

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, cache.Len())
}

func TestIdempotencyCache_ServerErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	h := NewIdempotencyCache(10, time.Minute).Middleware(countingHandler(&calls, http.StatusServiceUnavailable))

	post(h, "/reset", "abc")
	post(h, "/reset", "abc")

	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotencyCache_Expires(t *testing.T) {
	var calls atomic.Int32
	h := NewIdempotencyCache(10, 20*time.Millisecond).Middleware(countingHandler(&calls, http.StatusOK))

	post(h, "/draw", "abc")
	assert.Eventually(t, func() bool {
		post(h, "/draw", "abc")
		return calls.Load() >= 2
	}, time.Second, 10*time.Millisecond)
}
