package handler

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/tombola/internal/logger"
)

// Idempotency headers
const (
	HeaderIdempotencyKey    = "Idempotency-Key"
	HeaderIdempotentReplay  = "Idempotent-Replayed"
	DefaultIdempotencyItems = 256
)

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// IdempotencyCache replays the first response for a repeated Idempotency-Key
// within its TTL instead of executing the command again
type IdempotencyCache struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, cachedResponse]
}

// NewIdempotencyCache creates a cache holding at most size responses for ttl
func NewIdempotencyCache(size int, ttl time.Duration) *IdempotencyCache {
	if size <= 0 {
		size = DefaultIdempotencyItems
	}
	return &IdempotencyCache{
		lru: expirable.NewLRU[string, cachedResponse](size, nil, ttl),
	}
}

// Len returns the number of stored responses
func (c *IdempotencyCache) Len() int {
	return c.lru.Len()
}

// Middleware applies the cache to keyed requests. Keyed requests run one at a
// time so a retry racing the original waits for and replays its result.
func (c *IdempotencyCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(HeaderIdempotencyKey)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = r.Method + " " + r.URL.Path + " " + key

		c.mu.Lock()
		defer c.mu.Unlock()

		if cached, ok := c.lru.Get(key); ok {
			logger.FromContext(r.Context()).Debug(LogMsgIdempotentReplay, "path", r.URL.Path)
			if cached.contentType != "" {
				w.Header().Set("Content-Type", cached.contentType)
			}
			w.Header().Set(HeaderIdempotentReplay, "true")
			w.WriteHeader(cached.status)
			_, _ = w.Write(cached.body)
			return
		}

		capture := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(capture, r)

		// Server errors are not cached so the client can retry them
		if capture.status < http.StatusInternalServerError {
			c.lru.Add(key, cachedResponse{
				status:      capture.status,
				contentType: w.Header().Get("Content-Type"),
				body:        capture.body.Bytes(),
			})
		}
	})
}

// captureWriter tees the response body while passing it through
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(p []byte) (int, error) {
	cw.body.Write(p)
	return cw.ResponseWriter.Write(p)
}
