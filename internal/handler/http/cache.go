package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ultra-news/internal/infra/cache"
)

// cachedResponse is the stored form of a cacheable response.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// cacheRecorder buffers a response so it can be stored after serving.
type cacheRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (c *cacheRecorder) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *cacheRecorder) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

// ResponseCache is middleware that caches successful GET responses for
// a short TTL. The cache is best-effort: any store failure falls
// through to the handler.
type ResponseCache struct {
	Cache  cache.Cache
	TTL    time.Duration
	Logger *slog.Logger
}

// Middleware wraps next with response caching.
func (rc *ResponseCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || rc.Cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := "resp:" + r.URL.RequestURI()
		if raw, err := rc.Cache.Get(r.Context(), key); err == nil {
			var stored cachedResponse
			if err := json.Unmarshal(raw, &stored); err == nil {
				w.Header().Set("Content-Type", stored.ContentType)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(stored.Status)
				if _, err := w.Write(stored.Body); err != nil {
					rc.Logger.Warn("failed to write cached response", slog.Any("error", err))
				}
				return
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			rc.Logger.Warn("cache read failed", slog.String("key", key), slog.Any("error", err))
		}

		rec := &cacheRecorder{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(rec, r)

		if rec.status != http.StatusOK {
			return
		}
		stored := cachedResponse{
			Status:      rec.status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.buf.Bytes(),
		}
		raw, err := json.Marshal(stored)
		if err != nil {
			return
		}
		if err := rc.Cache.Set(r.Context(), key, raw, rc.TTL); err != nil {
			rc.Logger.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	})
}
