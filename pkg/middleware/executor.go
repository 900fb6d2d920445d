// Package middleware provides the caching middleware that wraps an origin
// http.Handler and decides, per request, whether to serve from cache,
// revalidate in the background, or call through to the origin.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/OliYeet/constructtrack-cache/pkg/cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Executor applies a (CacheConfig, Strategy) pair to an origin handler.
// Strategy selection is per-route configuration, not global state.
type Executor struct {
	manager  *cache.Manager
	config   cache.CacheConfig
	strategy Strategy
	logger   zerolog.Logger
}

// New creates an executor for the given manager, config, and strategy.
func New(manager *cache.Manager, cfg cache.CacheConfig, strategy Strategy) (*Executor, error) {
	if manager == nil {
		return nil, fmt.Errorf("cache manager is required")
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	if strategy != StrategyNoCache && strategy != StrategyNetworkOnly {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return &Executor{
		manager:  manager,
		config:   cfg,
		strategy: strategy,
		logger:   log.With().Str("component", "cache-middleware").Logger(),
	}, nil
}

// NewPreset creates an executor from a named configuration preset.
func NewPreset(manager *cache.Manager, preset cache.Preset, strategy Strategy) (*Executor, error) {
	cfg, err := preset.Config()
	if err != nil {
		return nil, err
	}
	return New(manager, cfg, strategy)
}

// Wrap returns a handler that applies the caching decision procedure
// before delegating to next.
func (e *Executor) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.serve(w, r, next)
	})
}

// serve runs the per-request decision procedure.
func (e *Executor) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	// Caching is GET-only. Mutation endpoints must never be served from
	// cache, so anything else bypasses the engine entirely.
	if r.Method != http.MethodGet || e.strategy == StrategyNoCache || e.strategy == StrategyNetworkOnly {
		next.ServeHTTP(w, r)
		return
	}

	ctx := r.Context()
	key := e.cacheKey(r)

	entry, err := e.manager.Get(ctx, key)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		// Fail-open: a broken store must not fail the request.
		e.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, falling back to origin")
		entry = nil
	}

	// Conditional short-circuit applies regardless of strategy: the client
	// already holds a valid representation.
	if entry != nil && entry.ETag != "" && r.Header.Get(cache.HeaderIfNoneMatch) == entry.ETag {
		cache.NotModifiedResponses.Inc()
		e.logger.Debug().Str("key", key).Str("etag", entry.ETag).Msg("Conditional request matched, returning 304")
		w.Header().Set(cache.HeaderETag, entry.ETag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if entry != nil {
		stale := e.manager.IsStale(entry, e.config.StaleWhileRevalidate)

		switch e.strategy {
		case StrategyCacheFirst:
			if !stale {
				e.writeCached(w, key, entry, false)
				return
			}
			// Stale entry falls through to the origin.

		case StrategyStaleWhileRevalidate:
			if stale && e.config.RevalidateOnStale {
				e.writeCached(w, key, entry, true)
				e.revalidate(r, next, key)
				return
			}
			e.writeCached(w, key, entry, stale)
			return

		case StrategyCacheOnly:
			e.writeCached(w, key, entry, stale)
			return

		case StrategyNetworkFirst:
			// Always goes to the origin; the entry only served the
			// conditional check above.
		}
	}

	if e.strategy == StrategyCacheOnly {
		e.writeCacheOnlyMiss(w, key)
		return
	}

	e.callOrigin(w, r, next, key)
}

// callOrigin invokes the origin handler, writes a successful 200 response
// back into the store, and forwards the (possibly header-augmented)
// response to the client.
func (e *Executor) callOrigin(w http.ResponseWriter, r *http.Request, next http.Handler, key string) {
	rec := newRecorder()
	next.ServeHTTP(rec, r)

	copyHeader(w.Header(), rec.header)

	if rec.status == http.StatusOK {
		body := rec.body.Bytes()
		entry, err := e.manager.Set(r.Context(), key, body, e.config, cacheableHeaders(rec.header))
		if err != nil {
			// Fail-open: the origin response still goes out.
			e.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		} else {
			e.logger.Debug().
				Str("key", key).
				Dur("ttl", e.config.TTL).
				Msg("Cached origin response")
			w.Header().Set(cache.HeaderETag, entry.ETag)
			w.Header().Set(cache.HeaderCacheControl, e.manager.CacheControlHeader(entry, false))
		}
		w.Header().Set(cache.HeaderXCache, cache.CacheMiss)
	}

	w.WriteHeader(rec.status)
	if _, err := w.Write(rec.body.Bytes()); err != nil {
		e.logger.Debug().Err(err).Str("key", key).Msg("Failed to write origin response")
	}
}

// revalidate schedules a detached background refresh of the entry under
// key. The task is fire-and-forget with respect to the current request:
// its failure is logged and never affects the response already sent, and
// the request's cancellation does not propagate into it. Concurrent
// requests observing the same stale entry each schedule their own refresh;
// there is no in-flight deduplication.
func (e *Executor) revalidate(r *http.Request, next http.Handler, key string) {
	ctx := context.WithoutCancel(r.Context())
	req := r.Clone(ctx)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				cache.Revalidations.WithLabelValues("failure").Inc()
				e.logger.Error().Interface("panic", rec).Str("key", key).Msg("Background revalidation panicked")
			}
		}()

		rec := newRecorder()
		next.ServeHTTP(rec, req)

		if rec.status != http.StatusOK {
			cache.Revalidations.WithLabelValues("failure").Inc()
			e.logger.Warn().
				Int("status", rec.status).
				Str("key", key).
				Msg("Background revalidation returned non-200, keeping stale entry")
			return
		}

		if _, err := e.manager.Set(ctx, key, rec.body.Bytes(), e.config, cacheableHeaders(rec.header)); err != nil {
			cache.Revalidations.WithLabelValues("failure").Inc()
			e.logger.Warn().Err(err).Str("key", key).Msg("Background revalidation cache write failed")
			return
		}

		cache.Revalidations.WithLabelValues("success").Inc()
		e.logger.Debug().Str("key", key).Msg("Background revalidation refreshed entry")
	}()
}

// writeCached materializes a stored entry onto the response writer.
func (e *Executor) writeCached(w http.ResponseWriter, key string, entry *cache.CacheEntry, stale bool) {
	if stale {
		cache.StaleServes.Inc()
	}
	if err := e.manager.WriteCachedResponse(w, entry, stale); err != nil {
		e.logger.Debug().Err(err).Str("key", key).Msg("Failed to write cached response")
	}
}

// writeCacheOnlyMiss emits the deliberate error response for a cache-only
// miss. The origin is never called.
func (e *Executor) writeCacheOnlyMiss(w http.ResponseWriter, key string) {
	e.logger.Debug().Str("key", key).Msg("Cache-only miss")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusGatewayTimeout)
	_, _ = w.Write([]byte(`{"error":"not found in cache"}`))
}

// cacheKey computes the canonical key for the request, appending scope
// suffixes for private and organization-tagged configs when the request
// context carries them.
func (e *Executor) cacheKey(r *http.Request) string {
	var scopes []string
	if e.config.Private {
		if id, ok := SubjectFrom(r.Context()); ok {
			scopes = append(scopes, cache.SubjectScope(id))
		}
	}
	if e.config.HasTag(cache.OrganizationTag) {
		if id, ok := OrganizationFrom(r.Context()); ok {
			scopes = append(scopes, cache.OrganizationScope(id))
		}
	}
	return e.manager.GenerateKey(r, scopes...)
}

// recorder buffers an origin response so the executor can both inspect
// and forward the body.
type recorder struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newRecorder() *recorder {
	return &recorder{
		header: make(http.Header),
		status: http.StatusOK,
	}
}

func (r *recorder) Header() http.Header {
	return r.header
}

func (r *recorder) Write(p []byte) (int, error) {
	return r.body.Write(p)
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
}

// uncacheableHeaders are hop-by-hop headers plus headers the cache layer
// computes itself; they are never stored for replay. Keys are in
// canonical form.
var uncacheableHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
	"Set-Cookie":          {},
	"Content-Length":      {},
	"Date":                {},
	"Etag":                {},
	"Cache-Control":       {},
	"X-Cache":             {},
	"X-Cache-Timestamp":   {},
}

// cacheableHeaders filters origin response headers down to the set stored
// for verbatim replay on cache hits.
func cacheableHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name := range h {
		if _, skip := uncacheableHeaders[http.CanonicalHeaderKey(name)]; skip {
			continue
		}
		out[name] = h.Get(name)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// copyHeader copies all values from src into dst.
func copyHeader(dst, src http.Header) {
	for name, values := range src {
		for _, value := range values {
			dst.Add(name, value)
		}
	}
}
