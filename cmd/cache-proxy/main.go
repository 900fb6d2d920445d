// Command cache-proxy runs a caching reverse proxy in front of an upstream
// API. Responses are cached per the configured preset and strategy, backed
// by Redis when available and by the in-memory store otherwise.
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/OliYeet/constructtrack-cache/pkg/cache"
	"github.com/OliYeet/constructtrack-cache/pkg/logging"
	"github.com/OliYeet/constructtrack-cache/pkg/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type config struct {
	ListenAddr  string
	RedisAddr   string
	UpstreamURL string
	LogLevel    string
	LogPretty   bool
	Preset      string
	Strategy    string
}

func main() {
	cfg := loadConfig()

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: logging.DefaultConfig().Output,
	})

	upstream, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		logger.Fatal().Err(err).Str("upstream", cfg.UpstreamURL).Msg("Invalid upstream URL")
	}

	store := buildStore(cfg, logger)
	manager := cache.NewManager(store)

	executor, err := middleware.NewPreset(manager, cache.Preset(cfg.Preset), middleware.Strategy(cfg.Strategy))
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid cache configuration")
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", requestID(executor.Wrap(proxy), logger))

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().
		Str("addr", cfg.ListenAddr).
		Str("upstream", cfg.UpstreamURL).
		Str("preset", cfg.Preset).
		Str("strategy", cfg.Strategy).
		Msg("Starting cache proxy")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// loadConfig reads configuration from environment variables (prefix
// CACHE_PROXY_) and an optional cache-proxy.yaml in the working directory.
func loadConfig() config {
	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("redis_addr", "")
	v.SetDefault("upstream_url", "http://localhost:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("preset", string(cache.PresetMedium))
	v.SetDefault("strategy", string(middleware.StrategyStaleWhileRevalidate))

	v.SetEnvPrefix("CACHE_PROXY")
	v.AutomaticEnv()

	v.SetConfigName("cache-proxy")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // config file is optional

	return config{
		ListenAddr:  v.GetString("listen_addr"),
		RedisAddr:   v.GetString("redis_addr"),
		UpstreamURL: v.GetString("upstream_url"),
		LogLevel:    v.GetString("log_level"),
		LogPretty:   v.GetBool("log_pretty"),
		Preset:      v.GetString("preset"),
		Strategy:    v.GetString("strategy"),
	}
}

// buildStore selects the cache backend: Redis when configured and
// reachable, the in-memory reference store otherwise.
func buildStore(cfg config, logger zerolog.Logger) cache.Store {
	if cfg.RedisAddr == "" {
		logger.Info().Msg("Using in-memory cache store")
		return cache.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, falling back to in-memory store")
		return cache.NewMemoryStore()
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis cache store")
	return cache.NewRedisStore(client)
}

// requestID tags every request with an ID and logs its completion.
func requestID(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r)

		logger.Debug().
			Str("request_id", id).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}
