// Package ratelimit implements the sliding-window / token-bucket request
// limiter fronting the HTTP surface, keyed by (client IP, route template)
// instead of the teacher's (gRPC method, metadata) pair. Grounded verbatim
// on pkg/ratelimit/ratelimit.go: the Limiter interface, Config shape, and
// memory/Redis backend selection are unchanged; only the KeyExtractor
// signature is generalized from gRPC metadata to net/http-style headers.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrLimiterClosed     = errors.New("limiter is closed")
)

// Limiter is the request-limiting interface every backend implements.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	AllowN(ctx context.Context, key string, n int) (bool, error)
	Wait(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
	GetInfo(ctx context.Context, key string) (*LimitInfo, error)
	Close() error
}

// LimitInfo is the current state of one limiter key.
type LimitInfo struct {
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	ResetAt    time.Time     `json:"reset_at"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

// Config is a rate limiter's tuning knobs.
type Config struct {
	Requests        int           `koanf:"requests"`
	Window          time.Duration `koanf:"window"`
	Strategy        string        `koanf:"strategy"` // sliding_window, token_bucket
	KeyFunc         string        `koanf:"key_func"` // ip, route, ip_route
	Backend         string        `koanf:"backend"`   // memory, redis
	BurstSize       int           `koanf:"burst_size"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

func DefaultConfig() *Config {
	return &Config{
		Requests:        100,
		Window:          time.Minute,
		Strategy:        "sliding_window",
		KeyFunc:         "ip",
		Backend:         "memory",
		BurstSize:       10,
		CleanupInterval: 5 * time.Minute,
	}
}

// New builds a Limiter from cfg, defaulting to an in-memory backend.
func New(cfg *Config) (Limiter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Backend {
	case "redis":
		return NewRedisLimiter(cfg)
	default:
		return NewMemoryLimiter(cfg), nil
	}
}

// KeyExtractor derives a rate-limit bucket key from one request's client IP
// and matched route template (e.g. "/graphs/{collection}/shortest_path").
type KeyExtractor func(ctx context.Context, route string, headers map[string]string) string

// IPKeyExtractor keys by client IP, preferring a reverse-proxy header.
func IPKeyExtractor(_ context.Context, _ string, headers map[string]string) string {
	if ip, ok := headers["x-forwarded-for"]; ok && ip != "" {
		return ip
	}
	if ip, ok := headers["x-real-ip"]; ok && ip != "" {
		return ip
	}
	return "unknown"
}

// RouteKeyExtractor keys by the matched route template, independent of who
// called it — used for endpoints that need a global cap regardless of caller.
func RouteKeyExtractor(_ context.Context, route string, _ map[string]string) string {
	return route
}

// CompositeKeyExtractor keys by every extractor's result concatenated, e.g.
// IP+route so each client gets its own budget per endpoint.
func CompositeKeyExtractor(extractors ...KeyExtractor) KeyExtractor {
	return func(ctx context.Context, route string, headers map[string]string) string {
		var key string
		for _, ext := range extractors {
			key += ext(ctx, route, headers) + ":"
		}
		return key
	}
}

// RouteLimits holds a per-route override of the default Config, so e.g.
// /graphs/*/best_paths can carry a tighter budget than /health.
type RouteLimits struct {
	mu       sync.RWMutex
	routes   map[string]*Config
	fallback *Config
}

func NewRouteLimits(fallback *Config) *RouteLimits {
	if fallback == nil {
		fallback = DefaultConfig()
	}
	return &RouteLimits{routes: make(map[string]*Config), fallback: fallback}
}

func (r *RouteLimits) Set(route string, cfg *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[route] = cfg
}

func (r *RouteLimits) Get(route string) *Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cfg, ok := r.routes[route]; ok {
		return cfg
	}
	return r.fallback
}
