package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Requests <= 0 {
		t.Error("Requests should be positive")
	}
	if cfg.Window <= 0 {
		t.Error("Window should be positive")
	}
	if cfg.Strategy == "" {
		t.Error("Strategy should not be empty")
	}
}

func TestMemoryLimiter_Allow(t *testing.T) {
	cfg := &Config{Requests: 5, Window: time.Second, Strategy: "sliding_window", CleanupInterval: time.Minute}
	limiter := NewMemoryLimiter(cfg)
	defer limiter.Close()

	ctx := context.Background()
	key := "test-key"

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, key)
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !allowed {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	allowed, err := limiter.Allow(ctx, key)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if allowed {
		t.Error("6th request should be denied")
	}
}

func TestMemoryLimiter_Reset(t *testing.T) {
	cfg := &Config{Requests: 2, Window: time.Second, Strategy: "sliding_window", CleanupInterval: time.Minute}
	limiter := NewMemoryLimiter(cfg)
	defer limiter.Close()

	ctx := context.Background()
	key := "test-key"

	limiter.Allow(ctx, key)
	limiter.Allow(ctx, key)

	if allowed, _ := limiter.Allow(ctx, key); allowed {
		t.Error("should be rate limited")
	}

	limiter.Reset(ctx, key)

	if allowed, _ := limiter.Allow(ctx, key); !allowed {
		t.Error("should be allowed after reset")
	}
}

func TestMemoryLimiter_Close(t *testing.T) {
	limiter := NewMemoryLimiter(nil)

	if err := limiter.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := limiter.Close(); err != nil {
		t.Errorf("double Close() error = %v", err)
	}

	ctx := context.Background()
	if _, err := limiter.Allow(ctx, "key"); err != ErrLimiterClosed {
		t.Errorf("Allow after close should return ErrLimiterClosed, got %v", err)
	}
}

func TestKeyExtractors(t *testing.T) {
	ctx := context.Background()
	route := "/graphs/{collection}/shortest_path"

	t.Run("IPKeyExtractor with x-forwarded-for", func(t *testing.T) {
		headers := map[string]string{"x-forwarded-for": "192.168.1.1"}
		if key := IPKeyExtractor(ctx, route, headers); key != "192.168.1.1" {
			t.Errorf("key = %v, want 192.168.1.1", key)
		}
	})

	t.Run("IPKeyExtractor fallback", func(t *testing.T) {
		if key := IPKeyExtractor(ctx, route, map[string]string{}); key != "unknown" {
			t.Errorf("key = %v, want unknown", key)
		}
	})

	t.Run("RouteKeyExtractor", func(t *testing.T) {
		if key := RouteKeyExtractor(ctx, route, nil); key != route {
			t.Errorf("key = %v, want %v", key, route)
		}
	})

	t.Run("CompositeKeyExtractor", func(t *testing.T) {
		extractor := CompositeKeyExtractor(RouteKeyExtractor, IPKeyExtractor)
		headers := map[string]string{"x-real-ip": "1.2.3.4"}
		key := extractor(ctx, route, headers)
		expected := route + ":1.2.3.4:"
		if key != expected {
			t.Errorf("key = %v, want %v", key, expected)
		}
	})
}

func TestRouteLimits(t *testing.T) {
	limits := NewRouteLimits(&Config{Requests: 100})

	if cfg := limits.Get("/unknown"); cfg.Requests != 100 {
		t.Errorf("fallback Requests = %d, want 100", cfg.Requests)
	}

	limits.Set("/graphs/{collection}/best_paths", &Config{Requests: 10})
	if cfg := limits.Get("/graphs/{collection}/best_paths"); cfg.Requests != 10 {
		t.Errorf("override Requests = %d, want 10", cfg.Requests)
	}
}
