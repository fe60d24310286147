package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"jalapeno/internal/apperror"
	"jalapeno/internal/config"
	"jalapeno/internal/logger"
	"jalapeno/internal/metrics"
	"jalapeno/internal/ratelimit"
	"jalapeno/internal/telemetry"
)

// statusRecorder captures the status code a handler writes, mirroring
// internal/telemetry's recorder so logging/metrics never need a second
// response wrapper on the same request.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestIDKey is the context key carrying this request's identifier.
type contextKey string

const requestIDKey contextKey = "request_id"

// GenerateRequestID mints a v4 UUID for request correlation. The gateway
// this is grounded on derives request ids from crypto/rand+hex directly;
// this rewrite uses google/uuid instead.
func GenerateRequestID() string {
	return uuid.NewString()
}

func RequestIDFromContext(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestID assigns (or propagates) a request id and stamps it on the
// response so a client can correlate retries with server-side logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = GenerateRequestID()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := logger.IntoContext(r.Context(), logger.WithRequestID(id))
		ctx = context.WithValue(ctx, requestIDKey, id)
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}

// Logging writes one structured line per request: route, status, duration,
// and request id. Grounded on services/gateway-svc/internal/middleware/
// logging.go's LoggingInterceptor, translated from a gRPC interceptor
// (method/code) to an http.Handler wrapper (route/status); the "user_id"
// field the teacher logs has no counterpart here — this API has no
// authenticated-caller concept.
func Logging(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			log := logger.FromContext(r.Context())
			log.Info("http request",
				"route", route,
				"method", r.Method,
				"status", rec.status,
				"duration_ms", duration.Milliseconds(),
				"request_id", RequestIDFromContext(r),
			)
			if metrics.Get() != nil {
				metrics.Get().RecordHTTPRequest(route, strconv.Itoa(rec.status), duration)
			}
		})
	}
}

// Recovery turns a panicking handler into a 500 response instead of
// crashing the listener goroutine, logging the recovered value.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(r.Context()).Error("panic recovered", "error", rec, "route", r.URL.Path)
				WriteError(w, apperror.New(apperror.KindInternal, "internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Tracing wraps next with internal/telemetry's HTTP server span, a no-op
// when tracing was never initialized.
func Tracing(route string, next http.Handler) http.Handler {
	return telemetry.HTTPServerMiddleware(route, next)
}

// CORS is a near-verbatim port of services/gateway-svc/internal/middleware/
// cors.go, with the ConnectRPC-only headers (X-Grpc-Web, Grpc-Timeout,
// Grpc-Metadata-*) dropped from the wildcard expansion since this surface
// is plain JSON, and ExposedHeaders removed (the teacher's CORSConfig has
// one; ours does not carry response-exposed headers worth naming yet).
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	allowedHeaders := prepareAllowedHeaders(cfg.AllowedHeaders)
	allowedMethods := strings.Join(cfg.AllowedMethods, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowedOrigin := ""
			for _, o := range cfg.AllowedOrigins {
				if o == "*" {
					allowedOrigin = "*"
					break
				}
				if o == origin {
					allowedOrigin = origin
					break
				}
			}

			if allowedOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			}
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func prepareAllowedHeaders(headers []string) string {
	for _, h := range headers {
		if h == "*" {
			return strings.Join([]string{
				"Accept", "Accept-Language", "Content-Language", "Content-Type",
				"Authorization", "Origin", "X-Requested-With", "X-Request-Id",
			}, ", ")
		}
	}
	hasAuth := false
	for _, h := range headers {
		if strings.EqualFold(h, "Authorization") {
			hasAuth = true
			break
		}
	}
	if !hasAuth {
		headers = append(headers, "Authorization")
	}
	return strings.Join(headers, ", ")
}

// RateLimit is grounded on services/gateway-svc/internal/middleware/
// ratelimit.go's RateLimitInterceptor: same fail-open-on-limiter-error
// policy, same x-ratelimit-* response headers, same 429-with-Retry-After on
// rejection. The teacher derives a "category" from the RPC method name via
// keyword matching (MethodCategoryExtractor) because ConnectRPC exposes no
// richer identity per call; this rewrite has real path templates, so the
// route template itself is the category, looked up directly in
// RouteLimits instead of being inferred.
func RateLimit(limiter ratelimit.Limiter, limits *ratelimit.RouteLimits, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			headers := map[string]string{
				"x-forwarded-for": r.Header.Get("X-Forwarded-For"),
				"x-real-ip":       r.Header.Get("X-Real-Ip"),
			}
			key := ratelimit.IPKeyExtractor(r.Context(), route, headers) + ":" + route

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				// Fail open: a limiter outage must never block legitimate
				// traffic, matching the teacher interceptor's behavior.
				logger.FromContext(r.Context()).Warn("rate limiter error, allowing request", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			cfg := limits.Get(route)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))

			if !allowed {
				info, infoErr := limiter.GetInfo(r.Context(), key)
				if infoErr == nil && info != nil {
					w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
					w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))
					if info.RetryAfter > 0 {
						w.Header().Set("Retry-After", fmt.Sprintf("%.0f", info.RetryAfter.Seconds()))
					}
				}
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"detail": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Chain wires the standard middleware stack (innermost first: recovery,
// tracing, logging, rate limit, request id) around a route's handler.
func Chain(route string, h http.Handler, limiter ratelimit.Limiter, limits *ratelimit.RouteLimits) http.Handler {
	wrapped := Recovery(h)
	wrapped = Tracing(route, wrapped)
	wrapped = Logging(route)(wrapped)
	wrapped = RateLimit(limiter, limits, route)(wrapped)
	wrapped = RequestID(wrapped)
	return wrapped
}
