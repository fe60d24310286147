// Package httpapi implements the external HTTP interface of spec.md §6: a
// read-oriented JSON API over the Graph Store Adapter, Path Engine, RPO
// Selector, Load Updater, Algo Filter, uSID Synthesizer, and VPN grammar.
// Grounded on services/gateway-svc/cmd/main.go's mux/health/ready/CORS/
// graceful-shutdown skeleton, with the ConnectRPC/h2c wrapping dropped:
// this surface is plain JSON over net/http, so a bare http.Server suffices.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"jalapeno/internal/audit"
	"jalapeno/internal/config"
	"jalapeno/internal/graphstore"
	"jalapeno/internal/ratelimit"
	"jalapeno/internal/report"
)

// Server bundles every dependency a handler needs. It carries no state of
// its own beyond these references — all mutable state lives in the Store,
// the rate limiter, and the audit logger.
type Server struct {
	Store       graphstore.Store
	Config      *config.Config
	Limiter     ratelimit.Limiter
	RouteLimits *ratelimit.RouteLimits
	Audit       audit.Logger
	Reports     map[report.Format]report.Generator
}

// NewServer wires the generator factory once at startup, per format.
func NewServer(store graphstore.Store, cfg *config.Config, limiter ratelimit.Limiter, limits *ratelimit.RouteLimits, auditLogger audit.Logger) *Server {
	gens := make(map[report.Format]report.Generator)
	for _, f := range []report.Format{report.FormatCSV, report.FormatXLSX, report.FormatPDF} {
		if g, err := report.NewGenerator(f); err == nil {
			gens[f] = g
		}
	}
	return &Server{
		Store:       store,
		Config:      cfg,
		Limiter:     limiter,
		RouteLimits: limits,
		Audit:       auditLogger,
		Reports:     gens,
	}
}

// Handler assembles the full net/http.ServeMux, CORS-wrapped, per
// SPEC_FULL.md §6.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, s)

	var handler http.Handler = mux
	if s.Config.HTTP.CORS.Enabled {
		handler = CORS(s.Config.HTTP.CORS)(handler)
	}
	return handler
}

// NewHTTPServer builds the *http.Server the entrypoint listens with,
// ReadTimeout/WriteTimeout sourced from config the way gateway-svc's
// cmd/main.go does.
func NewHTTPServer(addr string, cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// Shutdown gracefully drains in-flight requests, bounded by cfg's shutdown
// timeout.
func Shutdown(ctx context.Context, server *http.Server, timeout time.Duration) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
