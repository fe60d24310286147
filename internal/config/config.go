// Package config loads the process configuration from defaults, an optional
// YAML file, and environment variables, in that priority order.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration struct, unmarshaled from koanf.
type Config struct {
	App        AppConfig        `koanf:"app"`
	HTTP       HTTPConfig       `koanf:"http"`
	Log        LogConfig        `koanf:"log"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Tracing    TracingConfig    `koanf:"tracing"`
	Database   DatabaseConfig   `koanf:"database"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	Audit      AuditConfig      `koanf:"audit"`
	LoadUpdate LoadUpdateConfig `koanf:"load_update"`
	Report     ReportConfig     `koanf:"report"`
}

// AppConfig carries process identity, not domain behavior.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	Debug       bool   `koanf:"debug"`
}

// HTTPConfig configures the JSON API listener.
type HTTPConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORS            CORSConfig    `koanf:"cors"`
}

// CORSConfig configures the permissive cross-origin policy the gateway ships
// with by default.
type CORSConfig struct {
	Enabled          bool     `koanf:"enabled"`
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

// LogConfig configures internal/logger.
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Output     string `koanf:"output"`
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"`
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// TracingConfig configures OpenTelemetry OTLP export.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// DatabaseConfig configures the pgx pool backing the Graph Store Adapter.
// The field names intentionally match the flat JALAPENO_* env vars named in
// spec.md §6 (Server/Name/Username/Password), overriding koanf's usual
// dotted-nesting convention — see loadEnv in loader.go.
type DatabaseConfig struct {
	Server          string        `koanf:"server"` // host:port
	Name            string        `koanf:"name"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxConns        int32         `koanf:"max_conns"`
	MinConns        int32         `koanf:"min_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// DSN builds the libpq connection string pgx parses.
func (d DatabaseConfig) DSN() string {
	host, port := d.Server, "5432"
	if idx := strings.LastIndex(d.Server, ":"); idx >= 0 {
		host, port = d.Server[:idx], d.Server[idx+1:]
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, d.Username, d.Password, d.Name, d.SSLMode,
	)
}

// RateLimitConfig configures the HTTP-surface sliding-window limiter.
type RateLimitConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Requests        int           `koanf:"requests"`
	Window          time.Duration `koanf:"window"`
	Backend         string        `koanf:"backend"` // memory, redis
	RedisAddr       string        `koanf:"redis_addr"`
	BurstSize       int           `koanf:"burst_size"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// AuditConfig configures the audit trail of mutating operations (load
// updates, RPO selections).
type AuditConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Backend    string `koanf:"backend"` // stdout, file
	FilePath   string `koanf:"file_path"`
	BufferSize int    `koanf:"buffer_size"`
}

// LoadUpdateConfig resolves spec.md §9's load_increment Open Question: the
// increment is a process-wide config value, not a request parameter.
type LoadUpdateConfig struct {
	DefaultIncrement int64 `koanf:"default_increment"`
}

// ReportConfig configures the XLSX/PDF/CSV export feature.
type ReportConfig struct {
	DefaultCompanyName string    `koanf:"default_company_name"`
	MaxEdgesInTable    int       `koanf:"max_edges_in_table"`
	PDF                PDFConfig `koanf:"pdf"`
}

// PDFConfig configures the maroto-based PDF renderer.
type PDFConfig struct {
	PageSize    string  `koanf:"page_size"`
	Orientation string  `koanf:"orientation"`
	FontFamily  string  `koanf:"font_family"`
	FontSize    float64 `koanf:"font_size"`
}

// Validate checks invariants Load cannot express as plain defaults.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if c.Database.Server == "" {
		errs = append(errs, "database server is required (JALAPENO_DATABASE_SERVER)")
	}
	if c.Database.Name == "" {
		errs = append(errs, "database name is required (JALAPENO_DATABASE_NAME)")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of debug, info, warn, error; got %s", c.Log.Level))
	}

	if c.LoadUpdate.DefaultIncrement <= 0 {
		errs = append(errs, "load_update.default_increment must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}
