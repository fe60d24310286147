package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "JALAPENO_"
	configEnvVar = "CONFIG_PATH"
	localDevVar  = "LOCAL_DEV"
)

// flatEnvOverrides maps spec.md §6's flat environment variable names (which
// do not follow the nested dotted convention every other JALAPENO_* var
// uses) onto their koanf key. Checked before the generic dot-replacement
// transform in loadEnv.
var flatEnvOverrides = map[string]string{
	"JALAPENO_DATABASE_SERVER": "database.server",
	"JALAPENO_DATABASE_NAME":   "database.name",
	"JALAPENO_USERNAME":        "database.username",
	"JALAPENO_PASSWORD":        "database.password",
}

// Loader assembles a Config from layered sources.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// NewLoader builds a Loader with the default search paths and env prefix.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/jalapeno/config.yaml",
		},
		envPrefix: envPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type LoaderOption func(*Loader)

func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) { l.configPaths = paths }
}

func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.envPrefix = prefix }
}

// Load resolves the final Config: defaults, then an optional YAML file, then
// environment variables (highest priority), then validates the result.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := l.loadConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	l.applyLocalDev()

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		"app.name":        "jalapeno-api",
		"app.version":     "0.1.0",
		"app.environment": "development",
		"app.debug":       false,

		"http.port":                   8080,
		"http.read_timeout":           30 * time.Second,
		"http.write_timeout":          30 * time.Second,
		"http.shutdown_timeout":       10 * time.Second,
		"http.cors.enabled":           true,
		"http.cors.allowed_origins":   []string{"*"},
		"http.cors.allowed_methods":   []string{"GET", "OPTIONS"},
		"http.cors.allowed_headers":   []string{"*"},
		"http.cors.allow_credentials": false,
		"http.cors.max_age":           86400,

		"log.level":      "info",
		"log.format":     "json",
		"log.output":     "stdout",
		"log.max_size":   100,
		"log.max_backups": 3,
		"log.max_age":    7,
		"log.compress":   true,

		"metrics.enabled":   true,
		"metrics.path":      "/metrics",
		"metrics.namespace": "jalapeno",
		"metrics.subsystem": "",

		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.service_name": "jalapeno-api",
		"tracing.sample_rate":  0.1,

		"database.server":             "localhost:5432",
		"database.name":               "jalapeno",
		"database.username":           "jalapeno",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_conns":          25,
		"database.min_conns":          2,
		"database.conn_max_lifetime":  time.Hour,
		"database.conn_max_idle_time": 30 * time.Minute,
		"database.auto_migrate":       true,

		"rate_limit.enabled":          true,
		"rate_limit.requests":         100,
		"rate_limit.window":           time.Minute,
		"rate_limit.backend":          "memory",
		"rate_limit.redis_addr":       "localhost:6379",
		"rate_limit.burst_size":       20,
		"rate_limit.cleanup_interval": 5 * time.Minute,

		"audit.enabled":     true,
		"audit.backend":     "stdout",
		"audit.file_path":   "logs/audit.log",
		"audit.buffer_size": 1000,

		"load_update.default_increment": 10,

		"report.default_company_name": "Jalapeno Network Operations",
		"report.max_edges_in_table":   200,
		"report.pdf.page_size":        "A4",
		"report.pdf.orientation":      "portrait",
		"report.pdf.font_family":      "Arial",
		"report.pdf.font_size":        10.0,
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		if mapped, ok := flatEnvOverrides[s]; ok {
			return mapped
		}
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, l.envPrefix)), "_", ".")
	}), nil)
}

// applyLocalDev substitutes a developer-friendly database endpoint when
// LOCAL_DEV is set, per spec.md §6.
func (l *Loader) applyLocalDev() {
	if os.Getenv(localDevVar) == "" {
		return
	}
	override := map[string]any{
		"database.server":   "localhost:5432",
		"database.ssl_mode": "disable",
	}
	_ = l.k.Load(confmap.Provider(override, "."), nil)
}

// MustLoad loads the configuration or panics.
func MustLoad(opts ...LoaderOption) *Config {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load is the convenience entry point with every default.
func Load() (*Config, error) {
	return NewLoader().Load()
}
