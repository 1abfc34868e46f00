package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/damage-coeff/internal/damage"
)

// EnvPath overrides the config file location.
const EnvPath = "DAMAGECOEFF_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = "config/server.yaml"

// Server holds all configuration for the calculator service.
type Server struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"` // empty disables gRPC
	LogLevel string `yaml:"log_level"`

	Catalog  CatalogConfig  `yaml:"catalog"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// CatalogConfig locates the reference data.
type CatalogConfig struct {
	Dir           string        `yaml:"dir"`
	Overlay       string        `yaml:"overlay"`
	WatchInterval time.Duration `yaml:"watch_interval"` // 0 disables hot reload
}

// DefaultsConfig seeds values the request may omit.
type DefaultsConfig struct {
	RandomMin float64 `yaml:"random_min"`
	RandomMax float64 `yaml:"random_max"`
}

// Default returns Server config with sensible defaults.
func Default() Server {
	return Server{
		HTTPAddr: ":8080",
		GRPCAddr: ":9090",
		LogLevel: "info",
		Catalog: CatalogConfig{
			Dir:           "catalog",
			WatchInterval: 5 * time.Second,
		},
		Defaults: DefaultsConfig{
			RandomMin: damage.DefaultRandomMin,
			RandomMax: damage.DefaultRandomMax,
		},
	}
}

// Path returns the config path, honoring EnvPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Server, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values Load cannot default.
func (s Server) Validate() error {
	var errs []string
	if s.HTTPAddr == "" {
		errs = append(errs, "http_addr is required")
	}
	if s.Catalog.Dir == "" {
		errs = append(errs, "catalog.dir is required")
	}
	if s.Catalog.WatchInterval < 0 {
		errs = append(errs, "catalog.watch_interval must be >= 0")
	}
	if s.Defaults.RandomMin <= 0 || s.Defaults.RandomMax < s.Defaults.RandomMin {
		errs = append(errs, "defaults must satisfy 0 < random_min <= random_max")
	}
	if _, ok := parseLevel(s.LogLevel); !ok {
		errs = append(errs, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", s.LogLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SlogLevel maps LogLevel onto slog, falling back to info.
func (s Server) SlogLevel() slog.Level {
	lvl, _ := parseLevel(s.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
