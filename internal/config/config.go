// Package config resolves podconsole settings from defaults, an optional YAML
// file, an optional .env file and PODCONSOLE_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FileEnv overrides the config file location.
	FileEnv = "PODCONSOLE_CONFIG"
	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"
	// DefaultSystemSocket is the rootful Podman service socket.
	DefaultSystemSocket = "/run/podman/podman.sock"
)

// Config holds every setting podconsole reads.
type Config struct {
	SystemSocket string `yaml:"system_socket"`
	UserSocket   string `yaml:"user_socket"`
	// User is the name shown for the user scope.
	User string `yaml:"user"`
	// PreferredOwner sorts first in listings: "user" or "system".
	PreferredOwner string `yaml:"preferred_owner"`
	// OwnerFilter is the initial owner filter: "all", "system" or "user".
	OwnerFilter string `yaml:"owner_filter"`

	RefreshInterval time.Duration `yaml:"refresh_interval"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout"`
	HistoryTTL      time.Duration `yaml:"history_ttl"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	// OTLPEndpoint enables tracing when set (host:port).
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SystemSocket:    DefaultSystemSocket,
		UserSocket:      defaultUserSocket(),
		User:            currentUser(),
		PreferredOwner:  "user",
		OwnerFilter:     "all",
		RefreshInterval: 5 * time.Second,
		RequestTimeout:  30 * time.Second,
		ProbeTimeout:    2 * time.Second,
		HistoryTTL:      10 * time.Minute,
		LogFile:         defaultLogFile(),
		LogLevel:        "info",
		ServiceName:     "podconsole",
	}
}

// Load resolves the configuration. A missing config file or .env file is not
// an error; a malformed one is.
func Load() (Config, error) {
	cfg := Default()

	path, explicit := FilePath()
	if err := cfg.mergeFile(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return Config{}, err
		}
	}

	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// FilePath returns the config file location and whether it was set
// explicitly through PODCONSOLE_CONFIG.
func FilePath() (string, bool) {
	if p := os.Getenv(FileEnv); p != "" {
		return p, true
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, "podconsole", "config.yaml"), false
}

func (c *Config) mergeFile(path string) error {
	if path == "" {
		return os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"PODCONSOLE_SYSTEM_SOCKET":    &c.SystemSocket,
		"PODCONSOLE_USER_SOCKET":      &c.UserSocket,
		"PODCONSOLE_USER":             &c.User,
		"PODCONSOLE_PREFERRED_OWNER":  &c.PreferredOwner,
		"PODCONSOLE_OWNER_FILTER":     &c.OwnerFilter,
		"PODCONSOLE_LOG_FILE":         &c.LogFile,
		"PODCONSOLE_LOG_LEVEL":        &c.LogLevel,
		"OTEL_EXPORTER_OTLP_ENDPOINT": &c.OTLPEndpoint,
		"OTEL_SERVICE_NAME":           &c.ServiceName,
	}
	for k, p := range strs {
		if v := os.Getenv(k); v != "" {
			*p = v
		}
	}
	durs := map[string]*time.Duration{
		"PODCONSOLE_REFRESH_INTERVAL": &c.RefreshInterval,
		"PODCONSOLE_REQUEST_TIMEOUT":  &c.RequestTimeout,
		"PODCONSOLE_PROBE_TIMEOUT":    &c.ProbeTimeout,
		"PODCONSOLE_HISTORY_TTL":      &c.HistoryTTL,
	}
	for k, p := range durs {
		v := os.Getenv(k)
		if v == "" {
			continue
		}
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		*p = d
	}
	return nil
}

// parseDuration accepts Go durations and bare seconds.
func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// Validate checks enumerated fields and durations.
func (c Config) Validate() error {
	switch c.PreferredOwner {
	case "user", "system":
	default:
		return fmt.Errorf("preferred_owner must be user or system, got %q", c.PreferredOwner)
	}
	switch c.OwnerFilter {
	case "all", "user", "system":
	default:
		return fmt.Errorf("owner_filter must be all, user or system, got %q", c.OwnerFilter)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

func defaultUserSocket() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = filepath.Join("/run/user", strconv.Itoa(os.Getuid()))
	}
	return filepath.Join(dir, "podman", "podman.sock")
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "podconsole", "podconsole.log")
}
