package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Session backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	APIBaseURL     string `yaml:"apiBaseURL"`
	RequestTimeout string `yaml:"requestTimeout"`
	LogLevel       string `yaml:"logLevel"`
	StateDir       string `yaml:"stateDir"`
	SessionBackend string `yaml:"sessionBackend"`
	RedisAddr      string `yaml:"redisAddr"`
	RedisPassword  string `yaml:"redisPassword"`
	SnapshotPath   string `yaml:"snapshotPath"`
}

// DefaultStateDir returns ~/.bookreview, falling back to the working
// directory when the home directory cannot be resolved.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bookreview"
	}
	return filepath.Join(home, ".bookreview")
}

// Load reads config from path. A missing file is not an error: the CLI
// runs on defaults plus env overrides. Env always wins over the file.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = filepath.Join(DefaultStateDir(), "config.yaml")
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("BOOKREVIEW_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("BOOKREVIEW_REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = v
	}
	if v := os.Getenv("BOOKREVIEW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BOOKREVIEW_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("BOOKREVIEW_SESSION_BACKEND"); v != "" {
		cfg.SessionBackend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("BOOKREVIEW_SNAPSHOT_PATH"); v != "" {
		cfg.SnapshotPath = v
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8000"
	}
	if cfg.StateDir == "" {
		cfg.StateDir = DefaultStateDir()
	}
	if cfg.SessionBackend == "" {
		cfg.SessionBackend = BackendFile
	}
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = filepath.Join(cfg.StateDir, "snapshots.db")
	}

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	switch cfg.SessionBackend {
	case BackendFile:
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return errors.New("config: redisAddr is required when sessionBackend is redis")
		}
	default:
		return fmt.Errorf("config: unknown sessionBackend %q (want file or redis)", cfg.SessionBackend)
	}
	if _, err := ParseRequestTimeout(cfg.RequestTimeout); err != nil {
		return err
	}
	return nil
}

// ParseRequestTimeout parses the optional request timeout string. Zero
// means "use the gateway default"; the gateway never runs untimed.
func ParseRequestTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid requestTimeout duration: %w", err)
	}
	if dur < 0 {
		return 0, errors.New("config: requestTimeout must be >= 0")
	}
	return dur, nil
}
