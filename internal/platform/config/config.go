package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvBackendURL  = "RESUMEDASH_BACKEND_URL"
	EnvIdentityURL = "RESUMEDASH_IDENTITY_URL"
	EnvIdentityKey = "RESUMEDASH_IDENTITY_KEY"
	EnvHTTPTimeout = "RESUMEDASH_HTTP_TIMEOUT"
	EnvLogLevel    = "RESUMEDASH_LOG_LEVEL"
	EnvStateDir    = "RESUMEDASH_HOME"
)

type Config struct {
	StateDir    string
	DBPath      string
	SessionPath string
	LogPath     string

	BackendURL  string
	IdentityURL string
	IdentityKey string
	HTTPTimeout time.Duration
	LogLevel    string
}

// fileConfig is the optional config.yaml in the state directory.
type fileConfig struct {
	BackendURL  string `yaml:"backend_url"`
	IdentityURL string `yaml:"identity_url"`
	IdentityKey string `yaml:"identity_key"`
	HTTPTimeout string `yaml:"http_timeout"`
	LogLevel    string `yaml:"log_level"`
}

// DefaultStateDir is $RESUMEDASH_HOME or ~/.resumedash.
func DefaultStateDir() string {
	if dir := strings.TrimSpace(os.Getenv(EnvStateDir)); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".resumedash"
	}
	return filepath.Join(home, ".resumedash")
}

// New resolves configuration for stateDir. Precedence, lowest first:
// config.yaml in the state dir, a .env file in the working directory, the
// process environment.
func New(stateDir string) (Config, error) {
	if strings.TrimSpace(stateDir) == "" {
		return Config{}, fmt.Errorf("state dir is required")
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		StateDir:    stateDir,
		DBPath:      filepath.Join(stateDir, "state.db"),
		SessionPath: filepath.Join(stateDir, "session.json"),
		LogPath:     filepath.Join(stateDir, "resumedash.log"),
		HTTPTimeout: 60 * time.Second,
		LogLevel:    "info",
	}

	file, err := readFileConfig(filepath.Join(stateDir, "config.yaml"))
	if err != nil {
		return Config{}, err
	}
	cfg.BackendURL = file.BackendURL
	cfg.IdentityURL = file.IdentityURL
	cfg.IdentityKey = file.IdentityKey
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.HTTPTimeout != "" {
		d, err := time.ParseDuration(file.HTTPTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("config.yaml http_timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	cfg.BackendURL = envOr(EnvBackendURL, cfg.BackendURL)
	cfg.IdentityURL = envOr(EnvIdentityURL, cfg.IdentityURL)
	cfg.IdentityKey = envOr(EnvIdentityKey, cfg.IdentityKey)
	cfg.LogLevel = envOr(EnvLogLevel, cfg.LogLevel)
	if raw := os.Getenv(EnvHTTPTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		cfg.HTTPTimeout = d
	}

	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	cfg.IdentityURL = strings.TrimRight(cfg.IdentityURL, "/")
	return cfg, nil
}

func readFileConfig(path string) (fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("read config file: %w", err)
	}
	out := fileConfig{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return fileConfig{}, fmt.Errorf("decode config file: %w", err)
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
