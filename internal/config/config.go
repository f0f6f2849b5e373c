package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultEndpoint = "https://api.linear.app/graphql"
	DefaultLogLevel = "warn"
	DefaultCacheTTL = 5 * time.Minute

	configFileName  = ".linctl.toml"
	configDirEnvKey = "LINCTL_CONFIG_DIR"

	apiKeyEnvKey   = "LINEAR_API_KEY"
	endpointEnvKey = "LINCTL_ENDPOINT"
	teamEnvKey     = "LINCTL_TEAM"
	logLevelEnvKey = "LINCTL_LOG_LEVEL"
)

// Config is the explicit client configuration, resolved once at startup:
// defaults, then the config file, then environment variables. The API
// key is never read ad hoc per call; client construction fails without
// one.
type Config struct {
	APIKey   string `toml:"api_key"`
	Endpoint string `toml:"endpoint"`
	// Team is the default team name for issue creation when the caller
	// does not name one.
	Team     string `toml:"team"`
	LogLevel string `toml:"log_level"`
	// CacheTTL bounds the advisory name-to-ID lookup cache. Staleness
	// only degrades convenience lookups, never metadata correctness.
	CacheTTL string `toml:"cache_ttl"`
	// LocalMetadataDB, when set, points issue metadata at a local SQLite
	// store instead of Linear attachments.
	LocalMetadataDB string `toml:"local_metadata_db"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		LogLevel: DefaultLogLevel,
		CacheTTL: DefaultCacheTTL.String(),
	}
}

// CacheTTLDuration parses the configured cache TTL, falling back to the
// default on empty or invalid values.
func (c *Config) CacheTTLDuration() time.Duration {
	raw := strings.TrimSpace(c.CacheTTL)
	if raw == "" {
		return DefaultCacheTTL
	}
	if duration, err := time.ParseDuration(raw); err == nil && duration > 0 {
		return duration
	}
	return DefaultCacheTTL
}

var allowedKeys = []string{
	"api_key",
	"endpoint",
	"team",
	"log_level",
	"cache_ttl",
	"local_metadata_db",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_key":
		return c.APIKey, nil
	case "endpoint":
		return c.Endpoint, nil
	case "team":
		return c.Team, nil
	case "log_level":
		return c.LogLevel, nil
	case "cache_ttl":
		return c.CacheTTL, nil
	case "local_metadata_db":
		return c.LocalMetadataDB, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Path returns the path to the config file: $LINCTL_CONFIG_DIR override
// first, the user's home directory otherwise.
func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	data[key] = value

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load resolves configuration: defaults, then the config file if it
// exists, then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if statErr != nil && !os.IsNotExist(statErr) {
			return nil, statErr
		}
	}

	if apiKey := strings.TrimSpace(os.Getenv(apiKeyEnvKey)); apiKey != "" {
		cfg.APIKey = apiKey
	}
	if endpoint := strings.TrimSpace(os.Getenv(endpointEnvKey)); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if team := strings.TrimSpace(os.Getenv(teamEnvKey)); team != "" {
		cfg.Team = team
	}
	if level := strings.TrimSpace(os.Getenv(logLevelEnvKey)); level != "" {
		cfg.LogLevel = level
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	return &cfg, nil
}
