package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Endpoint != DefaultEndpoint {
		t.Fatalf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.APIKey != "" {
		t.Fatal("expected empty api key by default")
	}
	if cfg.CacheTTLDuration() != DefaultCacheTTL {
		t.Fatalf("expected default cache ttl, got %v", cfg.CacheTTLDuration())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(configDirEnvKey, dir)
	t.Setenv(apiKeyEnvKey, "")
	t.Setenv(endpointEnvKey, "")
	t.Setenv(teamEnvKey, "")
	t.Setenv(logLevelEnvKey, "")

	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte(`api_key = "lin_api_file"
team = "Platform"
log_level = "debug"
cache_ttl = "90s"
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKey != "lin_api_file" {
		t.Fatalf("expected file api key, got %q", cfg.APIKey)
	}
	if cfg.Team != "Platform" {
		t.Fatalf("expected team Platform, got %q", cfg.Team)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Fatalf("endpoint should keep its default, got %q", cfg.Endpoint)
	}
	if cfg.CacheTTLDuration() != 90*time.Second {
		t.Fatalf("expected 90s ttl, got %v", cfg.CacheTTLDuration())
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(configDirEnvKey, dir)

	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte(`api_key = "lin_api_file"
endpoint = "https://file.example.com/graphql"
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(apiKeyEnvKey, "lin_api_env")
	t.Setenv(endpointEnvKey, "https://env.example.com/graphql")
	t.Setenv(teamEnvKey, "Infra")
	t.Setenv(logLevelEnvKey, "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKey != "lin_api_env" {
		t.Fatalf("env should win, got %q", cfg.APIKey)
	}
	if cfg.Endpoint != "https://env.example.com/graphql" {
		t.Fatalf("env endpoint should win, got %q", cfg.Endpoint)
	}
	if cfg.Team != "Infra" {
		t.Fatalf("env team should win, got %q", cfg.Team)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("env log level should win, got %q", cfg.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(configDirEnvKey, t.TempDir())
	t.Setenv(apiKeyEnvKey, "")
	t.Setenv(endpointEnvKey, "")
	t.Setenv(teamEnvKey, "")
	t.Setenv(logLevelEnvKey, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Fatalf("expected defaults, got %q", cfg.Endpoint)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(configDirEnvKey, dir)
	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte("api_key = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSetKeyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(configDirEnvKey, dir)
	t.Setenv(apiKeyEnvKey, "")
	t.Setenv(endpointEnvKey, "")
	t.Setenv(teamEnvKey, "")
	t.Setenv(logLevelEnvKey, "")

	path, err := Path()
	if err != nil {
		t.Fatalf("path: %v", err)
	}

	if err := SetKey(path, "team", "Platform"); err != nil {
		t.Fatalf("set team: %v", err)
	}
	if err := SetKey(path, "api_key", "lin_api_set"); err != nil {
		t.Fatalf("set api_key: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Team != "Platform" {
		t.Fatalf("first key should survive the second write, got %q", cfg.Team)
	}
	if cfg.APIKey != "lin_api_set" {
		t.Fatalf("expected written api key, got %q", cfg.APIKey)
	}
}

func TestSetKeyRejectsUnknown(t *testing.T) {
	if err := SetKey(filepath.Join(t.TempDir(), configFileName), "nope", "x"); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestPathHonorsConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(configDirEnvKey, dir)

	path, err := Path()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != filepath.Join(dir, configFileName) {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestIsAllowedKey(t *testing.T) {
	for _, key := range AllowedKeys() {
		if !IsAllowedKey(key) {
			t.Fatalf("%s should be allowed", key)
		}
	}
	if IsAllowedKey("password") {
		t.Fatal("unexpected key allowed")
	}
}

func TestGet(t *testing.T) {
	cfg := Config{APIKey: "k", Endpoint: "e", Team: "t", LogLevel: "info", CacheTTL: "1m", LocalMetadataDB: "/tmp/m.db"}
	cases := map[string]string{
		"api_key":           "k",
		"endpoint":          "e",
		"team":              "t",
		"log_level":         "info",
		"cache_ttl":         "1m",
		"local_metadata_db": "/tmp/m.db",
	}
	for key, want := range cases {
		got, err := cfg.Get(key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if got != want {
			t.Fatalf("get %s: expected %q, got %q", key, want, got)
		}
	}
	if _, err := cfg.Get("bogus"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestCacheTTLDurationFallsBack(t *testing.T) {
	for _, raw := range []string{"", "junk", "-5m", "0s"} {
		cfg := Config{CacheTTL: raw}
		if cfg.CacheTTLDuration() != DefaultCacheTTL {
			t.Fatalf("ttl %q should fall back to default", raw)
		}
	}
}
