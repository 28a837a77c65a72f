package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tunematch/internal/logger"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "CATALOG_PATH", "MATCH_THRESHOLD", "CACHE_TTL", "REDIS_ADDR", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := fromEnv()
	if cfg.Port != "8080" {
		t.Errorf("port: got %q, want 8080", cfg.Port)
	}
	if cfg.CatalogPath != "data/data_with_clusters.csv" {
		t.Errorf("catalog path: got %q", cfg.CatalogPath)
	}
	if cfg.MatchThreshold != 80 {
		t.Errorf("threshold: got %d, want 80", cfg.MatchThreshold)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("cache ttl: got %v, want 10m", cfg.CacheTTL)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("redis should be disabled by default, got %q", cfg.RedisAddr)
	}
	if cfg.Log.Level != logger.InfoLevel {
		t.Errorf("log level: got %q, want info", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_STRICT", "true")
	t.Setenv("MATCH_THRESHOLD", "72")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := fromEnv()
	if cfg.Port != "9090" || !cfg.CatalogStrict || cfg.MatchThreshold != 72 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("rps: got %v, want 2.5", cfg.RateLimitRPS)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("cache ttl: got %v, want 90s", cfg.CacheTTL)
	}
	if cfg.Log.Level != logger.DebugLevel {
		t.Errorf("log level: got %q, want debug", cfg.Log.Level)
	}
}

func TestFromEnv_BadValuesFallBack(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "high")
	t.Setenv("CATALOG_WATCH", "maybe")
	t.Setenv("CACHE_TTL", "soon")

	cfg := fromEnv()
	if cfg.MatchThreshold != 80 || cfg.CatalogWatch || cfg.CacheTTL != 10*time.Minute {
		t.Fatalf("bad values should fall back to defaults: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "threshold above 100", mutate: func(c *Config) { c.MatchThreshold = 101 }, wantErr: true},
		{name: "negative threshold", mutate: func(c *Config) { c.MatchThreshold = -1 }, wantErr: true},
		{name: "default above max", mutate: func(c *Config) { c.DefaultRecommendations = 60 }, wantErr: true},
		{name: "zero max", mutate: func(c *Config) { c.MaxRecommendations = 0 }, wantErr: true},
		{name: "no catalog", mutate: func(c *Config) { c.CatalogPath = "" }, wantErr: true},
		{name: "zero rate", mutate: func(c *Config) { c.RateLimitRPS = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fromEnv()
			cfg.CatalogPath = "songs.csv"
			cfg.MatchThreshold = 80
			cfg.DefaultRecommendations = 5
			cfg.MaxRecommendations = 50
			cfg.RateLimitRPS = 20
			cfg.RateLimitBurst = 40
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=7000\nMATCH_THRESHOLD=65\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, dir)
	t.Setenv("PORT", "7100")
	t.Setenv("MATCH_THRESHOLD", "")
	os.Unsetenv("MATCH_THRESHOLD")

	cfg := Load()
	if !cfg.EnvFileLoaded {
		t.Fatal("expected .env to be loaded")
	}
	if cfg.Port != "7100" {
		t.Errorf("environment should win over .env, got port %q", cfg.Port)
	}
	if cfg.MatchThreshold != 65 {
		t.Errorf("threshold from .env: got %d, want 65", cfg.MatchThreshold)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
