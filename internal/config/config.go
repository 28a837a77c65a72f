package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tunematch/internal/logger"
)

// Config stores the application configuration.
type Config struct {
	Port string

	CatalogPath   string
	CatalogStrict bool // reject the whole catalog on the first malformed row
	CatalogWatch  bool

	MatchThreshold         int
	DefaultRecommendations int
	MaxRecommendations     int

	RateLimitRPS   float64
	RateLimitBurst int

	// Redis cache; an empty address disables it.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	Log logger.Config

	// EnvFileLoaded reports whether a .env file was read.
	EnvFileLoaded bool
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

// Load reads configuration from the environment, after loading .env from the
// working directory if present. godotenv never overrides variables that are
// already set.
func Load() *Config {
	loaded := godotenv.Load() == nil
	cfg := fromEnv()
	cfg.EnvFileLoaded = loaded
	return cfg
}

func fromEnv() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		CatalogPath:   getEnv("CATALOG_PATH", "data/data_with_clusters.csv"),
		CatalogStrict: getEnvBool("CATALOG_STRICT", false),
		CatalogWatch:  getEnvBool("CATALOG_WATCH", false),

		MatchThreshold:         getEnvInt("MATCH_THRESHOLD", 80),
		DefaultRecommendations: getEnvInt("DEFAULT_RECOMMENDATIONS", 5),
		MaxRecommendations:     getEnvInt("MAX_RECOMMENDATIONS", 50),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 10*time.Minute),

		Log: logger.Config{
			Level:      logger.LogLevel(strings.ToLower(getEnv("LOG_LEVEL", "info"))),
			OutputPath: getEnv("LOG_FILE", ""),
			MaxSize:    getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvInt("LOG_MAX_AGE_DAYS", 28),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.CatalogPath == "":
		return fmt.Errorf("config: CATALOG_PATH is empty")
	case c.MatchThreshold < 0 || c.MatchThreshold > 100:
		return fmt.Errorf("config: MATCH_THRESHOLD %d outside 0..100", c.MatchThreshold)
	case c.MaxRecommendations < 1:
		return fmt.Errorf("config: MAX_RECOMMENDATIONS must be positive, got %d", c.MaxRecommendations)
	case c.DefaultRecommendations < 1 || c.DefaultRecommendations > c.MaxRecommendations:
		return fmt.Errorf("config: DEFAULT_RECOMMENDATIONS %d outside 1..%d", c.DefaultRecommendations, c.MaxRecommendations)
	case c.RateLimitRPS <= 0 || c.RateLimitBurst < 1:
		return fmt.Errorf("config: rate limit needs positive RATE_LIMIT_RPS and RATE_LIMIT_BURST")
	}
	return nil
}
