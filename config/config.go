package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings. Values come from the environment; main
// loads a .env file first so local setups need no exported variables.
type Config struct {
	ListenAddr string

	GeminiAPIKey string
	GeminiModel  string

	TMDBAPIKey string

	// RecommendTTL caches generated recommendation lists per (query, type).
	RecommendTTL time.Duration
	// MetadataTTL caches metadata lookups per (title, type, year).
	MetadataTTL time.Duration
	// MetadataCacheSize caps the metadata cache; 0 means unbounded.
	MetadataCacheSize int

	LogFile string
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() Config {
	return Config{
		ListenAddr:        envOr("LISTEN_ADDR", ":7070"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       envOr("GEMINI_MODEL", "gemma-3n-e4b-it"),
		TMDBAPIKey:        os.Getenv("TMDB_API_KEY"),
		RecommendTTL:      envDuration("RECOMMEND_CACHE_TTL", time.Hour),
		MetadataTTL:       envDuration("METADATA_CACHE_TTL", 30*time.Minute),
		MetadataCacheSize: envInt("METADATA_CACHE_SIZE", 0),
		LogFile:           os.Getenv("LOG_FILE"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
