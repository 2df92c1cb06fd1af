// Package config loads runtime configuration from environment
// variables. The cmd layer calls godotenv first, so a local .env file
// works the same as real environment variables.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Embedding EmbeddingConfig
	Geocoder  GeocoderConfig
	Database  DatabaseConfig
}

type OpenAIConfig struct {
	Token string
}

type GeminiConfig struct {
	APIKey string
}

type EmbeddingConfig struct {
	URL string // face embedding server, defaults to http://localhost:8000
	Dim int    // embedding dimension, defaults to 128
}

type GeocoderConfig struct {
	URL       string // Nominatim-compatible endpoint, defaults to https://nominatim.openstreetmap.org
	UserAgent string // identifies this client to the geocoding service
}

type DatabaseConfig struct {
	Path string // sqlite file path, defaults to photos.db in the working directory
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString reads an environment variable with a default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		Embedding: EmbeddingConfig{
			URL: envString("EMBEDDING_URL", "http://localhost:8000"),
			Dim: envInt("EMBEDDING_DIM", 128),
		},
		Geocoder: GeocoderConfig{
			URL:       envString("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: envString("GEOCODER_USER_AGENT", "photo-organizer"),
		},
		Database: DatabaseConfig{
			Path: envString("DATABASE_PATH", "photos.db"),
		},
	}
}
