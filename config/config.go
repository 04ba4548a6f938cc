package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Local store
	DBPath string

	// Category (K value) map sources: file paths or http(s) URLs
	KMapSources []string

	// Optional newline-separated YYYY-MM-DD holiday calendar file
	HolidaysFile string

	// Remote bulk sync timeout in minutes
	SyncTimeoutMinutes int

	// Server
	ServerPort string
}

// Load loads configuration from environment variables
func Load() *Config {
	// Try to load .env file (optional for local development)
	_ = godotenv.Load()

	config := &Config{
		DBPath:             getEnv("DB_PATH", "./data/tickets.db"),
		HolidaysFile:       os.Getenv("HOLIDAYS_FILE"),
		SyncTimeoutMinutes: getEnvInt("SYNC_TIMEOUT_MINUTES", 5),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
	}

	sources := getEnv("KMAP_SOURCES", "./data/train_k_map.csv")
	for _, s := range strings.Split(sources, ",") {
		if s = strings.TrimSpace(s); s != "" {
			config.KMapSources = append(config.KMapSources, s)
		}
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets a positive integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
