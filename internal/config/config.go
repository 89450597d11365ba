package config

import (
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds all configuration values, loaded once at startup and
// injected into the components that need them.
type Config struct {
	Port           string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	JWTSecret      string
	TokenTTL       time.Duration
	SeedCandidates bool
}

// Load reads configuration from environment variables (or a .env file)
// with local-dev fallbacks.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "voting"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		TokenTTL:       time.Hour,
		SeedCandidates: getEnv("SEED_CANDIDATES", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
