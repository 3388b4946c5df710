package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/yukikurage/task-api/internal/constants"
)

type Config struct {
	DatabaseURL string
	DBDriver    string
	SecretKey   string
	TokenTTL    time.Duration
	Port        string
	GinMode     string
	LogLevel    string
	LogJSON     bool
}

// Load reads configuration from the environment. DATABASE_URL and SECRET_KEY
// have no defaults; missing either is a startup-level failure.
func Load() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL must be set")
	}

	secretKey := os.Getenv("SECRET_KEY")
	if secretKey == "" {
		return nil, errors.New("SECRET_KEY must be set")
	}

	ttlMinutes, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", strconv.Itoa(constants.DefaultTokenTTLMinutes)))
	if err != nil || ttlMinutes <= 0 {
		ttlMinutes = constants.DefaultTokenTTLMinutes
	}

	return &Config{
		DatabaseURL: databaseURL,
		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		SecretKey:   secretKey,
		TokenTTL:    time.Duration(ttlMinutes) * time.Minute,
		Port:        getEnv("PORT", "3000"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogJSON:     getEnv("LOG_JSON", "") == "true",
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
