package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	SigningKey string // Required: HMAC key for session and pending tokens
	Issuer     string // Optional: issuer claim for tokens and provisioning URIs (default: keygate)

	SessionTTL          time.Duration // Optional: session token lifetime (default: 1h)
	DatabaseFile        string        // Optional: path to SQLite database file (default: ./keygate.db)
	PepperFile          string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		SigningKey:          os.Getenv("KEYGATE_SIGNING_KEY"),
		Issuer:              getEnvOrDefault("KEYGATE_ISSUER", "keygate"),
		SessionTTL:          getEnvDurationOrDefault("KEYGATE_SESSION_TTL", time.Hour),
		DatabaseFile:        getEnvOrDefault("KEYGATE_DATABASE_FILE", "keygate.db"),
		PepperFile:          getEnvOrDefault("KEYGATE_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Allow a bare integer, interpreted as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
