package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// ConfigDuration reads a duration-valued key ("2h", "90m"), falling back to
// the given default when unset or malformed.
func ConfigDuration(key string, fallback time.Duration) time.Duration {
	raw := Config(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid duration for %s: %q, using default %s", key, raw, fallback)
		return fallback
	}
	return d
}
