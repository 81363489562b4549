package stitchgate

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv builds a Config from the environment, optionally seeded from
// dotenv files. A missing .env file is not an error; a present but
// unparseable variable is.
//
// Recognized variables:
//
//	STITCHGATE_API_BASE_URL    backend base URL
//	STITCHGATE_API_TIMEOUT     e.g. "15s"
//	STITCHGATE_CACHE_TTL       e.g. "5m"
//	STITCHGATE_FETCH_COOLDOWN  e.g. "5s"
//	STITCHGATE_AUDIT_ENABLED   bool
//	STITCHGATE_METRICS_ENABLED bool
func LoadEnv(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	cfg := DefaultConfig()
	if v := os.Getenv("STITCHGATE_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}

	for _, entry := range []struct {
		name   string
		target *time.Duration
	}{
		{"STITCHGATE_API_TIMEOUT", &cfg.API.Timeout},
		{"STITCHGATE_CACHE_TTL", &cfg.Cache.TTL},
		{"STITCHGATE_FETCH_COOLDOWN", &cfg.Fetch.Cooldown},
	} {
		v := os.Getenv(entry.name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", entry.name, err)
		}
		*entry.target = d
	}

	for _, entry := range []struct {
		name   string
		target *bool
	}{
		{"STITCHGATE_AUDIT_ENABLED", &cfg.Audit.Enabled},
		{"STITCHGATE_METRICS_ENABLED", &cfg.Metrics.Enabled},
	} {
		v := os.Getenv(entry.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", entry.name, err)
		}
		*entry.target = b
	}

	return cfg, nil
}
