// Package config loads rawcheck settings from the environment
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/jzx17/rawcheck/pkg/validate"
)

// Config holds the runtime settings of a rawcheck invocation. Values come
// from the environment (optionally seeded from a .env file); CLI flags
// override them.
type Config struct {
	Root           string
	Workers        int
	DecoderPath    string
	Debug          bool
	ShowExtensions bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; a missing file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Root:           getEnv("RAWCHECK_DIR", ""),
		Workers:        getEnvAsInt("RAWCHECK_WORKERS", 1),
		DecoderPath:    getEnv("RAWCHECK_DCRAW", validate.DefaultBinary),
		Debug:          getEnvAsBool("RAWCHECK_DEBUG", false),
		ShowExtensions: getEnvAsBool("RAWCHECK_SHOW_EXTENSIONS", false),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
