package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	DataDir     string // FileKV directory when no database is configured
	Variant     string
	AutoLoad    bool
	Tick        time.Duration
	TuningFile  string
	CatalogFile string
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DataDir:     os.Getenv("DATA_DIR"),
		Variant:     strings.ToLower(getEnv("VARIANT", "extended")),
		AutoLoad:    getEnvBool("AUTO_LOAD", false),
		Tick:        time.Duration(getEnvInt("TICK_MS", 100)) * time.Millisecond,
		TuningFile:  os.Getenv("TUNING_FILE"),
		CatalogFile: os.Getenv("CATALOG_FILE"),
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 100 * time.Millisecond
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
