package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Env          string
	LogLevel     string
	LogFormat    string
	MetricsAddr  string
	DebounceMS   int
	RebuildRPS   int
	RebuildBurst int
	CommitLimit  int
}

func Load() *Config {
	return &Config{
		Env:          getEnv("ENV", "local"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
		MetricsAddr:  getEnv("METRICS_ADDR", "127.0.0.1:9184"),
		DebounceMS:   getEnvInt("DEBOUNCE_MS", 500),
		RebuildRPS:   getEnvInt("REBUILD_RPS", 2),
		RebuildBurst: getEnvInt("REBUILD_BURST", 1),
		CommitLimit:  getEnvInt("COMMIT_LIMIT", 20),
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid env %s: %v", key, err)
	}
	return i
}
