package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv returns the trimmed value of key, or fallback when it is unset or
// blank.
func GetEnv(key, fallback string) string {
	if value, ok := lookup(key); ok {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	return getParsed(key, fallback, strconv.Atoi)
}

func GetEnvInt64(key string, fallback int64) int64 {
	return getParsed(key, fallback, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

func GetEnvBool(key string, fallback bool) bool {
	return getParsed(key, fallback, strconv.ParseBool)
}

// GetEnvDuration accepts Go duration strings such as "30s" or "1m30s".
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	return getParsed(key, fallback, time.ParseDuration)
}

// getParsed falls back on unset, blank and unparsable values alike.
func getParsed[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := lookup(key)
	if !ok {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

func lookup(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

// SplitCSV splits a comma-separated list, dropping blank entries.
func SplitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// DefaultPostgresDSN assembles a DSN from the DB_* variables.
func DefaultPostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_USER", "postgres"),
		GetEnv("DB_PASSWORD", "postgres"),
		GetEnv("DB_NAME", "linkly"),
		GetEnv("DB_SSL_MODE", "disable"),
	)
}

// DefaultWorkerID identifies this process as <hostname>-<pid>, using
// fallbackName when the hostname is unavailable.
func DefaultWorkerID(fallbackName string) string {
	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		host = fallbackName
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
