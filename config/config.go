package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var load sync.Once

// Config func to get env value
func Config(key string) string {
	load.Do(func() {
		// .env is optional, real environment variables win
		if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to load .env file", "error", err)
		}
	})
	return os.Getenv(key)
}

// Default returns the value of key, or def when it is unset or blank.
func Default(key, def string) string {
	if v := strings.TrimSpace(Config(key)); v != "" {
		return v
	}
	return def
}

func Int(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(Config(key)))
	if err != nil {
		return def
	}
	return v
}

func Float(key string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(Config(key)), 64)
	if err != nil {
		return def
	}
	return v
}

func Bool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(Config(key)))
	if err != nil {
		return def
	}
	return v
}

// Duration accepts Go duration strings ("8s", "1m30s"). A bare integer is read as seconds.
func Duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(Config(key))
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

// List splits a comma separated value, dropping blank items.
func List(key string) []string {
	var out []string
	for _, item := range strings.Split(Config(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
