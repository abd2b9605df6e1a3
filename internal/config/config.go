package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	applog "handcraftedhaven/internal/log"
)

type Config struct {
	Port             string
	DBDSN            string
	LogFile          string
	PageSize         int
	BrowseCacheTTL   time.Duration
	CraftStoryMinLen int
	QueryTimeout     time.Duration
}

// Default mirrors what Load returns on an empty environment.
func Default() Config {
	return Config{
		Port:             "8080",
		DBDSN:            "handcraftedhaven.db", // sqlite file in project root
		LogFile:          "",
		PageSize:         15,
		BrowseCacheTTL:   60 * time.Second,
		CraftStoryMinLen: 80,
		QueryTimeout:     5 * time.Second,
	}
}

func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		applog.Error(nil, "config.dotenv.fail", err, nil)
	}

	cfg := Default()
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DBDSN = v
	}
	cfg.LogFile = os.Getenv("LOG_FILE")
	cfg.PageSize = intEnv("PAGE_SIZE", cfg.PageSize)
	cfg.BrowseCacheTTL = durationEnv("BROWSE_CACHE_TTL", cfg.BrowseCacheTTL)
	cfg.CraftStoryMinLen = intEnv("CRAFT_STORY_MIN_LEN", cfg.CraftStoryMinLen)
	cfg.QueryTimeout = durationEnv("QUERY_TIMEOUT", cfg.QueryTimeout)

	applog.Info(nil, "config.loaded", map[string]any{
		"port":                cfg.Port,
		"db_dsn":              cfg.DBDSN,
		"log_file":            cfg.LogFile,
		"page_size":           cfg.PageSize,
		"browse_cache_ttl":    cfg.BrowseCacheTTL.String(),
		"craft_story_min_len": cfg.CraftStoryMinLen,
		"query_timeout":       cfg.QueryTimeout.String(),
	})
	return cfg
}

func intEnv(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		applog.Security(nil, "config.invalid", map[string]any{"key": key, "value": raw})
		return def
	}
	return n
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		applog.Security(nil, "config.invalid", map[string]any{"key": key, "value": raw})
		return def
	}
	return d
}
