package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "LOG_FILE", "PAGE_SIZE", "BROWSE_CACHE_TTL", "CRAFT_STORY_MIN_LEN", "QUERY_TIMEOUT"} {
		t.Setenv(k, "")
	}
	assert.Equal(t, Default(), Load())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DSN", "postgres://u:p@localhost/hh?sslmode=disable")
	t.Setenv("PAGE_SIZE", "8")
	t.Setenv("BROWSE_CACHE_TTL", "90s")
	t.Setenv("CRAFT_STORY_MIN_LEN", "100")
	t.Setenv("QUERY_TIMEOUT", "2s")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres://u:p@localhost/hh?sslmode=disable", cfg.DBDSN)
	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, 90*time.Second, cfg.BrowseCacheTTL)
	assert.Equal(t, 100, cfg.CraftStoryMinLen)
	assert.Equal(t, 2*time.Second, cfg.QueryTimeout)
}

func TestLoad_MalformedFallsBack(t *testing.T) {
	t.Setenv("PAGE_SIZE", "zero")
	t.Setenv("BROWSE_CACHE_TTL", "-5s")

	cfg := Load()
	assert.Equal(t, 15, cfg.PageSize)
	assert.Equal(t, 60*time.Second, cfg.BrowseCacheTTL)
}
