package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RETRIEVE_TOP_K", "")

	cfg := Load()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 4, cfg.TopK)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RETRIEVE_TOP_K", "8")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 8, cfg.TopK)
	assert.Equal(t, 0, cfg.RedisDB, "bad int falls back to default")
}
