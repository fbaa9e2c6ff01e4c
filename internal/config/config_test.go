package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_MissingSecrets(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("YOUTUBE_API_KEY", "")

	cfg := Load()
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	t.Setenv("GEMINI_API_KEY", "test-key")
	cfg = Load()
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "YOUTUBE_API_KEY")

	t.Setenv("YOUTUBE_API_KEY", "test-key")
	cfg = Load()
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.VisionModel)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.TextModel)
	assert.Equal(t, "te", cfg.YouTube.RelevanceLanguage)
	assert.Equal(t, "IN", cfg.YouTube.RegionCode)
	assert.NotEmpty(t, cfg.Store.DatabaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("MODEL_TIMEOUT", "10s")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "10s", cfg.Server.ModelTimeout.String())
}
