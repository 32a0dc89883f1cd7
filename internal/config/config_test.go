package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("AI_MAX_ATTEMPTS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, 2, cfg.AIMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.AIBaseDelay)
	assert.Equal(t, 50, cfg.AIMaxComparisons)
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kinship.yaml")
	content := `
server_port: "9090"
database_type: postgres
database_url: postgres://localhost/kinship
ai_base_delay: 250ms
gemini_model: gemini-2.0-flash
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.ServerPort, "environment wins over file")
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "postgres://localhost/kinship", cfg.DatabaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.AIBaseDelay)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero attempts", key: "AI_MAX_ATTEMPTS", value: "0"},
		{name: "too many attempts", key: "AI_MAX_ATTEMPTS", value: "64"},
		{name: "zero rate limit", key: "RATE_LIMIT_REQUESTS", value: "0"},
		{name: "negative upload size", key: "UPLOAD_MAX_SIZE", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
