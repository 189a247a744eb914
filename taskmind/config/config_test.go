package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/taskmind.db", cfg.Database.Path)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.OpenRouter.Timeout)
	assert.Equal(t, 50, cfg.Chat.HistoryLimit)
	assert.Equal(t, float32(0.7), cfg.Chat.Temperature)
	assert.Equal(t, 1000, cfg.Chat.MaxTokens)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
database:
  path: /tmp/tasks.db
openrouter:
  model: anthropic/claude-3-haiku
chat:
  history_limit: 10
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/tasks.db", cfg.Database.Path)
	assert.Equal(t, "anthropic/claude-3-haiku", cfg.OpenRouter.Model)
	assert.Equal(t, 10, cfg.Chat.HistoryLimit)
	// Untouched keys keep their defaults.
	assert.Equal(t, 1000, cfg.Chat.MaxTokens)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sk-or-test", cfg.OpenRouter.APIKey)
	assert.Equal(t, 7070, cfg.Server.Port)
}
