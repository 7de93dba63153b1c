package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9090
knowledge:
  path: "testdata/kb.json"
embedding:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "testdata/kb.json", cfg.Knowledge.Path)
	assert.False(t, cfg.Embedding.Enabled)
	// Untouched fields keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"no origins", func(c *Config) { c.Server.AllowedOrigins = nil }},
		{"no knowledge path", func(c *Config) { c.Knowledge.Path = "" }},
		{"bad base url", func(c *Config) { c.Embedding.BaseURL = "::not-a-url" }},
		{"no model", func(c *Config) { c.Embedding.Model = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDisabledEmbeddingSkipsValidation(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Enabled = false
	cfg.Embedding.Model = ""
	assert.NoError(t, cfg.Validate())
}

func TestAPIKeyFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey())

	cfg.Embedding.APIKeyEnv = ""
	assert.Empty(t, cfg.Embedding.APIKey())
}
