package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"empty host", func(c *Config) { c.Server.Host = "" }},
		{"zero rate limit", func(c *Config) { c.Server.RateLimit = 0 }},
		{"zero message size", func(c *Config) { c.Server.MaxMessageSize = 0 }},
		{"short room code", func(c *Config) { c.Game.RoomCodeLength = 2 }},
		{"negative night duration", func(c *Config) { c.Game.NightDuration = -time.Second }},
		{"zero selection window", func(c *Config) { c.Game.TeamSelectionWindow = 0 }},
		{"zero ended TTL", func(c *Config) { c.Game.EndedRoomTTL = 0 }},
		{"zero janitor interval", func(c *Config) { c.Game.JanitorInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Game.RoomCodeLength)
	assert.Equal(t, 5*time.Second, cfg.Game.NightDuration)
	assert.Equal(t, 3*time.Minute, cfg.Game.TeamSelectionWindow)
}

func TestLoad_FromFile(t *testing.T) {
	doc := map[string]any{
		"server": map[string]any{
			"port":     "8080",
			"logLevel": "debug",
		},
		"game": map[string]any{
			"roomCodeLength": 6,
			"nightDuration":  "10s",
		},
	}
	raw, err := yaml.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 6, cfg.Game.RoomCodeLength)
	assert.Equal(t, 10*time.Second, cfg.Game.NightDuration)

	// Everything the file does not mention keeps its default.
	assert.Equal(t, 4*time.Second, cfg.Game.VoteResultDelay)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	raw, err := yaml.Marshal(map[string]any{
		"server": map[string]any{"port": "8080"},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	raw, err := yaml.Marshal(map[string]any{
		"game": map[string]any{"roomCodeLength": 1},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = Load(path)
	assert.Error(t, err)
}
