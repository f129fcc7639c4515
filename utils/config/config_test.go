package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
version = 1

[bot]
name = "Maplist Bot"
view_lifetime = "10m"

[api]
base_url = "https://api.example.com"
timeout = "3s"

[maplist]
guild_id = "1162188507800944761"
list_mod_roles = ["1", "2"]

[maplist.list_vote]
channel_id = "10"
role_id = "20"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Bot.ViewLifetime)
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, []string{"1", "2"}, cfg.Maplist.ListModRoles)
	assert.Equal(t, VoteChannel{ChannelID: "10", RoleID: "20"}, cfg.Maplist.ListVote)

	// untouched keys keep their defaults
	assert.Equal(t, 36*time.Hour, cfg.Maplist.VoteDuration)
	assert.Equal(t, "https://data.ninjakiwi.com", cfg.API.NinjaKiwiURL)
}

func TestLoadRejectsOtherVersions(t *testing.T) {
	_, err := Load(writeConfig(t, "version = 7\n"))
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(ENV_LOG_LEVEL, "debug")
	t.Setenv(ENV_TIMEOUT, "250ms")
	t.Setenv(ENV_DATA_PATH, "  ")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.API.Timeout)
	assert.Equal(t, "data", cfg.Storage.DataPath, "blank variables are ignored")

	t.Setenv(ENV_TIMEOUT, "soon")
	assert.Error(t, cfg.ApplyEnv())
}

func TestPaths(t *testing.T) {
	cfg := Default()

	assert.Equal(t, filepath.Join("data", "cogstate"), cfg.StateDir())
	assert.Equal(t, "http://localhost:5000/map/ABCDEFG.jpg", cfg.PreviewURL("ABCDEFG"))
	assert.Equal(t, "http://localhost:3000/map/ABCDEFG", cfg.MapURL("ABCDEFG"))
}
