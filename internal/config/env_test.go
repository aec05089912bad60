package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"LOG_LEVEL", "LANGUAGE", "THEME", "STORAGE_TYPE", "DATA_DIR", "ASYNC_WRITES", "HTTP_HOST", "HTTP_PORT"} {
		// Setenv registers the restore, Unsetenv makes the default apply
		t.Setenv("TEMPUS_"+key, "")
		require.NoError(t, os.Unsetenv("TEMPUS_"+key))
	}

	env, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", env.Type)
	assert.Equal(t, filepath.Join(home, ".tempus"), env.DataDir)
	assert.False(t, env.AsyncWrites)
	assert.Equal(t, slog.LevelWarn, env.SlogLevel())
	assert.Equal(t, "127.0.0.1:3100", env.Addr())
}

func TestLoadEnv_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEMPUS_DATA_DIR", dir)
	t.Setenv("TEMPUS_STORAGE_TYPE", "snapshot")
	t.Setenv("TEMPUS_ASYNC_WRITES", "true")
	t.Setenv("TEMPUS_LOG_LEVEL", "debug")
	t.Setenv("TEMPUS_LANGUAGE", "en")
	t.Setenv("TEMPUS_HTTP_PORT", "8080")

	env, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, dir, env.DataDir)
	assert.Equal(t, "snapshot", env.Type)
	assert.True(t, env.AsyncWrites)
	assert.Equal(t, slog.LevelDebug, env.SlogLevel())
	assert.Equal(t, "en", env.Language)
	assert.Equal(t, "127.0.0.1:8080", env.Addr())
}

func TestLoadEnv_InvalidBool(t *testing.T) {
	t.Setenv("TEMPUS_ASYNC_WRITES", "sometimes")

	_, err := LoadEnv()
	assert.Error(t, err)
}

func TestSlogLevel_Fallback(t *testing.T) {
	env := &BaseEnv{LogLevel: "chatty"}
	assert.Equal(t, slog.LevelWarn, env.SlogLevel())

	var nilEnv *BaseEnv
	assert.Equal(t, slog.LevelWarn, nilEnv.SlogLevel())
}

func TestResolveDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := ResolveDataDir("~/tasks")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tasks"), dir)

	dir, err = ResolveDataDir("  ")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".tempus"), dir)

	dir, err = ResolveDataDir("/var/lib/tempus/")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tempus", dir)
}
