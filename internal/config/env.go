package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
	Language string `envconfig:"LANGUAGE"`
	Theme    string `envconfig:"THEME"`
}

type StorageEnv struct {
	Type        string `envconfig:"STORAGE_TYPE" default:"sqlite"`
	DataDir     string `envconfig:"DATA_DIR"`
	AsyncWrites bool   `envconfig:"ASYNC_WRITES" default:"false"`
}

type HTTPEnv struct {
	Host string `envconfig:"HTTP_HOST" default:"127.0.0.1"`
	Port string `envconfig:"HTTP_PORT" default:"3100"`
}

type Env struct {
	BaseEnv
	StorageEnv
	HTTPEnv
}

const namespace = "TEMPUS"

// LoadEnv reads TEMPUS_* variables. An unset data dir resolves to ~/.tempus.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	dir, err := ResolveDataDir(env.DataDir)
	if err != nil {
		return nil, err
	}
	env.DataDir = dir
	return &env, nil
}

// DefaultDataDir returns ~/.tempus
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tempus"), nil
}

// ResolveDataDir expands a leading ~ and falls back to the default when dir is empty
func ResolveDataDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return DefaultDataDir()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, strings.TrimPrefix(dir, "~"))
	}
	return filepath.Clean(dir), nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Addr is the listen address for the HTTP surface
func (e *HTTPEnv) Addr() string {
	return e.Host + ":" + e.Port
}
