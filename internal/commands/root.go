package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tempus/internal/config"
	"github.com/balkashynov/tempus/internal/db"
	"github.com/balkashynov/tempus/internal/prefs"
	"github.com/balkashynov/tempus/internal/store"
	"github.com/balkashynov/tempus/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Flag values shared by every subcommand
var (
	dataDirFlag string
	storageFlag string
)

var (
	env    *config.Env
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "tempus",
	Short: "An Eisenhower matrix for your terminal",
	Long: `tempus sorts your tasks into four quadrants by importance and urgency.
Capture tasks in a chat-style prompt, then work through them on the matrix board.

Running tempus with no command opens the matrix.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              withStore(runMatrix),
}

func runMatrix(cmd *cobra.Command, args []string, s *store.Store) error {
	return tui.RunMatrixTUI(s)
}

// setup loads the environment, applies flag overrides, configures logging
// and restores the display preferences
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadEnv()
	if err != nil {
		return err
	}

	if dataDirFlag != "" {
		dir, err := config.ResolveDataDir(dataDirFlag)
		if err != nil {
			return err
		}
		loaded.DataDir = dir
	}
	if storageFlag != "" {
		loaded.StorageEnv.Type = storageFlag
	}
	env = loaded

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: env.SlogLevel()}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(env.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// A bad prefs file is not fatal, the defaults take over
	overrides := prefs.Settings{Language: prefs.Language(env.Language), Theme: prefs.Theme(env.Theme)}
	if _, err := prefs.Init(filepath.Join(env.DataDir, prefs.FileName), overrides); err != nil {
		logger.Warn("failed to load preferences", "error", err)
	}
	return nil
}

// openStore opens the configured adapter and restores the task collection.
// The returned func closes both and must always be called.
func openStore(ctx context.Context) (*store.Store, func(), error) {
	adapter, err := db.Open(db.Options{
		Storage:     env.StorageEnv.Type,
		DataDir:     env.DataDir,
		AsyncWrites: env.AsyncWrites,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, err
	}

	s, err := store.Open(ctx, adapter, store.WithLogger(logger))
	if err != nil {
		_ = adapter.Close()
		return nil, nil, err
	}

	return s, func() {
		if err := s.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}, nil
}

// withStore wraps a command function to open the store first
func withStore(fn func(*cobra.Command, []string, *store.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, closeStore, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return fn(cmd, args, s)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data directory (default $TEMPUS_DATA_DIR or ~/.tempus)")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "Storage strategy: sqlite or snapshot (default $TEMPUS_STORAGE_TYPE)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(subCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
