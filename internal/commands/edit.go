package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tempus/internal/i18n"
	"github.com/balkashynov/tempus/internal/models"
	"github.com/balkashynov/tempus/internal/prefs"
	"github.com/balkashynov/tempus/internal/store"
)

var editCmd = &cobra.Command{
	Use:   "edit <task-id> <new text>",
	Short: "Rename a task",
	Long: `Replace the text of a task.

Usage:
  tempus edit 3f2a9c1d "Finish the quarterly report"`,
	Args: cobra.MinimumNArgs(2),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		task, err := resolveTask(s.List(), args[0])
		if err != nil {
			return err
		}

		task, err = s.Rename(cmd.Context(), task.ID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Renamed task %s: %s\n", shortID(task.ID), task.Text)
		return nil
	}),
}

var moveCmd = &cobra.Command{
	Use:     "mv <task-id> <quadrant>",
	Aliases: []string{"move"},
	Short:   "Move a task to another quadrant",
	Long: `Move a task to another quadrant. This rewrites its importance and urgency.

Quadrants:
  q1  Do First (important, urgent)
  q2  Schedule (important, not urgent)
  q3  Delegate (not important, urgent)
  q4  Eliminate (not important, not urgent)`,
	Args: cobra.ExactArgs(2),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		task, err := resolveTask(s.List(), args[0])
		if err != nil {
			return err
		}
		q, err := models.ParseQuadrant(strings.TrimPrefix(args[1], "@"))
		if err != nil {
			return err
		}

		task, err = s.MoveToQuadrant(cmd.Context(), task.ID, q)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "➡️  Moved task %s to %s\n", shortID(task.ID), i18n.QuadrantLabel(prefs.Current().Language, q))
		return nil
	}),
}

var removeCmd = &cobra.Command{
	Use:     "rm <task-id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a task and its sub-tasks",
	Args:    cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		task, err := resolveTask(s.List(), args[0])
		if err != nil {
			return err
		}
		if err := s.Remove(cmd.Context(), task.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted task %s: %s\n", shortID(task.ID), task.Text)
		return nil
	}),
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Open the interactive matrix board",
	Args:  cobra.NoArgs,
	RunE:  withStore(runMatrix),
}
