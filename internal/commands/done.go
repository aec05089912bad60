package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tempus/internal/store"
)

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		return setCompleted(cmd, s, args[0], true)
	}),
}

var undoneCmd = &cobra.Command{
	Use:   "undone <task-id>",
	Short: "Mark a completed task as pending again",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		return setCompleted(cmd, s, args[0], false)
	}),
}

// setCompleted toggles only when the task is not already in the wanted state
func setCompleted(cmd *cobra.Command, s *store.Store, ref string, completed bool) error {
	task, err := resolveTask(s.List(), ref)
	if err != nil {
		return err
	}

	if task.Completed != completed {
		if task, err = s.ToggleCompletion(cmd.Context(), task.ID); err != nil {
			return err
		}
	}

	if completed {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Marked task %s as done: %s\n", shortID(task.ID), task.Text)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "↩️  Marked task %s back to pending: %s\n", shortID(task.ID), task.Text)
	}
	return nil
}
