package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tempus/internal/store"
)

var subCmd = &cobra.Command{
	Use:     "sub",
	Aliases: []string{"subtask"},
	Short:   "Manage the sub-tasks of a task",
	Long: `Manage the checklist under a task.

Sub-tasks are addressed by their position as shown in 'tempus ls' or by id.

Usage:
  tempus sub add 3f2a9c1d "Collect numbers"
  tempus sub done 3f2a9c1d 1
  tempus sub edit 3f2a9c1d 1 "Collect Q3 numbers"`,
}

var subAddCmd = &cobra.Command{
	Use:   "add <task-id> <text>",
	Short: "Add a sub-task",
	Args:  cobra.MinimumNArgs(2),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		task, err := resolveTask(s.List(), args[0])
		if err != nil {
			return err
		}
		sub, err := s.AddSubTask(cmd.Context(), task.ID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added sub-task to %s: %s\n", shortID(task.ID), sub.Text)
		return nil
	}),
}

var subDoneCmd = &cobra.Command{
	Use:   "done <task-id> <sub-task>",
	Short: "Toggle a sub-task between done and pending",
	Args:  cobra.ExactArgs(2),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		task, err := resolveTask(s.List(), args[0])
		if err != nil {
			return err
		}
		sub, err := resolveSubTask(task, args[1])
		if err != nil {
			return err
		}
		if sub, err = s.ToggleSubTask(cmd.Context(), task.ID, sub.ID); err != nil {
			return err
		}

		if sub.Completed {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Sub-task done: %s\n", sub.Text)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "↩️  Sub-task pending: %s\n", sub.Text)
		}
		return nil
	}),
}

var subEditCmd = &cobra.Command{
	Use:   "edit <task-id> <sub-task> <new text>",
	Short: "Rename a sub-task",
	Args:  cobra.MinimumNArgs(3),
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		task, err := resolveTask(s.List(), args[0])
		if err != nil {
			return err
		}
		sub, err := resolveSubTask(task, args[1])
		if err != nil {
			return err
		}
		if sub, err = s.RenameSubTask(cmd.Context(), task.ID, sub.ID, strings.Join(args[2:], " ")); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Renamed sub-task: %s\n", sub.Text)
		return nil
	}),
}

func init() {
	subCmd.AddCommand(subAddCmd)
	subCmd.AddCommand(subDoneCmd)
	subCmd.AddCommand(subEditCmd)
}
