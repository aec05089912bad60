package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tempus/internal/i18n"
	"github.com/balkashynov/tempus/internal/parser"
	"github.com/balkashynov/tempus/internal/prefs"
	"github.com/balkashynov/tempus/internal/store"
	"github.com/balkashynov/tempus/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [task text]",
	Short: "Add a new task",
	Long: `Add a new task to the matrix.

Modes:
  Interactive: tempus add (opens the chat capture)
  Quick: tempus add "Task text" -i -u

Smart parsing syntax:
  +important, +imp, +i   Mark as important
  +urgent, +urg, +u      Mark as urgent
  @q1 .. @q4             Put the task straight into a quadrant`,
	Args: cobra.ArbitraryArgs,
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		isImportant, _ := cmd.Flags().GetBool("important")
		isUrgent, _ := cmd.Flags().GetBool("urgent")

		// No text means the chat capture, with the flags as initial toggles
		if len(args) == 0 {
			return tui.RunCaptureTUI(s, isImportant, isUrgent)
		}

		capture := parser.ParseCapture(strings.Join(args, " "))
		for _, warning := range capture.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s\n", warning)
		}

		// Flags and markers add up, an explicit quadrant wins
		isImportant = isImportant || capture.IsImportant
		isUrgent = isUrgent || capture.IsUrgent
		if capture.Quadrant != "" {
			isImportant, isUrgent = capture.Quadrant.Flags()
		}

		task, err := s.Create(cmd.Context(), capture.Text, isImportant, isUrgent)
		if err != nil {
			return err
		}

		ack := i18n.Acknowledge(task, prefs.Current().Language)
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s\n", ack.Message)
		fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", shortID(task.ID))
		return nil
	}),
}

func init() {
	addCmd.Flags().BoolP("important", "i", false, "Mark the task as important")
	addCmd.Flags().BoolP("urgent", "u", false, "Mark the task as urgent")
}
