package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balkashynov/tempus/internal/i18n"
	"github.com/balkashynov/tempus/internal/models"
	"github.com/balkashynov/tempus/internal/prefs"
	"github.com/balkashynov/tempus/internal/store"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long:    "List tasks grouped by quadrant, newest first, with optional quadrant and status filters",
	Args:    cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		quadrantFlag, _ := cmd.Flags().GetString("quadrant")
		pending, _ := cmd.Flags().GetBool("pending")
		asJSON, _ := cmd.Flags().GetBool("json")

		quadrants := models.Quadrants
		if quadrantFlag != "" {
			q, err := models.ParseQuadrant(quadrantFlag)
			if err != nil {
				return err
			}
			quadrants = []models.Quadrant{q}
		}

		matrix := s.Matrix()
		if asJSON {
			var tasks []models.Task
			for _, q := range quadrants {
				tasks = append(tasks, filterPending(matrix.Get(q), pending)...)
			}
			if tasks == nil {
				tasks = []models.Task{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tasks)
		}

		printMatrix(cmd.OutOrStdout(), matrix, quadrants, pending, prefs.Current().Language)
		return nil
	}),
}

func filterPending(tasks []models.Task, pending bool) []models.Task {
	if !pending {
		return tasks
	}
	var out []models.Task
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func printMatrix(w io.Writer, matrix models.Matrix, quadrants []models.Quadrant, pending bool, lang prefs.Language) {
	for i, q := range quadrants {
		if i > 0 {
			fmt.Fprintln(w)
		}
		tasks := filterPending(matrix.Get(q), pending)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s  %s (%d)", strings.ToUpper(string(q)), i18n.QuadrantTitle(lang, q), len(tasks))))

		if len(tasks) == 0 {
			fmt.Fprintf(w, "  %s\n", i18n.T(lang, i18n.KeyNoTasks))
			continue
		}
		for _, t := range tasks {
			printTask(w, t)
		}
	}
}

func printTask(w io.Writer, t models.Task) {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}

	line := fmt.Sprintf("  %-8s %s %s", shortID(t.ID), mark, t.Text)
	if len(t.SubTasks) > 0 {
		line += fmt.Sprintf(" (%d/%d)", t.CompletedSubTasks(), len(t.SubTasks))
	}
	fmt.Fprintln(w, line)

	for i, sub := range t.SubTasks {
		subMark := "[ ]"
		if sub.Completed {
			subMark = "[x]"
		}
		fmt.Fprintf(w, "  %8s   %d. %s %s\n", "", i+1, subMark, sub.Text)
	}
}

func init() {
	listCmd.Flags().StringP("quadrant", "q", "", "Show one quadrant: q1, q2, q3 or q4")
	listCmd.Flags().BoolP("pending", "p", false, "Hide completed tasks")
	listCmd.Flags().Bool("json", false, "JSON output")
}
