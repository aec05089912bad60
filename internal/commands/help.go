package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for tempus",
	Long:  `Display detailed help for all tempus commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), helpText)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tempus %s (commit %s, built %s)\n", version, commit, date)
	},
}

const helpText = `
████████╗███████╗███╗   ███╗██████╗ ██╗   ██╗███████╗
╚══██╔══╝██╔════╝████╗ ████║██╔══██╗██║   ██║██╔════╝
   ██║   █████╗  ██╔████╔██║██████╔╝██║   ██║███████╗
   ██║   ██╔══╝  ██║╚██╔╝██║██╔═══╝ ██║   ██║╚════██║
   ██║   ███████╗██║ ╚═╝ ██║██║     ╚██████╔╝███████║
   ╚═╝   ╚══════╝╚═╝     ╚═╝╚═╝      ╚═════╝ ╚══════╝

tempus - Eisenhower matrix task manager

QUADRANTS:

  q1  Do First    important, urgent
  q2  Schedule    important, not urgent
  q3  Delegate    not important, urgent
  q4  Eliminate   not important, not urgent

COMMANDS:

  (no command), matrix    Open the interactive matrix board

    Quick actions:
      ←/→ ↑/↓ h/j/k/l   Navigate tasks and quadrants
      tab               Next quadrant
      space             Toggle done
      enter             Expand or collapse sub-tasks
      1-4               Move to quadrant
      e                 Rename
      a                 Add sub-task
      n                 New task in the focused quadrant
      d                 Delete
      t                 Toggle day/night theme
      L                 Switch language
      esc/q             Quit

  add [text]              Add a task, or open the chat capture with no text
    -i, --important       Mark as important
    -u, --urgent          Mark as urgent

    Smart syntax:
      +important +urgent  Set the flags (+imp, +i, +urg, +u)
      @q1 .. @q4          Put the task straight into a quadrant

    Example:
      tempus add "Finish the report +important +urgent"

  ls                      List tasks by quadrant
    -q, --quadrant        Show one quadrant
    -p, --pending         Hide completed tasks
    --json                JSON output

  done <id>               Mark task as completed
  undone <id>             Mark task as pending
  edit <id> <text>        Rename a task
  mv <id> <quadrant>      Move a task to another quadrant
  rm <id>                 Delete a task

  sub add <id> <text>           Add a sub-task
  sub done <id> <n>             Toggle sub-task n
  sub edit <id> <n> <text>      Rename sub-task n

  config                  Show preferences
  config lang <en|zh>     Set the display language
  config theme <light|dark|toggle>

  serve                   Serve the JSON API and event stream
    --addr                Listen address (default 127.0.0.1:3100)

  version                 Print version information
  help                    Show this help

Task ids can be shortened to their first characters, at least 4.

GLOBAL FLAGS:

  --data-dir              Data directory (default ~/.tempus)
  --storage               sqlite or snapshot

ENVIRONMENT:

  TEMPUS_DATA_DIR, TEMPUS_STORAGE_TYPE, TEMPUS_ASYNC_WRITES,
  TEMPUS_LANGUAGE, TEMPUS_THEME, TEMPUS_LOG_LEVEL,
  TEMPUS_HTTP_HOST, TEMPUS_HTTP_PORT

`
