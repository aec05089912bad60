package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/balkashynov/tempus/internal/prefs"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change display preferences",
	Long: `Show or change the display language and theme.

Preferences are stored in prefs.yaml inside the data directory.
TEMPUS_LANGUAGE and TEMPUS_THEME override them for a single run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd)
	},
}

var configLangCmd = &cobra.Command{
	Use:       "lang <en|zh>",
	Short:     "Set the display language",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(prefs.LanguageEnglish), string(prefs.LanguageChinese)},
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := prefs.SetLanguage(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Language set to %s\n", settings.Language)
		return nil
	},
}

var configThemeCmd = &cobra.Command{
	Use:       "theme <light|dark|toggle>",
	Short:     "Set or toggle the theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(prefs.ThemeLight), string(prefs.ThemeDark), "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			settings prefs.Settings
			err      error
		)
		if args[0] == "toggle" {
			settings, err = prefs.ToggleTheme()
		} else {
			settings, err = prefs.SetTheme(args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Theme set to %s\n", settings.Theme)
		return nil
	},
}

func showConfig(cmd *cobra.Command) error {
	out, err := yaml.Marshal(prefs.Current())
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "data_dir: %s\nstorage: %s\n%s", env.DataDir, env.StorageEnv.Type, out)
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configLangCmd)
	configCmd.AddCommand(configThemeCmd)
}
