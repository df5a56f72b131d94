package cli

import (
	"fmt"

	"github.com/SartoDev/auto-linked/internal/config"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme [dark|light]",
	Short: "Show or set the chat view theme",
	Long: `Show or set the chat view theme.

The choice is saved to the config file and picked up by 'autolinked chat'.

Examples:
  autolinked theme
  autolinked theme light`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light"},
	RunE:      runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println(cfg.Theme)
		return nil
	}

	name := args[0]
	if name != "dark" && name != "light" {
		return fmt.Errorf("unknown theme: %s", name)
	}
	if err := config.SaveTheme(name); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}

	fmt.Printf("Theme set to %s.\n", name)
	return nil
}
