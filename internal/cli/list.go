package cli

import (
	"context"
	"fmt"

	"github.com/SartoDev/auto-linked/internal/session"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your chat sessions",
	Long: `List your chat sessions, newest state from the server.

The first entry is always the home view for starting a new chat.

Examples:
  autolinked list
  autolinked list -v`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	list := session.NewList(gwClient, cfg.UserID, logger)
	if err := list.Refresh(ctx); err != nil {
		return fmt.Errorf("list chats: %w", err)
	}

	items := list.Items()
	fmt.Printf("Chats (%d):\n\n", len(items)-1)
	for _, item := range items {
		if item.Home() {
			fmt.Printf("* %s\n", item.Title)
			continue
		}
		fmt.Printf("- %s", item.Title)
		if verbose {
			fmt.Printf(" (%s)", item.ID)
		}
		fmt.Println()
	}

	return nil
}
