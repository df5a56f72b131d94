package cli

import (
	"context"
	"fmt"

	"github.com/SartoDev/auto-linked/internal/models"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <chat-id> <name>",
	Short: "Rename a chat session",
	Long: `Rename a chat session.

Examples:
  autolinked rename chat-42 "Q3 launch post"`,
	Args: cobra.ExactArgs(2),
	RunE: runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	chatID, name := args[0], args[1]
	ctx := context.Background()

	confirmation, err := gwClient.RenameChat(ctx, chatID, models.NewChat(cfg.UserID, name))
	if err != nil {
		return fmt.Errorf("rename chat: %w", err)
	}

	fmt.Println(confirmation)
	return nil
}
