package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	deleteForce bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <chat-id>",
	Short: "Delete a chat session",
	Long: `Delete a chat session and all of its messages.

Requires confirmation unless --force is used.

Examples:
  autolinked delete chat-42
  autolinked delete chat-42 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	chatID := args[0]
	ctx := context.Background()

	// Confirm deletion
	if !deleteForce {
		fmt.Printf("About to delete chat %s and all of its messages.\n", chatID)
		fmt.Print("\nContinue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))

		if response != "y" && response != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	confirmation, err := gwClient.DeleteChat(ctx, chatID)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}

	fmt.Println(confirmation)
	return nil
}
