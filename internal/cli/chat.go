package cli

import (
	"context"
	"fmt"

	"github.com/SartoDev/auto-linked/internal/session"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [chat-id]",
	Short: "Open the interactive chat view",
	Long: `Open the interactive chat view.

Without an argument the view starts on the home screen; the first message
creates a new chat named after it. Passing a chat id resumes that
conversation with its full history.

Keys:
  enter        send message / select chat
  tab          switch between input and sidebar
  r            rename the selected chat
  d            delete the selected chat (y/n to confirm)
  ctrl+p       post the latest reply to LinkedIn
  ctrl+c       quit

Examples:
  autolinked chat
  autolinked chat chat-42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	m, err := getModel(ctx)
	if err != nil {
		return err
	}

	chatID := ""
	if len(args) == 1 {
		chatID = args[0]
	}

	if err := runChatView(gwClient, session.NewStreamer(m), chatID); err != nil {
		return fmt.Errorf("chat view: %w", err)
	}
	return nil
}
