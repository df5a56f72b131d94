package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	postFile  string
	postMedia string
)

var postCmd = &cobra.Command{
	Use:   "post [text]",
	Short: "Publish a post to LinkedIn",
	Long: `Publish a post to your LinkedIn feed.

The post text comes from the argument, --file, or stdin, in that order.
Attach an image with --media; it is uploaded before the post is created.
Publishing needs a credential backend configured via publish_url or
AUTOLINKED_PUBLISH_URL.

Examples:
  autolinked post "Excited to share..."
  autolinked post --file draft.md
  cat draft.md | autolinked post
  autolinked post --file draft.md --media team.png`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPost,
}

func init() {
	postCmd.Flags().StringVarP(&postFile, "file", "F", "", "read post text from file")
	postCmd.Flags().StringVarP(&postMedia, "media", "m", "", "attach an image file")
}

func runPost(cmd *cobra.Command, args []string) error {
	text, err := postText(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to post")
	}

	ctx := context.Background()
	publisher := getPublisher()

	creds, err := publisher.Exchange(ctx, cfg.UserID)
	if err != nil {
		return fmt.Errorf("exchange credentials: %w", err)
	}

	var mediaURN string
	if postMedia != "" {
		data, err := os.ReadFile(postMedia)
		if err != nil {
			return fmt.Errorf("read media file: %w", err)
		}
		mediaURN, err = publisher.UploadImage(ctx, creds, data)
		if err != nil {
			return fmt.Errorf("upload media: %w", err)
		}
		logger.Info("media uploaded", "urn", mediaURN)
	}

	if err := publisher.Post(ctx, creds, text, mediaURN); err != nil {
		return fmt.Errorf("publish post: %w", err)
	}

	fmt.Println("Posted to LinkedIn.")
	return nil
}

// postText resolves the post body from the argument, --file, or stdin.
func postText(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if postFile != "" {
		data, err := os.ReadFile(postFile)
		if err != nil {
			return "", fmt.Errorf("read post file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
