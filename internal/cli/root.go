// Package cli provides the command-line interface for autolinked.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SartoDev/auto-linked/internal/config"
	"github.com/SartoDev/auto-linked/internal/gateway"
	"github.com/SartoDev/auto-linked/internal/llm"
	"github.com/SartoDev/auto-linked/internal/publish"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and gateway client
	cfg      config.Config
	gwClient *gateway.Client
	logger   *slog.Logger

	logCleanup func() error

	// Lazy-initialized LLM model
	model *llm.Model
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "autolinked",
	Short: "AI-assisted LinkedIn post writing from your terminal",
	Long: `Autolinked is a chat client for drafting LinkedIn posts with an AI
assistant. Conversations are stored through a remote chat API, replies
stream in as they are generated, and any reply can be published straight
to LinkedIn.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		gwClient = gateway.New(cfg.APIBaseURL)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// getModel initializes the LLM model on first use. Commands that never talk
// to the model (list, rename, delete, post) skip provider setup entirely.
func getModel(ctx context.Context) (*llm.Model, error) {
	if model == nil {
		var err error
		model, err = llm.NewModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("init model: %w", err)
		}
	}
	return model, nil
}

// getPublisher creates a publish client from the current config.
func getPublisher() *publish.Client {
	return publish.New(cfg.PublishURL, cfg.LinkedInAPIURL, cfg.LinkedInVersion)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(themeCmd)
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
