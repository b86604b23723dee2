package cli

import (
	"os"

	"github.com/spf13/cobra"
)

const releaseVersion = "0.1.0"

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "crossfire",
		Short: "Crossword trivia duel server and client",
		Long: `crossfire runs the crossword trivia duel: a shared crossword where each
completed word earns a trivia question and the letter score doubles on a
correct answer.

The serve command runs the API and websocket relay; the remaining
commands talk to a running server or play a headless game locally.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
		Version:      releaseVersion,
	}
	rootCmd.SetVersionTemplate("crossfire v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: CROSSFIRE_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRoomCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newHealthCmd())

	applyEnv(rootCmd)

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
