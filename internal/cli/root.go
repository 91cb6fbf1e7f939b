// Package cli implements the musichub command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const appName = "musichub"

// Persistent flag names.
const (
	flagConfig   = "config"
	flagDatabase = "database"
	flagLogLevel = "log-level"
)

func init() {
	rootCmd.SetOut(os.Stdout)

	rootCmd.PersistentFlags().StringP(flagConfig, "c", "", "Read settings from this file after the default locations")
	lo.Must0(rootCmd.MarkPersistentFlagFilename(flagConfig, "toml"))

	rootCmd.PersistentFlags().String(flagDatabase, "", "Use this catalog database instead of the configured one")
	lo.Must0(rootCmd.MarkPersistentFlagFilename(flagDatabase, "db"))

	rootCmd.PersistentFlags().String(flagLogLevel, "", "Override the configured log level (debug, info, warn, error)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc(flagLogLevel, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "A terminal music player with a shared playback session",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args)
	},
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		_, _ = fmt.Fprintf(os.Stderr, "%s: %s\n", appName, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
