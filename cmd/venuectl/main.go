// Package main provides the venuectl CLI entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/venuedex/internal/config"
	"github.com/kailas-cloud/venuedex/internal/version"
	venuedex "github.com/kailas-cloud/venuedex/pkg/sdk"
)

// ExitError is the process status for any failed command.
const ExitError = 1

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	envName     string
	verbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "venuectl",
	Short: "Search and maintain bookmarked venues",
	Long: `venuectl talks to the venuedex store directly through the Go SDK.

It reads the same config/<env>.yaml as the API server. All commands print
JSON by default; pass --human for a readable summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&envName, "env", config.GetEnv(), "Configuration environment (config/<env>.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every SDK operation to stderr")
	rootCmd.Version = version.String()
}

// openClient connects the SDK using the selected environment.
func openClient(ctx context.Context) (*venuedex.Client, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client, err := venuedex.New(ctx,
		venuedex.WithEnvironment(envName),
		venuedex.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return client, nil
}
