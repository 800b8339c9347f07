// Package main implements the gx CLI, the GuideX personal growth dashboard.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "gx",
	Short:        "GuideX - goals, journal, focus sessions and an AI mentor",
	SilenceUsage: true,
}

func init() {
	cobra.OnFinalize(closeApp)
}
