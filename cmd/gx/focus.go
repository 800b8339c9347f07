package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amonks/guidex/internal/listflags"
	"github.com/amonks/guidex/session"
	"github.com/spf13/cobra"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Track a focus session on this device",
}

var focusStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a focus session",
	Args:  cobra.NoArgs,
	RunE:  runFocusStart,
}

var focusStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the focus session",
	Args:  cobra.NoArgs,
	RunE:  runFocusStop,
}

var focusStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the focus session",
	Args:  cobra.NoArgs,
	RunE:  runFocusStatus,
}

var (
	focusStatusJSON  bool
	focusStatusWatch bool
)

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.AddCommand(focusStartCmd, focusStopCmd, focusStatusCmd)

	listflags.AddJSONFlag(focusStatusCmd, &focusStatusJSON)
	focusStatusCmd.Flags().BoolVarP(&focusStatusWatch, "watch", "w", false, "Update the elapsed time every second")
}

func runFocusStart(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	status, err := a.timer().Start()
	if errors.Is(err, session.ErrSessionAlreadyActive) {
		return fmt.Errorf("%w (started %s)", err, status.StartedAt.Local().Format(time.Kitchen))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Focus session started at %s\n", status.StartedAt.Local().Format(time.Kitchen))
	return nil
}

func runFocusStop(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	elapsed, err := a.timer().Stop()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Focus session ended after %s\n", session.FormatElapsed(elapsed))
	return nil
}

type focusStatusOutput struct {
	session.Status
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	Elapsed        string `json:"elapsed"`
}

func runFocusStatus(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	timer := a.timer()

	if focusStatusWatch {
		out := cmd.OutOrStdout()
		err := timer.Watch(cmd.Context(), time.Second, func(status session.Status, elapsed time.Duration) {
			fmt.Fprintf(out, "\r%s %s   ", status.State, session.FormatElapsed(elapsed))
		})
		fmt.Fprintln(out)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	status, err := timer.Status()
	if err != nil {
		return err
	}
	elapsed := status.ElapsedAt(now())
	if focusStatusJSON {
		return writeJSON(cmd.OutOrStdout(), focusStatusOutput{
			Status:         status,
			ElapsedSeconds: int64(elapsed.Seconds()),
			Elapsed:        session.FormatElapsed(elapsed),
		})
	}
	if !status.Active() {
		fmt.Fprintln(cmd.OutOrStdout(), "No focus session running.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Focusing for %s (since %s)\n", session.FormatElapsed(elapsed), status.StartedAt.Local().Format(time.Kitchen))
	return nil
}
