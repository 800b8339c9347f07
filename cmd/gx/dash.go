package main

import (
	"github.com/amonks/guidex/internal/dashtui"
	"github.com/spf13/cobra"
)

var dashCmd = &cobra.Command{
	Use:     "dash",
	Aliases: []string{"dashboard"},
	Short:   "Open the interactive dashboard",
	Args:    cobra.NoArgs,
	RunE:    runDash,
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

func runDash(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	board, err := a.openBoard(cmd.Context(), true)
	if err != nil {
		return err
	}
	return dashtui.Run(cmd.Context(), dashtui.Options{
		Board: board,
		Timer: a.timer(),
	})
}
