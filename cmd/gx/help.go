package main

import (
	"fmt"
	"strings"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHelp,
}

var helpValuesCmd = &cobra.Command{
	Use:   "values",
	Short: "Show accepted goal statuses, categories and moods",
	Args:  cobra.NoArgs,
	RunE:  runHelpValues,
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
	helpCmd.AddCommand(helpValuesCmd)
}

func runHelp(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	if len(args) == 0 {
		return root.Help()
	}

	target, _, err := root.Find(args)
	if err != nil || target == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown help topic %q\n", strings.Join(args, " "))
		return root.Help()
	}

	return target.Help()
}

func runHelpValues(cmd *cobra.Command, args []string) error {
	var builder strings.Builder
	builder.WriteString("Goal statuses:\n")
	for _, status := range goal.ValidStatuses() {
		fmt.Fprintf(&builder, "  - %s\n", status)
	}

	categories := goal.DefaultCategories()
	if a, err := loadApp(cmd); err == nil {
		categories = a.cfg.GoalCategories()
	}
	builder.WriteString("\nGoal categories:\n")
	for _, category := range categories {
		fmt.Fprintf(&builder, "  - %s\n", category)
	}

	builder.WriteString("\nJournal moods:\n")
	for _, mood := range journal.KnownMoods() {
		fmt.Fprintf(&builder, "  - %s\n", mood)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}
