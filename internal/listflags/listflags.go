// Package listflags registers the flags shared by gx's listing commands.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds --all, which includes completed and on-hold goals.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVarP(target, "all", "a", false, "Include completed and on-hold goals")
}

// AddJSONFlag adds --json for machine-readable output.
func AddJSONFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "json", false, "Output as JSON")
}
