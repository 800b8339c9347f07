package main

import (
	"encoding/json"
	"io"

	"github.com/amonks/guidex/internal/ui"
	"github.com/spf13/cobra"
)

// writeJSON writes value as indented JSON, the format of every --json flag.
func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

// shouldUseEditor resolves --edit/--no-edit. Without either flag the
// editor opens only for interactive sessions that gave no field flags.
func shouldUseEditor(hasFlags, editFlag, noEditFlag, interactive bool) bool {
	switch {
	case editFlag:
		return true
	case noEditFlag, hasFlags:
		return false
	default:
		return interactive
	}
}

// idHighlighter returns a func that highlights each goal ID's shortest
// unique prefix, the part the CLI accepts as an abbreviation.
func idHighlighter(prefixLengths map[string]int, highlight func(string, int) string) func(string) string {
	return func(id string) string {
		if id == "" {
			return id
		}
		return highlight(id, ui.PrefixLength(prefixLengths, id))
	}
}
