package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestDeadlineAliasUsesSingleFlag(t *testing.T) {
	var deadline string
	cmd := &cobra.Command{Use: "example"}
	addDeadlineFlagAliases(cmd)
	cmd.Flags().StringVar(&deadline, "deadline", "", "Example deadline")

	if err := cmd.Flags().Set("due", "2026-03-10"); err != nil {
		t.Fatalf("set due alias: %v", err)
	}
	if deadline != "2026-03-10" {
		t.Fatalf("expected deadline to be set via alias, got %q", deadline)
	}
	if !cmd.Flags().Changed("deadline") {
		t.Fatal("expected deadline flag to be marked as changed")
	}

	usage := cmd.Flags().FlagUsages()
	if strings.Contains(usage, "--due ") {
		t.Fatalf("did not expect alias to appear in usage, got %q", usage)
	}
}
