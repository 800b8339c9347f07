package listflags

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestSharedFlags(t *testing.T) {
	var all, asJSON bool
	cmd := &cobra.Command{Use: "list", RunE: func(*cobra.Command, []string) error { return nil }}
	AddAllFlag(cmd, &all)
	AddJSONFlag(cmd, &asJSON)

	if err := cmd.ParseFlags([]string{"-a", "--json"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if !all || !asJSON {
		t.Fatalf("expected both flags set, got all=%v json=%v", all, asJSON)
	}
}
