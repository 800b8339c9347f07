package main

import (
	"fmt"
	"strings"

	"github.com/amonks/guidex/internal/editor"
	"github.com/amonks/guidex/internal/listflags"
	"github.com/amonks/guidex/internal/ui"
	"github.com/amonks/guidex/profile"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileShowJSON bool

var profileEditCmd = &cobra.Command{
	Use:     "edit",
	Aliases: []string{"update"},
	Short:   "Edit your profile",
	Args:    cobra.NoArgs,
	RunE:    runProfileEdit,
}

var (
	profileEditName     string
	profileEditTitle    string
	profileEditBio      string
	profileEditLocation string
	profileEditWebsite  string
	profileEditEdit     bool
	profileEditNoEdit   bool
)

var profileInterestCmd = &cobra.Command{
	Use:   "interest",
	Short: "Manage profile interests",
}

var profileInterestAddCmd = &cobra.Command{
	Use:   "add <interest>...",
	Short: "Add an interest",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProfileInterestAdd,
}

var profileInterestRemoveCmd = &cobra.Command{
	Use:     "remove <interest>...",
	Aliases: []string{"rm"},
	Short:   "Remove an interest",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runProfileInterestRemove,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileEditCmd, profileInterestCmd)
	profileInterestCmd.AddCommand(profileInterestAddCmd, profileInterestRemoveCmd)

	listflags.AddJSONFlag(profileShowCmd, &profileShowJSON)

	profileEditCmd.Flags().StringVar(&profileEditName, "name", "", "Display name")
	profileEditCmd.Flags().StringVar(&profileEditTitle, "title", "", "Professional title")
	profileEditCmd.Flags().StringVar(&profileEditBio, "bio", "", "Short biography")
	profileEditCmd.Flags().StringVar(&profileEditLocation, "location", "", "Location")
	profileEditCmd.Flags().StringVar(&profileEditWebsite, "website", "", "Website")
	profileEditCmd.Flags().BoolVar(&profileEditEdit, "edit", false, "Open $EDITOR (default if interactive and no flags)")
	profileEditCmd.Flags().BoolVar(&profileEditNoEdit, "no-edit", false, "Do not open $EDITOR")
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	view := board.View()
	p := view.Profile
	p.OverallProgress = view.OverallProgress
	if profileShowJSON {
		return writeJSON(cmd.OutOrStdout(), p)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatProfile(p))
	return nil
}

func formatProfile(p profile.Profile) string {
	var b strings.Builder
	b.WriteString(ui.Heading(p.Name))
	if p.Title != "" {
		b.WriteString("  " + ui.Muted(p.Title))
	}
	b.WriteString("\n")
	rows := [][2]string{
		{"Email", p.Email},
		{"Location", p.Location},
		{"Website", p.Website},
	}
	for _, row := range rows {
		if row[1] != "" {
			fmt.Fprintf(&b, "%-10s %s\n", row[0]+":", row[1])
		}
	}
	fmt.Fprintf(&b, "%-10s %d days\n", "Streak:", p.Streak)
	fmt.Fprintf(&b, "%-10s %s\n", "Progress:", ui.ProgressBar(p.OverallProgress, 20))
	if len(p.Interests) > 0 {
		fmt.Fprintf(&b, "%-10s %s\n", "Interests:", strings.Join(p.Interests, ", "))
	}
	if p.Bio != "" {
		b.WriteString("\n" + renderMarkdownOrDash(p.Bio, terminalWidth()) + "\n")
	}
	return b.String()
}

func runProfileEdit(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}

	hasFlags := hasChangedFlags(cmd, "name", "title", "bio", "location", "website")
	useEditor := shouldUseEditor(hasFlags, profileEditEdit, profileEditNoEdit, editor.IsInteractive())
	if !useEditor && !hasFlags {
		return fmt.Errorf("at least one edit flag is required (use --edit to open editor)")
	}

	d := board.ProfileEditor()
	if err := d.Begin(); err != nil {
		return err
	}
	if err := d.Set(func(p *profile.Profile) {
		setIfChanged(cmd, "name", &p.Name, profileEditName)
		setIfChanged(cmd, "title", &p.Title, profileEditTitle)
		setIfChanged(cmd, "bio", &p.Bio, profileEditBio)
		setIfChanged(cmd, "location", &p.Location, profileEditLocation)
		setIfChanged(cmd, "website", &p.Website, profileEditWebsite)
	}); err != nil {
		return err
	}

	if useEditor {
		parsed, err := editor.EditProfile(d.Current())
		if err != nil {
			return err
		}
		if err := d.Set(parsed.Apply); err != nil {
			return err
		}
	}

	if err := d.Commit(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated profile for %s\n", d.Committed().Name)
	return nil
}

func setIfChanged(cmd *cobra.Command, flag string, dst *string, value string) {
	if cmd.Flags().Changed(flag) {
		*dst = value
	}
}

func runProfileInterestAdd(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	var p profile.Profile
	for _, interest := range args {
		p, err = board.AddInterest(cmd.Context(), interest)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Interests: %s\n", strings.Join(p.Interests, ", "))
	return nil
}

func runProfileInterestRemove(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	var p profile.Profile
	for _, interest := range args {
		p, err = board.RemoveInterest(cmd.Context(), interest)
		if err != nil {
			return err
		}
	}
	if len(p.Interests) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No interests")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Interests: %s\n", strings.Join(p.Interests, ", "))
	return nil
}
