package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/amonks/guidex/draft"
	"github.com/amonks/guidex/internal/editor"
	"github.com/amonks/guidex/internal/listflags"
	"github.com/amonks/guidex/internal/ui"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/metrics"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Write and review journal entries",
}

var journalWriteCmd = &cobra.Command{
	Use:   "write [content]",
	Short: "Write a journal entry",
	Long: `Write a journal entry.

Content is taken from the argument ('-' reads stdin). Without content,
$EDITOR opens when running interactively. --analyze asks the mentor for a
mood, a summary and a sentiment score before saving.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJournalWrite,
}

var (
	journalWriteMood    string
	journalWriteAnalyze bool
	journalWriteEdit    bool
	journalWriteNoEdit  bool
)

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var (
	journalListJSON  bool
	journalListLimit int
)

var journalShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalShowJSON bool

var journalEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalEdit,
}

var (
	journalEditContent string
	journalEditMood    string
	journalEditAnalyze bool
	journalEditEdit    bool
	journalEditNoEdit  bool
)

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete journal entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJournalDelete,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalWriteCmd, journalListCmd, journalShowCmd, journalEditCmd, journalDeleteCmd)

	moodHelp := "Mood (" + strings.ToLower(joinMoods()) + ")"
	journalWriteCmd.Flags().StringVar(&journalWriteMood, "mood", "", moodHelp)
	journalWriteCmd.Flags().BoolVarP(&journalWriteAnalyze, "analyze", "a", false, "Analyze mood and sentiment before saving")
	journalWriteCmd.Flags().BoolVarP(&journalWriteEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no content)")
	journalWriteCmd.Flags().BoolVar(&journalWriteNoEdit, "no-edit", false, "Do not open $EDITOR")

	listflags.AddJSONFlag(journalListCmd, &journalListJSON)
	journalListCmd.Flags().IntVarP(&journalListLimit, "limit", "n", 0, "Show at most this many entries (0 for all)")

	listflags.AddJSONFlag(journalShowCmd, &journalShowJSON)

	journalEditCmd.Flags().StringVar(&journalEditContent, "content", "", "New content ('-' reads stdin)")
	journalEditCmd.Flags().StringVar(&journalEditMood, "mood", "", moodHelp)
	journalEditCmd.Flags().BoolVarP(&journalEditAnalyze, "analyze", "a", false, "Re-analyze before saving")
	journalEditCmd.Flags().BoolVarP(&journalEditEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no edit flags)")
	journalEditCmd.Flags().BoolVar(&journalEditNoEdit, "no-edit", false, "Do not open $EDITOR")
}

func joinMoods() string {
	moods := journal.KnownMoods()
	out := make([]string, 0, len(moods))
	for _, mood := range moods {
		out = append(out, string(mood))
	}
	return strings.Join(out, ", ")
}

// readContent returns value, or all of stdin when value is "-".
func readContent(value string, stdin io.Reader) (string, error) {
	if value != "-" {
		return value, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func runJournalWrite(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}

	var content string
	if len(args) > 0 {
		if content, err = readContent(args[0], os.Stdin); err != nil {
			return err
		}
	}
	mood := journal.ParseMood(journalWriteMood)

	useEditor := shouldUseEditor(len(args) > 0, journalWriteEdit, journalWriteNoEdit, editor.IsInteractive())
	if useEditor {
		parsed, err := editor.EditEntry(editor.EntryData{Mood: string(mood), Content: content})
		if err != nil {
			return err
		}
		content = parsed.Content
		mood = journal.ParseMood(parsed.Mood)
	} else if strings.TrimSpace(content) == "" {
		return &draft.ValidationError{Field: "content", Rule: "required"}
	}

	entry, err := board.WriteEntry(cmd.Context(), content, mood, journalWriteAnalyze)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved entry %s (%s, sentiment %d)\n", entry.ID, entry.Mood, entry.Sentiment)
	if journalWriteAnalyze && entry.Summary != "" {
		fmt.Fprintln(cmd.OutOrStdout(), wordwrap.String(entry.Summary, terminalWidth()))
	}
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	a, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	entries := board.Entries()
	if journalListLimit > 0 && len(entries) > journalListLimit {
		entries = entries[:journalListLimit]
	}

	if journalListJSON {
		return writeJSON(cmd.OutOrStdout(), entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No journal entries yet. Write one with 'gx journal write'.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatEntryTable(entries))

	window := a.journalMoodWindow()
	trend := board.JournalTrend(window)
	if trend.Chartable() {
		fmt.Fprintf(cmd.OutOrStdout(), "\nMood trend: %s\n", formatTrend(trend))
	}
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	entry, err := board.Entry(args[0])
	if err != nil {
		return err
	}
	if journalShowJSON {
		return writeJSON(cmd.OutOrStdout(), entry)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatEntryDetail(entry, terminalWidth()))
	return nil
}

func runJournalEdit(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	current, err := board.Entry(args[0])
	if err != nil {
		return err
	}

	hasFlags := hasChangedFlags(cmd, "content", "mood", "analyze")
	useEditor := shouldUseEditor(hasFlags, journalEditEdit, journalEditNoEdit, editor.IsInteractive())
	if !useEditor && !hasFlags {
		return fmt.Errorf("at least one edit flag is required (use --edit to open editor)")
	}

	d, err := board.JournalEditor(current.ID)
	if err != nil {
		return err
	}
	if err := d.Begin(); err != nil {
		return err
	}
	content, err := readContent(journalEditContent, os.Stdin)
	if err != nil {
		return err
	}
	if err := d.Set(func(e *journal.Entry) {
		if cmd.Flags().Changed("content") {
			e.Content = content
		}
		if cmd.Flags().Changed("mood") {
			e.Mood = journal.ParseMood(journalEditMood)
		}
	}); err != nil {
		return err
	}
	if useEditor {
		parsed, err := editor.EditEntry(editor.DataFromEntry(d.Current()))
		if err != nil {
			return err
		}
		if err := d.Set(parsed.Apply); err != nil {
			return err
		}
	}
	if journalEditAnalyze {
		if _, err := board.Analyze(cmd.Context(), d); err != nil {
			return err
		}
	}
	if err := d.Commit(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %s\n", d.Committed().ID)
	return nil
}

func runJournalDelete(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	for _, id := range args {
		entry, err := board.Entry(id)
		if err != nil {
			return err
		}
		if err := board.DeleteEntry(cmd.Context(), entry.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %s (%s)\n", entry.ID, entry.Date)
	}
	return nil
}

func formatEntryTable(entries []journal.Entry) string {
	builder := ui.NewTableBuilder([]string{"ID", "DATE", "MOOD", "SENTIMENT", "SUMMARY"}, len(entries)).AlignRight(3)
	for _, entry := range entries {
		summary := entry.Summary
		if summary == "" {
			summary = entry.Content
		}
		builder.AddRow([]string{
			entry.ID,
			entry.Date,
			string(entry.Mood),
			strconv.Itoa(entry.Sentiment),
			ui.TruncateTableCell(summary),
		})
	}
	return builder.String()
}

func formatEntryDetail(entry journal.Entry, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", ui.Heading(entry.Date), ui.Muted("("+entry.ID+")"))
	fmt.Fprintf(&b, "Mood:      %s\n", entry.Mood)
	fmt.Fprintf(&b, "Sentiment: %d\n", entry.Sentiment)
	if entry.Summary != "" {
		fmt.Fprintf(&b, "Summary:   %s\n", entry.Summary)
	}
	b.WriteString("\n")
	b.WriteString(renderMarkdownOrDash(entry.Content, width))
	b.WriteString("\n")
	return b.String()
}

func formatTrend(trend metrics.MoodTrend) string {
	parts := make([]string, 0, len(trend))
	for _, point := range trend {
		parts = append(parts, fmt.Sprintf("%s %d", point.Label, point.Sentiment))
	}
	return strings.Join(parts, " > ")
}
