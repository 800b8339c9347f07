package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/amonks/guidex/dashboard"
	"github.com/amonks/guidex/internal/listflags"
	"github.com/amonks/guidex/internal/ui"
	"github.com/amonks/guidex/mentor"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"stats"},
	Short:   "Show progress statistics",
	Args:    cobra.NoArgs,
	RunE:    runReport,
}

var reportJSON bool

var reportGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an AI weekly report",
	Args:  cobra.NoArgs,
	RunE:  runReportGenerate,
}

var (
	reportGenerateJSON   bool
	reportGenerateExport string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportGenerateCmd)

	listflags.AddJSONFlag(reportCmd, &reportJSON)
	listflags.AddJSONFlag(reportGenerateCmd, &reportGenerateJSON)
	reportGenerateCmd.Flags().StringVar(&reportGenerateExport, "export", "", "Write the plain-text report to this file or directory")
}

type reportOutput struct {
	Stats      any `json:"stats"`
	Effort     any `json:"weekly_effort"`
	MoodTrend  any `json:"mood_trend"`
	Categories any `json:"categories"`
}

func runReport(cmd *cobra.Command, args []string) error {
	_, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	view := board.View()
	if reportJSON {
		return writeJSON(cmd.OutOrStdout(), reportOutput{
			Stats:      view.Stats,
			Effort:     view.Effort,
			MoodTrend:  view.MoodTrend,
			Categories: view.Categories,
		})
	}
	fmt.Fprint(cmd.OutOrStdout(), formatStats(view))
	return nil
}

func formatStats(view dashboard.View) string {
	var b strings.Builder
	b.WriteString(ui.Heading("This week") + "\n")
	fmt.Fprintf(&b, "Total hours:     %.1f\n", view.Stats.TotalHours)
	fmt.Fprintf(&b, "Completion rate: %d%%\n", view.Stats.CompletionRate)
	fmt.Fprintf(&b, "Streak:          %d days\n", view.Stats.Streak)

	b.WriteString("\n" + ui.Heading("Weekly effort") + "\n")
	effort := ui.NewTableBuilder([]string{"DAY", "DATE", "REFLECTION", "DEEP WORK", "TOTAL"}, len(view.Effort)).AlignRight(2, 3, 4)
	for _, bucket := range view.Effort {
		effort.AddRow([]string{
			bucket.Name,
			bucket.Date,
			fmt.Sprintf("%.1f", bucket.Reflection),
			fmt.Sprintf("%.1f", bucket.DeepWork),
			fmt.Sprintf("%.1f", bucket.Total),
		})
	}
	b.WriteString(effort.String())

	if len(view.Categories) > 0 {
		b.WriteString("\n" + ui.Heading("Categories") + "\n")
		categories := ui.NewTableBuilder([]string{"CATEGORY", "GOALS"}, len(view.Categories)).AlignRight(1)
		for _, count := range view.Categories {
			categories.AddRow([]string{string(count.Category), fmt.Sprint(count.Count)})
		}
		b.WriteString(categories.String())
	}

	if view.MoodChartable {
		b.WriteString("\n" + ui.Heading("Mood trend") + "\n")
		b.WriteString(formatTrend(view.MoodTrend) + "\n")
	}
	return b.String()
}

func runReportGenerate(cmd *cobra.Command, args []string) error {
	a, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	name := board.Profile().Name
	report, err := mentor.GenerateReport(cmd.Context(), a.insightService(cmd.Context()), name, board.Goals())
	if errors.Is(err, mentor.ErrReportUnavailable) {
		// The surface keeps working with the placeholder report.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		report = mentor.DefaultReport()
	} else if err != nil {
		return err
	}

	if reportGenerateExport != "" {
		path, err := writeReportExport(reportGenerateExport, report, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported report to %s\n", path)
	}

	if reportGenerateJSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

// writeReportExport writes the plain-text report. A directory target gets
// the default export file name.
func writeReportExport(target string, report mentor.Report, name string) (string, error) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, mentor.ExportFilename(report))
	}
	if err := os.WriteFile(target, []byte(mentor.FormatReport(report, name, now())), 0o644); err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	return target, nil
}

func printReport(out io.Writer, report mentor.Report) {
	width := min(terminalWidth(), mentor.ExportWidth)
	fmt.Fprintf(out, "%s %s\n", ui.Heading("Weekly report"), ui.Muted("("+report.WeekRange+")"))
	fmt.Fprintf(out, "Score: %d/100  Status: %s\n\n", report.Score, report.Status)
	fmt.Fprintln(out, wordwrap.String(report.Summary, width))
	fmt.Fprintln(out, "\nStrengths:")
	for _, item := range report.Strengths {
		fmt.Fprintf(out, "  [✓] %s\n", item)
	}
	fmt.Fprintln(out, "\nAreas for growth:")
	for _, item := range report.Weaknesses {
		fmt.Fprintf(out, "  [!] %s\n", item)
	}
}
