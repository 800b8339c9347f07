package mentor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/insight"
	"github.com/amonks/guidex/metrics"
	"github.com/amonks/guidex/profile"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"
)

// ReportStatus marks whether a report holds model output.
type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportFinalized ReportStatus = "finalized"
)

const (
	// DefaultReportScore replaces a missing or zero score.
	DefaultReportScore = 70
	// CurrentPeriod labels the report for the ongoing period.
	CurrentPeriod = "Current Learning Period"
	waitingText   = "Waiting for analysis..."
	// ExportWidth is the wrap width of exported summaries.
	ExportWidth = 72
)

var (
	// ErrNoGoals indicates there is nothing to report on.
	ErrNoGoals = errors.New("create some goals first so there is data to analyze")
	// ErrReportUnavailable indicates the model output could not be used.
	ErrReportUnavailable = errors.New("report unavailable")
)

// Report is a weekly progress report.
type Report struct {
	ID         string       `json:"id"`
	WeekRange  string       `json:"weekRange"`
	Score      int          `json:"score"`
	Strengths  []string     `json:"strengths"`
	Weaknesses []string     `json:"weaknesses"`
	Summary    string       `json:"aiSummary"`
	Status     ReportStatus `json:"status"`
}

// DefaultReport is shown before any report has been generated.
func DefaultReport() Report {
	return Report{
		ID:         "w-curr",
		WeekRange:  CurrentPeriod,
		Strengths:  []string{waitingText},
		Weaknesses: []string{waitingText},
		Summary:    "Start tracking your goals and journaling to generate a comprehensive AI report.",
		Status:     ReportDraft,
	}
}

// ReportPrompt builds the model request for goals.
func ReportPrompt(name string, goals []goal.Goal) string {
	if strings.TrimSpace(name) == "" {
		name = profile.DefaultName
	}
	parts := make([]string, 0, len(goals))
	for _, g := range goals {
		parts = append(parts, fmt.Sprintf("%s: %d%% completed", g.Title, metrics.GoalProgress(g)))
	}
	return fmt.Sprintf("Based on these learning goals for user %s: %s.\n"+
		"Generate a concise weekly progress report.\n"+
		"Include 3 specific strengths based on their progress, 2 actual weaknesses/stalls, and a 2-sentence summary/recommendation.\n"+
		"Format as JSON with keys: strengths (array), weaknesses (array), recommendation (string), score (number 0-100).",
		name, strings.Join(parts, ", "))
}

// GenerateReport asks the model for a report on goals.
func GenerateReport(ctx context.Context, service insight.Service, name string, goals []goal.Goal) (Report, error) {
	if len(goals) == 0 {
		return Report{}, ErrNoGoals
	}
	response := service.Complete(ctx, ReportPrompt(name, goals))
	report, err := ParseReport(response)
	if err != nil {
		return Report{}, err
	}
	report.ID = "w-" + uuid.NewString()[:8]
	return report, nil
}

type reportPayload struct {
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Recommendation string   `json:"recommendation"`
	Score          float64  `json:"score"`
}

// ParseReport decodes model output, tolerating markdown code fences.
func ParseReport(response string) (Report, error) {
	clean := strings.ReplaceAll(response, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var payload reportPayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrReportUnavailable, err)
	}

	score := int(payload.Score + 0.5)
	if score <= 0 {
		score = DefaultReportScore
	}
	score = min(score, 100)

	report := DefaultReport()
	report.Strengths = nonBlank(payload.Strengths)
	report.Weaknesses = nonBlank(payload.Weaknesses)
	report.Summary = strings.TrimSpace(payload.Recommendation)
	report.Score = score
	report.Status = ReportFinalized
	return report, nil
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ExportFilename is the suggested file name for an exported report.
func ExportFilename(report Report) string {
	return fmt.Sprintf("GuideX_Report_%s.txt", report.ID)
}

// FormatReport renders report as the plain-text export.
func FormatReport(report Report, name string, now time.Time) string {
	if strings.TrimSpace(name) == "" {
		name = profile.DefaultName
	}

	var b strings.Builder
	section := func(title string) {
		b.WriteString("\n")
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", len(title)))
		b.WriteString("\n")
	}

	b.WriteString("GUIDEX PERSONAL MENTOR REPORT\n")
	b.WriteString(strings.Repeat("=", 30))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Report ID: %s\n", report.ID)
	fmt.Fprintf(&b, "User: %s\n", name)
	fmt.Fprintf(&b, "Period: %s\n", report.WeekRange)
	fmt.Fprintf(&b, "Growth Score: %d/100\n", report.Score)
	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(string(report.Status)))

	section("SUMMARY")
	b.WriteString(wordwrap.String(report.Summary, ExportWidth))
	b.WriteString("\n")

	section("KEY STRENGTHS")
	for _, s := range report.Strengths {
		fmt.Fprintf(&b, "[✓] %s\n", s)
	}

	section("AREAS FOR GROWTH")
	for _, w := range report.Weaknesses {
		fmt.Fprintf(&b, "[!] %s\n", w)
	}

	section("MENTOR RECOMMENDATION")
	b.WriteString("Stay focused on your primary learning objectives.\n")
	b.WriteString("Consistency is the multiplier of talent.\n")

	fmt.Fprintf(&b, "\nGenerated via GuideX AI on %s\n", now.Format("Jan 2, 2006 3:04 PM"))
	return b.String()
}
