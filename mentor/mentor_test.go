package mentor

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/insight"
	"github.com/google/go-cmp/cmp"
)

type fakeService struct {
	insight.Offline
	complete string
	streams  map[string]func(ctx context.Context) iter.Seq[string]
	audio    []byte
	spoken   []string
}

func (f *fakeService) Complete(ctx context.Context, prompt string) string {
	return f.complete
}

func (f *fakeService) StreamComplete(ctx context.Context, prompt string) iter.Seq[string] {
	if stream, ok := f.streams[prompt]; ok {
		return stream(ctx)
	}
	return insight.Single("")
}

func (f *fakeService) SynthesizeSpeech(ctx context.Context, text string) (insight.Audio, bool) {
	f.spoken = append(f.spoken, text)
	return insight.Audio{Data: f.audio}, len(f.audio) > 0
}

func chunks(parts ...string) func(context.Context) iter.Seq[string] {
	return func(context.Context) iter.Seq[string] {
		return func(yield func(string) bool) {
			for _, part := range parts {
				if !yield(part) {
					return
				}
			}
		}
	}
}

func TestGreetingDefaultsName(t *testing.T) {
	if got := Greeting(""); !strings.HasPrefix(got, "Greetings, Explorer.") {
		t.Fatalf("unexpected greeting %q", got)
	}
	conv := NewConversation(insight.Offline{}, ConversationOptions{Name: "Ada"})
	messages := conv.Messages()
	if len(messages) != 1 || messages[0].Role != RoleModel || !strings.Contains(messages[0].Text, "Ada") {
		t.Fatalf("unexpected opening transcript %+v", messages)
	}
}

func TestSendStreamsReply(t *testing.T) {
	service := &fakeService{streams: map[string]func(context.Context) iter.Seq[string]{
		"How do I focus?": chunks("Start ", "small."),
	}}
	conv := NewConversation(service, ConversationOptions{})

	var seen []string
	reply, err := conv.Send(context.Background(), "  How do I focus?  ", func(msg Message) {
		seen = append(seen, msg.Text)
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Text != "Start small." {
		t.Fatalf("expected full reply, got %q", reply.Text)
	}
	if diff := cmp.Diff([]string{"Start ", "Start small."}, seen); diff != "" {
		t.Fatalf("unexpected chunk progression (-want +got):\n%s", diff)
	}

	messages := conv.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected greeting, prompt and reply, got %d messages", len(messages))
	}
	if messages[1].Role != RoleUser || messages[1].Text != "How do I focus?" {
		t.Fatalf("unexpected user message %+v", messages[1])
	}
	if messages[1].Turn != 1 || messages[2].Turn != 1 {
		t.Fatalf("expected turn 1 for both messages")
	}
}

func TestSendRejectsBlankPrompt(t *testing.T) {
	conv := NewConversation(insight.Offline{}, ConversationOptions{})
	if _, err := conv.Send(context.Background(), "   ", nil); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if len(conv.Messages()) != 1 {
		t.Fatalf("expected transcript unchanged")
	}
}

func TestSendEmptyStreamUsesFallback(t *testing.T) {
	conv := NewConversation(&fakeService{}, ConversationOptions{})
	reply, err := conv.Send(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Text != insight.FallbackEmpty {
		t.Fatalf("expected %q, got %q", insight.FallbackEmpty, reply.Text)
	}
}

func TestOfflineConversationShowsMissingKey(t *testing.T) {
	conv := NewConversation(insight.Offline{}, ConversationOptions{})
	reply, err := conv.Send(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Text != insight.FallbackStreamNoKey {
		t.Fatalf("expected missing key text, got %q", reply.Text)
	}
}

func TestStaleChunksDoNotOverwriteNewerTurn(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	service := &fakeService{streams: map[string]func(context.Context) iter.Seq[string]{
		"first": func(ctx context.Context) iter.Seq[string] {
			return func(yield func(string) bool) {
				if !yield("early") {
					return
				}
				close(started)
				select {
				case <-release:
				case <-ctx.Done():
				}
				yield("late")
			}
		},
		"second": chunks("fresh"),
	}}
	conv := NewConversation(service, ConversationOptions{})

	type result struct {
		msg Message
		err error
	}
	done := make(chan result, 1)
	go func() {
		msg, err := conv.Send(context.Background(), "first", nil)
		done <- result{msg, err}
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatalf("first stream never started")
	}

	second, err := conv.Send(context.Background(), "second", nil)
	if err != nil {
		t.Fatalf("second send: %v", err)
	}
	if second.Text != "fresh" {
		t.Fatalf("expected fresh reply, got %q", second.Text)
	}
	close(release)

	var first result
	select {
	case first = <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("first send never returned")
	}
	if !errors.Is(first.err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", first.err)
	}

	messages := conv.Messages()
	texts := make([]string, len(messages))
	for i, msg := range messages {
		texts[i] = msg.Text
	}
	want := []string{messages[0].Text, "first", "early", "second", "fresh"}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Fatalf("unexpected transcript (-want +got):\n%s", diff)
	}
	if conv.Turn() != 2 {
		t.Fatalf("expected turn 2, got %d", conv.Turn())
	}
}

func TestSpeakUsesModelMessage(t *testing.T) {
	service := &fakeService{audio: []byte{9}}
	conv := NewConversation(service, ConversationOptions{})
	greeting := conv.Messages()[0]

	audio, ok := conv.Speak(context.Background(), greeting.ID)
	if !ok || len(audio.Data) != 1 {
		t.Fatalf("expected audio for greeting")
	}
	if service.spoken[0] != greeting.Text {
		t.Fatalf("expected greeting text to be spoken, got %q", service.spoken[0])
	}
	if _, ok := conv.Speak(context.Background(), "missing"); ok {
		t.Fatalf("expected no audio for unknown message")
	}
}

func TestParseReport(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantScore int
		wantErr   bool
	}{
		{
			name:      "plain",
			response:  `{"strengths":["a","b","c"],"weaknesses":["d","e"],"recommendation":"Keep going.","score":88}`,
			wantScore: 88,
		},
		{
			name:      "fenced",
			response:  "```json\n{\"strengths\":[\"a\"],\"weaknesses\":[\"d\"],\"recommendation\":\"r\",\"score\":64}\n```",
			wantScore: 64,
		},
		{
			name:      "missing score",
			response:  `{"strengths":["a"],"weaknesses":["d"],"recommendation":"r"}`,
			wantScore: DefaultReportScore,
		},
		{
			name:      "zero score",
			response:  `{"strengths":[],"weaknesses":[],"recommendation":"r","score":0}`,
			wantScore: DefaultReportScore,
		},
		{name: "fallback text", response: insight.FallbackComplete, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := ParseReport(tt.response)
			if tt.wantErr {
				if !errors.Is(err, ErrReportUnavailable) {
					t.Fatalf("expected ErrReportUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if report.Score != tt.wantScore {
				t.Fatalf("expected score %d, got %d", tt.wantScore, report.Score)
			}
			if report.Status != ReportFinalized {
				t.Fatalf("expected finalized status, got %q", report.Status)
			}
		})
	}
}

func TestGenerateReport(t *testing.T) {
	learn, err := goal.New(goal.CreateOptions{Title: "Learn Go", Milestones: []string{"Tour", "Project"}}, time.Now())
	if err != nil {
		t.Fatalf("new goal: %v", err)
	}

	if _, err := GenerateReport(context.Background(), &fakeService{}, "Ada", nil); !errors.Is(err, ErrNoGoals) {
		t.Fatalf("expected ErrNoGoals, got %v", err)
	}

	service := &fakeService{complete: `{"strengths":["Consistent"],"weaknesses":["Slow"],"recommendation":"Ship it.","score":91}`}
	report, err := GenerateReport(context.Background(), service, "Ada", []goal.Goal{learn})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Score != 91 || report.Summary != "Ship it." {
		t.Fatalf("unexpected report %+v", report)
	}
	if !strings.HasPrefix(report.ID, "w-") {
		t.Fatalf("expected report id prefix, got %q", report.ID)
	}
}

func TestReportPromptListsGoalProgress(t *testing.T) {
	g, err := goal.New(goal.CreateOptions{Title: "Learn Go", Milestones: []string{"Tour", "Project"}}, time.Now())
	if err != nil {
		t.Fatalf("new goal: %v", err)
	}
	g, err = g.ToggleTask(g.Tasks[0].ID, time.Now())
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	prompt := ReportPrompt("", []goal.Goal{g})
	if !strings.Contains(prompt, "user Explorer: Learn Go: 50% completed.") {
		t.Fatalf("unexpected prompt %q", prompt)
	}
}

func TestFormatReport(t *testing.T) {
	report := Report{
		ID:         "w-1234",
		WeekRange:  CurrentPeriod,
		Score:      82,
		Strengths:  []string{"Daily journaling"},
		Weaknesses: []string{"Stalled design goal"},
		Summary:    "Good week.",
		Status:     ReportFinalized,
	}
	now := time.Date(2026, time.March, 4, 15, 30, 0, 0, time.UTC)

	got := FormatReport(report, "Ada", now)
	for _, want := range []string{
		"GUIDEX PERSONAL MENTOR REPORT\n==============================\n",
		"Report ID: w-1234\n",
		"User: Ada\n",
		"Growth Score: 82/100\n",
		"Status: FINALIZED\n",
		"SUMMARY\n-------\nGood week.\n",
		"KEY STRENGTHS\n-------------\n[✓] Daily journaling\n",
		"AREAS FOR GROWTH\n----------------\n[!] Stalled design goal\n",
		"Generated via GuideX AI on Mar 4, 2026 3:30 PM\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected export to contain %q, got:\n%s", want, got)
		}
	}
	if ExportFilename(report) != "GuideX_Report_w-1234.txt" {
		t.Fatalf("unexpected filename %q", ExportFilename(report))
	}
}
