package insight

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"

	"google.golang.org/genai"
)

type fakeModels struct {
	responses []*genai.GenerateContentResponse
	err       error
	streamErr error

	models  []string
	prompts []string
	configs []*genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.record(model, contents, config)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &genai.GenerateContentResponse{}, nil
	}
	return f.responses[0], nil
}

func (f *fakeModels) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.record(model, contents, config)
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, resp := range f.responses {
			if !yield(resp, nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield(nil, f.streamErr)
		}
	}
}

func (f *fakeModels) record(model string, contents []*genai.Content, config *genai.GenerateContentConfig) {
	f.models = append(f.models, model)
	f.configs = append(f.configs, config)
	for _, content := range contents {
		for _, part := range content.Parts {
			f.prompts = append(f.prompts, part.Text)
		}
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestNewWithoutKeyIsOffline(t *testing.T) {
	service := New(context.Background(), Options{})
	if _, ok := service.(Offline); !ok {
		t.Fatalf("expected Offline service, got %T", service)
	}
	if got := service.Complete(context.Background(), "hello"); got != FallbackNoKey {
		t.Fatalf("expected %q, got %q", FallbackNoKey, got)
	}
	if got := Collect(service.StreamComplete(context.Background(), "hello")); got != FallbackStreamNoKey {
		t.Fatalf("expected %q, got %q", FallbackStreamNoKey, got)
	}
	if _, ok := service.SynthesizeSpeech(context.Background(), "hi"); ok {
		t.Fatalf("expected no audio offline")
	}
	if _, ok := service.AnalyzeSentiment(context.Background(), "hi"); ok {
		t.Fatalf("expected no analysis offline")
	}
}

func TestCompleteReturnsText(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("Keep going.")}}
	service := newGemini(fake, Options{})

	if got := service.Complete(context.Background(), "motivate me"); got != "Keep going." {
		t.Fatalf("expected model text, got %q", got)
	}
	if fake.models[0] != DefaultModel {
		t.Fatalf("expected default model, got %q", fake.models[0])
	}
	if fake.configs[0].SystemInstruction == nil {
		t.Fatalf("expected system instruction")
	}
}

func TestCompleteFallbacks(t *testing.T) {
	failing := newGemini(&fakeModels{err: errors.New("boom")}, Options{})
	if got := failing.Complete(context.Background(), "x"); got != FallbackComplete {
		t.Fatalf("expected %q, got %q", FallbackComplete, got)
	}

	empty := newGemini(&fakeModels{}, Options{})
	if got := empty.Complete(context.Background(), "x"); got != FallbackEmpty {
		t.Fatalf("expected %q, got %q", FallbackEmpty, got)
	}
}

func TestStreamCompleteYieldsFragments(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{
		textResponse("Small "),
		textResponse(""),
		textResponse("steps."),
	}}
	service := newGemini(fake, Options{})

	got := slices.Collect(service.StreamComplete(context.Background(), "x"))
	want := []string{"Small ", "steps."}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestStreamCompleteFailureYieldsFallbackOnce(t *testing.T) {
	fake := &fakeModels{
		responses: []*genai.GenerateContentResponse{textResponse("Partial")},
		streamErr: errors.New("connection reset"),
	}
	service := newGemini(fake, Options{})

	got := slices.Collect(service.StreamComplete(context.Background(), "x"))
	want := []string{"Partial", FallbackStreamFailed}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestStreamCompleteStopsWhenConsumerStops(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{
		textResponse("one"),
		textResponse("two"),
	}}
	service := newGemini(fake, Options{})

	var got []string
	for chunk := range service.StreamComplete(context.Background(), "x") {
		got = append(got, chunk)
		break
	}
	if !slices.Equal(got, []string{"one"}) {
		t.Fatalf("expected only first chunk, got %q", got)
	}
}

func TestSynthesizeSpeech(t *testing.T) {
	audio := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{
				InlineData: &genai.Blob{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: []byte{1, 2, 3}},
			}}},
		}},
	}
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{audio}}
	service := newGemini(fake, Options{Voice: "Puck"})

	got, ok := service.SynthesizeSpeech(context.Background(), "You can do it")
	if !ok {
		t.Fatalf("expected audio")
	}
	if !slices.Equal(got.Data, []byte{1, 2, 3}) {
		t.Fatalf("unexpected audio bytes %v", got.Data)
	}
	if fake.models[0] != DefaultSpeechModel {
		t.Fatalf("expected speech model, got %q", fake.models[0])
	}
	if fake.prompts[0] != SpeechPrefix+"You can do it" {
		t.Fatalf("unexpected speech prompt %q", fake.prompts[0])
	}
	voice := fake.configs[0].SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName
	if voice != "Puck" {
		t.Fatalf("expected configured voice, got %q", voice)
	}
}

func TestSynthesizeSpeechAbsentOnFailure(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeModels
	}{
		{name: "error", fake: &fakeModels{err: errors.New("quota")}},
		{name: "no audio", fake: &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("text only")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newGemini(tt.fake, Options{})
			if _, ok := service.SynthesizeSpeech(context.Background(), "hello"); ok {
				t.Fatalf("expected absent audio")
			}
		})
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{
		textResponse(`{"mood":"Focused","summary":"Shipped the parser.","sentiment":82.6}`),
	}}
	service := newGemini(fake, Options{})

	got, ok := service.AnalyzeSentiment(context.Background(), "Today I shipped the parser.")
	if !ok {
		t.Fatalf("expected analysis")
	}
	want := Analysis{Mood: "Focused", Summary: "Shipped the parser.", Sentiment: 83}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if fake.configs[0].ResponseMIMEType != "application/json" {
		t.Fatalf("expected JSON response type")
	}
	if fake.configs[0].ResponseSchema == nil {
		t.Fatalf("expected response schema")
	}
}

func TestAnalyzeSentimentAbsent(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		fake  *fakeModels
	}{
		{name: "blank entry", entry: "   ", fake: &fakeModels{}},
		{name: "error", entry: "x", fake: &fakeModels{err: errors.New("boom")}},
		{name: "bad json", entry: "x", fake: &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("not json")}}},
		{name: "empty body", entry: "x", fake: &fakeModels{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newGemini(tt.fake, Options{})
			if _, ok := service.AnalyzeSentiment(context.Background(), tt.entry); ok {
				t.Fatalf("expected absent analysis")
			}
		})
	}
	blank := &fakeModels{}
	newGemini(blank, Options{}).AnalyzeSentiment(context.Background(), "")
	if len(blank.models) != 0 {
		t.Fatalf("expected no model call for blank entry")
	}
}

func TestAnalysisClampsSentiment(t *testing.T) {
	high := 140.0
	got, err := rawAnalysis{Mood: " Excited ", Sentiment: &high}.analysis()
	if err != nil {
		t.Fatalf("analysis: %v", err)
	}
	if got.Sentiment != 100 || got.Mood != "Excited" {
		t.Fatalf("unexpected analysis %+v", got)
	}
}
