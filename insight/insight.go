// Package insight talks to the generative model behind the mentor, the
// journal analysis and the spoken coaching.
//
// Every call is fail-soft: callers get a fallback string or an absent value,
// never an error. Failures are logged and counted instead.
package insight

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"strings"
)

// Fallback texts returned in place of a model response.
const (
	FallbackNoKey        = "API Key not configured."
	FallbackStreamNoKey  = "API Key not configured. Please check your environment."
	FallbackComplete     = "I encountered an error. Let's try again."
	FallbackEmpty        = "No response generated."
	FallbackStreamFailed = "Error connecting to the mentor service."
)

// Defaults for the Gemini adapter.
const (
	DefaultModel       = "gemini-3-flash-preview"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
)

// SpeechPrefix is prepended to text sent for speech synthesis.
const SpeechPrefix = "Say with a calm, motivating tone: "

// Service is the contract shared by the Gemini and offline adapters.
type Service interface {
	// Complete returns a single response, or a fallback string on failure.
	Complete(ctx context.Context, prompt string) string
	// StreamComplete yields response fragments. On failure it yields one
	// fallback fragment and ends. Each call is an independent stream.
	StreamComplete(ctx context.Context, prompt string) iter.Seq[string]
	// SynthesizeSpeech returns audio for text; ok is false on failure.
	SynthesizeSpeech(ctx context.Context, text string) (Audio, bool)
	// AnalyzeSentiment extracts mood, summary and sentiment from a journal
	// entry; ok is false on failure or blank input.
	AnalyzeSentiment(ctx context.Context, text string) (Analysis, bool)
}

// Audio is synthesized speech.
type Audio struct {
	MIMEType string
	Data     []byte
}

// Analysis is the structured result of a sentiment request.
type Analysis struct {
	Mood      string `json:"mood"`
	Summary   string `json:"summary"`
	Sentiment int    `json:"sentiment"`
}

// rawAnalysis mirrors the response schema, where sentiment is a number.
type rawAnalysis struct {
	Mood      string   `json:"mood"`
	Summary   string   `json:"summary"`
	Sentiment *float64 `json:"sentiment"`
}

var errMissingSentiment = errors.New("missing sentiment")

func (r rawAnalysis) analysis() (Analysis, error) {
	if r.Sentiment == nil {
		return Analysis{}, errMissingSentiment
	}
	score := math.Round(*r.Sentiment)
	score = max(0, min(100, score))
	return Analysis{
		Mood:      strings.TrimSpace(r.Mood),
		Summary:   strings.TrimSpace(r.Summary),
		Sentiment: int(score),
	}, nil
}

// Error describes a failed insight call. It is only ever logged.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("insight %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SentimentPrompt builds the analysis request for a journal entry.
func SentimentPrompt(entry string) string {
	return fmt.Sprintf("Analyze this journal entry for mood, a summary, and a sentiment score (0-100).\nEntry: \"%s\"", entry)
}

// Single returns a sequence yielding one fragment.
func Single(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		yield(text)
	}
}

// Collect joins every fragment of seq.
func Collect(seq iter.Seq[string]) string {
	var b strings.Builder
	for chunk := range seq {
		b.WriteString(chunk)
	}
	return b.String()
}
