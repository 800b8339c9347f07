package insight

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"strings"

	"github.com/amonks/guidex/internal/logging"
	"github.com/amonks/guidex/internal/telemetry"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// System instructions for the mentor persona.
const (
	CompleteInstruction = "You are GuideX AI, a world-class personal mentor. You are empathetic, direct, and highly encouraging. Your goal is to help users stay consistent and motivated. Use a calm and futuristic tone."
	StreamInstruction   = "You are GuideX AI, a world-class personal mentor. Be concise but deeply impactful. Focus on psychology and productivity."
)

var (
	errEmptyResponse = errors.New("empty response")
	errNoAudio       = errors.New("response carried no audio")
)

// generator is the subset of *genai.Models used by Gemini.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Options configures New and NewGemini.
type Options struct {
	APIKey      string
	Model       string
	SpeechModel string
	Voice       string
	Logger      *zap.Logger
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Model) == "" {
		o.Model = DefaultModel
	}
	if strings.TrimSpace(o.SpeechModel) == "" {
		o.SpeechModel = DefaultSpeechModel
	}
	if strings.TrimSpace(o.Voice) == "" {
		o.Voice = DefaultVoice
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

// Gemini implements Service on the Gemini API.
type Gemini struct {
	models generator
	opts   Options
}

var _ Service = (*Gemini)(nil)

// New returns a Gemini adapter when an API key is configured and the client
// can be built, and Offline otherwise.
func New(ctx context.Context, opts Options) Service {
	if strings.TrimSpace(opts.APIKey) == "" {
		return Offline{}
	}
	service, err := NewGemini(ctx, opts)
	if err != nil {
		logging.OrNop(opts.Logger).Warn("insight_client_failed", zap.Error(err))
		return Offline{}
	}
	return service
}

// NewGemini builds a Gemini API client.
func NewGemini(ctx context.Context, opts Options) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &Error{Op: "client", Err: err}
	}
	return newGemini(client.Models, opts), nil
}

func newGemini(models generator, opts Options) *Gemini {
	return &Gemini{models: models, opts: opts.withDefaults()}
}

func (g *Gemini) fail(op string, err error) {
	telemetry.InsightFallbacks.WithLabelValues(op).Inc()
	g.opts.Logger.Warn("insight_fallback", zap.String("op", op), zap.Error(&Error{Op: op, Err: err}))
}

func instruction(text string) *genai.Content {
	return genai.NewContentFromText(text, genai.RoleUser)
}

// Complete implements Service.
func (g *Gemini) Complete(ctx context.Context, prompt string) string {
	resp, err := g.models.GenerateContent(ctx, g.opts.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: instruction(CompleteInstruction),
	})
	if err != nil {
		g.fail("complete", err)
		return FallbackComplete
	}
	text := resp.Text()
	if text == "" {
		g.fail("complete", errEmptyResponse)
		return FallbackEmpty
	}
	return text
}

// StreamComplete implements Service. Fragments already yielded stay valid
// when the stream fails partway; the fallback fragment follows them.
func (g *Gemini) StreamComplete(ctx context.Context, prompt string) iter.Seq[string] {
	return func(yield func(string) bool) {
		stream := g.models.GenerateContentStream(ctx, g.opts.Model, genai.Text(prompt), &genai.GenerateContentConfig{
			SystemInstruction: instruction(StreamInstruction),
		})
		for resp, err := range stream {
			if err != nil {
				g.fail("stream", err)
				yield(FallbackStreamFailed)
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text) {
				return
			}
		}
	}
}

// SynthesizeSpeech implements Service.
func (g *Gemini) SynthesizeSpeech(ctx context.Context, text string) (Audio, bool) {
	if strings.TrimSpace(text) == "" {
		return Audio{}, false
	}
	resp, err := g.models.GenerateContent(ctx, g.opts.SpeechModel, genai.Text(SpeechPrefix+text), &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.opts.Voice},
			},
		},
	})
	if err != nil {
		g.fail("speech", err)
		return Audio{}, false
	}
	blob := firstInlineData(resp)
	if blob == nil || len(blob.Data) == 0 {
		g.fail("speech", errNoAudio)
		return Audio{}, false
	}
	return Audio{MIMEType: blob.MIMEType, Data: blob.Data}, true
}

func firstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return nil
	}
	return content.Parts[0].InlineData
}

var sentimentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"mood": {
			Type:        genai.TypeString,
			Description: "The mood identified in the journal entry.",
		},
		"summary": {
			Type:        genai.TypeString,
			Description: "A concise summary of the entry.",
		},
		"sentiment": {
			Type:        genai.TypeNumber,
			Description: "Sentiment score ranging from 0 (negative) to 100 (positive).",
		},
	},
	Required:         []string{"mood", "summary", "sentiment"},
	PropertyOrdering: []string{"mood", "summary", "sentiment"},
}

// AnalyzeSentiment implements Service.
func (g *Gemini) AnalyzeSentiment(ctx context.Context, text string) (Analysis, bool) {
	if strings.TrimSpace(text) == "" {
		return Analysis{}, false
	}
	resp, err := g.models.GenerateContent(ctx, g.opts.Model, genai.Text(SentimentPrompt(text)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   sentimentSchema,
	})
	if err != nil {
		g.fail("sentiment", err)
		return Analysis{}, false
	}
	body := resp.Text()
	if body == "" {
		body = "{}"
	}
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		g.fail("sentiment", err)
		return Analysis{}, false
	}
	analysis, err := raw.analysis()
	if err != nil {
		g.fail("sentiment", err)
		return Analysis{}, false
	}
	return analysis, true
}
