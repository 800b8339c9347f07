package insight

import (
	"context"
	"iter"
)

// Offline answers every call with the missing-key fallbacks.
type Offline struct{}

var _ Service = Offline{}

func (Offline) Complete(context.Context, string) string {
	return FallbackNoKey
}

func (Offline) StreamComplete(context.Context, string) iter.Seq[string] {
	return Single(FallbackStreamNoKey)
}

func (Offline) SynthesizeSpeech(context.Context, string) (Audio, bool) {
	return Audio{}, false
}

func (Offline) AnalyzeSentiment(context.Context, string) (Analysis, bool) {
	return Analysis{}, false
}
