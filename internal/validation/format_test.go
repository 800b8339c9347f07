package validation

import (
	"errors"
	"testing"
)

type mood string

func TestFormatValidValues(t *testing.T) {
	tests := []struct {
		name   string
		values []mood
		want   string
	}{
		{name: "empty", values: nil, want: ""},
		{name: "single", values: []mood{"Calm"}, want: "Calm"},
		{name: "several", values: []mood{"Calm", "Focused", "Tired"}, want: "Calm, Focused, Tired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValidValues(tt.values); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatInvalidValueError(t *testing.T) {
	base := errors.New("invalid mood")
	err := FormatInvalidValueError(base, mood("Grumpy"), []mood{"Calm", "Focused"})
	if !errors.Is(err, base) {
		t.Fatalf("expected error to wrap %v", base)
	}

	want := `invalid mood: "Grumpy" (valid: Calm, Focused)`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
