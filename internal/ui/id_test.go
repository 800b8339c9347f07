package ui

import "testing"

func TestPrefixLength(t *testing.T) {
	tests := []struct {
		name   string
		length map[string]int
		id     string
		want   int
	}{
		{
			name:   "case insensitive lookup",
			length: map[string]int{"abc123": 4},
			id:     "ABC123",
			want:   4,
		},
		{
			name:   "missing id",
			length: map[string]int{"abc123": 4},
			id:     "",
			want:   0,
		},
		{
			name:   "nil map",
			length: nil,
			id:     "ABC123",
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrefixLength(tt.length, tt.id); got != tt.want {
				t.Fatalf("PrefixLength() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHighlightIDWithoutColor(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		prefixLen int
	}{
		{name: "empty", id: "", prefixLen: 2},
		{name: "no prefix", id: "k3vq7ab2", prefixLen: 0},
		{name: "prefix too long", id: "k3", prefixLen: 4},
		{name: "prefix", id: "k3vq7ab2", prefixLen: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// go test's stdout is not a terminal, so no escape codes are added.
			if got := HighlightID(tt.id, tt.prefixLen); got != tt.id {
				t.Fatalf("HighlightID(%q, %d) = %q", tt.id, tt.prefixLen, got)
			}
		})
	}
}
