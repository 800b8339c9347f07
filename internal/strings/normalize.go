package strings

import "strings"

// NormalizeWhitespace trims value and collapses inner runs of whitespace
// into single spaces. Goal titles, milestones, and interests use it so
// that "Read  docs" and " Read docs" are the same label.
func NormalizeWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeNewlines replaces CRLF and CR with LF.
func NormalizeNewlines(value string) string {
	if !strings.ContainsRune(value, '\r') {
		return value
	}
	value = strings.ReplaceAll(value, "\r\n", "\n")
	return strings.ReplaceAll(value, "\r", "\n")
}

// TrimTrailingNewlines removes trailing CR/LF characters.
func TrimTrailingNewlines(value string) string {
	return strings.TrimRight(value, "\r\n")
}

// NormalizeContent prepares free text for storage: line endings become LF
// and trailing blank lines are dropped. Leading indentation is kept.
func NormalizeContent(value string) string {
	return TrimTrailingNewlines(NormalizeNewlines(value))
}
