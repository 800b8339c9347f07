package ids

import (
	"crypto/sha256"
	"encoding/base32"
	"time"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 8

// encoding is base32 with a lowercase alphabet so IDs are easy to type.
var encoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// Generate creates a deterministic lowercase base32 ID derived from input.
func Generate(input string, length int) string {
	if length <= 0 {
		return ""
	}
	hash := sha256.Sum256([]byte(input))
	encoded := encoding.EncodeToString(hash[:])
	return encoded[:min(length, len(encoded))]
}

// GenerateWithTimestamp appends a timestamp to input before hashing, so
// two goals with the same title get different IDs.
func GenerateWithTimestamp(input string, timestamp time.Time, length int) string {
	return Generate(input+timestamp.Format(time.RFC3339Nano), length)
}
