package util

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const sessionIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionID returns a new URL-safe identifier for a network view session.
func NewSessionID() (string, error) {
	return gonanoid.Generate(sessionIDAlphabet, 21)
}

// NormalizeLocusTag canonicalizes a locus tag for lookups: whitespace is
// trimmed, the tag is upper-cased, and a trailing version suffix
// (e.g. "b0001.2" -> "B0001") is stripped.
func NormalizeLocusTag(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if idx := strings.LastIndexByte(tag, '.'); idx > 0 {
		if isDigits(tag[idx+1:]) {
			tag = tag[:idx]
		}
	}
	return tag
}

// NormalizeLocusTags normalizes a batch of locus tags, dropping empties and
// duplicates while preserving first-seen order.
func NormalizeLocusTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		normalized := NormalizeLocusTag(tag)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
