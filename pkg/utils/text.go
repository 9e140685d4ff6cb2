// Package utils provides shared utilities for text and logging.
package utils

import (
	"strings"
	"unicode"
)

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// stopwords are message tokens that carry no product signal.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "i": true, "me": true, "my": true,
	"to": true, "for": true, "in": true, "on": true, "at": true, "of": true,
	"go": true, "going": true, "am": true, "is": true, "are": true, "be": true,
	"and": true, "or": true, "with": true, "want": true, "need": true,
	"some": true, "this": true, "that": true, "tonight": true, "today": true,
	"tomorrow": true,
}

// NormalizeToken lowercases a token and strips leading/trailing punctuation,
// keeping internal hyphens and underscores.
func NormalizeToken(token string) string {
	token = strings.ToLower(token)
	return strings.TrimFunc(token, func(r rune) bool {
		return unicode.IsPunct(r) && r != '-' && r != '_'
	})
}

// Tokenize splits a free-text message into normalized tokens with stopwords
// removed. Order is preserved; duplicates are kept.
func Tokenize(message string) []string {
	fields := strings.Fields(message)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		normalized := NormalizeToken(f)
		if normalized == "" || stopwords[normalized] {
			continue
		}
		tokens = append(tokens, normalized)
	}
	return tokens
}

// ContainsFold reports whether text contains term, case-insensitively.
func ContainsFold(text, term string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(term))
}
