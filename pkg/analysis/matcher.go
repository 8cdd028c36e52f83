package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// DefaultThreshold is the minimum similarity (0-100) for a fuzzy keyword hit.
const DefaultThreshold = 85

// Similarity returns the Indel normalized similarity of a and b on a 0-100 scale,
// compared case-insensitively. Two empty strings are identical.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*edlib.LCS(a, b)) / float64(total)
}

// IsPresent reports whether keyword can be considered present in token.
// OCR noise defeats exact matching, so either a substring hit or a fuzzy hit counts.
func IsPresent(token, keyword string, threshold int) bool {
	if strings.Contains(strings.ToLower(token), strings.ToLower(keyword)) {
		return true
	}
	return Similarity(token, keyword) >= float64(threshold)
}

// anyPresent stops at the first token that carries keyword.
func anyPresent(tokens []string, keyword string, threshold int) bool {
	for _, token := range tokens {
		if IsPresent(token, keyword, threshold) {
			return true
		}
	}
	return false
}
