package matching

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

// bankingStopWords are boilerplate terms that statement descriptions
// carry but business records rarely do; they are stripped before
// comparing descriptions.
var bankingStopWords = []string{"debit", "credit", "purchase", "payment", "transfer", "withdrawal"}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)
var spacesRe = regexp.MustCompile(`\s+`)

// NormalizeDescription lowercases a description, strips banking stop
// words and collapses everything that is not alphanumeric into single
// spaces, so that "ACH DEBIT - ACME COFFEE CO" and "Acme Coffee Co."
// compare well.
func NormalizeDescription(description string) string {
	cleaned := strings.ToLower(description)
	for _, term := range bankingStopWords {
		cleaned = strings.ReplaceAll(cleaned, term, "")
	}
	cleaned = nonAlnumRe.ReplaceAllString(cleaned, " ")
	cleaned = spacesRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Similarity returns a normalized edit-distance ratio in [0,1] between
// two already-normalized strings. Either side empty scores 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
