package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vendorpay/vendorpay_backend/internal/matching"
)

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and collapses whitespace",
			input:    "  ACME   Office  Supplies ",
			expected: "acme office supplies",
		},
		{
			name:     "strips banking stop words",
			input:    "DEBIT CARD PURCHASE ACME CORP",
			expected: "card acme corp",
		},
		{
			name:     "strips punctuation",
			input:    "ACH-TRANSFER: Acme #1234",
			expected: "ach acme 1234",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matching.NormalizeDescription(tt.input))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, matching.Similarity("acme corp", "acme corp"))
	assert.Equal(t, 0.0, matching.Similarity("", "acme corp"))
	assert.Equal(t, 0.0, matching.Similarity("acme corp", ""))

	// One substitution in nine runes.
	score := matching.Similarity("acme corp", "acme carp")
	assert.InDelta(t, 1.0-1.0/9.0, score, 1e-9)

	// Similarity is symmetric.
	assert.Equal(t,
		matching.Similarity("office depot", "offce depot"),
		matching.Similarity("offce depot", "office depot"),
	)

	// Completely different strings score low.
	assert.Less(t, matching.Similarity("acme corp", "zzzzzzzzz"), 0.2)
}
