package keywords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopKReturnsEmptyForBlankText(t *testing.T) {
	assert.Nil(t, TopK("", 5))
	assert.Nil(t, TopK("   ", 5))
}

func TestTopKExcludesStopWordsAndShortTokens(t *testing.T) {
	text := "the a an is it of widget widget widget gizmo gizmo"

	got := TopK(text, 10)

	for _, term := range got {
		for _, w := range strings.Fields(term) {
			assert.False(t, stopWords[w], "stop word %q leaked into results", w)
			assert.Greater(t, len(w), 2)
		}
	}
}

func TestTopKRanksMoreFrequentTermsHigher(t *testing.T) {
	text := strings.Repeat("widget ", 10) + strings.Repeat("gizmo ", 2) + "filler text to pad out the token count nicely here"

	got := TopK(text, 2)

	assert.Contains(t, got, "widget")
}

func TestTopKRespectsRequestedCount(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa"

	got := TopK(text, 3)

	assert.LessOrEqual(t, len(got), 3)
}

func TestTopKDropsOneOffBigrams(t *testing.T) {
	text := "machine learning is great but machine learning appears only here learning machine reversed once"

	got := TopK(text, 20)

	count := 0
	for _, term := range got {
		if term == "learning machine" {
			count++
		}
	}
	assert.Equal(t, 0, count)
}
