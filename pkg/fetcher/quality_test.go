package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassesQualityGateOnRichBody(t *testing.T) {
	body := "<html><body>" + strings.Repeat("<p>Real content paragraph with enough words to matter.</p>", 15) + "</body></html>"
	body += strings.Repeat("x", 10*1024)

	score, ok := passesQualityGate(body)

	assert.True(t, ok, "score was %d", score)
}

func TestFailsQualityGateOnSPALoaderShell(t *testing.T) {
	body := `<html><body><div id="root"></div></body></html>`

	score, ok := passesQualityGate(body)

	assert.False(t, ok, "score was %d", score)
}

func TestFailsQualityGateOnJSSentinel(t *testing.T) {
	body := "<html><body>Please enable JavaScript to view this page.</body></html>"

	_, ok := passesQualityGate(body)

	assert.False(t, ok)
}

func TestFailsQualityGateOnThinBodyWithNoContentSignals(t *testing.T) {
	body := "<html><body>Loading...</body></html>"

	score, ok := passesQualityGate(body)

	assert.False(t, ok, "score was %d", score)
}

func TestQualityGateThresholdIsThirty(t *testing.T) {
	assert.Equal(t, 30, QualityGatePassScore)
}
