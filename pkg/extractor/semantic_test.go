package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

func mainNode(t *testing.T, raw string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(raw))
	require.NoError(t, err)
	return doc
}

func TestExtractQuestionsCapturesHeadingAndFollowingAnswer(t *testing.T) {
	main := mainNode(t, `<html><body>
		<h2>What is a widget?</h2>
		<p>A widget is a small mechanical device.</p>
		<h2>Not a question</h2>
		<p>Other content.</p>
	</body></html>`)

	questions, _, _ := extractSemantic(main, nil)

	require.Len(t, questions, 1)
	assert.Equal(t, "What is a widget?", questions[0].Text)
	assert.Equal(t, model.QuestionSourceHeading, questions[0].Source)
	assert.Contains(t, questions[0].Answer, "small mechanical device")
}

func TestLooksLikeQuestionAcceptsTrailingMarkOrInterrogativeWord(t *testing.T) {
	assert.True(t, looksLikeQuestion("Is this a question"))
	assert.True(t, looksLikeQuestion("Widgets are great?"))
	assert.False(t, looksLikeQuestion("Widgets are great"))
	assert.False(t, looksLikeQuestion(""))
}

func TestExtractAnswerPatternsDetectsBlockquoteTLDRAndDefinitionBox(t *testing.T) {
	main := mainNode(t, `<html><body>
		<blockquote>A notable quote about widgets.</blockquote>
		<p>TL;DR widgets are useful.</p>
		<div class="definition-box">A widget is a mechanical device.</div>
		<div class="callout">Remember this.</div>
	</body></html>`)

	_, patterns, _ := extractSemantic(main, nil)

	var kinds []model.AnswerPatternKind
	for _, p := range patterns {
		kinds = append(kinds, p.Kind)
	}
	assert.Contains(t, kinds, model.AnswerPatternBlockquote)
	assert.Contains(t, kinds, model.AnswerPatternTLDR)
	assert.Contains(t, kinds, model.AnswerPatternDefinition)
	assert.Contains(t, kinds, model.AnswerPatternCallout)
}

func TestCaptureFollowingAnswerStopsAtNextHeadingAndTruncates(t *testing.T) {
	longText := strings.Repeat("word ", 200)
	main := mainNode(t, `<html><body><h2>Q?</h2><p>`+longText+`</p><h2>Next</h2></body></html>`)

	questions, _, _ := extractSemantic(main, nil)

	require.Len(t, questions, 1)
	assert.LessOrEqual(t, len(questions[0].Answer), maxAnswerChars)
}

func TestExtractSemanticReturnsRankedKeywords(t *testing.T) {
	main := mainNode(t, `<html><body><p>widget widget widget gadget gadget device</p></body></html>`)

	_, _, kw := extractSemantic(main, nil)

	assert.NotEmpty(t, kw)
}
