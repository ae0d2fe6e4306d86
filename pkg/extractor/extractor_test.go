package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeoaudit/aeoaudit/pkg/model"
	"github.com/aeoaudit/aeoaudit/pkg/parser"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Widgets 101</title>
	<meta name="description" content="Everything about widgets.">
	<link rel="canonical" href="https://example.com/widgets">
	<script type="application/ld+json">
	{"@context":"https://schema.org","@type":"Article","headline":"Widgets 101","author":{"@type":"Person","name":"Jane Doe"}}
	</script>
</head>
<body>
	<main>
		<h1>What is a widget?</h1>
		<p>A widget is a small mechanical device used in many products.</p>
		<h2>How do widgets work?</h2>
		<p>Widgets work by converting rotational energy into linear motion.</p>
		<a href="https://example.com/other-page">Internal link</a>
		<a href="https://external-site.com/page">External link</a>
	</main>
</body>
</html>`

func TestExtractProducesPopulatedPageModel(t *testing.T) {
	parsed, err := parser.Parse(samplePage, "https://example.com/widgets")
	require.NoError(t, err)

	fr := model.FetchResult{URL: "https://example.com/widgets", FetchedAt: time.Now()}
	pm := Extract(parsed, fr)

	assert.Equal(t, "Widgets 101", pm.Title)
	assert.Equal(t, "Everything about widgets.", pm.Meta.Description)
	assert.True(t, pm.IsHTTPS)
	assert.NotEmpty(t, pm.Headings)
	assert.NotEmpty(t, pm.Paragraphs)
	assert.Greater(t, pm.WordCount, 0)
	assert.NotEmpty(t, pm.JSONLD)
	assert.Equal(t, 1, pm.InternalLinksCount)
	assert.Contains(t, pm.ExternalLinks, "https://external-site.com/page")
}

func TestExtractParsesAuthorFromJSONLD(t *testing.T) {
	parsed, err := parser.Parse(samplePage, "https://example.com/widgets")
	require.NoError(t, err)

	pm := Extract(parsed, model.FetchResult{URL: "https://example.com/widgets"})

	assert.True(t, pm.Author.Found)
	assert.Equal(t, "Jane Doe", pm.Author.Name)
}

func TestExtractIsDeterministic(t *testing.T) {
	parsed, err := parser.Parse(samplePage, "https://example.com/widgets")
	require.NoError(t, err)
	fr := model.FetchResult{URL: "https://example.com/widgets"}

	first := Extract(parsed, fr)
	for i := 0; i < 10; i++ {
		parsedAgain, err := parser.Parse(samplePage, "https://example.com/widgets")
		require.NoError(t, err)
		again := Extract(parsedAgain, fr)
		assert.Equal(t, first.WordCount, again.WordCount)
		assert.Equal(t, first.Title, again.Title)
		assert.Equal(t, first.InternalLinksCount, again.InternalLinksCount)
	}
}
