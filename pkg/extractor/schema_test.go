package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

func parseDoc(t *testing.T, raw string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(raw))
	require.NoError(t, err)
	return doc
}

func TestExtractSchemaFlattensAtGraph(t *testing.T) {
	raw := `<html><head><script type="application/ld+json">
	{"@context":"https://schema.org","@graph":[{"@type":"Article","headline":"A"},{"@type":"Person","name":"B"}]}
	</script></head><body></body></html>`

	res := extractSchema(parseDoc(t, raw))

	require.Len(t, res.objects, 2)
	assert.Equal(t, 0, res.brokenBlocks)
}

func TestExtractSchemaCountsMalformedBlocksWithoutFailing(t *testing.T) {
	raw := `<html><head><script type="application/ld+json">{not valid json</script></head><body></body></html>`

	res := extractSchema(parseDoc(t, raw))

	assert.Equal(t, 1, res.brokenBlocks)
	assert.Empty(t, res.objects)
}

func TestCollectFAQPairsValidatesQAndA(t *testing.T) {
	objs := []map[string]any{
		{
			"@type": "FAQPage",
			"mainEntity": []any{
				map[string]any{
					"name":           "What is a widget?",
					"acceptedAnswer": map[string]any{"text": "A small mechanical device."},
				},
				map[string]any{
					"name":           "Incomplete question",
					"acceptedAnswer": map[string]any{"text": ""},
				},
			},
		},
	}

	faq := collectFAQPairs(objs)

	require.Len(t, faq.Pairs, 2)
	assert.Equal(t, 1, faq.ValidCount)
	assert.True(t, faq.Pairs[0].Valid)
	assert.False(t, faq.Pairs[1].Valid)
}

func TestSchemaCompletenessComputesPresentOverRequired(t *testing.T) {
	objs := []map[string]any{
		{"@type": "Article", "headline": "A", "author": "Jane"},
	}

	completeness := SchemaCompleteness(objs)

	// Article requires headline, author, datePublished (3 fields); 2 present.
	assert.InDelta(t, 2.0/3.0, completeness, 0.0001)
}

func TestSchemaCompletenessIsZeroWithNoKnownTypes(t *testing.T) {
	objs := []map[string]any{
		{"@type": "UnknownThing", "foo": "bar"},
	}

	assert.Equal(t, 0.0, SchemaCompleteness(objs))
}

func TestDominantCoreTypeReturnsFirstMatch(t *testing.T) {
	objs := []map[string]any{
		{"@type": "Thing"},
		{"@type": "Product"},
	}

	assert.Equal(t, "Product", dominantCoreType(objs, "Product", "Offer"))
	assert.Equal(t, "", dominantCoreType(objs, "Event"))
}

var _ = model.FAQSchema{}
