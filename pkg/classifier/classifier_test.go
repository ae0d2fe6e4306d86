package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

func TestClassifyExplicitMetaWinsOverEverythingElse(t *testing.T) {
	pm := model.PageModel{
		URL:  "https://example.com/product/widget",
		Meta: model.Meta{AEOContentType: "informational"},
		JSONLD: []map[string]any{
			{"@type": "Product"},
		},
	}

	got := Classify(pm)

	assert.Equal(t, model.ContentTypeInformational, got.Type)
	assert.Equal(t, model.ConfidenceHigh, got.Confidence)
	assert.Contains(t, got.SignalsMatched, "meta:aeo-content-type")
}

func TestClassifySchemaTypeBeatsURLPath(t *testing.T) {
	pm := model.PageModel{
		URL: "https://example.com/blog/my-post",
		JSONLD: []map[string]any{
			{"@type": "Event"},
		},
	}

	got := Classify(pm)

	assert.Equal(t, model.ContentTypeExperiential, got.Type)
	assert.Equal(t, model.ConfidenceHigh, got.Confidence)
}

func TestClassifyURLPathBeatsHeuristics(t *testing.T) {
	pm := model.PageModel{
		URL: "https://example.com/pricing/enterprise",
	}

	got := Classify(pm)

	assert.Equal(t, model.ContentTypeTransactional, got.Type)
	assert.Equal(t, model.ConfidenceMedium, got.Confidence)
}

func TestClassifyFallsBackToContentHeuristics(t *testing.T) {
	pm := model.PageModel{
		URL:   "https://example.com/p/12345",
		Title: "Our Journey and Story",
		Paragraphs: []model.Paragraph{
			{Text: "this experience was the journey of a lifetime"},
		},
	}

	got := Classify(pm)

	assert.Equal(t, model.ContentTypeExperiential, got.Type)
}

func TestClassifyTieDefaultsToInformationalLowConfidence(t *testing.T) {
	pm := model.PageModel{
		URL:   "https://example.com/p/99999",
		Title: "Nothing Special Here",
	}

	got := Classify(pm)

	assert.Equal(t, model.ContentTypeInformational, got.Type)
	assert.Equal(t, model.ConfidenceLow, got.Confidence)
	assert.Contains(t, got.SignalsMatched, "tie_default")
}

func TestClassifyIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	pm := model.PageModel{
		URL:   "https://example.com/p/1",
		Title: "How to buy and price a gallery experience",
		Paragraphs: []model.Paragraph{
			{Text: "buy price specifications experience journey story how to guide learn"},
		},
	}

	first := Classify(pm)
	for i := 0; i < 20; i++ {
		got := Classify(pm)
		assert.Equal(t, first.Type, got.Type)
		assert.Equal(t, first.Confidence, got.Confidence)
	}
}
