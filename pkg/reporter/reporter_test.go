package reporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

func TestRenderPageHTMLIncludesURLGradeAndRecommendations(t *testing.T) {
	audit := model.PageAudit{
		URL:                   "https://example.com/widgets",
		OverallScore:          82.5,
		Grade:                 "B",
		ContentClassification: model.ContentClassification{Type: model.ContentTypeInformational, Confidence: model.ConfidenceHigh},
		Breakdown: map[string]model.WeightedCategoryScore{
			"answerability": {Percentage: 90},
		},
		Recommendations: []model.Recommendation{
			{Category: "technical", SubScore: "lcp", Gap: 55, Priority: "medium"},
		},
		FetchedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	out, err := RenderPageHTML(audit)

	require.NoError(t, err)
	assert.Contains(t, out, "https://example.com/widgets")
	assert.Contains(t, out, "B")
	assert.Contains(t, out, "technical / lcp")
	assert.Contains(t, out, "priority-medium")
}

func TestRenderDomainMarkdownIncludesBreakdownAndGEO(t *testing.T) {
	audit := model.DomainAudit{
		Domain:          "example.com",
		PagesAudited:    5,
		PagesSuccessful: 4,
		OverallScore:    75.3,
		Grade:           "C",
		Breakdown: map[string]model.CategoryAggregate{
			"answerability": {MeanPercentage: 80, BestPage: "https://example.com/a", WorstPage: "https://example.com/b"},
		},
		BestPage:  "https://example.com/a",
		WorstPage: "https://example.com/b",
		GEOScore: &model.GEOScore{
			Overall: 62.0,
			Components: []model.GEOComponent{
				{Name: "content_authority", Raw: 10, Max: 20, BelowTarget: true, Actions: []string{"Add more authoritative citations"}},
			},
		},
	}

	md := RenderDomainMarkdown(audit)

	assert.Contains(t, md, "# AEO Audit: example.com")
	assert.Contains(t, md, "C (75.3/100)")
	assert.Contains(t, md, "answerability")
	assert.Contains(t, md, "GEO Inclusion Readiness: 62.0/100")
	assert.Contains(t, md, "content_authority")
	assert.Contains(t, md, "below target")
	assert.Contains(t, md, "Add more authoritative citations")
}

func TestSortedKeysReturnsAlphabeticalOrder(t *testing.T) {
	m := map[string]model.CategoryAggregate{
		"technical":     {},
		"answerability": {},
		"authority":     {},
	}

	keys := sortedKeys(m)

	assert.Equal(t, []string{"answerability", "authority", "technical"}, keys)
}
