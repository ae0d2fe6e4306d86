package scorer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

func TestContentQualityDepthScoreScalesWithWordCount(t *testing.T) {
	assert.Equal(t, 4.0, depthScore(model.PageModel{WordCount: 2000}))
	assert.Equal(t, 3.0, depthScore(model.PageModel{WordCount: 900}))
	assert.Equal(t, 2.0, depthScore(model.PageModel{WordCount: 500}))
	assert.Equal(t, 1.0, depthScore(model.PageModel{WordCount: 50}))
	assert.Equal(t, 0.0, depthScore(model.PageModel{WordCount: 0}))
}

func TestContentQualityStructureScoreScalesWithH2Count(t *testing.T) {
	h2s := func(n int) []model.Heading {
		var hs []model.Heading
		for i := 0; i < n; i++ {
			hs = append(hs, model.Heading{Level: 2})
		}
		return hs
	}

	assert.Equal(t, 3.0, structureScore(model.PageModel{Headings: h2s(8)}))
	assert.Equal(t, 2.0, structureScore(model.PageModel{Headings: h2s(5)}))
	assert.Equal(t, 1.0, structureScore(model.PageModel{Headings: h2s(2)}))
	assert.Equal(t, 0.0, structureScore(model.PageModel{Headings: h2s(1)}))
}

func TestContentQualityUniqueValueScoreCapsAtThree(t *testing.T) {
	pm := model.PageModel{
		Tables:     []model.Table{{}},
		Paragraphs: []model.Paragraph{{Text: "```go\nfunc main() {}\n```"}},
		Images: []model.Image{
			{Decorative: false}, {Decorative: false}, {Decorative: false},
		},
	}

	assert.Equal(t, 3.0, uniqueValueScore(pm))
}

func TestContentQualityFreshnessPrefersModifiedOverPublished(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	modified := now.Add(-30 * 24 * time.Hour)
	published := now.Add(-400 * 24 * time.Hour)

	pm := model.PageModel{Dates: model.Dates{Modified: &modified, Published: &published}}

	assert.Equal(t, 3.0, freshnessScore(pm, now))
}

func TestContentQualityFreshnessZeroWithNoDates(t *testing.T) {
	assert.Equal(t, 0.0, freshnessScore(model.PageModel{}, time.Now()))
}

func TestContentQualityMediaDiversityRequiresBothImagesAndTables(t *testing.T) {
	assert.Equal(t, 1.0, mediaDiversityScore(model.PageModel{
		Images: []model.Image{{}}, Tables: []model.Table{{}},
	}))
	assert.Equal(t, 0.0, mediaDiversityScore(model.PageModel{Images: []model.Image{{}}}))
}

func TestContentQualityClampsAtMax(t *testing.T) {
	now := time.Now()
	modified := now.Add(-time.Hour)
	pm := model.PageModel{
		WordCount: 3000,
		Headings:  []model.Heading{{Level: 2}, {Level: 2}, {Level: 2}, {Level: 2}, {Level: 2}, {Level: 2}, {Level: 2}, {Level: 2}},
		Tables:    []model.Table{{}},
		Images:    []model.Image{{Decorative: false}, {Decorative: false}, {Decorative: false}},
		Paragraphs: []model.Paragraph{{Text: "```go\ncode\n```"}},
		Dates:     model.Dates{Modified: &modified},
	}

	score := ContentQuality(pm, now)

	assert.LessOrEqual(t, score.Raw, MaxContentQuality)
}
