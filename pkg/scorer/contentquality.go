package scorer

import (
	"strings"
	"time"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

// ContentQuality implements spec §4.E's 15-point Content Quality scorer.
func ContentQuality(pm model.PageModel, now time.Time) model.CategoryScore {
	depth := depthScore(pm)
	structure := structureScore(pm)
	unique := uniqueValueScore(pm)
	freshness := freshnessScore(pm, now)
	diversity := mediaDiversityScore(pm)

	raw := clamp(depth+structure+unique+freshness+diversity, MaxContentQuality)

	return model.CategoryScore{
		Category: CategoryContentQuality,
		Raw:      raw,
		Max:      MaxContentQuality,
		SubScores: map[string]float64{
			"depth":           depth,
			"structure":       structure,
			"unique_value":    unique,
			"freshness":       freshness,
			"media_diversity": diversity,
		},
	}
}

func depthScore(pm model.PageModel) float64 {
	switch {
	case pm.WordCount >= 1500:
		return 4
	case pm.WordCount >= 800:
		return 3
	case pm.WordCount >= 400:
		return 2
	case pm.WordCount > 0:
		return 1
	}
	return 0
}

func structureScore(pm model.PageModel) float64 {
	h2 := 0
	for _, h := range pm.Headings {
		if h.Level == 2 {
			h2++
		}
	}
	switch {
	case h2 >= 8:
		return 3
	case h2 >= 5:
		return 2
	case h2 >= 2:
		return 1
	}
	return 0
}

// uniqueValueScore: +1 each for a data table, a code block, and >=3
// informational images, capped at 3. PageModel has no dedicated code-block
// record, so a code block is inferred from a paragraph containing a ```
// fence or the text "function " (spec has no stronger signal to extract from
// a stripped-down DOM without a preserved <pre>/<code> node type).
func uniqueValueScore(pm model.PageModel) float64 {
	var score float64
	if len(pm.Tables) >= 1 {
		score += 1
	}
	if hasCodeLikeParagraph(pm.Paragraphs) {
		score += 1
	}
	informationalImages := 0
	for _, img := range pm.Images {
		if !img.Decorative {
			informationalImages++
		}
	}
	if informationalImages >= 3 {
		score += 1
	}
	return minF(score, 3)
}

func hasCodeLikeParagraph(paragraphs []model.Paragraph) bool {
	for _, p := range paragraphs {
		if strings.Contains(p.Text, "```") || strings.Contains(p.Text, "function ") || strings.Contains(p.Text, "```go") {
			return true
		}
	}
	return false
}

func freshnessScore(pm model.PageModel, now time.Time) float64 {
	ref := pm.Dates.Modified
	if ref == nil {
		ref = pm.Dates.Published
	}
	if ref == nil {
		return 0
	}
	days := now.Sub(*ref).Hours() / 24
	switch {
	case days <= 90:
		return 3
	case days <= 180:
		return 2
	case days <= 365:
		return 1
	}
	return 0
}

func mediaDiversityScore(pm model.PageModel) float64 {
	if len(pm.Images) > 0 && len(pm.Tables) > 0 {
		return 1
	}
	return 0
}
