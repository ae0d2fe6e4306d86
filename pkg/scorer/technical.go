package scorer

import (
	"strings"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

var semanticHTMLTags = []string{"article", "section", "header", "footer"}

// Technical implements spec §4.E's 10-point Technical scorer.
func Technical(pm model.PageModel, rawHTML string) model.CategoryScore {
	lcp := lcpScore(pm)
	mobile := mobileScore(pm, rawHTML)
	semantic := semanticHTMLScore(pm, rawHTML)
	internal := internalLinkingScore(pm)
	metaLen := metaDescriptionLengthScore(pm)

	raw := clamp(lcp+mobile+semantic+internal+metaLen, MaxTechnical)

	return model.CategoryScore{
		Category: CategoryTechnical,
		Raw:      raw,
		Max:      MaxTechnical,
		SubScores: map[string]float64{
			"lcp":                lcp,
			"mobile":             mobile,
			"semantic_html":      semantic,
			"internal_linking":   internal,
			"meta_description":   metaLen,
		},
	}
}

func lcpScore(pm model.PageModel) float64 {
	if pm.Performance.LCPMillis == nil {
		return 0
	}
	lcpSeconds := float64(*pm.Performance.LCPMillis) / 1000.0
	switch {
	case lcpSeconds <= 2.5:
		return 3
	case lcpSeconds <= 4:
		return 2
	case lcpSeconds <= 6:
		return 1
	}
	return 0
}

func mobileScore(pm model.PageModel, rawHTML string) float64 {
	var score float64
	if pm.Meta.Viewport != "" {
		score += 1
	}
	if strings.Contains(rawHTML, "@media") || strings.Contains(rawHTML, "max-width") {
		score += 1
	}
	return score
}

func semanticHTMLScore(pm model.PageModel, rawHTML string) float64 {
	var score float64
	count := 0
	lower := strings.ToLower(rawHTML)
	for _, tag := range semanticHTMLTags {
		if strings.Contains(lower, "<"+tag) {
			count++
		}
	}
	if count >= 2 {
		score += 1
	}
	if validHeadingHierarchy(pm.Headings) {
		score += 1
	}
	return score
}

// validHeadingHierarchy: exactly one h1, and no h_n jumps by more than 1
// downward through the document.
func validHeadingHierarchy(headings []model.Heading) bool {
	h1Count := 0
	lastLevel := 0
	for _, h := range headings {
		if h.Level == 1 {
			h1Count++
		}
		if lastLevel != 0 && h.Level > lastLevel+1 {
			return false
		}
		lastLevel = h.Level
	}
	return h1Count == 1
}

func internalLinkingScore(pm model.PageModel) float64 {
	return minF(float64(pm.InternalLinksCount)*0.2, 2)
}

func metaDescriptionLengthScore(pm model.PageModel) float64 {
	l := len(pm.Meta.Description)
	if l >= 50 && l <= 160 {
		return 1
	}
	return 0
}
