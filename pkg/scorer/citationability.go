package scorer

import (
	"regexp"
	"strings"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

var statisticPattern = regexp.MustCompile(`\b\d+(\.\d+)?\s?(%|percent)\b|\b\d{2,}\b`)
var definitionPattern = regexp.MustCompile(`(?i)\bis (a|an|the) \b|\brefers to\b|\bis defined as\b`)
var popupMarkerPattern = regexp.MustCompile(`(?i)(subscribe to continue|paywall|sign up to read|disable your ad blocker)`)
var referencesHeadingPattern = regexp.MustCompile(`(?i)^(references|sources|citations|bibliography)$`)

// Citationability implements spec §4.E's 12-point Citationability scorer.
func Citationability(pm model.PageModel, tlsValid bool, rawHTML string) model.CategoryScore {
	factDensity := factDensityScore(pm)
	structured := structuredDataDensityScore(pm)
	security := securityScore(pm, tlsValid)
	hygiene := trustHygieneScore(pm, rawHTML)

	raw := clamp(factDensity+structured+security+hygiene, MaxCitationability)

	return model.CategoryScore{
		Category: CategoryCitationability,
		Raw:      raw,
		Max:      MaxCitationability,
		SubScores: map[string]float64{
			"fact_density":      factDensity,
			"structured_data":   structured,
			"security":          security,
			"trust_hygiene":     hygiene,
		},
	}
}

func factDensityScore(pm model.PageModel) float64 {
	statSentences, definitions := 0, 0
	for _, p := range pm.Paragraphs {
		for _, sentence := range splitSentences(p.Text) {
			if statisticPattern.MatchString(sentence) {
				statSentences++
			}
			if definitionPattern.MatchString(sentence) {
				definitions++
			}
		}
	}
	return minF(float64(statSentences)*0.2+float64(definitions)*0.3, 4)
}

func structuredDataDensityScore(pm model.PageModel) float64 {
	tablesRich := 0
	for _, t := range pm.Tables {
		if len(t.Rows) >= 3 {
			tablesRich++
		}
	}
	listsRich := 0
	for _, l := range pm.Lists {
		if len(l.Items) >= 4 {
			listsRich++
		}
	}
	return minF(float64(tablesRich)*0.5+float64(listsRich)*0.2, 3)
}

func securityScore(pm model.PageModel, tlsValid bool) float64 {
	if pm.IsHTTPS && tlsValid {
		return 2
	}
	return 0
}

func trustHygieneScore(pm model.PageModel, rawHTML string) float64 {
	var score float64
	if !popupMarkerPattern.MatchString(rawHTML) {
		score += 1
	}

	hasByline := pm.Author.Found
	hasReferences := false
	for _, h := range pm.Headings {
		if referencesHeadingPattern.MatchString(strings.TrimSpace(h.Text)) {
			hasReferences = true
		}
	}
	if hasByline || hasReferences {
		score += 2
	}
	return minF(score, 3)
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}
