// Package classifier assigns a ContentType to a PageModel by consulting
// signals in priority order, stopping at the first confident match, per
// spec §4.D. The classification is advisory input to scoring, never a gate.
package classifier

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

var (
	experientialPath = regexp.MustCompile(`(?i)/(experience|event|tour)`)
	informationalPath = regexp.MustCompile(`(?i)/(blog|guide|how-to|faq)`)
	transactionalPath = regexp.MustCompile(`(?i)/(product|shop|pricing)`)
	navigationalPath  = regexp.MustCompile(`(?i)/(category|archive|tag)`)
)

var experientialWords = []string{"experience", "journey", "story"}
var informationalWords = []string{"how to", "guide", "learn"}
var transactionalWords = []string{"buy", "price", "specifications"}

// Classify implements spec §4.D's four-tier priority chain.
func Classify(pm model.PageModel) model.ContentClassification {
	if t, ok := fromExplicitMeta(pm.Meta.AEOContentType); ok {
		return model.ContentClassification{Type: t, Confidence: model.ConfidenceHigh, SignalsMatched: []string{"meta:aeo-content-type"}}
	}

	if t, signal, ok := fromSchemaType(pm.JSONLD); ok {
		return model.ContentClassification{Type: t, Confidence: model.ConfidenceHigh, SignalsMatched: []string{signal}}
	}

	if t, signal, ok := fromURLPath(pm.URL); ok {
		return model.ContentClassification{Type: t, Confidence: model.ConfidenceMedium, SignalsMatched: []string{signal}}
	}

	return fromContentHeuristics(pm)
}

func fromExplicitMeta(v string) (model.ContentType, bool) {
	switch model.ContentType(strings.ToLower(strings.TrimSpace(v))) {
	case model.ContentTypeInformational, model.ContentTypeExperiential, model.ContentTypeTransactional, model.ContentTypeNavigational:
		return model.ContentType(strings.ToLower(strings.TrimSpace(v))), true
	}
	return "", false
}

var schemaTypeMap = map[string]model.ContentType{
	"Article":         model.ContentTypeInformational,
	"BlogPosting":      model.ContentTypeInformational,
	"Event":            model.ContentTypeExperiential,
	"Place":            model.ContentTypeExperiential,
	"TouristAttraction": model.ContentTypeExperiential,
	"Product":          model.ContentTypeTransactional,
	"Offer":            model.ContentTypeTransactional,
	"CollectionPage":   model.ContentTypeNavigational,
	"ItemList":         model.ContentTypeNavigational,
}

func fromSchemaType(objs []map[string]any) (model.ContentType, string, bool) {
	for _, obj := range objs {
		types := typesOf(obj)
		for _, t := range types {
			if ct, ok := schemaTypeMap[t]; ok {
				return ct, "schema:" + t, true
			}
		}
	}
	return "", "", false
}

func typesOf(obj map[string]any) []string {
	switch t := obj["@type"].(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func fromURLPath(rawURL string) (model.ContentType, string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", false
	}
	path := u.Path

	switch {
	case experientialPath.MatchString(path):
		return model.ContentTypeExperiential, "url_path:experiential", true
	case informationalPath.MatchString(path):
		return model.ContentTypeInformational, "url_path:informational", true
	case transactionalPath.MatchString(path):
		return model.ContentTypeTransactional, "url_path:transactional", true
	case navigationalPath.MatchString(path):
		return model.ContentTypeNavigational, "url_path:navigational", true
	}
	return "", "", false
}

// fromContentHeuristics implements the last-resort keyword histogram plus
// structural hints (galleries, forms, Q&A density). Ties fall to
// informational/low per spec §4.D.
func fromContentHeuristics(pm model.PageModel) model.ContentClassification {
	text := strings.ToLower(pm.Title)
	for _, p := range pm.Paragraphs {
		text += " " + strings.ToLower(p.Text)
	}

	// A fixed candidate slice keeps evaluation order deterministic: map
	// iteration order is randomized in Go and would otherwise make the
	// classifier's output vary run-to-run.
	type candidate struct {
		ct    model.ContentType
		score int
	}
	candidates := []candidate{
		{model.ContentTypeExperiential, countAny(text, experientialWords)},
		{model.ContentTypeInformational, countAny(text, informationalWords)},
		{model.ContentTypeTransactional, countAny(text, transactionalWords)},
	}

	// Structural hints: a dense Q&A page leans informational, a page with
	// many images and no text signal leans experiential (gallery-like).
	for i := range candidates {
		switch candidates[i].ct {
		case model.ContentTypeInformational:
			if len(pm.Questions) >= 3 {
				candidates[i].score += 2
			}
		case model.ContentTypeExperiential:
			if len(pm.Images) >= 8 && len(pm.Paragraphs) < 3 {
				candidates[i].score += 2
			}
		}
	}

	best := model.ContentTypeInformational
	bestScore := -1
	signal := ""
	for _, c := range candidates {
		if c.score > bestScore {
			bestScore = c.score
			best = c.ct
			signal = "content_heuristics"
		}
	}

	tied := false
	for _, c := range candidates {
		if c.ct != best && c.score == bestScore {
			tied = true
		}
	}

	if bestScore <= 0 || tied {
		return model.ContentClassification{Type: model.ContentTypeInformational, Confidence: model.ConfidenceLow, SignalsMatched: []string{"tie_default"}}
	}

	confidence := model.ConfidenceLow
	if bestScore >= 4 {
		confidence = model.ConfidenceMedium
	}
	return model.ContentClassification{Type: best, Confidence: confidence, SignalsMatched: []string{signal}}
}

func countAny(text string, words []string) int {
	n := 0
	for _, w := range words {
		n += strings.Count(text, w)
	}
	return n
}
