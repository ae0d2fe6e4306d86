package scorer

import "github.com/aeoaudit/aeoaudit/pkg/model"

var coreSchemaTypes = map[string]bool{"Article": true, "WebPage": true, "Organization": true}
var richSchemaTypes = map[string]bool{"FAQPage": true, "HowTo": true, "BreadcrumbList": true}

// StructuredData implements spec §4.E's 15-point Structured Data scorer.
func StructuredData(pm model.PageModel, schemaCompletenessRatio float64) model.CategoryScore {
	basic := basicPresence(pm)
	quality := schemaQuality(pm, schemaCompletenessRatio)
	advanced := advancedStructured(pm)
	social := socialMetadata(pm)

	if basic == 0 && quality == 0 && advanced == 0 && social == 0 {
		if len(pm.Title) > 10 && len(pm.Meta.Description) > 30 && len(pm.Headings) >= 5 {
			basic = 3 // pity points, spec §4.E fallback clause
		}
	}

	raw := clamp(basic+quality+advanced+social, MaxStructuredData)

	return model.CategoryScore{
		Category: CategoryStructuredData,
		Raw:      raw,
		Max:      MaxStructuredData,
		SubScores: map[string]float64{
			"basic_presence":  basic,
			"schema_quality":  quality,
			"advanced":        advanced,
			"social_metadata": social,
		},
	}
}

// basicPresence: max 5.
func basicPresence(pm model.PageModel) float64 {
	var score float64
	if len(pm.JSONLD) > 0 {
		score += 3
	}
	if len(pm.Meta.OpenGraph) > 0 {
		score += 2
	}
	if pm.MicrodataPresent || pm.RDFaPresent {
		score += 2
	}
	return minF(score, 5)
}

// schemaQuality: max 5.
func schemaQuality(pm model.PageModel, completenessRatio float64) float64 {
	var score float64
	hasCore, hasRich := false, false
	for _, obj := range pm.JSONLD {
		for _, t := range typesOf(obj) {
			if coreSchemaTypes[t] {
				hasCore = true
			}
			if richSchemaTypes[t] {
				hasRich = true
			}
		}
	}
	if hasCore {
		score += 3
	}
	if hasRich {
		score += 2
	}
	if completenessRatio >= 0.7 {
		score += 2
	}
	return minF(score, 5)
}

// advancedStructured: max 3.
func advancedStructured(pm model.PageModel) float64 {
	var score float64
	if pm.FAQSchema.ValidCount >= 3 {
		score += 2
	}
	for _, obj := range pm.JSONLD {
		for _, t := range typesOf(obj) {
			if t == "BreadcrumbList" {
				score += 1
			}
		}
	}
	return minF(score, 3)
}

// socialMetadata: max 2.
func socialMetadata(pm model.PageModel) float64 {
	var score float64
	og := pm.Meta.OpenGraph
	if og["title"] != "" && og["description"] != "" && og["image"] != "" {
		score += 1
	}
	if len(pm.Meta.Twitter) > 0 {
		score += 1
	}
	return minF(score, 2)
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
