package extractor

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

// requiredFieldsByType implements the per-type completeness rule from
// spec §4.C Schema: "Required-fields validation per type".
var requiredFieldsByType = map[string][]string{
	"Article":      {"headline", "author", "datePublished"},
	"BlogPosting":  {"headline", "author", "datePublished"},
	"Person":       {"name"},
	"Organization": {"name"},
	"FAQPage":      {"mainEntity"},
	"HowTo":        {"name", "step"},
	"Product":      {"name", "offers"},
}

// schemaResult carries every signal the Schema extractor produces.
type schemaResult struct {
	objects          []map[string]any
	microdataPresent bool
	rdfaPresent      bool
	faq              model.FAQSchema
	brokenBlocks     int
}

// extractSchema implements the Schema extractor (spec §4.C): parse every
// JSON-LD script, flatten @graph, and record FAQPage Q/A pairs. Malformed
// blocks are tolerated and counted, never fatal (spec §7 "Parse failure").
func extractSchema(doc *html.Node) schemaResult {
	var res schemaResult

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script && attrOf(n, "type") == "application/ld+json" {
			raw := textOf(n)
			objs, ok := parseJSONLD(raw)
			if !ok {
				res.brokenBlocks++
			} else {
				res.objects = append(res.objects, objs...)
			}
		}
		if n.Type == html.ElementNode {
			if attrOf(n, "itemscope") != "" || attrOf(n, "itemtype") != "" {
				res.microdataPresent = true
			}
			for _, a := range n.Attr {
				if strings.HasPrefix(a.Key, "typeof") || strings.HasPrefix(a.Key, "vocab") || strings.HasPrefix(a.Key, "property") {
					res.rdfaPresent = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	res.faq = collectFAQPairs(res.objects)
	return res
}

// parseJSONLD decodes one <script> block's JSON, flattening @graph arrays
// into a flat list of typed objects.
func parseJSONLD(raw string) ([]map[string]any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}

	var top any
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, false
	}

	var objs []map[string]any
	var flatten func(v any)
	flatten = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			if graph, ok := t["@graph"]; ok {
				flatten(graph)
				return
			}
			objs = append(objs, t)
		case []any:
			for _, e := range t {
				flatten(e)
			}
		}
	}
	flatten(top)
	return objs, true
}

// collectFAQPairs finds any FAQPage object and extracts its Q/A pairs. A
// pair is valid when both name and acceptedAnswer.text are non-empty.
func collectFAQPairs(objs []map[string]any) model.FAQSchema {
	var out model.FAQSchema

	for _, obj := range objs {
		if !typeMatches(obj, "FAQPage") {
			continue
		}
		entities, _ := obj["mainEntity"].([]any)
		for _, e := range entities {
			q, ok := e.(map[string]any)
			if !ok {
				continue
			}
			name, _ := q["name"].(string)
			answerText := ""
			if aa, ok := q["acceptedAnswer"].(map[string]any); ok {
				answerText, _ = aa["text"].(string)
			}
			valid := strings.TrimSpace(name) != "" && strings.TrimSpace(answerText) != ""
			out.Pairs = append(out.Pairs, model.FAQPair{Question: name, Answer: answerText, Valid: valid})
			if valid {
				out.ValidCount++
			}
		}
	}
	return out
}

func typeMatches(obj map[string]any, want string) bool {
	switch t := obj["@type"].(type) {
	case string:
		return t == want
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

// SchemaCompleteness exposes schemaCompleteness for callers outside the
// package (the calculator needs it without re-parsing JSON-LD itself).
func SchemaCompleteness(objs []map[string]any) float64 {
	return schemaCompleteness(objs)
}

// schemaCompleteness counts, over every object whose @type has a known
// required-fields rule, the required fields and how many of them are
// present, and returns present/required across all such objects (0 when
// no object has a known type).
func schemaCompleteness(objs []map[string]any) float64 {
	var totalRequired, totalPresent int

	for _, obj := range objs {
		types := schemaTypes(obj)
		for _, t := range types {
			required, ok := requiredFieldsByType[t]
			if !ok {
				continue
			}
			for _, field := range required {
				totalRequired++
				if fieldPresent(obj, field) {
					totalPresent++
				}
			}
		}
	}

	if totalRequired == 0 {
		return 0
	}
	return float64(totalPresent) / float64(totalRequired)
}

func schemaTypes(obj map[string]any) []string {
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

func fieldPresent(obj map[string]any, field string) bool {
	v, ok := obj[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// dominantCoreType returns the first @type among objs that is one of
// candidates, or "" when none is present.
func dominantCoreType(objs []map[string]any, candidates ...string) string {
	for _, obj := range objs {
		for _, t := range schemaTypes(obj) {
			for _, c := range candidates {
				if t == c {
					return t
				}
			}
		}
	}
	return ""
}
