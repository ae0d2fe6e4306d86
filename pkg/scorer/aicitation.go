package scorer

import (
	"context"
	"strings"

	"github.com/aeoaudit/aeoaudit/pkg/llm"
	"github.com/aeoaudit/aeoaudit/pkg/model"
)

const maxPrompts = 20

// AICitation implements spec §4.E's optional 5-point AI Citation scorer.
// It is only computed when at least one LLM client is configured; the
// caller decides whether to invoke this at all (spec: "missing clients
// disable the category rather than fail the audit").
func AICitation(ctx context.Context, pm model.PageModel, targetURL string, clients []llm.Client) model.CategoryScore {
	prompts := synthesizePrompts(pm)

	var cited int
	var cosineSum float64
	total := 0

	for _, client := range clients {
		for _, prompt := range prompts {
			resp, err := client.Query(ctx, prompt)
			if err != nil {
				continue
			}
			total++
			if mentionsTarget(resp.Text, targetURL) {
				cited++
			}
			cosineSum += embeddingCosineApprox(resp.Text, pm)
		}
	}

	// The spec's alignment formula splits 0.6/0.4 between an overall-response
	// cosine and a best-chunk cosine; without a wired embeddings provider we
	// only have one keyword-overlap signal per response, so both terms
	// collapse onto the same mean (see embeddingCosineApprox).
	citationRate := 0.0
	alignment := 0.0
	if total > 0 {
		citationRate = float64(cited) / float64(total)
		alignment = meanCosine(cosineSum, total)
	}

	raw := clamp(minF(3, citationRate/0.1*3)+alignment*2, MaxAICitation)

	return model.CategoryScore{
		Category: CategoryAICitation,
		Raw:      raw,
		Max:      MaxAICitation,
		SubScores: map[string]float64{
			"citation_rate": citationRate,
			"alignment":     alignment,
		},
	}
}

// synthesizePrompts builds up to 20 prompts from page questions, keywords,
// and H2s, per spec §4.E.
func synthesizePrompts(pm model.PageModel) []string {
	var prompts []string

	for _, q := range pm.Questions {
		if len(prompts) >= maxPrompts {
			return prompts
		}
		prompts = append(prompts, q.Text)
	}
	for _, h := range pm.Headings {
		if h.Level != 2 || len(prompts) >= maxPrompts {
			continue
		}
		prompts = append(prompts, "Tell me about "+h.Text)
	}
	for _, kw := range pm.Keywords {
		if len(prompts) >= maxPrompts {
			break
		}
		prompts = append(prompts, "What is "+kw+"?")
	}

	if len(prompts) > maxPrompts {
		prompts = prompts[:maxPrompts]
	}
	return prompts
}

func mentionsTarget(text, targetURL string) bool {
	host := hostOf(targetURL)
	return host != "" && strings.Contains(strings.ToLower(text), strings.ToLower(host))
}

func hostOf(rawURL string) string {
	idx := strings.Index(rawURL, "://")
	if idx < 0 {
		return ""
	}
	rest := rawURL[idx+3:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

// embeddingCosineApprox is a placeholder scoring heuristic: absent a wired
// embeddings provider, similarity is approximated by shared-keyword
// overlap between the LLM response and the page's own top keywords.
func embeddingCosineApprox(text string, pm model.PageModel) float64 {
	if len(pm.Keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range pm.Keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(pm.Keywords))
}

func meanCosine(sum float64, total int) float64 {
	if total == 0 {
		return 0
	}
	return sum / float64(total)
}
