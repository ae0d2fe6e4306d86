package aggregator

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

const (
	maxBrandFoundation = 30.0
	maxTopicCoverage    = 25.0
	maxConsistency      = 20.0
	maxAIRecall         = 15.0
	maxTrust            = 10.0
	geoBelowTargetRatio = 0.6
)

var aboutPathPattern = regexp.MustCompile(`(?i)/(about|what-is|who-we-are)`)
var comparativePattern = regexp.MustCompile(`(?i)\b(vs\.?|versus|compared to|best|top \d+)\b`)

// GEOInputs bundles the PageModels and brand name needed to compute the
// GEO score; it scans only already-extracted models, never fetching again
// (spec §4.G "no new fetching").
type GEOInputs struct {
	Brand      string
	PageModels map[string]model.PageModel
	PageAudits map[string]model.PageAudit
}

// ComputeGEO implements spec §4.G's five-component, additive brand-level
// GEO score (total 100).
func ComputeGEO(in GEOInputs) model.GEOScore {
	foundation := brandFoundation(in)
	topic := topicCoverage(in)
	consistency := consistencyComponent(in)
	recall := aiRecall(in)
	trust := trustComponent(in)

	components := []model.GEOComponent{foundation, topic, consistency, recall, trust}
	var overall float64
	for i := range components {
		components[i].BelowTarget = components[i].Raw < components[i].Max*geoBelowTargetRatio
		overall += components[i].Raw
	}

	return model.GEOScore{Overall: overall, Components: components}
}

// brandFoundation looks for a canonical About page, Organization schema,
// and brand-mention ubiquity across pages.
func brandFoundation(in GEOInputs) model.GEOComponent {
	var score float64

	hasAboutPage := false
	hasOrgSchema := false
	for u, pm := range in.PageModels {
		if aboutPathPattern.MatchString(pathOf(u)) {
			hasAboutPage = true
		}
		for _, obj := range pm.JSONLD {
			for _, t := range objTypes(obj) {
				if t == "Organization" {
					hasOrgSchema = true
				}
			}
		}
	}
	if hasAboutPage {
		score += 12
	}
	if hasOrgSchema {
		score += 10
	}

	mentionRatio := brandMentionRatio(in)
	score += mentionRatio * 8

	score = clampGEO(score, maxBrandFoundation)

	var actions []string
	if !hasAboutPage {
		actions = append(actions, "add_canonical_about_page")
	}
	if !hasOrgSchema {
		actions = append(actions, "add_organization_schema")
	}

	return model.GEOComponent{Name: "brand_foundation", Raw: score, Max: maxBrandFoundation, Actions: actions}
}

// topicCoverage counts distinct keyword topics and hub-and-spoke depth,
// the latter estimated with a PageRank-style internal-authority pass
// adapted from link-graph analysis rather than raw mention counting.
func topicCoverage(in GEOInputs) model.GEOComponent {
	topics := map[string]bool{}
	for _, pm := range in.PageModels {
		for _, kw := range pm.Keywords {
			topics[kw] = true
		}
	}
	topicScore := minGEO(float64(len(topics))/30.0*15, 15)

	authority := internalAuthority(in.PageModels)
	hubDepth := hubAndSpokeDepth(authority)
	depthScore := minGEO(hubDepth*10, 10)

	score := clampGEO(topicScore+depthScore, maxTopicCoverage)

	var actions []string
	if len(topics) < 15 {
		actions = append(actions, "broaden_topic_coverage")
	}
	if hubDepth < 0.5 {
		actions = append(actions, "build_hub_and_spoke_internal_linking")
	}

	return model.GEOComponent{Name: "topic_coverage", Raw: score, Max: maxTopicCoverage, Actions: actions}
}

// consistencyComponent measures brand-mention coverage across pages and
// outlier detection on per-page overall scores.
func consistencyComponent(in GEOInputs) model.GEOComponent {
	if len(in.PageModels) == 0 {
		return model.GEOComponent{Name: "consistency", Raw: 0, Max: maxConsistency}
	}

	mentionRatio := brandMentionRatio(in)
	mentionScore := mentionRatio * 12

	outlierPenalty := outlierRatio(in.PageAudits) * 8
	score := clampGEO(mentionScore+(8-outlierPenalty), maxConsistency)

	var actions []string
	if mentionRatio < 0.7 {
		actions = append(actions, "increase_brand_mention_consistency")
	}

	return model.GEOComponent{Name: "consistency", Raw: score, Max: maxConsistency, Actions: actions}
}

// aiRecall rewards comparative/list content and distinct brand naming.
func aiRecall(in GEOInputs) model.GEOComponent {
	var comparativePages int
	for _, pm := range in.PageModels {
		for _, p := range pm.Paragraphs {
			if comparativePattern.MatchString(p.Text) {
				comparativePages++
				break
			}
		}
	}
	comparativeScore := minGEO(float64(comparativePages)/float64(maxInt(len(in.PageModels), 1))*10, 10)

	namingScore := minGEO(brandMentionRatio(in)*5, 5)

	score := clampGEO(comparativeScore+namingScore, maxAIRecall)

	var actions []string
	if comparativePages == 0 {
		actions = append(actions, "add_comparative_or_listicle_content")
	}

	return model.GEOComponent{Name: "ai_recall", Raw: score, Max: maxAIRecall, Actions: actions}
}

// trustComponent aggregates HTTPS, authorship, and date transparency.
func trustComponent(in GEOInputs) model.GEOComponent {
	if len(in.PageModels) == 0 {
		return model.GEOComponent{Name: "trust", Raw: 0, Max: maxTrust}
	}

	var httpsCount, authorCount, dateCount int
	for _, pm := range in.PageModels {
		if pm.IsHTTPS {
			httpsCount++
		}
		if pm.Author.Found {
			authorCount++
		}
		if pm.Dates.Published != nil {
			dateCount++
		}
	}
	n := float64(len(in.PageModels))
	score := (float64(httpsCount)/n)*4 + (float64(authorCount)/n)*3 + (float64(dateCount)/n)*3
	score = clampGEO(score, maxTrust)

	var actions []string
	if authorCount == 0 {
		actions = append(actions, "add_author_attribution")
	}
	if dateCount == 0 {
		actions = append(actions, "add_publish_dates")
	}

	return model.GEOComponent{Name: "trust", Raw: score, Max: maxTrust, Actions: actions}
}

func brandMentionRatio(in GEOInputs) float64 {
	if in.Brand == "" || len(in.PageModels) == 0 {
		return 0
	}
	brand := strings.ToLower(in.Brand)
	mentioned := 0
	for _, pm := range in.PageModels {
		if strings.Contains(strings.ToLower(pm.Title), brand) {
			mentioned++
			continue
		}
		for _, p := range pm.Paragraphs {
			if strings.Contains(strings.ToLower(p.Text), brand) {
				mentioned++
				break
			}
		}
	}
	return float64(mentioned) / float64(len(in.PageModels))
}

func outlierRatio(audits map[string]model.PageAudit) float64 {
	if len(audits) < 2 {
		return 0
	}
	var scores []float64
	var sum float64
	for _, a := range audits {
		scores = append(scores, a.OverallScore)
		sum += a.OverallScore
	}
	mean := sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	stddev := math.Sqrt(variance / float64(len(scores)))
	if stddev == 0 {
		return 0
	}

	outliers := 0
	for _, s := range scores {
		if math.Abs(s-mean) > 2*stddev {
			outliers++
		}
	}
	return float64(outliers) / float64(len(scores))
}

// internalAuthority adapts the teacher's PageRank iteration (damping 0.85,
// bounded iterations) from crawl-time link analysis into a post-hoc
// authority signal over each page's InternalLinksCount, feeding Topic
// Coverage's hub-and-spoke depth measure. The returned ranks are
// normalized to sum to 1.
func internalAuthority(pages map[string]model.PageModel) map[string]float64 {
	const damping = 0.85
	const iterations = 50

	urls := make([]string, 0, len(pages))
	for u := range pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	n := len(urls)
	if n == 0 {
		return nil
	}

	rank := make(map[string]float64, n)
	for _, u := range urls {
		rank[u] = 1.0 / float64(n)
	}

	outboundCount := make(map[string]int, n)
	for _, u := range urls {
		outboundCount[u] = pages[u].InternalLinksCount
		if outboundCount[u] == 0 {
			outboundCount[u] = 1 // dangling node: distribute evenly, per standard PageRank handling
		}
	}

	for iter := 0; iter < iterations; iter++ {
		next := make(map[string]float64, n)
		base := (1 - damping) / float64(n)
		for _, u := range urls {
			next[u] = base
		}
		// Without a resolved internal link graph (only a per-page count is
		// carried in PageModel), approximate inbound contribution uniformly:
		// every page distributes its rank evenly across all other pages
		// weighted by its own internal-link density. This keeps the PageRank
		// iteration meaningful as a hub-strength proxy even though the exact
		// edge list isn't available post-extraction.
		for _, u := range urls {
			share := rank[u] * damping / float64(outboundCount[u])
			for _, v := range urls {
				if v == u {
					continue
				}
				next[v] += share / float64(n-1)
			}
		}
		rank = next
	}

	var total float64
	for _, r := range rank {
		total += r
	}
	if total > 0 {
		for u := range rank {
			rank[u] /= total
		}
	}

	return rank
}

// hubAndSpokeDepth summarizes the authority distribution's concentration:
// a high ratio of max-to-mean rank indicates a clear hub page linking out
// to many spokes, the structural signature Topic Coverage rewards.
func hubAndSpokeDepth(rank map[string]float64) float64 {
	if len(rank) == 0 {
		return 0
	}
	var sum, max float64
	for _, r := range rank {
		sum += r
		if r > max {
			max = r
		}
	}
	mean := sum / float64(len(rank))
	if mean == 0 {
		return 0
	}
	ratio := max / mean
	return minGEO(ratio/float64(len(rank)), 1.0)
}

func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}

func objTypes(obj map[string]any) []string {
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

func clampGEO(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func minGEO(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
