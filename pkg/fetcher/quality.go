package fetcher

import "strings"

// QualityGatePassScore is the minimum score an HTTP FetchResult must reach
// to be accepted without escalating to a rendered fetch (spec §4.A).
const QualityGatePassScore = 30

// qualityScore implements the HTTP quality gate from spec §4.A exactly:
// start at 100, subtract for thin/placeholder bodies, add back for signs of
// real content.
func qualityScore(body string) int {
	score := 100

	if len(body) < 1000 {
		score -= 30
	}
	if containsJSSentinel(body) {
		score -= 40
	}
	if !hasAnyTag(body, "<p", "<h1", "<h2") {
		score -= 30
	}
	if looksLikeSPALoader(body) {
		score -= 20
	}

	if len(body) > 10*1024 {
		score += 10
	}
	if countOccurrences(body, "<p") >= 10 {
		score += 10
	}

	return score
}

// passesQualityGate reports whether an HTTP FetchResult body is rich enough
// to skip rendered escalation.
func passesQualityGate(body string) (int, bool) {
	s := qualityScore(body)
	return s, s >= QualityGatePassScore
}

func containsJSSentinel(body string) bool {
	lower := strings.ToLower(body)
	sentinels := []string{
		"please enable javascript",
		"enable javascript to",
		"javascript is required",
	}
	for _, s := range sentinels {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func hasAnyTag(body string, tags ...string) bool {
	lower := strings.ToLower(body)
	for _, t := range tags {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func looksLikeSPALoader(body string) bool {
	lower := strings.ToLower(body)
	hasRootDiv := strings.Contains(lower, `<div id="root"></div>`) ||
		strings.Contains(lower, `<div id='root'></div>`) ||
		strings.Contains(lower, `<div id="app"></div>`)
	hasLoadingOnly := strings.Contains(lower, "loading...") || strings.Contains(lower, "loading…")
	return hasRootDiv || (hasLoadingOnly && countOccurrences(lower, "<p") == 0)
}

func countOccurrences(body, substr string) int {
	lower := strings.ToLower(body)
	n := 0
	for {
		idx := strings.Index(lower, substr)
		if idx < 0 {
			break
		}
		n++
		lower = lower[idx+len(substr):]
	}
	return n
}
