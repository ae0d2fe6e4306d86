// Package aggregator rolls up per-page PageAudits into a DomainAudit
// (spec §4.G Aggregation) and computes the brand-level GEO score
// (spec §4.G GEO score) from the same already-extracted PageModels.
package aggregator

import (
	"sort"

	"github.com/aeoaudit/aeoaudit/pkg/model"
	"github.com/aeoaudit/aeoaudit/pkg/scorer"
)

// Aggregate implements spec §4.G's domain-level rollup: for each category,
// the mean raw percentage across successful pages, per-page scores sorted
// by URL for output stability, and best/worst page. The domain overall
// score is the mean of per-page overall scores, never a re-score of
// averaged sub-scores (spec: "which would distort non-linear sub-rules").
//
// pagesAttempted is the count of URLs the orchestrator tried to audit,
// which may exceed len(audits): auditAll only inserts successful pages
// into the map, so pagesAttempted is what distinguishes PagesAudited
// (every URL attempted) from PagesSuccessful (the ones that made it in).
func Aggregate(domain string, audits map[string]model.PageAudit, pagesAttempted int) model.DomainAudit {
	successful := make([]model.PageAudit, 0, len(audits))
	for _, a := range audits {
		successful = append(successful, a)
	}
	sort.Slice(successful, func(i, j int) bool { return successful[i].URL < successful[j].URL })

	breakdown := aggregateCategories(successful)

	var overallSum float64
	bestURL, worstURL := "", ""
	bestScore, worstScore := -1.0, 101.0
	for _, a := range successful {
		overallSum += a.OverallScore
		if a.OverallScore > bestScore {
			bestScore = a.OverallScore
			bestURL = a.URL
		}
		if a.OverallScore < worstScore {
			worstScore = a.OverallScore
			worstURL = a.URL
		}
	}

	overall := 0.0
	if len(successful) > 0 {
		overall = overallSum / float64(len(successful))
	}

	return model.DomainAudit{
		Domain:          domain,
		PagesAudited:    pagesAttempted,
		PagesSuccessful: len(successful),
		OverallScore:    overall,
		Grade:           scorer.Grade(overall),
		Breakdown:       breakdown,
		BestPage:        bestURL,
		WorstPage:       worstURL,
		PageAudits:      audits,
	}
}

func aggregateCategories(audits []model.PageAudit) map[string]model.CategoryAggregate {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	perPage := make(map[string][]model.CategoryPageScore)

	for _, a := range audits {
		for category, ws := range a.Breakdown {
			sums[category] += ws.Percentage
			counts[category]++
			perPage[category] = append(perPage[category], model.CategoryPageScore{URL: a.URL, Percentage: ws.Percentage})
		}
	}

	result := make(map[string]model.CategoryAggregate, len(sums))
	for category, sum := range sums {
		scores := perPage[category]
		sort.Slice(scores, func(i, j int) bool { return scores[i].URL < scores[j].URL })

		best, worst := "", ""
		bestPct, worstPct := -1.0, 101.0
		for _, s := range scores {
			if s.Percentage > bestPct {
				bestPct = s.Percentage
				best = s.URL
			}
			if s.Percentage < worstPct {
				worstPct = s.Percentage
				worst = s.URL
			}
		}

		result[category] = model.CategoryAggregate{
			MeanPercentage: sum / float64(counts[category]),
			PageScores:     scores,
			BestPage:       best,
			WorstPage:      worst,
		}
	}

	return result
}
