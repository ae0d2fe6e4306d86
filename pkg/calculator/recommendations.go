package calculator

import (
	"sort"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

const recommendationGapFloor = 20.0 // percentage points below max before a gap is worth flagging

// GenerateRecommendations turns scoring gaps into structured, prose-free
// records (spec §9 design note: prose belongs to an external
// recommendation-template library, not the core). Each weighted category
// below its target contributes one recommendation per sub-score gap,
// ranked by gap size so the largest opportunities sort first.
func GenerateRecommendations(weighted map[string]model.WeightedCategoryScore) []model.Recommendation {
	var recs []model.Recommendation

	categories := sortedCategoryKeys(weighted)
	for _, category := range categories {
		ws := weighted[category]
		if ws.Max <= 0 {
			continue
		}
		subScoreKeys := sortedSubScoreKeys(ws.SubScores)
		// A sub-score's own max isn't tracked individually; approximate its
		// share of the category max evenly across however many sub-scores
		// fired, which is sufficient to rank relative gap size within a page.
		if len(subScoreKeys) == 0 {
			continue
		}
		shareMax := ws.Max / float64(len(subScoreKeys))

		for _, sub := range subScoreKeys {
			val := ws.SubScores[sub]
			gapPct := (1 - val/shareMax) * 100
			if shareMax <= 0 || gapPct < recommendationGapFloor {
				continue
			}
			recs = append(recs, model.Recommendation{
				Category: category,
				SubScore: sub,
				Gap:      gapPct,
				Priority: priorityFor(gapPct),
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Gap > recs[j].Gap
	})

	return recs
}

func priorityFor(gapPct float64) string {
	switch {
	case gapPct >= 70:
		return "high"
	case gapPct >= 40:
		return "medium"
	default:
		return "low"
	}
}

func sortedCategoryKeys(m map[string]model.WeightedCategoryScore) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSubScoreKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
