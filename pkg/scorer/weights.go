package scorer

import (
	"sort"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

// Reweight applies the content-type weight matrix (spec §4.E "Content-type
// reweighting") to a set of raw category scores, then renormalizes so the
// sum of weighted maxes equals 100.
func Reweight(scores map[string]model.CategoryScore, contentType model.ContentType, weights map[string]map[string]float64) map[string]model.WeightedCategoryScore {
	typeWeights := weights[string(contentType)]

	weighted := make(map[string]model.WeightedCategoryScore, len(scores))
	var sumWeightedMax float64

	for category, cs := range scores {
		w := 1.0
		if typeWeights != nil {
			if tw, ok := typeWeights[category]; ok {
				w = tw
			}
		}
		wRaw := cs.Raw * w
		wMax := cs.Max * w
		sumWeightedMax += wMax
		weighted[category] = model.WeightedCategoryScore{
			CategoryScore: cs,
			WeightedRaw:   wRaw,
			WeightedMax:   wMax,
		}
	}

	if sumWeightedMax == 0 {
		return weighted
	}

	// Renormalize so weighted maxes sum to 100, and compute each category's
	// percentage-of-max for breakdown display.
	scale := 100.0 / sumWeightedMax
	for category, ws := range weighted {
		ws.WeightedRaw *= scale
		ws.WeightedMax *= scale
		if ws.WeightedMax > 0 {
			ws.Percentage = (ws.WeightedRaw / ws.WeightedMax) * 100
		}
		weighted[category] = ws
	}

	return weighted
}

// Overall sums every weighted category's raw contribution into the
// page's final [0, 100] score. Categories are visited in sorted-key
// order so the floating-point sum is the same on every run regardless
// of map iteration order.
func Overall(weighted map[string]model.WeightedCategoryScore) float64 {
	keys := make([]string, 0, len(weighted))
	for category := range weighted {
		keys = append(keys, category)
	}
	sort.Strings(keys)

	var total float64
	for _, category := range keys {
		total += weighted[category].WeightedRaw
	}
	if total > 100 {
		return 100
	}
	if total < 0 {
		return 0
	}
	return total
}
