package scorer

import "github.com/aeoaudit/aeoaudit/pkg/model"

// Answerability implements spec §4.E's 30-point Answerability scorer.
func Answerability(pm model.PageModel) model.CategoryScore {
	direct := directAnswerPresence(pm)
	coverage := questionCoverage(pm)
	conciseness := concisenessScore(pm)
	formatting := formattingScore(pm)

	raw := clamp(direct+coverage+conciseness+formatting, MaxAnswerability)

	return model.CategoryScore{
		Category: CategoryAnswerability,
		Raw:      raw,
		Max:      MaxAnswerability,
		SubScores: map[string]float64{
			"direct_answer_presence": direct,
			"question_coverage":      coverage,
			"conciseness":            conciseness,
			"formatting":             formatting,
		},
	}
}

// directAnswerPresence: max 12.
func directAnswerPresence(pm model.PageModel) float64 {
	var score float64
	if len(pm.Paragraphs) > 0 {
		first := pm.Paragraphs[0]
		if first.WordCount >= 50 && first.WordCount <= 200 {
			score += 6
		} else {
			score += 3
		}
	}

	patternBonus := 0.0
	for _, p := range pm.AnswerPatterns {
		switch p.Kind {
		case model.AnswerPatternTLDR, model.AnswerPatternDefinition, model.AnswerPatternCallout:
			patternBonus += 2
		}
	}
	score += minF(patternBonus, 6)

	return clamp(score, 12)
}

// questionCoverage: max 8.
func questionCoverage(pm model.PageModel) float64 {
	h2h3 := 0
	for _, h := range pm.Headings {
		if h.Level == 2 || h.Level == 3 {
			h2h3++
		}
	}

	score := float64(len(pm.Questions))*0.8 + 0.5*float64(h2h3)
	score = minF(score, 8)

	if pm.FAQSchema.ValidCount >= 3 {
		score += 3
	}

	return clamp(score, 8)
}

// concisenessScore: max 6.
func concisenessScore(pm model.PageModel) float64 {
	var score float64

	listBonus := 0.0
	for _, l := range pm.Lists {
		if len(l.Items) >= 3 {
			listBonus += 2
		}
	}
	score += minF(listBonus, 3)

	for _, p := range pm.AnswerPatterns {
		if p.Kind == model.AnswerPatternTLDR {
			score += 2
			break
		}
	}

	if len(pm.Paragraphs) >= 3 {
		total := 0
		for _, p := range pm.Paragraphs {
			total += p.WordCount
		}
		avg := float64(total) / float64(len(pm.Paragraphs))
		if avg <= 150 {
			score += 2
		}
	}

	return clamp(score, 6)
}

// formattingScore: max 4.
func formattingScore(pm model.PageModel) float64 {
	var score float64

	h1Count, h2h3Count, emphasisCount := 0, 0, 0
	for _, h := range pm.Headings {
		switch h.Level {
		case 1:
			h1Count++
		case 2, 3:
			h2h3Count++
		}
	}
	for _, p := range pm.Paragraphs {
		if p.HasEmphasis {
			emphasisCount++
		}
	}

	if h1Count >= 1 && h2h3Count >= 3 {
		score += 2
	}
	if emphasisCount >= 3 {
		score += 1
	}
	for _, p := range pm.AnswerPatterns {
		if p.Kind == model.AnswerPatternCallout || p.Kind == model.AnswerPatternBlockquote {
			score += 1
			break
		}
	}

	return clamp(score, 4)
}
