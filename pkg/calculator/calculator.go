// Package calculator implements the Score Calculator (spec §4.F): consumes
// a PageModel plus its ContentClassification, invokes every scorer,
// applies content-type weighting, and produces the canonical PageAudit.
package calculator

import (
	"context"
	"time"

	"github.com/aeoaudit/aeoaudit/pkg/classifier"
	"github.com/aeoaudit/aeoaudit/pkg/llm"
	"github.com/aeoaudit/aeoaudit/pkg/model"
	"github.com/aeoaudit/aeoaudit/pkg/scorer"
)

// Options configures a calculation run.
type Options struct {
	Weights         map[string]map[string]float64
	Authority       scorer.AuthorityConfig
	LLMClients      []llm.Client
	Now             time.Time
	RawHTML         string
	FetchTLSValid   bool
	SchemaCompleteness func([]map[string]any) float64
}

// Calculate implements spec §4.F: every scorer runs, outputs are reweighted
// by content type, and the result is the canonical single-page PageAudit.
func Calculate(ctx context.Context, pm model.PageModel, opts Options) model.PageAudit {
	classification := classifier.Classify(pm)

	completeness := 0.0
	if opts.SchemaCompleteness != nil {
		completeness = opts.SchemaCompleteness(pm.JSONLD)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	raw := map[string]model.CategoryScore{
		scorer.CategoryAnswerability:   scorer.Answerability(pm),
		scorer.CategoryStructuredData:  scorer.StructuredData(pm, completeness),
		scorer.CategoryAuthority:       scorer.Authority(pm, opts.Authority, now),
		scorer.CategoryContentQuality:  scorer.ContentQuality(pm, now),
		scorer.CategoryCitationability: scorer.Citationability(pm, opts.FetchTLSValid, opts.RawHTML),
		scorer.CategoryTechnical:       scorer.Technical(pm, opts.RawHTML),
	}

	if len(opts.LLMClients) > 0 {
		raw[scorer.CategoryAICitation] = scorer.AICitation(ctx, pm, pm.URL, opts.LLMClients)
	}

	weighted := scorer.Reweight(raw, classification.Type, opts.Weights)
	overall := scorer.Overall(weighted)
	grade := scorer.Grade(overall)

	return model.PageAudit{
		URL:                   pm.URL,
		OverallScore:          overall,
		Grade:                 grade,
		ContentClassification: classification,
		Breakdown:             weighted,
		Recommendations:       GenerateRecommendations(weighted),
		FetchedAt:             now,
	}
}
