package scorer

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

var inlineCitationPattern = regexp.MustCompile(`\[\d+\]|\(\d{4}\)`)
var referencesSectionPattern = regexp.MustCompile(`(?i)^(references|sources|citations|bibliography)$`)

// AuthorityConfig carries the read-only authoritative-domain data the
// scorer needs (spec §5 "read-only after process init").
type AuthorityConfig struct {
	TLDs    []string
	Domains []string
}

// Authority implements spec §4.E's 18-point Authority scorer.
func Authority(pm model.PageModel, cfg AuthorityConfig, now time.Time) model.CategoryScore {
	domainTrust := domainTrustScore(pm, cfg)
	authorScore := authorScoreOf(pm)
	dateScore := dateScoreOf(pm, now)
	citations := citationsScore(pm)
	org := organizationScore(pm)

	raw := clamp(domainTrust+authorScore+dateScore+citations+org, MaxAuthority)

	return model.CategoryScore{
		Category: CategoryAuthority,
		Raw:      raw,
		Max:      MaxAuthority,
		SubScores: map[string]float64{
			"domain_trust": domainTrust,
			"author":       authorScore,
			"dates":        dateScore,
			"citations":    citations,
			"organization": org,
		},
	}
}

func domainTrustScore(pm model.PageModel, cfg AuthorityConfig) float64 {
	if !pm.IsHTTPS {
		return 0
	}
	if isAuthoritativeHost(pm.URL, cfg) {
		return 4
	}
	return 2
}

func isAuthoritativeHost(rawURL string, cfg AuthorityConfig) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())

	for _, tld := range cfg.TLDs {
		if strings.HasSuffix(host, tld) {
			return true
		}
	}
	for _, d := range cfg.Domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func authorScoreOf(pm model.PageModel) float64 {
	if !pm.Author.Found {
		return 0
	}
	for _, s := range pm.Author.Sources {
		if s == model.AuthorSourceJSONLD {
			return 4
		}
	}
	// Any non-structured find (byline text or a bare meta tag) still
	// establishes authorship, just without JSON-LD's structured backing.
	for _, s := range pm.Author.Sources {
		if s == model.AuthorSourceByline || s == model.AuthorSourceMetaTag {
			return 2
		}
	}
	return 0
}

func dateScoreOf(pm model.PageModel, now time.Time) float64 {
	var score float64
	if pm.Dates.Published != nil {
		age := now.Sub(*pm.Dates.Published)
		switch {
		case age <= 365*24*time.Hour:
			score += 3
		case age <= 2*365*24*time.Hour:
			score += 2
		case age <= 5*365*24*time.Hour:
			score += 1
		}
	}
	if pm.Dates.Modified != nil {
		score += 1
	}
	return minF(score, 4)
}

func citationsScore(pm model.PageModel) float64 {
	externalCount := float64(len(pm.ExternalLinks))

	inlineMarkers := 0
	hasReferencesSection := false
	for _, h := range pm.Headings {
		if referencesSectionPattern.MatchString(strings.TrimSpace(h.Text)) {
			hasReferencesSection = true
		}
	}
	for _, p := range pm.Paragraphs {
		inlineMarkers += len(inlineCitationPattern.FindAllString(p.Text, -1))
	}

	score := 0.5*externalCount + float64(inlineMarkers)
	if hasReferencesSection {
		score += 1
	}
	return minF(score, 5)
}

func organizationScore(pm model.PageModel) float64 {
	for _, obj := range pm.JSONLD {
		for _, t := range typesOf(obj) {
			if t == "Organization" {
				if name, ok := obj["name"].(string); ok && strings.TrimSpace(name) != "" {
					return 3
				}
			}
		}
	}
	return 0
}
