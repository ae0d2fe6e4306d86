package scorer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

func authorityCfg() AuthorityConfig {
	return AuthorityConfig{TLDs: []string{".gov", ".edu"}, Domains: []string{"wikipedia.org"}}
}

func TestAuthorityDomainTrustScoresZeroForPlainHTTP(t *testing.T) {
	pm := model.PageModel{URL: "http://example.com/page", IsHTTPS: false}

	score := Authority(pm, authorityCfg(), time.Now())

	assert.Equal(t, 0.0, score.SubScores["domain_trust"])
}

func TestAuthorityDomainTrustScoresHigherForAuthoritativeHost(t *testing.T) {
	pm := model.PageModel{URL: "https://nih.gov/article", IsHTTPS: true}

	score := Authority(pm, authorityCfg(), time.Now())

	assert.Equal(t, 4.0, score.SubScores["domain_trust"])
}

func TestAuthorityDomainTrustScoresLowerForOrdinaryHTTPSHost(t *testing.T) {
	pm := model.PageModel{URL: "https://example.com/page", IsHTTPS: true}

	score := Authority(pm, authorityCfg(), time.Now())

	assert.Equal(t, 2.0, score.SubScores["domain_trust"])
}

func TestAuthorityAuthorScorePrefersJSONLDOverByline(t *testing.T) {
	pm := model.PageModel{
		Author: model.Author{Found: true, Sources: []model.AuthorSource{model.AuthorSourceByline, model.AuthorSourceJSONLD}},
	}

	score := Authority(pm, authorityCfg(), time.Now())

	assert.Equal(t, 4.0, score.SubScores["author"])
}

func TestAuthorityAuthorScoreCreditsMetaTagOnlyFind(t *testing.T) {
	pm := model.PageModel{
		Author: model.Author{Found: true, Sources: []model.AuthorSource{model.AuthorSourceMetaTag}},
	}

	score := Authority(pm, authorityCfg(), time.Now())

	assert.Equal(t, 2.0, score.SubScores["author"])
}

func TestAuthorityDateScoreDecaysWithAge(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-30 * 24 * time.Hour)
	old := now.Add(-4 * 365 * 24 * time.Hour)

	recentScore := Authority(model.PageModel{Dates: model.Dates{Published: &recent}}, authorityCfg(), now)
	oldScore := Authority(model.PageModel{Dates: model.Dates{Published: &old}}, authorityCfg(), now)

	assert.Greater(t, recentScore.SubScores["dates"], oldScore.SubScores["dates"])
}

func TestAuthorityOrganizationScoreRequiresNamedOrgSchema(t *testing.T) {
	pm := model.PageModel{
		JSONLD: []map[string]any{
			{"@type": "Organization", "name": "Example Inc"},
		},
	}

	score := Authority(pm, authorityCfg(), time.Now())

	assert.Equal(t, 3.0, score.SubScores["organization"])
}

func TestAuthorityClampsAtMax(t *testing.T) {
	modified := time.Now()
	pub := time.Now()
	pm := model.PageModel{
		URL:     "https://nih.gov/page",
		IsHTTPS: true,
		Author:  model.Author{Found: true, Sources: []model.AuthorSource{model.AuthorSourceJSONLD}},
		Dates:   model.Dates{Published: &pub, Modified: &modified},
		ExternalLinks: []string{"https://a.com", "https://b.com", "https://c.com", "https://d.com", "https://e.com", "https://f.com"},
		JSONLD: []map[string]any{{"@type": "Organization", "name": "Example"}},
	}

	score := Authority(pm, authorityCfg(), time.Now())

	assert.LessOrEqual(t, score.Raw, MaxAuthority)
}
