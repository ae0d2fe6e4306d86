// Package fetcher implements the Adaptive Fetch Engine (spec §4.A): retrieve
// a URL's HTML via plain HTTP or a headless-Chrome render, escalating from
// the former to the latter when the HTTP response looks too thin to score.
package fetcher

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aeoaudit/aeoaudit/internal/config"
	"github.com/aeoaudit/aeoaudit/pkg/model"
)

// Mode pins fetch strategy selection, overriding the hybrid escalation.
type Mode string

const (
	ModeHybrid   Mode = "hybrid"
	ModeHTTP     Mode = "http"
	ModeRendered Mode = "rendered"
)

// Fetcher selects and executes a fetch strategy per spec §4.A's three-tier
// rule: explicit mode wins outright; otherwise a render-required host always
// renders; otherwise try HTTP first and escalate only on a failed quality
// gate, keeping whichever of the two results scores higher.
type Fetcher struct {
	mode       Mode
	renderSet  map[string]struct{}
	http       *httpClient
	rendered   *renderedClient
	pool       *browserPool
}

// New builds a Fetcher from resolved configuration. The browser pool is
// sized to the configured domain concurrency so rendered fetches never
// outrun available Chrome tabs.
func New(cfg *config.Config) *Fetcher {
	renderSet := make(map[string]struct{}, len(cfg.Fetcher.RenderRequiredHosts))
	for _, h := range cfg.Fetcher.RenderRequiredHosts {
		renderSet[h] = struct{}{}
	}

	poolSize := cfg.Domain.Concurrency
	if poolSize <= 0 {
		poolSize = 1
	}
	pool := newBrowserPool(poolSize)

	return &Fetcher{
		mode:      Mode(cfg.Fetcher.Mode),
		renderSet: renderSet,
		http:      newHTTPClient(cfg.Fetcher.UserAgent, cfg.Fetcher.HTTPTimeout, cfg.Fetcher.MaxRetries),
		rendered:  newRenderedClient(cfg.Fetcher.UserAgent, cfg.Fetcher.RenderTimeout, pool),
		pool:      pool,
	}
}

// Close releases the fetcher's browser pool. Call once per process, not per
// fetch: rendered fetches across a whole domain audit share one pool.
func (f *Fetcher) Close() {
	f.pool.Close()
}

// Fetch retrieves targetURL, applying the configured mode and the hybrid
// escalation rule from spec §4.A.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) model.FetchResult {
	host := hostOf(targetURL)

	switch {
	case f.mode == ModeHTTP:
		return f.fetchHTTP(ctx, targetURL)
	case f.mode == ModeRendered:
		return f.fetchRendered(ctx, targetURL)
	case f.requiresRender(host):
		return f.fetchRendered(ctx, targetURL)
	default:
		return f.fetchHybrid(ctx, targetURL)
	}
}

func (f *Fetcher) requiresRender(host string) bool {
	_, ok := f.renderSet[host]
	return ok
}

// fetchHybrid tries HTTP first; if the body fails the quality gate, it
// escalates to a rendered fetch and returns whichever scored higher, per
// spec §4.A "return the better of the two results".
func (f *Fetcher) fetchHybrid(ctx context.Context, targetURL string) model.FetchResult {
	httpRes := f.fetchHTTP(ctx, targetURL)
	if httpRes.Error != "" {
		rendered := f.fetchRendered(ctx, targetURL)
		if rendered.Error != "" {
			return httpRes
		}
		return rendered
	}

	score, ok := passesQualityGate(httpRes.HTML)
	if ok {
		return httpRes
	}

	log.Debug().Str("url", targetURL).Int("quality_score", score).Msg("escalating to rendered fetch")
	rendered := f.fetchRendered(ctx, targetURL)
	if rendered.Error != "" {
		return httpRes
	}

	renderedScore, _ := passesQualityGate(rendered.HTML)
	if renderedScore >= score {
		return rendered
	}
	return httpRes
}

func (f *Fetcher) fetchHTTP(ctx context.Context, targetURL string) model.FetchResult {
	res := f.http.get(ctx, targetURL)
	out := model.FetchResult{
		URL:         targetURL,
		FetchedAt:   fetchedAtNow(),
		FetchMethod: model.FetchMethodHTTP,
	}
	if res.err != nil {
		out.Error = res.err.Error()
		return out
	}

	out.URL = res.finalURL
	out.StatusCode = res.statusCode
	out.HTML = res.body
	out.TLSValid = res.tlsValid
	out.Performance = model.Performance{TTFBMillis: res.ttfb.Milliseconds()}
	return out
}

func (f *Fetcher) fetchRendered(ctx context.Context, targetURL string) model.FetchResult {
	res := f.rendered.render(ctx, targetURL)
	out := model.FetchResult{
		URL:         targetURL,
		FetchedAt:   fetchedAtNow(),
		FetchMethod: model.FetchMethodRendered,
	}
	if res.err != nil {
		out.Error = res.err.Error()
		return out
	}

	out.URL = res.finalURL
	out.StatusCode = res.statusCode
	out.HTML = res.html
	out.TLSValid = isHTTPS(res.finalURL)

	perf := model.Performance{
		TTFBMillis:     res.metrics.ttfb.Milliseconds(),
		DOMLoadMillis:  res.metrics.domLoad.Milliseconds(),
		PageLoadMillis: res.metrics.pageLoad.Milliseconds(),
		FCPMillis:      res.metrics.fcp.Milliseconds(),
	}
	if res.metrics.lcp != nil {
		ms := res.metrics.lcp.Milliseconds()
		perf.LCPMillis = &ms
	}
	out.Performance = perf
	return out
}

func fetchedAtNow() time.Time {
	return time.Now().UTC()
}
