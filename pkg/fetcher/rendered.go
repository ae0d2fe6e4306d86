package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// renderedClient drives a headless Chrome instance to retrieve JS-rendered
// HTML, grounded in the pack's chromedp render-manager pattern: navigate,
// wait for network-idle (or an equivalent quiet window), then settle for
// late-binding content (spec §4.A).
type renderedClient struct {
	userAgent string
	timeout   time.Duration
	pool      *browserPool
}

func newRenderedClient(userAgent string, timeout time.Duration, pool *browserPool) *renderedClient {
	return &renderedClient{userAgent: userAgent, timeout: timeout, pool: pool}
}

type renderMetrics struct {
	ttfb     time.Duration
	domLoad  time.Duration
	pageLoad time.Duration
	fcp      time.Duration
	lcp      *time.Duration
}

type renderResult struct {
	finalURL   string
	statusCode int
	html       string
	metrics    renderMetrics
	err        error
}

// render navigates to target, waits for network idle plus a 2s settle
// window for late-binding content, up to 3 retries with exponential
// backoff (200ms * 2^n), matching spec §4.A's rendered-fetch contract.
func (r *renderedClient) render(ctx context.Context, target string) renderResult {
	const maxRetries = 3

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(200*(1<<uint(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return renderResult{err: ctx.Err()}
			}
		}

		res := r.renderOnce(ctx, target)
		if res.err == nil {
			return res
		}
		lastErr = res.err
	}
	return renderResult{err: fmt.Errorf("render failed after %d attempts: %w", maxRetries+1, lastErr)}
}

func (r *renderedClient) renderOnce(parent context.Context, target string) renderResult {
	browserCtx, release, err := r.pool.acquire(parent)
	if err != nil {
		return renderResult{err: fmt.Errorf("acquire browser: %w", err)}
	}
	defer release()

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	timeout := r.timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, timeout)
	defer timeoutCancel()

	start := time.Now()
	var html string
	var statusCode int64 = 200

	err = chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return network.SetUserAgentOverride(r.userAgent).Do(ctx)
		}),
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		waitNetworkIdle(500*time.Millisecond, 10*time.Second),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	domLoad := time.Since(start)

	if err != nil {
		return renderResult{err: fmt.Errorf("navigate %s: %w", target, err)}
	}

	lcp := estimateLCP(domLoad)
	return renderResult{
		finalURL:   target,
		statusCode: int(statusCode),
		html:       html,
		metrics: renderMetrics{
			ttfb:     domLoad / 4, // all metrics here are estimated from elapsed time; the browser performance API is not queried
			domLoad:  domLoad,
			pageLoad: domLoad + 2*time.Second,
			fcp:      domLoad,
			lcp:      &lcp,
		},
	}
}

// waitNetworkIdle polls document.readyState until it is "complete", then
// sleeps for the quiet window, an approximation of "network-idle" reachable
// without a full CDP event listener wiring (spec §4.A "equivalent quiet
// heuristic"). In-flight requests are not tracked, and after maxWait it
// returns without error even if the document never became complete.
func waitNetworkIdle(quiet time.Duration, maxWait time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		deadline := time.Now().Add(maxWait)
		for time.Now().Before(deadline) {
			var ready bool
			if err := chromedp.Evaluate(`document.readyState === 'complete'`, &ready).Do(ctx); err == nil && ready {
				time.Sleep(quiet)
				return nil
			}
			time.Sleep(100 * time.Millisecond)
		}
		return nil
	})
}

func estimateLCP(domLoad time.Duration) time.Duration {
	return domLoad + 500*time.Millisecond
}

// browserPool scopes exclusive browser-page acquisition across workers
// (spec §9 "Browser pool lifetime"): a worker borrows a context, release is
// guaranteed on every exit path via defer at the call site.
type browserPool struct {
	sem chan struct{}
	ctx context.Context
	cancel context.CancelFunc
}

func newBrowserPool(size int) *browserPool {
	if size <= 0 {
		size = 1
	}
	ctx, cancel := chromedp.NewContext(context.Background())
	return &browserPool{sem: make(chan struct{}, size), ctx: ctx, cancel: cancel}
}

func (p *browserPool) acquire(ctx context.Context) (context.Context, func(), error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
	release := func() {
		<-p.sem
	}
	return p.ctx, release, nil
}

func (p *browserPool) Close() {
	p.cancel()
}

var _ = page.CaptureScreenshotParams{} // reserved capability: screenshot diagnostics, unused by scoring
