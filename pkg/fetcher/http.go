package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// httpClient wraps net/http with the retry/backoff/user-agent behavior the
// teacher crawler applied per-page, now scoped to a single fetch.
type httpClient struct {
	client    *http.Client
	userAgent string
	maxRetries int
	limiter   *rate.Limiter

	robotsCache map[string]*robotstxt.RobotsData
}

func newHTTPClient(userAgent string, timeout time.Duration, maxRetries int) *httpClient {
	return &httpClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		userAgent:   userAgent,
		maxRetries:  maxRetries,
		limiter:     rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		robotsCache: make(map[string]*robotstxt.RobotsData),
	}
}

// isAllowedByRobots fetches and caches robots.txt for the target host and
// reports whether our user-agent may fetch pageURL.
func (h *httpClient) isAllowedByRobots(ctx context.Context, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return true
	}

	origin := u.Scheme + "://" + u.Host
	if robots, ok := h.robotsCache[origin]; ok {
		if robots == nil {
			return true
		}
		return robots.TestAgent(u.Path, h.userAgent)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		h.robotsCache[origin] = nil
		return true
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			resp.Body.Close()
		}
		h.robotsCache[origin] = nil
		return true
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		h.robotsCache[origin] = nil
		return true
	}
	h.robotsCache[origin] = robots
	return robots.TestAgent(u.Path, h.userAgent)
}

// fetchResult is an internal, pre-model.FetchResult return value.
type fetchResult struct {
	finalURL   string
	statusCode int
	body       string
	ttfb       time.Duration
	tlsValid   bool
	err        error
}

// get performs a single GET with retry-with-backoff on transport errors
// and 5xx responses,
// exactly the exponential schedule the teacher used (100ms * 2^n), bounded
// by h.maxRetries.
func (h *httpClient) get(ctx context.Context, target string) fetchResult {
	if !h.isAllowedByRobots(ctx, target) {
		return fetchResult{err: fmt.Errorf("disallowed by robots.txt: %s", target)}
	}

	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<uint(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return fetchResult{err: ctx.Err()}
			}
		}

		if err := h.limiter.Wait(ctx); err != nil {
			return fetchResult{err: err}
		}

		res := h.tryOnce(ctx, target)
		if res.err == nil {
			return res
		}
		lastErr = res.err
		log.Debug().Str("url", target).Int("attempt", attempt+1).Err(res.err).Msg("fetch attempt failed")
	}
	return fetchResult{err: fmt.Errorf("fetch failed after %d attempts: %w", h.maxRetries+1, lastErr)}
}

func (h *httpClient) tryOnce(ctx context.Context, target string) fetchResult {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fetchResult{err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := h.client.Do(req)
	ttfb := time.Since(start)
	if err != nil {
		return fetchResult{err: err, ttfb: ttfb}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fetchResult{err: fmt.Errorf("read body: %w", err), ttfb: ttfb}
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	if resp.StatusCode >= 500 {
		return fetchResult{err: fmt.Errorf("server error: %d", resp.StatusCode), ttfb: ttfb}
	}

	return fetchResult{
		finalURL:   finalURL,
		statusCode: resp.StatusCode,
		body:       string(body),
		ttfb:       ttfb,
		tlsValid:   resp.TLS != nil && tlsChainLooksValid(resp.TLS),
	}
}

func tlsChainLooksValid(state *tls.ConnectionState) bool {
	if state == nil || len(state.PeerCertificates) == 0 {
		return false
	}
	leaf := state.PeerCertificates[0]
	now := time.Now()
	return now.After(leaf.NotBefore) && now.Before(leaf.NotAfter)
}

func isHTTPS(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, "https")
}
