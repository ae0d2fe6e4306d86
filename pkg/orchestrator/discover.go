// Package orchestrator implements the Domain Orchestrator (spec §4.G):
// URL discovery, bounded-concurrency auditing, progress publication, and
// job-state retention (spec §4.H).
package orchestrator

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/publicsuffix"
)

var errNotFound = errors.New("resource not found")

var excludedPaths = []string{"/login", "/cart", "/account"}

var binaryExtensions = []string{
	".pdf", ".zip", ".png", ".jpg", ".jpeg", ".gif", ".mp4", ".mp3", ".webp", ".svg", ".ico", ".css", ".js", ".woff", ".woff2",
}

type sitemapURLSet struct {
	XMLName xml.Name      `xml:"urlset"`
	URLs    []sitemapURL  `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc string `xml:"loc"`
}

// discoverer finds candidate URLs for a domain audit per spec §4.G:
// sitemap-first, BFS-crawl fallback, same-registrable-domain filtering,
// max_pages capping.
type discoverer struct {
	httpClient *http.Client
	userAgent  string
}

func newDiscoverer(client *http.Client, userAgent string) *discoverer {
	return &discoverer{httpClient: client, userAgent: userAgent}
}

// Discover tries /sitemap.xml, /sitemap_index.xml, /sitemap-index.xml in
// order; on total failure it falls back to a BFS crawl of the homepage to
// depth 2. The result is deduplicated, same-registrable-domain only, and
// capped at maxPages (0 meaning unlimited is resolved by the caller before
// this call via config.EffectiveMaxPages).
func (d *discoverer) Discover(ctx context.Context, domainURL string, maxPages int) ([]string, error) {
	candidates := []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap-index.xml"}

	for _, path := range candidates {
		urls, err := d.trySitemap(ctx, domainURL, path)
		if err == nil && len(urls) > 0 {
			return d.finalize(urls, domainURL, maxPages), nil
		}
	}

	urls, err := d.crawlBFS(ctx, domainURL, 2, maxPages)
	if err != nil {
		return nil, err
	}
	return d.finalize(urls, domainURL, maxPages), nil
}

func (d *discoverer) trySitemap(ctx context.Context, domainURL, path string) ([]string, error) {
	base, err := url.Parse(domainURL)
	if err != nil {
		return nil, err
	}
	sitemapURL := base.Scheme + "://" + base.Host + path

	body, err := d.fetchBody(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	if idx, err := parseSitemapIndex(body); err == nil && len(idx.Sitemaps) > 0 {
		// Recurse one level deep per spec §4.G.
		var all []string
		for _, entry := range idx.Sitemaps {
			childBody, err := d.fetchBody(ctx, entry.Loc)
			if err != nil {
				continue
			}
			if urlset, err := parseURLSet(childBody); err == nil {
				for _, u := range urlset.URLs {
					all = append(all, u.Loc)
				}
			}
		}
		return all, nil
	}

	urlset, err := parseURLSet(body)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, u := range urlset.URLs {
		out = append(out, u.Loc)
	}
	return out, nil
}

func parseSitemapIndex(body []byte) (*sitemapIndex, error) {
	var idx sitemapIndex
	if err := xml.Unmarshal(body, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

func parseURLSet(body []byte) (*sitemapURLSet, error) {
	var set sitemapURLSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (d *discoverer) fetchBody(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errNotFound
	}

	buf := make([]byte, 0, 64*1024)
	tmp := make([]byte, 32*1024)
	for {
		n, err := resp.Body.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if err != nil {
			break
		}
	}
	return buf, nil
}

// crawlBFS follows same-domain anchor links from the homepage to depth 2,
// excluding login/cart/account paths and binary asset extensions.
func (d *discoverer) crawlBFS(ctx context.Context, domainURL string, maxDepth, maxPages int) ([]string, error) {
	base, err := url.Parse(domainURL)
	if err != nil {
		return nil, err
	}

	type queued struct {
		u     string
		depth int
	}

	// An empty root path is recorded as "/" so that links back to the
	// homepage dedupe against it.
	root := domainURL
	if base.Path == "" {
		root = base.ResolveReference(&url.URL{Path: "/"}).String()
	}
	visited := map[string]bool{root: true}
	queue := []queued{{root, 0}}
	var discovered []string

	for len(queue) > 0 && (maxPages <= 0 || len(discovered) < maxPages) {
		cur := queue[0]
		queue = queue[1:]
		discovered = append(discovered, cur.u)

		if cur.depth >= maxDepth {
			continue
		}

		body, err := d.fetchBody(ctx, cur.u)
		if err != nil {
			continue
		}

		links := extractAnchors(body, cur.u)
		for _, link := range links {
			if visited[link] {
				continue
			}
			if !sameRegistrableDomain(base.Host, hostOfURL(link)) {
				continue
			}
			if isExcludedPath(link) || isBinaryAsset(link) {
				continue
			}
			visited[link] = true
			queue = append(queue, queued{link, cur.depth + 1})
		}
	}

	return discovered, nil
}

func extractAnchors(body []byte, pageURL string) []string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			for _, a := range n.Attr {
				if a.Key == "href" {
					if resolved, err := base.Parse(a.Val); err == nil {
						if resolved.Scheme == "http" || resolved.Scheme == "https" {
							links = append(links, resolved.String())
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

// finalize deduplicates, filters to same-registrable-domain, and caps.
func (d *discoverer) finalize(urls []string, domainURL string, maxPages int) []string {
	base, err := url.Parse(domainURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, u := range urls {
		if seen[u] {
			continue
		}
		if !sameRegistrableDomain(base.Host, hostOfURL(u)) {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if maxPages > 0 && len(out) >= maxPages {
			break
		}
	}
	return out
}

func sameRegistrableDomain(hostA, hostB string) bool {
	a, errA := publicsuffix.EffectiveTLDPlusOne(stripPort(hostA))
	b, errB := publicsuffix.EffectiveTLDPlusOne(stripPort(hostB))
	if errA != nil || errB != nil {
		return strings.EqualFold(hostA, hostB)
	}
	return strings.EqualFold(a, b)
}

func stripPort(host string) string {
	if idx := strings.Index(host, ":"); idx >= 0 {
		return host[:idx]
	}
	return host
}

func hostOfURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

func isExcludedPath(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	lower := strings.ToLower(u.Path)
	for _, p := range excludedPaths {
		if lower == p || strings.HasPrefix(lower, p+"/") {
			return true
		}
	}
	return false
}

func isBinaryAsset(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	lower := strings.ToLower(u.Path)
	for _, ext := range binaryExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
