// Package parser cleans raw fetched HTML into a main-content DOM tree,
// following the teacher crawler's reliance on golang.org/x/net/html plus
// go-readability's "biggest content block" fallback (spec §4.B).
package parser

import (
	"net/url"
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// noiseAtoms are always stripped regardless of class/id.
var noiseAtoms = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Nav:    true,
	atom.Footer: true,
	atom.Header: true,
	atom.Aside:  true,
}

var noiseClassPattern = regexp.MustCompile(`(?i)(^|[\s_-])(ad|advertisement|sponsored|cookie-banner|popup)([\s_-]|$)`)

// Parsed holds the cleaned DOM plus the chosen main-content node.
type Parsed struct {
	Doc  *html.Node
	Main *html.Node
}

// Parse implements spec §4.B: strip noise, pick the main container, and
// normalize whitespace while preserving element boundaries (the tree
// structure itself carries those boundaries; no text is flattened here).
func Parse(rawHTML, pageURL string) (*Parsed, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	stripNoise(doc)

	main := pickMainContainer(doc, rawHTML, pageURL)
	return &Parsed{Doc: doc, Main: main}, nil
}

// stripNoise removes script/style/nav/footer/header/aside elements and any
// element whose class or id matches the ad/sponsored/cookie/popup pattern.
func stripNoise(doc *html.Node) {
	var toRemove []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if noiseAtoms[n.DataAtom] || hasNoiseClassOrID(n) {
				toRemove = append(toRemove, n)
				return // do not descend into a node already marked for removal
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, n := range toRemove {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func hasNoiseClassOrID(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "class" || a.Key == "id" {
			if noiseClassPattern.MatchString(a.Val) {
				return true
			}
		}
	}
	return false
}

// pickMainContainer follows the priority order from spec §4.B step 2:
// <main>, then <article>, then the largest content <div> by visible text
// (a direct scan, with go-readability and trafilatura fallbacks; see
// largestContentDiv), then <body>.
func pickMainContainer(doc *html.Node, rawHTML, pageURL string) *html.Node {
	if n := findFirstByAtom(doc, atom.Main); n != nil {
		return n
	}
	if n := findFirstByAtom(doc, atom.Article); n != nil {
		return n
	}
	if n := largestContentDiv(doc, rawHTML, pageURL); n != nil {
		return n
	}
	return findFirstByAtom(doc, atom.Body)
}

func findFirstByAtom(doc *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// largestContentDiv picks the <div> with the most visible text via a
// direct text-length scan over the cleaned tree. When no <div> holds
// enough text (content lives in custom elements, or markup is too
// fragmented for a single-node scan to find it), it falls through to
// go-readability's article isolation and, failing that, trafilatura's
// plain-text extraction wrapped into synthetic paragraph nodes — the
// same two-stage fallback the teacher crawler used for thin pages.
func largestContentDiv(doc *html.Node, rawHTML, pageURL string) *html.Node {
	const minUsableLen = 200

	var best *html.Node
	bestLen := 0

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Div {
			if l := len(visibleText(n)); l > bestLen {
				bestLen = l
				best = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if bestLen >= minUsableLen {
		return best
	}

	if n := readabilityFallback(rawHTML, pageURL); n != nil {
		return n
	}
	if n := trafilaturaFallback(rawHTML); n != nil {
		return n
	}
	return best
}

// readabilityFallback isolates the article body with go-shiori/go-readability
// and parses its cleaned HTML back into a node the rest of the pipeline can
// walk like any other main container.
func readabilityFallback(rawHTML, pageURL string) *html.Node {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	article, err := readability.NewParser().Parse(strings.NewReader(rawHTML), u)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return nil
	}
	node, err := html.ParseFragment(strings.NewReader(article.Content), &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div})
	if err != nil || len(node) == 0 {
		return nil
	}
	wrapper := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range node {
		wrapper.AppendChild(n)
	}
	return wrapper
}

// trafilaturaFallback recovers plain text via go-trafilatura when both the
// direct DOM scan and readability come up empty (severely malformed or
// script-rendered markup), splitting it into synthetic paragraph nodes so
// downstream extractors still see ordinary <p> elements.
func trafilaturaFallback(rawHTML string) *html.Node {
	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{})
	if err != nil || result == nil || strings.TrimSpace(result.ContentText) == "" {
		return nil
	}

	wrapper := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, para := range strings.Split(result.ContentText, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
		p.AppendChild(&html.Node{Type: html.TextNode, Data: para})
		wrapper.AppendChild(p)
	}
	if wrapper.FirstChild == nil {
		return nil
	}
	return wrapper
}

func visibleText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

