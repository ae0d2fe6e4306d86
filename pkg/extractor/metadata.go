package extractor

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

var bylinePattern = regexp.MustCompile(`(?i)(author|byline)`)
var byPrefixPattern = regexp.MustCompile(`(?i)^by\s+`)

// extractMetadata implements the meta-tag part of the Metadata extractor
// (spec §4.C): canonical, meta-description, viewport, aeo:content-type, and
// OpenGraph/Twitter cards. Title, author, and dates come from extractTitle,
// extractAuthor, and extractDates.
func extractMetadata(doc *html.Node, schemaObjs []map[string]any) model.Meta {
	meta := model.Meta{OpenGraph: map[string]string{}, Twitter: map[string]string{}}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Meta {
			name := strings.ToLower(attrOf(n, "name"))
			property := strings.ToLower(attrOf(n, "property"))
			content := attrOf(n, "content")

			switch {
			case name == "description":
				meta.Description = content
			case name == "viewport":
				meta.Viewport = content
			case name == "aeo:content-type":
				meta.AEOContentType = content
			case strings.HasPrefix(property, "og:"):
				meta.OpenGraph[strings.TrimPrefix(property, "og:")] = content
			case strings.HasPrefix(name, "twitter:"):
				meta.Twitter[strings.TrimPrefix(name, "twitter:")] = content
			}
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Link && strings.EqualFold(attrOf(n, "rel"), "canonical") {
			meta.Canonical = attrOf(n, "href")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return meta
}

func extractTitle(doc *html.Node) string {
	if n := findFirstByAtom(doc, atom.Title); n != nil {
		return strings.TrimSpace(textOf(n))
	}
	return ""
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

// extractAuthor merges author signals in the priority order from spec
// §4.C Metadata: JSON-LD Article.author, <meta name=author>, rel=author
// or class byline/author elements, then "By X" prefix stripping.
func extractAuthor(doc *html.Node, schemaObjs []map[string]any) model.Author {
	var author model.Author

	for _, obj := range schemaObjs {
		if !containsAnyType(obj, "Article", "BlogPosting", "NewsArticle") {
			continue
		}
		if a, ok := obj["author"]; ok {
			if name, url := authorFromSchema(a); name != "" {
				author.Found = true
				author.Name = name
				author.URL = url
				author.Sources = append(author.Sources, model.AuthorSourceJSONLD)
				return author
			}
		}
	}

	var metaAuthor string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Meta && strings.EqualFold(attrOf(n, "name"), "author") {
			metaAuthor = attrOf(n, "content")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if metaAuthor != "" {
		author.Found = true
		author.Name = metaAuthor
		author.Sources = append(author.Sources, model.AuthorSourceMetaTag)
		return author
	}

	if n := findBylineElement(doc); n != nil {
		text := strings.TrimSpace(textOf(n))
		text = byPrefixPattern.ReplaceAllString(text, "")
		if text != "" {
			author.Found = true
			author.Name = text
			author.Sources = append(author.Sources, model.AuthorSourceByline)
			return author
		}
	}

	author.Sources = []model.AuthorSource{model.AuthorSourceNone}
	return author
}

func authorFromSchema(v any) (name, url string) {
	switch t := v.(type) {
	case string:
		return t, ""
	case map[string]any:
		n, _ := t["name"].(string)
		u, _ := t["url"].(string)
		return n, u
	case []any:
		if len(t) > 0 {
			return authorFromSchema(t[0])
		}
	}
	return "", ""
}

func findBylineElement(doc *html.Node) *html.Node {
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode {
			return
		}
		if strings.EqualFold(attrOf(n, "rel"), "author") || bylinePattern.MatchString(attrOf(n, "class")) {
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

func containsAnyType(obj map[string]any, wants ...string) bool {
	types := schemaTypes(obj)
	for _, t := range types {
		for _, w := range wants {
			if t == w {
				return true
			}
		}
	}
	return false
}

// extractDates implements the Dates rule from spec §4.C Metadata: JSON-LD
// first, then article:published_time/modified_time meta, then <time
// datetime>, parsed tolerantly with a fallback chain.
func extractDates(doc *html.Node, schemaObjs []map[string]any) model.Dates {
	var dates model.Dates

	for _, obj := range schemaObjs {
		if pub, ok := obj["datePublished"].(string); ok && pub != "" {
			if t, ok := parseTolerant(pub); ok {
				dates.Published = &t
				dates.PublishedSource = model.DateSourceJSONLD
			} else {
				dates.PublishedSource = model.DateSourceUnparseable
			}
		}
		if mod, ok := obj["dateModified"].(string); ok && mod != "" {
			if t, ok := parseTolerant(mod); ok {
				dates.Modified = &t
				dates.ModifiedSource = model.DateSourceJSONLD
			} else {
				dates.ModifiedSource = model.DateSourceUnparseable
			}
		}
	}

	if dates.Published == nil {
		if v := metaContent(doc, "article:published_time"); v != "" {
			if t, ok := parseTolerant(v); ok {
				dates.Published = &t
				dates.PublishedSource = model.DateSourceMetaTag
			} else {
				dates.PublishedSource = model.DateSourceUnparseable
			}
		}
	}
	if dates.Modified == nil {
		if v := metaContent(doc, "article:modified_time"); v != "" {
			if t, ok := parseTolerant(v); ok {
				dates.Modified = &t
				dates.ModifiedSource = model.DateSourceMetaTag
			} else {
				dates.ModifiedSource = model.DateSourceUnparseable
			}
		}
	}

	if dates.Published == nil {
		if t, ok := firstTimeElementDatetime(doc); ok {
			dates.Published = &t
			dates.PublishedSource = model.DateSourceTimeElement
		}
	}

	if dates.Published == nil && dates.PublishedSource == "" {
		dates.PublishedSource = model.DateSourceNone
	}
	if dates.Modified == nil && dates.ModifiedSource == "" {
		dates.ModifiedSource = model.DateSourceNone
	}

	return dates
}

// parseTolerant tries strict ISO-8601 first, then dateparse's lenient
// RFC/locale-format fallback (spec §4.C "tolerant ISO-8601 then fallback").
func parseTolerant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func metaContent(doc *html.Node, property string) string {
	var value string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if value != "" {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Meta && strings.EqualFold(attrOf(n, "property"), property) {
			value = attrOf(n, "content")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return value
}

func firstTimeElementDatetime(doc *html.Node) (time.Time, bool) {
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode {
			return
		}
		if n.DataAtom == atom.Time && attrOf(n, "datetime") != "" {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if found == nil {
		return time.Time{}, false
	}
	return parseTolerant(attrOf(found, "datetime"))
}
