// Package extractor implements the six deterministic, side-effect-free
// extractors from spec §4.C, each reading the parser's cleaned DOM and
// contributing to a single PageModel. They are safe to run concurrently
// since none mutates shared state (spec §5 "extractors may be reordered
// freely").
package extractor

import (
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/aeoaudit/aeoaudit/pkg/model"
	"github.com/aeoaudit/aeoaudit/pkg/parser"
)

// Extract runs every extractor over a parsed page and its fetch result,
// producing the canonical PageModel.
func Extract(parsed *parser.Parsed, fr model.FetchResult) model.PageModel {
	var (
		headings   []model.Heading
		paragraphs []model.Paragraph
		lists      []model.List
		tables     []model.Table
		schema     schemaResult
		images     []model.Image
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		headings, paragraphs, lists, tables = extractStructure(parsed.Main)
	}()

	go func() {
		defer wg.Done()
		schema = extractSchema(parsed.Doc)
	}()

	go func() {
		defer wg.Done()
		images = extractMedia(parsed.Main)
	}()

	wg.Wait()

	// Semantic extraction depends on headings from the structural pass, so
	// it runs once that wave has joined.
	questions, patterns, kw := extractSemantic(parsed.Main, headings)

	meta := extractMetadata(parsed.Doc, schema.objects)
	author := extractAuthor(parsed.Doc, schema.objects)
	dates := extractDates(parsed.Doc, schema.objects)
	title := extractTitle(parsed.Doc)

	externalLinks, internalCount := extractLinks(parsed.Doc, fr.URL)

	wordCount := 0
	for _, p := range paragraphs {
		wordCount += p.WordCount
	}

	return model.PageModel{
		URL:                fr.URL,
		Title:              title,
		Meta:               meta,
		Headings:           headings,
		Paragraphs:         paragraphs,
		Lists:              lists,
		Tables:             tables,
		Images:             images,
		Questions:          questions,
		AnswerPatterns:     patterns,
		JSONLD:             schema.objects,
		MicrodataPresent:   schema.microdataPresent,
		RDFaPresent:        schema.rdfaPresent,
		FAQSchema:          schema.faq,
		Author:             author,
		Dates:              dates,
		ExternalLinks:      externalLinks,
		InternalLinksCount: internalCount,
		WordCount:          wordCount,
		IsHTTPS:            strings.EqualFold(schemeOf(fr.URL), "https"),
		Performance:        extractPerformance(fr),
		Keywords:           kw,
		BrokenSchemaBlocks: schema.brokenBlocks,
	}
}

func schemeOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Scheme
}

// extractLinks uses goquery's CSS-selector API over the same parsed tree
// (cheaper than a second html.Parse pass) to separate same-host from
// cross-host anchors.
func extractLinks(doc *html.Node, pageURL string) (external []string, internalCount int) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, 0
	}

	gdoc := goquery.NewDocumentFromNode(doc)
	seen := make(map[string]bool)

	gdoc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" || strings.HasPrefix(href, "#") {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		if strings.EqualFold(resolved.Host, base.Host) {
			internalCount++
			return
		}
		if !seen[resolved.String()] {
			seen[resolved.String()] = true
			external = append(external, resolved.String())
		}
	})

	return external, internalCount
}
