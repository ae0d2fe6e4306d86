package extractor

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

var headingAtoms = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// extractStructure implements the Structural extractor (spec §4.C): heading
// hierarchy in document order, paragraphs (skipping short fragments),
// lists of >=2 items, and tables with >=2 rows.
func extractStructure(main *html.Node) ([]model.Heading, []model.Paragraph, []model.List, []model.Table) {
	var headings []model.Heading
	var paragraphs []model.Paragraph
	var lists []model.List
	var tables []model.Table

	lastHeading := ""

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level, ok := headingAtoms[n.DataAtom]; ok {
				text := strings.TrimSpace(textOf(n))
				headings = append(headings, model.Heading{Level: level, Text: text, ID: attrOf(n, "id")})
				lastHeading = text
			}

			switch n.DataAtom {
			case atom.P:
				text := strings.TrimSpace(textOf(n))
				if len(text) >= 20 {
					paragraphs = append(paragraphs, model.Paragraph{
						Text:        text,
						WordCount:   wordCount(text),
						HasEmphasis: hasEmphasisChild(n),
					})
				}
			case atom.Ul, atom.Ol:
				items := listItems(n)
				if len(items) >= 2 {
					lists = append(lists, model.List{
						Ordered:       n.DataAtom == atom.Ol,
						Items:         items,
						ParentHeading: lastHeading,
					})
				}
			case atom.Table:
				if t, ok := parseTable(n); ok {
					tables = append(tables, t)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(main)

	return headings, paragraphs, lists, tables
}

func listItems(n *html.Node) []string {
	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			text := strings.TrimSpace(textOf(c))
			if text != "" {
				items = append(items, text)
			}
		}
	}
	return items
}

func parseTable(n *html.Node) (model.Table, bool) {
	var headers []string
	var rows [][]string
	var caption string

	var walkRows func(n *html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Caption:
				caption = strings.TrimSpace(textOf(n))
			case atom.Tr:
				var cells []string
				isHeaderRow := false
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type != html.ElementNode {
						continue
					}
					if c.DataAtom == atom.Th {
						isHeaderRow = true
					}
					if c.DataAtom == atom.Td || c.DataAtom == atom.Th {
						cells = append(cells, strings.TrimSpace(textOf(c)))
					}
				}
				if isHeaderRow && headers == nil {
					headers = cells
				} else if len(cells) > 0 {
					rows = append(rows, cells)
				}
				return // don't descend into a row we've already consumed
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(n)

	if len(rows) < 2 {
		return model.Table{}, false
	}
	return model.Table{Headers: headers, Rows: rows, Caption: caption}, true
}

func hasEmphasisChild(n *html.Node) bool {
	var found bool
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found || n.Type != html.ElementNode {
			return
		}
		if n.DataAtom == atom.Strong || n.DataAtom == atom.Em || n.DataAtom == atom.B || n.DataAtom == atom.I {
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return found
}

func textOf(n *html.Node) string {
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
	return strings.Join(strings.Fields(sb.String()), " ")
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func atoiOrNil(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}
