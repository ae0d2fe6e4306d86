// Package reporter renders PageAudit and DomainAudit results as
// human-readable HTML or Markdown, the same template-driven approach the
// teacher crawler used for its SEO reports, retargeted at the canonical
// audit model. It is a CLI convenience, not the PDF renderer: that
// boundary (spec §6 POST /audit/pdf) stays an external collaborator
// behind pkg/report's narrow interface.
package reporter

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

// RenderPageHTML renders a single-page audit as a styled HTML document.
func RenderPageHTML(audit model.PageAudit) (string, error) {
	t, err := template.New("page").Parse(pageHTMLTemplate)
	if err != nil {
		return "", fmt.Errorf("parse page template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, audit); err != nil {
		return "", fmt.Errorf("render page template: %w", err)
	}
	return buf.String(), nil
}

// RenderDomainMarkdown renders a domain audit, including its GEO score, as
// Markdown suitable for a terminal or a README-style artifact.
func RenderDomainMarkdown(audit model.DomainAudit) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# AEO Audit: %s\n\n", audit.Domain)
	fmt.Fprintf(&buf, "**Overall Grade:** %s (%.1f/100)\n\n", audit.Grade, audit.OverallScore)
	fmt.Fprintf(&buf, "Pages audited: %d (%d successful)\n\n", audit.PagesAudited, audit.PagesSuccessful)

	fmt.Fprintf(&buf, "## Category Breakdown\n\n")
	fmt.Fprintf(&buf, "| Category | Mean %% | Best Page | Worst Page |\n")
	fmt.Fprintf(&buf, "|---|---|---|---|\n")
	for _, key := range sortedKeys(audit.Breakdown) {
		agg := audit.Breakdown[key]
		fmt.Fprintf(&buf, "| %s | %.1f | %s | %s |\n", key, agg.MeanPercentage, agg.BestPage, agg.WorstPage)
	}
	fmt.Fprintf(&buf, "\n")

	if audit.GEOScore != nil {
		fmt.Fprintf(&buf, "## GEO Inclusion Readiness: %.1f/100\n\n", audit.GEOScore.Overall)
		for _, c := range audit.GEOScore.Components {
			flag := ""
			if c.BelowTarget {
				flag = " (below target)"
			}
			fmt.Fprintf(&buf, "- **%s:** %.1f/%.1f%s\n", c.Name, c.Raw, c.Max, flag)
			for _, action := range c.Actions {
				fmt.Fprintf(&buf, "  - %s\n", action)
			}
		}
		fmt.Fprintf(&buf, "\n")
	}

	fmt.Fprintf(&buf, "- Best page: %s\n", audit.BestPage)
	fmt.Fprintf(&buf, "- Worst page: %s\n", audit.WorstPage)

	return buf.String()
}

func sortedKeys(m map[string]model.CategoryAggregate) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

const pageHTMLTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>AEO Audit - {{.URL}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 1000px;
            margin: 0 auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 2rem;
            border-radius: 10px;
            margin-bottom: 2rem;
        }
        .score-card {
            background: white;
            border-radius: 10px;
            padding: 1.5rem;
            margin-bottom: 1.5rem;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
        }
        .grade {
            display: inline-block;
            padding: 0.5rem 1rem;
            background: #28a745;
            color: white;
            border-radius: 5px;
            font-weight: bold;
            font-size: 1.2rem;
        }
        .category-row {
            display: flex;
            justify-content: space-between;
            padding: 0.5rem 0;
            border-bottom: 1px solid #eee;
        }
        .recommendation {
            background: white;
            padding: 1rem;
            margin: 0.5rem 0;
            border-radius: 8px;
            box-shadow: 0 2px 5px rgba(0,0,0,0.1);
        }
        .priority-badge {
            display: inline-block;
            padding: 0.25rem 0.75rem;
            border-radius: 4px;
            font-size: 0.85rem;
            font-weight: bold;
            margin-right: 0.5rem;
            color: white;
        }
        .priority-high { background: #dc3545; }
        .priority-medium { background: #fd7e14; }
        .priority-low { background: #28a745; }
    </style>
</head>
<body>
    <div class="header">
        <h1>AEO Audit: {{.URL}}</h1>
        <p>Fetched {{.FetchedAt.Format "January 2, 2006 15:04 MST"}}</p>
    </div>

    <div class="score-card">
        <h2>Overall: <span class="grade">{{.Grade}}</span> ({{printf "%.1f" .OverallScore}}/100)</h2>
        <p>Content type: {{.ContentClassification.Type}} ({{.ContentClassification.Confidence}} confidence)</p>
    </div>

    <div class="score-card">
        <h2>Category Breakdown</h2>
        {{range $name, $score := .Breakdown}}
        <div class="category-row">
            <span>{{$name}}</span>
            <span>{{printf "%.1f" $score.Percentage}}%</span>
        </div>
        {{end}}
    </div>

    {{if .Recommendations}}
    <div class="score-card">
        <h2>Recommendations</h2>
        {{range .Recommendations}}
        <div class="recommendation">
            <span class="priority-badge priority-{{.Priority}}">{{.Priority}}</span>
            <strong>{{.Category}} / {{.SubScore}}</strong>
            <p>Gap: {{printf "%.1f" .Gap}} points</p>
        </div>
        {{end}}
    </div>
    {{end}}
</body>
</html>
`
