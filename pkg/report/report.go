// Package report defines the PDF-rendering boundary from spec §6 ("PDF
// /LLM integrations: behind narrow capability interfaces; the core never
// constructs them and uses null-object defaults when absent"). The PDF
// renderer itself, the HTTP surface that serves it, and the recommendation
// template library are all external collaborators (spec §1 Non-goals);
// this package only fixes the contract.
package report

import "github.com/aeoaudit/aeoaudit/pkg/model"

// AuditResult is either a single-page or domain-level result, mirroring the
// `{ audit_result, audit_type, detailed }` request shape from spec §6's
// POST /audit/pdf.
type AuditResult struct {
	PageAudit   *model.PageAudit
	DomainAudit *model.DomainAudit
	Detailed    bool
}

// Renderer turns an audit result into PDF bytes. Concrete implementations
// (wkhtmltopdf, a headless-Chrome print-to-PDF, a hosted rendering
// service) live outside this module.
type Renderer interface {
	Render(result AuditResult) ([]byte, error)
}

// Null is a zero-value Renderer: every render fails immediately, so a
// deployment with no PDF backend configured still returns a clean error
// to the caller rather than panicking (spec §7 "PDF generation failure:
// reported to caller; does not affect prior audit results").
type Null struct{}

func (Null) Render(result AuditResult) ([]byte, error) {
	return nil, errNoRendererConfigured
}

var errNoRendererConfigured = rendererError("no PDF renderer configured")

type rendererError string

func (e rendererError) Error() string { return string(e) }
