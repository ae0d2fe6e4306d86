package orchestrator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

// PageAuditor runs the full single-page pipeline (fetch -> parse ->
// extract -> classify -> score) for one URL, returning both the PageAudit
// and the PageModel extraction produced along the way (the latter is
// needed by GEO scoring, which scans PageModels without refetching). The
// orchestrator depends only on this narrow function type so it never
// imports the pipeline packages directly, keeping worker scheduling
// independent of audit internals.
type PageAuditor func(ctx context.Context, pageURL string) (model.PageAudit, model.PageModel, error)

const perPageTimeout = 60 * time.Second

// auditAll runs auditor over every discovered URL with a bounded-
// concurrency worker pool (spec §4.G "default 3"). Per-URL failures do not
// fail the job; onProgress is invoked after every completed URL, success
// or failure.
func auditAll(ctx context.Context, urls []string, concurrency int, auditor PageAuditor, onProgress func(completedURL string, audit *model.PageAudit, pm *model.PageModel)) map[string]model.PageAudit {
	if concurrency <= 0 {
		concurrency = 1
	}

	type outcome struct {
		url   string
		audit *model.PageAudit
		pm    *model.PageModel
	}

	results := make(map[string]model.PageAudit, len(urls))
	resultsCh := make(chan outcome, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, u := range urls {
		u := u
		g.Go(func() error {
			pageCtx, cancel := context.WithTimeout(gctx, perPageTimeout)
			defer cancel()

			audit, pm, err := auditor(pageCtx, u)
			if err != nil {
				resultsCh <- outcome{url: u}
				return nil // a failed page never fails the job (spec §4.G)
			}
			resultsCh <- outcome{url: u, audit: &audit, pm: &pm}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(resultsCh)
	}()

	for r := range resultsCh {
		if r.audit != nil {
			results[r.url] = *r.audit
		}
		onProgress(r.url, r.audit, r.pm)
	}

	return results
}
