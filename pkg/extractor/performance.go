package extractor

import "github.com/aeoaudit/aeoaudit/pkg/model"

// extractPerformance implements the Performance extractor (spec §4.C): the
// signals were already captured by the fetcher (TTFB always; FCP/LCP/
// page-load only for rendered fetches), so extraction here is a direct
// carry-through into the PageModel rather than a fresh measurement.
func extractPerformance(fr model.FetchResult) model.Performance {
	return fr.Performance
}
