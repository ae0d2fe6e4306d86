package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

func TestExtractPerformanceCarriesFetchResultPerformanceThrough(t *testing.T) {
	lcp := int64(1200)
	fr := model.FetchResult{
		Performance: model.Performance{
			TTFBMillis:     50,
			DOMLoadMillis:  400,
			PageLoadMillis: 900,
			FCPMillis:      600,
			LCPMillis:      &lcp,
		},
	}

	perf := extractPerformance(fr)

	assert.Equal(t, fr.Performance, perf)
	assert.Equal(t, int64(1200), *perf.LCPMillis)
}

func TestExtractPerformanceZeroValueForHTTPOnlyFetch(t *testing.T) {
	fr := model.FetchResult{Performance: model.Performance{TTFBMillis: 75}}

	perf := extractPerformance(fr)

	assert.Equal(t, int64(75), perf.TTFBMillis)
	assert.Nil(t, perf.LCPMillis)
}
