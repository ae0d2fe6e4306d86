package orchestrator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

func waitForTerminal(t *testing.T, o *Orchestrator, jobID string, timeout time.Duration) model.JobState {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		s, ok := o.Status(jobID)
		if ok && (s.Status == model.JobCompleted || s.Status == model.JobFailed) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach a terminal state within %s", jobID, timeout)
	return model.JobState{}
}

func TestOrchestratorSubmitDomainCompletesAndAggregates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>leaf page</body></html>`))
	}))
	defer server.Close()

	auditor := func(ctx context.Context, pageURL string) (model.PageAudit, model.PageModel, error) {
		return model.PageAudit{URL: pageURL, OverallScore: 70, Grade: "C"}, model.PageModel{URL: pageURL}, nil
	}

	o := &Orchestrator{
		store:       NewJobStore(time.Hour),
		discoverer:  newDiscoverer(server.Client(), "aeoaudit-test"),
		concurrency: 2,
		auditor:     auditor,
		brand:       func(string) string { return "TestBrand" },
	}

	jobID := o.SubmitDomain(context.Background(), server.URL, 0)

	final := waitForTerminal(t, o, jobID, 2*time.Second)

	require.Equal(t, model.JobCompleted, final.Status)
	require.NotNil(t, final.Result)
	assert.Equal(t, server.URL, final.Result.Domain)
	assert.Equal(t, 1, final.Result.PagesAudited)
	assert.NotNil(t, final.Result.GEOScore)
}

func TestOrchestratorFailsJobWhenNoURLsDiscovered(t *testing.T) {
	o := &Orchestrator{
		store:       NewJobStore(time.Hour),
		discoverer:  newDiscoverer(http.DefaultClient, "aeoaudit-test"),
		concurrency: 1,
		auditor: func(ctx context.Context, pageURL string) (model.PageAudit, model.PageModel, error) {
			return model.PageAudit{URL: pageURL}, model.PageModel{}, nil
		},
		brand: func(string) string { return "TestBrand" },
	}

	// A malformed domain URL fails url.Parse in both the sitemap and BFS
	// discovery paths, so Discover returns an error and no URLs at all --
	// unlike an unreachable-but-well-formed URL, which BFS still seeds with
	// the root URL itself before the first fetch fails.
	jobID := o.SubmitDomain(context.Background(), "://not-a-valid-url", 0)

	final := waitForTerminal(t, o, jobID, 2*time.Second)

	assert.Equal(t, model.JobFailed, final.Status)
	assert.NotEmpty(t, final.FailureReason)
}

func TestOrchestratorDeleteMarksJobFailed(t *testing.T) {
	o := &Orchestrator{store: NewJobStore(time.Hour)}
	jobID := o.store.Create()

	o.Delete(jobID)

	s, ok := o.Status(jobID)
	require.True(t, ok)
	assert.Equal(t, model.JobFailed, s.Status)
	assert.Equal(t, "deleted before completion", s.FailureReason)
}

func TestOrchestratorSubscribeReceivesProgressEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>leaf</body></html>`))
	}))
	defer server.Close()

	o := &Orchestrator{
		store:       NewJobStore(time.Hour),
		discoverer:  newDiscoverer(server.Client(), "aeoaudit-test"),
		concurrency: 1,
		auditor: func(ctx context.Context, pageURL string) (model.PageAudit, model.PageModel, error) {
			return model.PageAudit{URL: pageURL, OverallScore: 50}, model.PageModel{URL: pageURL}, nil
		},
		brand: func(string) string { return "TestBrand" },
	}

	jobID := o.SubmitDomain(context.Background(), server.URL, 0)
	events, unsubscribe := o.Subscribe(jobID)
	defer unsubscribe()

	var sawCompleted bool
	deadline := time.After(2 * time.Second)
	for !sawCompleted {
		select {
		case evt := <-events:
			if evt.Status == model.JobCompleted {
				sawCompleted = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for completed progress event")
		}
	}
}
