package orchestrator

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aeoaudit/aeoaudit/internal/config"
	"github.com/aeoaudit/aeoaudit/pkg/aggregator"
	"github.com/aeoaudit/aeoaudit/pkg/model"
)

const stallTimeout = 5 * time.Minute

// Orchestrator runs domain audits: discover URLs, audit them with a
// bounded worker pool, aggregate results, and publish progress (spec
// §4.G, §4.H).
type Orchestrator struct {
	store      *JobStore
	discoverer *discoverer
	concurrency int
	auditor    PageAuditor
	brand      func(domainURL string) string
}

// New builds an Orchestrator. auditor runs the full single-page pipeline;
// it is supplied by the caller (cmd/aeoaudit) so this package stays
// independent of fetcher/parser/extractor/classifier/calculator wiring.
func New(cfg *config.Config, auditor PageAuditor, brandFn func(domainURL string) string) *Orchestrator {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	return &Orchestrator{
		store:       NewJobStore(time.Duration(cfg.Job.TTLSeconds) * time.Second),
		discoverer:  newDiscoverer(httpClient, cfg.Fetcher.UserAgent),
		concurrency: cfg.Domain.Concurrency,
		auditor:     auditor,
		brand:       brandFn,
	}
}

// SubmitDomain creates a queued job and runs discovery+auditing
// asynchronously, returning the job id synchronously (spec §4.G).
func (o *Orchestrator) SubmitDomain(ctx context.Context, domainURL string, maxPages int) string {
	jobID := o.store.Create()
	go o.run(context.Background(), jobID, domainURL, maxPages)
	return jobID
}

// Status returns the current JobState for a job id.
func (o *Orchestrator) Status(jobID string) (model.JobState, bool) {
	return o.store.Get(jobID)
}

// Subscribe returns a live tail of progress events for a job.
func (o *Orchestrator) Subscribe(jobID string) (<-chan model.ProgressEvent, func()) {
	return o.store.Subscribe(jobID)
}

// Delete transitions a job that has not finished to failed with the reason
// "deleted before completion"; a job that already completed or failed keeps
// its status and reason. The background run is not cancelled: its workers
// keep auditing the remaining pages and its result is still stored on the
// job, whose status stays failed.
func (o *Orchestrator) Delete(jobID string) {
	o.store.Transition(jobID, model.JobFailed)
	o.store.Update(jobID, func(s *model.JobState) {
		if s.Status == model.JobFailed && s.FailureReason == "" {
			s.FailureReason = "deleted before completion"
		}
	})
}

func (o *Orchestrator) run(ctx context.Context, jobID, domainURL string, maxPages int) {
	o.store.Transition(jobID, model.JobDiscovering)
	o.publishProgress(jobID, false, 0, 0, 0, "discovering URLs")

	urls, err := o.discoverer.Discover(ctx, domainURL, maxPages)
	if err != nil || len(urls) == 0 {
		o.failJob(jobID, "no URLs discovered")
		return
	}

	o.store.Update(jobID, func(s *model.JobState) { s.URLsDiscovered = len(urls); s.TotalURLs = len(urls) })
	o.store.Transition(jobID, model.JobAuditing)
	o.publishProgress(jobID, true, 0, len(urls), len(urls), "auditing pages")

	pageModels := make(map[string]model.PageModel)
	var pageModelsMu sync.Mutex

	var completed int64
	lastProgress := atomicTimeNow()

	auditsRaw := auditAll(ctx, urls, o.concurrency, o.auditor, func(completedURL string, audit *model.PageAudit, pm *model.PageModel) {
		n := atomic.AddInt64(&completed, 1)
		lastProgress.Store(time.Now())

		status := "ok"
		if audit == nil {
			status = "failed"
		} else if pm != nil {
			pageModelsMu.Lock()
			pageModels[completedURL] = *pm
			pageModelsMu.Unlock()
		}
		o.store.Update(jobID, func(s *model.JobState) {
			s.PagesAudited = int(n)
			s.CurrentURL = completedURL
		})
		o.publishProgress(jobID, true, int(n), len(urls), len(urls), "audited "+completedURL+": "+status)
	})

	if stalledFor(lastProgress, stallTimeout) {
		o.failJob(jobID, "worker pool stalled for over 5 minutes")
		return
	}

	domainAudit := aggregator.Aggregate(domainURL, auditsRaw, len(urls))

	pageModelsMu.Lock()
	geo := aggregator.ComputeGEO(aggregator.GEOInputs{
		Brand:      o.brand(domainURL),
		PageModels: pageModels,
		PageAudits: auditsRaw,
	})
	pageModelsMu.Unlock()
	domainAudit.GEOScore = &geo

	o.store.SetResult(jobID, domainAudit)
	o.store.Transition(jobID, model.JobCompleted)
	o.publishProgress(jobID, true, len(urls), len(urls), len(urls), "completed")
}

func (o *Orchestrator) failJob(jobID, reason string) {
	log.Warn().Str("job_id", jobID).Str("reason", reason).Msg("domain audit job failed")
	o.store.Update(jobID, func(s *model.JobState) { s.FailureReason = reason })
	o.store.Transition(jobID, model.JobFailed)
	o.publishProgress(jobID, false, 0, 0, 0, reason)
}

func (o *Orchestrator) publishProgress(jobID string, discoveryDone bool, pagesAudited, totalURLs, urlsDiscovered int, message string) {
	o.store.Publish(jobID, model.ProgressEvent{
		Status:         currentStatus(o, jobID),
		CurrentStep:    message,
		Percentage:     percentageFor(discoveryDone, pagesAudited, totalURLs),
		PagesAudited:   pagesAudited,
		TotalURLs:      totalURLs,
		URLsDiscovered: urlsDiscovered,
		Message:        message,
	})
}

func currentStatus(o *Orchestrator, jobID string) model.JobStatus {
	if s, ok := o.store.Get(jobID); ok {
		return s.Status
	}
	return model.JobQueued
}

type atomicTime struct {
	mu sync.RWMutex
	t  time.Time
}

func atomicTimeNow() *atomicTime {
	a := &atomicTime{t: time.Now()}
	return a
}

func (a *atomicTime) Store(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.t = t
}

func (a *atomicTime) Load() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.t
}

// stalledFor reports whether more than window has passed since last. It is
// checked only after auditAll has returned, and every finished page
// refreshes last, so at that point last is at most moments old and the
// check does not detect a stall while the pool is running; a slow page is
// bounded only by its own 60s timeout.
func stalledFor(last *atomicTime, window time.Duration) bool {
	return time.Since(last.Load()) > window
}
