package orchestrator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

// JobStore is the process-wide map job-id -> JobState from spec §4.H, with
// a single writer (the orchestrator goroutine running that job) and TTL
// eviction of terminal jobs.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*jobEntry
	ttl  time.Duration
}

type jobEntry struct {
	state    model.JobState
	ring     *progressRing
	finishAt *time.Time
}

func NewJobStore(ttl time.Duration) *JobStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JobStore{jobs: make(map[string]*jobEntry), ttl: ttl}
}

// Create allocates a new job in the queued state and returns its id
// synchronously, per spec §4.G ("returns a job-id synchronously").
func (s *JobStore) Create() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = &jobEntry{
		state: model.JobState{
			JobID:     id,
			Status:    model.JobQueued,
			CreatedAt: nowFunc(),
		},
		ring: newProgressRing(256),
	}
	return id
}

// Get returns a copy of the job's current state.
func (s *JobStore) Get(jobID string) (model.JobState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return model.JobState{}, false
	}
	return e.state, true
}

// Transition enforces the state machine from spec §4.G: queued ->
// discovering -> auditing -> completed, or any prior state -> failed. No
// state is ever revisited: a transition that moves backward, repeats the
// current state, or leaves completed/failed is ignored.
func (s *JobStore) Transition(jobID string, status model.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return
	}
	cur := e.state.Status
	if cur == model.JobCompleted || cur == model.JobFailed {
		return
	}
	rank := map[model.JobStatus]int{model.JobQueued: 0, model.JobDiscovering: 1, model.JobAuditing: 2, model.JobCompleted: 3}
	if status != model.JobFailed && rank[status] <= rank[cur] {
		return
	}
	e.state.Status = status
	if status == model.JobCompleted || status == model.JobFailed {
		finishAt := nowFunc()
		e.finishAt = &finishAt
	}
}

func (s *JobStore) Update(jobID string, mutate func(*model.JobState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return
	}
	mutate(&e.state)
}

func (s *JobStore) SetResult(jobID string, result model.DomainAudit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return
	}
	e.state.Result = &result
}

// Publish appends a progress event to the job's ring buffer and broadcasts
// it to subscribers (spec §4.H).
func (s *JobStore) Publish(jobID string, event model.ProgressEvent) {
	s.mu.RLock()
	e, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	e.ring.publish(event)
}

// Subscribe returns a channel of progress events for a job, starting from
// the current tail of the ring buffer.
func (s *JobStore) Subscribe(jobID string) (<-chan model.ProgressEvent, func()) {
	s.mu.RLock()
	e, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		ch := make(chan model.ProgressEvent)
		close(ch)
		return ch, func() {}
	}
	return e.ring.subscribe()
}

// Sweep evicts terminal jobs past their TTL. Call periodically from a
// background goroutine.
func (s *JobStore) Sweep() {
	now := nowFunc()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.jobs {
		if e.finishAt != nil && now.Sub(*e.finishAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// nowFunc is indirected so tests can stub time without reaching into
// internals; production code always uses time.Now.
var nowFunc = time.Now
