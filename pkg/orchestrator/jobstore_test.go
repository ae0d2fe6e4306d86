package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

func TestJobStoreCreateStartsQueued(t *testing.T) {
	s := NewJobStore(time.Hour)

	id := s.Create()
	require.NotEmpty(t, id)

	state, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, model.JobQueued, state.Status)
}

func TestJobStoreTransitionFollowsStateMachine(t *testing.T) {
	s := NewJobStore(time.Hour)
	id := s.Create()

	s.Transition(id, model.JobDiscovering)
	state, _ := s.Get(id)
	assert.Equal(t, model.JobDiscovering, state.Status)

	s.Transition(id, model.JobAuditing)
	state, _ = s.Get(id)
	assert.Equal(t, model.JobAuditing, state.Status)

	s.Transition(id, model.JobCompleted)
	state, _ = s.Get(id)
	assert.Equal(t, model.JobCompleted, state.Status)
}

func TestJobStoreGetUnknownJobReturnsFalse(t *testing.T) {
	s := NewJobStore(time.Hour)

	_, ok := s.Get("does-not-exist")
	assert.False(t, ok)
}

func TestJobStoreUpdateMutatesInPlace(t *testing.T) {
	s := NewJobStore(time.Hour)
	id := s.Create()

	s.Update(id, func(js *model.JobState) {
		js.PagesAudited = 5
		js.TotalURLs = 10
	})

	state, _ := s.Get(id)
	assert.Equal(t, 5, state.PagesAudited)
	assert.Equal(t, 10, state.TotalURLs)
}

func TestJobStoreSetResultStoresPointerCopy(t *testing.T) {
	s := NewJobStore(time.Hour)
	id := s.Create()

	s.SetResult(id, model.DomainAudit{Domain: "example.com", OverallScore: 77})

	state, _ := s.Get(id)
	require.NotNil(t, state.Result)
	assert.Equal(t, "example.com", state.Result.Domain)
}

func TestJobStoreSweepEvictsOnlyExpiredTerminalJobs(t *testing.T) {
	s := NewJobStore(time.Minute)
	old := nowFunc
	defer func() { nowFunc = old }()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return base }

	staleID := s.Create()
	s.Transition(staleID, model.JobCompleted)

	later := base.Add(2 * time.Minute)
	nowFunc = func() time.Time { return later }

	freshID := s.Create()
	s.Transition(freshID, model.JobCompleted)

	s.Sweep()

	_, staleOK := s.Get(staleID)
	_, freshOK := s.Get(freshID)
	assert.False(t, staleOK)
	assert.True(t, freshOK)
}

func TestJobStoreSweepKeepsActiveJobs(t *testing.T) {
	s := NewJobStore(time.Minute)
	old := nowFunc
	defer func() { nowFunc = old }()
	nowFunc = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	id := s.Create()
	s.Transition(id, model.JobAuditing)

	nowFunc = func() time.Time { return time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC) }
	s.Sweep()

	_, ok := s.Get(id)
	assert.True(t, ok)
}

func TestJobStoreSubscribeOnUnknownJobReturnsClosedChannel(t *testing.T) {
	s := NewJobStore(time.Hour)

	ch, unsubscribe := s.Subscribe("nope")
	defer unsubscribe()

	_, open := <-ch
	assert.False(t, open)
}

func TestJobStorePublishDeliversToSubscriber(t *testing.T) {
	s := NewJobStore(time.Hour)
	id := s.Create()

	ch, unsubscribe := s.Subscribe(id)
	defer unsubscribe()

	s.Publish(id, model.ProgressEvent{Status: model.JobAuditing, Message: "auditing page 1"})

	event := <-ch
	assert.Equal(t, "auditing page 1", event.Message)
}
