package orchestrator

import (
	"sync"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

// progressRing is a per-job ring buffer broadcasting a live tail of
// progress events to any number of subscribers (spec §4.H). A condition
// variable in the teacher's crawler link-queue inspired this shape, here
// applied to event fan-out instead of a work queue.
type progressRing struct {
	mu       sync.Mutex
	buf      []model.ProgressEvent
	cap      int
	subs     map[int]chan model.ProgressEvent
	nextSub  int
}

func newProgressRing(capacity int) *progressRing {
	return &progressRing{cap: capacity, subs: make(map[int]chan model.ProgressEvent)}
}

func (r *progressRing) publish(event model.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf = append(r.buf, event)
	if len(r.buf) > r.cap {
		r.buf = r.buf[len(r.buf)-r.cap:]
	}

	for _, ch := range r.subs {
		select {
		case ch <- event:
		default:
			// Slow subscriber: drop rather than block the single writer
			// (spec §5 "all writes go through the orchestrator on the
			// job's own task" — publication must never stall on a reader).
		}
	}
}

func (r *progressRing) subscribe() (<-chan model.ProgressEvent, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	ch := make(chan model.ProgressEvent, r.cap)
	for _, event := range r.buf {
		ch <- event
	}
	r.subs[id] = ch

	unsubscribe := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// percentageFor implements spec §4.G's progress formula: 10% for
// discovery completion, 90% scaled by pages audited over total URLs.
func percentageFor(discoveryDone bool, pagesAudited, totalURLs int) float64 {
	var pct float64
	if discoveryDone {
		pct += 10
	}
	if totalURLs > 0 {
		pct += 90 * (float64(pagesAudited) / float64(totalURLs))
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}
