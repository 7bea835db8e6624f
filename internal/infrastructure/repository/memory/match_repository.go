package memory

import (
	"context"
	"sync"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/match"
)

// MatchRepository keeps the stats feed in process memory and fans out the
// refreshed collection to subscribers after every write.
type MatchRepository struct {
	mu          sync.RWMutex
	records     map[string]match.Record
	subscribers map[int]func([]match.Record)
	nextSubID   int
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		records:     make(map[string]match.Record),
		subscribers: make(map[int]func([]match.Record)),
	}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshotLocked(), nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	return rec, ok, nil
}

func (r *MatchRepository) Upsert(_ context.Context, rec match.Record) error {
	r.mu.Lock()
	r.records[rec.ID] = rec
	snapshot := r.snapshotLocked()
	subscribers := make([]func([]match.Record), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subscribers = append(subscribers, fn)
	}
	r.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}

	return nil
}

// Subscribe registers a callback that receives the full collection after
// every write. The returned cancel removes the registration.
func (r *MatchRepository) Subscribe(fn func([]match.Record)) (cancel func()) {
	r.mu.Lock()
	subID := r.nextSubID
	r.nextSubID++
	r.subscribers[subID] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subscribers, subID)
		r.mu.Unlock()
	}
}

func (r *MatchRepository) snapshotLocked() []match.Record {
	records := make([]match.Record, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}

	return records
}
