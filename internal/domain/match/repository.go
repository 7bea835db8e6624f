package match

import "context"

// Repository describes stats-feed persistence needs from use cases.
// Records are immutable once recorded; Upsert exists for the admin
// ingestion path that mirrors the upstream feed.
type Repository interface {
	List(ctx context.Context) ([]Record, error)
	GetByID(ctx context.Context, id string) (Record, bool, error)
	Upsert(ctx context.Context, rec Record) error
}

// Watcher is implemented by feed repositories that can push the full
// refreshed collection to consumers on every change.
type Watcher interface {
	Subscribe(fn func([]Record)) (cancel func())
}
