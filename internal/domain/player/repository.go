package player

import "context"

// Repository describes player registry persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	Upsert(ctx context.Context, p Player) error
	Delete(ctx context.Context, id int64) error
}
