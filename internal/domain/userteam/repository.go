package userteam

import "context"

// Repository describes user-team persistence needs from use cases. The
// document is read and written whole; concurrent writers resolve last-wins.
type Repository interface {
	Get(ctx context.Context, userID string) (Team, bool, error)
	Upsert(ctx context.Context, team Team) error
	List(ctx context.Context) ([]Team, error)
}
