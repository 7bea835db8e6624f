package leaderboard

import "context"

// Repository describes leaderboard persistence needs from use cases.
// Append is best-effort from the submission path: failures are logged by the
// caller and never roll back the preceding team write.
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	ListByGameweek(ctx context.Context, gameweek int) ([]Entry, error)
}
