package memory

import (
	"context"
	"sync"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/leaderboard"
)

// LeaderboardRepository keeps per-gameweek entries in process memory. Within
// one gameweek a user's latest entry replaces the earlier one while keeping
// its original position, so re-submissions do not jump the queue.
type LeaderboardRepository struct {
	mu      sync.RWMutex
	entries map[int][]leaderboard.Entry
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{
		entries: make(map[int][]leaderboard.Entry),
	}
}

func (r *LeaderboardRepository) Append(_ context.Context, entry leaderboard.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	week := r.entries[entry.Gameweek]
	for i, existing := range week {
		if existing.UserID == entry.UserID {
			week[i] = entry
			return nil
		}
	}
	r.entries[entry.Gameweek] = append(week, entry)

	return nil
}

func (r *LeaderboardRepository) ListByGameweek(_ context.Context, gameweek int) ([]leaderboard.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	week := r.entries[gameweek]
	entries := make([]leaderboard.Entry, len(week))
	copy(entries, week)

	return entries, nil
}
