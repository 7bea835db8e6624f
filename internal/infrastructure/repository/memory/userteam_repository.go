package memory

import (
	"context"
	"sync"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/userteam"
)

// UserTeamRepository keeps team documents in process memory.
type UserTeamRepository struct {
	mu    sync.RWMutex
	teams map[string]userteam.Team
}

func NewUserTeamRepository() *UserTeamRepository {
	return &UserTeamRepository{
		teams: make(map[string]userteam.Team),
	}
}

func (r *UserTeamRepository) Get(_ context.Context, userID string) (userteam.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[userID]
	return team, ok, nil
}

func (r *UserTeamRepository) Upsert(_ context.Context, team userteam.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teams[team.UserID] = team
	return nil
}

func (r *UserTeamRepository) List(_ context.Context) ([]userteam.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := make([]userteam.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, team)
	}

	return teams, nil
}
