package memory

import (
	"context"
	"sync"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
)

// PlayerRepository keeps the registry in process memory. It backs local
// development and the test suites.
type PlayerRepository struct {
	mu      sync.RWMutex
	players map[int64]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		players: make(map[int64]player.Player),
	}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]player.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}

	return players, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	return p, ok, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[p.ID] = p
	return nil
}

func (r *PlayerRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.players, id)
	return nil
}
