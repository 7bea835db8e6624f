package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/cache"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
)

// PlayerService serves the player registry: the read path for the market
// view and the admin write path for roster maintenance.
type PlayerService struct {
	repo   player.Repository
	cache  *cache.Store
	logger *logging.Logger
	now    func() time.Time
}

func NewPlayerService(repo player.Repository, cacheStore *cache.Store, logger *logging.Logger) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerService{
		repo:   repo,
		cache:  cacheStore,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the registry ordered by descending points, then name.
func (s *PlayerService) List(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	load := func(ctx context.Context) (any, error) {
		players, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list players: %w", err)
		}

		sort.SliceStable(players, func(i, j int) bool {
			if players[i].Points != players[j].Points {
				return players[i].Points > players[j].Points
			}
			return players[i].Name < players[j].Name
		})
		return players, nil
	}

	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]player.Player), nil
	}

	value, err := s.cache.GetOrLoad(ctx, "players:list", load)
	if err != nil {
		return nil, err
	}

	return value.([]player.Player), nil
}

// GetByID returns one registry player.
func (s *PlayerService) GetByID(ctx context.Context, id int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetByID")
	defer span.End()

	if id <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, exists, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}

	return p, nil
}

// Upsert writes a registry player. Points are owned by the scoring refresh,
// so an update keeps the stored points when the caller sends zero.
func (s *PlayerService) Upsert(ctx context.Context, p player.Player) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Upsert")
	defer span.End()

	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if p.Points == 0 {
		if existing, exists, err := s.repo.GetByID(ctx, p.ID); err != nil {
			return player.Player{}, fmt.Errorf("get player by id: %w", err)
		} else if exists {
			p.Points = existing.Points
		}
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("upsert player: %w", err)
	}
	s.invalidate(ctx)

	s.logger.InfoContext(ctx, "player upserted",
		"player_id", p.ID,
		"position", string(p.Position),
	)

	return p, nil
}

// Delete removes a registry player.
func (s *PlayerService) Delete(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	_, exists, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	s.invalidate(ctx)

	return nil
}

func (s *PlayerService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.DeletePrefix(ctx, "players:")
	}
}
