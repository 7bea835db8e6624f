package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/match"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/scoring"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/resilience"
)

const (
	defaultRefreshInterval = 30 * time.Second
	defaultRefreshWorkers  = 8
)

// ScoringService recomputes cached registry points from the match feed.
// The point formula itself lives in the scoring domain package; this service
// owns the fan-out and persistence.
type ScoringService struct {
	playerRepo player.Repository
	feed       match.Repository
	logger     *logging.Logger
	workers    int

	refreshFlight   resilience.SingleFlight
	refreshMu       sync.Mutex
	lastRefreshAt   time.Time
	refreshInterval time.Duration
	now             func() time.Time
}

func NewScoringService(playerRepo player.Repository, feed match.Repository, logger *logging.Logger) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoringService{
		playerRepo:      playerRepo,
		feed:            feed,
		logger:          logger,
		workers:         defaultRefreshWorkers,
		refreshInterval: defaultRefreshInterval,
		now:             time.Now,
	}
}

// SetRefreshPolicy overrides the refresh throttle window and the worker pool
// size. Zero or negative values keep the defaults.
func (s *ScoringService) SetRefreshPolicy(interval time.Duration, workers int) {
	if interval > 0 {
		s.refreshInterval = interval
	}
	if workers > 0 {
		s.workers = workers
	}
}

// PlayerPoints computes one player's live total over the current feed.
func (s *ScoringService) PlayerPoints(ctx context.Context, playerID int64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.PlayerPoints")
	defer span.End()

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	feed, err := s.feed.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list match feed: %w", err)
	}

	return scoring.PlayerPoints(p.Name, p.Position, feed), nil
}

// RefreshAllPoints recomputes every registry player's cached points from the
// full feed and persists the new totals. Concurrent callers share one run,
// and runs within the refresh interval are skipped.
func (s *ScoringService) RefreshAllPoints(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RefreshAllPoints")
	defer span.End()

	now := s.now().UTC()
	if s.shouldSkipRefresh(now) {
		return nil
	}

	_, err, _ := s.refreshFlight.Do("scoring:refresh", func() (any, error) {
		runNow := s.now().UTC()
		if s.shouldSkipRefresh(runNow) {
			return nil, nil
		}
		if runErr := s.refreshOnce(ctx); runErr != nil {
			return nil, runErr
		}
		s.markRefresh(runNow)
		return nil, nil
	})

	return err
}

// ForceRefresh bypasses the interval guard, for feed-change notifications.
func (s *ScoringService) ForceRefresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ForceRefresh")
	defer span.End()

	_, err, _ := s.refreshFlight.Do("scoring:refresh", func() (any, error) {
		if runErr := s.refreshOnce(ctx); runErr != nil {
			return nil, runErr
		}
		s.markRefresh(s.now().UTC())
		return nil, nil
	})

	return err
}

func (s *ScoringService) refreshOnce(ctx context.Context) error {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list players for refresh: %w", err)
	}
	if len(players) == 0 {
		return nil
	}

	feed, err := s.feed.List(ctx)
	if err != nil {
		return fmt.Errorf("list match feed for refresh: %w", err)
	}

	workerCount := s.workers
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(players) {
		workerCount = len(players)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return fmt.Errorf("create refresh worker pool: %w", err)
	}
	defer pool.Release()

	type result struct {
		player player.Player
		points int
	}

	results := make([]result, len(players))
	var workers sync.WaitGroup
	for idx, p := range players {
		idx, p := idx, p
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results[idx] = result{
				player: p,
				points: scoring.PlayerPoints(p.Name, p.Position, feed),
			}
		}); err != nil {
			workers.Done()
			return fmt.Errorf("submit refresh task: %w", err)
		}
	}
	workers.Wait()

	updated := 0
	for _, row := range results {
		if row.player.ID == 0 || row.player.Points == row.points {
			continue
		}
		row.player.Points = row.points
		if err := s.playerRepo.Upsert(ctx, row.player); err != nil {
			return fmt.Errorf("persist points player=%d: %w", row.player.ID, err)
		}
		updated++
	}

	s.logger.InfoContext(ctx, "registry points refreshed",
		"players", len(players),
		"matches", len(feed),
		"updated", updated,
	)

	return nil
}

func (s *ScoringService) shouldSkipRefresh(now time.Time) bool {
	if s.refreshInterval <= 0 {
		return false
	}
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if s.lastRefreshAt.IsZero() {
		return false
	}
	return now.Sub(s.lastRefreshAt) < s.refreshInterval
}

func (s *ScoringService) markRefresh(now time.Time) {
	s.refreshMu.Lock()
	s.lastRefreshAt = now
	s.refreshMu.Unlock()
}
