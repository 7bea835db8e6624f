package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/match"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/id"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
)

// PointsRefresher recomputes registry points after the feed changes.
type PointsRefresher interface {
	ForceRefresh(ctx context.Context) error
}

// MatchService serves the recorded stats feed and its admin ingestion path.
type MatchService struct {
	repo      match.Repository
	ids       id.Generator
	refresher PointsRefresher
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchService(repo match.Repository, ids id.Generator, refresher PointsRefresher, logger *logging.Logger) *MatchService {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		repo:      repo,
		ids:       ids,
		refresher: refresher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns all recorded matches ordered by ID for stable paging.
func (s *MatchService) List(ctx context.Context) ([]match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})

	return records, nil
}

// GetByID returns one recorded match.
func (s *MatchService) GetByID(ctx context.Context, matchID string) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetByID")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Record{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	rec, exists, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return match.Record{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Record{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return rec, nil
}

// Ingest records one match from the upstream feed, minting an ID when the
// payload carries none, then recomputes registry points from the full feed.
func (s *MatchService) Ingest(ctx context.Context, rec match.Record) (match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Ingest")
	defer span.End()

	rec.ID = strings.TrimSpace(rec.ID)
	if rec.ID == "" {
		minted, err := s.ids.NewID()
		if err != nil {
			return match.Record{}, fmt.Errorf("mint match id: %w", err)
		}
		rec.ID = minted
	}

	if err := rec.Validate(); err != nil {
		return match.Record{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return match.Record{}, fmt.Errorf("upsert match: %w", err)
	}

	s.logger.InfoContext(ctx, "match ingested",
		"match_id", rec.ID,
		"participants", len(rec.Players),
	)

	if s.refresher != nil {
		if err := s.refresher.ForceRefresh(ctx); err != nil {
			s.logger.WarnContext(ctx, "points refresh after ingest failed",
				"match_id", rec.ID,
				"error", err,
			)
		}
	}

	return rec, nil
}
