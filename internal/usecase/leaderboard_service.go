package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/gameweek"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/leaderboard"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/userteam"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/cache"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
)

// LeaderboardService projects ranked standings. Weekly points are always
// recomputed from live registry points so the board keeps moving while match
// stats are still being corrected; the stored entries only contribute the
// identity snapshot (username, avatar) captured at submission time.
type LeaderboardService struct {
	teamRepo   userteam.Repository
	playerRepo player.Repository
	boardRepo  leaderboard.Repository
	schedule   gameweek.Schedule
	cache      *cache.Store
	logger     *logging.Logger
	now        func() time.Time
}

func NewLeaderboardService(
	teamRepo userteam.Repository,
	playerRepo player.Repository,
	boardRepo leaderboard.Repository,
	schedule gameweek.Schedule,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LeaderboardService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		boardRepo:  boardRepo,
		schedule:   schedule,
		cache:      cacheStore,
		logger:     logger,
		now:        time.Now,
	}
}

// Weekly returns the standings for one gameweek, ranked by live weekly
// points. Ties keep submission order.
func (s *LeaderboardService) Weekly(ctx context.Context, gameweekID int) ([]leaderboard.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Weekly")
	defer span.End()

	if gameweekID <= 0 {
		current, ok := s.schedule.CurrentAt(s.now().UTC())
		if !ok {
			return nil, fmt.Errorf("%w: no current gameweek", ErrInvalidInput)
		}
		gameweekID = current.ID
	}

	key := fmt.Sprintf("leaderboard:weekly:%d", gameweekID)
	value, err := s.loadCached(ctx, key, func(ctx context.Context) (any, error) {
		return s.projectWeekly(ctx, gameweekID)
	})
	if err != nil {
		return nil, err
	}

	return value.([]leaderboard.Row), nil
}

// Overall returns the season standings: banked totals plus the live current
// week for teams that have submitted it.
func (s *LeaderboardService) Overall(ctx context.Context) ([]leaderboard.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Overall")
	defer span.End()

	value, err := s.loadCached(ctx, "leaderboard:overall", s.projectOverall)
	if err != nil {
		return nil, err
	}

	return value.([]leaderboard.Row), nil
}

func (s *LeaderboardService) loadCached(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if s.cache == nil {
		return loader(ctx)
	}
	return s.cache.GetOrLoad(ctx, key, loader)
}

func (s *LeaderboardService) projectWeekly(ctx context.Context, gameweekID int) (any, error) {
	entries, err := s.boardRepo.ListByGameweek(ctx, gameweekID)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}
	if len(entries) == 0 {
		return []leaderboard.Row{}, nil
	}

	pointsByID, err := s.registryPoints(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.teamsByUser(ctx)
	if err != nil {
		return nil, err
	}

	rows := iter.Map(entries, func(e *leaderboard.Entry) leaderboard.Row {
		row := leaderboard.Row{
			UserID:       e.UserID,
			TeamName:     e.TeamName,
			Username:     e.Username,
			Avatar:       e.Avatar,
			WeeklyPoints: e.Points,
		}
		if team, ok := teams[e.UserID]; ok {
			row.TeamName = team.TeamName
			row.WeeklyPoints = teamWeeklyPoints(team, pointsByID)
			row.TotalPoints = team.TotalPoints + row.WeeklyPoints
		}
		return row
	})

	rankRows(rows, func(r leaderboard.Row) int { return r.WeeklyPoints })
	return rows, nil
}

func (s *LeaderboardService) projectOverall(ctx context.Context) (any, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user teams: %w", err)
	}
	if len(teams) == 0 {
		return []leaderboard.Row{}, nil
	}

	pointsByID, err := s.registryPoints(ctx)
	if err != nil {
		return nil, err
	}
	identities := s.identitySnapshots(ctx)

	rows := iter.Map(teams, func(t *userteam.Team) leaderboard.Row {
		row := leaderboard.Row{
			UserID:      t.UserID,
			TeamName:    t.TeamName,
			TotalPoints: t.TotalPoints,
		}
		if t.IsSubmitted {
			row.WeeklyPoints = teamWeeklyPoints(*t, pointsByID)
			row.TotalPoints += row.WeeklyPoints
		}
		if id, ok := identities[t.UserID]; ok {
			row.Username = id.Username
			row.Avatar = id.Avatar
		}
		return row
	})

	rankRows(rows, func(r leaderboard.Row) int { return r.TotalPoints })
	return rows, nil
}

func (s *LeaderboardService) registryPoints(ctx context.Context) (map[int64]int, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	pointsByID := make(map[int64]int, len(players))
	for _, p := range players {
		pointsByID[p.ID] = p.Points
	}

	return pointsByID, nil
}

func (s *LeaderboardService) teamsByUser(ctx context.Context) (map[string]userteam.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user teams: %w", err)
	}

	byUser := make(map[string]userteam.Team, len(teams))
	for _, t := range teams {
		byUser[t.UserID] = t
	}

	return byUser, nil
}

// identitySnapshots surfaces the latest username and avatar each user carried
// on any stored entry. Lookup failures degrade to blank identity fields.
func (s *LeaderboardService) identitySnapshots(ctx context.Context) map[string]leaderboard.Entry {
	snapshots := make(map[string]leaderboard.Entry)

	current, ok := s.schedule.CurrentAt(s.now().UTC())
	if !ok {
		return snapshots
	}
	for gw := current.ID; gw >= 1; gw-- {
		entries, err := s.boardRepo.ListByGameweek(ctx, gw)
		if err != nil {
			s.logger.WarnContext(ctx, "leaderboard identity lookup failed",
				"gameweek", gw,
				"error", err,
			)
			continue
		}
		for _, e := range entries {
			if _, seen := snapshots[e.UserID]; !seen {
				snapshots[e.UserID] = e
			}
		}
	}

	return snapshots
}

func rankRows(rows []leaderboard.Row, points func(leaderboard.Row) int) {
	sort.SliceStable(rows, func(i, j int) bool {
		return points(rows[i]) > points(rows[j])
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}
