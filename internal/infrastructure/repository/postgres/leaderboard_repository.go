package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/leaderboard"
	qb "github.com/aquapolo/waterpolo-fantasy/internal/platform/querybuilder"
)

type LeaderboardRepository struct {
	db *sqlx.DB
}

var leaderboardSelectColumns = []string{
	"gameweek",
	"user_id",
	"username",
	"team_name",
	"avatar",
	"points",
	"recorded_at",
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// Append records one entry per user per gameweek; a re-submission replaces
// the earlier entry but keeps its original recorded_at, so ordering by that
// column preserves first-submission order.
func (r *LeaderboardRepository) Append(ctx context.Context, entry leaderboard.Entry) error {
	insertModel := leaderboardEntryInsertModel{
		Gameweek:   entry.Gameweek,
		UserID:     entry.UserID,
		Username:   entry.Username,
		TeamName:   entry.TeamName,
		Avatar:     entry.Avatar,
		Points:     entry.Points,
		RecordedAt: entry.RecordedAt,
	}

	query, args, err := qb.InsertModel("leaderboard_entries", insertModel, `ON CONFLICT (gameweek, user_id)
DO UPDATE SET
    username = EXCLUDED.username,
    team_name = EXCLUDED.team_name,
    avatar = EXCLUDED.avatar,
    points = EXCLUDED.points`)
	if err != nil {
		return fmt.Errorf("build leaderboard append query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append leaderboard entry: %w", err)
	}

	return nil
}

func (r *LeaderboardRepository) ListByGameweek(ctx context.Context, gameweek int) ([]leaderboard.Entry, error) {
	query, args, err := qb.Select(leaderboardSelectColumns...).From("leaderboard_entries").
		Where(qb.Eq("gameweek", gameweek)).
		OrderBy("recorded_at", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard entries query: %w", err)
	}

	var rows []leaderboardEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}

	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Entry{
			Gameweek:   row.Gameweek,
			UserID:     row.UserID,
			Username:   row.Username,
			TeamName:   row.TeamName,
			Avatar:     row.Avatar,
			Points:     row.Points,
			RecordedAt: row.RecordedAt,
		})
	}

	return out, nil
}
