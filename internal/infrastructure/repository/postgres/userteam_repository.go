package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/userteam"
	qb "github.com/aquapolo/waterpolo-fantasy/internal/platform/querybuilder"
)

type UserTeamRepository struct {
	db *sqlx.DB
}

var userTeamSelectColumns = []string{
	"user_id",
	"team_name",
	"logo_url",
	"active_chip",
	"is_submitted",
	"last_gameweek_saved",
	"total_points",
	"doc",
	"created_at",
	"updated_at",
}

func NewUserTeamRepository(db *sqlx.DB) *UserTeamRepository {
	return &UserTeamRepository{db: db}
}

func (r *UserTeamRepository) Get(ctx context.Context, userID string) (userteam.Team, bool, error) {
	query, args, err := qb.Select(userTeamSelectColumns...).From("user_teams").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return userteam.Team{}, false, fmt.Errorf("build get user team query: %w", err)
	}

	var row userTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return userteam.Team{}, false, nil
		}
		return userteam.Team{}, false, fmt.Errorf("get user team: %w", err)
	}

	team, err := teamFromTableModel(row)
	if err != nil {
		return userteam.Team{}, false, err
	}

	return team, true, nil
}

func (r *UserTeamRepository) Upsert(ctx context.Context, team userteam.Team) error {
	encoded, err := sonic.Marshal(userTeamDocFromDomain(team))
	if err != nil {
		return fmt.Errorf("encode user team doc: %w", err)
	}

	insertModel := userTeamInsertModel{
		UserID:            team.UserID,
		TeamName:          team.TeamName,
		LogoURL:           team.LogoURL,
		ActiveChip:        string(team.ActiveChip),
		IsSubmitted:       team.IsSubmitted,
		LastGameweekSaved: team.LastGameweekSaved,
		TotalPoints:       team.TotalPoints,
		Doc:               string(encoded),
	}

	query, args, err := qb.InsertModel("user_teams", insertModel, `ON CONFLICT (user_id)
DO UPDATE SET
    team_name = EXCLUDED.team_name,
    logo_url = EXCLUDED.logo_url,
    active_chip = EXCLUDED.active_chip,
    is_submitted = EXCLUDED.is_submitted,
    last_gameweek_saved = EXCLUDED.last_gameweek_saved,
    total_points = EXCLUDED.total_points,
    doc = EXCLUDED.doc,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build user team upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user team: %w", err)
	}

	return nil
}

func (r *UserTeamRepository) List(ctx context.Context) ([]userteam.Team, error) {
	query, args, err := qb.Select(userTeamSelectColumns...).From("user_teams").
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user teams query: %w", err)
	}

	var rows []userTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user teams: %w", err)
	}

	out := make([]userteam.Team, 0, len(rows))
	for _, row := range rows {
		team, err := teamFromTableModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, team)
	}

	return out, nil
}

func teamFromTableModel(row userTeamTableModel) (userteam.Team, error) {
	var doc userTeamDoc
	if err := sonic.Unmarshal([]byte(row.Doc), &doc); err != nil {
		return userteam.Team{}, fmt.Errorf("decode user team doc %s: %w", row.UserID, err)
	}

	return userTeamFromRow(row, doc), nil
}
