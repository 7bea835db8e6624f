package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
	qb "github.com/aquapolo/waterpolo-fantasy/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"name",
	"position",
	"price",
	"points",
	"team_color",
	"image_url",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	insertModel := playerInsertModel{
		ID:        p.ID,
		Name:      p.Name,
		Position:  string(p.Position),
		Price:     p.Price,
		Points:    p.Points,
		TeamColor: p.TeamColor,
		ImageURL:  p.ImageURL,
	}

	query, args, err := qb.InsertModel("players", insertModel, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    position = EXCLUDED.position,
    price = EXCLUDED.price,
    points = EXCLUDED.points,
    team_color = EXCLUDED.team_color,
    image_url = EXCLUDED.image_url,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build player upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("players").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build player delete query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}

	return nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:        row.ID,
		Name:      row.Name,
		Position:  player.Position(row.Position),
		Price:     row.Price,
		Points:    row.Points,
		TeamColor: row.TeamColor,
		ImageURL:  row.ImageURL,
	}
}
