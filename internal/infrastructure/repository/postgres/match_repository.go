package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/match"
	qb "github.com/aquapolo/waterpolo-fantasy/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

var matchSelectColumns = []string{
	"id",
	"players",
	"summary",
	"created_at",
	"updated_at",
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Record, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := matchFromTableModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Record, bool, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return match.Record{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Record{}, false, nil
		}
		return match.Record{}, false, fmt.Errorf("get match: %w", err)
	}

	rec, err := matchFromTableModel(row)
	if err != nil {
		return match.Record{}, false, err
	}

	return rec, true, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, rec match.Record) error {
	players, err := sonic.Marshal(participantsDocFromDomain(rec.Players))
	if err != nil {
		return fmt.Errorf("encode match participants: %w", err)
	}

	var summary *string
	if doc := summaryDocFromDomain(rec.Summary); doc != nil {
		encoded, err := sonic.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode match summary: %w", err)
		}
		s := string(encoded)
		summary = &s
	}

	insertModel := matchInsertModel{
		ID:      rec.ID,
		Players: string(players),
		Summary: summary,
	}

	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (id)
DO UPDATE SET
    players = EXCLUDED.players,
    summary = EXCLUDED.summary,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build match upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}

	return nil
}

func matchFromTableModel(row matchTableModel) (match.Record, error) {
	var players map[string]participantDoc
	if err := sonic.Unmarshal([]byte(row.Players), &players); err != nil {
		return match.Record{}, fmt.Errorf("decode match participants %s: %w", row.ID, err)
	}

	var summary *summaryDoc
	if row.Summary.Valid && row.Summary.String != "" {
		summary = &summaryDoc{}
		if err := sonic.Unmarshal([]byte(row.Summary.String), summary); err != nil {
			return match.Record{}, fmt.Errorf("decode match summary %s: %w", row.ID, err)
		}
	}

	return match.Record{
		ID:      row.ID,
		Players: participantsFromDoc(players),
		Summary: summaryFromDoc(summary),
	}, nil
}
