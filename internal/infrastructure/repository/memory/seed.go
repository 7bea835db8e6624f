package memory

import (
	"context"
	"fmt"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/match"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
)

// SeedPlayers loads a starter registry so a memory-backed instance is usable
// without the admin endpoints.
func SeedPlayers(ctx context.Context, repo player.Repository) error {
	players := []player.Player{
		{ID: 1, Name: "Marko", Position: player.PositionGoalkeeper, Price: 12.5, TeamColor: "white"},
		{ID: 2, Name: "Dusan", Position: player.PositionGoalkeeper, Price: 10.0, TeamColor: "blue"},
		{ID: 3, Name: "Petar", Position: player.PositionDefender, Price: 11.0, TeamColor: "white"},
		{ID: 4, Name: "Nikola", Position: player.PositionDefender, Price: 9.5, TeamColor: "blue"},
		{ID: 5, Name: "Luka", Position: player.PositionWing, Price: 13.0, TeamColor: "white"},
		{ID: 6, Name: "Stefan", Position: player.PositionWing, Price: 10.5, TeamColor: "blue"},
		{ID: 7, Name: "Milos", Position: player.PositionWing, Price: 8.0, TeamColor: "white"},
		{ID: 8, Name: "Vuk", Position: player.PositionHoleSet, Price: 14.0, TeamColor: "blue"},
		{ID: 9, Name: "Andrija", Position: player.PositionHoleSet, Price: 11.5, TeamColor: "white"},
		{ID: 10, Name: "Filip", Position: player.PositionHoleSet, Price: 9.0, TeamColor: "blue"},
	}

	for _, p := range players {
		if err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed player %d: %w", p.ID, err)
		}
	}

	return nil
}

// SeedMatches loads a pair of recorded matches covering both a decided game
// and a draw.
func SeedMatches(ctx context.Context, repo match.Repository) error {
	records := []match.Record{
		{
			ID: "seed_match_1",
			Players: map[string]match.ParticipantStats{
				"marko": {Username: "Marko", Team: "Sharks", Saves: 9, MVP: true},
				"luka":  {Username: "Luka", Team: "Sharks", Goals: 3, Assists: 1},
				"vuk":   {Username: "Vuk", Team: "Orcas", Goals: 2},
			},
			Summary: &match.Summary{
				Winner: "Sharks",
				Score: match.Scoreline{
					Team1Name:  "Sharks",
					Team1Score: 14,
					Team2Name:  "Orcas",
					Team2Score: 10,
				},
			},
		},
		{
			ID: "seed_match_2",
			Players: map[string]match.ParticipantStats{
				"petar": {Username: "Petar", Team: "Sharks", Goals: 1},
				"dusan": {Username: "Dusan", Team: "Orcas", Saves: 11},
			},
			Summary: &match.Summary{
				Winner: match.DrawWinner,
				Score: match.Scoreline{
					Team1Name:  "Sharks",
					Team1Score: 11,
					Team2Name:  "Orcas",
					Team2Score: 11,
				},
			},
		},
	}

	for _, rec := range records {
		if err := repo.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("seed match %s: %w", rec.ID, err)
		}
	}

	return nil
}
