package postgres

import (
	"database/sql"
	"time"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/match"
)

type matchTableModel struct {
	ID        string         `db:"id"`
	Players   string         `db:"players"`
	Summary   sql.NullString `db:"summary"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	ID      string  `db:"id"`
	Players string  `db:"players"`
	Summary *string `db:"summary"`
}

type participantDoc struct {
	Username string `json:"username"`
	Team     string `json:"team"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
	Saves    int    `json:"saves"`
	MVP      bool   `json:"mvp"`
}

type summaryDoc struct {
	Winner     string `json:"winner"`
	Team1Name  string `json:"team1Name"`
	Team1Score int    `json:"team1Score"`
	Team2Name  string `json:"team2Name"`
	Team2Score int    `json:"team2Score"`
}

func participantsDocFromDomain(players map[string]match.ParticipantStats) map[string]participantDoc {
	out := make(map[string]participantDoc, len(players))
	for key, stats := range players {
		out[key] = participantDoc{
			Username: stats.Username,
			Team:     stats.Team,
			Goals:    stats.Goals,
			Assists:  stats.Assists,
			Saves:    stats.Saves,
			MVP:      stats.MVP,
		}
	}
	return out
}

func participantsFromDoc(doc map[string]participantDoc) map[string]match.ParticipantStats {
	out := make(map[string]match.ParticipantStats, len(doc))
	for key, p := range doc {
		out[key] = match.ParticipantStats{
			Username: p.Username,
			Team:     p.Team,
			Goals:    p.Goals,
			Assists:  p.Assists,
			Saves:    p.Saves,
			MVP:      p.MVP,
		}
	}
	return out
}

func summaryDocFromDomain(summary *match.Summary) *summaryDoc {
	if summary == nil {
		return nil
	}
	return &summaryDoc{
		Winner:     summary.Winner,
		Team1Name:  summary.Score.Team1Name,
		Team1Score: summary.Score.Team1Score,
		Team2Name:  summary.Score.Team2Name,
		Team2Score: summary.Score.Team2Score,
	}
}

func summaryFromDoc(doc *summaryDoc) *match.Summary {
	if doc == nil {
		return nil
	}
	return &match.Summary{
		Winner: doc.Winner,
		Score: match.Scoreline{
			Team1Name:  doc.Team1Name,
			Team1Score: doc.Team1Score,
			Team2Name:  doc.Team2Name,
			Team2Score: doc.Team2Score,
		},
	}
}
