package match

import (
	"fmt"
	"strings"
)

// DrawWinner is the summary winner value recorded when neither team won.
const DrawWinner = "Draw"

// UnknownOpponentScore is a sentinel used when the opposing team cannot be
// identified from a summary. It is high enough that the clean-sheet bonus is
// never awarded against it.
const UnknownOpponentScore = 99

// ParticipantStats holds one participant's raw numbers for a single match.
// The map key under Record.Players is free text from the upstream feed and
// may merely contain the participant's username; Username carries the value
// when the feed embeds it explicitly.
type ParticipantStats struct {
	Username string
	Team     string
	Goals    int
	Assists  int
	Saves    int
	MVP      bool
}

type Scoreline struct {
	Team1Name  string
	Team1Score int
	Team2Name  string
	Team2Score int
}

// Summary is the optional result block of a recorded match.
type Summary struct {
	Winner string
	Score  Scoreline
}

// Record is one immutable match document from the stats feed.
type Record struct {
	ID      string
	Players map[string]ParticipantStats
	Summary *Summary
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	if len(r.Players) == 0 {
		return fmt.Errorf("match must contain at least one participant")
	}

	return nil
}

// OpponentScore resolves the score of the team opposing the given one.
// When the team cannot be matched against either side of the scoreline the
// sentinel UnknownOpponentScore is returned.
func (s *Summary) OpponentScore(team string) int {
	if s == nil {
		return UnknownOpponentScore
	}
	switch {
	case strings.EqualFold(team, s.Score.Team1Name):
		return s.Score.Team2Score
	case strings.EqualFold(team, s.Score.Team2Name):
		return s.Score.Team1Score
	default:
		return UnknownOpponentScore
	}
}

// IsDraw reports whether the summary declares no winner.
func (s *Summary) IsDraw() bool {
	return s != nil && strings.EqualFold(strings.TrimSpace(s.Winner), DrawWinner)
}
