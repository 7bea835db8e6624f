package scoring

import (
	"strings"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/match"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
)

const (
	pointsPerGoal       = 2
	pointsPerAssist     = 1
	pointsPerSave       = 1
	pointsMVP           = 4
	pointsWin           = 4
	pointsLoss          = -2
	pointsCleanSheet    = 6
	cleanSheetThreshold = 12
)

// PlayerPoints computes a player's fantasy point total over the whole feed.
// The result is the sum of every match record currently in the feed, clamped
// at zero. Records missing the participant or the result summary contribute
// what they can and never fail the computation.
func PlayerPoints(name string, pos player.Position, feed []match.Record) int {
	total := 0
	for _, rec := range feed {
		total += matchPoints(name, pos, rec)
	}
	if total < 0 {
		return 0
	}

	return total
}

func matchPoints(name string, pos player.Position, rec match.Record) int {
	stats, ok := match.FindParticipant(rec, name)
	if !ok {
		return 0
	}

	points := stats.Goals*pointsPerGoal + stats.Assists*pointsPerAssist
	if stats.MVP {
		points += pointsMVP
	}
	if pos == player.PositionGoalkeeper {
		points += stats.Saves * pointsPerSave
	}

	if rec.Summary != nil {
		winner := strings.TrimSpace(rec.Summary.Winner)
		switch {
		case winner == "" || rec.Summary.IsDraw():
			// no result contribution
		case strings.EqualFold(winner, stats.Team):
			points += pointsWin
		default:
			points += pointsLoss
		}
	}

	if pos == player.PositionGoalkeeper || pos == player.PositionDefender {
		if rec.Summary.OpponentScore(stats.Team) < cleanSheetThreshold {
			points += pointsCleanSheet
		}
	}

	return points
}
