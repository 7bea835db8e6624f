package leaderboard

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one append-only per-gameweek-per-user leaderboard record,
// snapshotted at submission time.
type Entry struct {
	Gameweek   int
	UserID     string
	Username   string
	TeamName   string
	Avatar     string
	Points     int
	RecordedAt time.Time
}

func (e Entry) Validate() error {
	if e.Gameweek <= 0 {
		return fmt.Errorf("gameweek must be greater than zero")
	}
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("user id is required")
	}

	return nil
}

// Row is one projected standings line served to clients.
type Row struct {
	Rank         int
	UserID       string
	TeamName     string
	Username     string
	Avatar       string
	WeeklyPoints int
	TotalPoints  int
}
