package postgres

import "time"

type leaderboardEntryTableModel struct {
	Gameweek   int       `db:"gameweek"`
	UserID     string    `db:"user_id"`
	Username   string    `db:"username"`
	TeamName   string    `db:"team_name"`
	Avatar     string    `db:"avatar"`
	Points     int       `db:"points"`
	RecordedAt time.Time `db:"recorded_at"`
}

type leaderboardEntryInsertModel struct {
	Gameweek   int       `db:"gameweek"`
	UserID     string    `db:"user_id"`
	Username   string    `db:"username"`
	TeamName   string    `db:"team_name"`
	Avatar     string    `db:"avatar"`
	Points     int       `db:"points"`
	RecordedAt time.Time `db:"recorded_at"`
}
