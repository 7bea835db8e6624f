package postgres

import "time"

type playerTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Position  string    `db:"position"`
	Price     float64   `db:"price"`
	Points    int       `db:"points"`
	TeamColor string    `db:"team_color"`
	ImageURL  string    `db:"image_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type playerInsertModel struct {
	ID        int64   `db:"id"`
	Name      string  `db:"name"`
	Position  string  `db:"position"`
	Price     float64 `db:"price"`
	Points    int     `db:"points"`
	TeamColor string  `db:"team_color"`
	ImageURL  string  `db:"image_url"`
}
