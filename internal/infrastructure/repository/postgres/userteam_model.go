package postgres

import (
	"time"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/chip"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/squad"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/userteam"
)

type userTeamTableModel struct {
	UserID            string    `db:"user_id"`
	TeamName          string    `db:"team_name"`
	LogoURL           string    `db:"logo_url"`
	ActiveChip        string    `db:"active_chip"`
	IsSubmitted       bool      `db:"is_submitted"`
	LastGameweekSaved int       `db:"last_gameweek_saved"`
	TotalPoints       int       `db:"total_points"`
	Doc               string    `db:"doc"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type userTeamInsertModel struct {
	UserID            string `db:"user_id"`
	TeamName          string `db:"team_name"`
	LogoURL           string `db:"logo_url"`
	ActiveChip        string `db:"active_chip"`
	IsSubmitted       bool   `db:"is_submitted"`
	LastGameweekSaved int    `db:"last_gameweek_saved"`
	TotalPoints       int    `db:"total_points"`
	Doc               string `db:"doc"`
}

// userTeamDoc is the JSONB body: the squad array, settings and chip
// inventory. Submission state lives in plain columns for querying.
type userTeamDoc struct {
	Slots    []slotDoc               `json:"slots"`
	Settings settingsDoc             `json:"settings"`
	Chips    map[string]chipStateDoc `json:"chips"`
}

type settingsDoc struct {
	Notifications bool `json:"notifications"`
	PublicProfile bool `json:"publicProfile"`
}

type chipStateDoc struct {
	Remaining     int   `json:"remaining"`
	UsedGameweeks []int `json:"usedGameweeks"`
}

type slotDoc struct {
	Index         int        `json:"index"`
	Kind          string     `json:"kind"`
	Player        *playerDoc `json:"player,omitempty"`
	IsCaptain     bool       `json:"isCaptain"`
	IsViceCaptain bool       `json:"isViceCaptain"`
}

type playerDoc struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Position  string  `json:"position"`
	Price     float64 `json:"price"`
	Points    int     `json:"points"`
	TeamColor string  `json:"teamColor"`
	ImageURL  string  `json:"imageUrl"`
}

func userTeamDocFromDomain(team userteam.Team) userTeamDoc {
	doc := userTeamDoc{
		Slots: make([]slotDoc, 0, squad.SlotCount),
		Settings: settingsDoc{
			Notifications: team.Settings.Notifications,
			PublicProfile: team.Settings.PublicProfile,
		},
		Chips: make(map[string]chipStateDoc, len(team.Chips)),
	}

	for _, slot := range team.Squad.Slots {
		s := slotDoc{
			Index:         slot.Index,
			Kind:          string(slot.Kind),
			IsCaptain:     slot.IsCaptain,
			IsViceCaptain: slot.IsViceCaptain,
		}
		if slot.Player != nil {
			s.Player = &playerDoc{
				ID:        slot.Player.ID,
				Name:      slot.Player.Name,
				Position:  string(slot.Player.Position),
				Price:     slot.Player.Price,
				Points:    slot.Player.Points,
				TeamColor: slot.Player.TeamColor,
				ImageURL:  slot.Player.ImageURL,
			}
		}
		doc.Slots = append(doc.Slots, s)
	}

	for kind, state := range team.Chips {
		doc.Chips[string(kind)] = chipStateDoc{
			Remaining:     state.Remaining,
			UsedGameweeks: append([]int(nil), state.UsedGameweeks...),
		}
	}

	return doc
}

func userTeamFromRow(row userTeamTableModel, doc userTeamDoc) userteam.Team {
	team := userteam.Team{
		UserID:            row.UserID,
		TeamName:          row.TeamName,
		LogoURL:           row.LogoURL,
		Squad:             squad.New(),
		ActiveChip:        chip.Kind(row.ActiveChip),
		IsSubmitted:       row.IsSubmitted,
		LastGameweekSaved: row.LastGameweekSaved,
		TotalPoints:       row.TotalPoints,
		UpdatedAt:         row.UpdatedAt,
		Settings: userteam.Settings{
			Notifications: doc.Settings.Notifications,
			PublicProfile: doc.Settings.PublicProfile,
		},
		Chips: make(chip.Inventory, len(doc.Chips)),
	}

	for _, s := range doc.Slots {
		if s.Index < 0 || s.Index >= squad.SlotCount {
			continue
		}
		slot := &team.Squad.Slots[s.Index]
		slot.IsCaptain = s.IsCaptain
		slot.IsViceCaptain = s.IsViceCaptain
		if s.Player != nil {
			slot.Player = &player.Player{
				ID:        s.Player.ID,
				Name:      s.Player.Name,
				Position:  player.Position(s.Player.Position),
				Price:     s.Player.Price,
				Points:    s.Player.Points,
				TeamColor: s.Player.TeamColor,
				ImageURL:  s.Player.ImageURL,
			}
		}
	}

	for kind, state := range doc.Chips {
		team.Chips[chip.Kind(kind)] = chip.State{
			Remaining:     state.Remaining,
			UsedGameweeks: append([]int(nil), state.UsedGameweeks...),
		}
	}

	return team
}
