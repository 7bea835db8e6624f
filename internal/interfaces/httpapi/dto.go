package httpapi

import (
	"time"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/leaderboard"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/match"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/squad"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/userteam"
)

type gameweekDTO struct {
	ID       int       `json:"id"`
	Start    time.Time `json:"start"`
	Deadline time.Time `json:"deadline"`
	Editable bool      `json:"editable"`
}

type playerDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Position  string  `json:"position"`
	Price     float64 `json:"price"`
	Points    int     `json:"points"`
	TeamColor string  `json:"teamColor,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

type slotDTO struct {
	Index         int        `json:"index"`
	Kind          string     `json:"kind"`
	Player        *playerDTO `json:"player,omitempty"`
	IsCaptain     bool       `json:"isCaptain"`
	IsViceCaptain bool       `json:"isViceCaptain"`
}

type budgetDTO struct {
	Cap       float64 `json:"cap"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

type chipStateDTO struct {
	Remaining     int   `json:"remaining"`
	UsedGameweeks []int `json:"usedGameweeks,omitempty"`
}

type settingsDTO struct {
	Notifications bool `json:"notifications"`
	PublicProfile bool `json:"publicProfile"`
}

type teamDTO struct {
	UserID            string                  `json:"userId"`
	TeamName          string                  `json:"teamName"`
	LogoURL           string                  `json:"logoUrl,omitempty"`
	Slots             []slotDTO               `json:"slots"`
	Budget            budgetDTO               `json:"budget"`
	Settings          settingsDTO             `json:"settings"`
	Chips             map[string]chipStateDTO `json:"chips"`
	ActiveChip        string                  `json:"activeChip,omitempty"`
	IsSubmitted       bool                    `json:"isSubmitted"`
	LastGameweekSaved int                     `json:"lastGameweekSaved"`
	TotalPoints       int                     `json:"totalPoints"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

type participantDTO struct {
	Username string `json:"username"`
	Team     string `json:"team"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
	Saves    int    `json:"saves"`
	MVP      bool   `json:"mvp"`
}

type summaryDTO struct {
	Winner     string `json:"winner"`
	Team1Name  string `json:"team1Name"`
	Team1Score int    `json:"team1Score"`
	Team2Name  string `json:"team2Name"`
	Team2Score int    `json:"team2Score"`
}

type matchDTO struct {
	ID      string                    `json:"id"`
	Players map[string]participantDTO `json:"players"`
	Summary *summaryDTO               `json:"summary,omitempty"`
}

type leaderboardRowDTO struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"userId"`
	TeamName     string `json:"teamName"`
	Username     string `json:"username,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
	WeeklyPoints int    `json:"weeklyPoints"`
	TotalPoints  int    `json:"totalPoints"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:        p.ID,
		Name:      p.Name,
		Position:  string(p.Position),
		Price:     p.Price,
		Points:    p.Points,
		TeamColor: p.TeamColor,
		ImageURL:  p.ImageURL,
	}
}

func teamToDTO(team userteam.Team) teamDTO {
	dto := teamDTO{
		UserID:   team.UserID,
		TeamName: team.TeamName,
		LogoURL:  team.LogoURL,
		Slots:    make([]slotDTO, 0, len(team.Squad.Slots)),
		Budget: budgetDTO{
			Cap:       squad.BudgetCap,
			Spent:     team.Squad.SpentBudget(),
			Remaining: team.Squad.RemainingBudget(),
		},
		Settings: settingsDTO{
			Notifications: team.Settings.Notifications,
			PublicProfile: team.Settings.PublicProfile,
		},
		Chips:             make(map[string]chipStateDTO, len(team.Chips)),
		ActiveChip:        string(team.ActiveChip),
		IsSubmitted:       team.IsSubmitted,
		LastGameweekSaved: team.LastGameweekSaved,
		TotalPoints:       team.TotalPoints,
		UpdatedAt:         team.UpdatedAt,
	}

	for _, slot := range team.Squad.Slots {
		s := slotDTO{
			Index:         slot.Index,
			Kind:          string(slot.Kind),
			IsCaptain:     slot.IsCaptain,
			IsViceCaptain: slot.IsViceCaptain,
		}
		if slot.Player != nil {
			p := playerToDTO(*slot.Player)
			s.Player = &p
		}
		dto.Slots = append(dto.Slots, s)
	}

	for kind, state := range team.Chips {
		dto.Chips[string(kind)] = chipStateDTO{
			Remaining:     state.Remaining,
			UsedGameweeks: append([]int(nil), state.UsedGameweeks...),
		}
	}

	return dto
}

func matchToDTO(rec match.Record) matchDTO {
	dto := matchDTO{
		ID:      rec.ID,
		Players: make(map[string]participantDTO, len(rec.Players)),
	}

	for key, stats := range rec.Players {
		dto.Players[key] = participantDTO{
			Username: stats.Username,
			Team:     stats.Team,
			Goals:    stats.Goals,
			Assists:  stats.Assists,
			Saves:    stats.Saves,
			MVP:      stats.MVP,
		}
	}

	if rec.Summary != nil {
		dto.Summary = &summaryDTO{
			Winner:     rec.Summary.Winner,
			Team1Name:  rec.Summary.Score.Team1Name,
			Team1Score: rec.Summary.Score.Team1Score,
			Team2Name:  rec.Summary.Score.Team2Name,
			Team2Score: rec.Summary.Score.Team2Score,
		}
	}

	return dto
}

func leaderboardRowToDTO(row leaderboard.Row) leaderboardRowDTO {
	return leaderboardRowDTO{
		Rank:         row.Rank,
		UserID:       row.UserID,
		TeamName:     row.TeamName,
		Username:     row.Username,
		Avatar:       row.Avatar,
		WeeklyPoints: row.WeeklyPoints,
		TotalPoints:  row.TotalPoints,
	}
}
