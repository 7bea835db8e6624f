package userteam

import (
	"fmt"
	"strings"
	"time"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/chip"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/squad"
)

// Settings holds per-user display preferences stored with the team document.
type Settings struct {
	Notifications bool
	PublicProfile bool
}

// Team is the persistent per-user document: squad, chip inventory and
// submission state. It is created with defaults on first sign-in, mutated by
// every validated edit, and overwritten whole (last write wins).
type Team struct {
	UserID            string
	TeamName          string
	LogoURL           string
	Squad             squad.Squad
	Settings          Settings
	Chips             chip.Inventory
	ActiveChip        chip.Kind
	IsSubmitted       bool
	LastGameweekSaved int
	TotalPoints       int
	UpdatedAt         time.Time
}

// New returns the default document created on first sign-in.
func New(userID string) Team {
	return Team{
		UserID:   userID,
		TeamName: "My Team",
		Squad:    squad.New(),
		Settings: Settings{Notifications: true},
		Chips:    chip.NewInventory(),
	}
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(t.TeamName) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
