package player

import "fmt"

// Position represents waterpolo position categories used in fantasy rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "CD"
	PositionWing       Position = "W"
	PositionHoleSet    Position = "HS"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionWing:       {},
	PositionHoleSet:    {},
}

// Player is a selectable athlete in the league pool. Points is a cached
// total maintained by the scoring refresh, never written by users.
type Player struct {
	ID        int64
	Name      string
	Position  Position
	Price     float64
	Points    int
	TeamColor string
	ImageURL  string
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price <= 0 {
		return fmt.Errorf("player price must be greater than zero")
	}

	return nil
}

func (p Player) IsGoalkeeper() bool {
	return p.Position == PositionGoalkeeper
}
