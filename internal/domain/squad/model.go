package squad

import (
	"math"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
)

// SlotKind separates scoring starters from the bench.
type SlotKind string

const (
	SlotStarter SlotKind = "starter"
	SlotBench   SlotKind = "bench"
)

const (
	// SlotCount is the fixed roster size. Slot meanings are positional:
	// 0 starting GK, 1-4 starting outfield, 5 bench GK, 6-7 bench outfield.
	SlotCount = 8

	SlotStartingGoalkeeper = 0
	SlotBenchGoalkeeper    = 5

	// BudgetCap is the total price allowance across all occupied slots.
	BudgetCap = 100.0
	// BudgetTolerance absorbs floating rounding on price sums.
	BudgetTolerance = 0.05
)

// Slot is one roster position. Player is nil while the slot is unfilled.
type Slot struct {
	Index         int
	Kind          SlotKind
	Player        *player.Player
	IsCaptain     bool
	IsViceCaptain bool
}

// Squad is the fixed 8-slot roster of one user team.
type Squad struct {
	Slots [SlotCount]Slot
}

// New returns an empty squad with the fixed slot layout.
func New() Squad {
	var s Squad
	for i := range s.Slots {
		kind := SlotStarter
		if i >= SlotBenchGoalkeeper {
			kind = SlotBench
		}
		s.Slots[i] = Slot{Index: i, Kind: kind}
	}

	return s
}

func isGoalkeeperSlot(index int) bool {
	return index == SlotStartingGoalkeeper || index == SlotBenchGoalkeeper
}

// SpentBudget sums the prices of every occupied slot, bench included.
func (s Squad) SpentBudget() float64 {
	total := 0.0
	for _, slot := range s.Slots {
		if slot.Player != nil {
			total += slot.Player.Price
		}
	}

	return total
}

// RemainingBudget is the cap minus the spent budget. It can go marginally
// negative within BudgetTolerance due to rounding.
func (s Squad) RemainingBudget() float64 {
	return BudgetCap - s.SpentBudget()
}

// Occupies reports whether the player already fills any slot, optionally
// excluding one index (the slot being replaced).
func (s Squad) Occupies(playerID int64, excludeIndex int) bool {
	for _, slot := range s.Slots {
		if slot.Index == excludeIndex {
			continue
		}
		if slot.Player != nil && slot.Player.ID == playerID {
			return true
		}
	}

	return false
}

func (s Squad) starterPositionCount(pos player.Position) int {
	count := 0
	for _, slot := range s.Slots {
		if slot.Kind != SlotStarter || slot.Player == nil {
			continue
		}
		if slot.Player.Position == pos {
			count++
		}
	}

	return count
}

// CaptainSlot returns the index of the captain slot, or -1.
func (s Squad) CaptainSlot() int {
	for _, slot := range s.Slots {
		if slot.IsCaptain {
			return slot.Index
		}
	}

	return -1
}

// ViceCaptainSlot returns the index of the vice-captain slot, or -1.
func (s Squad) ViceCaptainSlot() int {
	for _, slot := range s.Slots {
		if slot.IsViceCaptain {
			return slot.Index
		}
	}

	return -1
}

func priceExceeds(price, allowance float64) bool {
	return price > allowance+BudgetTolerance && !almostEqual(price, allowance+BudgetTolerance)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
