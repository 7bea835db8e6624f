package chip

import (
	"errors"
	"fmt"
)

// Kind is a limited-use weekly modifier.
type Kind string

const (
	// None marks that no chip is selected for the week.
	None          Kind = ""
	BenchBoost    Kind = "benchBoost"
	TripleCaptain Kind = "tripleCaptain"
	FreeHit       Kind = "freeHit"
	Wildcard      Kind = "wildcard"
)

var AllKinds = []Kind{BenchBoost, TripleCaptain, FreeHit, Wildcard}

var (
	ErrUnknownChip     = errors.New("unknown chip kind")
	ErrChipUnavailable = errors.New("no remaining uses for chip")
	ErrChipLocked      = errors.New("chip already played this gameweek")
)

// State tracks one chip kind for one user.
type State struct {
	Remaining     int
	UsedGameweeks []int
}

// Inventory is the per-user chip allotment. Created once on first sign-in
// and never replenished.
type Inventory map[Kind]State

// NewInventory returns the fixed starting allotment.
func NewInventory() Inventory {
	return Inventory{
		BenchBoost:    {Remaining: 1},
		TripleCaptain: {Remaining: 1},
		FreeHit:       {Remaining: 1},
		Wildcard:      {Remaining: 2},
	}
}

func (inv Inventory) Available(kind Kind) bool {
	return inv[kind].Remaining > 0
}

// UsedIn reports whether the chip was consumed for the given gameweek.
func (inv Inventory) UsedIn(kind Kind, gameweek int) bool {
	for _, week := range inv[kind].UsedGameweeks {
		if week == gameweek {
			return true
		}
	}

	return false
}

// Clone copies the inventory including the used-gameweek lists.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for kind, state := range inv {
		state.UsedGameweeks = append([]int(nil), state.UsedGameweeks...)
		out[kind] = state
	}

	return out
}

// Toggle resolves the next active chip selection for the given gameweek.
// Selecting the currently active chip deselects it; selecting another
// replaces it (chips are mutually exclusive). Toggling never touches the
// inventory counts. Once the active chip has been consumed for this gameweek
// the selection is locked until rollover.
func (inv Inventory) Toggle(active, requested Kind, gameweek int) (Kind, error) {
	if !isKnown(requested) {
		return active, fmt.Errorf("%w: %s", ErrUnknownChip, requested)
	}
	if active != None && inv.UsedIn(active, gameweek) {
		return active, fmt.Errorf("%w: %s", ErrChipLocked, active)
	}
	if requested == active {
		return None, nil
	}
	if !inv.Available(requested) {
		return active, fmt.Errorf("%w: %s", ErrChipUnavailable, requested)
	}

	return requested, nil
}

// Consume spends one use of the chip for the given gameweek. It is called
// exactly once per successful submission that uses the chip.
func (inv Inventory) Consume(kind Kind, gameweek int) (Inventory, error) {
	if !isKnown(kind) {
		return inv, fmt.Errorf("%w: %s", ErrUnknownChip, kind)
	}
	state, ok := inv[kind]
	if !ok || state.Remaining <= 0 {
		return inv, fmt.Errorf("%w: %s", ErrChipUnavailable, kind)
	}

	next := inv.Clone()
	state = next[kind]
	state.Remaining--
	state.UsedGameweeks = append(state.UsedGameweeks, gameweek)
	next[kind] = state

	return next, nil
}

// CaptainMultiplier is the captain points factor for the active chip.
func CaptainMultiplier(active Kind) int {
	if active == TripleCaptain {
		return 3
	}

	return 2
}

// IncludesBench reports whether bench slots score under the active chip.
func IncludesBench(active Kind) bool {
	return active == BenchBoost
}

func isKnown(kind Kind) bool {
	for _, known := range AllKinds {
		if kind == known {
			return true
		}
	}

	return false
}
