package squad

import (
	"errors"
	"fmt"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
)

var (
	ErrSlotIndex          = errors.New("slot index out of range")
	ErrEmptySlot          = errors.New("slot is empty")
	ErrInvalidPosition    = errors.New("goalkeeper slot requires a goalkeeper")
	ErrDuplicatePlayer    = errors.New("player already occupies a squad slot")
	ErrBudgetExceeded     = errors.New("budget cap exceeded")
	ErrIncompleteLineup   = errors.New("every starter slot must be filled")
	ErrMissingCaptain     = errors.New("captain is not set")
	ErrMissingViceCaptain = errors.New("vice captain is not set")
	ErrSameCaptainVice    = errors.New("captain and vice captain must be different slots")
)

// FormationNeed identifies which formation minimum a swap would break.
type FormationNeed string

const (
	NeedDefender FormationNeed = "defender"
	NeedAttacker FormationNeed = "attacker"
)

// FormationError reports a starter-formation minimum breached by a swap.
type FormationError struct {
	Need FormationNeed
}

func (e *FormationError) Error() string {
	return fmt.Sprintf("formation requires at least one %s among starters", e.Need)
}

// Swap exchanges the occupants of two slots, carrying the player and both
// captaincy flags symmetrically. Checks run in a fixed order: goalkeeper-slot
// position first, starter formation second, and only then the exchange.
// Formation is re-validated only when both endpoints are occupied; on any
// rejection the receiver is returned unchanged.
func (s Squad) Swap(a, b int) (Squad, error) {
	if a < 0 || a >= SlotCount || b < 0 || b >= SlotCount {
		return s, ErrSlotIndex
	}
	if a == b {
		return s, nil
	}

	arriving := map[int]*player.Player{a: s.Slots[b].Player, b: s.Slots[a].Player}
	for index, p := range arriving {
		if isGoalkeeperSlot(index) && p != nil && !p.IsGoalkeeper() {
			return s, ErrInvalidPosition
		}
	}

	next := s
	next.Slots[a].Player, next.Slots[b].Player = s.Slots[b].Player, s.Slots[a].Player
	next.Slots[a].IsCaptain, next.Slots[b].IsCaptain = s.Slots[b].IsCaptain, s.Slots[a].IsCaptain
	next.Slots[a].IsViceCaptain, next.Slots[b].IsViceCaptain = s.Slots[b].IsViceCaptain, s.Slots[a].IsViceCaptain

	if s.Slots[a].Player != nil && s.Slots[b].Player != nil {
		if next.starterPositionCount(player.PositionDefender) == 0 {
			return s, &FormationError{Need: NeedDefender}
		}
		if next.starterPositionCount(player.PositionHoleSet) == 0 {
			return s, &FormationError{Need: NeedAttacker}
		}
	}

	return next, nil
}

// Place puts a market player into a slot, replacing any current occupant.
// The replaced occupant's price is credited back before the budget check,
// and the slot's captaincy flags are cleared on success.
func (s Squad) Place(index int, p player.Player) (Squad, error) {
	if index < 0 || index >= SlotCount {
		return s, ErrSlotIndex
	}
	if isGoalkeeperSlot(index) && !p.IsGoalkeeper() {
		return s, ErrInvalidPosition
	}
	if s.Occupies(p.ID, index) {
		return s, ErrDuplicatePlayer
	}

	allowance := s.RemainingBudget()
	if replaced := s.Slots[index].Player; replaced != nil {
		allowance += replaced.Price
	}
	if priceExceeds(p.Price, allowance) {
		return s, ErrBudgetExceeded
	}

	next := s
	occupant := p
	next.Slots[index].Player = &occupant
	next.Slots[index].IsCaptain = false
	next.Slots[index].IsViceCaptain = false

	return next, nil
}

// Remove clears a slot, dropping its captaincy flags with the occupant.
func (s Squad) Remove(index int) (Squad, error) {
	if index < 0 || index >= SlotCount {
		return s, ErrSlotIndex
	}

	next := s
	next.Slots[index].Player = nil
	next.Slots[index].IsCaptain = false
	next.Slots[index].IsViceCaptain = false

	return next, nil
}

// MakeCaptain flags a slot as captain. Any previous captain flag is cleared,
// and a vice flag on the same slot is dropped so the two never coincide.
func (s Squad) MakeCaptain(index int) (Squad, error) {
	if index < 0 || index >= SlotCount {
		return s, ErrSlotIndex
	}
	if s.Slots[index].Player == nil {
		return s, ErrEmptySlot
	}

	next := s
	for i := range next.Slots {
		next.Slots[i].IsCaptain = false
	}
	next.Slots[index].IsCaptain = true
	next.Slots[index].IsViceCaptain = false

	return next, nil
}

// MakeViceCaptain mirrors MakeCaptain for the vice flag.
func (s Squad) MakeViceCaptain(index int) (Squad, error) {
	if index < 0 || index >= SlotCount {
		return s, ErrSlotIndex
	}
	if s.Slots[index].Player == nil {
		return s, ErrEmptySlot
	}

	next := s
	for i := range next.Slots {
		next.Slots[i].IsViceCaptain = false
	}
	next.Slots[index].IsViceCaptain = true
	next.Slots[index].IsCaptain = false

	return next, nil
}

// ValidateSubmission applies the stricter lock-in rules: a full starting
// lineup, exactly one captain and one distinct vice captain. Nothing is
// auto-corrected; the first failed condition is reported.
func (s Squad) ValidateSubmission() error {
	for _, slot := range s.Slots {
		if slot.Kind == SlotStarter && slot.Player == nil {
			return ErrIncompleteLineup
		}
	}

	captain := s.CaptainSlot()
	if captain < 0 {
		return ErrMissingCaptain
	}
	vice := s.ViceCaptainSlot()
	if vice < 0 {
		return ErrMissingViceCaptain
	}
	if captain == vice {
		return ErrSameCaptainVice
	}

	return nil
}
