package gameweek

import (
	"errors"
	"time"
)

// ErrDeadlinePassed gates squad edits and submissions after the current
// gameweek locks.
var ErrDeadlinePassed = errors.New("gameweek deadline has passed")

// Gameweek is one scheduled scoring period.
type Gameweek struct {
	ID       int
	Start    time.Time
	Deadline time.Time
}

// Schedule is the season's ordered list of gameweeks.
type Schedule []Gameweek

// CurrentAt maps a wall-clock instant to the single current gameweek: the
// latest gameweek that has started, or the first one before the season
// opens. Call sites derive the current week through this one function
// instead of re-checking windows ad hoc.
func (s Schedule) CurrentAt(now time.Time) (Gameweek, bool) {
	if len(s) == 0 {
		return Gameweek{}, false
	}

	current := s[0]
	for _, gw := range s {
		if gw.Start.After(now) {
			break
		}
		current = gw
	}

	return current, true
}

// EditableAt reports whether edits are still accepted at the given instant,
// i.e. the current deadline has not passed.
func (s Schedule) EditableAt(now time.Time) error {
	current, ok := s.CurrentAt(now)
	if !ok {
		return ErrDeadlinePassed
	}
	if !now.Before(current.Deadline) {
		return ErrDeadlinePassed
	}

	return nil
}

// Generate builds a uniform schedule: count gameweeks of the given length
// starting at start, each locking deadlineOffset after it begins.
func Generate(start time.Time, count int, length, deadlineOffset time.Duration) Schedule {
	if count <= 0 || length <= 0 {
		return nil
	}
	if deadlineOffset <= 0 || deadlineOffset > length {
		deadlineOffset = length
	}

	out := make(Schedule, 0, count)
	for i := 0; i < count; i++ {
		begin := start.Add(time.Duration(i) * length)
		out = append(out, Gameweek{
			ID:       i + 1,
			Start:    begin,
			Deadline: begin.Add(deadlineOffset),
		})
	}

	return out
}
