package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/chip"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/gameweek"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/leaderboard"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/squad"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/user"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/userteam"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
)

// AvatarResolver chains the external username->id and id->avatar lookups.
// Failures surface as errors here and are treated as "no avatar" by callers.
type AvatarResolver interface {
	ResolveAvatar(ctx context.Context, username string) (string, error)
}

// UpdateTeamProfileInput carries the editable non-squad fields.
type UpdateTeamProfileInput struct {
	UserID   string
	TeamName string
	LogoURL  string
	Settings *userteam.Settings
}

// TeamService applies validated mutations to the per-user team document.
// Every mutation is computed against a loaded snapshot and persisted whole;
// there is no server-side locking (last writer wins per document).
type TeamService struct {
	teamRepo   userteam.Repository
	playerRepo player.Repository
	boardRepo  leaderboard.Repository
	avatars    AvatarResolver
	schedule   gameweek.Schedule
	logger     *logging.Logger
	now        func() time.Time
}

func NewTeamService(
	teamRepo userteam.Repository,
	playerRepo player.Repository,
	boardRepo leaderboard.Repository,
	avatars AvatarResolver,
	schedule gameweek.Schedule,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		boardRepo:  boardRepo,
		avatars:    avatars,
		schedule:   schedule,
		logger:     logger,
		now:        time.Now,
	}
}

// GetTeam loads the user's team document, creating the default one on first
// sign-in and applying the gameweek rollover transition when a new current
// gameweek is detected.
func (s *TeamService) GetTeam(ctx context.Context, userID string) (userteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam")
	defer span.End()

	return s.loadTeam(ctx, userID)
}

func (s *TeamService) loadTeam(ctx context.Context, userID string) (userteam.Team, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return userteam.Team{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	team, exists, err := s.teamRepo.Get(ctx, userID)
	if err != nil {
		return userteam.Team{}, fmt.Errorf("get user team: %w", err)
	}
	if !exists {
		team = userteam.New(userID)
		if current, ok := s.schedule.CurrentAt(now); ok {
			team.LastGameweekSaved = current.ID
		}
		team.UpdatedAt = now
		if err := s.teamRepo.Upsert(ctx, team); err != nil {
			return userteam.Team{}, fmt.Errorf("create user team: %w", err)
		}
		return team, nil
	}

	rolled, changed, err := s.rollover(ctx, team, now)
	if err != nil {
		return userteam.Team{}, err
	}
	if changed {
		rolled.UpdatedAt = now
		if err := s.teamRepo.Upsert(ctx, rolled); err != nil {
			return userteam.Team{}, fmt.Errorf("persist gameweek rollover: %w", err)
		}
	}

	return rolled, nil
}

// rollover clears the active chip selection (without consuming it) and resets
// the submission flag when the current gameweek moved past the last saved
// one. A submitted week's live points are banked into the historical total
// before the reset.
func (s *TeamService) rollover(ctx context.Context, team userteam.Team, now time.Time) (userteam.Team, bool, error) {
	current, ok := s.schedule.CurrentAt(now)
	if !ok || current.ID <= team.LastGameweekSaved {
		return team, false, nil
	}

	if team.IsSubmitted {
		points, err := s.weeklyPoints(ctx, team)
		if err != nil {
			return userteam.Team{}, false, err
		}
		team.TotalPoints += points
	}

	team.ActiveChip = chip.None
	team.IsSubmitted = false
	team.LastGameweekSaved = current.ID

	s.logger.InfoContext(ctx, "gameweek rollover applied",
		"user_id", team.UserID,
		"gameweek", current.ID,
	)

	return team, true, nil
}

// SwapSlots exchanges two roster slots.
func (s *TeamService) SwapSlots(ctx context.Context, userID string, a, b int) (userteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SwapSlots")
	defer span.End()

	return s.mutateSquad(ctx, userID, func(current squad.Squad) (squad.Squad, error) {
		return current.Swap(a, b)
	})
}

// PlacePlayer puts a registry player into a slot from the market.
func (s *TeamService) PlacePlayer(ctx context.Context, userID string, slot int, playerID int64) (userteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.PlacePlayer")
	defer span.End()

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return userteam.Team{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return userteam.Team{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	return s.mutateSquad(ctx, userID, func(current squad.Squad) (squad.Squad, error) {
		return current.Place(slot, p)
	})
}

// RemovePlayer clears a slot.
func (s *TeamService) RemovePlayer(ctx context.Context, userID string, slot int) (userteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RemovePlayer")
	defer span.End()

	return s.mutateSquad(ctx, userID, func(current squad.Squad) (squad.Squad, error) {
		return current.Remove(slot)
	})
}

// SetCaptain flags a slot as captain.
func (s *TeamService) SetCaptain(ctx context.Context, userID string, slot int) (userteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SetCaptain")
	defer span.End()

	return s.mutateSquad(ctx, userID, func(current squad.Squad) (squad.Squad, error) {
		return current.MakeCaptain(slot)
	})
}

// SetViceCaptain flags a slot as vice captain.
func (s *TeamService) SetViceCaptain(ctx context.Context, userID string, slot int) (userteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SetViceCaptain")
	defer span.End()

	return s.mutateSquad(ctx, userID, func(current squad.Squad) (squad.Squad, error) {
		return current.MakeViceCaptain(slot)
	})
}

func (s *TeamService) mutateSquad(ctx context.Context, userID string, mutate func(squad.Squad) (squad.Squad, error)) (userteam.Team, error) {
	team, err := s.loadTeam(ctx, userID)
	if err != nil {
		return userteam.Team{}, err
	}
	if err := s.schedule.EditableAt(s.now().UTC()); err != nil {
		return userteam.Team{}, err
	}

	next, err := mutate(team.Squad)
	if err != nil {
		return userteam.Team{}, err
	}

	team.Squad = next
	team.UpdatedAt = s.now().UTC()
	if err := s.teamRepo.Upsert(ctx, team); err != nil {
		return userteam.Team{}, fmt.Errorf("persist squad mutation: %w", err)
	}

	return team, nil
}

// ToggleChip selects or deselects the active chip for the week. Selection
// never consumes inventory; consumption happens at submission.
func (s *TeamService) ToggleChip(ctx context.Context, userID string, kind chip.Kind) (userteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ToggleChip")
	defer span.End()

	team, err := s.loadTeam(ctx, userID)
	if err != nil {
		return userteam.Team{}, err
	}
	now := s.now().UTC()
	if err := s.schedule.EditableAt(now); err != nil {
		return userteam.Team{}, err
	}
	current, ok := s.schedule.CurrentAt(now)
	if !ok {
		return userteam.Team{}, gameweek.ErrDeadlinePassed
	}

	next, err := team.Chips.Toggle(team.ActiveChip, kind, current.ID)
	if err != nil {
		return userteam.Team{}, err
	}

	team.ActiveChip = next
	team.UpdatedAt = s.now().UTC()
	if err := s.teamRepo.Upsert(ctx, team); err != nil {
		return userteam.Team{}, fmt.Errorf("persist chip toggle: %w", err)
	}

	return team, nil
}

// UpdateProfile saves the non-squad fields (name, logo, settings). These are
// not gated by the gameweek deadline.
func (s *TeamService) UpdateProfile(ctx context.Context, input UpdateTeamProfileInput) (userteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UpdateProfile")
	defer span.End()

	team, err := s.loadTeam(ctx, input.UserID)
	if err != nil {
		return userteam.Team{}, err
	}

	if name := strings.TrimSpace(input.TeamName); name != "" {
		team.TeamName = name
	}
	if logo := strings.TrimSpace(input.LogoURL); logo != "" {
		team.LogoURL = logo
	}
	if input.Settings != nil {
		team.Settings = *input.Settings
	}

	if err := team.Validate(); err != nil {
		return userteam.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	team.UpdatedAt = s.now().UTC()
	if err := s.teamRepo.Upsert(ctx, team); err != nil {
		return userteam.Team{}, fmt.Errorf("persist team profile: %w", err)
	}

	return team, nil
}

// Submit locks the lineup in for the current gameweek: submission rules,
// chip consumption, then the document write. The leaderboard append that
// follows is best-effort; its failure is logged and swallowed so the
// authoritative team state never rolls back.
func (s *TeamService) Submit(ctx context.Context, principal user.Principal) (userteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Submit")
	defer span.End()

	team, err := s.loadTeam(ctx, principal.UserID)
	if err != nil {
		return userteam.Team{}, err
	}

	now := s.now().UTC()
	if err := s.schedule.EditableAt(now); err != nil {
		return userteam.Team{}, err
	}
	current, ok := s.schedule.CurrentAt(now)
	if !ok {
		return userteam.Team{}, gameweek.ErrDeadlinePassed
	}

	if err := team.Squad.ValidateSubmission(); err != nil {
		return userteam.Team{}, err
	}

	if team.ActiveChip != chip.None && !team.Chips.UsedIn(team.ActiveChip, current.ID) {
		consumed, err := team.Chips.Consume(team.ActiveChip, current.ID)
		if err != nil {
			return userteam.Team{}, err
		}
		team.Chips = consumed
	}

	team.IsSubmitted = true
	team.LastGameweekSaved = current.ID
	team.UpdatedAt = now
	if err := s.teamRepo.Upsert(ctx, team); err != nil {
		return userteam.Team{}, fmt.Errorf("persist submission: %w", err)
	}

	s.appendLeaderboardEntry(ctx, principal, team, current.ID, now)

	return team, nil
}

func (s *TeamService) appendLeaderboardEntry(ctx context.Context, principal user.Principal, team userteam.Team, gameweekID int, now time.Time) {
	if s.boardRepo == nil {
		return
	}

	points, err := s.weeklyPoints(ctx, team)
	if err != nil {
		s.logger.ErrorContext(ctx, "leaderboard points computation failed",
			"user_id", team.UserID,
			"gameweek", gameweekID,
			"error", err,
		)
		return
	}

	avatar := ""
	if s.avatars != nil && principal.Username != "" {
		if url, err := s.avatars.ResolveAvatar(ctx, principal.Username); err == nil {
			avatar = url
		}
	}

	entry := leaderboard.Entry{
		Gameweek:   gameweekID,
		UserID:     team.UserID,
		Username:   principal.Username,
		TeamName:   team.TeamName,
		Avatar:     avatar,
		Points:     points,
		RecordedAt: now,
	}
	if err := s.boardRepo.Append(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "leaderboard append failed",
			"user_id", team.UserID,
			"gameweek", gameweekID,
			"error", err,
		)
	}
}

func (s *TeamService) weeklyPoints(ctx context.Context, team userteam.Team) (int, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list players for weekly points: %w", err)
	}

	pointsByID := make(map[int64]int, len(players))
	for _, p := range players {
		pointsByID[p.ID] = p.Points
	}

	return teamWeeklyPoints(team, pointsByID), nil
}

// teamWeeklyPoints projects one team's gameweek total from live registry
// points: starters always count, bench only under benchBoost, and the
// captain slot is doubled (tripled with tripleCaptain). The vice captain is
// informational and carries no multiplier.
func teamWeeklyPoints(team userteam.Team, pointsByID map[int64]int) int {
	multiplier := chip.CaptainMultiplier(team.ActiveChip)
	includeBench := chip.IncludesBench(team.ActiveChip)

	total := 0
	for _, slot := range team.Squad.Slots {
		if slot.Player == nil {
			continue
		}
		if slot.Kind == squad.SlotBench && !includeBench {
			continue
		}

		points := pointsByID[slot.Player.ID]
		if slot.IsCaptain {
			points *= multiplier
		}
		total += points
	}

	return total
}
