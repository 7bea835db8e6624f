package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/chip"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/gameweek"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/leaderboard"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/squad"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/user"
	"github.com/aquapolo/waterpolo-fantasy/internal/infrastructure/repository/memory"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
)

var testSeasonStart = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func testGameweeks() gameweek.Schedule {
	return gameweek.Generate(testSeasonStart, 38, 7*24*time.Hour, 6*24*time.Hour)
}

type staticAvatarResolver struct {
	url string
	err error
}

func (r staticAvatarResolver) ResolveAvatar(context.Context, string) (string, error) {
	return r.url, r.err
}

type failingBoardRepo struct{}

func (failingBoardRepo) Append(context.Context, leaderboard.Entry) error {
	return fmt.Errorf("leaderboard store down")
}

func (failingBoardRepo) ListByGameweek(context.Context, int) ([]leaderboard.Entry, error) {
	return nil, fmt.Errorf("leaderboard store down")
}

type teamServiceEnv struct {
	service    *TeamService
	teamRepo   *memory.UserTeamRepository
	playerRepo *memory.PlayerRepository
	boardRepo  *memory.LeaderboardRepository
}

func newTeamServiceEnv(t *testing.T) teamServiceEnv {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	if err := memory.SeedPlayers(t.Context(), playerRepo); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	teamRepo := memory.NewUserTeamRepository()
	boardRepo := memory.NewLeaderboardRepository()

	service := NewTeamService(
		teamRepo,
		playerRepo,
		boardRepo,
		staticAvatarResolver{url: "https://cdn.example.com/avatars/marko.png"},
		testGameweeks(),
		logging.NewNop(),
	)
	service.now = func() time.Time { return testSeasonStart.Add(24 * time.Hour) }

	return teamServiceEnv{
		service:    service,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		boardRepo:  boardRepo,
	}
}

// fillLineup places a complete legal lineup through the service and flags
// the hole set starter as captain with the wing as vice.
func fillLineup(t *testing.T, env teamServiceEnv, userID string) {
	t.Helper()

	placements := []struct {
		slot     int
		playerID int64
	}{
		{0, 1}, {1, 3}, {2, 4}, {3, 5}, {4, 8},
		{5, 2}, {6, 6}, {7, 9},
	}
	for _, placement := range placements {
		if _, err := env.service.PlacePlayer(t.Context(), userID, placement.slot, placement.playerID); err != nil {
			t.Fatalf("place player %d in slot %d: %v", placement.playerID, placement.slot, err)
		}
	}
	if _, err := env.service.SetCaptain(t.Context(), userID, 4); err != nil {
		t.Fatalf("set captain: %v", err)
	}
	if _, err := env.service.SetViceCaptain(t.Context(), userID, 3); err != nil {
		t.Fatalf("set vice captain: %v", err)
	}
}

// setRegistryPoints overwrites the cached points of seeded players.
func setRegistryPoints(t *testing.T, env teamServiceEnv, points map[int64]int) {
	t.Helper()

	players, err := env.playerRepo.List(t.Context())
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	for _, p := range players {
		if value, ok := points[p.ID]; ok {
			p.Points = value
			if err := env.playerRepo.Upsert(t.Context(), p); err != nil {
				t.Fatalf("set points for player %d: %v", p.ID, err)
			}
		}
	}
}

func TestTeamService_GetTeam_CreatesDefaultOnFirstSignIn(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)

	team, err := env.service.GetTeam(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}

	if team.TeamName != "My Team" {
		t.Fatalf("default team name: got=%q", team.TeamName)
	}
	if team.LastGameweekSaved != 1 {
		t.Fatalf("last gameweek saved: got=%d want=1", team.LastGameweekSaved)
	}
	if team.Chips[chip.Wildcard].Remaining != 2 || team.Chips[chip.BenchBoost].Remaining != 1 {
		t.Fatalf("default chip allotment wrong: %+v", team.Chips)
	}
	if !team.Settings.Notifications {
		t.Fatalf("notifications must default on")
	}

	persisted, exists, err := env.teamRepo.Get(t.Context(), "user-1")
	if err != nil || !exists {
		t.Fatalf("default team not persisted: exists=%t err=%v", exists, err)
	}
	if persisted.TeamName != team.TeamName {
		t.Fatalf("persisted team diverges from returned one")
	}
}

func TestTeamService_GetTeam_BlankUserID(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	if _, err := env.service.GetTeam(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTeamService_SquadEdits_DeadlineGate(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	fillLineup(t, env, "user-1")

	// Move past the gameweek 1 deadline but stay inside the week.
	env.service.now = func() time.Time { return testSeasonStart.Add(6*24*time.Hour + time.Hour) }

	if _, err := env.service.SwapSlots(t.Context(), "user-1", 3, 6); !errors.Is(err, gameweek.ErrDeadlinePassed) {
		t.Fatalf("swap after deadline: got %v", err)
	}
	if _, err := env.service.PlacePlayer(t.Context(), "user-1", 6, 7); !errors.Is(err, gameweek.ErrDeadlinePassed) {
		t.Fatalf("place after deadline: got %v", err)
	}
	if _, err := env.service.ToggleChip(t.Context(), "user-1", chip.BenchBoost); !errors.Is(err, gameweek.ErrDeadlinePassed) {
		t.Fatalf("chip toggle after deadline: got %v", err)
	}
	if _, err := env.service.Submit(t.Context(), user.Principal{UserID: "user-1", Username: "marko"}); !errors.Is(err, gameweek.ErrDeadlinePassed) {
		t.Fatalf("submit after deadline: got %v", err)
	}

	// Profile updates stay open across the deadline.
	updated, err := env.service.UpdateProfile(t.Context(), UpdateTeamProfileInput{
		UserID:   "user-1",
		TeamName: "Deadline Dodgers",
	})
	if err != nil {
		t.Fatalf("profile update after deadline: %v", err)
	}
	if updated.TeamName != "Deadline Dodgers" {
		t.Fatalf("team name not updated: %q", updated.TeamName)
	}
}

func TestTeamService_PlacePlayer_UnknownPlayer(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	if _, err := env.service.PlacePlayer(t.Context(), "user-1", 1, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamService_Submit_ConsumesChipOnce(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	fillLineup(t, env, "user-1")
	setRegistryPoints(t, env, map[int64]int{1: 4, 3: 3, 4: 2, 5: 6, 8: 7, 2: 5, 6: 1, 9: 2})

	if _, err := env.service.ToggleChip(t.Context(), "user-1", chip.TripleCaptain); err != nil {
		t.Fatalf("toggle chip: %v", err)
	}

	principal := user.Principal{UserID: "user-1", Username: "marko"}
	team, err := env.service.Submit(t.Context(), principal)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if !team.IsSubmitted {
		t.Fatalf("team not flagged submitted")
	}
	if team.Chips[chip.TripleCaptain].Remaining != 0 {
		t.Fatalf("chip not consumed: remaining=%d", team.Chips[chip.TripleCaptain].Remaining)
	}
	if got := team.Chips[chip.TripleCaptain].UsedGameweeks; len(got) != 1 || got[0] != 1 {
		t.Fatalf("chip use not recorded for gameweek 1: %v", got)
	}
	if team.ActiveChip != chip.TripleCaptain {
		t.Fatalf("active chip must survive submission for the running week")
	}

	entries, err := env.boardRepo.ListByGameweek(t.Context(), 1)
	if err != nil {
		t.Fatalf("list leaderboard: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("leaderboard entries: got=%d want=1", len(entries))
	}
	// Starters 4+3+2+6 plus the tripled captain's 7.
	if entries[0].Points != 36 {
		t.Fatalf("snapshot points: got=%d want=36", entries[0].Points)
	}
	if entries[0].Avatar != "https://cdn.example.com/avatars/marko.png" {
		t.Fatalf("avatar not resolved into entry: %q", entries[0].Avatar)
	}
	if entries[0].Username != "marko" {
		t.Fatalf("username not snapshotted: %q", entries[0].Username)
	}

	// Re-submitting the same week must not consume a second use.
	again, err := env.service.Submit(t.Context(), principal)
	if err != nil {
		t.Fatalf("re-submit: %v", err)
	}
	if again.Chips[chip.TripleCaptain].Remaining != 0 || len(again.Chips[chip.TripleCaptain].UsedGameweeks) != 1 {
		t.Fatalf("re-submission double-consumed the chip: %+v", again.Chips[chip.TripleCaptain])
	}

	entries, err = env.boardRepo.ListByGameweek(t.Context(), 1)
	if err != nil {
		t.Fatalf("list leaderboard after re-submit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("re-submission must replace the entry, got %d entries", len(entries))
	}
}

func TestTeamService_Submit_ConsumesChipAddedAfterSubmission(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	fillLineup(t, env, "user-1")
	setRegistryPoints(t, env, map[int64]int{1: 4, 3: 3, 4: 2, 5: 6, 8: 7, 2: 5, 6: 1, 9: 2})

	principal := user.Principal{UserID: "user-1", Username: "marko"}
	if _, err := env.service.Submit(t.Context(), principal); err != nil {
		t.Fatalf("chip-less submit: %v", err)
	}

	if _, err := env.service.ToggleChip(t.Context(), "user-1", chip.TripleCaptain); err != nil {
		t.Fatalf("toggle chip after submission: %v", err)
	}

	team, err := env.service.Submit(t.Context(), principal)
	if err != nil {
		t.Fatalf("re-submit with chip: %v", err)
	}

	if team.Chips[chip.TripleCaptain].Remaining != 0 {
		t.Fatalf("chip added on re-submission not consumed: remaining=%d", team.Chips[chip.TripleCaptain].Remaining)
	}
	if got := team.Chips[chip.TripleCaptain].UsedGameweeks; len(got) != 1 || got[0] != 1 {
		t.Fatalf("chip use not recorded for gameweek 1: %v", got)
	}

	entries, err := env.boardRepo.ListByGameweek(t.Context(), 1)
	if err != nil {
		t.Fatalf("list leaderboard: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("leaderboard entries: got=%d want=1", len(entries))
	}
	// Starters 4+3+2+6 plus the tripled captain's 7.
	if entries[0].Points != 36 {
		t.Fatalf("snapshot points: got=%d want=36", entries[0].Points)
	}
}

func TestTeamService_ToggleChip_LockedAfterChipSubmission(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	fillLineup(t, env, "user-1")

	if _, err := env.service.ToggleChip(t.Context(), "user-1", chip.BenchBoost); err != nil {
		t.Fatalf("toggle chip: %v", err)
	}
	if _, err := env.service.Submit(t.Context(), user.Principal{UserID: "user-1", Username: "marko"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := env.service.ToggleChip(t.Context(), "user-1", chip.BenchBoost); !errors.Is(err, chip.ErrChipLocked) {
		t.Fatalf("deselect of a played chip: expected ErrChipLocked, got %v", err)
	}
	if _, err := env.service.ToggleChip(t.Context(), "user-1", chip.Wildcard); !errors.Is(err, chip.ErrChipLocked) {
		t.Fatalf("replace of a played chip: expected ErrChipLocked, got %v", err)
	}

	team, err := env.service.GetTeam(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if team.ActiveChip != chip.BenchBoost {
		t.Fatalf("played chip must stay active for the week, got %q", team.ActiveChip)
	}
	if team.Chips[chip.BenchBoost].Remaining != 0 || team.Chips[chip.Wildcard].Remaining != 2 {
		t.Fatalf("locked toggles must not touch inventory: %+v", team.Chips)
	}
}

func TestTeamService_Submit_InvalidLineup(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	fillLineup(t, env, "user-1")
	if _, err := env.service.RemovePlayer(t.Context(), "user-1", 2); err != nil {
		t.Fatalf("remove starter: %v", err)
	}

	_, err := env.service.Submit(t.Context(), user.Principal{UserID: "user-1", Username: "marko"})
	if !errors.Is(err, squad.ErrIncompleteLineup) {
		t.Fatalf("expected ErrIncompleteLineup, got %v", err)
	}
}

func TestTeamService_Submit_LeaderboardFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	fillLineup(t, env, "user-1")

	env.service.boardRepo = failingBoardRepo{}

	team, err := env.service.Submit(t.Context(), user.Principal{UserID: "user-1", Username: "marko"})
	if err != nil {
		t.Fatalf("submit must survive a leaderboard outage: %v", err)
	}
	if !team.IsSubmitted {
		t.Fatalf("submission state lost on leaderboard outage")
	}
}

func TestTeamService_GetTeam_RolloverBanksSubmittedPoints(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	fillLineup(t, env, "user-1")
	setRegistryPoints(t, env, map[int64]int{1: 4, 3: 3, 4: 2, 5: 6, 8: 7, 2: 5, 6: 1, 9: 2})

	if _, err := env.service.Submit(t.Context(), user.Principal{UserID: "user-1", Username: "marko"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Next week: starters 4+3+2+6 plus the doubled captain's 7 = 29.
	env.service.now = func() time.Time { return testSeasonStart.Add(8 * 24 * time.Hour) }

	team, err := env.service.GetTeam(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("get team after rollover: %v", err)
	}
	if team.TotalPoints != 29 {
		t.Fatalf("banked total: got=%d want=29", team.TotalPoints)
	}
	if team.IsSubmitted {
		t.Fatalf("submission flag must reset on rollover")
	}
	if team.LastGameweekSaved != 2 {
		t.Fatalf("last gameweek saved: got=%d want=2", team.LastGameweekSaved)
	}
}

func TestTeamService_GetTeam_RolloverClearsUnusedChipWithoutConsuming(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	fillLineup(t, env, "user-1")

	if _, err := env.service.ToggleChip(t.Context(), "user-1", chip.BenchBoost); err != nil {
		t.Fatalf("toggle chip: %v", err)
	}

	env.service.now = func() time.Time { return testSeasonStart.Add(8 * 24 * time.Hour) }

	team, err := env.service.GetTeam(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("get team after rollover: %v", err)
	}
	if team.ActiveChip != chip.None {
		t.Fatalf("active chip must clear on rollover, got %q", team.ActiveChip)
	}
	if team.Chips[chip.BenchBoost].Remaining != 1 {
		t.Fatalf("unsubmitted chip selection must not consume a use")
	}
	if team.TotalPoints != 0 {
		t.Fatalf("unsubmitted week must bank nothing, got %d", team.TotalPoints)
	}
}

func TestTeamService_ToggleChip_Exhausted(t *testing.T) {
	t.Parallel()

	env := newTeamServiceEnv(t)
	fillLineup(t, env, "user-1")
	setRegistryPoints(t, env, map[int64]int{1: 1})

	principal := user.Principal{UserID: "user-1", Username: "marko"}

	// Burn the free hit in week 1, then try to reselect it in week 2.
	if _, err := env.service.ToggleChip(t.Context(), "user-1", chip.FreeHit); err != nil {
		t.Fatalf("toggle chip: %v", err)
	}
	if _, err := env.service.Submit(t.Context(), principal); err != nil {
		t.Fatalf("submit: %v", err)
	}

	env.service.now = func() time.Time { return testSeasonStart.Add(8 * 24 * time.Hour) }

	_, err := env.service.ToggleChip(t.Context(), "user-1", chip.FreeHit)
	if !errors.Is(err, chip.ErrChipUnavailable) {
		t.Fatalf("expected ErrChipUnavailable, got %v", err)
	}
}
