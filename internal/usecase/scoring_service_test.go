package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/aquapolo/waterpolo-fantasy/internal/infrastructure/repository/memory"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
)

func newScoringEnv(t *testing.T) (*ScoringService, *memory.PlayerRepository, *memory.MatchRepository) {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	matchRepo := memory.NewMatchRepository()
	if err := memory.SeedPlayers(t.Context(), playerRepo); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	if err := memory.SeedMatches(t.Context(), matchRepo); err != nil {
		t.Fatalf("seed matches: %v", err)
	}

	service := NewScoringService(playerRepo, matchRepo, logging.NewNop())
	return service, playerRepo, matchRepo
}

func TestScoringService_PlayerPoints(t *testing.T) {
	t.Parallel()

	service, _, _ := newScoringEnv(t)

	// Marko keeps goal for the winning side in the seeded decided match:
	// 9 saves, MVP, the win bonus and a clean sheet.
	got, err := service.PlayerPoints(t.Context(), 1)
	if err != nil {
		t.Fatalf("player points: %v", err)
	}
	if got != 23 {
		t.Fatalf("keeper points: got=%d want=23", got)
	}

	// Petar scores once in the seeded draw and concedes under the
	// clean-sheet threshold.
	got, err = service.PlayerPoints(t.Context(), 3)
	if err != nil {
		t.Fatalf("player points: %v", err)
	}
	if got != 8 {
		t.Fatalf("defender points: got=%d want=8", got)
	}
}

func TestScoringService_PlayerPoints_UnknownPlayer(t *testing.T) {
	t.Parallel()

	service, _, _ := newScoringEnv(t)
	if _, err := service.PlayerPoints(t.Context(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScoringService_RefreshAllPoints_PersistsTotals(t *testing.T) {
	t.Parallel()

	service, playerRepo, _ := newScoringEnv(t)

	if err := service.RefreshAllPoints(t.Context()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	expectations := map[int64]int{
		1:  23, // Marko: saves, MVP, win, clean sheet
		3:  8,  // Petar: goal plus clean sheet in the draw
		2:  17, // Dusan: 11 saves plus clean sheet in the draw
		5:  11, // Luka: 3 goals, 1 assist, win
		8:  2,  // Vuk: 2 goals minus the loss
		10: 0,  // Filip: absent from the feed
	}
	for id, want := range expectations {
		p, exists, err := playerRepo.GetByID(t.Context(), id)
		if err != nil || !exists {
			t.Fatalf("player %d missing after refresh: exists=%t err=%v", id, exists, err)
		}
		if p.Points != want {
			t.Fatalf("player %d points: got=%d want=%d", id, p.Points, want)
		}
	}
}

func TestScoringService_RefreshAllPoints_ThrottledWithinInterval(t *testing.T) {
	t.Parallel()

	service, playerRepo, matchRepo := newScoringEnv(t)

	clock := testSeasonStart
	service.now = func() time.Time { return clock }

	if err := service.RefreshAllPoints(t.Context()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	// Zero out a cached total; a throttled run must leave it untouched.
	if err := memory.SeedMatches(t.Context(), matchRepo); err != nil {
		t.Fatalf("reseed matches: %v", err)
	}
	before, _, err := playerRepo.GetByID(t.Context(), 1)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	before.Points = 0
	if err := playerRepo.Upsert(t.Context(), before); err != nil {
		t.Fatalf("zero out player: %v", err)
	}

	clock = clock.Add(10 * time.Second)
	if err := service.RefreshAllPoints(t.Context()); err != nil {
		t.Fatalf("throttled refresh: %v", err)
	}
	p, _, err := playerRepo.GetByID(t.Context(), 1)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if p.Points != 0 {
		t.Fatalf("throttled refresh still recomputed: points=%d", p.Points)
	}

	// Past the interval the refresh runs again.
	clock = clock.Add(time.Minute)
	if err := service.RefreshAllPoints(t.Context()); err != nil {
		t.Fatalf("post-interval refresh: %v", err)
	}
	p, _, err = playerRepo.GetByID(t.Context(), 1)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if p.Points != 23 {
		t.Fatalf("post-interval refresh missing: points=%d", p.Points)
	}
}

func TestScoringService_ForceRefresh_BypassesThrottle(t *testing.T) {
	t.Parallel()

	service, playerRepo, _ := newScoringEnv(t)

	clock := testSeasonStart
	service.now = func() time.Time { return clock }

	if err := service.RefreshAllPoints(t.Context()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	p, _, err := playerRepo.GetByID(t.Context(), 1)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	p.Points = 0
	if err := playerRepo.Upsert(t.Context(), p); err != nil {
		t.Fatalf("zero out player: %v", err)
	}

	clock = clock.Add(time.Second)
	if err := service.ForceRefresh(t.Context()); err != nil {
		t.Fatalf("force refresh: %v", err)
	}

	p, _, err = playerRepo.GetByID(t.Context(), 1)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if p.Points != 23 {
		t.Fatalf("force refresh skipped: points=%d", p.Points)
	}
}
