package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
	"github.com/aquapolo/waterpolo-fantasy/internal/infrastructure/repository/memory"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/cache"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
)

func TestPlayerService_List_SortsByPointsThenName(t *testing.T) {
	t.Parallel()

	repo := memory.NewPlayerRepository()
	for _, p := range []player.Player{
		{ID: 1, Name: "Zoran", Position: player.PositionWing, Price: 5, Points: 10},
		{ID: 2, Name: "Aleksa", Position: player.PositionWing, Price: 5, Points: 10},
		{ID: 3, Name: "Marko", Position: player.PositionGoalkeeper, Price: 5, Points: 25},
	} {
		if err := repo.Upsert(t.Context(), p); err != nil {
			t.Fatalf("seed player: %v", err)
		}
	}

	service := NewPlayerService(repo, nil, logging.NewNop())

	players, err := service.List(t.Context())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	wantOrder := []int64{3, 2, 1}
	for i, want := range wantOrder {
		if players[i].ID != want {
			t.Fatalf("position %d: got=%d want=%d", i, players[i].ID, want)
		}
	}
}

func TestPlayerService_Upsert_PreservesPointsOnZero(t *testing.T) {
	t.Parallel()

	repo := memory.NewPlayerRepository()
	service := NewPlayerService(repo, nil, logging.NewNop())

	created, err := service.Upsert(t.Context(), player.Player{
		ID: 1, Name: "Marko", Position: player.PositionGoalkeeper, Price: 12.5, Points: 23,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Points != 23 {
		t.Fatalf("created points: got=%d want=23", created.Points)
	}

	// A price correction that sends zero points must not wipe the cached
	// scoring total.
	updated, err := service.Upsert(t.Context(), player.Player{
		ID: 1, Name: "Marko", Position: player.PositionGoalkeeper, Price: 13.0,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Points != 23 {
		t.Fatalf("updated points: got=%d want=23", updated.Points)
	}
	if updated.Price != 13.0 {
		t.Fatalf("updated price: got=%v want=13.0", updated.Price)
	}
}

func TestPlayerService_Upsert_Invalid(t *testing.T) {
	t.Parallel()

	service := NewPlayerService(memory.NewPlayerRepository(), nil, logging.NewNop())

	tests := []struct {
		name string
		p    player.Player
	}{
		{name: "missing id", p: player.Player{Name: "X", Position: player.PositionWing, Price: 5}},
		{name: "missing name", p: player.Player{ID: 1, Position: player.PositionWing, Price: 5}},
		{name: "bad position", p: player.Player{ID: 1, Name: "X", Position: "PG", Price: 5}},
		{name: "free player", p: player.Player{ID: 1, Name: "X", Position: player.PositionWing}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := service.Upsert(t.Context(), tc.p); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestPlayerService_Delete(t *testing.T) {
	t.Parallel()

	repo := memory.NewPlayerRepository()
	service := NewPlayerService(repo, nil, logging.NewNop())

	if _, err := service.Upsert(t.Context(), player.Player{
		ID: 1, Name: "Marko", Position: player.PositionGoalkeeper, Price: 12.5,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := service.Delete(t.Context(), 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.GetByID(t.Context(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := service.Delete(t.Context(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestPlayerService_Upsert_InvalidatesListCache(t *testing.T) {
	t.Parallel()

	repo := memory.NewPlayerRepository()
	store := cache.NewStore(time.Minute)
	service := NewPlayerService(repo, store, logging.NewNop())

	if _, err := service.Upsert(t.Context(), player.Player{
		ID: 1, Name: "Marko", Position: player.PositionGoalkeeper, Price: 12.5,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := service.List(t.Context())
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first list length: got=%d want=1", len(first))
	}

	if _, err := service.Upsert(t.Context(), player.Player{
		ID: 2, Name: "Luka", Position: player.PositionWing, Price: 13.0,
	}); err != nil {
		t.Fatalf("second create: %v", err)
	}

	second, err := service.List(t.Context())
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("cache not invalidated on upsert: got=%d want=2", len(second))
	}
}
