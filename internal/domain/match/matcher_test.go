package match

import "testing"

func TestFindParticipant_Precedence(t *testing.T) {
	t.Parallel()

	rec := Record{
		ID: "m1",
		Players: map[string]ParticipantStats{
			"marko":           {Goals: 1},
			"super-marko-77":  {Goals: 2},
			"entry-42":        {Username: "Marko", Goals: 3},
			"unrelated-entry": {Goals: 9},
		},
	}

	t.Run("exact key wins over username and substring", func(t *testing.T) {
		t.Parallel()

		stats, ok := FindParticipant(rec, "Marko")
		if !ok {
			t.Fatalf("expected a participant match")
		}
		if stats.Goals != 1 {
			t.Fatalf("wrong tier matched: goals=%d want=1", stats.Goals)
		}
	})

	t.Run("username beats substring", func(t *testing.T) {
		t.Parallel()

		withoutExact := Record{
			ID: "m1",
			Players: map[string]ParticipantStats{
				"super-marko-77": {Goals: 2},
				"entry-42":       {Username: "Marko", Goals: 3},
			},
		}

		stats, ok := FindParticipant(withoutExact, "marko")
		if !ok {
			t.Fatalf("expected a participant match")
		}
		if stats.Goals != 3 {
			t.Fatalf("wrong tier matched: goals=%d want=3", stats.Goals)
		}
	})

	t.Run("substring fallback", func(t *testing.T) {
		t.Parallel()

		substringOnly := Record{
			ID: "m1",
			Players: map[string]ParticipantStats{
				"super-marko-77": {Goals: 2},
			},
		}

		stats, ok := FindParticipant(substringOnly, "Marko")
		if !ok {
			t.Fatalf("expected a participant match")
		}
		if stats.Goals != 2 {
			t.Fatalf("substring tier not used: goals=%d want=2", stats.Goals)
		}
	})

	t.Run("substring ties resolve by sorted key order", func(t *testing.T) {
		t.Parallel()

		tied := Record{
			ID: "m1",
			Players: map[string]ParticipantStats{
				"z-marko": {Goals: 5},
				"a-marko": {Goals: 4},
			},
		}

		stats, ok := FindParticipant(tied, "marko")
		if !ok {
			t.Fatalf("expected a participant match")
		}
		if stats.Goals != 4 {
			t.Fatalf("deterministic order broken: goals=%d want=4", stats.Goals)
		}
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		if _, ok := FindParticipant(rec, "Ivana"); ok {
			t.Fatalf("unexpected match for absent name")
		}
	})

	t.Run("blank name never matches", func(t *testing.T) {
		t.Parallel()

		if _, ok := FindParticipant(rec, "   "); ok {
			t.Fatalf("blank name must not match")
		}
	})
}

func TestSummary_OpponentScore(t *testing.T) {
	t.Parallel()

	summary := &Summary{
		Winner: "Sharks",
		Score:  Scoreline{Team1Name: "Sharks", Team1Score: 14, Team2Name: "Orcas", Team2Score: 10},
	}

	if got := summary.OpponentScore("sharks"); got != 10 {
		t.Fatalf("opponent of team1: got=%d want=10", got)
	}
	if got := summary.OpponentScore("Orcas"); got != 14 {
		t.Fatalf("opponent of team2: got=%d want=14", got)
	}
	if got := summary.OpponentScore("Dolphins"); got != UnknownOpponentScore {
		t.Fatalf("unknown team: got=%d want sentinel %d", got, UnknownOpponentScore)
	}
	if got := (*Summary)(nil).OpponentScore("Sharks"); got != UnknownOpponentScore {
		t.Fatalf("nil summary: got=%d want sentinel %d", got, UnknownOpponentScore)
	}
}

func TestSummary_IsDraw(t *testing.T) {
	t.Parallel()

	if !(&Summary{Winner: " draw "}).IsDraw() {
		t.Fatalf("draw winner value must report a draw")
	}
	if (&Summary{Winner: "Sharks"}).IsDraw() {
		t.Fatalf("named winner must not report a draw")
	}
	if (*Summary)(nil).IsDraw() {
		t.Fatalf("nil summary must not report a draw")
	}
}
