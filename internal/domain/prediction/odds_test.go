package prediction

import "testing"

func TestChanceFromOdds(t *testing.T) {
	t.Run("implied probability is rounded percent", func(t *testing.T) {
		cases := []struct {
			odds string
			want int
		}{
			{"2.00", 50},
			{"1.8", 56},
			{"4.75", 21},
			{"1.01", 99},
			{"100", 1},
		}
		for _, tc := range cases {
			got, ok := ChanceFromOdds(tc.odds)
			if !ok {
				t.Fatalf("odds %q: expected ok", tc.odds)
			}
			if got != tc.want {
				t.Fatalf("odds %q: got=%d want=%d", tc.odds, got, tc.want)
			}
		}
	})

	t.Run("monotonically decreasing in odds", func(t *testing.T) {
		longer, _ := ChanceFromOdds("3.50")
		shorter, _ := ChanceFromOdds("1.50")
		if longer >= shorter {
			t.Fatalf("expected chance at 3.50 (%d) below chance at 1.50 (%d)", longer, shorter)
		}
	})

	t.Run("odds below 1 clamp to 100", func(t *testing.T) {
		for _, odds := range []string{"0.5", "0.99", "1.00"} {
			got, ok := ChanceFromOdds(odds)
			if !ok || got != 100 {
				t.Fatalf("odds %q: got=%d ok=%v, want 100", odds, got, ok)
			}
		}
	})

	t.Run("rejects non-positive and unparsable input", func(t *testing.T) {
		for _, odds := range []string{"0", "-1.5", "", "abc", "1.2.3"} {
			if got, ok := ChanceFromOdds(odds); ok {
				t.Fatalf("odds %q: expected failure, got %d", odds, got)
			}
		}
	})
}

func TestChanceFromConfidence(t *testing.T) {
	got, ok := ChanceFromConfidence("56.4")
	if !ok || got != 56 {
		t.Fatalf("unexpected confidence parse: got=%d ok=%v", got, ok)
	}

	if _, ok := ChanceFromConfidence("high"); ok {
		t.Fatalf("expected unparsable confidence to fail")
	}
}

func TestResolveChance(t *testing.T) {
	t.Run("prefers odds over confidence", func(t *testing.T) {
		if got := ResolveChance("2.00", "80"); got != 50 {
			t.Fatalf("unexpected chance: got=%d want=50", got)
		}
	})

	t.Run("falls back to confidence", func(t *testing.T) {
		if got := ResolveChance("n/a", "72"); got != 72 {
			t.Fatalf("unexpected chance: got=%d want=72", got)
		}
	})

	t.Run("defaults to zero", func(t *testing.T) {
		if got := ResolveChance("", ""); got != 0 {
			t.Fatalf("unexpected chance: got=%d want=0", got)
		}
	})
}
