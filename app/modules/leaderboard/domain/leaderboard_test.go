package leaderboarddomain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testIdentity(n byte) Identity {
	var id Identity
	for i := range id {
		id[i] = n
	}
	return id
}

func paidPlayer(name string, n byte, score uint64) Player {
	return Player{Username: name, Identity: testIdentity(n), Score: score, HasPaid: true}
}

func TestLeaderboard_Scenario(t *testing.T) {
	key1, key2 := testIdentity(1), testIdentity(2)

	l := New()
	l.Initialize()
	l.AddPlayer(Player{Username: "A", Identity: key1, HasPaid: true})
	l.AddPlayer(Player{Username: "B", Identity: key2, HasPaid: true})

	if err := l.UpdateScore(key1, 50); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}

	want := []Player{
		{Username: "A", Identity: key1, Score: 50, HasPaid: false},
		{Username: "B", Identity: key2, Score: 0, HasPaid: true},
	}
	if diff := cmp.Diff(want, l.Players()); diff != "" {
		t.Fatalf("players mismatch (-want +got):\n%s", diff)
	}

	for n := byte(3); n <= Capacity; n++ {
		slot, evicted := l.AddPlayer(paidPlayer("C", n, 0))
		if evicted != nil {
			t.Fatalf("unexpected eviction while below capacity: %+v", evicted)
		}
		if slot != int(n)-1 {
			t.Fatalf("expected append at slot %d, got %d", n-1, slot)
		}
	}

	// B holds the first zero score among the five.
	slot, evicted := l.AddPlayer(paidPlayer("F", 6, 0))
	if evicted == nil || slot != 1 {
		t.Fatalf("expected eviction at slot 1, got slot %d evicted %+v", slot, evicted)
	}
	if evicted.Identity != key2 {
		t.Fatalf("expected B to be evicted, got %s", evicted.Username)
	}
	if err := l.UpdateScore(key2, 10); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound for evicted player, got %v", err)
	}
}

func TestLeaderboard_LengthNeverExceedsCapacity(t *testing.T) {
	l := New()
	for n := 1; n <= 50; n++ {
		l.AddPlayer(paidPlayer("p", byte(n), uint64(n%7)))
		if l.Len() > Capacity {
			t.Fatalf("length %d exceeds capacity after %d adds", l.Len(), n)
		}
	}
	if l.Len() != Capacity {
		t.Fatalf("expected full board, got %d", l.Len())
	}
}

func TestLeaderboard_EvictsMinimumScore(t *testing.T) {
	tests := []struct {
		name     string
		scores   [Capacity]uint64
		wantSlot int
	}{
		{name: "unique minimum", scores: [Capacity]uint64{40, 30, 10, 20, 50}, wantSlot: 2},
		{name: "tie goes to lowest index", scores: [Capacity]uint64{40, 5, 30, 5, 50}, wantSlot: 1},
		{name: "all tied evicts first slot", scores: [Capacity]uint64{7, 7, 7, 7, 7}, wantSlot: 0},
		{name: "minimum in last slot", scores: [Capacity]uint64{9, 8, 7, 6, 1}, wantSlot: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := make([]Player, 0, Capacity)
			for i, s := range tt.scores {
				players = append(players, paidPlayer("p", byte(i+1), s))
			}
			l, err := Restore(players)
			if err != nil {
				t.Fatalf("Restore: %v", err)
			}

			newcomer := paidPlayer("new", 99, 0)
			slot, evicted := l.AddPlayer(newcomer)

			if slot != tt.wantSlot {
				t.Fatalf("expected slot %d, got %d", tt.wantSlot, slot)
			}
			if diff := cmp.Diff(players[tt.wantSlot], *evicted); diff != "" {
				t.Fatalf("evicted mismatch (-want +got):\n%s", diff)
			}

			want := append([]Player(nil), players...)
			want[tt.wantSlot] = newcomer
			if diff := cmp.Diff(want, l.Players()); diff != "" {
				t.Fatalf("board mismatch (-want +got):\n%s", diff)
			}
			if _, ok := l.Find(players[tt.wantSlot].Identity); ok {
				t.Fatalf("evicted identity still findable")
			}
		})
	}
}

func TestLeaderboard_UpdateScoreFailuresLeaveStateUnchanged(t *testing.T) {
	l, err := Restore([]Player{
		paidPlayer("paid", 1, 0),
		{Username: "spent", Identity: testIdentity(2), Score: 12, HasPaid: false},
	})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	before := l.Players()

	if err := l.UpdateScore(testIdentity(9), 100); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
	if err := l.UpdateScore(testIdentity(2), 100); !errors.Is(err, ErrPlayerNotPaid) {
		t.Fatalf("expected ErrPlayerNotPaid, got %v", err)
	}
	if diff := cmp.Diff(before, l.Players()); diff != "" {
		t.Fatalf("state changed after failed updates (-before +after):\n%s", diff)
	}
}

func TestLeaderboard_UpdateScoreConsumesPayment(t *testing.T) {
	l := New()
	l.AddPlayer(paidPlayer("once", 1, 0))

	if err := l.UpdateScore(testIdentity(1), 75); err != nil {
		t.Fatalf("first update: %v", err)
	}
	p, _ := l.Find(testIdentity(1))
	if p.Score != 75 || p.HasPaid {
		t.Fatalf("unexpected player after update: %+v", p)
	}
	if p.Username != "once" {
		t.Fatalf("username changed: %q", p.Username)
	}

	if err := l.UpdateScore(testIdentity(1), 90); !errors.Is(err, ErrPlayerNotPaid) {
		t.Fatalf("expected ErrPlayerNotPaid on second update, got %v", err)
	}
	p, _ = l.Find(testIdentity(1))
	if p.Score != 75 {
		t.Fatalf("score changed by rejected update: %d", p.Score)
	}
}

func TestLeaderboard_InitializeClears(t *testing.T) {
	l := New()
	l.AddPlayer(paidPlayer("a", 1, 3))
	l.Initialize()
	if l.Len() != 0 {
		t.Fatalf("expected empty board, got %d players", l.Len())
	}
	l.Initialize()
	if l.Len() != 0 {
		t.Fatalf("expected repeated initialize to stay empty")
	}
}

func TestLeaderboard_Standings(t *testing.T) {
	l, err := Restore([]Player{
		paidPlayer("low", 1, 5),
		paidPlayer("high", 2, 90),
		paidPlayer("tieA", 3, 40),
		paidPlayer("tieB", 4, 40),
	})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	got := l.Standings()
	names := make([]string, len(got))
	for i, s := range got {
		if s.Rank != i+1 {
			t.Fatalf("rank %d at position %d", s.Rank, i)
		}
		names[i] = s.Username
	}
	if diff := cmp.Diff([]string{"high", "tieA", "tieB", "low"}, names); diff != "" {
		t.Fatalf("standings order (-want +got):\n%s", diff)
	}

	// Ranking is derived; slot order stays untouched.
	if l.Players()[0].Username != "low" {
		t.Fatalf("Standings reordered the board")
	}
}

func TestRestore_RejectsInvalidBoards(t *testing.T) {
	tooMany := make([]Player, Capacity+1)
	if _, err := Restore(tooMany); err == nil {
		t.Fatalf("expected error for %d players", len(tooMany))
	}

	long := []Player{{Username: string(make([]byte, MaxUsernameLen+1))}}
	if _, err := Restore(long); !errors.Is(err, ErrUsernameTooLong) {
		t.Fatalf("expected ErrUsernameTooLong, got %v", err)
	}
}

func TestRuleCode(t *testing.T) {
	code, ok := RuleCode(ErrPlayerNotFound)
	if !ok || code != 6000 {
		t.Fatalf("expected 6000, got %d (%v)", code, ok)
	}
	code, ok = RuleCode(errors.Join(errors.New("context"), ErrPlayerNotPaid))
	if !ok || code != 6001 {
		t.Fatalf("expected 6001 through wrapping, got %d (%v)", code, ok)
	}
	if _, ok := RuleCode(ErrUsernameTooLong); ok {
		t.Fatalf("non-rule error reported a code")
	}
}
