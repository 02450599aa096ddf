package battle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/tent58518-cell/RPGgo/internal/game/battle"
)

func timerSession() *battle.Session {
	// Speed tie: no first strike, the player owns the first turn.
	return battle.NewPvESession(hero(100, 20, 20, 5), slime(100, 0, 6, 5), &scriptedSource{draws: []int{50, 50, 50}})
}

func TestTurnTimer_ForfeitsOnExpiry(t *testing.T) {
	s := timerSession()
	var fired atomic.Int32
	var winner atomic.Value
	tt := battle.NewTurnTimer(s, 20*time.Millisecond, func(res battle.Result) {
		fired.Add(1)
		winner.Store(res.WinnerID)
	})
	_ = tt
	time.Sleep(60 * time.Millisecond)
	if fired.Load() != 1 {
		t.Fatalf("expected one forfeit, got %d", fired.Load())
	}
	if got := winner.Load(); got != "m1" {
		t.Fatalf("expected the idle player to lose to %q, got %q", "m1", got)
	}
	if !s.Over() {
		t.Fatal("expected the session to be over")
	}
}

func TestTurnTimer_Stop_PreventsForfeit(t *testing.T) {
	s := timerSession()
	var fired atomic.Int32
	tt := battle.NewTurnTimer(s, 50*time.Millisecond, func(battle.Result) {
		fired.Add(1)
	})
	tt.Stop()
	time.Sleep(80 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("expected no forfeit after Stop, got %d", fired.Load())
	}
	if s.Over() {
		t.Fatal("expected the session to continue")
	}
}

func TestTurnTimer_Rearm_ExtendsDeadline(t *testing.T) {
	s := timerSession()
	var fired atomic.Int32
	tt := battle.NewTurnTimer(s, 30*time.Millisecond, func(battle.Result) {
		fired.Add(1)
	})
	time.Sleep(15 * time.Millisecond)
	tt.Rearm()
	// Past the original deadline but before the rearmed one.
	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("expected no forfeit before the rearmed deadline, got %d", fired.Load())
	}
	time.Sleep(40 * time.Millisecond)
	if fired.Load() != 1 {
		t.Fatalf("expected one forfeit after the rearmed deadline, got %d", fired.Load())
	}
}

func TestTurnTimer_StaleSequenceDoesNotForfeit(t *testing.T) {
	s := timerSession()
	var fired atomic.Int32
	tt := battle.NewTurnTimer(s, 30*time.Millisecond, func(battle.Result) {
		fired.Add(1)
	})
	defer tt.Stop()

	// A turn applied before expiry advances the sequence number; the
	// armed deadline then refers to a turn that no longer exists.
	if _, err := s.Act(0, battle.ActionDefend); err != nil {
		t.Fatalf("Act: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("expected the stale deadline to forfeit nothing, got %d", fired.Load())
	}
	if s.Over() {
		t.Fatal("expected the session to continue")
	}
}

func TestTurnTimer_Stop_Idempotent(t *testing.T) {
	tt := battle.NewTurnTimer(timerSession(), 20*time.Millisecond, func(battle.Result) {})
	tt.Stop()
	tt.Stop()
}
