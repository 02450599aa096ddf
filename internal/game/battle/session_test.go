package battle_test

import (
	"testing"

	"github.com/tent58518-cell/RPGgo/internal/game/battle"
	"github.com/tent58518-cell/RPGgo/internal/game/catalog"
	"github.com/tent58518-cell/RPGgo/internal/game/player"
)

// scriptedSource replays a fixed list of draws. Each Intn call consumes
// the next value regardless of n.
type scriptedSource struct {
	draws []int
	i     int
}

func (s *scriptedSource) Intn(n int) int {
	if s.i >= len(s.draws) {
		return 0
	}
	d := s.draws[s.i]
	s.i++
	return d % n
}

func hero(hp, mp, attack, speed int) *battle.Combatant {
	return battle.NewPlayerCombatant("p1", "Hero", player.FinalStats{
		HP: hp, MP: mp, Attack: attack, Defense: 5, Speed: speed,
	})
}

func slime(hp, mp, attack, speed int) *battle.Combatant {
	return battle.NewMonsterCombatant(catalog.MonsterInstance{
		ID: "m1", Name: "Slime", HP: hp, MP: mp, Attack: attack, Defense: 2, Speed: speed,
	})
}

// The attack sequence draws evasion first, then the critical chance.
// A monster reply draws guard chance, then its own evasion and critical.

func TestSession_Attack_PlainDamage(t *testing.T) {
	p := hero(100, 20, 20, 5)
	m := slime(100, 0, 6, 5)
	src := &scriptedSource{draws: []int{50, 50, 50, 50, 50}}
	s := battle.NewPvESession(p, m, src)

	if _, err := s.Act(0, battle.ActionAttack); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if m.CurrentHP != 80 {
		t.Fatalf("expected monster HP 80, got %d", m.CurrentHP)
	}
	if p.CurrentHP != 94 {
		t.Fatalf("expected player HP 94 after reply, got %d", p.CurrentHP)
	}
}

func TestSession_Attack_CriticalHit(t *testing.T) {
	p := hero(100, 20, 20, 5)
	m := slime(100, 0, 6, 5)
	// Player crit draw 10 < 15. Monster reply draw 50 avoids its crit (10).
	src := &scriptedSource{draws: []int{50, 10, 50, 50, 50}}
	s := battle.NewPvESession(p, m, src)

	if _, err := s.Act(0, battle.ActionAttack); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if m.CurrentHP != 70 {
		t.Fatalf("expected 30 crit damage, monster HP 70, got %d", m.CurrentHP)
	}
}

func TestSession_Attack_IntoGuard(t *testing.T) {
	p := hero(100, 20, 20, 5)
	m := slime(100, 0, 6, 5)
	src := &scriptedSource{draws: []int{50, 50, 50, 50, 50}}
	s := battle.NewPvESession(p, m, src)
	m.DefenseActive = true

	if _, err := s.Act(0, battle.ActionAttack); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if m.CurrentHP != 81 {
		t.Fatalf("expected guarded hit for 19, monster HP 81, got %d", m.CurrentHP)
	}
	if m.DefenseActive {
		t.Fatal("guard should be consumed by the attack")
	}
}

func TestSession_Attack_CriticalIntoGuard(t *testing.T) {
	p := hero(100, 20, 20, 5)
	m := slime(100, 0, 6, 5)
	src := &scriptedSource{draws: []int{50, 10, 50, 50, 50}}
	s := battle.NewPvESession(p, m, src)
	m.DefenseActive = true

	if _, err := s.Act(0, battle.ActionAttack); err != nil {
		t.Fatalf("Act: %v", err)
	}
	// floor(floor(20*1.5) * 0.95) = 28
	if m.CurrentHP != 72 {
		t.Fatalf("expected guarded crit for 28, monster HP 72, got %d", m.CurrentHP)
	}
}

func TestSession_EvasionBoundary(t *testing.T) {
	// Both at speed 100: ten percent evasion each way, no first strike on a tie.
	cases := []struct {
		name      string
		evadeDraw int
		wantHP    int
	}{
		{"draw 9 evades", 9, 100},
		{"draw 10 lands", 10, 80},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := hero(100, 20, 20, 100)
			m := slime(100, 0, 6, 100)
			draws := []int{tc.evadeDraw, 50, 50, 50, 50}
			s := battle.NewPvESession(p, m, &scriptedSource{draws: draws})

			if _, err := s.Act(0, battle.ActionAttack); err != nil {
				t.Fatalf("Act: %v", err)
			}
			if m.CurrentHP != tc.wantHP {
				t.Fatalf("expected monster HP %d, got %d", tc.wantHP, m.CurrentHP)
			}
		})
	}
}

func TestSession_GuardConsumedByEvadedAttack(t *testing.T) {
	p := hero(100, 20, 20, 100)
	m := slime(100, 0, 6, 5)
	// Player defends (no draws). Monster reply: guard draw 50, then the
	// player evades with draw 5 < 10. The evaded attempt still clears guard.
	src := &scriptedSource{draws: []int{50, 5}}
	s := battle.NewPvESession(p, m, src)

	if _, err := s.Act(0, battle.ActionDefend); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if p.CurrentHP != 100 {
		t.Fatalf("expected evaded attack, player HP 100, got %d", p.CurrentHP)
	}
	if p.DefenseActive {
		t.Fatal("guard should be consumed even when the attack is evaded")
	}
}

func TestSession_HealBoundary(t *testing.T) {
	t.Run("enough MP", func(t *testing.T) {
		p := hero(100, 10, 20, 5)
		p.CurrentHP = 50
		m := slime(100, 0, 6, 5)
		src := &scriptedSource{draws: []int{50, 50, 50}}
		s := battle.NewPvESession(p, m, src)

		if _, err := s.Act(0, battle.ActionHeal); err != nil {
			t.Fatalf("Act: %v", err)
		}
		if p.CurrentMP != 0 {
			t.Fatalf("expected MP 0 after heal, got %d", p.CurrentMP)
		}
		if p.CurrentHP != 49 {
			// 50 + 5 healed, then the monster reply hits for 6.
			t.Fatalf("expected player HP 49, got %d", p.CurrentHP)
		}
	})
	t.Run("one MP short still spends the turn", func(t *testing.T) {
		p := hero(100, 9, 20, 5)
		p.CurrentHP = 50
		m := slime(100, 0, 6, 5)
		src := &scriptedSource{draws: []int{50, 50, 50}}
		s := battle.NewPvESession(p, m, src)

		if _, err := s.Act(0, battle.ActionHeal); err != nil {
			t.Fatalf("Act: %v", err)
		}
		if p.CurrentMP != 9 {
			t.Fatalf("expected MP untouched at 9, got %d", p.CurrentMP)
		}
		if p.CurrentHP != 44 {
			// No heal applied, but the monster still got its reply.
			t.Fatalf("expected player HP 44, got %d", p.CurrentHP)
		}
	})
}

func TestSession_HealCapsAtMax(t *testing.T) {
	p := hero(100, 20, 20, 5)
	p.CurrentHP = 98
	m := slime(100, 0, 6, 5)
	src := &scriptedSource{draws: []int{50, 50, 50}}
	s := battle.NewPvESession(p, m, src)

	if _, err := s.Act(0, battle.ActionHeal); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if p.CurrentHP != 94 {
		// Capped at 100, then the reply hits for 6.
		t.Fatalf("expected player HP 94, got %d", p.CurrentHP)
	}
}

func TestSession_MonsterFirstStrike(t *testing.T) {
	p := hero(100, 20, 20, 5)
	m := slime(100, 0, 12, 30)
	// Constructor resolves the strike: no evade (chance 0 at speed 5), no crit.
	src := &scriptedSource{draws: []int{50, 50}}
	s := battle.NewPvESession(p, m, src)

	if p.CurrentHP != 88 {
		t.Fatalf("expected first strike for 12, player HP 88, got %d", p.CurrentHP)
	}
	if s.Over() {
		t.Fatal("battle should continue after a surviving first strike")
	}
}

func TestSession_NoFirstStrikeOnSpeedTie(t *testing.T) {
	p := hero(100, 20, 20, 30)
	m := slime(100, 0, 12, 30)
	s := battle.NewPvESession(p, m, &scriptedSource{})

	if p.CurrentHP != 100 {
		t.Fatalf("expected no first strike on a tie, player HP %d", p.CurrentHP)
	}
	_ = s
}

func TestSession_LethalFirstStrike(t *testing.T) {
	p := hero(10, 20, 20, 5)
	m := slime(100, 0, 50, 30)
	src := &scriptedSource{draws: []int{50, 50}}
	s := battle.NewPvESession(p, m, src)

	if !s.Over() {
		t.Fatal("expected the battle to end on a lethal first strike")
	}
	snap := s.Snapshot()
	if snap.WinnerID != "m1" {
		t.Fatalf("expected monster winner, got %q", snap.WinnerID)
	}
	// Overkill is not clamped: 10 HP minus 50 damage leaves -40.
	if p.CurrentHP != -40 {
		t.Fatalf("expected player HP -40, got %d", p.CurrentHP)
	}
	if _, err := s.Act(0, battle.ActionAttack); err != battle.ErrBattleEnded {
		t.Fatalf("expected ErrBattleEnded, got %v", err)
	}
}

func TestSession_MonsterHealsWhenHurt(t *testing.T) {
	p := hero(100, 20, 20, 5)
	m := slime(100, 20, 6, 5)
	src := &scriptedSource{draws: []int{10, 4}}
	s := battle.NewPvESession(p, m, src)
	m.CurrentHP = 20

	// Defend so the player's turn draws nothing; the reply draws heal
	// chance 10 < 40, then Between(15, 24) with draw 4 heals 19.
	if _, err := s.Act(0, battle.ActionDefend); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if m.CurrentHP != 39 {
		t.Fatalf("expected monster HP 39 after self-heal, got %d", m.CurrentHP)
	}
	if m.CurrentMP != 5 {
		t.Fatalf("expected monster MP 5 after self-heal, got %d", m.CurrentMP)
	}
}

func TestSession_MonsterSkipsHealWithoutMP(t *testing.T) {
	p := hero(100, 20, 20, 5)
	m := slime(100, 14, 6, 5)
	// MP below the heal cost: no heal-chance draw at all. Guard draw 5 < 20.
	src := &scriptedSource{draws: []int{5}}
	s := battle.NewPvESession(p, m, src)
	m.CurrentHP = 20

	if _, err := s.Act(0, battle.ActionDefend); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if !m.DefenseActive {
		t.Fatal("expected the monster to guard")
	}
	if m.CurrentHP != 20 {
		t.Fatalf("expected no heal, monster HP %d", m.CurrentHP)
	}
}

func TestSession_PvPTurnHandover(t *testing.T) {
	a := battle.NewPlayerCombatant("p1", "Alice", player.FinalStats{HP: 50, MP: 20, Attack: 8, Speed: 10})
	b := battle.NewPlayerCombatant("p2", "Bob", player.FinalStats{HP: 50, MP: 20, Attack: 8, Speed: 10})
	// Speed 10 gives one percent evasion; draws of 50 never evade or crit.
	src := &scriptedSource{draws: []int{50, 50, 50, 50}}
	s := battle.NewPvPSession(a, b, src)

	snap := s.Snapshot()
	if snap.TurnID != "p1" {
		t.Fatalf("expected challenger first on a speed tie, got %q", snap.TurnID)
	}

	if _, err := s.Act(1, battle.ActionAttack); err != battle.ErrNotYourTurn {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	if _, err := s.Act(0, battle.ActionAttack); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if b.CurrentHP != 42 {
		t.Fatalf("expected Bob at 42 HP, got %d", b.CurrentHP)
	}
	if s.Snapshot().TurnID != "p2" {
		t.Fatalf("expected turn to pass to p2, got %q", s.Snapshot().TurnID)
	}

	if _, err := s.Act(1, battle.ActionAttack); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if a.CurrentHP != 42 {
		t.Fatalf("expected Alice at 42 HP, got %d", a.CurrentHP)
	}
}

func TestSession_PvPFasterPlayerMovesFirst(t *testing.T) {
	a := battle.NewPlayerCombatant("p1", "Alice", player.FinalStats{HP: 50, MP: 20, Attack: 8, Speed: 10})
	b := battle.NewPlayerCombatant("p2", "Bob", player.FinalStats{HP: 50, MP: 20, Attack: 8, Speed: 20})
	s := battle.NewPvPSession(a, b, &scriptedSource{})

	if got := s.Snapshot().TurnID; got != "p2" {
		t.Fatalf("expected faster p2 to move first, got %q", got)
	}
}

func TestSession_PvPVictory(t *testing.T) {
	a := battle.NewPlayerCombatant("p1", "Alice", player.FinalStats{HP: 50, MP: 20, Attack: 100, Speed: 5})
	b := battle.NewPlayerCombatant("p2", "Bob", player.FinalStats{HP: 50, MP: 20, Attack: 8, Speed: 5})
	src := &scriptedSource{draws: []int{50, 50}}
	s := battle.NewPvPSession(a, b, src)

	res, err := s.Act(0, battle.ActionAttack)
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if !res.Over || res.WinnerID != "p1" || res.LoserID != "p2" {
		t.Fatalf("expected p1 victory, got %+v", res)
	}
	if _, err := s.Act(1, battle.ActionAttack); err != battle.ErrBattleEnded {
		t.Fatalf("expected ErrBattleEnded, got %v", err)
	}
}

func TestSession_ForfeitStaleSequence(t *testing.T) {
	a := battle.NewPlayerCombatant("p1", "Alice", player.FinalStats{HP: 50, MP: 20, Attack: 8, Speed: 5})
	b := battle.NewPlayerCombatant("p2", "Bob", player.FinalStats{HP: 50, MP: 20, Attack: 8, Speed: 5})
	src := &scriptedSource{draws: []int{50, 50}}
	s := battle.NewPvPSession(a, b, src)

	seq := s.Seq()
	if _, err := s.Act(0, battle.ActionAttack); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if _, ok := s.Forfeit(seq); ok {
		t.Fatal("stale forfeit should not apply after a turn resolved")
	}
	res, ok := s.Forfeit(s.Seq())
	if !ok {
		t.Fatal("current forfeit should apply")
	}
	if res.WinnerID != "p1" {
		t.Fatalf("expected p1 to win by forfeit on p2's turn, got %q", res.WinnerID)
	}
}
