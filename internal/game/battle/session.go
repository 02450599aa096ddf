package battle

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tent58518-cell/RPGgo/internal/game/dice"
)

const (
	healCost   = 10
	healAmount = 5

	monsterHealCost    = 15
	monsterHealMin     = 15
	monsterHealMax     = 24
	monsterHealChance  = 40
	monsterGuardChance = 20
)

// Result summarizes the state transition caused by one applied turn.
type Result struct {
	// Over is true when the battle reached a terminal state.
	Over bool
	// WinnerID and LoserID are participant IDs, set only when Over is true.
	// In PvE the monster's instance ID appears on whichever side it ended up.
	WinnerID string
	LoserID  string
	// Log holds the narration lines appended by this turn.
	Log []string
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	ID         string
	Kind       Kind
	Over       bool
	WinnerID   string
	TurnID     string
	Combatants [2]Combatant
	Log        []string
}

// Session is the state machine for one battle. Index 0 is always the
// first mover: in PvE the player, in PvP the faster participant.
// All exported methods are safe for concurrent use; at most one turn
// applies at a time.
type Session struct {
	id   string
	kind Kind

	mu         sync.Mutex
	combatants [2]*Combatant
	turn       int
	seq        int
	over       bool
	winner     int
	log        []string
	src        dice.Source
}

// NewPvESession creates a battle between a player and a monster.
// If the monster is strictly faster than the player it attacks once
// before the player's first turn, which may end the battle outright.
//
// Precondition: p and m must be non-nil; src must be non-nil.
func NewPvESession(p, m *Combatant, src dice.Source) *Session {
	s := &Session{
		id:         uuid.New().String(),
		kind:       KindPvE,
		combatants: [2]*Combatant{p, m},
		winner:     -1,
		src:        src,
	}
	s.log = append(s.log, fmt.Sprintf("%s appears!", m.Name))
	if m.Speed > p.Speed {
		s.log = append(s.log, fmt.Sprintf("%s strikes first!", m.Name))
		s.resolveAttack(m, p)
		if p.IsDead() {
			s.finish(1)
		}
	}
	return s
}

// NewPvPSession creates a duel between two players. The faster player
// moves first; on a speed tie the challenger (first argument) does.
//
// Precondition: p1 and p2 must be non-nil with distinct IDs; src must be non-nil.
func NewPvPSession(p1, p2 *Combatant, src dice.Source) *Session {
	first, second := p1, p2
	if p2.Speed > p1.Speed {
		first, second = p2, p1
	}
	s := &Session{
		id:         uuid.New().String(),
		kind:       KindPvP,
		combatants: [2]*Combatant{first, second},
		winner:     -1,
		src:        src,
	}
	s.log = append(s.log,
		fmt.Sprintf("%s challenges %s!", p1.Name, p2.Name),
		fmt.Sprintf("%s moves first.", first.Name),
	)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Kind returns the battle mode.
func (s *Session) Kind() Kind { return s.kind }

// ParticipantIDs returns the player participant IDs registered in this
// session. The monster's instance ID is excluded.
func (s *Session) ParticipantIDs() []string {
	ids := make([]string, 0, 2)
	for _, c := range s.combatants {
		if c.Role == RolePlayer {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// MonsterName returns the monster's name, or "" for PvP sessions.
func (s *Session) MonsterName() string {
	if s.kind != KindPvE {
		return ""
	}
	return s.combatants[1].Name
}

// Seq returns the current turn sequence number. It increments once per
// applied turn and lets a stale timeout recognize itself.
func (s *Session) Seq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Over reports whether the battle has reached a terminal state.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// indexOf returns the combatant index for the given participant ID.
func (s *Session) indexOf(participantID string) (int, bool) {
	for i, c := range s.combatants {
		if c.Role == RolePlayer && c.ID == participantID {
			return i, true
		}
	}
	return 0, false
}

// Act applies one action for the combatant at actorIdx.
//
// Precondition: actorIdx is 0 or 1 and refers to a player combatant.
// Postcondition: Returns ErrBattleEnded if the battle is over, ErrNotYourTurn
// if it is not the actor's turn, and the turn result otherwise. In PvE the
// monster's reply is resolved within the same call.
func (s *Session) Act(actorIdx int, action Action) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return Result{}, ErrBattleEnded
	}
	if actorIdx != s.turn {
		return Result{}, ErrNotYourTurn
	}

	logStart := len(s.log)
	actor := s.combatants[actorIdx]
	target := s.combatants[1-actorIdx]

	s.applyAction(actor, target, action)

	if target.IsDead() {
		s.finish(actorIdx)
		return s.result(logStart), nil
	}

	if s.kind == KindPvE {
		s.monsterAct()
		if actor.IsDead() {
			s.finish(1)
			return s.result(logStart), nil
		}
	} else {
		s.turn = 1 - s.turn
	}
	s.seq++
	return s.result(logStart), nil
}

// Forfeit ends the battle against the current actor, used when their
// turn timer expires. It no-ops when the battle is already over or the
// sequence number no longer matches the armed turn.
//
// Postcondition: Returns (result, true) if the forfeit applied.
func (s *Session) Forfeit(seq int) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over || s.seq != seq {
		return Result{}, false
	}
	logStart := len(s.log)
	s.log = append(s.log, fmt.Sprintf("%s ran out of time and forfeits.", s.combatants[s.turn].Name))
	s.finish(1 - s.turn)
	return s.result(logStart), true
}

// Snapshot returns a copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.id,
		Kind:       s.kind,
		Over:       s.over,
		Combatants: [2]Combatant{*s.combatants[0], *s.combatants[1]},
		Log:        append([]string(nil), s.log...),
	}
	if s.over {
		snap.WinnerID = s.combatants[s.winner].ID
	} else {
		snap.TurnID = s.combatants[s.turn].ID
	}
	return snap
}

// finish marks the battle over with the winner at winnerIdx.
// Caller must hold s.mu.
func (s *Session) finish(winnerIdx int) {
	s.over = true
	s.winner = winnerIdx
	s.seq++
	s.log = append(s.log, fmt.Sprintf("%s wins!", s.combatants[winnerIdx].Name))
}

// result builds the Result for log lines appended since logStart.
// Caller must hold s.mu.
func (s *Session) result(logStart int) Result {
	r := Result{Log: append([]string(nil), s.log[logStart:]...)}
	if s.over {
		r.Over = true
		r.WinnerID = s.combatants[s.winner].ID
		r.LoserID = s.combatants[1-s.winner].ID
	}
	return r
}

// applyAction resolves one player action. Caller must hold s.mu.
func (s *Session) applyAction(actor, target *Combatant, action Action) {
	switch action {
	case ActionDefend:
		actor.DefenseActive = true
		s.log = append(s.log, fmt.Sprintf("%s braces for the next blow.", actor.Name))
	case ActionHeal:
		if actor.CurrentMP < healCost {
			s.log = append(s.log, fmt.Sprintf("%s tries to cast heal but lacks the MP.", actor.Name))
			return
		}
		actor.CurrentMP -= healCost
		actor.heal(healAmount)
		s.log = append(s.log, fmt.Sprintf("%s casts heal and recovers %d HP. (HP %d/%d)",
			actor.Name, healAmount, actor.CurrentHP, actor.MaxHP))
	default:
		s.resolveAttack(actor, target)
	}
}

// resolveAttack applies one attack attempt from attacker to defender.
// The defender's guard is consumed by the attempt even when it misses.
// Damage is the attacker's attack stat, multiplied by 1.5 on a critical
// hit and by 0.95 against an active guard, floored at each step.
// Caller must hold s.mu.
func (s *Session) resolveAttack(attacker, defender *Combatant) {
	guarded := defender.DefenseActive
	defender.DefenseActive = false

	if dice.Percent(s.src) < defender.evadeChance() {
		s.log = append(s.log, fmt.Sprintf("%s attacks, but %s evades!", attacker.Name, defender.Name))
		return
	}

	dmg := attacker.Attack
	crit := dice.Percent(s.src) < attacker.critChance()
	if crit {
		dmg = dmg * 3 / 2
	}
	if guarded {
		dmg = dmg * 19 / 20
	}
	if dmg < 0 {
		dmg = 0
	}
	defender.applyDamage(dmg)

	line := fmt.Sprintf("%s attacks %s for %d damage.", attacker.Name, defender.Name, dmg)
	if crit {
		line = fmt.Sprintf("%s lands a critical hit on %s for %d damage!", attacker.Name, defender.Name, dmg)
	}
	s.log = append(s.log, fmt.Sprintf("%s (HP %d/%d)", line, defender.CurrentHP, defender.MaxHP))
}

// monsterAct resolves the monster's reply turn. A badly hurt monster
// with enough MP sometimes heals, otherwise it occasionally guards and
// usually attacks. Caller must hold s.mu.
func (s *Session) monsterAct() {
	m := s.combatants[1]
	p := s.combatants[0]

	if m.CurrentHP*10 < m.MaxHP*3 && m.CurrentMP >= monsterHealCost && dice.Percent(s.src) < monsterHealChance {
		heal := dice.Between(s.src, monsterHealMin, monsterHealMax)
		m.CurrentMP -= monsterHealCost
		m.heal(heal)
		s.log = append(s.log, fmt.Sprintf("%s heals itself for %d HP. (HP %d/%d)",
			m.Name, heal, m.CurrentHP, m.MaxHP))
		return
	}
	if dice.Percent(s.src) < monsterGuardChance {
		m.DefenseActive = true
		s.log = append(s.log, fmt.Sprintf("%s guards.", m.Name))
		return
	}
	s.resolveAttack(m, p)
}
