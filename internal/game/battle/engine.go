package battle

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tent58518-cell/RPGgo/internal/game/catalog"
	"github.com/tent58518-cell/RPGgo/internal/game/dice"
	"github.com/tent58518-cell/RPGgo/internal/game/player"
)

// DefaultTurnTimeout is how long a participant has to act before forfeiting.
const DefaultTurnTimeout = 30 * time.Second

// RewardSink receives terminal battle outcomes. Implementations settle
// drops, gold, and spoils against the player store.
type RewardSink interface {
	// PvEWin settles a player's victory over the named monster.
	PvEWin(ctx context.Context, playerID, monsterName string) error
	// PvELoss records a player's defeat. Losing to a monster costs nothing.
	PvELoss(ctx context.Context, playerID string) error
	// PvPResolved settles a duel: gold changes hands and the winner may
	// take an item from the loser.
	PvPResolved(ctx context.Context, winnerID, loserID string) error
}

// Engine manages all active battle sessions, keyed by participant ID.
// A PvP session appears under both participants' IDs. All methods are
// safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	timers   map[string]*TurnTimer

	sink    RewardSink
	src     dice.Source
	timeout time.Duration
	logger  *zap.Logger
}

// NewEngine creates an empty battle Engine.
//
// Precondition: sink, src, and logger must be non-nil; timeout > 0.
func NewEngine(sink RewardSink, src dice.Source, timeout time.Duration, logger *zap.Logger) *Engine {
	return &Engine{
		sessions: make(map[string]*Session),
		timers:   make(map[string]*TurnTimer),
		sink:     sink,
		src:      src,
		timeout:  timeout,
		logger:   logger,
	}
}

// StartPvE begins an encounter between a player and a rolled monster.
// A strictly faster monster strikes before the player's first turn; if
// that strike is lethal the battle resolves immediately and no session
// is registered.
//
// Precondition: playerID must be non-empty.
// Postcondition: Returns ErrDuplicateSession if the player is already in a battle.
func (e *Engine) StartPvE(ctx context.Context, playerID, playerName string, stats player.FinalStats, monster catalog.MonsterInstance) (Snapshot, error) {
	e.mu.Lock()
	if _, exists := e.sessions[playerID]; exists {
		e.mu.Unlock()
		return Snapshot{}, ErrDuplicateSession
	}

	pc := NewPlayerCombatant(playerID, playerName, stats)
	mc := NewMonsterCombatant(monster)
	sess := NewPvESession(pc, mc, e.src)

	if sess.Over() {
		e.mu.Unlock()
		e.logger.Info("battle over before first turn",
			zap.String("session_id", sess.ID()),
			zap.String("player_id", playerID),
			zap.String("monster", monster.Name))
		e.settle(ctx, sess, Result{Over: true, WinnerID: mc.ID, LoserID: playerID})
		return sess.Snapshot(), nil
	}

	e.sessions[playerID] = sess
	e.timers[sess.ID()] = NewTurnTimer(sess, e.timeout, e.forfeited(sess))
	e.mu.Unlock()

	e.logger.Info("pve battle started",
		zap.String("session_id", sess.ID()),
		zap.String("player_id", playerID),
		zap.String("monster", monster.Name))
	return sess.Snapshot(), nil
}

// StartPvP begins a duel between two players. The faster player moves
// first; the challenger does on a tie.
//
// Precondition: the two participant IDs must be non-empty and distinct.
// Postcondition: Returns ErrDuplicateSession if either player is already in a battle.
func (e *Engine) StartPvP(ctx context.Context, p1ID, p1Name string, p1Stats player.FinalStats, p2ID, p2Name string, p2Stats player.FinalStats) (Snapshot, error) {
	e.mu.Lock()
	if _, exists := e.sessions[p1ID]; exists {
		e.mu.Unlock()
		return Snapshot{}, ErrDuplicateSession
	}
	if _, exists := e.sessions[p2ID]; exists {
		e.mu.Unlock()
		return Snapshot{}, ErrDuplicateSession
	}

	sess := NewPvPSession(
		NewPlayerCombatant(p1ID, p1Name, p1Stats),
		NewPlayerCombatant(p2ID, p2Name, p2Stats),
		e.src,
	)
	e.sessions[p1ID] = sess
	e.sessions[p2ID] = sess
	e.timers[sess.ID()] = NewTurnTimer(sess, e.timeout, e.forfeited(sess))
	e.mu.Unlock()

	e.logger.Info("pvp battle started",
		zap.String("session_id", sess.ID()),
		zap.String("challenger_id", p1ID),
		zap.String("opponent_id", p2ID))
	return sess.Snapshot(), nil
}

// SubmitAction applies one action for the given participant's active battle.
//
// Postcondition: Returns ErrSessionNotFound if the participant has no battle,
// or the session's own error when the action cannot apply. On a terminal
// turn the session is removed and the reward sink is invoked before return.
func (e *Engine) SubmitAction(ctx context.Context, participantID string, action Action) (Snapshot, error) {
	e.mu.RLock()
	sess, ok := e.sessions[participantID]
	e.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	idx, ok := sess.indexOf(participantID)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	res, err := sess.Act(idx, action)
	if err != nil {
		return Snapshot{}, err
	}

	if res.Over {
		e.remove(sess)
		e.settle(ctx, sess, res)
	} else {
		e.rearm(sess)
	}
	return sess.Snapshot(), nil
}

// Session returns a snapshot of the participant's active battle.
//
// Postcondition: Returns ErrSessionNotFound if the participant has no battle.
func (e *Engine) Session(participantID string) (Snapshot, error) {
	e.mu.RLock()
	sess, ok := e.sessions[participantID]
	e.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	return sess.Snapshot(), nil
}

// ActiveCount returns the number of distinct active sessions.
func (e *Engine) ActiveCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.timers)
}

// forfeited builds the timer's callback for a timeout that applied:
// deregister the session and settle against the loser.
func (e *Engine) forfeited(sess *Session) func(Result) {
	return func(res Result) {
		e.logger.Info("battle forfeited on timeout",
			zap.String("session_id", sess.ID()),
			zap.String("winner_id", res.WinnerID))
		e.remove(sess)
		e.settle(context.Background(), sess, res)
	}
}

// rearm restarts the session's turn timer for the next turn. The timer
// may have been removed by a concurrent terminal transition.
func (e *Engine) rearm(sess *Session) {
	e.mu.RLock()
	timer, ok := e.timers[sess.ID()]
	e.mu.RUnlock()
	if ok {
		timer.Rearm()
	}
}

// remove deregisters the session under every participant key and stops
// its timer.
func (e *Engine) remove(sess *Session) {
	e.mu.Lock()
	for _, id := range sess.ParticipantIDs() {
		if e.sessions[id] == sess {
			delete(e.sessions, id)
		}
	}
	timer, ok := e.timers[sess.ID()]
	delete(e.timers, sess.ID())
	e.mu.Unlock()

	if ok {
		timer.Stop()
	}
}

// settle dispatches the terminal outcome to the reward sink.
func (e *Engine) settle(ctx context.Context, sess *Session, res Result) {
	var err error
	switch sess.Kind() {
	case KindPvE:
		ids := sess.ParticipantIDs()
		if len(ids) != 1 {
			return
		}
		if res.WinnerID == ids[0] {
			err = e.sink.PvEWin(ctx, ids[0], sess.MonsterName())
		} else {
			err = e.sink.PvELoss(ctx, ids[0])
		}
	case KindPvP:
		err = e.sink.PvPResolved(ctx, res.WinnerID, res.LoserID)
	}
	if err != nil {
		e.logger.Error("reward settlement failed",
			zap.String("session_id", sess.ID()),
			zap.String("winner_id", res.WinnerID),
			zap.Error(err))
		return
	}
	e.logger.Info("battle resolved",
		zap.String("session_id", sess.ID()),
		zap.String("kind", sess.Kind().String()),
		zap.String("winner_id", res.WinnerID))
}
