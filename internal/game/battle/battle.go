// Package battle implements turn-based battle sessions: PvE encounters
// against rolled monsters and PvP duels between two players.
package battle

import "errors"

// Kind distinguishes the two battle modes.
type Kind int

const (
	KindPvE Kind = iota
	KindPvP
)

// String returns a human-readable kind label.
func (k Kind) String() string {
	switch k {
	case KindPvE:
		return "pve"
	case KindPvP:
		return "pvp"
	default:
		return "unknown"
	}
}

// Action is one of the three commands a participant may submit on their turn.
type Action int

const (
	ActionAttack Action = iota
	ActionDefend
	ActionHeal
)

// String returns a human-readable action label.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	case ActionHeal:
		return "heal"
	default:
		return "unknown"
	}
}

var (
	// ErrNotYourTurn is returned when a participant acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrBattleEnded is returned when an action arrives after the battle resolved.
	ErrBattleEnded = errors.New("battle has ended")
	// ErrDuplicateSession is returned when a participant already has an active battle.
	ErrDuplicateSession = errors.New("participant already in a battle")
	// ErrSessionNotFound is returned when no active battle exists for a participant.
	ErrSessionNotFound = errors.New("no active battle for participant")
)
