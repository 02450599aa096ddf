package battle

import (
	"sync"
	"time"
)

// TurnTimer enforces the action deadline for one session's current turn.
// Each arming captures the session's sequence number; when the deadline
// passes, the timer forfeits that exact turn and no other. A timeout that
// loses the race with a normally applied turn finds a stale sequence
// number and forfeits nothing. Safe for concurrent use.
type TurnTimer struct {
	sess      *Session
	duration  time.Duration
	onForfeit func(Result)

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewTurnTimer creates a timer armed for the session's current turn.
// onForfeit is called in a separate goroutine, only when the forfeit
// actually applied.
//
// Precondition: sess and onForfeit must be non-nil; duration > 0.
func NewTurnTimer(sess *Session, duration time.Duration, onForfeit func(Result)) *TurnTimer {
	tt := &TurnTimer{sess: sess, duration: duration, onForfeit: onForfeit}
	tt.Rearm()
	return tt
}

// Rearm restarts the deadline for the session's current turn, capturing
// its sequence number anew.
//
// Postcondition: the turn current at the time of the call will be
// forfeited after the full duration unless it is applied or Stop is
// called first.
func (tt *TurnTimer) Rearm() {
	seq := tt.sess.Seq()

	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.stopped = false
	if tt.timer != nil {
		tt.timer.Stop()
	}
	tt.timer = time.AfterFunc(tt.duration, tt.fire(seq))
}

// fire builds the expiry callback for the turn identified by seq.
func (tt *TurnTimer) fire(seq int) func() {
	return func() {
		tt.mu.Lock()
		stopped := tt.stopped
		tt.mu.Unlock()
		if stopped {
			return
		}
		if res, ok := tt.sess.Forfeit(seq); ok {
			tt.onForfeit(res)
		}
	}
}

// Stop prevents any pending forfeit from firing. Safe to call multiple times.
//
// Postcondition: onForfeit will not be called after Stop returns.
func (tt *TurnTimer) Stop() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.stopped = true
	if tt.timer != nil {
		tt.timer.Stop()
	}
}
