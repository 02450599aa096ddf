// Package reward settles battle outcomes and out-of-battle economy
// operations against the weight-limited player inventory.
package reward

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tent58518-cell/RPGgo/internal/game/catalog"
	"github.com/tent58518-cell/RPGgo/internal/game/dice"
	"github.com/tent58518-cell/RPGgo/internal/game/player"
)

const (
	pvpWinnerGold = 10
	pvpLoserGold  = 5
)

var (
	// ErrInsufficientGold is returned when a purchase exceeds the player's gold.
	ErrInsufficientGold = errors.New("not enough gold")
	// ErrUnsellable is returned for items with no configured sale value.
	ErrUnsellable = errors.New("item cannot be sold")
	// ErrPendingGacha is returned when a draw is attempted with an unclaimed prize.
	ErrPendingGacha = errors.New("unclaimed gacha prize outstanding")
	// ErrNoPendingGacha is returned when there is no prize to claim or liquidate.
	ErrNoPendingGacha = errors.New("no gacha prize outstanding")
	// ErrEmptyGacha is returned when the content set has no gacha pool.
	ErrEmptyGacha = errors.New("gacha pool is empty")
)

// Reconciler applies terminal battle outcomes and inventory operations
// to persistent player records. It is stateless; all methods are safe
// for concurrent use as long as the repository serializes per-player writes.
type Reconciler struct {
	repo    player.Repository
	catalog *catalog.Catalog
	src     dice.Source
	logger  *zap.Logger
}

// NewReconciler creates a Reconciler.
//
// Precondition: all arguments must be non-nil.
func NewReconciler(repo player.Repository, cat *catalog.Catalog, src dice.Source, logger *zap.Logger) *Reconciler {
	return &Reconciler{repo: repo, catalog: cat, src: src, logger: logger}
}

// PvEWin settles a victory over the named monster: the drop item is rolled
// against its chance. Gold never changes hands in PvE; the drop entry's
// gold is only the item's sale value. A drop that does not fit under the
// weight limit is discarded without compensation.
func (r *Reconciler) PvEWin(ctx context.Context, playerID, monsterName string) error {
	p, err := r.repo.Load(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load winner: %w", err)
	}

	drop, ok := r.catalog.DropFor(monsterName)
	if !ok {
		return r.repo.Save(ctx, p)
	}

	if dice.Percent(r.src) < drop.Chance {
		tmpl, ok := r.catalog.Item(drop.Item)
		if !ok {
			return fmt.Errorf("drop references unknown item %q", drop.Item)
		}
		inst := catalog.RollItem(tmpl, r.src)
		limit := r.catalog.Role(p.Role).WeightLimit
		if _, err := p.AddItem(inst, limit); err != nil {
			if !errors.Is(err, player.ErrOverWeight) {
				return fmt.Errorf("add drop: %w", err)
			}
			r.logger.Info("drop discarded over weight limit",
				zap.String("player_id", playerID),
				zap.String("item", inst.Name))
		} else {
			r.logger.Info("drop awarded",
				zap.String("player_id", playerID),
				zap.String("item", inst.Name))
		}
	}
	return r.repo.Save(ctx, p)
}

// PvELoss records a defeat. Losing to a monster costs nothing.
func (r *Reconciler) PvELoss(_ context.Context, playerID string) error {
	r.logger.Info("pve defeat", zap.String("player_id", playerID))
	return nil
}

// PvPResolved settles a duel: the winner gains gold, the loser pays
// gold floored at zero, and the winner takes one rolled spoil item.
// A spoil that does not fit is liquidated at its gacha payout instead.
func (r *Reconciler) PvPResolved(ctx context.Context, winnerID, loserID string) error {
	winner, err := r.repo.Load(ctx, winnerID)
	if err != nil {
		return fmt.Errorf("load winner: %w", err)
	}
	loser, err := r.repo.Load(ctx, loserID)
	if err != nil {
		return fmt.Errorf("load loser: %w", err)
	}

	winner.AddGold(pvpWinnerGold)
	loser.DeductGold(pvpLoserGold)

	if pool := r.catalog.SpoilPool(); len(pool) > 0 {
		tmpl := pool[r.src.Intn(len(pool))]
		inst := catalog.RollItem(tmpl, r.src)
		limit := r.catalog.Role(winner.Role).WeightLimit
		if _, err := winner.AddItem(inst, limit); err != nil {
			if !errors.Is(err, player.ErrOverWeight) {
				return fmt.Errorf("add spoil: %w", err)
			}
			payout := r.catalog.Payout(inst.Name)
			winner.AddGold(payout)
			r.logger.Info("spoil liquidated over weight limit",
				zap.String("winner_id", winnerID),
				zap.String("item", inst.Name),
				zap.Int("gold", payout))
		} else {
			r.logger.Info("spoil awarded",
				zap.String("winner_id", winnerID),
				zap.String("item", inst.Name))
		}
	}

	if err := r.repo.Save(ctx, winner); err != nil {
		return fmt.Errorf("save winner: %w", err)
	}
	if err := r.repo.Save(ctx, loser); err != nil {
		return fmt.Errorf("save loser: %w", err)
	}
	return nil
}
