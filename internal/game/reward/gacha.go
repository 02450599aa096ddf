package reward

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tent58518-cell/RPGgo/internal/game/catalog"
	"github.com/tent58518-cell/RPGgo/internal/game/player"
)

// GachaCost is the gold price of one gacha draw.
const GachaCost = 5

// DrawGacha spends gold on one weighted draw from the gacha pool. The
// rolled prize is held as pending until claimed or liquidated; a second
// draw is refused while a prize is outstanding.
func (r *Reconciler) DrawGacha(ctx context.Context, playerID string) (*player.PendingGacha, error) {
	p, err := r.repo.Load(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load player: %w", err)
	}
	if p.PendingGacha != nil {
		return nil, ErrPendingGacha
	}
	entries := r.catalog.GachaEntries()
	if len(entries) == 0 {
		return nil, ErrEmptyGacha
	}
	if !p.SpendGold(GachaCost) {
		return nil, ErrInsufficientGold
	}

	entry := catalog.PickGachaEntry(entries, r.src)
	tmpl, ok := r.catalog.Item(entry.Item)
	if !ok {
		return nil, fmt.Errorf("gacha references unknown item %q", entry.Item)
	}
	p.PendingGacha = &player.PendingGacha{
		Item: catalog.RollItem(tmpl, r.src),
		Gold: entry.Gold,
	}
	if err := r.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	r.logger.Info("gacha drawn",
		zap.String("player_id", playerID),
		zap.String("item", p.PendingGacha.Item.Name))
	return p.PendingGacha, nil
}

// ClaimGacha moves the pending prize into the player's inventory.
// An over-weight claim fails and leaves the prize pending, so the
// player may liquidate it instead.
func (r *Reconciler) ClaimGacha(ctx context.Context, playerID string) (*catalog.ItemInstance, error) {
	p, err := r.repo.Load(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load player: %w", err)
	}
	if p.PendingGacha == nil {
		return nil, ErrNoPendingGacha
	}

	limit := r.catalog.Role(p.Role).WeightLimit
	added, err := p.AddItem(p.PendingGacha.Item, limit)
	if err != nil {
		return nil, err
	}
	p.PendingGacha = nil
	if err := r.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	return added, nil
}

// LiquidateGacha converts the pending prize into its payout gold.
func (r *Reconciler) LiquidateGacha(ctx context.Context, playerID string) (int, error) {
	p, err := r.repo.Load(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("load player: %w", err)
	}
	if p.PendingGacha == nil {
		return 0, ErrNoPendingGacha
	}

	payout := r.catalog.Payout(p.PendingGacha.Item.Name)
	p.AddGold(payout)
	p.PendingGacha = nil
	if err := r.repo.Save(ctx, p); err != nil {
		return 0, fmt.Errorf("save player: %w", err)
	}
	return payout, nil
}
