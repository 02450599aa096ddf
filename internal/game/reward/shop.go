package reward

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tent58518-cell/RPGgo/internal/game/catalog"
	"github.com/tent58518-cell/RPGgo/internal/game/player"
)

// SellItem removes an unequipped item from the player's inventory and
// credits its sale value. The value comes from the gacha payout table
// first, then the drop table, then a flat single coin for junk; items
// matching none of those cannot be sold.
func (r *Reconciler) SellItem(ctx context.Context, playerID, itemID string) (int, error) {
	p, err := r.repo.Load(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("load player: %w", err)
	}
	inst, ok := p.Item(itemID)
	if !ok {
		return 0, player.ErrItemNotFound
	}

	price, ok := r.salePrice(inst)
	if !ok {
		return 0, ErrUnsellable
	}
	if _, err := p.RemoveItem(itemID); err != nil {
		return 0, err
	}
	p.AddGold(price)
	if err := r.repo.Save(ctx, p); err != nil {
		return 0, fmt.Errorf("save player: %w", err)
	}
	r.logger.Info("item sold",
		zap.String("player_id", playerID),
		zap.String("item", inst.Name),
		zap.Int("gold", price))
	return price, nil
}

// salePrice resolves an item's sale value by precedence: gacha payout,
// then drop gold, then one coin for junk. A resolved value of zero means
// the item has no price and cannot be sold.
func (r *Reconciler) salePrice(inst *catalog.ItemInstance) (int, bool) {
	price := 0
	if g, ok := r.catalog.PayoutFor(inst.Name); ok {
		price = g
	} else if g, ok := r.catalog.DropGoldFor(inst.Name); ok {
		price = g
	} else if inst.Category == catalog.CategoryJunk {
		price = 1
	}
	if price == 0 {
		return 0, false
	}
	return price, true
}

// EquipItem equips the identified inventory item into its slot, evicting
// any current occupant, subject to the projected weight check.
func (r *Reconciler) EquipItem(ctx context.Context, playerID, itemID string) error {
	p, err := r.repo.Load(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load player: %w", err)
	}
	limit := r.catalog.Role(p.Role).WeightLimit
	if err := p.Equip(itemID, limit); err != nil {
		return err
	}
	return r.repo.Save(ctx, p)
}

// UnequipSlot clears the named equipment slot.
func (r *Reconciler) UnequipSlot(ctx context.Context, playerID, slot string) error {
	p, err := r.repo.Load(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load player: %w", err)
	}
	p.Unequip(slot)
	return r.repo.Save(ctx, p)
}
