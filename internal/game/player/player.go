// Package player provides the persistent player record: gold, the
// weight-limited inventory of rolled item instances, and the equipment set.
package player

import (
	"errors"
	"fmt"

	"github.com/tent58518-cell/RPGgo/internal/game/catalog"
)

// StartingGold is granted to every newly created player.
const StartingGold = 50

// ErrOverWeight is returned when an inventory or equipment change would
// push the carried weight past the role's weight limit.
var ErrOverWeight = errors.New("weight limit exceeded")

// ErrItemNotFound is returned when an inventory lookup by instance ID fails.
var ErrItemNotFound = errors.New("item not found in inventory")

// ErrItemEquipped is returned when removing an item that is currently worn.
var ErrItemEquipped = errors.New("item is equipped")

// ErrNotEquippable is returned when equipping a junk or heal item.
var ErrNotEquippable = errors.New("item cannot be equipped")

// Player is one player's persistent record.
//
// Invariant (weight): the summed weight of Items never exceeds the role's
// weight limit after any mutation that returns nil.
// Invariant (equip exclusivity): at most one item per slot is flagged
// Equipped; Equipped map values always point into Items.
type Player struct {
	ID   string
	Role string
	Gold int
	// Items holds every carried instance, equipped ones included.
	Items []*catalog.ItemInstance
	// Equipped maps slot name to the worn instance; absent or nil means
	// the slot is empty.
	Equipped map[string]*catalog.ItemInstance
	// PendingGacha holds an unclaimed gacha result, if any.
	PendingGacha *PendingGacha
}

// PendingGacha is a rolled gacha item awaiting a claim-or-liquidate decision.
type PendingGacha struct {
	Item catalog.ItemInstance `json:"item"`
	Gold int                  `json:"gold"`
}

// New creates a fresh player record with starting gold, an empty inventory,
// and all equipment slots empty.
func New(id, role string) *Player {
	return &Player{
		ID:       id,
		Role:     role,
		Gold:     StartingGold,
		Equipped: make(map[string]*catalog.ItemInstance),
	}
}

// CarriedWeight returns the summed weight of every carried item, equipped
// ones included.
func (p *Player) CarriedWeight() int {
	total := 0
	for _, it := range p.Items {
		total += it.Weight
	}
	return total
}

// AddItem appends a rolled instance to the inventory if it fits under the
// weight limit.
//
// Postcondition: on nil, the item is carried and CarriedWeight() <= limit;
// on ErrOverWeight the inventory is unchanged.
func (p *Player) AddItem(inst catalog.ItemInstance, limit int) (*catalog.ItemInstance, error) {
	if p.CarriedWeight()+inst.Weight > limit {
		return nil, fmt.Errorf("adding %q (weight %d): %w", inst.Name, inst.Weight, ErrOverWeight)
	}
	inst.Equipped = false
	carried := inst
	p.Items = append(p.Items, &carried)
	return &carried, nil
}

// Item returns the carried instance with the given ID.
func (p *Player) Item(id string) (*catalog.ItemInstance, bool) {
	for _, it := range p.Items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// RemoveItem takes the instance with the given ID out of the inventory.
// Equipped items must be unequipped first.
//
// Postcondition: on nil error the returned copy is no longer carried.
func (p *Player) RemoveItem(id string) (catalog.ItemInstance, error) {
	for i, it := range p.Items {
		if it.ID != id {
			continue
		}
		if it.Equipped {
			return catalog.ItemInstance{}, fmt.Errorf("removing %q: %w", it.Name, ErrItemEquipped)
		}
		out := *it
		p.Items = append(p.Items[:i], p.Items[i+1:]...)
		return out, nil
	}
	return catalog.ItemInstance{}, fmt.Errorf("removing item %s: %w", id, ErrItemNotFound)
}

// Equip wears the carried instance with the given ID in its category's slot,
// evicting the current occupant back to the unequipped inventory.
//
// The projected weight is the current carried weight minus the evicted
// item's weight plus the new item's weight, checked against limit before
// committing.
//
// Postcondition: on nil, the item is the slot's sole occupant and any
// previous occupant remains in Items with its Equipped flag cleared; on
// error no state changes.
func (p *Player) Equip(id string, limit int) error {
	inst, ok := p.Item(id)
	if !ok {
		return fmt.Errorf("equipping item %s: %w", id, ErrItemNotFound)
	}
	if !catalog.IsEquipSlot(inst.Category) {
		return fmt.Errorf("equipping %q (category %s): %w", inst.Name, inst.Category, ErrNotEquippable)
	}

	slot := inst.Category
	evicted := p.Equipped[slot]
	evictedWeight := 0
	if evicted != nil {
		evictedWeight = evicted.Weight
	}
	if p.CarriedWeight()-evictedWeight+inst.Weight > limit {
		return fmt.Errorf("equipping %q into %s: %w", inst.Name, slot, ErrOverWeight)
	}

	if evicted != nil {
		evicted.Equipped = false
	}
	inst.Equipped = true
	p.Equipped[slot] = inst
	return nil
}

// Unequip clears the given slot, leaving the item in the inventory.
func (p *Player) Unequip(slot string) {
	if it := p.Equipped[slot]; it != nil {
		it.Equipped = false
	}
	delete(p.Equipped, slot)
}

// AddGold credits the player.
//
// Precondition: amount >= 0.
func (p *Player) AddGold(amount int) {
	p.Gold += amount
}

// DeductGold debits the player, flooring the balance at zero.
//
// Precondition: amount >= 0.
// Postcondition: Gold >= 0.
func (p *Player) DeductGold(amount int) {
	p.Gold -= amount
	if p.Gold < 0 {
		p.Gold = 0
	}
}

// SpendGold debits the player only when the balance covers the amount.
//
// Postcondition: Returns false and leaves Gold unchanged when the balance
// is insufficient.
func (p *Player) SpendGold(amount int) bool {
	if p.Gold < amount {
		return false
	}
	p.Gold -= amount
	return true
}

// RebuildEquipped reconstructs the Equipped map from the Equipped flags on
// Items. Called at the load boundary so the rest of the engine only ever
// sees a consistent equipment set: when two carried items claim the same
// slot, the first wins and later claimants have their flag cleared.
func (p *Player) RebuildEquipped() {
	p.Equipped = make(map[string]*catalog.ItemInstance)
	for _, it := range p.Items {
		if !it.Equipped {
			continue
		}
		if !catalog.IsEquipSlot(it.Category) {
			it.Equipped = false
			continue
		}
		if _, taken := p.Equipped[it.Category]; taken {
			it.Equipped = false
			continue
		}
		p.Equipped[it.Category] = it
	}
}
