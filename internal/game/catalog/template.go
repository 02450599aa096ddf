// Package catalog provides the immutable content definitions the battle
// engine consumes: item and monster templates with ranged stats, role base
// stats, drop tables, and gacha payout tables.
package catalog

import "fmt"

// Equipment slot and item category constants for ItemTemplate.Category.
const (
	SlotHead         = "head"
	SlotBody         = "body"
	SlotFeet         = "feet"
	SlotWeapon       = "weapon"
	SlotEar          = "ear"
	SlotIndexFinger  = "index_finger"
	SlotMiddleFinger = "middle_finger"
	SlotRingFinger   = "ring_finger"
	SlotLittleFinger = "little_finger"
	SlotPiercing     = "piercing"
	SlotPiercing2    = "piercing2"
	SlotSpecial      = "special"
	SlotSpirit       = "spirit"
	SlotBlessing     = "blessing"
	SlotCurse        = "curse"

	// CategoryJunk marks vendor-trash drops that cannot be equipped.
	CategoryJunk = "junk"
	// CategoryHeal marks consumable healing items that cannot be equipped.
	CategoryHeal = "heal"
)

// EquipSlots is the fixed set of equipment slots, in display order.
var EquipSlots = []string{
	SlotHead, SlotBody, SlotFeet, SlotWeapon, SlotEar,
	SlotIndexFinger, SlotMiddleFinger, SlotRingFinger, SlotLittleFinger,
	SlotPiercing, SlotPiercing2, SlotSpecial, SlotSpirit, SlotBlessing, SlotCurse,
}

var equipSlotSet = func() map[string]bool {
	m := make(map[string]bool, len(EquipSlots))
	for _, s := range EquipSlots {
		m[s] = true
	}
	return m
}()

// IsEquipSlot reports whether category names an equipment slot
// (as opposed to junk or heal).
func IsEquipSlot(category string) bool {
	return equipSlotSet[category]
}

// validCategories is the set of valid item categories: every equip slot
// plus the two non-equippable kinds.
var validCategories = func() map[string]bool {
	m := make(map[string]bool, len(EquipSlots)+2)
	for _, s := range EquipSlots {
		m[s] = true
	}
	m[CategoryJunk] = true
	m[CategoryHeal] = true
	return m
}()

// validRarities is the set of recognised rarity grades.
var validRarities = map[string]bool{"A": true, "B": true, "C": true, "D": true}

// StatRange is an inclusive [Min, Max] range a concrete stat is rolled from.
// Min == Max is valid and deterministic.
type StatRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Validate checks Min <= Max.
func (r StatRange) Validate(stat string) error {
	if r.Min > r.Max {
		return fmt.Errorf("%s: min (%d) must be <= max (%d)", stat, r.Min, r.Max)
	}
	return nil
}

// ItemTemplate defines a catalog item loaded from YAML. Concrete item
// instances roll one integer per stat from each range.
type ItemTemplate struct {
	Name     string    `yaml:"name"`
	Attack   StatRange `yaml:"attack"`
	Defense  StatRange `yaml:"defense"`
	Speed    StatRange `yaml:"speed"`
	MP       StatRange `yaml:"mp"`
	Weight   StatRange `yaml:"weight"`
	Rarity   string    `yaml:"rarity"`
	Category string    `yaml:"category"`
	// Image is an opaque reference for the presentation layer; the engine
	// only carries it through.
	Image string `yaml:"image"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff Name is non-empty, every stat range has
// min <= max, weight is non-negative, and rarity/category are recognised.
func (t *ItemTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("item template: name must not be empty")
	}
	for _, check := range []struct {
		stat string
		r    StatRange
	}{
		{"attack", t.Attack}, {"defense", t.Defense}, {"speed", t.Speed},
		{"mp", t.MP}, {"weight", t.Weight},
	} {
		if err := check.r.Validate(check.stat); err != nil {
			return fmt.Errorf("item template %q: %w", t.Name, err)
		}
	}
	if t.Weight.Min < 0 {
		return fmt.Errorf("item template %q: weight must be >= 0, got %d", t.Name, t.Weight.Min)
	}
	if !validRarities[t.Rarity] {
		return fmt.Errorf("item template %q: rarity must be one of A, B, C, D; got %q", t.Name, t.Rarity)
	}
	if !validCategories[t.Category] {
		return fmt.Errorf("item template %q: unknown category %q", t.Name, t.Category)
	}
	return nil
}

// Equippable reports whether rolled instances of this template can occupy
// an equipment slot.
func (t *ItemTemplate) Equippable() bool {
	return IsEquipSlot(t.Category)
}

// MonsterTemplate defines a catalog monster loaded from YAML.
type MonsterTemplate struct {
	Name    string    `yaml:"name"`
	HP      StatRange `yaml:"hp"`
	MP      StatRange `yaml:"mp"`
	Attack  StatRange `yaml:"attack"`
	Defense StatRange `yaml:"defense"`
	Speed   StatRange `yaml:"speed"`
	// Chance is the relative encounter weight used by PickMonster.
	Chance int `yaml:"chance"`
	// Danger is the danger tier label, informational only.
	Danger string `yaml:"danger"`
	Image  string `yaml:"image"`
}

// Validate checks that the template satisfies basic invariants.
//
// Postcondition: Returns nil iff Name is non-empty, every stat range has
// min <= max, HP min >= 1, and Chance >= 1.
func (t *MonsterTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("monster template: name must not be empty")
	}
	for _, check := range []struct {
		stat string
		r    StatRange
	}{
		{"hp", t.HP}, {"mp", t.MP}, {"attack", t.Attack},
		{"defense", t.Defense}, {"speed", t.Speed},
	} {
		if err := check.r.Validate(check.stat); err != nil {
			return fmt.Errorf("monster template %q: %w", t.Name, err)
		}
	}
	if t.HP.Min < 1 {
		return fmt.Errorf("monster template %q: hp must be >= 1, got %d", t.Name, t.HP.Min)
	}
	if t.Chance < 1 {
		return fmt.Errorf("monster template %q: chance must be >= 1, got %d", t.Name, t.Chance)
	}
	return nil
}

// RoleStats holds the persistent base stats a role grants its players.
type RoleStats struct {
	Name        string `yaml:"name"`
	Attack      int    `yaml:"attack"`
	Defense     int    `yaml:"defense"`
	Speed       int    `yaml:"speed"`
	HP          int    `yaml:"hp"`
	MP          int    `yaml:"mp"`
	WeightLimit int    `yaml:"weight_limit"`
}

// DefaultRoleStats returns the fallback base stats for players with no
// configured role.
func DefaultRoleStats() RoleStats {
	return RoleStats{Attack: 5, Defense: 5, Speed: 5, HP: 50, MP: 20, WeightLimit: 50}
}

// Validate checks that the role satisfies basic invariants.
func (r *RoleStats) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("role: name must not be empty")
	}
	if r.HP < 1 {
		return fmt.Errorf("role %q: hp must be >= 1, got %d", r.Name, r.HP)
	}
	if r.WeightLimit < 0 {
		return fmt.Errorf("role %q: weight_limit must be >= 0, got %d", r.Name, r.WeightLimit)
	}
	return nil
}

// DropEntry maps a defeated monster to a potential item drop.
type DropEntry struct {
	Monster string `yaml:"monster"`
	Item    string `yaml:"item"`
	// Chance is the drop probability in percent; a [0,100) draw strictly
	// below it drops the item.
	Chance int `yaml:"chance"`
	// Gold is the sell value of the dropped item.
	Gold int `yaml:"gold"`
}

// Validate checks that the drop entry satisfies basic invariants.
func (d *DropEntry) Validate() error {
	if d.Monster == "" || d.Item == "" {
		return fmt.Errorf("drop entry: monster and item must not be empty")
	}
	if d.Chance < 1 || d.Chance > 100 {
		return fmt.Errorf("drop entry %q: chance must be in [1,100], got %d", d.Monster, d.Chance)
	}
	if d.Gold < 0 {
		return fmt.Errorf("drop entry %q: gold must be >= 0, got %d", d.Monster, d.Gold)
	}
	return nil
}

// GachaEntry is one weighted entry in the gacha pool, with its payout value.
type GachaEntry struct {
	Item string `yaml:"item"`
	// Chance is the relative draw weight used by PickGachaEntry.
	Chance int `yaml:"chance"`
	// Gold is the liquidation payout for this item.
	Gold int `yaml:"gold"`
}

// Validate checks that the gacha entry satisfies basic invariants.
func (g *GachaEntry) Validate() error {
	if g.Item == "" {
		return fmt.Errorf("gacha entry: item must not be empty")
	}
	if g.Chance < 1 {
		return fmt.Errorf("gacha entry %q: chance must be >= 1, got %d", g.Item, g.Chance)
	}
	if g.Gold < 0 {
		return fmt.Errorf("gacha entry %q: gold must be >= 0, got %d", g.Item, g.Gold)
	}
	return nil
}
