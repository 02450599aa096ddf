package catalog

import "fmt"

// Catalog is the resolved, validated content set the engine reads from.
// It is immutable after Load and safe for concurrent reads.
type Catalog struct {
	items    map[string]*ItemTemplate
	itemList []*ItemTemplate
	monsters map[string]*MonsterTemplate
	monList  []*MonsterTemplate
	roles    map[string]RoleStats
	drops    map[string]DropEntry
	gacha    []GachaEntry
	payouts  map[string]int
}

// New assembles a Catalog from already-validated parts.
//
// Precondition: every template, role, and entry must have passed Validate.
// Postcondition: Returns an error on duplicate item, monster, or role names,
// or on drop/gacha entries referencing unknown items or monsters.
func New(items []*ItemTemplate, monsters []*MonsterTemplate, roles []RoleStats, drops []DropEntry, gacha []GachaEntry) (*Catalog, error) {
	c := &Catalog{
		items:    make(map[string]*ItemTemplate, len(items)),
		monsters: make(map[string]*MonsterTemplate, len(monsters)),
		roles:    make(map[string]RoleStats, len(roles)),
		drops:    make(map[string]DropEntry, len(drops)),
		payouts:  make(map[string]int, len(gacha)),
	}

	for _, it := range items {
		if _, dup := c.items[it.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate item %q", it.Name)
		}
		c.items[it.Name] = it
		c.itemList = append(c.itemList, it)
	}
	for _, m := range monsters {
		if _, dup := c.monsters[m.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate monster %q", m.Name)
		}
		c.monsters[m.Name] = m
		c.monList = append(c.monList, m)
	}
	for _, r := range roles {
		if _, dup := c.roles[r.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate role %q", r.Name)
		}
		c.roles[r.Name] = r
	}
	for _, d := range drops {
		if _, ok := c.monsters[d.Monster]; !ok {
			return nil, fmt.Errorf("catalog: drop entry references unknown monster %q", d.Monster)
		}
		if _, ok := c.items[d.Item]; !ok {
			return nil, fmt.Errorf("catalog: drop entry references unknown item %q", d.Item)
		}
		c.drops[d.Monster] = d
	}
	for _, g := range gacha {
		if _, ok := c.items[g.Item]; !ok {
			return nil, fmt.Errorf("catalog: gacha entry references unknown item %q", g.Item)
		}
		c.gacha = append(c.gacha, g)
		c.payouts[g.Item] = g.Gold
	}
	return c, nil
}

// Item returns the item template with the given name.
func (c *Catalog) Item(name string) (*ItemTemplate, bool) {
	t, ok := c.items[name]
	return t, ok
}

// Items returns all item templates in load order.
func (c *Catalog) Items() []*ItemTemplate {
	return c.itemList
}

// Monster returns the monster template with the given name.
func (c *Catalog) Monster(name string) (*MonsterTemplate, bool) {
	t, ok := c.monsters[name]
	return t, ok
}

// Monsters returns all monster templates in load order.
func (c *Catalog) Monsters() []*MonsterTemplate {
	return c.monList
}

// Role returns the base stats for the named role, or the default role stats
// when the role is unknown or empty.
func (c *Catalog) Role(name string) RoleStats {
	if r, ok := c.roles[name]; ok {
		return r
	}
	return DefaultRoleStats()
}

// DropFor returns the drop-table entry for the named monster.
// Absence means the monster drops nothing.
func (c *Catalog) DropFor(monster string) (DropEntry, bool) {
	d, ok := c.drops[monster]
	return d, ok
}

// GachaEntries returns the gacha pool in load order.
func (c *Catalog) GachaEntries() []GachaEntry {
	return c.gacha
}

// Payout returns the gacha payout gold for the named item, defaulting to 1
// when the item has no configured payout.
func (c *Catalog) Payout(item string) int {
	if g, ok := c.payouts[item]; ok {
		return g
	}
	return 1
}

// PayoutFor returns the configured gacha payout for the named item.
func (c *Catalog) PayoutFor(item string) (int, bool) {
	g, ok := c.payouts[item]
	return g, ok
}

// DropGoldFor returns the gold value of the first drop-table entry that
// awards the named item.
func (c *Catalog) DropGoldFor(item string) (int, bool) {
	for _, d := range c.drops {
		if d.Item == item {
			return d.Gold, true
		}
	}
	return 0, false
}

// SpoilPool returns the item templates eligible as PvP spoils: everything
// except junk drops and heal consumables.
func (c *Catalog) SpoilPool() []*ItemTemplate {
	var pool []*ItemTemplate
	for _, it := range c.itemList {
		if it.Category == CategoryJunk || it.Category == CategoryHeal {
			continue
		}
		pool = append(pool, it)
	}
	return pool
}

// ItemCount returns the number of item templates.
func (c *Catalog) ItemCount() int { return len(c.itemList) }

// MonsterCount returns the number of monster templates.
func (c *Catalog) MonsterCount() int { return len(c.monList) }
