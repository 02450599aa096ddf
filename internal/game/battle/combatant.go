package battle

import (
	"github.com/tent58518-cell/RPGgo/internal/game/catalog"
	"github.com/tent58518-cell/RPGgo/internal/game/player"
)

// Role distinguishes player combatants from monster combatants.
type Role int

const (
	RolePlayer Role = iota
	RoleMonster
)

const (
	playerCritChance  = 15
	monsterCritChance = 10
)

// Combatant holds the live battle state of one participant.
type Combatant struct {
	// ID is the participant ID for players, or a generated instance ID for monsters.
	ID   string
	Role Role
	Name string

	MaxHP     int
	CurrentHP int
	MaxMP     int
	CurrentMP int
	Attack    int
	Defense   int
	Speed     int

	// DefenseActive is set by a defend action and cleared after the next
	// attack attempt against this combatant, whether or not it lands.
	DefenseActive bool
}

// NewPlayerCombatant builds a combatant from a player's final stats.
//
// Precondition: id must be non-empty.
// Postcondition: CurrentHP == MaxHP and CurrentMP == MaxMP.
func NewPlayerCombatant(id, name string, stats player.FinalStats) *Combatant {
	return &Combatant{
		ID:        id,
		Role:      RolePlayer,
		Name:      name,
		MaxHP:     stats.HP,
		CurrentHP: stats.HP,
		MaxMP:     stats.MP,
		CurrentMP: stats.MP,
		Attack:    stats.Attack,
		Defense:   stats.Defense,
		Speed:     stats.Speed,
	}
}

// NewMonsterCombatant builds a combatant from a rolled monster instance.
//
// Postcondition: CurrentHP == MaxHP and CurrentMP == MaxMP.
func NewMonsterCombatant(m catalog.MonsterInstance) *Combatant {
	return &Combatant{
		ID:        m.ID,
		Role:      RoleMonster,
		Name:      m.Name,
		MaxHP:     m.HP,
		CurrentHP: m.HP,
		MaxMP:     m.MP,
		CurrentMP: m.MP,
		Attack:    m.Attack,
		Defense:   m.Defense,
		Speed:     m.Speed,
	}
}

// IsDead reports whether this combatant has been reduced to 0 HP or below.
func (c *Combatant) IsDead() bool { return c.CurrentHP <= 0 }

// critChance returns the critical hit percentage for this combatant's role.
func (c *Combatant) critChance() int {
	if c.Role == RolePlayer {
		return playerCritChance
	}
	return monsterCritChance
}

// evadeChance returns the percentage chance this combatant evades an
// incoming attack: one percent per ten points of speed, rounded down.
func (c *Combatant) evadeChance() int { return c.Speed / 10 }

// applyDamage reduces CurrentHP by amount. HP is deliberately not floored
// at zero: a lethal overkill leaves a negative value, which the battle log
// renders as-is.
//
// Precondition: amount must be >= 0.
func (c *Combatant) applyDamage(amount int) {
	c.CurrentHP -= amount
}

// heal raises CurrentHP by amount, capped at MaxHP.
//
// Precondition: amount must be >= 0.
// Postcondition: CurrentHP <= MaxHP.
func (c *Combatant) heal(amount int) {
	c.CurrentHP += amount
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
}
