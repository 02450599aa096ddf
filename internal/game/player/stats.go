package player

import "github.com/tent58518-cell/RPGgo/internal/game/catalog"

// FinalStats is the fully derived battle stat block for a player: role base
// stats plus the summed bonuses of every equipped item.
type FinalStats struct {
	Attack      int
	Defense     int
	Speed       int
	HP          int
	MP          int
	WeightLimit int
}

// FinalStats derives the player's battle stats from the given role base.
//
// Max HP is role HP plus role defense plus the equipped defense sum; items
// carry no HP stat of their own.
func (p *Player) FinalStats(role catalog.RoleStats) FinalStats {
	var atk, def, spd, mp int
	for _, it := range p.Equipped {
		if it == nil {
			continue
		}
		atk += it.Attack
		def += it.Defense
		spd += it.Speed
		mp += it.MP
	}
	return FinalStats{
		Attack:      role.Attack + atk,
		Defense:     role.Defense + def,
		Speed:       role.Speed + spd,
		HP:          role.HP + role.Defense + def,
		MP:          role.MP + mp,
		WeightLimit: role.WeightLimit,
	}
}
