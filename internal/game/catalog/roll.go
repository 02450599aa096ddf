package catalog

import (
	"github.com/google/uuid"

	"github.com/tent58518-cell/RPGgo/internal/game/dice"
)

// ItemInstance is a concrete item realization: one integer per stat drawn
// from the template's ranges. Immutable after rolling except for the
// Equipped flag.
type ItemInstance struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Attack   int    `json:"attack"`
	Defense  int    `json:"defense"`
	Speed    int    `json:"speed"`
	MP       int    `json:"mp"`
	Weight   int    `json:"weight"`
	Rarity   string `json:"rarity"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
	Equipped bool   `json:"equipped"`
}

// MonsterInstance is a concrete monster realization rolled at battle start.
type MonsterInstance struct {
	ID      string
	Name    string
	HP      int
	MP      int
	Attack  int
	Defense int
	Speed   int
	Danger  string
	Image   string
}

// RollItem draws a concrete ItemInstance from the template using src.
// Each stat is uniform in its inclusive [min, max] range. No side effects
// beyond consuming draws from src.
//
// Precondition: t must have passed Validate; src must be non-nil.
func RollItem(t *ItemTemplate, src dice.Source) ItemInstance {
	return ItemInstance{
		ID:       uuid.New().String(),
		Name:     t.Name,
		Attack:   dice.Between(src, t.Attack.Min, t.Attack.Max),
		Defense:  dice.Between(src, t.Defense.Min, t.Defense.Max),
		Speed:    dice.Between(src, t.Speed.Min, t.Speed.Max),
		MP:       dice.Between(src, t.MP.Min, t.MP.Max),
		Weight:   dice.Between(src, t.Weight.Min, t.Weight.Max),
		Rarity:   t.Rarity,
		Category: t.Category,
		Image:    t.Image,
	}
}

// RollMonster draws a concrete MonsterInstance from the template using src.
//
// Precondition: t must have passed Validate; src must be non-nil.
func RollMonster(t *MonsterTemplate, src dice.Source) MonsterInstance {
	return MonsterInstance{
		ID:      uuid.New().String(),
		Name:    t.Name,
		HP:      dice.Between(src, t.HP.Min, t.HP.Max),
		MP:      dice.Between(src, t.MP.Min, t.MP.Max),
		Attack:  dice.Between(src, t.Attack.Min, t.Attack.Max),
		Defense: dice.Between(src, t.Defense.Min, t.Defense.Max),
		Speed:   dice.Between(src, t.Speed.Min, t.Speed.Max),
		Danger:  t.Danger,
		Image:   t.Image,
	}
}

// PickMonster selects one monster template weighted by encounter Chance.
//
// Postcondition: Returns nil iff monsters is empty; otherwise every template
// with Chance >= 1 is reachable.
func PickMonster(monsters []*MonsterTemplate, src dice.Source) *MonsterTemplate {
	if len(monsters) == 0 {
		return nil
	}
	total := 0
	for _, m := range monsters {
		total += m.Chance
	}
	draw := src.Intn(total)
	for _, m := range monsters {
		draw -= m.Chance
		if draw < 0 {
			return m
		}
	}
	return monsters[0]
}

// PickGachaEntry selects one gacha entry weighted by its draw Chance.
//
// Postcondition: Returns nil iff entries is empty.
func PickGachaEntry(entries []GachaEntry, src dice.Source) *GachaEntry {
	if len(entries) == 0 {
		return nil
	}
	total := 0
	for i := range entries {
		total += entries[i].Chance
	}
	draw := src.Intn(total)
	for i := range entries {
		draw -= entries[i].Chance
		if draw < 0 {
			return &entries[i]
		}
	}
	return &entries[0]
}
