package entities

// RarityLabels indexes rarity tier (0-4) to its display label
var RarityLabels = []string{"普通", "精良", "稀有", "史诗", "传说"}

// SlotLabels maps each slot to its display label used in item names
var SlotLabels = map[Slot]string{
	SlotWeapon:    "武器",
	SlotArmor:     "护甲",
	SlotHelmet:    "头盔",
	SlotBoots:     "靴子",
	SlotAccessory: "饰品",
}

// Equipment is a generated item. Attack is nonzero only for weapons,
// Defense only for every other slot. Items are never mutated after
// generation.
type Equipment struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Slot             Slot   `json:"type"`
	Rarity           int    `json:"rarity"`
	Attack           int    `json:"attack"`
	Defense          int    `json:"defense"`
	LevelRequirement int    `json:"levelRequirement"`
}
