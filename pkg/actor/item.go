package actor

import "strings"

// ItemType categorizes an item.
type ItemType string

const (
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemShield     ItemType = "shield"
	ItemConsumable ItemType = "consumable"
	ItemMisc       ItemType = "misc"
)

// Slot is a named equipment slot. Each slot holds a reference to an
// item that remains in the owner's inventory list.
type Slot string

const (
	SlotWeapon Slot = "weapon"
	SlotArmor  Slot = "armor"
	SlotShield Slot = "shield"
)

// Item is a piece of equipment or a consumable owned by exactly one
// character's inventory.
type Item struct {
	Name        string   `json:"name"`
	Type        ItemType `json:"type"`
	Damage      string   `json:"damage,omitempty"`  // damage dice, e.g. "1d8"
	AttackBonus int      `json:"attack_bonus,omitempty"`
	ACBonus     int      `json:"ac_bonus,omitempty"`
	Healing     string   `json:"healing,omitempty"` // healing dice, e.g. "2d4+2"
	Quantity    int      `json:"quantity,omitempty"`
	Weight      float64  `json:"weight,omitempty"`
}

// Slot returns the equipment slot this item occupies, or "" for items
// that cannot be equipped.
func (i *Item) Slot() Slot {
	switch i.Type {
	case ItemWeapon:
		return SlotWeapon
	case ItemArmor:
		return SlotArmor
	case ItemShield:
		return SlotShield
	}
	return ""
}

// FindItem locates an item in the character's inventory by name,
// case-insensitively. Returns nil if absent.
func (c *Character) FindItem(name string) *Item {
	for _, item := range c.Inventory {
		if strings.EqualFold(item.Name, name) {
			return item
		}
	}
	return nil
}

// Equip moves an inventory item reference into its slot, unequipping
// any prior occupant first, and applies its bonuses. Returns false if
// the item is not in the inventory or cannot be equipped.
func (c *Character) Equip(name string) bool {
	item := c.FindItem(name)
	if item == nil {
		return false
	}
	slot := item.Slot()
	if slot == "" {
		return false
	}
	if prior := c.Equipped[slot]; prior != nil {
		c.Unequip(prior.Name)
	}
	c.Equipped[slot] = item
	c.applyBonuses(item, true)
	return true
}

// Unequip removes the named item from whichever slot holds it and
// reverses its bonuses. Returns false if the item is not equipped.
func (c *Character) Unequip(name string) bool {
	for slot, item := range c.Equipped {
		if item != nil && strings.EqualFold(item.Name, name) {
			delete(c.Equipped, slot)
			c.applyBonuses(item, false)
			return true
		}
	}
	return false
}

// RemoveItem drops an item from the inventory, unequipping it first so
// no slot holds a reference to an item the character no longer owns.
func (c *Character) RemoveItem(item *Item) {
	c.Unequip(item.Name)
	for i, it := range c.Inventory {
		if it == item {
			c.Inventory = append(c.Inventory[:i], c.Inventory[i+1:]...)
			return
		}
	}
}

// applyBonuses adds or reverses an item's modifiers and recomputes AC.
func (c *Character) applyBonuses(item *Item, equip bool) {
	sign := 1
	if !equip {
		sign = -1
	}
	switch item.Type {
	case ItemWeapon:
		c.EquipAttackBonus += item.AttackBonus * sign
	case ItemArmor, ItemShield:
		c.EquipACBonus += item.ACBonus * sign
		c.RecomputeAC()
	}
}

// RecomputeAC rebuilds AC from base 10 plus the dexterity modifier
// (suppressed while body armor is worn) plus accumulated equipment bonus.
func (c *Character) RecomputeAC() {
	base := 10
	if c.Equipped[SlotArmor] == nil {
		base += c.AbilityModifier("dexterity")
	}
	c.AC = base + c.EquipACBonus
}

// StartingEquipment is the fighter kit granted to class-built player
// characters when a map is loaded.
func StartingEquipment() []*Item {
	return []*Item{
		{Name: "Longsword", Type: ItemWeapon, Damage: "1d8", AttackBonus: 0, Weight: 3},
		{Name: "Chain Mail", Type: ItemArmor, ACBonus: 6, Weight: 55},
		{Name: "Shield", Type: ItemShield, ACBonus: 2, Weight: 6},
		{Name: "Healing Potion", Type: ItemConsumable, Healing: "2d4+2", Quantity: 2},
		{Name: "Rations", Type: ItemMisc, Quantity: 10, Weight: 0.5},
	}
}

// GrantStartingEquipment fills the inventory with the starting kit and
// auto-equips the weapon, armor and shield.
func (c *Character) GrantStartingEquipment() {
	c.Inventory = append(c.Inventory, StartingEquipment()...)
	c.Equip("Longsword")
	c.Equip("Chain Mail")
	c.Equip("Shield")
}
