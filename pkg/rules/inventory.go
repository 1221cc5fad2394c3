package rules

import (
	"log/slog"

	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/actor"
	"github.com/jwebster45206/grid-engine/pkg/dice"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

// InventoryModule handles equipment slots, consumables and dropping
// items. Equipment bonuses are applied by the character itself; this
// module supplies validation and logging.
type InventoryModule struct {
	gs     *state.GameState
	roller dice.Roller
	log    *slog.Logger
}

func NewInventory(gs *state.GameState, roller dice.Roller, log *slog.Logger) *InventoryModule {
	return &InventoryModule{gs: gs, roller: roller, log: log}
}

func (m *InventoryModule) CanHandle(a action.Action) bool {
	switch a.Type {
	case action.TypeEquip, action.TypeUnequip, action.TypeUseItem, action.TypeDropItem:
		return true
	}
	return false
}

func (m *InventoryModule) Process(a action.Action) (bool, error) {
	c := m.gs.Character(a.ActorID())
	if c == nil {
		return false, nil
	}
	switch a.Type {
	case action.TypeEquip:
		return m.equip(c, a.ItemName), nil
	case action.TypeUnequip:
		return m.unequip(c, a.ItemName), nil
	case action.TypeUseItem:
		return m.useItem(c, a.ItemName), nil
	case action.TypeDropItem:
		return m.dropItem(c, a.ItemName), nil
	}
	return false, nil
}

func (m *InventoryModule) equip(c *actor.Character, name string) bool {
	item := c.FindItem(name)
	if item == nil {
		m.gs.Logf("%s doesn't have %s", c.Name, name)
		return false
	}
	if !c.Equip(item.Name) {
		m.gs.Logf("%s cannot equip %s", c.Name, item.Name)
		return false
	}
	m.gs.Logf("%s equips %s", c.Name, item.Name)
	return true
}

func (m *InventoryModule) unequip(c *actor.Character, name string) bool {
	if !c.Unequip(name) {
		m.gs.Logf("%s doesn't have %s equipped", c.Name, name)
		return false
	}
	m.gs.Logf("%s unequips %s", c.Name, name)
	return true
}

// useItem consumes one charge of a consumable. Used items heal through
// their healing dice; a consumable that runs out is removed from the
// inventory.
func (m *InventoryModule) useItem(c *actor.Character, name string) bool {
	item := c.FindItem(name)
	if item == nil {
		m.gs.Logf("%s doesn't have %s", c.Name, name)
		return false
	}
	if item.Type != actor.ItemConsumable {
		m.gs.Logf("%s cannot be used", item.Name)
		return false
	}

	if item.Healing != "" {
		amount := dice.RollSpec(m.roller, item.Healing)
		before := c.HP
		c.Heal(amount)
		m.gs.Logf("%s uses %s and heals %d HP (HP: %d/%d)",
			c.Name, item.Name, c.HP-before, c.HP, c.MaxHP)
	} else {
		m.gs.Logf("%s uses %s", c.Name, item.Name)
	}

	item.Quantity--
	if item.Quantity <= 0 {
		c.RemoveItem(item)
	}
	return true
}

func (m *InventoryModule) dropItem(c *actor.Character, name string) bool {
	item := c.FindItem(name)
	if item == nil {
		m.gs.Logf("%s doesn't have %s", c.Name, name)
		return false
	}
	c.RemoveItem(item)
	m.gs.Logf("%s drops %s", c.Name, item.Name)
	return true
}

func (m *InventoryModule) AvailableActions(characterID string) []action.Descriptor {
	c := m.gs.Character(characterID)
	if c == nil {
		return nil
	}
	actions := make([]action.Descriptor, 0)
	for _, item := range c.Inventory {
		switch item.Type {
		case actor.ItemWeapon, actor.ItemArmor, actor.ItemShield:
			if equipped := c.Equipped[item.Slot()]; equipped == item {
				continue
			}
			actions = append(actions, action.Descriptor{
				Type:        action.TypeEquip,
				Name:        "Equip " + item.Name,
				Description: "Equip " + item.Name,
				ItemName:    item.Name,
			})
		case actor.ItemConsumable:
			actions = append(actions, action.Descriptor{
				Type:        action.TypeUseItem,
				Name:        "Use " + item.Name,
				Description: "Use " + item.Name,
				ItemName:    item.Name,
			})
		}
	}
	return actions
}
