// Package blueprint models the content definitions registered by the
// blueprint cache and classifies them into the catalog's variants.
//
// A blueprint's variant is discovered by capability: each recognized kind
// exposes a single accessor (AbilityData, ActivatableData, ItemData,
// EnchantmentData). Kinds without one of those accessors are unclassified
// and ignored by the catalog.
package blueprint

import (
	"reflect"

	"github.com/google/uuid"
)

// Blueprint is any content definition known to the blueprint cache.
type Blueprint interface {
	BlueprintGUID() uuid.UUID
	BlueprintName() string
}

// Header carries the identity shared by every blueprint kind.
type Header struct {
	GUID uuid.UUID
	Name string
}

// BlueprintGUID returns the cache identity of the blueprint.
func (h Header) BlueprintGUID() uuid.UUID { return h.GUID }

// BlueprintName returns the internal name of the blueprint.
func (h Header) BlueprintName() string { return h.Name }

// AbilityBlueprint is satisfied by castable abilities.
type AbilityBlueprint interface {
	Blueprint
	AbilityData() *Ability
}

// ActivatableBlueprint is satisfied by toggled abilities.
type ActivatableBlueprint interface {
	Blueprint
	ActivatableData() *ActivatableAbility
}

// ItemBlueprint is satisfied by items.
type ItemBlueprint interface {
	Blueprint
	ItemData() *Item
}

// EnchantmentBlueprint is satisfied by item enchantments.
type EnchantmentBlueprint interface {
	Blueprint
	EnchantmentData() *Enchantment
}

// AbilityType distinguishes how an ability is powered.
type AbilityType string

const (
	AbilityTypeSpell         AbilityType = "spell"
	AbilityTypeSpellLike     AbilityType = "spell_like"
	AbilityTypeSupernatural  AbilityType = "supernatural"
	AbilityTypeExtraordinary AbilityType = "extraordinary"
	AbilityTypePhysical      AbilityType = "physical"
)

// Ability is a castable ability or spell.
type Ability struct {
	Header
	Type        AbilityType
	Range       string
	Description string
	Parent      uuid.UUID
}

// AbilityData returns the ability definition.
func (a *Ability) AbilityData() *Ability { return a }

// ActivatableAbility is an ability toggled on and off, such as a stance.
type ActivatableAbility struct {
	Header
	Group                 string
	DeactivateImmediately bool
	Description           string
}

// ActivatableData returns the activatable definition.
func (a *ActivatableAbility) ActivatableData() *ActivatableAbility { return a }

// ItemKind is the equipment slot family of an item.
type ItemKind string

const (
	ItemKindWeapon    ItemKind = "weapon"
	ItemKindArmor     ItemKind = "armor"
	ItemKindShield    ItemKind = "shield"
	ItemKindUsable    ItemKind = "usable"
	ItemKindEquipment ItemKind = "equipment"
	ItemKindOther     ItemKind = "other"
)

// Item is an inventory item.
type Item struct {
	Header
	Kind         ItemKind
	Cost         int
	Weight       float64
	Enchantments []uuid.UUID
}

// ItemData returns the item definition.
func (i *Item) ItemData() *Item { return i }

// Enchantment is an item enchantment.
type Enchantment struct {
	Header
	EnchantmentCost int
	Prefix          string
	Suffix          string
}

// EnchantmentData returns the enchantment definition.
func (e *Enchantment) EnchantmentData() *Enchantment { return e }

// Feature is a character feature. The catalog does not track it.
type Feature struct {
	Header
	Groups []string
}

// Unit is a creature definition. The catalog does not track it.
type Unit struct {
	Header
	ChallengeRating int
}

// IsNil reports whether bp is nil or a typed nil pointer.
func IsNil(bp Blueprint) bool {
	if bp == nil {
		return true
	}
	v := reflect.ValueOf(bp)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}
