package blueprint

import (
	"errors"
	"strings"
)

// Variant identifies which catalog collection a blueprint belongs to.
type Variant uint8

const (
	VariantUnclassified Variant = iota
	VariantAbility
	VariantActivatableAbility
	VariantItem
	VariantEnchantment
)

// ErrUnknownVariant is returned when parsing an unrecognized variant name.
var ErrUnknownVariant = errors.New("blueprint: unknown variant")

// Variants returns the recognized variants in classification priority order.
func Variants() []Variant {
	return []Variant{
		VariantAbility,
		VariantActivatableAbility,
		VariantItem,
		VariantEnchantment,
	}
}

// String returns the stable name used in exports and logs.
func (v Variant) String() string {
	switch v {
	case VariantAbility:
		return "ability"
	case VariantActivatableAbility:
		return "activatable_ability"
	case VariantItem:
		return "item"
	case VariantEnchantment:
		return "enchantment"
	default:
		return "unclassified"
	}
}

// Recognized reports whether v maps to a catalog collection.
func (v Variant) Recognized() bool {
	return v >= VariantAbility && v <= VariantEnchantment
}

// ParseVariant maps a variant name back to its value.
func ParseVariant(value string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ability":
		return VariantAbility, nil
	case "activatable_ability":
		return VariantActivatableAbility, nil
	case "item":
		return VariantItem, nil
	case "enchantment":
		return VariantEnchantment, nil
	case "unclassified":
		return VariantUnclassified, nil
	}
	return VariantUnclassified, ErrUnknownVariant
}
