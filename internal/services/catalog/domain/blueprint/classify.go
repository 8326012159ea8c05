package blueprint

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNilBlueprint indicates a nil or typed-nil blueprint value.
	ErrNilBlueprint = errors.New("blueprint: nil blueprint")
	// ErrMissingGUID indicates a blueprint without a cache identity.
	ErrMissingGUID = errors.New("blueprint: missing guid")
)

// Validate reports whether bp can be classified and stored.
func Validate(bp Blueprint) error {
	if IsNil(bp) {
		return ErrNilBlueprint
	}
	if bp.BlueprintGUID() == uuid.Nil {
		return ErrMissingGUID
	}
	return nil
}

// Classify returns the first variant bp satisfies, checking Ability,
// ActivatableAbility, Item and Enchantment in that order.
func Classify(bp Blueprint) Variant {
	if _, ok := bp.(AbilityBlueprint); ok {
		return VariantAbility
	}
	if _, ok := bp.(ActivatableBlueprint); ok {
		return VariantActivatableAbility
	}
	if _, ok := bp.(ItemBlueprint); ok {
		return VariantItem
	}
	if _, ok := bp.(EnchantmentBlueprint); ok {
		return VariantEnchantment
	}
	return VariantUnclassified
}

// Matches returns every variant bp satisfies, in priority order.
// More than one entry means bp's kind exposes several capabilities.
func Matches(bp Blueprint) []Variant {
	var out []Variant
	if _, ok := bp.(AbilityBlueprint); ok {
		out = append(out, VariantAbility)
	}
	if _, ok := bp.(ActivatableBlueprint); ok {
		out = append(out, VariantActivatableAbility)
	}
	if _, ok := bp.(ItemBlueprint); ok {
		out = append(out, VariantItem)
	}
	if _, ok := bp.(EnchantmentBlueprint); ok {
		out = append(out, VariantEnchantment)
	}
	return out
}
