package blueprintimporter

import (
	"strings"

	"github.com/google/uuid"

	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/cache"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/domain/blueprint"
)

const (
	fileAbilities    = "abilities.json"
	fileActivatables = "activatable_abilities.json"
	fileItems        = "items.json"
	fileEnchantments = "enchantments.json"
	fileFeatures     = "features.json"
	fileUnits        = "units.json"
)

// registrar counts what one pack replayed into the cache.
type registrar struct {
	cache        *cache.BlueprintsCache
	registered   int
	invalidGUIDs int
}

// guid parses a record guid. Invalid guids become uuid.Nil so the catalog's
// fault path rejects the blueprint while the cache still sees it.
func (r *registrar) guid(value string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		r.invalidGUIDs++
		return uuid.Nil
	}
	return id
}

// optionalGUID parses a reference that may be empty.
func optionalGUID(value string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (r *registrar) add(bp blueprint.Blueprint) {
	r.cache.AddCachedBlueprint(bp.BlueprintGUID(), bp)
	r.registered++
}

// registerPack replays every record of the pack as a cache registration.
// Files are replayed in a fixed order: abilities, activatable abilities,
// items, enchantments, features, units.
func (r *registrar) registerPack(p packPayloads) {
	if p.Abilities != nil {
		for _, rec := range p.Abilities.Items {
			r.add(&blueprint.Ability{
				Header:      blueprint.Header{GUID: r.guid(rec.GUID), Name: rec.Name},
				Type:        blueprint.AbilityType(strings.ToLower(strings.TrimSpace(rec.Type))),
				Range:       rec.Range,
				Description: rec.Description,
				Parent:      optionalGUID(rec.Parent),
			})
		}
	}
	if p.Activatables != nil {
		for _, rec := range p.Activatables.Items {
			r.add(&blueprint.ActivatableAbility{
				Header:                blueprint.Header{GUID: r.guid(rec.GUID), Name: rec.Name},
				Group:                 rec.Group,
				DeactivateImmediately: rec.DeactivateImmediately,
				Description:           rec.Description,
			})
		}
	}
	if p.Items != nil {
		for _, rec := range p.Items.Items {
			enchantments := make([]uuid.UUID, 0, len(rec.Enchantments))
			for _, ref := range rec.Enchantments {
				if id := optionalGUID(ref); id != uuid.Nil {
					enchantments = append(enchantments, id)
				}
			}
			r.add(&blueprint.Item{
				Header:       blueprint.Header{GUID: r.guid(rec.GUID), Name: rec.Name},
				Kind:         itemKind(rec.Kind),
				Cost:         rec.Cost,
				Weight:       rec.Weight,
				Enchantments: enchantments,
			})
		}
	}
	if p.Enchantments != nil {
		for _, rec := range p.Enchantments.Items {
			r.add(&blueprint.Enchantment{
				Header:          blueprint.Header{GUID: r.guid(rec.GUID), Name: rec.Name},
				EnchantmentCost: rec.EnchantmentCost,
				Prefix:          rec.Prefix,
				Suffix:          rec.Suffix,
			})
		}
	}
	if p.Features != nil {
		for _, rec := range p.Features.Items {
			r.add(&blueprint.Feature{
				Header: blueprint.Header{GUID: r.guid(rec.GUID), Name: rec.Name},
				Groups: append([]string{}, rec.Groups...),
			})
		}
	}
	if p.Units != nil {
		for _, rec := range p.Units.Items {
			r.add(&blueprint.Unit{
				Header:          blueprint.Header{GUID: r.guid(rec.GUID), Name: rec.Name},
				ChallengeRating: rec.ChallengeRating,
			})
		}
	}
}

func itemKind(value string) blueprint.ItemKind {
	switch kind := blueprint.ItemKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case blueprint.ItemKindWeapon,
		blueprint.ItemKindArmor,
		blueprint.ItemKindShield,
		blueprint.ItemKindUsable,
		blueprint.ItemKindEquipment:
		return kind
	default:
		return blueprint.ItemKindOther
	}
}
