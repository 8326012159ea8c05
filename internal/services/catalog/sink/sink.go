// Package sink files registered blueprints into per-variant collections.
//
// A Sink is attached to the blueprint cache as a postfix hook. Each blueprint
// the cache registers is classified and appended to exactly one of the
// ability, activatable ability, item or enchantment collections. Blueprints
// that are already present are skipped, and unclassified blueprints are
// dropped. A GUID stays with the variant it was first filed under; a later
// blueprint reusing it as another variant is a fault.
//
// Register is the fallible step and returns the outcome to the caller.
// OnRegister is the hook adapter: it reports every fault through the
// configured Reporter and never propagates it back to the cache.
package sink

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	apperrors "github.com/louisbranch/blueprintcatalog/internal/platform/errors"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/domain/blueprint"
)

// Outcome describes what a successful Register call did.
type Outcome uint8

const (
	// OutcomeAdded means the blueprint was appended to its collection.
	OutcomeAdded Outcome = iota + 1
	// OutcomeDuplicate means the blueprint was already present.
	OutcomeDuplicate
	// OutcomeIgnored means the blueprint has no recognized variant.
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "none"
	}
}

// Options control sink behavior.
type Options struct {
	// Reporter receives every fault recovered by OnRegister.
	// Defaults to a LogReporter.
	Reporter Reporter

	// StrictExclusivity rejects blueprints that satisfy more than one
	// variant instead of filing them under the first match.
	StrictExclusivity bool
}

// Option modifies Options.
type Option func(*Options)

// WithReporter sets the diagnostic reporter.
func WithReporter(r Reporter) Option { return func(o *Options) { o.Reporter = r } }

// WithStrictExclusivity makes variant exclusivity a validated invariant.
func WithStrictExclusivity() Option { return func(o *Options) { o.StrictExclusivity = true } }

// Stats counts registrations by result.
type Stats struct {
	Added      int64
	Duplicates int64
	Ignored    int64
	Faults     int64
}

// Sink owns the four variant collections for the lifetime of the process.
type Sink struct {
	abilities    *Collection[*blueprint.Ability]
	activatables *Collection[*blueprint.ActivatableAbility]
	items        *Collection[*blueprint.Item]
	enchantments *Collection[*blueprint.Enchantment]

	// owners maps every filed GUID to its variant across all collections.
	ownersMu sync.Mutex
	owners   map[uuid.UUID]blueprint.Variant

	opt Options

	added      atomic.Int64
	duplicates atomic.Int64
	ignored    atomic.Int64
	faults     atomic.Int64
}

// New creates a sink with empty collections.
func New(opts ...Option) *Sink {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	if o.Reporter == nil {
		o.Reporter = LogReporter{}
	}
	return &Sink{
		abilities:    newCollection[*blueprint.Ability](),
		activatables: newCollection[*blueprint.ActivatableAbility](),
		items:        newCollection[*blueprint.Item](),
		enchantments: newCollection[*blueprint.Enchantment](),
		owners:       make(map[uuid.UUID]blueprint.Variant),
		opt:          o,
	}
}

// Abilities returns the ability collection.
func (s *Sink) Abilities() View[*blueprint.Ability] { return s.abilities }

// ActivatableAbilities returns the activatable ability collection.
func (s *Sink) ActivatableAbilities() View[*blueprint.ActivatableAbility] { return s.activatables }

// Items returns the item collection.
func (s *Sink) Items() View[*blueprint.Item] { return s.items }

// Enchantments returns the enchantment collection.
func (s *Sink) Enchantments() View[*blueprint.Enchantment] { return s.enchantments }

// Len returns the size of the collection for v, or 0 when v is unrecognized.
func (s *Sink) Len(v blueprint.Variant) int {
	switch v {
	case blueprint.VariantAbility:
		return s.abilities.Len()
	case blueprint.VariantActivatableAbility:
		return s.activatables.Len()
	case blueprint.VariantItem:
		return s.items.Len()
	case blueprint.VariantEnchantment:
		return s.enchantments.Len()
	default:
		return 0
	}
}

// Stats returns a snapshot of the registration counters.
func (s *Sink) Stats() Stats {
	return Stats{
		Added:      s.added.Load(),
		Duplicates: s.duplicates.Load(),
		Ignored:    s.ignored.Load(),
		Faults:     s.faults.Load(),
	}
}

// Register classifies bp and appends it to its variant collection.
//
// Errors are *errors.Error values with a registration fault code. When an
// error is returned, no collection has changed.
func (s *Sink) Register(bp blueprint.Blueprint) (Outcome, error) {
	outcome, err := s.register(bp)
	if err != nil {
		s.faults.Add(1)
		return 0, err
	}
	switch outcome {
	case OutcomeAdded:
		s.added.Add(1)
	case OutcomeDuplicate:
		s.duplicates.Add(1)
	case OutcomeIgnored:
		s.ignored.Add(1)
	}
	return outcome, nil
}

func (s *Sink) register(bp blueprint.Blueprint) (Outcome, error) {
	if err := blueprint.Validate(bp); err != nil {
		return 0, apperrors.WrapWithMetadata(apperrors.CodeBlueprintMalformed, "validate blueprint", describe(bp), err)
	}

	if s.opt.StrictExclusivity {
		if matches := blueprint.Matches(bp); len(matches) > 1 {
			meta := describe(bp)
			meta["variants"] = fmt.Sprint(matches)
			return 0, apperrors.WithMetadata(apperrors.CodeBlueprintAmbiguousVariant, "blueprint satisfies more than one variant", meta)
		}
	}

	switch v := blueprint.Classify(bp); v {
	case blueprint.VariantAbility:
		return insert(s, s.abilities, v, bp, bp.(blueprint.AbilityBlueprint).AbilityData())
	case blueprint.VariantActivatableAbility:
		return insert(s, s.activatables, v, bp, bp.(blueprint.ActivatableBlueprint).ActivatableData())
	case blueprint.VariantItem:
		return insert(s, s.items, v, bp, bp.(blueprint.ItemBlueprint).ItemData())
	case blueprint.VariantEnchantment:
		return insert(s, s.enchantments, v, bp, bp.(blueprint.EnchantmentBlueprint).EnchantmentData())
	default:
		return OutcomeIgnored, nil
	}
}

// claim records v as the owner of guid unless another variant already owns
// it, and returns the owning variant.
func (s *Sink) claim(guid uuid.UUID, v blueprint.Variant) (blueprint.Variant, bool) {
	s.ownersMu.Lock()
	defer s.ownersMu.Unlock()

	if owner, ok := s.owners[guid]; ok {
		return owner, owner == v
	}
	s.owners[guid] = v
	return v, true
}

// insert stores the capability data of bp in c. The data must carry the same
// identity as the registered blueprint, and the GUID must not be filed under
// another variant.
func insert[T blueprint.Blueprint](s *Sink, c *Collection[T], v blueprint.Variant, bp blueprint.Blueprint, data T) (Outcome, error) {
	if err := blueprint.Validate(data); err != nil {
		return 0, apperrors.WrapWithMetadata(apperrors.CodeBlueprintMalformed, "validate blueprint data", describe(bp), err)
	}
	if data.BlueprintGUID() != bp.BlueprintGUID() {
		meta := describe(bp)
		meta["data_guid"] = data.BlueprintGUID().String()
		return 0, apperrors.WithMetadata(apperrors.CodeBlueprintMalformed, "blueprint data guid mismatch", meta)
	}
	if owner, ok := s.claim(bp.BlueprintGUID(), v); !ok {
		meta := describe(bp)
		meta["variant"] = v.String()
		meta["filed_as"] = owner.String()
		return 0, apperrors.WithMetadata(apperrors.CodeBlueprintAmbiguousVariant, "blueprint guid already filed under another variant", meta)
	}
	if !c.add(data) {
		return OutcomeDuplicate, nil
	}
	return OutcomeAdded, nil
}

// OnRegister is the hook adapter for the blueprint cache. Faults, including
// panics raised while classifying or inserting, are reported and swallowed.
func (s *Sink) OnRegister(bp blueprint.Blueprint) {
	defer func() {
		if r := recover(); r != nil {
			s.faults.Add(1)
			s.report(apperrors.WrapWithMetadata(
				apperrors.CodeBlueprintRegistrationFault,
				"register blueprint",
				map[string]string{"type": fmt.Sprintf("%T", bp)},
				fmt.Errorf("panic: %v", r),
			))
		}
	}()

	if _, err := s.Register(bp); err != nil {
		s.report(err)
	}
}

func (s *Sink) report(err error) {
	defer func() {
		// A reporter must not break the registration path either.
		_ = recover()
	}()
	s.opt.Reporter.Report(err)
}

// describe builds fault metadata for bp.
func describe(bp blueprint.Blueprint) map[string]string {
	meta := map[string]string{"type": fmt.Sprintf("%T", bp)}
	if blueprint.IsNil(bp) {
		return meta
	}
	meta["guid"] = bp.BlueprintGUID().String()
	meta["name"] = bp.BlueprintName()
	return meta
}
