package cache

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/louisbranch/blueprintcatalog/internal/platform/errors"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/domain/blueprint"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/sink"
)

func TestAddHookValidation(t *testing.T) {
	c := New()
	if err := c.AddHook(Hook{Name: " ", F: func(blueprint.Blueprint) {}}); apperrors.GetCode(err) != apperrors.CodeCacheHookInvalid {
		t.Fatalf("expected invalid hook error for empty name, got %v", err)
	}
	if err := c.AddHook(Hook{Name: "catalog"}); apperrors.GetCode(err) != apperrors.CodeCacheHookInvalid {
		t.Fatalf("expected invalid hook error for nil func, got %v", err)
	}
	if err := c.AddHook(Hook{Name: "catalog", F: func(blueprint.Blueprint) {}}); err != nil {
		t.Fatalf("add hook: %v", err)
	}
	if err := c.AddHook(Hook{Name: "catalog", F: func(blueprint.Blueprint) {}}); apperrors.GetCode(err) != apperrors.CodeCacheHookDuplicate {
		t.Fatalf("expected duplicate hook error, got %v", err)
	}
}

func TestHooksRunByPriority(t *testing.T) {
	c := New()
	var calls []string
	add := func(name string, priority int) {
		t.Helper()
		err := c.AddHook(Hook{Name: name, Priority: priority, F: func(blueprint.Blueprint) {
			calls = append(calls, name)
		}})
		if err != nil {
			t.Fatalf("add hook %s: %v", name, err)
		}
	}
	add("low", -1)
	add("first-default", 0)
	add("high", 10)
	add("second-default", 0)

	bp := &blueprint.Feature{Header: blueprint.Header{GUID: uuid.New(), Name: "Dodge"}}
	c.AddCachedBlueprint(bp.GUID, bp)

	want := "high,first-default,second-default,low"
	if got := strings.Join(calls, ","); got != want {
		t.Fatalf("expected hook order %s, got %s", want, got)
	}
	if got := strings.Join(c.Hooks(), ","); got != want {
		t.Fatalf("expected Hooks() %s, got %s", want, got)
	}
}

func TestAddCachedBlueprintStoresAndReplaces(t *testing.T) {
	c := New()
	guid := uuid.New()
	first := &blueprint.Item{Header: blueprint.Header{GUID: guid, Name: "Dagger"}}
	second := &blueprint.Item{Header: blueprint.Header{GUID: guid, Name: "Dagger+1"}}

	c.AddCachedBlueprint(guid, first)
	c.AddCachedBlueprint(guid, second)

	if c.Len() != 1 {
		t.Fatalf("expected 1 cached blueprint, got %d", c.Len())
	}
	got, ok := c.Get(guid)
	if !ok || got != second {
		t.Fatal("expected later registration to replace the cache entry")
	}
	if _, ok := c.Get(uuid.New()); ok {
		t.Fatal("expected unknown guid to miss")
	}
}

func TestGUIDsSorted(t *testing.T) {
	c := New()
	for range 5 {
		guid := uuid.New()
		c.AddCachedBlueprint(guid, &blueprint.Unit{Header: blueprint.Header{GUID: guid}})
	}
	guids := c.GUIDs()
	if len(guids) != 5 {
		t.Fatalf("expected 5 guids, got %d", len(guids))
	}
	for i := 1; i < len(guids); i++ {
		if guids[i-1].String() > guids[i].String() {
			t.Fatalf("guids not sorted: %v", guids)
		}
	}
}

func TestSinkHookKeepsFirstRegistration(t *testing.T) {
	c := New()
	s := sink.New(sink.WithReporter(sink.ReporterFunc(func(err error) {
		t.Fatalf("unexpected fault: %v", err)
	})))
	if err := c.AddHook(Hook{Name: "catalog", F: s.OnRegister}); err != nil {
		t.Fatalf("add hook: %v", err)
	}

	guid := uuid.New()
	original := &blueprint.Ability{Header: blueprint.Header{GUID: guid, Name: "Fireball"}}
	override := &blueprint.Ability{Header: blueprint.Header{GUID: guid, Name: "Fireball (mod)"}}
	c.AddCachedBlueprint(guid, original)
	c.AddCachedBlueprint(guid, override)

	if s.Abilities().Len() != 1 {
		t.Fatalf("expected one catalogued ability, got %d", s.Abilities().Len())
	}
	got, _ := s.Abilities().Get(guid)
	if got != original {
		t.Fatal("expected the catalog to keep its first entry")
	}
	cached, _ := c.Get(guid)
	if cached != override {
		t.Fatal("expected the cache to hold the override")
	}
}

func TestSinkHookSurvivesFaultyBlueprint(t *testing.T) {
	c := New()
	var faults int
	s := sink.New(sink.WithReporter(sink.ReporterFunc(func(error) { faults++ })))
	if err := c.AddHook(Hook{Name: "catalog", F: s.OnRegister}); err != nil {
		t.Fatalf("add hook: %v", err)
	}
	var after int
	if err := c.AddHook(Hook{Name: "after", Priority: -1, F: func(blueprint.Blueprint) { after++ }}); err != nil {
		t.Fatalf("add hook: %v", err)
	}

	c.AddCachedBlueprint(uuid.New(), &blueprint.Item{Header: blueprint.Header{Name: "NoGUID"}})
	if faults != 1 {
		t.Fatalf("expected one fault, got %d", faults)
	}
	if after != 1 {
		t.Fatal("expected later hooks to run after a sink fault")
	}
}
