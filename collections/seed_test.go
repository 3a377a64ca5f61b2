package collections_test

import (
	"testing"

	"kitbudget/collections"
	"kitbudget/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	materials, err := app.FindAllRecords("materials")
	if err != nil {
		t.Fatalf("query materials error: %v", err)
	}
	if len(materials) == 0 {
		t.Fatal("expected seed materials to be created")
	}

	// The contextual families and their rules must both be present.
	rules, _ := app.FindAllRecords("suffix_rules")
	if len(rules) != 5 {
		t.Errorf("expected 5 suffix rules, got %d", len(rules))
	}
	prefixes := map[string]bool{}
	for _, r := range rules {
		prefixes[r.GetString("prefix")] = true
	}
	if !prefixes["F-10/"] || !prefixes["M1/"] {
		t.Errorf("rule prefixes = %v, want F-10/ and M1/ families", prefixes)
	}

	kits, _ := app.FindAllRecords("kits")
	if len(kits) != 3 {
		t.Errorf("expected 3 kits, got %d", len(kits))
	}

	composition, _ := app.FindAllRecords("kit_composition")
	if len(composition) == 0 {
		t.Error("expected kit composition entries to be created")
	}

	labor, _ := app.FindAllRecords("labor")
	if len(labor) != 3 {
		t.Errorf("expected 3 labor entries, got %d", len(labor))
	}

	services, _ := app.FindAllRecords("kit_services")
	if len(services) == 0 {
		t.Error("expected kit service links to be created")
	}

	templates, _ := app.FindAllRecords("manual_templates")
	if len(templates) != 1 || templates[0].GetString("base_kit") != "13N1" {
		t.Errorf("expected one seed template based on 13N1, got %d", len(templates))
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	first, _ := app.FindAllRecords("materials")

	if err := collections.Seed(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}
	second, _ := app.FindAllRecords("materials")

	if len(first) != len(second) {
		t.Errorf("material count changed on second seed: %d -> %d", len(first), len(second))
	}
}
