// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kitbudget/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestMaterial creates a materials record and returns it.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, sap, description, unit string, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		t.Fatalf("failed to find materials collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("sap", sap)
	record.Set("description", description)
	record.Set("unit", unit)
	record.Set("unit_price", unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	return record
}

// CreateTestKit creates a kits record and returns it.
func CreateTestKit(t *testing.T, app *pocketbase.PocketBase, codigoKit, description string, kitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("kits")
	if err != nil {
		t.Fatalf("failed to find kits collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("codigo_kit", codigoKit)
	record.Set("description", description)
	record.Set("kit_price", kitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test kit: %v", err)
	}

	return record
}

// AddKitMaterial links a material code to a kit's composition.
func AddKitMaterial(t *testing.T, app *pocketbase.PocketBase, codigoKit, sap string, quantity float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("kit_composition")
	if err != nil {
		t.Fatalf("failed to find kit_composition collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("codigo_kit", codigoKit)
	record.Set("sap", sap)
	record.Set("quantity", quantity)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test kit composition: %v", err)
	}

	return record
}

// CreateTestLabor creates a labor record and returns it.
func CreateTestLabor(t *testing.T, app *pocketbase.PocketBase, codigoMO, description string, grossPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("labor")
	if err != nil {
		t.Fatalf("failed to find labor collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("codigo_mo", codigoMO)
	record.Set("description", description)
	record.Set("unit", "UN")
	record.Set("gross_price", grossPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test labor: %v", err)
	}

	return record
}

// AddKitService links a labor code to a kit.
func AddKitService(t *testing.T, app *pocketbase.PocketBase, codigoKit, codigoMO string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("kit_services")
	if err != nil {
		t.Fatalf("failed to find kit_services collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("codigo_kit", codigoKit)
	record.Set("codigo_mo", codigoMO)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test kit service: %v", err)
	}

	return record
}

// CreateTestRule creates a suffix_rules record and returns it.
func CreateTestRule(t *testing.T, app *pocketbase.PocketBase, prefix, contextType, contextValue, suffix, fullCode string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("suffix_rules")
	if err != nil {
		t.Fatalf("failed to find suffix_rules collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("prefix", prefix)
	record.Set("context_type", contextType)
	record.Set("context_value", contextValue)
	record.Set("suffix", suffix)
	record.Set("full_code", fullCode)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test suffix rule: %v", err)
	}

	return record
}

// CreateTestTemplate creates a manual_templates record. extras is marshaled
// into the JSON column the way the application stores it.
func CreateTestTemplate(t *testing.T, app *pocketbase.PocketBase, name, baseKit string, extras any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("manual_templates")
	if err != nil {
		t.Fatalf("failed to find manual_templates collection: %v", err)
	}

	raw, err := json.Marshal(extras)
	if err != nil {
		t.Fatalf("failed to marshal template extras: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("base_kit", baseKit)
	record.Set("extras", string(raw))

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test template: %v", err)
	}

	return record
}

// CreateTestBudget creates a saved budget record with the given JSON payload.
func CreateTestBudget(t *testing.T, app *pocketbase.PocketBase, name string, payload any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("budgets")
	if err != nil {
		t.Fatalf("failed to find budgets collection: %v", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal budget payload: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("payload", string(raw))

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test budget: %v", err)
	}

	return record
}

// AssertJSONContains checks that body contains all specified fragments.
func AssertJSONContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected response to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
