package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the catalog, template, rule and
// budget collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "sap", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit", Required: true})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false, Min: zero()})
		c.AddIndex("idx_materials_sap", true, "sap", "")
	})

	ensureCollection(app, "kits", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "codigo_kit", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{Name: "kit_price", Required: false, Min: zero()})
		c.AddIndex("idx_kits_codigo", true, "codigo_kit", "")
	})

	ensureCollection(app, "kit_composition", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "codigo_kit", Required: true})
		c.Fields.Add(&core.TextField{Name: "sap", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.AddIndex("idx_kit_composition_pair", true, "codigo_kit, sap", "")
	})

	ensureCollection(app, "labor", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "codigo_mo", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "gross_price", Required: false, Min: zero()})
		c.AddIndex("idx_labor_codigo", true, "codigo_mo", "")
	})

	ensureCollection(app, "kit_services", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "codigo_kit", Required: true})
		c.Fields.Add(&core.TextField{Name: "codigo_mo", Required: true})
		c.AddIndex("idx_kit_services_pair", true, "codigo_kit, codigo_mo", "")
	})

	// Uniqueness over (prefix, context_type, context_value) is enforced
	// here, at write time, so resolution never has to break ties.
	ensureCollection(app, "suffix_rules", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "prefix", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "context_type",
			Required:  true,
			Values:    []string{"poste", "condutor"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "context_value", Required: true})
		c.Fields.Add(&core.TextField{Name: "suffix", Required: false})
		c.Fields.Add(&core.TextField{Name: "full_code", Required: false})
		c.AddIndex("idx_suffix_rules_triple", true, "prefix, context_type, context_value", "")
	})

	// Template extras are stored as JSON and parsed at this boundary;
	// nothing downstream ever sees a raw serialized string.
	ensureCollection(app, "manual_templates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "base_kit", Required: false})
		c.Fields.Add(&core.JSONField{Name: "extras", Required: false, MaxSize: 1 << 20})
		c.Fields.Add(&core.TextField{Name: "note", Required: false})
		c.AddIndex("idx_manual_templates_name", true, "name", "")
	})

	ensureCollection(app, "budgets", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.JSONField{Name: "payload", Required: true, MaxSize: 1 << 22})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}

func zero() *float64 {
	v := 0.0
	return &v
}
