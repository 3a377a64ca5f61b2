package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type materialDef struct {
	sap         string
	description string
	unit        string
	unitPrice   float64
}

type kitDef struct {
	code        string
	description string
	kitPrice    float64
	composition []compositionDef
	services    []string
}

type compositionDef struct {
	sap string
	qty float64
}

type laborDef struct {
	code        string
	description string
	unit        string
	grossPrice  float64
}

type ruleDef struct {
	prefix       string
	contextType  string
	contextValue string
	suffix       string
	fullCode     string
}

// Seed populates the catalog with a realistic distribution-network starter
// set: materials (including the F-10/ cinta and M1/ alça context families
// and concrete pole codes), kits with composition and labor, and the
// contextual suffix rules that resolve the partial codes, plus one manual
// template built on the 13N1 structure. It is safe to
// call on every startup because it returns early if any material records
// already exist.
func Seed(app *pocketbase.PocketBase) error {
	materialsCol, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("seed: could not find materials collection: %w", err)
	}
	existing, err := app.FindAllRecords(materialsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query materials: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: materials collection is empty – inserting seed data …")

	kitsCol, err := app.FindCollectionByNameOrId("kits")
	if err != nil {
		return fmt.Errorf("seed: could not find kits collection: %w", err)
	}
	compositionCol, err := app.FindCollectionByNameOrId("kit_composition")
	if err != nil {
		return fmt.Errorf("seed: could not find kit_composition collection: %w", err)
	}
	laborCol, err := app.FindCollectionByNameOrId("labor")
	if err != nil {
		return fmt.Errorf("seed: could not find labor collection: %w", err)
	}
	kitServicesCol, err := app.FindCollectionByNameOrId("kit_services")
	if err != nil {
		return fmt.Errorf("seed: could not find kit_services collection: %w", err)
	}
	rulesCol, err := app.FindCollectionByNameOrId("suffix_rules")
	if err != nil {
		return fmt.Errorf("seed: could not find suffix_rules collection: %w", err)
	}
	templatesCol, err := app.FindCollectionByNameOrId("manual_templates")
	if err != nil {
		return fmt.Errorf("seed: could not find manual_templates collection: %w", err)
	}

	materials := []materialDef{
		{"300100", "CRUZETA POLIMERICA 2400MM", "UN", 185.40},
		{"300215", "ISOLADOR PILAR 15KV", "UN", 42.90},
		{"300342", "PARAFUSO M16 X 250MM", "UN", 6.75},
		{"301118", "MAO FRANCESA PLANA 726MM", "UN", 28.30},
		{"302501", "CONECTOR CUNHA CAA 4 AWG", "UN", 11.20},
		{"310020", "CABO CAA 4 AWG", "M", 4.85},
		{"310053", "CABO CAA 1/0 AWG", "M", 9.10},
		{"311185", "CABO COBERTO 185MM2 SPACER", "M", 31.60},
		// F-10/ family: cintas sized by pole diameter.
		{"F-10/02", "CINTA CIRCULAR 90MM", "UN", 14.10},
		{"F-10/06", "CINTA CIRCULAR 200MM", "UN", 19.85},
		{"F-10/10", "CINTA CIRCULAR 300MM", "UN", 27.45},
		// M1/ family: alças preformadas sized by conductor.
		{"M1/4", "ALCA PREFORMADA CAA 4 AWG", "UN", 8.95},
		{"M1/1/0", "ALCA PREFORMADA CAA 1/0 AWG", "UN", 12.40},
		{"M1/120", "ALCA PREFORMADA 120MM2", "UN", 21.30},
		// Poles: concrete, code pattern [height]00[diameter]B.
		{"9100B", "POSTE CONCRETO CIRCULAR 9M 100DAN", "UN", 980.00},
		{"11600B", "POSTE CONCRETO CIRCULAR 11M 600DAN", "UN", 2350.00},
	}

	labor := []laborDef{
		{"MO-1010", "INSTALACAO ESTRUTURA MT CONVENCIONAL", "UN", 420.00},
		{"MO-1020", "INSTALACAO ESTRUTURA BT", "UN", 310.00},
		{"MO-2001", "IMPLANTACAO DE POSTE ATE 11M", "UN", 680.00},
	}

	kits := []kitDef{
		{
			code:        "13N1",
			description: "ESTRUTURA MT CONVENCIONAL N1 13.8KV",
			kitPrice:    350.00,
			composition: []compositionDef{
				{"300100", 1},
				{"300215", 3},
				{"300342", 2},
				{"301118", 2},
				{"F-10/", 1},
				{"M1/", 3},
			},
			services: []string{"MO-1010"},
		},
		{
			code:        "13N3",
			description: "ESTRUTURA MT CONVENCIONAL N3 13.8KV",
			kitPrice:    520.00,
			composition: []compositionDef{
				{"300100", 2},
				{"300215", 6},
				{"300342", 4},
				{"302501", 6},
				{"F-10/", 2},
				{"M1/", 6},
			},
			services: []string{"MO-1010"},
		},
		{
			code:        "BT1",
			description: "ESTRUTURA BT ISOLADA",
			kitPrice:    180.00,
			composition: []compositionDef{
				{"300342", 2},
				{"302501", 4},
				{"F-10/", 1},
			},
			services: []string{"MO-1020"},
		},
	}

	// Suffix rules recovered from the contextual catalog: F-10/ cintas keyed
	// by pole code, M1/ alças keyed by conductor selection.
	rules := []ruleDef{
		{"F-10/", "poste", "9100B", "02", "F-10/02"},
		{"F-10/", "poste", "11600B", "06", "F-10/06"},
		{"M1/", "condutor", "cab_21_caa", "4", "M1/4"},
		{"M1/", "condutor", "cab_53_caa", "1/0", "M1/1/0"},
		{"M1/", "condutor", "cab_185_spacer", "120", "M1/120"},
	}

	for _, m := range materials {
		r := core.NewRecord(materialsCol)
		r.Set("sap", m.sap)
		r.Set("description", m.description)
		r.Set("unit", m.unit)
		r.Set("unit_price", m.unitPrice)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: material %s: %w", m.sap, err)
		}
	}

	for _, l := range labor {
		r := core.NewRecord(laborCol)
		r.Set("codigo_mo", l.code)
		r.Set("description", l.description)
		r.Set("unit", l.unit)
		r.Set("gross_price", l.grossPrice)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: labor %s: %w", l.code, err)
		}
	}

	for _, k := range kits {
		r := core.NewRecord(kitsCol)
		r.Set("codigo_kit", k.code)
		r.Set("description", k.description)
		r.Set("kit_price", k.kitPrice)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: kit %s: %w", k.code, err)
		}
		for _, c := range k.composition {
			cr := core.NewRecord(compositionCol)
			cr.Set("codigo_kit", k.code)
			cr.Set("sap", c.sap)
			cr.Set("quantity", c.qty)
			if err := app.Save(cr); err != nil {
				return fmt.Errorf("seed: composition %s/%s: %w", k.code, c.sap, err)
			}
		}
		for _, mo := range k.services {
			sr := core.NewRecord(kitServicesCol)
			sr.Set("codigo_kit", k.code)
			sr.Set("codigo_mo", mo)
			if err := app.Save(sr); err != nil {
				return fmt.Errorf("seed: kit service %s/%s: %w", k.code, mo, err)
			}
		}
	}

	tr := core.NewRecord(templatesCol)
	tr.Set("name", "N1 COM JUMPER")
	tr.Set("base_kit", "13N1")
	tr.Set("note", "Estrutura N1 com jumper adicional em conector cunha")
	tr.Set("extras", `[{"sap":"302501","description":"CONECTOR CUNHA CAA 4 AWG","unit":"UN","quantity":2},{"sap":"310020","description":"CABO CAA 4 AWG","unit":"M","quantity":3}]`)
	if err := app.Save(tr); err != nil {
		return fmt.Errorf("seed: template %s: %w", tr.GetString("name"), err)
	}

	for _, rule := range rules {
		r := core.NewRecord(rulesCol)
		r.Set("prefix", rule.prefix)
		r.Set("context_type", rule.contextType)
		r.Set("context_value", rule.contextValue)
		r.Set("suffix", rule.suffix)
		r.Set("full_code", rule.fullCode)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: suffix rule %s/%s: %w", rule.prefix, rule.contextValue, err)
		}
	}

	log.Printf("seed: inserted %d materials, %d labor items, %d kits, %d suffix rules, 1 template",
		len(materials), len(labor), len(kits), len(rules))
	return nil
}
