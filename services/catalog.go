package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// Store-boundary loaders. Records are decoded into strongly typed values
// here; the aggregation core never parses raw stored JSON.

// LoadTemplates returns all manual templates with their extras decoded.
func LoadTemplates(app core.App) ([]ManualTemplate, error) {
	records, err := app.FindAllRecords("manual_templates")
	if err != nil {
		return nil, fmt.Errorf("load manual templates: %w", err)
	}
	templates := make([]ManualTemplate, 0, len(records))
	for _, r := range records {
		tpl, err := TemplateFromRecord(r)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

// TemplateFromRecord decodes one manual_templates record.
func TemplateFromRecord(r *core.Record) (ManualTemplate, error) {
	tpl := ManualTemplate{
		Name:        r.GetString("name"),
		BaseKitCode: r.GetString("base_kit"),
		Note:        r.GetString("note"),
	}
	if raw := r.GetString("extras"); raw != "" && raw != "null" {
		if err := r.UnmarshalJSONField("extras", &tpl.Extras); err != nil {
			return ManualTemplate{}, fmt.Errorf("template %s: decode extras: %w", tpl.Name, err)
		}
	}
	return tpl, nil
}

// LoadRules returns all contextual suffix rules.
func LoadRules(app core.App) ([]ResolutionRule, error) {
	records, err := app.FindAllRecords("suffix_rules")
	if err != nil {
		return nil, fmt.Errorf("load suffix rules: %w", err)
	}
	rules := make([]ResolutionRule, 0, len(records))
	for _, r := range records {
		rules = append(rules, ResolutionRule{
			Prefix:       r.GetString("prefix"),
			ContextType:  r.GetString("context_type"),
			ContextValue: r.GetString("context_value"),
			Suffix:       r.GetString("suffix"),
			FullCode:     r.GetString("full_code"),
		})
	}
	return rules, nil
}

// CatalogPriceLookup returns a PriceLookup backed by the materials
// collection. Codes absent from the catalog report no price.
func CatalogPriceLookup(app core.App) PriceLookup {
	return func(code string) (float64, bool) {
		records, err := app.FindRecordsByFilter(
			"materials", "sap = {:sap}", "", 1, 0,
			map[string]any{"sap": code},
		)
		if err != nil || len(records) == 0 {
			return 0, false
		}
		return records[0].GetFloat("unit_price"), true
	}
}
