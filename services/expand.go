package services

// ExpandSelection turns one kit selection into the kit codes to price and
// the extra material lines a manual template contributes. An ordinary kit
// yields its own code once per selected unit. A selection naming a manual
// template yields the template's base kit (when it has one) instead, plus
// the template extras scaled by the selection quantity. Extras arrive
// unpriced: the aggregation pass prices them from the catalog after
// resolution.
func ExpandSelection(sel KitSelection, templates []ManualTemplate) (kitRefs []string, extras []MaterialLine) {
	qty := sel.Quantity
	if qty < 1 {
		qty = 1
	}

	tpl := findTemplate(sel.KitCode, templates)
	if tpl == nil {
		for i := 0; i < qty; i++ {
			kitRefs = append(kitRefs, sel.KitCode)
		}
		return kitRefs, nil
	}

	if tpl.BaseKitCode != "" {
		for i := 0; i < qty; i++ {
			kitRefs = append(kitRefs, tpl.BaseKitCode)
		}
	}

	for _, extra := range tpl.Extras {
		extras = append(extras, MaterialLine{
			Code:        extra.Code,
			Description: extra.Description,
			Unit:        extra.Unit,
			Quantity:    extra.Quantity * float64(qty),
			Category:    CategoryMaterial,
			Origin:      "Template:" + tpl.Name,
		})
	}

	return kitRefs, extras
}

func findTemplate(name string, templates []ManualTemplate) *ManualTemplate {
	for i := range templates {
		if templates[i].Name == name {
			return &templates[i]
		}
	}
	return nil
}
