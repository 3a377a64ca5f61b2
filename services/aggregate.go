package services

import (
	"fmt"
	"strings"
)

// AggregationInput is everything one aggregation pass works from. The
// engine holds no state of its own: each call recomputes the budget from
// scratch out of the current selection and the supplied catalog snapshots.
type AggregationInput struct {
	Kits      []KitSelection
	Loose     []MaterialLine
	Templates []ManualTemplate
	Rules     []ResolutionRule
	Context   ResolutionContext
}

// IsPoleLine reports whether a loose material is a pole. The explicit
// category tag set at creation time wins; the description substring check
// only applies to lines created before the tag existed and no other code
// path matches on description text.
func IsPoleLine(line MaterialLine) bool {
	if line.Category == CategoryPole {
		return true
	}
	if line.Category == CategoryMaterial || line.Category == CategoryKit || line.Category == CategoryService {
		return false
	}
	return strings.Contains(strings.ToUpper(line.Description), "POSTE")
}

// DeriveContext fills the active pole code from the first pole line among
// the loose materials, unless the caller already supplied one. Conductor
// selections always come from the caller.
func DeriveContext(loose []MaterialLine, base ResolutionContext) ResolutionContext {
	if base.PoleCode != "" {
		return base
	}
	for _, line := range loose {
		if IsPoleLine(line) {
			base.PoleCode = line.Code
			break
		}
	}
	return base
}

// Aggregate computes the consolidated budget for the current selection.
//
// Kit selections are expanded through the manual templates, the resulting
// kit codes are priced in a single batched fetcher call, and every material
// line (fetched, template extra or loose) has its code resolved before
// being merged into the consolidated bill of materials. Two original codes
// that resolve to the same concrete code merge into one line with summed
// quantity. Codes that no rule resolves pass through under their partial
// code; UnresolvedCodes surfaces them to the manual resolution workflow.
//
// prices may be nil; when present it supplies catalog prices for lines
// that arrive unpriced (template extras). Only the fetcher call can fail.
func Aggregate(in AggregationInput, fetcher KitCostFetcher, prices PriceLookup) (AggregationResult, error) {
	ctx := DeriveContext(in.Loose, in.Context)

	// Expand selections into kit refs and template extras.
	var kitRefs []string
	var extras []MaterialLine
	for _, sel := range in.Kits {
		refs, lines := ExpandSelection(sel, in.Templates)
		kitRefs = append(kitRefs, refs...)
		extras = append(extras, lines...)
	}

	// One batched catalog round trip for the whole pass.
	var costs KitCosts
	if len(kitRefs) > 0 {
		fetched, err := fetcher.FetchCosts(kitRefs)
		if err != nil {
			return AggregationResult{}, fmt.Errorf("fetch kit costs: %w", err)
		}
		costs = fetched
	}

	// Partition loose materials into poles and everything else.
	var poleLines []MaterialLine
	var looseOthers []MaterialLine
	for _, line := range in.Loose {
		if IsPoleLine(line) {
			pole := line
			pole.Category = CategoryPole
			pole.Quantity = defaultQty(pole.Quantity)
			pole.Subtotal = CalcLineSubtotal(pole.Quantity, pole.UnitPrice)
			poleLines = append(poleLines, pole)
		} else {
			looseOthers = append(looseOthers, line)
		}
	}

	kitItems := buildKitLineItems(in.Kits)

	// Consolidate by resolved code: fetched composition first, then
	// template extras, then the remaining loose materials.
	cons := newConsolidator(ctx, in.Rules, prices)
	for _, line := range costs.Materials {
		line.Category = CategoryMaterial
		if line.Origin == "" {
			line.Origin = "StandardKit"
		}
		cons.add(line)
	}
	for _, line := range extras {
		cons.add(line)
	}
	for _, line := range looseOthers {
		line.Category = CategoryMaterial
		line.Quantity = defaultQty(line.Quantity)
		if line.Origin == "" {
			line.Origin = "Loose"
		}
		cons.add(line)
	}
	consolidated := cons.lines()

	totals := CalcBudgetTotals(
		SumSubtotals(poleLines),
		SumSubtotals(kitItems),
		SumSubtotals(consolidated),
		costs.TotalService,
	)

	materials := make([]MaterialLine, 0, len(poleLines)+len(kitItems)+len(consolidated))
	materials = append(materials, poleLines...)
	materials = append(materials, kitItems...)
	materials = append(materials, consolidated...)

	return AggregationResult{
		Materials:     materials,
		TotalMaterial: totals.TotalMaterial,
		TotalService:  totals.TotalService,
		TotalGeneral:  totals.TotalGeneral,
	}, nil
}

// buildKitLineItems collapses the raw selections into one display line per
// distinct kit code, priced at the caller-supplied kit price. Quantities of
// repeated selections sum; the first seen price and description win.
func buildKitLineItems(kits []KitSelection) []MaterialLine {
	byCode := make(map[string]int)
	var items []MaterialLine
	for _, sel := range kits {
		qty := float64(sel.Quantity)
		if qty < 1 {
			qty = 1
		}
		if idx, ok := byCode[sel.KitCode]; ok {
			items[idx].Quantity += qty
			items[idx].Subtotal = CalcLineSubtotal(items[idx].Quantity, items[idx].UnitPrice)
			continue
		}
		desc := sel.Description
		if desc == "" {
			desc = sel.KitCode
		}
		byCode[sel.KitCode] = len(items)
		items = append(items, MaterialLine{
			Code:        sel.KitCode,
			Description: desc,
			Unit:        "KIT",
			UnitPrice:   sel.KitPrice,
			Priced:      true,
			Quantity:    qty,
			Subtotal:    CalcLineSubtotal(qty, sel.KitPrice),
			Category:    CategoryKit,
		})
	}
	return items
}

// consolidator merges material lines by resolved code, preserving first-seen
// order. A known price is never overwritten by a missing one: when a line
// arrives unpriced for a code that already carries a price, the existing
// price covers the merged quantity.
type consolidator struct {
	ctx    ResolutionContext
	rules  []ResolutionRule
	prices PriceLookup
	byCode map[string]int
	merged []MaterialLine
}

func newConsolidator(ctx ResolutionContext, rules []ResolutionRule, prices PriceLookup) *consolidator {
	return &consolidator{
		ctx:    ctx,
		rules:  rules,
		prices: prices,
		byCode: make(map[string]int),
	}
}

func (c *consolidator) add(line MaterialLine) {
	line.Code = Resolve(line.Code, c.ctx, c.rules)

	if !line.Priced && c.prices != nil {
		if price, ok := c.prices(line.Code); ok {
			line.UnitPrice = price
			line.Priced = true
		}
	}

	idx, ok := c.byCode[line.Code]
	if !ok {
		line.Subtotal = CalcLineSubtotal(line.Quantity, line.UnitPrice)
		c.byCode[line.Code] = len(c.merged)
		c.merged = append(c.merged, line)
		return
	}

	existing := &c.merged[idx]
	if !existing.Priced && line.Priced {
		existing.UnitPrice = line.UnitPrice
		existing.Priced = true
	}
	if existing.Description == "" {
		existing.Description = line.Description
	}
	if existing.Unit == "" {
		existing.Unit = line.Unit
	}
	existing.Quantity += line.Quantity
	existing.Subtotal = CalcLineSubtotal(existing.Quantity, existing.UnitPrice)
}

func (c *consolidator) lines() []MaterialLine {
	return c.merged
}

func defaultQty(qty float64) float64 {
	if qty <= 0 {
		return 1
	}
	return qty
}
