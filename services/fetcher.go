package services

import (
	"database/sql"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// CatalogFetcher is the catalog-store implementation of KitCostFetcher: a
// single grouped query over kit composition plus one over kit services.
type CatalogFetcher struct {
	app core.App
}

// NewCatalogFetcher wraps a PocketBase app as a KitCostFetcher.
func NewCatalogFetcher(app core.App) *CatalogFetcher {
	return &CatalogFetcher{app: app}
}

type compositionRow struct {
	KitCode     string          `db:"codigo_kit"`
	Sap         string          `db:"sap"`
	Quantity    float64         `db:"quantity"`
	Description sql.NullString  `db:"description"`
	Unit        sql.NullString  `db:"unit"`
	UnitPrice   sql.NullFloat64 `db:"unit_price"`
}

type serviceRow struct {
	KitCode    string          `db:"codigo_kit"`
	LaborCode  string          `db:"codigo_mo"`
	GrossPrice sql.NullFloat64 `db:"gross_price"`
}

// FetchCosts returns the aggregated material composition and total service
// cost for a batch of kit codes. Repeated codes count as additional kit
// instances: their composition quantities multiply accordingly. Unknown kit
// codes contribute nothing. An empty input yields a zero result.
func (f *CatalogFetcher) FetchCosts(kitCodes []string) (KitCosts, error) {
	if len(kitCodes) == 0 {
		return KitCosts{}, nil
	}

	counts := make(map[string]float64)
	distinct := make([]any, 0, len(kitCodes))
	for _, code := range kitCodes {
		if counts[code] == 0 {
			distinct = append(distinct, code)
		}
		counts[code]++
	}

	var compRows []compositionRow
	err := f.app.DB().
		Select("kc.codigo_kit", "kc.sap", "kc.quantity", "m.description", "m.unit", "m.unit_price").
		From("kit_composition kc").
		LeftJoin("materials m", dbx.NewExp("m.sap = kc.sap")).
		Where(dbx.In("kc.codigo_kit", distinct...)).
		OrderBy("m.description").
		All(&compRows)
	if err != nil {
		return KitCosts{}, fmt.Errorf("query kit composition: %w", err)
	}

	bySap := make(map[string]int)
	var materials []MaterialLine
	for _, row := range compRows {
		qty := row.Quantity * counts[row.KitCode]
		if idx, ok := bySap[row.Sap]; ok {
			materials[idx].Quantity += qty
			materials[idx].Subtotal = CalcLineSubtotal(materials[idx].Quantity, materials[idx].UnitPrice)
			continue
		}
		line := MaterialLine{
			Code:        row.Sap,
			Description: row.Description.String,
			Unit:        row.Unit.String,
			UnitPrice:   row.UnitPrice.Float64,
			Priced:      row.UnitPrice.Valid,
			Quantity:    qty,
			Category:    CategoryMaterial,
			Origin:      "StandardKit",
		}
		line.Subtotal = CalcLineSubtotal(line.Quantity, line.UnitPrice)
		bySap[row.Sap] = len(materials)
		materials = append(materials, line)
	}

	var svcRows []serviceRow
	err = f.app.DB().
		Select("ks.codigo_kit", "ks.codigo_mo", "l.gross_price").
		From("kit_services ks").
		LeftJoin("labor l", dbx.NewExp("l.codigo_mo = ks.codigo_mo")).
		Where(dbx.In("ks.codigo_kit", distinct...)).
		All(&svcRows)
	if err != nil {
		return KitCosts{}, fmt.Errorf("query kit services: %w", err)
	}

	var totalService float64
	for _, row := range svcRows {
		totalService += row.GrossPrice.Float64 * counts[row.KitCode]
	}

	var totalMaterial float64
	for _, line := range materials {
		totalMaterial += line.Subtotal
	}

	return KitCosts{
		Materials:     materials,
		TotalMaterial: RoundCents(totalMaterial),
		TotalService:  RoundCents(totalService),
	}, nil
}

// AggregatedService is one labor line grouped across the selected kits.
type AggregatedService struct {
	LaborCode   string  `json:"codigo_mo"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	GrossPrice  float64 `json:"gross_price"`
	Quantity    float64 `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// FetchServices returns the labor breakdown for a batch of kit codes,
// grouped by labor code, with repeated kit codes counting as additional
// instances.
func (f *CatalogFetcher) FetchServices(kitCodes []string) ([]AggregatedService, error) {
	if len(kitCodes) == 0 {
		return nil, nil
	}

	counts := make(map[string]float64)
	distinct := make([]any, 0, len(kitCodes))
	for _, code := range kitCodes {
		if counts[code] == 0 {
			distinct = append(distinct, code)
		}
		counts[code]++
	}

	type laborRow struct {
		KitCode     string          `db:"codigo_kit"`
		LaborCode   string          `db:"codigo_mo"`
		Description sql.NullString  `db:"description"`
		Unit        sql.NullString  `db:"unit"`
		GrossPrice  sql.NullFloat64 `db:"gross_price"`
	}

	var rows []laborRow
	err := f.app.DB().
		Select("ks.codigo_kit", "ks.codigo_mo", "l.description", "l.unit", "l.gross_price").
		From("kit_services ks").
		LeftJoin("labor l", dbx.NewExp("l.codigo_mo = ks.codigo_mo")).
		Where(dbx.In("ks.codigo_kit", distinct...)).
		OrderBy("l.description").
		All(&rows)
	if err != nil {
		return nil, fmt.Errorf("query kit services: %w", err)
	}

	byCode := make(map[string]int)
	var services []AggregatedService
	for _, row := range rows {
		qty := counts[row.KitCode]
		if idx, ok := byCode[row.LaborCode]; ok {
			services[idx].Quantity += qty
			services[idx].Subtotal = CalcLineSubtotal(services[idx].Quantity, services[idx].GrossPrice)
			continue
		}
		svc := AggregatedService{
			LaborCode:   row.LaborCode,
			Description: row.Description.String,
			Unit:        row.Unit.String,
			GrossPrice:  row.GrossPrice.Float64,
			Quantity:    qty,
		}
		svc.Subtotal = CalcLineSubtotal(svc.Quantity, svc.GrossPrice)
		byCode[row.LaborCode] = len(services)
		services = append(services, svc)
	}
	return services, nil
}
