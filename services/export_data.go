package services

import "time"

// BudgetExportData holds everything the Excel and PDF exporters need.
type BudgetExportData struct {
	Name          string
	CreatedDate   string
	Materials     []MaterialLine
	TotalMaterial float64
	TotalService  float64
	TotalGeneral  float64
}

// BuildBudgetExportData assembles export data from an aggregation result.
func BuildBudgetExportData(name string, result AggregationResult) BudgetExportData {
	return BudgetExportData{
		Name:          name,
		CreatedDate:   time.Now().Format("02/01/2006"),
		Materials:     result.Materials,
		TotalMaterial: result.TotalMaterial,
		TotalService:  result.TotalService,
		TotalGeneral:  result.TotalGeneral,
	}
}
