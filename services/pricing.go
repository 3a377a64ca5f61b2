package services

import "math"

// CalcLineSubtotal computes quantity times unit price rounded to cents.
// Every subtotal in the system is derived through this one function so
// that consolidation cannot drift from the quantity*price invariant.
func CalcLineSubtotal(quantity, unitPrice float64) float64 {
	return RoundCents(quantity * unitPrice)
}

// RoundCents rounds a monetary amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// SumSubtotals adds up the subtotals of a slice of lines.
func SumSubtotals(lines []MaterialLine) float64 {
	var sum float64
	for _, line := range lines {
		sum += line.Subtotal
	}
	return RoundCents(sum)
}

// BudgetTotals holds the three summary figures of a budget.
type BudgetTotals struct {
	TotalMaterial float64
	TotalService  float64
	TotalGeneral  float64
}

// CalcBudgetTotals derives the summary figures from the per-category sums
// and the fetched service cost. TotalGeneral is always the sum of the
// other two totals.
func CalcBudgetTotals(poleTotal, kitTotal, materialTotal, serviceTotal float64) BudgetTotals {
	totalMaterial := RoundCents(poleTotal + kitTotal + materialTotal)
	totalService := RoundCents(serviceTotal)
	return BudgetTotals{
		TotalMaterial: totalMaterial,
		TotalService:  totalService,
		TotalGeneral:  RoundCents(totalMaterial + totalService),
	}
}
