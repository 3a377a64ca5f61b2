package services

import (
	"testing"
)

func TestGenerateBudgetPDF_BasicBudget(t *testing.T) {
	data := BudgetExportData{
		Name:        "Obra Centro",
		CreatedDate: "15/08/2026",
		Materials: []MaterialLine{
			{Code: "11600B", Description: "POSTE DT 11,5M 600DAN", Unit: "UN", UnitPrice: 2350, Priced: true, Quantity: 1, Subtotal: 2350, Category: CategoryPole},
			{Code: "13N1", Description: "ESTRUTURA 13N1", Unit: "KIT", UnitPrice: 350, Priced: true, Quantity: 2, Subtotal: 700, Category: CategoryKit},
			{Code: "300100", Description: "PARAFUSO M16", Unit: "UN", UnitPrice: 5, Priced: true, Quantity: 6, Subtotal: 30, Category: CategoryMaterial},
		},
		TotalMaterial: 3080,
		TotalService:  200,
		TotalGeneral:  3280,
	}

	result, err := GenerateBudgetPDF(data)
	if err != nil {
		t.Fatalf("GenerateBudgetPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateBudgetPDF() returned empty bytes")
	}
	// PDF files start with %PDF
	if len(result) > 4 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGenerateBudgetPDF_EmptyMaterials(t *testing.T) {
	data := BudgetExportData{
		Name:        "Orcamento Vazio",
		CreatedDate: "15/08/2026",
		Materials:   []MaterialLine{},
	}

	result, err := GenerateBudgetPDF(data)
	if err != nil {
		t.Fatalf("GenerateBudgetPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateBudgetPDF() returned empty bytes")
	}
}
