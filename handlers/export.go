package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kitbudget/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// buildSavedExportData loads a saved budget and assembles the exporter
// input from its stored result.
func buildSavedExportData(app *pocketbase.PocketBase, budgetID string) (services.BudgetExportData, error) {
	record, payload, err := loadBudgetPayload(app, budgetID)
	if err != nil {
		return services.BudgetExportData{}, fmt.Errorf("budget not found: %w", err)
	}

	data := services.BuildBudgetExportData(record.GetString("name"), payload.Result)
	if dt := record.GetDateTime("created"); !dt.IsZero() {
		data.CreatedDate = dt.Time().Format("02/01/2006")
	}
	return data, nil
}

// HandleBudgetExportExcel generates and downloads an Excel file for a
// saved budget.
func HandleBudgetExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budgetID := e.Request.PathValue("id")
		if budgetID == "" {
			return e.String(http.StatusBadRequest, "Missing budget ID")
		}

		data, err := buildSavedExportData(app, budgetID)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return e.String(http.StatusNotFound, "Budget not found")
		}

		xlsxBytes, err := services.GenerateBudgetExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Orcamento_%s_%d.xlsx", sanitizeFilename(data.Name), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleBudgetExportPDF generates and downloads a PDF file for a saved
// budget.
func HandleBudgetExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		budgetID := e.Request.PathValue("id")
		if budgetID == "" {
			return e.String(http.StatusBadRequest, "Missing budget ID")
		}

		data, err := buildSavedExportData(app, budgetID)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Budget not found")
		}

		pdfBytes, err := services.GenerateBudgetPDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Orcamento_%s_%d.pdf", sanitizeFilename(data.Name), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

type directExportRequest struct {
	Name string `json:"name"`
	calculateRequest
}

// HandleDirectExportExcel computes the posted selection and streams the
// Excel file back without saving a budget record.
func HandleDirectExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req directExportRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.Name == "" {
			req.Name = "Orcamento"
		}

		resp, err := buildBudget(app, req.calculateRequest)
		if err != nil {
			log.Printf("export_excel_direct: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to calculate budget")
		}

		data := services.BuildBudgetExportData(req.Name, resp.AggregationResult)
		xlsxBytes, err := services.GenerateBudgetExcel(data)
		if err != nil {
			log.Printf("export_excel_direct: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Orcamento_%s_%d.xlsx", sanitizeFilename(req.Name), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
