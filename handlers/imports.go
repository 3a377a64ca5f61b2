package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kitbudget/services"
)

// HandlePriceImport parses an uploaded price workbook and returns the
// readable rows plus the rows needing manual attention. Nothing is
// persisted until the commit call.
func HandlePriceImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, _, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "No file uploaded")
		}
		defer file.Close()

		result, err := services.ParsePriceSheet(file)
		if err != nil {
			log.Printf("price_import: parse: %v", err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		return jsonOK(e, result)
	}
}

type priceCommitRequest struct {
	Rows []services.PriceRow `json:"rows"`
}

// HandlePriceImportCommit applies parsed price rows to the catalog.
func HandlePriceImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req priceCommitRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if len(req.Rows) == 0 {
			return jsonError(e, http.StatusBadRequest, "No rows to import")
		}

		summary, err := services.ApplyPriceImport(app, req.Rows)
		if err != nil {
			log.Printf("price_import_commit: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to apply prices")
		}
		return jsonOK(e, summary)
	}
}

// HandleCatalogImport validates an uploaded materials file (.csv or .xlsx)
// and, when every row is clean, commits it in the same request. Files with
// row errors are reported without touching the catalog.
func HandleCatalogImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "No file uploaded")
		}
		defer file.Close()

		result, err := services.ValidateCatalogFile(file, header.Filename)
		if err != nil {
			log.Printf("catalog_import: validate: %v", err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		if result.ErrorRows > 0 {
			return e.JSON(http.StatusUnprocessableEntity, result)
		}

		created, updated, err := services.CommitCatalogImport(app, result.Rows)
		if err != nil {
			log.Printf("catalog_import: commit: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to import catalog")
		}

		return jsonOK(e, map[string]any{
			"total_rows": result.TotalRows,
			"created":    created,
			"updated":    updated,
		})
	}
}
