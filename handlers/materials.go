package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// materialResponse is the JSON shape of one catalog material.
type materialResponse struct {
	ID          string  `json:"id"`
	Sap         string  `json:"sap"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
}

func materialFromRecord(r *core.Record) materialResponse {
	return materialResponse{
		ID:          r.Id,
		Sap:         r.GetString("sap"),
		Description: r.GetString("description"),
		Unit:        r.GetString("unit"),
		UnitPrice:   r.GetFloat("unit_price"),
	}
}

// HandleMaterialList lists catalog materials, optionally filtered by a
// search term matched against code and description.
func HandleMaterialList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query().Get("q")

		var records []*core.Record
		var err error
		if q != "" {
			records, err = app.FindRecordsByFilter(
				"materials",
				"sap ~ {:q} || description ~ {:q}",
				"sap", 50, 0,
				map[string]any{"q": q},
			)
		} else {
			records, err = app.FindRecordsByFilter("materials", "id != ''", "sap", 0, 0, nil)
		}
		if err != nil {
			log.Printf("material_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to list materials")
		}

		items := make([]materialResponse, 0, len(records))
		for _, r := range records {
			items = append(items, materialFromRecord(r))
		}
		return jsonOK(e, items)
	}
}

type materialRequest struct {
	Sap         string  `json:"sap"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
}

// HandleMaterialCreate creates one catalog material.
func HandleMaterialCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req materialRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if req.Sap == "" || req.Description == "" {
			return jsonError(e, http.StatusBadRequest, "SAP code and description are required")
		}
		if req.Unit == "" {
			req.Unit = "UN"
		}
		if req.UnitPrice < 0 {
			return jsonError(e, http.StatusBadRequest, "Unit price cannot be negative")
		}

		col, err := app.FindCollectionByNameOrId("materials")
		if err != nil {
			log.Printf("material_create: collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("sap", req.Sap)
		record.Set("description", req.Description)
		record.Set("unit", req.Unit)
		record.Set("unit_price", req.UnitPrice)

		if err := app.Save(record); err != nil {
			log.Printf("material_create: save %s: %v", req.Sap, err)
			return jsonError(e, http.StatusConflict, "A material with this SAP code already exists")
		}
		return e.JSON(http.StatusCreated, materialFromRecord(record))
	}
}

// HandleMaterialUpdate updates an existing material.
func HandleMaterialUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("materials", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Material not found")
		}

		var req materialRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if req.Description != "" {
			record.Set("description", req.Description)
		}
		if req.Unit != "" {
			record.Set("unit", req.Unit)
		}
		if req.UnitPrice < 0 {
			return jsonError(e, http.StatusBadRequest, "Unit price cannot be negative")
		}
		record.Set("unit_price", req.UnitPrice)

		if err := app.Save(record); err != nil {
			log.Printf("material_update: save %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return jsonOK(e, materialFromRecord(record))
	}
}

// HandleMaterialDelete removes a material from the catalog.
func HandleMaterialDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("materials", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Material not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("material_delete: %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return jsonOK(e, map[string]bool{"deleted": true})
	}
}
