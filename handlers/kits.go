package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kitbudget/services"
)

type kitResponse struct {
	ID          string  `json:"id"`
	CodigoKit   string  `json:"codigo_kit"`
	Description string  `json:"description"`
	KitPrice    float64 `json:"kit_price"`
}

func kitFromRecord(r *core.Record) kitResponse {
	return kitResponse{
		ID:          r.Id,
		CodigoKit:   r.GetString("codigo_kit"),
		Description: r.GetString("description"),
		KitPrice:    r.GetFloat("kit_price"),
	}
}

type kitCompositionEntry struct {
	ID       string  `json:"id"`
	Sap      string  `json:"sap"`
	Quantity float64 `json:"quantity"`
}

type kitDetailResponse struct {
	kitResponse
	Composition []kitCompositionEntry        `json:"composition"`
	Services    []services.AggregatedService `json:"services"`
}

// HandleKitList lists the standard kits, optionally filtered by a search
// term on code and description.
func HandleKitList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query().Get("q")

		var records []*core.Record
		var err error
		if q != "" {
			records, err = app.FindRecordsByFilter(
				"kits",
				"codigo_kit ~ {:q} || description ~ {:q}",
				"codigo_kit", 50, 0,
				map[string]any{"q": q},
			)
		} else {
			records, err = app.FindRecordsByFilter("kits", "id != ''", "codigo_kit", 0, 0, nil)
		}
		if err != nil {
			log.Printf("kit_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to list kits")
		}

		items := make([]kitResponse, 0, len(records))
		for _, r := range records {
			items = append(items, kitFromRecord(r))
		}
		return jsonOK(e, items)
	}
}

// HandleKitView returns one kit with its material composition and labor
// breakdown.
func HandleKitView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		code := e.Request.PathValue("code")
		records, err := app.FindRecordsByFilter(
			"kits", "codigo_kit = {:code}", "", 1, 0,
			map[string]any{"code": code},
		)
		if err != nil || len(records) == 0 {
			return jsonError(e, http.StatusNotFound, "Kit not found")
		}

		detail := kitDetailResponse{kitResponse: kitFromRecord(records[0])}

		compRecords, err := app.FindRecordsByFilter(
			"kit_composition", "codigo_kit = {:code}", "sap", 0, 0,
			map[string]any{"code": code},
		)
		if err != nil {
			log.Printf("kit_view: composition %s: %v", code, err)
			return jsonError(e, http.StatusInternalServerError, "Failed to load kit composition")
		}
		for _, r := range compRecords {
			detail.Composition = append(detail.Composition, kitCompositionEntry{
				ID:       r.Id,
				Sap:      r.GetString("sap"),
				Quantity: r.GetFloat("quantity"),
			})
		}

		svcs, err := services.NewCatalogFetcher(app).FetchServices([]string{code})
		if err != nil {
			log.Printf("kit_view: services %s: %v", code, err)
			return jsonError(e, http.StatusInternalServerError, "Failed to load kit services")
		}
		detail.Services = svcs

		return jsonOK(e, detail)
	}
}

type kitRequest struct {
	CodigoKit   string  `json:"codigo_kit"`
	Description string  `json:"description"`
	KitPrice    float64 `json:"kit_price"`
}

// HandleKitCreate creates one standard kit.
func HandleKitCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req kitRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if req.CodigoKit == "" {
			return jsonError(e, http.StatusBadRequest, "Kit code is required")
		}

		col, err := app.FindCollectionByNameOrId("kits")
		if err != nil {
			log.Printf("kit_create: collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("codigo_kit", req.CodigoKit)
		record.Set("description", req.Description)
		record.Set("kit_price", req.KitPrice)

		if err := app.Save(record); err != nil {
			log.Printf("kit_create: save %s: %v", req.CodigoKit, err)
			return jsonError(e, http.StatusConflict, "A kit with this code already exists")
		}
		return e.JSON(http.StatusCreated, kitFromRecord(record))
	}
}

// HandleKitDelete removes a kit together with its composition and service
// links.
func HandleKitDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		code := e.Request.PathValue("code")
		records, err := app.FindRecordsByFilter(
			"kits", "codigo_kit = {:code}", "", 1, 0,
			map[string]any{"code": code},
		)
		if err != nil || len(records) == 0 {
			return jsonError(e, http.StatusNotFound, "Kit not found")
		}

		for _, linked := range []string{"kit_composition", "kit_services"} {
			links, err := app.FindRecordsByFilter(
				linked, "codigo_kit = {:code}", "", 0, 0,
				map[string]any{"code": code},
			)
			if err != nil {
				continue
			}
			for _, link := range links {
				if err := app.Delete(link); err != nil {
					log.Printf("kit_delete: %s link %s: %v", linked, link.Id, err)
				}
			}
		}

		if err := app.Delete(records[0]); err != nil {
			log.Printf("kit_delete: %s: %v", code, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return jsonOK(e, map[string]bool{"deleted": true})
	}
}

type kitMaterialRequest struct {
	Sap      string  `json:"sap"`
	Quantity float64 `json:"quantity"`
}

// HandleKitAddMaterial links a material code to a kit's composition.
func HandleKitAddMaterial(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		code := e.Request.PathValue("code")

		var req kitMaterialRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if req.Sap == "" {
			return jsonError(e, http.StatusBadRequest, "SAP code is required")
		}
		if req.Quantity <= 0 {
			return jsonError(e, http.StatusBadRequest, "Quantity must be positive")
		}

		col, err := app.FindCollectionByNameOrId("kit_composition")
		if err != nil {
			log.Printf("kit_add_material: collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("codigo_kit", code)
		record.Set("sap", req.Sap)
		record.Set("quantity", req.Quantity)

		if err := app.Save(record); err != nil {
			log.Printf("kit_add_material: save %s/%s: %v", code, req.Sap, err)
			return jsonError(e, http.StatusConflict, "This material is already part of the kit")
		}
		return e.JSON(http.StatusCreated, kitCompositionEntry{
			ID:       record.Id,
			Sap:      req.Sap,
			Quantity: req.Quantity,
		})
	}
}

// HandleKitRemoveMaterial unlinks one composition entry.
func HandleKitRemoveMaterial(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		entryID := e.Request.PathValue("entryId")
		record, err := app.FindRecordById("kit_composition", entryID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Composition entry not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("kit_remove_material: %s: %v", entryID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return jsonOK(e, map[string]bool{"deleted": true})
	}
}
