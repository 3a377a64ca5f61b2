package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kitbudget/services"
)

type laborResponse struct {
	ID          string  `json:"id"`
	CodigoMO    string  `json:"codigo_mo"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	GrossPrice  float64 `json:"gross_price"`
}

func laborFromRecord(r *core.Record) laborResponse {
	return laborResponse{
		ID:          r.Id,
		CodigoMO:    r.GetString("codigo_mo"),
		Description: r.GetString("description"),
		Unit:        r.GetString("unit"),
		GrossPrice:  r.GetFloat("gross_price"),
	}
}

// HandleLaborList lists the labor catalog.
func HandleLaborList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("labor", "id != ''", "codigo_mo", 0, 0, nil)
		if err != nil {
			log.Printf("labor_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to list labor entries")
		}
		items := make([]laborResponse, 0, len(records))
		for _, r := range records {
			items = append(items, laborFromRecord(r))
		}
		return jsonOK(e, items)
	}
}

type laborRequest struct {
	CodigoMO    string  `json:"codigo_mo"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	GrossPrice  float64 `json:"gross_price"`
}

// HandleLaborCreate creates one labor entry.
func HandleLaborCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req laborRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if req.CodigoMO == "" || req.Description == "" {
			return jsonError(e, http.StatusBadRequest, "Labor code and description are required")
		}
		if req.GrossPrice < 0 {
			return jsonError(e, http.StatusBadRequest, "Gross price cannot be negative")
		}

		col, err := app.FindCollectionByNameOrId("labor")
		if err != nil {
			log.Printf("labor_create: collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("codigo_mo", req.CodigoMO)
		record.Set("description", req.Description)
		record.Set("unit", req.Unit)
		record.Set("gross_price", req.GrossPrice)

		if err := app.Save(record); err != nil {
			log.Printf("labor_create: save %s: %v", req.CodigoMO, err)
			return jsonError(e, http.StatusConflict, "A labor entry with this code already exists")
		}
		return e.JSON(http.StatusCreated, laborFromRecord(record))
	}
}

// HandleLaborDelete removes one labor entry.
func HandleLaborDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("labor", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Labor entry not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("labor_delete: %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return jsonOK(e, map[string]bool{"deleted": true})
	}
}

type kitServiceRequest struct {
	CodigoMO string `json:"codigo_mo"`
}

// HandleKitAddService links a labor code to a kit.
func HandleKitAddService(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		code := e.Request.PathValue("code")

		var req kitServiceRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if req.CodigoMO == "" {
			return jsonError(e, http.StatusBadRequest, "Labor code is required")
		}

		col, err := app.FindCollectionByNameOrId("kit_services")
		if err != nil {
			log.Printf("kit_add_service: collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("codigo_kit", code)
		record.Set("codigo_mo", req.CodigoMO)

		if err := app.Save(record); err != nil {
			log.Printf("kit_add_service: save %s/%s: %v", code, req.CodigoMO, err)
			return jsonError(e, http.StatusConflict, "This service is already linked to the kit")
		}
		return e.JSON(http.StatusCreated, map[string]string{
			"id":         record.Id,
			"codigo_kit": code,
			"codigo_mo":  req.CodigoMO,
		})
	}
}

type servicesAggregateRequest struct {
	Kits []services.KitSelection `json:"kits"`
}

type servicesAggregateResponse struct {
	Services     []services.AggregatedService `json:"services"`
	TotalService float64                      `json:"total_servico"`
}

// HandleServicesAggregate returns the labor breakdown for a set of kit
// selections, grouped by labor code with quantities scaled by selection
// quantity. Template selections contribute their base kit's services.
func HandleServicesAggregate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req servicesAggregateRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		templates, err := services.LoadTemplates(app)
		if err != nil {
			log.Printf("services_aggregate: templates: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		var kitRefs []string
		for _, sel := range req.Kits {
			refs, _ := services.ExpandSelection(sel, templates)
			kitRefs = append(kitRefs, refs...)
		}

		resp := servicesAggregateResponse{Services: []services.AggregatedService{}}
		if len(kitRefs) > 0 {
			aggregated, err := services.NewCatalogFetcher(app).FetchServices(kitRefs)
			if err != nil {
				log.Printf("services_aggregate: fetch: %v", err)
				return jsonError(e, http.StatusInternalServerError, "Failed to aggregate services")
			}
			resp.Services = aggregated
			total := 0.0
			for _, svc := range aggregated {
				total += svc.Subtotal
			}
			resp.TotalService = services.RoundCents(total)
		}
		return jsonOK(e, resp)
	}
}

// HandleKitRemoveService unlinks one kit service entry.
func HandleKitRemoveService(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		entryID := e.Request.PathValue("entryId")
		record, err := app.FindRecordById("kit_services", entryID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Service link not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("kit_remove_service: %s: %v", entryID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return jsonOK(e, map[string]bool{"deleted": true})
	}
}
