package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kitbudget/services"
)

type calculateRequest struct {
	Kits    []services.KitSelection    `json:"kits"`
	Loose   []services.MaterialLine    `json:"loose"`
	Context services.ResolutionContext `json:"context"`
}

type calculateResponse struct {
	services.AggregationResult
	Unresolved []string                     `json:"unresolved,omitempty"`
	Services   []services.AggregatedService `json:"services,omitempty"`
}

// buildBudget runs one aggregation pass over the stored catalog, templates
// and rules.
func buildBudget(app *pocketbase.PocketBase, req calculateRequest) (calculateResponse, error) {
	templates, err := services.LoadTemplates(app)
	if err != nil {
		return calculateResponse{}, err
	}
	rules, err := services.LoadRules(app)
	if err != nil {
		return calculateResponse{}, err
	}

	in := services.AggregationInput{
		Kits:      req.Kits,
		Loose:     req.Loose,
		Templates: templates,
		Rules:     rules,
		Context:   req.Context,
	}
	fetcher := services.NewCatalogFetcher(app)

	result, err := services.Aggregate(in, fetcher, services.CatalogPriceLookup(app))
	if err != nil {
		return calculateResponse{}, err
	}

	ctx := services.DeriveContext(req.Loose, req.Context)
	resp := calculateResponse{
		AggregationResult: result,
		Unresolved:        services.UnresolvedCodes(result.Materials, ctx, rules),
	}

	// Labor breakdown for the same kit refs the aggregation priced.
	var kitRefs []string
	for _, sel := range req.Kits {
		refs, _ := services.ExpandSelection(sel, templates)
		kitRefs = append(kitRefs, refs...)
	}
	if len(kitRefs) > 0 {
		svcs, err := fetcher.FetchServices(kitRefs)
		if err != nil {
			return calculateResponse{}, err
		}
		resp.Services = svcs
	}

	return resp, nil
}

// HandleBudgetCalculate computes a consolidated budget for the posted
// selection without persisting anything.
func HandleBudgetCalculate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req calculateRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		resp, err := buildBudget(app, req)
		if err != nil {
			log.Printf("budget_calculate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to calculate budget")
		}
		return jsonOK(e, resp)
	}
}

// budgetPayload is what a saved budget stores: the selection that produced
// it plus the computed result, so it can be reopened or re-exported later.
type budgetPayload struct {
	Kits    []services.KitSelection    `json:"kits"`
	Loose   []services.MaterialLine    `json:"loose"`
	Context services.ResolutionContext `json:"context"`
	Result  services.AggregationResult `json:"result"`
}

type saveBudgetRequest struct {
	Name string `json:"name"`
	calculateRequest
}

type budgetSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	TotalGeneral float64 `json:"total_geral"`
	Created      string  `json:"created"`
}

// HandleBudgetSave recomputes the posted selection and persists it under
// the given name.
func HandleBudgetSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req saveBudgetRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if req.Name == "" {
			return jsonError(e, http.StatusBadRequest, "Budget name is required")
		}

		resp, err := buildBudget(app, req.calculateRequest)
		if err != nil {
			log.Printf("budget_save: calculate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to calculate budget")
		}

		payload := budgetPayload{
			Kits:    req.Kits,
			Loose:   req.Loose,
			Context: req.Context,
			Result:  resp.AggregationResult,
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Printf("budget_save: marshal: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		col, err := app.FindCollectionByNameOrId("budgets")
		if err != nil {
			log.Printf("budget_save: collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("name", req.Name)
		record.Set("payload", string(raw))

		if err := app.Save(record); err != nil {
			log.Printf("budget_save: save %s: %v", req.Name, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, budgetSummary{
			ID:           record.Id,
			Name:         req.Name,
			TotalGeneral: resp.TotalGeneral,
			Created:      record.GetDateTime("created").String(),
		})
	}
}

// HandleBudgetList lists the saved budgets, newest first.
func HandleBudgetList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("budgets", "id != ''", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("budget_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to list budgets")
		}

		items := make([]budgetSummary, 0, len(records))
		for _, r := range records {
			var payload budgetPayload
			if err := r.UnmarshalJSONField("payload", &payload); err != nil {
				log.Printf("budget_list: decode %s: %v", r.Id, err)
				continue
			}
			items = append(items, budgetSummary{
				ID:           r.Id,
				Name:         r.GetString("name"),
				TotalGeneral: payload.Result.TotalGeneral,
				Created:      r.GetDateTime("created").String(),
			})
		}
		return jsonOK(e, items)
	}
}

// loadBudgetPayload fetches one saved budget and decodes its payload.
func loadBudgetPayload(app *pocketbase.PocketBase, id string) (*core.Record, budgetPayload, error) {
	record, err := app.FindRecordById("budgets", id)
	if err != nil {
		return nil, budgetPayload{}, err
	}
	var payload budgetPayload
	if err := record.UnmarshalJSONField("payload", &payload); err != nil {
		return nil, budgetPayload{}, err
	}
	return record, payload, nil
}

// HandleBudgetView returns one saved budget with its full payload.
func HandleBudgetView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, payload, err := loadBudgetPayload(app, id)
		if err != nil {
			log.Printf("budget_view: %s: %v", id, err)
			return jsonError(e, http.StatusNotFound, "Budget not found")
		}
		return jsonOK(e, map[string]any{
			"id":      record.Id,
			"name":    record.GetString("name"),
			"created": record.GetDateTime("created").String(),
			"payload": payload,
		})
	}
}

// HandleBudgetDelete removes one saved budget.
func HandleBudgetDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("budgets", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Budget not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("budget_delete: %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return jsonOK(e, map[string]bool{"deleted": true})
	}
}
