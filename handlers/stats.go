package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kitbudget/services"
)

// HandleOptions returns the static choice lists the frontend renders in
// its forms.
func HandleOptions() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return jsonOK(e, map[string]any{
			"units":         services.UnitOptions,
			"context_types": services.ContextTypeOptions,
			"categories":    services.CategoryOptions,
		})
	}
}

// HandleStats reports record counts per collection, for the dashboard.
func HandleStats(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		counts := map[string]int{}
		for _, name := range []string{"materials", "kits", "labor", "suffix_rules", "manual_templates", "budgets"} {
			records, err := app.FindAllRecords(name)
			if err != nil {
				log.Printf("stats: count %s: %v", name, err)
				return jsonError(e, http.StatusInternalServerError, "Failed to compute stats")
			}
			counts[name] = len(records)
		}
		return jsonOK(e, counts)
	}
}
