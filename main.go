package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kitbudget/collections"
	"kitbudget/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Materials catalog ────────────────────────────────────
		se.Router.GET("/api/materials", handlers.HandleMaterialList(app))
		se.Router.POST("/api/materials", handlers.HandleMaterialCreate(app))
		se.Router.PATCH("/api/materials/{id}", handlers.HandleMaterialUpdate(app))
		se.Router.DELETE("/api/materials/{id}", handlers.HandleMaterialDelete(app))

		// ── Kits ─────────────────────────────────────────────────
		se.Router.GET("/api/kits", handlers.HandleKitList(app))
		se.Router.POST("/api/kits", handlers.HandleKitCreate(app))
		se.Router.GET("/api/kits/{code}", handlers.HandleKitView(app))
		se.Router.DELETE("/api/kits/{code}", handlers.HandleKitDelete(app))
		se.Router.POST("/api/kits/{code}/materials", handlers.HandleKitAddMaterial(app))
		se.Router.DELETE("/api/kits/{code}/materials/{entryId}", handlers.HandleKitRemoveMaterial(app))
		se.Router.POST("/api/kits/services/aggregate", handlers.HandleServicesAggregate(app))
		se.Router.POST("/api/kits/{code}/services", handlers.HandleKitAddService(app))
		se.Router.DELETE("/api/kits/{code}/services/{entryId}", handlers.HandleKitRemoveService(app))

		// ── Labor catalog ────────────────────────────────────────
		se.Router.GET("/api/labor", handlers.HandleLaborList(app))
		se.Router.POST("/api/labor", handlers.HandleLaborCreate(app))
		se.Router.DELETE("/api/labor/{id}", handlers.HandleLaborDelete(app))

		// ── Resolution rules ─────────────────────────────────────
		se.Router.GET("/api/rules", handlers.HandleRuleList(app))
		se.Router.POST("/api/rules", handlers.HandleRuleCreate(app))
		se.Router.DELETE("/api/rules/{id}", handlers.HandleRuleDelete(app))
		se.Router.POST("/api/resolve", handlers.HandleResolvePreview(app))

		// ── Manual templates ─────────────────────────────────────
		se.Router.GET("/api/templates", handlers.HandleTemplateList(app))
		se.Router.POST("/api/templates", handlers.HandleTemplateCreate(app))
		se.Router.PATCH("/api/templates/{id}", handlers.HandleTemplateUpdate(app))
		se.Router.DELETE("/api/templates/{id}", handlers.HandleTemplateDelete(app))

		// ── Budgets ──────────────────────────────────────────────
		se.Router.POST("/api/budgets/calculate", handlers.HandleBudgetCalculate(app))
		se.Router.POST("/api/budgets/export/excel", handlers.HandleDirectExportExcel(app))
		se.Router.POST("/api/budgets", handlers.HandleBudgetSave(app))
		se.Router.GET("/api/budgets", handlers.HandleBudgetList(app))
		se.Router.GET("/api/budgets/{id}/export/excel", handlers.HandleBudgetExportExcel(app))
		se.Router.GET("/api/budgets/{id}/export/pdf", handlers.HandleBudgetExportPDF(app))
		se.Router.GET("/api/budgets/{id}", handlers.HandleBudgetView(app))
		se.Router.DELETE("/api/budgets/{id}", handlers.HandleBudgetDelete(app))

		// ── Imports ──────────────────────────────────────────────
		se.Router.POST("/api/import/prices", handlers.HandlePriceImport(app))
		se.Router.POST("/api/import/prices/commit", handlers.HandlePriceImportCommit(app))
		se.Router.POST("/api/import/catalog", handlers.HandleCatalogImport(app))

		// ── Misc ─────────────────────────────────────────────────
		se.Router.GET("/api/stats", handlers.HandleStats(app))
		se.Router.GET("/api/options", handlers.HandleOptions())

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
