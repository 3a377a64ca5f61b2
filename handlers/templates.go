package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kitbudget/services"
)

type templateResponse struct {
	ID string `json:"id"`
	services.ManualTemplate
}

// HandleTemplateList lists the manual kit templates with their extras
// decoded.
func HandleTemplateList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("manual_templates", "id != ''", "name", 0, 0, nil)
		if err != nil {
			log.Printf("template_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to list templates")
		}

		items := make([]templateResponse, 0, len(records))
		for _, r := range records {
			tpl, err := services.TemplateFromRecord(r)
			if err != nil {
				log.Printf("template_list: decode %s: %v", r.Id, err)
				continue
			}
			items = append(items, templateResponse{ID: r.Id, ManualTemplate: tpl})
		}
		return jsonOK(e, items)
	}
}

// HandleTemplateCreate creates one manual kit template.
func HandleTemplateCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.ManualTemplate
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if req.Name == "" {
			return jsonError(e, http.StatusBadRequest, "Template name is required")
		}
		if req.BaseKitCode == "" && len(req.Extras) == 0 {
			return jsonError(e, http.StatusBadRequest, "A template needs a base kit or at least one material")
		}

		raw, err := json.Marshal(req.Extras)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid template materials")
		}

		col, err := app.FindCollectionByNameOrId("manual_templates")
		if err != nil {
			log.Printf("template_create: collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("name", req.Name)
		record.Set("base_kit", req.BaseKitCode)
		record.Set("extras", string(raw))
		record.Set("note", req.Note)

		if err := app.Save(record); err != nil {
			log.Printf("template_create: save %s: %v", req.Name, err)
			return jsonError(e, http.StatusConflict, "A template with this name already exists")
		}
		return e.JSON(http.StatusCreated, templateResponse{ID: record.Id, ManualTemplate: req})
	}
}

// HandleTemplateUpdate replaces the base kit, extras and note of an
// existing template.
func HandleTemplateUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("manual_templates", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Template not found")
		}

		var req services.ManualTemplate
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if req.BaseKitCode == "" && len(req.Extras) == 0 {
			return jsonError(e, http.StatusBadRequest, "A template needs a base kit or at least one material")
		}

		raw, err := json.Marshal(req.Extras)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid template materials")
		}

		record.Set("base_kit", req.BaseKitCode)
		record.Set("extras", string(raw))
		record.Set("note", req.Note)

		if err := app.Save(record); err != nil {
			log.Printf("template_update: save %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		tpl, err := services.TemplateFromRecord(record)
		if err != nil {
			log.Printf("template_update: decode %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return jsonOK(e, templateResponse{ID: record.Id, ManualTemplate: tpl})
	}
}

// HandleTemplateDelete removes one manual template.
func HandleTemplateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("manual_templates", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Template not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("template_delete: %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return jsonOK(e, map[string]bool{"deleted": true})
	}
}
