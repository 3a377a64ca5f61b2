package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kitbudget/services"
	"kitbudget/testhelpers"
)

func TestHandleTemplateCreateAndList(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newJSONRequest(t, http.MethodPost, "/api/templates", map[string]any{
		"nome_template": "N1-REFORCADA",
		"kit_base":      "13N1",
		"observacao":    "N1 com parafuso extra",
		"materiais": []map[string]any{
			{"sap": "300342", "description": "PARAFUSO M16 X 250MM", "unit": "UN", "quantity": 2.0},
		},
	})
	rec := httptest.NewRecorder()
	if err := HandleTemplateCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("create handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	listReq := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	if err := HandleTemplateList(app)(newTestRequestEvent(app, listReq, rec)); err != nil {
		t.Fatalf("list handler error: %v", err)
	}

	var list []struct {
		ID string `json:"id"`
		services.ManualTemplate
	}
	decodeJSON(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("list = %+v, want one template", list)
	}
	tpl := list[0]
	if tpl.Name != "N1-REFORCADA" || tpl.BaseKitCode != "13N1" {
		t.Errorf("template = %+v", tpl.ManualTemplate)
	}
	if len(tpl.Extras) != 1 || tpl.Extras[0].Code != "300342" || tpl.Extras[0].Quantity != 2 {
		t.Errorf("extras = %+v, want single 300342 ×2", tpl.Extras)
	}
}

func TestHandleTemplateCreateRequiresContent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newJSONRequest(t, http.MethodPost, "/api/templates", map[string]any{
		"nome_template": "VAZIO",
	})
	rec := httptest.NewRecorder()
	if err := HandleTemplateCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for template without base kit or materials, got %d", rec.Code)
	}
}

func TestHandleTemplateCreateRejectsDuplicateName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestTemplate(t, app, "N1-REFORCADA", "13N1", []services.TemplateExtra{
		{Code: "300342", Quantity: 2},
	})

	req := newJSONRequest(t, http.MethodPost, "/api/templates", map[string]any{
		"nome_template": "N1-REFORCADA",
		"kit_base":      "13N3",
	})
	rec := httptest.NewRecorder()
	if err := HandleTemplateCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate name, got %d", rec.Code)
	}
}

func TestHandleTemplateUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	record := testhelpers.CreateTestTemplate(t, app, "N1-REFORCADA", "13N1", []services.TemplateExtra{
		{Code: "300342", Quantity: 2},
	})

	req := newJSONRequest(t, http.MethodPatch, "/api/templates/"+record.Id, map[string]any{
		"kit_base": "13N3",
		"materiais": []map[string]any{
			{"sap": "300342", "quantity": 4.0},
		},
	})
	req.SetPathValue("id", record.Id)
	rec := httptest.NewRecorder()
	if err := HandleTemplateUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	reloaded, err := app.FindRecordById("manual_templates", record.Id)
	if err != nil {
		t.Fatalf("reload template: %v", err)
	}
	tpl, err := services.TemplateFromRecord(reloaded)
	if err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if tpl.BaseKitCode != "13N3" {
		t.Errorf("base kit = %q, want 13N3", tpl.BaseKitCode)
	}
	if len(tpl.Extras) != 1 || tpl.Extras[0].Quantity != 4 {
		t.Errorf("extras = %+v, want 300342 ×4", tpl.Extras)
	}
}

func TestHandleTemplateDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	record := testhelpers.CreateTestTemplate(t, app, "N1-REFORCADA", "13N1", nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/templates/"+record.Id, nil)
	req.SetPathValue("id", record.Id)
	rec := httptest.NewRecorder()
	if err := HandleTemplateDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("manual_templates", record.Id); err == nil {
		t.Error("template still present after delete")
	}
}
