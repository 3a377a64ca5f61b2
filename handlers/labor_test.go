package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kitbudget/services"
	"kitbudget/testhelpers"
)

func TestHandleLaborCreateAndList(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newJSONRequest(t, http.MethodPost, "/api/labor", map[string]any{
		"codigo_mo":   "MO-1010",
		"description": "INSTALACAO ESTRUTURA N1",
		"unit":        "UN",
		"gross_price": 420.0,
	})
	rec := httptest.NewRecorder()
	if err := HandleLaborCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/labor", nil)
	rec = httptest.NewRecorder()
	if err := HandleLaborList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var items []laborResponse
	decodeJSON(t, rec, &items)
	if len(items) != 1 || items[0].CodigoMO != "MO-1010" || items[0].GrossPrice != 420 {
		t.Errorf("list = %+v, want one MO-1010 entry at 420", items)
	}
}

func TestHandleLaborCreateValidation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing code", map[string]any{"description": "x", "gross_price": 10.0}},
		{"missing description", map[string]any{"codigo_mo": "MO-1", "gross_price": 10.0}},
		{"negative price", map[string]any{"codigo_mo": "MO-1", "description": "x", "gross_price": -1.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/labor", tt.body)
			rec := httptest.NewRecorder()
			if err := HandleLaborCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleServicesAggregate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestKit(t, app, "13N1", "ESTRUTURA N1", 350)
	testhelpers.CreateTestKit(t, app, "BT1", "ESTRUTURA BT1", 120)
	testhelpers.CreateTestLabor(t, app, "MO-1010", "INSTALACAO ESTRUTURA N1", 420)
	testhelpers.CreateTestLabor(t, app, "MO-1020", "INSTALACAO BT", 310)
	testhelpers.AddKitService(t, app, "13N1", "MO-1010")
	testhelpers.AddKitService(t, app, "BT1", "MO-1020")

	req := newJSONRequest(t, http.MethodPost, "/api/kits/services/aggregate", map[string]any{
		"kits": []map[string]any{
			{"codigo_kit": "13N1", "quantity": 2},
			{"codigo_kit": "BT1", "quantity": 1},
		},
	})
	rec := httptest.NewRecorder()
	if err := HandleServicesAggregate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp servicesAggregateResponse
	decodeJSON(t, rec, &resp)
	if len(resp.Services) != 2 {
		t.Fatalf("services = %+v, want 2 entries", resp.Services)
	}
	byCode := map[string]services.AggregatedService{}
	for _, svc := range resp.Services {
		byCode[svc.LaborCode] = svc
	}
	if svc := byCode["MO-1010"]; svc.Quantity != 2 || svc.Subtotal != 840 {
		t.Errorf("MO-1010 = %+v, want quantity 2 subtotal 840", svc)
	}
	if svc := byCode["MO-1020"]; svc.Quantity != 1 || svc.Subtotal != 310 {
		t.Errorf("MO-1020 = %+v, want quantity 1 subtotal 310", svc)
	}
	if resp.TotalService != 1150 {
		t.Errorf("total_servico = %v, want 1150", resp.TotalService)
	}
}

func TestHandleServicesAggregateExpandsTemplates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestKit(t, app, "13N1", "ESTRUTURA N1", 350)
	testhelpers.CreateTestLabor(t, app, "MO-1010", "INSTALACAO ESTRUTURA N1", 420)
	testhelpers.AddKitService(t, app, "13N1", "MO-1010")
	testhelpers.CreateTestTemplate(t, app, "N1 Reforçada", "13N1", []map[string]any{
		{"sap": "300342", "quantity": 2.0},
	})

	req := newJSONRequest(t, http.MethodPost, "/api/kits/services/aggregate", map[string]any{
		"kits": []map[string]any{
			{"codigo_kit": "N1 Reforçada", "quantity": 3},
		},
	})
	rec := httptest.NewRecorder()
	if err := HandleServicesAggregate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp servicesAggregateResponse
	decodeJSON(t, rec, &resp)
	if len(resp.Services) != 1 || resp.Services[0].LaborCode != "MO-1010" {
		t.Fatalf("services = %+v, want MO-1010", resp.Services)
	}
	if resp.Services[0].Quantity != 3 || resp.TotalService != 1260 {
		t.Errorf("got quantity %v total %v, want 3 and 1260", resp.Services[0].Quantity, resp.TotalService)
	}
}

func TestHandleServicesAggregateEmpty(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newJSONRequest(t, http.MethodPost, "/api/kits/services/aggregate", map[string]any{
		"kits": []map[string]any{},
	})
	rec := httptest.NewRecorder()
	if err := HandleServicesAggregate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp servicesAggregateResponse
	decodeJSON(t, rec, &resp)
	if len(resp.Services) != 0 || resp.TotalService != 0 {
		t.Errorf("expected empty aggregation, got %+v", resp)
	}
}
