package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kitbudget/testhelpers"
)

func TestHandleRuleCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newJSONRequest(t, http.MethodPost, "/api/rules", map[string]any{
		"prefix":        "F-10/",
		"context_type":  "poste",
		"context_value": "11600B",
		"suffix":        "06",
		"full_code":     "F-10/06",
	})
	rec := httptest.NewRecorder()
	if err := HandleRuleCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleRuleCreateRejectsDuplicate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestRule(t, app, "F-10/", "poste", "11600B", "06", "F-10/06")

	req := newJSONRequest(t, http.MethodPost, "/api/rules", map[string]any{
		"prefix":        "F-10/",
		"context_type":  "poste",
		"context_value": "11600B",
		"suffix":        "99",
	})
	rec := httptest.NewRecorder()
	if err := HandleRuleCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate (prefix, context) pair, got %d", rec.Code)
	}
}

func TestHandleRuleCreateValidation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing prefix", map[string]any{"context_type": "poste", "context_value": "11600B", "suffix": "06"}},
		{"unknown context type", map[string]any{"prefix": "F-10/", "context_type": "fase", "context_value": "x", "suffix": "06"}},
		{"no suffix or full code", map[string]any{"prefix": "F-10/", "context_type": "poste", "context_value": "11600B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/rules", tt.body)
			rec := httptest.NewRecorder()
			if err := HandleRuleCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleResolvePreview(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestRule(t, app, "F-10/", "poste", "11600B", "06", "F-10/06")
	testhelpers.CreateTestRule(t, app, "M1/", "condutor", "cab_21_caa", "4", "M1/4")

	req := newJSONRequest(t, http.MethodPost, "/api/resolve", map[string]any{
		"codes": []string{"F-10/", "M1/", "ZZ/", "300100"},
		"context": map[string]string{
			"pole_code": "11600B",
		},
	})
	rec := httptest.NewRecorder()
	if err := HandleResolvePreview(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var out []struct {
		Code     string `json:"code"`
		Resolved string `json:"resolved"`
		Partial  bool   `json:"partial"`
	}
	decodeJSON(t, rec, &out)

	want := []struct {
		resolved string
		partial  bool
	}{
		{"F-10/06", false},
		{"M1/", true}, // no conductor selected
		{"ZZ/", true}, // no rule
		{"300100", false},
	}
	if len(out) != len(want) {
		t.Fatalf("got %d results, want %d", len(out), len(want))
	}
	for i, w := range want {
		if out[i].Resolved != w.resolved || out[i].Partial != w.partial {
			t.Errorf("result %d = %+v, want resolved=%q partial=%v", i, out[i], w.resolved, w.partial)
		}
	}
}

func TestHandleRuleListByPrefix(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestRule(t, app, "F-10/", "poste", "11600B", "06", "F-10/06")
	testhelpers.CreateTestRule(t, app, "F-10/", "poste", "9100B", "02", "F-10/02")
	testhelpers.CreateTestRule(t, app, "M1/", "condutor", "cab_21_caa", "4", "M1/4")

	req := httptest.NewRequest(http.MethodGet, "/api/rules?prefix=F-10%2F", nil)
	rec := httptest.NewRecorder()
	if err := HandleRuleList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var out []struct {
		Prefix string `json:"prefix"`
	}
	decodeJSON(t, rec, &out)
	if len(out) != 2 {
		t.Fatalf("got %d rules, want 2", len(out))
	}
	for _, r := range out {
		if r.Prefix != "F-10/" {
			t.Errorf("rule prefix = %q, want F-10/", r.Prefix)
		}
	}
}
