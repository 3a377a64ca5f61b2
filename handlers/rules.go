package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kitbudget/services"
)

type ruleResponse struct {
	ID           string `json:"id"`
	Prefix       string `json:"prefix"`
	ContextType  string `json:"context_type"`
	ContextValue string `json:"context_value"`
	Suffix       string `json:"suffix"`
	FullCode     string `json:"full_code"`
}

func ruleFromRecord(r *core.Record) ruleResponse {
	return ruleResponse{
		ID:           r.Id,
		Prefix:       r.GetString("prefix"),
		ContextType:  r.GetString("context_type"),
		ContextValue: r.GetString("context_value"),
		Suffix:       r.GetString("suffix"),
		FullCode:     r.GetString("full_code"),
	}
}

// HandleRuleList lists the contextual suffix rules, optionally filtered by
// prefix.
func HandleRuleList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		prefix := e.Request.URL.Query().Get("prefix")

		var records []*core.Record
		var err error
		if prefix != "" {
			records, err = app.FindRecordsByFilter(
				"suffix_rules", "prefix = {:prefix}", "context_type,context_value", 0, 0,
				map[string]any{"prefix": prefix},
			)
		} else {
			records, err = app.FindRecordsByFilter("suffix_rules", "id != ''", "prefix,context_type,context_value", 0, 0, nil)
		}
		if err != nil {
			log.Printf("rule_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to list rules")
		}

		items := make([]ruleResponse, 0, len(records))
		for _, r := range records {
			items = append(items, ruleFromRecord(r))
		}
		return jsonOK(e, items)
	}
}

type ruleRequest struct {
	Prefix       string `json:"prefix"`
	ContextType  string `json:"context_type"`
	ContextValue string `json:"context_value"`
	Suffix       string `json:"suffix"`
	FullCode     string `json:"full_code"`
}

// HandleRuleCreate creates one resolution rule. One (prefix, context type,
// context value) triple maps to exactly one concrete code; a duplicate is
// rejected here rather than shadowed at resolution time.
func HandleRuleCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req ruleRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if req.Prefix == "" || req.ContextType == "" || req.ContextValue == "" {
			return jsonError(e, http.StatusBadRequest, "Prefix, context type and context value are required")
		}
		if req.ContextType != services.ContextPole && req.ContextType != services.ContextConductor {
			return jsonError(e, http.StatusBadRequest, "Unknown context type")
		}
		if req.Suffix == "" && req.FullCode == "" {
			return jsonError(e, http.StatusBadRequest, "A suffix or a full code is required")
		}

		existing, err := app.FindRecordsByFilter(
			"suffix_rules",
			"prefix = {:prefix} && context_type = {:ctype} && context_value = {:cvalue}",
			"", 1, 0,
			map[string]any{"prefix": req.Prefix, "ctype": req.ContextType, "cvalue": req.ContextValue},
		)
		if err == nil && len(existing) > 0 {
			return jsonError(e, http.StatusConflict, "A rule for this prefix and context already exists")
		}

		col, err := app.FindCollectionByNameOrId("suffix_rules")
		if err != nil {
			log.Printf("rule_create: collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("prefix", req.Prefix)
		record.Set("context_type", req.ContextType)
		record.Set("context_value", req.ContextValue)
		record.Set("suffix", req.Suffix)
		record.Set("full_code", req.FullCode)

		if err := app.Save(record); err != nil {
			log.Printf("rule_create: save %s: %v", req.Prefix, err)
			return jsonError(e, http.StatusConflict, "A rule for this prefix and context already exists")
		}
		return e.JSON(http.StatusCreated, ruleFromRecord(record))
	}
}

// HandleRuleDelete removes one resolution rule.
func HandleRuleDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("suffix_rules", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Rule not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("rule_delete: %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return jsonOK(e, map[string]bool{"deleted": true})
	}
}

type resolveRequest struct {
	Codes   []string                   `json:"codes"`
	Context services.ResolutionContext `json:"context"`
}

type resolvedCode struct {
	Code     string `json:"code"`
	Resolved string `json:"resolved"`
	Partial  bool   `json:"partial"`
}

// HandleResolvePreview resolves a batch of codes against the stored rules
// and the supplied context, reporting which ones stay partial.
func HandleResolvePreview(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req resolveRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}

		rules, err := services.LoadRules(app)
		if err != nil {
			log.Printf("resolve_preview: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to load rules")
		}

		out := make([]resolvedCode, 0, len(req.Codes))
		for _, code := range req.Codes {
			resolved := services.Resolve(code, req.Context, rules)
			out = append(out, resolvedCode{
				Code:     code,
				Resolved: resolved,
				Partial:  services.IsPartialCode(resolved),
			})
		}
		return jsonOK(e, out)
	}
}
