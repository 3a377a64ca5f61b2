// Package services contains the budget aggregation engine: contextual code
// resolution, manual template expansion, kit cost fetching and the
// consolidation pass that turns a selection into a bill of materials.
package services

// Category classifies a budget line for display and totalling.
type Category string

const (
	CategoryPole     Category = "POSTE"
	CategoryKit      Category = "KIT"
	CategoryMaterial Category = "MATERIAL"
	CategoryService  Category = "SERVICO"
)

// MaterialLine is one line of a budget: a pole, a kit line item, or a
// consolidated material. Priced distinguishes a genuine zero price from a
// price the catalog does not know.
type MaterialLine struct {
	Code        string   `json:"sap"`
	Description string   `json:"description"`
	Unit        string   `json:"unit"`
	UnitPrice   float64  `json:"unit_price"`
	Priced      bool     `json:"priced"`
	Quantity    float64  `json:"quantity"`
	Subtotal    float64  `json:"subtotal"`
	Category    Category `json:"category"`
	Origin      string   `json:"origin,omitempty"`
}

// KitSelection is one chosen kit (or manual template, addressed by its
// name) with a selection quantity.
type KitSelection struct {
	KitCode     string  `json:"codigo_kit"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	KitPrice    float64 `json:"kit_price"`
}

// TemplateExtra is one additional material a manual template adds on top
// of its base kit. Quantity is per template instance.
type TemplateExtra struct {
	Code        string  `json:"sap"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
}

// ManualTemplate is a user-defined kit variant: an optional base kit plus
// extra materials.
type ManualTemplate struct {
	Name        string          `json:"nome_template"`
	BaseKitCode string          `json:"kit_base"`
	Note        string          `json:"observacao"`
	Extras      []TemplateExtra `json:"materiais"`
}

// Resolution-rule context types.
const (
	ContextPole      = "poste"
	ContextConductor = "condutor"
)

// ResolutionRule maps a partial code family to a concrete code under one
// context value. FullCode wins when set; otherwise the concrete code is
// Prefix+Suffix.
type ResolutionRule struct {
	Prefix       string `json:"prefix"`
	ContextType  string `json:"context_type"`
	ContextValue string `json:"context_value"`
	Suffix       string `json:"suffix"`
	FullCode     string `json:"full_code"`
}

// ResolutionContext carries the selections partial codes resolve against.
type ResolutionContext struct {
	PoleCode    string `json:"pole_code"`
	ConductorMT string `json:"conductor_mt"`
	ConductorBT string `json:"conductor_bt"`
}

// KitCosts is what a cost fetch for a batch of kit codes returns: the
// merged material composition and the summed totals.
type KitCosts struct {
	Materials     []MaterialLine `json:"materiais"`
	TotalMaterial float64        `json:"total_material"`
	TotalService  float64        `json:"total_servico"`
}

// KitCostFetcher prices a batch of kit codes. Implementations must treat
// repeated codes as additional kit instances.
type KitCostFetcher interface {
	FetchCosts(kitCodes []string) (KitCosts, error)
}

// PriceLookup reports the catalog unit price for a concrete code, and
// whether the catalog knows it at all.
type PriceLookup func(code string) (float64, bool)

// AggregationResult is a computed budget: poles first, then kit line
// items, then the consolidated materials.
type AggregationResult struct {
	Materials     []MaterialLine `json:"materiais"`
	TotalMaterial float64        `json:"total_material"`
	TotalService  float64        `json:"total_servico"`
	TotalGeneral  float64        `json:"total_geral"`
}
