package dto

import (
	"go-forge/internal/industry/models"
	"go-forge/pkg/sde"
)

// CostBreakdownOutput represents the response for a cost calculation
type CostBreakdownOutput struct {
	Body models.CostBreakdown `json:"body"`
}

// ProfitAnalysisOutput represents the response for a profit analysis
type ProfitAnalysisOutput struct {
	Body models.ProfitAnalysis `json:"body"`
}

// MaterialEntry represents one material requirement in API responses
type MaterialEntry struct {
	TypeID   int    `json:"type_id" doc:"Material type ID"`
	TypeName string `json:"type_name,omitempty" doc:"Material type name"`
	Quantity int    `json:"quantity" doc:"Quantity per run"`
}

// MaterialListOutput represents the response for a blueprint material listing
type MaterialListOutput struct {
	Body struct {
		BlueprintID int             `json:"blueprint_id" doc:"Blueprint ID"`
		Activity    string          `json:"activity" doc:"Blueprint activity"`
		Materials   []MaterialEntry `json:"materials" doc:"Ordered material requirements"`
	} `json:"body"`
}

// ProducerEntry represents one producing blueprint in API responses
type ProducerEntry struct {
	BlueprintID     int `json:"blueprint_id" doc:"Blueprint ID"`
	ProductQuantity int `json:"product_quantity" doc:"Units produced per run"`
	Time            int `json:"time" doc:"Base manufacturing seconds per run"`
}

// ProducersOutput represents the response for a producers query
type ProducersOutput struct {
	Body struct {
		TypeID     int             `json:"type_id" doc:"Product type ID"`
		Blueprints []ProducerEntry `json:"blueprints" doc:"Blueprints producing the type"`
	} `json:"body"`
}

// IndustryStatsOutput represents the response for the industry stats endpoint
type IndustryStatsOutput struct {
	Body struct {
		CachedBreakdowns int            `json:"cached_breakdowns" doc:"Breakdowns held in the LRU cache"`
		SDE              map[string]int `json:"sde" doc:"Static data collection sizes"`
		Market           map[string]int `json:"market" doc:"Market data collection sizes"`
		Warnings         []sde.Warning  `json:"warnings,omitempty" doc:"Static data load warnings"`
	} `json:"body"`
}
