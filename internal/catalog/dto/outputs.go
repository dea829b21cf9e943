package dto

import (
	"go-forge/pkg/sde"
)

// TypeOutput represents the response for a type lookup
type TypeOutput struct {
	Body sde.ItemType `json:"body"`
}

// GroupOutput represents the response for a group lookup
type GroupOutput struct {
	Body struct {
		Group sde.Group   `json:"group" doc:"Item group"`
		Types []TypeEntry `json:"types" doc:"Types of the group, source order"`
	} `json:"body"`
}

// CategoryOutput represents the response for a category lookup
type CategoryOutput struct {
	Body struct {
		Category sde.Category `json:"category" doc:"Item category"`
		Groups   []sde.Group  `json:"groups" doc:"Groups of the category, source order"`
	} `json:"body"`
}

// MarketGroupOutput represents the response for a market group lookup
type MarketGroupOutput struct {
	Body struct {
		MarketGroup sde.MarketGroup   `json:"market_group" doc:"Market group"`
		Children    []sde.MarketGroup `json:"children" doc:"Direct child market groups"`
		Types       []TypeEntry       `json:"types" doc:"Types of the market group, source order"`
	} `json:"body"`
}

// MarketGroupChildrenOutput represents the response for a market tree listing
type MarketGroupChildrenOutput struct {
	Body struct {
		ParentID int               `json:"parent_id" doc:"Parent market group ID (0 for roots)"`
		Groups   []sde.MarketGroup `json:"groups" doc:"Direct child market groups"`
	} `json:"body"`
}

// BlueprintOutput represents the response for a blueprint lookup
type BlueprintOutput struct {
	Body sde.Blueprint `json:"body"`
}

// DogmaAttributeOutput represents the response for a dogma attribute lookup
type DogmaAttributeOutput struct {
	Body sde.DogmaAttribute `json:"body"`
}

// TypeEntry is a compact type reference used in listings
type TypeEntry struct {
	TypeID    int    `json:"type_id" doc:"Type ID"`
	Name      string `json:"name" doc:"Type name"`
	Published bool   `json:"published" doc:"Whether the type is published"`
}

// SearchEntry is one fuzzy search hit
type SearchEntry struct {
	TypeID int    `json:"type_id" doc:"Type ID"`
	Name   string `json:"name" doc:"Type name"`
	Score  int    `json:"score" doc:"Match score, higher is better"`
}

// CatalogStatsOutput represents the response for the catalog stats endpoint
type CatalogStatsOutput struct {
	Body struct {
		Collections map[string]int `json:"collections" doc:"Static data collection sizes"`
		Warnings    []sde.Warning  `json:"warnings,omitempty" doc:"Static data load warnings"`
	} `json:"body"`
}

// SearchTypesOutput represents the response for a type-name search
type SearchTypesOutput struct {
	Body struct {
		Query   string        `json:"query" doc:"Search query"`
		Results []SearchEntry `json:"results" doc:"Matches, best score first"`
	} `json:"body"`
}
