package dto

import (
	"go-forge/pkg/market"
)

// QuoteOutput represents the response for a price quote lookup
type QuoteOutput struct {
	Body struct {
		TypeName  string       `json:"type_name,omitempty" doc:"Type name"`
		Quote     market.Quote `json:"quote" doc:"Aggregated order statistics"`
		BestPrice float64      `json:"best_price" doc:"Best price on the quote side (highest buy / lowest sell)"`
		Regions   []int        `json:"regions" doc:"Regions with quote data for this type"`
	} `json:"body"`
}

// AdjustedPriceOutput represents the response for an adjusted price lookup
type AdjustedPriceOutput struct {
	Body struct {
		TypeID        int      `json:"type_id" doc:"Type ID"`
		TypeName      string   `json:"type_name,omitempty" doc:"Type name"`
		AdjustedPrice *float64 `json:"adjusted_price,omitempty" doc:"CCP adjusted price, absent when unknown"`
		AveragePrice  *float64 `json:"average_price,omitempty" doc:"Rolling average price, absent when unknown"`
	} `json:"body"`
}

// RegionalQuoteEntry is one trade hub's quotes in a regional comparison
type RegionalQuoteEntry struct {
	RegionID   int           `json:"region_id" doc:"Region ID"`
	RegionName string        `json:"region_name" doc:"Region name"`
	Buy        *market.Quote `json:"buy,omitempty" doc:"Best regional buy statistics"`
	Sell       *market.Quote `json:"sell,omitempty" doc:"Best regional sell statistics"`
}

// CompareRegionsOutput represents the response for a regional comparison
type CompareRegionsOutput struct {
	Body struct {
		TypeID   int                  `json:"type_id" doc:"Type ID"`
		TypeName string               `json:"type_name,omitempty" doc:"Type name"`
		Hubs     []RegionalQuoteEntry `json:"hubs" doc:"Per-trade-hub quotes"`
	} `json:"body"`
}

// PricesStatsOutput represents the response for the prices stats endpoint
type PricesStatsOutput struct {
	Body struct {
		DefaultRegion int               `json:"default_region" doc:"Region used by default lookups"`
		Market        map[string]int    `json:"market" doc:"Market data collection sizes"`
		RowErrors     []market.RowError `json:"row_errors,omitempty" doc:"Skipped malformed snapshot rows"`
	} `json:"body"`
}
