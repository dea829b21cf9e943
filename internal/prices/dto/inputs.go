package dto

// GetQuoteInput represents the input for a price quote lookup
type GetQuoteInput struct {
	TypeID   int    `path:"type_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Type ID"`
	RegionID int    `query:"region_id,omitempty" minimum:"10000001" maximum:"11000033" doc:"Region for the quote (default: configured region)"`
	Side     string `query:"side" enum:"buy,sell" default:"sell" doc:"Order side"`
}

// GetAdjustedPriceInput represents the input for an adjusted price lookup
type GetAdjustedPriceInput struct {
	TypeID int `path:"type_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Type ID"`
}

// CompareRegionsInput represents the input for a regional price comparison
type CompareRegionsInput struct {
	TypeID int `path:"type_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Type ID"`
}

// GetPricesStatsInput represents the input for the prices stats endpoint
type GetPricesStatsInput struct {
	// No parameters needed for stats endpoint
}
