package models

// MaterialLine is the per-material entry of a cost breakdown.
type MaterialLine struct {
	TypeID           int     `json:"type_id"`
	TypeName         string  `json:"type_name"`
	BaseQuantity     int     `json:"base_quantity"`     // per run, from the blueprint
	AdjustedQuantity int     `json:"adjusted_quantity"` // for the whole job, after ME and rounding
	UnitPrice        float64 `json:"unit_price"`
	Subtotal         float64 `json:"subtotal"`
	Priced           bool    `json:"priced"`
}

// ProfitInfo is attached to a breakdown only when the product's sale price is
// resolvable.
type ProfitInfo struct {
	SellPricePerUnit float64 `json:"sell_price_per_unit"`
	UnitsProduced    int     `json:"units_produced"`
	TotalRevenue     float64 `json:"total_revenue"`
	SalesTax         float64 `json:"sales_tax"`
	Profit           float64 `json:"profit"`
	ProfitMargin     float64 `json:"profit_margin"` // percent of total cost
}

// ProfitAnalysis is the condensed profit view of a cost breakdown.
type ProfitAnalysis struct {
	JobID           string  `json:"job_id"`
	BlueprintID     int     `json:"blueprint_id"`
	ProductTypeID   int     `json:"product_type_id"`
	ProductName     string  `json:"product_name,omitempty"`
	Runs            int     `json:"runs"`
	TotalCost       float64 `json:"total_cost"`
	CostPerUnit     float64 `json:"cost_per_unit"`
	MaterialCost    float64 `json:"material_cost"`
	JobCost         float64 `json:"job_cost"`
	ProductQuantity int     `json:"product_quantity"` // per run

	Profit *ProfitInfo `json:"profit,omitempty"`

	Warnings   []string `json:"warnings,omitempty"`
	Incomplete bool     `json:"incomplete"`
}

// CostBreakdown is the result of one manufacturing cost calculation.
type CostBreakdown struct {
	JobID           string  `json:"job_id"`
	BlueprintID     int     `json:"blueprint_id"`
	ProductTypeID   int     `json:"product_type_id"`
	ProductQuantity int     `json:"product_quantity"` // per run
	Runs            int     `json:"runs"`
	MELevel         int     `json:"me_level"`
	TELevel         int     `json:"te_level"`
	SystemCostIndex float64 `json:"system_cost_index"`

	Materials    []MaterialLine `json:"materials"`
	MaterialCost float64        `json:"material_cost"`

	// EstimatedItemValue approximates the game's EIV from reprocessing
	// materials and adjusted prices; it is the fee basis, not a market value.
	EstimatedItemValue float64 `json:"estimated_item_value"`
	InstallationFee    float64 `json:"installation_fee"`
	Taxes              float64 `json:"taxes"`
	JobCost            float64 `json:"job_cost"`

	TotalCost   float64 `json:"total_cost"`
	CostPerUnit float64 `json:"cost_per_unit"`

	SecondsPerRun int `json:"seconds_per_run"`
	TotalSeconds  int `json:"total_seconds"`

	Profit *ProfitInfo `json:"profit,omitempty"`

	// Data-sparsity diagnostics. Partial totals are lower bounds when
	// Incomplete is set.
	UnpricedTypeIDs []int    `json:"unpriced_type_ids,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	Incomplete      bool     `json:"incomplete"`
}
