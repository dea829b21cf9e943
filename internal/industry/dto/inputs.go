package dto

// CalculateCostInput represents the input for a manufacturing cost calculation
type CalculateCostInput struct {
	BlueprintID            int      `path:"blueprint_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Blueprint ID (equals the blueprint item's type ID)"`
	Runs                   int      `query:"runs" minimum:"1" maximum:"1000000" default:"1" doc:"Number of production runs"`
	MELevel                int      `query:"me" minimum:"0" maximum:"10" default:"0" doc:"Material Efficiency level"`
	TELevel                int      `query:"te" minimum:"0" maximum:"20" default:"0" doc:"Time Efficiency level (even values only)"`
	SystemCostIndex        float64  `query:"sci" minimum:"0" maximum:"1" default:"0.02" doc:"System cost index of the build system (externally supplied)"`
	StructureMaterialBonus float64  `query:"structure_material_bonus,omitempty" minimum:"0" maximum:"1" doc:"Structure material reduction fraction (0.01 = 1%)"`
	StructureTimeBonus     float64  `query:"structure_time_bonus,omitempty" minimum:"0" maximum:"1" doc:"Structure time reduction fraction"`
	StructureCostBonus     float64  `query:"structure_cost_bonus,omitempty" minimum:"0" maximum:"1" doc:"Structure job cost reduction fraction"`
	FacilityTax            float64  `query:"facility_tax" minimum:"0" maximum:"1" default:"0.0025" doc:"Facility tax rate"`
	SalesTaxRate           *float64 `query:"sales_tax,omitempty" minimum:"0" maximum:"1" doc:"Sales tax applied to revenue in the profit block (omitted: server default, explicit 0: tax-free)"`
	PriceSide              string   `query:"price_side" enum:"buy,sell" default:"sell" doc:"Price side used for material costs"`
	RegionID               int      `query:"region_id,omitempty" minimum:"10000001" maximum:"11000033" doc:"Region for material prices (default: configured region)"`
}

// GetMaterialsInput represents the input for listing a blueprint's materials
type GetMaterialsInput struct {
	BlueprintID int    `path:"blueprint_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Blueprint ID"`
	Activity    string `query:"activity" enum:"manufacturing,copying,invention,reaction,research_material,research_time" default:"manufacturing" doc:"Blueprint activity"`
}

// GetProducersInput represents the input for finding blueprints producing a type
type GetProducersInput struct {
	TypeID int `path:"type_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Product type ID"`
}

// GetIndustryStatsInput represents the input for the industry stats endpoint
type GetIndustryStatsInput struct {
	// No parameters needed for stats endpoint
}
