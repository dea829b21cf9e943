package dto

// GetTypeInput represents the input for a type lookup
type GetTypeInput struct {
	TypeID int `path:"type_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Type ID"`
}

// GetGroupInput represents the input for a group lookup
type GetGroupInput struct {
	GroupID int `path:"group_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Group ID"`
}

// GetCategoryInput represents the input for a category lookup
type GetCategoryInput struct {
	CategoryID int `path:"category_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Category ID"`
}

// GetMarketGroupInput represents the input for a market group lookup
type GetMarketGroupInput struct {
	MarketGroupID int `path:"market_group_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Market group ID"`
}

// GetBlueprintInput represents the input for a blueprint lookup
type GetBlueprintInput struct {
	BlueprintID int `path:"blueprint_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Blueprint ID"`
}

// GetDogmaAttributeInput represents the input for a dogma attribute lookup
type GetDogmaAttributeInput struct {
	AttributeID int `path:"attribute_id" validate:"required" minimum:"1" maximum:"2147483647" doc:"Dogma attribute ID"`
}

// GetMarketGroupChildrenInput represents the input for browsing the market
// group tree. Parent 0 lists the roots.
type GetMarketGroupChildrenInput struct {
	ParentID int `query:"parent_id" minimum:"0" maximum:"2147483647" default:"0" doc:"Parent market group ID (0 for roots)"`
}

// GetCatalogStatsInput represents the input for the catalog stats endpoint
type GetCatalogStatsInput struct {
	// No parameters needed for stats endpoint
}

// SearchTypesInput represents the input for a fuzzy type-name search
type SearchTypesInput struct {
	Query string `query:"q" validate:"required" minLength:"1" maxLength:"100" doc:"Search query"`
	Limit int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Maximum number of matches"`
}
