package sde

// SDEService defines the interface for accessing EVE Online SDE data
type SDEService interface {
	// Primary key lookups. Unknown ids yield (nil, nil).
	GetType(id int) (*ItemType, error)
	GetGroup(id int) (*Group, error)
	GetCategory(id int) (*Category, error)
	GetMarketGroup(id int) (*MarketGroup, error)
	GetBlueprint(id int) (*Blueprint, error)
	GetTypeMaterials(typeID int) (*TypeMaterial, error)
	GetDogmaAttribute(id int) (*DogmaAttribute, error)

	// Derived index queries, source order preserved.
	TypesInGroup(groupID int) ([]*ItemType, error)
	TypesInCategory(categoryID int) ([]*ItemType, error)
	TypesInMarketGroup(marketGroupID int) ([]*ItemType, error)
	GroupsInCategory(categoryID int) ([]*Group, error)
	MarketGroupChildren(parentID int) ([]*MarketGroup, error)
	PublishedTypes() ([]*ItemType, error)
	BlueprintsProducing(typeID int) ([]*Blueprint, error)
	MaterialsFor(blueprintID int, activity string) ([]Material, error)

	// Load lifecycle and diagnostics.
	EnsureLoaded() error
	Reload() error
	IsLoaded() bool
	Warnings() ([]Warning, error)
	Stats() (map[string]int, error)
}
