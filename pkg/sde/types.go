package sde

// LocalizedText holds per-language strings keyed by language code ("en", "de", ...)
type LocalizedText map[string]string

// English returns the English text, falling back to any available language.
func (t LocalizedText) English() string {
	if s, ok := t["en"]; ok {
		return s
	}
	for _, s := range t {
		return s
	}
	return ""
}

// ItemType represents an EVE Online item type from the SDE
type ItemType struct {
	ID            int           `json:"_key"`
	Name          LocalizedText `json:"name"`
	Description   LocalizedText `json:"description,omitempty"`
	GroupID       int           `json:"groupID"`
	MarketGroupID int           `json:"marketGroupID,omitempty"`
	MetaGroupID   int           `json:"metaGroupID,omitempty"`
	BasePrice     float64       `json:"basePrice,omitempty"`
	PortionSize   int           `json:"portionSize,omitempty"`
	Volume        float64       `json:"volume,omitempty"`
	Mass          float64       `json:"mass,omitempty"`
	Capacity      float64       `json:"capacity,omitempty"`
	Published     bool          `json:"published,omitempty"`
}

// Group represents an EVE Online item group from the SDE
type Group struct {
	ID         int           `json:"_key"`
	CategoryID int           `json:"categoryID"`
	Name       LocalizedText `json:"name"`
	Published  bool          `json:"published,omitempty"`
}

// Category represents an EVE Online item category from the SDE
type Category struct {
	ID        int           `json:"_key"`
	Name      LocalizedText `json:"name"`
	Published bool          `json:"published,omitempty"`
}

// MarketGroup represents an EVE Online market group from the SDE.
// Parent references form a tree used for market browsing.
type MarketGroup struct {
	ID            int           `json:"_key"`
	ParentGroupID int           `json:"parentGroupID,omitempty"`
	Name          LocalizedText `json:"nameID"`
	Description   LocalizedText `json:"descriptionID,omitempty"`
	HasTypes      bool          `json:"hasTypes,omitempty"`
}

// Blueprint represents an EVE Online blueprint from the SDE. The blueprint
// id doubles as the blueprint item's type id.
type Blueprint struct {
	ID                 int        `json:"_key"`
	Activities         Activities `json:"activities"`
	MaxProductionLimit int        `json:"maxProductionLimit,omitempty"`
}

// Activities holds the per-activity production data of a blueprint
type Activities struct {
	Manufacturing    *Activity `json:"manufacturing,omitempty"`
	Copying          *Activity `json:"copying,omitempty"`
	Invention        *Activity `json:"invention,omitempty"`
	Reaction         *Activity `json:"reaction,omitempty"`
	ResearchMaterial *Activity `json:"research_material,omitempty"`
	ResearchTime     *Activity `json:"research_time,omitempty"`
}

// ByName returns the activity with the given SDE activity name, or nil.
func (a Activities) ByName(name string) *Activity {
	switch name {
	case ActivityManufacturing:
		return a.Manufacturing
	case ActivityCopying:
		return a.Copying
	case ActivityInvention:
		return a.Invention
	case ActivityReaction:
		return a.Reaction
	case ActivityResearchMaterial:
		return a.ResearchMaterial
	case ActivityResearchTime:
		return a.ResearchTime
	}
	return nil
}

// Activity names as they appear in the SDE
const (
	ActivityManufacturing    = "manufacturing"
	ActivityCopying          = "copying"
	ActivityInvention        = "invention"
	ActivityReaction         = "reaction"
	ActivityResearchMaterial = "research_material"
	ActivityResearchTime     = "research_time"
)

// Activity represents one production process of a blueprint
type Activity struct {
	Materials []Material `json:"materials,omitempty"`
	Products  []Product  `json:"products,omitempty"`
	Skills    []Skill    `json:"skills,omitempty"`
	Time      int        `json:"time,omitempty"` // seconds per run
}

// Material represents a required input for a blueprint activity
type Material struct {
	TypeID   int `json:"typeID"`
	Quantity int `json:"quantity"`
}

// Product represents an output of a blueprint activity
type Product struct {
	TypeID      int     `json:"typeID"`
	Quantity    int     `json:"quantity"`
	Probability float64 `json:"probability,omitempty"`
}

// Skill represents a skill requirement of a blueprint activity
type Skill struct {
	TypeID int `json:"typeID"`
	Level  int `json:"level"`
}

// TypeMaterial holds the reprocessing materials of an item type. These are
// distinct from blueprint manufacturing materials and feed the estimated
// item value approximation.
type TypeMaterial struct {
	TypeID    int                `json:"_key"`
	Materials []ReprocessingItem `json:"materials"`
}

// ReprocessingItem is one (material, quantity) pair of a TypeMaterial set
type ReprocessingItem struct {
	MaterialTypeID int `json:"materialTypeID"`
	Quantity       int `json:"quantity"`
}

// DogmaAttribute represents an EVE Online dogma attribute from the SDE
type DogmaAttribute struct {
	ID           int           `json:"_key"`
	Name         string        `json:"name"`
	DisplayName  LocalizedText `json:"displayNameID,omitempty"`
	DefaultValue float64       `json:"defaultValue,omitempty"`
	HighIsGood   bool          `json:"highIsGood,omitempty"`
	Stackable    bool          `json:"stackable,omitempty"`
	Published    bool          `json:"published,omitempty"`
}
