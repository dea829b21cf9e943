package routes

import (
	"context"

	"go-forge/internal/catalog/dto"
	"go-forge/internal/catalog/services"
	"go-forge/pkg/sde"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterCatalogRoutes registers all catalog-related routes
func RegisterCatalogRoutes(api huma.API, basePath string, service *services.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "catalog-get-type",
		Method:      "GET",
		Path:        basePath + "/types/{type_id}",
		Summary:     "Get item type",
		Description: "Look up an item type by ID.",
		Tags:        []string{"Catalog"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.GetTypeInput) (*dto.TypeOutput, error) {
		t, err := service.GetType(input.TypeID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}
		if t == nil {
			return nil, huma.Error404NotFound("type not found")
		}
		return &dto.TypeOutput{Body: *t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "catalog-get-group",
		Method:      "GET",
		Path:        basePath + "/groups/{group_id}",
		Summary:     "Get item group",
		Description: "Look up an item group by ID, with its member types.",
		Tags:        []string{"Catalog"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.GetGroupInput) (*dto.GroupOutput, error) {
		g, err := service.GetGroup(input.GroupID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}
		if g == nil {
			return nil, huma.Error404NotFound("group not found")
		}
		types, err := service.TypesInGroup(input.GroupID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}

		resp := &dto.GroupOutput{}
		resp.Body.Group = *g
		resp.Body.Types = typeEntries(types)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "catalog-get-category",
		Method:      "GET",
		Path:        basePath + "/categories/{category_id}",
		Summary:     "Get item category",
		Description: "Look up an item category by ID, with its member groups.",
		Tags:        []string{"Catalog"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.GetCategoryInput) (*dto.CategoryOutput, error) {
		c, err := service.GetCategory(input.CategoryID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}
		if c == nil {
			return nil, huma.Error404NotFound("category not found")
		}
		groups, err := service.GroupsInCategory(input.CategoryID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}

		resp := &dto.CategoryOutput{}
		resp.Body.Category = *c
		resp.Body.Groups = make([]sde.Group, 0, len(groups))
		for _, g := range groups {
			resp.Body.Groups = append(resp.Body.Groups, *g)
		}
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "catalog-get-market-group",
		Method:      "GET",
		Path:        basePath + "/market-groups/{market_group_id}",
		Summary:     "Get market group",
		Description: "Look up a market group by ID, with its child groups and member types.",
		Tags:        []string{"Catalog"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.GetMarketGroupInput) (*dto.MarketGroupOutput, error) {
		mg, err := service.GetMarketGroup(input.MarketGroupID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}
		if mg == nil {
			return nil, huma.Error404NotFound("market group not found")
		}
		children, err := service.MarketGroupChildren(input.MarketGroupID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}
		types, err := service.TypesInMarketGroup(input.MarketGroupID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}

		resp := &dto.MarketGroupOutput{}
		resp.Body.MarketGroup = *mg
		resp.Body.Children = marketGroupValues(children)
		resp.Body.Types = typeEntries(types)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "catalog-browse-market-groups",
		Method:      "GET",
		Path:        basePath + "/market-groups",
		Summary:     "Browse market group tree",
		Description: "List the direct children of a market group; parent 0 lists the roots.",
		Tags:        []string{"Catalog"},
		Errors:      []int{400, 500},
	}, func(ctx context.Context, input *dto.GetMarketGroupChildrenInput) (*dto.MarketGroupChildrenOutput, error) {
		groups, err := service.MarketGroupChildren(input.ParentID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}

		resp := &dto.MarketGroupChildrenOutput{}
		resp.Body.ParentID = input.ParentID
		resp.Body.Groups = marketGroupValues(groups)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "catalog-get-blueprint",
		Method:      "GET",
		Path:        basePath + "/blueprints/{blueprint_id}",
		Summary:     "Get blueprint",
		Description: "Look up a blueprint by ID with all activity data.",
		Tags:        []string{"Catalog"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.GetBlueprintInput) (*dto.BlueprintOutput, error) {
		bp, err := service.GetBlueprint(input.BlueprintID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}
		if bp == nil {
			return nil, huma.Error404NotFound("blueprint not found")
		}
		return &dto.BlueprintOutput{Body: *bp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "catalog-get-dogma-attribute",
		Method:      "GET",
		Path:        basePath + "/dogma/attributes/{attribute_id}",
		Summary:     "Get dogma attribute",
		Description: "Look up a dogma attribute by ID.",
		Tags:        []string{"Catalog"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.GetDogmaAttributeInput) (*dto.DogmaAttributeOutput, error) {
		attr, err := service.GetDogmaAttribute(input.AttributeID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}
		if attr == nil {
			return nil, huma.Error404NotFound("dogma attribute not found")
		}
		return &dto.DogmaAttributeOutput{Body: *attr}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "catalog-search-types",
		Method:      "GET",
		Path:        basePath + "/search",
		Summary:     "Search item types",
		Description: "Fuzzy type-name search over published types, best matches first.",
		Tags:        []string{"Catalog"},
		Errors:      []int{400, 500},
	}, func(ctx context.Context, input *dto.SearchTypesInput) (*dto.SearchTypesOutput, error) {
		matches, err := service.SearchTypes(input.Query, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}

		resp := &dto.SearchTypesOutput{}
		resp.Body.Query = input.Query
		resp.Body.Results = make([]dto.SearchEntry, 0, len(matches))
		for _, m := range matches {
			resp.Body.Results = append(resp.Body.Results, dto.SearchEntry{
				TypeID: m.Type.ID,
				Name:   m.Type.Name.English(),
				Score:  m.Score,
			})
		}
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "catalog-get-stats",
		Method:      "GET",
		Path:        basePath + "/stats",
		Summary:     "Get catalog module stats",
		Description: "Report static data collection sizes and load warnings.",
		Tags:        []string{"Catalog"},
		Errors:      []int{500},
	}, func(ctx context.Context, input *dto.GetCatalogStatsInput) (*dto.CatalogStatsOutput, error) {
		stats, err := service.Stats()
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}
		warnings, err := service.Warnings()
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}

		resp := &dto.CatalogStatsOutput{}
		resp.Body.Collections = stats
		resp.Body.Warnings = warnings
		return resp, nil
	})
}

func typeEntries(types []*sde.ItemType) []dto.TypeEntry {
	entries := make([]dto.TypeEntry, 0, len(types))
	for _, t := range types {
		entries = append(entries, dto.TypeEntry{
			TypeID:    t.ID,
			Name:      t.Name.English(),
			Published: t.Published,
		})
	}
	return entries
}

func marketGroupValues(groups []*sde.MarketGroup) []sde.MarketGroup {
	values := make([]sde.MarketGroup, 0, len(groups))
	for _, mg := range groups {
		values = append(values, *mg)
	}
	return values
}
