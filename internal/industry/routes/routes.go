package routes

import (
	"context"
	"errors"

	"go-forge/internal/industry/dto"
	"go-forge/internal/industry/services"
	"go-forge/pkg/config"
	"go-forge/pkg/market"
	"go-forge/pkg/sde"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
)

// RegisterIndustryRoutes registers all industry-related routes
func RegisterIndustryRoutes(api huma.API, basePath string, service *services.Service, sdeService sde.SDEService, marketService *market.Service) {
	validate := dto.NewValidator()
	defaultSalesTax := config.GetFloatEnv("DEFAULT_SALES_TAX", 0)

	// Manufacturing cost calculation, the primary entry point
	huma.Register(api, huma.Operation{
		OperationID: "industry-calculate-cost",
		Method:      "GET",
		Path:        basePath + "/blueprints/{blueprint_id}/cost",
		Summary:     "Calculate manufacturing cost",
		Description: "Compute the full manufacturing cost breakdown for a blueprint: ME-adjusted material bill, estimated item value, installation fee and taxes, time, and profit when the product's sale price is known. Missing prices produce a partial result flagged as incomplete, never an error.",
		Tags:        []string{"Industry"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.CalculateCostInput) (*dto.CostBreakdownOutput, error) {
		job, err := buildJob(validate, input, defaultSalesTax)
		if err != nil {
			return nil, err
		}

		breakdown, err := service.CalculateCost(job)
		if err != nil {
			return nil, translateJobError(err, "cost calculation failed")
		}

		resp := &dto.CostBreakdownOutput{}
		resp.Body = *breakdown
		return resp, nil
	})

	// Condensed profit view of the same calculation
	huma.Register(api, huma.Operation{
		OperationID: "industry-calculate-profit",
		Method:      "GET",
		Path:        basePath + "/blueprints/{blueprint_id}/profit",
		Summary:     "Analyze manufacturing profit",
		Description: "Compute the profit analysis for a blueprint job: total cost, expected revenue at the best regional buy price, sales tax, and margin. Omits the profit block when the product has no resolvable sale price.",
		Tags:        []string{"Industry"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.CalculateCostInput) (*dto.ProfitAnalysisOutput, error) {
		job, err := buildJob(validate, input, defaultSalesTax)
		if err != nil {
			return nil, err
		}

		analysis, err := service.CalculateProfit(job)
		if err != nil {
			return nil, translateJobError(err, "profit analysis failed")
		}

		resp := &dto.ProfitAnalysisOutput{}
		resp.Body = *analysis
		return resp, nil
	})

	// Blueprint material listing per activity
	huma.Register(api, huma.Operation{
		OperationID: "industry-get-materials",
		Method:      "GET",
		Path:        basePath + "/blueprints/{blueprint_id}/materials",
		Summary:     "List blueprint materials",
		Description: "List the ordered material requirements of a blueprint activity.",
		Tags:        []string{"Industry"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.GetMaterialsInput) (*dto.MaterialListOutput, error) {
		materials, err := service.MaterialList(input.BlueprintID, input.Activity)
		if err != nil {
			return nil, huma.Error500InternalServerError("material lookup failed", err)
		}
		if materials == nil {
			return nil, huma.Error404NotFound("blueprint or activity not found")
		}

		resp := &dto.MaterialListOutput{}
		resp.Body.BlueprintID = input.BlueprintID
		resp.Body.Activity = input.Activity
		resp.Body.Materials = make([]dto.MaterialEntry, 0, len(materials))
		for _, mat := range materials {
			entry := dto.MaterialEntry{TypeID: mat.TypeID, Quantity: mat.Quantity}
			if t, err := sdeService.GetType(mat.TypeID); err == nil && t != nil {
				entry.TypeName = t.Name.English()
			}
			resp.Body.Materials = append(resp.Body.Materials, entry)
		}
		return resp, nil
	})

	// Blueprints producing a type
	huma.Register(api, huma.Operation{
		OperationID: "industry-get-producers",
		Method:      "GET",
		Path:        basePath + "/products/{type_id}/blueprints",
		Summary:     "Find producing blueprints",
		Description: "List the blueprints whose manufacturing activity outputs the given type.",
		Tags:        []string{"Industry"},
		Errors:      []int{400, 500},
	}, func(ctx context.Context, input *dto.GetProducersInput) (*dto.ProducersOutput, error) {
		blueprints, err := service.ProducersOf(input.TypeID)
		if err != nil {
			return nil, huma.Error500InternalServerError("producer lookup failed", err)
		}

		resp := &dto.ProducersOutput{}
		resp.Body.TypeID = input.TypeID
		resp.Body.Blueprints = make([]dto.ProducerEntry, 0, len(blueprints))
		for _, bp := range blueprints {
			entry := dto.ProducerEntry{BlueprintID: bp.ID}
			if m := bp.Activities.Manufacturing; m != nil {
				entry.Time = m.Time
				for _, p := range m.Products {
					if p.TypeID == input.TypeID {
						entry.ProductQuantity = p.Quantity
						break
					}
				}
			}
			resp.Body.Blueprints = append(resp.Body.Blueprints, entry)
		}
		return resp, nil
	})

	// Module stats and load diagnostics
	huma.Register(api, huma.Operation{
		OperationID: "industry-get-stats",
		Method:      "GET",
		Path:        basePath + "/stats",
		Summary:     "Get industry module stats",
		Description: "Report snapshot collection sizes, cache occupancy, and static data load warnings.",
		Tags:        []string{"Industry"},
		Errors:      []int{500},
	}, func(ctx context.Context, input *dto.GetIndustryStatsInput) (*dto.IndustryStatsOutput, error) {
		sdeStats, err := sdeService.Stats()
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}
		marketStats, err := marketService.Stats()
		if err != nil {
			return nil, huma.Error500InternalServerError("market data unavailable", err)
		}
		warnings, err := sdeService.Warnings()
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}

		resp := &dto.IndustryStatsOutput{}
		resp.Body.CachedBreakdowns = service.CacheLen()
		resp.Body.SDE = sdeStats
		resp.Body.Market = marketStats
		resp.Body.Warnings = warnings
		return resp, nil
	})
}

// buildJob validates a calculation request and assembles the service job.
func buildJob(validate *validator.Validate, input *dto.CalculateCostInput, defaultSalesTax float64) (services.Job, error) {
	params := dto.JobParams{
		BlueprintID:     input.BlueprintID,
		Runs:            input.Runs,
		MELevel:         input.MELevel,
		TELevel:         input.TELevel,
		SystemCostIndex: input.SystemCostIndex,
		PriceSide:       input.PriceSide,
	}
	if err := validate.Struct(params); err != nil {
		return services.Job{}, huma.Error400BadRequest("invalid job parameters", err)
	}

	job := services.NewJob(input.BlueprintID, input.Runs, input.MELevel, input.TELevel, input.SystemCostIndex)
	job.StructureMaterialBonus = input.StructureMaterialBonus
	job.StructureTimeBonus = input.StructureTimeBonus
	job.StructureCostBonus = input.StructureCostBonus
	job.FacilityTax = input.FacilityTax
	// An explicit sales_tax=0 means tax-free; only an absent parameter falls
	// back to the server default.
	job.SalesTaxRate = defaultSalesTax
	if input.SalesTaxRate != nil {
		job.SalesTaxRate = *input.SalesTaxRate
	}
	job.MaterialPriceKind = market.PriceKind(input.PriceSide)
	job.RegionID = input.RegionID
	return job, nil
}

// translateJobError maps calculator sentinels onto HTTP status errors.
func translateJobError(err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrBlueprintNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, services.ErrInvalidJob):
		return huma.Error400BadRequest(err.Error())
	}
	return huma.Error500InternalServerError(fallback, err)
}
