package routes

import (
	"context"

	"go-forge/internal/prices/dto"
	"go-forge/internal/prices/services"
	"go-forge/pkg/market"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterPricesRoutes registers all price query routes
func RegisterPricesRoutes(api huma.API, basePath string, service *services.Service, marketService *market.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "prices-get-quote",
		Method:      "GET",
		Path:        basePath + "/types/{type_id}/quote",
		Summary:     "Get price quote",
		Description: "Get the aggregated order statistics for a type in one region and on one side of the book.",
		Tags:        []string{"Prices"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.GetQuoteInput) (*dto.QuoteOutput, error) {
		quote, err := service.QuoteFor(input.TypeID, input.RegionID, input.Side == "buy")
		if err != nil {
			return nil, huma.Error500InternalServerError("market data unavailable", err)
		}
		if quote == nil {
			return nil, huma.Error404NotFound("no quote for type in region")
		}
		regions, err := service.RegionsFor(input.TypeID)
		if err != nil {
			return nil, huma.Error500InternalServerError("market data unavailable", err)
		}
		name, err := service.TypeName(input.TypeID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}

		resp := &dto.QuoteOutput{}
		resp.Body.TypeName = name
		resp.Body.Quote = *quote
		resp.Body.BestPrice = quote.BestPrice()
		resp.Body.Regions = regions
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "prices-get-adjusted",
		Method:      "GET",
		Path:        basePath + "/types/{type_id}/adjusted",
		Summary:     "Get adjusted and average prices",
		Description: "Get the CCP adjusted and rolling average prices for a type. Either value may be absent when the adjusted-price snapshot lacks the type.",
		Tags:        []string{"Prices"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *dto.GetAdjustedPriceInput) (*dto.AdjustedPriceOutput, error) {
		adjusted, adjustedOK, err := service.AdjustedPrice(input.TypeID)
		if err != nil {
			return nil, huma.Error500InternalServerError("market data unavailable", err)
		}
		average, averageOK, err := service.AveragePrice(input.TypeID)
		if err != nil {
			return nil, huma.Error500InternalServerError("market data unavailable", err)
		}
		if !adjustedOK && !averageOK {
			return nil, huma.Error404NotFound("no adjusted price data for type")
		}
		name, err := service.TypeName(input.TypeID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}

		resp := &dto.AdjustedPriceOutput{}
		resp.Body.TypeID = input.TypeID
		resp.Body.TypeName = name
		if adjustedOK {
			resp.Body.AdjustedPrice = &adjusted
		}
		if averageOK {
			resp.Body.AveragePrice = &average
		}
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "prices-compare-regions",
		Method:      "GET",
		Path:        basePath + "/types/{type_id}/regions",
		Summary:     "Compare prices across trade hubs",
		Description: "Collect buy and sell statistics for a type across the five major trade hub regions. Hubs without data appear with empty sides.",
		Tags:        []string{"Prices"},
		Errors:      []int{400, 500},
	}, func(ctx context.Context, input *dto.CompareRegionsInput) (*dto.CompareRegionsOutput, error) {
		quotes, err := service.CompareRegions(input.TypeID)
		if err != nil {
			return nil, huma.Error500InternalServerError("market data unavailable", err)
		}
		name, err := service.TypeName(input.TypeID)
		if err != nil {
			return nil, huma.Error500InternalServerError("static data unavailable", err)
		}

		resp := &dto.CompareRegionsOutput{}
		resp.Body.TypeID = input.TypeID
		resp.Body.TypeName = name
		resp.Body.Hubs = make([]dto.RegionalQuoteEntry, 0, len(quotes))
		for _, rq := range quotes {
			resp.Body.Hubs = append(resp.Body.Hubs, dto.RegionalQuoteEntry{
				RegionID:   rq.Hub.RegionID,
				RegionName: rq.Hub.Name,
				Buy:        rq.Buy,
				Sell:       rq.Sell,
			})
		}
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "prices-get-stats",
		Method:      "GET",
		Path:        basePath + "/stats",
		Summary:     "Get prices module stats",
		Description: "Report market snapshot collection sizes and skipped malformed rows.",
		Tags:        []string{"Prices"},
		Errors:      []int{500},
	}, func(ctx context.Context, input *dto.GetPricesStatsInput) (*dto.PricesStatsOutput, error) {
		stats, err := marketService.Stats()
		if err != nil {
			return nil, huma.Error500InternalServerError("market data unavailable", err)
		}
		rowErrors, err := marketService.RowErrors()
		if err != nil {
			return nil, huma.Error500InternalServerError("market data unavailable", err)
		}

		resp := &dto.PricesStatsOutput{}
		resp.Body.DefaultRegion = marketService.DefaultRegion()
		resp.Body.Market = stats
		resp.Body.RowErrors = rowErrors
		return resp, nil
	})
}
