package services

import (
	"go-forge/pkg/market"
	"go-forge/pkg/sde"
)

// TradeHubs lists the five major trade hub regions used for regional price
// comparison: The Forge (Jita), Domain (Amarr), Sinq Laison (Dodixie),
// Heimatar (Rens), Metropolis (Hek).
var TradeHubs = []TradeHub{
	{RegionID: 10000002, Name: "The Forge"},
	{RegionID: 10000043, Name: "Domain"},
	{RegionID: 10000032, Name: "Sinq Laison"},
	{RegionID: 10000030, Name: "Heimatar"},
	{RegionID: 10000042, Name: "Metropolis"},
}

// TradeHub identifies one trade hub region
type TradeHub struct {
	RegionID int
	Name     string
}

// RegionalQuote pairs a trade hub with its buy and sell quotes for a type.
// Either quote may be nil when the hub has no data for that side.
type RegionalQuote struct {
	Hub  TradeHub
	Buy  *market.Quote
	Sell *market.Quote
}

// Service provides business logic for price queries. It is a stateless query
// layer over the market price service.
type Service struct {
	sdeService    sde.SDEService
	marketService *market.Service
}

// NewService creates a new prices service instance.
func NewService(sdeService sde.SDEService, marketService *market.Service) *Service {
	return &Service{sdeService: sdeService, marketService: marketService}
}

// QuoteFor returns the full quote for a (type, region, side), nil when no
// data exists. Region 0 means the default region.
func (s *Service) QuoteFor(typeID, regionID int, isBuyOrder bool) (*market.Quote, error) {
	if regionID == 0 {
		regionID = s.marketService.DefaultRegion()
	}
	return s.marketService.QuoteFor(typeID, regionID, isBuyOrder)
}

// AdjustedPrice returns the CCP adjusted price for a type, ok false when the
// adjusted-price snapshot is absent or lacks the type.
func (s *Service) AdjustedPrice(typeID int) (float64, bool, error) {
	return s.marketService.PriceFor(typeID, market.KindAdjusted)
}

// AveragePrice returns the global average price for a type.
func (s *Service) AveragePrice(typeID int) (float64, bool, error) {
	return s.marketService.PriceFor(typeID, market.KindAverage)
}

// RegionsFor lists the regions with quote data for a type, ascending.
func (s *Service) RegionsFor(typeID int) ([]int, error) {
	return s.marketService.RegionsFor(typeID)
}

// CompareRegions collects buy and sell quotes for a type across the major
// trade hubs. Hubs without data appear with nil quotes so the caller sees
// coverage gaps explicitly.
func (s *Service) CompareRegions(typeID int) ([]RegionalQuote, error) {
	results := make([]RegionalQuote, 0, len(TradeHubs))
	for _, hub := range TradeHubs {
		buy, err := s.marketService.QuoteFor(typeID, hub.RegionID, true)
		if err != nil {
			return nil, err
		}
		sell, err := s.marketService.QuoteFor(typeID, hub.RegionID, false)
		if err != nil {
			return nil, err
		}
		results = append(results, RegionalQuote{Hub: hub, Buy: buy, Sell: sell})
	}
	return results, nil
}

// HasData reports whether any quote exists for a type.
func (s *Service) HasData(typeID int) (bool, error) {
	return s.marketService.HasData(typeID)
}

// TypeName resolves a type id to its English name, empty when unknown.
func (s *Service) TypeName(typeID int) (string, error) {
	t, err := s.sdeService.GetType(typeID)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", nil
	}
	return t.Name.English(), nil
}
