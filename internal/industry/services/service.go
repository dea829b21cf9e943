package services

import (
	"fmt"
	"log/slog"

	"go-forge/internal/industry/models"
	"go-forge/pkg/market"
	"go-forge/pkg/sde"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
)

// jobIDNamespace seeds the deterministic job ids. The calculator is a pure
// function, so identical inputs must produce identical output, job id
// included.
var jobIDNamespace = uuid.MustParse("9a4c1ed2-55c4-4f3a-9f11-6c2f05f0b1aa")

// Service provides business logic for industry operations. Breakdowns are
// cached in an LRU keyed by the full job tuple; the calculator is pure, so a
// cache hit is indistinguishable from a recomputation.
type Service struct {
	calculator    *Calculator
	sdeService    sde.SDEService
	marketService *market.Service
	cache         *lru.Cache
}

// NewService creates a new industry service instance.
func NewService(sdeService sde.SDEService, marketService *market.Service, cacheSize int) (*Service, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create breakdown cache: %w", err)
	}
	return &Service{
		calculator:    NewCalculator(sdeService, marketService),
		sdeService:    sdeService,
		marketService: marketService,
		cache:         cache,
	}, nil
}

// CalculateCost returns the cost breakdown for a job, served from the cache
// when the same job was computed before against the current snapshots.
func (s *Service) CalculateCost(job Job) (*models.CostBreakdown, error) {
	if cached, ok := s.cache.Get(job); ok {
		return cached.(*models.CostBreakdown), nil
	}

	breakdown, err := s.calculator.Calculate(job)
	if err != nil {
		return nil, err
	}
	breakdown.JobID = uuid.NewSHA1(jobIDNamespace, []byte(fmt.Sprintf("%+v", job))).String()

	s.cache.Add(job, breakdown)
	slog.Debug("Cost breakdown computed",
		"blueprint_id", job.BlueprintID,
		"runs", job.Runs,
		"total_cost", breakdown.TotalCost,
		"incomplete", breakdown.Incomplete,
	)
	return breakdown, nil
}

// CalculateProfit composes the profit view of a cost breakdown. It shares the
// breakdown cache with CalculateCost.
func (s *Service) CalculateProfit(job Job) (*models.ProfitAnalysis, error) {
	breakdown, err := s.CalculateCost(job)
	if err != nil {
		return nil, err
	}

	analysis := &models.ProfitAnalysis{
		JobID:           breakdown.JobID,
		BlueprintID:     breakdown.BlueprintID,
		ProductTypeID:   breakdown.ProductTypeID,
		ProductQuantity: breakdown.ProductQuantity,
		Runs:            breakdown.Runs,
		TotalCost:       breakdown.TotalCost,
		CostPerUnit:     breakdown.CostPerUnit,
		MaterialCost:    breakdown.MaterialCost,
		JobCost:         breakdown.JobCost,
		Profit:          breakdown.Profit,
		Warnings:        breakdown.Warnings,
		Incomplete:      breakdown.Incomplete,
	}
	if t, err := s.sdeService.GetType(breakdown.ProductTypeID); err == nil && t != nil {
		analysis.ProductName = t.Name.English()
	}
	return analysis, nil
}

// MaterialList returns the ordered material bill of a blueprint activity.
// nil materials with a nil error means the blueprint or activity is unknown.
func (s *Service) MaterialList(blueprintID int, activity string) ([]sde.Material, error) {
	return s.sdeService.MaterialsFor(blueprintID, activity)
}

// ProducersOf returns the blueprints whose manufacturing outputs the type.
func (s *Service) ProducersOf(typeID int) ([]*sde.Blueprint, error) {
	return s.sdeService.BlueprintsProducing(typeID)
}

// FlushCache drops all cached breakdowns. Called after snapshot reloads so
// stale prices never leak into new results.
func (s *Service) FlushCache() {
	s.cache.Purge()
}

// CacheLen reports the number of cached breakdowns.
func (s *Service) CacheLen() int {
	return s.cache.Len()
}
