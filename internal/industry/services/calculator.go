package services

import (
	"errors"
	"fmt"
	"math"

	"go-forge/internal/industry/models"
	"go-forge/pkg/market"
	"go-forge/pkg/sde"
)

// ErrBlueprintNotFound indicates the requested blueprint is unknown or has
// no manufacturing activity.
var ErrBlueprintNotFound = errors.New("blueprint not found")

// ErrInvalidJob indicates caller-error job parameters (non-positive runs,
// ME/TE level out of range). These propagate as hard failures, unlike
// data-sparsity conditions which become warnings on the breakdown.
var ErrInvalidJob = errors.New("invalid job parameters")

// Default job cost constants. These mirror NPC station conditions and are
// deliberately configuration-level approximations, not authoritative game
// values.
const (
	DefaultFacilityTax  = 0.0025 // 0.25% for NPC stations
	DefaultSCCSurcharge = 0.04   // 4%

	// MEReductionPerLevel is the material reduction per ME level (levels
	// 0-10). TEReductionPerLevel is the time reduction per TE level
	// (levels 0-20, even).
	MEReductionPerLevel = 0.01
	TEReductionPerLevel = 0.01

	MaxMELevel = 10
	MaxTELevel = 20
)

// Job describes one manufacturing cost calculation request. The system cost
// index is supplied by the caller, never fetched.
type Job struct {
	BlueprintID     int
	Runs            int
	MELevel         int
	TELevel         int
	SystemCostIndex float64

	// Optional facility modifiers, fractions (0.01 means 1%).
	StructureMaterialBonus float64
	StructureTimeBonus     float64
	StructureCostBonus     float64

	FacilityTax  float64
	SCCSurcharge float64
	SalesTaxRate float64

	// MaterialPriceKind selects the price side used for material costs,
	// buy or sell. RegionID 0 means the market manager's default region.
	MaterialPriceKind market.PriceKind
	RegionID          int
}

// NewJob returns a Job with default fees and the sell side for materials.
func NewJob(blueprintID, runs, meLevel, teLevel int, systemCostIndex float64) Job {
	return Job{
		BlueprintID:       blueprintID,
		Runs:              runs,
		MELevel:           meLevel,
		TELevel:           teLevel,
		SystemCostIndex:   systemCostIndex,
		FacilityTax:       DefaultFacilityTax,
		SCCSurcharge:      DefaultSCCSurcharge,
		MaterialPriceKind: market.KindSell,
	}
}

// Validate checks the caller-supplied parameters. Violations are programmer
// errors and fail hard before any breakdown is constructed.
func (j Job) Validate() error {
	if j.Runs < 1 {
		return fmt.Errorf("%w: runs must be positive, got %d", ErrInvalidJob, j.Runs)
	}
	if j.MELevel < 0 || j.MELevel > MaxMELevel {
		return fmt.Errorf("%w: ME level must be 0-%d, got %d", ErrInvalidJob, MaxMELevel, j.MELevel)
	}
	if j.TELevel < 0 || j.TELevel > MaxTELevel || j.TELevel%2 != 0 {
		return fmt.Errorf("%w: TE level must be an even value 0-%d, got %d", ErrInvalidJob, MaxTELevel, j.TELevel)
	}
	if j.SystemCostIndex < 0 {
		return fmt.Errorf("%w: system cost index must not be negative, got %g", ErrInvalidJob, j.SystemCostIndex)
	}
	if j.MaterialPriceKind != market.KindBuy && j.MaterialPriceKind != market.KindSell {
		return fmt.Errorf("%w: material price kind must be buy or sell, got %q", ErrInvalidJob, j.MaterialPriceKind)
	}
	fractions := map[string]float64{
		"structure material bonus": j.StructureMaterialBonus,
		"structure time bonus":     j.StructureTimeBonus,
		"structure cost bonus":     j.StructureCostBonus,
	}
	for name, f := range fractions {
		if f < 0 || f > 1 {
			return fmt.Errorf("%w: %s must be a fraction 0-1, got %g", ErrInvalidJob, name, f)
		}
	}
	return nil
}

// Calculator computes manufacturing cost breakdowns. It holds no mutable
// state of its own: it borrows read-only access to the data and market
// managers for the duration of a call.
type Calculator struct {
	sdeService    sde.SDEService
	marketService *market.Service
}

// NewCalculator creates a new calculator over the given managers.
func NewCalculator(sdeService sde.SDEService, marketService *market.Service) *Calculator {
	return &Calculator{sdeService: sdeService, marketService: marketService}
}

// Calculate produces the full cost breakdown for a job. Unknown blueprints
// fail with ErrBlueprintNotFound before any partial breakdown exists; missing
// price data degrades to a partial result flagged as incomplete.
func (c *Calculator) Calculate(job Job) (*models.CostBreakdown, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	bp, err := c.sdeService.GetBlueprint(job.BlueprintID)
	if err != nil {
		return nil, err
	}
	if bp == nil || bp.Activities.Manufacturing == nil {
		return nil, fmt.Errorf("%w: blueprint %d has no manufacturing activity", ErrBlueprintNotFound, job.BlueprintID)
	}
	manufacturing := bp.Activities.Manufacturing

	regionID := job.RegionID
	if regionID == 0 {
		regionID = c.marketService.DefaultRegion()
	}

	b := &models.CostBreakdown{
		BlueprintID:     job.BlueprintID,
		Runs:            job.Runs,
		MELevel:         job.MELevel,
		TELevel:         job.TELevel,
		SystemCostIndex: job.SystemCostIndex,
	}

	if len(manufacturing.Products) > 0 {
		b.ProductTypeID = manufacturing.Products[0].TypeID
		b.ProductQuantity = manufacturing.Products[0].Quantity
	} else {
		b.Warnings = append(b.Warnings, fmt.Sprintf("blueprint %d lists no manufacturing products", job.BlueprintID))
	}

	meMult := 1.0 - float64(job.MELevel)*MEReductionPerLevel
	structMatMult := 1.0 - job.StructureMaterialBonus

	for _, mat := range manufacturing.Materials {
		line := models.MaterialLine{
			TypeID:       mat.TypeID,
			BaseQuantity: mat.Quantity,
		}

		t, err := c.sdeService.GetType(mat.TypeID)
		if err != nil {
			return nil, err
		}
		if t != nil {
			line.TypeName = t.Name.English()
		} else {
			line.TypeName = fmt.Sprintf("Unknown Type %d", mat.TypeID)
			b.Warnings = append(b.Warnings, fmt.Sprintf("material type %d is not in the static data", mat.TypeID))
		}

		// Rounding happens per material, not per total. This matches the
		// source data pipeline and is a known small discrepancy against
		// the game client; keep it.
		adjusted := int(math.Ceil(float64(mat.Quantity) * float64(job.Runs) * meMult * structMatMult))
		if adjusted < job.Runs {
			adjusted = job.Runs // never below 1 unit per run
			b.Warnings = append(b.Warnings, fmt.Sprintf("material %d quantity clamped to %d (1 per run)", mat.TypeID, adjusted))
		}
		line.AdjustedQuantity = adjusted

		price, ok, err := c.marketService.PriceForRegion(mat.TypeID, regionID, job.MaterialPriceKind)
		if err != nil {
			return nil, err
		}
		if ok {
			line.Priced = true
			line.UnitPrice = price
			line.Subtotal = price * float64(adjusted)
			b.MaterialCost += line.Subtotal
		} else {
			b.UnpricedTypeIDs = append(b.UnpricedTypeIDs, mat.TypeID)
		}

		b.Materials = append(b.Materials, line)
	}

	if len(b.UnpricedTypeIDs) > 0 {
		b.Incomplete = true
		b.Warnings = append(b.Warnings, fmt.Sprintf("%d materials unpriced, material cost is a lower bound", len(b.UnpricedTypeIDs)))
	}

	eiv, eivWarnings, err := c.estimatedItemValue(b.ProductTypeID, manufacturing, job.Runs)
	if err != nil {
		return nil, err
	}
	b.EstimatedItemValue = eiv
	b.Warnings = append(b.Warnings, eivWarnings...)
	if eiv == 0 {
		b.Incomplete = true
	}

	b.InstallationFee = eiv * job.SystemCostIndex * (1.0 - job.StructureCostBonus)
	b.Taxes = eiv * (job.FacilityTax + job.SCCSurcharge)
	b.JobCost = b.InstallationFee + b.Taxes

	teMult := 1.0 - float64(job.TELevel)*TEReductionPerLevel
	b.SecondsPerRun = int(float64(manufacturing.Time) * teMult * (1.0 - job.StructureTimeBonus))
	b.TotalSeconds = b.SecondsPerRun * job.Runs

	b.TotalCost = b.MaterialCost + b.JobCost
	if units := b.ProductQuantity * job.Runs; units > 0 {
		b.CostPerUnit = b.TotalCost / float64(units)
	}

	c.attachProfit(b, job, regionID)

	return b, nil
}

// estimatedItemValue approximates the game's EIV: the product's reprocessing
// materials valued at adjusted prices, scaled by runs. Products without a
// reprocessing set fall back to the manufacturing base quantities. Both
// paths are documented approximations of the true formula.
func (c *Calculator) estimatedItemValue(productTypeID int, manufacturing *sde.Activity, runs int) (float64, []string, error) {
	var warnings []string

	if productTypeID != 0 {
		tm, err := c.sdeService.GetTypeMaterials(productTypeID)
		if err != nil {
			return 0, nil, err
		}
		if tm != nil && len(tm.Materials) > 0 {
			total, missing := 0.0, 0
			for _, item := range tm.Materials {
				price, ok, err := c.marketService.PriceFor(item.MaterialTypeID, market.KindAdjusted)
				if err != nil {
					return 0, nil, err
				}
				if !ok {
					missing++
					continue
				}
				total += float64(item.Quantity) * price
			}
			if missing > 0 {
				warnings = append(warnings, fmt.Sprintf("%d reprocessing materials have no adjusted price, EIV is a lower bound", missing))
			}
			return total * float64(runs), warnings, nil
		}
		warnings = append(warnings, fmt.Sprintf("no reprocessing materials for product %d, EIV derived from manufacturing inputs", productTypeID))
	}

	// Fallback: value the unmodified manufacturing bill at adjusted prices.
	total, missing := 0.0, 0
	for _, mat := range manufacturing.Materials {
		price, ok, err := c.marketService.PriceFor(mat.TypeID, market.KindAdjusted)
		if err != nil {
			return 0, nil, err
		}
		if !ok {
			missing++
			continue
		}
		total += float64(mat.Quantity) * price
	}
	if missing > 0 {
		warnings = append(warnings, fmt.Sprintf("%d manufacturing materials have no adjusted price, EIV is a lower bound", missing))
	}
	return total * float64(runs), warnings, nil
}

// attachProfit fills the profit block when the product's sale price is
// resolvable; otherwise the block stays absent and a warning explains why.
func (c *Calculator) attachProfit(b *models.CostBreakdown, job Job, regionID int) {
	if b.ProductTypeID == 0 || b.ProductQuantity == 0 {
		return
	}

	// Revenue assumes selling into the best regional buy order.
	price, ok, err := c.marketService.PriceForRegion(b.ProductTypeID, regionID, market.KindBuy)
	if err != nil || !ok {
		b.Warnings = append(b.Warnings, fmt.Sprintf("no sale price for product %d, profit omitted", b.ProductTypeID))
		return
	}

	units := b.ProductQuantity * job.Runs
	revenue := price * float64(units)
	salesTax := revenue * job.SalesTaxRate
	profit := revenue - salesTax - b.TotalCost

	info := &models.ProfitInfo{
		SellPricePerUnit: price,
		UnitsProduced:    units,
		TotalRevenue:     revenue,
		SalesTax:         salesTax,
		Profit:           profit,
	}
	if b.TotalCost > 0 {
		info.ProfitMargin = profit / b.TotalCost * 100
	}
	b.Profit = info
}
