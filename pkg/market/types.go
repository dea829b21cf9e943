package market

import "time"

// PriceKind selects which price of an item a query refers to.
type PriceKind string

const (
	KindBuy      PriceKind = "buy"      // best (highest) regional buy order
	KindSell     PriceKind = "sell"     // best (lowest) regional sell order
	KindAdjusted PriceKind = "adjusted" // CCP adjusted price, used for EIV
	KindAverage  PriceKind = "average"  // rolling average price
)

// Valid reports whether k is a known price kind.
func (k PriceKind) Valid() bool {
	switch k {
	case KindBuy, KindSell, KindAdjusted, KindAverage:
		return true
	}
	return false
}

// Quote holds the aggregated order statistics for one (type, region, side)
// from a Fuzzwork market snapshot.
type Quote struct {
	TypeID          int       `json:"type_id"`
	RegionID        int       `json:"region_id"`
	IsBuyOrder      bool      `json:"is_buy_order"`
	WeightedAverage float64   `json:"weighted_average"`
	MaxVal          float64   `json:"max_val"`
	MinVal          float64   `json:"min_val"`
	StdDev          float64   `json:"std_dev"`
	Median          float64   `json:"median"`
	Volume          float64   `json:"volume"`
	NumOrders       int       `json:"num_orders"`
	FivePercent     float64   `json:"five_percent"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// BestPrice returns the best price for the quote's side: the highest buy or
// the lowest sell.
func (q *Quote) BestPrice() float64 {
	if q.IsBuyOrder {
		return q.MaxVal
	}
	return q.MinVal
}

// AdjustedPrice is one entry of the adjusted-price snapshot, the secondary
// source feeding EIV calculations.
type AdjustedPrice struct {
	TypeID        int     `json:"_key"`
	AdjustedPrice float64 `json:"adjustedPrice,omitempty"`
	AveragePrice  float64 `json:"averagePrice,omitempty"`
}
