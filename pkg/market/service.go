package market

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrDataSourceNotFound indicates the required quotes snapshot file is absent.
var ErrDataSourceNotFound = errors.New("data source not found")

// Snapshot file names inside the market data directory. The quotes CSV is
// required; the adjusted-price file is a secondary source and may be absent.
const (
	quotesFile         = "aggregates.csv"
	adjustedPricesFile = "prices.jsonl"
)

type quoteKey struct {
	typeID   int
	regionID int
	isBuy    bool
}

// snapshot is one immutable, indexed view of the price data, swapped in
// atomically on load and reload.
type snapshot struct {
	quotes         map[quoteKey]*Quote
	regionsByType  map[int][]int
	adjustedPrices map[int]*AdjustedPrice
	rowErrors      []RowError
}

// Service provides in-memory access to market price quotes. Prices live in
// their own store because they refresh on a different cadence than static
// data. Resolution when a snapshot carries duplicate rows for the same
// (type, region, side): last row read wins.
type Service struct {
	dataDir       string
	defaultRegion int
	snap          atomic.Pointer[snapshot]
	loadMu        sync.Mutex
}

// NewService creates a new market price service. defaultRegion is the region
// used by kind-based lookups (buy/sell) when no region is given.
func NewService(dataDir string, defaultRegion int) *Service {
	return &Service{dataDir: dataDir, defaultRegion: defaultRegion}
}

// EnsureLoaded loads the price snapshot if it has not been loaded yet.
// Idempotent; concurrent callers are serialized by the load lock.
func (s *Service) EnsureLoaded() error {
	if s.snap.Load() != nil {
		return nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.snap.Load() != nil {
		return nil
	}

	snap, err := s.buildSnapshot()
	if err != nil {
		return err
	}
	s.snap.Store(snap)
	return nil
}

// Reload repeats the full load and swaps the snapshot atomically.
func (s *Service) Reload() error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	snap, err := s.buildSnapshot()
	if err != nil {
		return err
	}
	s.snap.Store(snap)
	return nil
}

// IsLoaded returns whether market data has been loaded
func (s *Service) IsLoaded() bool {
	return s.snap.Load() != nil
}

func (s *Service) current() (*snapshot, error) {
	if err := s.EnsureLoaded(); err != nil {
		return nil, err
	}
	return s.snap.Load(), nil
}

func (s *Service) buildSnapshot() (*snapshot, error) {
	quotes, rowErrs, err := parseQuotesCSV(filepath.Join(s.dataDir, quotesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load market quotes: %w", err)
	}

	snap := &snapshot{
		quotes:         make(map[quoteKey]*Quote, len(quotes)),
		regionsByType:  make(map[int][]int),
		adjustedPrices: make(map[int]*AdjustedPrice),
		rowErrors:      rowErrs,
	}

	for i := range quotes {
		q := &quotes[i]
		snap.quotes[quoteKey{q.TypeID, q.RegionID, q.IsBuyOrder}] = q
	}
	for key := range snap.quotes {
		snap.regionsByType[key.typeID] = appendUniqueRegion(snap.regionsByType[key.typeID], key.regionID)
	}
	for _, regions := range snap.regionsByType {
		sort.Ints(regions)
	}

	if err := snap.loadAdjustedPrices(filepath.Join(s.dataDir, adjustedPricesFile)); err != nil {
		if !errors.Is(err, ErrDataSourceNotFound) {
			return nil, err
		}
		// Adjusted prices are advisory; queries for them report no data.
		slog.Warn("Adjusted price snapshot missing, EIV prices unavailable", "file", adjustedPricesFile)
	}

	slog.Info("Market data loaded successfully",
		"quotes_count", len(snap.quotes),
		"types_count", len(snap.regionsByType),
		"adjusted_prices_count", len(snap.adjustedPrices),
		"skipped_rows", len(snap.rowErrors),
	)

	return snap, nil
}

func (sn *snapshot) loadAdjustedPrices(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDataSourceNotFound, path)
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var p AdjustedPrice
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			slog.Warn("Skipping malformed adjusted price line", "line", lineNum, "error", err)
			continue
		}
		sn.adjustedPrices[p.TypeID] = &p
	}
	return scanner.Err()
}

func appendUniqueRegion(regions []int, regionID int) []int {
	for _, r := range regions {
		if r == regionID {
			return regions
		}
	}
	return append(regions, regionID)
}

// PriceFor returns the latest known price of the given kind for a type, using
// the default region for buy/sell quotes. ok is false when no data exists;
// err reports load failures only.
func (s *Service) PriceFor(typeID int, kind PriceKind) (price float64, ok bool, err error) {
	return s.PriceForRegion(typeID, s.defaultRegion, kind)
}

// PriceForRegion is PriceFor with an explicit region for buy/sell quotes.
// Adjusted and average prices are region-independent.
func (s *Service) PriceForRegion(typeID, regionID int, kind PriceKind) (price float64, ok bool, err error) {
	snap, err := s.current()
	if err != nil {
		return 0, false, err
	}

	switch kind {
	case KindBuy:
		if q := snap.quotes[quoteKey{typeID, regionID, true}]; q != nil {
			return q.BestPrice(), true, nil
		}
	case KindSell:
		if q := snap.quotes[quoteKey{typeID, regionID, false}]; q != nil {
			return q.BestPrice(), true, nil
		}
	case KindAdjusted:
		if p := snap.adjustedPrices[typeID]; p != nil {
			return p.AdjustedPrice, true, nil
		}
	case KindAverage:
		if p := snap.adjustedPrices[typeID]; p != nil {
			return p.AveragePrice, true, nil
		}
	}
	return 0, false, nil
}

// QuoteFor returns the full quote for a (type, region, side), or nil if no
// data exists.
func (s *Service) QuoteFor(typeID, regionID int, isBuyOrder bool) (*Quote, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.quotes[quoteKey{typeID, regionID, isBuyOrder}], nil
}

// RegionsFor lists the regions with quote data for a type, ascending.
func (s *Service) RegionsFor(typeID int) ([]int, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.regionsByType[typeID], nil
}

// HasData reports whether any quote exists for a type.
func (s *Service) HasData(typeID int) (bool, error) {
	snap, err := s.current()
	if err != nil {
		return false, err
	}
	return len(snap.regionsByType[typeID]) > 0, nil
}

// DefaultRegion returns the region used by kind-based lookups.
func (s *Service) DefaultRegion() int {
	return s.defaultRegion
}

// RowErrors returns the skipped malformed rows of the active snapshot.
func (s *Service) RowErrors() ([]RowError, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.rowErrors, nil
}

// Stats reports collection sizes of the active snapshot.
func (s *Service) Stats() (map[string]int, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"quotes":          len(snap.quotes),
		"types":           len(snap.regionsByType),
		"adjusted_prices": len(snap.adjustedPrices),
		"skipped_rows":    len(snap.rowErrors),
	}, nil
}
