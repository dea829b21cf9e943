package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"go-forge/pkg/app"
	"go-forge/pkg/config"
)

// Default snapshot sources. The SDE base serves one JSONL file per
// collection; the aggregate CSV carries the Fuzzwork regional price quotes;
// the ESI prices endpoint provides adjusted and average prices.
const (
	defaultSDEBaseURL    = "https://developers.eveonline.com/static-data/tranquility/jsonl"
	defaultAggregatesURL = "https://market.fuzzwork.co.uk/aggregatecsv.csv.gz"
	defaultESIPricesURL  = "https://esi.evetech.net/latest/markets/prices/"
)

// sdeFiles lists the static data collections the snapshot needs.
var sdeFiles = []string{
	"types.jsonl",
	"groups.jsonl",
	"categories.jsonl",
	"marketGroups.jsonl",
	"blueprints.jsonl",
	"typeMaterials.jsonl",
	"dogmaAttributes.jsonl",
}

func main() {
	ctx := context.Background()

	// Initialize application with shared components
	appCtx, err := app.InitializeApp("snapshot")
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer appCtx.Shutdown(ctx)

	slog.Info("Starting snapshot utility...")

	sdeDir := config.GetEnv("SDE_DATA_DIR", "data/sde")
	marketDir := config.GetEnv("MARKET_DATA_DIR", "data/market")
	sdeBaseURL := config.GetEnv("SDE_BASE_URL", defaultSDEBaseURL)
	aggregatesURL := config.GetEnv("AGGREGATES_URL", defaultAggregatesURL)
	esiPricesURL := config.GetEnv("ESI_PRICES_URL", defaultESIPricesURL)

	for _, dir := range []string{sdeDir, marketDir} {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			slog.Error("Failed to create data directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	// Static data collections
	for _, name := range sdeFiles {
		dest := filepath.Join(sdeDir, name)
		url := sdeBaseURL + "/" + name
		slog.Info("Downloading static data file", "url", url, "dest", dest)
		if err := downloadFile(dest, url); err != nil {
			slog.Error("Failed to download static data file", "url", url, "error", err)
			os.Exit(1)
		}
	}

	// Regional price quotes
	quotesDest := filepath.Join(marketDir, "aggregates.csv")
	slog.Info("Downloading market aggregates", "url", aggregatesURL, "dest", quotesDest)
	if err := downloadFile(quotesDest, aggregatesURL); err != nil {
		slog.Error("Failed to download market aggregates", "url", aggregatesURL, "error", err)
		os.Exit(1)
	}

	// Adjusted prices. Failure here is tolerated: the price service degrades
	// to quote-only operation without this file.
	pricesDest := filepath.Join(marketDir, "prices.jsonl")
	slog.Info("Downloading adjusted prices", "url", esiPricesURL, "dest", pricesDest)
	if err := downloadAdjustedPrices(pricesDest, esiPricesURL); err != nil {
		slog.Warn("Failed to download adjusted prices, continuing without them", "error", err)
	}

	slog.Info("Snapshot download completed successfully",
		"sde_dir", sdeDir,
		"market_dir", marketDir,
	)
}

// esiPrice mirrors one entry of the ESI market prices payload.
type esiPrice struct {
	TypeID        int     `json:"type_id"`
	AdjustedPrice float64 `json:"adjusted_price,omitempty"`
	AveragePrice  float64 `json:"average_price,omitempty"`
}

// adjustedPriceLine is the JSONL shape the market service reads.
type adjustedPriceLine struct {
	TypeID        int     `json:"_key"`
	AdjustedPrice float64 `json:"adjustedPrice,omitempty"`
	AveragePrice  float64 `json:"averagePrice,omitempty"`
}

// downloadAdjustedPrices fetches the ESI prices array and rewrites it as
// one JSON object per line.
func downloadAdjustedPrices(dest, url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	var prices []esiPrice
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return fmt.Errorf("failed to decode prices payload: %w", err)
	}

	out, err := os.Create(dest + ".tmp")
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	for _, p := range prices {
		line := adjustedPriceLine{
			TypeID:        p.TypeID,
			AdjustedPrice: p.AdjustedPrice,
			AveragePrice:  p.AveragePrice,
		}
		if err := enc.Encode(line); err != nil {
			out.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return err
	}
	out.Close()

	slog.Info("Adjusted prices written", "count", len(prices), "dest", dest)
	return os.Rename(dest+".tmp", dest)
}
