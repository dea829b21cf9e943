package market

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// RowError records a single malformed CSV row that was skipped during a load.
type RowError struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// parseQuotesCSV reads a Fuzzwork aggregate snapshot. The file has a header
// row; each data row starts with a pipe-separated composite key followed by
// comma-separated statistics:
//
//	regionid|typeid|isbuy,weightedaverage,maxval,minval,stddev,median,volume,numorders,fivepercent,orderSet
//
// Malformed rows are skipped and recorded. Only a missing file is fatal.
func parseQuotesCSV(path string) ([]Quote, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrDataSourceNotFound, path)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	fetchedAt := time.Now().UTC()

	var (
		quotes  []Quote
		rowErrs []RowError
		lineNum int
	)

	scanner := bufio.NewScanner(f)
	// The trailing orderSet column embeds a JSON order set that can run far
	// past the default 64K token limit on busy types.
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || lineNum == 1 {
			// Header row carries column names, not data.
			continue
		}

		q, err := parseQuoteRow(line)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: lineNum, Raw: line, Reason: err.Error()})
			slog.Warn("Skipping malformed market row", "file", path, "line", lineNum, "error", err)
			continue
		}
		q.FetchedAt = fetchedAt
		quotes = append(quotes, q)
	}

	if err := scanner.Err(); err != nil {
		return nil, rowErrs, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return quotes, rowErrs, nil
}

func parseQuoteRow(line string) (Quote, error) {
	var q Quote

	key, rest, found := strings.Cut(line, ",")
	if !found {
		return q, fmt.Errorf("missing statistics columns")
	}

	keyParts := strings.Split(key, "|")
	if len(keyParts) != 3 {
		return q, fmt.Errorf("composite key %q is not regionid|typeid|isbuy", key)
	}

	regionID, err := strconv.Atoi(strings.TrimSpace(keyParts[0]))
	if err != nil {
		return q, fmt.Errorf("invalid region id %q", keyParts[0])
	}
	typeID, err := strconv.Atoi(strings.TrimSpace(keyParts[1]))
	if err != nil {
		return q, fmt.Errorf("invalid type id %q", keyParts[1])
	}
	side := strings.ToLower(strings.TrimSpace(keyParts[2]))
	isBuy := side == "true" || side == "1"

	cols := strings.Split(rest, ",")
	if len(cols) < 9 {
		return q, fmt.Errorf("expected 9 statistics columns, got %d", len(cols))
	}

	stats := make([]float64, 8)
	for i := 0; i < 8; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(cols[i]), 64)
		if err != nil {
			return q, fmt.Errorf("invalid numeric column %d: %q", i+2, cols[i])
		}
		stats[i] = v
	}

	q = Quote{
		TypeID:          typeID,
		RegionID:        regionID,
		IsBuyOrder:      isBuy,
		WeightedAverage: stats[0],
		MaxVal:          stats[1],
		MinVal:          stats[2],
		StdDev:          stats[3],
		Median:          stats[4],
		Volume:          stats[5],
		NumOrders:       int(stats[6]),
		FivePercent:     stats[7],
	}
	return q, nil
}
