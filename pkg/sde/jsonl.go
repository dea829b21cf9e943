package sde

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LineError records a single malformed line that was skipped during a load.
type LineError struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// decodeLines reads a line-delimited JSON file into records of type T. Blank
// lines are ignored. Malformed lines are skipped and recorded, never fatal;
// only a missing file aborts the load. A positive sample caps the number of
// decoded records, used by diagnostics for partial loads.
func decodeLines[T any](path string, sample int) ([]T, []LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrDataSourceNotFound, path)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var (
		records []T
		errs    []LineError
		lineNum int
	)

	scanner := bufio.NewScanner(f)
	// Blueprint lines can be long; the default 64K token limit is too small.
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec T
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			errs = append(errs, LineError{Line: lineNum, Raw: line, Reason: err.Error()})
			slog.Warn("Skipping malformed line", "file", path, "line", lineNum, "error", err)
			continue
		}

		records = append(records, rec)
		if sample > 0 && len(records) >= sample {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errs, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return records, errs, nil
}
