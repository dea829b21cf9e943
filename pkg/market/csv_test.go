package market

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "what,weightedaverage,maxval,minval,stddev,median,volume,numorders,fivepercent,orderSet\n"

func writeCSV(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, quotesFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseQuoteRow(t *testing.T) {
	q, err := parseQuoteRow("10000002|34|false,4.95,5.05,4.89,0.12,4.97,1000000,250,4.91,12345")
	require.NoError(t, err)

	assert.Equal(t, 34, q.TypeID)
	assert.Equal(t, 10000002, q.RegionID)
	assert.False(t, q.IsBuyOrder)
	assert.Equal(t, 4.95, q.WeightedAverage)
	assert.Equal(t, 5.05, q.MaxVal)
	assert.Equal(t, 4.89, q.MinVal)
	assert.Equal(t, 0.12, q.StdDev)
	assert.Equal(t, 4.97, q.Median)
	assert.Equal(t, float64(1000000), q.Volume)
	assert.Equal(t, 250, q.NumOrders)
	assert.Equal(t, 4.91, q.FivePercent)
}

func TestParseQuoteRowBuySide(t *testing.T) {
	q, err := parseQuoteRow("10000002|34|true,4.5,4.8,4.2,0.1,4.5,500,10,4.7,0")
	require.NoError(t, err)
	assert.True(t, q.IsBuyOrder)
	assert.Equal(t, 4.8, q.BestPrice())

	q, err = parseQuoteRow("10000002|34|1,4.5,4.8,4.2,0.1,4.5,500,10,4.7,0")
	require.NoError(t, err)
	assert.True(t, q.IsBuyOrder)

	q, err = parseQuoteRow("10000002|34|False,4.5,4.8,4.2,0.1,4.5,500,10,4.7,0")
	require.NoError(t, err)
	assert.False(t, q.IsBuyOrder)
	assert.Equal(t, 4.2, q.BestPrice())
}

func TestParseQuoteRowMalformed(t *testing.T) {
	cases := []string{
		"",
		"nokey",
		"10000002|34,4.5,4.8,4.2,0.1,4.5,500,10,4.7,0",
		"x|34|false,4.5,4.8,4.2,0.1,4.5,500,10,4.7,0",
		"10000002|y|false,4.5,4.8,4.2,0.1,4.5,500,10,4.7,0",
		"10000002|34|false,4.5,4.8",
		"10000002|34|false,4.5,notanumber,4.2,0.1,4.5,500,10,4.7,0",
	}
	for _, line := range cases {
		_, err := parseQuoteRow(line)
		assert.Error(t, err, "line %q should not parse", line)
	}
}

func TestParseQuotesCSVSkipsHeaderAndBadRows(t *testing.T) {
	path := writeCSV(t, t.TempDir(), csvHeader+
		"10000002|34|false,4.95,5.05,4.89,0.12,4.97,1000000,250,4.91,0\n"+
		"garbage row\n"+
		"10000002|34|true,4.5,4.8,4.2,0.1,4.5,500,10,4.7,0\n")

	quotes, rowErrs, err := parseQuotesCSV(path)
	require.NoError(t, err)
	assert.Len(t, quotes, 2)

	require.Len(t, rowErrs, 1)
	assert.Equal(t, 3, rowErrs[0].Line)
	assert.Equal(t, "garbage row", rowErrs[0].Raw)
}

func TestParseQuotesCSVLongOrderSetRow(t *testing.T) {
	// Busy types carry an embedded JSON order set well past bufio's default
	// 64K token limit; one such row must not sink the load.
	orderSet := strings.Repeat("x", 80*1024)
	path := writeCSV(t, t.TempDir(), csvHeader+
		"10000002|34|false,4.95,5.05,4.89,0.12,4.97,1000000,250,4.91,"+orderSet+"\n"+
		"10000002|35|false,10.2,10.5,10.0,0.2,10.2,500000,120,10.1,0\n")

	quotes, rowErrs, err := parseQuotesCSV(path)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)

	require.Len(t, quotes, 2)
	assert.Equal(t, 34, quotes[0].TypeID)
	assert.Equal(t, 35, quotes[1].TypeID)
}

func TestParseQuotesCSVMissingFile(t *testing.T) {
	_, _, err := parseQuotesCSV(filepath.Join(t.TempDir(), quotesFile))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataSourceNotFound)
}
