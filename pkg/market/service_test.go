package market

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jita = 10000002

func writeMarketFixture(t *testing.T, csv, prices string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, quotesFile), []byte(csv), 0o644))
	if prices != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, adjustedPricesFile), []byte(prices), 0o644))
	}
	return dir
}

func defaultFixture(t *testing.T) string {
	return writeMarketFixture(t, csvHeader+
		"10000002|34|false,4.95,5.05,4.89,0.12,4.97,1000000,250,4.91,0\n"+
		"10000002|34|true,4.50,4.80,4.20,0.10,4.50,500000,120,4.70,0\n"+
		"10000043|34|false,5.10,5.30,5.00,0.15,5.10,200000,80,5.05,0\n",
		`{"_key":34,"adjustedPrice":4.6,"averagePrice":4.9}
{"_key":35,"adjustedPrice":10.2,"averagePrice":10.5}
`)
}

func TestServiceEnsureLoadedConcurrent(t *testing.T) {
	dir := defaultFixture(t)
	svc := NewService(dir, jita)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.EnsureLoaded()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}
	assert.True(t, svc.IsLoaded())

	// The snapshot was built once; lookups must not touch the files again.
	require.NoError(t, os.RemoveAll(dir))
	_, ok, err := svc.PriceFor(34, KindSell)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, svc.EnsureLoaded())
}

func TestServicePriceKinds(t *testing.T) {
	svc := NewService(defaultFixture(t), jita)

	sell, ok, err := svc.PriceFor(34, KindSell)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4.89, sell) // lowest sell

	buy, ok, err := svc.PriceFor(34, KindBuy)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4.80, buy) // highest buy

	adjusted, ok, err := svc.PriceFor(34, KindAdjusted)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4.6, adjusted)

	average, ok, err := svc.PriceFor(34, KindAverage)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4.9, average)
}

func TestServicePriceForRegion(t *testing.T) {
	svc := NewService(defaultFixture(t), jita)

	sell, ok, err := svc.PriceForRegion(34, 10000043, KindSell)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5.00, sell)

	// No buy quote in 10000043
	_, ok, err = svc.PriceForRegion(34, 10000043, KindBuy)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServiceMissingPriceIsNotAnError(t *testing.T) {
	svc := NewService(defaultFixture(t), jita)

	price, ok, err := svc.PriceFor(999999, KindSell)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, price)

	q, err := svc.QuoteFor(999999, jita, false)
	assert.NoError(t, err)
	assert.Nil(t, q)

	has, err := svc.HasData(999999)
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestServiceLastRowWins(t *testing.T) {
	dir := writeMarketFixture(t, csvHeader+
		"10000002|34|false,4.95,5.05,4.89,0.12,4.97,1000000,250,4.91,0\n"+
		"10000002|34|false,5.95,6.05,5.89,0.12,5.97,1000000,250,5.91,0\n",
		"")
	svc := NewService(dir, jita)

	sell, ok, err := svc.PriceFor(34, KindSell)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5.89, sell)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats["quotes"])
}

func TestServiceRegionsForSorted(t *testing.T) {
	dir := writeMarketFixture(t, csvHeader+
		"10000043|34|false,5.10,5.30,5.00,0.15,5.10,200000,80,5.05,0\n"+
		"10000002|34|false,4.95,5.05,4.89,0.12,4.97,1000000,250,4.91,0\n"+
		"10000002|34|true,4.50,4.80,4.20,0.10,4.50,500000,120,4.70,0\n",
		"")
	svc := NewService(dir, jita)

	regions, err := svc.RegionsFor(34)
	require.NoError(t, err)
	assert.Equal(t, []int{10000002, 10000043}, regions)
}

func TestServiceDegradesWithoutAdjustedPrices(t *testing.T) {
	dir := writeMarketFixture(t, csvHeader+
		"10000002|34|false,4.95,5.05,4.89,0.12,4.97,1000000,250,4.91,0\n",
		"")
	svc := NewService(dir, jita)
	require.NoError(t, svc.EnsureLoaded())

	// Quotes still work.
	sell, ok, err := svc.PriceFor(34, KindSell)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4.89, sell)

	// Adjusted prices report no data, not an error.
	_, ok, err = svc.PriceFor(34, KindAdjusted)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestServiceMissingQuotesFileIsFatal(t *testing.T) {
	svc := NewService(t.TempDir(), jita)
	err := svc.EnsureLoaded()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataSourceNotFound)
	assert.False(t, svc.IsLoaded())
}

func TestServiceReload(t *testing.T) {
	dir := writeMarketFixture(t, csvHeader+
		"10000002|34|false,4.95,5.05,4.89,0.12,4.97,1000000,250,4.91,0\n",
		"")
	svc := NewService(dir, jita)
	require.NoError(t, svc.EnsureLoaded())

	require.NoError(t, os.WriteFile(filepath.Join(dir, quotesFile), []byte(csvHeader+
		"10000002|34|false,6.95,7.05,6.89,0.12,6.97,1000000,250,6.91,0\n"), 0o644))

	require.NoError(t, svc.Reload())
	sell, ok, err := svc.PriceFor(34, KindSell)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6.89, sell)
}
