package sde

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureFiles is a minimal consistent data set: two mineral types and a
// frigate produced by one blueprint.
var fixtureFiles = map[string]string{
	categoriesFile: `{"_key":4,"name":{"en":"Material"},"published":true}
{"_key":6,"name":{"en":"Ship"},"published":true}
`,
	groupsFile: `{"_key":18,"categoryID":4,"name":{"en":"Mineral"},"published":true}
{"_key":25,"categoryID":6,"name":{"en":"Frigate"},"published":true}
`,
	marketGroupsFile: `{"_key":1857,"nameID":{"en":"Minerals"},"hasTypes":true}
{"_key":64,"nameID":{"en":"Frigates"},"hasTypes":false}
{"_key":1367,"parentGroupID":64,"nameID":{"en":"Standard Frigates"},"hasTypes":true}
`,
	typesFile: `{"_key":34,"name":{"en":"Tritanium"},"groupID":18,"marketGroupID":1857,"published":true,"volume":0.01}
{"_key":35,"name":{"en":"Pyerite"},"groupID":18,"marketGroupID":1857,"published":true,"volume":0.01}
{"_key":587,"name":{"en":"Rifter"},"groupID":25,"marketGroupID":1367,"published":true,"portionSize":1}
{"_key":686,"name":{"en":"Rifter Blueprint"},"groupID":105,"published":false}
`,
	blueprintsFile: `{"_key":686,"activities":{"manufacturing":{"materials":[{"typeID":34,"quantity":28367},{"typeID":35,"quantity":7045}],"products":[{"typeID":587,"quantity":1}],"time":6000},"copying":{"time":4800}},"maxProductionLimit":30}
`,
	typeMaterialsFile: `{"_key":587,"materials":[{"materialTypeID":34,"quantity":22222},{"materialTypeID":35,"quantity":5555}]}
`,
	dogmaAttributesFile: `{"_key":161,"name":"volume","defaultValue":0,"published":true}
`,
}

func writeFixture(t *testing.T, overrides map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range fixtureFiles {
		if o, ok := overrides[name]; ok {
			content = o
		}
		if content == "" {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestServiceEnsureLoadedConcurrent(t *testing.T) {
	dir := writeFixture(t, nil)
	svc := NewService(dir)

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
	typ, err := svc.GetType(34)
	require.NoError(t, err)
	require.NotNil(t, typ)
	require.NoError(t, svc.EnsureLoaded())
}

func TestServiceLazyLoadAndLookups(t *testing.T) {
	svc := NewService(writeFixture(t, nil))
	assert.False(t, svc.IsLoaded())

	typ, err := svc.GetType(34)
	require.NoError(t, err)
	require.NotNil(t, typ)
	assert.Equal(t, "Tritanium", typ.Name.English())
	assert.True(t, svc.IsLoaded())

	group, err := svc.GetGroup(18)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, 4, group.CategoryID)

	cat, err := svc.GetCategory(6)
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, "Ship", cat.Name.English())

	bp, err := svc.GetBlueprint(686)
	require.NoError(t, err)
	require.NotNil(t, bp)
	require.NotNil(t, bp.Activities.Manufacturing)
	assert.Equal(t, 6000, bp.Activities.Manufacturing.Time)
	assert.Equal(t, 30, bp.MaxProductionLimit)

	tm, err := svc.GetTypeMaterials(587)
	require.NoError(t, err)
	require.NotNil(t, tm)
	assert.Len(t, tm.Materials, 2)
}

func TestServiceUnknownIDsAreNotErrors(t *testing.T) {
	svc := NewService(writeFixture(t, nil))

	typ, err := svc.GetType(999999)
	assert.NoError(t, err)
	assert.Nil(t, typ)

	bp, err := svc.GetBlueprint(999999)
	assert.NoError(t, err)
	assert.Nil(t, bp)

	mats, err := svc.MaterialsFor(999999, ActivityManufacturing)
	assert.NoError(t, err)
	assert.Nil(t, mats)
}

func TestServiceIndexQueriesPreserveSourceOrder(t *testing.T) {
	svc := NewService(writeFixture(t, nil))

	minerals, err := svc.TypesInGroup(18)
	require.NoError(t, err)
	require.Len(t, minerals, 2)
	assert.Equal(t, 34, minerals[0].ID)
	assert.Equal(t, 35, minerals[1].ID)

	materials, err := svc.TypesInCategory(4)
	require.NoError(t, err)
	assert.Len(t, materials, 2)

	inMarket, err := svc.TypesInMarketGroup(1857)
	require.NoError(t, err)
	require.Len(t, inMarket, 2)
	assert.Equal(t, 34, inMarket[0].ID)

	published, err := svc.PublishedTypes()
	require.NoError(t, err)
	require.Len(t, published, 3)
	for _, p := range published {
		assert.True(t, p.Published)
	}

	producers, err := svc.BlueprintsProducing(587)
	require.NoError(t, err)
	require.Len(t, producers, 1)
	assert.Equal(t, 686, producers[0].ID)
}

func TestServiceMarketGroupChildren(t *testing.T) {
	svc := NewService(writeFixture(t, nil))

	roots, err := svc.MarketGroupChildren(0)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, 1857, roots[0].ID)
	assert.Equal(t, 64, roots[1].ID)

	children, err := svc.MarketGroupChildren(64)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, 1367, children[0].ID)

	leaves, err := svc.MarketGroupChildren(1367)
	require.NoError(t, err)
	assert.Empty(t, leaves)
}

func TestServiceMaterialsFor(t *testing.T) {
	svc := NewService(writeFixture(t, nil))

	mats, err := svc.MaterialsFor(686, ActivityManufacturing)
	require.NoError(t, err)
	require.Len(t, mats, 2)
	assert.Equal(t, Material{TypeID: 34, Quantity: 28367}, mats[0])
	assert.Equal(t, Material{TypeID: 35, Quantity: 7045}, mats[1])

	// Declared activity without materials
	copying, err := svc.MaterialsFor(686, ActivityCopying)
	require.NoError(t, err)
	assert.Empty(t, copying)

	// Absent activity
	invention, err := svc.MaterialsFor(686, ActivityInvention)
	assert.NoError(t, err)
	assert.Nil(t, invention)
}

func TestServiceMissingFileFailsWholeLoad(t *testing.T) {
	dir := writeFixture(t, nil)
	require.NoError(t, os.Remove(filepath.Join(dir, blueprintsFile)))

	svc := NewService(dir)
	err := svc.EnsureLoaded()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataSourceNotFound)
	assert.False(t, svc.IsLoaded())

	// Nothing is queryable after a failed load.
	_, err = svc.GetType(34)
	assert.Error(t, err)
}

func TestServiceMalformedLinesAreRecorded(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		typesFile: `{"_key":34,"name":{"en":"Tritanium"},"groupID":18,"published":true}
{garbage}
{"_key":35,"name":{"en":"Pyerite"},"groupID":18,"published":true}
`,
	})
	svc := NewService(dir)
	require.NoError(t, svc.EnsureLoaded())

	lineErrs, err := svc.LineErrors()
	require.NoError(t, err)
	require.Len(t, lineErrs[typesFile], 1)
	assert.Equal(t, 2, lineErrs[typesFile][0].Line)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats["types"])
	assert.Equal(t, 1, stats["skipped_lines"])
}

func TestServiceReferenceWarnings(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		blueprintsFile: `{"_key":686,"activities":{"manufacturing":{"materials":[{"typeID":999,"quantity":10}],"products":[{"typeID":587,"quantity":1}],"time":6000}}}
`,
		marketGroupsFile: `{"_key":1857,"nameID":{"en":"Minerals"}}
{"_key":64,"nameID":{"en":"Frigates"}}
{"_key":1367,"parentGroupID":64,"nameID":{"en":"Standard Frigates"}}
{"_key":9999,"parentGroupID":12345,"nameID":{"en":"Orphan"}}
`,
	})
	svc := NewService(dir)
	require.NoError(t, svc.EnsureLoaded())

	warnings, err := svc.Warnings()
	require.NoError(t, err)

	var sources []string
	for _, w := range warnings {
		sources = append(sources, w.Source)
	}
	assert.Contains(t, sources, "blueprint")
	assert.Contains(t, sources, "marketGroup")
}

func TestServiceReloadSwapsAtomically(t *testing.T) {
	dir := writeFixture(t, nil)
	svc := NewService(dir)
	require.NoError(t, svc.EnsureLoaded())

	// Grow the data set, then reload.
	f, err := os.OpenFile(filepath.Join(dir, typesFile), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"_key":36,"name":{"en":"Mexallon"},"groupID":18,"published":true}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, svc.Reload())
	typ, err := svc.GetType(36)
	require.NoError(t, err)
	require.NotNil(t, typ)
	assert.Equal(t, "Mexallon", typ.Name.English())
}

func TestServiceFailedReloadKeepsOldSnapshot(t *testing.T) {
	dir := writeFixture(t, nil)
	svc := NewService(dir)
	require.NoError(t, svc.EnsureLoaded())

	require.NoError(t, os.Remove(filepath.Join(dir, typesFile)))
	err := svc.Reload()
	require.Error(t, err)

	// The previous snapshot stays readable.
	typ, err := svc.GetType(34)
	require.NoError(t, err)
	require.NotNil(t, typ)
	assert.Equal(t, "Tritanium", typ.Name.English())
}
