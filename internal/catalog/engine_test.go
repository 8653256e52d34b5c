package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/comparenet/internal/testutil"
	pkgcatalog "github.com/HerbHall/comparenet/pkg/catalog"
	"github.com/HerbHall/comparenet/pkg/models"
)

func testCatalog() *pkgcatalog.Catalog {
	return pkgcatalog.NewCatalog()
}

func mustPlans(t *testing.T) []models.Plan {
	t.Helper()
	plans, err := testCatalog().Plans()
	require.NoError(t, err)
	return plans
}

func TestEngine_Search_DefaultView(t *testing.T) {
	engine := NewEngine(testCatalog())

	res, err := engine.Search(NewViewState(6))
	require.NoError(t, err)

	assert.Equal(t, 14, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.False(t, res.Empty)
	assert.Equal(t, []int{1, 2, 3}, res.Pages)
	if diff := cmp.Diff([]int{14, 11, 1, 9, 12, 5}, testutil.PlanIDs(res.Plans)); diff != "" {
		t.Errorf("page 1 mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Search_SortKeepsPage(t *testing.T) {
	engine := NewEngine(testCatalog())
	v := NewViewState(6).WithPage(3)

	res, err := engine.Search(v)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3}, testutil.PlanIDs(res.Plans))

	res, err = engine.Search(v.WithSort(SortPriceHigh))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, []int{11, 14}, testutil.PlanIDs(res.Plans))
}

func TestEngine_Search_EmptyResult(t *testing.T) {
	engine := NewEngine(testCatalog())
	f := DefaultFilters()
	f.MaxPrice = 10

	res, err := engine.Search(NewViewState(6).WithFilters(f))
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 1, res.TotalPages)
	assert.Empty(t, res.Plans)
}

func TestEngine_Search_PageOutOfRange(t *testing.T) {
	engine := NewEngine(testCatalog())

	for _, page := range []int{0, 4} {
		_, err := engine.Search(NewViewState(6).WithPage(page))
		assert.True(t, errors.Is(err, ErrPageOutOfRange), "page %d: %v", page, err)
	}
}

func TestEngine_Search_CarriesAddress(t *testing.T) {
	engine := NewEngine(testCatalog())

	res, err := engine.Search(NewViewState(6).Search("5 Beach Rd"))
	require.NoError(t, err)
	assert.True(t, res.Searched)
	assert.Equal(t, "5 Beach Rd", res.Address)
}

func TestEngine_Plan(t *testing.T) {
	engine := NewEngine(testCatalog())

	p, err := engine.Plan(3)
	require.NoError(t, err)
	assert.Equal(t, "Hyperfibre 2000", p.Name)

	_, err = engine.Plan(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngine_Provider(t *testing.T) {
	engine := NewEngine(testCatalog())

	d, err := engine.Provider("rural-connect")
	require.NoError(t, err)
	assert.Equal(t, "Rural Connect", d.Provider.Name)
	assert.Equal(t, []int{7, 8}, testutil.PlanIDs(d.Plans))

	_, err = engine.Provider("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngine_Providers(t *testing.T) {
	engine := NewEngine(testCatalog())

	l, err := engine.Providers(models.ConnectionCable, ProviderSortRating)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Count)
	assert.Equal(t, "ConnectPro", l.Providers[0].Name)
	assert.Equal(t, 6, l.Stats.Providers)
}

func TestEngine_StaticCatalog(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewStatic(testutil.PlansWithPrices(59, 69, 79, 89, 99), nil))
	f := DefaultFilters()
	f.MinPrice, f.MaxPrice = 60, 90

	res, err := engine.Search(NewViewState(6).WithFilters(f).WithSort(SortPriceHigh))
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2}, testutil.PlanIDs(res.Plans))
}
