package catalog

import (
	"testing"

	"github.com/HerbHall/comparenet/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_EmbeddedFixturesLoad(t *testing.T) {
	c := NewCatalog()

	plans, err := c.Plans()
	require.NoError(t, err)
	assert.NotEmpty(t, plans)

	providers, err := c.Providers()
	require.NoError(t, err)
	assert.NotEmpty(t, providers)

	reviews, err := c.Reviews()
	require.NoError(t, err)
	assert.Len(t, reviews, 5)

	deals, err := c.Deals()
	require.NoError(t, err)
	assert.Len(t, deals, 3)
}

func TestCatalog_PlanInvariants(t *testing.T) {
	plans, err := NewCatalog().Plans()
	require.NoError(t, err)

	seen := make(map[int]bool, len(plans))
	for i := range plans {
		p := &plans[i]
		assert.False(t, seen[p.ID], "duplicate plan id %d", p.ID)
		seen[p.ID] = true
		assert.GreaterOrEqual(t, p.Price, 0.0, "plan %d price", p.ID)
		assert.GreaterOrEqual(t, p.SpeedDown, 0, "plan %d speed", p.ID)
		assert.GreaterOrEqual(t, p.Rating, 0.0, "plan %d rating", p.ID)
		assert.LessOrEqual(t, p.Rating, 5.0, "plan %d rating", p.ID)
	}
}

func TestCatalog_ProviderNamesUnique(t *testing.T) {
	providers, err := NewCatalog().Providers()
	require.NoError(t, err)

	names := make(map[string]bool, len(providers))
	for i := range providers {
		assert.False(t, names[providers[i].Name], "duplicate provider %q", providers[i].Name)
		names[providers[i].Name] = true
	}
}

func TestCatalog_PlanLookup(t *testing.T) {
	c := NewCatalog()

	p, ok, err := c.Plan(2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Unlimited Fibre 300", p.Name)

	_, ok, err = c.Plan(9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := NewCatalog()
	first, err := c.Plans()
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := c.Plans()
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second[0].Name)
}

func TestCatalog_CopiesDoNotSharePerks(t *testing.T) {
	c := NewStatic([]models.Plan{{ID: 1, Name: "a", Perks: []string{"Free modem"}}}, nil)

	plans, err := c.Plans()
	require.NoError(t, err)
	plans[0].Perks[0] = "mutated"

	p, ok, err := c.Plan(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"Free modem"}, p.Perks)
	p.Perks[0] = "mutated"

	again, err := c.Plans()
	require.NoError(t, err)
	assert.Equal(t, []string{"Free modem"}, again[0].Perks)
}

func TestCatalog_DealCopiesDoNotSharePerks(t *testing.T) {
	c := NewCatalog()
	deals, err := c.Deals()
	require.NoError(t, err)
	require.NotEmpty(t, deals)
	require.NotEmpty(t, deals[0].Perks)
	want := deals[0].Perks[0]
	deals[0].Perks[0] = "mutated"

	again, err := c.Deals()
	require.NoError(t, err)
	assert.Equal(t, want, again[0].Perks[0])
}

func TestNewStatic(t *testing.T) {
	c := NewStatic([]models.Plan{{ID: 7, Name: "only"}}, nil)

	plans, err := c.Plans()
	require.NoError(t, err)
	require.Len(t, plans, 1)

	p, ok, err := c.Plan(7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "only", p.Name)

	reviews, err := c.Reviews()
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
