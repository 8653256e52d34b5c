package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/HerbHall/comparenet/pkg/models"
)

// ProviderSortKey selects the provider listing order.
type ProviderSortKey string

const (
	ProviderSortRating ProviderSortKey = "rating"
	ProviderSortPrice  ProviderSortKey = "price"
	ProviderSortName   ProviderSortKey = "name"
	ProviderSortPlans  ProviderSortKey = "plans"
)

// ProviderStats summarizes the whole provider list.
type ProviderStats struct {
	Providers     int     `json:"providers"`
	AverageRating float64 `json:"average_rating"`
	TotalPlans    int     `json:"total_plans"`
}

// FilterProviders returns providers offering connectionType, or all of them
// when connectionType is empty or "all".
func FilterProviders(providers []models.Provider, connectionType models.ConnectionType) []models.Provider {
	if !active(string(connectionType)) {
		return slices.Clone(providers)
	}
	result := make([]models.Provider, 0, len(providers))
	for i := range providers {
		if providers[i].Supports(connectionType) {
			result = append(result, providers[i])
		}
	}
	return result
}

// SortProviders returns a sorted copy of providers, ties broken by ID. An
// unrecognized key returns a copy in input order.
func SortProviders(providers []models.Provider, key ProviderSortKey) []models.Provider {
	out := slices.Clone(providers)
	var compare func(a, b *models.Provider) int
	switch key {
	case ProviderSortRating:
		compare = func(a, b *models.Provider) int { return cmp.Compare(b.Rating, a.Rating) }
	case ProviderSortPrice:
		compare = func(a, b *models.Provider) int { return cmp.Compare(a.MinPrice, b.MinPrice) }
	case ProviderSortName:
		compare = func(a, b *models.Provider) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case ProviderSortPlans:
		compare = func(a, b *models.Provider) int { return cmp.Compare(b.TotalPlans, a.TotalPlans) }
	default:
		return out
	}
	slices.SortFunc(out, func(a, b models.Provider) int {
		if c := compare(&a, &b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Stats computes summary figures over providers.
func Stats(providers []models.Provider) ProviderStats {
	s := ProviderStats{Providers: len(providers)}
	if len(providers) == 0 {
		return s
	}
	var sum float64
	for i := range providers {
		sum += providers[i].Rating
		s.TotalPlans += providers[i].TotalPlans
	}
	s.AverageRating = sum / float64(len(providers))
	return s
}

// PlansByProvider returns the plans whose provider name equals name, in
// catalog order.
func PlansByProvider(plans []models.Plan, name string) []models.Plan {
	result := make([]models.Plan, 0)
	for i := range plans {
		if plans[i].Provider == name {
			result = append(result, plans[i])
		}
	}
	return result
}
