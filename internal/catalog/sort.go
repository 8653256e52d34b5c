package catalog

import (
	"cmp"
	"slices"

	"github.com/HerbHall/comparenet/pkg/models"
)

// SortKey selects the result ordering.
type SortKey string

const (
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortSpeedHigh SortKey = "speed-high"
	SortRating    SortKey = "rating"
)

// DefaultSort is the ordering a fresh view starts with.
const DefaultSort = SortPriceLow

var planComparators = map[SortKey]func(a, b *models.Plan) int{
	SortPriceLow: func(a, b *models.Plan) int {
		return cmp.Compare(a.Price, b.Price)
	},
	SortPriceHigh: func(a, b *models.Plan) int {
		return cmp.Compare(b.Price, a.Price)
	},
	SortSpeedHigh: func(a, b *models.Plan) int {
		return cmp.Compare(b.SpeedDown, a.SpeedDown)
	},
	SortRating: func(a, b *models.Plan) int {
		return cmp.Compare(b.Rating, a.Rating)
	},
}

// Known reports whether k is a recognized sort key.
func (k SortKey) Known() bool {
	_, ok := planComparators[k]
	return ok
}

// SortPlans returns a sorted copy of plans. Equal keys are ordered by plan ID
// ascending. An unrecognized key returns a copy in input order.
func SortPlans(plans []models.Plan, key SortKey) []models.Plan {
	out := slices.Clone(plans)
	compare, ok := planComparators[key]
	if !ok {
		return out
	}
	slices.SortFunc(out, func(a, b models.Plan) int {
		if c := compare(&a, &b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
