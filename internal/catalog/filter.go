// Package catalog implements the plan search pipeline: filtering, sorting,
// pagination and prospective option counts over the static catalog.
package catalog

import (
	"slices"

	"github.com/HerbHall/comparenet/pkg/models"
)

// OptionAll is the "no constraint" value for single-select dimensions.
const OptionAll = "all"

// DataType selects plans by data allowance class.
type DataType string

const (
	DataAll       DataType = "all"
	DataUnlimited DataType = "unlimited"
	DataCapped    DataType = "capped"
)

// PackageType is a bundle option in the package filter.
type PackageType string

const (
	PackageBroadband   PackageType = "broadband"
	PackageBroadbandTV PackageType = "broadband-tv"
)

// PackageTypes lists the package options in display order.
var PackageTypes = []PackageType{PackageBroadband, PackageBroadbandTV}

// SpeedBucket is a named minimum download speed threshold.
type SpeedBucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Min   int    `json:"min"`
}

// SpeedBuckets is the mutually exclusive speed ladder, slowest first.
var SpeedBuckets = []SpeedBucket{
	{Key: "10+", Label: "10 Mbps +", Min: 10},
	{Key: "30+", Label: "30 Mbps +", Min: 30},
	{Key: "100+", Label: "100 Mbps +", Min: 100},
	{Key: "300+", Label: "300 Mbps +", Min: 300},
	{Key: "900+", Label: "900 Mbps +", Min: 900},
}

// BucketMin returns the threshold for a speed bucket key.
func BucketMin(key string) (int, bool) {
	for _, b := range SpeedBuckets {
		if b.Key == key {
			return b.Min, true
		}
	}
	return 0, false
}

// Filters is the user's filter configuration. Zero numeric bounds, empty
// strings, "all" and an empty package set all mean "no constraint" on that
// dimension; unrecognized values are ignored rather than rejected.
type Filters struct {
	MinPrice       float64               `json:"minPrice,omitempty"`
	MaxPrice       float64               `json:"maxPrice,omitempty"`
	MinSpeed       int                   `json:"minSpeed,omitempty"`
	ConnectionType models.ConnectionType `json:"connectionType,omitempty"`
	Contract       models.Contract       `json:"contract,omitempty"`
	DataType       DataType              `json:"dataType,omitempty"`
	SpeedRange     string                `json:"speedRange,omitempty"`
	PackageType    []PackageType         `json:"packageType,omitempty"`
}

// DefaultFilters returns the configuration a fresh view starts with.
func DefaultFilters() Filters {
	return Filters{
		ConnectionType: OptionAll,
		Contract:       OptionAll,
		DataType:       DataAll,
	}
}

// Clone returns a deep copy of f.
func (f Filters) Clone() Filters {
	f.PackageType = slices.Clone(f.PackageType)
	return f
}

// Predicate returns a pure test for plans. The returned function does not
// observe later changes to f.
func (f Filters) Predicate() func(*models.Plan) bool {
	snapshot := f.Clone()
	return snapshot.Matches
}

// Matches reports whether p satisfies every active constraint in f.
func (f Filters) Matches(p *models.Plan) bool {
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.MinSpeed > 0 && p.SpeedDown < f.MinSpeed {
		return false
	}
	if active(string(f.ConnectionType)) && p.ConnectionType != f.ConnectionType {
		return false
	}
	if active(string(f.Contract)) && p.Contract != f.Contract {
		return false
	}
	switch f.DataType {
	case DataUnlimited:
		if !p.Unlimited() {
			return false
		}
	case DataCapped:
		if p.Unlimited() {
			return false
		}
	}
	if floor, ok := BucketMin(f.SpeedRange); ok && p.SpeedDown < floor {
		return false
	}
	return f.matchesPackage(p)
}

// matchesPackage applies union semantics over the selected package types.
// Every plan is broadband, so any selection that includes broadband passes all.
func (f Filters) matchesPackage(p *models.Plan) bool {
	if len(f.PackageType) == 0 {
		return true
	}
	for _, pkg := range f.PackageType {
		if pkg != PackageBroadbandTV {
			return true
		}
		if p.HasTVBundle() {
			return true
		}
	}
	return false
}

func active(v string) bool {
	return v != "" && v != OptionAll
}

// Filter returns the plans matching f, preserving input order. The input is
// not modified.
func Filter(plans []models.Plan, f Filters) []models.Plan {
	match := f.Predicate()
	result := make([]models.Plan, 0, len(plans))
	for i := range plans {
		if match(&plans[i]) {
			result = append(result, plans[i])
		}
	}
	return result
}
