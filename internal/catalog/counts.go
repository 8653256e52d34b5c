package catalog

import (
	"slices"

	"github.com/HerbHall/comparenet/pkg/models"
)

// Dimension names a filter dimension that offers discrete options.
type Dimension string

const (
	DimensionSpeedRange     Dimension = "speedRange"
	DimensionPackageType    Dimension = "packageType"
	DimensionConnectionType Dimension = "connectionType"
	DimensionContract       Dimension = "contract"
	DimensionDataType       Dimension = "dataType"
)

// OptionCount is the prospective result size for one filter option.
type OptionCount struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

// Counts groups prospective counts for the sidebar filter options.
type Counts struct {
	SpeedRange     []OptionCount `json:"speedRange"`
	PackageType    []OptionCount `json:"packageType"`
	ConnectionType []OptionCount `json:"connectionType"`
}

// With returns a copy of f with value selected on dim. Single-select
// dimensions are replaced; the package set gains value if it is not already
// present. Unknown dimensions return an unchanged copy.
func (f Filters) With(dim Dimension, value string) Filters {
	out := f.Clone()
	switch dim {
	case DimensionSpeedRange:
		out.SpeedRange = value
	case DimensionPackageType:
		pkg := PackageType(value)
		if !slices.Contains(out.PackageType, pkg) {
			out.PackageType = append(out.PackageType, pkg)
		}
	case DimensionConnectionType:
		out.ConnectionType = models.ConnectionType(value)
	case DimensionContract:
		out.Contract = models.Contract(value)
	case DimensionDataType:
		out.DataType = DataType(value)
	}
	return out
}

// ProspectiveCount returns how many plans would match if value were selected
// on dim in addition to base. base is not modified.
func ProspectiveCount(plans []models.Plan, base Filters, dim Dimension, value string) int {
	match := base.With(dim, value).Predicate()
	n := 0
	for i := range plans {
		if match(&plans[i]) {
			n++
		}
	}
	return n
}

// SpeedBucketCounts returns a prospective count for every speed bucket.
func SpeedBucketCounts(plans []models.Plan, base Filters) []OptionCount {
	out := make([]OptionCount, 0, len(SpeedBuckets))
	for _, b := range SpeedBuckets {
		out = append(out, OptionCount{
			Value: b.Key,
			Label: b.Label,
			Count: ProspectiveCount(plans, base, DimensionSpeedRange, b.Key),
		})
	}
	return out
}

// PackageCounts returns a prospective count for every package type.
func PackageCounts(plans []models.Plan, base Filters) []OptionCount {
	out := make([]OptionCount, 0, len(PackageTypes))
	for _, pkg := range PackageTypes {
		out = append(out, OptionCount{
			Value: string(pkg),
			Count: ProspectiveCount(plans, base, DimensionPackageType, string(pkg)),
		})
	}
	return out
}

// sidebarConnectionTypes are the connection options offered in the sidebar.
var sidebarConnectionTypes = []models.ConnectionType{
	models.ConnectionFibre,
	models.ConnectionFixedWireless,
	models.ConnectionCable,
}

// ConnectionTypeCounts returns a prospective count for "all" and each
// sidebar connection type.
func ConnectionTypeCounts(plans []models.Plan, base Filters) []OptionCount {
	out := make([]OptionCount, 0, len(sidebarConnectionTypes)+1)
	out = append(out, OptionCount{
		Value: OptionAll,
		Label: "All",
		Count: ProspectiveCount(plans, base, DimensionConnectionType, OptionAll),
	})
	for _, ct := range sidebarConnectionTypes {
		out = append(out, OptionCount{
			Value: string(ct),
			Label: models.ConnectionTypeLabel(ct),
			Count: ProspectiveCount(plans, base, DimensionConnectionType, string(ct)),
		})
	}
	return out
}

// AllCounts computes every sidebar option count for base.
func AllCounts(plans []models.Plan, base Filters) Counts {
	return Counts{
		SpeedRange:     SpeedBucketCounts(plans, base),
		PackageType:    PackageCounts(plans, base),
		ConnectionType: ConnectionTypeCounts(plans, base),
	}
}
