// Package advisor estimates the download speed a household needs from its
// daily usage.
package advisor

import (
	"fmt"
	"math"

	"github.com/HerbHall/comparenet/internal/catalog"
)

// Estimate bounds in Mbps.
const (
	MinEstimate = 50
	MaxEstimate = 900
)

// Usage describes a household's daily internet use.
type Usage struct {
	StreamingHours int `json:"streaming_hours"`
	GamingHours    int `json:"gaming_hours"`
	WorkHours      int `json:"work_hours"`
	Devices        int `json:"devices"`
}

// DefaultUsage is the starting point of the usage calculator.
var DefaultUsage = Usage{StreamingHours: 2, GamingHours: 1, WorkHours: 4, Devices: 3}

// ValidationError lists the out-of-range usage fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid usage: %d field(s) out of range", len(e.Fields))
}

// Validate checks each field against the calculator's slider ranges.
func (u Usage) Validate() error {
	fields := map[string]string{}
	check := func(name string, v, lo, hi int) {
		if v < lo || v > hi {
			fields[name] = fmt.Sprintf("must be between %d and %d", lo, hi)
		}
	}
	check("streaming_hours", u.StreamingHours, 0, 8)
	check("gaming_hours", u.GamingHours, 0, 6)
	check("work_hours", u.WorkHours, 0, 10)
	check("devices", u.Devices, 1, 20)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// EstimateSpeed returns the recommended download speed in Mbps, rounded to
// the nearest 10 and clamped to [MinEstimate, MaxEstimate].
func EstimateSpeed(u Usage) int {
	total := 50 + 25*u.StreamingHours + 10*u.GamingHours + 5*u.WorkHours + 5*u.Devices
	rounded := int(math.Round(float64(total)/10)) * 10
	return min(MaxEstimate, max(MinEstimate, rounded))
}

// Recommendation is an estimate with the speed bucket to filter plans by.
type Recommendation struct {
	Usage       Usage  `json:"usage"`
	SpeedMbps   int    `json:"speed_mbps"`
	SpeedLabel  string `json:"speed_label"`
	SpeedRange  string `json:"speed_range"`
	BucketLabel string `json:"bucket_label"`
}

// Recommend validates u and maps its estimate onto the highest speed bucket
// whose threshold it meets.
func Recommend(u Usage) (Recommendation, error) {
	if err := u.Validate(); err != nil {
		return Recommendation{}, err
	}
	speed := EstimateSpeed(u)
	rec := Recommendation{Usage: u, SpeedMbps: speed, SpeedLabel: fmt.Sprintf("%d Mbps", speed)}
	for _, b := range catalog.SpeedBuckets {
		if speed >= b.Min {
			rec.SpeedRange = b.Key
			rec.BucketLabel = b.Label
		}
	}
	return rec, nil
}
