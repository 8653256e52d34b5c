package testutil

import (
	"sync/atomic"

	"github.com/HerbHall/comparenet/pkg/models"
)

var nextID atomic.Int64

// PlanOption customizes a fixture plan.
type PlanOption func(*models.Plan)

// NewPlan returns a Plan with sensible defaults and a fresh ID, suitable for
// test fixtures. Options are applied in order.
func NewPlan(opts ...PlanOption) models.Plan {
	p := models.Plan{
		ID:             int(nextID.Add(1)) + 1000,
		Provider:       "Test ISP",
		Name:           "Test Fibre 100",
		Price:          69,
		SpeedDown:      100,
		SpeedUp:        20,
		Data:           models.DataUnlimited,
		ConnectionType: models.ConnectionFibre,
		Contract:       models.ContractOpenTerm,
		ModemIncluded:  true,
		Perks:          []string{},
		Rating:         4.0,
		Availability:   "Nationwide fibre areas",
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithID sets the plan ID.
func WithID(id int) PlanOption {
	return func(p *models.Plan) { p.ID = id }
}

// WithName sets the plan name.
func WithName(name string) PlanOption {
	return func(p *models.Plan) { p.Name = name }
}

// WithProvider sets the provider name.
func WithProvider(name string) PlanOption {
	return func(p *models.Plan) { p.Provider = name }
}

// WithPrice sets the monthly price.
func WithPrice(price float64) PlanOption {
	return func(p *models.Plan) { p.Price = price }
}

// WithSpeed sets the download and upload speeds in Mbps.
func WithSpeed(down, up int) PlanOption {
	return func(p *models.Plan) {
		p.SpeedDown = down
		p.SpeedUp = up
	}
}

// WithData sets the data allowance, e.g. "200GB" or models.DataUnlimited.
func WithData(data string) PlanOption {
	return func(p *models.Plan) { p.Data = data }
}

// WithConnection sets the connection type.
func WithConnection(ct models.ConnectionType) PlanOption {
	return func(p *models.Plan) { p.ConnectionType = ct }
}

// WithContract sets the contract term.
func WithContract(c models.Contract) PlanOption {
	return func(p *models.Plan) { p.Contract = c }
}

// WithPerks sets the perk list.
func WithPerks(perks ...string) PlanOption {
	return func(p *models.Plan) { p.Perks = perks }
}

// WithRating sets the plan rating.
func WithRating(r float64) PlanOption {
	return func(p *models.Plan) { p.Rating = r }
}

// PlansWithPrices returns one plan per price with IDs 1..n in input order.
func PlansWithPrices(prices ...float64) []models.Plan {
	plans := make([]models.Plan, len(prices))
	for i, price := range prices {
		plans[i] = NewPlan(WithID(i+1), WithPrice(price))
	}
	return plans
}

// PlansWithSpeeds returns one plan per download speed with IDs 1..n in input
// order.
func PlansWithSpeeds(speeds ...int) []models.Plan {
	plans := make([]models.Plan, len(speeds))
	for i, s := range speeds {
		plans[i] = NewPlan(WithID(i+1), WithSpeed(s, s/5))
	}
	return plans
}

// PlanIDs returns the IDs of plans in order.
func PlanIDs(plans []models.Plan) []int {
	ids := make([]int, len(plans))
	for i := range plans {
		ids[i] = plans[i].ID
	}
	return ids
}

// NewProvider returns a Provider with sensible defaults. Override fields
// with the supplied functions.
func NewProvider(opts ...func(*models.Provider)) models.Provider {
	p := models.Provider{
		ID:              int(nextID.Add(1)) + 1000,
		Name:            "Test ISP",
		Rating:          4.0,
		TotalPlans:      1,
		MinPrice:        69,
		MaxSpeed:        100,
		Coverage:        "Nationwide",
		ConnectionTypes: []models.ConnectionType{models.ConnectionFibre},
		Established:     2010,
		CustomerService: "24/7 phone support",
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
