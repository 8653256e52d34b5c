// Package catalog provides read-only access to the embedded plan, provider,
// review and deal fixtures.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/HerbHall/comparenet/pkg/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/plans.json data/providers.json data/reviews.yaml data/deals.yaml
var catalogFS embed.FS

// reviewsFile is the top-level structure of the embedded reviews YAML.
type reviewsFile struct {
	Reviews []models.Review `yaml:"reviews"`
}

// dealsFile is the top-level structure of the embedded deals YAML.
type dealsFile struct {
	Deals []models.Deal `yaml:"deals"`
}

// Catalog provides lazy-loaded access to the static catalog. It is never
// mutated after loading; every accessor returns a deep copy.
type Catalog struct {
	once      sync.Once
	plans     []models.Plan
	providers []models.Provider
	reviews   []models.Review
	deals     []models.Deal
	byID      map[int]int
	err       error
}

// NewCatalog creates a Catalog that will parse the embedded fixtures on first access.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// NewStatic creates a Catalog over the given records instead of the embedded
// fixtures. Reviews and deals are empty.
func NewStatic(plans []models.Plan, providers []models.Provider) *Catalog {
	c := &Catalog{}
	c.once.Do(func() {
		c.plans = plans
		c.providers = providers
		c.index()
	})
	return c
}

// Plans returns a copy of all plans in catalog order.
func (c *Catalog) Plans() ([]models.Plan, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	return cloneAll(c.plans, clonePlan), nil
}

// Plan returns the plan with the given ID.
func (c *Catalog) Plan(id int) (models.Plan, bool, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return models.Plan{}, false, c.err
	}
	i, ok := c.byID[id]
	if !ok {
		return models.Plan{}, false, nil
	}
	return clonePlan(c.plans[i]), true, nil
}

// Providers returns a copy of all providers in catalog order.
func (c *Catalog) Providers() ([]models.Provider, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	return cloneAll(c.providers, func(p models.Provider) models.Provider {
		p.ConnectionTypes = slices.Clone(p.ConnectionTypes)
		return p
	}), nil
}

// Reviews returns a copy of all reviews.
func (c *Catalog) Reviews() ([]models.Review, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	return cloneAll(c.reviews, func(r models.Review) models.Review {
		r.Tags = slices.Clone(r.Tags)
		return r
	}), nil
}

// Deals returns a copy of all deals.
func (c *Catalog) Deals() ([]models.Deal, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	return cloneAll(c.deals, func(d models.Deal) models.Deal {
		d.Perks = slices.Clone(d.Perks)
		return d
	}), nil
}

func clonePlan(p models.Plan) models.Plan {
	p.Perks = slices.Clone(p.Perks)
	return p
}

// cloneAll copies src and detaches each element's slices with clone.
func cloneAll[T any](src []T, clone func(T) T) []T {
	cp := make([]T, len(src))
	for i, v := range src {
		cp[i] = clone(v)
	}
	return cp
}

// load parses the embedded fixtures.
func (c *Catalog) load() {
	if err := decodeJSON("data/plans.json", &c.plans); err != nil {
		c.err = err
		return
	}
	if err := decodeJSON("data/providers.json", &c.providers); err != nil {
		c.err = err
		return
	}

	var rf reviewsFile
	if err := decodeYAML("data/reviews.yaml", &rf); err != nil {
		c.err = err
		return
	}
	c.reviews = rf.Reviews

	var df dealsFile
	if err := decodeYAML("data/deals.yaml", &df); err != nil {
		c.err = err
		return
	}
	c.deals = df.Deals

	c.index()
}

func (c *Catalog) index() {
	c.byID = make(map[int]int, len(c.plans))
	for i := range c.plans {
		c.byID[c.plans[i].ID] = i
	}
}

func decodeJSON(name string, v any) error {
	raw, err := catalogFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", name, err)
	}
	return nil
}

func decodeYAML(name string, v any) error {
	raw, err := catalogFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("catalog: parse yaml %s: %w", name, err)
	}
	return nil
}
