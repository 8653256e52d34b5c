package models

import (
	"strings"
	"time"
)

// Provider is an internet service provider from the static catalog.
// TotalPlans, MinPrice and MaxSpeed are curated alongside the plan list and
// are not recomputed from it.
type Provider struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	Logo            string           `json:"logo,omitempty"`
	Rating          float64          `json:"rating"`
	TotalPlans      int              `json:"total_plans"`
	MinPrice        float64          `json:"min_price"`
	MaxSpeed        int              `json:"max_speed"`
	Coverage        string           `json:"coverage"`
	ConnectionTypes []ConnectionType `json:"connection_types"`
	Established     int              `json:"established"`
	CustomerService string           `json:"customer_service"`
	Description     string           `json:"description"`
}

// Slug returns the URL path segment for the provider.
func (p *Provider) Slug() string {
	return Slugify(p.Name)
}

// Supports reports whether the provider offers the given connection type.
func (p *Provider) Supports(ct ConnectionType) bool {
	for _, t := range p.ConnectionTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// Slugify lower-cases name and collapses whitespace runs into single hyphens.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Review is a customer review shown on the browse page.
type Review struct {
	ID       int      `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Rating   int      `json:"rating" yaml:"rating"`
	Author   string   `json:"author" yaml:"author"`
	Date     string   `json:"date" yaml:"date"`
	Content  string   `json:"content" yaml:"content"`
	Provider string   `json:"provider,omitempty" yaml:"provider"`
	Tags     []string `json:"tags,omitempty" yaml:"tags"`
}

// ReviewDateLayout is the layout of Review.Date.
const ReviewDateLayout = "2006-01-02"

// PublishedAt parses the review date. Unparseable dates yield the zero time.
func (r *Review) PublishedAt() time.Time {
	t, err := time.Parse(ReviewDateLayout, r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Deal is a hand-picked promotional offer.
type Deal struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Provider    string   `json:"provider" yaml:"provider"`
	Description string   `json:"description" yaml:"description"`
	Badge       string   `json:"badge" yaml:"badge"`
	Price       float64  `json:"price" yaml:"price"`
	Perks       []string `json:"perks" yaml:"perks"`
}
