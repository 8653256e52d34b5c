// Package reviews implements search, filtering and ordering over the
// embedded customer reviews.
package reviews

import (
	"cmp"
	"slices"
	"strings"

	"github.com/HerbHall/comparenet/pkg/models"
)

// AllProviders is the provider filter value that matches every review.
const AllProviders = "all"

// SortKey orders a review listing.
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortRatingHigh SortKey = "rating-high"
	SortRatingLow  SortKey = "rating-low"
)

// Query selects and orders reviews. Rating 0 and Provider "" or "all" mean no
// constraint.
type Query struct {
	Text     string  `json:"q,omitempty"`
	Rating   int     `json:"rating,omitempty"`
	Provider string  `json:"provider,omitempty"`
	Sort     SortKey `json:"sort"`
}

// Matches reports whether r satisfies every constraint in q.
func (q Query) Matches(r *models.Review) bool {
	if q.Rating != 0 && r.Rating != q.Rating {
		return false
	}
	if q.Provider != "" && q.Provider != AllProviders && r.Provider != q.Provider {
		return false
	}
	return matchesText(r, q.Text)
}

func matchesText(r *models.Review, text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	fields := []string{r.Title, r.Content, r.Author, r.Provider}
	fields = append(fields, r.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Browse returns the reviews matching q, ordered by q.Sort. An empty sort key
// means newest first; an unknown one keeps input order. The input is not
// modified.
func Browse(all []models.Review, q Query) []models.Review {
	out := make([]models.Review, 0, len(all))
	for i := range all {
		if q.Matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	return Sort(out, q.Sort)
}

// Sort returns a sorted copy of reviews, ties broken by ID.
func Sort(reviews []models.Review, key SortKey) []models.Review {
	out := slices.Clone(reviews)
	var compare func(a, b *models.Review) int
	switch key {
	case SortNewest, "":
		compare = func(a, b *models.Review) int { return b.PublishedAt().Compare(a.PublishedAt()) }
	case SortOldest:
		compare = func(a, b *models.Review) int { return a.PublishedAt().Compare(b.PublishedAt()) }
	case SortRatingHigh:
		compare = func(a, b *models.Review) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortRatingLow:
		compare = func(a, b *models.Review) int { return cmp.Compare(a.Rating, b.Rating) }
	default:
		return out
	}
	slices.SortFunc(out, func(a, b models.Review) int {
		if c := compare(&a, &b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Providers lists the distinct review providers in first-seen order, led by
// AllProviders.
func Providers(all []models.Review) []string {
	out := []string{AllProviders}
	for i := range all {
		p := all[i].Provider
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// Summary is the aggregate shown above a review listing.
type Summary struct {
	Count         int         `json:"count"`
	AverageRating float64     `json:"average_rating"`
	Distribution  map[int]int `json:"distribution"`
}

// Summarize counts reviews per star rating.
func Summarize(reviews []models.Review) Summary {
	s := Summary{Count: len(reviews), Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(reviews) == 0 {
		return s
	}
	total := 0
	for i := range reviews {
		total += reviews[i].Rating
		s.Distribution[reviews[i].Rating]++
	}
	s.AverageRating = float64(total) / float64(len(reviews))
	return s
}
