package catalog

import (
	"errors"

	pkgcatalog "github.com/HerbHall/comparenet/pkg/catalog"
	"github.com/HerbHall/comparenet/pkg/models"
)

// Sentinel errors returned by the engine.
var (
	ErrPageOutOfRange = errors.New("page out of range")
	ErrNotFound       = errors.New("not found")
)

// Result is one computed page of search results.
type Result struct {
	Address    string        `json:"address,omitempty"`
	Searched   bool          `json:"searched"`
	Filters    Filters       `json:"filters"`
	Sort       SortKey       `json:"sort"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total"`
	Empty      bool          `json:"empty"`
	Pages      []int         `json:"pages"`
	Plans      []models.Plan `json:"plans"`
}

// ProviderDetail is a provider together with its catalog plans.
type ProviderDetail struct {
	Provider models.Provider `json:"provider"`
	Plans    []models.Plan   `json:"plans"`
}

// ProviderListing is the filtered, sorted provider list with summary stats.
type ProviderListing struct {
	Stats     ProviderStats     `json:"stats"`
	Count     int               `json:"count"`
	Providers []models.Provider `json:"providers"`
}

// Engine runs the search pipeline over a catalog.
type Engine struct {
	cat *pkgcatalog.Catalog
}

// NewEngine creates a new search engine backed by the given catalog.
func NewEngine(cat *pkgcatalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Catalog returns the catalog the engine reads from.
func (e *Engine) Catalog() *pkgcatalog.Catalog {
	return e.cat
}

// Results returns every plan matching f, ordered by key.
func (e *Engine) Results(f Filters, key SortKey) ([]models.Plan, error) {
	plans, err := e.cat.Plans()
	if err != nil {
		return nil, err
	}
	return SortPlans(Filter(plans, f), key), nil
}

// Search resolves v to a page of results. A page outside 1..TotalPages
// returns ErrPageOutOfRange.
func (e *Engine) Search(v ViewState) (Result, error) {
	sorted, err := e.Results(v.Filters, v.Sort)
	if err != nil {
		return Result{}, err
	}

	size := v.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	total := TotalPages(len(sorted), size)
	if !ValidPage(v.Page, len(sorted), size) {
		return Result{}, ErrPageOutOfRange
	}

	return Result{
		Address:    v.Address,
		Searched:   v.Searched,
		Filters:    v.Filters,
		Sort:       v.Sort,
		Page:       v.Page,
		PageSize:   size,
		TotalPages: total,
		Total:      len(sorted),
		Empty:      len(sorted) == 0,
		Pages:      PageWindow(v.Page, total),
		Plans:      Paginate(sorted, v.Page, size),
	}, nil
}

// Counts returns the prospective sidebar counts under base.
func (e *Engine) Counts(base Filters) (Counts, error) {
	plans, err := e.cat.Plans()
	if err != nil {
		return Counts{}, err
	}
	return AllCounts(plans, base), nil
}

// Plan returns a single plan by ID, or ErrNotFound.
func (e *Engine) Plan(id int) (models.Plan, error) {
	p, ok, err := e.cat.Plan(id)
	if err != nil {
		return models.Plan{}, err
	}
	if !ok {
		return models.Plan{}, ErrNotFound
	}
	return p, nil
}

// Providers lists providers offering connectionType, ordered by key.
func (e *Engine) Providers(connectionType models.ConnectionType, key ProviderSortKey) (ProviderListing, error) {
	all, err := e.cat.Providers()
	if err != nil {
		return ProviderListing{}, err
	}
	list := SortProviders(FilterProviders(all, connectionType), key)
	return ProviderListing{
		Stats:     Stats(all),
		Count:     len(list),
		Providers: list,
	}, nil
}

// Provider returns the provider whose slug matches, with its plans.
func (e *Engine) Provider(slug string) (ProviderDetail, error) {
	providers, err := e.cat.Providers()
	if err != nil {
		return ProviderDetail{}, err
	}
	for i := range providers {
		if providers[i].Slug() != slug {
			continue
		}
		plans, err := e.cat.Plans()
		if err != nil {
			return ProviderDetail{}, err
		}
		return ProviderDetail{
			Provider: providers[i],
			Plans:    PlansByProvider(plans, providers[i].Name),
		}, nil
	}
	return ProviderDetail{}, ErrNotFound
}
