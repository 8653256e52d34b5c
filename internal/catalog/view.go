package catalog

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/HerbHall/comparenet/pkg/models"
)

// ViewState is the complete, serializable input to a search. Results are
// always recomputed from it and never stored alongside it.
type ViewState struct {
	Address  string  `json:"address,omitempty"`
	Searched bool    `json:"searched"`
	Filters  Filters `json:"filters"`
	Sort     SortKey `json:"sort"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}

// NewViewState returns the state of a freshly mounted results view.
func NewViewState(pageSize int) ViewState {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return ViewState{
		Filters:  DefaultFilters(),
		Sort:     DefaultSort,
		Page:     1,
		PageSize: pageSize,
	}
}

// WithFilters replaces the filter configuration and returns to page 1.
func (v ViewState) WithFilters(f Filters) ViewState {
	v.Filters = f.Clone()
	v.Page = 1
	return v
}

// WithSort changes the ordering and keeps the current page index.
func (v ViewState) WithSort(key SortKey) ViewState {
	v.Sort = key
	return v
}

// WithPage moves to page. Range checks happen when the page is resolved.
func (v ViewState) WithPage(page int) ViewState {
	v.Page = page
	return v
}

// Search records an address search. A blank address leaves the view unsearched.
func (v ViewState) Search(address string) ViewState {
	address = strings.TrimSpace(address)
	if address == "" {
		return v
	}
	v.Address = address
	v.Searched = true
	return v
}

// ParseViewState builds a ViewState from URL query parameters. Unknown option
// values pass through and are ignored by the predicate; malformed numbers are
// rejected.
func ParseViewState(q url.Values, pageSize int) (ViewState, error) {
	v := NewViewState(pageSize)
	v = v.Search(q.Get("address"))

	f := DefaultFilters()
	var err error
	if f.MinPrice, err = parseFloat(q, "minPrice"); err != nil {
		return v, err
	}
	if f.MaxPrice, err = parseFloat(q, "maxPrice"); err != nil {
		return v, err
	}
	if f.MinSpeed, err = parseInt(q, "minSpeed"); err != nil {
		return v, err
	}
	if s := q.Get("connectionType"); s != "" {
		f.ConnectionType = models.ConnectionType(s)
	}
	if s := q.Get("contract"); s != "" {
		f.Contract = models.Contract(s)
	}
	if s := q.Get("dataType"); s != "" {
		f.DataType = DataType(s)
	}
	f.SpeedRange = q.Get("speedRange")
	for _, pkg := range q["packageType"] {
		if pkg != "" {
			f.PackageType = append(f.PackageType, PackageType(pkg))
		}
	}
	v = v.WithFilters(f)

	if s := q.Get("sort"); s != "" {
		v = v.WithSort(SortKey(s))
	}

	if q.Get("page") != "" {
		page, err := parseInt(q, "page")
		if err != nil {
			return v, err
		}
		v = v.WithPage(page)
	}
	return v, nil
}

func parseFloat(q url.Values, key string) (float64, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a non-negative number", key)
	}
	return f, nil
}

func parseInt(q url.Values, key string) (int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
