package compare

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/HerbHall/comparenet/pkg/models"
)

// Resolve returns the plans whose IDs are in ids, in catalog order. IDs no
// longer in the catalog are dropped.
func Resolve(plans []models.Plan, ids []int) []models.Plan {
	out := make([]models.Plan, 0, len(ids))
	for i := range plans {
		if slices.Contains(ids, plans[i].ID) {
			out = append(out, plans[i])
		}
	}
	return out
}

// Items projects the selected plans into compare tray summaries, in catalog
// order.
func Items(plans []models.Plan, ids []int) []models.ComparePlanItem {
	resolved := Resolve(plans, ids)
	out := make([]models.ComparePlanItem, len(resolved))
	for i := range resolved {
		out[i] = resolved[i].CompareItem()
	}
	return out
}

// Row is one labelled line of the side-by-side table, one value per plan.
type Row struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Status of a full comparison.
type Status string

const (
	StatusReady      Status = "ready"
	StatusSelectMore Status = "select_more"
)

// Comparison is the full side-by-side view. When fewer than two selected
// plans still resolve, Status is select_more and Plans and Rows are empty.
type Comparison struct {
	Status  Status        `json:"status"`
	Message string        `json:"message,omitempty"`
	Needed  int           `json:"needed,omitempty"`
	Plans   []models.Plan `json:"plans"`
	Rows    []Row         `json:"rows"`
}

// comparisonRows defines the comparison table top to bottom.
var comparisonRows = []struct {
	label string
	value func(p *models.Plan) string
}{
	{"Price", func(p *models.Plan) string { return models.FormatPrice(p.Price) + "/mo" }},
	{"Contract", func(p *models.Plan) string { return models.ContractLabel(p.Contract) }},
	{"Speed", func(p *models.Plan) string {
		return models.FormatSpeed(p.SpeedDown) + " / " + models.FormatSpeed(p.SpeedUp)
	}},
	{"Data", func(p *models.Plan) string { return p.Data }},
	{"Connection", func(p *models.Plan) string { return models.ConnectionTypeLabel(p.ConnectionType) }},
	{"Setup fee", func(p *models.Plan) string {
		if p.SetupFee > 0 {
			return models.FormatPrice(p.SetupFee)
		}
		return "None"
	}},
	{"Router", func(p *models.Plan) string {
		if p.ModemIncluded {
			return "Included"
		}
		return "BYO"
	}},
	{"Perks", func(p *models.Plan) string { return strings.Join(p.Perks, "; ") }},
	{"Availability", func(p *models.Plan) string { return p.Availability }},
	{"Rating", func(p *models.Plan) string { return models.FormatRating(p.Rating) }},
	{"Static IP", func(*models.Plan) string { return "Optional" }},
}

// Full builds the side-by-side comparison for ids.
func Full(plans []models.Plan, ids []int) Comparison {
	resolved := Resolve(plans, ids)
	if len(resolved) < MinForComparison {
		return Comparison{
			Status:  StatusSelectMore,
			Message: "Select two or more plans to view a full comparison.",
			Needed:  MinForComparison - len(resolved),
			Plans:   []models.Plan{},
			Rows:    []Row{},
		}
	}

	rows := make([]Row, 0, len(comparisonRows))
	for _, rs := range comparisonRows {
		values := make([]string, len(resolved))
		for i := range resolved {
			values[i] = rs.value(&resolved[i])
		}
		rows = append(rows, Row{Label: rs.label, Values: values})
	}
	return Comparison{Status: StatusReady, Plans: resolved, Rows: rows}
}

// WriteCSV writes c as a table with one column per plan. A comparison that
// is not ready has nothing to export and returns an error.
func WriteCSV(w io.Writer, c Comparison) error {
	if c.Status != StatusReady {
		return fmt.Errorf("export comparison: %s", c.Status)
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(c.Plans)+1)
	header = append(header, "")
	for i := range c.Plans {
		header = append(header, c.Plans[i].Provider+" "+c.Plans[i].Name)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range c.Rows {
		if err := cw.Write(append([]string{r.Label}, r.Values...)); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.Label, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
