package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/HerbHall/comparenet/internal/catalog"
	pkgcatalog "github.com/HerbHall/comparenet/pkg/catalog"
	"github.com/HerbHall/comparenet/pkg/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

type plansFlags struct {
	address     string
	minPrice    string
	maxPrice    string
	minSpeed    string
	connection  string
	contract    string
	dataType    string
	speedRange  string
	packageType []string
	sort        string
	page        int
	pageSize    int
	jsonOut     bool
}

// query encodes the flags the same way the web UI encodes its filter state.
func (f *plansFlags) query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("address", f.address)
	set("minPrice", f.minPrice)
	set("maxPrice", f.maxPrice)
	set("minSpeed", f.minSpeed)
	set("connectionType", f.connection)
	set("contract", f.contract)
	set("dataType", f.dataType)
	set("speedRange", f.speedRange)
	set("sort", f.sort)
	for _, p := range f.packageType {
		q.Add("packageType", p)
	}
	if f.page > 0 {
		q.Set("page", strconv.Itoa(f.page))
	}
	return q
}

func newPlansCmd(a *app) *cobra.Command {
	f := &plansFlags{}
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Filter, sort and page through the plan catalog",
		Example: `  comparenet plans --connection fibre --sort speed-high
  comparenet plans --speed-range 300+ --package broadband-tv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			size := f.pageSize
			if size < 1 {
				size = a.cfg.GetInt("catalog.page_size")
			}
			v, err := catalog.ParseViewState(f.query(), size)
			if err != nil {
				return err
			}
			res, err := catalog.NewEngine(pkgcatalog.NewCatalog()).Search(v)
			if err != nil {
				return err
			}
			if f.jsonOut {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return writePlans(cmd.OutOrStdout(), res)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.address, "address", "", "address to search for")
	fl.StringVar(&f.minPrice, "min-price", "", "minimum monthly price (0 = no bound)")
	fl.StringVar(&f.maxPrice, "max-price", "", "maximum monthly price (0 = no bound)")
	fl.StringVar(&f.minSpeed, "min-speed", "", "minimum download speed in Mbps")
	fl.StringVar(&f.connection, "connection", "", "connection type, e.g. fibre, cable, \"fixed wireless\"")
	fl.StringVar(&f.contract, "contract", "", "contract: \"open term\", \"12 months\" or \"24 months\"")
	fl.StringVar(&f.dataType, "data", "", "data allowance: unlimited or capped")
	fl.StringVar(&f.speedRange, "speed-range", "", "speed bucket: 10+, 30+, 100+, 300+, 900+")
	fl.StringSliceVar(&f.packageType, "package", nil, "package type (repeatable): broadband, broadband-tv")
	fl.StringVar(&f.sort, "sort", "", "sort: price-low, price-high, speed-high, rating")
	fl.IntVar(&f.page, "page", 1, "page number")
	fl.IntVar(&f.pageSize, "page-size", 0, "plans per page (default catalog.page_size)")
	fl.BoolVar(&f.jsonOut, "json", false, "print the result page as JSON")
	return cmd
}

func writePlans(w io.Writer, res catalog.Result) error {
	if res.Empty {
		_, err := fmt.Fprintln(w, "No plans match these filters.")
		return err
	}
	t := newTable("ID", "Provider", "Plan", "Price", "Speed", "Data", "Contract", "Connection", "Rating")
	for i := range res.Plans {
		p := &res.Plans[i]
		t.Row(
			strconv.Itoa(p.ID),
			p.Provider,
			p.Name,
			models.FormatPrice(p.Price)+"/mo",
			models.FormatSpeed(p.SpeedDown)+" / "+models.FormatSpeed(p.SpeedUp),
			p.Data,
			models.ContractLabel(p.Contract),
			models.ConnectionTypeLabel(p.ConnectionType),
			models.FormatRating(p.Rating),
		)
	}
	_, err := fmt.Fprintf(w, "%s\nPage %d of %d (%d plans)\n", t.Render(), res.Page, res.TotalPages, res.Total)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
