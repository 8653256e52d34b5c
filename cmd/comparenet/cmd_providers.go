package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/HerbHall/comparenet/internal/catalog"
	pkgcatalog "github.com/HerbHall/comparenet/pkg/catalog"
	"github.com/HerbHall/comparenet/pkg/models"
)

func newProvidersCmd(*app) *cobra.Command {
	var (
		connection string
		sortKey    string
		jsonOut    bool
	)
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List providers with their ratings and plan counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			listing, err := catalog.NewEngine(pkgcatalog.NewCatalog()).
				Providers(models.ConnectionType(connection), catalog.ProviderSortKey(sortKey))
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), listing)
			}
			return writeProviders(cmd.OutOrStdout(), listing)
		},
	}
	cmd.Flags().StringVar(&connection, "connection", "all", "only providers offering this connection type")
	cmd.Flags().StringVar(&sortKey, "sort", string(catalog.ProviderSortRating), "sort: rating, price, name, plans")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the listing as JSON")
	return cmd
}

func writeProviders(w io.Writer, l catalog.ProviderListing) error {
	t := newTable("Provider", "Rating", "Plans", "From", "Max speed", "Coverage")
	for i := range l.Providers {
		p := &l.Providers[i]
		t.Row(
			p.Name,
			models.FormatRating(p.Rating),
			strconv.Itoa(p.TotalPlans),
			models.FormatPrice(p.MinPrice)+"/mo",
			models.FormatSpeed(p.MaxSpeed),
			p.Coverage,
		)
	}
	_, err := fmt.Fprintf(w, "%s\n%d of %d providers, average rating %s\n",
		t.Render(), l.Count, l.Stats.Providers, models.FormatRating(l.Stats.AverageRating))
	return err
}
