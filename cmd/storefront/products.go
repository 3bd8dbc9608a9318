package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/domain"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Fetch the catalog and run it through the listing filters",
	Example: `  storefront products --q shoe --sort price-low
  storefront products --min 500 --max 2000 --rating 4`,
	RunE: runProducts,
}

func init() {
	f := productsCmd.Flags()
	f.String("q", "", "search term matched against title and description")
	f.String("min", "", "minimum price")
	f.String("max", "", "maximum price")
	f.String("rating", "", "minimum rating")
	f.String("sort", "default", "default, price-low, price-high, rating or name")
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	client := api.New(cfg.APIBaseURL, cfg.APITimeout)

	all, err := client.Products(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch products: %w", err)
	}

	flags := cmd.Flags()
	crit := catalog.ParseCriteria(func(key string) string {
		v, _ := flags.GetString(key)
		return v
	})
	shown := catalog.Filter(all, crit)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRICE\tRATING\tSTOCK")
	for _, p := range shown {
		card := catalog.NewCard(p, "", catalog.VariantRow)
		stock := strconv.Itoa(p.Stocks)
		if b := card.Badge(); b != "" {
			stock = b
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n", p.ID, p.Title, domain.Money(p.Price), card.Rating, stock)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d products\n", len(shown), len(all))
	return nil
}
