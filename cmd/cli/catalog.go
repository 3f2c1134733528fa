package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var productCategory string

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List catalog stores",
	Example: `  basket-service stores -f ./data/prices.csv
  basket-service stores --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		stores := snap.ListStores()
		if outputFormat == "json" {
			return printJSON(stores)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "ID\tName\tDistance\tLocation\n")
		fmt.Fprintf(w, "--\t----\t--------\t--------\n")
		for _, st := range stores {
			dist := "-"
			if st.DistanceKm != nil {
				dist = fmt.Sprintf("%.2f km", *st.DistanceKm)
			}
			loc := "-"
			if st.Location != nil {
				loc = fmt.Sprintf("%.5f,%.5f", st.Location.Latitude, st.Location.Longitude)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.ID, st.Name, dist, loc)
		}
		return w.Flush()
	},
}

var productsCmd = &cobra.Command{
	Use:     "products",
	Short:   "List catalog products",
	Example: `  basket-service products -f ./data/prices.csv --category dairy`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		products := snap.ListProducts(productCategory)
		if outputFormat == "json" {
			return printJSON(products)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "ID\tName\tBrand\tCategory\tBarcode\tStores\n")
		fmt.Fprintf(w, "--\t----\t-----\t--------\t-------\t------\n")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
				p.ID, p.Name, dash(p.Brand), dash(p.Category), dash(p.Barcode), len(snap.GetPriceEntries(p.ID)))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(storesCmd, productsCmd)
	productsCmd.Flags().StringVar(&productCategory, "category", "", "only list products in this category")
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
