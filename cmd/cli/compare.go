package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kosarica/basket-service/internal/basket"
	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/geolocation"
	"github.com/kosarica/basket-service/internal/optimizer"
)

var (
	compareItems    []string
	compareStores   []string
	compareLat      float64
	compareLng      float64
	compareDenied   bool
	compareFallback float64
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a basket across stores",
	Long: `Price a basket at every store (or the --store subset), rank the stores by
grand total including round-trip transport, and show the cheapest split of
the basket across stores next to the best single store.

Items are given as productId=quantity; a bare productId means quantity 1.`,
	Example: `  basket-service compare -f ./data/prices.csv --item milk=2 --item bread
  basket-service compare --item milk=2 --lat 45.81 --lng 15.98 --output json`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringArrayVar(&compareItems, "item", nil, "basket line as productId=quantity (repeatable)")
	compareCmd.Flags().StringArrayVar(&compareStores, "store", nil, "restrict to these store IDs (repeatable)")
	compareCmd.Flags().Float64Var(&compareLat, "lat", 0, "shopper latitude")
	compareCmd.Flags().Float64Var(&compareLng, "lng", 0, "shopper longitude")
	compareCmd.Flags().BoolVar(&compareDenied, "denied", false, "treat location access as refused")
	compareCmd.Flags().Float64Var(&compareFallback, "fallback-km", -1, "distance to assume when a store's distance is unknown")
}

func parseItems(items []string) ([]basket.Line, error) {
	b := basket.New("cli")
	for _, item := range items {
		id, qtyStr, hasQty := strings.Cut(item, "=")
		qty := 1
		if hasQty {
			n, err := strconv.Atoi(strings.TrimSpace(qtyStr))
			if err != nil {
				return nil, fmt.Errorf("invalid quantity in %q", item)
			}
			qty = n
		}
		if err := b.Add(id, qty); err != nil {
			return nil, fmt.Errorf("item %q: %w", item, err)
		}
	}
	return b.Snapshot(), nil
}

// compareOrigin treats the position flags as a lookup made before the
// command ran: --lat/--lng is a fix, --denied a refusal, neither no fix.
func compareOrigin(cmd *cobra.Command) (optimizer.Origin, error) {
	fix, err := geolocation.Fix{}, geolocation.ErrUnavailable
	switch {
	case cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng"):
		fix, err = geolocation.Fix{Latitude: compareLat, Longitude: compareLng}, nil
		if !fix.Valid() {
			return optimizer.Origin{}, fmt.Errorf("coordinates out of range: %g,%g", compareLat, compareLng)
		}
	case compareDenied:
		err = geolocation.ErrPermissionDenied
	}
	o := geolocation.OriginFromFix(fix, err)
	if compareFallback >= 0 {
		o = o.WithFallback(compareFallback)
	}
	return optimizerConfig().ApplyFallback(o), nil
}

func selectStores(snap *catalog.Snapshot, ids []string) ([]catalog.Store, error) {
	if len(ids) == 0 {
		return snap.ListStores(), nil
	}
	out := make([]catalog.Store, 0, len(ids))
	for _, id := range ids {
		st, ok := snap.Store(id)
		if !ok {
			return nil, fmt.Errorf("unknown store %q", id)
		}
		out = append(out, st)
	}
	return out, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	lines, err := parseItems(compareItems)
	if err != nil {
		return err
	}
	snap, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	stores, err := selectStores(snap, compareStores)
	if err != nil {
		return err
	}

	conf := optimizerConfig()
	origin, err := compareOrigin(cmd)
	if err != nil {
		return err
	}
	req := &optimizer.Request{Lines: lines, Origin: origin}
	if err := req.Validate(conf.MaxBasketItems); err != nil {
		return err
	}
	cmp := optimizer.NewEngine(conf).Compare(snap, req, stores)

	if outputFormat == "json" {
		return printJSON(cmp)
	}
	outputComparisonTable(cmp)
	return nil
}

func outputComparisonTable(cmp optimizer.Comparison) {
	fmt.Println("\nStore Ranking")
	fmt.Println(strings.Repeat("-", 72))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "#\tStore\tSubtotal\tTransport\tTotal\tMissing\tPromos\n")
	for i, q := range cmp.Ranking.Quotes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\n",
			i+1, q.StoreName, q.Subtotal.StringFixed(2), transportLabel(q.Transport),
			q.GrandTotal.StringFixed(2), q.UnavailableCount, q.PromotionCount)
	}
	w.Flush()

	fmt.Println("\nOptimal Split")
	fmt.Println(strings.Repeat("-", 72))
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Store\tProduct\tQty\tUnit\tLine\n")
	for _, g := range cmp.Allocation.Groups {
		for _, a := range g.Assignments {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", g.StoreName, a.ProductID, a.Quantity, a.UnitPrice.StringFixed(2), a.LineTotal.StringFixed(2))
		}
		fmt.Fprintf(w, "%s\ttransport\t\t\t%s\n", g.StoreName, transportLabel(g.Transport))
	}
	w.Flush()
	for _, u := range cmp.Allocation.Unallocatable {
		fmt.Printf("Not available anywhere: %s x%d (%s)\n", u.ProductID, u.Quantity, u.Reason)
	}

	fmt.Println()
	fmt.Printf("Best single store: %s\n", cmp.BestSingleStoreTotal.StringFixed(2))
	fmt.Printf("Optimal split:     %s\n", cmp.OptimalTotal.StringFixed(2))
	fmt.Printf("Savings:           %s\n", cmp.SavingsDelta.StringFixed(2))
	if !cmp.Comparable {
		fmt.Println("Note: the best single store lacks items the split could buy; totals are not like for like.")
	}
}

func transportLabel(t optimizer.Transport) string {
	if !t.Known {
		return "unknown (" + string(t.Distance.Status) + ")"
	}
	label := t.Cost.StringFixed(2)
	if t.Degraded {
		label += " (est.)"
	}
	return label
}
