package optimizer

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/kosarica/basket-service/internal/basket"
	"github.com/kosarica/basket-service/internal/catalog"
)

// Engine prices baskets against a catalog. It holds only configuration;
// every call is a function of its arguments, and the catalog is passed in
// per call so a caller can pin one snapshot for a whole computation.
type Engine struct {
	transport RoundTripPricing
	metrics   *MetricsRecorder
	logger    zerolog.Logger
}

// NewEngine creates a pricing engine. A nil config uses Defaults.
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = Defaults()
	}
	return &Engine{
		transport: config.RoundTrip(),
		metrics:   NewMetricsRecorder(),
		logger:    log.With().Str("component", "pricing_engine").Logger(),
	}
}

// Transport returns the engine's round-trip pricing model.
func (e *Engine) Transport() RoundTripPricing {
	return e.transport
}

// PriceBasketAtStore prices every basket line at one store. Lines the store
// does not stock, or stocks but has flagged unavailable, are reported with a
// null unit price and a zero line total and do not count towards the
// subtotal.
func (e *Engine) PriceBasketAtStore(cat Catalog, req *Request, storeID string) StoreQuote {
	startTime := time.Now()
	defer func() {
		e.metrics.RecordCalculationDuration("quote", time.Since(startTime))
	}()

	store, ok := cat.Store(storeID)
	if !ok {
		store = catalog.Store{ID: storeID}
	}
	return e.quote(cat, normalizeLines(req.Lines), req.Origin, store)
}

func (e *Engine) quote(cat Catalog, lines []basket.Line, origin Origin, store catalog.Store) StoreQuote {
	q := StoreQuote{
		StoreID:   store.ID,
		StoreName: store.Name,
		Lines:     make([]QuoteLine, 0, len(lines)),
		Subtotal:  decimal.Zero,
	}

	for _, line := range lines {
		ql := QuoteLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			LineTotal: decimal.Zero,
		}

		entry, found := cat.PriceEntry(line.ProductID, store.ID)
		switch {
		case !found:
			ql.Status = LineMissing
			q.UnavailableCount++
		case !entry.Available:
			ql.Status = LineUnavailable
			ql.BasePrice = decimal.NewNullDecimal(entry.Price)
			q.UnavailableCount++
		default:
			unit := EffectiveUnitPrice(entry.Price, entry.Promotion)
			ql.Status = LineAvailable
			ql.Available = true
			ql.BasePrice = decimal.NewNullDecimal(entry.Price)
			ql.UnitPrice = decimal.NewNullDecimal(unit)
			ql.LineTotal = unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
			if entry.Promotion != nil {
				ql.Promotion = true
				ql.PromoKind = string(entry.Promotion.Kind)
				q.PromotionCount++
			}
			q.Subtotal = q.Subtotal.Add(ql.LineTotal)
		}
		q.Lines = append(q.Lines, ql)
	}

	q.Transport = e.transport.TransportFor(DistanceTo(store, origin))
	if !q.Transport.Known {
		e.metrics.RecordUnknownTransport(q.Transport.Distance.Status)
	}
	q.GrandTotal = q.Subtotal.Add(q.Transport.Cost)
	return q
}

// RankStores prices the basket at every store and sorts the quotes by grand
// total, cheapest first. Equal totals keep the order stores were given in.
// An empty basket or store list yields an empty ranking.
func (e *Engine) RankStores(cat Catalog, req *Request, stores []catalog.Store) Ranking {
	startTime := time.Now()
	defer func() {
		e.metrics.RecordCalculationDuration("rank", time.Since(startTime))
	}()

	lines := normalizeLines(req.Lines)
	stores = uniqueStores(stores)
	ranking := Ranking{Quotes: []StoreQuote{}, MaxSavings: decimal.Zero}
	if len(lines) == 0 || len(stores) == 0 {
		return ranking
	}

	e.metrics.RecordBasketSize(len(lines))
	e.metrics.RecordStoreCount(len(stores))

	for _, s := range stores {
		ranking.Quotes = append(ranking.Quotes, e.quote(cat, lines, req.Origin, s))
	}

	sort.SliceStable(ranking.Quotes, func(i, j int) bool {
		return ranking.Quotes[i].GrandTotal.LessThan(ranking.Quotes[j].GrandTotal)
	})

	best := ranking.Quotes[0]
	ranking.BestStore = &best
	ranking.MaxSavings = ranking.Quotes[len(ranking.Quotes)-1].GrandTotal.Sub(best.GrandTotal)

	e.logger.Debug().
		Int("lines", len(lines)).
		Int("stores", len(stores)).
		Str("best_store", best.StoreID).
		Str("best_total", best.GrandTotal.String()).
		Str("max_savings", ranking.MaxSavings.String()).
		Msg("Stores ranked")

	return ranking
}

// normalizeLines drops lines with no product or a non-positive quantity and
// merges repeated products, keeping first-seen order.
func normalizeLines(lines []basket.Line) []basket.Line {
	out := make([]basket.Line, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			continue
		}
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

// uniqueStores drops repeated store IDs, keeping the first occurrence.
func uniqueStores(stores []catalog.Store) []catalog.Store {
	seen := make(map[string]bool, len(stores))
	out := make([]catalog.Store, 0, len(stores))
	for _, s := range stores {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}
