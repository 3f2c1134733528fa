package optimizer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kosarica/basket-service/internal/catalog"
)

type winner struct {
	store catalog.Store
	unit  decimal.Decimal
	promo bool
}

// ComputeOptimalAllocation assigns each product to the store selling it
// cheapest among the given stores, then groups the assignments by store.
//
// Only available entries compete. On equal effective prices the store that
// comes first in the stores slice keeps the product. Each visited store is
// charged transport once, however many products it won. Products no store
// can supply are returned in Unallocatable rather than in any group.
func (e *Engine) ComputeOptimalAllocation(cat Catalog, req *Request, stores []catalog.Store) Allocation {
	startTime := time.Now()
	defer func() {
		e.metrics.RecordCalculationDuration("optimal", time.Since(startTime))
	}()

	lines := normalizeLines(req.Lines)
	stores = uniqueStores(stores)

	alloc := Allocation{
		Groups:         []OptimalStoreGroup{},
		Unallocatable:  []UnallocatableItem{},
		GoodsTotal:     decimal.Zero,
		TransportTotal: decimal.Zero,
		Total:          decimal.Zero,
		TransportKnown: true,
	}
	if len(lines) == 0 {
		return alloc
	}

	storePos := make(map[string]int, len(stores))
	for i, s := range stores {
		storePos[s.ID] = i
	}
	groups := make(map[string]*OptimalStoreGroup)

	for _, line := range lines {
		var best *winner
		listed := false
		for _, s := range stores {
			entry, ok := cat.PriceEntry(line.ProductID, s.ID)
			if !ok {
				continue
			}
			listed = true
			if !entry.Available {
				continue
			}
			unit := EffectiveUnitPrice(entry.Price, entry.Promotion)
			if best == nil || unit.LessThan(best.unit) {
				best = &winner{store: s, unit: unit, promo: entry.Promotion != nil}
			}
		}

		if best == nil {
			reason := ReasonNoEntries
			if listed {
				reason = ReasonNotAvailable
			}
			alloc.Unallocatable = append(alloc.Unallocatable, UnallocatableItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Reason:    reason,
			})
			continue
		}

		g, ok := groups[best.store.ID]
		if !ok {
			g = &OptimalStoreGroup{
				StoreID:     best.store.ID,
				StoreName:   best.store.Name,
				Assignments: []OptimalAssignment{},
				GoodsTotal:  decimal.Zero,
			}
			groups[best.store.ID] = g
		}
		lineTotal := best.unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		g.Assignments = append(g.Assignments, OptimalAssignment{
			ProductID: line.ProductID,
			StoreID:   best.store.ID,
			Quantity:  line.Quantity,
			UnitPrice: best.unit,
			LineTotal: lineTotal,
			Promotion: best.promo,
		})
		g.GoodsTotal = g.GoodsTotal.Add(lineTotal)
	}

	// Emit groups in store order so output does not depend on map iteration.
	for _, s := range stores {
		g, ok := groups[s.ID]
		if !ok {
			continue
		}
		g.Transport = e.transport.TransportFor(DistanceTo(s, req.Origin))
		if !g.Transport.Known {
			alloc.TransportKnown = false
			e.metrics.RecordUnknownTransport(g.Transport.Distance.Status)
		}
		g.Total = g.GoodsTotal.Add(g.Transport.Cost)

		alloc.GoodsTotal = alloc.GoodsTotal.Add(g.GoodsTotal)
		alloc.TransportTotal = alloc.TransportTotal.Add(g.Transport.Cost)
		alloc.Total = alloc.Total.Add(g.Total)
		alloc.Groups = append(alloc.Groups, *g)
	}

	e.metrics.RecordAllocation(len(alloc.Groups), len(alloc.Unallocatable))
	e.logger.Debug().
		Int("lines", len(lines)).
		Int("groups", len(alloc.Groups)).
		Int("unallocatable", len(alloc.Unallocatable)).
		Str("total", alloc.Total.String()).
		Msg("Optimal allocation computed")

	return alloc
}
