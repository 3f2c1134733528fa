package optimizer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kosarica/basket-service/internal/catalog"
)

// Compare returns the single-store ranking and the optimal split side by
// side. SavingsDelta is the best single store's grand total minus the sum
// of the optimal group totals; it is negative when one trip beats the split
// once transport is counted.
func (e *Engine) Compare(cat Catalog, req *Request, stores []catalog.Store) Comparison {
	startTime := time.Now()
	defer func() {
		e.metrics.RecordCalculationDuration("compare", time.Since(startTime))
	}()

	ranking := e.RankStores(cat, req, stores)
	alloc := e.ComputeOptimalAllocation(cat, req, stores)

	c := Comparison{
		Ranking:              ranking,
		Allocation:           alloc,
		BestSingleStoreTotal: decimal.Zero,
		OptimalTotal:         alloc.Total,
		SavingsDelta:         decimal.Zero,
	}
	if ranking.BestStore == nil {
		c.Comparable = len(alloc.Groups) == 0
		return c
	}

	c.BestSingleStoreTotal = ranking.BestStore.GrandTotal
	c.SavingsDelta = c.BestSingleStoreTotal.Sub(alloc.Total)
	c.Comparable = ranking.BestStore.UnavailableCount == len(alloc.Unallocatable)
	return c
}
