package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/basket-service/internal/basket"
)

func TestComputeOptimalAllocation_PicksCheapest(t *testing.T) {
	e := NewEngine(nil)
	cat := newMockCatalog()
	cat.addStore("S1", 1)
	cat.addStore("S2", 5)
	cat.setPrice("milk", "S1", "1.00", nil)
	cat.setPrice("milk", "S2", "1.20", nil)
	cat.setPrice("bread", "S1", "2.00", nil)
	cat.setPrice("bread", "S2", "2.00", fixed("0.50"))
	cat.setPrice("eggs", "S1", "3.00", nil)
	cat.setPrice("eggs", "S2", "3.50", pct("20"))

	req := &Request{Lines: []basket.Line{
		{ProductID: "milk", Quantity: 2},
		{ProductID: "bread", Quantity: 1},
		{ProductID: "eggs", Quantity: 1},
	}}
	a := e.ComputeOptimalAllocation(cat, req, cat.storeList())

	require.Len(t, a.Groups, 2)
	assert.Empty(t, a.Unallocatable)

	g1, ok := a.Group("S1")
	require.True(t, ok)
	require.Len(t, g1.Assignments, 1)
	assert.Equal(t, "milk", g1.Assignments[0].ProductID)
	assertDecimal(t, "2.00", g1.GoodsTotal)
	assertDecimal(t, "0.30", g1.Transport.Cost)
	assertDecimal(t, "2.30", g1.Total)

	g2, ok := a.Group("S2")
	require.True(t, ok)
	require.Len(t, g2.Assignments, 2)
	assert.Equal(t, "bread", g2.Assignments[0].ProductID)
	assertDecimal(t, "1.50", g2.Assignments[0].UnitPrice)
	assert.Equal(t, "eggs", g2.Assignments[1].ProductID)
	assertDecimal(t, "2.80", g2.Assignments[1].UnitPrice)
	assertDecimal(t, "4.30", g2.GoodsTotal)
	// transport charged once despite two products
	assertDecimal(t, "1.50", g2.Transport.Cost)
	assertDecimal(t, "5.80", g2.Total)

	assertDecimal(t, "6.30", a.GoodsTotal)
	assertDecimal(t, "1.80", a.TransportTotal)
	assertDecimal(t, "8.10", a.Total)
	assert.True(t, a.TransportKnown)
	assert.Len(t, a.ByStore(), 2)
}

func TestComputeOptimalAllocation_TieKeepsFirstStore(t *testing.T) {
	e := NewEngine(nil)
	cat := newMockCatalog()
	cat.addStore("B", 9)
	cat.addStore("A", 1)
	cat.setPrice("X", "B", "2.00", nil)
	cat.setPrice("X", "A", "2.50", fixed("0.50"))
	req := &Request{Lines: []basket.Line{{ProductID: "X", Quantity: 1}}}

	a := e.ComputeOptimalAllocation(cat, req, cat.storeList())
	require.Len(t, a.Groups, 1)
	assert.Equal(t, "B", a.Groups[0].StoreID)

	// reversing the store order flips the winner
	stores := cat.storeList()
	stores[0], stores[1] = stores[1], stores[0]
	a = e.ComputeOptimalAllocation(cat, req, stores)
	assert.Equal(t, "A", a.Groups[0].StoreID)
}

func TestComputeOptimalAllocation_SkipsUnavailable(t *testing.T) {
	e := NewEngine(nil)
	cat := twoStoreScenario()
	cat.setPrice("Y", "S1", "9.00", nil)
	cat.setUnavailable("Y", "S2", "0.01")
	req := &Request{Lines: []basket.Line{{ProductID: "Y", Quantity: 1}}}

	a := e.ComputeOptimalAllocation(cat, req, cat.storeList())
	require.Len(t, a.Groups, 1)
	assert.Equal(t, "S1", a.Groups[0].StoreID)
	assertDecimal(t, "9.00", a.Groups[0].Assignments[0].UnitPrice)
}

func TestComputeOptimalAllocation_Unallocatable(t *testing.T) {
	e := NewEngine(nil)
	cat := twoStoreScenario()
	cat.setUnavailable("Y", "S1", "1.00")
	cat.setUnavailable("Y", "S2", "1.00")
	req := &Request{Lines: []basket.Line{
		{ProductID: "X", Quantity: 1},
		{ProductID: "Y", Quantity: 2},
		{ProductID: "ghost", Quantity: 1},
	}}

	a := e.ComputeOptimalAllocation(cat, req, cat.storeList())
	require.Len(t, a.Unallocatable, 2)
	assert.Equal(t, UnallocatableItem{ProductID: "Y", Quantity: 2, Reason: ReasonNotAvailable}, a.Unallocatable[0])
	assert.Equal(t, UnallocatableItem{ProductID: "ghost", Quantity: 1, Reason: ReasonNoEntries}, a.Unallocatable[1])

	for _, g := range a.Groups {
		for _, as := range g.Assignments {
			assert.NotEqual(t, "Y", as.ProductID)
			assert.NotEqual(t, "ghost", as.ProductID)
		}
	}
}

func TestComputeOptimalAllocation_Empty(t *testing.T) {
	e := NewEngine(nil)
	cat := twoStoreScenario()

	a := e.ComputeOptimalAllocation(cat, &Request{}, cat.storeList())
	assert.Empty(t, a.Groups)
	assert.Empty(t, a.Unallocatable)
	assert.True(t, a.Total.IsZero())

	req := &Request{Lines: []basket.Line{{ProductID: "X", Quantity: 1}}}
	a = e.ComputeOptimalAllocation(cat, req, nil)
	assert.Empty(t, a.Groups)
	require.Len(t, a.Unallocatable, 1)
	assert.Equal(t, ReasonNoEntries, a.Unallocatable[0].Reason)
}

func TestComputeOptimalAllocation_RestrictedToGivenStores(t *testing.T) {
	e := NewEngine(nil)
	cat := twoStoreScenario()
	req := &Request{Lines: []basket.Line{{ProductID: "X", Quantity: 1}}}

	a := e.ComputeOptimalAllocation(cat, req, cat.storeList()[:1])
	require.Len(t, a.Groups, 1)
	assert.Equal(t, "S1", a.Groups[0].StoreID)
}

func TestComputeOptimalAllocation_UnknownTransport(t *testing.T) {
	e := NewEngine(nil)
	cat := newMockCatalog()
	cat.addStoreAt("S1", 45.80, 15.97)
	cat.setPrice("X", "S1", "2.00", nil)
	req := &Request{Lines: []basket.Line{{ProductID: "X", Quantity: 1}}}

	a := e.ComputeOptimalAllocation(cat, req, cat.storeList())
	require.Len(t, a.Groups, 1)
	assert.False(t, a.TransportKnown)
	assert.False(t, a.Groups[0].Transport.Known)
	assertDecimal(t, "2.00", a.Total)
}

func TestComputeOptimalAllocation_LineCountPreserved(t *testing.T) {
	e := NewEngine(nil)
	cat := twoStoreScenario()
	cat.setPrice("Y", "S2", "1.00", nil)
	cat.setUnavailable("Z", "S1", "1.00")
	req := &Request{Lines: []basket.Line{
		{ProductID: "X", Quantity: 1},
		{ProductID: "Y", Quantity: 1},
		{ProductID: "Z", Quantity: 1},
	}}

	a := e.ComputeOptimalAllocation(cat, req, cat.storeList())
	assigned := 0
	for _, g := range a.Groups {
		assigned += len(g.Assignments)
	}
	assert.Equal(t, len(req.Lines), assigned+len(a.Unallocatable))

	r := e.RankStores(cat, req, cat.storeList())
	for _, q := range r.Quotes {
		assert.Len(t, q.Lines, len(req.Lines))
	}
}
