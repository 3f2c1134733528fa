package optimizer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kosarica/basket-service/internal/catalog"
)

// mockCatalog is a mock implementation of Catalog for testing.
type mockCatalog struct {
	stores  map[string]catalog.Store
	order   []string
	entries map[string]map[string]catalog.PriceEntry // product -> store -> entry
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		stores:  make(map[string]catalog.Store),
		entries: make(map[string]map[string]catalog.PriceEntry),
	}
}

func (m *mockCatalog) Store(id string) (catalog.Store, bool) {
	s, ok := m.stores[id]
	return s, ok
}

func (m *mockCatalog) PriceEntry(productID, storeID string) (catalog.PriceEntry, bool) {
	e, ok := m.entries[productID][storeID]
	return e, ok
}

func (m *mockCatalog) GetPriceEntries(productID string) []catalog.PriceEntry {
	var out []catalog.PriceEntry
	for _, id := range m.order {
		if e, ok := m.entries[productID][id]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (m *mockCatalog) addStore(id string, distanceKm float64) catalog.Store {
	d := distanceKm
	s := catalog.Store{ID: id, Name: "Store " + id, DistanceKm: &d}
	m.stores[id] = s
	m.order = append(m.order, id)
	return s
}

func (m *mockCatalog) addStoreAt(id string, lat, lng float64) catalog.Store {
	s := catalog.Store{ID: id, Name: "Store " + id, Location: &catalog.Location{Latitude: lat, Longitude: lng}}
	m.stores[id] = s
	m.order = append(m.order, id)
	return s
}

func (m *mockCatalog) setPrice(productID, storeID, price string, promo *catalog.Promotion) {
	m.set(productID, storeID, price, promo, true)
}

func (m *mockCatalog) setUnavailable(productID, storeID, price string) {
	m.set(productID, storeID, price, nil, false)
}

func (m *mockCatalog) set(productID, storeID, price string, promo *catalog.Promotion, available bool) {
	if m.entries[productID] == nil {
		m.entries[productID] = make(map[string]catalog.PriceEntry)
	}
	m.entries[productID][storeID] = catalog.PriceEntry{
		ProductID: productID,
		StoreID:   storeID,
		Price:     decimal.RequireFromString(price),
		Promotion: promo,
		Available: available,
	}
}

func (m *mockCatalog) storeList() []catalog.Store {
	out := make([]catalog.Store, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.stores[id])
	}
	return out
}

func pct(v string) *catalog.Promotion {
	return &catalog.Promotion{Kind: catalog.PromotionPercentage, Value: decimal.RequireFromString(v)}
}

func fixed(v string) *catalog.Promotion {
	return &catalog.Promotion{Kind: catalog.PromotionFixed, Value: decimal.RequireFromString(v)}
}

func qty(v string) *catalog.Promotion {
	return &catalog.Promotion{Kind: catalog.PromotionQuantity, Value: decimal.RequireFromString(v)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}
