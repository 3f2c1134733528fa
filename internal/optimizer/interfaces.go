package optimizer

import "github.com/kosarica/basket-service/internal/catalog"

// Catalog is the read-only view the pricing functions need. A
// *catalog.Snapshot satisfies it; callers pass one in per computation.
type Catalog interface {
	// Store returns a store by ID.
	Store(id string) (catalog.Store, bool)

	// PriceEntry returns the entry for a (product, store) pair.
	PriceEntry(productID, storeID string) (catalog.PriceEntry, bool)

	// GetPriceEntries returns every entry for a product, in store order.
	GetPriceEntries(productID string) []catalog.PriceEntry
}

var _ Catalog = (*catalog.Snapshot)(nil)
