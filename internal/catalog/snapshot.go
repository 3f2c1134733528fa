package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrDuplicateStore      = errors.New("duplicate store")
	ErrDuplicateProduct    = errors.New("duplicate product")
	ErrDuplicateBarcode    = errors.New("duplicate barcode")
	ErrDuplicatePriceEntry = errors.New("duplicate price entry")
	ErrUnknownStore        = errors.New("unknown store")
	ErrUnknownProduct      = errors.New("unknown product")
	ErrNegativePrice       = errors.New("negative price")
)

type priceKey struct {
	productID string
	storeID   string
}

// Snapshot is an immutable, read-only view of stores, products and prices.
// It is built once and shared by every pricing call; nothing mutates it after
// NewSnapshot returns.
type Snapshot struct {
	stores       []Store
	storeIndex   map[string]int
	products     []Product
	productIndex map[string]int
	barcodes     map[string]string // barcode -> productID

	// entries holds each product's price entries in store order.
	entries map[string][]PriceEntry
	lookup  map[priceKey]PriceEntry

	builtAt     time.Time
	fingerprint string
}

// NewSnapshot validates the records and builds a snapshot. Store order is
// kept as given and defines iteration order for ranking and allocation.
func NewSnapshot(stores []Store, products []Product, entries []PriceEntry) (*Snapshot, error) {
	s := &Snapshot{
		stores:       make([]Store, 0, len(stores)),
		storeIndex:   make(map[string]int, len(stores)),
		products:     make([]Product, 0, len(products)),
		productIndex: make(map[string]int, len(products)),
		barcodes:     make(map[string]string),
		entries:      make(map[string][]PriceEntry),
		lookup:       make(map[priceKey]PriceEntry, len(entries)),
		builtAt:      time.Now(),
	}

	for _, st := range stores {
		if st.ID == "" {
			return nil, fmt.Errorf("store %q: empty id", st.Name)
		}
		if _, ok := s.storeIndex[st.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStore, st.ID)
		}
		s.storeIndex[st.ID] = len(s.stores)
		s.stores = append(s.stores, st)
	}

	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q: empty id", p.Name)
		}
		if _, ok := s.productIndex[p.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		if p.Barcode != "" {
			if other, ok := s.barcodes[p.Barcode]; ok {
				return nil, fmt.Errorf("%w: %s used by %s and %s", ErrDuplicateBarcode, p.Barcode, other, p.ID)
			}
			s.barcodes[p.Barcode] = p.ID
		}
		s.productIndex[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}

	for _, e := range entries {
		if _, ok := s.productIndex[e.ProductID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, e.ProductID)
		}
		if _, ok := s.storeIndex[e.StoreID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStore, e.StoreID)
		}
		if e.Price.IsNegative() {
			return nil, fmt.Errorf("%w: product %s at store %s", ErrNegativePrice, e.ProductID, e.StoreID)
		}
		key := priceKey{productID: e.ProductID, storeID: e.StoreID}
		if _, ok := s.lookup[key]; ok {
			return nil, fmt.Errorf("%w: product %s at store %s", ErrDuplicatePriceEntry, e.ProductID, e.StoreID)
		}
		s.lookup[key] = e
		s.entries[e.ProductID] = append(s.entries[e.ProductID], e)
	}

	// Entries are kept in store order, independent of input order.
	for _, list := range s.entries {
		sort.SliceStable(list, func(i, j int) bool {
			return s.storeIndex[list[i].StoreID] < s.storeIndex[list[j].StoreID]
		})
	}
	s.fingerprint = ComputeFingerprint(entries)

	return s, nil
}

// ListStores returns all stores in catalog order.
func (s *Snapshot) ListStores() []Store {
	out := make([]Store, len(s.stores))
	copy(out, s.stores)
	return out
}

// ListProducts returns products, optionally filtered by category
// (case-insensitive). An empty category returns every product.
func (s *Snapshot) ListProducts(category string) []Product {
	category = strings.TrimSpace(category)
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if category == "" || strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// GetPriceEntries returns all price entries for a product in store order,
// including unavailable ones.
func (s *Snapshot) GetPriceEntries(productID string) []PriceEntry {
	src := s.entries[productID]
	out := make([]PriceEntry, len(src))
	copy(out, src)
	return out
}

// Store returns the store with the given ID.
func (s *Snapshot) Store(id string) (Store, bool) {
	i, ok := s.storeIndex[id]
	if !ok {
		return Store{}, false
	}
	return s.stores[i], true
}

// Product returns the product with the given ID.
func (s *Snapshot) Product(id string) (Product, bool) {
	i, ok := s.productIndex[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// ProductByBarcode looks a product up by its unique barcode.
func (s *Snapshot) ProductByBarcode(barcode string) (Product, bool) {
	id, ok := s.barcodes[strings.TrimSpace(barcode)]
	if !ok {
		return Product{}, false
	}
	return s.Product(id)
}

// PriceEntry returns the entry for (productID, storeID), if one exists.
func (s *Snapshot) PriceEntry(productID, storeID string) (PriceEntry, bool) {
	e, ok := s.lookup[priceKey{productID: productID, storeID: storeID}]
	return e, ok
}

// Categories returns the distinct product categories in first-seen order.
func (s *Snapshot) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.products {
		if p.Category == "" || seen[strings.ToLower(p.Category)] {
			continue
		}
		seen[strings.ToLower(p.Category)] = true
		out = append(out, p.Category)
	}
	return out
}

// Stats summarises snapshot size for logging and health output.
type Stats struct {
	StoreCount   int       `json:"storeCount"`
	ProductCount int       `json:"productCount"`
	EntryCount   int       `json:"entryCount"`
	BuiltAt      time.Time `json:"builtAt"`
	Fingerprint  string    `json:"fingerprint"`
}

// Stats returns the snapshot's record counts.
func (s *Snapshot) Stats() Stats {
	return Stats{
		StoreCount:   len(s.stores),
		ProductCount: len(s.products),
		EntryCount:   len(s.lookup),
		BuiltAt:      s.builtAt,
		Fingerprint:  s.fingerprint,
	}
}
