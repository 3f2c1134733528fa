package optimizer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kosarica/basket-service/internal/basket"
)

// Request is a basket to price plus where the shopper is.
type Request struct {
	Lines  []basket.Line // Desired products, at most one line per product
	Origin Origin        // Shopper position; zero value means unresolved
}

// LineStatus says why a quote line was or was not priced.
type LineStatus string

const (
	LineAvailable   LineStatus = "available"
	LineMissing     LineStatus = "missing"     // store has no price entry for the product
	LineUnavailable LineStatus = "unavailable" // entry exists but is flagged out of stock
)

// QuoteLine is one basket line priced at one store.
type QuoteLine struct {
	ProductID string              `json:"productId"`
	Quantity  int                 `json:"quantity"`
	Status    LineStatus          `json:"status"`
	Available bool                `json:"available"`
	BasePrice decimal.NullDecimal `json:"basePrice"`
	UnitPrice decimal.NullDecimal `json:"unitPrice"` // null when not available
	LineTotal decimal.Decimal     `json:"lineTotal"`
	Promotion bool                `json:"promotion"`
	PromoKind string              `json:"promoKind,omitempty"`
}

// StoreQuote is the full priced basket for one store, including transport.
type StoreQuote struct {
	StoreID          string          `json:"storeId"`
	StoreName        string          `json:"storeName"`
	Lines            []QuoteLine     `json:"lines"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Transport        Transport       `json:"transport"`
	GrandTotal       decimal.Decimal `json:"grandTotal"`
	UnavailableCount int             `json:"unavailableCount"`
	PromotionCount   int             `json:"promotionCount"`
}

// Ranking is the single-store view: quotes sorted by grand total.
type Ranking struct {
	Quotes     []StoreQuote    `json:"quotes"`
	BestStore  *StoreQuote     `json:"bestStore,omitempty"`
	MaxSavings decimal.Decimal `json:"maxSavings"`
}

// OptimalAssignment is one product placed at its cheapest store.
type OptimalAssignment struct {
	ProductID string          `json:"productId"`
	StoreID   string          `json:"storeId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Promotion bool            `json:"promotion"`
}

// OptimalStoreGroup gathers the assignments won by one store. Transport is
// charged once per group.
type OptimalStoreGroup struct {
	StoreID     string              `json:"storeId"`
	StoreName   string              `json:"storeName"`
	Assignments []OptimalAssignment `json:"assignments"`
	GoodsTotal  decimal.Decimal     `json:"goodsTotal"`
	Transport   Transport           `json:"transport"`
	Total       decimal.Decimal     `json:"total"`
}

// UnallocatableReason says why a product could not be placed.
type UnallocatableReason string

const (
	ReasonNoEntries    UnallocatableReason = "no_entries"    // no store lists the product
	ReasonNotAvailable UnallocatableReason = "not_available" // listed but out of stock everywhere
)

// UnallocatableItem is a basket line no considered store can supply.
type UnallocatableItem struct {
	ProductID string              `json:"productId"`
	Quantity  int                 `json:"quantity"`
	Reason    UnallocatableReason `json:"reason"`
}

// Allocation is the cross-store view.
type Allocation struct {
	Groups         []OptimalStoreGroup `json:"groups"`
	Unallocatable  []UnallocatableItem `json:"unallocatable"`
	GoodsTotal     decimal.Decimal     `json:"goodsTotal"`
	TransportTotal decimal.Decimal     `json:"transportTotal"`
	Total          decimal.Decimal     `json:"total"`
	TransportKnown bool                `json:"transportKnown"`
}

// Group returns the group for a store, if that store won any product.
func (a Allocation) Group(storeID string) (OptimalStoreGroup, bool) {
	for _, g := range a.Groups {
		if g.StoreID == storeID {
			return g, true
		}
	}
	return OptimalStoreGroup{}, false
}

// ByStore returns the groups keyed by store ID.
func (a Allocation) ByStore() map[string]OptimalStoreGroup {
	out := make(map[string]OptimalStoreGroup, len(a.Groups))
	for _, g := range a.Groups {
		out[g.StoreID] = g
	}
	return out
}

// Comparison puts the best single store next to the optimal split.
type Comparison struct {
	Ranking              Ranking         `json:"ranking"`
	Allocation           Allocation      `json:"allocation"`
	BestSingleStoreTotal decimal.Decimal `json:"bestSingleStoreTotal"`
	OptimalTotal         decimal.Decimal `json:"optimalTotal"`
	SavingsDelta         decimal.Decimal `json:"savingsDelta"`
	// Comparable is true when the best single store stocks every product
	// the optimal split could place, so both totals buy the same goods.
	Comparable bool `json:"comparable"`
}

// Validate validates the request against a maximum basket size. An empty
// basket is valid and prices to an empty ranking.
func (r *Request) Validate(maxItems int) error {
	if maxItems > 0 && len(r.Lines) > maxItems {
		return ErrInvalidRequest{Field: "lines", Reason: "exceeds maximum allowed", Index: -1}
	}
	if err := basket.ValidateLines(r.Lines); err != nil {
		return ErrInvalidRequest{Field: "lines", Reason: err.Error(), Index: -1}
	}
	if r.Origin.Status == OriginResolved && !r.Origin.Point.Valid() {
		return ErrInvalidRequest{Field: "origin", Reason: "latitude must be in [-90,90] and longitude in [-180,180]", Index: -1}
	}
	if r.Origin.FallbackKm != nil && *r.Origin.FallbackKm < 0 {
		return ErrInvalidRequest{Field: "origin.fallbackKm", Reason: "must be non-negative", Index: -1}
	}
	return nil
}

// ErrInvalidRequest is returned when a request is invalid.
type ErrInvalidRequest struct {
	Field  string
	Reason string
	Index  int
}

func (e ErrInvalidRequest) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s[%d]: %s", e.Field, e.Index, e.Reason)
	}
	return e.Field + ": " + e.Reason
}
