package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Grade is a nutritional or ecological score shown next to a product.
type Grade string

const (
	GradeUnknown Grade = ""
	GradeA       Grade = "A"
	GradeB       Grade = "B"
	GradeC       Grade = "C"
	GradeD       Grade = "D"
	GradeE       Grade = "E"
)

// ParseGrade parses a grade letter. Empty input yields GradeUnknown.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GradeUnknown, GradeA, GradeB, GradeC, GradeD, GradeE:
		return g, nil
	default:
		return GradeUnknown, fmt.Errorf("invalid grade %q", s)
	}
}

// Product is immutable reference data for a sellable item.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Brand      string `json:"brand,omitempty"`
	Category   string `json:"category,omitempty"`
	Barcode    string `json:"barcode,omitempty"` // EAN-13, EAN-8, etc.
	NutriGrade Grade  `json:"nutriGrade,omitempty"`
	EcoGrade   Grade  `json:"ecoGrade,omitempty"`
}

// Location is a WGS84 coordinate.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is inside the WGS84 range.
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Store is a physical shop that sells catalog products.
type Store struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Location     *Location         `json:"location,omitempty"`
	DistanceKm   *float64          `json:"distanceKm,omitempty"` // Precomputed distance from the user, if any
	OpeningHours string            `json:"openingHours,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// PromotionKind selects how a promotion changes a nominal price.
type PromotionKind string

const (
	PromotionPercentage PromotionKind = "percentage" // Value is a discount in percent (0-100)
	PromotionFixed      PromotionKind = "fixed"      // Value is subtracted from the price
	PromotionQuantity   PromotionKind = "quantity"   // "Buy N, get M free"; no unit-price effect
)

// ParsePromotionKind parses a promotion kind name.
func ParsePromotionKind(s string) (PromotionKind, error) {
	k := PromotionKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case PromotionPercentage, PromotionFixed, PromotionQuantity:
		return k, nil
	default:
		return "", fmt.Errorf("invalid promotion kind %q", s)
	}
}

// Promotion is a discount rule attached to a store's price for a product.
type Promotion struct {
	Kind       PromotionKind   `json:"kind"`
	Value      decimal.Decimal `json:"value"`
	ValidUntil time.Time       `json:"validUntil,omitempty"`
}

// PriceEntry is the price of one product at one store.
type PriceEntry struct {
	ProductID string          `json:"productId"`
	StoreID   string          `json:"storeId"`
	Price     decimal.Decimal `json:"price"`
	Promotion *Promotion      `json:"promotion,omitempty"`
	Available bool            `json:"available"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
