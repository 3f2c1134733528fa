// Package basket holds the shopping basket assembled by the list-building UI.
package basket

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrEmptyProductID is returned when a line has no product id.
	ErrEmptyProductID = errors.New("product id cannot be empty")
	// ErrLineNotFound is returned when a product is not in the basket.
	ErrLineNotFound = errors.New("product not in basket")
)

// Line is a desired product and its quantity.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Basket is an ordered collection of lines with at most one line per product.
type Basket struct {
	ID        string    `json:"id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns an empty basket.
func New(id string) *Basket {
	return &Basket{ID: id, Lines: []Line{}, UpdatedAt: time.Now().UTC()}
}

// FromLines builds a basket from raw lines, merging duplicates.
func FromLines(id string, lines []Line) (*Basket, error) {
	b := New(id)
	for _, l := range lines {
		if err := b.Add(l.ProductID, l.Quantity); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Add adds qty of a product. Adding a product already in the basket
// increments its quantity instead of creating a second line.
func (b *Basket) Add(productID string, qty int) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ErrEmptyProductID
	}
	if qty <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	b.UpdatedAt = time.Now().UTC()
	for i := range b.Lines {
		if b.Lines[i].ProductID == productID {
			b.Lines[i].Quantity += qty
			return nil
		}
	}
	b.Lines = append(b.Lines, Line{ProductID: productID, Quantity: qty})
	return nil
}

// SetQuantity replaces a product's quantity. A quantity of zero removes it.
func (b *Basket) SetQuantity(productID string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	if qty == 0 {
		return b.Remove(productID)
	}
	for i := range b.Lines {
		if b.Lines[i].ProductID == productID {
			b.Lines[i].Quantity = qty
			b.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLineNotFound, productID)
}

// Remove deletes a product's line.
func (b *Basket) Remove(productID string) error {
	for i := range b.Lines {
		if b.Lines[i].ProductID == productID {
			b.Lines = append(b.Lines[:i], b.Lines[i+1:]...)
			b.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLineNotFound, productID)
}

// Snapshot returns a copy of the lines, safe to hand to pricing code.
func (b *Basket) Snapshot() []Line {
	out := make([]Line, len(b.Lines))
	copy(out, b.Lines)
	return out
}

// Validate checks the basket invariants: positive quantities, non-empty
// product ids and no duplicate products.
func (b *Basket) Validate() error {
	return ValidateLines(b.Lines)
}

// ValidateLines checks raw lines against the basket invariants.
func ValidateLines(lines []Line) error {
	seen := make(map[string]bool, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l.ProductID) == "" {
			return fmt.Errorf("line %d: %w", i, ErrEmptyProductID)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("line %d: %w", i, ErrInvalidQuantity)
		}
		if seen[l.ProductID] {
			return fmt.Errorf("line %d: duplicate product %s", i, l.ProductID)
		}
		seen[l.ProductID] = true
	}
	return nil
}
