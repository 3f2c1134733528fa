// Package recognition identifies catalog products from scanned input: a
// barcode or the text read off a shelf label.
package recognition

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/optimizer"
)

var (
	// ErrNotRecognized means the input matched no product.
	ErrNotRecognized = errors.New("product not recognized")
	// ErrAmbiguous means the input matched more than one product equally well.
	ErrAmbiguous = errors.New("ambiguous recognition")
	// ErrEmptyInput means there was nothing to recognize.
	ErrEmptyInput = errors.New("empty recognition input")
)

// Input is what a scan produced.
type Input struct {
	Barcode string `json:"barcode,omitempty"`
	Text    string `json:"text,omitempty"`
	StoreID string `json:"storeId,omitempty"` // Store the shopper is in, if known
}

// Result is a recognized product with the price that applies to it. Price
// is the effective unit price at StoreID, or the cheapest available price
// in the catalog when no store was given. It is null when nothing is for sale.
type Result struct {
	ProductID   string              `json:"productId"`
	ProductName string              `json:"productName"`
	Barcode     string              `json:"barcode,omitempty"`
	StoreID     string              `json:"storeId,omitempty"`
	Price       decimal.NullDecimal `json:"price"`
	Method      string              `json:"method"`
}

// Recognizer turns scan input into a product.
type Recognizer interface {
	Recognize(ctx context.Context, in Input) (*Result, error)
}

// SnapshotSource hands out the current catalog; *catalog.Provider satisfies it.
type SnapshotSource interface {
	Snapshot() (*catalog.Snapshot, error)
}

// StaticSource serves a fixed snapshot.
type StaticSource struct{ S *catalog.Snapshot }

// Snapshot implements SnapshotSource.
func (s StaticSource) Snapshot() (*catalog.Snapshot, error) {
	if s.S == nil {
		return nil, catalog.ErrNotLoaded
	}
	return s.S, nil
}

// BarcodeRecognizer looks barcodes up in the catalog.
type BarcodeRecognizer struct {
	source SnapshotSource
}

// NewBarcodeRecognizer creates a barcode recognizer.
func NewBarcodeRecognizer(source SnapshotSource) *BarcodeRecognizer {
	return &BarcodeRecognizer{source: source}
}

// Recognize implements Recognizer.
func (r *BarcodeRecognizer) Recognize(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.Barcode) == "" {
		return nil, ErrEmptyInput
	}
	snap, err := r.source.Snapshot()
	if err != nil {
		return nil, err
	}
	for _, code := range barcodeCandidates(in.Barcode) {
		if p, ok := snap.ProductByBarcode(code); ok {
			return priced(snap, p, in.StoreID, "barcode"), nil
		}
	}
	return nil, fmt.Errorf("%w: barcode %s", ErrNotRecognized, in.Barcode)
}

// TextRecognizer matches label text against product names and brands. The
// product whose name tokens are best covered by the text wins.
type TextRecognizer struct {
	source   SnapshotSource
	minScore float64
}

// NewTextRecognizer creates a text recognizer. minScore is the share of a
// product's name tokens that must appear in the text (0-1).
func NewTextRecognizer(source SnapshotSource, minScore float64) *TextRecognizer {
	if minScore <= 0 || minScore > 1 {
		minScore = 0.6
	}
	return &TextRecognizer{source: source, minScore: minScore}
}

// Recognize implements Recognizer.
func (r *TextRecognizer) Recognize(ctx context.Context, in Input) (*Result, error) {
	words := foldText(in.Text)
	if len(words) == 0 {
		return nil, ErrEmptyInput
	}
	snap, err := r.source.Snapshot()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(words))
	for _, w := range words {
		seen[w] = true
	}

	var (
		best      catalog.Product
		bestScore float64
		tied      bool
	)
	for _, p := range snap.ListProducts("") {
		tokens := foldText(p.Name)
		if len(tokens) == 0 {
			continue
		}
		hit := 0
		for _, tok := range tokens {
			if seen[tok] {
				hit++
			}
		}
		score := float64(hit) / float64(len(tokens))
		if p.Brand != "" {
			for _, tok := range foldText(p.Brand) {
				if seen[tok] {
					score += 0.01 // brand breaks ties between equally named products
					break
				}
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = p, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}

	if bestScore < r.minScore {
		return nil, fmt.Errorf("%w: %q", ErrNotRecognized, in.Text)
	}
	if tied {
		return nil, fmt.Errorf("%w: %q", ErrAmbiguous, in.Text)
	}
	return priced(snap, best, in.StoreID, "text"), nil
}

// Chain tries recognizers in order. Empty input and misses fall through to
// the next recognizer; any other error stops the chain.
type Chain []Recognizer

// Recognize implements Recognizer.
func (c Chain) Recognize(ctx context.Context, in Input) (*Result, error) {
	lastErr := ErrEmptyInput
	for _, r := range c {
		res, err := r.Recognize(ctx, in)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrEmptyInput) && !errors.Is(err, ErrNotRecognized) {
			return nil, err
		}
		if !errors.Is(err, ErrEmptyInput) || errors.Is(lastErr, ErrEmptyInput) {
			lastErr = err
		}
	}
	log.Debug().Str("barcode", in.Barcode).Str("text", in.Text).Msg("Scan not recognized")
	return nil, lastErr
}

func priced(snap *catalog.Snapshot, p catalog.Product, storeID, method string) *Result {
	res := &Result{
		ProductID:   p.ID,
		ProductName: p.Name,
		Barcode:     p.Barcode,
		Method:      method,
	}
	if storeID != "" {
		res.StoreID = storeID
		if e, ok := snap.PriceEntry(p.ID, storeID); ok && e.Available {
			res.Price = decimal.NewNullDecimal(optimizer.EffectiveUnitPrice(e.Price, e.Promotion))
		}
		return res
	}
	for _, e := range snap.GetPriceEntries(p.ID) {
		if !e.Available {
			continue
		}
		unit := optimizer.EffectiveUnitPrice(e.Price, e.Promotion)
		if !res.Price.Valid || unit.LessThan(res.Price.Decimal) {
			res.Price = decimal.NewNullDecimal(unit)
			res.StoreID = e.StoreID
		}
	}
	return res
}
