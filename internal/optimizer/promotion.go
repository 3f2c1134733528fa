package optimizer

import (
	"github.com/shopspring/decimal"

	"github.com/kosarica/basket-service/internal/catalog"
)

var hundred = decimal.NewFromInt(100)

// EffectiveUnitPrice applies a promotion to a nominal unit price.
//
// Percentage and fixed promotions never produce a negative price. Quantity
// promotions ("buy N get M") leave the unit price unchanged; their effect
// depends on the purchased quantity and is not modelled per unit. The
// promotion's deadline is not checked here.
func EffectiveUnitPrice(nominal decimal.Decimal, promo *catalog.Promotion) decimal.Decimal {
	if promo == nil {
		return nominal
	}
	switch promo.Kind {
	case catalog.PromotionPercentage:
		p := nominal.Mul(hundred.Sub(promo.Value)).Div(hundred)
		return nonNegative(p)
	case catalog.PromotionFixed:
		return nonNegative(nominal.Sub(promo.Value))
	default:
		return nominal
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
