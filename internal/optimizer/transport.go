package optimizer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundTripPricing prices a shopping trip to a store and back at a flat
// per-kilometre rate. It is the transport model used for basket quotes.
type RoundTripPricing struct {
	RatePerKm decimal.Decimal
	Legs      int64
}

// DefaultRoundTripPricing returns 0.15 per km, there and back.
func DefaultRoundTripPricing() RoundTripPricing {
	return RoundTripPricing{RatePerKm: decimal.RequireFromString("0.15"), Legs: 2}
}

// Cost returns km * rate * legs, rounded to cents.
func (p RoundTripPricing) Cost(km float64) decimal.Decimal {
	if km <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(km).Mul(p.RatePerKm).Mul(decimal.NewFromInt(p.Legs)).Round(2)
}

// Transport is the transport charge attached to a quote or group. When Known
// is false the distance could not be determined and Cost is zero; totals
// that include it understate the true cost.
type Transport struct {
	Distance Distance        `json:"distance"`
	Cost     decimal.Decimal `json:"cost"`
	Known    bool            `json:"known"`
	Degraded bool            `json:"degraded"` // priced from the fallback distance
}

// TransportFor prices a distance, carrying its status through.
func (p RoundTripPricing) TransportFor(d Distance) Transport {
	if !d.Known() {
		return Transport{Distance: d, Cost: decimal.Zero}
	}
	return Transport{
		Distance: d,
		Cost:     p.Cost(d.Km),
		Known:    true,
		Degraded: d.Status == DistanceFallback,
	}
}

// DeliveryPricing quotes a ride or delivery: a base fee plus a per-km
// rate plus an optional vehicle supplement, with platform commission on top.
type DeliveryPricing struct {
	BaseFee     decimal.Decimal
	PerKm       decimal.Decimal
	Commission  decimal.Decimal // fraction, 0.15 = 15%
	Supplements map[string]decimal.Decimal
}

// DefaultDeliveryPricing returns base 15, 0.60 per km and 15% commission.
func DefaultDeliveryPricing() DeliveryPricing {
	return DeliveryPricing{
		BaseFee:    decimal.NewFromInt(15),
		PerKm:      decimal.RequireFromString("0.60"),
		Commission: decimal.RequireFromString("0.15"),
		Supplements: map[string]decimal.Decimal{
			"standard": decimal.Zero,
			"xl":       decimal.NewFromInt(5),
			"van":      decimal.NewFromInt(10),
		},
	}
}

// DeliveryQuote itemises a delivery price.
type DeliveryQuote struct {
	DistanceKm  float64         `json:"distanceKm"`
	Vehicle     string          `json:"vehicle,omitempty"`
	BaseFee     decimal.Decimal `json:"baseFee"`
	DistanceFee decimal.Decimal `json:"distanceFee"`
	Supplement  decimal.Decimal `json:"supplement"`
	Commission  decimal.Decimal `json:"commission"`
	Total       decimal.Decimal `json:"total"`
}

// ErrUnknownVehicle is returned for a vehicle with no configured supplement.
type ErrUnknownVehicle struct {
	Vehicle string
}

func (e ErrUnknownVehicle) Error() string {
	return fmt.Sprintf("unknown vehicle %q", e.Vehicle)
}

// Quote returns (base + km*perKm + supplement) * (1 + commission), rounded
// to cents. An empty vehicle means no supplement.
func (p DeliveryPricing) Quote(km float64, vehicle string) (DeliveryQuote, error) {
	if km < 0 {
		km = 0
	}
	supplement := decimal.Zero
	if vehicle != "" {
		s, ok := p.Supplements[vehicle]
		if !ok {
			return DeliveryQuote{}, ErrUnknownVehicle{Vehicle: vehicle}
		}
		supplement = s
	}
	distanceFee := decimal.NewFromFloat(km).Mul(p.PerKm)
	net := p.BaseFee.Add(distanceFee).Add(supplement)
	commission := net.Mul(p.Commission)
	return DeliveryQuote{
		DistanceKm:  km,
		Vehicle:     vehicle,
		BaseFee:     p.BaseFee,
		DistanceFee: distanceFee.Round(2),
		Supplement:  supplement,
		Commission:  commission.Round(2),
		Total:       net.Add(commission).Round(2),
	}, nil
}
