package optimizer

import (
	"github.com/shopspring/decimal"
)

// Config holds the configuration for the pricing engine.
// It is loaded from environment variables or a config file.
type Config struct {
	// Round-trip transport for basket quotes
	RoundTripRatePerKm float64 `mapstructure:"round_trip_rate_per_km" env:"ROUND_TRIP_RATE_PER_KM" default:"0.15"`
	RoundTripLegs      int     `mapstructure:"round_trip_legs" env:"ROUND_TRIP_LEGS" default:"2"`

	// Delivery quoting
	DeliveryBaseFee    float64            `mapstructure:"delivery_base_fee" env:"DELIVERY_BASE_FEE" default:"15"`
	DeliveryPerKm      float64            `mapstructure:"delivery_per_km" env:"DELIVERY_PER_KM" default:"0.60"`
	DeliveryCommission float64            `mapstructure:"delivery_commission" env:"DELIVERY_COMMISSION" default:"0.15"`
	VehicleSupplements map[string]float64 `mapstructure:"vehicle_supplements" env:"VEHICLE_SUPPLEMENTS"`

	// Degraded mode when the shopper's location is unknown. Off by default:
	// unknown distances are reported as unknown.
	EnableFallbackDistance bool    `mapstructure:"enable_fallback_distance" env:"ENABLE_FALLBACK_DISTANCE" default:"false"`
	FallbackDistanceKm     float64 `mapstructure:"fallback_distance_km" env:"FALLBACK_DISTANCE_KM" default:"10"`

	// Validation limits
	MaxBasketItems int `mapstructure:"max_basket_items" env:"MAX_BASKET_ITEMS" default:"100"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		RoundTripRatePerKm: 0.15,
		RoundTripLegs:      2,
		DeliveryBaseFee:    15,
		DeliveryPerKm:      0.60,
		DeliveryCommission: 0.15,
		VehicleSupplements: map[string]float64{
			"standard": 0,
			"xl":       5,
			"van":      10,
		},
		EnableFallbackDistance: false,
		FallbackDistanceKm:     10,
		MaxBasketItems:         100,
	}
}

// RoundTrip builds the basket transport model.
func (c *Config) RoundTrip() RoundTripPricing {
	return RoundTripPricing{
		RatePerKm: decimal.NewFromFloat(c.RoundTripRatePerKm),
		Legs:      int64(c.RoundTripLegs),
	}
}

// Delivery builds the delivery quoting model.
func (c *Config) Delivery() DeliveryPricing {
	supplements := make(map[string]decimal.Decimal, len(c.VehicleSupplements))
	for name, v := range c.VehicleSupplements {
		supplements[name] = decimal.NewFromFloat(v)
	}
	return DeliveryPricing{
		BaseFee:     decimal.NewFromFloat(c.DeliveryBaseFee),
		PerKm:       decimal.NewFromFloat(c.DeliveryPerKm),
		Commission:  decimal.NewFromFloat(c.DeliveryCommission),
		Supplements: supplements,
	}
}

// ApplyFallback sets the degraded-mode distance on an origin when fallback
// is enabled and the caller did not choose one.
func (c *Config) ApplyFallback(o Origin) Origin {
	if !c.EnableFallbackDistance || o.FallbackKm != nil || o.status() == OriginResolved {
		return o
	}
	return o.WithFallback(c.FallbackDistanceKm)
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.RoundTripRatePerKm < 0 {
		return ErrInvalidConfig{Field: "round_trip_rate_per_km", Reason: "must be non-negative"}
	}
	if c.RoundTripLegs < 1 {
		return ErrInvalidConfig{Field: "round_trip_legs", Reason: "must be at least 1"}
	}
	if c.DeliveryBaseFee < 0 {
		return ErrInvalidConfig{Field: "delivery_base_fee", Reason: "must be non-negative"}
	}
	if c.DeliveryPerKm < 0 {
		return ErrInvalidConfig{Field: "delivery_per_km", Reason: "must be non-negative"}
	}
	if c.DeliveryCommission < 0 || c.DeliveryCommission > 1 {
		return ErrInvalidConfig{Field: "delivery_commission", Reason: "must be between 0 and 1"}
	}
	for name, v := range c.VehicleSupplements {
		if v < 0 {
			return ErrInvalidConfig{Field: "vehicle_supplements." + name, Reason: "must be non-negative"}
		}
	}
	if c.EnableFallbackDistance && c.FallbackDistanceKm <= 0 {
		return ErrInvalidConfig{Field: "fallback_distance_km", Reason: "must be positive when fallback is enabled"}
	}
	if c.MaxBasketItems < 1 {
		return ErrInvalidConfig{Field: "max_basket_items", Reason: "must be at least 1"}
	}
	return nil
}

// ErrInvalidConfig is returned when the configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return e.Field + ": " + e.Reason
}
