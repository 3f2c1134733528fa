package optimizer

import (
	"math"

	"github.com/kosarica/basket-service/internal/catalog"
)

const earthRadiusKm = 6371.0

// HaversineKm calculates the great-circle distance between two points in kilometers.
func HaversineKm(a, b catalog.Location) float64 {
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push h marginally past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// RoundKm rounds a distance to one decimal place for display.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// OriginStatus is the outcome of asking for the shopper's position.
type OriginStatus string

const (
	OriginUnresolved OriginStatus = "unresolved" // no fix yet, or the lookup timed out
	OriginResolved   OriginStatus = "resolved"
	OriginDenied     OriginStatus = "denied" // the user refused location access
)

// Origin is where distances are measured from. FallbackKm, when set, is a
// degraded mode: stores whose distance cannot be determined are assumed to
// be that far away and are labelled as such.
type Origin struct {
	Status     OriginStatus     `json:"status"`
	Point      catalog.Location `json:"point"`
	FallbackKm *float64         `json:"fallbackKm,omitempty"`
}

// ResolvedOrigin returns an origin at a known point.
func ResolvedOrigin(lat, lng float64) Origin {
	return Origin{Status: OriginResolved, Point: catalog.Location{Latitude: lat, Longitude: lng}}
}

// WithFallback returns a copy of o using km as the degraded-mode distance.
func (o Origin) WithFallback(km float64) Origin {
	o.FallbackKm = &km
	return o
}

func (o Origin) status() OriginStatus {
	if o.Status == "" {
		return OriginUnresolved
	}
	return o.Status
}

// DistanceStatus tells a caller how far to trust a distance.
type DistanceStatus string

const (
	DistanceResolved   DistanceStatus = "resolved"   // measured from the origin, or precomputed for the store
	DistanceFallback   DistanceStatus = "fallback"   // degraded-mode constant
	DistanceUnresolved DistanceStatus = "unresolved" // unknown; origin or store location missing
	DistanceDenied     DistanceStatus = "denied"     // unknown; location permission refused
)

// Distance is a store's distance from the shopper. Km is meaningful only
// when Known reports true.
type Distance struct {
	Status DistanceStatus `json:"status"`
	Km     float64        `json:"km"`
}

// Known reports whether Km holds a usable value.
func (d Distance) Known() bool {
	return d.Status == DistanceResolved || d.Status == DistanceFallback
}

// DistanceTo works out how far a store is from the origin. A live origin
// with a store coordinate wins; then the store's precomputed distance; then
// the origin's fallback; otherwise the distance is reported unknown.
func DistanceTo(store catalog.Store, origin Origin) Distance {
	status := origin.status()
	if status == OriginResolved && store.Location != nil {
		return Distance{Status: DistanceResolved, Km: HaversineKm(origin.Point, *store.Location)}
	}
	if store.DistanceKm != nil && *store.DistanceKm >= 0 {
		return Distance{Status: DistanceResolved, Km: *store.DistanceKm}
	}
	if origin.FallbackKm != nil {
		return Distance{Status: DistanceFallback, Km: *origin.FallbackKm}
	}
	if status == OriginDenied {
		return Distance{Status: DistanceDenied}
	}
	return Distance{Status: DistanceUnresolved}
}
