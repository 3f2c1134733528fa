package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kosarica/basket-service/internal/basket"
	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/geolocation"
	"github.com/kosarica/basket-service/internal/optimizer"
	"github.com/kosarica/basket-service/internal/telemetry"
)

// OriginRequest is the shopper's position as the client knows it. Denied
// means the user refused location access; no coordinates means the fix is
// not (yet) available.
type OriginRequest struct {
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Denied     bool     `json:"denied,omitempty"`
	FallbackKm *float64 `json:"fallbackKm,omitempty"`
}

// PricingRequest is the body of every basket pricing endpoint
type PricingRequest struct {
	Lines    []basket.Line  `json:"lines"`
	Origin   *OriginRequest `json:"origin,omitempty"`
	StoreIDs []string       `json:"storeIds,omitempty"` // empty means every store
}

// QuoteRequest prices a basket at one store
type QuoteRequest struct {
	PricingRequest
	StoreID string `json:"storeId" binding:"required"`
}

// DeliveryQuoteRequest quotes a delivery by distance, or by store and origin
type DeliveryQuoteRequest struct {
	DistanceKm *float64       `json:"distanceKm,omitempty"`
	StoreID    string         `json:"storeId,omitempty"`
	Origin     *OriginRequest `json:"origin,omitempty"`
	Vehicle    string         `json:"vehicle,omitempty"`
}

// DistanceResponse reports a store's distance and round-trip cost
type DistanceResponse struct {
	StoreID   string              `json:"storeId"`
	Distance  optimizer.Distance  `json:"distance"`
	Transport optimizer.Transport `json:"transport"`
}

// locate reads the request as the outcome of a position lookup made by the
// client. Coordinates win over a denial flag.
func (o *OriginRequest) locate() (geolocation.Fix, error) {
	switch {
	case o == nil:
		return geolocation.Fix{}, geolocation.ErrUnavailable
	case o.Latitude != nil && o.Longitude != nil:
		return geolocation.Fix{Latitude: *o.Latitude, Longitude: *o.Longitude}, nil
	case o.Denied:
		return geolocation.Fix{}, geolocation.ErrPermissionDenied
	default:
		return geolocation.Fix{}, geolocation.ErrUnavailable
	}
}

// origin converts the request into a pricing origin. Out-of-range
// coordinates are rejected instead of being treated as unknown.
func (o *OriginRequest) origin() (optimizer.Origin, error) {
	fix, err := o.locate()
	if err == nil && !fix.Valid() {
		return optimizer.Origin{}, optimizer.ErrInvalidRequest{Field: "origin", Reason: "latitude must be in [-90,90] and longitude in [-180,180]", Index: -1}
	}
	out := geolocation.OriginFromFix(fix, err)
	if o != nil && o.FallbackKm != nil {
		out = out.WithFallback(*o.FallbackKm)
	}
	return pricingConfig.ApplyFallback(out), nil
}

// request builds and validates an engine request plus the stores to
// consider. It writes the error reply itself.
func (r *PricingRequest) request(c *gin.Context, snap *catalog.Snapshot) (*optimizer.Request, []catalog.Store, bool) {
	origin, err := r.Origin.origin()
	if err != nil {
		writeError(c, err)
		return nil, nil, false
	}
	req := &optimizer.Request{Lines: r.Lines, Origin: origin}
	if err := req.Validate(pricingConfig.MaxBasketItems); err != nil {
		writeError(c, err)
		return nil, nil, false
	}
	stores, err := selectStores(snap, r.StoreIDs)
	if err != nil {
		writeError(c, err)
		return nil, nil, false
	}
	return req, stores, true
}

func selectStores(snap *catalog.Snapshot, ids []string) ([]catalog.Store, error) {
	if len(ids) == 0 {
		return snap.ListStores(), nil
	}
	stores := make([]catalog.Store, 0, len(ids))
	for i, id := range ids {
		st, ok := snap.Store(id)
		if !ok {
			return nil, optimizer.ErrInvalidRequest{Field: "storeIds", Reason: "unknown store " + id, Index: i}
		}
		stores = append(stores, st)
	}
	return stores, nil
}

func bindPricing(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// QuoteBasket prices a basket at a single store
// @Summary Price a basket at one store
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Basket and store"
// @Success 200 {object} optimizer.StoreQuote
// @Failure 400 {object} ErrorResponse
// @Router /basket/quote [post]
func QuoteBasket(c *gin.Context) {
	var body QuoteRequest
	if !bindPricing(c, &body) {
		return
	}
	snap, ok := snapshot(c)
	if !ok {
		return
	}
	if _, found := snap.Store(body.StoreID); !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Store not found", Field: "storeId"})
		return
	}
	body.StoreIDs = nil
	req, _, ok := body.request(c, snap)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, pricingEngine.PriceBasketAtStore(snap, req, body.StoreID))
}

// RankStores ranks stores by the basket's grand total
// @Summary Rank stores for a basket
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body PricingRequest true "Basket"
// @Success 200 {object} optimizer.Ranking
// @Failure 400 {object} ErrorResponse
// @Router /basket/rank [post]
func RankStores(c *gin.Context) {
	var body PricingRequest
	if !bindPricing(c, &body) {
		return
	}
	snap, ok := snapshot(c)
	if !ok {
		return
	}
	req, stores, ok := body.request(c, snap)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, pricingEngine.RankStores(snap, req, stores))
}

// OptimalAllocation splits a basket across stores at the lowest unit prices
// @Summary Cheapest multi-store allocation
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body PricingRequest true "Basket"
// @Success 200 {object} optimizer.Allocation
// @Failure 400 {object} ErrorResponse
// @Router /basket/optimal [post]
func OptimalAllocation(c *gin.Context) {
	var body PricingRequest
	if !bindPricing(c, &body) {
		return
	}
	snap, ok := snapshot(c)
	if !ok {
		return
	}
	req, stores, ok := body.request(c, snap)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, pricingEngine.ComputeOptimalAllocation(snap, req, stores))
}

// CompareBasket returns the ranking and the optimal split side by side
// @Summary Compare single-store and multi-store shopping
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body PricingRequest true "Basket"
// @Success 200 {object} optimizer.Comparison
// @Failure 400 {object} ErrorResponse
// @Router /basket/compare [post]
func CompareBasket(c *gin.Context) {
	var body PricingRequest
	if !bindPricing(c, &body) {
		return
	}
	compare(c, body)
}

func compare(c *gin.Context, body PricingRequest) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "basket.compare",
		attribute.Int("basket.lines", len(body.Lines)),
		attribute.Int("basket.stores_requested", len(body.StoreIDs)),
	)
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	snap, ok := snapshot(c)
	if !ok {
		return
	}
	req, stores, ok := body.request(c, snap)
	if !ok {
		return
	}
	cmp := pricingEngine.Compare(snap, req, stores)
	span.SetAttributes(
		attribute.Int("compare.stores", len(stores)),
		attribute.Int("compare.groups", len(cmp.Allocation.Groups)),
		attribute.Bool("compare.comparable", cmp.Comparable),
	)
	c.JSON(http.StatusOK, cmp)
}

// GetStoreDistance reports how far a store is and what the round trip costs
// @Summary Store distance
// @Tags pricing
// @Produce json
// @Param id path string true "Store ID"
// @Param lat query number false "Shopper latitude"
// @Param lng query number false "Shopper longitude"
// @Param denied query bool false "Location permission refused"
// @Success 200 {object} DistanceResponse
// @Failure 404 {object} ErrorResponse
// @Router /stores/{id}/distance [get]
func GetStoreDistance(c *gin.Context) {
	snap, ok := snapshot(c)
	if !ok {
		return
	}
	st, found := snap.Store(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Store not found"})
		return
	}
	o, err := originFromQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	d := optimizer.DistanceTo(st, o)
	c.JSON(http.StatusOK, DistanceResponse{
		StoreID:   st.ID,
		Distance:  d,
		Transport: pricingEngine.Transport().TransportFor(d),
	})
}

func originFromQuery(c *gin.Context) (optimizer.Origin, error) {
	var o OriginRequest
	if v := c.Query("lat"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return optimizer.Origin{}, optimizer.ErrInvalidRequest{Field: "lat", Reason: "must be a number", Index: -1}
		}
		o.Latitude = &lat
	}
	if v := c.Query("lng"); v != "" {
		lng, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return optimizer.Origin{}, optimizer.ErrInvalidRequest{Field: "lng", Reason: "must be a number", Index: -1}
		}
		o.Longitude = &lng
	}
	o.Denied = c.Query("denied") == "true"
	return o.origin()
}

// QuoteDelivery prices a delivery by distance
// @Summary Delivery quote
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body DeliveryQuoteRequest true "Distance or store and origin"
// @Success 200 {object} optimizer.DeliveryQuote
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /delivery/quote [post]
func QuoteDelivery(c *gin.Context) {
	var body DeliveryQuoteRequest
	if !bindPricing(c, &body) {
		return
	}
	pricing := pricingConfig.Delivery()

	if body.DistanceKm != nil {
		if *body.DistanceKm < 0 {
			writeError(c, optimizer.ErrInvalidRequest{Field: "distanceKm", Reason: "must be non-negative", Index: -1})
			return
		}
		quote, err := pricing.Quote(*body.DistanceKm, body.Vehicle)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, quote)
		return
	}

	if body.StoreID == "" {
		writeError(c, optimizer.ErrInvalidRequest{Field: "distanceKm", Reason: "distanceKm or storeId is required", Index: -1})
		return
	}
	snap, ok := snapshot(c)
	if !ok {
		return
	}
	st, found := snap.Store(body.StoreID)
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Store not found", Field: "storeId"})
		return
	}
	origin, err := body.Origin.origin()
	if err != nil {
		writeError(c, err)
		return
	}
	d := optimizer.DistanceTo(st, origin)
	if !d.Known() {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Distance to store is " + string(d.Status), Field: "origin"})
		return
	}
	quote, err := pricing.Quote(d.Km, body.Vehicle)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
