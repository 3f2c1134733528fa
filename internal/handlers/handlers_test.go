package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/basket-service/internal/basket"
	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/optimizer"
	"github.com/kosarica/basket-service/internal/recognition"
	"github.com/kosarica/basket-service/internal/storage"
)

func fptr(f float64) *float64 { return &f }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testCatalog: S1 sells X at 2.00 one km away, S2 at 1.80 with 10% off five
// km away. S3 has coordinates but no precomputed distance and sells nothing.
func testCatalog(t *testing.T) *catalog.Snapshot {
	t.Helper()
	stores := []catalog.Store{
		{ID: "S1", Name: "Konzum", DistanceKm: fptr(1)},
		{ID: "S2", Name: "Lidl", DistanceKm: fptr(5)},
		{ID: "S3", Name: "Spar", Location: &catalog.Location{Latitude: 45.80, Longitude: 15.95}},
	}
	products := []catalog.Product{
		{ID: "X", Name: "Product X", Category: "snacks", Barcode: "4006381333931"},
		{ID: "Y", Name: "Product Y", Category: "drinks"},
	}
	entries := []catalog.PriceEntry{
		{ProductID: "X", StoreID: "S1", Price: dec("2.00"), Available: true},
		{ProductID: "X", StoreID: "S2", Price: dec("1.80"), Available: true,
			Promotion: &catalog.Promotion{Kind: catalog.PromotionPercentage, Value: dec("10")}},
		{ProductID: "Y", StoreID: "S1", Price: dec("1.00"), Available: false},
	}
	snap, err := catalog.NewSnapshot(stores, products, entries)
	require.NoError(t, err)
	return snap
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	snap := testCatalog(t)
	provider := catalog.NewProvider(nil, catalog.DefaultProviderOptions())
	provider.Set(snap)
	InitPricing(provider, nil)

	mr := miniredis.RunT(t)
	store := storage.NewRedisStorage(mr.Addr(), 0, "test")
	t.Cleanup(func() { store.Close() })
	InitBaskets(basket.NewRepository(store))

	src := recognition.StaticSource{S: snap}
	InitRecognition(recognition.Chain{recognition.NewBarcodeRecognizer(src), recognition.NewTextRecognizer(src, 0)})

	router := gin.New()
	RegisterRoutes(router.Group("/internal"))
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func xBasket(qty int) []basket.Line {
	return []basket.Line{{ProductID: "X", Quantity: qty}}
}

func TestCatalogEndpoints(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodGet, "/internal/catalog/stores", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stores := decode[StoresResponse](t, w)
	assert.Equal(t, 3, stores.Total)
	assert.Equal(t, "S1", stores.Stores[0].ID)

	w = do(t, router, http.MethodGet, "/internal/catalog/products?category=drinks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode[ProductsResponse](t, w)
	require.Equal(t, 1, products.Total)
	assert.Equal(t, "Y", products.Products[0].ID)

	w = do(t, router, http.MethodGet, "/internal/catalog/products/X/prices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	prices := decode[ProductPricesResponse](t, w)
	require.Len(t, prices.Prices, 2)
	assert.Equal(t, "S1", prices.Prices[0].StoreID)

	w = do(t, router, http.MethodGet, "/internal/catalog/products/nope/prices", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/internal/catalog/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[CatalogStatsResponse](t, w)
	assert.Equal(t, 3, stats.EntryCount)
	assert.Len(t, stats.Fingerprint, 64)
	assert.False(t, stats.Stale)
}

func TestQuoteBasket(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/internal/basket/quote", QuoteRequest{
		PricingRequest: PricingRequest{Lines: xBasket(2)},
		StoreID:        "S1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	q := decode[optimizer.StoreQuote](t, w)
	assert.True(t, q.GrandTotal.Equal(dec("4.30")), q.GrandTotal.String())
	assert.True(t, q.Transport.Known)

	w = do(t, router, http.MethodPost, "/internal/basket/quote", QuoteRequest{
		PricingRequest: PricingRequest{Lines: xBasket(2)},
		StoreID:        "S9",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/internal/basket/quote", QuoteRequest{
		PricingRequest: PricingRequest{Lines: xBasket(0)},
		StoreID:        "S1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "lines", decode[ErrorResponse](t, w).Field)

	w = do(t, router, http.MethodPost, "/internal/basket/quote", map[string]any{"storeId": "S1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRankStores(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/internal/basket/rank", PricingRequest{
		Lines:    xBasket(2),
		StoreIDs: []string{"S1", "S2"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	r := decode[optimizer.Ranking](t, w)
	require.Len(t, r.Quotes, 2)
	require.NotNil(t, r.BestStore)
	assert.Equal(t, "S1", r.BestStore.StoreID)
	assert.True(t, r.MaxSavings.Equal(dec("0.44")), r.MaxSavings.String())

	w = do(t, router, http.MethodPost, "/internal/basket/rank", PricingRequest{
		Lines:    xBasket(2),
		StoreIDs: []string{"S1", "S404"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "storeIds", decode[ErrorResponse](t, w).Field)

	t.Run("all stores, unknown distance is flagged", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/internal/basket/rank", PricingRequest{Lines: xBasket(1)})
		require.Equal(t, http.StatusOK, w.Code)
		r := decode[optimizer.Ranking](t, w)
		require.Len(t, r.Quotes, 3)
		for _, q := range r.Quotes {
			if q.StoreID == "S3" {
				assert.False(t, q.Transport.Known)
				assert.Equal(t, optimizer.DistanceUnresolved, q.Transport.Distance.Status)
			}
		}
	})
}

func TestOptimalAndCompare(t *testing.T) {
	router := setupRouter(t)
	body := PricingRequest{Lines: xBasket(2), StoreIDs: []string{"S1", "S2"}}

	w := do(t, router, http.MethodPost, "/internal/basket/optimal", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	a := decode[optimizer.Allocation](t, w)
	require.Len(t, a.Groups, 1)
	assert.Equal(t, "S2", a.Groups[0].StoreID)
	assert.True(t, a.Total.Equal(dec("4.74")), a.Total.String())

	w = do(t, router, http.MethodPost, "/internal/basket/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cmp := decode[optimizer.Comparison](t, w)
	assert.True(t, cmp.BestSingleStoreTotal.Equal(dec("4.30")))
	assert.True(t, cmp.OptimalTotal.Equal(dec("4.74")))
	assert.True(t, cmp.SavingsDelta.Equal(dec("-0.44")), cmp.SavingsDelta.String())
	assert.True(t, cmp.Comparable)

	w = do(t, router, http.MethodPost, "/internal/basket/compare", PricingRequest{
		Lines:  xBasket(1),
		Origin: &OriginRequest{Latitude: fptr(91), Longitude: fptr(0)},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "origin", decode[ErrorResponse](t, w).Field)
}

func TestCompareEmptyBasket(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/internal/basket/compare", PricingRequest{Lines: []basket.Line{}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cmp := decode[optimizer.Comparison](t, w)
	assert.Empty(t, cmp.Ranking.Quotes)
	assert.Nil(t, cmp.Ranking.BestStore)
	assert.True(t, cmp.Ranking.MaxSavings.IsZero())
	assert.Empty(t, cmp.Allocation.Groups)
	assert.True(t, cmp.OptimalTotal.IsZero())
	assert.True(t, cmp.SavingsDelta.IsZero())

	w = do(t, router, http.MethodPost, "/internal/basket/rank", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode[optimizer.Ranking](t, w).Quotes)

	// a stored basket emptied line by line still compares
	w = do(t, router, http.MethodPost, "/internal/baskets", BasketRequest{Lines: []basket.Line{{ProductID: "X", Quantity: 1}}})
	require.Equal(t, http.StatusCreated, w.Code)
	base := "/internal/baskets/" + decode[basket.Basket](t, w).ID

	w = do(t, router, http.MethodDelete, base+"/lines/X", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[basket.Basket](t, w).Lines)

	w = do(t, router, http.MethodPost, base+"/compare", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[optimizer.Comparison](t, w).OptimalTotal.IsZero())
}

func TestOriginRequest(t *testing.T) {
	setupRouter(t)

	tests := []struct {
		name string
		req  *OriginRequest
		want optimizer.OriginStatus
	}{
		{name: "absent", req: nil, want: optimizer.OriginUnresolved},
		{name: "no coordinates", req: &OriginRequest{}, want: optimizer.OriginUnresolved},
		{name: "one coordinate", req: &OriginRequest{Latitude: fptr(45.8)}, want: optimizer.OriginUnresolved},
		{name: "denied", req: &OriginRequest{Denied: true}, want: optimizer.OriginDenied},
		{name: "coordinates win over denied", req: &OriginRequest{Latitude: fptr(45.8), Longitude: fptr(15.9), Denied: true}, want: optimizer.OriginResolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := tt.req.origin()
			require.NoError(t, err)
			assert.Equal(t, tt.want, o.Status)
		})
	}

	o, err := (&OriginRequest{Denied: true, FallbackKm: fptr(2)}).origin()
	require.NoError(t, err)
	require.NotNil(t, o.FallbackKm)
	assert.Equal(t, 2.0, *o.FallbackKm)

	_, err = (&OriginRequest{Latitude: fptr(0), Longitude: fptr(181)}).origin()
	var invalid optimizer.ErrInvalidRequest
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "origin", invalid.Field)
}

func TestQuoteDelivery_InvalidOrigin(t *testing.T) {
	router := setupRouter(t)
	w := do(t, router, http.MethodPost, "/internal/delivery/quote", DeliveryQuoteRequest{
		StoreID: "S3",
		Origin:  &OriginRequest{Latitude: fptr(95), Longitude: fptr(15)},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "origin", decode[ErrorResponse](t, w).Field)
}

func TestGetStoreDistance(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodGet, "/internal/stores/S1/distance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[DistanceResponse](t, w)
	assert.Equal(t, optimizer.DistanceResolved, d.Distance.Status)
	assert.Equal(t, 1.0, d.Distance.Km)
	assert.True(t, d.Transport.Cost.Equal(dec("0.30")))

	w = do(t, router, http.MethodGet, "/internal/stores/S3/distance?denied=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d = decode[DistanceResponse](t, w)
	assert.Equal(t, optimizer.DistanceDenied, d.Distance.Status)
	assert.False(t, d.Transport.Known)

	w = do(t, router, http.MethodGet, "/internal/stores/S3/distance?lat=45.81&lng=15.95", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d = decode[DistanceResponse](t, w)
	assert.Equal(t, optimizer.DistanceResolved, d.Distance.Status)
	assert.InDelta(t, 1.11, d.Distance.Km, 0.01)

	w = do(t, router, http.MethodGet, "/internal/stores/S3/distance?lat=north&lng=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/internal/stores/S9/distance", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuoteDelivery(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/internal/delivery/quote", DeliveryQuoteRequest{DistanceKm: fptr(10), Vehicle: "xl"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	q := decode[optimizer.DeliveryQuote](t, w)
	assert.True(t, q.Total.Equal(dec("29.90")), q.Total.String())

	w = do(t, router, http.MethodPost, "/internal/delivery/quote", DeliveryQuoteRequest{StoreID: "S1"})
	require.Equal(t, http.StatusOK, w.Code)
	q = decode[optimizer.DeliveryQuote](t, w)
	assert.True(t, q.Total.Equal(dec("17.94")), q.Total.String())

	w = do(t, router, http.MethodPost, "/internal/delivery/quote", DeliveryQuoteRequest{DistanceKm: fptr(1), Vehicle: "rocket"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "vehicle", decode[ErrorResponse](t, w).Field)

	w = do(t, router, http.MethodPost, "/internal/delivery/quote", DeliveryQuoteRequest{StoreID: "S3", Origin: &OriginRequest{Denied: true}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, router, http.MethodPost, "/internal/delivery/quote", DeliveryQuoteRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBasketLifecycle(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/internal/baskets", BasketRequest{Lines: []basket.Line{
		{ProductID: "X", Quantity: 1},
		{ProductID: "X", Quantity: 1},
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[basket.Basket](t, w)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Lines, 1, "duplicates merge")
	assert.Equal(t, 2, created.Lines[0].Quantity)
	base := "/internal/baskets/" + created.ID

	w = do(t, router, http.MethodPost, base+"/lines", LineRequest{ProductID: "Y", Quantity: 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[basket.Basket](t, w).Lines, 2)

	w = do(t, router, http.MethodPut, base+"/lines", LineRequest{ProductID: "Y", Quantity: 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[basket.Basket](t, w).Lines, 1)

	w = do(t, router, http.MethodPost, base+"/lines", LineRequest{ProductID: "Y", Quantity: -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodDelete, base+"/lines/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, base+"/compare", CompareSavedRequest{StoreIDs: []string{"S1", "S2"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cmp := decode[optimizer.Comparison](t, w)
	assert.True(t, cmp.BestSingleStoreTotal.Equal(dec("4.30")))

	w = do(t, router, http.MethodPut, base, BasketRequest{Lines: []basket.Line{{ProductID: "Y", Quantity: 1}}})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[basket.Basket](t, w)
	assert.Equal(t, []basket.Line{{ProductID: "Y", Quantity: 1}}, got.Lines)

	w = do(t, router, http.MethodGet, "/internal/baskets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{created.ID}, decode[BasketListResponse](t, w).IDs)

	w = do(t, router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, router, http.MethodPut, base, BasketRequest{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecognizeProduct(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/internal/recognize", recognition.Input{Barcode: "4006381333931"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[recognition.Result](t, w)
	assert.Equal(t, "X", res.ProductID)
	assert.Equal(t, "S2", res.StoreID)
	assert.True(t, res.Price.Decimal.Equal(dec("1.62")))

	w = do(t, router, http.MethodPost, "/internal/recognize", recognition.Input{Text: "product y"})
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[recognition.Result](t, w)
	assert.Equal(t, "Y", res.ProductID)
	assert.False(t, res.Price.Valid)

	w = do(t, router, http.MethodPost, "/internal/recognize", recognition.Input{Barcode: "5901234123457"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/internal/recognize", recognition.Input{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	InitRecognition(nil)
	w = do(t, router, http.MethodPost, "/internal/recognize", recognition.Input{Barcode: "1"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthAndUnloadedCatalog(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodGet, "/internal/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	h := decode[HealthResponse](t, w)
	assert.Equal(t, "loaded", h.Catalog)
	assert.Equal(t, "not configured", h.Database)
	assert.NotNil(t, h.CatalogLoadedAt)

	InitPricing(catalog.NewProvider(nil, catalog.DefaultProviderOptions()), nil)

	w = do(t, router, http.MethodGet, "/internal/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decode[HealthResponse](t, w).Status)

	w = do(t, router, http.MethodPost, "/internal/basket/rank", PricingRequest{Lines: xBasket(1)})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	InitBaskets(nil)
	w = do(t, router, http.MethodGet, "/internal/baskets", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
