package parsers

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/fetch"
	"github.com/kosarica/basket-service/internal/parsers/xlsx"
	"github.com/kosarica/basket-service/internal/types"
)

const priceList = `store_id,store_name,distance_km,product_id,product_name,category,barcode,price,available,promo_type,promo_value
S1,Konzum,1,X,Product X,snacks,111,2.00,1,,
S2,Lidl,5,X,Product X,snacks,111,1.80,1,percentage,10
S2,Lidl,5,Y,Product Y,drinks,222,0.99,0,,
`

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestDetectFileType(t *testing.T) {
	ft, err := DetectFileType("prices.CSV")
	require.NoError(t, err)
	assert.Equal(t, types.FileTypeCSV, ft)

	ft, err = DetectFileType("/tmp/cjenik.xlsx")
	require.NoError(t, err)
	assert.Equal(t, types.FileTypeXLSX, ft)

	ft, err = DetectFileType("https://example.com/cjenici/all.ZIP?date=2026-10-01")
	require.NoError(t, err)
	assert.Equal(t, types.FileTypeZIP, ft)

	_, err = DetectFileType("prices.xml")
	assert.Error(t, err)
}

func TestParseFile_RejectsArchive(t *testing.T) {
	path := writeFile(t, "bundle.zip", zipOf(t, map[string]string{"a.csv": priceList}))
	_, err := ParseFile(path)
	assert.ErrorContains(t, err, "archives")
}

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFileLoader_ZipBundle(t *testing.T) {
	first := "store_id,store_name,product_id,product_name,price\nS1,Konzum,X,Product X,2.00\n"
	second := "store_id,store_name,product_id,product_name,price\nS2,Lidl,X,Product X,1.80\n"
	path := writeFile(t, "bundle.zip", zipOf(t, map[string]string{
		"konzum/zagreb.csv": first,
		"lidl/zagreb2.csv":  second,
		"README.md":         "ignored",
	}))

	snap, err := NewFileLoader(true, path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Stats().StoreCount)
	assert.Equal(t, 2, snap.Stats().EntryCount)
}

func TestFileLoader_ZipErrorsNameMember(t *testing.T) {
	bad := "store_id,product_id,price\nS1,X,abc\n"
	path := writeFile(t, "bundle.zip", zipOf(t, map[string]string{"bad.csv": bad}))

	_, err := NewFileLoader(true, path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bundle.zip!bad.csv")

	empty := writeFile(t, "empty.zip", zipOf(t, map[string]string{"notes.md": "x"}))
	_, err = NewFileLoader(true, empty).Load(context.Background())
	assert.ErrorContains(t, err, "no price lists")
}

func TestFileLoader_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/prices.csv":
			w.Write([]byte(priceList))
		case "/bundle.zip":
			w.Write(zipOf(t, map[string]string{"a.csv": priceList}))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	fetcher := fetch.NewClient(fetch.Config{RequestsPerSecond: 100, MaxRetries: 0})

	snap, err := NewFileLoader(true, srv.URL+"/prices.csv").WithFetcher(fetcher).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Stats().EntryCount)

	snap, err = NewFileLoader(true, srv.URL+"/bundle.zip").WithFetcher(fetcher).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Stats().EntryCount)

	_, err = NewFileLoader(true, srv.URL+"/missing.csv").WithFetcher(fetcher).Load(context.Background())
	var retryErr *fetch.RetryError
	require.ErrorAs(t, err, &retryErr)
	assert.Equal(t, http.StatusNotFound, retryErr.LastStatus)
}

func TestFileLoader_CSV(t *testing.T) {
	path := writeFile(t, "prices.csv", []byte(priceList))

	snap, err := NewFileLoader(true, path).Load(context.Background())
	require.NoError(t, err)

	stats := snap.Stats()
	assert.Equal(t, 2, stats.StoreCount)
	assert.Equal(t, 2, stats.ProductCount)
	assert.Equal(t, 3, stats.EntryCount)

	e, ok := snap.PriceEntry("X", "S2")
	require.True(t, ok)
	require.NotNil(t, e.Promotion)
	assert.Equal(t, catalog.PromotionPercentage, e.Promotion.Kind)

	y, ok := snap.PriceEntry("Y", "S2")
	require.True(t, ok)
	assert.False(t, y.Available)

	p, ok := snap.ProductByBarcode("222")
	require.True(t, ok)
	assert.Equal(t, "Y", p.ID)
}

func TestFileLoader_MultipleFilesMixedFormats(t *testing.T) {
	csvPath := writeFile(t, "a.csv", []byte(priceList))

	snap, err := NewFileLoader(true, csvPath).Load(context.Background())
	require.NoError(t, err)
	content, err := xlsx.Write(catalog.ToRows(snap))
	require.NoError(t, err)

	// re-import the export alone: same catalog
	xlsxPath := writeFile(t, "b.xlsx", content)
	again, err := NewFileLoader(true, xlsxPath).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap.Stats().EntryCount, again.Stats().EntryCount)
	assert.Equal(t, snap.ListStores(), again.ListStores())

	// both together duplicate every entry
	_, err = NewFileLoader(true, csvPath, xlsxPath).Load(context.Background())
	assert.ErrorIs(t, err, catalog.ErrDuplicatePriceEntry)
}

func TestFileLoader_StrictVersusLenient(t *testing.T) {
	bad := priceList + "S3,Spar,2,Z,Product Z,x,333,oops,1,,\n"
	path := writeFile(t, "prices.csv", []byte(bad))

	_, err := NewFileLoader(true, path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 5")

	snap, err := NewFileLoader(false, path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Stats().EntryCount)
}

func TestFileLoader_Errors(t *testing.T) {
	_, err := NewFileLoader(false).Load(context.Background())
	assert.Error(t, err)

	_, err = NewFileLoader(false, filepath.Join(t.TempDir(), "missing.csv")).Load(context.Background())
	assert.Error(t, err)

	allBad := writeFile(t, "bad.csv", []byte("store_id,product_id,price\nS1,X,abc\n"))
	_, err = NewFileLoader(false, allBad).Load(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileLoader(false, allBad).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
