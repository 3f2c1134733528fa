package xlsx

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kosarica/basket-service/internal/types"
)

func ptr[T any](v T) *T { return &v }

func TestWriteThenParse(t *testing.T) {
	until := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	rows := []types.CatalogRow{
		{
			StoreID: "S1", StoreName: "Konzum", Latitude: ptr(45.81), Longitude: ptr(15.95),
			ProductID: "milk", ProductName: "Mlijeko", Barcode: "3850102123456", NutriGrade: "B",
			Price: decimal.RequireFromString("1.19"), Available: true,
			PromoType: "percentage", PromoValue: ptr(decimal.NewFromInt(10)), PromoUntil: &until,
		},
		{
			StoreID: "S2", StoreName: "Lidl", DistanceKm: ptr(4.5),
			ProductID: "milk", ProductName: "Mlijeko",
			Price: decimal.RequireFromString("0.99"), Available: false,
		},
	}

	content, err := Write(rows)
	require.NoError(t, err)

	res, err := NewParser(DefaultOptions()).Parse(content)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 2, res.ValidRows)

	got := res.Rows[0]
	assert.Equal(t, "S1", got.StoreID)
	assert.Equal(t, "3850102123456", got.Barcode)
	assert.True(t, got.Price.Equal(rows[0].Price))
	assert.InDelta(t, 45.81, *got.Latitude, 1e-9)
	require.NotNil(t, got.PromoUntil)
	assert.True(t, until.Equal(*got.PromoUntil))
	assert.Equal(t, 2, got.RowNumber)

	assert.False(t, res.Rows[1].Available)
	assert.InDelta(t, 4.5, *res.Rows[1].DistanceKm, 1e-9)
	assert.Nil(t, res.Rows[1].Latitude)
}

func TestParse_RowErrorsAndSheetSelection(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Cjenik")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Cjenik", "A1", &[]interface{}{"Trgovina_ID", "Šifra", "Naziv", "Cijena"}))
	require.NoError(t, f.SetSheetRow("Cjenik", "A2", &[]interface{}{"T1", "P1", "Kruh", "2,49"}))
	require.NoError(t, f.SetSheetRow("Cjenik", "A3", &[]interface{}{"T1", "P2", "Jaja", "n/a"}))
	content, err := f.WriteToBuffer()
	require.NoError(t, err)

	p := NewParser(Options{Sheet: "cjenik", SkipEmptyRows: true})
	res, err := p.Parse(content.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalRows)
	require.Equal(t, 1, res.ValidRows)
	assert.Equal(t, "2.49", res.Rows[0].Price.String())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, *res.Errors[0].RowNumber)

	_, err = NewParser(Options{Sheet: "missing"}).Parse(content.Bytes())
	assert.Error(t, err)

	// first sheet is the empty default one
	res, err = NewParser(DefaultOptions()).Parse(content.Bytes())
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := NewParser(DefaultOptions()).Parse([]byte("not a zip"))
	assert.Error(t, err)
}
