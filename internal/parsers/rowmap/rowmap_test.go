package rowmap

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.99", "12.99"},
		{"12,99", "12.99"},
		{"1.299,00", "1299"},
		{"1,299.00", "1299"},
		{"1 299,00 EUR", "1299"},
		{"€ 4,30", "4.3"},
		{"0,44 kn", "0.44"},
		{"7", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}

	for _, bad := range []string{"", "  ", "EUR", "n/a", "1,2,3x"} {
		_, err := ParsePrice(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"", "1", "true", "DA", "x", " yes "} {
		got, err := ParseBool(v)
		require.NoError(t, err, v)
		assert.True(t, got, v)
	}
	for _, v := range []string{"0", "false", "Ne", "n"} {
		got, err := ParseBool(v)
		require.NoError(t, err, v)
		assert.False(t, got, v)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}

func TestParseFloat(t *testing.T) {
	f, err := ParseFloat("45,815")
	require.NoError(t, err)
	assert.InDelta(t, 45.815, f, 1e-9)

	_, err = ParseFloat("NaN")
	assert.Error(t, err)
	_, err = ParseFloat("north")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, v := range []string{"2023-03-15", "15.03.2023", "15.03.2023.", "2023/03/15", "45000"} {
		got, err := ParseDate(v)
		require.NoError(t, err, v)
		assert.True(t, want.Equal(got), "%s parsed as %s", v, got)
	}

	got, err := ParseDate("2023-03-15T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 3, 15, 8, 30, 0, 0, time.UTC), got)

	for _, v := range []string{"", "yesterday", "0", "99999999"} {
		_, err := ParseDate(v)
		assert.Error(t, err, v)
	}
}

func TestResolve(t *testing.T) {
	ix, err := DefaultMapping().Resolve([]string{"\ufeffŠifra", "Naziv", "Trgovina ID", "Cijena", "Akcija-do"})
	require.NoError(t, err)
	assert.Equal(t, 0, ix[FieldProductID])
	assert.Equal(t, 1, ix[FieldProductName])
	assert.Equal(t, 2, ix[FieldStoreID])
	assert.Equal(t, 3, ix[FieldPrice])
	assert.Equal(t, 4, ix[FieldPromoUntil])
	_, ok := ix[FieldBarcode]
	assert.False(t, ok)

	_, err = DefaultMapping().Resolve([]string{"store_id", "name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product_id")
	assert.Contains(t, err.Error(), "price")
}

func TestRow(t *testing.T) {
	headers := []string{"store_id", "product_id", "price", "available", "latitude", "longitude", "distance_km", "promo_type", "promo_value", "promo_until"}
	ix, err := DefaultMapping().Resolve(headers)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		row, errs, warnings := ix.Row([]string{"S1", "X", "4,30", "da", "45.8", "15.97", "2,5", "Percentage", "10", "31.12.2026"}, 2)
		require.Empty(t, errs)
		assert.Empty(t, warnings)
		require.NotNil(t, row)
		assert.Equal(t, 2, row.RowNumber)
		assert.True(t, row.Price.Equal(decimal.RequireFromString("4.30")))
		assert.True(t, row.Available)
		require.NotNil(t, row.Latitude)
		assert.InDelta(t, 45.8, *row.Latitude, 1e-9)
		require.NotNil(t, row.DistanceKm)
		assert.InDelta(t, 2.5, *row.DistanceKm, 1e-9)
		assert.Equal(t, "percentage", row.PromoType)
		require.NotNil(t, row.PromoValue)
		assert.True(t, row.PromoValue.Equal(decimal.NewFromInt(10)))
		require.NotNil(t, row.PromoUntil)
		assert.Equal(t, 2026, row.PromoUntil.Year())
	})

	t.Run("short record keeps defaults", func(t *testing.T) {
		row, errs, _ := ix.Row([]string{"S1", "X", "1"}, 3)
		require.Empty(t, errs)
		assert.True(t, row.Available)
		assert.Nil(t, row.Latitude)
		assert.Nil(t, row.PromoValue)
	})

	t.Run("errors", func(t *testing.T) {
		row, errs, _ := ix.Row([]string{"", "X", "-1", "perhaps"}, 4)
		assert.Nil(t, row)
		require.Len(t, errs, 3)
		fields := []string{*errs[0].Field, *errs[1].Field, *errs[2].Field}
		assert.ElementsMatch(t, []string{FieldStoreID, FieldPrice, FieldAvailable}, fields)
		for _, e := range errs {
			assert.Equal(t, 4, *e.RowNumber)
		}
	})

	t.Run("warnings drop optional values", func(t *testing.T) {
		row, errs, warnings := ix.Row([]string{"S1", "X", "1", "1", "45.8", "", "-3", "", "5", "someday"}, 5)
		require.Empty(t, errs)
		assert.Nil(t, row.Latitude)
		assert.Nil(t, row.Longitude)
		assert.Nil(t, row.DistanceKm)
		assert.Nil(t, row.PromoValue)
		assert.Nil(t, row.PromoUntil)
		assert.Len(t, warnings, 4)
	})
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty([]string{"", "  ", "\t"}))
	assert.False(t, IsEmpty([]string{"", "x"}))
}
