package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sample = `store_id;store_name;latitude;longitude;product_id;product_name;category;barcode;price;available;promo_type;promo_value;promo_until
S1;Konzum Ilica;45,8131;15,9560;milk;Mlijeko 1L;dairy;3850102123456;1,19;1;;;
S1;Konzum Ilica;45,8131;15,9560;bread;Kruh;bakery;3850102000001;2,00;da;percentage;10;31.12.2026
S2;Lidl Jankomir;45.7990;15.8640;milk;Mlijeko 1L;dairy;3850102123456;1.05;ne;;;
`

func TestParser_Parse(t *testing.T) {
	p := NewParser(DefaultOptions())
	res, err := p.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 3, res.ValidRows)
	assert.Empty(t, res.Errors)

	first := res.Rows[0]
	assert.Equal(t, "S1", first.StoreID)
	assert.Equal(t, "Mlijeko 1L", first.ProductName)
	assert.Equal(t, "1.19", first.Price.String())
	assert.True(t, first.Available)
	require.NotNil(t, first.Latitude)
	assert.InDelta(t, 45.8131, *first.Latitude, 1e-9)
	assert.Equal(t, 2, first.RowNumber)

	bread := res.Rows[1]
	assert.Equal(t, "percentage", bread.PromoType)
	require.NotNil(t, bread.PromoValue)
	assert.Equal(t, "10", bread.PromoValue.String())
	require.NotNil(t, bread.PromoUntil)
	assert.Equal(t, 2026, bread.PromoUntil.Year())

	assert.False(t, res.Rows[2].Available)
}

func TestParser_RowErrors(t *testing.T) {
	content := "store_id,product_id,price\nS1,milk,abc\n,bread,1.00\nS1,eggs,2.50\n\n"
	res, err := NewParser(DefaultOptions()).Parse([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 1, res.ValidRows)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "price", *res.Errors[0].Field)
	assert.Equal(t, "abc", *res.Errors[0].OriginalValue)
	assert.Equal(t, "store_id", *res.Errors[1].Field)
}

func TestParser_MissingColumns(t *testing.T) {
	_, err := NewParser(DefaultOptions()).Parse([]byte("name,price\nx,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store_id")
}

func TestParser_Windows1250AndAliases(t *testing.T) {
	text := "Šifra_trgovine\tšifra_proizvoda\tnaziv\tcijena\nT1\tP1\tČokolada\t1.299,00 kn\n"
	content, err := charmap.Windows1250.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	res, err := NewParser(DefaultOptions()).Parse(content)
	require.NoError(t, err)
	require.Equal(t, 1, res.ValidRows)
	assert.Equal(t, "Čokolada", res.Rows[0].ProductName)
	assert.Equal(t, "1299", res.Rows[0].Price.String())
}

func TestParser_Empty(t *testing.T) {
	res, err := NewParser(DefaultOptions()).Parse([]byte("\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalRows)
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, DelimiterSemicolon, DetectDelimiter("a;b;c\n1;2;3\n"))
	assert.Equal(t, DelimiterTab, DetectDelimiter("a\tb\n1\t2\n"))
	assert.Equal(t, DelimiterComma, DetectDelimiter("a,b\n1,2\n"))
	assert.Equal(t, DelimiterComma, DetectDelimiter(""))
}

func TestSplitLine(t *testing.T) {
	assert.Equal(t, []string{"a", "b,c", `say "hi"`, ""}, SplitLine(`a,"b,c","say ""hi""",`, ',', '"'))
	assert.Equal(t, []string{"čaj", "ž"}, SplitLine("čaj;ž", ';', '"'))
}
