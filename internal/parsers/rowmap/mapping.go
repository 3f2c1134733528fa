// Package rowmap maps tabular price-list records onto catalog rows. It is
// shared by the CSV and XLSX parsers.
package rowmap

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kosarica/basket-service/internal/types"
)

// Field names, in canonical column order.
const (
	FieldStoreID      = "store_id"
	FieldStoreName    = "store_name"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldDistanceKm   = "distance_km"
	FieldOpeningHours = "opening_hours"
	FieldProductID    = "product_id"
	FieldProductName  = "product_name"
	FieldBrand        = "brand"
	FieldCategory     = "category"
	FieldBarcode      = "barcode"
	FieldNutriGrade   = "nutri_grade"
	FieldEcoGrade     = "eco_grade"
	FieldPrice        = "price"
	FieldAvailable    = "available"
	FieldPromoType    = "promo_type"
	FieldPromoValue   = "promo_value"
	FieldPromoUntil   = "promo_until"
	FieldUpdatedAt    = "updated_at"
)

// Columns lists every field in export order.
var Columns = []string{
	FieldStoreID, FieldStoreName, FieldLatitude, FieldLongitude, FieldDistanceKm, FieldOpeningHours,
	FieldProductID, FieldProductName, FieldBrand, FieldCategory, FieldBarcode, FieldNutriGrade, FieldEcoGrade,
	FieldPrice, FieldAvailable, FieldPromoType, FieldPromoValue, FieldPromoUntil, FieldUpdatedAt,
}

var required = []string{FieldStoreID, FieldProductID, FieldPrice}

// Mapping maps a field to the header names that may carry it. Matching is
// case- and diacritic-insensitive.
type Mapping map[string][]string

// DefaultMapping accepts the canonical names plus common Croatian headers.
func DefaultMapping() Mapping {
	return Mapping{
		FieldStoreID:      {"store_id", "store", "trgovina_id", "sifra_trgovine"},
		FieldStoreName:    {"store_name", "trgovina", "naziv_trgovine"},
		FieldLatitude:     {"latitude", "lat"},
		FieldLongitude:    {"longitude", "lng", "lon"},
		FieldDistanceKm:   {"distance_km", "distance", "udaljenost"},
		FieldOpeningHours: {"opening_hours", "radno_vrijeme"},
		FieldProductID:    {"product_id", "sifra", "šifra_proizvoda", "sifra_proizvoda"},
		FieldProductName:  {"product_name", "name", "naziv", "naziv_proizvoda"},
		FieldBrand:        {"brand", "marka"},
		FieldCategory:     {"category", "kategorija"},
		FieldBarcode:      {"barcode", "ean", "barkod"},
		FieldNutriGrade:   {"nutri_grade", "nutriscore"},
		FieldEcoGrade:     {"eco_grade", "ecoscore"},
		FieldPrice:        {"price", "cijena", "mpc"},
		FieldAvailable:    {"available", "dostupno"},
		FieldPromoType:    {"promo_type", "vrsta_akcije"},
		FieldPromoValue:   {"promo_value", "iznos_akcije"},
		FieldPromoUntil:   {"promo_until", "akcija_do"},
		FieldUpdatedAt:    {"updated_at", "datum"},
	}
}

// normalizeHeader lowercases and strips Croatian diacritics.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		switch r {
		case 'š', 'Š':
			return 's'
		case 'č', 'Č', 'ć', 'Ć':
			return 'c'
		case 'ž', 'Ž':
			return 'z'
		case 'đ', 'Đ':
			return 'd'
		case ' ', '-':
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(h)))
}

// Indices is a mapping resolved against a concrete header row.
type Indices map[string]int

// Resolve finds each field's column. Required fields must be present.
func (m Mapping) Resolve(headers []string) (Indices, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(strings.TrimPrefix(h, "\ufeff"))
	}

	indices := make(Indices)
	for field, aliases := range m {
		for _, alias := range aliases {
			want := normalizeHeader(alias)
			for i, h := range normalized {
				if h == want {
					indices[field] = i
					break
				}
			}
			if _, ok := indices[field]; ok {
				break
			}
		}
	}

	var missing []string
	for _, f := range required {
		if _, ok := indices[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return indices, nil
}

// Row maps one record. A row with errors is not usable; warnings flag
// optional values that were dropped.
func (ix Indices) Row(record []string, rowNumber int) (*types.CatalogRow, []types.ParseError, []types.ParseWarning) {
	var (
		errs     []types.ParseError
		warnings []types.ParseWarning
	)

	get := func(field string) string {
		idx, ok := ix[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	fail := func(field, msg, value string) {
		e := types.ParseError{RowNumber: types.IntPtr(rowNumber), Field: types.StringPtr(field), Message: msg}
		if value != "" {
			e.OriginalValue = types.StringPtr(value)
		}
		errs = append(errs, e)
	}
	warn := func(field, msg string) {
		warnings = append(warnings, types.ParseWarning{RowNumber: types.IntPtr(rowNumber), Field: types.StringPtr(field), Message: msg})
	}
	optFloat := func(field string) *float64 {
		v := get(field)
		if v == "" {
			return nil
		}
		f, err := ParseFloat(v)
		if err != nil {
			warn(field, "Invalid number, ignoring")
			return nil
		}
		return &f
	}

	row := &types.CatalogRow{
		RowNumber:    rowNumber,
		StoreID:      get(FieldStoreID),
		StoreName:    get(FieldStoreName),
		OpeningHours: get(FieldOpeningHours),
		ProductID:    get(FieldProductID),
		ProductName:  get(FieldProductName),
		Brand:        get(FieldBrand),
		Category:     get(FieldCategory),
		Barcode:      get(FieldBarcode),
		NutriGrade:   get(FieldNutriGrade),
		EcoGrade:     get(FieldEcoGrade),
		PromoType:    strings.ToLower(get(FieldPromoType)),
	}

	if row.StoreID == "" {
		fail(FieldStoreID, "Store ID is required", "")
	}
	if row.ProductID == "" {
		fail(FieldProductID, "Product ID is required", "")
	}

	priceStr := get(FieldPrice)
	price, err := ParsePrice(priceStr)
	switch {
	case err != nil:
		fail(FieldPrice, "Invalid price value", priceStr)
	case price.IsNegative():
		fail(FieldPrice, "Price cannot be negative", priceStr)
	default:
		row.Price = price
	}

	availStr := get(FieldAvailable)
	available, err := ParseBool(availStr)
	if err != nil {
		fail(FieldAvailable, "Invalid availability flag", availStr)
	}
	row.Available = available

	row.Latitude = optFloat(FieldLatitude)
	row.Longitude = optFloat(FieldLongitude)
	if (row.Latitude == nil) != (row.Longitude == nil) {
		warn(FieldLatitude, "Latitude and longitude must both be set, ignoring location")
		row.Latitude, row.Longitude = nil, nil
	}
	row.DistanceKm = optFloat(FieldDistanceKm)
	if row.DistanceKm != nil && *row.DistanceKm < 0 {
		warn(FieldDistanceKm, "Negative distance, ignoring")
		row.DistanceKm = nil
	}

	if v := get(FieldPromoValue); v != "" {
		pv, err := ParsePrice(v)
		if err != nil {
			fail(FieldPromoValue, "Invalid promotion value", v)
		} else {
			row.PromoValue = &pv
		}
	}
	if row.PromoType == "" && row.PromoValue != nil {
		warn(FieldPromoValue, "Promotion value without promotion type, ignoring")
		row.PromoValue = nil
	}
	if v := get(FieldPromoUntil); v != "" {
		if t, err := ParseDate(v); err != nil {
			warn(FieldPromoUntil, "Invalid promotion end date, ignoring")
		} else {
			row.PromoUntil = &t
		}
	}
	if v := get(FieldUpdatedAt); v != "" {
		if t, err := ParseDate(v); err != nil {
			warn(FieldUpdatedAt, "Invalid update date, ignoring")
		} else {
			row.UpdatedAt = &t
		}
	}

	if len(errs) > 0 {
		log.Debug().Int("row", rowNumber).Int("errors", len(errs)).Msg("Row rejected")
		return nil, errs, warnings
	}
	return row, nil, warnings
}

// IsEmpty reports whether every cell is blank.
func IsEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
