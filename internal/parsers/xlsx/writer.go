package xlsx

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kosarica/basket-service/internal/parsers/rowmap"
	"github.com/kosarica/basket-service/internal/types"
)

// SheetName is the sheet Write puts rows on.
const SheetName = "Prices"

// Write renders rows as a workbook with the canonical header, so the
// output parses back with the default mapping.
func Write(rows []types.CatalogRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(rowmap.Columns))
	for i, c := range rowmap.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := record(r)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// record lays out a row in rowmap.Columns order. Everything is written as
// text so prices and IDs round-trip exactly.
func record(r types.CatalogRow) []interface{} {
	optFloat := func(f *float64) string {
		if f == nil {
			return ""
		}
		return fmt.Sprintf("%g", *f)
	}
	optDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	}
	promoValue := ""
	if r.PromoValue != nil {
		promoValue = r.PromoValue.String()
	}
	available := "0"
	if r.Available {
		available = "1"
	}
	return []interface{}{
		r.StoreID, r.StoreName, optFloat(r.Latitude), optFloat(r.Longitude), optFloat(r.DistanceKm), r.OpeningHours,
		r.ProductID, r.ProductName, r.Brand, r.Category, r.Barcode, r.NutriGrade, r.EcoGrade,
		r.Price.String(), available, r.PromoType, promoValue, optDate(r.PromoUntil), optDate(r.UpdatedAt),
	}
}
