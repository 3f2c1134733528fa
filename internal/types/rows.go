package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// FileType represents supported price-list file types
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
	FileTypeZIP  FileType = "zip"
)

// CatalogRow is one price entry from an imported price list, carrying the
// store and product columns it refers to
type CatalogRow struct {
	RowNumber int `json:"rowNumber"`

	StoreID      string   `json:"storeId"`
	StoreName    string   `json:"storeName"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	DistanceKm   *float64 `json:"distanceKm,omitempty"`
	OpeningHours string   `json:"openingHours,omitempty"`

	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	NutriGrade  string `json:"nutriGrade,omitempty"`
	EcoGrade    string `json:"ecoGrade,omitempty"`

	Price      decimal.Decimal  `json:"price"`
	Available  bool             `json:"available"`
	PromoType  string           `json:"promoType,omitempty"`
	PromoValue *decimal.Decimal `json:"promoValue,omitempty"`
	PromoUntil *time.Time       `json:"promoUntil,omitempty"`
	UpdatedAt  *time.Time       `json:"updatedAt,omitempty"`
}

// ParseError represents a parsing error
type ParseError struct {
	RowNumber     *int    `json:"rowNumber,omitempty"`
	Field         *string `json:"field,omitempty"`
	Message       string  `json:"message"`
	OriginalValue *string `json:"originalValue,omitempty"`
}

// ParseWarning represents a parsing warning
type ParseWarning struct {
	RowNumber *int    `json:"rowNumber,omitempty"`
	Field     *string `json:"field,omitempty"`
	Message   string  `json:"message"`
}

// ParseResult represents result of parsing
type ParseResult struct {
	Rows      []CatalogRow   `json:"rows"`
	Errors    []ParseError   `json:"errors,omitempty"`
	Warnings  []ParseWarning `json:"warnings,omitempty"`
	TotalRows int            `json:"totalRows"`
	ValidRows int            `json:"validRows"`
}

// StringPtr returns a pointer to the string
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the int
func IntPtr(i int) *int {
	return &i
}
