// Package xlsx parses and writes price-list workbooks.
package xlsx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/kosarica/basket-service/internal/parsers/rowmap"
	"github.com/kosarica/basket-service/internal/types"
)

// Options represents XLSX parser options
type Options struct {
	// Sheet selects a sheet by name; empty means the first sheet
	Sheet string `json:"sheet,omitempty"`
	// Mapping is the header mapping; nil means rowmap.DefaultMapping
	Mapping       rowmap.Mapping `json:"mapping,omitempty"`
	SkipEmptyRows bool           `json:"skipEmptyRows,omitempty"`
}

// DefaultOptions returns default XLSX parser options
func DefaultOptions() Options {
	return Options{
		Mapping:       rowmap.DefaultMapping(),
		SkipEmptyRows: true,
	}
}

// Parser is an XLSX parser implementation
type Parser struct {
	options Options
}

// NewParser creates a new XLSX parser
func NewParser(options Options) *Parser {
	if options.Mapping == nil {
		options.Mapping = rowmap.DefaultMapping()
	}
	return &Parser{options: options}
}

// Parse parses workbook content. The first non-empty row of the sheet is
// the header.
func (p *Parser) Parse(content []byte) (*types.ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := p.selectSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %s: %w", sheet, err)
	}

	result := &types.ParseResult{
		Rows:     make([]types.CatalogRow, 0),
		Errors:   make([]types.ParseError, 0),
		Warnings: make([]types.ParseWarning, 0),
	}

	headerRow := -1
	for i, r := range rows {
		if !rowmap.IsEmpty(r) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		result.Warnings = append(result.Warnings, types.ParseWarning{Message: "Excel sheet is empty"})
		return result, nil
	}

	indices, err := p.options.Mapping.Resolve(rows[headerRow])
	if err != nil {
		return nil, fmt.Errorf("invalid header in sheet %s: %w", sheet, err)
	}

	for i := headerRow + 1; i < len(rows); i++ {
		record := rows[i]
		if p.options.SkipEmptyRows && rowmap.IsEmpty(record) {
			continue
		}
		result.TotalRows++
		rowNumber := i + 1 // 1-based for user-facing

		row, errs, warnings := indices.Row(record, rowNumber)
		result.Warnings = append(result.Warnings, warnings...)
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			continue
		}
		result.Rows = append(result.Rows, *row)
	}
	result.ValidRows = len(result.Rows)

	log.Debug().
		Str("sheet", sheet).
		Int("total_rows", result.TotalRows).
		Int("valid_rows", result.ValidRows).
		Msg("XLSX parsed")

	return result, nil
}

// selectSheet selects the appropriate sheet from the workbook
func (p *Parser) selectSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if p.options.Sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if strings.EqualFold(name, p.options.Sheet) {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found. Available sheets: %s", p.options.Sheet, strings.Join(sheets, ", "))
}
