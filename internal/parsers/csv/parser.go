// Package csv parses price-list CSV exports into catalog rows.
package csv

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kosarica/basket-service/internal/parsers/charset"
	"github.com/kosarica/basket-service/internal/parsers/rowmap"
	"github.com/kosarica/basket-service/internal/types"
)

// Options represents CSV parser options. Zero Delimiter or Encoding means
// detect from content.
type Options struct {
	Delimiter     Delimiter        `json:"delimiter,omitempty"`
	Encoding      charset.Encoding `json:"encoding,omitempty"`
	Mapping       rowmap.Mapping   `json:"mapping,omitempty"`
	SkipEmptyRows bool             `json:"skipEmptyRows,omitempty"`
	QuoteChar     rune             `json:"quoteChar,omitempty"`
}

// DefaultOptions returns default CSV parser options
func DefaultOptions() Options {
	return Options{
		Mapping:       rowmap.DefaultMapping(),
		SkipEmptyRows: true,
		QuoteChar:     '"',
	}
}

// Parser implements CSV parsing with encoding detection and column mapping
type Parser struct {
	options Options
}

// NewParser creates a new CSV parser with the given options
func NewParser(options Options) *Parser {
	if options.QuoteChar == 0 {
		options.QuoteChar = '"'
	}
	if options.Mapping == nil {
		options.Mapping = rowmap.DefaultMapping()
	}
	return &Parser{options: options}
}

// Parse parses CSV content. Structural problems (undecodable content, a
// header without the required columns) are returned as errors; bad rows are
// reported in the result and skipped.
func (p *Parser) Parse(content []byte) (*types.ParseResult, error) {
	opts := p.options

	enc := opts.Encoding
	if enc == "" {
		enc = charset.DetectEncoding(content)
	}
	decoded, err := charset.Decode(content, enc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	if opts.Delimiter == "" {
		opts.Delimiter = DetectDelimiter(decoded)
	}
	delim, _ := utf8FirstRune(string(opts.Delimiter))

	lines := splitLines(decoded)
	result := &types.ParseResult{
		Rows:     make([]types.CatalogRow, 0),
		Errors:   make([]types.ParseError, 0),
		Warnings: make([]types.ParseWarning, 0),
	}

	headerLine := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			headerLine = i
			break
		}
	}
	if headerLine < 0 {
		return result, nil
	}

	headers := SplitLine(lines[headerLine], delim, opts.QuoteChar)
	indices, err := opts.Mapping.Resolve(headers)
	if err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}

	for i := headerLine + 1; i < len(lines); i++ {
		record := SplitLine(lines[i], delim, opts.QuoteChar)
		if opts.SkipEmptyRows && rowmap.IsEmpty(record) {
			continue
		}
		result.TotalRows++
		rowNumber := i + 1

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
		Str("encoding", string(enc)).
		Str("delimiter", string(opts.Delimiter)).
		Int("total_rows", result.TotalRows).
		Int("valid_rows", result.ValidRows).
		Msg("CSV parsed")

	return result, nil
}

func utf8FirstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return ',', false
}
