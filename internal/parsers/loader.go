// Package parsers turns price-list files into catalog snapshots.
package parsers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/fetch"
	"github.com/kosarica/basket-service/internal/parsers/archive"
	"github.com/kosarica/basket-service/internal/parsers/csv"
	"github.com/kosarica/basket-service/internal/parsers/xlsx"
	"github.com/kosarica/basket-service/internal/types"
)

// DetectFileType picks a parser from the file extension. Remote sources are
// matched on their URL path, ignoring the query string.
func DetectFileType(filename string) (types.FileType, error) {
	if IsRemote(filename) {
		if u, err := url.Parse(filename); err == nil {
			filename = u.Path
		}
	}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt", ".tsv":
		return types.FileTypeCSV, nil
	case ".xlsx", ".xlsm":
		return types.FileTypeXLSX, nil
	case ".zip":
		return types.FileTypeZIP, nil
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
}

// IsRemote reports whether a catalog source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Parse parses content of the given type with default options.
func Parse(content []byte, fileType types.FileType) (*types.ParseResult, error) {
	switch fileType {
	case types.FileTypeCSV:
		return csv.NewParser(csv.DefaultOptions()).Parse(content)
	case types.FileTypeXLSX:
		return xlsx.NewParser(xlsx.DefaultOptions()).Parse(content)
	default:
		return nil, fmt.Errorf("unsupported file type %q", fileType)
	}
}

// ParseFile reads and parses a local price-list file. Archives are not
// accepted here; they hold several files and go through FileLoader.
func ParseFile(path string) (*types.ParseResult, error) {
	fileType, err := DetectFileType(path)
	if err != nil {
		return nil, err
	}
	if fileType == types.FileTypeZIP {
		return nil, fmt.Errorf("%s: archives must be loaded as a catalog source", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	res, err := Parse(content, fileType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// FileLoader loads a catalog snapshot from price-list sources. A source is a
// local path or an http(s) URL, pointing at a CSV, XLSX or ZIP bundle of
// those. It satisfies catalog.Loader, so a Provider can refresh from it.
type FileLoader struct {
	sources []string
	strict  bool
	fetcher *fetch.Client
	archive archive.Options
	logger  zerolog.Logger
}

// NewFileLoader creates a loader over one or more sources, read in order. In
// strict mode any rejected row fails the load; otherwise rejected rows are
// logged and skipped.
func NewFileLoader(strict bool, sources ...string) *FileLoader {
	return &FileLoader{
		sources: sources,
		strict:  strict,
		fetcher: fetch.NewClient(fetch.DefaultConfig()),
		archive: archive.DefaultOptions(),
		logger:  log.With().Str("component", "file_loader").Logger(),
	}
}

// WithFetcher sets the client used for remote sources.
func (l *FileLoader) WithFetcher(c *fetch.Client) *FileLoader {
	l.fetcher = c
	return l
}

// WithArchiveOptions sets the limits applied when expanding ZIP bundles.
func (l *FileLoader) WithArchiveOptions(opts archive.Options) *FileLoader {
	l.archive = opts
	return l
}

// Load parses every source and assembles a snapshot.
func (l *FileLoader) Load(ctx context.Context) (*catalog.Snapshot, error) {
	if len(l.sources) == 0 {
		return nil, fmt.Errorf("no catalog files configured")
	}

	var rows []types.CatalogRow
	for _, source := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileType, err := DetectFileType(source)
		if err != nil {
			return nil, err
		}
		content, err := l.read(ctx, source)
		if err != nil {
			return nil, err
		}

		if fileType != types.FileTypeZIP {
			parsed, err := l.parse(source, content, fileType)
			if err != nil {
				return nil, err
			}
			rows = append(rows, parsed...)
			continue
		}

		members, err := archive.Expand(ctx, content, l.archive)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		if len(members) == 0 {
			return nil, fmt.Errorf("%s: archive holds no price lists", source)
		}
		l.logger.Debug().Str("file", source).Int("members", len(members)).Msg("Expanded archive")
		for _, m := range members {
			parsed, err := l.parse(source+"!"+m.Name, m.Content, m.Type)
			if err != nil {
				return nil, err
			}
			rows = append(rows, parsed...)
		}
	}

	snap, err := catalog.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return snap, nil
}

func (l *FileLoader) read(ctx context.Context, source string) ([]byte, error) {
	if !IsRemote(source) {
		content, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return content, nil
	}
	content, err := l.fetcher.Get(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	return content, nil
}

func (l *FileLoader) parse(label string, content []byte, fileType types.FileType) ([]types.CatalogRow, error) {
	res, err := Parse(content, fileType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	if err := l.check(label, res); err != nil {
		return nil, err
	}
	return res.Rows, nil
}

func (l *FileLoader) check(path string, res *types.ParseResult) error {
	for _, w := range res.Warnings {
		ev := l.logger.Warn().Str("file", path)
		if w.RowNumber != nil {
			ev = ev.Int("row", *w.RowNumber)
		}
		if w.Field != nil {
			ev = ev.Str("field", *w.Field)
		}
		ev.Msg(w.Message)
	}
	if len(res.Errors) == 0 {
		return nil
	}
	first := res.Errors[0]
	if l.strict {
		if first.RowNumber != nil {
			return fmt.Errorf("%s: row %d: %s (%d rejected rows)", path, *first.RowNumber, first.Message, len(res.Errors))
		}
		return fmt.Errorf("%s: %s", path, first.Message)
	}
	if res.ValidRows == 0 {
		return fmt.Errorf("%s: no valid rows (%d errors, first: %s)", path, len(res.Errors), first.Message)
	}
	l.logger.Warn().
		Str("file", path).
		Int("rejected", len(res.Errors)).
		Int("valid", res.ValidRows).
		Msg("Skipped invalid price-list rows")
	return nil
}
