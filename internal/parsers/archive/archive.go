// Package archive expands ZIP bundles of price lists. Chains commonly
// publish one archive holding a file per store.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kosarica/basket-service/internal/types"
)

// Options limits what an archive may expand to.
type Options struct {
	MaxFileSize  int64 // per member, 0 = unlimited
	MaxTotalSize int64 // all members, 0 = unlimited
	MaxFiles     int   // 0 = unlimited
	SkipPatterns []string
}

// DefaultOptions returns default limits.
func DefaultOptions() Options {
	return Options{
		MaxFileSize:  100 << 20,
		MaxTotalSize: 1 << 30,
		MaxFiles:     10000,
		SkipPatterns: []string{"__MACOSX", ".DS_Store", "Thumbs.db", "desktop.ini"},
	}
}

// Member is a price-list file extracted from an archive.
type Member struct {
	Name    string
	Type    types.FileType
	Content []byte
	Hash    string
}

// Expand extracts the CSV and XLSX members of a ZIP archive in memory.
// Other members and system files are skipped. Names are flattened to their
// base name.
func Expand(ctx context.Context, content []byte, opts Options) ([]Member, error) {
	// ErrInsecurePath still returns a usable reader; unsafe names are
	// rejected per entry below.
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("failed to open ZIP: %w", err)
	}

	var (
		members   []Member
		totalSize int64
	)
	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if file.FileInfo().IsDir() || skip(file.Name, opts.SkipPatterns) {
			continue
		}
		name, err := sanitizeFilename(file.Name)
		if err != nil {
			log.Warn().Str("entry", file.Name).Err(err).Msg("Skipping unsafe archive entry")
			continue
		}
		fileType, ok := memberType(name)
		if !ok {
			continue
		}

		if opts.MaxFiles > 0 && len(members) >= opts.MaxFiles {
			return nil, fmt.Errorf("too many files in archive (limit: %d)", opts.MaxFiles)
		}
		if opts.MaxFileSize > 0 && int64(file.UncompressedSize64) > opts.MaxFileSize {
			return nil, fmt.Errorf("file %s exceeds maximum size (%d > %d)", name, file.UncompressedSize64, opts.MaxFileSize)
		}

		data, err := readLimited(file, name, opts.MaxFileSize)
		if err != nil {
			return nil, err
		}
		totalSize += int64(len(data))
		if opts.MaxTotalSize > 0 && totalSize > opts.MaxTotalSize {
			return nil, fmt.Errorf("total extracted size exceeds maximum (%d > %d)", totalSize, opts.MaxTotalSize)
		}

		sum := sha256.Sum256(data)
		members = append(members, Member{
			Name:    name,
			Type:    fileType,
			Content: data,
			Hash:    hex.EncodeToString(sum[:]),
		})
	}
	return members, nil
}

// readLimited reads a member, enforcing the actual size and not just the
// size declared in the archive header.
func readLimited(file *zip.File, name string, limit int64) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in ZIP: %w", name, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if limit > 0 {
		r = io.LimitReader(rc, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from ZIP: %w", name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("file %s exceeds maximum size (actual data > %d bytes)", name, limit)
	}
	return data, nil
}

// sanitizeFilename rejects absolute and escaping paths (zip slip) and
// returns the base name.
func sanitizeFilename(filename string) (string, error) {
	if path.IsAbs(filename) || filepath.IsAbs(filename) {
		return "", fmt.Errorf("absolute path not allowed: %s", filename)
	}
	if len(filename) >= 2 && filename[1] == ':' {
		return "", fmt.Errorf("drive letter not allowed: %s", filename)
	}
	filename = strings.ReplaceAll(filename, "\\", "/")

	cleaned := path.Clean(filename)
	if strings.HasPrefix(cleaned, "..") || strings.HasPrefix(cleaned, "/") {
		return "", fmt.Errorf("path traversal not allowed: %s", filename)
	}
	for _, part := range strings.Split(cleaned, "/") {
		if part == ".." {
			return "", fmt.Errorf("path traversal not allowed: %s", filename)
		}
	}

	base := path.Base(cleaned)
	if base == "." || base == "/" || base == "" {
		return "", fmt.Errorf("invalid filename: %s", filename)
	}
	return base, nil
}

func skip(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

func memberType(name string) (types.FileType, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".tsv":
		return types.FileTypeCSV, true
	case ".xlsx", ".xlsm":
		return types.FileTypeXLSX, true
	default:
		return "", false
	}
}
