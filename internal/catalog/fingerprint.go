package catalog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

const (
	// FingerprintVersion is bumped whenever the canonical form changes.
	FingerprintVersion = 1

	// noPromotion marks entries without a promotion. It must differ from any
	// promotion encoding so "no promo" and "zero-valued promo" hash apart.
	noPromotion = "N"
)

// ComputeFingerprint returns a deterministic hash of the pricing content of
// a set of entries. Entry order does not matter. Prices are compared by
// value, so 2.0 and 2.00 hash the same. Timestamps are ignored.
func ComputeFingerprint(entries []PriceEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		promo := noPromotion
		if e.Promotion != nil {
			promo = fmt.Sprintf("%s/%s", e.Promotion.Kind, e.Promotion.Value.String())
		}
		avail := 0
		if e.Available {
			avail = 1
		}
		lines = append(lines, fmt.Sprintf("%s:%s:%s:%d:%s", e.StoreID, e.ProductID, e.Price.String(), avail, promo))
	}
	sort.Strings(lines)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "v%d\n", FingerprintVersion)
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns the hash of the snapshot's price entries. Two
// snapshots with the same fingerprint quote every basket identically,
// given the same store metadata.
func (s *Snapshot) Fingerprint() string {
	return s.fingerprint
}
