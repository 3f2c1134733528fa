// Package ids generates short, prefixed, time-sortable identifiers for
// baskets and other records kept in blob storage.
package ids

import (
	"crypto/rand"
	"strings"
	"time"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	timestampLen = 6
	randomLen    = 16
)

// EncodeTimestamp renders unix seconds as a fixed-width base62 string that
// sorts lexicographically in time order.
func EncodeTimestamp(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	out := make([]byte, timestampLen)
	for i := timestampLen - 1; i >= 0; i-- {
		out[i] = alphabet[seconds%62]
		seconds /= 62
	}
	return string(out)
}

// randomString returns n uniformly distributed base62 characters. Each random
// byte is masked to 6 bits and values >= 62 are rejected.
func randomString(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	buf := make([]byte, n+8)
	for sb.Len() < n {
		if _, err := rand.Read(buf); err != nil {
			panic("ids: crypto/rand failed: " + err.Error())
		}
		for _, b := range buf {
			v := b & 0x3f
			if v >= 62 {
				continue
			}
			sb.WriteByte(alphabet[v])
			if sb.Len() == n {
				break
			}
		}
	}
	return sb.String()
}

// New returns prefix_<timestamp><random>.
func New(prefix string) string {
	return NewAt(prefix, time.Now())
}

// NewAt is New with an explicit clock reading.
func NewAt(prefix string, t time.Time) string {
	id := EncodeTimestamp(t.Unix()) + randomString(randomLen)
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}

// Valid reports whether id looks like something New(prefix) produced.
func Valid(prefix, id string) bool {
	if prefix != "" {
		if !strings.HasPrefix(id, prefix+"_") {
			return false
		}
		id = id[len(prefix)+1:]
	}
	if len(id) != timestampLen+randomLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return false
		}
	}
	return true
}
