package recognition

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonDigitRe    = regexp.MustCompile(`[^0-9]`)
	placeholderRe = regexp.MustCompile(`^0+$`)
)

// NormalizeBarcode strips scanner noise and widens UPC-A to EAN-13. It
// returns "" for placeholder codes and EAN-13 codes with a bad check digit.
// Shorter internal codes are returned as-is.
func NormalizeBarcode(barcode string) string {
	bc := nonDigitRe.ReplaceAllString(barcode, "")
	if bc == "" || placeholderRe.MatchString(bc) {
		return ""
	}
	if len(bc) == 12 {
		bc = "0" + bc
	}
	if len(bc) == 13 && !validEAN13(bc) {
		return ""
	}
	return bc
}

func validEAN13(bc string) bool {
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(bc[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return int(bc[12]-'0') == (10-(sum%10))%10
}

// barcodeCandidates lists the spellings a catalog may use for one code.
func barcodeCandidates(raw string) []string {
	out := []string{strings.TrimSpace(raw)}
	n := NormalizeBarcode(raw)
	if n == "" {
		return out
	}
	if n != out[0] {
		out = append(out, n)
	}
	if len(n) == 13 && n[0] == '0' {
		out = append(out, n[1:])
	}
	return out
}

var diacritics = strings.NewReplacer(
	"č", "c", "Č", "C",
	"ć", "c", "Ć", "C",
	"đ", "dj", "Đ", "Dj",
	"š", "s", "Š", "S",
	"ž", "z", "Ž", "Z",
)

// foldText lowercases, strips diacritics and splits into word tokens.
func foldText(s string) []string {
	s = diacritics.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(t, s)
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
