package csv

import (
	"strings"
	"unicode/utf8"
)

// Delimiter represents a supported CSV delimiter
type Delimiter string

const (
	DelimiterComma     Delimiter = ","
	DelimiterSemicolon Delimiter = ";"
	DelimiterTab       Delimiter = "\t"
)

// DetectDelimiter picks the delimiter that splits the first few lines most
// consistently.
func DetectDelimiter(content string) Delimiter {
	sample := make([]string, 0, 5)
	for _, line := range splitLines(content) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sample = append(sample, trimmed)
			if len(sample) == 5 {
				break
			}
		}
	}
	if len(sample) == 0 {
		return DelimiterComma
	}

	best := DelimiterComma
	bestScore := 0.0
	for _, delim := range []Delimiter{DelimiterComma, DelimiterSemicolon, DelimiterTab} {
		counts := make([]int, len(sample))
		sum := 0
		for i, line := range sample {
			counts[i] = strings.Count(line, string(delim))
			sum += counts[i]
		}
		avg := float64(sum) / float64(len(counts))
		if avg == 0 {
			continue
		}
		variance := 0.0
		for _, c := range counts {
			diff := float64(c) - avg
			variance += diff * diff
		}
		variance /= float64(len(counts))

		if score := avg / (1.0 + variance); score > bestScore {
			bestScore = score
			best = delim
		}
	}
	return best
}

// SplitLine splits a CSV line handling quoted fields and doubled quotes.
func SplitLine(line string, delimiter rune, quoteChar rune) []string {
	fields := make([]string, 0, 16)
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); {
		r, width := utf8.DecodeRuneInString(line[i:])
		i += width

		if inQuotes {
			if r == quoteChar {
				if next, w := utf8.DecodeRuneInString(line[i:]); i < len(line) && next == quoteChar {
					current.WriteRune(quoteChar)
					i += w
					continue
				}
				inQuotes = false
				continue
			}
			current.WriteRune(r)
			continue
		}

		switch r {
		case quoteChar:
			inQuotes = true
		case delimiter:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, current.String())
}

// splitLines splits content into lines handling different line endings
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}
