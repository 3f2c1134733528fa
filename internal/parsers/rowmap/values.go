package rowmap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseBool parses an availability flag. Empty means available.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "1", "true", "yes", "y", "da", "x":
		return true, nil
	case "0", "false", "no", "n", "ne":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", value)
	}
}

// ParseFloat parses a coordinate or distance, accepting a decimal comma.
func ParseFloat(value string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	return f, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"02.01.2006.",
	"02/01/2006",
	"02-01-2006",
}

// ParseDate parses the date formats seen in price lists, including Excel
// serial day numbers.
func ParseDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, ok := excelDateToTime(serial); ok {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// excelDateToTime converts an Excel serial date. Excel counts 1900 as a
// leap year, so serials after 59 are one day ahead.
func excelDateToTime(serial float64) (time.Time, bool) {
	if serial < 1 || serial > 2958465 { // 9999-12-31
		return time.Time{}, false
	}
	if serial > 59 {
		serial--
	}
	epoch := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	return epoch.Add(time.Duration(serial * 24 * float64(time.Hour))), true
}
