// Package normalize cleans individual scalar fields of a raw export:
// timestamps, phone digit strings, and monetary amounts.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05.000000",
	"2006-01-02 15:04",
	"2006/01/02",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
}

var nonDigit = regexp.MustCompile(`\D`)

// ParseTime parses a timestamp cell against the known export layouts. The
// result is timezone-naive; exports never carry zone information.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format %q", raw)
}

// PhoneDigits coerces a raw phone cell to a pure digit string. Exports that
// store phones as numbers arrive with float artifacts ("5551234567.0"); those
// go through an integer representation before stripping non-digits.
func PhoneDigits(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.ContainsAny(raw, ".eE") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			if f == 0 {
				return ""
			}
			raw = strconv.FormatInt(int64(f), 10)
		}
	}
	return nonDigit.ReplaceAllString(raw, "")
}

// ParseAmount parses a monetary cell, rounding to cents immediately. Blank
// cells read as zero, the numeric null fill.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return d.Round(2), nil
}
