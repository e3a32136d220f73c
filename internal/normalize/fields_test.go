package normalize

import (
	"testing"
	"time"
)

func TestPhoneDigits(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"(555) 123-4567", "5551234567"},
		{"555.123.4567 x9", "55512345679"},
		{"5551234567.0", "5551234567"}, // float artifact from numeric columns
		{"5.551234567e9", "5551234567"},
		{"0.0", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := PhoneDigits(tc.in); got != tc.want {
			t.Fatalf("PhoneDigits(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestParseAmountRoundsToCents(t *testing.T) {
	d, err := ParseAmount("10.004")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if d.StringFixed(2) != "10.00" {
		t.Fatalf("expected 10.00, got %s", d.StringFixed(2))
	}
}

func TestParseAmountCurrencyFormatting(t *testing.T) {
	d, err := ParseAmount("$1,234.5")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if d.StringFixed(2) != "1234.50" {
		t.Fatalf("expected 1234.50, got %s", d.StringFixed(2))
	}
}

func TestParseAmountBlankIsZero(t *testing.T) {
	d, err := ParseAmount("  ")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if !d.IsZero() {
		t.Fatalf("expected zero, got %s", d)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	if _, err := ParseAmount("ten dollars"); err == nil {
		t.Fatalf("expected error for unparseable amount")
	}
}

func TestParseTimeLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05 17:45:00", time.Date(2024, 3, 5, 17, 45, 0, 0, time.UTC)},
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"3/5/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.in)
		if err != nil {
			t.Fatalf("ParseTime(%q) returned error: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseTime(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	if _, err := ParseTime("yesterday"); err == nil {
		t.Fatalf("expected error for unrecognized timestamp")
	}
	if _, err := ParseTime(""); err == nil {
		t.Fatalf("expected error for empty timestamp")
	}
}
