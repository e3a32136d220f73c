package identity

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024561111", "+12024561111"},
		{"12024561111", "+12024561111"},
		{"44123456789", "44123456789"}, // 11 digits, not US-prefixed
		{"123", "123"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Canonicalize(tc.in); got != tc.want {
			t.Fatalf("Canonicalize(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestCleanPhoneValidNumber(t *testing.T) {
	if got := CleanPhone("2024561111"); got != "+12024561111" {
		t.Fatalf("expected +12024561111, got %q", got)
	}
}

func TestCleanPhoneBlanksInvalidNumbers(t *testing.T) {
	// Area codes cannot start with 1, and short strings cannot parse at all.
	for _, in := range []string{"1234567890", "123", "55"} {
		if got := CleanPhone(in); got != "" {
			t.Fatalf("expected %q to blank, got %q", in, got)
		}
	}
}

func TestCleanPhoneEmptyStaysEmpty(t *testing.T) {
	if got := CleanPhone(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
