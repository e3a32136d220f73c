package identity

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Canonicalize prepends the US country calling code to a digit-only phone
// string: "+1" for bare 10-digit numbers, "+" for 11-digit numbers already
// carrying the 1. Anything else passes through unchanged, including empty.
func Canonicalize(digits string) string {
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	}
	return digits
}

// Validate parses a canonicalized phone against real numbering-plan metadata
// and returns the E.164 form, or empty when the number does not parse or is
// not a valid subscriber number. Fails open to empty on every parse error: a
// bad phone degrades the field, never the run.
func Validate(phone string) string {
	if phone == "" {
		return ""
	}
	parsed, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return ""
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// CleanPhone is the full column treatment: canonicalize then validate.
func CleanPhone(digits string) string {
	return Validate(Canonicalize(digits))
}
