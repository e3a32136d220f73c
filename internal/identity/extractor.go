// Package identity derives customer identity fields (name, phone) from the
// noisy free-text fields of a POS export.
package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	uberPattern    = regexp.MustCompile(`UBER\S+\s(.*)`)
	courierPattern = regexp.MustCompile(`(DD|CAV)\s\S*\s(.*)`)
	grubhubPattern = regexp.MustCompile(`(?i)grubhub`)
	digitRuns      = regexp.MustCompile(`\d+`)
	edgePunct      = regexp.MustCompile(`^[^a-zA-Z]*|[^a-zA-Z]*$`)
	spaceRuns      = regexp.MustCompile(`\s+`)
)

// Extractor cleans raw tab names into display names.
type Extractor struct {
	deny *DenyList
}

func NewExtractor(deny *DenyList) *Extractor {
	if deny == nil {
		deny = DefaultDenyList()
	}
	return &Extractor{deny: deny}
}

// CleanResult is the outcome of the tab-name cascade. DropPhone is set when
// the row came through a delivery platform whose phone belongs to the
// platform, not the customer.
type CleanResult struct {
	Name      string
	DropPhone bool
}

// Clean runs the tab-name cascade. The steps are order-sensitive: the
// deny-list and vehicle-suffix checks assume digits were already stripped and
// the text lowercased, so they must not be reordered.
func (e *Extractor) Clean(raw string) CleanResult {
	name := raw
	var dropPhone bool

	// Delivery-platform artifacts first. UBER and DD/CAV tabs carry the
	// courier's phone, so the row's phone is suppressed entirely.
	switch {
	case strings.Contains(name, "UBER"):
		if m := uberPattern.FindStringSubmatch(name); m != nil {
			name = m[1]
		}
		dropPhone = true
	case strings.Contains(name, "DD") || strings.Contains(name, "CAV"):
		if m := courierPattern.FindStringSubmatch(name); m != nil {
			name = m[2]
		}
		dropPhone = true
	case grubhubPattern.MatchString(name):
		name = strings.TrimSpace(grubhubPattern.ReplaceAllString(name, ""))
	}

	name = strings.ToLower(strings.TrimSpace(digitRuns.ReplaceAllString(name, "")))

	if e.deny.Blocked(name) {
		return CleanResult{DropPhone: dropPhone}
	}
	// Single characters are useless as identifiers and break grouping.
	if utf8.RuneCountInString(name) == 1 {
		return CleanResult{DropPhone: dropPhone}
	}
	// "shellfish allergy" and friends show up as tab names often enough to
	// warrant their own rule.
	if strings.Contains(name, " allergy") {
		return CleanResult{DropPhone: dropPhone}
	}

	return CleanResult{Name: name, DropPhone: dropPhone}
}

// Polish strips leading/trailing non-alphabetic characters and collapses
// whitespace runs. Applied after grouping, on the surviving longest name.
func Polish(name string) string {
	name = edgePunct.ReplaceAllString(name, "")
	return spaceRuns.ReplaceAllString(name, " ")
}

// SplitName splits a polished display name into first and last tokens. A
// comma means "Last, First"; otherwise the first whitespace separates first
// name from the remainder. Single tokens have no last name.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	if ln, fn, found := strings.Cut(name, ","); found {
		return strings.TrimSpace(fn), strings.TrimSpace(ln)
	}
	fn, ln, _ := strings.Cut(name, " ")
	return strings.TrimSpace(fn), strings.TrimSpace(ln)
}
