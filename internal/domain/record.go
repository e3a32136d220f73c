package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant selects which cleaning pipeline a run uses.
type Variant string

const (
	VariantRestaurant Variant = "restaurant"
	VariantGym        Variant = "gym"
)

// AcceptedStatuses are the restaurant payment statuses that count toward the
// run. Everything else (VOID, DENIED, ...) is excluded before any totals are
// captured.
var AcceptedStatuses = map[string]struct{}{
	"CAPTURED":   {},
	"AUTHORIZED": {},
	"OPEN":       {},
}

// Event is the canonical customer event produced by the pipeline. One Event
// corresponds to one real customer visit after grouping and deduplication.
type Event struct {
	OrderID   int
	FirstName string
	LastName  string
	City      string
	State     string
	Zip       string
	Email     string
	Phone     string
	EventTime time.Time
	Value     decimal.Decimal

	// SourceKey ties the event back to the raw order it was grouped from.
	// Internal only; never exported.
	SourceKey string
}

// EventDate is the calendar day of the event, used as the duplicate-detection
// window by the collapse passes.
func (e Event) EventDate() string {
	return e.EventTime.Format("2006-01-02")
}

// TabRow is one raw row of a restaurant tab export after field normalization.
type TabRow struct {
	TabName     string
	OrderNumber string
	Phone       string // digits only, or empty
	Email       string
	PaidAt      time.Time
	OrderedAt   time.Time
	Amount      decimal.Decimal
	Status      string
	Location    string
}

// EventTime is the earlier of the paid and order timestamps. Zero-valued
// timestamps lose to any real one.
func (r TabRow) EventTime() time.Time {
	if r.PaidAt.IsZero() {
		return r.OrderedAt
	}
	if r.OrderedAt.IsZero() {
		return r.PaidAt
	}
	if r.PaidAt.Before(r.OrderedAt) {
		return r.PaidAt
	}
	return r.OrderedAt
}

// MemberRow is one raw row of a gym membership export after field
// normalization. Sign-ups are assumed unique per person per day, so no
// cross-row grouping applies.
type MemberRow struct {
	FirstName string
	LastName  string
	City      string
	State     string
	Zip       string
	Email     string
	HomePhone string // digits only, or empty
	CellPhone string // digits only, or empty
	JoinedAt  time.Time
}
