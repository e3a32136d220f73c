package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcallahan/adscrub/internal/domain"
)

func event(first, last, email, phone string, at time.Time, value string) domain.Event {
	return domain.Event{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     phone,
		EventTime: at,
		Value:     decimal.RequireFromString(value),
	}
}

func TestCollapseMergesSameDayEmailPhoneMatches(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	events := []domain.Event{
		event("jo", "", "jane@example.com", "+12024561111", day.Add(18*time.Hour), "10.00"),
		event("joanne", "doe", "jane@example.com", "+12024561111", day.Add(20*time.Hour), "5.50"),
	}

	got := collapseDuplicates(events)
	if len(got) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(got))
	}
	merged := got[0]
	if merged.FirstName != "joanne" || merged.LastName != "doe" {
		t.Fatalf("expected longest names to win, got %q %q", merged.FirstName, merged.LastName)
	}
	if !merged.EventTime.Equal(day.Add(18 * time.Hour)) {
		t.Fatalf("expected earliest event time, got %v", merged.EventTime)
	}
	if merged.Value.StringFixed(2) != "15.50" {
		t.Fatalf("expected summed value 15.50, got %s", merged.Value.StringFixed(2))
	}
}

func TestCollapseLaterPassCatchesPartialIdentities(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	// The second record has no first name, so every pass keyed on first_name
	// skips it; only the phone-only pass can merge the pair.
	events := []domain.Event{
		event("bob", "smith", "", "+12024561111", day.Add(12*time.Hour), "3.00"),
		event("", "", "", "+12024561111", day.Add(13*time.Hour), "4.50"),
	}

	got := collapseDuplicates(events)
	if len(got) != 1 {
		t.Fatalf("expected phone-only pass to merge, got %d events", len(got))
	}
	if got[0].Value.StringFixed(2) != "7.50" {
		t.Fatalf("expected 7.50, got %s", got[0].Value.StringFixed(2))
	}
	if got[0].FirstName != "bob" {
		t.Fatalf("expected bob to survive the merge, got %q", got[0].FirstName)
	}
}

func TestCollapseRespectsCalendarDayBoundary(t *testing.T) {
	events := []domain.Event{
		event("jane", "doe", "jane@example.com", "+12024561111",
			time.Date(2024, 3, 5, 19, 0, 0, 0, time.UTC), "10.00"),
		event("jane", "doe", "jane@example.com", "+12024561111",
			time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC), "10.00"),
	}

	got := collapseDuplicates(events)
	if len(got) != 2 {
		t.Fatalf("expected no merge across days, got %d events", len(got))
	}
}

func TestCollapseIgnoresBlankIdentities(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	// Two anonymous walk-ins must never merge into one customer.
	events := []domain.Event{
		event("", "", "", "", day.Add(11*time.Hour), "4.00"),
		event("", "", "", "", day.Add(12*time.Hour), "6.00"),
	}

	got := collapseDuplicates(events)
	if len(got) != 2 {
		t.Fatalf("expected blank identities to stay separate, got %d events", len(got))
	}
}

func TestCollapseIsIdempotent(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	events := []domain.Event{
		event("jane", "doe", "jane@example.com", "+12024561111", day.Add(18*time.Hour), "10.00"),
		event("jane", "doe", "jane@example.com", "+12024561111", day.Add(20*time.Hour), "5.50"),
		event("bob", "smith", "bob@example.com", "", day.Add(19*time.Hour), "7.00"),
	}

	once := collapseDuplicates(events)
	twice := collapseDuplicates(append([]domain.Event(nil), once...))
	if len(once) != len(twice) {
		t.Fatalf("expected second collapse to change nothing, got %d then %d", len(once), len(twice))
	}
	for i := range once {
		if !once[i].Value.Equal(twice[i].Value) || once[i].FirstName != twice[i].FirstName {
			t.Fatalf("expected idempotent collapse, record %d differs", i)
		}
	}
}
