package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcallahan/adscrub/internal/domain"
)

// minValue is the floor applied to non-positive event values: the downstream
// ad platform rejects events without a strictly positive value.
var minValue = decimal.New(1, -2) // 0.01

// TotalMismatchError reports a broken value-conservation invariant: the
// cleaned output no longer sums to the accepted input total. This is the one
// error the pipeline must never swallow; both totals go to the caller for
// investigation.
type TotalMismatchError struct {
	Baseline decimal.Decimal
	Final    decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("cleaned total %s does not match accepted input total %s",
		e.Final.StringFixed(2), e.Baseline.StringFixed(2))
}

// checkTotals compares the summed output values against the baseline captured
// after status filtering. It runs before floorValues: the 0.01 adjustment is
// a known, intentional distortion and must not trip the guard.
func checkTotals(events []domain.Event, baseline decimal.Decimal) error {
	total := decimal.Zero
	for _, ev := range events {
		total = total.Add(ev.Value)
	}
	total = total.Round(2)
	if !total.Equal(baseline.Round(2)) {
		return &TotalMismatchError{Baseline: baseline, Final: total}
	}
	return nil
}

// floorValues forces non-positive values up to 0.01 and reports how many rows
// were adjusted.
func floorValues(events []domain.Event) int {
	floored := 0
	for i := range events {
		if events[i].Value.Sign() <= 0 {
			events[i].Value = minValue
			floored++
		}
	}
	return floored
}
