package pipeline

import (
	"sort"
	"time"

	"github.com/jcallahan/adscrub/internal/domain"
)

// collisionStep is how far an event is pushed when it collides with another
// event sharing the same identity value and timestamp.
const collisionStep = 2 * time.Minute

func sortByEventTime(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventTime.Before(events[j].EventTime)
	})
}

func sortByEventTimeAndPhone(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].EventTime.Equal(events[j].EventTime) {
			return events[i].EventTime.Before(events[j].EventTime)
		}
		return events[i].Phone < events[j].Phone
	})
}

// assignOrderIDs numbers events 1..N in their current (sorted) order.
func assignOrderIDs(events []domain.Event) {
	for i := range events {
		events[i].OrderID = i + 1
	}
}

// resolveCollisions pushes later events forward in 2-minute steps until no
// two events share both a non-empty identity value and a timestamp. Each
// increment can create a new collision further down the sequence, so the scan
// repeats until a pass changes nothing. The loop is bounded by the record
// count as a termination guarantee; the strictly monotonic pushes make the
// bound unreachable on real data.
func resolveCollisions(events []domain.Event, dim func(domain.Event) string) {
	for iter := 0; iter <= len(events); iter++ {
		seen := make(map[string]bool, len(events))
		changed := false
		for i := range events {
			v := dim(events[i])
			if v == "" {
				continue
			}
			key := v + "\x1f" + events[i].EventTime.Format("2006-01-02 15:04:05")
			if seen[key] {
				events[i].EventTime = events[i].EventTime.Add(collisionStep)
				changed = true
				continue
			}
			seen[key] = true
		}
		if !changed {
			return
		}
	}
}
