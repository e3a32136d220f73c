package pipeline

import (
	"strings"

	"github.com/jcallahan/adscrub/internal/domain"
)

// field names one identity dimension of a collapse pass.
type field int

const (
	fieldEmail field = iota
	fieldPhone
	fieldFirst
	fieldLast
	fieldTime
)

// cascade is the fixed pass order for the cross-order same-customer collapse.
// Each pass sees the output of the previous one, so the wider keys late in
// the list can re-trigger merges the narrow early keys missed. Reordering
// changes the result; do not touch.
var cascade = [][]field{
	{fieldEmail, fieldPhone},
	{fieldPhone, fieldFirst},
	{fieldEmail, fieldFirst},
	{fieldPhone},
	{fieldEmail},
	{fieldFirst, fieldLast},
	{fieldTime, fieldFirst},
}

// collapseDuplicates merges same-customer, same-day events split across
// multiple tabs. Pure: returns a fresh slice sorted by event time.
func collapseDuplicates(events []domain.Event) []domain.Event {
	for _, key := range cascade {
		events = collapsePass(events, key)
	}
	return events
}

func collapsePass(events []domain.Event, key []field) []domain.Event {
	type cluster struct {
		first   int // first index seen, for deterministic output order
		members []int
	}
	byKey := make(map[string]*cluster)
	var order []string

	for i, ev := range events {
		k, ok := passKey(ev, key)
		if !ok {
			continue
		}
		c, seen := byKey[k]
		if !seen {
			c = &cluster{first: i}
			byKey[k] = c
			order = append(order, k)
		}
		c.members = append(c.members, i)
	}

	drop := make(map[int]bool)
	var merged []domain.Event
	for _, k := range order {
		c := byKey[k]
		if len(c.members) < 2 {
			continue
		}
		merged = append(merged, mergeCluster(events, c.members))
		for _, i := range c.members {
			drop[i] = true
		}
	}
	if len(merged) == 0 {
		return events
	}

	out := make([]domain.Event, 0, len(events))
	for i, ev := range events {
		if !drop[i] {
			out = append(out, ev)
		}
	}
	out = append(out, merged...)
	sortByEventTime(out)
	return out
}

// passKey builds the duplicate-detection key for one event. The calendar date
// is always part of the key: the collapse only merges same-day events. Every
// key field must be non-empty for the event to participate in the pass.
func passKey(ev domain.Event, key []field) (string, bool) {
	parts := make([]string, 0, len(key)+1)
	parts = append(parts, ev.EventDate())
	for _, f := range key {
		var v string
		switch f {
		case fieldEmail:
			v = ev.Email
		case fieldPhone:
			v = ev.Phone
		case fieldFirst:
			v = ev.FirstName
		case fieldLast:
			v = ev.LastName
		case fieldTime:
			v = ev.EventTime.Format("2006-01-02 15:04:05")
		}
		if v == "" {
			return "", false
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "\x1f"), true
}

// mergeCluster collapses a duplicate cluster into one event: longest identity
// strings, earliest event time, summed value. Uniform fields (city, state,
// zip) come from the first member.
func mergeCluster(events []domain.Event, members []int) domain.Event {
	out := events[members[0]]
	for _, i := range members[1:] {
		ev := events[i]
		out.Email = longer(out.Email, ev.Email)
		out.Phone = longer(out.Phone, ev.Phone)
		out.FirstName = longer(out.FirstName, ev.FirstName)
		out.LastName = longer(out.LastName, ev.LastName)
		out.EventTime = earlier(out.EventTime, ev.EventTime)
		out.Value = out.Value.Add(ev.Value)
	}
	out.Value = out.Value.Round(2)
	return out
}
