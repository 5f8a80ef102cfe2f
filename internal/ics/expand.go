package ics

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

// maxInstancesPerEvent caps recurrence expansion so a pathological
// RRULE cannot flood a cycle.
const maxInstancesPerEvent = 5000

// expandEvents turns parsed VEVENTs into discrete source records within
// the window. Non-recurring events pass through when they intersect the
// window; recurring events become one record per instance, sharing the
// UID but each with its own start/end, which is what gives every
// instance a distinct derived id downstream.
func expandEvents(parsed []parsedEvent, w internal.Window) []*internal.SourceEvent {
	var out []*internal.SourceEvent
	for _, ev := range parsed {
		if ev.rrule == "" {
			if overlaps(ev.raw.StartsAt, resolvedEnd(ev.raw), w) {
				raw := ev.raw
				out = append(out, &raw)
			}
			continue
		}
		out = append(out, expandRecurring(ev, w)...)
	}
	return out
}

func expandRecurring(ev parsedEvent, w internal.Window) []*internal.SourceEvent {
	r, err := rrule.StrToRRule(ev.rrule)
	if err != nil {
		// A broken RRULE degrades to the base instance.
		if overlaps(ev.raw.StartsAt, resolvedEnd(ev.raw), w) {
			raw := ev.raw
			return []*internal.SourceEvent{&raw}
		}
		return nil
	}
	r.DTStart(ev.raw.StartsAt)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exDates {
		set.ExDate(ex.In(ev.raw.StartsAt.Location()))
	}

	loc := ev.raw.StartsAt.Location()
	starts := set.Between(w.From.In(loc), w.To.In(loc), true)
	if len(starts) > maxInstancesPerEvent {
		starts = starts[:maxInstancesPerEvent]
	}

	duration := resolvedEnd(ev.raw).Sub(ev.raw.StartsAt)
	hasEnd := !ev.raw.EndsAt.IsZero()

	out := make([]*internal.SourceEvent, 0, len(starts))
	for _, start := range starts {
		instance := ev.raw
		instance.StartsAt = start
		if hasEnd {
			instance.EndsAt = start.Add(duration)
		}
		out = append(out, &instance)
	}
	return out
}

func resolvedEnd(raw internal.SourceEvent) time.Time {
	if raw.EndsAt.IsZero() {
		return raw.StartsAt
	}
	return raw.EndsAt
}

func overlaps(start, end time.Time, w internal.Window) bool {
	if end.Before(w.From) {
		return false
	}
	if start.After(w.To) {
		return false
	}
	return true
}
