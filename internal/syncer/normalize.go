package syncer

import (
	"time"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

// Filter is a user-supplied per-event hook. It may modify the event in
// place and decides whether the event is synced at all. Filter failures
// are non-fatal: the event is logged and kept as-is.
type Filter func(*internal.Event) (keep bool, err error)

// Normalize converts a raw source record into its canonical form.
// Floating times, which the source gave without a timezone, are pinned
// to UTC wall-clock rather than the local system zone.
func Normalize(raw *internal.SourceEvent) *internal.Event {
	ev := &internal.Event{
		UID:         raw.UID,
		Summary:     raw.Summary,
		Description: raw.Description,
		Location:    raw.Location,
		StartsAt:    raw.StartsAt,
		EndsAt:      raw.EndsAt,
	}
	if raw.StartFloating {
		ev.StartsAt = coerceUTC(ev.StartsAt)
	}
	if raw.EndFloating && !ev.EndsAt.IsZero() {
		ev.EndsAt = coerceUTC(ev.EndsAt)
	}
	return ev
}

func coerceUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// collectEvents drains the source iterator, normalizing every record
// and applying the configured filter. The sequence is one-pass and
// finite; a wholesale source failure surfaces through the iterator's
// Err and aborts the cycle.
func (s *Syncer) collectEvents(it internal.Iterator, spec *SourceSpec) ([]*internal.Event, error) {
	var events []*internal.Event
	for it.Next() {
		ev := Normalize(it.Event())
		if s.Filter != nil {
			keep, err := s.Filter(ev)
			if err != nil {
				logf(s.output, spec, "Unable to filter event %q, keeping it as-is: %v", ev.Summary, err)
			} else if !keep {
				continue
			}
		}
		events = append(events, ev)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
