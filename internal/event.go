package internal

import "time"

// Event is the canonical form of a source calendar entry after
// normalization. StartsAt is always set and always carries a timezone;
// EndsAt is the zero time when the source gave no end.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
}

// ResolvedEnd returns the event end, substituting the start for events
// without one so that duration and identity stay deterministic.
func (e Event) ResolvedEnd() time.Time {
	if e.EndsAt.IsZero() {
		return e.StartsAt
	}
	return e.EndsAt
}

func (e Event) Duration() time.Duration {
	return e.ResolvedEnd().Sub(e.StartsAt)
}

// AllDay reports whether the event spans at least one full day.
// Multi-day spans are kept as a single span.
func (e Event) AllDay() bool {
	return e.Duration() >= 24*time.Hour
}

// SourceEvent is a raw record as produced by a source provider, before
// normalization. Floating flags mark times the source gave without a
// timezone; the normalizer rewrites those into UTC.
type SourceEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string

	StartsAt      time.Time
	EndsAt        time.Time
	StartFloating bool
	EndFloating   bool
}
