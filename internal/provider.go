package internal

import (
	"context"
	"time"
)

// Window bounds the events considered in one cycle, on both the source
// and destination side.
type Window struct {
	From time.Time
	To   time.Time
}

type Mux interface {
	Get(platform string) (Destination, error)
}

// Source yields raw event records for one spec. A wholesale failure is
// signaled through the error return or the iterator's Err; there are no
// partial sequences.
type Source interface {
	Events(_ context.Context, _ *SourceSpec, _ Window) (Iterator, error)
}

// Destination is the mutable calendar the engine reconciles into.
// Events transparently paginates the full listing, tombstones included.
type Destination interface {
	Events(_ context.Context, calendarID string, from time.Time) ([]*DestEvent, error)
	Timezone(_ context.Context, calendarID string) (string, error)
	InsertEvent(_ context.Context, calendarID string, _ *DestEvent) error
	UpdateEvent(_ context.Context, calendarID, eventID string, _ *DestEvent) error
	DeleteEvent(_ context.Context, calendarID, eventID string) error
}

type Iterator interface {
	Next() bool
	Event() *SourceEvent
	Err() error
}
