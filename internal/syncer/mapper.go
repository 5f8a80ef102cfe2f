package syncer

import (
	"time"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

// AttributionTitle is recorded in the source block of every event the
// engine writes, so imported events are recognizable on the destination.
const AttributionTitle = "Imported from ical-to-gcal-sync"

// Payload translates a canonical source event into the destination
// payload shape. Events spanning at least one full day become date-only
// values formatted on the instant's own calendar (all-day dates are not
// converted across timezones); anything shorter becomes date-times in
// the destination calendar's timezone. Restored events have their
// status forced back to confirmed.
func Payload(src *internal.Event, tz *time.Location, attributionURL string, restore bool) *internal.DestEvent {
	if tz == nil {
		tz = time.UTC
	}

	ev := &internal.DestEvent{
		Summary:     src.Summary,
		Description: src.Description,
		Location:    src.Location,
		Source: &internal.EventSource{
			Title: AttributionTitle,
			URL:   attributionURL,
		},
	}

	if src.AllDay() {
		ev.Start = internal.NewAllDay(src.StartsAt)
		ev.End = internal.NewAllDay(src.ResolvedEnd())
	} else {
		tzName := tz.String()
		ev.Start = internal.NewDateTime(src.StartsAt.In(tz), tzName)
		ev.End = internal.NewDateTime(src.ResolvedEnd().In(tz), tzName)
	}

	if restore {
		ev.Status = internal.StatusConfirmed
	}
	return ev
}
