package internal

import "time"

// Destination event statuses. Deleting an event on the destination only
// marks it cancelled; the tombstone sticks around and is re-listed on
// later cycles.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// DateFormat is the date-only layout used for all-day destination times.
const DateFormat = "2006-01-02"

// EventTime is one side of a destination event span: either a date-only
// value (all-day events) or a date-time with timezone.
type EventTime struct {
	Date     string
	DateTime time.Time
	TimeZone string
}

// NewAllDay formats t as a date-only value on t's own calendar.
func NewAllDay(t time.Time) EventTime {
	return EventTime{Date: t.Format(DateFormat)}
}

func NewDateTime(t time.Time, tz string) EventTime {
	return EventTime{DateTime: t, TimeZone: tz}
}

func (t EventTime) IsZero() bool {
	return t.Date == "" && t.DateTime.IsZero()
}

// Resolve reduces either representation to a single instant for
// comparison. Date-only values resolve to midnight UTC; all-day dates
// are never converted across timezones.
func (t EventTime) Resolve() time.Time {
	if t.Date != "" {
		parsed, err := time.ParseInLocation(DateFormat, t.Date, time.UTC)
		if err != nil {
			return time.Time{}
		}
		return parsed
	}
	return t.DateTime
}

// EventSource is the attribution block the engine sets on events it
// creates or updates.
type EventSource struct {
	Title string
	URL   string
}

// DestEvent is a destination calendar entry, restricted to the fields
// the engine reads and writes. It doubles as the mutation payload shape:
// inserts carry the derived id in ID, updates leave Status empty unless
// the event is being restored.
type DestEvent struct {
	ID          string
	Status      string
	Summary     string
	Description string
	Location    string
	Start       EventTime
	End         EventTime
	Source      *EventSource
}
