package google

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

func newDestEvent(event *calendar.Event) *internal.DestEvent {
	out := &internal.DestEvent{
		ID:          event.Id,
		Status:      event.Status,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start:       newEventTime(event.Start),
		End:         newEventTime(event.End),
	}
	if event.Source != nil {
		out.Source = &internal.EventSource{
			Title: event.Source.Title,
			URL:   event.Source.Url,
		}
	}
	return out
}

func newEventTime(t *calendar.EventDateTime) internal.EventTime {
	if t == nil {
		return internal.EventTime{}
	}
	if t.Date != "" {
		return internal.EventTime{Date: t.Date}
	}
	parsed, _ := time.Parse(time.RFC3339, t.DateTime)
	return internal.EventTime{DateTime: parsed, TimeZone: t.TimeZone}
}

func newGoogleEvent(event *internal.DestEvent) *calendar.Event {
	out := &calendar.Event{
		Id:          event.ID,
		Status:      event.Status,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start:       newGoogleEventTime(event.Start),
		End:         newGoogleEventTime(event.End),
		Reminders: &calendar.EventReminders{
			UseDefault: true,
		},
	}
	if event.Source != nil {
		out.Source = &calendar.EventSource{
			Title: event.Source.Title,
			Url:   event.Source.URL,
		}
	}
	return out
}

func newGoogleEventTime(t internal.EventTime) *calendar.EventDateTime {
	if t.IsZero() {
		return nil
	}
	if t.Date != "" {
		return &calendar.EventDateTime{Date: t.Date}
	}
	return &calendar.EventDateTime{
		DateTime: t.DateTime.Format(time.RFC3339),
		TimeZone: t.TimeZone,
	}
}
