package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

// parsedEvent is a VEVENT as read from the wire: the raw record plus
// the recurrence data needed for expansion.
type parsedEvent struct {
	raw     internal.SourceEvent
	allDay  bool
	rrule   string
	exDates []time.Time
}

// parseCalendar parses an ICS payload. Individual malformed VEVENTs are
// skipped; a malformed calendar fails wholesale.
func parseCalendar(body []byte) ([]parsedEvent, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]parsedEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve)
		if err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (parsedEvent, error) {
	var out parsedEvent

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, errors.New("missing UID")
	}
	out.raw.UID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.raw.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.raw.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.raw.Location = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return out, errors.New("missing DTSTART")
	}
	start, floating, allDay, err := parseICSTime(dtStart)
	if err != nil {
		return out, err
	}
	out.raw.StartsAt = start
	out.raw.StartFloating = floating
	out.allDay = allDay

	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil && dtEnd.Value != "" {
		end, floating, _, err := parseICSTime(dtEnd)
		if err != nil {
			return out, err
		}
		out.raw.EndsAt = end
		out.raw.EndFloating = floating
	} else if allDay {
		// RFC 5545: a date-only DTSTART without DTEND covers one day.
		out.raw.EndsAt = start.Add(24 * time.Hour)
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.rrule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, _, _, err := parseValue(part, tzidOf(p)); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}

	return out, nil
}

// parseICSTime parses a DTSTART/DTEND property honoring TZID and
// VALUE=DATE parameters. Times with neither a zone suffix nor a TZID
// are floating; the normalizer later pins them to UTC.
func parseICSTime(p *ical.IANAProperty) (t time.Time, floating, allDay bool, err error) {
	return parseValue(p.Value, tzidOf(p))
}

func tzidOf(p *ical.IANAProperty) string {
	if p.ICalParameters == nil {
		return ""
	}
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		return tzs[0]
	}
	return ""
}

func parseValue(v, tzid string) (t time.Time, floating, allDay bool, err error) {
	v = strings.TrimSpace(v)

	// Date-only values stand for all-day events and resolve to
	// midnight UTC, never converted across timezones.
	if !strings.Contains(v, "T") {
		t, err = time.ParseInLocation("20060102", v, time.UTC)
		return t, false, true, err
	}

	if tzid != "" {
		loc, lerr := time.LoadLocation(tzid)
		if lerr != nil {
			return time.Time{}, false, false, lerr
		}
		t, err = time.ParseInLocation("20060102T150405", v, loc)
		return t, false, false, err
	}

	if strings.HasSuffix(v, "Z") {
		t, err = time.Parse("20060102T150405Z", v)
		return t, false, false, err
	}

	t, err = time.ParseInLocation("20060102T150405", v, time.Local)
	return t, true, false, err
}
