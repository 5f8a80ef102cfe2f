package syncer

import (
	"testing"
	"time"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

var (
	detectStart = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	detectEnd   = time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
)

func matchedPair() (*internal.DestEvent, *internal.Event) {
	dst := &internal.DestEvent{
		ID:          "evt117048772001704880800",
		Status:      internal.StatusConfirmed,
		Summary:     "Standup",
		Description: "daily",
		Location:    "room 1",
		Start:       internal.NewDateTime(detectStart, "UTC"),
		End:         internal.NewDateTime(detectEnd, "UTC"),
	}
	src := &internal.Event{
		UID:         "evt1",
		Summary:     "Standup",
		Description: "daily",
		Location:    "room 1",
		StartsAt:    detectStart,
		EndsAt:      detectEnd,
	}
	return dst, src
}

func TestDetectNoChanges(t *testing.T) {
	dst, src := matchedPair()
	if got := Detect(dst, src, false); got != 0 {
		t.Fatalf("Detect() = %v, want empty change set", got)
	}
}

func TestDetect(t *testing.T) {
	tests := map[string]struct {
		mutate  func(dst *internal.DestEvent, src *internal.Event)
		restore bool
		want    Change
	}{
		"start moved": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				src.StartsAt = src.StartsAt.Add(30 * time.Minute)
			},
			want: TimesDiffer,
		},
		"end moved": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				src.EndsAt = src.EndsAt.Add(30 * time.Minute)
			},
			want: TimesDiffer,
		},
		"same instant different zone is no change": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				loc := time.FixedZone("EST", -5*60*60)
				dst.Start = internal.NewDateTime(detectStart.In(loc), "EST")
			},
			want: 0,
		},
		"title changed": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				src.Summary = "Standup (moved)"
			},
			want: TitleDiffers,
		},
		"location removed from source": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				src.Location = ""
			},
			want: LocationDiffers,
		},
		"location value changed": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				src.Location = "room 2"
			},
			want: LocationDiffers,
		},
		"location absent on both sides is no change": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				dst.Location = ""
				src.Location = ""
			},
			want: 0,
		},
		"description added on source": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				dst.Description = ""
			},
			want: DescriptionDiffers,
		},
		"cancelled with restore enabled": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				dst.Status = internal.StatusCancelled
			},
			restore: true,
			want:    NeedsRestore,
		},
		"cancelled with restore disabled": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				dst.Status = internal.StatusCancelled
			},
			want: 0,
		},
		"several fields at once": {
			mutate: func(dst *internal.DestEvent, src *internal.Event) {
				src.Summary = "Retro"
				src.StartsAt = src.StartsAt.Add(time.Hour)
				src.EndsAt = src.EndsAt.Add(time.Hour)
			},
			want: TimesDiffer | TitleDiffers,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dst, src := matchedPair()
			tc.mutate(dst, src)
			if got := Detect(dst, src, tc.restore); got != tc.want {
				t.Errorf("Detect() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetectAllDayDestination(t *testing.T) {
	// A destination all-day span resolves to midnight UTC instants for
	// comparison.
	dst := &internal.DestEvent{
		Status:  internal.StatusConfirmed,
		Summary: "Conference",
		Start:   internal.EventTime{Date: "2024-03-01"},
		End:     internal.EventTime{Date: "2024-03-03"},
	}
	src := &internal.Event{
		UID:      "conf",
		Summary:  "Conference",
		StartsAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	}
	if got := Detect(dst, src, false); got != 0 {
		t.Fatalf("Detect() = %v, want empty change set", got)
	}

	src.EndsAt = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := Detect(dst, src, false); got != TimesDiffer {
		t.Fatalf("Detect() = %v, want TimesDiffer", got)
	}
}

func TestDetectSourceWithoutEnd(t *testing.T) {
	// An endless source event compares as a point span: end == start.
	dst := &internal.DestEvent{
		Status:  internal.StatusConfirmed,
		Summary: "Ping",
		Start:   internal.NewDateTime(detectStart, "UTC"),
		End:     internal.NewDateTime(detectStart, "UTC"),
	}
	src := &internal.Event{UID: "p", Summary: "Ping", StartsAt: detectStart}
	if got := Detect(dst, src, false); got != 0 {
		t.Fatalf("Detect() = %v, want empty change set", got)
	}
}

func TestChangeString(t *testing.T) {
	c := TimesDiffer | TitleDiffers | NeedsRestore
	want := "start/end times, title, undeleted"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Change(0).String(); got != "none" {
		t.Errorf("String() = %q, want %q", got, "none")
	}
}
