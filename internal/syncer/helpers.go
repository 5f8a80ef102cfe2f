package syncer

import (
	"io"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

func formatEventTime(t internal.EventTime) string {
	if t.Date != "" {
		return t.Date
	}
	return t.DateTime.Format("02 Jan 06 15:04 MST")
}

func logf(w io.Writer, spec *SourceSpec, format string, a ...any) {
	internal.Logf(w, "", spec, format, a...)
}
