package syncer

import (
	"strings"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

// Change is a set of flags describing how a destination event diverges
// from its matched source event. A zero Change means no update is
// required.
type Change uint8

const (
	TimesDiffer Change = 1 << iota
	TitleDiffers
	LocationDiffers
	DescriptionDiffers
	NeedsRestore
)

func (c Change) Has(flag Change) bool {
	return c&flag != 0
}

func (c Change) String() string {
	var parts []string
	if c.Has(TimesDiffer) {
		parts = append(parts, "start/end times")
	}
	if c.Has(TitleDiffers) {
		parts = append(parts, "title")
	}
	if c.Has(LocationDiffers) {
		parts = append(parts, "location")
	}
	if c.Has(DescriptionDiffers) {
		parts = append(parts, "description")
	}
	if c.Has(NeedsRestore) {
		parts = append(parts, "undeleted")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// Detect compares a destination event against its matched source event.
// Destination times are resolved from either their date-only or
// date-time representation before comparison. Detect never mutates its
// arguments.
func Detect(dst *internal.DestEvent, src *internal.Event, restoreDeleted bool) Change {
	var changes Change

	if !dst.Start.Resolve().Equal(src.StartsAt) || !dst.End.Resolve().Equal(src.ResolvedEnd()) {
		changes |= TimesDiffer
	}
	if dst.Summary != src.Summary {
		changes |= TitleDiffers
	}
	if textDiffers(dst.Location, src.Location) {
		changes |= LocationDiffers
	}
	if textDiffers(dst.Description, src.Description) {
		changes |= DescriptionDiffers
	}
	if restoreDeleted && dst.Status == internal.StatusCancelled {
		changes |= NeedsRestore
	}
	return changes
}

// textDiffers compares an optional text field: a difference in presence
// counts, and so does a difference in value when both sides have one.
// Both representations in play (the destination API client and the
// source parser) collapse absent fields to the empty string.
func textDiffers(a, b string) bool {
	if (a != "") != (b != "") {
		return true
	}
	return a != "" && a != b
}
