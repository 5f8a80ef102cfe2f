package syncer

import (
	"time"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

type OpKind int

const (
	OpDelete OpKind = iota
	OpUpdate
	OpRestore
	OpInsert
)

func (k OpKind) String() string {
	switch k {
	case OpDelete:
		return "delete"
	case OpUpdate:
		return "update"
	case OpRestore:
		return "restore"
	case OpInsert:
		return "insert"
	}
	return "unknown"
}

// Op is a single mutation against the destination calendar. EventID is
// the destination id for deletes and updates, and the derived id for
// inserts (also carried in Payload.ID). Payload is nil for deletes.
type Op struct {
	Kind    OpKind
	EventID string
	Payload *internal.DestEvent
	Changes Change
	Summary string
}

// Plan is the ordered mutation list for one cycle: deletes and updates
// in destination listing order, then inserts in source order.
type Plan []Op

// PlanConfig is the per-cycle policy consulted while planning.
type PlanConfig struct {
	// Prefix is prepended to every derived id.
	Prefix string
	// Timezone is the destination calendar's timezone, used for timed
	// payloads.
	Timezone *time.Location
	// AttributionURL identifies the originating feed.
	AttributionURL string
	// RestoreDeleted re-confirms destination tombstones that match a
	// live source event.
	RestoreDeleted bool
}

// BuildPlan reconciles a source snapshot against a destination snapshot
// and returns the mutations needed to make the destination mirror the
// source. It is a pure function: it never touches the destination and
// never mutates its inputs.
//
// Destination events whose derived id is absent from the source are
// deleted, except tombstones, which need no further action. Matched
// pairs are updated only when Detect reports a difference. Source
// events absent from the destination are inserted. An id is either
// matched or unmatched, never both, so a plan can never delete and
// insert the same id.
func BuildPlan(source []*internal.Event, dest []*internal.DestEvent, cfg PlanConfig) Plan {
	srcByID := make(map[string]*internal.Event, len(source))
	order := make([]string, 0, len(source))
	for _, ev := range source {
		id := internal.DeriveEventID(cfg.Prefix, ev.UID, ev.StartsAt, ev.EndsAt)
		if _, ok := srcByID[id]; !ok {
			order = append(order, id)
		}
		srcByID[id] = ev
	}

	var plan Plan
	matched := make(map[string]bool, len(dest))

	for _, d := range dest {
		src, ok := srcByID[d.ID]
		if !ok {
			if d.Status == internal.StatusCancelled {
				// Already in the bin; deleting again only errors.
				continue
			}
			plan = append(plan, Op{Kind: OpDelete, EventID: d.ID, Summary: d.Summary})
			continue
		}
		matched[d.ID] = true

		changes := Detect(d, src, cfg.RestoreDeleted)
		if changes == 0 {
			continue
		}
		kind := OpUpdate
		restore := changes.Has(NeedsRestore)
		if restore {
			kind = OpRestore
		}
		plan = append(plan, Op{
			Kind:    kind,
			EventID: d.ID,
			Payload: Payload(src, cfg.Timezone, cfg.AttributionURL, restore),
			Changes: changes,
			Summary: src.Summary,
		})
	}

	for _, id := range order {
		if matched[id] {
			continue
		}
		src := srcByID[id]
		payload := Payload(src, cfg.Timezone, cfg.AttributionURL, false)
		payload.ID = id
		plan = append(plan, Op{
			Kind:    OpInsert,
			EventID: id,
			Payload: payload,
			Summary: src.Summary,
		})
	}
	return plan
}
