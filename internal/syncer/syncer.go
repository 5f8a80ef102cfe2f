package syncer

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

var ErrSyncing = errors.New("an error occurred while syncing, check the logs")

type (
	Mux        = internal.Mux
	Event      = internal.Event
	DestEvent  = internal.DestEvent
	SourceSpec = internal.SourceSpec
)

// Stats counts the mutations applied during one cycle.
type Stats struct {
	Inserted int
	Updated  int
	Deleted  int
	Failed   int
}

// Journal records cycles and per-operation outcomes for later
// inspection. The engine only ever writes to it; reconciliation relies
// on derived ids alone.
type Journal interface {
	StartCycle(_ context.Context, _ *SourceSpec) (int64, error)
	RecordOp(_ context.Context, cycleID int64, _ Op, opErr error) error
	FinishCycle(_ context.Context, cycleID int64, _ Stats) error
}

// Syncer runs reconciliation cycles: one destination listing, one
// source fetch, one pure planning pass, then sequential application of
// the plan with a fixed inter-call delay.
type Syncer struct {
	output       io.Writer
	source       internal.Source
	destinations Mux
	journal      Journal

	// Filter is the optional per-event hook applied during
	// normalization.
	Filter Filter
	// RestoreDeleted re-confirms destination tombstones that match a
	// live source event.
	RestoreDeleted bool
	// PastDays extends the window that many days into the past.
	PastDays int
	// SyncDays bounds the window into the future; zero means one year.
	SyncDays int
	// From overrides the computed window lower bound when set.
	From internal.Date
	// SleepBetweenCalls spaces out destination mutations to stay under
	// rate limits.
	SleepBetweenCalls time.Duration

	now func() time.Time
}

func New(output io.Writer, source internal.Source, destinations Mux, journal Journal) *Syncer {
	if output == nil {
		output = os.Stdout
	}
	return &Syncer{
		output:       output,
		source:       source,
		destinations: destinations,
		journal:      journal,
		now:          time.Now,
	}
}

// Sync reconciles every spec as an independent cycle. A failed cycle is
// logged and the remaining specs still run; only unexpected errors
// (context cancellation, unknown platform) abort the whole run.
func (s *Syncer) Sync(ctx context.Context, specs []*SourceSpec) error {
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.SyncFeed(ctx, spec)
		if err != nil && !errors.Is(err, ErrSyncing) {
			return err
		}
	}
	return nil
}

// SyncFeed runs one full reconciliation cycle for a single spec. Any
// fetch failure abandons the cycle before a single destination mutation
// is attempted.
func (s *Syncer) SyncFeed(ctx context.Context, spec *SourceSpec) error {
	logf(s.output, spec, "Syncing...")

	dest, err := s.destinations.Get(spec.Platform)
	if err != nil {
		return err
	}

	w := s.window()

	destEvents, err := dest.Events(ctx, spec.Destination, w.From)
	if err != nil {
		logf(s.output, spec, "Unable to list destination events: %v", err)
		return ErrSyncing
	}

	it, err := s.source.Events(ctx, spec, w)
	if err != nil {
		logf(s.output, spec, "Unable to fetch source events: %v", err)
		return ErrSyncing
	}
	srcEvents, err := s.collectEvents(it, spec)
	if err != nil {
		logf(s.output, spec, "Unable to read source events: %v", err)
		return ErrSyncing
	}
	logf(s.output, spec, "Collected %d source event(s), %d destination event(s)", len(srcEvents), len(destEvents))

	tzName, err := dest.Timezone(ctx, spec.Destination)
	if err != nil {
		logf(s.output, spec, "Unable to get destination timezone: %v", err)
		return ErrSyncing
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		logf(s.output, spec, "Unknown destination timezone %q, using UTC", tzName)
		loc = time.UTC
	}

	plan := BuildPlan(srcEvents, destEvents, PlanConfig{
		Prefix:         spec.Prefix,
		Timezone:       loc,
		AttributionURL: spec.AttributionURL(),
		RestoreDeleted: s.RestoreDeleted,
	})
	if len(plan) == 0 {
		logf(s.output, spec, "Nothing to do, events are up to date")
		return nil
	}

	stats, err := s.apply(ctx, dest, spec, plan)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		logf(s.output, spec, "Sync complete with errors: %d inserted, %d updated, %d deleted, %d failed",
			stats.Inserted, stats.Updated, stats.Deleted, stats.Failed)
		return ErrSyncing
	}
	logf(s.output, spec, "Sync complete: %d inserted, %d updated, %d deleted",
		stats.Inserted, stats.Updated, stats.Deleted)
	return nil
}

// window computes the cycle's time bounds from the configured past and
// future day counts, anchored at the start of the current day.
func (s *Syncer) window() internal.Window {
	now := s.now().UTC()
	today := internal.NewDateFromTime(now)

	from := today.AddDate(0, 0, -s.PastDays).Time
	if !s.From.IsZero() {
		from = s.From.Time
	}

	days := s.SyncDays
	if days <= 0 {
		days = 365
	}
	return internal.Window{From: from, To: now.AddDate(0, 0, days)}
}

// apply drives the plan against the destination, one operation at a
// time. A single operation failing is logged and skipped; it never
// halts the remaining operations.
func (s *Syncer) apply(ctx context.Context, dest internal.Destination, spec *SourceSpec, plan Plan) (Stats, error) {
	var stats Stats

	var cycleID int64
	if s.journal != nil {
		var err error
		cycleID, err = s.journal.StartCycle(ctx, spec)
		if err != nil {
			logf(s.output, spec, "Unable to record cycle in journal: %v", err)
			cycleID = 0
		}
	}

	for i, op := range plan {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if i > 0 {
			s.sleep()
		}

		err := s.applyOp(ctx, dest, spec, op)
		if s.journal != nil && cycleID != 0 {
			if jerr := s.journal.RecordOp(ctx, cycleID, op, err); jerr != nil {
				logf(s.output, spec, "Unable to record operation in journal: %v", jerr)
			}
		}
		if err != nil {
			stats.Failed++
			continue
		}
		switch op.Kind {
		case OpDelete:
			stats.Deleted++
		case OpUpdate, OpRestore:
			stats.Updated++
		case OpInsert:
			stats.Inserted++
		}
	}

	if s.journal != nil && cycleID != 0 {
		if err := s.journal.FinishCycle(ctx, cycleID, stats); err != nil {
			logf(s.output, spec, "Unable to finish cycle in journal: %v", err)
		}
	}
	return stats, nil
}

func (s *Syncer) applyOp(ctx context.Context, dest internal.Destination, spec *SourceSpec, op Op) error {
	switch op.Kind {
	case OpDelete:
		logf(s.output, spec, "Deleting event %s: %q", op.EventID, op.Summary)
		err := dest.DeleteEvent(ctx, spec.Destination, op.EventID)
		if err != nil {
			logf(s.output, spec, "Unable to delete event %s: %v", op.EventID, err)
		}
		return err

	case OpUpdate, OpRestore:
		logf(s.output, spec, "Updating event %s: %q due to changes: %s", op.EventID, op.Summary, op.Changes)
		err := dest.UpdateEvent(ctx, spec.Destination, op.EventID, op.Payload)
		if err != nil {
			logf(s.output, spec, "Unable to update event %s: %v", op.EventID, err)
		}
		return err

	case OpInsert:
		logf(s.output, spec, "Creating event %s: %q on %s", op.EventID, op.Summary, formatEventTime(op.Payload.Start))
		err := dest.InsertEvent(ctx, spec.Destination, op.Payload)
		if err == nil {
			return nil
		}
		// The id may already exist as a tombstone from a previous
		// cycle; fall back to updating it in place.
		logf(s.output, spec, "Unable to create event %s, trying an update instead: %v", op.EventID, err)
		s.sleep()
		if uerr := dest.UpdateEvent(ctx, spec.Destination, op.EventID, op.Payload); uerr != nil {
			logf(s.output, spec, "Unable to update event %s: %v", op.EventID, uerr)
			return uerr
		}
		return nil
	}
	return nil
}

func (s *Syncer) sleep() {
	if s.SleepBetweenCalls > 0 {
		time.Sleep(s.SleepBetweenCalls)
	}
}
