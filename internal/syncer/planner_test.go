package syncer

import (
	"testing"
	"time"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

func planConfig() PlanConfig {
	return PlanConfig{
		Timezone:       time.UTC,
		AttributionURL: "https://example.com/cal.ics",
	}
}

func sourceEvent(uid, summary string, start time.Time, duration time.Duration) *internal.Event {
	return &internal.Event{
		UID:      uid,
		Summary:  summary,
		StartsAt: start,
		EndsAt:   start.Add(duration),
	}
}

// destMirror builds the destination event the engine itself would have
// created for src on a previous cycle.
func destMirror(src *internal.Event, cfg PlanConfig) *internal.DestEvent {
	ev := Payload(src, cfg.Timezone, cfg.AttributionURL, false)
	ev.ID = internal.DeriveEventID(cfg.Prefix, src.UID, src.StartsAt, src.EndsAt)
	ev.Status = internal.StatusConfirmed
	return ev
}

func TestBuildPlanInsertsNewEvents(t *testing.T) {
	// Scenario: a source event never seen by the destination gets
	// exactly one insert carrying the derived id.
	src := sourceEvent("evt1", "Standup", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), time.Hour)

	plan := BuildPlan([]*internal.Event{src}, nil, planConfig())

	if len(plan) != 1 {
		t.Fatalf("plan has %d ops, want 1", len(plan))
	}
	op := plan[0]
	if op.Kind != OpInsert {
		t.Fatalf("op kind = %v, want insert", op.Kind)
	}
	if want := "evt117048772001704880800"; op.EventID != want {
		t.Errorf("derived id = %q, want %q", op.EventID, want)
	}
	if op.Payload == nil || op.Payload.ID != op.EventID {
		t.Errorf("insert payload must carry the derived id, got %+v", op.Payload)
	}
	if op.Payload.Start.Date != "" {
		t.Errorf("timed event mapped to all-day payload")
	}
}

func TestBuildPlanAllDayInsert(t *testing.T) {
	src := sourceEvent("conf", "Conference", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 48*time.Hour)

	plan := BuildPlan([]*internal.Event{src}, nil, planConfig())

	if len(plan) != 1 {
		t.Fatalf("plan has %d ops, want 1", len(plan))
	}
	payload := plan[0].Payload
	if payload.Start.Date != "2024-03-01" || payload.End.Date != "2024-03-03" {
		t.Errorf("all-day payload = %q..%q, want 2024-03-01..2024-03-03", payload.Start.Date, payload.End.Date)
	}
}

func TestBuildPlanDeletesUnmatched(t *testing.T) {
	dst := &internal.DestEvent{
		ID:      "gone17048772001704880800",
		Status:  internal.StatusConfirmed,
		Summary: "Removed meeting",
	}

	plan := BuildPlan(nil, []*internal.DestEvent{dst}, planConfig())

	if len(plan) != 1 {
		t.Fatalf("plan has %d ops, want 1", len(plan))
	}
	if plan[0].Kind != OpDelete || plan[0].EventID != dst.ID {
		t.Errorf("op = %+v, want delete of %s", plan[0], dst.ID)
	}
}

func TestBuildPlanSkipsTombstones(t *testing.T) {
	// Scenario: a cancelled destination event with no matching source
	// event stays untouched, keeping repeated deletion idempotent.
	dst := &internal.DestEvent{
		ID:     "x17048772001704880800",
		Status: internal.StatusCancelled,
	}

	plan := BuildPlan(nil, []*internal.DestEvent{dst}, planConfig())
	if len(plan) != 0 {
		t.Fatalf("plan has %d ops, want none for a tombstone", len(plan))
	}
}

func TestBuildPlanNoOpOnMirror(t *testing.T) {
	// Running the planner against a destination that already mirrors
	// the source yields an empty plan.
	cfg := planConfig()
	src := []*internal.Event{
		sourceEvent("evt1", "Standup", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), time.Hour),
		sourceEvent("conf", "Conference", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 48*time.Hour),
	}
	dest := []*internal.DestEvent{destMirror(src[0], cfg), destMirror(src[1], cfg)}

	plan := BuildPlan(src, dest, cfg)
	if len(plan) != 0 {
		t.Fatalf("plan has %d ops, want empty plan: %+v", len(plan), plan)
	}
}

func TestBuildPlanUpdatesChangedTitle(t *testing.T) {
	// Scenario: matched id, different summary.
	cfg := planConfig()
	src := sourceEvent("evt1", "Standup", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), time.Hour)
	dst := destMirror(src, cfg)
	dst.Summary = "Old title"

	plan := BuildPlan([]*internal.Event{src}, []*internal.DestEvent{dst}, cfg)

	if len(plan) != 1 {
		t.Fatalf("plan has %d ops, want 1", len(plan))
	}
	op := plan[0]
	if op.Kind != OpUpdate || op.EventID != dst.ID {
		t.Fatalf("op = %+v, want update of %s", op, dst.ID)
	}
	if !op.Changes.Has(TitleDiffers) {
		t.Errorf("changes = %v, want TitleDiffers", op.Changes)
	}
	if op.Payload.Summary != "Standup" {
		t.Errorf("payload summary = %q, want new title", op.Payload.Summary)
	}
	if op.Payload.Status != "" {
		t.Errorf("plain update should not touch status, got %q", op.Payload.Status)
	}
}

func TestBuildPlanRestoresCancelledMatch(t *testing.T) {
	// Scenario: restore enabled, tombstone matches a live source event.
	cfg := planConfig()
	cfg.RestoreDeleted = true

	src := sourceEvent("evt1", "Standup", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), time.Hour)
	dst := destMirror(src, cfg)
	dst.Status = internal.StatusCancelled
	dst.Summary = "Old title"

	plan := BuildPlan([]*internal.Event{src}, []*internal.DestEvent{dst}, cfg)

	if len(plan) != 1 {
		t.Fatalf("plan has %d ops, want 1", len(plan))
	}
	op := plan[0]
	if op.Kind != OpRestore {
		t.Fatalf("op kind = %v, want restore", op.Kind)
	}
	if !op.Changes.Has(NeedsRestore) || !op.Changes.Has(TitleDiffers) {
		t.Errorf("changes = %v, want NeedsRestore and TitleDiffers", op.Changes)
	}
	if op.Payload.Status != internal.StatusConfirmed {
		t.Errorf("restore payload status = %q, want confirmed", op.Payload.Status)
	}
}

func TestBuildPlanCancelledMatchWithoutRestore(t *testing.T) {
	cfg := planConfig()
	src := sourceEvent("evt1", "Standup", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), time.Hour)
	dst := destMirror(src, cfg)
	dst.Status = internal.StatusCancelled

	plan := BuildPlan([]*internal.Event{src}, []*internal.DestEvent{dst}, cfg)
	if len(plan) != 0 {
		t.Fatalf("plan has %d ops, want none: a matched tombstone stays buried without the restore policy", len(plan))
	}
}

func TestBuildPlanOrdering(t *testing.T) {
	// Deletes and updates come in destination listing order, inserts
	// after them in source order; no id appears twice.
	cfg := planConfig()
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	kept := sourceEvent("kept", "Kept", now, time.Hour)
	changed := sourceEvent("changed", "Changed", now.Add(time.Hour), time.Hour)
	added1 := sourceEvent("added1", "Added one", now.Add(2*time.Hour), time.Hour)
	added2 := sourceEvent("added2", "Added two", now.Add(3*time.Hour), time.Hour)

	removed := &internal.DestEvent{ID: "removed11", Status: internal.StatusConfirmed, Summary: "Removed"}
	changedDst := destMirror(changed, cfg)
	changedDst.Summary = "Stale"

	plan := BuildPlan(
		[]*internal.Event{kept, changed, added1, added2},
		[]*internal.DestEvent{removed, destMirror(kept, cfg), changedDst},
		cfg,
	)

	if len(plan) != 4 {
		t.Fatalf("plan has %d ops, want 4: %+v", len(plan), plan)
	}
	wantKinds := []OpKind{OpDelete, OpUpdate, OpInsert, OpInsert}
	for i, want := range wantKinds {
		if plan[i].Kind != want {
			t.Errorf("op[%d].Kind = %v, want %v", i, plan[i].Kind, want)
		}
	}
	if plan[2].Summary != "Added one" || plan[3].Summary != "Added two" {
		t.Errorf("inserts out of source order: %q, %q", plan[2].Summary, plan[3].Summary)
	}

	seen := map[string]bool{}
	for _, op := range plan {
		if seen[op.EventID] {
			t.Errorf("id %s appears in more than one op", op.EventID)
		}
		seen[op.EventID] = true
	}
}

func TestBuildPlanDuplicateDerivedID(t *testing.T) {
	// Two source events collapsing to the same derived id produce a
	// single insert.
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	a := sourceEvent("dup", "First", now, time.Hour)
	b := sourceEvent("dup", "Second", now, time.Hour)

	plan := BuildPlan([]*internal.Event{a, b}, nil, planConfig())
	if len(plan) != 1 {
		t.Fatalf("plan has %d ops, want 1", len(plan))
	}
}

func TestBuildPlanPrefix(t *testing.T) {
	cfg := planConfig()
	cfg.Prefix = "team"
	src := sourceEvent("evt1", "Standup", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), time.Hour)

	plan := BuildPlan([]*internal.Event{src}, nil, cfg)
	if want := "teamevt117048772001704880800"; plan[0].EventID != want {
		t.Errorf("derived id = %q, want %q", plan[0].EventID, want)
	}
}

func TestBuildPlanPureInputsUntouched(t *testing.T) {
	cfg := planConfig()
	src := sourceEvent("evt1", "Standup", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), time.Hour)
	dst := destMirror(src, cfg)
	dst.Summary = "Stale"
	before := *dst

	BuildPlan([]*internal.Event{src}, []*internal.DestEvent{dst}, cfg)

	if *dst != before {
		t.Errorf("planner mutated destination input: %+v", dst)
	}
}
