package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
	"github.com/andrewramsay/ical-to-gcal-sync/internal/syncer"
)

const DriverName = "sqlite3"

// Journal persists reconciliation cycles and their per-operation
// outcomes. The sync engine only writes here; the journal never feeds
// back into planning.
type Journal struct {
	db *sqlx.DB
}

func NewJournal(db *sql.DB) *Journal {
	j := &Journal{
		db: sqlx.NewDb(db, DriverName),
	}
	err := j.RunMigrations()
	if err != nil {
		panic(fmt.Sprintf("sqlite: running migrations: %v", err))
	}
	return j
}

func (j Journal) StartCycle(ctx context.Context, spec *internal.SourceSpec) (int64, error) {
	res, err := j.db.ExecContext(ctx, `
		INSERT INTO cycles (source, destination, started_at)
		VALUES (?, ?, ?)
	`, spec.Source, spec.Destination, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (j Journal) RecordOp(ctx context.Context, cycleID int64, op syncer.Op, opErr error) error {
	var errMsg string
	if opErr != nil {
		errMsg = opErr.Error()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO operations (cycle_id, kind, event_id, summary, error)
		VALUES (?, ?, ?, ?, ?)
	`, cycleID, op.Kind.String(), op.EventID, op.Summary, errMsg)
	return err
}

func (j Journal) FinishCycle(ctx context.Context, cycleID int64, stats syncer.Stats) error {
	_, err := j.db.ExecContext(ctx, `
		UPDATE cycles
		SET finished_at = ?, inserted = ?, updated = ?, deleted = ?, failed = ?
		WHERE id = ?
	`, time.Now().UTC(), stats.Inserted, stats.Updated, stats.Deleted, stats.Failed, cycleID)
	return err
}

// RecentCycles returns the latest cycles, newest first.
func (j Journal) RecentCycles(ctx context.Context, limit int) ([]Cycle, error) {
	var cycles []Cycle
	err := j.db.SelectContext(ctx, &cycles, `
		SELECT id, source, destination, started_at, finished_at,
		       inserted, updated, deleted, failed
		FROM cycles
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	return cycles, err
}

// Operations returns the recorded operations of one cycle, in the order
// they were applied.
func (j Journal) Operations(ctx context.Context, cycleID int64) ([]Operation, error) {
	var ops []Operation
	err := j.db.SelectContext(ctx, &ops, `
		SELECT cycle_id, kind, event_id, summary, error
		FROM operations
		WHERE cycle_id = ?
		ORDER BY rowid
	`, cycleID)
	return ops, err
}
