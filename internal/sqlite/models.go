package sqlite

import (
	"database/sql"
	"time"
)

type Cycle struct {
	ID          int64        `db:"id"`
	Source      string       `db:"source"`
	Destination string       `db:"destination"`
	StartedAt   time.Time    `db:"started_at"`
	FinishedAt  sql.NullTime `db:"finished_at"`
	Inserted    int          `db:"inserted"`
	Updated     int          `db:"updated"`
	Deleted     int          `db:"deleted"`
	Failed      int          `db:"failed"`
}

type Operation struct {
	CycleID int64  `db:"cycle_id"`
	Kind    string `db:"kind"`
	EventID string `db:"event_id"`
	Summary string `db:"summary"`
	Error   string `db:"error"`
}
