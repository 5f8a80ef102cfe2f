package sqlite

func (j Journal) RunMigrations() error {
	for _, m := range migrations {
		if _, err := j.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS cycles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source VARCHAR NOT NULL,
		destination VARCHAR NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NULL DEFAULT NULL,
		inserted INTEGER NOT NULL DEFAULT 0,
		updated INTEGER NOT NULL DEFAULT 0,
		deleted INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS operations (
		cycle_id INTEGER NOT NULL,
		kind VARCHAR NOT NULL,
		event_id VARCHAR NOT NULL,
		summary VARCHAR NOT NULL DEFAULT "",
		error VARCHAR NOT NULL DEFAULT "",
		FOREIGN KEY (cycle_id) REFERENCES cycles (id)
	)`,
}
