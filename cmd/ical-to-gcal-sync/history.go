package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	_ "github.com/mattn/go-sqlite3"

	"github.com/andrewramsay/ical-to-gcal-sync/internal/config"
	"github.com/andrewramsay/ical-to-gcal-sync/internal/sqlite"
)

var HistoryCommand = _historyCommand{
	Name:        "history",
	Description: "Show recent reconciliation cycles from the journal",
}

type _historyCommand struct {
	Name        string
	Description string
}

func (s _historyCommand) Run(ctx context.Context, cfg *config.Config, verbose bool, args []string) error {
	var limit int

	fs := flag.NewFlagSet(s.Name, flag.ExitOnError)
	fs.IntVar(&limit, "limit", 20, "number of cycles to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := sql.Open(sqlite.DriverName, cfg.JournalFile)
	if err != nil {
		return err
	}
	defer db.Close()

	journal := sqlite.NewJournal(db)
	cycles, err := journal.RecentCycles(ctx, limit)
	if err != nil {
		return err
	}
	if len(cycles) == 0 {
		fmt.Fprintln(flag.CommandLine.Output(), "No cycles recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSOURCE\tDESTINATION\tINSERTED\tUPDATED\tDELETED\tFAILED")
	for _, c := range cycles {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			c.ID, c.StartedAt.Format("2006-01-02 15:04:05"), c.Source, c.Destination,
			c.Inserted, c.Updated, c.Deleted, c.Failed)
	}
	return w.Flush()
}
