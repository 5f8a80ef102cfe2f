package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"

	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"

	"github.com/andrewramsay/ical-to-gcal-sync/calendar"
	"github.com/andrewramsay/ical-to-gcal-sync/calendar/google"
	"github.com/andrewramsay/ical-to-gcal-sync/internal"
	"github.com/andrewramsay/ical-to-gcal-sync/internal/config"
	"github.com/andrewramsay/ical-to-gcal-sync/internal/ics"
	"github.com/andrewramsay/ical-to-gcal-sync/internal/sqlite"
	"github.com/andrewramsay/ical-to-gcal-sync/internal/syncer"
)

const googlePlatform = "google"

var SyncCommand = _syncCommand{
	Name:        "sync",
	Description: "Reconcile the configured feeds into their destination calendars",
}

type _syncCommand struct {
	Name        string
	Description string
}

func (s _syncCommand) Run(ctx context.Context, cfg *config.Config, verbose bool, args []string) error {
	var (
		schedule     string
		from         internal.Date
		destinations Strings
	)

	fs := flag.NewFlagSet(s.Name, flag.ExitOnError)
	fs.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s %s:\n", os.Args[0], fs.Name())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&schedule, "schedule", "", "cron expression to keep syncing on a schedule (e.g. \"*/15 * * * *\")")
	fs.Var(&from, "from", "sync events since the date (e.g. 2024-08-12), overriding past_days_to_sync")
	fs.Var(&destinations, "destination", "only sync feeds targeting this destination calendar id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	output, closeOutput, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer closeOutput()

	sync, err := newSyncer(cfg, output, verbose)
	if err != nil {
		return err
	}
	sync.From = from

	specs := cfg.SourceSpecs()
	if len(destinations) > 0 {
		specs = filterSpecs(specs, destinations)
		if len(specs) == 0 {
			return fmt.Errorf("no configured feed targets %s", destinations.String())
		}
	}

	if schedule == "" {
		return sync.Sync(ctx, specs)
	}

	c := cron.New()
	_, err = c.AddFunc(schedule, func() {
		if err := sync.Sync(ctx, specs); err != nil {
			fmt.Fprintln(output, "Sync failed:", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func newSyncer(cfg *config.Config, output io.Writer, verbose bool) (*syncer.Syncer, error) {
	credJSON, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}
	tokenJSON, err := os.ReadFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read token file (run configure first): %w", err)
	}

	googleCal, err := google.NewClient(credJSON, tokenJSON)
	if err != nil {
		return nil, err
	}
	googleCal.Verbose = verbose

	mux := calendar.NewMux()
	mux.Register(googlePlatform, googleCal)

	source := ics.NewClient(cfg.InsecureSkipVerify)
	source.Username = cfg.FeedUser
	source.Password = cfg.FeedPass

	db, err := sql.Open(sqlite.DriverName, cfg.JournalFile)
	if err != nil {
		return nil, err
	}
	journal := sqlite.NewJournal(db)

	sync := syncer.New(output, source, mux, journal)
	sync.RestoreDeleted = cfg.RestoreDeletedEvents
	sync.PastDays = cfg.PastDays
	sync.SyncDays = cfg.SyncDays
	sync.SleepBetweenCalls = cfg.APISleepTime.Std()

	if cfg.ExcludeSummary != "" {
		re, err := regexp.Compile(cfg.ExcludeSummary)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude_summary pattern: %w", err)
		}
		sync.Filter = func(ev *internal.Event) (bool, error) {
			return !re.MatchString(ev.Summary), nil
		}
	}
	return sync, nil
}

func filterSpecs(specs []*internal.SourceSpec, destinations Strings) []*internal.SourceSpec {
	var out []*internal.SourceSpec
	for _, spec := range specs {
		for _, dst := range destinations {
			if spec.Destination == dst {
				out = append(out, spec)
				break
			}
		}
	}
	return out
}

func openOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.LogFile == "" {
		return flag.CommandLine.Output(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
