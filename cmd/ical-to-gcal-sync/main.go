package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/andrewramsay/ical-to-gcal-sync/internal/config"
)

var rootFlags struct {
	ConfigFile string
	Verbose    bool
}

func init() {
	flag.StringVar(&rootFlags.ConfigFile, "config", "config.yaml", "path to the configuration file")
	flag.BoolVar(&rootFlags.Verbose, "verbose", false, "enable verbose output")
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage: %s [options] <command> [command options]\n", os.Args[0])
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintf(w, "  %-12s %s\n", SyncCommand.Name, SyncCommand.Description)
	fmt.Fprintf(w, "  %-12s %s\n", ConfigureCommand.Name, ConfigureCommand.Description)
	fmt.Fprintf(w, "  %-12s %s\n", HistoryCommand.Name, HistoryCommand.Description)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		<-ch
		cancel()
	}()

	cfg, err := config.Load(rootFlags.ConfigFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to load configuration:", err)
		os.Exit(1)
	}

	switch args[0] {
	case SyncCommand.Name:
		err = SyncCommand.Run(ctx, cfg, rootFlags.Verbose, args[1:])
	case ConfigureCommand.Name:
		err = ConfigureCommand.Run(ctx, cfg, rootFlags.Verbose, args[1:])
	case HistoryCommand.Name:
		err = HistoryCommand.Run(ctx, cfg, rootFlags.Verbose, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
