package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/andrewramsay/ical-to-gcal-sync/calendar/google"
	"github.com/andrewramsay/ical-to-gcal-sync/internal/config"
)

var ConfigureCommand = _configureCommand{
	Name:        "configure",
	Description: "Authorize access to the destination calendar and cache the token",
}

type _configureCommand struct {
	Name        string
	Description string
}

func (s _configureCommand) Run(ctx context.Context, cfg *config.Config, verbose bool, args []string) error {
	credJSON, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return fmt.Errorf("unable to read credentials file: %w", err)
	}

	googleCal, err := google.NewClient(credJSON, nil)
	if err != nil {
		return fmt.Errorf("creating client: %v", err)
	}
	googleCal.Verbose = verbose

	w := flag.CommandLine.Output()

	tokenJSON, err := googleCal.Login(ctx, func(authURL string) {
		fmt.Fprintf(w, "Go to the following link in your browser\n%s\n", authURL)
	})
	if err != nil {
		return fmt.Errorf("google: logging in: %v", err)
	}

	if err := os.WriteFile(cfg.TokenFile, tokenJSON, 0o600); err != nil {
		return fmt.Errorf("saving token: %v", err)
	}
	fmt.Fprintf(w, "Token saved to %s\n", cfg.TokenFile)
	return nil
}
