package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

// Client is the Google Calendar destination provider.
type Client struct {
	oauthCfg *oauth2.Config
	token    *oauth2.Token

	Verbose bool
}

// NewClient builds a client from the OAuth credentials JSON and, when
// already authorized, the cached token JSON. A nil token is fine for
// Login-only use.
func NewClient(credJSON, tokenJSON []byte) (*Client, error) {
	oauthCfg, err := google.ConfigFromJSON(credJSON, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("google: parsing credentials file: %v", err)
	}

	c := &Client{oauthCfg: oauthCfg}
	if tokenJSON != nil {
		c.token = new(oauth2.Token)
		if err := json.Unmarshal(tokenJSON, c.token); err != nil {
			return nil, fmt.Errorf("google: parsing token file: %v", err)
		}
	}
	return c, nil
}

const defaultSleep = 5 * time.Second

// Events lists every visible event in the calendar from the given lower
// time bound, transparently paginating. Tombstoned (cancelled) events
// are included so the engine can recognize them on later cycles.
func (c *Client) Events(ctx context.Context, calendarID string, from time.Time) ([]*internal.DestEvent, error) {
	svc, err := c.calendarSvc(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(calendarID).
		Context(ctx).
		ShowDeleted(true).
		SingleEvents(true).
		OrderBy("startTime")
	if !from.IsZero() {
		call = call.TimeMin(from.Format(time.RFC3339))
	}

	var (
		out           []*internal.DestEvent
		nextPageToken string
	)
	for {
		events, err := call.PageToken(nextPageToken).Do()
		if err != nil {
			if shouldRetry(err) {
				time.Sleep(defaultSleep)
				continue
			}
			c.logf(calendarID, "unable to get list of events: %v", err)
			return nil, err
		}
		for _, item := range events.Items {
			out = append(out, newDestEvent(item))
		}
		nextPageToken = events.NextPageToken
		if nextPageToken == "" {
			break
		}
	}
	c.logf(calendarID, "found %d event(s)", len(out))
	return out, nil
}

// Timezone returns the calendar's configured timezone.
func (c *Client) Timezone(ctx context.Context, calendarID string) (string, error) {
	svc, err := c.calendarSvc(ctx)
	if err != nil {
		return "", err
	}
	for {
		cal, err := svc.Calendars.Get(calendarID).Context(ctx).Do()
		if err == nil {
			return cal.TimeZone, nil
		}
		if shouldRetry(err) {
			time.Sleep(defaultSleep)
			continue
		}
		return "", err
	}
}

func (c *Client) InsertEvent(ctx context.Context, calendarID string, req *internal.DestEvent) error {
	svc, err := c.calendarSvc(ctx)
	if err != nil {
		return err
	}
	for {
		_, err := svc.Events.Insert(calendarID, newGoogleEvent(req)).Context(ctx).Do()
		if err == nil {
			c.logf(calendarID, "created event %s", req.ID)
			return nil
		}
		if shouldRetry(err) {
			time.Sleep(defaultSleep)
			continue
		}
		return err
	}
}

func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, req *internal.DestEvent) error {
	svc, err := c.calendarSvc(ctx)
	if err != nil {
		return err
	}
	for {
		_, err := svc.Events.Update(calendarID, eventID, newGoogleEvent(req)).Context(ctx).Do()
		if err == nil {
			c.logf(calendarID, "updated event %s", eventID)
			return nil
		}
		if shouldRetry(err) {
			time.Sleep(defaultSleep)
			continue
		}
		return err
	}
}

// DeleteEvent soft-deletes an event. Deleting an already-tombstoned
// event is not an error.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	svc, err := c.calendarSvc(ctx)
	if err != nil {
		return err
	}
	for {
		err := svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
		if err == nil || alreadyDeleted(err) {
			c.logf(calendarID, "deleted event %s", eventID)
			return nil
		}
		if shouldRetry(err) {
			time.Sleep(defaultSleep)
			continue
		}
		return err
	}
}

// Login runs the OAuth authorization-code flow through a localhost
// redirect and returns the token as JSON for the caller to persist.
func (c *Client) Login(ctx context.Context, prompt func(authURL string)) ([]byte, error) {
	state := "ical-to-gcal-sync-" + uuid.NewString()
	authURL := c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	prompt(authURL)

	mux := http.NewServeMux()
	server := &http.Server{
		Addr:    ":8080",
		Handler: mux,
	}

	var (
		token   *oauth2.Token
		authErr error
	)

	mux.HandleFunc("/ical-to-gcal-sync", func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			go server.Shutdown(ctx)
		}()

		query := req.URL.Query()
		if query.Get("state") != state {
			authErr = errors.New("oauth link is not valid")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		token, authErr = c.oauthCfg.Exchange(ctx, query.Get("code"))
		if authErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Unable to retrieve token:", authErr)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "All good, you can close this window!")
	})

	serverCh := make(chan struct{})
	var svrErr error
	go func() {
		svrErr = server.ListenAndServe()
		close(serverCh)
	}()

	<-serverCh

	if svrErr != nil && svrErr != http.ErrServerClosed {
		return nil, svrErr
	}
	if authErr != nil {
		return nil, authErr
	}
	if token == nil {
		return nil, errors.New("google: no token received")
	}
	return json.Marshal(token)
}

func (c *Client) calendarSvc(ctx context.Context) (*calendar.Service, error) {
	if c.token == nil {
		return nil, errors.New("google: not authorized, run configure first")
	}
	httpClient := c.oauthCfg.Client(ctx, c.token)
	return calendar.NewService(ctx, option.WithHTTPClient(httpClient))
}

func (c *Client) logf(calendarID, format string, a ...any) {
	if c.Verbose {
		internal.Logf(os.Stdout, "google:", nil, "Calendar %s: %s", calendarID, fmt.Sprintf(format, a...))
	}
}

func shouldRetry(err error) bool {
	return errIsReason(err, "rateLimitExceeded")
}

func alreadyDeleted(err error) bool {
	return errIsReason(err, "deleted")
}

func errIsReason(err error, reason string) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}

	for _, err := range gErr.Errors {
		switch err.Reason {
		case reason:
			return true
		}
	}
	return false
}
