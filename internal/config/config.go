package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andrewramsay/ical-to-gcal-sync/internal"
)

// Duration is a time.Duration that unmarshals from strings like "250ms"
// or "2s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Feed binds one iCalendar source to one destination calendar.
type Feed struct {
	// Source is a feed URL, or a directory of .ics files when Files is
	// set.
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Files       bool   `yaml:"files"`
	// EventIDPrefix is prepended to every derived event id for this
	// feed.
	EventIDPrefix string `yaml:"event_id_prefix"`
}

func (f Feed) SourceSpec() *internal.SourceSpec {
	return &internal.SourceSpec{
		Source:      f.Source,
		Destination: f.Destination,
		Platform:    "google",
		Files:       f.Files,
		Prefix:      f.EventIDPrefix,
	}
}

// Config is the per-run policy, loaded once at startup and treated as
// immutable afterwards.
type Config struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	JournalFile     string `yaml:"journal_file"`
	LogFile         string `yaml:"log_file"`

	Feeds []Feed `yaml:"feeds"`

	// PastDays widens the sync window that many days into the past.
	PastDays int `yaml:"past_days_to_sync"`
	// SyncDays bounds the window into the future; zero means one year.
	SyncDays int `yaml:"days_to_sync"`
	// APISleepTime spaces out destination API calls.
	APISleepTime Duration `yaml:"api_sleep_time"`
	// RestoreDeletedEvents re-confirms destination tombstones that
	// reappear in the source.
	RestoreDeletedEvents bool `yaml:"restore_deleted_events"`
	// ExcludeSummary drops source events whose summary matches this
	// regular expression.
	ExcludeSummary string `yaml:"exclude_summary"`

	// FeedUser and FeedPass enable basic auth on feed requests.
	FeedUser string `yaml:"feed_user"`
	FeedPass string `yaml:"feed_pass"`
	// InsecureSkipVerify disables TLS certificate checks on feed
	// requests.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

func (c *Config) Normalize() {
	if c.CredentialsFile == "" {
		c.CredentialsFile = "credentials.json"
	}
	if c.TokenFile == "" {
		c.TokenFile = "token.json"
	}
	if c.JournalFile == "" {
		c.JournalFile = "ical-to-gcal-sync.db"
	}
	if c.APISleepTime <= 0 {
		c.APISleepTime = Duration(100 * time.Millisecond)
	}
}

// Validate reports missing mandatory settings. It runs before any cycle
// so a bad config never mutates a calendar.
func (c *Config) Validate() error {
	if len(c.Feeds) == 0 {
		return errors.New("config: no feeds configured")
	}
	for i, feed := range c.Feeds {
		if feed.Source == "" {
			return fmt.Errorf("config: feed #%d has no source", i+1)
		}
		if feed.Destination == "" {
			return fmt.Errorf("config: feed #%d has no destination calendar id", i+1)
		}
	}
	if c.PastDays < 0 {
		return errors.New("config: past_days_to_sync must be >= 0")
	}
	if c.SyncDays < 0 {
		return errors.New("config: days_to_sync must be >= 0")
	}
	return nil
}

// SourceSpecs converts the configured feeds into sync specs.
func (c *Config) SourceSpecs() []*internal.SourceSpec {
	specs := make([]*internal.SourceSpec, len(c.Feeds))
	for i, feed := range c.Feeds {
		specs[i] = feed.SourceSpec()
	}
	return specs
}
