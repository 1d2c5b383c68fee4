// Package config loads the storyreview configuration from a yaml file and
// the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/felixgeelhaar/storyreview/pkg/domain/messaging"
	domainPlugin "github.com/felixgeelhaar/storyreview/pkg/domain/plugin"
)

// DataSource selects where stories live.
type DataSource string

const (
	// DataSourceMock keeps stories in memory for the session.
	DataSourceMock DataSource = "mock"
	// DataSourceRemote talks to a storyreview server.
	DataSourceRemote DataSource = "remote"
)

// ParseDataSource is case-insensitive. Empty means mock.
func ParseDataSource(s string) (DataSource, error) {
	switch DataSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", DataSourceMock:
		return DataSourceMock, nil
	case DataSourceRemote:
		return DataSourceRemote, nil
	}
	return "", fmt.Errorf("unknown data source %q (want mock or remote)", s)
}

// Tracker kinds.
const (
	TrackerPlaceholder = "placeholder"
	TrackerGitHub      = "github"
	TrackerPlugin      = "plugin"
)

type Config struct {
	DataSource DataSource `yaml:"data_source"`
	Actor      string     `yaml:"actor"`
	Log        Log        `yaml:"log"`
	Remote     Remote     `yaml:"remote"`
	Server     Server     `yaml:"server"`
	Tracker    Tracker    `yaml:"tracker"`
	Inbox      Inbox      `yaml:"inbox"`
	// Notify lists the channels story events are announced on.
	Notify messaging.MessagingConfig `yaml:"notify"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DataSource, validation.Required, validation.In(DataSourceMock, DataSourceRemote)),
		validation.Field(&c.Actor, validation.Required),
		validation.Field(&c.Log),
		validation.Field(&c.Remote, validation.Skip.When(c.DataSource != DataSourceRemote)),
		validation.Field(&c.Server),
		validation.Field(&c.Tracker),
		validation.Field(&c.Inbox),
		validation.Field(&c.Notify),
	)
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (l Log) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}

// Remote locates the storyreview server used by the remote data source.
type Remote struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (r Remote) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BaseURL, validation.Required, is.URL),
		validation.Field(&r.TimeoutSeconds, validation.Min(0)),
	)
}

// Timeout returns the per-call timeout, zero meaning the client default.
func (r Remote) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required),
	)
}

type Tracker struct {
	Kind           string              `yaml:"kind"`
	TimeoutSeconds int                 `yaml:"timeout_seconds"`
	Placeholder    Placeholder         `yaml:"placeholder"`
	GitHub         GitHub              `yaml:"github"`
	Plugin         domainPlugin.Config `yaml:"plugin"`
}

func (t Tracker) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Kind, validation.Required, validation.In(TrackerPlaceholder, TrackerGitHub, TrackerPlugin)),
		validation.Field(&t.TimeoutSeconds, validation.Min(0)),
		validation.Field(&t.GitHub, validation.Skip.When(t.Kind != TrackerGitHub)),
		validation.Field(&t.Plugin, validation.Skip.When(t.Kind != TrackerPlugin)),
	)
}

// Timeout returns the per-work-item timeout, zero meaning the tracker default.
func (t Tracker) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

type Placeholder struct {
	BaseURL string `yaml:"base_url"`
	Prefix  string `yaml:"prefix"`
	Start   int64  `yaml:"start"`
}

type GitHub struct {
	Owner  string   `yaml:"owner"`
	Repo   string   `yaml:"repo"`
	Token  string   `yaml:"token"`
	Labels []string `yaml:"labels"`
}

func (g GitHub) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Owner, validation.Required),
		validation.Field(&g.Repo, validation.Required),
		validation.Field(&g.Token, validation.Required),
	)
}

// Inbox configures the directory watched for transcript files.
type Inbox struct {
	Dir        string `yaml:"dir"`
	Pattern    string `yaml:"pattern"`
	DebounceMS int    `yaml:"debounce_ms"`
}

func (i Inbox) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Pattern, validation.Required),
		validation.Field(&i.DebounceMS, validation.Min(0)),
	)
}

// Debounce returns how long a file must stay quiet before it is processed.
func (i Inbox) Debounce() time.Duration {
	return time.Duration(i.DebounceMS) * time.Millisecond
}

// Default returns the configuration used when no file is present: an
// in-memory session publishing to the placeholder tracker.
func Default() Config {
	return Config{
		DataSource: DataSourceMock,
		Actor:      "reviewer",
		Log:        Log{Level: "info", Format: "text"},
		Remote:     Remote{BaseURL: "http://localhost:8080", TimeoutSeconds: 30},
		Server:     Server{Addr: ":8080", AllowedOrigins: []string{"http://localhost:4200"}},
		Tracker: Tracker{
			Kind:           TrackerPlaceholder,
			TimeoutSeconds: 30,
			Placeholder: Placeholder{
				BaseURL: "https://dev.azure.com/organization/project/_workitems/edit/",
				Prefix:  "WI-",
				Start:   1000,
			},
			GitHub: GitHub{Labels: []string{"storyreview"}},
		},
		Inbox: Inbox{Pattern: "*.json", DebounceMS: 500},
	}
}
