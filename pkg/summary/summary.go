// Package summary fetches the encyclopedia summary shown in the focus panel
// for a launch year ("2019 in spaceflight").
//
// Summaries are best-effort enrichment: a failed fetch produces fallback text
// and never affects chart state. Responses are cached through [cache.Cache]
// and transient failures are retried with backoff.
package summary

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors returned by [Client.Fetch].
var (
	// ErrNotFound is returned when no page exists for the year.
	ErrNotFound = errors.New("summary not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Fallback texts shown instead of an extract.
const (
	TextLoading     = "Loading Wikipedia summary…"
	TextFailed      = "Could not fetch Wikipedia summary right now."
	TextUnavailable = "No summary available."
)

// State is the lifecycle of a summary in the focus panel.
type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Summary is the panel text for one year.
type Summary struct {
	Year     int    `json:"year"`
	Title    string `json:"title"`
	Extract  string `json:"extract,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	State    State  `json:"state"`
}

// Text returns the extract, or the fallback text for the current state.
func (s Summary) Text() string {
	switch s.State {
	case StateLoading:
		return TextLoading
	case StateFailed:
		return TextFailed
	}
	if s.Extract == "" {
		return TextUnavailable
	}
	return s.Extract
}

// Title returns the page title for year.
func Title(year int) string {
	return fmt.Sprintf("%d in spaceflight", year)
}

// Loading returns the placeholder shown while a fetch is in flight.
func Loading(year int) Summary {
	return Summary{Year: year, Title: Title(year), State: StateLoading}
}

// Failed returns the summary shown after a fetch error.
func Failed(year int) Summary {
	return Summary{Year: year, Title: Title(year), State: StateFailed}
}

// Fetcher retrieves the summary for a year.
type Fetcher interface {
	Fetch(ctx context.Context, year int) (Summary, error)
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context, year int) (Summary, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, year int) (Summary, error) { return f(ctx, year) }

// Disabled is a Fetcher for offline use; every year has no summary.
type Disabled struct{}

// Fetch returns a ready summary without an extract.
func (Disabled) Fetch(_ context.Context, year int) (Summary, error) {
	return Summary{Year: year, Title: Title(year), State: StateReady}, nil
}
