package lyrics

import (
	"context"
	"errors"
)

// ErrNotFound means the provider explicitly reported that no lyrics exist
// for the song.
var ErrNotFound = errors.New("lyrics not found")

// ErrUpstream means the provider could not be reached or answered with
// something we could not understand.
var ErrUpstream = errors.New("lyrics provider unavailable")

// Provider defines the interface for fetching lyrics from external services.
type Provider interface {
	// FetchLyrics looks up lyrics by artist and title. It returns
	// ErrNotFound when the provider knows the song has no lyrics and
	// ErrUpstream for transport or decoding failures.
	FetchLyrics(ctx context.Context, artist, title string) (string, error)

	// Name returns the provider name.
	Name() string

	// IsEnabled returns whether the provider is enabled.
	IsEnabled() bool
}
