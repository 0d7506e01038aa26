package enrichment

import (
	"context"
)

// Provider defines the interface for external metadata enrichment sources.
type Provider interface {
	// FetchMetadata looks up enriched metadata for a song. It returns a
	// field mapping on a match and (nil, nil) when the source knows
	// nothing about the song; the latter is a normal outcome, not an
	// error. Calls may take multiple seconds.
	FetchMetadata(ctx context.Context, songID int64, title, artist string) (map[string]any, error)

	// Name returns the provider name.
	Name() string

	// IsEnabled returns whether the provider is enabled.
	IsEnabled() bool
}
