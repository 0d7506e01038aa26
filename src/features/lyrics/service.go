package lyrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/absra47/song-managment/src/features/config"
	"github.com/absra47/song-managment/src/features/metrics"
	"github.com/absra47/song-managment/src/song"
	"github.com/gosimple/unidecode"
)

// Service resolves lyrics through the TTL cache first and the external
// provider second.
type Service struct {
	cache    *Cache
	provider Provider
	catalog  song.Catalog
	config   *config.Manager
	metrics  *metrics.Metrics
}

// NewService creates a new lyrics service. The cache dimensions come from
// config and are fixed for the life of the process.
func NewService(provider Provider, catalog song.Catalog, cfgManager *config.Manager, m *metrics.Metrics) *Service {
	cfg := cfgManager.Get().Lyrics
	return &Service{
		cache:    NewCache(time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.CacheMaxSize),
		provider: provider,
		catalog:  catalog,
		config:   cfgManager,
		metrics:  m,
	}
}

// cacheKey normalizes artist and title into a single cache key. The
// normalization is a caching concern only; the provider always receives the
// caller's original strings.
func cacheKey(artist, title string) string {
	normalize := func(s string) string {
		return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(s)))
	}
	return normalize(artist) + "|" + normalize(title)
}

// Resolve returns the lyrics for (artist, title). A cache hit never touches
// the network. On a miss the provider is called with a bounded timeout;
// only successful responses are cached, so a provider correction becomes
// visible without waiting a full TTL.
func (s *Service) Resolve(ctx context.Context, artist, title string) (string, error) {
	key := cacheKey(artist, title)

	if text, ok := s.cache.Get(key); ok {
		slog.Debug("Lyrics served from cache", "artist", artist, "title", title)
		s.metrics.LyricsCacheHits.Inc()
		return text, nil
	}
	if !s.provider.IsEnabled() {
		return "", fmt.Errorf("provider %q is disabled: %w", s.provider.Name(), ErrUpstream)
	}
	s.metrics.LyricsCacheMisses.Inc()

	timeout := time.Duration(s.config.Get().Lyrics.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slog.Info("Fetching lyrics from provider", "provider", s.provider.Name(), "artist", artist, "title", title)
	text, err := s.provider.FetchLyrics(ctx, artist, title)
	switch {
	case errors.Is(err, ErrNotFound):
		slog.Info("Lyrics not found", "artist", artist, "title", title)
		s.metrics.LyricsGateway.WithLabelValues(metrics.LyricsOutcomeNotFound).Inc()
		return "", err
	case err != nil:
		slog.Warn("Lyrics provider failed", "provider", s.provider.Name(), "artist", artist, "title", title, "error", err)
		s.metrics.LyricsGateway.WithLabelValues(metrics.LyricsOutcomeUpstream).Inc()
		if errors.Is(err, ErrUpstream) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.metrics.LyricsGateway.WithLabelValues(metrics.LyricsOutcomeFound).Inc()
	s.cache.Put(key, text)
	slog.Info("Fetched and cached lyrics", "artist", artist, "title", title, "lyricsLength", len(text))
	return text, nil
}

// ResolveForSong resolves lyrics for a stored song by id.
func (s *Service) ResolveForSong(ctx context.Context, id int64) (*song.Song, string, error) {
	record, err := s.catalog.GetSong(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get song: %w", err)
	}

	text, err := s.Resolve(ctx, record.Artist, record.Title)
	if err != nil {
		return record, "", err
	}
	return record, text, nil
}
