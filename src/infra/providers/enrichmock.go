package providers

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/absra47/song-managment/src/features/config"
)

// enrichFixture is one canned gateway answer.
type enrichFixture struct {
	BPM           int
	Mood          string
	EnrichedGenre string
}

// fixtures is the canned catalog of well-known songs the mock gateway
// recognizes, keyed by lowercased "title|artist".
var fixtures = map[string]enrichFixture{
	"bohemian rhapsody|queen":     {BPM: 144, Mood: "Epic", EnrichedGenre: "Progressive Rock"},
	"imagine|john lennon":         {BPM: 75, Mood: "Peaceful", EnrichedGenre: "Soft Rock"},
	"shape of my heart|sting":     {BPM: 90, Mood: "Melancholic", EnrichedGenre: "Acoustic Pop"},
	"billie jean|michael jackson": {BPM: 117, Mood: "Funky", EnrichedGenre: "Pop/R&B"},
}

// MockEnrichmentProvider simulates a slow external metadata gateway. It
// sleeps a few seconds per lookup and only knows a handful of songs, which
// is enough to exercise the whole detached enrichment path without a real
// upstream.
type MockEnrichmentProvider struct {
	config   *config.Manager
	minDelay time.Duration
	maxDelay time.Duration
}

// NewMockEnrichmentProvider creates a new mock enrichment provider.
func NewMockEnrichmentProvider(cfgManager *config.Manager) *MockEnrichmentProvider {
	return &MockEnrichmentProvider{
		config:   cfgManager,
		minDelay: 2 * time.Second,
		maxDelay: 5 * time.Second,
	}
}

// FetchMetadata returns canned metadata after a simulated network delay.
// Unknown songs return (nil, nil). The delay is interruptible through ctx.
func (p *MockEnrichmentProvider) FetchMetadata(ctx context.Context, songID int64, title, artist string) (map[string]any, error) {
	delay := p.minDelay
	if p.maxDelay > p.minDelay {
		delay += time.Duration(rand.Int63n(int64(p.maxDelay - p.minDelay)))
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, fmt.Errorf("enrichment lookup aborted: %w", ctx.Err())
	}

	key := fixtureKey(title, artist)
	fixture, ok := fixtures[key]
	if !ok {
		return nil, nil
	}

	return map[string]any{
		"bpm":            fixture.BPM,
		"mood":           fixture.Mood,
		"enriched_genre": fixture.EnrichedGenre,
	}, nil
}

func fixtureKey(title, artist string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(artist))
}

func (p *MockEnrichmentProvider) Name() string    { return "enrichmock" }
func (p *MockEnrichmentProvider) IsEnabled() bool { return p.config.Get().Enrichment.Enabled }
