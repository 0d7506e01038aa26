package enrichment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/absra47/song-managment/src/features/config"
	"github.com/absra47/song-managment/src/features/jobs"
	"github.com/absra47/song-managment/src/features/metrics"
	"github.com/absra47/song-managment/src/song"
)

// MockProvider returns scripted metadata and counts gateway calls.
type MockProvider struct {
	calls   int
	fields  map[string]any
	err     error
	enabled bool
}

func (m *MockProvider) FetchMetadata(ctx context.Context, songID int64, title, artist string) (map[string]any, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.fields, nil
}

func (m *MockProvider) Name() string    { return "mock" }
func (m *MockProvider) IsEnabled() bool { return m.enabled }

// MockCatalog implements the pieces of song.Catalog the enrichment flow
// touches and records every metadata write.
type MockCatalog struct {
	song.Catalog
	songs   map[int64]*song.Song
	applied []song.MetadataUpdate
}

func (m *MockCatalog) GetSong(ctx context.Context, id int64) (*song.Song, error) {
	if s, ok := m.songs[id]; ok {
		return s, nil
	}
	return nil, song.ErrNotFound
}

func (m *MockCatalog) ApplyMetadata(ctx context.Context, id int64, update song.MetadataUpdate) (*song.Song, error) {
	s, ok := m.songs[id]
	if !ok {
		return nil, song.ErrNotFound
	}
	m.applied = append(m.applied, update)
	update.Apply(s)
	return s, nil
}

func newTestTask(catalog song.Catalog, provider Provider) *EnrichTask {
	manager := config.NewManager(&config.Config{
		Enrichment: config.Enrichment{
			Enabled:        true,
			TimeoutSeconds: 30,
		},
	})
	return NewEnrichTask(catalog, provider, manager, metrics.New())
}

func newTestJob(songID any) *jobs.Job {
	return &jobs.Job{
		ID:       "test-job",
		Type:     JobType,
		Metadata: map[string]any{"song_id": songID},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func noProgress(int, string) {}

func TestExecuteAppliesRecognizedFields(t *testing.T) {
	catalog := &MockCatalog{songs: map[int64]*song.Song{
		7: {ID: 7, Title: "Imagine", Artist: "John Lennon", Genre: "Rock"},
	}}
	provider := &MockProvider{enabled: true, fields: map[string]any{
		"bpm":            75,
		"mood":           "Peaceful",
		"enriched_genre": "Soft Rock",
	}}
	task := newTestTask(catalog, provider)

	stats, err := task.Execute(context.Background(), newTestJob(int64(7)), noProgress)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if stats["matched"] != true {
		t.Errorf("Expected matched=true, got %v", stats["matched"])
	}

	updated := catalog.songs[7]
	if updated.BPM == nil || *updated.BPM != 75 {
		t.Errorf("Expected BPM 75, got %v", updated.BPM)
	}
	if updated.Mood == nil || *updated.Mood != "Peaceful" {
		t.Errorf("Expected mood Peaceful, got %v", updated.Mood)
	}
	if updated.EnrichedGenre == nil || *updated.EnrichedGenre != "Soft Rock" {
		t.Errorf("Expected enriched genre Soft Rock, got %v", updated.EnrichedGenre)
	}
	if updated.Genre != "Rock" {
		t.Errorf("Original genre should be untouched, got %q", updated.Genre)
	}
}

func TestExecuteSkipsUnknownFields(t *testing.T) {
	catalog := &MockCatalog{songs: map[int64]*song.Song{
		1: {ID: 1, Title: "Bohemian Rhapsody", Artist: "Queen"},
	}}
	provider := &MockProvider{enabled: true, fields: map[string]any{
		"bpm":            144,
		"mood":           "Epic",
		"enriched_genre": "Progressive Rock",
		"unknown_field":  "ignored",
	}}
	task := newTestTask(catalog, provider)

	stats, err := task.Execute(context.Background(), newTestJob(int64(1)), noProgress)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if stats["skipped_fields"] != 1 {
		t.Errorf("Expected 1 skipped field, got %v", stats["skipped_fields"])
	}

	updated := catalog.songs[1]
	if updated.BPM == nil || *updated.BPM != 144 {
		t.Errorf("Expected BPM 144, got %v", updated.BPM)
	}
	if updated.Mood == nil || *updated.Mood != "Epic" {
		t.Errorf("Expected mood Epic, got %v", updated.Mood)
	}
}

func TestExecuteSongDeletedBeforeRun(t *testing.T) {
	catalog := &MockCatalog{songs: map[int64]*song.Song{}}
	provider := &MockProvider{enabled: true, fields: map[string]any{"bpm": 120}}
	task := newTestTask(catalog, provider)

	_, err := task.Execute(context.Background(), newTestJob(int64(99)), noProgress)
	if err == nil {
		t.Fatal("Expected an error for a deleted song")
	}
	if provider.calls != 0 {
		t.Errorf("Gateway should not be called for a missing song, got %d calls", provider.calls)
	}
	if len(catalog.applied) != 0 {
		t.Errorf("No metadata should be written for a missing song, got %d writes", len(catalog.applied))
	}
}

func TestExecuteNoMatchWritesNothing(t *testing.T) {
	catalog := &MockCatalog{songs: map[int64]*song.Song{
		3: {ID: 3, Title: "Obscure B-Side", Artist: "Nobody"},
	}}
	provider := &MockProvider{enabled: true, fields: nil}
	task := newTestTask(catalog, provider)

	stats, err := task.Execute(context.Background(), newTestJob(int64(3)), noProgress)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if stats["matched"] != false {
		t.Errorf("Expected matched=false, got %v", stats["matched"])
	}
	if len(catalog.applied) != 0 {
		t.Errorf("No metadata should be written on a miss, got %d writes", len(catalog.applied))
	}
}

func TestExecuteOnlyUnknownFieldsWritesNothing(t *testing.T) {
	catalog := &MockCatalog{songs: map[int64]*song.Song{
		4: {ID: 4, Title: "Billie Jean", Artist: "Michael Jackson"},
	}}
	provider := &MockProvider{enabled: true, fields: map[string]any{
		"tempo": 117, "vibe": "Funky",
	}}
	task := newTestTask(catalog, provider)

	stats, err := task.Execute(context.Background(), newTestJob(int64(4)), noProgress)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if stats["matched"] != false {
		t.Errorf("Expected matched=false, got %v", stats["matched"])
	}
	if len(catalog.applied) != 0 {
		t.Errorf("Unrecognized fields must not reach the catalog, got %d writes", len(catalog.applied))
	}
}

func TestExecuteGatewayFailure(t *testing.T) {
	catalog := &MockCatalog{songs: map[int64]*song.Song{
		5: {ID: 5, Title: "Imagine", Artist: "John Lennon"},
	}}
	provider := &MockProvider{enabled: true, err: errors.New("gateway down")}
	task := newTestTask(catalog, provider)

	_, err := task.Execute(context.Background(), newTestJob(int64(5)), noProgress)
	if err == nil {
		t.Fatal("Expected an error when the gateway fails")
	}
	if len(catalog.applied) != 0 {
		t.Errorf("No metadata should be written when the gateway fails, got %d writes", len(catalog.applied))
	}
}

func TestExecuteProviderDisabledMidFlight(t *testing.T) {
	catalog := &MockCatalog{songs: map[int64]*song.Song{
		6: {ID: 6, Title: "Imagine", Artist: "John Lennon"},
	}}
	provider := &MockProvider{enabled: false, fields: map[string]any{"bpm": 75}}
	task := newTestTask(catalog, provider)

	_, err := task.Execute(context.Background(), newTestJob(int64(6)), noProgress)
	if err == nil {
		t.Fatal("Expected an error when the provider is disabled")
	}
	if provider.calls != 0 {
		t.Errorf("Disabled provider must not be called, got %d calls", provider.calls)
	}
}

func TestExecuteInvalidMetadata(t *testing.T) {
	task := newTestTask(&MockCatalog{}, &MockProvider{enabled: true})

	if _, err := task.Execute(context.Background(), newTestJob("not-a-number"), noProgress); err == nil {
		t.Fatal("Expected an error for a non-numeric song id")
	}
}

func TestExecuteAcceptsFloatSongID(t *testing.T) {
	catalog := &MockCatalog{songs: map[int64]*song.Song{
		2: {ID: 2, Title: "Shape of My Heart", Artist: "Sting"},
	}}
	provider := &MockProvider{enabled: true, fields: map[string]any{"bpm": 90}}
	task := newTestTask(catalog, provider)

	// Job metadata round-tripped through JSON arrives as float64.
	if _, err := task.Execute(context.Background(), newTestJob(float64(2)), noProgress); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if catalog.songs[2].BPM == nil || *catalog.songs[2].BPM != 90 {
		t.Errorf("Expected BPM 90, got %v", catalog.songs[2].BPM)
	}
}
